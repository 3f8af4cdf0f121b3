// Package revocation tracks logged-out token JTIs until their natural
// expiry, so stolen tokens die with the session.
package revocation

import (
	"context"
	"sync"
	"time"
)

// InMemoryTRL is the single-instance token revocation list. Suitable for
// development and tests; distributed deployments use RedisTRL.
type InMemoryTRL struct {
	mu      sync.RWMutex
	revoked map[string]time.Time
}

// NewInMemoryTRL constructs an empty revocation list.
func NewInMemoryTRL() *InMemoryTRL {
	return &InMemoryTRL{revoked: make(map[string]time.Time)}
}

// RevokeToken records a JTI until its TTL elapses.
func (t *InMemoryTRL) RevokeToken(_ context.Context, jti string, ttl time.Duration) error {
	if jti == "" {
		return nil
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.revoked[jti] = time.Now().Add(ttl)
	return nil
}

// IsTokenRevoked reports whether the JTI is currently revoked. Expired
// entries are pruned lazily.
func (t *InMemoryTRL) IsTokenRevoked(_ context.Context, jti string) (bool, error) {
	t.mu.RLock()
	expiry, ok := t.revoked[jti]
	t.mu.RUnlock()
	if !ok {
		return false, nil
	}
	if time.Now().After(expiry) {
		t.mu.Lock()
		delete(t.revoked, jti)
		t.mu.Unlock()
		return false, nil
	}
	return true, nil
}
