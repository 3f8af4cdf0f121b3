package audit

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	id "gavel/pkg/domain"
	"gavel/pkg/requestcontext"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
}

type AuditSuite struct {
	suite.Suite
	store     *InMemoryStore
	publisher *Publisher
}

func TestAuditSuite(t *testing.T) {
	suite.Run(t, new(AuditSuite))
}

func (s *AuditSuite) SetupTest() {
	s.store = NewInMemoryStore()
	s.publisher = NewPublisher(16, testLogger())
}

func (s *AuditSuite) drainOne() Event {
	select {
	case e := <-s.publisher.Inbox():
		return e
	case <-time.After(time.Second):
		s.FailNow("no event in inbox")
		return Event{}
	}
}

func (s *AuditSuite) TestEmit_FillsRequestScopedFields() {
	userID := id.NewUserID()
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	ctx := context.Background()
	ctx = requestcontext.WithUserID(ctx, userID)
	ctx = requestcontext.WithRequestID(ctx, "req-42")
	ctx = requestcontext.WithClientIP(ctx, "10.1.2.3")
	ctx = requestcontext.WithUserAgent(ctx, "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36")
	ctx = requestcontext.WithTime(ctx, now)

	s.publisher.Emit(ctx, Event{
		Action:      ActionAssign,
		Entity:      "case",
		Description: "case assigned to judge",
	})

	e := s.drainOne()
	s.Equal(userID, e.UserID)
	s.Equal("req-42", e.RequestID)
	s.Equal("10.1.2.3", e.ClientIP)
	s.Equal(now, e.Timestamp)
	s.Equal("Linux x86_64", e.OS)
	s.Contains(e.Browser, "Chrome")
	s.False(e.ID.IsNil())
}

func (s *AuditSuite) TestEmit_FullInboxDropsInsteadOfBlocking() {
	small := NewPublisher(1, testLogger())
	ctx := context.Background()

	small.Emit(ctx, Event{Action: ActionView, Entity: "case"})
	// Second emit must return immediately even though nothing drains.
	done := make(chan struct{})
	go func() {
		small.Emit(ctx, Event{Action: ActionView, Entity: "case"})
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		s.FailNow("emit blocked on full inbox")
	}
}

func (s *AuditSuite) TestWorker_PersistsEvents() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	worker := NewWorker(s.store, s.publisher.Inbox(), testLogger())
	go func() { _ = worker.Run(ctx) }()

	s.publisher.Emit(ctx, Event{Action: ActionLogin, Entity: "session", Description: "user logged in"})
	s.publisher.Emit(ctx, Event{Action: ActionCreate, Entity: "case", Description: "case filed"})

	s.Eventually(func() bool {
		events, err := s.store.ListRecent(ctx, 10)
		return err == nil && len(events) == 2
	}, time.Second, 10*time.Millisecond)

	events, err := s.store.ListRecent(ctx, 10)
	s.Require().NoError(err)
	// Newest first.
	s.Equal(ActionCreate, events[0].Action)
	s.Equal(ActionLogin, events[1].Action)
}

func TestInMemoryStore_ListByUser(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()
	alice := id.NewUserID()
	bob := id.NewUserID()

	require.NoError(t, store.Append(ctx, Event{ID: id.NewEventID(), UserID: alice, Action: ActionLogin}))
	require.NoError(t, store.Append(ctx, Event{ID: id.NewEventID(), UserID: bob, Action: ActionLogin}))
	require.NoError(t, store.Append(ctx, Event{ID: id.NewEventID(), UserID: alice, Action: ActionLogout}))

	events, err := store.ListByUser(ctx, alice)
	require.NoError(t, err)
	assert.Len(t, events, 2)
}

func TestParseUserAgent_EmptyIsNoop(t *testing.T) {
	e := Event{}
	e.ParseUserAgent()
	assert.Empty(t, e.Browser)
	assert.Empty(t, e.OS)
}
