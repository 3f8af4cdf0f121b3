// Package audit records who did what across the system. Services emit
// events to an async publisher; a worker drains them into the configured
// sink (memory, PostgreSQL, or Kafka).
package audit

import (
	"time"

	"github.com/mssola/useragent"

	id "gavel/pkg/domain"
)

// Action classifies an audited operation.
type Action string

const (
	ActionCreate  Action = "create"
	ActionUpdate  Action = "update"
	ActionDelete  Action = "delete"
	ActionView    Action = "view"
	ActionLogin   Action = "login"
	ActionLogout  Action = "logout"
	ActionAssign  Action = "assign"
	ActionSubmit  Action = "submit"
	ActionApprove Action = "approve"
	ActionReject  Action = "reject"
)

// Event is one audit log entry.
type Event struct {
	ID          id.EventID `json:"id"`
	UserID      id.UserID  `json:"user_id"`
	Action      Action     `json:"action"`
	Entity      string     `json:"entity"`
	EntityID    string     `json:"entity_id,omitempty"`
	Description string     `json:"description"`
	ClientIP    string     `json:"client_ip,omitempty"`
	UserAgent   string     `json:"user_agent,omitempty"`
	Browser     string     `json:"browser,omitempty"`
	OS          string     `json:"os,omitempty"`
	RequestID   string     `json:"request_id,omitempty"`
	Timestamp   time.Time  `json:"timestamp"`
}

// ParseUserAgent fills Browser and OS from the raw User-Agent header so the
// audit trail stays readable without re-parsing on every query.
func (e *Event) ParseUserAgent() {
	if e.UserAgent == "" {
		return
	}
	ua := useragent.New(e.UserAgent)
	name, version := ua.Browser()
	if name != "" {
		e.Browser = name
		if version != "" {
			e.Browser += " " + version
		}
	}
	e.OS = ua.OS()
}
