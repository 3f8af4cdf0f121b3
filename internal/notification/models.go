// Package notification delivers in-app notifications to staff and lets
// recipients read and acknowledge them.
package notification

import (
	"time"

	id "gavel/pkg/domain"
)

// Type classifies what triggered a notification.
type Type string

const (
	TypeCaseAssigned    Type = "case_assigned"
	TypeReportSubmitted Type = "report_submitted"
	TypeUrgentReport    Type = "urgent_report"
	TypeReleaseAlert    Type = "release_alert"
	TypeCaseUpdate      Type = "case_update"
	TypeSystem          Type = "system"
)

// Priority orders notifications in the recipient's list.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Notification is a message delivered to a single recipient. CaseID and
// ReportID link back to the triggering entity when there is one.
type Notification struct {
	ID          id.NotificationID `json:"id"`
	RecipientID id.UserID         `json:"recipient_id"`
	SenderID    id.UserID         `json:"sender_id,omitzero"`
	Title       string            `json:"title"`
	Message     string            `json:"message"`
	Type        Type              `json:"type"`
	Priority    Priority          `json:"priority"`
	Read        bool              `json:"read"`
	ReadAt      *time.Time        `json:"read_at,omitempty"`
	CaseID      *id.CaseID        `json:"case_id,omitempty"`
	ReportID    string            `json:"report_id,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
}
