package models

import (
	"strings"
	"time"

	id "gavel/pkg/domain"
	dErrors "gavel/pkg/domain-errors"
)

// InmateReportType classifies an inmate report.
type InmateReportType string

const (
	InmateReportRegular      InmateReportType = "regular"
	InmateReportUrgent       InmateReportType = "urgent"
	InmateReportDisciplinary InmateReportType = "disciplinary"
	InmateReportMedical      InmateReportType = "medical"
	InmateReportBehavioral   InmateReportType = "behavioral"
	InmateReportIncident     InmateReportType = "incident"
)

// ParseInmateReportType validates a report type string.
func ParseInmateReportType(s string) (InmateReportType, error) {
	t := InmateReportType(strings.TrimSpace(strings.ToLower(s)))
	switch t {
	case InmateReportRegular, InmateReportUrgent, InmateReportDisciplinary,
		InmateReportMedical, InmateReportBehavioral, InmateReportIncident:
		return t, nil
	}
	return "", dErrors.New(dErrors.CodeInvalidInput, "unknown inmate report type")
}

// ReportStatus tracks a report through review.
type ReportStatus string

const (
	ReportPending  ReportStatus = "pending"
	ReportReviewed ReportStatus = "reviewed"
	ReportApproved ReportStatus = "approved"
	ReportRejected ReportStatus = "rejected"
)

// ParseReportStatus validates a report status string.
func ParseReportStatus(s string) (ReportStatus, error) {
	st := ReportStatus(strings.TrimSpace(strings.ToLower(s)))
	switch st {
	case ReportPending, ReportReviewed, ReportApproved, ReportRejected:
		return st, nil
	}
	return "", dErrors.New(dErrors.CodeInvalidInput, "unknown report status")
}

// ReportPriority orders reports in review queues.
type ReportPriority string

const (
	ReportPriorityLow    ReportPriority = "low"
	ReportPriorityMedium ReportPriority = "medium"
	ReportPriorityHigh   ReportPriority = "high"
	ReportPriorityUrgent ReportPriority = "urgent"
)

// ParseReportPriority validates a priority string, defaulting empty to
// medium.
func ParseReportPriority(s string) (ReportPriority, error) {
	if strings.TrimSpace(s) == "" {
		return ReportPriorityMedium, nil
	}
	p := ReportPriority(strings.TrimSpace(strings.ToLower(s)))
	switch p {
	case ReportPriorityLow, ReportPriorityMedium, ReportPriorityHigh, ReportPriorityUrgent:
		return p, nil
	}
	return "", dErrors.New(dErrors.CodeInvalidInput, "unknown report priority")
}

// InmateReport is an officer's written report about an inmate.
type InmateReport struct {
	ID              id.InmateReportID `json:"id"`
	InmateID        id.InmateID       `json:"inmate_id"`
	Type            InmateReportType  `json:"type"`
	Title           string            `json:"title"`
	Content         string            `json:"content"`
	Recommendations string            `json:"recommendations,omitempty"`
	Priority        ReportPriority    `json:"priority"`
	SubmittedBy     id.UserID         `json:"submitted_by"`
	SubmissionDate  time.Time         `json:"submission_date"`
	IncidentAt      *time.Time        `json:"incident_at,omitempty"`
	Status          ReportStatus      `json:"status"`
	Reviewed        bool              `json:"reviewed"`
	ReviewedBy      *id.UserID        `json:"reviewed_by,omitempty"`
	ReviewedAt      *time.Time        `json:"reviewed_at,omitempty"`
	ReviewNotes     string            `json:"review_notes,omitempty"`
	ActionRequired  bool              `json:"action_required"`
	ActionTaken     string            `json:"action_taken,omitempty"`
	ActionTakenAt   *time.Time        `json:"action_taken_at,omitempty"`
	FollowUpAt      *time.Time        `json:"follow_up_at,omitempty"`
}

// Urgent reports whether the report needs immediate attention.
func (r *InmateReport) Urgent() bool {
	return r.Type == InmateReportUrgent || r.Priority == ReportPriorityUrgent
}

// Review records the reviewer's verdict and moves the report out of pending.
func (r *InmateReport) Review(reviewerID id.UserID, status ReportStatus, notes string, now time.Time) error {
	if status == ReportPending {
		return dErrors.New(dErrors.CodeValidation, "review cannot return a report to pending")
	}
	r.Status = status
	r.Reviewed = true
	r.ReviewedBy = &reviewerID
	r.ReviewedAt = &now
	r.ReviewNotes = notes
	return nil
}
