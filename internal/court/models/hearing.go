package models

import (
	"strings"
	"time"

	id "gavel/pkg/domain"
	dErrors "gavel/pkg/domain-errors"
)

// HearingType classifies a scheduled hearing.
type HearingType string

const (
	HearingPreliminary HearingType = "preliminary"
	HearingTrial       HearingType = "trial"
	HearingSentencing  HearingType = "sentencing"
	HearingAppeal      HearingType = "appeal"
	HearingReview      HearingType = "review"
)

// ParseHearingType validates a hearing type string.
func ParseHearingType(s string) (HearingType, error) {
	t := HearingType(strings.TrimSpace(strings.ToLower(s)))
	switch t {
	case HearingPreliminary, HearingTrial, HearingSentencing, HearingAppeal, HearingReview:
		return t, nil
	}
	return "", dErrors.New(dErrors.CodeInvalidInput, "unknown hearing type")
}

// Hearing is a scheduled court session for a case.
type Hearing struct {
	ID                 id.HearingID `json:"id"`
	CaseID             id.CaseID    `json:"case_id"`
	Type               HearingType  `json:"type"`
	ScheduledAt        time.Time    `json:"scheduled_at"`
	DurationMinutes    int          `json:"duration_minutes"`
	Courtroom          string       `json:"courtroom"`
	Location           string       `json:"location,omitempty"`
	JudgeID            id.UserID    `json:"judge_id"`
	ClerkID            *id.UserID   `json:"clerk_id,omitempty"`
	CreatedBy          id.UserID    `json:"created_by"`
	Notes              string       `json:"notes,omitempty"`
	Outcome            string       `json:"outcome,omitempty"`
	NextHearingAt      *time.Time   `json:"next_hearing_at,omitempty"`
	Completed          bool         `json:"completed"`
	CompletedAt        *time.Time   `json:"completed_at,omitempty"`
	CompletedBy        *id.UserID   `json:"completed_by,omitempty"`
	Cancelled          bool         `json:"cancelled"`
	CancellationReason string       `json:"cancellation_reason,omitempty"`
	CreatedAt          time.Time    `json:"created_at"`
	UpdatedAt          time.Time    `json:"updated_at"`
}

// Open reports whether the hearing can still be completed or cancelled.
func (h *Hearing) Open() bool { return !h.Completed && !h.Cancelled }

// Complete records the outcome of a held hearing.
func (h *Hearing) Complete(userID id.UserID, outcome string, nextHearingAt *time.Time, now time.Time) error {
	if !h.Open() {
		return dErrors.New(dErrors.CodeInvariantViolation, "hearing is already completed or cancelled")
	}
	h.Completed = true
	h.CompletedAt = &now
	h.CompletedBy = &userID
	h.Outcome = outcome
	h.NextHearingAt = nextHearingAt
	h.UpdatedAt = now
	return nil
}

// Cancel marks the hearing cancelled with a reason.
func (h *Hearing) Cancel(reason string, now time.Time) error {
	if !h.Open() {
		return dErrors.New(dErrors.CodeInvariantViolation, "hearing is already completed or cancelled")
	}
	h.Cancelled = true
	h.CancellationReason = reason
	h.UpdatedAt = now
	return nil
}
