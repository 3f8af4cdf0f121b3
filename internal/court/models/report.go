package models

import (
	"strings"
	"time"

	id "gavel/pkg/domain"
	dErrors "gavel/pkg/domain-errors"
)

// ReportType classifies a case report.
type ReportType string

const (
	ReportFinal   ReportType = "final"
	ReportInterim ReportType = "interim"
	ReportAppeal  ReportType = "appeal"
)

// ParseReportType validates a report type string.
func ParseReportType(s string) (ReportType, error) {
	t := ReportType(strings.TrimSpace(strings.ToLower(s)))
	switch t {
	case ReportFinal, ReportInterim, ReportAppeal:
		return t, nil
	}
	return "", dErrors.New(dErrors.CodeInvalidInput, "unknown report type")
}

// CaseReport is a written report filed against a case, approved by a clerk.
type CaseReport struct {
	ID              id.CaseReportID `json:"id"`
	CaseID          id.CaseID       `json:"case_id"`
	Type            ReportType      `json:"type"`
	Title           string          `json:"title"`
	Content         string          `json:"content"`
	Recommendations string          `json:"recommendations,omitempty"`
	Priority        Priority        `json:"priority"`
	SubmittedBy     id.UserID       `json:"submitted_by"`
	SubmissionDate  time.Time       `json:"submission_date"`
	Approved        bool            `json:"approved"`
	ApprovedBy      *id.UserID      `json:"approved_by,omitempty"`
	ApprovedAt      *time.Time      `json:"approved_at,omitempty"`
}

// Approve records clerk sign-off. Approving twice is rejected so the
// original approver stays on record.
func (r *CaseReport) Approve(clerkID id.UserID, now time.Time) error {
	if r.Approved {
		return dErrors.New(dErrors.CodeConflict, "report is already approved")
	}
	r.Approved = true
	r.ApprovedBy = &clerkID
	r.ApprovedAt = &now
	return nil
}
