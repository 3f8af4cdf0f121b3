package models

import (
	"strings"
	"time"

	id "gavel/pkg/domain"
	dErrors "gavel/pkg/domain-errors"
)

// EvidenceType classifies how evidence was produced.
type EvidenceType string

const (
	EvidenceDocument EvidenceType = "document"
	EvidencePhoto    EvidenceType = "photo"
	EvidenceVideo    EvidenceType = "video"
	EvidenceAudio    EvidenceType = "audio"
	EvidencePhysical EvidenceType = "physical"
	EvidenceWitness  EvidenceType = "witness"
	EvidenceExpert   EvidenceType = "expert"
)

// ParseEvidenceType validates an evidence type string.
func ParseEvidenceType(s string) (EvidenceType, error) {
	t := EvidenceType(strings.TrimSpace(strings.ToLower(s)))
	switch t {
	case EvidenceDocument, EvidencePhoto, EvidenceVideo, EvidenceAudio,
		EvidencePhysical, EvidenceWitness, EvidenceExpert:
		return t, nil
	}
	return "", dErrors.New(dErrors.CodeInvalidInput, "unknown evidence type")
}

// Evidence is an item submitted in support of a case. Approved stays nil
// until the assigned judge reviews it.
type Evidence struct {
	ID             id.EvidenceID `json:"id"`
	CaseID         id.CaseID     `json:"case_id"`
	Type           EvidenceType  `json:"type"`
	Title          string        `json:"title"`
	Description    string        `json:"description,omitempty"`
	SubmittedBy    id.UserID     `json:"submitted_by"`
	SubmissionDate time.Time     `json:"submission_date"`
	Admissible     bool          `json:"admissible"`
	Approved       *bool         `json:"approved,omitempty"`
	ReviewedBy     *id.UserID    `json:"reviewed_by,omitempty"`
	ReviewedAt     *time.Time    `json:"reviewed_at,omitempty"`
	ReviewNotes    string        `json:"review_notes,omitempty"`
}

// Reviewed reports whether a judge has ruled on the item.
func (e *Evidence) Reviewed() bool { return e.Approved != nil }

// Review records the judge's ruling.
func (e *Evidence) Review(judgeID id.UserID, approved bool, notes string, now time.Time) {
	e.Approved = &approved
	e.Admissible = approved
	e.ReviewedBy = &judgeID
	e.ReviewedAt = &now
	e.ReviewNotes = notes
}
