// Package models defines the prison aggregates: inmates, inmate reports,
// visitor logs, and rehabilitation programs.
package models

import (
	"strings"
	"time"

	id "gavel/pkg/domain"
	dErrors "gavel/pkg/domain-errors"
)

// InmateStatus tracks an inmate's custody state.
type InmateStatus string

const (
	InmateActive      InmateStatus = "active"
	InmateReleased    InmateStatus = "released"
	InmateTransferred InmateStatus = "transferred"
	InmateDeceased    InmateStatus = "deceased"
	InmateEscaped     InmateStatus = "escaped"
)

// ParseInmateStatus validates a status string.
func ParseInmateStatus(s string) (InmateStatus, error) {
	st := InmateStatus(strings.TrimSpace(strings.ToLower(s)))
	switch st {
	case InmateActive, InmateReleased, InmateTransferred, InmateDeceased, InmateEscaped:
		return st, nil
	}
	return "", dErrors.New(dErrors.CodeInvalidInput, "unknown inmate status")
}

// SentenceKind classifies the custodial sentence an inmate is serving.
type SentenceKind string

const (
	SentenceKindPrison           SentenceKind = "prison"
	SentenceKindProbation        SentenceKind = "probation"
	SentenceKindFine             SentenceKind = "fine"
	SentenceKindCommunityService SentenceKind = "community_service"
	SentenceKindLife             SentenceKind = "life"
	SentenceKindDeath            SentenceKind = "death"
)

// ParseSentenceKind validates a sentence kind string.
func ParseSentenceKind(s string) (SentenceKind, error) {
	k := SentenceKind(strings.TrimSpace(strings.ToLower(s)))
	switch k {
	case SentenceKindPrison, SentenceKindProbation, SentenceKindFine,
		SentenceKindCommunityService, SentenceKindLife, SentenceKindDeath:
		return k, nil
	}
	return "", dErrors.New(dErrors.CodeInvalidInput, "unknown sentence kind")
}

// EmergencyContact is the person to notify about an inmate.
type EmergencyContact struct {
	Name         string `json:"name,omitempty"`
	Phone        string `json:"phone,omitempty"`
	Relationship string `json:"relationship,omitempty"`
}

// SentenceTerm is the custodial term in years, months, and days.
type SentenceTerm struct {
	Years  int `json:"years,omitempty"`
	Months int `json:"months,omitempty"`
	Days   int `json:"days,omitempty"`
}

// Inmate is a person in custody.
//
// Invariants:
//   - InmateNumber and IdentificationNumber are unique
//   - ActualReleaseDate is set exactly when status is released
//   - AssignedOfficer gates the release operation
type Inmate struct {
	ID                   id.InmateID      `json:"id"`
	InmateNumber         string           `json:"inmate_number"`
	FirstName            string           `json:"first_name"`
	LastName             string           `json:"last_name"`
	DateOfBirth          time.Time        `json:"date_of_birth"`
	Gender               string           `json:"gender,omitempty"`
	Nationality          string           `json:"nationality,omitempty"`
	IdentificationNumber string           `json:"identification_number"`
	EmergencyContact     EmergencyContact `json:"emergency_contact"`
	CaseNumber           string           `json:"case_number,omitempty"`
	ConvictionDate       *time.Time       `json:"conviction_date,omitempty"`
	CrimeDescription     string           `json:"crime_description,omitempty"`
	SentenceKind         SentenceKind     `json:"sentence_kind"`
	SentenceTerm         SentenceTerm     `json:"sentence_term"`
	FineAmount           float64          `json:"fine_amount,omitempty"`
	AdmissionDate        time.Time        `json:"admission_date"`
	ExpectedReleaseDate  *time.Time       `json:"expected_release_date,omitempty"`
	ActualReleaseDate    *time.Time       `json:"actual_release_date,omitempty"`
	Cell                 string           `json:"cell,omitempty"`
	Block                string           `json:"block,omitempty"`
	AssignedOfficer      *id.UserID       `json:"assigned_officer,omitempty"`
	AssignedAt           *time.Time       `json:"assigned_at,omitempty"`
	AssignmentReason     string           `json:"assignment_reason,omitempty"`
	AssignmentType       string           `json:"assignment_type,omitempty"`
	SpecialInstructions  string           `json:"special_instructions,omitempty"`
	Status               InmateStatus     `json:"status"`
	BehaviorRating       int              `json:"behavior_rating,omitempty"`
	MedicalConditions    string           `json:"medical_conditions,omitempty"`
	LastHealthCheck      *time.Time       `json:"last_health_check,omitempty"`
	CreatedAt            time.Time        `json:"created_at"`
	UpdatedAt            time.Time        `json:"updated_at"`
}

// FullName joins first and last name for display.
func (i *Inmate) FullName() string {
	return strings.TrimSpace(i.FirstName + " " + i.LastName)
}

// IsAssignedTo reports whether the officer holds custody of this inmate.
func (i *Inmate) IsAssignedTo(officerID id.UserID) bool {
	return i.AssignedOfficer != nil && *i.AssignedOfficer == officerID
}

// DaysUntilRelease returns whole days until the expected release, negative
// when overdue. Returns false when no release date is set or the inmate has
// already left custody.
func (i *Inmate) DaysUntilRelease(now time.Time) (int, bool) {
	if i.ExpectedReleaseDate == nil || i.Status != InmateActive {
		return 0, false
	}
	days := int(i.ExpectedReleaseDate.Sub(now).Hours() / 24)
	return days, true
}

// ReleaseApproaching reports whether the expected release falls within the
// window.
func (i *Inmate) ReleaseApproaching(now time.Time, withinDays int) bool {
	days, ok := i.DaysUntilRelease(now)
	return ok && days >= 0 && days <= withinDays
}

// AssignOfficer places the inmate under an officer's custody.
func (i *Inmate) AssignOfficer(officerID id.UserID, reason, assignmentType, instructions string, now time.Time) {
	i.AssignedOfficer = &officerID
	i.AssignedAt = &now
	i.AssignmentReason = reason
	i.AssignmentType = assignmentType
	i.SpecialInstructions = instructions
	i.UpdatedAt = now
}

// Release moves an active inmate out of custody.
func (i *Inmate) Release(now time.Time) error {
	if i.Status != InmateActive {
		return dErrors.New(dErrors.CodeInvariantViolation, "only active inmates can be released")
	}
	i.Status = InmateReleased
	i.ActualReleaseDate = &now
	i.UpdatedAt = now
	return nil
}
