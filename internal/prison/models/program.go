package models

import (
	"strings"
	"time"

	id "gavel/pkg/domain"
	dErrors "gavel/pkg/domain-errors"
)

// ProgramType classifies a rehabilitation program.
type ProgramType string

const (
	ProgramEducation  ProgramType = "education"
	ProgramVocational ProgramType = "vocational"
	ProgramCounseling ProgramType = "counseling"
	ProgramTherapy    ProgramType = "therapy"
	ProgramWork       ProgramType = "work"
	ProgramReligious  ProgramType = "religious"
	ProgramRecreation ProgramType = "recreation"
)

// ParseProgramType validates a program type string.
func ParseProgramType(s string) (ProgramType, error) {
	t := ProgramType(strings.TrimSpace(strings.ToLower(s)))
	switch t {
	case ProgramEducation, ProgramVocational, ProgramCounseling, ProgramTherapy,
		ProgramWork, ProgramReligious, ProgramRecreation:
		return t, nil
	}
	return "", dErrors.New(dErrors.CodeInvalidInput, "unknown program type")
}

// ProgramStatus tracks an enrollment through its life.
type ProgramStatus string

const (
	ProgramUpcoming  ProgramStatus = "upcoming"
	ProgramActive    ProgramStatus = "active"
	ProgramCompleted ProgramStatus = "completed"
	ProgramDropped   ProgramStatus = "dropped"
	ProgramSuspended ProgramStatus = "suspended"
)

// ParseProgramStatus validates a program status string.
func ParseProgramStatus(s string) (ProgramStatus, error) {
	st := ProgramStatus(strings.TrimSpace(strings.ToLower(s)))
	switch st {
	case ProgramUpcoming, ProgramActive, ProgramCompleted, ProgramDropped, ProgramSuspended:
		return st, nil
	}
	return "", dErrors.New(dErrors.CodeInvalidInput, "unknown program status")
}

// InmateProgram is one inmate's enrollment in a rehabilitation program.
type InmateProgram struct {
	ID                id.ProgramID  `json:"id"`
	InmateID          id.InmateID   `json:"inmate_id"`
	Name              string        `json:"name"`
	Type              ProgramType   `json:"type"`
	Description       string        `json:"description,omitempty"`
	StartDate         time.Time     `json:"start_date"`
	ExpectedEndDate   *time.Time    `json:"expected_end_date,omitempty"`
	ActualEndDate     *time.Time    `json:"actual_end_date,omitempty"`
	Status            ProgramStatus `json:"status"`
	ProgressPercent   int           `json:"progress_percent"`
	Instructor        string        `json:"instructor,omitempty"`
	Grade             string        `json:"grade,omitempty"`
	CertificateEarned bool          `json:"certificate_earned"`
	Notes             string        `json:"notes,omitempty"`
	EnrolledBy        id.UserID     `json:"enrolled_by"`
	CreatedAt         time.Time     `json:"created_at"`
	UpdatedAt         time.Time     `json:"updated_at"`
}

// SetProgress updates completion percentage; hitting 100 completes the
// program.
func (p *InmateProgram) SetProgress(percent int, now time.Time) error {
	if percent < 0 || percent > 100 {
		return dErrors.New(dErrors.CodeValidation, "progress must be between 0 and 100")
	}
	p.ProgressPercent = percent
	if percent == 100 && p.Status == ProgramActive {
		p.Status = ProgramCompleted
		p.ActualEndDate = &now
	}
	p.UpdatedAt = now
	return nil
}
