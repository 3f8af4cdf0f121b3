package service

import (
	"context"
	"errors"
	"time"

	"gavel/internal/audit"
	"gavel/internal/prison/metrics"
	"gavel/internal/prison/models"
	"gavel/internal/prison/store/programs"
	id "gavel/pkg/domain"
	dErrors "gavel/pkg/domain-errors"
	"gavel/pkg/platform/sentinel"
	"gavel/pkg/requestcontext"
)

// EnrollProgramInput carries the validated fields for a program enrollment.
type EnrollProgramInput struct {
	InmateID        id.InmateID
	Name            string
	Type            models.ProgramType
	Description     string
	StartDate       time.Time
	ExpectedEndDate *time.Time
	Instructor      string
	Notes           string
}

// EnrollProgram enrolls an inmate in a rehabilitation program.
func (s *Service) EnrollProgram(ctx context.Context, input EnrollProgramInput) (models.InmateProgram, error) {
	i, err := s.loadInmate(ctx, input.InmateID)
	if err != nil {
		return models.InmateProgram{}, err
	}
	if i.Status != models.InmateActive {
		return models.InmateProgram{}, dErrors.New(dErrors.CodeInvariantViolation, "only active inmates can be enrolled")
	}

	now := requestcontext.Now(ctx)
	p := models.InmateProgram{
		ID:              id.NewProgramID(),
		InmateID:        i.ID,
		Name:            input.Name,
		Type:            input.Type,
		Description:     input.Description,
		StartDate:       input.StartDate,
		ExpectedEndDate: input.ExpectedEndDate,
		Status:          models.ProgramUpcoming,
		Instructor:      input.Instructor,
		Notes:           input.Notes,
		EnrolledBy:      requestcontext.UserID(ctx),
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if !p.StartDate.After(now) {
		p.Status = models.ProgramActive
	}

	if err := s.programs.Create(ctx, p); err != nil {
		return models.InmateProgram{}, dErrors.Wrap(dErrors.CodeInternal, "enrolling in program", err)
	}

	metrics.ProgramEnrollments.WithLabelValues(string(p.Type)).Inc()
	s.auditor.Emit(ctx, audit.Event{
		Action:      audit.ActionCreate,
		Entity:      "inmate_program",
		EntityID:    p.ID.String(),
		Description: "inmate " + i.InmateNumber + " enrolled in " + p.Name,
	})
	return p, nil
}

// ListProgramsInput narrows program listings.
type ListProgramsInput struct {
	InmateID *id.InmateID
	Type     models.ProgramType
	Status   models.ProgramStatus
}

// ListPrograms returns program enrollments matching the filter.
func (s *Service) ListPrograms(ctx context.Context, input ListProgramsInput) ([]models.InmateProgram, error) {
	if err := requireOfficer(ctx); err != nil {
		return nil, err
	}
	list, err := s.programs.List(ctx, programs.Filter{
		InmateID: input.InmateID,
		Type:     input.Type,
		Status:   input.Status,
	})
	if err != nil {
		return nil, dErrors.Wrap(dErrors.CodeInternal, "listing programs", err)
	}
	return list, nil
}

// GetProgram returns one program enrollment.
func (s *Service) GetProgram(ctx context.Context, programID id.ProgramID) (models.InmateProgram, error) {
	if err := requireOfficer(ctx); err != nil {
		return models.InmateProgram{}, err
	}
	p, err := s.programs.FindByID(ctx, programID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return models.InmateProgram{}, dErrors.New(dErrors.CodeNotFound, "program not found")
		}
		return models.InmateProgram{}, dErrors.Wrap(dErrors.CodeInternal, "loading program", err)
	}
	return p, nil
}

// UpdateProgramInput carries optional edits; nil pointers leave fields as-is.
type UpdateProgramInput struct {
	Status            *models.ProgramStatus
	ProgressPercent   *int
	Instructor        *string
	Grade             *string
	CertificateEarned *bool
	Notes             *string
}

// UpdateProgram edits an enrollment. Progress hitting 100 completes it.
func (s *Service) UpdateProgram(ctx context.Context, programID id.ProgramID, input UpdateProgramInput) (models.InmateProgram, error) {
	p, err := s.GetProgram(ctx, programID)
	if err != nil {
		return models.InmateProgram{}, err
	}

	now := requestcontext.Now(ctx)
	if input.Status != nil {
		p.Status = *input.Status
		if *input.Status == models.ProgramCompleted && p.ActualEndDate == nil {
			p.ActualEndDate = &now
		}
	}
	if input.ProgressPercent != nil {
		if err := p.SetProgress(*input.ProgressPercent, now); err != nil {
			return models.InmateProgram{}, err
		}
	}
	if input.Instructor != nil {
		p.Instructor = *input.Instructor
	}
	if input.Grade != nil {
		p.Grade = *input.Grade
	}
	if input.CertificateEarned != nil {
		p.CertificateEarned = *input.CertificateEarned
	}
	if input.Notes != nil {
		p.Notes = *input.Notes
	}
	p.UpdatedAt = now

	if err := s.programs.Update(ctx, p); err != nil {
		return models.InmateProgram{}, dErrors.Wrap(dErrors.CodeInternal, "updating program", err)
	}

	s.auditor.Emit(ctx, audit.Event{
		Action:   audit.ActionUpdate,
		Entity:   "inmate_program",
		EntityID: p.ID.String(),
	})
	return p, nil
}
