package service

import (
	"context"
	"errors"
	"time"

	"gavel/internal/audit"
	"gavel/internal/prison/metrics"
	"gavel/internal/prison/models"
	"gavel/internal/prison/store/visitors"
	id "gavel/pkg/domain"
	dErrors "gavel/pkg/domain-errors"
	"gavel/pkg/platform/sentinel"
	"gavel/pkg/requestcontext"
)

// LogVisitInput carries the validated fields for a visitor log entry.
type LogVisitInput struct {
	InmateID        id.InmateID
	VisitorName     string
	VisitorIDNumber string
	VisitorPhone    string
	Relationship    string
	VisitType       models.VisitType
	VisitAt         time.Time
	DurationMinutes int
	Purpose         string
	Notes           string
	Approved        bool
}

// LogVisit records a visit to an inmate. The logging officer authorizes it.
func (s *Service) LogVisit(ctx context.Context, input LogVisitInput) (models.VisitorLog, error) {
	i, err := s.loadInmate(ctx, input.InmateID)
	if err != nil {
		return models.VisitorLog{}, err
	}
	if i.Status != models.InmateActive {
		return models.VisitorLog{}, dErrors.New(dErrors.CodeInvariantViolation, "visits can only be logged for active inmates")
	}

	now := requestcontext.Now(ctx)
	v := models.VisitorLog{
		ID:              id.NewVisitorLogID(),
		InmateID:        i.ID,
		VisitorName:     input.VisitorName,
		VisitorIDNumber: input.VisitorIDNumber,
		VisitorPhone:    input.VisitorPhone,
		Relationship:    input.Relationship,
		VisitType:       input.VisitType,
		VisitAt:         input.VisitAt,
		DurationMinutes: input.DurationMinutes,
		Purpose:         input.Purpose,
		Notes:           input.Notes,
		AuthorizedBy:    requestcontext.UserID(ctx),
		Approved:        input.Approved,
		CreatedAt:       now,
	}
	if v.VisitAt.IsZero() {
		v.VisitAt = now
	}

	if err := s.visits.Create(ctx, v); err != nil {
		return models.VisitorLog{}, dErrors.Wrap(dErrors.CodeInternal, "logging visit", err)
	}

	metrics.VisitsLogged.WithLabelValues(string(v.VisitType)).Inc()
	s.auditor.Emit(ctx, audit.Event{
		Action:      audit.ActionCreate,
		Entity:      "visitor_log",
		EntityID:    v.ID.String(),
		Description: "visit logged for inmate " + i.InmateNumber,
	})
	return v, nil
}

// ListVisitsInput narrows visitor log listings.
type ListVisitsInput struct {
	InmateID  *id.InmateID
	VisitType models.VisitType
	From      time.Time
	To        time.Time
}

// ListVisits returns visitor log entries matching the filter.
func (s *Service) ListVisits(ctx context.Context, input ListVisitsInput) ([]models.VisitorLog, error) {
	if err := requireOfficer(ctx); err != nil {
		return nil, err
	}
	list, err := s.visits.List(ctx, visitors.Filter{
		InmateID:  input.InmateID,
		VisitType: input.VisitType,
		From:      input.From,
		To:        input.To,
	})
	if err != nil {
		return nil, dErrors.Wrap(dErrors.CodeInternal, "listing visits", err)
	}
	return list, nil
}

// GetVisit returns one visitor log entry.
func (s *Service) GetVisit(ctx context.Context, logID id.VisitorLogID) (models.VisitorLog, error) {
	if err := requireOfficer(ctx); err != nil {
		return models.VisitorLog{}, err
	}
	v, err := s.visits.FindByID(ctx, logID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return models.VisitorLog{}, dErrors.New(dErrors.CodeNotFound, "visitor log not found")
		}
		return models.VisitorLog{}, dErrors.Wrap(dErrors.CodeInternal, "loading visitor log", err)
	}
	return v, nil
}

// UpdateVisitInput carries optional edits; nil pointers leave fields as-is.
type UpdateVisitInput struct {
	DurationMinutes *int
	Purpose         *string
	Notes           *string
	Approved        *bool
}

// UpdateVisit amends a visitor log entry.
func (s *Service) UpdateVisit(ctx context.Context, logID id.VisitorLogID, input UpdateVisitInput) (models.VisitorLog, error) {
	v, err := s.GetVisit(ctx, logID)
	if err != nil {
		return models.VisitorLog{}, err
	}

	if input.DurationMinutes != nil {
		v.DurationMinutes = *input.DurationMinutes
	}
	if input.Purpose != nil {
		v.Purpose = *input.Purpose
	}
	if input.Notes != nil {
		v.Notes = *input.Notes
	}
	if input.Approved != nil {
		v.Approved = *input.Approved
	}

	if err := s.visits.Update(ctx, v); err != nil {
		return models.VisitorLog{}, dErrors.Wrap(dErrors.CodeInternal, "updating visitor log", err)
	}

	s.auditor.Emit(ctx, audit.Event{
		Action:   audit.ActionUpdate,
		Entity:   "visitor_log",
		EntityID: v.ID.String(),
	})
	return v, nil
}
