package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gavel/internal/audit"
	"gavel/internal/court/metrics"
	"gavel/internal/court/models"
	"gavel/internal/court/store/hearings"
	identity "gavel/internal/identity/models"
	"gavel/internal/notification"
	id "gavel/pkg/domain"
	dErrors "gavel/pkg/domain-errors"
	"gavel/pkg/platform/sentinel"
	"gavel/pkg/requestcontext"
)

// ScheduleHearingInput carries the validated fields for scheduling.
type ScheduleHearingInput struct {
	CaseID          id.CaseID
	Type            models.HearingType
	ScheduledAt     time.Time
	DurationMinutes int
	Courtroom       string
	Location        string
	Notes           string
}

// ScheduleHearing books a court session for a case. Clerk, or the assigned
// judge. The case must already have a judge; scheduling moves an assigned
// case into progress.
func (s *Service) ScheduleHearing(ctx context.Context, input ScheduleHearingInput) (models.Hearing, error) {
	c, err := s.loadCase(ctx, input.CaseID)
	if err != nil {
		return models.Hearing{}, err
	}
	if !canEditCase(ctx, c) {
		return models.Hearing{}, dErrors.New(dErrors.CodeForbidden, "not allowed to schedule hearings on this case")
	}
	if c.AssignedJudge == nil {
		return models.Hearing{}, dErrors.New(dErrors.CodeInvariantViolation, "cannot schedule a hearing before a judge is assigned")
	}

	now := requestcontext.Now(ctx)
	h := models.Hearing{
		ID:              id.NewHearingID(),
		CaseID:          c.ID,
		Type:            input.Type,
		ScheduledAt:     input.ScheduledAt,
		DurationMinutes: input.DurationMinutes,
		Courtroom:       input.Courtroom,
		Location:        input.Location,
		JudgeID:         *c.AssignedJudge,
		CreatedBy:       requestcontext.UserID(ctx),
		Notes:           input.Notes,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if callerRole(ctx) == identity.RoleClerk {
		clerkID := requestcontext.UserID(ctx)
		h.ClerkID = &clerkID
	}

	if err := s.hearings.Create(ctx, h); err != nil {
		return models.Hearing{}, dErrors.Wrap(dErrors.CodeInternal, "scheduling hearing", err)
	}

	// Track the next session on the case and move it into progress.
	c.HearingDate = &h.ScheduledAt
	if c.Status == models.StatusAssigned {
		_ = c.SetStatus(models.StatusInProgress, now)
	}
	c.UpdatedAt = now
	if err := s.cases.Update(ctx, c); err != nil {
		s.logger.ErrorContext(ctx, "failed to update case after scheduling",
			"error", err,
			"case_id", c.ID.String(),
		)
	}

	metrics.HearingsScheduled.WithLabelValues(string(h.Type)).Inc()
	s.auditor.Emit(ctx, audit.Event{
		Action:      audit.ActionCreate,
		Entity:      "hearing",
		EntityID:    h.ID.String(),
		Description: fmt.Sprintf("%s hearing scheduled for case %s", h.Type, c.CaseNumber),
	})
	s.notifier.Notify(ctx, notification.Notification{
		RecipientID: h.JudgeID,
		Title:       "Hearing scheduled",
		Message:     fmt.Sprintf("A %s hearing for case %s is scheduled in %s", h.Type, c.CaseNumber, h.Courtroom),
		Type:        notification.TypeCaseUpdate,
		CaseID:      &c.ID,
	})
	return h, nil
}

// ListHearings returns hearings visible to the caller: clerks see all,
// judges only their own calendar.
func (s *Service) ListHearings(ctx context.Context, filter hearings.Filter) ([]models.Hearing, error) {
	switch callerRole(ctx) {
	case identity.RoleClerk:
	case identity.RoleJudge:
		judgeID := requestcontext.UserID(ctx)
		filter.JudgeID = &judgeID
	default:
		return nil, dErrors.New(dErrors.CodeForbidden, "court records are not accessible to this role")
	}

	list, err := s.hearings.List(ctx, filter)
	if err != nil {
		return nil, dErrors.Wrap(dErrors.CodeInternal, "listing hearings", err)
	}
	return list, nil
}

// GetHearing returns one hearing, subject to case visibility.
func (s *Service) GetHearing(ctx context.Context, hearingID id.HearingID) (models.Hearing, error) {
	h, err := s.hearings.FindByID(ctx, hearingID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return models.Hearing{}, dErrors.New(dErrors.CodeNotFound, "hearing not found")
		}
		return models.Hearing{}, dErrors.Wrap(dErrors.CodeInternal, "loading hearing", err)
	}
	if _, err := s.loadCase(ctx, h.CaseID); err != nil {
		return models.Hearing{}, err
	}
	return h, nil
}

// UpdateHearingInput carries optional edits; nil pointers leave fields
// as-is. Only clerks may move the hearing to another judge.
type UpdateHearingInput struct {
	Type            *models.HearingType
	ScheduledAt     *time.Time
	DurationMinutes *int
	Courtroom       *string
	Location        *string
	Notes           *string
	JudgeID         *id.UserID
}

// UpdateHearing edits an open hearing. Clerk, or the hearing's judge.
func (s *Service) UpdateHearing(ctx context.Context, hearingID id.HearingID, input UpdateHearingInput) (models.Hearing, error) {
	h, err := s.GetHearing(ctx, hearingID)
	if err != nil {
		return models.Hearing{}, err
	}
	if !s.canManageHearing(ctx, h) {
		return models.Hearing{}, dErrors.New(dErrors.CodeForbidden, "not allowed to edit this hearing")
	}
	if !h.Open() {
		return models.Hearing{}, dErrors.New(dErrors.CodeInvariantViolation, "hearing is already completed or cancelled")
	}

	if input.JudgeID != nil {
		if callerRole(ctx) != identity.RoleClerk {
			return models.Hearing{}, dErrors.New(dErrors.CodeForbidden, "only clerks may reassign a hearing's judge")
		}
		if err := s.verifyJudge(ctx, *input.JudgeID); err != nil {
			return models.Hearing{}, err
		}
		h.JudgeID = *input.JudgeID
	}
	if input.Type != nil {
		h.Type = *input.Type
	}
	if input.ScheduledAt != nil {
		h.ScheduledAt = *input.ScheduledAt
	}
	if input.DurationMinutes != nil {
		h.DurationMinutes = *input.DurationMinutes
	}
	if input.Courtroom != nil {
		h.Courtroom = *input.Courtroom
	}
	if input.Location != nil {
		h.Location = *input.Location
	}
	if input.Notes != nil {
		h.Notes = *input.Notes
	}
	h.UpdatedAt = requestcontext.Now(ctx)

	if err := s.hearings.Update(ctx, h); err != nil {
		return models.Hearing{}, dErrors.Wrap(dErrors.CodeInternal, "updating hearing", err)
	}

	s.auditor.Emit(ctx, audit.Event{
		Action:   audit.ActionUpdate,
		Entity:   "hearing",
		EntityID: h.ID.String(),
	})
	return h, nil
}

// CompleteHearing records the outcome of a held hearing.
func (s *Service) CompleteHearing(ctx context.Context, hearingID id.HearingID, outcome string, nextHearingAt *time.Time) (models.Hearing, error) {
	h, err := s.GetHearing(ctx, hearingID)
	if err != nil {
		return models.Hearing{}, err
	}
	if !s.canManageHearing(ctx, h) {
		return models.Hearing{}, dErrors.New(dErrors.CodeForbidden, "not allowed to complete this hearing")
	}

	if err := h.Complete(requestcontext.UserID(ctx), outcome, nextHearingAt, requestcontext.Now(ctx)); err != nil {
		return models.Hearing{}, err
	}
	if err := s.hearings.Update(ctx, h); err != nil {
		return models.Hearing{}, dErrors.Wrap(dErrors.CodeInternal, "completing hearing", err)
	}

	s.auditor.Emit(ctx, audit.Event{
		Action:      audit.ActionUpdate,
		Entity:      "hearing",
		EntityID:    h.ID.String(),
		Description: "hearing completed",
	})
	return h, nil
}

// CancelHearing cancels an open hearing with a reason.
func (s *Service) CancelHearing(ctx context.Context, hearingID id.HearingID, reason string) (models.Hearing, error) {
	h, err := s.GetHearing(ctx, hearingID)
	if err != nil {
		return models.Hearing{}, err
	}
	if !s.canManageHearing(ctx, h) {
		return models.Hearing{}, dErrors.New(dErrors.CodeForbidden, "not allowed to cancel this hearing")
	}

	if err := h.Cancel(reason, requestcontext.Now(ctx)); err != nil {
		return models.Hearing{}, err
	}
	if err := s.hearings.Update(ctx, h); err != nil {
		return models.Hearing{}, dErrors.Wrap(dErrors.CodeInternal, "cancelling hearing", err)
	}

	s.auditor.Emit(ctx, audit.Event{
		Action:      audit.ActionUpdate,
		Entity:      "hearing",
		EntityID:    h.ID.String(),
		Description: "hearing cancelled: " + reason,
	})
	return h, nil
}

func (s *Service) canManageHearing(ctx context.Context, h models.Hearing) bool {
	switch callerRole(ctx) {
	case identity.RoleClerk:
		return true
	case identity.RoleJudge:
		return h.JudgeID == requestcontext.UserID(ctx)
	default:
		return false
	}
}
