package service

import (
	"context"
	"errors"
	"fmt"

	"gavel/internal/audit"
	"gavel/internal/court/metrics"
	"gavel/internal/court/models"
	"gavel/internal/court/store/cases"
	identity "gavel/internal/identity/models"
	"gavel/internal/notification"
	id "gavel/pkg/domain"
	dErrors "gavel/pkg/domain-errors"
	"gavel/pkg/platform/sentinel"
	"gavel/pkg/requestcontext"
)

// CreateCaseInput carries the validated fields for filing a case.
type CreateCaseInput struct {
	CaseNumber      string
	Title           string
	Type            models.CaseType
	Description     string
	Priority        models.Priority
	Plaintiff       string
	Defendant       string
	PlaintiffLawyer string
	DefenseLawyer   string
	AssignedJudge   *id.UserID
}

// CreateCase files a new case. Clerk only. When a judge is given the case is
// assigned immediately and the judge is notified.
func (s *Service) CreateCase(ctx context.Context, input CreateCaseInput) (models.Case, error) {
	if callerRole(ctx) != identity.RoleClerk {
		return models.Case{}, dErrors.New(dErrors.CodeForbidden, "only clerks may file cases")
	}

	now := requestcontext.Now(ctx)
	c := models.Case{
		ID:              id.NewCaseID(),
		CaseNumber:      input.CaseNumber,
		Title:           input.Title,
		Type:            input.Type,
		Description:     input.Description,
		Status:          models.StatusPending,
		Priority:        input.Priority,
		Plaintiff:       input.Plaintiff,
		Defendant:       input.Defendant,
		PlaintiffLawyer: input.PlaintiffLawyer,
		DefenseLawyer:   input.DefenseLawyer,
		CreatedBy:       requestcontext.UserID(ctx),
		FilingDate:      now,
		Active:          true,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if input.AssignedJudge != nil {
		if err := s.verifyJudge(ctx, *input.AssignedJudge); err != nil {
			return models.Case{}, err
		}
		if err := c.Assign(*input.AssignedJudge, "", now); err != nil {
			return models.Case{}, err
		}
	}

	if err := s.cases.Create(ctx, c); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return models.Case{}, dErrors.New(dErrors.CodeConflict, "case number already exists")
		}
		return models.Case{}, dErrors.Wrap(dErrors.CodeInternal, "creating case", err)
	}

	metrics.CasesCreated.WithLabelValues(string(c.Type)).Inc()
	s.auditor.Emit(ctx, audit.Event{
		Action:      audit.ActionCreate,
		Entity:      "case",
		EntityID:    c.ID.String(),
		Description: "case " + c.CaseNumber + " filed",
	})
	if c.AssignedJudge != nil {
		metrics.CasesAssigned.Inc()
		s.notifyAssignment(ctx, c)
	}

	s.logger.InfoContext(ctx, "case filed",
		"case_id", c.ID.String(),
		"case_number", c.CaseNumber,
		"status", c.Status,
	)
	return c, nil
}

// ListCases returns cases visible to the caller: clerks see all, judges only
// their assignments.
func (s *Service) ListCases(ctx context.Context, status models.CaseStatus) ([]models.Case, error) {
	filter := cases.Filter{Status: status}
	switch callerRole(ctx) {
	case identity.RoleClerk:
	case identity.RoleJudge:
		judgeID := requestcontext.UserID(ctx)
		filter.JudgeID = &judgeID
	default:
		return nil, dErrors.New(dErrors.CodeForbidden, "court records are not accessible to this role")
	}

	list, err := s.cases.List(ctx, filter)
	if err != nil {
		return nil, dErrors.Wrap(dErrors.CodeInternal, "listing cases", err)
	}
	return list, nil
}

// GetCase returns one case, subject to visibility rules.
func (s *Service) GetCase(ctx context.Context, caseID id.CaseID) (models.Case, error) {
	c, err := s.loadCase(ctx, caseID)
	if err != nil {
		return models.Case{}, err
	}
	s.auditor.Emit(ctx, audit.Event{
		Action:   audit.ActionView,
		Entity:   "case",
		EntityID: c.ID.String(),
	})
	return c, nil
}

// UpdateCaseInput carries optional edits; nil pointers leave fields as-is.
type UpdateCaseInput struct {
	Title           *string
	Description     *string
	Priority        *models.Priority
	Plaintiff       *string
	Defendant       *string
	PlaintiffLawyer *string
	DefenseLawyer   *string
}

// UpdateCase edits case details. Clerk, or the assigned judge.
func (s *Service) UpdateCase(ctx context.Context, caseID id.CaseID, input UpdateCaseInput) (models.Case, error) {
	c, err := s.loadCase(ctx, caseID)
	if err != nil {
		return models.Case{}, err
	}
	if !canEditCase(ctx, c) {
		return models.Case{}, dErrors.New(dErrors.CodeForbidden, "not allowed to edit this case")
	}

	if input.Title != nil {
		c.Title = *input.Title
	}
	if input.Description != nil {
		c.Description = *input.Description
	}
	if input.Priority != nil {
		c.Priority = *input.Priority
	}
	if input.Plaintiff != nil {
		c.Plaintiff = *input.Plaintiff
	}
	if input.Defendant != nil {
		c.Defendant = *input.Defendant
	}
	if input.PlaintiffLawyer != nil {
		c.PlaintiffLawyer = *input.PlaintiffLawyer
	}
	if input.DefenseLawyer != nil {
		c.DefenseLawyer = *input.DefenseLawyer
	}
	c.UpdatedAt = requestcontext.Now(ctx)

	if err := s.cases.Update(ctx, c); err != nil {
		return models.Case{}, dErrors.Wrap(dErrors.CodeInternal, "updating case", err)
	}

	s.auditor.Emit(ctx, audit.Event{
		Action:   audit.ActionUpdate,
		Entity:   "case",
		EntityID: c.ID.String(),
	})
	return c, nil
}

// AssignJudge moves a pending case to a judge. Clerk only.
func (s *Service) AssignJudge(ctx context.Context, caseID id.CaseID, judgeID id.UserID, notes string) (models.Case, error) {
	if callerRole(ctx) != identity.RoleClerk {
		return models.Case{}, dErrors.New(dErrors.CodeForbidden, "only clerks may assign cases")
	}
	c, err := s.loadCase(ctx, caseID)
	if err != nil {
		return models.Case{}, err
	}
	if err := s.verifyJudge(ctx, judgeID); err != nil {
		return models.Case{}, err
	}

	if err := c.Assign(judgeID, notes, requestcontext.Now(ctx)); err != nil {
		return models.Case{}, err
	}
	if err := s.cases.Update(ctx, c); err != nil {
		return models.Case{}, dErrors.Wrap(dErrors.CodeInternal, "assigning case", err)
	}

	metrics.CasesAssigned.Inc()
	s.auditor.Emit(ctx, audit.Event{
		Action:      audit.ActionAssign,
		Entity:      "case",
		EntityID:    c.ID.String(),
		Description: "case " + c.CaseNumber + " assigned to judge",
	})
	s.notifyAssignment(ctx, c)

	s.logger.InfoContext(ctx, "case assigned",
		"case_id", c.ID.String(),
		"judge_id", judgeID.String(),
	)
	return c, nil
}

// PassSentence records the decision on a case. Only the assigned judge.
func (s *Service) PassSentence(ctx context.Context, caseID id.CaseID, verdict string, sentence models.Sentence) (models.Case, error) {
	if callerRole(ctx) != identity.RoleJudge {
		return models.Case{}, dErrors.New(dErrors.CodeForbidden, "only judges may pass sentence")
	}
	c, err := s.loadCase(ctx, caseID)
	if err != nil {
		return models.Case{}, err
	}

	if err := c.PassSentence(verdict, sentence, requestcontext.Now(ctx)); err != nil {
		return models.Case{}, err
	}
	if err := s.cases.Update(ctx, c); err != nil {
		return models.Case{}, dErrors.Wrap(dErrors.CodeInternal, "recording sentence", err)
	}

	metrics.SentencesPassed.WithLabelValues(string(sentence.Type)).Inc()
	s.auditor.Emit(ctx, audit.Event{
		Action:      audit.ActionSubmit,
		Entity:      "case",
		EntityID:    c.ID.String(),
		Description: fmt.Sprintf("sentence passed on case %s: %s", c.CaseNumber, sentence.Type),
	})
	s.notifier.Notify(ctx, notification.Notification{
		RecipientID: c.CreatedBy,
		Title:       "Case decided",
		Message:     fmt.Sprintf("Case %s has been decided: %s", c.CaseNumber, verdict),
		Type:        notification.TypeCaseUpdate,
		CaseID:      &c.ID,
	})

	s.logger.InfoContext(ctx, "sentence passed",
		"case_id", c.ID.String(),
		"sentence_type", sentence.Type,
	)
	return c, nil
}

// UpdateCaseStatus applies a generic status change, validated against the
// transition graph. Clerk, or the assigned judge.
func (s *Service) UpdateCaseStatus(ctx context.Context, caseID id.CaseID, status models.CaseStatus) (models.Case, error) {
	c, err := s.loadCase(ctx, caseID)
	if err != nil {
		return models.Case{}, err
	}
	if !canEditCase(ctx, c) {
		return models.Case{}, dErrors.New(dErrors.CodeForbidden, "not allowed to change this case's status")
	}

	if err := c.SetStatus(status, requestcontext.Now(ctx)); err != nil {
		return models.Case{}, err
	}
	if err := s.cases.Update(ctx, c); err != nil {
		return models.Case{}, dErrors.Wrap(dErrors.CodeInternal, "updating case status", err)
	}

	s.auditor.Emit(ctx, audit.Event{
		Action:      audit.ActionUpdate,
		Entity:      "case",
		EntityID:    c.ID.String(),
		Description: "case status set to " + string(status),
	})
	return c, nil
}

// CountCasesByStatus tallies the caller's visible cases per status.
func (s *Service) CountCasesByStatus(ctx context.Context) (map[models.CaseStatus]int, error) {
	var judgeID *id.UserID
	switch callerRole(ctx) {
	case identity.RoleClerk:
	case identity.RoleJudge:
		uid := requestcontext.UserID(ctx)
		judgeID = &uid
	default:
		return nil, dErrors.New(dErrors.CodeForbidden, "court records are not accessible to this role")
	}
	counts, err := s.cases.CountByStatus(ctx, judgeID)
	if err != nil {
		return nil, dErrors.Wrap(dErrors.CodeInternal, "counting cases", err)
	}
	return counts, nil
}

// verifyJudge confirms the target user exists, is active, and holds the
// judge role.
func (s *Service) verifyJudge(ctx context.Context, judgeID id.UserID) error {
	user, err := s.users.FindByID(ctx, judgeID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeValidation, "judge not found")
		}
		return dErrors.Wrap(dErrors.CodeInternal, "resolving judge", err)
	}
	if user.Role != identity.RoleJudge || !user.Active {
		return dErrors.New(dErrors.CodeValidation, "assignee is not an active judge")
	}
	return nil
}

func (s *Service) notifyAssignment(ctx context.Context, c models.Case) {
	if c.AssignedJudge == nil {
		return
	}
	s.notifier.Notify(ctx, notification.Notification{
		RecipientID: *c.AssignedJudge,
		Title:       "New case assigned",
		Message:     fmt.Sprintf("You have been assigned case %s: %s", c.CaseNumber, c.Title),
		Type:        notification.TypeCaseAssigned,
		Priority:    notification.Priority(c.Priority),
		CaseID:      &c.ID,
	})
}
