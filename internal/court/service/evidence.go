package service

import (
	"context"
	"errors"

	"gavel/internal/audit"
	"gavel/internal/court/models"
	identity "gavel/internal/identity/models"
	id "gavel/pkg/domain"
	dErrors "gavel/pkg/domain-errors"
	"gavel/pkg/platform/sentinel"
	"gavel/pkg/requestcontext"
)

// AddEvidenceInput carries the validated fields for submitting evidence.
type AddEvidenceInput struct {
	CaseID      id.CaseID
	Type        models.EvidenceType
	Title       string
	Description string
}

// AddEvidence attaches an evidence item to a case. Clerk, or the assigned
// judge.
func (s *Service) AddEvidence(ctx context.Context, input AddEvidenceInput) (models.Evidence, error) {
	c, err := s.loadCase(ctx, input.CaseID)
	if err != nil {
		return models.Evidence{}, err
	}
	if !canEditCase(ctx, c) {
		return models.Evidence{}, dErrors.New(dErrors.CodeForbidden, "not allowed to submit evidence on this case")
	}

	e := models.Evidence{
		ID:             id.NewEvidenceID(),
		CaseID:         c.ID,
		Type:           input.Type,
		Title:          input.Title,
		Description:    input.Description,
		SubmittedBy:    requestcontext.UserID(ctx),
		SubmissionDate: requestcontext.Now(ctx),
	}
	if err := s.evidence.Create(ctx, e); err != nil {
		return models.Evidence{}, dErrors.Wrap(dErrors.CodeInternal, "storing evidence", err)
	}

	s.auditor.Emit(ctx, audit.Event{
		Action:      audit.ActionSubmit,
		Entity:      "evidence",
		EntityID:    e.ID.String(),
		Description: "evidence submitted on case " + c.CaseNumber,
	})
	return e, nil
}

// ListEvidence returns a case's evidence, subject to case visibility.
func (s *Service) ListEvidence(ctx context.Context, caseID id.CaseID) ([]models.Evidence, error) {
	if _, err := s.loadCase(ctx, caseID); err != nil {
		return nil, err
	}
	list, err := s.evidence.ListByCase(ctx, caseID)
	if err != nil {
		return nil, dErrors.Wrap(dErrors.CodeInternal, "listing evidence", err)
	}
	return list, nil
}

// GetEvidence returns one evidence item, subject to case visibility.
func (s *Service) GetEvidence(ctx context.Context, evidenceID id.EvidenceID) (models.Evidence, error) {
	e, err := s.evidence.FindByID(ctx, evidenceID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return models.Evidence{}, dErrors.New(dErrors.CodeNotFound, "evidence not found")
		}
		return models.Evidence{}, dErrors.Wrap(dErrors.CodeInternal, "loading evidence", err)
	}
	if _, err := s.loadCase(ctx, e.CaseID); err != nil {
		return models.Evidence{}, err
	}
	return e, nil
}

// ReviewEvidence records the assigned judge's admissibility ruling.
func (s *Service) ReviewEvidence(ctx context.Context, evidenceID id.EvidenceID, approved bool, notes string) (models.Evidence, error) {
	e, err := s.evidence.FindByID(ctx, evidenceID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return models.Evidence{}, dErrors.New(dErrors.CodeNotFound, "evidence not found")
		}
		return models.Evidence{}, dErrors.Wrap(dErrors.CodeInternal, "loading evidence", err)
	}

	judgeID := requestcontext.UserID(ctx)
	c, err := s.loadCase(ctx, e.CaseID)
	if err != nil {
		return models.Evidence{}, err
	}
	if callerRole(ctx) != identity.RoleJudge || !c.IsAssignedTo(judgeID) {
		return models.Evidence{}, dErrors.New(dErrors.CodeForbidden, "only the assigned judge may review evidence")
	}

	now := requestcontext.Now(ctx)
	e.Review(judgeID, approved, notes, now)
	if err := s.evidence.Update(ctx, e); err != nil {
		return models.Evidence{}, dErrors.Wrap(dErrors.CodeInternal, "storing evidence review", err)
	}

	// First review activity moves an assigned case into progress.
	if c.Status == models.StatusAssigned {
		if err := c.SetStatus(models.StatusInProgress, now); err == nil {
			if err := s.cases.Update(ctx, c); err != nil {
				s.logger.ErrorContext(ctx, "failed to move case in progress",
					"error", err,
					"case_id", c.ID.String(),
				)
			}
		}
	}

	action := audit.ActionApprove
	if !approved {
		action = audit.ActionReject
	}
	s.auditor.Emit(ctx, audit.Event{
		Action:      action,
		Entity:      "evidence",
		EntityID:    e.ID.String(),
		Description: "evidence reviewed on case " + c.CaseNumber,
	})
	return e, nil
}
