package service

import (
	"context"
	"errors"

	"gavel/internal/audit"
	"gavel/internal/court/models"
	"gavel/internal/court/store/reports"
	identity "gavel/internal/identity/models"
	"gavel/internal/notification"
	id "gavel/pkg/domain"
	dErrors "gavel/pkg/domain-errors"
	"gavel/pkg/platform/sentinel"
	"gavel/pkg/requestcontext"
)

// CreateReportInput carries the validated fields for filing a case report.
type CreateReportInput struct {
	CaseID          id.CaseID
	Type            models.ReportType
	Title           string
	Content         string
	Recommendations string
	Priority        models.Priority
}

// CreateReport files a report against a case. Judges may only report on
// their own cases; clerks on any case.
func (s *Service) CreateReport(ctx context.Context, input CreateReportInput) (models.CaseReport, error) {
	c, err := s.loadCase(ctx, input.CaseID)
	if err != nil {
		return models.CaseReport{}, err
	}
	if !canEditCase(ctx, c) {
		return models.CaseReport{}, dErrors.New(dErrors.CodeForbidden, "not allowed to report on this case")
	}

	r := models.CaseReport{
		ID:              id.NewCaseReportID(),
		CaseID:          c.ID,
		Type:            input.Type,
		Title:           input.Title,
		Content:         input.Content,
		Recommendations: input.Recommendations,
		Priority:        input.Priority,
		SubmittedBy:     requestcontext.UserID(ctx),
		SubmissionDate:  requestcontext.Now(ctx),
	}
	if err := s.reports.Create(ctx, r); err != nil {
		return models.CaseReport{}, dErrors.Wrap(dErrors.CodeInternal, "storing report", err)
	}

	s.auditor.Emit(ctx, audit.Event{
		Action:      audit.ActionSubmit,
		Entity:      "case_report",
		EntityID:    r.ID.String(),
		Description: "report filed on case " + c.CaseNumber,
	})
	// A judge's report lands in the filing clerk's queue for approval.
	if callerRole(ctx) == identity.RoleJudge {
		s.notifier.Notify(ctx, notification.Notification{
			RecipientID: c.CreatedBy,
			Title:       "Case report submitted",
			Message:     "A report was submitted on case " + c.CaseNumber,
			Type:        notification.TypeReportSubmitted,
			CaseID:      &c.ID,
			ReportID:    r.ID.String(),
		})
	}
	return r, nil
}

// ListReports returns reports visible to the caller: clerks see all, judges
// only their own submissions.
func (s *Service) ListReports(ctx context.Context, caseID *id.CaseID) ([]models.CaseReport, error) {
	filter := reports.Filter{CaseID: caseID}
	switch callerRole(ctx) {
	case identity.RoleClerk:
	case identity.RoleJudge:
		submitter := requestcontext.UserID(ctx)
		filter.SubmittedBy = &submitter
	default:
		return nil, dErrors.New(dErrors.CodeForbidden, "court records are not accessible to this role")
	}

	list, err := s.reports.List(ctx, filter)
	if err != nil {
		return nil, dErrors.Wrap(dErrors.CodeInternal, "listing reports", err)
	}
	return list, nil
}

// GetReport returns one report. Judges see only their own submissions.
func (s *Service) GetReport(ctx context.Context, reportID id.CaseReportID) (models.CaseReport, error) {
	r, err := s.reports.FindByID(ctx, reportID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return models.CaseReport{}, dErrors.New(dErrors.CodeNotFound, "report not found")
		}
		return models.CaseReport{}, dErrors.Wrap(dErrors.CodeInternal, "loading report", err)
	}

	switch callerRole(ctx) {
	case identity.RoleClerk:
		return r, nil
	case identity.RoleJudge:
		if r.SubmittedBy != requestcontext.UserID(ctx) {
			return models.CaseReport{}, dErrors.New(dErrors.CodeNotFound, "report not found")
		}
		return r, nil
	default:
		return models.CaseReport{}, dErrors.New(dErrors.CodeForbidden, "court records are not accessible to this role")
	}
}

// ApproveReport records clerk sign-off on a filed report.
func (s *Service) ApproveReport(ctx context.Context, reportID id.CaseReportID) (models.CaseReport, error) {
	if callerRole(ctx) != identity.RoleClerk {
		return models.CaseReport{}, dErrors.New(dErrors.CodeForbidden, "only clerks may approve reports")
	}
	r, err := s.GetReport(ctx, reportID)
	if err != nil {
		return models.CaseReport{}, err
	}

	if err := r.Approve(requestcontext.UserID(ctx), requestcontext.Now(ctx)); err != nil {
		return models.CaseReport{}, err
	}
	if err := s.reports.Update(ctx, r); err != nil {
		return models.CaseReport{}, dErrors.Wrap(dErrors.CodeInternal, "approving report", err)
	}

	s.auditor.Emit(ctx, audit.Event{
		Action:   audit.ActionApprove,
		Entity:   "case_report",
		EntityID: r.ID.String(),
	})
	s.notifier.Notify(ctx, notification.Notification{
		RecipientID: r.SubmittedBy,
		Title:       "Report approved",
		Message:     "Your case report has been approved",
		Type:        notification.TypeReportSubmitted,
		ReportID:    r.ID.String(),
	})
	return r, nil
}
