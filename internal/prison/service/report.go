package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gavel/internal/audit"
	"gavel/internal/notification"
	"gavel/internal/prison/metrics"
	"gavel/internal/prison/models"
	"gavel/internal/prison/store/inmatereports"
	id "gavel/pkg/domain"
	dErrors "gavel/pkg/domain-errors"
	"gavel/pkg/platform/sentinel"
	"gavel/pkg/requestcontext"
)

// CreateReportInput carries the validated fields for filing an inmate report.
type CreateReportInput struct {
	InmateID        id.InmateID
	Type            models.InmateReportType
	Title           string
	Content         string
	Recommendations string
	Priority        models.ReportPriority
	IncidentAt      *time.Time
	ActionRequired  bool
	FollowUpAt      *time.Time
}

// CreateReport files a report about an inmate. Urgent reports alert every
// clerk immediately.
func (s *Service) CreateReport(ctx context.Context, input CreateReportInput) (models.InmateReport, error) {
	i, err := s.loadInmate(ctx, input.InmateID)
	if err != nil {
		return models.InmateReport{}, err
	}

	now := requestcontext.Now(ctx)
	r := models.InmateReport{
		ID:              id.NewInmateReportID(),
		InmateID:        i.ID,
		Type:            input.Type,
		Title:           input.Title,
		Content:         input.Content,
		Recommendations: input.Recommendations,
		Priority:        input.Priority,
		SubmittedBy:     requestcontext.UserID(ctx),
		SubmissionDate:  now,
		IncidentAt:      input.IncidentAt,
		Status:          models.ReportPending,
		ActionRequired:  input.ActionRequired,
		FollowUpAt:      input.FollowUpAt,
	}
	if r.Priority == "" {
		r.Priority = models.ReportPriorityMedium
	}

	if err := s.reports.Create(ctx, r); err != nil {
		return models.InmateReport{}, dErrors.Wrap(dErrors.CodeInternal, "filing inmate report", err)
	}

	metrics.ReportsFiled.WithLabelValues(string(r.Type)).Inc()
	s.auditor.Emit(ctx, audit.Event{
		Action:      audit.ActionSubmit,
		Entity:      "inmate_report",
		EntityID:    r.ID.String(),
		Description: fmt.Sprintf("%s report filed on inmate %s", r.Type, i.InmateNumber),
	})
	if r.Urgent() {
		s.alertClerks(ctx, notification.Notification{
			Title:    "Urgent inmate report",
			Message:  fmt.Sprintf("Urgent report on inmate %s (%s): %s", i.InmateNumber, i.FullName(), r.Title),
			Type:     notification.TypeUrgentReport,
			Priority: notification.PriorityHigh,
			ReportID: r.ID.String(),
		})
	}

	s.logger.InfoContext(ctx, "inmate report filed",
		"report_id", r.ID.String(),
		"inmate_id", i.ID.String(),
		"type", r.Type,
		"urgent", r.Urgent(),
	)
	return r, nil
}

// ListReportsInput narrows report listings.
type ListReportsInput struct {
	InmateID   *id.InmateID
	Mine       bool
	Status     models.ReportStatus
	UrgentOnly bool
}

// ListReports returns inmate reports matching the filter.
func (s *Service) ListReports(ctx context.Context, input ListReportsInput) ([]models.InmateReport, error) {
	if err := requireOfficer(ctx); err != nil {
		return nil, err
	}

	filter := inmatereports.Filter{
		InmateID:   input.InmateID,
		Status:     input.Status,
		UrgentOnly: input.UrgentOnly,
	}
	if input.Mine {
		submitter := requestcontext.UserID(ctx)
		filter.SubmittedBy = &submitter
	}
	list, err := s.reports.List(ctx, filter)
	if err != nil {
		return nil, dErrors.Wrap(dErrors.CodeInternal, "listing inmate reports", err)
	}
	return list, nil
}

// GetReport returns one inmate report.
func (s *Service) GetReport(ctx context.Context, reportID id.InmateReportID) (models.InmateReport, error) {
	if err := requireOfficer(ctx); err != nil {
		return models.InmateReport{}, err
	}
	r, err := s.reports.FindByID(ctx, reportID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return models.InmateReport{}, dErrors.New(dErrors.CodeNotFound, "report not found")
		}
		return models.InmateReport{}, dErrors.Wrap(dErrors.CodeInternal, "loading inmate report", err)
	}
	return r, nil
}

// ReviewReport records a review verdict on a pending report.
func (s *Service) ReviewReport(ctx context.Context, reportID id.InmateReportID, status models.ReportStatus, notes string) (models.InmateReport, error) {
	r, err := s.GetReport(ctx, reportID)
	if err != nil {
		return models.InmateReport{}, err
	}

	if err := r.Review(requestcontext.UserID(ctx), status, notes, requestcontext.Now(ctx)); err != nil {
		return models.InmateReport{}, err
	}
	if err := s.reports.Update(ctx, r); err != nil {
		return models.InmateReport{}, dErrors.Wrap(dErrors.CodeInternal, "reviewing inmate report", err)
	}

	action := audit.ActionApprove
	if status == models.ReportRejected {
		action = audit.ActionReject
	}
	s.auditor.Emit(ctx, audit.Event{
		Action:      action,
		Entity:      "inmate_report",
		EntityID:    r.ID.String(),
		Description: "report reviewed: " + string(status),
	})
	s.notifier.Notify(ctx, notification.Notification{
		RecipientID: r.SubmittedBy,
		Title:       "Report reviewed",
		Message:     fmt.Sprintf("Your report %q was reviewed: %s", r.Title, status),
		Type:        notification.TypeReportSubmitted,
		ReportID:    r.ID.String(),
	})
	return r, nil
}

// RecordAction notes the action taken on a report that required one.
func (s *Service) RecordAction(ctx context.Context, reportID id.InmateReportID, actionTaken string) (models.InmateReport, error) {
	r, err := s.GetReport(ctx, reportID)
	if err != nil {
		return models.InmateReport{}, err
	}
	if !r.ActionRequired {
		return models.InmateReport{}, dErrors.New(dErrors.CodeInvariantViolation, "report does not require action")
	}

	now := requestcontext.Now(ctx)
	r.ActionTaken = actionTaken
	r.ActionTakenAt = &now
	if err := s.reports.Update(ctx, r); err != nil {
		return models.InmateReport{}, dErrors.Wrap(dErrors.CodeInternal, "recording action", err)
	}

	s.auditor.Emit(ctx, audit.Event{
		Action:   audit.ActionUpdate,
		Entity:   "inmate_report",
		EntityID: r.ID.String(),
	})
	return r, nil
}
