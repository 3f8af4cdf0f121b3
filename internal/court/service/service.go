// Package service implements the court workflows: filing and assigning
// cases, managing evidence and hearings, sentencing, and case reports.
package service

import (
	"context"
	"errors"
	"log/slog"

	"gavel/internal/audit"
	"gavel/internal/court/models"
	"gavel/internal/court/store/cases"
	"gavel/internal/court/store/hearings"
	"gavel/internal/court/store/reports"
	identity "gavel/internal/identity/models"
	"gavel/internal/notification"
	id "gavel/pkg/domain"
	dErrors "gavel/pkg/domain-errors"
	"gavel/pkg/platform/sentinel"
	"gavel/pkg/requestcontext"
)

// CaseStore is the persistence contract for cases.
type CaseStore interface {
	Create(ctx context.Context, c models.Case) error
	FindByID(ctx context.Context, caseID id.CaseID) (models.Case, error)
	FindByCaseNumber(ctx context.Context, caseNumber string) (models.Case, error)
	List(ctx context.Context, filter cases.Filter) ([]models.Case, error)
	CountByStatus(ctx context.Context, judgeID *id.UserID) (map[models.CaseStatus]int, error)
	Update(ctx context.Context, c models.Case) error
}

// EvidenceStore is the persistence contract for evidence.
type EvidenceStore interface {
	Create(ctx context.Context, e models.Evidence) error
	FindByID(ctx context.Context, evidenceID id.EvidenceID) (models.Evidence, error)
	ListByCase(ctx context.Context, caseID id.CaseID) ([]models.Evidence, error)
	Update(ctx context.Context, e models.Evidence) error
}

// HearingStore is the persistence contract for hearings.
type HearingStore interface {
	Create(ctx context.Context, h models.Hearing) error
	FindByID(ctx context.Context, hearingID id.HearingID) (models.Hearing, error)
	List(ctx context.Context, filter hearings.Filter) ([]models.Hearing, error)
	Update(ctx context.Context, h models.Hearing) error
}

// ReportStore is the persistence contract for case reports.
type ReportStore interface {
	Create(ctx context.Context, r models.CaseReport) error
	FindByID(ctx context.Context, reportID id.CaseReportID) (models.CaseReport, error)
	List(ctx context.Context, filter reports.Filter) ([]models.CaseReport, error)
	Update(ctx context.Context, r models.CaseReport) error
}

// UserDirectory resolves user records, used to validate judge assignments.
type UserDirectory interface {
	FindByID(ctx context.Context, userID id.UserID) (identity.User, error)
}

// Notifier delivers in-app notifications.
type Notifier interface {
	Notify(ctx context.Context, n notification.Notification)
}

// Auditor receives audit events emitted by the service.
type Auditor interface {
	Emit(ctx context.Context, event audit.Event)
}

type Service struct {
	cases    CaseStore
	evidence EvidenceStore
	hearings HearingStore
	reports  ReportStore
	users    UserDirectory
	notifier Notifier
	auditor  Auditor
	logger   *slog.Logger
}

func New(
	caseStore CaseStore,
	evidenceStore EvidenceStore,
	hearingStore HearingStore,
	reportStore ReportStore,
	users UserDirectory,
	notifier Notifier,
	auditor Auditor,
	logger *slog.Logger,
) *Service {
	return &Service{
		cases:    caseStore,
		evidence: evidenceStore,
		hearings: hearingStore,
		reports:  reportStore,
		users:    users,
		notifier: notifier,
		auditor:  auditor,
		logger:   logger,
	}
}

func callerRole(ctx context.Context) identity.Role {
	return identity.Role(requestcontext.Role(ctx))
}

// loadCase fetches a case and enforces visibility: clerks see everything,
// judges only their own assignments, prison officers nothing.
func (s *Service) loadCase(ctx context.Context, caseID id.CaseID) (models.Case, error) {
	c, err := s.cases.FindByID(ctx, caseID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return models.Case{}, dErrors.New(dErrors.CodeNotFound, "case not found")
		}
		return models.Case{}, dErrors.Wrap(dErrors.CodeInternal, "loading case", err)
	}

	switch callerRole(ctx) {
	case identity.RoleClerk:
		return c, nil
	case identity.RoleJudge:
		if !c.IsAssignedTo(requestcontext.UserID(ctx)) {
			// Do not reveal that the case exists.
			return models.Case{}, dErrors.New(dErrors.CodeNotFound, "case not found")
		}
		return c, nil
	default:
		return models.Case{}, dErrors.New(dErrors.CodeForbidden, "court records are not accessible to this role")
	}
}

// canEditCase reports whether the caller may modify the case: clerks always,
// the assigned judge for their own cases.
func canEditCase(ctx context.Context, c models.Case) bool {
	switch callerRole(ctx) {
	case identity.RoleClerk:
		return true
	case identity.RoleJudge:
		return c.IsAssignedTo(requestcontext.UserID(ctx))
	default:
		return false
	}
}
