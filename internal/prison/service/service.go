// Package service implements the prison workflows: admitting and releasing
// inmates, custody assignments, inmate reports, visitor logs, and
// rehabilitation programs.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"gavel/internal/audit"
	identity "gavel/internal/identity/models"
	"gavel/internal/notification"
	"gavel/internal/prison/models"
	"gavel/internal/prison/store/inmatereports"
	"gavel/internal/prison/store/inmates"
	"gavel/internal/prison/store/programs"
	"gavel/internal/prison/store/visitors"
	id "gavel/pkg/domain"
	dErrors "gavel/pkg/domain-errors"
	"gavel/pkg/platform/sentinel"
	"gavel/pkg/requestcontext"
)

// InmateStore is the persistence contract for inmates.
type InmateStore interface {
	Create(ctx context.Context, i models.Inmate) error
	FindByID(ctx context.Context, inmateID id.InmateID) (models.Inmate, error)
	FindByInmateNumber(ctx context.Context, inmateNumber string) (models.Inmate, error)
	List(ctx context.Context, filter inmates.Filter) ([]models.Inmate, error)
	UpcomingReleases(ctx context.Context, now time.Time, withinDays int) ([]models.Inmate, error)
	CountByStatus(ctx context.Context) (map[models.InmateStatus]int, error)
	Update(ctx context.Context, i models.Inmate) error
}

// ReportStore is the persistence contract for inmate reports.
type ReportStore interface {
	Create(ctx context.Context, r models.InmateReport) error
	FindByID(ctx context.Context, reportID id.InmateReportID) (models.InmateReport, error)
	List(ctx context.Context, filter inmatereports.Filter) ([]models.InmateReport, error)
	CountPendingUrgent(ctx context.Context) (int, error)
	Update(ctx context.Context, r models.InmateReport) error
}

// VisitorStore is the persistence contract for visitor logs.
type VisitorStore interface {
	Create(ctx context.Context, v models.VisitorLog) error
	FindByID(ctx context.Context, logID id.VisitorLogID) (models.VisitorLog, error)
	List(ctx context.Context, filter visitors.Filter) ([]models.VisitorLog, error)
	CountSince(ctx context.Context, cutoff time.Time) (int, error)
	Update(ctx context.Context, v models.VisitorLog) error
}

// ProgramStore is the persistence contract for program enrollments.
type ProgramStore interface {
	Create(ctx context.Context, p models.InmateProgram) error
	FindByID(ctx context.Context, programID id.ProgramID) (models.InmateProgram, error)
	List(ctx context.Context, filter programs.Filter) ([]models.InmateProgram, error)
	CountActive(ctx context.Context) (int, error)
	Update(ctx context.Context, p models.InmateProgram) error
}

// UserDirectory resolves user records, used to validate officer assignments
// and to fan urgent reports out to clerks.
type UserDirectory interface {
	FindByID(ctx context.Context, userID id.UserID) (identity.User, error)
	ListByRole(ctx context.Context, role identity.Role) ([]identity.User, error)
}

// Notifier delivers in-app notifications.
type Notifier interface {
	Notify(ctx context.Context, n notification.Notification)
	NotifyAll(ctx context.Context, recipients []id.UserID, n notification.Notification)
}

// Auditor receives audit events emitted by the service.
type Auditor interface {
	Emit(ctx context.Context, event audit.Event)
}

type Service struct {
	inmates  InmateStore
	reports  ReportStore
	visits   VisitorStore
	programs ProgramStore
	users    UserDirectory
	notifier Notifier
	auditor  Auditor
	logger   *slog.Logger
}

func New(
	inmateStore InmateStore,
	reportStore ReportStore,
	visitorStore VisitorStore,
	programStore ProgramStore,
	users UserDirectory,
	notifier Notifier,
	auditor Auditor,
	logger *slog.Logger,
) *Service {
	return &Service{
		inmates:  inmateStore,
		reports:  reportStore,
		visits:   visitorStore,
		programs: programStore,
		users:    users,
		notifier: notifier,
		auditor:  auditor,
		logger:   logger,
	}
}

func callerRole(ctx context.Context) identity.Role {
	return identity.Role(requestcontext.Role(ctx))
}

// requireOfficer gates every prison operation: custody records belong to
// prison officers alone.
func requireOfficer(ctx context.Context) error {
	if callerRole(ctx) != identity.RolePrisonOfficer {
		return dErrors.New(dErrors.CodeForbidden, "prison records are not accessible to this role")
	}
	return nil
}

// loadInmate fetches an inmate after the officer gate.
func (s *Service) loadInmate(ctx context.Context, inmateID id.InmateID) (models.Inmate, error) {
	if err := requireOfficer(ctx); err != nil {
		return models.Inmate{}, err
	}
	i, err := s.inmates.FindByID(ctx, inmateID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return models.Inmate{}, dErrors.New(dErrors.CodeNotFound, "inmate not found")
		}
		return models.Inmate{}, dErrors.Wrap(dErrors.CodeInternal, "loading inmate", err)
	}
	return i, nil
}

// verifyOfficer confirms the target user exists, is active, and holds the
// prison officer role.
func (s *Service) verifyOfficer(ctx context.Context, officerID id.UserID) error {
	user, err := s.users.FindByID(ctx, officerID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeValidation, "officer not found")
		}
		return dErrors.Wrap(dErrors.CodeInternal, "resolving officer", err)
	}
	if user.Role != identity.RolePrisonOfficer || !user.Active {
		return dErrors.New(dErrors.CodeValidation, "assignee is not an active prison officer")
	}
	return nil
}
