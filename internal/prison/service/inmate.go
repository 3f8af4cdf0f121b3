package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gavel/internal/audit"
	identity "gavel/internal/identity/models"
	"gavel/internal/notification"
	"gavel/internal/prison/metrics"
	"gavel/internal/prison/models"
	"gavel/internal/prison/store/inmates"
	id "gavel/pkg/domain"
	dErrors "gavel/pkg/domain-errors"
	"gavel/pkg/platform/sentinel"
	"gavel/pkg/requestcontext"
)

// AdmitInmateInput carries the validated fields for admitting an inmate.
type AdmitInmateInput struct {
	InmateNumber         string
	FirstName            string
	LastName             string
	DateOfBirth          time.Time
	Gender               string
	Nationality          string
	IdentificationNumber string
	EmergencyContact     models.EmergencyContact
	CaseNumber           string
	ConvictionDate       *time.Time
	CrimeDescription     string
	SentenceKind         models.SentenceKind
	SentenceTerm         models.SentenceTerm
	FineAmount           float64
	AdmissionDate        time.Time
	ExpectedReleaseDate  *time.Time
	Cell                 string
	Block                string
	MedicalConditions    string
}

// AdmitInmate registers a new inmate in custody. Prison officer only. The
// admitting officer takes initial custody.
func (s *Service) AdmitInmate(ctx context.Context, input AdmitInmateInput) (models.Inmate, error) {
	if err := requireOfficer(ctx); err != nil {
		return models.Inmate{}, err
	}

	now := requestcontext.Now(ctx)
	officerID := requestcontext.UserID(ctx)
	i := models.Inmate{
		ID:                   id.NewInmateID(),
		InmateNumber:         input.InmateNumber,
		FirstName:            input.FirstName,
		LastName:             input.LastName,
		DateOfBirth:          input.DateOfBirth,
		Gender:               input.Gender,
		Nationality:          input.Nationality,
		IdentificationNumber: input.IdentificationNumber,
		EmergencyContact:     input.EmergencyContact,
		CaseNumber:           input.CaseNumber,
		ConvictionDate:       input.ConvictionDate,
		CrimeDescription:     input.CrimeDescription,
		SentenceKind:         input.SentenceKind,
		SentenceTerm:         input.SentenceTerm,
		FineAmount:           input.FineAmount,
		AdmissionDate:        input.AdmissionDate,
		ExpectedReleaseDate:  input.ExpectedReleaseDate,
		Cell:                 input.Cell,
		Block:                input.Block,
		Status:               models.InmateActive,
		MedicalConditions:    input.MedicalConditions,
		CreatedAt:            now,
		UpdatedAt:            now,
	}
	if i.AdmissionDate.IsZero() {
		i.AdmissionDate = now
	}
	i.AssignOfficer(officerID, "admission", "custodial", "", now)

	if err := s.inmates.Create(ctx, i); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return models.Inmate{}, dErrors.New(dErrors.CodeConflict, "inmate number or identification number already exists")
		}
		return models.Inmate{}, dErrors.Wrap(dErrors.CodeInternal, "admitting inmate", err)
	}

	metrics.InmatesAdmitted.WithLabelValues(string(i.SentenceKind)).Inc()
	s.auditor.Emit(ctx, audit.Event{
		Action:      audit.ActionCreate,
		Entity:      "inmate",
		EntityID:    i.ID.String(),
		Description: "inmate " + i.InmateNumber + " admitted",
	})

	s.logger.InfoContext(ctx, "inmate admitted",
		"inmate_id", i.ID.String(),
		"inmate_number", i.InmateNumber,
		"sentence", i.SentenceKind,
	)
	return i, nil
}

// ListInmatesInput narrows inmate listings.
type ListInmatesInput struct {
	Status models.InmateStatus
	Search string
	Mine   bool
}

// ListInmates returns inmates, optionally filtered by status, a name or
// number search, or the caller's own custody assignments.
func (s *Service) ListInmates(ctx context.Context, input ListInmatesInput) ([]models.Inmate, error) {
	if err := requireOfficer(ctx); err != nil {
		return nil, err
	}

	filter := inmates.Filter{Status: input.Status, Search: input.Search}
	if input.Mine {
		officerID := requestcontext.UserID(ctx)
		filter.OfficerID = &officerID
	}
	list, err := s.inmates.List(ctx, filter)
	if err != nil {
		return nil, dErrors.Wrap(dErrors.CodeInternal, "listing inmates", err)
	}
	return list, nil
}

// GetInmate returns one inmate record.
func (s *Service) GetInmate(ctx context.Context, inmateID id.InmateID) (models.Inmate, error) {
	i, err := s.loadInmate(ctx, inmateID)
	if err != nil {
		return models.Inmate{}, err
	}
	s.auditor.Emit(ctx, audit.Event{
		Action:   audit.ActionView,
		Entity:   "inmate",
		EntityID: i.ID.String(),
	})
	return i, nil
}

// UpdateInmateInput carries optional edits; nil pointers leave fields as-is.
type UpdateInmateInput struct {
	Cell                *string
	Block               *string
	BehaviorRating      *int
	MedicalConditions   *string
	LastHealthCheck     *time.Time
	ExpectedReleaseDate *time.Time
	EmergencyContact    *models.EmergencyContact
}

// UpdateInmate edits custody details of an inmate.
func (s *Service) UpdateInmate(ctx context.Context, inmateID id.InmateID, input UpdateInmateInput) (models.Inmate, error) {
	i, err := s.loadInmate(ctx, inmateID)
	if err != nil {
		return models.Inmate{}, err
	}

	if input.Cell != nil {
		i.Cell = *input.Cell
	}
	if input.Block != nil {
		i.Block = *input.Block
	}
	if input.BehaviorRating != nil {
		if *input.BehaviorRating < 1 || *input.BehaviorRating > 10 {
			return models.Inmate{}, dErrors.New(dErrors.CodeValidation, "behavior rating must be between 1 and 10")
		}
		i.BehaviorRating = *input.BehaviorRating
	}
	if input.MedicalConditions != nil {
		i.MedicalConditions = *input.MedicalConditions
	}
	if input.LastHealthCheck != nil {
		i.LastHealthCheck = input.LastHealthCheck
	}
	if input.ExpectedReleaseDate != nil {
		i.ExpectedReleaseDate = input.ExpectedReleaseDate
	}
	if input.EmergencyContact != nil {
		i.EmergencyContact = *input.EmergencyContact
	}
	i.UpdatedAt = requestcontext.Now(ctx)

	if err := s.inmates.Update(ctx, i); err != nil {
		return models.Inmate{}, dErrors.Wrap(dErrors.CodeInternal, "updating inmate", err)
	}

	s.auditor.Emit(ctx, audit.Event{
		Action:   audit.ActionUpdate,
		Entity:   "inmate",
		EntityID: i.ID.String(),
	})
	return i, nil
}

// AssignOfficer places an inmate under another officer's custody.
func (s *Service) AssignOfficer(ctx context.Context, inmateID id.InmateID, officerID id.UserID, reason, assignmentType, instructions string) (models.Inmate, error) {
	i, err := s.loadInmate(ctx, inmateID)
	if err != nil {
		return models.Inmate{}, err
	}
	if err := s.verifyOfficer(ctx, officerID); err != nil {
		return models.Inmate{}, err
	}

	i.AssignOfficer(officerID, reason, assignmentType, instructions, requestcontext.Now(ctx))
	if err := s.inmates.Update(ctx, i); err != nil {
		return models.Inmate{}, dErrors.Wrap(dErrors.CodeInternal, "assigning officer", err)
	}

	s.auditor.Emit(ctx, audit.Event{
		Action:      audit.ActionAssign,
		Entity:      "inmate",
		EntityID:    i.ID.String(),
		Description: "inmate " + i.InmateNumber + " assigned to officer",
	})
	s.notifier.Notify(ctx, notification.Notification{
		RecipientID: officerID,
		Title:       "Inmate assigned to you",
		Message:     fmt.Sprintf("Inmate %s (%s) is now under your custody", i.InmateNumber, i.FullName()),
		Type:        notification.TypeSystem,
	})
	return i, nil
}

// ProcessRelease releases an inmate from custody. Only the assigned officer
// may process a release; clerks are alerted when it happens.
func (s *Service) ProcessRelease(ctx context.Context, inmateID id.InmateID) (models.Inmate, error) {
	i, err := s.loadInmate(ctx, inmateID)
	if err != nil {
		return models.Inmate{}, err
	}
	if !i.IsAssignedTo(requestcontext.UserID(ctx)) {
		return models.Inmate{}, dErrors.New(dErrors.CodeForbidden, "only the assigned officer may process a release")
	}

	if err := i.Release(requestcontext.Now(ctx)); err != nil {
		return models.Inmate{}, err
	}
	if err := s.inmates.Update(ctx, i); err != nil {
		return models.Inmate{}, dErrors.Wrap(dErrors.CodeInternal, "processing release", err)
	}

	metrics.InmatesReleased.Inc()
	s.auditor.Emit(ctx, audit.Event{
		Action:      audit.ActionUpdate,
		Entity:      "inmate",
		EntityID:    i.ID.String(),
		Description: "inmate " + i.InmateNumber + " released",
	})
	s.alertClerks(ctx, notification.Notification{
		Title:    "Inmate released",
		Message:  fmt.Sprintf("Inmate %s (%s) has been released from custody", i.InmateNumber, i.FullName()),
		Type:     notification.TypeReleaseAlert,
		Priority: notification.PriorityHigh,
	})

	s.logger.InfoContext(ctx, "inmate released",
		"inmate_id", i.ID.String(),
		"inmate_number", i.InmateNumber,
	)
	return i, nil
}

// UpcomingReleases lists active inmates due for release within the window.
func (s *Service) UpcomingReleases(ctx context.Context, withinDays int) ([]models.Inmate, error) {
	if err := requireOfficer(ctx); err != nil {
		return nil, err
	}
	if withinDays <= 0 {
		withinDays = 30
	}
	list, err := s.inmates.UpcomingReleases(ctx, requestcontext.Now(ctx), withinDays)
	if err != nil {
		return nil, dErrors.Wrap(dErrors.CodeInternal, "listing upcoming releases", err)
	}
	return list, nil
}

// CountInmatesByStatus tallies inmates per custody status.
func (s *Service) CountInmatesByStatus(ctx context.Context) (map[models.InmateStatus]int, error) {
	if err := requireOfficer(ctx); err != nil {
		return nil, err
	}
	counts, err := s.inmates.CountByStatus(ctx)
	if err != nil {
		return nil, dErrors.Wrap(dErrors.CodeInternal, "counting inmates", err)
	}
	return counts, nil
}

// alertClerks fans a notification out to every active clerk.
func (s *Service) alertClerks(ctx context.Context, n notification.Notification) {
	clerks, err := s.users.ListByRole(ctx, identity.RoleClerk)
	if err != nil {
		s.logger.ErrorContext(ctx, "resolving clerks for alert", "error", err)
		return
	}
	recipients := make([]id.UserID, 0, len(clerks))
	for _, c := range clerks {
		recipients = append(recipients, c.ID)
	}
	s.notifier.NotifyAll(ctx, recipients, n)
}
