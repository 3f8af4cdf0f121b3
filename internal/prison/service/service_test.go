package service

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"gavel/internal/audit"
	identity "gavel/internal/identity/models"
	userstore "gavel/internal/identity/store/user"
	"gavel/internal/notification"
	"gavel/internal/prison/models"
	reportstore "gavel/internal/prison/store/inmatereports"
	inmatestore "gavel/internal/prison/store/inmates"
	programstore "gavel/internal/prison/store/programs"
	visitorstore "gavel/internal/prison/store/visitors"
	id "gavel/pkg/domain"
	dErrors "gavel/pkg/domain-errors"
	"gavel/pkg/requestcontext"
)

type nopAuditor struct{}

func (nopAuditor) Emit(context.Context, audit.Event) {}

type PrisonServiceSuite struct {
	suite.Suite
	inmates       *inmatestore.InMemory
	users         *userstore.InMemory
	notifications *notification.InMemoryStore
	svc           *Service

	officer  identity.User
	officer2 identity.User
	clerk    identity.User
	judge    identity.User
}

func TestPrisonServiceSuite(t *testing.T) {
	suite.Run(t, new(PrisonServiceSuite))
}

func (s *PrisonServiceSuite) SetupTest() {
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	s.inmates = inmatestore.NewInMemory()
	s.users = userstore.NewInMemory()
	s.notifications = notification.NewInMemoryStore()
	notifier := notification.NewService(s.notifications, logger)

	s.svc = New(
		s.inmates,
		reportstore.NewInMemory(),
		visitorstore.NewInMemory(),
		programstore.NewInMemory(),
		s.users,
		notifier,
		nopAuditor{},
		logger,
	)

	s.officer = s.seedUser("officer1", identity.RolePrisonOfficer)
	s.officer2 = s.seedUser("officer2", identity.RolePrisonOfficer)
	s.clerk = s.seedUser("clerk1", identity.RoleClerk)
	s.judge = s.seedUser("judge1", identity.RoleJudge)
}

func (s *PrisonServiceSuite) seedUser(username string, role identity.Role) identity.User {
	user := identity.User{
		ID:           id.NewUserID(),
		Username:     username,
		Email:        username + "@court.example",
		FirstName:    "Test",
		LastName:     "User",
		Role:         role,
		EmployeeID:   "EMP-" + username,
		PasswordHash: "x",
		Active:       true,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	s.Require().NoError(s.users.Create(context.Background(), user))
	return user
}

func (s *PrisonServiceSuite) as(user identity.User) context.Context {
	ctx := requestcontext.WithUserID(context.Background(), user.ID)
	return requestcontext.WithRole(ctx, string(user.Role))
}

func (s *PrisonServiceSuite) admitInmate(number string) models.Inmate {
	release := time.Now().AddDate(1, 0, 0)
	i, err := s.svc.AdmitInmate(s.as(s.officer), AdmitInmateInput{
		InmateNumber:         number,
		FirstName:            "Ama",
		LastName:             "Mensah",
		DateOfBirth:          time.Date(1992, 3, 10, 0, 0, 0, 0, time.UTC),
		IdentificationNumber: "ID-" + number,
		SentenceKind:         models.SentenceKindPrison,
		SentenceTerm:         models.SentenceTerm{Years: 1},
		ExpectedReleaseDate:  &release,
		Cell:                 "C-12",
		Block:                "B",
	})
	s.Require().NoError(err)
	return i
}

func (s *PrisonServiceSuite) TestAdmitInmate_OfficerOnly() {
	for _, user := range []identity.User{s.clerk, s.judge} {
		_, err := s.svc.AdmitInmate(s.as(user), AdmitInmateInput{InmateNumber: "INM-X"})
		s.True(dErrors.HasCode(err, dErrors.CodeForbidden), "role %s", user.Role)
	}
}

func (s *PrisonServiceSuite) TestAdmitInmate_TakesCustody() {
	i := s.admitInmate("INM-100")
	s.Equal(models.InmateActive, i.Status)
	s.True(i.IsAssignedTo(s.officer.ID))
	s.False(i.AdmissionDate.IsZero())

	_, err := s.svc.AdmitInmate(s.as(s.officer), AdmitInmateInput{
		InmateNumber:         "INM-100",
		IdentificationNumber: "ID-other",
	})
	s.True(dErrors.HasCode(err, dErrors.CodeConflict))
}

func (s *PrisonServiceSuite) TestListInmates_Filters() {
	s.admitInmate("INM-200")
	second := s.admitInmate("INM-201")
	_, err := s.svc.AssignOfficer(s.as(s.officer), second.ID, s.officer2.ID, "transfer", "custodial", "")
	s.Require().NoError(err)

	all, err := s.svc.ListInmates(s.as(s.officer), ListInmatesInput{})
	s.Require().NoError(err)
	s.Len(all, 2)

	mine, err := s.svc.ListInmates(s.as(s.officer2), ListInmatesInput{Mine: true})
	s.Require().NoError(err)
	s.Require().Len(mine, 1)
	s.Equal(second.ID, mine[0].ID)

	byNumber, err := s.svc.ListInmates(s.as(s.officer), ListInmatesInput{Search: "inm-200"})
	s.Require().NoError(err)
	s.Len(byNumber, 1)

	_, err = s.svc.ListInmates(s.as(s.clerk), ListInmatesInput{})
	s.True(dErrors.HasCode(err, dErrors.CodeForbidden))
}

func (s *PrisonServiceSuite) TestAssignOfficer_RejectsNonOfficers() {
	i := s.admitInmate("INM-300")
	_, err := s.svc.AssignOfficer(s.as(s.officer), i.ID, s.judge.ID, "", "", "")
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))
}

func (s *PrisonServiceSuite) TestProcessRelease() {
	i := s.admitInmate("INM-400")

	s.Run("only the assigned officer may release", func() {
		_, err := s.svc.ProcessRelease(s.as(s.officer2), i.ID)
		s.True(dErrors.HasCode(err, dErrors.CodeForbidden))
	})

	s.Run("release marks the inmate and alerts clerks", func() {
		released, err := s.svc.ProcessRelease(s.as(s.officer), i.ID)
		s.Require().NoError(err)
		s.Equal(models.InmateReleased, released.Status)
		s.Require().NotNil(released.ActualReleaseDate)

		alerts, err := s.notifications.ListByRecipient(context.Background(), s.clerk.ID, false, 10)
		s.Require().NoError(err)
		s.Require().Len(alerts, 1)
		s.Equal(notification.TypeReleaseAlert, alerts[0].Type)
	})

	s.Run("releasing twice violates the custody invariant", func() {
		_, err := s.svc.ProcessRelease(s.as(s.officer), i.ID)
		s.True(dErrors.HasCode(err, dErrors.CodeInvariantViolation))
	})
}

func (s *PrisonServiceSuite) TestUpcomingReleases() {
	soon := s.admitInmate("INM-500")
	nearDate := time.Now().AddDate(0, 0, 5)
	_, err := s.svc.UpdateInmate(s.as(s.officer), soon.ID, UpdateInmateInput{ExpectedReleaseDate: &nearDate})
	s.Require().NoError(err)
	s.admitInmate("INM-501")

	due, err := s.svc.UpcomingReleases(s.as(s.officer), 7)
	s.Require().NoError(err)
	s.Require().Len(due, 1)
	s.Equal(soon.ID, due[0].ID)
}

func (s *PrisonServiceSuite) TestUpdateInmate_BehaviorRatingBounds() {
	i := s.admitInmate("INM-600")
	bad := 11
	_, err := s.svc.UpdateInmate(s.as(s.officer), i.ID, UpdateInmateInput{BehaviorRating: &bad})
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))

	good := 7
	updated, err := s.svc.UpdateInmate(s.as(s.officer), i.ID, UpdateInmateInput{BehaviorRating: &good})
	s.Require().NoError(err)
	s.Equal(7, updated.BehaviorRating)
}

func (s *PrisonServiceSuite) TestCreateReport_UrgentAlertsClerks() {
	i := s.admitInmate("INM-700")

	r, err := s.svc.CreateReport(s.as(s.officer), CreateReportInput{
		InmateID: i.ID,
		Type:     models.InmateReportIncident,
		Title:    "Altercation in block B",
		Content:  "Two inmates involved.",
		Priority: models.ReportPriorityUrgent,
	})
	s.Require().NoError(err)
	s.Equal(models.ReportPending, r.Status)
	s.True(r.Urgent())
	s.Equal(s.officer.ID, r.SubmittedBy)

	alerts, err := s.notifications.ListByRecipient(context.Background(), s.clerk.ID, false, 10)
	s.Require().NoError(err)
	s.Require().Len(alerts, 1)
	s.Equal(notification.TypeUrgentReport, alerts[0].Type)
}

func (s *PrisonServiceSuite) TestCreateReport_DefaultPriority() {
	i := s.admitInmate("INM-701")
	r, err := s.svc.CreateReport(s.as(s.officer), CreateReportInput{
		InmateID: i.ID,
		Type:     models.InmateReportRegular,
		Title:    "Weekly check",
		Content:  "No incidents.",
	})
	s.Require().NoError(err)
	s.Equal(models.ReportPriorityMedium, r.Priority)
	s.False(r.Urgent())

	s.Empty(s.mustList(s.clerk.ID), "routine reports do not alert clerks")
}

func (s *PrisonServiceSuite) mustList(recipient id.UserID) []notification.Notification {
	list, err := s.notifications.ListByRecipient(context.Background(), recipient, false, 10)
	s.Require().NoError(err)
	return list
}

func (s *PrisonServiceSuite) TestReviewReport() {
	i := s.admitInmate("INM-702")
	r, err := s.svc.CreateReport(s.as(s.officer), CreateReportInput{
		InmateID: i.ID,
		Type:     models.InmateReportDisciplinary,
		Title:    "Contraband found",
		Content:  "Cell search.",
	})
	s.Require().NoError(err)

	_, err = s.svc.ReviewReport(s.as(s.officer2), r.ID, models.ReportPending, "")
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))

	reviewed, err := s.svc.ReviewReport(s.as(s.officer2), r.ID, models.ReportApproved, "confirmed")
	s.Require().NoError(err)
	s.True(reviewed.Reviewed)
	s.Equal(models.ReportApproved, reviewed.Status)

	submitterInbox := s.mustList(s.officer.ID)
	s.Require().NotEmpty(submitterInbox)
	s.Equal(notification.TypeReportSubmitted, submitterInbox[0].Type)
}

func (s *PrisonServiceSuite) TestRecordAction() {
	i := s.admitInmate("INM-703")
	noAction, err := s.svc.CreateReport(s.as(s.officer), CreateReportInput{
		InmateID: i.ID,
		Type:     models.InmateReportRegular,
		Title:    "Routine",
		Content:  "Nothing to do.",
	})
	s.Require().NoError(err)
	_, err = s.svc.RecordAction(s.as(s.officer), noAction.ID, "n/a")
	s.True(dErrors.HasCode(err, dErrors.CodeInvariantViolation))

	actionable, err := s.svc.CreateReport(s.as(s.officer), CreateReportInput{
		InmateID:       i.ID,
		Type:           models.InmateReportMedical,
		Title:          "Needs checkup",
		Content:        "Schedule a doctor visit.",
		ActionRequired: true,
	})
	s.Require().NoError(err)

	updated, err := s.svc.RecordAction(s.as(s.officer), actionable.ID, "checkup scheduled")
	s.Require().NoError(err)
	s.Equal("checkup scheduled", updated.ActionTaken)
	s.Require().NotNil(updated.ActionTakenAt)
}

func (s *PrisonServiceSuite) TestVisits() {
	i := s.admitInmate("INM-800")

	v, err := s.svc.LogVisit(s.as(s.officer), LogVisitInput{
		InmateID:        i.ID,
		VisitorName:     "Efua Mensah",
		VisitorIDNumber: "GHA-887766",
		Relationship:    "sister",
		VisitType:       models.VisitFamily,
		DurationMinutes: 30,
		Approved:        true,
	})
	s.Require().NoError(err)
	s.Equal(s.officer.ID, v.AuthorizedBy)
	s.False(v.VisitAt.IsZero())

	inmateID := i.ID
	list, err := s.svc.ListVisits(s.as(s.officer), ListVisitsInput{InmateID: &inmateID})
	s.Require().NoError(err)
	s.Len(list, 1)

	released, err := s.svc.ProcessRelease(s.as(s.officer), i.ID)
	s.Require().NoError(err)
	_, err = s.svc.LogVisit(s.as(s.officer), LogVisitInput{
		InmateID:    released.ID,
		VisitorName: "Too Late",
		VisitType:   models.VisitFamily,
	})
	s.True(dErrors.HasCode(err, dErrors.CodeInvariantViolation))
}

func (s *PrisonServiceSuite) TestPrograms() {
	i := s.admitInmate("INM-900")

	p, err := s.svc.EnrollProgram(s.as(s.officer), EnrollProgramInput{
		InmateID:  i.ID,
		Name:      "Carpentry",
		Type:      models.ProgramVocational,
		StartDate: time.Now().AddDate(0, 0, -1),
	})
	s.Require().NoError(err)
	s.Equal(models.ProgramActive, p.Status, "past start date activates immediately")

	future, err := s.svc.EnrollProgram(s.as(s.officer), EnrollProgramInput{
		InmateID:  i.ID,
		Name:      "Literacy",
		Type:      models.ProgramEducation,
		StartDate: time.Now().AddDate(0, 1, 0),
	})
	s.Require().NoError(err)
	s.Equal(models.ProgramUpcoming, future.Status)

	progress := 100
	done, err := s.svc.UpdateProgram(s.as(s.officer), p.ID, UpdateProgramInput{ProgressPercent: &progress})
	s.Require().NoError(err)
	s.Equal(models.ProgramCompleted, done.Status)
	s.Require().NotNil(done.ActualEndDate)

	inmateID := i.ID
	list, err := s.svc.ListPrograms(s.as(s.officer), ListProgramsInput{InmateID: &inmateID})
	s.Require().NoError(err)
	s.Len(list, 2)
}

func (s *PrisonServiceSuite) TestCourtRolesCannotTouchPrisonRecords() {
	i := s.admitInmate("INM-950")
	for _, user := range []identity.User{s.clerk, s.judge} {
		_, err := s.svc.GetInmate(s.as(user), i.ID)
		s.True(dErrors.HasCode(err, dErrors.CodeForbidden), "role %s", user.Role)
	}
}
