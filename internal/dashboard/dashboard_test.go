package dashboard

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"

	courtmodels "gavel/internal/court/models"
	casestore "gavel/internal/court/store/cases"
	evidencestore "gavel/internal/court/store/evidence"
	hearingstore "gavel/internal/court/store/hearings"
	identity "gavel/internal/identity/models"
	prisonmodels "gavel/internal/prison/models"
	reportstore "gavel/internal/prison/store/inmatereports"
	inmatestore "gavel/internal/prison/store/inmates"
	programstore "gavel/internal/prison/store/programs"
	visitorstore "gavel/internal/prison/store/visitors"
	id "gavel/pkg/domain"
	"gavel/pkg/requestcontext"
)

type DashboardSuite struct {
	suite.Suite
	svc *Service
	now time.Time

	cases    *casestore.InMemory
	hearings *hearingstore.InMemory
	evidence *evidencestore.InMemory
	inmates  *inmatestore.InMemory
	reports  *reportstore.InMemory
	programs *programstore.InMemory
	visitors *visitorstore.InMemory

	clerkID   id.UserID
	judgeID   id.UserID
	judge2ID  id.UserID
	officerID id.UserID
}

func TestDashboardSuite(t *testing.T) {
	suite.Run(t, new(DashboardSuite))
}

func (s *DashboardSuite) SetupTest() {
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	s.now = time.Date(2024, 5, 15, 10, 0, 0, 0, time.UTC)

	s.cases = casestore.NewInMemory()
	s.hearings = hearingstore.NewInMemory()
	s.evidence = evidencestore.NewInMemory()
	s.inmates = inmatestore.NewInMemory()
	s.reports = reportstore.NewInMemory()
	s.programs = programstore.NewInMemory()
	s.visitors = visitorstore.NewInMemory()

	s.svc = New(s.cases, s.hearings, s.evidence, s.inmates, s.reports, s.programs, s.visitors, 0, logger)

	s.clerkID = id.NewUserID()
	s.judgeID = id.NewUserID()
	s.judge2ID = id.NewUserID()
	s.officerID = id.NewUserID()

	s.seedCourt()
	s.seedPrison()
}

func (s *DashboardSuite) ctx(userID id.UserID, role identity.Role) context.Context {
	ctx := requestcontext.WithUserID(context.Background(), userID)
	ctx = requestcontext.WithRole(ctx, string(role))
	return requestcontext.WithTime(ctx, s.now)
}

func (s *DashboardSuite) seedCase(c courtmodels.Case) courtmodels.Case {
	c.ID = id.NewCaseID()
	if c.CaseNumber == "" {
		c.CaseNumber = "CASE-" + c.ID.String()[:8]
	}
	c.Active = true
	s.Require().NoError(s.cases.Create(context.Background(), c))
	return c
}

func (s *DashboardSuite) seedCourt() {
	// Fresh pending case, filed two days ago.
	s.seedCase(courtmodels.Case{
		Title:      "State v. Okoro",
		Type:       courtmodels.CaseCriminal,
		Status:     courtmodels.StatusPending,
		Priority:   courtmodels.PriorityMedium,
		FilingDate: s.now.AddDate(0, 0, -2),
		CreatedBy:  s.clerkID,
	})
	// Pending case that has sat for 45 days.
	s.seedCase(courtmodels.Case{
		Title:      "Re: Adeyemi Estate",
		Type:       courtmodels.CaseCivil,
		Status:     courtmodels.StatusPending,
		Priority:   courtmodels.PriorityLow,
		FilingDate: s.now.AddDate(0, 0, -45),
		CreatedBy:  s.clerkID,
	})
	// In progress before the first judge, awaiting decision.
	inProgress := s.seedCase(courtmodels.Case{
		Title:         "State v. Bello",
		Type:          courtmodels.CaseCriminal,
		Status:        courtmodels.StatusInProgress,
		Priority:      courtmodels.PriorityHigh,
		FilingDate:    s.now.AddDate(0, 0, -20),
		CreatedBy:     s.clerkID,
		AssignedJudge: &s.judgeID,
	})
	// Decided this morning by the first judge.
	decisionAt := s.now.Add(-time.Hour)
	s.seedCase(courtmodels.Case{
		Title:         "State v. Musa",
		Type:          courtmodels.CaseCriminal,
		Status:        courtmodels.StatusDecided,
		Priority:      courtmodels.PriorityMedium,
		FilingDate:    s.now.AddDate(0, 0, -60),
		CreatedBy:     s.clerkID,
		AssignedJudge: &s.judgeID,
		DecisionDate:  &decisionAt,
	})
	// Assigned to a different judge, filed three days ago.
	s.seedCase(courtmodels.Case{
		Title:         "Eze v. Eze",
		Type:          courtmodels.CaseFamily,
		Status:        courtmodels.StatusAssigned,
		Priority:      courtmodels.PriorityMedium,
		FilingDate:    s.now.AddDate(0, 0, -3),
		CreatedBy:     s.clerkID,
		AssignedJudge: &s.judge2ID,
	})

	seedHearing := func(judgeID id.UserID, at time.Time, completed bool) {
		s.Require().NoError(s.hearings.Create(context.Background(), courtmodels.Hearing{
			ID:          id.NewHearingID(),
			CaseID:      inProgress.ID,
			Type:        courtmodels.HearingTrial,
			ScheduledAt: at,
			JudgeID:     judgeID,
			CreatedBy:   s.clerkID,
			Completed:   completed,
		}))
	}
	seedHearing(s.judgeID, s.now.Add(2*time.Hour), false)  // judge, today
	seedHearing(s.judgeID, s.now.AddDate(0, 0, 5), false)  // judge, upcoming
	seedHearing(s.judge2ID, s.now.Add(4*time.Hour), false) // other judge, today
	seedHearing(s.judgeID, s.now.Add(3*time.Hour), true)   // completed, excluded
	seedHearing(s.judgeID, s.now.AddDate(0, 0, -2), false) // already past

	approved := true
	seedEvidence := func(caseID id.CaseID, reviewed bool) {
		e := courtmodels.Evidence{
			ID:             id.NewEvidenceID(),
			CaseID:         caseID,
			Type:           courtmodels.EvidenceDocument,
			Title:          "Exhibit",
			SubmittedBy:    s.clerkID,
			SubmissionDate: s.now,
		}
		if reviewed {
			e.Approved = &approved
		}
		s.Require().NoError(s.evidence.Create(context.Background(), e))
	}
	seedEvidence(inProgress.ID, false)
	seedEvidence(inProgress.ID, true)
}

func (s *DashboardSuite) seedInmate(status prisonmodels.InmateStatus, officerID *id.UserID, release *time.Time) {
	i := prisonmodels.Inmate{
		ID:                  id.NewInmateID(),
		FirstName:           "Sani",
		LastName:            "Garba",
		Status:              status,
		AdmissionDate:       s.now.AddDate(-1, 0, 0),
		AssignedOfficer:     officerID,
		ExpectedReleaseDate: release,
		SentenceKind:        prisonmodels.SentenceKindPrison,
	}
	i.InmateNumber = "INM-" + i.ID.String()[:8]
	i.IdentificationNumber = "NIN-" + i.ID.String()[:8]
	s.Require().NoError(s.inmates.Create(context.Background(), i))
}

func (s *DashboardSuite) seedPrison() {
	in5 := s.now.AddDate(0, 0, 5)
	in20 := s.now.AddDate(0, 0, 20)
	in60 := s.now.AddDate(0, 0, 60)
	s.seedInmate(prisonmodels.InmateActive, &s.officerID, &in5)
	s.seedInmate(prisonmodels.InmateActive, &s.officerID, &in20)
	s.seedInmate(prisonmodels.InmateActive, nil, &in60)
	s.seedInmate(prisonmodels.InmateReleased, nil, nil)

	seedReport := func(typ prisonmodels.InmateReportType, priority prisonmodels.ReportPriority, status prisonmodels.ReportStatus) {
		s.Require().NoError(s.reports.Create(context.Background(), prisonmodels.InmateReport{
			ID:             id.NewInmateReportID(),
			InmateID:       id.NewInmateID(),
			Type:           typ,
			Title:          "report",
			Content:        "content",
			Priority:       priority,
			SubmittedBy:    s.officerID,
			SubmissionDate: s.now,
			Status:         status,
		}))
	}
	seedReport(prisonmodels.InmateReportUrgent, prisonmodels.ReportPriorityUrgent, prisonmodels.ReportPending)
	seedReport(prisonmodels.InmateReportRegular, prisonmodels.ReportPriorityMedium, prisonmodels.ReportPending)
	seedReport(prisonmodels.InmateReportIncident, prisonmodels.ReportPriorityUrgent, prisonmodels.ReportApproved)

	seedProgram := func(status prisonmodels.ProgramStatus) {
		s.Require().NoError(s.programs.Create(context.Background(), prisonmodels.InmateProgram{
			ID:         id.NewProgramID(),
			InmateID:   id.NewInmateID(),
			Name:       "Carpentry",
			Type:       prisonmodels.ProgramVocational,
			StartDate:  s.now.AddDate(0, -2, 0),
			Status:     status,
			EnrolledBy: s.officerID,
		}))
	}
	seedProgram(prisonmodels.ProgramActive)
	seedProgram(prisonmodels.ProgramCompleted)

	seedVisit := func(at time.Time) {
		s.Require().NoError(s.visitors.Create(context.Background(), prisonmodels.VisitorLog{
			ID:              id.NewVisitorLogID(),
			InmateID:        id.NewInmateID(),
			VisitorName:     "Amina Garba",
			VisitorIDNumber: "VID-1",
			VisitType:       prisonmodels.VisitFamily,
			VisitAt:         at,
			AuthorizedBy:    s.officerID,
		}))
	}
	seedVisit(s.now.Add(-time.Hour))
	seedVisit(s.now.AddDate(0, 0, -1))
}

func (s *DashboardSuite) TestForClerk() {
	d, err := s.svc.ForClerk(s.ctx(s.clerkID, identity.RoleClerk))
	s.Require().NoError(err)

	s.Equal(identity.RoleClerk, d.Role)
	s.Equal(5, d.TotalCases)
	s.Equal(2, d.CasesFiledThisWeek)
	s.Equal(3, d.CasesFiledThisMonth)
	s.Equal(1, d.StalePendingCases)
	s.Equal(2, d.CasesByStatus[courtmodels.StatusPending])
	s.Equal(1, d.CasesByStatus[courtmodels.StatusInProgress])
	s.Equal(1, d.CasesByStatus[courtmodels.StatusDecided])
	s.Equal(1, d.CasesByStatus[courtmodels.StatusAssigned])
	s.Equal(2, d.HearingsToday)
	s.Equal(1, d.UpcomingHearings)
	s.Equal(3, d.ActiveInmates)
	s.Equal(1, d.UrgentInmateReports)
	s.Equal(2, d.UpcomingReleases30)
	s.Len(d.RecentCases, 5)
}

func (s *DashboardSuite) TestForJudge() {
	d, err := s.svc.ForJudge(s.ctx(s.judgeID, identity.RoleJudge))
	s.Require().NoError(err)

	s.Equal(identity.RoleJudge, d.Role)
	s.Equal(2, d.AssignedCases)
	s.Equal(1, d.DecidedCases)
	s.Require().Len(d.SentencingQueue, 1)
	s.Equal("State v. Bello", d.SentencingQueue[0].Title)
	s.Equal(1, d.PendingEvidenceReviews)
	s.Equal(1, d.HearingsToday)
	s.Equal(1, d.UpcomingHearings)
	s.Equal(1, d.PriorityDistribution[courtmodels.PriorityHigh])
	s.Equal(1, d.PriorityDistribution[courtmodels.PriorityMedium])
	s.Equal(1, d.SentencesPassedToday)
	s.Equal(1, d.CasesByStatus[courtmodels.StatusInProgress])
	s.Equal(1, d.CasesByStatus[courtmodels.StatusDecided])
}

func (s *DashboardSuite) TestForJudgeWithNoCases() {
	d, err := s.svc.ForJudge(s.ctx(id.NewUserID(), identity.RoleJudge))
	s.Require().NoError(err)

	s.Equal(0, d.AssignedCases)
	s.Empty(d.SentencingQueue)
	s.Equal(0, d.PendingEvidenceReviews)
	s.Equal(0, d.HearingsToday)
}

func (s *DashboardSuite) TestForOfficer() {
	d, err := s.svc.ForOfficer(s.ctx(s.officerID, identity.RolePrisonOfficer))
	s.Require().NoError(err)

	s.Equal(identity.RolePrisonOfficer, d.Role)
	s.Equal(2, d.AssignedInmates)
	s.Equal(3, d.InmatesByStatus[prisonmodels.InmateActive])
	s.Equal(1, d.InmatesByStatus[prisonmodels.InmateReleased])
	s.Equal(7, d.ReleaseWindowDays)
	s.Equal(1, d.ReleasesApproaching)
	s.Equal(2, d.ReleasesWithin30)
	s.Equal(2, d.PendingReports)
	s.Equal(1, d.UrgentReports)
	s.Equal(1, d.ActivePrograms)
	s.Equal(1, d.VisitsToday)
}

func (s *DashboardSuite) TestForOfficer_ConfiguredReleaseWindow() {
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	svc := New(s.cases, s.hearings, s.evidence, s.inmates, s.reports, s.programs, s.visitors, 25, logger)

	d, err := svc.ForOfficer(s.ctx(s.officerID, identity.RolePrisonOfficer))
	s.Require().NoError(err)

	s.Equal(25, d.ReleaseWindowDays)
	// The 5-day and 20-day releases both fall inside the wider window.
	s.Equal(2, d.ReleasesApproaching)
}

func (s *DashboardSuite) TestHandlerDispatchesByRole() {
	handler := NewHandler(s.svc)

	get := func(userID id.UserID, role string) *httptest.ResponseRecorder {
		r := chi.NewRouter()
		r.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
				ctx := requestcontext.WithUserID(req.Context(), userID)
				ctx = requestcontext.WithRole(ctx, role)
				ctx = requestcontext.WithTime(ctx, s.now)
				next.ServeHTTP(w, req.WithContext(ctx))
			})
		})
		handler.Register(r)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/dashboard", nil))
		return rec
	}

	for _, tc := range []struct {
		role     identity.Role
		userID   id.UserID
		wantRole string
	}{
		{identity.RoleClerk, s.clerkID, "clerk"},
		{identity.RoleJudge, s.judgeID, "judge"},
		{identity.RolePrisonOfficer, s.officerID, "prison_officer"},
	} {
		rec := get(tc.userID, string(tc.role))
		s.Equal(http.StatusOK, rec.Code)
		var body struct {
			Role string `json:"role"`
		}
		s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &body))
		s.Equal(tc.wantRole, body.Role)
	}

	rec := get(id.NewUserID(), "warden")
	s.Equal(http.StatusForbidden, rec.Code)
}
