package handler

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

	"gavel/internal/audit"
	identity "gavel/internal/identity/models"
	userstore "gavel/internal/identity/store/user"
	"gavel/internal/notification"
	"gavel/internal/prison/models"
	"gavel/internal/prison/service"
	reportstore "gavel/internal/prison/store/inmatereports"
	inmatestore "gavel/internal/prison/store/inmates"
	programstore "gavel/internal/prison/store/programs"
	visitorstore "gavel/internal/prison/store/visitors"
	id "gavel/pkg/domain"
	"gavel/pkg/requestcontext"
)

type nopAuditor struct{}

func (nopAuditor) Emit(context.Context, audit.Event) {}

// identityInjector stamps a fixed user onto every request, standing in for
// the auth middleware.
func identityInjector(user *identity.User) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := requestcontext.WithUserID(r.Context(), user.ID)
			ctx = requestcontext.WithRole(ctx, string(user.Role))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

type PrisonHandlerSuite struct {
	suite.Suite
	users   *userstore.InMemory
	router  chi.Router
	current identity.User

	officer  identity.User
	officer2 identity.User
	clerk    identity.User
}

func TestPrisonHandlerSuite(t *testing.T) {
	suite.Run(t, new(PrisonHandlerSuite))
}

func (s *PrisonHandlerSuite) SetupTest() {
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	s.users = userstore.NewInMemory()
	notifier := notification.NewService(notification.NewInMemoryStore(), logger)
	svc := service.New(
		inmatestore.NewInMemory(),
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
	s.current = s.officer

	s.router = chi.NewRouter()
	s.router.Use(identityInjector(&s.current))
	New(svc, logger).Register(s.router)
}

func (s *PrisonHandlerSuite) seedUser(username string, role identity.Role) identity.User {
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

func (s *PrisonHandlerSuite) do(user identity.User, method, path string, body any) *httptest.ResponseRecorder {
	s.current = user
	var buf bytes.Buffer
	if body != nil {
		s.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *PrisonHandlerSuite) admitInmate(number string) models.Inmate {
	rec := s.do(s.officer, http.MethodPost, "/inmates", map[string]any{
		"inmate_number":         number,
		"first_name":            "Ama",
		"last_name":             "Mensah",
		"date_of_birth":         "1992-03-10T00:00:00Z",
		"identification_number": "ID-" + number,
		"sentence_kind":         "prison",
		"sentence_term":         map[string]any{"years": 2},
		"expected_release_date": time.Now().AddDate(0, 0, 20).Format(time.RFC3339),
		"cell":                  "C-12",
		"block":                 "B",
	})
	s.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())

	var i models.Inmate
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &i))
	return i
}

func (s *PrisonHandlerSuite) TestAdmitInmate_ValidationAndRoles() {
	rec := s.do(s.officer, http.MethodPost, "/inmates", map[string]any{
		"first_name": "No", "last_name": "Number", "sentence_kind": "prison",
	})
	s.Equal(http.StatusBadRequest, rec.Code)

	rec = s.do(s.clerk, http.MethodPost, "/inmates", map[string]any{
		"inmate_number": "INM-1", "first_name": "A", "last_name": "B",
		"date_of_birth": "1990-01-01T00:00:00Z", "identification_number": "ID-1",
		"sentence_kind": "prison",
	})
	s.Equal(http.StatusForbidden, rec.Code)

	i := s.admitInmate("INM-100")
	s.Equal(models.InmateActive, i.Status)
}

func (s *PrisonHandlerSuite) TestInmateListIncludesCounts() {
	s.admitInmate("INM-200")
	s.admitInmate("INM-201")

	rec := s.do(s.officer, http.MethodGet, "/inmates", nil)
	s.Require().Equal(http.StatusOK, rec.Code)

	var resp struct {
		Inmates []models.Inmate             `json:"inmates"`
		Counts  map[models.InmateStatus]int `json:"counts"`
	}
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	s.Len(resp.Inmates, 2)
	s.Equal(2, resp.Counts[models.InmateActive])
}

func (s *PrisonHandlerSuite) TestAssignAndRelease() {
	i := s.admitInmate("INM-300")

	rec := s.do(s.officer, http.MethodPost, "/inmates/"+i.ID.String()+"/assign", map[string]any{
		"officer_id": s.officer2.ID.String(),
		"reason":     "block transfer",
	})
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())

	// The previous custodian can no longer release.
	rec = s.do(s.officer, http.MethodPost, "/inmates/"+i.ID.String()+"/release", nil)
	s.Equal(http.StatusForbidden, rec.Code)

	rec = s.do(s.officer2, http.MethodPost, "/inmates/"+i.ID.String()+"/release", nil)
	s.Require().Equal(http.StatusOK, rec.Code)

	var released models.Inmate
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &released))
	s.Equal(models.InmateReleased, released.Status)

	// Releasing again hits the custody invariant.
	rec = s.do(s.officer2, http.MethodPost, "/inmates/"+i.ID.String()+"/release", nil)
	s.Equal(http.StatusUnprocessableEntity, rec.Code)
}

func (s *PrisonHandlerSuite) TestUpcomingReleases() {
	s.admitInmate("INM-400")

	rec := s.do(s.officer, http.MethodGet, "/inmates/upcoming-releases?within_days=30", nil)
	s.Require().Equal(http.StatusOK, rec.Code)

	var resp struct {
		Inmates    []models.Inmate `json:"inmates"`
		WithinDays int             `json:"within_days"`
	}
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	s.Len(resp.Inmates, 1)
	s.Equal(30, resp.WithinDays)

	rec = s.do(s.officer, http.MethodGet, "/inmates/upcoming-releases?within_days=nope", nil)
	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *PrisonHandlerSuite) TestReportFlow() {
	i := s.admitInmate("INM-500")

	rec := s.do(s.officer, http.MethodPost, "/inmates/"+i.ID.String()+"/reports", map[string]any{
		"type":    "incident",
		"title":   "Altercation",
		"content": "Two inmates involved.",
	})
	s.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())

	var report models.InmateReport
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &report))
	s.Equal(models.ReportPending, report.Status)
	s.Equal(models.ReportPriorityMedium, report.Priority)

	rec = s.do(s.officer2, http.MethodPost, "/inmate-reports/"+report.ID.String()+"/review", map[string]any{
		"status": "approved",
		"notes":  "confirmed",
	})
	s.Require().Equal(http.StatusOK, rec.Code)

	var reviewed models.InmateReport
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &reviewed))
	s.True(reviewed.Reviewed)

	// A review cannot push the report back to pending.
	rec = s.do(s.officer2, http.MethodPost, "/inmate-reports/"+report.ID.String()+"/review", map[string]any{
		"status": "pending",
	})
	s.Equal(http.StatusBadRequest, rec.Code)

	rec = s.do(s.officer, http.MethodGet, "/inmates/"+i.ID.String()+"/reports", nil)
	s.Require().Equal(http.StatusOK, rec.Code)

	var list struct {
		Reports []models.InmateReport `json:"reports"`
	}
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &list))
	s.Len(list.Reports, 1)
}

func (s *PrisonHandlerSuite) TestVisitRoutes() {
	i := s.admitInmate("INM-600")

	rec := s.do(s.officer, http.MethodPost, "/visits", map[string]any{
		"inmate_id":         i.ID.String(),
		"visitor_name":      "Efua Mensah",
		"visitor_id_number": "GHA-887766",
		"visit_type":        "family",
		"duration_minutes":  30,
		"approved":          true,
	})
	s.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())

	var v models.VisitorLog
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &v))
	s.Equal(s.officer.ID, v.AuthorizedBy)

	rec = s.do(s.officer, http.MethodPut, "/visits/"+v.ID.String(), map[string]any{
		"notes": "visit went smoothly",
	})
	s.Require().Equal(http.StatusOK, rec.Code)

	rec = s.do(s.officer, http.MethodGet, "/visits?inmate_id="+i.ID.String(), nil)
	s.Require().Equal(http.StatusOK, rec.Code)

	var list struct {
		Visits []models.VisitorLog `json:"visits"`
	}
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &list))
	s.Require().Len(list.Visits, 1)
	s.Equal("visit went smoothly", list.Visits[0].Notes)

	rec = s.do(s.officer, http.MethodPost, "/visits", map[string]any{
		"inmate_id":    i.ID.String(),
		"visitor_name": "Missing Type",
	})
	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *PrisonHandlerSuite) TestProgramRoutes() {
	i := s.admitInmate("INM-700")

	rec := s.do(s.officer, http.MethodPost, "/programs", map[string]any{
		"inmate_id":  i.ID.String(),
		"name":       "Carpentry",
		"type":       "vocational",
		"start_date": time.Now().AddDate(0, 0, -1).Format(time.RFC3339),
	})
	s.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())

	var p models.InmateProgram
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &p))
	s.Equal(models.ProgramActive, p.Status)

	rec = s.do(s.officer, http.MethodPut, "/programs/"+p.ID.String(), map[string]any{
		"progress_percent": 100,
	})
	s.Require().Equal(http.StatusOK, rec.Code)

	var done models.InmateProgram
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &done))
	s.Equal(models.ProgramCompleted, done.Status)

	rec = s.do(s.officer, http.MethodPut, "/programs/"+p.ID.String(), map[string]any{
		"progress_percent": 150,
	})
	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *PrisonHandlerSuite) TestBadInmateIDIsRejected() {
	rec := s.do(s.officer, http.MethodGet, "/inmates/not-a-uuid", nil)
	s.Equal(http.StatusBadRequest, rec.Code)
}
