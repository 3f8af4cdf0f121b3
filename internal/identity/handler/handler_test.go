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
	"gavel/internal/identity/models"
	"gavel/internal/identity/password"
	"gavel/internal/identity/service"
	revocationstore "gavel/internal/identity/store/revocation"
	userstore "gavel/internal/identity/store/user"
	"gavel/internal/platform/middleware"
	"gavel/internal/token"
	id "gavel/pkg/domain"
)

type nopAuditor struct{}

func (nopAuditor) Emit(context.Context, audit.Event) {}

type IdentityHandlerSuite struct {
	suite.Suite
	users  *userstore.InMemory
	trl    *revocationstore.InMemoryTRL
	router chi.Router
}

func TestIdentityHandlerSuite(t *testing.T) {
	suite.Run(t, new(IdentityHandlerSuite))
}

func (s *IdentityHandlerSuite) SetupTest() {
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	s.users = userstore.NewInMemory()
	s.trl = revocationstore.NewInMemoryTRL()
	tokens := token.NewService("test-signing-key", "gavel", "gavel-api")
	svc := service.New(s.users, s.trl, tokens, nopAuditor{}, time.Hour, logger)
	h := New(svc, logger)

	s.router = chi.NewRouter()
	h.RegisterPublic(s.router)
	s.router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(tokens, s.trl, tokens, logger))
		h.RegisterProtected(r)
	})
}

func (s *IdentityHandlerSuite) seedUser(username string, role models.Role) models.User {
	hash, err := password.Hash("pw-12345678")
	s.Require().NoError(err)
	user := models.User{
		ID:           id.NewUserID(),
		Username:     username,
		Email:        username + "@court.example",
		FirstName:    "Test",
		LastName:     "User",
		Role:         role,
		EmployeeID:   "EMP-" + username,
		PasswordHash: hash,
		Active:       true,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	s.Require().NoError(s.users.Create(context.Background(), user))
	return user
}

func (s *IdentityHandlerSuite) do(method, path, token string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		s.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *IdentityHandlerSuite) login(username string) string {
	rec := s.do(http.MethodPost, "/auth/login", "", map[string]string{
		"username": username,
		"password": "pw-12345678",
	})
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
	var resp LoginResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.AccessToken
}

func (s *IdentityHandlerSuite) TestLogin_Success() {
	s.seedUser("clerk1", models.RoleClerk)

	rec := s.do(http.MethodPost, "/auth/login", "", map[string]string{
		"username": "clerk1",
		"password": "pw-12345678",
	})
	s.Equal(http.StatusOK, rec.Code)

	var resp LoginResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	s.Equal("Bearer", resp.TokenType)
	s.NotEmpty(resp.AccessToken)
	s.Equal("clerk", resp.User.Role)
}

func (s *IdentityHandlerSuite) TestLogin_BadCredentials() {
	s.seedUser("clerk1", models.RoleClerk)

	rec := s.do(http.MethodPost, "/auth/login", "", map[string]string{
		"username": "clerk1",
		"password": "wrong",
	})
	s.Equal(http.StatusUnauthorized, rec.Code)
}

func (s *IdentityHandlerSuite) TestLogin_MissingBody() {
	rec := s.do(http.MethodPost, "/auth/login", "", nil)
	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *IdentityHandlerSuite) TestProtectedRoutes_RejectMissingToken() {
	rec := s.do(http.MethodGet, "/auth/profile", "", nil)
	s.Equal(http.StatusUnauthorized, rec.Code)
}

func (s *IdentityHandlerSuite) TestLogout_TokenStopsWorking() {
	s.seedUser("clerk1", models.RoleClerk)
	tok := s.login("clerk1")

	rec := s.do(http.MethodGet, "/auth/profile", tok, nil)
	s.Equal(http.StatusOK, rec.Code)

	rec = s.do(http.MethodPost, "/auth/logout", tok, nil)
	s.Equal(http.StatusOK, rec.Code)

	rec = s.do(http.MethodGet, "/auth/profile", tok, nil)
	s.Equal(http.StatusUnauthorized, rec.Code)
}

func (s *IdentityHandlerSuite) TestRegister_ClerkCreatesJudge() {
	s.seedUser("clerk1", models.RoleClerk)
	tok := s.login("clerk1")

	rec := s.do(http.MethodPost, "/auth/register", tok, map[string]string{
		"username":    "judge7",
		"password":    "pw-12345678",
		"email":       "judge7@court.example",
		"first_name":  "Akua",
		"last_name":   "Asante",
		"role":        "judge",
		"employee_id": "EMP-700",
	})
	s.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())

	var resp UserResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	s.Equal("judge", resp.Role)
	s.Equal("Akua Asante", resp.FullName)
}

func (s *IdentityHandlerSuite) TestRegister_NonClerkForbidden() {
	s.seedUser("judge1", models.RoleJudge)
	tok := s.login("judge1")

	rec := s.do(http.MethodPost, "/auth/register", tok, map[string]string{
		"username":    "sneaky",
		"password":    "pw-12345678",
		"email":       "x@court.example",
		"first_name":  "S",
		"last_name":   "N",
		"role":        "clerk",
		"employee_id": "EMP-999",
	})
	s.Equal(http.StatusForbidden, rec.Code)
}

func (s *IdentityHandlerSuite) TestRegister_ValidationFailure() {
	s.seedUser("clerk1", models.RoleClerk)
	tok := s.login("clerk1")

	rec := s.do(http.MethodPost, "/auth/register", tok, map[string]string{
		"username": "shorty",
		"password": "short",
		"role":     "judge",
	})
	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *IdentityHandlerSuite) TestUpdateProfile() {
	s.seedUser("officer1", models.RolePrisonOfficer)
	tok := s.login("officer1")

	rec := s.do(http.MethodPut, "/auth/profile", tok, map[string]string{
		"phone_number": "+233201234567",
	})
	s.Require().Equal(http.StatusOK, rec.Code)

	var resp UserResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	s.Equal("+233201234567", resp.PhoneNumber)
}

func (s *IdentityHandlerSuite) TestListByRole() {
	s.seedUser("clerk1", models.RoleClerk)
	s.seedUser("judge1", models.RoleJudge)
	s.seedUser("judge2", models.RoleJudge)
	tok := s.login("clerk1")

	rec := s.do(http.MethodGet, "/users?role=judge", tok, nil)
	s.Require().Equal(http.StatusOK, rec.Code)

	var resp UserListResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	s.Len(resp.Users, 2)
}
