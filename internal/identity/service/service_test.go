package service

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"gavel/internal/audit"
	"gavel/internal/identity/models"
	"gavel/internal/identity/password"
	revocationstore "gavel/internal/identity/store/revocation"
	userstore "gavel/internal/identity/store/user"
	"gavel/internal/token"
	id "gavel/pkg/domain"
	dErrors "gavel/pkg/domain-errors"
	"gavel/pkg/requestcontext"
)

type capturingAuditor struct {
	events []audit.Event
}

func (c *capturingAuditor) Emit(_ context.Context, event audit.Event) {
	c.events = append(c.events, event)
}

type IdentityServiceSuite struct {
	suite.Suite
	users   *userstore.InMemory
	trl     *revocationstore.InMemoryTRL
	auditor *capturingAuditor
	svc     *Service
}

func TestIdentityServiceSuite(t *testing.T) {
	suite.Run(t, new(IdentityServiceSuite))
}

func (s *IdentityServiceSuite) SetupTest() {
	s.users = userstore.NewInMemory()
	s.trl = revocationstore.NewInMemoryTRL()
	s.auditor = &capturingAuditor{}
	tokens := token.NewService("test-signing-key", "gavel", "gavel-api")
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	s.svc = New(s.users, s.trl, tokens, s.auditor, time.Hour, logger)
}

func (s *IdentityServiceSuite) seedUser(username string, role models.Role, plaintext string, active bool) models.User {
	hash, err := password.Hash(plaintext)
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
		Active:       active,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	s.Require().NoError(s.users.Create(context.Background(), user))
	return user
}

func (s *IdentityServiceSuite) asUser(user models.User) context.Context {
	ctx := requestcontext.WithUserID(context.Background(), user.ID)
	return requestcontext.WithRole(ctx, string(user.Role))
}

func (s *IdentityServiceSuite) TestLogin_IssuesTokenAndAudits() {
	user := s.seedUser("jmensah", models.RoleJudge, "correct horse", true)

	result, err := s.svc.Login(context.Background(), "jmensah", "correct horse")
	s.Require().NoError(err)
	s.NotEmpty(result.AccessToken)
	s.Equal(time.Hour, result.ExpiresIn)
	s.Equal(user.ID, result.User.ID)

	s.Require().Len(s.auditor.events, 1)
	s.Equal(audit.ActionLogin, s.auditor.events[0].Action)
	s.Equal(user.ID, s.auditor.events[0].UserID)
}

func (s *IdentityServiceSuite) TestLogin_FailuresAreIndistinguishable() {
	s.seedUser("clerk1", models.RoleClerk, "right-password", true)
	s.seedUser("ghost", models.RolePrisonOfficer, "whatever", false)

	cases := []struct {
		name     string
		username string
		password string
	}{
		{"unknown user", "nobody", "right-password"},
		{"wrong password", "clerk1", "wrong-password"},
		{"deactivated account", "ghost", "whatever"},
	}
	for _, tc := range cases {
		s.Run(tc.name, func() {
			_, err := s.svc.Login(context.Background(), tc.username, tc.password)
			s.Require().Error(err)
			s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
			s.Equal("invalid credentials", dErrors.MessageOf(err))
		})
	}
	s.Empty(s.auditor.events)
}

func (s *IdentityServiceSuite) TestLogout_RevokesTokenForRemainingTTL() {
	s.seedUser("clerk1", models.RoleClerk, "pw-12345678", true)
	result, err := s.svc.Login(context.Background(), "clerk1", "pw-12345678")
	s.Require().NoError(err)

	s.Require().NoError(s.svc.Logout(context.Background(), result.AccessToken))

	tokens := token.NewService("test-signing-key", "gavel", "gavel-api")
	claims, err := tokens.Validate(result.AccessToken)
	s.Require().NoError(err)
	revoked, err := s.trl.IsTokenRevoked(context.Background(), claims.ID)
	s.Require().NoError(err)
	s.True(revoked)
}

func (s *IdentityServiceSuite) TestLogout_RejectsGarbageToken() {
	err := s.svc.Logout(context.Background(), "not.a.token")
	s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
}

func (s *IdentityServiceSuite) TestRegister_ClerkOnly() {
	clerk := s.seedUser("registrar", models.RoleClerk, "pw-12345678", true)
	judge := s.seedUser("judge1", models.RoleJudge, "pw-12345678", true)

	newUser := models.User{
		Username:   "officer9",
		Email:      "officer9@prison.example",
		FirstName:  "Ama",
		LastName:   "Owusu",
		Role:       models.RolePrisonOfficer,
		EmployeeID: "EMP-900",
	}

	_, err := s.svc.Register(s.asUser(judge), newUser, "pw-12345678")
	s.True(dErrors.HasCode(err, dErrors.CodeForbidden))

	created, err := s.svc.Register(s.asUser(clerk), newUser, "pw-12345678")
	s.Require().NoError(err)
	s.False(created.ID.IsNil())
	s.True(created.Active)
	s.NotEmpty(created.PasswordHash)

	// Password must verify against the stored hash.
	stored, err := s.users.FindByUsername(context.Background(), "officer9")
	s.Require().NoError(err)
	s.NoError(password.Verify(stored.PasswordHash, "pw-12345678"))
}

func (s *IdentityServiceSuite) TestRegister_DuplicateUsernameConflicts() {
	clerk := s.seedUser("registrar", models.RoleClerk, "pw-12345678", true)
	taken := models.User{
		Username:   "registrar",
		Email:      "other@court.example",
		FirstName:  "Other",
		LastName:   "Person",
		Role:       models.RoleClerk,
		EmployeeID: "EMP-777",
	}
	_, err := s.svc.Register(s.asUser(clerk), taken, "pw-12345678")
	s.True(dErrors.HasCode(err, dErrors.CodeConflict))
}

func (s *IdentityServiceSuite) TestProfile_RequiresAuthentication() {
	_, err := s.svc.Profile(context.Background())
	s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
}

func (s *IdentityServiceSuite) TestUpdateProfile_ChangesContactFieldsOnly() {
	user := s.seedUser("officer1", models.RolePrisonOfficer, "pw-12345678", true)
	ctx := s.asUser(user)

	updated, err := s.svc.UpdateProfile(ctx, ProfileUpdate{
		Email:       "new@prison.example",
		PhoneNumber: "+233201234567",
	})
	s.Require().NoError(err)
	s.Equal("new@prison.example", updated.Email)
	s.Equal("+233201234567", updated.PhoneNumber)
	s.Equal(user.Username, updated.Username)
	s.Equal(user.Role, updated.Role)
	s.Equal(user.EmployeeID, updated.EmployeeID)
}

func (s *IdentityServiceSuite) TestListByRole() {
	s.seedUser("judge1", models.RoleJudge, "pw-12345678", true)
	s.seedUser("judge2", models.RoleJudge, "pw-12345678", true)
	s.seedUser("clerk1", models.RoleClerk, "pw-12345678", true)

	judges, err := s.svc.ListByRole(context.Background(), models.RoleJudge)
	s.Require().NoError(err)
	s.Len(judges, 2)

	_, err = s.svc.ListByRole(context.Background(), models.Role("warden"))
	s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
}
