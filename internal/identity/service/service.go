package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"gavel/internal/audit"
	"gavel/internal/identity/models"
	"gavel/internal/identity/password"
	"gavel/internal/token"
	id "gavel/pkg/domain"
	dErrors "gavel/pkg/domain-errors"
	"gavel/pkg/platform/sentinel"
	"gavel/pkg/requestcontext"
)

// UserStore is the persistence contract the service needs for users.
type UserStore interface {
	Create(ctx context.Context, user models.User) error
	FindByID(ctx context.Context, userID id.UserID) (models.User, error)
	FindByUsername(ctx context.Context, username string) (models.User, error)
	ListByRole(ctx context.Context, role models.Role) ([]models.User, error)
	Update(ctx context.Context, user models.User) error
}

// RevocationStore records revoked token IDs until they would have expired.
type RevocationStore interface {
	RevokeToken(ctx context.Context, jti string, ttl time.Duration) error
	IsTokenRevoked(ctx context.Context, jti string) (bool, error)
}

// Auditor receives audit events emitted by the service.
type Auditor interface {
	Emit(ctx context.Context, event audit.Event)
}

type Service struct {
	users       UserStore
	revocations RevocationStore
	tokens      *token.Service
	auditor     Auditor
	tokenTTL    time.Duration
	logger      *slog.Logger
}

func New(users UserStore, revocations RevocationStore, tokens *token.Service, auditor Auditor, tokenTTL time.Duration, logger *slog.Logger) *Service {
	return &Service{
		users:       users,
		revocations: revocations,
		tokens:      tokens,
		auditor:     auditor,
		tokenTTL:    tokenTTL,
		logger:      logger,
	}
}

// LoginResult carries the issued token and the authenticated user.
type LoginResult struct {
	AccessToken string
	ExpiresIn   time.Duration
	User        models.User
}

// Login verifies credentials and issues an access token. It returns the same
// unauthorized error for unknown users, wrong passwords, and deactivated
// accounts so the response does not reveal which check failed.
func (s *Service) Login(ctx context.Context, username, plaintext string) (LoginResult, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return LoginResult{}, dErrors.New(dErrors.CodeUnauthorized, "invalid credentials")
		}
		return LoginResult{}, dErrors.Wrap(dErrors.CodeInternal, "looking up user", err)
	}
	if !user.Active {
		return LoginResult{}, dErrors.New(dErrors.CodeUnauthorized, "invalid credentials")
	}
	if err := password.Verify(user.PasswordHash, plaintext); err != nil {
		return LoginResult{}, err
	}

	sessionID := id.NewSessionID()
	signed, _, err := s.tokens.GenerateAccessToken(user.ID, sessionID, string(user.Role), s.tokenTTL)
	if err != nil {
		return LoginResult{}, dErrors.Wrap(dErrors.CodeInternal, "signing token", err)
	}

	s.auditor.Emit(ctx, audit.Event{
		UserID:      user.ID,
		Action:      audit.ActionLogin,
		Entity:      "session",
		EntityID:    sessionID.String(),
		Description: "user logged in",
	})
	s.logger.InfoContext(ctx, "user logged in",
		"user_id", user.ID.String(),
		"role", user.Role,
	)

	return LoginResult{AccessToken: signed, ExpiresIn: s.tokenTTL, User: user}, nil
}

// Logout revokes the presented token for its remaining lifetime.
func (s *Service) Logout(ctx context.Context, rawToken string) error {
	claims, err := s.tokens.Validate(rawToken)
	if err != nil {
		return err
	}

	ttl := s.tokens.RemainingTTL(claims)
	if ttl <= 0 {
		return nil
	}
	if err := s.revocations.RevokeToken(ctx, claims.ID, ttl); err != nil {
		return dErrors.Wrap(dErrors.CodeInternal, "revoking token", err)
	}

	s.auditor.Emit(ctx, audit.Event{
		Action:      audit.ActionLogout,
		Entity:      "session",
		EntityID:    claims.SessionID,
		Description: "user logged out",
	})
	return nil
}

// Register creates a staff account. Only clerks manage accounts.
func (s *Service) Register(ctx context.Context, user models.User, plaintext string) (models.User, error) {
	if requestcontext.Role(ctx) != string(models.RoleClerk) {
		return models.User{}, dErrors.New(dErrors.CodeForbidden, "only clerks may register accounts")
	}
	hash, err := password.Hash(plaintext)
	if err != nil {
		return models.User{}, err
	}
	user.ID = id.NewUserID()
	user.PasswordHash = hash
	user.Active = true
	now := requestcontext.Now(ctx)
	user.CreatedAt = now
	user.UpdatedAt = now

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return models.User{}, dErrors.New(dErrors.CodeConflict, "username or employee id already taken")
		}
		return models.User{}, dErrors.Wrap(dErrors.CodeInternal, "creating user", err)
	}

	s.auditor.Emit(ctx, audit.Event{
		Action:      audit.ActionCreate,
		Entity:      "user",
		EntityID:    user.ID.String(),
		Description: "staff account registered",
	})
	return user, nil
}

// Profile returns the authenticated user's account.
func (s *Service) Profile(ctx context.Context) (models.User, error) {
	userID := requestcontext.UserID(ctx)
	if userID.IsNil() {
		return models.User{}, dErrors.New(dErrors.CodeUnauthorized, "not authenticated")
	}
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return models.User{}, dErrors.New(dErrors.CodeNotFound, "user not found")
		}
		return models.User{}, dErrors.Wrap(dErrors.CodeInternal, "loading profile", err)
	}
	return user, nil
}

// ProfileUpdate carries the fields a user may change on their own account.
type ProfileUpdate struct {
	Email       string
	FirstName   string
	LastName    string
	PhoneNumber string
	Department  string
}

// UpdateProfile applies contact-detail changes to the authenticated user.
// Username, role, and employee id are fixed at registration.
func (s *Service) UpdateProfile(ctx context.Context, update ProfileUpdate) (models.User, error) {
	user, err := s.Profile(ctx)
	if err != nil {
		return models.User{}, err
	}

	if update.Email != "" {
		user.Email = update.Email
	}
	if update.FirstName != "" {
		user.FirstName = update.FirstName
	}
	if update.LastName != "" {
		user.LastName = update.LastName
	}
	if update.PhoneNumber != "" {
		user.PhoneNumber = update.PhoneNumber
	}
	if update.Department != "" {
		user.Department = update.Department
	}
	user.UpdatedAt = requestcontext.Now(ctx)

	if err := s.users.Update(ctx, user); err != nil {
		return models.User{}, dErrors.Wrap(dErrors.CodeInternal, "updating profile", err)
	}

	s.auditor.Emit(ctx, audit.Event{
		Action:      audit.ActionUpdate,
		Entity:      "user",
		EntityID:    user.ID.String(),
		Description: "profile updated",
	})
	return user, nil
}

// ListByRole returns active users holding the given role, used when a clerk
// picks a judge for assignment.
func (s *Service) ListByRole(ctx context.Context, role models.Role) ([]models.User, error) {
	if !role.IsValid() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "unknown role")
	}
	users, err := s.users.ListByRole(ctx, role)
	if err != nil {
		return nil, dErrors.Wrap(dErrors.CodeInternal, "listing users", err)
	}
	return users, nil
}
