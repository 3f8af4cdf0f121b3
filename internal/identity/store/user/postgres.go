package user

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"gavel/internal/identity/models"
	id "gavel/pkg/domain"
	"gavel/pkg/platform/sentinel"
)

// Postgres persists users in PostgreSQL.
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres constructs a PostgreSQL-backed user store.
func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

const userColumns = `id, username, email, first_name, last_name, role, phone_number, employee_id, department, password_hash, active, created_at, updated_at`

func scanUser(row pgx.Row) (models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.FirstName, &u.LastName, &u.Role,
		&u.PhoneNumber, &u.EmployeeID, &u.Department, &u.PasswordHash, &u.Active,
		&u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.User{}, sentinel.ErrNotFound
		}
		return models.User{}, err
	}
	return u, nil
}

func (s *Postgres) Create(ctx context.Context, u models.User) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO users (`+userColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		u.ID, u.Username, u.Email, u.FirstName, u.LastName, u.Role,
		u.PhoneNumber, u.EmployeeID, u.Department, u.PasswordHash, u.Active,
		u.CreatedAt, u.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (s *Postgres) FindByID(ctx context.Context, userID id.UserID) (models.User, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, userID)
	u, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return models.User{}, err
		}
		return models.User{}, fmt.Errorf("find user by id: %w", err)
	}
	return u, nil
}

func (s *Postgres) FindByUsername(ctx context.Context, username string) (models.User, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE lower(username) = lower($1)`, username)
	u, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return models.User{}, err
		}
		return models.User{}, fmt.Errorf("find user by username: %w", err)
	}
	return u, nil
}

func (s *Postgres) ListByRole(ctx context.Context, role models.Role) ([]models.User, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+userColumns+` FROM users
		WHERE role = $1 AND active
		ORDER BY first_name, last_name`, role)
	if err != nil {
		return nil, fmt.Errorf("list users by role: %w", err)
	}
	defer rows.Close()

	var out []models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (s *Postgres) Update(ctx context.Context, u models.User) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE users
		SET email = $2, first_name = $3, last_name = $4, phone_number = $5,
		    department = $6, password_hash = $7, active = $8, updated_at = $9
		WHERE id = $1`,
		u.ID, u.Email, u.FirstName, u.LastName, u.PhoneNumber,
		u.Department, u.PasswordHash, u.Active, u.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}
