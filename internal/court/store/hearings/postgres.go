package hearings

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"gavel/internal/court/models"
	id "gavel/pkg/domain"
	"gavel/pkg/platform/sentinel"
)

// Postgres persists hearings in the hearings table.
type Postgres struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

const hearingColumns = `id, case_id, type, scheduled_at, duration_minutes, courtroom,
	location, judge_id, clerk_id, created_by, notes, outcome, next_hearing_at,
	completed, completed_at, completed_by, cancelled, cancellation_reason,
	created_at, updated_at`

func (s *Postgres) Create(ctx context.Context, h models.Hearing) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO hearings (`+hearingColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
			$11, $12, $13, $14, $15, $16, $17, $18, $19, $20)`,
		h.ID, h.CaseID, h.Type, h.ScheduledAt, h.DurationMinutes, h.Courtroom,
		h.Location, h.JudgeID, h.ClerkID, h.CreatedBy, h.Notes, h.Outcome, h.NextHearingAt,
		h.Completed, h.CompletedAt, h.CompletedBy, h.Cancelled, h.CancellationReason,
		h.CreatedAt, h.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("inserting hearing: %w", err)
	}
	return nil
}

func (s *Postgres) FindByID(ctx context.Context, hearingID id.HearingID) (models.Hearing, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+hearingColumns+` FROM hearings WHERE id = $1`, hearingID)
	h, err := scanHearing(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Hearing{}, sentinel.ErrNotFound
	}
	return h, err
}

func (s *Postgres) List(ctx context.Context, filter Filter) ([]models.Hearing, error) {
	query := `SELECT ` + hearingColumns + ` FROM hearings WHERE 1=1`
	var args []any
	if filter.CaseID != nil {
		args = append(args, *filter.CaseID)
		query += ` AND case_id = $` + strconv.Itoa(len(args))
	}
	if filter.JudgeID != nil {
		args = append(args, *filter.JudgeID)
		query += ` AND judge_id = $` + strconv.Itoa(len(args))
	}
	if filter.From != nil {
		args = append(args, *filter.From)
		query += ` AND scheduled_at >= $` + strconv.Itoa(len(args))
	}
	if filter.To != nil {
		args = append(args, *filter.To)
		query += ` AND scheduled_at < $` + strconv.Itoa(len(args))
	}
	if filter.OpenOnly {
		query += ` AND NOT completed AND NOT cancelled`
	}
	query += ` ORDER BY scheduled_at ASC`

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing hearings: %w", err)
	}
	defer rows.Close()

	var out []models.Hearing
	for rows.Next() {
		h, err := scanHearing(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

func (s *Postgres) Update(ctx context.Context, h models.Hearing) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE hearings SET
			type = $2, scheduled_at = $3, duration_minutes = $4, courtroom = $5,
			location = $6, judge_id = $7, clerk_id = $8, notes = $9, outcome = $10,
			next_hearing_at = $11, completed = $12, completed_at = $13, completed_by = $14,
			cancelled = $15, cancellation_reason = $16, updated_at = $17
		WHERE id = $1`,
		h.ID, h.Type, h.ScheduledAt, h.DurationMinutes, h.Courtroom,
		h.Location, h.JudgeID, h.ClerkID, h.Notes, h.Outcome,
		h.NextHearingAt, h.Completed, h.CompletedAt, h.CompletedBy,
		h.Cancelled, h.CancellationReason, h.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("updating hearing: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func scanHearing(row pgx.Row) (models.Hearing, error) {
	var h models.Hearing
	err := row.Scan(
		&h.ID, &h.CaseID, &h.Type, &h.ScheduledAt, &h.DurationMinutes, &h.Courtroom,
		&h.Location, &h.JudgeID, &h.ClerkID, &h.CreatedBy, &h.Notes, &h.Outcome, &h.NextHearingAt,
		&h.Completed, &h.CompletedAt, &h.CompletedBy, &h.Cancelled, &h.CancellationReason,
		&h.CreatedAt, &h.UpdatedAt,
	)
	return h, err
}
