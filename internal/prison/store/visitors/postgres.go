package visitors

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"gavel/internal/prison/models"
	id "gavel/pkg/domain"
	"gavel/pkg/platform/sentinel"
)

// Postgres persists visitor logs in the visitor_logs table.
type Postgres struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

const visitColumns = `id, inmate_id, visitor_name, visitor_id_number, visitor_phone,
	relationship, visit_type, visit_at, duration_minutes, purpose, notes,
	authorized_by, approved, created_at`

func (s *Postgres) Create(ctx context.Context, v models.VisitorLog) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO visitor_logs (`+visitColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		v.ID, v.InmateID, v.VisitorName, v.VisitorIDNumber, v.VisitorPhone,
		v.Relationship, v.VisitType, v.VisitAt, v.DurationMinutes, v.Purpose, v.Notes,
		v.AuthorizedBy, v.Approved, v.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("inserting visitor log: %w", err)
	}
	return nil
}

func (s *Postgres) FindByID(ctx context.Context, logID id.VisitorLogID) (models.VisitorLog, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+visitColumns+` FROM visitor_logs WHERE id = $1`, logID)
	v, err := scanVisit(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.VisitorLog{}, sentinel.ErrNotFound
	}
	return v, err
}

func (s *Postgres) List(ctx context.Context, filter Filter) ([]models.VisitorLog, error) {
	query := `SELECT ` + visitColumns + ` FROM visitor_logs WHERE 1=1`
	var args []any
	if filter.InmateID != nil {
		args = append(args, *filter.InmateID)
		query += ` AND inmate_id = $` + strconv.Itoa(len(args))
	}
	if filter.VisitType != "" {
		args = append(args, filter.VisitType)
		query += ` AND visit_type = $` + strconv.Itoa(len(args))
	}
	if !filter.From.IsZero() {
		args = append(args, filter.From)
		query += ` AND visit_at >= $` + strconv.Itoa(len(args))
	}
	if !filter.To.IsZero() {
		args = append(args, filter.To)
		query += ` AND visit_at <= $` + strconv.Itoa(len(args))
	}
	query += ` ORDER BY visit_at DESC`

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing visitor logs: %w", err)
	}
	defer rows.Close()

	var out []models.VisitorLog
	for rows.Next() {
		v, err := scanVisit(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func (s *Postgres) CountSince(ctx context.Context, cutoff time.Time) (int, error) {
	var n int
	err := s.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM visitor_logs WHERE visit_at >= $1`, cutoff).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting visits: %w", err)
	}
	return n, nil
}

func (s *Postgres) Update(ctx context.Context, v models.VisitorLog) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE visitor_logs SET
			visitor_name = $2, visitor_id_number = $3, visitor_phone = $4,
			relationship = $5, visit_type = $6, visit_at = $7,
			duration_minutes = $8, purpose = $9, notes = $10, approved = $11
		WHERE id = $1`,
		v.ID, v.VisitorName, v.VisitorIDNumber, v.VisitorPhone,
		v.Relationship, v.VisitType, v.VisitAt,
		v.DurationMinutes, v.Purpose, v.Notes, v.Approved,
	)
	if err != nil {
		return fmt.Errorf("updating visitor log: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func scanVisit(row pgx.Row) (models.VisitorLog, error) {
	var v models.VisitorLog
	err := row.Scan(
		&v.ID, &v.InmateID, &v.VisitorName, &v.VisitorIDNumber, &v.VisitorPhone,
		&v.Relationship, &v.VisitType, &v.VisitAt, &v.DurationMinutes, &v.Purpose, &v.Notes,
		&v.AuthorizedBy, &v.Approved, &v.CreatedAt,
	)
	if err != nil {
		return models.VisitorLog{}, err
	}
	return v, nil
}
