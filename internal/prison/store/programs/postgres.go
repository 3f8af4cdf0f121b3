package programs

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"gavel/internal/prison/models"
	id "gavel/pkg/domain"
	"gavel/pkg/platform/sentinel"
)

// Postgres persists program enrollments in the inmate_programs table.
type Postgres struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

const programColumns = `id, inmate_id, name, type, description,
	start_date, expected_end_date, actual_end_date,
	status, progress_percent, instructor, grade, certificate_earned, notes,
	enrolled_by, created_at, updated_at`

func (s *Postgres) Create(ctx context.Context, p models.InmateProgram) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO inmate_programs (`+programColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`,
		p.ID, p.InmateID, p.Name, p.Type, p.Description,
		p.StartDate, p.ExpectedEndDate, p.ActualEndDate,
		p.Status, p.ProgressPercent, p.Instructor, p.Grade, p.CertificateEarned, p.Notes,
		p.EnrolledBy, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("inserting program: %w", err)
	}
	return nil
}

func (s *Postgres) FindByID(ctx context.Context, programID id.ProgramID) (models.InmateProgram, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT `+programColumns+` FROM inmate_programs WHERE id = $1`, programID)
	p, err := scanProgram(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.InmateProgram{}, sentinel.ErrNotFound
	}
	return p, err
}

func (s *Postgres) List(ctx context.Context, filter Filter) ([]models.InmateProgram, error) {
	query := `SELECT ` + programColumns + ` FROM inmate_programs WHERE 1=1`
	var args []any
	if filter.InmateID != nil {
		args = append(args, *filter.InmateID)
		query += ` AND inmate_id = $` + strconv.Itoa(len(args))
	}
	if filter.Type != "" {
		args = append(args, filter.Type)
		query += ` AND type = $` + strconv.Itoa(len(args))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		query += ` AND status = $` + strconv.Itoa(len(args))
	}
	query += ` ORDER BY start_date DESC`

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing programs: %w", err)
	}
	defer rows.Close()

	var out []models.InmateProgram
	for rows.Next() {
		p, err := scanProgram(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *Postgres) CountActive(ctx context.Context) (int, error) {
	var n int
	err := s.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM inmate_programs WHERE status = 'active'`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting active programs: %w", err)
	}
	return n, nil
}

func (s *Postgres) Update(ctx context.Context, p models.InmateProgram) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE inmate_programs SET
			name = $2, type = $3, description = $4,
			start_date = $5, expected_end_date = $6, actual_end_date = $7,
			status = $8, progress_percent = $9, instructor = $10, grade = $11,
			certificate_earned = $12, notes = $13, updated_at = $14
		WHERE id = $1`,
		p.ID, p.Name, p.Type, p.Description,
		p.StartDate, p.ExpectedEndDate, p.ActualEndDate,
		p.Status, p.ProgressPercent, p.Instructor, p.Grade,
		p.CertificateEarned, p.Notes, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("updating program: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func scanProgram(row pgx.Row) (models.InmateProgram, error) {
	var p models.InmateProgram
	err := row.Scan(
		&p.ID, &p.InmateID, &p.Name, &p.Type, &p.Description,
		&p.StartDate, &p.ExpectedEndDate, &p.ActualEndDate,
		&p.Status, &p.ProgressPercent, &p.Instructor, &p.Grade, &p.CertificateEarned, &p.Notes,
		&p.EnrolledBy, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return models.InmateProgram{}, err
	}
	return p, nil
}
