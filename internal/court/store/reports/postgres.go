package reports

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

// Postgres persists case reports in the case_reports table.
type Postgres struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

const reportColumns = `id, case_id, type, title, content, recommendations, priority,
	submitted_by, submission_date, approved, approved_by, approved_at`

func (s *Postgres) Create(ctx context.Context, r models.CaseReport) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO case_reports (`+reportColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		r.ID, r.CaseID, r.Type, r.Title, r.Content, r.Recommendations, r.Priority,
		r.SubmittedBy, r.SubmissionDate, r.Approved, r.ApprovedBy, r.ApprovedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("inserting case report: %w", err)
	}
	return nil
}

func (s *Postgres) FindByID(ctx context.Context, reportID id.CaseReportID) (models.CaseReport, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+reportColumns+` FROM case_reports WHERE id = $1`, reportID)
	r, err := scanReport(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.CaseReport{}, sentinel.ErrNotFound
	}
	return r, err
}

func (s *Postgres) List(ctx context.Context, filter Filter) ([]models.CaseReport, error) {
	query := `SELECT ` + reportColumns + ` FROM case_reports WHERE 1=1`
	var args []any
	if filter.CaseID != nil {
		args = append(args, *filter.CaseID)
		query += ` AND case_id = $` + strconv.Itoa(len(args))
	}
	if filter.SubmittedBy != nil {
		args = append(args, *filter.SubmittedBy)
		query += ` AND submitted_by = $` + strconv.Itoa(len(args))
	}
	query += ` ORDER BY submission_date DESC`

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing case reports: %w", err)
	}
	defer rows.Close()

	var out []models.CaseReport
	for rows.Next() {
		r, err := scanReport(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *Postgres) Update(ctx context.Context, r models.CaseReport) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE case_reports SET
			type = $2, title = $3, content = $4, recommendations = $5, priority = $6,
			approved = $7, approved_by = $8, approved_at = $9
		WHERE id = $1`,
		r.ID, r.Type, r.Title, r.Content, r.Recommendations, r.Priority,
		r.Approved, r.ApprovedBy, r.ApprovedAt,
	)
	if err != nil {
		return fmt.Errorf("updating case report: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func scanReport(row pgx.Row) (models.CaseReport, error) {
	var r models.CaseReport
	err := row.Scan(
		&r.ID, &r.CaseID, &r.Type, &r.Title, &r.Content, &r.Recommendations, &r.Priority,
		&r.SubmittedBy, &r.SubmissionDate, &r.Approved, &r.ApprovedBy, &r.ApprovedAt,
	)
	return r, err
}
