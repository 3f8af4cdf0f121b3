package inmatereports

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

// Postgres persists inmate reports in the inmate_reports table.
type Postgres struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

const reportColumns = `id, inmate_id, type, title, content, recommendations,
	priority, submitted_by, submission_date, incident_at,
	status, reviewed, reviewed_by, reviewed_at, review_notes,
	action_required, action_taken, action_taken_at, follow_up_at`

// urgentClause matches the Urgent predicate on the model.
const urgentClause = `(type = 'urgent' OR priority = 'urgent')`

func (s *Postgres) Create(ctx context.Context, r models.InmateReport) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO inmate_reports (`+reportColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
			$11, $12, $13, $14, $15, $16, $17, $18, $19)`,
		r.ID, r.InmateID, r.Type, r.Title, r.Content, r.Recommendations,
		r.Priority, r.SubmittedBy, r.SubmissionDate, r.IncidentAt,
		r.Status, r.Reviewed, r.ReviewedBy, r.ReviewedAt, r.ReviewNotes,
		r.ActionRequired, r.ActionTaken, r.ActionTakenAt, r.FollowUpAt,
	)
	if err != nil {
		return fmt.Errorf("inserting inmate report: %w", err)
	}
	return nil
}

func (s *Postgres) FindByID(ctx context.Context, reportID id.InmateReportID) (models.InmateReport, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT `+reportColumns+` FROM inmate_reports WHERE id = $1`, reportID)
	r, err := scanReport(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.InmateReport{}, sentinel.ErrNotFound
	}
	return r, err
}

func (s *Postgres) List(ctx context.Context, filter Filter) ([]models.InmateReport, error) {
	query := `SELECT ` + reportColumns + ` FROM inmate_reports WHERE 1=1`
	var args []any
	if filter.InmateID != nil {
		args = append(args, *filter.InmateID)
		query += ` AND inmate_id = $` + strconv.Itoa(len(args))
	}
	if filter.SubmittedBy != nil {
		args = append(args, *filter.SubmittedBy)
		query += ` AND submitted_by = $` + strconv.Itoa(len(args))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		query += ` AND status = $` + strconv.Itoa(len(args))
	}
	if filter.UrgentOnly {
		query += ` AND ` + urgentClause
	}
	query += ` ORDER BY submission_date DESC`

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing inmate reports: %w", err)
	}
	defer rows.Close()

	var out []models.InmateReport
	for rows.Next() {
		r, err := scanReport(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *Postgres) CountPendingUrgent(ctx context.Context) (int, error) {
	var n int
	err := s.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM inmate_reports
		WHERE status = 'pending' AND `+urgentClause).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting urgent reports: %w", err)
	}
	return n, nil
}

func (s *Postgres) Update(ctx context.Context, r models.InmateReport) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE inmate_reports SET
			type = $2, title = $3, content = $4, recommendations = $5,
			priority = $6, incident_at = $7,
			status = $8, reviewed = $9, reviewed_by = $10, reviewed_at = $11,
			review_notes = $12, action_required = $13, action_taken = $14,
			action_taken_at = $15, follow_up_at = $16
		WHERE id = $1`,
		r.ID, r.Type, r.Title, r.Content, r.Recommendations,
		r.Priority, r.IncidentAt,
		r.Status, r.Reviewed, r.ReviewedBy, r.ReviewedAt,
		r.ReviewNotes, r.ActionRequired, r.ActionTaken,
		r.ActionTakenAt, r.FollowUpAt,
	)
	if err != nil {
		return fmt.Errorf("updating inmate report: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func scanReport(row pgx.Row) (models.InmateReport, error) {
	var r models.InmateReport
	err := row.Scan(
		&r.ID, &r.InmateID, &r.Type, &r.Title, &r.Content, &r.Recommendations,
		&r.Priority, &r.SubmittedBy, &r.SubmissionDate, &r.IncidentAt,
		&r.Status, &r.Reviewed, &r.ReviewedBy, &r.ReviewedAt, &r.ReviewNotes,
		&r.ActionRequired, &r.ActionTaken, &r.ActionTakenAt, &r.FollowUpAt,
	)
	if err != nil {
		return models.InmateReport{}, err
	}
	return r, nil
}
