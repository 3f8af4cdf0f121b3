package evidence

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"gavel/internal/court/models"
	id "gavel/pkg/domain"
	"gavel/pkg/platform/sentinel"
)

// Postgres persists evidence in the evidence table.
type Postgres struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

const evidenceColumns = `id, case_id, type, title, description, submitted_by,
	submission_date, admissible, approved, reviewed_by, reviewed_at, review_notes`

func (s *Postgres) Create(ctx context.Context, e models.Evidence) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO evidence (`+evidenceColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		e.ID, e.CaseID, e.Type, e.Title, e.Description, e.SubmittedBy,
		e.SubmissionDate, e.Admissible, e.Approved, e.ReviewedBy, e.ReviewedAt, e.ReviewNotes,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("inserting evidence: %w", err)
	}
	return nil
}

func (s *Postgres) FindByID(ctx context.Context, evidenceID id.EvidenceID) (models.Evidence, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+evidenceColumns+` FROM evidence WHERE id = $1`, evidenceID)
	e, err := scanEvidence(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Evidence{}, sentinel.ErrNotFound
	}
	return e, err
}

func (s *Postgres) ListByCase(ctx context.Context, caseID id.CaseID) ([]models.Evidence, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+evidenceColumns+` FROM evidence
		WHERE case_id = $1 ORDER BY submission_date DESC`, caseID)
	if err != nil {
		return nil, fmt.Errorf("listing evidence: %w", err)
	}
	defer rows.Close()

	var out []models.Evidence
	for rows.Next() {
		e, err := scanEvidence(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *Postgres) CountUnreviewed(ctx context.Context, caseIDs []id.CaseID) (int, error) {
	if len(caseIDs) == 0 {
		return 0, nil
	}
	var count int
	err := s.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM evidence
		WHERE case_id = ANY($1) AND approved IS NULL`, caseIDs,
	).Scan(&count)
	return count, err
}

func (s *Postgres) Update(ctx context.Context, e models.Evidence) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE evidence SET
			type = $2, title = $3, description = $4, admissible = $5,
			approved = $6, reviewed_by = $7, reviewed_at = $8, review_notes = $9
		WHERE id = $1`,
		e.ID, e.Type, e.Title, e.Description, e.Admissible,
		e.Approved, e.ReviewedBy, e.ReviewedAt, e.ReviewNotes,
	)
	if err != nil {
		return fmt.Errorf("updating evidence: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func scanEvidence(row pgx.Row) (models.Evidence, error) {
	var e models.Evidence
	err := row.Scan(
		&e.ID, &e.CaseID, &e.Type, &e.Title, &e.Description, &e.SubmittedBy,
		&e.SubmissionDate, &e.Admissible, &e.Approved, &e.ReviewedBy, &e.ReviewedAt, &e.ReviewNotes,
	)
	return e, err
}
