package cases

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

// Postgres persists cases in the cases table.
type Postgres struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

const caseColumns = `id, case_number, title, type, description, status, priority,
	plaintiff, defendant, plaintiff_lawyer, defense_lawyer,
	created_by, assigned_judge, assigned_at, assignment_notes,
	filing_date, hearing_date, decision_date, verdict,
	sentence_type, sentence_years, sentence_months, fine_amount, sentence_notes,
	active, created_at, updated_at`

func (s *Postgres) Create(ctx context.Context, c models.Case) error {
	args := caseArgs(c)
	_, err := s.pool.Exec(ctx, `
		INSERT INTO cases (`+caseColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
			$15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27)`,
		args...,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("inserting case: %w", err)
	}
	return nil
}

func (s *Postgres) FindByID(ctx context.Context, caseID id.CaseID) (models.Case, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+caseColumns+` FROM cases WHERE id = $1`, caseID)
	c, err := scanCase(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Case{}, sentinel.ErrNotFound
	}
	return c, err
}

func (s *Postgres) FindByCaseNumber(ctx context.Context, caseNumber string) (models.Case, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT `+caseColumns+` FROM cases WHERE LOWER(case_number) = LOWER($1)`, caseNumber)
	c, err := scanCase(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Case{}, sentinel.ErrNotFound
	}
	return c, err
}

func (s *Postgres) List(ctx context.Context, filter Filter) ([]models.Case, error) {
	query := `SELECT ` + caseColumns + ` FROM cases WHERE 1=1`
	var args []any
	if filter.Status != "" {
		args = append(args, filter.Status)
		query += ` AND status = $` + strconv.Itoa(len(args))
	}
	if filter.JudgeID != nil {
		args = append(args, *filter.JudgeID)
		query += ` AND assigned_judge = $` + strconv.Itoa(len(args))
	}
	if filter.ActiveOnly {
		query += ` AND active`
	}
	query += ` ORDER BY filing_date DESC`

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing cases: %w", err)
	}
	defer rows.Close()

	var out []models.Case
	for rows.Next() {
		c, err := scanCase(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *Postgres) CountByStatus(ctx context.Context, judgeID *id.UserID) (map[models.CaseStatus]int, error) {
	query := `SELECT status, COUNT(*) FROM cases`
	var args []any
	if judgeID != nil {
		query += ` WHERE assigned_judge = $1`
		args = append(args, *judgeID)
	}
	query += ` GROUP BY status`

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("counting cases: %w", err)
	}
	defer rows.Close()

	counts := make(map[models.CaseStatus]int)
	for rows.Next() {
		var (
			status models.CaseStatus
			count  int
		)
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		counts[status] = count
	}
	return counts, rows.Err()
}

func (s *Postgres) Update(ctx context.Context, c models.Case) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE cases SET
			title = $2, type = $3, description = $4, status = $5, priority = $6,
			plaintiff = $7, defendant = $8, plaintiff_lawyer = $9, defense_lawyer = $10,
			assigned_judge = $11, assigned_at = $12, assignment_notes = $13,
			hearing_date = $14, decision_date = $15, verdict = $16,
			sentence_type = $17, sentence_years = $18, sentence_months = $19,
			fine_amount = $20, sentence_notes = $21, active = $22, updated_at = $23
		WHERE id = $1`,
		c.ID, c.Title, c.Type, c.Description, c.Status, c.Priority,
		c.Plaintiff, c.Defendant, c.PlaintiffLawyer, c.DefenseLawyer,
		c.AssignedJudge, c.AssignedAt, c.AssignmentNotes,
		c.HearingDate, c.DecisionDate, c.Verdict,
		sentenceType(c.Sentence), sentenceYears(c.Sentence), sentenceMonths(c.Sentence),
		fineAmount(c.Sentence), sentenceNotes(c.Sentence), c.Active, c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("updating case: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func caseArgs(c models.Case) []any {
	return []any{
		c.ID, c.CaseNumber, c.Title, c.Type, c.Description, c.Status, c.Priority,
		c.Plaintiff, c.Defendant, c.PlaintiffLawyer, c.DefenseLawyer,
		c.CreatedBy, c.AssignedJudge, c.AssignedAt, c.AssignmentNotes,
		c.FilingDate, c.HearingDate, c.DecisionDate, c.Verdict,
		sentenceType(c.Sentence), sentenceYears(c.Sentence), sentenceMonths(c.Sentence),
		fineAmount(c.Sentence), sentenceNotes(c.Sentence),
		c.Active, c.CreatedAt, c.UpdatedAt,
	}
}

func scanCase(row pgx.Row) (models.Case, error) {
	var (
		c             models.Case
		sentenceKind  *string
		years, months *int
		fine          *float64
		notes         *string
	)
	err := row.Scan(
		&c.ID, &c.CaseNumber, &c.Title, &c.Type, &c.Description, &c.Status, &c.Priority,
		&c.Plaintiff, &c.Defendant, &c.PlaintiffLawyer, &c.DefenseLawyer,
		&c.CreatedBy, &c.AssignedJudge, &c.AssignedAt, &c.AssignmentNotes,
		&c.FilingDate, &c.HearingDate, &c.DecisionDate, &c.Verdict,
		&sentenceKind, &years, &months, &fine, &notes,
		&c.Active, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return models.Case{}, err
	}
	if sentenceKind != nil {
		s := models.Sentence{Type: models.SentenceType(*sentenceKind)}
		if years != nil {
			s.DurationYears = *years
		}
		if months != nil {
			s.DurationMonths = *months
		}
		if fine != nil {
			s.FineAmount = *fine
		}
		if notes != nil {
			s.Notes = *notes
		}
		c.Sentence = &s
	}
	return c, nil
}

func sentenceType(s *models.Sentence) *string {
	if s == nil {
		return nil
	}
	v := string(s.Type)
	return &v
}

func sentenceYears(s *models.Sentence) *int {
	if s == nil {
		return nil
	}
	return &s.DurationYears
}

func sentenceMonths(s *models.Sentence) *int {
	if s == nil {
		return nil
	}
	return &s.DurationMonths
}

func fineAmount(s *models.Sentence) *float64 {
	if s == nil {
		return nil
	}
	return &s.FineAmount
}

func sentenceNotes(s *models.Sentence) *string {
	if s == nil {
		return nil
	}
	return &s.Notes
}
