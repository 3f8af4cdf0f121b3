package inmates

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"gavel/internal/prison/models"
	id "gavel/pkg/domain"
	"gavel/pkg/platform/sentinel"
)

// Postgres persists inmates in the inmates table.
type Postgres struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

const inmateColumns = `id, inmate_number, first_name, last_name, date_of_birth,
	gender, nationality, identification_number,
	emergency_contact_name, emergency_contact_phone, emergency_contact_relationship,
	case_number, conviction_date, crime_description,
	sentence_kind, sentence_years, sentence_months, sentence_days, fine_amount,
	admission_date, expected_release_date, actual_release_date,
	cell, block, assigned_officer, assigned_at, assignment_reason, assignment_type,
	special_instructions, status, behavior_rating, medical_conditions,
	last_health_check, created_at, updated_at`

func (s *Postgres) Create(ctx context.Context, i models.Inmate) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO inmates (`+inmateColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15,
			$16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27, $28, $29,
			$30, $31, $32, $33, $34, $35)`,
		inmateArgs(i)...,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("inserting inmate: %w", err)
	}
	return nil
}

func (s *Postgres) FindByID(ctx context.Context, inmateID id.InmateID) (models.Inmate, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+inmateColumns+` FROM inmates WHERE id = $1`, inmateID)
	i, err := scanInmate(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Inmate{}, sentinel.ErrNotFound
	}
	return i, err
}

func (s *Postgres) FindByInmateNumber(ctx context.Context, inmateNumber string) (models.Inmate, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT `+inmateColumns+` FROM inmates WHERE LOWER(inmate_number) = LOWER($1)`, inmateNumber)
	i, err := scanInmate(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Inmate{}, sentinel.ErrNotFound
	}
	return i, err
}

func (s *Postgres) List(ctx context.Context, filter Filter) ([]models.Inmate, error) {
	query := `SELECT ` + inmateColumns + ` FROM inmates WHERE 1=1`
	var args []any
	if filter.Status != "" {
		args = append(args, filter.Status)
		query += ` AND status = $` + strconv.Itoa(len(args))
	}
	if filter.OfficerID != nil {
		args = append(args, *filter.OfficerID)
		query += ` AND assigned_officer = $` + strconv.Itoa(len(args))
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		n := strconv.Itoa(len(args))
		query += ` AND (first_name || ' ' || last_name ILIKE $` + n +
			` OR inmate_number ILIKE $` + n +
			` OR identification_number ILIKE $` + n + `)`
	}
	query += ` ORDER BY admission_date DESC`

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing inmates: %w", err)
	}
	defer rows.Close()

	return collectInmates(rows)
}

func (s *Postgres) UpcomingReleases(ctx context.Context, now time.Time, withinDays int) ([]models.Inmate, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+inmateColumns+` FROM inmates
		WHERE status = 'active'
		  AND expected_release_date IS NOT NULL
		  AND expected_release_date >= $1
		  AND expected_release_date <= $2
		ORDER BY expected_release_date ASC`,
		now, now.AddDate(0, 0, withinDays),
	)
	if err != nil {
		return nil, fmt.Errorf("listing upcoming releases: %w", err)
	}
	defer rows.Close()

	return collectInmates(rows)
}

func (s *Postgres) CountByStatus(ctx context.Context) (map[models.InmateStatus]int, error) {
	rows, err := s.pool.Query(ctx, `SELECT status, COUNT(*) FROM inmates GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("counting inmates: %w", err)
	}
	defer rows.Close()

	counts := make(map[models.InmateStatus]int)
	for rows.Next() {
		var (
			status models.InmateStatus
			count  int
		)
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		counts[status] = count
	}
	return counts, rows.Err()
}

func (s *Postgres) Update(ctx context.Context, i models.Inmate) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE inmates SET
			first_name = $2, last_name = $3, date_of_birth = $4, gender = $5,
			nationality = $6, identification_number = $7,
			emergency_contact_name = $8, emergency_contact_phone = $9,
			emergency_contact_relationship = $10,
			case_number = $11, conviction_date = $12, crime_description = $13,
			sentence_kind = $14, sentence_years = $15, sentence_months = $16,
			sentence_days = $17, fine_amount = $18,
			expected_release_date = $19, actual_release_date = $20,
			cell = $21, block = $22, assigned_officer = $23, assigned_at = $24,
			assignment_reason = $25, assignment_type = $26, special_instructions = $27,
			status = $28, behavior_rating = $29, medical_conditions = $30,
			last_health_check = $31, updated_at = $32
		WHERE id = $1`,
		i.ID, i.FirstName, i.LastName, i.DateOfBirth, i.Gender,
		i.Nationality, i.IdentificationNumber,
		i.EmergencyContact.Name, i.EmergencyContact.Phone, i.EmergencyContact.Relationship,
		i.CaseNumber, i.ConvictionDate, i.CrimeDescription,
		i.SentenceKind, i.SentenceTerm.Years, i.SentenceTerm.Months,
		i.SentenceTerm.Days, i.FineAmount,
		i.ExpectedReleaseDate, i.ActualReleaseDate,
		i.Cell, i.Block, i.AssignedOfficer, i.AssignedAt,
		i.AssignmentReason, i.AssignmentType, i.SpecialInstructions,
		i.Status, i.BehaviorRating, i.MedicalConditions,
		i.LastHealthCheck, i.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("updating inmate: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func inmateArgs(i models.Inmate) []any {
	return []any{
		i.ID, i.InmateNumber, i.FirstName, i.LastName, i.DateOfBirth,
		i.Gender, i.Nationality, i.IdentificationNumber,
		i.EmergencyContact.Name, i.EmergencyContact.Phone, i.EmergencyContact.Relationship,
		i.CaseNumber, i.ConvictionDate, i.CrimeDescription,
		i.SentenceKind, i.SentenceTerm.Years, i.SentenceTerm.Months,
		i.SentenceTerm.Days, i.FineAmount,
		i.AdmissionDate, i.ExpectedReleaseDate, i.ActualReleaseDate,
		i.Cell, i.Block, i.AssignedOfficer, i.AssignedAt,
		i.AssignmentReason, i.AssignmentType,
		i.SpecialInstructions, i.Status, i.BehaviorRating, i.MedicalConditions,
		i.LastHealthCheck, i.CreatedAt, i.UpdatedAt,
	}
}

func collectInmates(rows pgx.Rows) ([]models.Inmate, error) {
	var out []models.Inmate
	for rows.Next() {
		i, err := scanInmate(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, i)
	}
	return out, rows.Err()
}

func scanInmate(row pgx.Row) (models.Inmate, error) {
	var i models.Inmate
	err := row.Scan(
		&i.ID, &i.InmateNumber, &i.FirstName, &i.LastName, &i.DateOfBirth,
		&i.Gender, &i.Nationality, &i.IdentificationNumber,
		&i.EmergencyContact.Name, &i.EmergencyContact.Phone, &i.EmergencyContact.Relationship,
		&i.CaseNumber, &i.ConvictionDate, &i.CrimeDescription,
		&i.SentenceKind, &i.SentenceTerm.Years, &i.SentenceTerm.Months,
		&i.SentenceTerm.Days, &i.FineAmount,
		&i.AdmissionDate, &i.ExpectedReleaseDate, &i.ActualReleaseDate,
		&i.Cell, &i.Block, &i.AssignedOfficer, &i.AssignedAt,
		&i.AssignmentReason, &i.AssignmentType,
		&i.SpecialInstructions, &i.Status, &i.BehaviorRating, &i.MedicalConditions,
		&i.LastHealthCheck, &i.CreatedAt, &i.UpdatedAt,
	)
	if err != nil {
		return models.Inmate{}, err
	}
	return i, nil
}
