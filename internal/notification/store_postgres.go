package notification

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	id "gavel/pkg/domain"
	"gavel/pkg/platform/sentinel"
)

// PostgresStore persists notifications in the notifications table.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const notificationColumns = `id, recipient_id, sender_id, title, message, type, priority,
	read, read_at, case_id, report_id, created_at`

func (s *PostgresStore) Create(ctx context.Context, n Notification) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO notifications (`+notificationColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		n.ID, n.RecipientID, nullableUserID(n.SenderID), n.Title, n.Message, n.Type, n.Priority,
		n.Read, n.ReadAt, n.CaseID, nullableString(n.ReportID), n.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("inserting notification: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, notificationID id.NotificationID) (Notification, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT `+notificationColumns+` FROM notifications WHERE id = $1`, notificationID)
	n, err := scanNotification(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Notification{}, sentinel.ErrNotFound
	}
	return n, err
}

func (s *PostgresStore) ListByRecipient(ctx context.Context, recipientID id.UserID, unreadOnly bool, limit int) ([]Notification, error) {
	query := `SELECT ` + notificationColumns + ` FROM notifications WHERE recipient_id = $1`
	if unreadOnly {
		query += ` AND read = FALSE`
	}
	query += ` ORDER BY created_at DESC`
	args := []any{recipientID}
	if limit > 0 {
		query += ` LIMIT $2`
		args = append(args, limit)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing notifications: %w", err)
	}
	defer rows.Close()

	var out []Notification
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

func (s *PostgresStore) CountUnread(ctx context.Context, recipientID id.UserID) (int, error) {
	var count int
	err := s.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM notifications WHERE recipient_id = $1 AND read = FALSE`,
		recipientID,
	).Scan(&count)
	return count, err
}

func (s *PostgresStore) Update(ctx context.Context, n Notification) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE notifications SET read = $2, read_at = $3 WHERE id = $1`,
		n.ID, n.Read, n.ReadAt,
	)
	if err != nil {
		return fmt.Errorf("updating notification: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func scanNotification(row pgx.Row) (Notification, error) {
	var (
		n        Notification
		senderID *id.UserID
		reportID *string
	)
	err := row.Scan(
		&n.ID, &n.RecipientID, &senderID, &n.Title, &n.Message, &n.Type, &n.Priority,
		&n.Read, &n.ReadAt, &n.CaseID, &reportID, &n.CreatedAt,
	)
	if err != nil {
		return Notification{}, err
	}
	if senderID != nil {
		n.SenderID = *senderID
	}
	if reportID != nil {
		n.ReportID = *reportID
	}
	return n, nil
}

func nullableUserID(v id.UserID) *id.UserID {
	if v.IsNil() {
		return nil
	}
	return &v
}

func nullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
