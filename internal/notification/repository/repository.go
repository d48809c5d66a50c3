// Package repository persists in-app notifications.
package repository

import (
	"context"
	"errors"
	"time"

	"cleardoor_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Notification types.
const (
	TypeAssignment = "assignment"
	TypeCompletion = "completion"
	TypeRejection  = "rejection"
	TypeSystem     = "system"
	TypeReminder   = "reminder"
)

// Notification is a single in-app notification row.
type Notification struct {
	ID            uuid.UUID
	RecipientID   uuid.UUID
	LeadID        *uuid.UUID
	Type          string
	Message       string
	ScheduledDate *time.Time
	IsRead        bool
	CreatedAt     time.Time
}

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Insert stores a notification. The caller owns recipient fan-out; this
// writes exactly one row.
func (r *Repository) Insert(ctx context.Context, n *Notification) error {
	query := `
		INSERT INTO notifications (id, recipient_id, lead_id, type, message, scheduled_date)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at`

	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	err := r.pool.QueryRow(ctx, query,
		n.ID, n.RecipientID, n.LeadID, n.Type, n.Message, n.ScheduledDate,
	).Scan(&n.CreatedAt)
	if err != nil {
		return apperr.Wrap(apperr.KindInternal, "failed to insert notification", err)
	}
	return nil
}

// InsertReminder stores a reminder notification unless one already
// exists for the same recipient, lead, type and scheduled date. It
// returns false when the row was deduplicated away. The unique index
// makes this safe under concurrent scans.
func (r *Repository) InsertReminder(ctx context.Context, n *Notification) (bool, error) {
	query := `
		INSERT INTO notifications (id, recipient_id, lead_id, type, message, scheduled_date)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (recipient_id, lead_id, type, scheduled_date) DO NOTHING
		RETURNING created_at`

	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	err := r.pool.QueryRow(ctx, query,
		n.ID, n.RecipientID, n.LeadID, n.Type, n.Message, n.ScheduledDate,
	).Scan(&n.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, apperr.Wrap(apperr.KindInternal, "failed to insert reminder notification", err)
	}
	return true, nil
}

// ListByRecipient returns the recipient's notifications, newest first.
func (r *Repository) ListByRecipient(ctx context.Context, recipientID uuid.UUID, limit int) ([]Notification, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `
		SELECT id, recipient_id, lead_id, type, message, scheduled_date, is_read, created_at
		FROM notifications
		WHERE recipient_id = $1
		ORDER BY created_at DESC
		LIMIT $2`

	rows, err := r.pool.Query(ctx, query, recipientID, limit)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to list notifications", err)
	}
	defer rows.Close()

	var out []Notification
	for rows.Next() {
		var n Notification
		if err := rows.Scan(&n.ID, &n.RecipientID, &n.LeadID, &n.Type, &n.Message, &n.ScheduledDate, &n.IsRead, &n.CreatedAt); err != nil {
			return nil, apperr.Wrap(apperr.KindInternal, "failed to scan notification", err)
		}
		out = append(out, n)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to read notifications", err)
	}
	return out, nil
}

// UnreadCount returns how many unread notifications the recipient has.
func (r *Repository) UnreadCount(ctx context.Context, recipientID uuid.UUID) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		`SELECT count(*) FROM notifications WHERE recipient_id = $1 AND is_read = false`,
		recipientID,
	).Scan(&count)
	if err != nil {
		return 0, apperr.Wrap(apperr.KindInternal, "failed to count unread notifications", err)
	}
	return count, nil
}

// MarkRead marks one notification as read. The recipient scope prevents
// marking another user's notification.
func (r *Repository) MarkRead(ctx context.Context, id, recipientID uuid.UUID) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE notifications SET is_read = true WHERE id = $1 AND recipient_id = $2`,
		id, recipientID,
	)
	if err != nil {
		return apperr.Wrap(apperr.KindInternal, "failed to mark notification read", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("notification not found")
	}
	return nil
}

// MarkAllRead marks every unread notification of the recipient as read.
func (r *Repository) MarkAllRead(ctx context.Context, recipientID uuid.UUID) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE notifications SET is_read = true WHERE recipient_id = $1 AND is_read = false`,
		recipientID,
	)
	if err != nil {
		return apperr.Wrap(apperr.KindInternal, "failed to mark notifications read", err)
	}
	return nil
}
