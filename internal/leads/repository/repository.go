package repository

import (
	"context"
	"errors"

	"cleardoor_backend/internal/leads/domain"
	"cleardoor_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	pgUniqueViolation = "23505"
)

// Querier is the subset of pgx shared by pools and transactions.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type txKey struct{}

// Repository persists leads and their child records.
type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// q returns the transaction bound to ctx when one is active, else the pool.
// Repository methods called inside WithinTx automatically join the
// transaction through the context.
func (r *Repository) q(ctx context.Context) Querier {
	if tx, ok := ctx.Value(txKey{}).(pgx.Tx); ok {
		return tx
	}
	return r.pool
}

// WithinTx runs fn inside a single database transaction. Repository
// calls made with the ctx passed to fn execute on that transaction.
// fn returning an error rolls everything back.
func (r *Repository) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return apperr.Wrap(apperr.KindInternal, "failed to begin transaction", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	if err := fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return apperr.Wrap(apperr.KindInternal, "failed to commit transaction", err)
	}
	return nil
}

const leadColumns = `id, lead_number, status, status_reason, client_available, version, created_by, updated_by, created_at, updated_at`

func scanLead(row pgx.Row) (Lead, error) {
	var lead Lead
	err := row.Scan(
		&lead.ID,
		&lead.LeadNumber,
		&lead.Status,
		&lead.StatusReason,
		&lead.ClientAvailable,
		&lead.Version,
		&lead.CreatedBy,
		&lead.UpdatedBy,
		&lead.CreatedAt,
		&lead.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return Lead{}, apperr.NotFound("lead not found")
	}
	if err != nil {
		return Lead{}, apperr.Wrap(apperr.KindInternal, "failed to scan lead", err)
	}
	return lead, nil
}

// CreateLead inserts a new lead row. A duplicate lead number is a conflict.
func (r *Repository) CreateLead(ctx context.Context, leadNumber string, status domain.LeadStatus, statusReason *string, clientAvailable bool, actorID uuid.UUID) (Lead, error) {
	lead, err := scanLead(r.q(ctx).QueryRow(ctx, `
		INSERT INTO leads (lead_number, status, status_reason, client_available, created_by, updated_by)
		VALUES ($1, $2, $3, $4, $5, $5)
		RETURNING `+leadColumns+`
	`, leadNumber, status, statusReason, clientAvailable, actorID))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return Lead{}, apperr.Conflict("lead number already exists")
		}
		return Lead{}, err
	}
	return lead, nil
}

// GetLeadForUpdate loads a lead and locks its row for the duration of
// the surrounding transaction. Must be called inside WithinTx.
func (r *Repository) GetLeadForUpdate(ctx context.Context, leadID uuid.UUID) (Lead, error) {
	return scanLead(r.q(ctx).QueryRow(ctx, `
		SELECT `+leadColumns+`
		FROM leads WHERE id = $1
		FOR UPDATE
	`, leadID))
}

// GetLeadByID loads a lead without locking.
func (r *Repository) GetLeadByID(ctx context.Context, leadID uuid.UUID) (Lead, error) {
	return scanLead(r.q(ctx).QueryRow(ctx, `
		SELECT `+leadColumns+`
		FROM leads WHERE id = $1
	`, leadID))
}

// UpdateLeadSubmission rewrites the lifecycle fields on resubmission and
// bumps the version. Lead number and creator are preserved.
func (r *Repository) UpdateLeadSubmission(ctx context.Context, leadID uuid.UUID, status domain.LeadStatus, statusReason *string, clientAvailable bool, actorID uuid.UUID) (Lead, error) {
	return scanLead(r.q(ctx).QueryRow(ctx, `
		UPDATE leads
		SET status = $2,
		    status_reason = $3,
		    client_available = $4,
		    updated_by = $5,
		    version = version + 1,
		    updated_at = now()
		WHERE id = $1
		RETURNING `+leadColumns+`
	`, leadID, status, statusReason, clientAvailable, actorID))
}

// UpdateLeadDecision applies an admin decision (approve/reject/close).
func (r *Repository) UpdateLeadDecision(ctx context.Context, leadID uuid.UUID, status domain.LeadStatus, statusReason *string, actorID uuid.UUID) (Lead, error) {
	return scanLead(r.q(ctx).QueryRow(ctx, `
		UPDATE leads
		SET status = $2,
		    status_reason = $3,
		    updated_by = $4,
		    version = version + 1,
		    updated_at = now()
		WHERE id = $1
		RETURNING `+leadColumns+`
	`, leadID, status, statusReason, actorID))
}
