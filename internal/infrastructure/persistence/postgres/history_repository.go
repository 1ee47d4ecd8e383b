package postgres

import (
	"context"
	"fmt"

	"github.com/avigneau/helloasso-bridge/internal/application"
	"github.com/avigneau/helloasso-bridge/internal/domain"
	"github.com/jackc/pgx/v5"
)

// HistoryRepository is the append-only notification ledger. Entries are
// never deleted here; retention is out of scope.
type HistoryRepository struct {
	db *DB
}

var _ application.HistoryStore = (*HistoryRepository)(nil)

func NewHistoryRepository(db *DB) *HistoryRepository {
	return &HistoryRepository{db: db}
}

func (r *HistoryRepository) Append(ctx context.Context, entry domain.HistoryEntry) (int64, error) {
	query := `
		INSERT INTO history (history_date, checkout_id, amount_cents, comments, request, state)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`

	var id int64
	err := r.db.Pool.QueryRow(ctx, query,
		entry.ReceivedAt,
		entry.CheckoutID,
		entry.AmountCents,
		entry.OrderID,
		entry.RawRequest,
		int16(entry.State),
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to append history entry: %w", err)
	}

	return id, nil
}

func (r *HistoryRepository) SetState(ctx context.Context, id int64, state domain.ProcessingState) error {
	return setState(ctx, r.db.Pool, id, state)
}

// List returns one page of entries. The duplicate flag is derived at
// read time: an entry is a duplicate when an earlier-received entry
// shares its checkout id.
func (r *HistoryRepository) List(ctx context.Context, filter domain.HistoryFilter) ([]domain.HistoryEntry, error) {
	filter = filter.Normalize()

	column := filter.OrderBy
	if column == domain.OrderByAmount {
		column = "amount_cents"
	}
	direction := "ASC"
	if filter.Descending {
		direction = "DESC"
	}

	query := fmt.Sprintf(`
		SELECT id, history_date, checkout_id, amount_cents, comments, request, state,
		       row_number() OVER (PARTITION BY checkout_id ORDER BY history_date, id) > 1 AS duplicate
		FROM history
		ORDER BY %s %s, id %s
		LIMIT $1 OFFSET $2
	`, column, direction, direction)

	rows, err := r.db.Pool.Query(ctx, query, filter.PageSize, (filter.Page-1)*filter.PageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}

	entries, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.HistoryEntry, error) {
		var (
			e     domain.HistoryEntry
			state int16
		)
		err := row.Scan(&e.ID, &e.ReceivedAt, &e.CheckoutID, &e.AmountCents, &e.OrderID, &e.RawRequest, &state, &e.Duplicate)
		e.State = domain.ProcessingState(state)
		return e, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan history rows: %w", err)
	}

	return entries, nil
}

func (r *HistoryRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.Pool.QueryRow(ctx, `SELECT count(*) FROM history`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count history entries: %w", err)
	}
	return count, nil
}

// WithCheckoutLock serializes processing of deliveries sharing a
// checkout id using a transaction-scoped advisory lock. The lock and the
// state writes commit together.
func (r *HistoryRepository) WithCheckoutLock(ctx context.Context, checkoutID string, fn func(ctx context.Context, tx application.HistoryTx) error) error {
	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtextextended($1, 0))`, checkoutID); err != nil {
		return fmt.Errorf("failed to acquire checkout lock: %w", err)
	}

	if err := fn(ctx, &historyTx{q: tx}); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

type historyTx struct {
	q Executor
}

func (t *historyTx) ExistsProcessed(ctx context.Context, checkoutID string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM history WHERE checkout_id = $1 AND state = $2)`

	var exists bool
	err := t.q.QueryRow(ctx, query, checkoutID, int16(domain.StateProcessed)).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check processed state: %w", err)
	}
	return exists, nil
}

func (t *historyTx) SetState(ctx context.Context, id int64, state domain.ProcessingState) error {
	return setState(ctx, t.q, id, state)
}

// MarkProcessed relies on the partial unique index on processed checkout
// ids: losing a race surfaces as ErrCheckoutAlreadyProcessed instead of
// a second accounting record.
func (t *historyTx) MarkProcessed(ctx context.Context, id int64, checkoutID string) error {
	query := `UPDATE history SET state = $1 WHERE id = $2`

	if _, err := t.q.Exec(ctx, query, int16(domain.StateProcessed), id); err != nil {
		if IsUniqueViolation(err) {
			return application.ErrCheckoutAlreadyProcessed
		}
		return fmt.Errorf("failed to mark entry processed: %w", err)
	}
	return nil
}

func setState(ctx context.Context, q Executor, id int64, state domain.ProcessingState) error {
	result, err := q.Exec(ctx, `UPDATE history SET state = $1 WHERE id = $2`, int16(state), id)
	if err != nil {
		return fmt.Errorf("failed to update state field: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("history entry %d not found", id)
	}
	return nil
}
