// Package store persists extracted transactions in Postgres. The table's
// unique natural key (date, raw_description, amount) is the single source of
// truth for duplicate detection across uploads and sessions: re-ingesting the
// same statement never creates duplicate rows.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/Aksh2758/subzap-ai-agent/internal/domain"
)

// Querier is the subset of pgx operations the store needs. Satisfied by
// *pgx.Conn, *pgxpool.Pool and pgxmock.
type Querier interface {
	Exec(ctx context.Context, sql string, arguments ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

// Store wraps one short-lived database connection. A store is opened for a
// single user action (one upload, one audit) and closed when the action
// completes; there is no pooling or long-lived shared connection.
type Store struct {
	db      Querier
	closeFn func(ctx context.Context) error
}

// Open dials a single connection to the configured database.
func Open(ctx context.Context, databaseURL string) (*Store, error) {
	conn, err := pgx.Connect(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("store: connect: %w", err)
	}
	return &Store{db: conn, closeFn: conn.Close}, nil
}

// NewWithQuerier builds a store over an existing querier. Used by tests.
func NewWithQuerier(db Querier) *Store {
	return &Store{db: db}
}

// Close releases the connection.
func (s *Store) Close(ctx context.Context) error {
	if s.closeFn == nil {
		return nil
	}
	return s.closeFn(ctx)
}

const schema = `
	CREATE TABLE IF NOT EXISTS transactions (
		id              BIGSERIAL PRIMARY KEY,
		date            DATE           NOT NULL,
		merchant_name   TEXT           NOT NULL,
		raw_description TEXT           NOT NULL,
		payment_mode    TEXT           NOT NULL DEFAULT 'Unknown',
		amount          NUMERIC(12, 2) NOT NULL CHECK (amount > 0),
		category        TEXT           NOT NULL DEFAULT '',
		UNIQUE (date, raw_description, amount)
	)`

// EnsureSchema creates the transactions table and its natural-key constraint
// if they do not exist yet.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("store: ensure schema: %w", err)
	}
	return nil
}

// InsertTransactions submits the whole batch as one bulk insert. Rows
// colliding with the natural key are dropped by the database, not by any
// in-memory comparison; the returned count is rows actually inserted, so a
// caller can tell "all duplicates" from "all new". A failure aborts this
// batch only — previously committed batches are unaffected.
func (s *Store) InsertTransactions(ctx context.Context, txs []*domain.Transaction) (int64, error) {
	if len(txs) == 0 {
		return 0, nil
	}

	var (
		b    strings.Builder
		args = make([]interface{}, 0, len(txs)*6)
	)
	b.WriteString("INSERT INTO transactions (date, merchant_name, raw_description, payment_mode, amount, category) VALUES ")
	for i, tx := range txs {
		if i > 0 {
			b.WriteString(", ")
		}
		n := i * 6
		fmt.Fprintf(&b, "($%d, $%d, $%d, $%d, $%d, $%d)", n+1, n+2, n+3, n+4, n+5, n+6)
		args = append(args, tx.Date, tx.MerchantName, tx.RawDescription, tx.PaymentMode, tx.Amount, tx.Category)
	}
	b.WriteString(" ON CONFLICT (date, raw_description, amount) DO NOTHING")

	tag, err := s.db.Exec(ctx, b.String(), args...)
	if err != nil {
		return 0, fmt.Errorf("store: insert transactions: %w", err)
	}

	return tag.RowsAffected(), nil
}

// Snapshot returns the headline numbers: persisted row count and total spend.
func (s *Store) Snapshot(ctx context.Context) (count int64, total float64, err error) {
	err = s.db.QueryRow(ctx, "SELECT COUNT(*), COALESCE(SUM(amount), 0) FROM transactions").Scan(&count, &total)
	if err != nil {
		return 0, 0, fmt.Errorf("store: snapshot: %w", err)
	}
	return count, total, nil
}

// LatestCharge returns the most recent recorded amount for a merchant, with
// found=false when the merchant has no persisted transaction.
func (s *Store) LatestCharge(ctx context.Context, merchant string) (amount float64, found bool, err error) {
	err = s.db.QueryRow(ctx,
		"SELECT amount FROM transactions WHERE merchant_name ILIKE $1 ORDER BY date DESC LIMIT 1",
		merchant,
	).Scan(&amount)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("store: latest charge: %w", err)
	}
	return amount, true, nil
}

// Query runs an ad hoc read statement and returns column names plus
// stringified rows. This is the surface consumed by the external
// natural-language-to-SQL component.
func (s *Store) Query(ctx context.Context, sql string) ([]string, [][]string, error) {
	rows, err := s.db.Query(ctx, sql)
	if err != nil {
		return nil, nil, fmt.Errorf("store: query: %w", err)
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	columns := make([]string, len(fields))
	for i, f := range fields {
		columns[i] = f.Name
	}

	var out [][]string
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, nil, fmt.Errorf("store: query: read row: %w", err)
		}
		row := make([]string, len(values))
		for i, v := range values {
			if v == nil {
				continue
			}
			row[i] = fmt.Sprint(v)
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("store: query: %w", err)
	}

	return columns, out, nil
}
