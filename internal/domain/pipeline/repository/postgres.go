// Package repository persists pipeline output: imported transactions,
// rejected lines, and the file checksum index.
package repository

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/ledgerlens/statement-pipeline/internal/domain/statement"
	"github.com/ledgerlens/statement-pipeline/internal/domain/statement/normalizer"
)

// Querier is the subset of pgxpool.Pool the repository needs. Tests
// swap in a pgxmock pool.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresRepository stores transactions and checksums in Postgres.
type PostgresRepository struct {
	db     Querier
	logger *slog.Logger
}

func NewPostgresRepository(db Querier, logger *slog.Logger) *PostgresRepository {
	return &PostgresRepository{db: db, logger: logger}
}

const insertTransactionQuery = `
	INSERT INTO transactions (
		date, amount, merchant, description, category,
		source_system, account_name, direction, notes, checksum, import_source
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	ON CONFLICT (date, amount, merchant, account_name, source_system) DO NOTHING`

// InsertBatch upserts the given transactions. Rows whose identity
// already exists are left untouched and counted as skipped.
func (r *PostgresRepository) InsertBatch(ctx context.Context, txs []normalizer.NormalizedTransaction) (int, int, error) {
	inserted, skipped := 0, 0
	for _, tx := range txs {
		tag, err := r.db.Exec(ctx, insertTransactionQuery,
			tx.Date, tx.Amount, tx.Merchant, tx.Description, tx.Category,
			tx.SourceSystem, tx.AccountName, tx.Direction, tx.Notes,
			tx.Checksum, tx.ImportSource,
		)
		if err != nil {
			return inserted, skipped, fmt.Errorf("insert transaction: %w", err)
		}
		if tag.RowsAffected() == 0 {
			skipped++
			continue
		}
		inserted++
	}
	return inserted, skipped, nil
}

// RecordRejections stores lines the parsers could not handle so an
// operator can review them later.
func (r *PostgresRepository) RecordRejections(ctx context.Context, lines []statement.RejectedLine) error {
	for _, line := range lines {
		_, err := r.db.Exec(ctx,
			`INSERT INTO rejected_lines (file_name, line_no, raw_text, amount_text, reason)
			 VALUES ($1, $2, $3, $4, $5)`,
			line.FileName, line.LineNo, line.RawText, line.AmountText, line.Reason,
		)
		if err != nil {
			return fmt.Errorf("record rejected line: %w", err)
		}
	}
	return nil
}

// Seen reports whether a file with this checksum was already imported.
func (r *PostgresRepository) Seen(ctx context.Context, checksum string) (bool, error) {
	var seen bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM file_checksums WHERE checksum = $1)`,
		checksum,
	).Scan(&seen)
	if err != nil {
		return false, fmt.Errorf("checksum lookup: %w", err)
	}
	return seen, nil
}

// Add records a file checksum after a successful import.
func (r *PostgresRepository) Add(ctx context.Context, checksum, fileName string) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO file_checksums (checksum, file_name) VALUES ($1, $2)
		 ON CONFLICT (checksum) DO NOTHING`,
		checksum, fileName,
	)
	if err != nil {
		return fmt.Errorf("record checksum: %w", err)
	}
	return nil
}

// ListTransactions returns stored transactions ordered by date then id,
// optionally filtered to one source system.
func (r *PostgresRepository) ListTransactions(ctx context.Context, sourceSystem string) ([]normalizer.NormalizedTransaction, error) {
	query := `SELECT date, amount, merchant, description, category,
		source_system, account_name, direction, notes, checksum, import_source
		FROM transactions`
	args := []any{}
	if sourceSystem != "" {
		query += ` WHERE source_system = $1`
		args = append(args, sourceSystem)
	}
	query += ` ORDER BY date, id`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var txs []normalizer.NormalizedTransaction
	for rows.Next() {
		var tx normalizer.NormalizedTransaction
		if err := rows.Scan(&tx.Date, &tx.Amount, &tx.Merchant, &tx.Description,
			&tx.Category, &tx.SourceSystem, &tx.AccountName, &tx.Direction,
			&tx.Notes, &tx.Checksum, &tx.ImportSource); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		txs = append(txs, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return txs, nil
}

// CountByImportSource counts stored rows for one upload, matched by
// the file's stem since OCR artifacts drop the original extension.
func (r *PostgresRepository) CountByImportSource(ctx context.Context, stem string) (int, error) {
	var count int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM transactions
		 WHERE import_source = $1 OR import_source LIKE $1 || '.%'`,
		stem,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count imported rows: %w", err)
	}
	return count, nil
}
