package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/shopspring/decimal"

	"github.com/openaudit/spendscan/internal/budget"
)

// Postgres is the production Store, backed by pgx through database/sql.
type Postgres struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS budget_allocations (
	id BIGSERIAL PRIMARY KEY,
	fiscal_year TEXT NOT NULL,
	department TEXT NOT NULL DEFAULT 'Unknown',
	program_name TEXT NOT NULL,
	program_key TEXT NOT NULL,
	category TEXT NOT NULL,
	amount NUMERIC(14, 2) NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	source_url TEXT NOT NULL DEFAULT '',
	source_document_title TEXT NOT NULL DEFAULT '',
	extracted_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE UNIQUE INDEX IF NOT EXISTS budget_allocations_natural_key
	ON budget_allocations (fiscal_year, program_key, amount);

CREATE TABLE IF NOT EXISTS youth_statistics (
	id BIGSERIAL PRIMARY KEY,
	stat_type TEXT NOT NULL,
	value DOUBLE PRECISION NOT NULL,
	context TEXT NOT NULL DEFAULT '',
	source_document TEXT NOT NULL DEFAULT '',
	recorded_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
`

// OpenPostgres connects, verifies connectivity, and ensures the schema
// exists.
func OpenPostgres(ctx context.Context, dsn string) (*Postgres, error) {
	if dsn == "" {
		return nil, fmt.Errorf("postgres DSN is required")
	}

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetConnMaxIdleTime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &Postgres{db: db}, nil
}

func (p *Postgres) FindAllocation(ctx context.Context, fiscalYear, programKey string, amount decimal.Decimal) (bool, error) {
	var exists bool
	err := p.db.QueryRowContext(ctx,
		`SELECT EXISTS (
			SELECT 1 FROM budget_allocations
			WHERE fiscal_year = $1 AND program_key = $2 AND amount = $3
		)`,
		fiscalYear, programKey, amount.String(),
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("find allocation: %w", err)
	}
	return exists, nil
}

func (p *Postgres) InsertAllocation(ctx context.Context, a *budget.Allocation) error {
	if a.ExtractedAt.IsZero() {
		a.ExtractedAt = time.Now().UTC()
	}

	// ON CONFLICT DO NOTHING makes the writer's check-then-insert safe
	// against concurrent runs.
	var id int64
	err := p.db.QueryRowContext(ctx,
		`INSERT INTO budget_allocations
			(fiscal_year, department, program_name, program_key, category,
			 amount, description, source_url, source_document_title, extracted_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (fiscal_year, program_key, amount) DO NOTHING
		RETURNING id`,
		a.FiscalYear, a.Department, a.ProgramName, NormalizeProgram(a.ProgramName),
		string(a.Category), a.Amount.String(), a.Description, a.SourceURL,
		a.SourceDocumentTitle, a.ExtractedAt,
	).Scan(&id)
	if err == sql.ErrNoRows {
		return ErrDuplicate
	}
	if err != nil {
		return fmt.Errorf("insert allocation: %w", err)
	}
	a.ID = id
	return nil
}

func (p *Postgres) QueryAllocations(ctx context.Context, fiscalYear string) ([]budget.Allocation, error) {
	query := `SELECT id, fiscal_year, department, program_name, category,
			amount, description, source_url, source_document_title, extracted_at
		FROM budget_allocations`
	var args []any
	if fiscalYear != "" {
		query += ` WHERE fiscal_year = $1`
		args = append(args, fiscalYear)
	}
	query += ` ORDER BY extracted_at DESC, id DESC`

	rows, err := p.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query allocations: %w", err)
	}
	defer rows.Close()

	var out []budget.Allocation
	for rows.Next() {
		var a budget.Allocation
		var amount string
		if err := rows.Scan(&a.ID, &a.FiscalYear, &a.Department, &a.ProgramName,
			&a.Category, &amount, &a.Description, &a.SourceURL,
			&a.SourceDocumentTitle, &a.ExtractedAt); err != nil {
			return nil, fmt.Errorf("scan allocation: %w", err)
		}
		a.Amount, err = decimal.NewFromString(amount)
		if err != nil {
			return nil, fmt.Errorf("parse amount %q: %w", amount, err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (p *Postgres) InsertStatistic(ctx context.Context, s *budget.Statistic) error {
	if s.RecordedAt.IsZero() {
		s.RecordedAt = time.Now().UTC()
	}

	err := p.db.QueryRowContext(ctx,
		`INSERT INTO youth_statistics (stat_type, value, context, source_document, recorded_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`,
		string(s.Type), s.Value, s.Context, s.SourceDocument, s.RecordedAt,
	).Scan(&s.ID)
	if err != nil {
		return fmt.Errorf("insert statistic: %w", err)
	}
	return nil
}

func (p *Postgres) QueryStatistics(ctx context.Context, source string, limit int) ([]budget.Statistic, error) {
	query := `SELECT id, stat_type, value, context, source_document, recorded_at
		FROM youth_statistics`
	var args []any
	if source != "" {
		query += ` WHERE source_document = $1`
		args = append(args, source)
	}
	query += ` ORDER BY recorded_at DESC, id DESC`
	if limit > 0 {
		query += fmt.Sprintf(` LIMIT %d`, limit)
	}

	rows, err := p.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query statistics: %w", err)
	}
	defer rows.Close()

	var out []budget.Statistic
	for rows.Next() {
		var s budget.Statistic
		if err := rows.Scan(&s.ID, &s.Type, &s.Value, &s.Context,
			&s.SourceDocument, &s.RecordedAt); err != nil {
			return nil, fmt.Errorf("scan statistic: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (p *Postgres) Close() error {
	return p.db.Close()
}
