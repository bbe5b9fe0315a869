package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // dialect registration
	_ "github.com/doug-martin/goqu/v9/dialect/sqlite3"  // dialect registration
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/andrescamacho/entries-go/internal/domain/entry"
)

const (
	tableEntries   = "entries"
	colID          = "id"
	colTitle       = "title"
	colAmount      = "amount"
	colDescription = "description"
	colDate        = "date"

	DialectPostgres = "postgres"
	DialectSQLite   = "sqlite3"
)

// DialectFor maps a database.type config value to a goqu dialect name
func DialectFor(dbType string) string {
	if dbType == "sqlite" {
		return DialectSQLite
	}
	return DialectPostgres
}

type entryRow struct {
	ID          string          `db:"id"`
	Title       string          `db:"title"`
	Amount      decimal.Decimal `db:"amount"`
	Description sql.NullString  `db:"description"`
	Date        time.Time       `db:"date"`
}

// SQLEntryRepository implements EntryRepository with goqu-built statements executed through sqlx
type SQLEntryRepository struct {
	db      *sqlx.DB
	dialect string
	builder goqu.DialectWrapper
}

// NewSQLEntryRepository creates a repository for the given goqu dialect
func NewSQLEntryRepository(db *sqlx.DB, dialect string) *SQLEntryRepository {
	return &SQLEntryRepository{
		db:      db,
		dialect: dialect,
		builder: goqu.Dialect(dialect),
	}
}

// Migrate creates the entries table when it does not exist
func (r *SQLEntryRepository) Migrate(ctx context.Context) error {
	idType, dateType := "UUID", "TIMESTAMPTZ"
	if r.dialect == DialectSQLite {
		idType, dateType = "TEXT", "TIMESTAMP"
	}

	ddl := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	%s %s PRIMARY KEY,
	%s VARCHAR(50) NOT NULL,
	%s NUMERIC NOT NULL,
	%s VARCHAR(500),
	%s %s NOT NULL DEFAULT CURRENT_TIMESTAMP
)`, tableEntries, colID, idType, colTitle, colAmount, colDescription, colDate, dateType)

	if _, err := r.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("failed to create entries table: %w", err)
	}

	index := fmt.Sprintf("CREATE INDEX IF NOT EXISTS idx_entries_date ON %s (%s)", tableEntries, colDate)
	if _, err := r.db.ExecContext(ctx, index); err != nil {
		return fmt.Errorf("failed to create entries index: %w", err)
	}

	return nil
}

// Create persists a new entry
func (r *SQLEntryRepository) Create(ctx context.Context, e *entry.Entry) error {
	query, args, err := r.builder.
		Insert(tableEntries).
		Prepared(true).
		Rows(toRecord(e)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("failed to build insert query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to create entry: %w", err)
	}

	return nil
}

// FindByID retrieves an entry by its ID
func (r *SQLEntryRepository) FindByID(ctx context.Context, id entry.EntryID) (*entry.Entry, error) {
	query, args, err := r.selectEntries().
		Where(goqu.C(colID).Eq(id.String())).
		Limit(1).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("failed to build select query: %w", err)
	}

	var row entryRow
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, entry.ErrEntryNotFound
		}
		return nil, fmt.Errorf("failed to find entry: %w", err)
	}

	return rowToEntry(row)
}

// List retrieves entries newest first
func (r *SQLEntryRepository) List(ctx context.Context, opts entry.ListOptions) ([]*entry.Entry, error) {
	ds := r.selectEntries().
		Order(goqu.I(colDate).Desc(), goqu.I(colID).Asc())

	if opts.ID != nil {
		ds = ds.Where(goqu.C(colID).Eq(opts.ID.String()))
	}
	if opts.Limit > 0 {
		ds = ds.Limit(uint(opts.Limit))
	}
	if opts.Offset > 0 {
		if opts.Limit <= 0 {
			// sqlite rejects OFFSET without LIMIT
			ds = ds.Limit(math.MaxInt32)
		}
		ds = ds.Offset(uint(opts.Offset))
	}

	query, args, err := ds.ToSQL()
	if err != nil {
		return nil, fmt.Errorf("failed to build select query: %w", err)
	}

	var rows []entryRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}

	entries := make([]*entry.Entry, len(rows))
	for i, row := range rows {
		e, err := rowToEntry(row)
		if err != nil {
			return nil, fmt.Errorf("failed to convert entry row: %w", err)
		}
		entries[i] = e
	}

	return entries, nil
}

// Update overwrites all mutable columns of an entry
func (r *SQLEntryRepository) Update(ctx context.Context, e *entry.Entry) (int64, error) {
	record := toRecord(e)
	delete(record, colID)

	query, args, err := r.builder.
		Update(tableEntries).
		Prepared(true).
		Set(record).
		Where(goqu.C(colID).Eq(e.ID().String())).
		ToSQL()
	if err != nil {
		return 0, fmt.Errorf("failed to build update query: %w", err)
	}

	return r.exec(ctx, "update", query, args)
}

// Delete removes an entry
func (r *SQLEntryRepository) Delete(ctx context.Context, id entry.EntryID) (int64, error) {
	query, args, err := r.builder.
		Delete(tableEntries).
		Prepared(true).
		Where(goqu.C(colID).Eq(id.String())).
		ToSQL()
	if err != nil {
		return 0, fmt.Errorf("failed to build delete query: %w", err)
	}

	return r.exec(ctx, "delete", query, args)
}

func (r *SQLEntryRepository) exec(ctx context.Context, op string, query string, args []any) (int64, error) {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to %s entry: %w", op, err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected count: %w", err)
	}

	return rows, nil
}

func (r *SQLEntryRepository) selectEntries() *goqu.SelectDataset {
	return r.builder.
		From(tableEntries).
		Prepared(true).
		Select(colID, colTitle, colAmount, colDescription, colDate)
}

func toRecord(e *entry.Entry) goqu.Record {
	var description any
	if d := e.Description(); d != "" {
		description = d
	}

	return goqu.Record{
		colID:          e.ID().String(),
		colTitle:       e.Title(),
		colAmount:      e.Amount(),
		colDescription: description,
		colDate:        e.Date().UTC(),
	}
}

func rowToEntry(row entryRow) (*entry.Entry, error) {
	id, err := entry.ParseEntryID(row.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid entry ID in database: %w", err)
	}

	return entry.ReconstructEntry(id, row.Title, row.Amount, row.Description.String, row.Date.UTC()), nil
}
