package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"

	"logicsim/internal/domain"
	"logicsim/internal/repository"
)

// Repository implements repository.Repository using SQLite
type Repository struct {
	db *sql.DB
}

var _ repository.Repository = (*Repository)(nil)

// New creates a new SQLite repository
func New(dbPath string) (*Repository, error) {
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// one connection: SQLite has a single writer and ":memory:" is per connection
	db.SetMaxOpenConns(1)

	repo := &Repository{db: db}
	if err := repo.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return repo, nil
}

func (r *Repository) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS schemes (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		format TEXT NOT NULL DEFAULT 'json',
		document BLOB NOT NULL,
		node_count INTEGER NOT NULL DEFAULT 0,
		connection_count INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_schemes_updated ON schemes(updated_at);
	`

	_, err := r.db.Exec(schema)
	return err
}

// GetScheme loads a scheme by name
func (r *Repository) GetScheme(ctx context.Context, name string) (*domain.Scheme, error) {
	var row schemeRow
	err := r.db.QueryRowContext(ctx,
		`SELECT `+schemeColumns+` FROM schemes WHERE name = ?`, name,
	).Scan(row.scanArgs()...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", name, repository.ErrSchemeNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query scheme %s: %w", name, err)
	}

	return row.toDomain()
}

// ListSchemes returns every scheme, most recently updated first, without documents
func (r *Repository) ListSchemes(ctx context.Context) ([]domain.Scheme, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+schemeListColumns+` FROM schemes ORDER BY updated_at DESC, name`)
	if err != nil {
		return nil, fmt.Errorf("failed to query schemes: %w", err)
	}
	defer rows.Close()

	schemes := make([]domain.Scheme, 0)
	for rows.Next() {
		var row schemeRow
		if err := rows.Scan(row.scanArgs()...); err != nil {
			return nil, fmt.Errorf("failed to scan scheme: %w", err)
		}
		scheme, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		scheme.Document = nil
		schemes = append(schemes, *scheme)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating schemes: %w", err)
	}

	return schemes, nil
}

// SaveScheme inserts a scheme or replaces the document of the scheme with the same name.
// An existing scheme keeps its id and creation time.
func (r *Repository) SaveScheme(ctx context.Context, scheme *domain.Scheme) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO schemes (id, name, format, document, node_count, connection_count, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			format = excluded.format,
			document = excluded.document,
			node_count = excluded.node_count,
			connection_count = excluded.connection_count,
			updated_at = excluded.updated_at
	`,
		scheme.ID,
		scheme.Name,
		scheme.Format,
		scheme.Document,
		scheme.NodeCount,
		scheme.ConnectionCount,
		timeToText(scheme.CreatedAt),
		timeToText(scheme.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to save scheme %s: %w", scheme.Name, err)
	}
	return nil
}

// DeleteScheme removes a scheme by name
func (r *Repository) DeleteScheme(ctx context.Context, name string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM schemes WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("failed to delete scheme %s: %w", name, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete scheme %s: %w", name, err)
	}
	if affected == 0 {
		return fmt.Errorf("%s: %w", name, repository.ErrSchemeNotFound)
	}
	return nil
}

// Close closes the database connection
func (r *Repository) Close() error {
	return r.db.Close()
}
