package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"

	_ "github.com/tursodatabase/libsql-client-go/libsql" // Turso driver
	_ "modernc.org/sqlite"                               // Local SQLite driver

	"github.com/linkyapp/linky/pkg/core/domain"
)

// Repository is the SQL-backed alternative to the JSON blob store,
// satisfying the same ports.LinkRepository contract. The collection
// order (newest first) maps to insertion order descending.
type Repository struct {
	db *sql.DB
}

func NewRepository(dbURL string) (*Repository, error) {
	driverName := "sqlite"
	if strings.Contains(dbURL, "libsql://") || strings.Contains(dbURL, "wss://") {
		driverName = "libsql"
	}

	db, err := sql.Open(driverName, dbURL)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		return nil, err
	}

	if err := migrate(db); err != nil {
		return nil, err
	}

	return &Repository{db: db}, nil
}

func migrate(db *sql.DB) error {
	query := `
	CREATE TABLE IF NOT EXISTS links (
		id TEXT PRIMARY KEY,
		original_url TEXT NOT NULL,
		short_code TEXT NOT NULL UNIQUE,
		alias TEXT,
		created_at DATETIME NOT NULL,
		clicks INTEGER NOT NULL DEFAULT 0,
		password TEXT,
		expiry_date TEXT,
		category TEXT,
		safety_score INTEGER NOT NULL DEFAULT 100,
		tags JSON,
		block_bots INTEGER NOT NULL DEFAULT 0
	);
	CREATE INDEX IF NOT EXISTS idx_links_short_code ON links(short_code);
	`
	_, err := db.Exec(query)
	return err
}

const linkColumns = `id, original_url, short_code, alias, created_at, clicks, password, expiry_date, category, safety_score, tags, block_bots`

func scanLink(row interface{ Scan(...any) error }) (*domain.Link, error) {
	var l domain.Link
	var alias, password, expiry, category, tagsJSON sql.NullString

	err := row.Scan(
		&l.ID, &l.OriginalURL, &l.ShortCode, &alias, &l.CreatedAt, &l.Clicks,
		&password, &expiry, &category, &l.SafetyScore, &tagsJSON, &l.BlockBots,
	)
	if err != nil {
		return nil, err
	}

	l.Alias = alias.String
	l.Password = password.String
	l.ExpiryDate = expiry.String
	l.Category = category.String
	if tagsJSON.Valid {
		_ = json.Unmarshal([]byte(tagsJSON.String), &l.Tags)
	}
	return &l, nil
}

func insertLink(ctx context.Context, ex interface {
	ExecContext(context.Context, string, ...any) (sql.Result, error)
}, link domain.Link) error {
	tagsJSON, err := json.Marshal(link.Tags)
	if err != nil {
		return err
	}

	query := `INSERT INTO links (` + linkColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = ex.ExecContext(ctx, query,
		link.ID, link.OriginalURL, link.ShortCode, link.Alias, link.CreatedAt, link.Clicks,
		link.Password, link.ExpiryDate, link.Category, link.SafetyScore, tagsJSON, link.BlockBots,
	)
	return err
}

func (r *Repository) Load(ctx context.Context) ([]domain.Link, error) {
	query := `SELECT ` + linkColumns + ` FROM links ORDER BY rowid DESC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var links []domain.Link
	for rows.Next() {
		l, err := scanLink(rows)
		if err != nil {
			return nil, err
		}
		links = append(links, *l)
	}
	return links, rows.Err()
}

// Save replaces the whole collection, matching the blob store's
// overwrite semantics. Records arrive newest first and are inserted in
// reverse so insertion order stays consistent with Load.
func (r *Repository) Save(ctx context.Context, links []domain.Link) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM links`); err != nil {
		return err
	}

	for i := len(links) - 1; i >= 0; i-- {
		if err := insertLink(ctx, tx, links[i]); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (r *Repository) Append(ctx context.Context, link domain.Link) error {
	return insertLink(ctx, r.db, link)
}

func (r *Repository) Remove(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM links WHERE id = ?`, id)
	return err
}

func (r *Repository) UpdateClicks(ctx context.Context, shortCode string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE links SET clicks = clicks + 1 WHERE short_code = ?`, shortCode)
	return err
}

func (r *Repository) GetByShortCode(ctx context.Context, code string) (*domain.Link, error) {
	query := `SELECT ` + linkColumns + ` FROM links WHERE short_code = ?`
	link, err := scanLink(r.db.QueryRowContext(ctx, query, code))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return link, nil
}
