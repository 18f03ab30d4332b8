// Copyright (c) 2026 Lectern. All rights reserved.
// Author: dev@lectern.pub

package article

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/lectern-pub/lectern/internal/platform/dberr"
)

// SQLiteStorage is the embedded Storage backend. Records are stored as
// JSON documents in TEXT columns with id as primary key and a
// non-unique msid index; the merge bracket is a write transaction.
type SQLiteStorage struct {
	db *sql.DB
}

const sqliteSchema = `
	CREATE TABLE IF NOT EXISTS article_versions (
		id          TEXT PRIMARY KEY,
		msid        TEXT NOT NULL,
		record_json TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_article_versions_msid ON article_versions(msid);

	CREATE TABLE IF NOT EXISTS articles (
		id           TEXT PRIMARY KEY,
		doi          TEXT,
		hash         TEXT,
		article_json TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_articles_doi ON articles(doi) WHERE doi IS NOT NULL AND doi != '';
`

// OpenSQLiteStorage opens or creates the embedded database at path and
// ensures the schema exists.
func OpenSQLiteStorage(path string) (*SQLiteStorage, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	// SQLite does not support concurrent writers; a single connection
	// also makes each transaction an exclusive bracket.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite: creating schema: %w", err)
	}

	return &SQLiteStorage{db: db}, nil
}

// Close releases the underlying database handle.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// Ping verifies the database handle is still usable. Used by the
// readiness probe.
func (s *SQLiteStorage) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *SQLiteStorage) GetVersion(ctx context.Context, id string) (*Version, error) {
	var raw string
	err := s.db.QueryRowContext(ctx, `SELECT record_json FROM article_versions WHERE id = ?`, id).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, dberr.Wrap(err, "sqlite_get_version")
	}
	return decodeVersion([]byte(raw))
}

func (s *SQLiteStorage) VersionsByMSID(ctx context.Context, msid string) ([]*Version, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT record_json FROM article_versions WHERE msid = ?`, msid)
	if err != nil {
		return nil, dberr.Wrap(err, "sqlite_versions_by_msid")
	}
	defer rows.Close()

	return scanVersionRows(rows)
}

func (s *SQLiteStorage) UpsertVersion(ctx context.Context, incoming *Version, merge MergeFunc) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return dberr.Wrap(err, "sqlite_upsert_begin")
	}
	defer tx.Rollback()

	var existing *Version
	var raw string
	err = tx.QueryRowContext(ctx, `SELECT record_json FROM article_versions WHERE id = ?`, incoming.ID).Scan(&raw)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		// first record under this id
	case err != nil:
		return dberr.Wrap(err, "sqlite_upsert_read")
	default:
		if existing, err = decodeVersion([]byte(raw)); err != nil {
			return err
		}
	}

	merged := merge(existing, incoming)
	encoded, err := json.Marshal(merged)
	if err != nil {
		return fmt.Errorf("sqlite: encoding version %s: %w", merged.ID, err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO article_versions (id, msid, record_json) VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET msid = excluded.msid, record_json = excluded.record_json
	`, merged.ID, merged.MSID, string(encoded))
	if err != nil {
		return dberr.Wrap(err, "sqlite_upsert_write")
	}

	return dberr.Wrap(tx.Commit(), "sqlite_upsert_commit")
}

func (s *SQLiteStorage) DeleteVersion(ctx context.Context, id string) (bool, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM article_versions WHERE id = ?`, id)
	if err != nil {
		return false, dberr.Wrap(err, "sqlite_delete_version")
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, dberr.Wrap(err, "sqlite_delete_version")
	}
	return affected > 0, nil
}

func (s *SQLiteStorage) ListVersions(ctx context.Context) ([]*Version, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT record_json FROM article_versions ORDER BY id`)
	if err != nil {
		return nil, dberr.Wrap(err, "sqlite_list_versions")
	}
	defer rows.Close()

	return scanVersionRows(rows)
}

func (s *SQLiteStorage) PutArticle(ctx context.Context, id string, article *ProcessedArticle) error {
	encoded, err := json.Marshal(article)
	if err != nil {
		return fmt.Errorf("sqlite: encoding article %s: %w", id, err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO articles (id, doi, hash, article_json) VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET doi = excluded.doi, hash = excluded.hash, article_json = excluded.article_json
	`, id, article.DOI, article.Hash, string(encoded))
	return dberr.Wrap(err, "sqlite_put_article")
}

func (s *SQLiteStorage) GetArticleByKey(ctx context.Context, key string) (*ProcessedArticle, error) {
	// DOI match takes priority over the stored flat id.
	var raw string
	err := s.db.QueryRowContext(ctx, `
		SELECT article_json FROM articles WHERE doi = ? OR id = ?
		ORDER BY CASE WHEN doi = ? THEN 0 ELSE 1 END LIMIT 1
	`, key, key, key).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, dberr.Wrap(err, "sqlite_get_article")
	}

	var article ProcessedArticle
	if err := json.Unmarshal([]byte(raw), &article); err != nil {
		return nil, fmt.Errorf("sqlite: decoding article: %w", err)
	}
	return &article, nil
}

func (s *SQLiteStorage) ListArticles(ctx context.Context) ([]StoredArticle, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, article_json FROM articles ORDER BY id`)
	if err != nil {
		return nil, dberr.Wrap(err, "sqlite_list_articles")
	}
	defer rows.Close()

	var out []StoredArticle
	for rows.Next() {
		var id, raw string
		if err := rows.Scan(&id, &raw); err != nil {
			return nil, dberr.Wrap(err, "sqlite_scan_article")
		}
		var article ProcessedArticle
		if err := json.Unmarshal([]byte(raw), &article); err != nil {
			return nil, fmt.Errorf("sqlite: decoding article %s: %w", id, err)
		}
		out = append(out, StoredArticle{ID: id, Article: &article})
	}
	return out, rows.Err()
}

func scanVersionRows(rows *sql.Rows) ([]*Version, error) {
	var out []*Version
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, dberr.Wrap(err, "sqlite_scan_version")
		}
		version, err := decodeVersion([]byte(raw))
		if err != nil {
			return nil, err
		}
		out = append(out, version)
	}
	return out, rows.Err()
}

func decodeVersion(raw []byte) (*Version, error) {
	var version Version
	if err := json.Unmarshal(raw, &version); err != nil {
		return nil, fmt.Errorf("decoding version record: %w", err)
	}
	return &version, nil
}
