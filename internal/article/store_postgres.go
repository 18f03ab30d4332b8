// Copyright (c) 2026 Lectern. All rights reserved.
// Author: dev@lectern.pub

package article

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lectern-pub/lectern/internal/platform/database/schema"
	"github.com/lectern-pub/lectern/internal/platform/dberr"
)

// PostgresStorage is the document-store Storage backend: whole records
// as JSONB documents keyed by id, with a non-unique msid index. The
// merge bracket is a transaction holding a row lock on the incoming id.
type PostgresStorage struct {
	db *pgxpool.Pool
}

// NewPostgresStorage wraps a connection pool. Schema is managed by the
// migrations in data/migrations.
func NewPostgresStorage(db *pgxpool.Pool) *PostgresStorage {
	return &PostgresStorage{db: db}
}

func (s *PostgresStorage) GetVersion(ctx context.Context, id string) (*Version, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		schema.ArticleVersion.Record, schema.ArticleVersion.Table, schema.ArticleVersion.ID,
	)

	var raw []byte
	err := s.db.QueryRow(ctx, query, id).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, dberr.Wrap(err, "pg_get_version")
	}
	return decodeVersion(raw)
}

func (s *PostgresStorage) VersionsByMSID(ctx context.Context, msid string) ([]*Version, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		schema.ArticleVersion.Record, schema.ArticleVersion.Table, schema.ArticleVersion.MSID,
	)

	rows, err := s.db.Query(ctx, query, msid)
	if err != nil {
		return nil, dberr.Wrap(err, "pg_versions_by_msid")
	}
	defer rows.Close()

	return scanVersionDocs(rows)
}

func (s *PostgresStorage) UpsertVersion(ctx context.Context, incoming *Version, merge MergeFunc) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return dberr.Wrap(err, "pg_upsert_begin")
	}
	defer tx.Rollback(ctx)

	// Row lock serializes concurrent upserts of the same id, making
	// read-merge-write a single logical transaction.
	readQuery := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 FOR UPDATE`,
		schema.ArticleVersion.Record, schema.ArticleVersion.Table, schema.ArticleVersion.ID,
	)

	var existing *Version
	var raw []byte
	err = tx.QueryRow(ctx, readQuery, incoming.ID).Scan(&raw)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		// first record under this id
	case err != nil:
		return dberr.Wrap(err, "pg_upsert_read")
	default:
		if existing, err = decodeVersion(raw); err != nil {
			return err
		}
	}

	merged := merge(existing, incoming)
	encoded, err := json.Marshal(merged)
	if err != nil {
		return fmt.Errorf("postgres: encoding version %s: %w", merged.ID, err)
	}

	writeQuery := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s) VALUES ($1, $2, $3, NOW())
		ON CONFLICT (%s) DO UPDATE SET %s = excluded.%s, %s = excluded.%s
	`,
		schema.ArticleVersion.Table, schema.ArticleVersion.ID, schema.ArticleVersion.MSID,
		schema.ArticleVersion.Record, schema.ArticleVersion.StoredAt,
		schema.ArticleVersion.ID,
		schema.ArticleVersion.MSID, schema.ArticleVersion.MSID,
		schema.ArticleVersion.Record, schema.ArticleVersion.Record,
	)

	if _, err := tx.Exec(ctx, writeQuery, merged.ID, merged.MSID, encoded); err != nil {
		return dberr.Wrap(err, "pg_upsert_write")
	}

	return dberr.Wrap(tx.Commit(ctx), "pg_upsert_commit")
}

func (s *PostgresStorage) DeleteVersion(ctx context.Context, id string) (bool, error) {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`,
		schema.ArticleVersion.Table, schema.ArticleVersion.ID,
	)

	cmd, err := s.db.Exec(ctx, query, id)
	if err != nil {
		return false, dberr.Wrap(err, "pg_delete_version")
	}
	return cmd.RowsAffected() > 0, nil
}

func (s *PostgresStorage) ListVersions(ctx context.Context) ([]*Version, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s ORDER BY %s`,
		schema.ArticleVersion.Record, schema.ArticleVersion.Table, schema.ArticleVersion.ID,
	)

	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, dberr.Wrap(err, "pg_list_versions")
	}
	defer rows.Close()

	return scanVersionDocs(rows)
}

func (s *PostgresStorage) PutArticle(ctx context.Context, id string, article *ProcessedArticle) error {
	encoded, err := json.Marshal(article)
	if err != nil {
		return fmt.Errorf("postgres: encoding article %s: %w", id, err)
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s) VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (%s) DO UPDATE SET %s = excluded.%s, %s = excluded.%s, %s = excluded.%s
	`,
		schema.Article.Table, schema.Article.ID, schema.Article.DOI,
		schema.Article.Hash, schema.Article.Record, schema.Article.StoredAt,
		schema.Article.ID,
		schema.Article.DOI, schema.Article.DOI,
		schema.Article.Hash, schema.Article.Hash,
		schema.Article.Record, schema.Article.Record,
	)

	_, err = s.db.Exec(ctx, query, id, article.DOI, article.Hash, encoded)
	return dberr.Wrap(err, "pg_put_article")
}

func (s *PostgresStorage) GetArticleByKey(ctx context.Context, key string) (*ProcessedArticle, error) {
	// DOI match takes priority over the stored flat id.
	query := fmt.Sprintf(`
		SELECT %s FROM %s WHERE %s = $1 OR %s = $1
		ORDER BY CASE WHEN %s = $1 THEN 0 ELSE 1 END LIMIT 1
	`,
		schema.Article.Record, schema.Article.Table,
		schema.Article.DOI, schema.Article.ID,
		schema.Article.DOI,
	)

	var raw []byte
	err := s.db.QueryRow(ctx, query, key).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, dberr.Wrap(err, "pg_get_article")
	}

	var article ProcessedArticle
	if err := json.Unmarshal(raw, &article); err != nil {
		return nil, fmt.Errorf("postgres: decoding article: %w", err)
	}
	return &article, nil
}

func (s *PostgresStorage) ListArticles(ctx context.Context) ([]StoredArticle, error) {
	query := fmt.Sprintf(`SELECT %s, %s FROM %s ORDER BY %s`,
		schema.Article.ID, schema.Article.Record, schema.Article.Table, schema.Article.ID,
	)

	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, dberr.Wrap(err, "pg_list_articles")
	}
	defer rows.Close()

	var out []StoredArticle
	for rows.Next() {
		var id string
		var raw []byte
		if err := rows.Scan(&id, &raw); err != nil {
			return nil, dberr.Wrap(err, "pg_scan_article")
		}
		var article ProcessedArticle
		if err := json.Unmarshal(raw, &article); err != nil {
			return nil, fmt.Errorf("postgres: decoding article %s: %w", id, err)
		}
		out = append(out, StoredArticle{ID: id, Article: &article})
	}
	return out, rows.Err()
}

func scanVersionDocs(rows pgx.Rows) ([]*Version, error) {
	var out []*Version
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, dberr.Wrap(err, "pg_scan_version")
		}
		version, err := decodeVersion(raw)
		if err != nil {
			return nil, err
		}
		out = append(out, version)
	}
	return out, rows.Err()
}
