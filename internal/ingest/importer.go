// Copyright (c) 2026 Lectern. All rights reserved.
// Author: dev@lectern.pub

package ingest

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/lectern-pub/lectern/internal/article"
	"github.com/lectern-pub/lectern/internal/content"
)

// ImportStats summarises one importer run.
type ImportStats struct {
	Stored  int
	Skipped int
	Failed  int
}

// Importer walks a directory of converter output and stores every
// document whose content hash differs from what the store already
// holds. Unchanged manuscripts are skipped without a write.
type Importer struct {
	repo   article.Repository
	logger *slog.Logger
}

// NewImporter creates a directory importer over the given repository.
func NewImporter(repo article.Repository, logger *slog.Logger) *Importer {
	return &Importer{repo: repo, logger: logger}
}

// ImportDirectory ingests every .json file under dir.
//
// A document that fails to parse or store is logged and counted, never
// fatal: one broken manuscript must not abort a feed run. Only walk
// errors and hash listing errors abort the whole import.
func (importer *Importer) ImportDirectory(ctx context.Context, dir string) (ImportStats, error) {
	stats := ImportStats{}

	// 1. Snapshot current hashes for change detection
	hashes, err := importer.repo.GetArticleHashes(ctx)
	if err != nil {
		return stats, err
	}
	knownHashes := make(map[string]string, len(hashes))
	for _, entry := range hashes {
		knownHashes[entry.ID] = entry.Hash
	}

	// 2. Walk the converter output
	walkErr := filepath.WalkDir(dir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}

		raw, err := os.ReadFile(path)
		if err != nil {
			importer.logger.Error("import_read_failed",
				slog.String("path", path),
				slog.Any("error", err),
			)
			stats.Failed++
			return nil
		}

		processed, err := Parse(raw)
		if err != nil {
			importer.logger.Error("import_parse_failed",
				slog.String("path", path),
				slog.Any("error", err),
			)
			stats.Failed++
			return nil
		}

		// Unchanged content is skipped without a write
		if knownHashes[processed.DOI] == processed.Hash {
			stats.Skipped++
			return nil
		}

		if err := importer.repo.StoreArticle(ctx, processed.DOI, processed); err != nil {
			importer.logger.Error("import_store_failed",
				slog.String("path", path),
				slog.String("doi", processed.DOI),
				slog.Any("error", err),
			)
			stats.Failed++
			return nil
		}

		importer.logger.Info("article_imported",
			slog.String("doi", processed.DOI),
			slog.String("title", content.Text(processed.Title)),
			slog.String("path", path),
		)
		stats.Stored++
		return nil
	})

	return stats, walkErr
}
