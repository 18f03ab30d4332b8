// Copyright (c) 2026 Lectern. All rights reserved.
// Author: dev@lectern.pub

package ingest_test

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lectern-pub/lectern/internal/article"
	"github.com/lectern-pub/lectern/internal/ingest"
)

const converterDoc = `{
	"title": "Replication timing in early embryos",
	"description": "We measure replication timing directly.",
	"datePublished": {"value": "2024-02-01"},
	"identifiers": [
		{"name": "publisher-id", "value": "85111"},
		{"name": "doi", "value": "10.7554/eLife.85111"}
	],
	"authors": [
		{"familyNames": ["Doe"], "givenNames": ["Jane"]}
	],
	"licenses": [
		{"type": "CreativeWork", "url": "http://creativecommons.org/licenses/by/4.0/"}
	],
	"content": [
		{"type": "paragraph", "content": ["Embryos replicate fast."]}
	],
	"references": []
}`

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

/*
TestParse verifies field mapping from the converter document shape.
*/
func TestParse(t *testing.T) {
	processed, err := ingest.Parse([]byte(converterDoc))
	require.NoError(t, err)

	assert.Equal(t, "10.7554/eLife.85111", processed.DOI)
	assert.Equal(t, "Replication timing in early embryos", processed.Title.Text)
	assert.Equal(t, "We measure replication timing directly.", processed.Abstract.Text)
	require.NotNil(t, processed.Date)
	assert.Equal(t, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), *processed.Date)
	require.Len(t, processed.Authors, 1)
	assert.Equal(t, []string{"Doe"}, processed.Authors[0].FamilyNames)
	assert.NotEmpty(t, processed.Hash)
}

/*
TestParse_Invalid verifies rejection of malformed converter documents.
*/
func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{name: "not json", raw: "not json"},
		{name: "missing doi", raw: `{"title": "No identifiers", "identifiers": []}`},
		{name: "bad date", raw: `{"identifiers": [{"name": "doi", "value": "10.1/x"}], "datePublished": {"value": "yesterday"}}`},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			_, err := ingest.Parse([]byte(testCase.raw))
			assert.Error(t, err)
		})
	}
}

/*
TestImporter_ImportDirectory verifies the hash-skip behaviour across two
runs over the same converter output.
*/
func TestImporter_ImportDirectory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "85111.json"), []byte(converterDoc), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignore me"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.json"), []byte("{"), 0o600))

	repo := article.NewRepository(article.NewMemoryStorage())
	importer := ingest.NewImporter(repo, testLogger())
	ctx := context.Background()

	// 1. First run stores the parseable document
	stats, err := importer.ImportDirectory(ctx, dir)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Stored)
	assert.Equal(t, 0, stats.Skipped)
	assert.Equal(t, 1, stats.Failed)

	stored, err := repo.GetArticle(ctx, "10.7554/eLife.85111")
	require.NoError(t, err)
	assert.Equal(t, "Replication timing in early embryos", stored.Title.Text)

	// 2. Second run skips the unchanged document
	stats, err = importer.ImportDirectory(ctx, dir)
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Stored)
	assert.Equal(t, 1, stats.Skipped)
	assert.Equal(t, 1, stats.Failed)
}
