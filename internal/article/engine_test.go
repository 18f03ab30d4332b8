// Copyright (c) 2026 Lectern. All rights reserved.
// Author: dev@lectern.pub

package article_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lectern-pub/lectern/internal/article"
	"github.com/lectern-pub/lectern/internal/content"
	"github.com/lectern-pub/lectern/pkg/pointer"
)

func fullVersion(id, msid string, published *time.Time) *article.Version {
	return &article.Version{
		ID:                id,
		MSID:              msid,
		DOI:               "10.7554/eLife." + msid,
		VersionIdentifier: "1",
		PreprintDOI:       "10.1101/" + msid,
		PreprintURL:       "https://biorxiv.org/" + msid,
		PreprintPosted:    time.Date(2023, 12, 1, 0, 0, 0, 0, time.UTC),
		Published:         published,
		Article: &article.ProcessedArticle{
			DOI:   "10.7554/eLife." + msid,
			Title: content.Textual("Manuscript " + msid),
		},
	}
}

func summaryVersion(id, msid string, published *time.Time) *article.Version {
	return &article.Version{
		ID:                id,
		MSID:              msid,
		VersionIdentifier: "1",
		Published:         published,
	}
}

/*
TestMerge_NoExisting verifies that the first record under an id is
stored untouched.
*/
func TestMerge_NoExisting(t *testing.T) {
	incoming := fullVersion("a.1", "a", nil)
	assert.Same(t, incoming, article.Merge(nil, incoming))
}

/*
TestMerge_FullReplaces verifies that a full incoming record replaces the
stored one outright, whatever its shape.
*/
func TestMerge_FullReplaces(t *testing.T) {
	tests := []struct {
		name     string
		existing *article.Version
	}{
		{name: "over full", existing: fullVersion("a.1", "a", pointer.To(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)))},
		{name: "over summary", existing: summaryVersion("a.1", "a", nil)},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			incoming := fullVersion("a.1", "a", nil)
			incoming.Volume = "13"

			merged := article.Merge(testCase.existing, incoming)

			assert.Same(t, incoming, merged)
			// Replace, not overlay: fields absent on incoming are gone
			assert.Nil(t, merged.Published)
		})
	}
}

/*
TestMerge_SummaryOverlay verifies the non-destructive overlay of a
summary update onto a stored full record.
*/
func TestMerge_SummaryOverlay(t *testing.T) {
	stored := fullVersion("x.1", "x", pointer.To(time.Date(2008, 1, 1, 0, 0, 0, 0, time.UTC)))
	stored.Subjects = []string{"cell-biology"}

	update := &article.Version{
		ID:        "x.1",
		MSID:      "x",
		Published: pointer.To(time.Date(2008, 11, 2, 0, 0, 0, 0, time.UTC)),
		URL:       "http://vor",
	}

	merged := article.Merge(stored, update)

	// 1. Fields present on the update land
	require.NotNil(t, merged.Published)
	assert.Equal(t, time.Date(2008, 11, 2, 0, 0, 0, 0, time.UTC), *merged.Published)
	assert.Equal(t, "http://vor", merged.URL)

	// 2. Everything the update does not carry survives
	assert.Equal(t, stored.Article, merged.Article)
	assert.Equal(t, "10.1101/x", merged.PreprintDOI)
	assert.Equal(t, []string{"cell-biology"}, merged.Subjects)

	// 3. The stored record is not mutated in place
	assert.Equal(t, time.Date(2008, 1, 1, 0, 0, 0, 0, time.UTC), *stored.Published)
}

/*
TestMerge_SummaryOverSummary verifies that two thin records do not
overlay: the newer one wins wholesale.
*/
func TestMerge_SummaryOverSummary(t *testing.T) {
	existing := summaryVersion("a.1", "a", pointer.To(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)))
	existing.URL = "http://old"

	incoming := summaryVersion("a.1", "a", nil)

	merged := article.Merge(existing, incoming)

	assert.Same(t, incoming, merged)
	assert.Empty(t, merged.URL)
}

/*
TestVersion_Kind verifies the variant tag derivation.
*/
func TestVersion_Kind(t *testing.T) {
	assert.Equal(t, article.RecordFull, fullVersion("a.1", "a", nil).Kind())
	assert.Equal(t, article.RecordSummary, summaryVersion("a.1", "a", nil).Kind())
}
