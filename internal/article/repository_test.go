// Copyright (c) 2026 Lectern. All rights reserved.
// Author: dev@lectern.pub

package article_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lectern-pub/lectern/internal/article"
	"github.com/lectern-pub/lectern/internal/content"
	"github.com/lectern-pub/lectern/internal/platform/apperr"
	"github.com/lectern-pub/lectern/pkg/pointer"
)

func newRepository() article.Repository {
	return article.NewRepository(article.NewMemoryStorage())
}

func date(year, month, day int) *time.Time {
	return pointer.To(time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC))
}

/*
TestRepository_StoreVersion_Uniqueness verifies that storing under an
existing id never duplicates the record.
*/
func TestRepository_StoreVersion_Uniqueness(t *testing.T) {
	repo := newRepository()
	ctx := context.Background()

	require.NoError(t, repo.StoreVersion(ctx, fullVersion("a.1", "a", date(2024, 1, 1))))
	require.NoError(t, repo.StoreVersion(ctx, fullVersion("a.1", "a", date(2024, 2, 2))))

	summaries, err := repo.GetVersionSummaries(ctx)
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, "a.1", summaries[0].ID)
	assert.Equal(t, time.Date(2024, 2, 2, 0, 0, 0, 0, time.UTC), *summaries[0].Published)
}

/*
TestRepository_MergeNonDestructive verifies that a summary update never
erases the stored article payload (Scenario: full ingest followed by a
version-of-record pointer).
*/
func TestRepository_MergeNonDestructive(t *testing.T) {
	repo := newRepository()
	ctx := context.Background()

	full := fullVersion("x.1", "x", date(2008, 1, 1))
	require.NoError(t, repo.StoreVersion(ctx, full))

	require.NoError(t, repo.StoreVersion(ctx, &article.Version{
		ID:        "x.1",
		MSID:      "x",
		Published: date(2008, 11, 2),
		URL:       "http://vor",
	}))

	found, err := repo.FindVersion(ctx, "x", false)
	require.NoError(t, err)
	require.NotNil(t, found)

	assert.Equal(t, full.Article, found.Article.Article)
	assert.Equal(t, time.Date(2008, 11, 2, 0, 0, 0, 0, time.UTC), *found.Article.Published)
	assert.Equal(t, "http://vor", found.Article.URL)
}

/*
TestRepository_VisibilityGating verifies publish-date gating of the
selected article: nil and future dates hide a version unless previews
are requested.
*/
func TestRepository_VisibilityGating(t *testing.T) {
	tests := []struct {
		name      string
		published *time.Time
	}{
		{name: "unpublished", published: nil},
		{name: "future dated", published: date(2100, 1, 1)},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			repo := newRepository()
			ctx := context.Background()

			require.NoError(t, repo.StoreVersion(ctx, fullVersion("a.1", "a", testCase.published)))

			// 1. Hidden from the default read path
			found, err := repo.FindVersion(ctx, "a", false)
			require.NoError(t, err)
			assert.Nil(t, found)

			// 2. Visible with previews
			found, err = repo.FindVersion(ctx, "a", true)
			require.NoError(t, err)
			require.NotNil(t, found)
			assert.Equal(t, testCase.published, found.Article.Published)
		})
	}
}

/*
TestRepository_LatestByMSID verifies selection of the latest published
version for msid-addressed reads and exact pinning for id-addressed
reads, both carrying the full sibling history.
*/
func TestRepository_LatestByMSID(t *testing.T) {
	repo := newRepository()
	ctx := context.Background()

	v1 := fullVersion("a.1", "a", date(2024, 1, 1))
	v2 := fullVersion("a.2", "a", date(2024, 3, 1))
	v2.VersionIdentifier = "2"
	require.NoError(t, repo.StoreVersion(ctx, v1))
	require.NoError(t, repo.StoreVersion(ctx, v2))

	// 1. msid selects the latest version
	found, err := repo.FindVersion(ctx, "a", false)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "a.2", found.Article.ID)
	assert.Len(t, found.Versions, 2)

	// 2. A direct id pins the older version, history intact
	found, err = repo.FindVersion(ctx, "a.1", false)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "a.1", found.Article.ID)
	assert.Len(t, found.Versions, 2)
}

/*
TestRepository_PublishedTieBreak verifies the deterministic tie-break:
identical published dates resolve to the higher version identifier,
compared numerically.
*/
func TestRepository_PublishedTieBreak(t *testing.T) {
	repo := newRepository()
	ctx := context.Background()

	sameDay := date(2024, 5, 1)
	for _, identifier := range []string{"9", "10", "2"} {
		v := fullVersion("a."+identifier, "a", sameDay)
		v.VersionIdentifier = identifier
		require.NoError(t, repo.StoreVersion(ctx, v))
	}

	found, err := repo.FindVersion(ctx, "a", false)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "a.10", found.Article.ID)
}

/*
TestRepository_SummaryOnlyFallback verifies that a summary-only sibling
is selected only when no full record is visible.
*/
func TestRepository_SummaryOnlyFallback(t *testing.T) {
	repo := newRepository()
	ctx := context.Background()

	full := fullVersion("a.1", "a", date(2024, 1, 1))
	newer := summaryVersion("a.2", "a", date(2024, 6, 1))
	newer.VersionIdentifier = "2"
	require.NoError(t, repo.StoreVersion(ctx, full))
	require.NoError(t, repo.StoreVersion(ctx, newer))

	// 1. The full record wins over a newer summary-only sibling
	found, err := repo.FindVersion(ctx, "a", false)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "a.1", found.Article.ID)

	// 2. With no full sibling, the summary record is served
	repoThin := newRepository()
	require.NoError(t, repoThin.StoreVersion(ctx, summaryVersion("b.1", "b", date(2024, 1, 1))))
	found, err = repoThin.FindVersion(ctx, "b", false)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "b.1", found.Article.ID)
}

/*
TestRepository_PinnedHiddenVersion verifies that an id-addressed lookup
of a gated version returns nothing rather than a visible sibling.
*/
func TestRepository_PinnedHiddenVersion(t *testing.T) {
	repo := newRepository()
	ctx := context.Background()

	require.NoError(t, repo.StoreVersion(ctx, fullVersion("a.1", "a", date(2024, 1, 1))))
	hidden := fullVersion("a.2", "a", nil)
	hidden.VersionIdentifier = "2"
	require.NoError(t, repo.StoreVersion(ctx, hidden))

	found, err := repo.FindVersion(ctx, "a.2", false)
	require.NoError(t, err)
	assert.Nil(t, found)

	found, err = repo.FindVersion(ctx, "a.2", true)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "a.2", found.Article.ID)
}

/*
TestRepository_EvaluationFlag verifies the withEvaluationSummary
projection: present and true only when an evaluation summary exists.
*/
func TestRepository_EvaluationFlag(t *testing.T) {
	repo := newRepository()
	ctx := context.Background()

	reviewed := fullVersion("a.1", "a", date(2024, 1, 1))
	reviewed.PeerReview = &article.PeerReview{
		EvaluationSummary: &article.Evaluation{ReviewType: "evaluation-summary", Text: "Strong."},
	}
	plain := fullVersion("a.2", "a", date(2024, 2, 1))
	plain.VersionIdentifier = "2"
	require.NoError(t, repo.StoreVersion(ctx, reviewed))
	require.NoError(t, repo.StoreVersion(ctx, plain))

	found, err := repo.FindVersion(ctx, "a", false)
	require.NoError(t, err)
	require.NotNil(t, found)

	assert.True(t, found.Versions["a.1"].WithEvaluationSummary)
	assert.False(t, found.Versions["a.2"].WithEvaluationSummary)
}

/*
TestRepository_FindVersion_Unknown verifies the null (not error)
contract for unknown identifiers.
*/
func TestRepository_FindVersion_Unknown(t *testing.T) {
	repo := newRepository()

	found, err := repo.FindVersion(context.Background(), "nothing-here", false)
	require.NoError(t, err)
	assert.Nil(t, found)
}

/*
TestRepository_DeleteVersion verifies deletion and the not-found error
for unknown ids, with the store count unchanged.
*/
func TestRepository_DeleteVersion(t *testing.T) {
	repo := newRepository()
	ctx := context.Background()

	require.NoError(t, repo.StoreVersion(ctx, fullVersion("a.1", "a", date(2024, 1, 1))))

	// 1. Unknown id fails and changes nothing
	err := repo.DeleteVersion(ctx, "a.99")
	require.Error(t, err)
	var appError *apperr.AppError
	require.ErrorAs(t, err, &appError)
	summaries, err := repo.GetVersionSummaries(ctx)
	require.NoError(t, err)
	assert.Len(t, summaries, 1)

	// 2. Known id deletes
	require.NoError(t, repo.DeleteVersion(ctx, "a.1"))
	summaries, err = repo.GetVersionSummaries(ctx)
	require.NoError(t, err)
	assert.Empty(t, summaries)
}

/*
TestRepository_ArticleRoundTrip verifies the flat store: store, fetch by
id and by doi, list summaries and hashes.
*/
func TestRepository_ArticleRoundTrip(t *testing.T) {
	repo := newRepository()
	ctx := context.Background()

	stored := &article.ProcessedArticle{
		DOI:   "10.7554/eLife.85111",
		Date:  date(2024, 2, 1),
		Title: content.Textual("A worked example"),
		Hash:  article.HashContent([]byte("payload")),
	}
	require.NoError(t, repo.StoreArticle(ctx, "85111", stored))

	// 1. Fetch by flat id
	byID, err := repo.GetArticle(ctx, "85111")
	require.NoError(t, err)
	assert.Equal(t, stored, byID)

	// 2. Fetch by doi
	byDOI, err := repo.GetArticle(ctx, "10.7554/eLife.85111")
	require.NoError(t, err)
	assert.Equal(t, stored, byDOI)

	// 3. Unknown key errors with NotFound
	_, err = repo.GetArticle(ctx, "nope")
	require.Error(t, err)

	// 4. Listing surfaces
	summaries, err := repo.GetArticleSummaries(ctx)
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, "85111", summaries[0].ID)

	hashes, err := repo.GetArticleHashes(ctx)
	require.NoError(t, err)
	require.Len(t, hashes, 1)
	assert.Equal(t, stored.Hash, hashes[0].Hash)
}

/*
TestRepository_StoreArticle_Overwrite verifies last-write-wins upsert
semantics of the flat store.
*/
func TestRepository_StoreArticle_Overwrite(t *testing.T) {
	repo := newRepository()
	ctx := context.Background()

	first := &article.ProcessedArticle{DOI: "10.1/x", Title: content.Textual("First")}
	second := &article.ProcessedArticle{DOI: "10.1/x", Title: content.Textual("Second")}

	require.NoError(t, repo.StoreArticle(ctx, "x", first))
	require.NoError(t, repo.StoreArticle(ctx, "x", second))

	got, err := repo.GetArticle(ctx, "x")
	require.NoError(t, err)
	assert.Equal(t, "Second", got.Title.Text)

	summaries, err := repo.GetArticleSummaries(ctx)
	require.NoError(t, err)
	assert.Len(t, summaries, 1)
}
