// Copyright (c) 2026 Lectern. All rights reserved.
// Author: dev@lectern.pub

package article_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lectern-pub/lectern/internal/article"
)

func newService() (*article.Service, article.Repository) {
	repo := newRepository()
	return article.NewService(repo, slog.New(slog.NewJSONHandler(io.Discard, nil))), repo
}

/*
TestService_StoreVersion_Validation verifies structural rejection of
invalid version records before they reach the merge engine.
*/
func TestService_StoreVersion_Validation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(v *article.Version)
		wantErr bool
	}{
		{
			name:   "valid full record",
			mutate: func(v *article.Version) {},
		},
		{
			name:    "missing msid",
			mutate:  func(v *article.Version) { v.MSID = "" },
			wantErr: true,
		},
		{
			name:    "missing version identifier",
			mutate:  func(v *article.Version) { v.VersionIdentifier = "" },
			wantErr: true,
		},
		{
			name:    "full record without preprint doi",
			mutate:  func(v *article.Version) { v.PreprintDOI = "" },
			wantErr: true,
		},
		{
			name:    "full record with relative preprint url",
			mutate:  func(v *article.Version) { v.PreprintURL = "not-a-url" },
			wantErr: true,
		},
		{
			name:    "full record without preprint posted date",
			mutate:  func(v *article.Version) { v.PreprintPosted = time.Time{} },
			wantErr: true,
		},
		{
			name: "summary record needs no provenance",
			mutate: func(v *article.Version) {
				v.Article = nil
				v.PreprintDOI = ""
				v.PreprintURL = ""
				v.PreprintPosted = time.Time{}
			},
		},
		{
			name:    "empty subject",
			mutate:  func(v *article.Version) { v.Subjects = []string{"cell-biology", ""} },
			wantErr: true,
		},
		{
			name:    "duplicate subject",
			mutate:  func(v *article.Version) { v.Subjects = []string{"cell-biology", "cell-biology"} },
			wantErr: true,
		},
		{
			name:    "malformed url field",
			mutate:  func(v *article.Version) { v.URL = "://broken" },
			wantErr: true,
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			service, _ := newService()

			version := fullVersion("a.1", "a", date(2024, 1, 1))
			testCase.mutate(version)

			err := service.StoreVersion(context.Background(), version)
			if testCase.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

type stubReviewProvider struct {
	review *article.PeerReview
	err    error
	calls  int
}

func (stub *stubReviewProvider) GetPeerReview(_ context.Context, _, _ string) (*article.PeerReview, error) {
	stub.calls++
	return stub.review, stub.err
}

/*
TestService_StoreVersion_ReviewEnrichment verifies that versions posted
without review material get it filled in from the review platform, and
that enrichment failures do not block the store.
*/
func TestService_StoreVersion_ReviewEnrichment(t *testing.T) {
	review := &article.PeerReview{
		EvaluationSummary: &article.Evaluation{ReviewType: "evaluation-summary", Text: "Compelling."},
	}

	t.Run("missing review is fetched", func(t *testing.T) {
		service, repo := newService()
		provider := &stubReviewProvider{review: review}
		service.WithReviewProvider(provider)

		require.NoError(t, service.StoreVersion(context.Background(), fullVersion("a.1", "a", date(2024, 1, 1))))

		found, err := repo.FindVersion(context.Background(), "a", false)
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, review, found.Article.PeerReview)
		assert.Equal(t, 1, provider.calls)
	})

	t.Run("supplied review is kept", func(t *testing.T) {
		service, _ := newService()
		provider := &stubReviewProvider{review: review}
		service.WithReviewProvider(provider)

		withReview := fullVersion("a.1", "a", date(2024, 1, 1))
		withReview.PeerReview = &article.PeerReview{}

		require.NoError(t, service.StoreVersion(context.Background(), withReview))
		assert.Equal(t, 0, provider.calls)
	})

	t.Run("fetch failure is not fatal", func(t *testing.T) {
		service, repo := newService()
		service.WithReviewProvider(&stubReviewProvider{err: assert.AnError})

		require.NoError(t, service.StoreVersion(context.Background(), fullVersion("a.1", "a", date(2024, 1, 1))))

		found, err := repo.FindVersion(context.Background(), "a", false)
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Nil(t, found.Article.PeerReview)
	})
}

/*
TestService_GetVersionSummaries_SubjectFilter verifies the slugged
subject narrowing on the listing surface.
*/
func TestService_GetVersionSummaries_SubjectFilter(t *testing.T) {
	service, _ := newService()
	ctx := context.Background()

	tagged := fullVersion("a.1", "a", date(2024, 1, 1))
	tagged.Subjects = []string{"Cell Biology"}
	other := fullVersion("b.1", "b", date(2024, 1, 1))
	other.Subjects = []string{"Neuroscience"}
	require.NoError(t, service.StoreVersion(ctx, tagged))
	require.NoError(t, service.StoreVersion(ctx, other))

	// 1. No filter lists everything
	all, err := service.GetVersionSummaries(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	// 2. Slug filter narrows to matching subjects
	filtered, err := service.GetVersionSummaries(ctx, []string{"cell-biology"})
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, "a.1", filtered[0].ID)

	// 3. Multiple subjects match any
	filtered, err = service.GetVersionSummaries(ctx, []string{"cell-biology", "neuroscience"})
	require.NoError(t, err)
	assert.Len(t, filtered, 2)
}
