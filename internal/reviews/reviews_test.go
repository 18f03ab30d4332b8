// Copyright (c) 2026 Lectern. All rights reserved.
// Author: dev@lectern.pub

package reviews_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lectern-pub/lectern/internal/article"
	"github.com/lectern-pub/lectern/internal/reviews"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func sampleReview() *article.PeerReview {
	return &article.PeerReview{
		EvaluationSummary: &article.Evaluation{
			Date:       time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
			ReviewType: "evaluation-summary",
			Text:       "Solid work with minor caveats.",
			Participants: []article.Participant{
				{Name: "Reviewing Editor", Role: "editor"},
			},
		},
	}
}

/*
TestMemoryCache verifies TTL behaviour of the in-process cache.
*/
func TestMemoryCache(t *testing.T) {
	ctx := context.Background()
	cache := reviews.NewMemoryCache()

	// 1. Miss on an empty cache
	got, err := cache.Get(ctx, "10.1101/2024.01.01/v1")
	require.NoError(t, err)
	assert.Nil(t, got)

	// 2. Store and retrieve
	require.NoError(t, cache.Set(ctx, "10.1101/2024.01.01/v1", sampleReview(), time.Minute))
	got, err = cache.Get(ctx, "10.1101/2024.01.01/v1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "evaluation-summary", got.EvaluationSummary.ReviewType)

	// 3. Expired entries behave as misses
	require.NoError(t, cache.Set(ctx, "expired", sampleReview(), -time.Second))
	got, err = cache.Get(ctx, "expired")
	require.NoError(t, err)
	assert.Nil(t, got)
}

/*
TestHTTPFetcher_Fetch verifies the fetcher's status handling against a
stub docmap endpoint.
*/
func TestHTTPFetcher_Fetch(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    any
		wantNil bool
		wantErr bool
	}{
		{
			name:    "review found",
			status:  http.StatusOK,
			body:    sampleReview(),
			wantNil: false,
		},
		{
			name:    "no review activity yet",
			status:  http.StatusNotFound,
			wantNil: true,
		},
		{
			name:    "upstream failure",
			status:  http.StatusInternalServerError,
			wantErr: true,
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
				assert.Equal(t, "/85111/v2", request.URL.Path)
				writer.WriteHeader(testCase.status)
				if testCase.body != nil {
					_ = json.NewEncoder(writer).Encode(testCase.body)
				}
			}))
			defer server.Close()

			fetcher := reviews.NewHTTPFetcher(server.URL, server.Client())
			review, err := fetcher.Fetch(context.Background(), "85111", "v2")

			if testCase.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			if testCase.wantNil {
				assert.Nil(t, review)
			} else {
				require.NotNil(t, review)
				assert.Equal(t, "Solid work with minor caveats.", review.EvaluationSummary.Text)
			}
		})
	}
}

/*
TestService_GetPeerReview verifies the cache-through behaviour: the
second read for the same version must not hit the upstream again.
*/
func TestService_GetPeerReview(t *testing.T) {
	var upstreamHits atomic.Int64

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		upstreamHits.Add(1)
		_ = json.NewEncoder(writer).Encode(sampleReview())
	}))
	defer server.Close()

	fetcher := reviews.NewHTTPFetcher(server.URL, server.Client())
	service := reviews.NewService(fetcher, reviews.NewMemoryCache(), testLogger())

	ctx := context.Background()

	// 1. First read fetches upstream
	first, err := service.GetPeerReview(ctx, "85111", "v1")
	require.NoError(t, err)
	require.NotNil(t, first)
	assert.EqualValues(t, 1, upstreamHits.Load())

	// 2. Second read is served from the cache
	second, err := service.GetPeerReview(ctx, "85111", "v1")
	require.NoError(t, err)
	require.NotNil(t, second)
	assert.EqualValues(t, 1, upstreamHits.Load())

	// 3. A different version fetches again
	_, err = service.GetPeerReview(ctx, "85111", "v2")
	require.NoError(t, err)
	assert.EqualValues(t, 2, upstreamHits.Load())
}
