// Copyright (c) 2026 Lectern. All rights reserved.
// Author: dev@lectern.pub

package reviews

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"time"

	"github.com/lectern-pub/lectern/internal/article"
)

// retryBaseDelay controls the base duration for exponential backoff on
// HTTP 429 responses. Tests override this to avoid real sleeps.
var retryBaseDelay = 2 * time.Second

const maxFetchRetries = 3

// HTTPFetcher retrieves peer review records from the docmap endpoint.
//
// The endpoint serves one JSON document per article version at
// {endpoint}/{msid}/{versionIdentifier}, shaped like [article.PeerReview].
type HTTPFetcher struct {
	endpoint string
	client   *http.Client
}

// NewHTTPFetcher creates a fetcher for the given docmap endpoint.
// A nil client falls back to a default with a 30s timeout.
func NewHTTPFetcher(endpoint string, client *http.Client) *HTTPFetcher {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &HTTPFetcher{endpoint: endpoint, client: client}
}

// Fetch implements [Fetcher].
//
// HTTP 404 means the version has no review activity and maps to
// (nil, nil). HTTP 429 is retried with exponential backoff, bounded by
// maxFetchRetries.
func (fetcher *HTTPFetcher) Fetch(ctx context.Context, msid, versionIdentifier string) (*article.PeerReview, error) {
	requestURL := fmt.Sprintf("%s/%s/%s",
		fetcher.endpoint,
		url.PathEscape(msid),
		url.PathEscape(versionIdentifier),
	)

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, fmt.Errorf("reviews: failed to build request: %w", err)
	}
	request.Header.Set("Accept", "application/json")

	response, err := fetcher.doWithRetry(ctx, request)
	if err != nil {
		return nil, fmt.Errorf("reviews: docmap request failed: %w", err)
	}
	defer response.Body.Close()

	switch {
	case response.StatusCode == http.StatusNotFound:
		io.Copy(io.Discard, response.Body)
		return nil, nil
	case response.StatusCode != http.StatusOK:
		io.Copy(io.Discard, response.Body)
		return nil, fmt.Errorf("reviews: docmap endpoint returned %d for %s/%s", response.StatusCode, msid, versionIdentifier)
	}

	var review article.PeerReview
	if err := json.NewDecoder(response.Body).Decode(&review); err != nil {
		return nil, fmt.Errorf("reviews: failed to decode docmap response: %w", err)
	}

	return &review, nil
}

// doWithRetry executes the request and retries on HTTP 429 with
// exponential backoff. The delay starts at retryBaseDelay and doubles
// each attempt. If the context is cancelled during a backoff wait the
// function returns ctx.Err(). After exhausting retries the last 429
// response is returned so the caller can inspect it.
func (fetcher *HTTPFetcher) doWithRetry(ctx context.Context, request *http.Request) (*http.Response, error) {
	for attempt := 0; ; attempt++ {
		response, err := fetcher.client.Do(request.Clone(ctx))
		if err != nil {
			return nil, err
		}

		if response.StatusCode != http.StatusTooManyRequests {
			return response, nil
		}

		if attempt >= maxFetchRetries {
			return response, nil
		}

		// Drain and close the body before retrying.
		io.Copy(io.Discard, response.Body)
		response.Body.Close()

		backoff := time.Duration(math.Pow(2, float64(attempt))) * retryBaseDelay

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
	}
}
