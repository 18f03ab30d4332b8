// Copyright (c) 2026 Lectern. All rights reserved.
// Author: dev@lectern.pub

/*
Package citations exports article citations in reference-manager formats.

Citation text is not derived locally. The canonical metadata lives with
the DOI registrar, so exports are proxied from its content-negotiation
endpoint and addressed by the version DOI.
*/
package citations

import (
	"context"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"time"
)

// Format identifies a supported citation export format.
type Format string

const (
	FormatBibTeX Format = "bibtex"
	FormatRIS    Format = "ris"
)

// contentTypes maps formats to the registrar's content-negotiation
// types and our response types.
var contentTypes = map[Format]struct {
	accept   string
	response string
}{
	FormatBibTeX: {accept: "application/x-bibtex", response: "application/x-bibtex; charset=utf-8"},
	FormatRIS:    {accept: "application/x-research-info-systems", response: "application/x-research-info-systems; charset=utf-8"},
}

// ParseFormat validates a format string from a URL segment.
func ParseFormat(raw string) (Format, bool) {
	format := Format(raw)
	_, ok := contentTypes[format]
	return format, ok
}

// ContentType returns the response content type for a format.
func (format Format) ContentType() string {
	return contentTypes[format].response
}

// Exporter produces a citation document for a DOI.
type Exporter interface {
	Export(ctx context.Context, doi string, format Format) ([]byte, error)
}

// retryBaseDelay controls the base duration for exponential backoff on
// HTTP 429 responses. Tests override this to avoid real sleeps.
var retryBaseDelay = 2 * time.Second

const maxExportRetries = 3

// HTTPExporter proxies citation exports from a DOI content-negotiation
// endpoint such as doi.org.
type HTTPExporter struct {
	endpoint string
	client   *http.Client
}

// NewHTTPExporter creates an exporter for the given endpoint.
// A nil client falls back to a default with a 30s timeout.
func NewHTTPExporter(endpoint string, client *http.Client) *HTTPExporter {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &HTTPExporter{endpoint: endpoint, client: client}
}

// Export implements [Exporter].
func (exporter *HTTPExporter) Export(ctx context.Context, doi string, format Format) ([]byte, error) {
	types, ok := contentTypes[format]
	if !ok {
		return nil, fmt.Errorf("citations: unsupported format %q", format)
	}

	requestURL := exporter.endpoint + "/" + url.PathEscape(doi)
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, fmt.Errorf("citations: failed to build request: %w", err)
	}
	request.Header.Set("Accept", types.accept)

	response, err := exporter.doWithRetry(ctx, request)
	if err != nil {
		return nil, fmt.Errorf("citations: export request failed: %w", err)
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		io.Copy(io.Discard, response.Body)
		return nil, fmt.Errorf("citations: registrar returned %d for %s", response.StatusCode, doi)
	}

	payload, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, fmt.Errorf("citations: failed to read export body: %w", err)
	}

	return payload, nil
}

// doWithRetry executes the request and retries on HTTP 429 with
// exponential backoff, bounded by maxExportRetries.
func (exporter *HTTPExporter) doWithRetry(ctx context.Context, request *http.Request) (*http.Response, error) {
	for attempt := 0; ; attempt++ {
		response, err := exporter.client.Do(request.Clone(ctx))
		if err != nil {
			return nil, err
		}

		if response.StatusCode != http.StatusTooManyRequests {
			return response, nil
		}

		if attempt >= maxExportRetries {
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
