// Copyright (c) 2026 Lectern. All rights reserved.
// Author: dev@lectern.pub

package citations_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lectern-pub/lectern/internal/article"
	"github.com/lectern-pub/lectern/internal/citations"
	"github.com/lectern-pub/lectern/pkg/pointer"
)

const bibtexSample = "@article{Doe_2024, title={A worked example}}"

func newTestRepository(t *testing.T) article.Repository {
	t.Helper()

	repo := article.NewRepository(article.NewMemoryStorage())
	published := pointer.To(time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC))

	require.NoError(t, repo.StoreVersion(context.Background(), &article.Version{
		ID:                "85111v1",
		MSID:              "85111",
		DOI:               "10.7554/eLife.85111",
		VersionIdentifier: "1",
		VersionDOI:        "10.7554/eLife.85111.1",
		Published:         published,
	}))

	// A revision without a publish date: present in the history but
	// not citable.
	require.NoError(t, repo.StoreVersion(context.Background(), &article.Version{
		ID:                "85111v2",
		MSID:              "85111",
		DOI:               "10.7554/eLife.85111",
		VersionIdentifier: "2",
		VersionDOI:        "10.7554/eLife.85111.2",
	}))

	return repo
}

/*
TestParseFormat verifies format validation for the URL segment.
*/
func TestParseFormat(t *testing.T) {
	tests := []struct {
		raw    string
		wantOK bool
	}{
		{raw: "bibtex", wantOK: true},
		{raw: "ris", wantOK: true},
		{raw: "endnote", wantOK: false},
		{raw: "", wantOK: false},
	}

	for _, testCase := range tests {
		_, ok := citations.ParseFormat(testCase.raw)
		assert.Equal(t, testCase.wantOK, ok, "format %q", testCase.raw)
	}
}

/*
TestHTTPExporter_Export verifies content negotiation against a stub
registrar.
*/
func TestHTTPExporter_Export(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "application/x-bibtex", request.Header.Get("Accept"))
		_, _ = writer.Write([]byte(bibtexSample))
	}))
	defer server.Close()

	exporter := citations.NewHTTPExporter(server.URL, server.Client())
	payload, err := exporter.Export(context.Background(), "10.7554/eLife.85111.1", citations.FormatBibTeX)

	require.NoError(t, err)
	assert.Equal(t, bibtexSample, string(payload))
}

/*
TestHandler_Export verifies the route end to end: version resolution,
DOI selection, and the proxied payload.
*/
func TestHandler_Export(t *testing.T) {
	registrar := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "/10.7554%2FeLife.85111.1", request.URL.EscapedPath())
		_, _ = writer.Write([]byte(bibtexSample))
	}))
	defer registrar.Close()

	handler := citations.NewHandler(
		newTestRepository(t),
		citations.NewHTTPExporter(registrar.URL, registrar.Client()),
	)

	tests := []struct {
		name       string
		path       string
		wantStatus int
	}{
		{name: "bibtex export", path: "/85111/1/bibtex", wantStatus: http.StatusOK},
		{name: "unknown version", path: "/85111/9/bibtex", wantStatus: http.StatusNotFound},
		{name: "unpublished version", path: "/85111/2/bibtex", wantStatus: http.StatusNotFound},
		{name: "bad format", path: "/85111/1/endnote", wantStatus: http.StatusBadRequest},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			recorder := httptest.NewRecorder()
			request := httptest.NewRequest(http.MethodGet, testCase.path, nil)

			handler.Routes().ServeHTTP(recorder, request)

			assert.Equal(t, testCase.wantStatus, recorder.Code)
			if testCase.wantStatus == http.StatusOK {
				assert.Equal(t, bibtexSample, recorder.Body.String())
			}
		})
	}
}
