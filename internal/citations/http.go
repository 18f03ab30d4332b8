// Copyright (c) 2026 Lectern. All rights reserved.
// Author: dev@lectern.pub

package citations

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/lectern-pub/lectern/internal/article"
	"github.com/lectern-pub/lectern/internal/platform/apperr"
	requestutil "github.com/lectern-pub/lectern/internal/platform/request"
	"github.com/lectern-pub/lectern/internal/platform/respond"
)

// Handler serves citation exports for published article versions.
type Handler struct {
	repo     article.Repository
	exporter Exporter
}

// NewHandler creates the citation export handler.
func NewHandler(repo article.Repository, exporter Exporter) *Handler {
	return &Handler{repo: repo, exporter: exporter}
}

// Routes returns the citation routes mounted under /api/citations.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Get("/{msid}/{version}/{format}", handler.export)
	return router
}

// export handles GET /api/citations/{msid}/{version}/{format}.
//
// The version is resolved through the repository so hidden versions
// never leak citation metadata, then the export is proxied from the
// registrar under the version DOI.
func (handler *Handler) export(writer http.ResponseWriter, request *http.Request) {
	msid := requestutil.Param(request, "msid")
	versionIdentifier := requestutil.Param(request, "version")

	format, ok := ParseFormat(requestutil.Param(request, "format"))
	if !ok {
		respond.Error(writer, request, apperr.ValidationError("Unsupported citation format"))
		return
	}

	found, err := handler.repo.FindVersion(request.Context(), msid, false)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	if found == nil {
		respond.Error(writer, request, apperr.NotFound("Preprint"))
		return
	}

	// Version ids are opaque, so the {version} segment is matched
	// against the identifier of each sibling rather than used as a key.
	version, ok := matchVersion(found.Versions, versionIdentifier, time.Now())
	if !ok {
		respond.Error(writer, request, apperr.NotFound("Preprint"))
		return
	}

	doi := version.VersionDOI
	if doi == "" {
		doi = version.DOI
	}
	if doi == "" {
		respond.Error(writer, request, apperr.NotFound("Citation"))
		return
	}

	payload, err := handler.exporter.Export(request.Context(), doi, format)
	if err != nil {
		respond.Error(writer, request, apperr.Internal(err))
		return
	}

	writer.Header().Set("Content-Type", format.ContentType())
	writer.WriteHeader(http.StatusOK)
	_, _ = writer.Write(payload)
}

// matchVersion selects the sibling addressed by the version identifier.
// The versions map carries hidden siblings too, so a match must also
// pass the publish-date gate.
func matchVersion(versions map[string]article.VersionSummary, identifier string, now time.Time) (article.VersionSummary, bool) {
	for _, summary := range versions {
		if summary.VersionIdentifier != identifier {
			continue
		}
		if summary.Published == nil || summary.Published.After(now) {
			return article.VersionSummary{}, false
		}
		return summary, true
	}
	return article.VersionSummary{}, false
}
