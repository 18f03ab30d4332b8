// Copyright (c) 2026 Lectern. All rights reserved.
// Author: dev@lectern.pub

/*
Package article HTTP layer.

The handler exposes the repository contract over REST:

  - Public: versioned preprint reads, flat article reads, hash listing.
  - Service token (ingest scope): storing and deleting version records.

Version identifiers may contain path separators (DOI-shaped ids), so the
item routes use catch-all parameters rather than single segments.
*/
package article

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/lectern-pub/lectern/internal/platform/apperr"
	"github.com/lectern-pub/lectern/internal/platform/middleware"
	requestutil "github.com/lectern-pub/lectern/internal/platform/request"
	"github.com/lectern-pub/lectern/internal/platform/respond"
	"github.com/lectern-pub/lectern/internal/platform/sec"
	"github.com/lectern-pub/lectern/pkg/pagination"
	"github.com/lectern-pub/lectern/pkg/query"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the public read API mounted under /api.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Route("/preprints", func(preprintRoute chi.Router) {
		preprintRoute.Get("/", handler.listVersions)
		preprintRoute.Get("/*", handler.findVersion)
	})

	router.Route("/articles", func(articleRoute chi.Router) {
		articleRoute.Get("/", handler.listArticles)
		articleRoute.Get("/hashes", handler.listArticleHashes)
		articleRoute.Get("/*", handler.getArticle)
	})

	return router
}

// IngestRoutes returns the write API used by ingestion feeds. Every
// route requires a service token with the ingest scope.
func (handler *Handler) IngestRoutes() chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.RequireScope(sec.ScopeIngest))

	router.Post("/", handler.storeVersion)
	router.Delete("/*", handler.deleteVersion)

	return router
}

func (handler *Handler) listVersions(writer http.ResponseWriter, request *http.Request) {
	paginationParams := pagination.FromRequest(request)
	subjects := query.StringSlice(request.URL.Query().Get("subject"))

	summaries, err := handler.service.GetVersionSummaries(request.Context(), subjects)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	page := paginate(summaries, paginationParams)
	respond.Paginated(writer, page, pagination.NewMeta(paginationParams.Page, paginationParams.Limit, len(summaries)))
}

func (handler *Handler) findVersion(writer http.ResponseWriter, request *http.Request) {
	identifier := requestutil.Wildcard(request)
	includeUnpublished := request.URL.Query().Get("previews") == "true"

	result, err := handler.service.FindVersion(request.Context(), identifier, includeUnpublished)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	if result == nil {
		// Absence is a legitimate engine outcome; only the HTTP layer
		// turns it into a status code.
		respond.Error(writer, request, apperr.NotFound("Preprint"))
		return
	}

	respond.OK(writer, result)
}

func (handler *Handler) storeVersion(writer http.ResponseWriter, request *http.Request) {
	var input Version
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.StoreVersion(request.Context(), &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]any{"result": true, "message": "OK"})
}

func (handler *Handler) deleteVersion(writer http.ResponseWriter, request *http.Request) {
	identifier := requestutil.Wildcard(request)

	if err := handler.service.DeleteVersion(request.Context(), identifier); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

func (handler *Handler) listArticles(writer http.ResponseWriter, request *http.Request) {
	summaries, err := handler.service.GetArticleSummaries(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, summaries)
}

func (handler *Handler) listArticleHashes(writer http.ResponseWriter, request *http.Request) {
	hashes, err := handler.service.GetArticleHashes(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, hashes)
}

func (handler *Handler) getArticle(writer http.ResponseWriter, request *http.Request) {
	key := requestutil.Wildcard(request)

	found, err := handler.service.GetArticle(request.Context(), key)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, found)
}

// paginate slices an already-materialized summary list. Listings are
// repository-wide and bounded by pagination.MaxLimit per page.
func paginate(summaries []VersionSummary, params pagination.Params) []VersionSummary {
	start := params.Offset()
	if start >= len(summaries) {
		return []VersionSummary{}
	}
	end := start + params.Limit
	if end > len(summaries) {
		end = len(summaries)
	}
	return summaries[start:end]
}
