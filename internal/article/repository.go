// Copyright (c) 2026 Lectern. All rights reserved.
// Author: dev@lectern.pub

package article

import (
	"context"
	"sort"
	"time"

	"github.com/lectern-pub/lectern/internal/platform/apperr"
)

// repository is the one shared implementation of the Repository
// contract. Backends supply only a Storage primitive; merge and
// visibility semantics are never re-derived per backend.
type repository struct {
	storage Storage
	now     func() time.Time
}

// NewRepository wraps a storage backend in the shared versioning engine.
func NewRepository(storage Storage) Repository {
	return &repository{storage: storage, now: time.Now}
}

func (r *repository) StoreArticle(ctx context.Context, id string, article *ProcessedArticle) error {
	return r.storage.PutArticle(ctx, id, article)
}

func (r *repository) GetArticle(ctx context.Context, key string) (*ProcessedArticle, error) {
	found, err := r.storage.GetArticleByKey(ctx, key)
	if err != nil {
		return nil, err
	}
	if found == nil {
		return nil, apperr.NotFound("Article")
	}
	return found, nil
}

func (r *repository) GetArticleSummaries(ctx context.Context) ([]ArticleSummary, error) {
	stored, err := r.storage.ListArticles(ctx)
	if err != nil {
		return nil, err
	}

	summaries := make([]ArticleSummary, 0, len(stored))
	for _, record := range stored {
		summaries = append(summaries, ArticleSummary{
			ID:    record.ID,
			DOI:   record.Article.DOI,
			Date:  record.Article.Date,
			Title: record.Article.Title,
		})
	}
	sort.Slice(summaries, func(i, j int) bool { return summaries[i].ID < summaries[j].ID })

	return summaries, nil
}

func (r *repository) GetArticleHashes(ctx context.Context) ([]ArticleHash, error) {
	stored, err := r.storage.ListArticles(ctx)
	if err != nil {
		return nil, err
	}

	hashes := make([]ArticleHash, 0, len(stored))
	for _, record := range stored {
		hashes = append(hashes, ArticleHash{ID: record.ID, Hash: record.Article.Hash})
	}
	sort.Slice(hashes, func(i, j int) bool { return hashes[i].ID < hashes[j].ID })

	return hashes, nil
}

func (r *repository) StoreVersion(ctx context.Context, incoming *Version) error {
	return r.storage.UpsertVersion(ctx, incoming, Merge)
}

func (r *repository) DeleteVersion(ctx context.Context, id string) error {
	existed, err := r.storage.DeleteVersion(ctx, id)
	if err != nil {
		return err
	}
	if !existed {
		return apperr.NotFound("Article version")
	}
	return nil
}

func (r *repository) FindVersion(ctx context.Context, identifier string, includeUnpublished bool) (*VersionedArticle, error) {
	// Resolve the identifier: a direct version id pins the selection,
	// anything else is treated as an msid.
	msid := identifier
	pinnedID := ""

	direct, err := r.storage.GetVersion(ctx, identifier)
	if err != nil {
		return nil, err
	}
	if direct != nil {
		msid = direct.MSID
		pinnedID = direct.ID
	}

	siblings, err := r.storage.VersionsByMSID(ctx, msid)
	if err != nil {
		return nil, err
	}
	if len(siblings) == 0 {
		return nil, nil
	}

	candidates := siblings
	if !includeUnpublished {
		now := r.now()
		candidates = candidates[:0:0]
		for _, sibling := range siblings {
			if visibleAt(sibling, now) {
				candidates = append(candidates, sibling)
			}
		}
		// Gating may hide everything even when history exists.
		if len(candidates) == 0 {
			return nil, nil
		}
		// An id-addressed lookup never falls back to a sibling when the
		// pinned version itself is hidden.
		if pinnedID != "" && !visibleAt(direct, now) {
			return nil, nil
		}
	}

	// The versions map always carries the full sibling history;
	// visibility only affects which record becomes the article field.
	versions := make(map[string]VersionSummary, len(siblings))
	for _, sibling := range siblings {
		versions[sibling.ID] = sibling.Summary()
	}

	return &VersionedArticle{
		Article:  selectCurrent(candidates, pinnedID),
		Versions: versions,
	}, nil
}

func (r *repository) GetVersionSummaries(ctx context.Context) ([]VersionSummary, error) {
	versions, err := r.storage.ListVersions(ctx)
	if err != nil {
		return nil, err
	}

	summaries := make([]VersionSummary, 0, len(versions))
	for _, version := range versions {
		summaries = append(summaries, version.Summary())
	}
	sort.Slice(summaries, func(i, j int) bool { return summaries[i].ID < summaries[j].ID })

	return summaries, nil
}
