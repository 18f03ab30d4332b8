// Copyright (c) 2026 Lectern. All rights reserved.
// Author: dev@lectern.pub

package article

import "context"

// Repository is the backend-agnostic article repository contract. Every
// storage backend must expose identical observable semantics; they do so
// by implementing only [Storage] and sharing one engine (see repository.go).
type Repository interface {
	// StoreArticle stores a non-versioned processed article under a flat
	// identifier. Storing the same id again overwrites: last write wins.
	StoreArticle(ctx context.Context, id string, article *ProcessedArticle) error

	// GetArticle resolves key as a DOI or as a stored flat identifier.
	// Unknown keys fail with apperr.NotFound.
	GetArticle(ctx context.Context, key string) (*ProcessedArticle, error)

	// GetArticleSummaries lists all flat articles. Order is stable across
	// repeated calls absent writes; nothing more is guaranteed.
	GetArticleSummaries(ctx context.Context) ([]ArticleSummary, error)

	// GetArticleHashes is the cheap change-detection surface used by
	// ingestion to skip unchanged manuscripts.
	GetArticleHashes(ctx context.Context) ([]ArticleHash, error)

	// StoreVersion is the versioning entry point. It inserts, replaces,
	// or field-merges according to the engine's rules and never silently
	// drops data. Storage failures propagate as errors.
	StoreVersion(ctx context.Context, incoming *Version) error

	// DeleteVersion removes exactly one version by its own id, leaving
	// siblings untouched. Unknown ids fail with apperr.NotFound.
	DeleteVersion(ctx context.Context, id string) error

	// FindVersion resolves identifier as a version id or an msid and
	// returns the versioned read model. A nil result with a nil error is
	// the legitimate "no visible version" outcome, not a failure.
	FindVersion(ctx context.Context, identifier string, includeUnpublished bool) (*VersionedArticle, error)

	// GetVersionSummaries lists every stored version, unpublished ones
	// included. Listing is not gated by publish date.
	GetVersionSummaries(ctx context.Context) ([]VersionSummary, error)
}

// MergeFunc decides the record written for an incoming version given the
// record currently stored under the same id (nil when none exists).
// Backends call it inside their atomicity bracket and must not interpret
// the records themselves.
type MergeFunc func(existing, incoming *Version) *Version

// Storage is the minimal persistence primitive a backend implements.
// Merge and visibility semantics live above it, in the shared repository;
// a backend's only semantic obligation is the atomicity of UpsertVersion.
type Storage interface {
	// GetVersion returns the version stored under id, or (nil, nil) when
	// absent.
	GetVersion(ctx context.Context, id string) (*Version, error)

	// VersionsByMSID returns every version grouped under msid.
	VersionsByMSID(ctx context.Context, msid string) ([]*Version, error)

	// UpsertVersion atomically reads the record stored under incoming.ID,
	// applies merge, and writes the result. The read-merge-write must be
	// a single logical transaction with respect to concurrent upserts of
	// the same id.
	UpsertVersion(ctx context.Context, incoming *Version, merge MergeFunc) error

	// DeleteVersion removes the record under id, reporting whether a
	// record existed.
	DeleteVersion(ctx context.Context, id string) (bool, error)

	// ListVersions returns every stored version.
	ListVersions(ctx context.Context) ([]*Version, error)

	// PutArticle upserts a flat article record under id.
	PutArticle(ctx context.Context, id string, article *ProcessedArticle) error

	// GetArticleByKey resolves key against stored DOIs first, then flat
	// ids, returning (nil, nil) when absent.
	GetArticleByKey(ctx context.Context, key string) (*ProcessedArticle, error)

	// ListArticles returns every flat article with its stored id.
	ListArticles(ctx context.Context) ([]StoredArticle, error)
}
