// Copyright (c) 2026 Lectern. All rights reserved.
// Author: dev@lectern.pub

package article

import (
	"context"
	"log/slog"

	"github.com/lectern-pub/lectern/internal/platform/validate"
	"github.com/lectern-pub/lectern/pkg/slice"
	"github.com/lectern-pub/lectern/pkg/slug"
)

// Field names for validation
const (
	FieldID                = "id"
	FieldMSID              = "msid"
	FieldDOI               = "doi"
	FieldVersionIdentifier = "versionIdentifier"
	FieldPreprintDOI       = "preprintDoi"
	FieldPreprintURL       = "preprintUrl"
	FieldPreprintPosted    = "preprintPosted"
	FieldSubjects          = "subjects"
	FieldURL               = "url"
)

// ReviewProvider fetches peer review material for a version from the
// external review platform. Implemented by the reviews package.
type ReviewProvider interface {
	GetPeerReview(ctx context.Context, msid, versionIdentifier string) (*PeerReview, error)
}

type Service struct {
	repo    Repository
	reviews ReviewProvider
	logger  *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// WithReviewProvider enables docmap enrichment for stored versions.
func (service *Service) WithReviewProvider(provider ReviewProvider) *Service {
	service.reviews = provider
	return service
}

func (service *Service) StoreArticle(context context.Context, id string, article *ProcessedArticle) error {
	validator := &validate.Validator{}
	validator.Required(FieldID, id)
	validator.Required(FieldDOI, article.DOI)

	if err := validator.Err(); err != nil {
		return err
	}

	if err := service.repo.StoreArticle(context, id, article); err != nil {
		return err
	}

	service.logger.Info("article_stored",
		slog.String("id", id),
		slog.String("doi", article.DOI),
	)
	return nil
}

func (service *Service) GetArticle(context context.Context, key string) (*ProcessedArticle, error) {
	return service.repo.GetArticle(context, key)
}

func (service *Service) GetArticleSummaries(context context.Context) ([]ArticleSummary, error) {
	return service.repo.GetArticleSummaries(context)
}

func (service *Service) GetArticleHashes(context context.Context) ([]ArticleHash, error) {
	return service.repo.GetArticleHashes(context)
}

func (service *Service) StoreVersion(context context.Context, incoming *Version) error {
	if err := validateVersion(incoming); err != nil {
		return err
	}

	// Feeds that do not carry review material themselves get it filled
	// in from the review platform. Enrichment failures are logged, not
	// fatal: the version record is the primary payload.
	if incoming.PeerReview == nil && service.reviews != nil {
		review, err := service.reviews.GetPeerReview(context, incoming.MSID, incoming.VersionIdentifier)
		if err != nil {
			service.logger.Warn("review_enrichment_failed",
				slog.String("id", incoming.ID),
				slog.Any("error", err),
			)
		} else {
			incoming.PeerReview = review
		}
	}

	if err := service.repo.StoreVersion(context, incoming); err != nil {
		return err
	}

	service.logger.Info("article_version_stored",
		slog.String("id", incoming.ID),
		slog.String("msid", incoming.MSID),
		slog.String("kind", string(incoming.Kind())),
	)
	return nil
}

func (service *Service) DeleteVersion(context context.Context, id string) error {
	if err := service.repo.DeleteVersion(context, id); err != nil {
		return err
	}

	service.logger.Warn("article_version_deleted", slog.String("id", id))
	return nil
}

func (service *Service) FindVersion(context context.Context, identifier string, includeUnpublished bool) (*VersionedArticle, error) {
	return service.repo.FindVersion(context, identifier, includeUnpublished)
}

// GetVersionSummaries lists all version summaries, optionally narrowed
// to those tagged with any of the given subject slugs.
func (service *Service) GetVersionSummaries(context context.Context, subjects []string) ([]VersionSummary, error) {
	summaries, err := service.repo.GetVersionSummaries(context)
	if err != nil {
		return nil, err
	}
	if len(subjects) == 0 {
		return summaries, nil
	}

	wanted := make(map[string]struct{}, len(subjects))
	for _, subject := range subjects {
		wanted[slug.From(subject)] = struct{}{}
	}

	return slice.Filter(summaries, func(summary VersionSummary) bool {
		for _, s := range summary.Subjects {
			if _, ok := wanted[slug.From(s)]; ok {
				return true
			}
		}
		return false
	}), nil
}

// validateVersion rejects structurally invalid records before they reach
// the merge engine. Summary-only records are thin by design, so the
// provenance fields are mandatory on full records only.
func validateVersion(incoming *Version) error {
	validator := &validate.Validator{}

	validator.Required(FieldID, incoming.ID)
	validator.Required(FieldMSID, incoming.MSID)
	validator.Required(FieldVersionIdentifier, incoming.VersionIdentifier)

	if incoming.Kind() == RecordFull {
		validator.Required(FieldPreprintDOI, incoming.PreprintDOI)
		validator.Required(FieldPreprintURL, incoming.PreprintURL)
		if incoming.PreprintURL != "" {
			validator.URL(FieldPreprintURL, incoming.PreprintURL)
		}
		validator.Custom(FieldPreprintPosted, incoming.PreprintPosted.IsZero(), "This field is required")
	}

	if incoming.URL != "" {
		validator.URL(FieldURL, incoming.URL)
	}

	seen := make(map[string]struct{}, len(incoming.Subjects))
	for _, subject := range incoming.Subjects {
		if subject == "" {
			validator.Custom(FieldSubjects, true, "Subjects must not contain empty strings")
			break
		}
		if _, dup := seen[subject]; dup {
			validator.Custom(FieldSubjects, true, "Subjects must not contain duplicates")
			break
		}
		seen[subject] = struct{}{}
	}

	return validator.Err()
}
