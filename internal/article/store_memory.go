// Copyright (c) 2026 Lectern. All rights reserved.
// Author: dev@lectern.pub

package article

import (
	"context"
	"sync"
)

// MemoryStorage is the in-process Storage backend: a version map keyed
// by id with a secondary msid index, plus a flat article map with a DOI
// index. A single RWMutex is the atomicity bracket for UpsertVersion.
//
// Values are copied on the way in and out; callers never hold live
// references into the store.
type MemoryStorage struct {
	mu       sync.RWMutex
	versions map[string]*Version
	byMSID   map[string]map[string]struct{}
	articles map[string]*ProcessedArticle
	doiIndex map[string]string
}

// NewMemoryStorage returns an empty in-memory backend.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		versions: make(map[string]*Version),
		byMSID:   make(map[string]map[string]struct{}),
		articles: make(map[string]*ProcessedArticle),
		doiIndex: make(map[string]string),
	}
}

func (s *MemoryStorage) GetVersion(_ context.Context, id string) (*Version, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored, ok := s.versions[id]
	if !ok {
		return nil, nil
	}
	return copyVersion(stored), nil
}

func (s *MemoryStorage) VersionsByMSID(_ context.Context, msid string) ([]*Version, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := s.byMSID[msid]
	out := make([]*Version, 0, len(ids))
	for id := range ids {
		out = append(out, copyVersion(s.versions[id]))
	}
	return out, nil
}

func (s *MemoryStorage) UpsertVersion(_ context.Context, incoming *Version, merge MergeFunc) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing := s.versions[incoming.ID]
	merged := merge(existing, copyVersion(incoming))

	// Re-index when a merge moves the record to another msid.
	if existing != nil && existing.MSID != merged.MSID {
		delete(s.byMSID[existing.MSID], existing.ID)
		if len(s.byMSID[existing.MSID]) == 0 {
			delete(s.byMSID, existing.MSID)
		}
	}

	s.versions[merged.ID] = merged
	if s.byMSID[merged.MSID] == nil {
		s.byMSID[merged.MSID] = make(map[string]struct{})
	}
	s.byMSID[merged.MSID][merged.ID] = struct{}{}

	return nil
}

func (s *MemoryStorage) DeleteVersion(_ context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.versions[id]
	if !ok {
		return false, nil
	}

	delete(s.versions, id)
	delete(s.byMSID[stored.MSID], id)
	if len(s.byMSID[stored.MSID]) == 0 {
		delete(s.byMSID, stored.MSID)
	}
	return true, nil
}

func (s *MemoryStorage) ListVersions(_ context.Context) ([]*Version, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*Version, 0, len(s.versions))
	for _, stored := range s.versions {
		out = append(out, copyVersion(stored))
	}
	return out, nil
}

func (s *MemoryStorage) PutArticle(_ context.Context, id string, article *ProcessedArticle) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := *article
	s.articles[id] = &stored
	if article.DOI != "" {
		s.doiIndex[article.DOI] = id
	}
	return nil
}

func (s *MemoryStorage) GetArticleByKey(_ context.Context, key string) (*ProcessedArticle, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if id, ok := s.doiIndex[key]; ok {
		found := *s.articles[id]
		return &found, nil
	}
	if stored, ok := s.articles[key]; ok {
		found := *stored
		return &found, nil
	}
	return nil, nil
}

func (s *MemoryStorage) ListArticles(_ context.Context) ([]StoredArticle, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]StoredArticle, 0, len(s.articles))
	for id, stored := range s.articles {
		found := *stored
		out = append(out, StoredArticle{ID: id, Article: &found})
	}
	return out, nil
}

// copyVersion is a shallow copy of the record plus its article payload.
// Nested content trees are immutable by convention, so sharing them is
// safe; the payload pointer itself must not be shared.
func copyVersion(v *Version) *Version {
	if v == nil {
		return nil
	}
	out := *v
	if v.Article != nil {
		payload := *v.Article
		out.Article = &payload
	}
	if v.PeerReview != nil {
		review := *v.PeerReview
		out.PeerReview = &review
	}
	return &out
}
