// Copyright (c) 2026 Lectern. All rights reserved.
// Author: dev@lectern.pub

// Package article holds the versioned article model at the heart of
// Lectern: processed manuscripts, enhanced version records, the
// backend-agnostic repository contract, and the single shared
// versioning/merge engine every storage backend runs on.
package article

import (
	"time"

	"github.com/lectern-pub/lectern/internal/content"
)

// Identifier is a typed key/value pair attached to authors or references
// (e.g. {"type": "orcid", "value": "0000-0002-1825-0097"}).
type Identifier struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

// Address is the postal address of an organisation.
type Address struct {
	Country string `json:"country"`
}

// Organisation is an author affiliation.
type Organisation struct {
	Name    string   `json:"name"`
	Address *Address `json:"address,omitempty"`
}

// Author is one credited author of a manuscript.
type Author struct {
	FamilyNames  []string       `json:"familyNames"`
	GivenNames   []string       `json:"givenNames"`
	Affiliations []Organisation `json:"affiliations,omitempty"`
	Emails       []string       `json:"emails,omitempty"`
	Identifiers  []Identifier   `json:"identifiers,omitempty"`
}

// Publication is the containing publication of a reference. A publication
// may itself belong to another (journal issue inside a journal).
type Publication struct {
	Name     string       `json:"name"`
	Volume   string       `json:"volumeNumber,omitempty"`
	IsPartOf *Publication `json:"isPartOf,omitempty"`
}

// Reference is a single bibliography entry.
type Reference struct {
	ID            string       `json:"id"`
	Title         string       `json:"title"`
	URL           string       `json:"url,omitempty"`
	Authors       []Author     `json:"authors,omitempty"`
	PageRange     string       `json:"pageRange,omitempty"`
	PublishedDate *time.Time   `json:"datePublished,omitempty"`
	Identifiers   []Identifier `json:"identifiers,omitempty"`
	IsPartOf      *Publication `json:"isPartOf,omitempty"`
}

// License describes the terms a manuscript is distributed under: a type
// plus either a canonical URL or inline license content.
type License struct {
	Type    string           `json:"type"`
	URL     string           `json:"url,omitempty"`
	Content *content.Content `json:"content,omitempty"`
}

// Participant is one named party of a peer-review artifact.
type Participant struct {
	Name        string `json:"name"`
	Role        string `json:"role"`
	Institution string `json:"institution,omitempty"`
}

// Evaluation is one peer-review artifact: a review, an evaluation
// summary, or an author response.
type Evaluation struct {
	Date         time.Time     `json:"date"`
	ReviewType   string        `json:"reviewType"`
	Text         string        `json:"text"`
	Participants []Participant `json:"participants"`
}

// PeerReview groups the review artifacts attached to one version.
type PeerReview struct {
	EvaluationSummary *Evaluation  `json:"evaluationSummary,omitempty"`
	Reviews           []Evaluation `json:"reviews"`
	AuthorResponse    *Evaluation  `json:"authorResponse,omitempty"`
}

// ProcessedArticle is the full payload produced by the external
// conversion step for one manuscript version. Immutable once stored.
type ProcessedArticle struct {
	DOI        string          `json:"doi"`
	Date       *time.Time      `json:"date,omitempty"`
	Title      content.Content `json:"title"`
	Abstract   content.Content `json:"abstract"`
	Authors    []Author        `json:"authors"`
	Licenses   []License       `json:"licenses"`
	Content    content.Content `json:"content"`
	References []Reference     `json:"references"`

	// Hash is the content fingerprint recorded at ingestion time.
	// Empty when the ingestion path did not compute one.
	Hash string `json:"hash,omitempty"`
}

// ArticleSummary is the list projection of a flat-stored article.
type ArticleSummary struct {
	ID    string          `json:"id"`
	DOI   string          `json:"doi"`
	Date  *time.Time      `json:"date,omitempty"`
	Title content.Content `json:"title"`
}

// ArticleHash is the change-detection projection. Hash is omitted when
// the article was stored without one, never reported as empty-but-set.
type ArticleHash struct {
	ID   string `json:"id"`
	Hash string `json:"hash,omitempty"`
}

// StoredArticle pairs a flat-stored article with the identifier it was
// stored under.
type StoredArticle struct {
	ID      string
	Article *ProcessedArticle
}
