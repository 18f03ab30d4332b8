// Copyright (c) 2026 Lectern. All rights reserved.
// Author: dev@lectern.pub

package article

import "time"

// RecordKind tags the two shapes a version record can take.
type RecordKind string

const (
	// RecordFull is a version carrying a complete article payload.
	RecordFull RecordKind = "full"
	// RecordSummary is a thin record (e.g. a version-of-record pointer)
	// carrying metadata only.
	RecordSummary RecordKind = "summary"
)

// Version is one enhanced-article version record: a manuscript version
// identified globally by ID and grouped with its siblings by MSID.
//
// Published semantics: a nil Published means "not yet published"; such
// versions are hidden from default read paths. A future-dated Published
// is likewise not yet visible.
type Version struct {
	ID                string     `json:"id"`
	MSID              string     `json:"msid"`
	DOI               string     `json:"doi"`
	VersionIdentifier string     `json:"versionIdentifier"`
	VersionDOI        string     `json:"versionDoi,omitempty"`
	PreprintDOI       string     `json:"preprintDoi"`
	PreprintURL       string     `json:"preprintUrl"`
	PreprintPosted    time.Time  `json:"preprintPosted"`
	SentForReview     *time.Time `json:"sentForReview,omitempty"`
	Published         *time.Time `json:"published"`
	PublishedYear     int        `json:"publishedYear,omitempty"`
	Subjects          []string   `json:"subjects,omitempty"`
	Volume            string     `json:"volume,omitempty"`
	ELocationID       string     `json:"eLocationId,omitempty"`
	License           string     `json:"license,omitempty"`
	URL               string     `json:"url,omitempty"`

	// PDFURL is derived at read time, never persisted.
	PDFURL string `json:"pdfUrl,omitempty"`

	// Article is absent on summary-only records.
	Article *ProcessedArticle `json:"article,omitempty"`

	PeerReview *PeerReview `json:"peerReview,omitempty"`
}

// Kind returns the record's variant tag. It is the single place the
// presence of the article payload is interpreted; the merge engine and
// callers switch on the tag rather than probing fields.
func (v *Version) Kind() RecordKind {
	if v.Article != nil {
		return RecordFull
	}
	return RecordSummary
}

// HasEvaluationSummary reports whether the record carries a peer-review
// evaluation summary.
func (v *Version) HasEvaluationSummary() bool {
	return v.PeerReview != nil && v.PeerReview.EvaluationSummary != nil
}

// VersionSummary is the projection of a version used in listing
// endpoints and in the versions map of a versioned read.
//
// WithEvaluationSummary is present (true) only for versions carrying an
// evaluation summary; it is omitted, not false, everywhere else.
type VersionSummary struct {
	ID                    string     `json:"id"`
	MSID                  string     `json:"msid"`
	DOI                   string     `json:"doi"`
	VersionIdentifier     string     `json:"versionIdentifier"`
	VersionDOI            string     `json:"versionDoi,omitempty"`
	PreprintDOI           string     `json:"preprintDoi"`
	PreprintURL           string     `json:"preprintUrl"`
	PreprintPosted        time.Time  `json:"preprintPosted"`
	SentForReview         *time.Time `json:"sentForReview,omitempty"`
	Published             *time.Time `json:"published"`
	Subjects              []string   `json:"subjects,omitempty"`
	URL                   string     `json:"url,omitempty"`
	WithEvaluationSummary bool       `json:"withEvaluationSummary,omitempty"`
}

// Summary projects the version to its listing form.
func (v *Version) Summary() VersionSummary {
	return VersionSummary{
		ID:                    v.ID,
		MSID:                  v.MSID,
		DOI:                   v.DOI,
		VersionIdentifier:     v.VersionIdentifier,
		VersionDOI:            v.VersionDOI,
		PreprintDOI:           v.PreprintDOI,
		PreprintURL:           v.PreprintURL,
		PreprintPosted:        v.PreprintPosted,
		SentForReview:         v.SentForReview,
		Published:             v.Published,
		Subjects:              v.Subjects,
		URL:                   v.URL,
		WithEvaluationSummary: v.HasEvaluationSummary(),
	}
}

// VersionedArticle is the versioned read model: the selected current
// version in full, plus a summary of every known sibling keyed by id.
type VersionedArticle struct {
	Article  *Version                  `json:"article"`
	Versions map[string]VersionSummary `json:"versions"`
}
