// Copyright (c) 2026 Lectern. All rights reserved.
// Author: dev@lectern.pub

package article

import (
	"strconv"
	"time"
)

// Merge implements the write-path decision for an incoming version
// against the record currently stored under the same id (nil when none).
//
// Rules:
//   - no existing record: insert incoming as-is
//   - full over full, or summary over summary: full replace; fields not
//     present on incoming are not carried over
//   - summary over full: shallow overlay; only fields set on incoming
//     land on the stored record, the article payload and every other
//     previously-set field survive
//
// The asymmetry exists because manuscripts accrue metadata
// asynchronously: a version-of-record feed that knows nothing about the
// ingested body must be able to set published/url without erasing it.
func Merge(existing, incoming *Version) *Version {
	if existing == nil {
		return incoming
	}

	if incoming.Kind() == RecordFull || existing.Kind() == RecordSummary {
		return incoming
	}

	return overlay(existing, incoming)
}

// overlay copies the fields present on the incoming summary record onto
// a copy of the stored full record.
func overlay(existing, incoming *Version) *Version {
	merged := *existing

	if incoming.MSID != "" {
		merged.MSID = incoming.MSID
	}
	if incoming.DOI != "" {
		merged.DOI = incoming.DOI
	}
	if incoming.VersionIdentifier != "" {
		merged.VersionIdentifier = incoming.VersionIdentifier
	}
	if incoming.VersionDOI != "" {
		merged.VersionDOI = incoming.VersionDOI
	}
	if incoming.PreprintDOI != "" {
		merged.PreprintDOI = incoming.PreprintDOI
	}
	if incoming.PreprintURL != "" {
		merged.PreprintURL = incoming.PreprintURL
	}
	if !incoming.PreprintPosted.IsZero() {
		merged.PreprintPosted = incoming.PreprintPosted
	}
	if incoming.SentForReview != nil {
		merged.SentForReview = incoming.SentForReview
	}
	if incoming.Published != nil {
		merged.Published = incoming.Published
	}
	if incoming.PublishedYear != 0 {
		merged.PublishedYear = incoming.PublishedYear
	}
	if len(incoming.Subjects) > 0 {
		merged.Subjects = incoming.Subjects
	}
	if incoming.Volume != "" {
		merged.Volume = incoming.Volume
	}
	if incoming.ELocationID != "" {
		merged.ELocationID = incoming.ELocationID
	}
	if incoming.License != "" {
		merged.License = incoming.License
	}
	if incoming.URL != "" {
		merged.URL = incoming.URL
	}
	if incoming.PDFURL != "" {
		merged.PDFURL = incoming.PDFURL
	}
	if incoming.PeerReview != nil {
		merged.PeerReview = incoming.PeerReview
	}

	return &merged
}

// visibleAt reports whether a version is publicly visible at the given
// instant: it must carry a published date that is not in the future.
func visibleAt(v *Version, now time.Time) bool {
	return v.Published != nil && !v.Published.After(now)
}

// laterThan orders two versions for current-version selection: by
// published date, ties broken by higher version identifier. Unpublished
// records (only reachable via includeUnpublished) sort below published
// ones. The identifier tie-break is deliberate: insertion order is not
// stable across backends.
func laterThan(a, b *Version) bool {
	switch {
	case a.Published == nil && b.Published == nil:
		return identifierLess(b.VersionIdentifier, a.VersionIdentifier)
	case a.Published == nil:
		return false
	case b.Published == nil:
		return true
	}

	if a.Published.Equal(*b.Published) {
		return identifierLess(b.VersionIdentifier, a.VersionIdentifier)
	}
	return a.Published.After(*b.Published)
}

// identifierLess compares version identifiers numerically when both
// parse as integers, lexicographically otherwise.
func identifierLess(a, b string) bool {
	na, errA := strconv.Atoi(a)
	nb, errB := strconv.Atoi(b)
	if errA == nil && errB == nil {
		return na < nb
	}
	return a < b
}

// selectCurrent picks the current version among candidates.
//
// A non-empty pinnedID (identifier resolved directly to a version id)
// pins that exact candidate. Otherwise the latest candidate carrying a
// full article payload wins; summary-only records are selected only when
// no full sibling is available.
func selectCurrent(candidates []*Version, pinnedID string) *Version {
	if pinnedID != "" {
		for _, candidate := range candidates {
			if candidate.ID == pinnedID {
				return candidate
			}
		}
	}

	var latest, latestFull *Version
	for _, candidate := range candidates {
		if latest == nil || laterThan(candidate, latest) {
			latest = candidate
		}
		if candidate.Kind() == RecordFull && (latestFull == nil || laterThan(candidate, latestFull)) {
			latestFull = candidate
		}
	}

	if latestFull != nil {
		return latestFull
	}
	return latest
}
