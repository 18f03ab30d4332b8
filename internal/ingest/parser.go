// Copyright (c) 2026 Lectern. All rights reserved.
// Author: dev@lectern.pub

/*
Package ingest turns converter output into stored articles.

The external conversion pipeline emits one JSON document per manuscript
(the converter's "ArticleStruct" shape). This package parses that shape
into the domain model and drives the directory importer that feeds the
flat article store.
*/
package ingest

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/lectern-pub/lectern/internal/article"
	"github.com/lectern-pub/lectern/internal/content"
)

// articleStruct mirrors the converter's output document. Field names
// follow schema.org conventions, which is why they differ from the
// domain model's.
type articleStruct struct {
	Title         content.Content     `json:"title"`
	Description   content.Content     `json:"description"`
	DatePublished *dateValue          `json:"datePublished"`
	Identifiers   []identifierEntry   `json:"identifiers"`
	Authors       []article.Author    `json:"authors"`
	Licenses      []article.License   `json:"licenses"`
	Content       content.Content     `json:"content"`
	References    []article.Reference `json:"references"`
}

type dateValue struct {
	Value string `json:"value"`
}

type identifierEntry struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// dateLayouts are the formats the converter has been observed to emit.
var dateLayouts = []string{time.RFC3339, "2006-01-02"}

// Parse decodes a converter document into a [article.ProcessedArticle].
//
// The DOI is required: it is the key the flat store resolves articles
// by. The content hash is computed over the raw document so unchanged
// converter output is detected byte-for-byte.
func Parse(raw []byte) (*article.ProcessedArticle, error) {
	var doc articleStruct
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("ingest: failed to decode converter document: %w", err)
	}

	doi := ""
	for _, identifier := range doc.Identifiers {
		if identifier.Name == "doi" {
			doi = identifier.Value
			break
		}
	}
	if doi == "" {
		return nil, fmt.Errorf("ingest: converter document carries no doi identifier")
	}

	processed := &article.ProcessedArticle{
		DOI:        doi,
		Title:      doc.Title,
		Abstract:   doc.Description,
		Content:    doc.Content,
		Authors:    doc.Authors,
		Licenses:   doc.Licenses,
		References: doc.References,
		Hash:       article.HashContent(raw),
	}

	if doc.DatePublished != nil && doc.DatePublished.Value != "" {
		date, err := parseDate(doc.DatePublished.Value)
		if err != nil {
			return nil, err
		}
		processed.Date = &date
	}

	return processed, nil
}

func parseDate(value string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if date, err := time.Parse(layout, value); err == nil {
			return date, nil
		}
	}
	return time.Time{}, fmt.Errorf("ingest: unrecognised datePublished value %q", value)
}
