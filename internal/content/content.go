// Copyright (c) 2026 Lectern. All rights reserved.
// Author: dev@lectern.pub

// Package content defines the recursive document model used for article
// titles, abstracts, and body text, together with its JSON codec.
//
// A Content value is one of three shapes on the wire: a bare JSON string,
// an array of Content, or an object carrying a "type" discriminator. The
// tree is finite and immutable once decoded from converter output.
package content

import (
	"encoding/json"
	"fmt"
)

// Kind discriminates the node variants of the content model.
type Kind string

const (
	KindText        Kind = "text"
	KindSequence    Kind = "sequence"
	KindParagraph   Kind = "paragraph"
	KindHeading     Kind = "heading"
	KindStrong      Kind = "strong"
	KindEmphasis    Kind = "emphasis"
	KindSuperscript Kind = "superscript"
	KindSubscript   Kind = "subscript"
	KindLink        Kind = "link"
	KindCite        Kind = "cite"
	KindCiteGroup   Kind = "cite-group"
	KindFigure      Kind = "figure"
	KindImage       Kind = "imageObject"
	KindList        Kind = "list"
	KindListItem    Kind = "list-item"
	KindClaim       Kind = "claim"
	KindDate        Kind = "date"

	// Opaque kinds: carried through and rendered as-is, never inspected.
	KindTable Kind = "table"
	KindCode  Kind = "code"
)

// Content is a single node of the document tree.
//
// Only the fields relevant to its Kind are populated; the codec enforces
// which fields appear on the wire for each variant.
type Content struct {
	Kind Kind

	// Text holds the literal for KindText, KindDate and the opaque kinds.
	Text string

	// Items holds sequence children, list items, and cite-group members.
	Items []Content

	// Child is the nested "content" of wrapper kinds (paragraph, heading,
	// strong, emphasis, link, cite, figure, claim, list-item, ...).
	Child *Content

	// Depth is the heading level (1-based).
	Depth int

	// ID is the anchor identifier of headings, cites, and figures.
	ID string

	// Target is the reference id a cite points at; Href is a link URL.
	Target string
	Href   string

	// Caption and Label describe figures; Title labels claims.
	Caption *Content
	Label   string
	Title   *Content

	// ContentURL is the source of an image object.
	ContentURL string

	// Ordered marks ascending lists (false = unordered).
	Ordered bool
}

// Textual returns a plain text node.
func Textual(s string) Content { return Content{Kind: KindText, Text: s} }

// Seq returns a sequence node wrapping the given children.
func Seq(items ...Content) Content { return Content{Kind: KindSequence, Items: items} }

// Paragraph wraps child content in a paragraph node.
func Paragraph(child Content) Content { return Content{Kind: KindParagraph, Child: &child} }

// Heading builds a heading node of the given depth.
func Heading(depth int, id string, child Content) Content {
	return Content{Kind: KindHeading, Depth: depth, ID: id, Child: &child}
}

// IsZero reports whether the node is the empty value (no content at all).
func (c Content) IsZero() bool {
	return c.Kind == "" && c.Text == "" && len(c.Items) == 0 && c.Child == nil
}

// wireNode is the object form of a node on the wire.
type wireNode struct {
	Type       Kind              `json:"type"`
	Content    json.RawMessage   `json:"content,omitempty"`
	Items      []json.RawMessage `json:"items,omitempty"`
	Depth      int               `json:"depth,omitempty"`
	ID         string            `json:"id,omitempty"`
	Target     string            `json:"target,omitempty"`
	Href       string            `json:"href,omitempty"`
	Caption    json.RawMessage   `json:"caption,omitempty"`
	Label      string            `json:"label,omitempty"`
	Title      json.RawMessage   `json:"title,omitempty"`
	ContentURL string            `json:"contentUrl,omitempty"`
	Order      string            `json:"order,omitempty"`
	Text       string            `json:"text,omitempty"`
}

// MarshalJSON encodes the node in its wire shape.
func (c Content) MarshalJSON() ([]byte, error) {
	switch c.Kind {
	case KindText, "":
		return json.Marshal(c.Text)
	case KindSequence:
		if c.Items == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(c.Items)
	}

	node := wireNode{
		Type:       c.Kind,
		Depth:      c.Depth,
		ID:         c.ID,
		Target:     c.Target,
		Href:       c.Href,
		Label:      c.Label,
		ContentURL: c.ContentURL,
	}

	if c.Child != nil {
		raw, err := json.Marshal(*c.Child)
		if err != nil {
			return nil, err
		}
		node.Content = raw
	}
	if c.Caption != nil {
		raw, err := json.Marshal(*c.Caption)
		if err != nil {
			return nil, err
		}
		node.Caption = raw
	}
	if c.Title != nil {
		raw, err := json.Marshal(*c.Title)
		if err != nil {
			return nil, err
		}
		node.Title = raw
	}
	for _, item := range c.Items {
		raw, err := json.Marshal(item)
		if err != nil {
			return nil, err
		}
		node.Items = append(node.Items, raw)
	}

	switch c.Kind {
	case KindList:
		if c.Ordered {
			node.Order = "ascending"
		} else {
			node.Order = "unordered"
		}
	case KindDate, KindTable, KindCode:
		node.Text = c.Text
	}

	return json.Marshal(node)
}

// UnmarshalJSON decodes a string, array, or discriminated object.
func (c *Content) UnmarshalJSON(data []byte) error {
	if len(data) == 0 {
		return fmt.Errorf("content: empty input")
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*c = Textual(s)
		return nil

	case '[':
		var items []Content
		if err := json.Unmarshal(data, &items); err != nil {
			return err
		}
		*c = Content{Kind: KindSequence, Items: items}
		return nil
	}

	var node wireNode
	if err := json.Unmarshal(data, &node); err != nil {
		return err
	}
	if node.Type == "" {
		return fmt.Errorf("content: object node missing type discriminator")
	}

	out := Content{
		Kind:       node.Type,
		Depth:      node.Depth,
		ID:         node.ID,
		Target:     node.Target,
		Href:       node.Href,
		Label:      node.Label,
		ContentURL: node.ContentURL,
		Text:       node.Text,
		Ordered:    node.Order == "ascending",
	}

	if len(node.Content) > 0 {
		child := &Content{}
		if err := json.Unmarshal(node.Content, child); err != nil {
			return fmt.Errorf("content: %s node: %w", node.Type, err)
		}
		out.Child = child
	}
	if len(node.Caption) > 0 {
		caption := &Content{}
		if err := json.Unmarshal(node.Caption, caption); err != nil {
			return fmt.Errorf("content: figure caption: %w", err)
		}
		out.Caption = caption
	}
	if len(node.Title) > 0 {
		title := &Content{}
		if err := json.Unmarshal(node.Title, title); err != nil {
			return fmt.Errorf("content: claim title: %w", err)
		}
		out.Title = title
	}
	for i, raw := range node.Items {
		var item Content
		if err := json.Unmarshal(raw, &item); err != nil {
			return fmt.Errorf("content: %s item %d: %w", node.Type, i, err)
		}
		out.Items = append(out.Items, item)
	}

	*c = out
	return nil
}
