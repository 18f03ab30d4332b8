// Copyright (c) 2026 Lectern. All rights reserved.
// Author: dev@lectern.pub

package content_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lectern-pub/lectern/internal/content"
)

/*
TestContent_UnmarshalJSON decodes the three wire shapes a node may take.
*/
func TestContent_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want content.Content
	}{
		{
			name: "bare_string",
			in:   `"cell biology"`,
			want: content.Textual("cell biology"),
		},
		{
			name: "sequence",
			in:   `["a", "b"]`,
			want: content.Seq(content.Textual("a"), content.Textual("b")),
		},
		{
			name: "paragraph",
			in:   `{"type": "paragraph", "content": "hello"}`,
			want: content.Paragraph(content.Textual("hello")),
		},
		{
			name: "heading_with_depth",
			in:   `{"type": "heading", "depth": 2, "id": "s1", "content": "Results"}`,
			want: content.Heading(2, "s1", content.Textual("Results")),
		},
		{
			name: "ordered_list",
			in:   `{"type": "list", "order": "ascending", "items": ["x"]}`,
			want: content.Content{
				Kind:    content.KindList,
				Ordered: true,
				Items:   []content.Content{content.Textual("x")},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got content.Content
			require.NoError(t, json.Unmarshal([]byte(tt.in), &got))
			assert.Equal(t, tt.want, got)
		})
	}
}

/*
TestContent_UnmarshalJSON_Invalid rejects malformed nodes.
*/
func TestContent_UnmarshalJSON_Invalid(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"missing_discriminator", `{"content": "x"}`},
		{"empty", ``},
		{"bad_child", `{"type": "paragraph", "content": {"no": "type"}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got content.Content
			assert.Error(t, json.Unmarshal([]byte(tt.in), &got))
		})
	}
}

/*
TestContent_MarshalJSON verifies nodes re-encode into their wire shape.
*/
func TestContent_MarshalJSON(t *testing.T) {
	node := content.Seq(
		content.Heading(1, "title", content.Textual("A study")),
		content.Paragraph(content.Seq(
			content.Textual("See "),
			content.Content{Kind: content.KindCite, Target: "ref1", Child: ptr(content.Textual("Smith 2020"))},
		)),
	)

	raw, err := json.Marshal(node)
	require.NoError(t, err)

	var back content.Content
	require.NoError(t, json.Unmarshal(raw, &back))
	assert.Equal(t, node, back)
}

/*
TestRender covers the HTML fragment renderer.
*/
func TestRender(t *testing.T) {
	tests := []struct {
		name string
		in   content.Content
		want string
	}{
		{
			name: "escapes_text",
			in:   content.Textual("a < b"),
			want: "a &lt; b",
		},
		{
			name: "paragraph",
			in:   content.Paragraph(content.Textual("hi")),
			want: "<p>hi</p>",
		},
		{
			name: "heading_with_id",
			in:   content.Heading(2, "s1", content.Textual("Methods")),
			want: `<h2 id="s1">Methods</h2>`,
		},
		{
			name: "heading_depth_clamped",
			in:   content.Heading(9, "", content.Textual("x")),
			want: "<h1>x</h1>",
		},
		{
			name: "link",
			in:   content.Content{Kind: content.KindLink, Href: "https://example.org", Child: ptr(content.Textual("here"))},
			want: `<a href="https://example.org">here</a>`,
		},
		{
			name: "cite_group",
			in: content.Content{Kind: content.KindCiteGroup, Items: []content.Content{
				{Kind: content.KindCite, Target: "r1", Child: ptr(content.Textual("A"))},
				{Kind: content.KindCite, Target: "r2", Child: ptr(content.Textual("B"))},
			}},
			want: `(<a href="#r1">A</a>; <a href="#r2">B</a>)`,
		},
		{
			name: "unordered_list",
			in: content.Content{Kind: content.KindList, Items: []content.Content{
				{Kind: content.KindListItem, Child: ptr(content.Textual("one"))},
			}},
			want: "<ul><li>one</li></ul>",
		},
		{
			name: "figure_with_caption",
			in: content.Content{
				Kind:    content.KindFigure,
				ID:      "fig1",
				Label:   "Figure 1",
				Child:   ptr(content.Content{Kind: content.KindImage, ContentURL: "img.png"}),
				Caption: ptr(content.Textual("A caption")),
			},
			want: `<figure id="fig1"><img src="img.png"><figcaption><label>Figure 1</label>A caption</figcaption></figure>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, content.Render(tt.in))
		})
	}
}

/*
TestText flattens markup to plain text.
*/
func TestText(t *testing.T) {
	node := content.Seq(
		content.Content{Kind: content.KindStrong, Child: ptr(content.Textual("Bold"))},
		content.Textual(" and plain"),
	)
	assert.Equal(t, "Bold and plain", content.Text(node))
}

func ptr(c content.Content) *content.Content { return &c }
