// Copyright (c) 2026 Lectern. All rights reserved.
// Author: dev@lectern.pub

package content

import (
	"fmt"
	"html"
	"strings"
)

// Render converts a content tree to an HTML fragment.
//
// The output is a display convenience for API consumers, not a full
// rendering engine: opaque kinds pass their literal text through escaped.
func Render(c Content) string {
	var b strings.Builder
	render(&b, c)
	return b.String()
}

// Text flattens a content tree to its plain text, dropping all markup.
// Used to flatten titles for log lines.
func Text(c Content) string {
	var b strings.Builder
	flatten(&b, c)
	return b.String()
}

func render(b *strings.Builder, c Content) {
	switch c.Kind {
	case KindText, "":
		b.WriteString(html.EscapeString(c.Text))

	case KindSequence:
		for _, item := range c.Items {
			render(b, item)
		}

	case KindParagraph:
		wrap(b, "p", c.Child)

	case KindHeading:
		depth := c.Depth
		if depth < 1 || depth > 6 {
			depth = 1
		}
		tag := fmt.Sprintf("h%d", depth)
		if c.ID != "" {
			fmt.Fprintf(b, `<%s id="%s">`, tag, html.EscapeString(c.ID))
		} else {
			fmt.Fprintf(b, "<%s>", tag)
		}
		renderChild(b, c.Child)
		fmt.Fprintf(b, "</%s>", tag)

	case KindStrong:
		wrap(b, "strong", c.Child)
	case KindEmphasis:
		wrap(b, "em", c.Child)
	case KindSuperscript:
		wrap(b, "sup", c.Child)
	case KindSubscript:
		wrap(b, "sub", c.Child)

	case KindLink:
		fmt.Fprintf(b, `<a href="%s">`, html.EscapeString(c.Href))
		renderChild(b, c.Child)
		b.WriteString("</a>")

	case KindCite:
		fmt.Fprintf(b, `<a href="#%s">`, html.EscapeString(c.Target))
		renderChild(b, c.Child)
		b.WriteString("</a>")

	case KindCiteGroup:
		b.WriteString("(")
		for i, item := range c.Items {
			if i > 0 {
				b.WriteString("; ")
			}
			render(b, item)
		}
		b.WriteString(")")

	case KindFigure:
		if c.ID != "" {
			fmt.Fprintf(b, `<figure id="%s">`, html.EscapeString(c.ID))
		} else {
			b.WriteString("<figure>")
		}
		renderChild(b, c.Child)
		if c.Caption != nil {
			b.WriteString("<figcaption>")
			if c.Label != "" {
				fmt.Fprintf(b, "<label>%s</label>", html.EscapeString(c.Label))
			}
			render(b, *c.Caption)
			b.WriteString("</figcaption>")
		}
		b.WriteString("</figure>")

	case KindImage:
		fmt.Fprintf(b, `<img src="%s">`, html.EscapeString(c.ContentURL))

	case KindList:
		tag := "ul"
		if c.Ordered {
			tag = "ol"
		}
		fmt.Fprintf(b, "<%s>", tag)
		for _, item := range c.Items {
			render(b, item)
		}
		fmt.Fprintf(b, "</%s>", tag)

	case KindListItem:
		wrap(b, "li", c.Child)

	case KindClaim:
		b.WriteString("<section>")
		if c.Title != nil {
			b.WriteString("<h4>")
			render(b, *c.Title)
			b.WriteString("</h4>")
		}
		renderChild(b, c.Child)
		b.WriteString("</section>")

	case KindDate:
		fmt.Fprintf(b, "<time>%s</time>", html.EscapeString(c.Text))

	default:
		// Opaque kinds (table, code, future additions): escaped literal.
		b.WriteString(html.EscapeString(c.Text))
	}
}

func renderChild(b *strings.Builder, child *Content) {
	if child != nil {
		render(b, *child)
	}
}

func wrap(b *strings.Builder, tag string, child *Content) {
	fmt.Fprintf(b, "<%s>", tag)
	renderChild(b, child)
	fmt.Fprintf(b, "</%s>", tag)
}

func flatten(b *strings.Builder, c Content) {
	switch c.Kind {
	case KindText, "", KindDate, KindTable, KindCode:
		b.WriteString(c.Text)
	case KindSequence, KindCiteGroup, KindList:
		for _, item := range c.Items {
			flatten(b, item)
		}
	default:
		if c.Child != nil {
			flatten(b, *c.Child)
		}
		if c.Caption != nil {
			flatten(b, *c.Caption)
		}
		if c.Title != nil {
			flatten(b, *c.Title)
		}
	}
}
