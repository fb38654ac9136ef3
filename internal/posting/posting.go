// Package posting extracts the plain text of job postings.
package posting

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Format is the markup of a posting description.
type Format string

const (
	FormatText Format = "text"
	FormatHTML Format = "html"
)

// Posting is a job posting reduced to what skill detection reads.
type Posting struct {
	Title       string `json:"title" yaml:"title" mapstructure:"title"`
	Description string `json:"description" yaml:"description" mapstructure:"description"`
}

// New builds a posting from a raw description in the given format.
func New(title, description string, format Format) (*Posting, error) {
	switch format {
	case "", FormatText:
	case FormatHTML:
		text, err := FromHTML(description)
		if err != nil {
			return nil, err
		}
		description = text
	default:
		return nil, fmt.Errorf("unknown posting format %q", format)
	}

	return &Posting{
		Title:       strings.TrimSpace(title),
		Description: strings.TrimSpace(description),
	}, nil
}

// AppendParagraph adds text as a final paragraph of the description.
func (p *Posting) AppendParagraph(text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	if p.Description == "" {
		p.Description = text
		return
	}
	p.Description += "\n\n" + text
}

var blockElements = map[string]bool{
	"p": true, "div": true, "li": true, "ul": true, "ol": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"br": true, "tr": true, "td": true, "th": true, "table": true, "section": true, "article": true,
	"blockquote": true, "pre": true,
}

// FromHTML converts an HTML description into plain text. Block elements
// become paragraphs separated by a blank line and whitespace inside a
// paragraph is collapsed to single spaces.
func FromHTML(raw string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	if err != nil {
		return "", fmt.Errorf("parse posting html: %w", err)
	}

	doc.Find("script, style").Remove()

	var (
		paragraphs []string
		current    strings.Builder
	)
	flush := func() {
		if text := cleanText(current.String()); text != "" {
			paragraphs = append(paragraphs, text)
		}
		current.Reset()
	}

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			current.WriteString(n.Data)
			return
		case html.ElementNode:
			if blockElements[n.Data] {
				flush()
				defer flush()
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	for _, n := range doc.Find("body").Nodes {
		walk(n)
	}
	flush()

	return strings.Join(paragraphs, "\n\n"), nil
}

func cleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
