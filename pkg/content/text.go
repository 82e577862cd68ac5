// Package content flattens the markup that rides along with speech bodies.
// Riksdagen stores speech text as HTML paragraphs inside the XML leaf
// document; archival sources occasionally serve a full HTML page where an
// XML document was expected.
package content

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"
)

// PlainText strips inline HTML from a speech body, joining paragraph text
// with single spaces. Bodies without markup pass through untouched.
func PlainText(body string) (string, error) {
	body = strings.TrimSpace(body)
	if !strings.Contains(body, "<") {
		return body, nil
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("parse speech markup: %w", err)
	}

	var parts []string
	doc.Find("p").Each(func(_ int, s *goquery.Selection) {
		if t := strings.TrimSpace(s.Text()); t != "" {
			parts = append(parts, t)
		}
	})
	if len(parts) > 0 {
		return strings.Join(parts, " "), nil
	}

	// No paragraph structure; take all visible text.
	return collapseSpace(doc.Text()), nil
}

// MainText extracts the main readable text from a full HTML page. Used as a
// fallback when a detail endpoint serves HTML instead of the XML leaf.
func MainText(page string) (string, error) {
	article, err := readability.FromReader(strings.NewReader(page), nil)
	if err != nil {
		return "", fmt.Errorf("extract page text: %w", err)
	}
	text := strings.TrimSpace(article.TextContent)
	if text == "" {
		return "", fmt.Errorf("page contained no readable text")
	}
	return collapseSpace(text), nil
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
