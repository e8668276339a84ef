package api

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"
)

var errNoJobText = errors.New("no readable job posting text")

// fetchJobPosting downloads a job posting page and extracts its text
// content. Postings shorter than a plausible job ad are rejected.
func fetchJobPosting(rawURL string) (string, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return "", errors.New("invalid job posting url")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", "ResAI/1.0")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		log.Printf("[JobPosting] Fetch failed for %s: %v", rawURL, err)
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Printf("[JobPosting] Fetch returned %d for %s", resp.StatusCode, rawURL)
		return "", errNoJobText
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20)) // limit 1 MB
	if err != nil {
		return "", err
	}

	if article, err := readability.FromReader(bytes.NewReader(body), parsed); err == nil {
		if text := collapseWhitespace(article.TextContent); len(text) >= 100 {
			return text, nil
		}
	}

	// Readability struggles with some job boards; fall back to stripping
	// boilerplate ourselves.
	text := collapseWhitespace(extractVisibleText(string(body)))
	if len(text) < 100 {
		return "", errNoJobText
	}
	return text, nil
}

// extractVisibleText pulls the visible text out of HTML, dropping
// navigation and other non-content elements.
func extractVisibleText(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}
	doc.Find("header, nav, footer, aside, script, style, noscript, svg, menu, form").Each(func(_ int, s *goquery.Selection) {
		s.Remove()
	})

	var builder strings.Builder
	const contentSelector = "article, main, section, p, li"
	doc.Find(contentSelector).Each(func(_ int, s *goquery.Selection) {
		// Only top-most matches; a container's text already includes
		// its nested paragraphs.
		if s.ParentsFiltered(contentSelector).Length() > 0 {
			return
		}
		text := strings.TrimSpace(s.Text())
		if len(text) > 0 {
			builder.WriteString(text)
			builder.WriteString(" ")
		}
	})
	return builder.String()
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
