// Package preview extracts title and description metadata from web
// pages, used when a copied URL is saved as an item.
package preview

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/net/html"

	"github.com/mkraev/clipsync/internal/core"
)

// maxBodyBytes caps how much of a page is read. Metadata lives in the
// head, so a generous prefix is enough.
const maxBodyBytes = 512 * 1024

// Preview is the extracted page metadata.
type Preview struct {
	URL         string `json:"url"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

// Fetcher fetches and parses page metadata over HTTP.
type Fetcher struct {
	client *http.Client
}

// NewFetcher creates a Fetcher. A nil client gets a default with a
// 10 second timeout.
func NewFetcher(client *http.Client) *Fetcher {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &Fetcher{client: client}
}

// Fetch downloads the page at url and extracts its metadata.
func (f *Fetcher) Fetch(ctx context.Context, url string) (Preview, error) {
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		return Preview{}, fmt.Errorf("url must be http or https: %w", core.ErrValidation)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Preview{}, fmt.Errorf("building request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return Preview{}, fmt.Errorf("fetching %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Preview{}, fmt.Errorf("fetching %s: unexpected status %d", url, resp.StatusCode)
	}

	p, err := Parse(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return Preview{}, err
	}
	p.URL = url
	return p, nil
}

// Parse extracts title and description from an HTML document. The
// og:title and og:description properties win over the plain <title> tag
// and description meta when both are present.
func Parse(r io.Reader) (Preview, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return Preview{}, fmt.Errorf("parsing html: %w", err)
	}

	var titleTag, ogTitle, metaDesc, ogDesc string

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "title":
				if n.FirstChild != nil && titleTag == "" {
					titleTag = strings.TrimSpace(n.FirstChild.Data)
				}
			case "meta":
				name, property, content := metaAttrs(n)
				switch {
				case property == "og:title" && ogTitle == "":
					ogTitle = content
				case property == "og:description" && ogDesc == "":
					ogDesc = content
				case name == "description" && metaDesc == "":
					metaDesc = content
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	p := Preview{Title: ogTitle, Description: ogDesc}
	if p.Title == "" {
		p.Title = titleTag
	}
	if p.Description == "" {
		p.Description = metaDesc
	}
	return p, nil
}

func metaAttrs(n *html.Node) (name, property, content string) {
	for _, attr := range n.Attr {
		switch strings.ToLower(attr.Key) {
		case "name":
			name = strings.ToLower(attr.Val)
		case "property":
			property = strings.ToLower(attr.Val)
		case "content":
			content = strings.TrimSpace(attr.Val)
		}
	}
	return name, property, content
}
