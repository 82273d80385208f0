// Package youversion looks up single verses on bible.com.
//
// A verse page embeds its data as JSON in <script id="__NEXT_DATA__">; the
// passage is props.pageProps.verses[0].content.
package youversion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/net/html"

	"github.com/FocuswithJustin/bibledraft/core/draft"
	"github.com/FocuswithJustin/bibledraft/core/encoding"
	"github.com/FocuswithJustin/bibledraft/core/errors"
)

// DefaultBaseURL is the bible.com verse page root.
const DefaultBaseURL = "https://www.bible.com/bible"

// DefaultTimeout bounds a single lookup.
const DefaultTimeout = 60 * time.Second

// maxPageSize caps how much of a page is read.
const maxPageSize = 4 << 20

// Client fetches verse pages.
type Client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides DefaultBaseURL.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimSuffix(u, "/")
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// NewClient creates a new lookup client.
func NewClient(opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		baseURL:   DefaultBaseURL,
		userAgent: "bibledraft/1.0",
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// VerseURL returns the page URL for one verse in one version.
func (c *Client) VerseURL(bookCode string, chapter, verse, versionID int) string {
	return fmt.Sprintf("%s/%d/%s.%d.%d", c.baseURL, versionID, strings.ToUpper(bookCode), chapter, verse)
}

// GetVerse fetches one verse. HTTP failures come back as a LookupResult
// carrying the status code; transport failures as a LookupError. A page
// without verse data yields an empty passage.
func (c *Client) GetVerse(ctx context.Context, bookCode string, chapter, verse, versionID int) (*draft.LookupResult, error) {
	if bookCode == "" {
		return &draft.LookupResult{Code: http.StatusBadRequest, Message: "missing book code"}, nil
	}
	if chapter < 1 || verse < 1 {
		return &draft.LookupResult{Code: http.StatusBadRequest, Message: fmt.Sprintf("invalid reference %d:%d", chapter, verse)}, nil
	}

	url := c.VerseURL(bookCode, chapter, verse, versionID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &errors.LookupError{Message: fmt.Sprintf("creating request: %v", err), Err: err}
	}

	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &errors.LookupError{Message: fmt.Sprintf("executing request: %v", err), Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return &draft.LookupResult{Code: resp.StatusCode, Message: resp.Status}, nil
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPageSize))
	if err != nil {
		return nil, &errors.LookupError{Message: fmt.Sprintf("reading response: %v", err), Err: err}
	}

	return ParsePage(body)
}

// nextData is the subset of the page payload we read.
type nextData struct {
	Props struct {
		PageProps struct {
			Verses []struct {
				Content   string `json:"content"`
				Reference struct {
					Human string `json:"human"`
				} `json:"reference"`
			} `json:"verses"`
		} `json:"pageProps"`
	} `json:"props"`
}

// ParsePage extracts the first verse from a verse page. A page without the
// payload or without verses is not an error: the passage is simply empty.
func ParsePage(page []byte) (*draft.LookupResult, error) {
	doc, err := html.Parse(bytes.NewReader(page))
	if err != nil {
		return nil, &errors.ParseError{Format: "verse page", Message: err.Error(), Err: err}
	}

	raw := findNextData(doc)
	if raw == "" {
		return &draft.LookupResult{}, nil
	}

	var data nextData
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		return nil, &errors.ParseError{Format: "verse page data", Message: err.Error(), Err: err}
	}

	verses := data.Props.PageProps.Verses
	if len(verses) == 0 {
		return &draft.LookupResult{}, nil
	}

	return &draft.LookupResult{
		Citation: verses[0].Reference.Human,
		Passage:  encoding.NormalizeSpace(verses[0].Content),
	}, nil
}

func findNextData(n *html.Node) string {
	if n.Type == html.ElementNode && n.Data == "script" && getAttr(n, "id") == "__NEXT_DATA__" {
		var sb strings.Builder
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.TextNode {
				sb.WriteString(c.Data)
			}
		}
		return sb.String()
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if s := findNextData(c); s != "" {
			return s
		}
	}
	return ""
}

func getAttr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}
