package scraper

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-shiori/go-readability"
	"github.com/xhad/websum/internal/models"
	"golang.org/x/time/rate"
)

const (
	ModeBody        = "body"
	ModeReadability = "readability"

	defaultUserAgent = "Mozilla/5.0 (compatible; websum/1.0)"
)

// Elements removed from <body> before text is extracted.
var irrelevantSelector = "script, style, img, input"

type ScraperConfig struct {
	Timeout   time.Duration
	RateLimit float64 // requests per second, 0 disables throttling
	Mode      string
	UserAgent string
	Client    *http.Client
	Logger    *slog.Logger
}

type Scraper struct {
	config  ScraperConfig
	client  *http.Client
	limiter *rate.Limiter
	log     *slog.Logger
}

func NewWithConfig(config ScraperConfig) (*Scraper, error) {
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}
	if config.Mode == "" {
		config.Mode = ModeBody
	}
	if config.Mode != ModeBody && config.Mode != ModeReadability {
		return nil, fmt.Errorf("unknown extraction mode %q", config.Mode)
	}
	if config.RateLimit < 0 {
		return nil, fmt.Errorf("rate limit cannot be negative")
	}
	if config.UserAgent == "" {
		config.UserAgent = defaultUserAgent
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}

	client := config.Client
	if client == nil {
		client = &http.Client{Timeout: config.Timeout}
	}

	s := &Scraper{
		config: config,
		client: client,
		log:    config.Logger,
	}
	if config.RateLimit > 0 {
		s.limiter = rate.NewLimiter(rate.Limit(config.RateLimit), 1)
	}
	return s, nil
}

func New() *Scraper {
	s, _ := NewWithConfig(ScraperConfig{})
	return s
}

// ValidateURL reports whether rawURL is an absolute http(s) URL with a host.
func ValidateURL(rawURL string) (*url.URL, error) {
	if strings.TrimSpace(rawURL) != rawURL || rawURL == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidURL, rawURL)
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("%w: unsupported scheme %q", ErrInvalidURL, u.Scheme)
	}
	if u.Hostname() == "" || strings.ContainsAny(u.Host, " \t") {
		return nil, fmt.Errorf("%w: missing host in %q", ErrInvalidURL, rawURL)
	}
	return u, nil
}

// Load fetches rawURL and returns its title and cleaned text.
func (s *Scraper) Load(ctx context.Context, rawURL string) (models.PageContent, error) {
	pageURL, err := ValidateURL(rawURL)
	if err != nil {
		return models.PageContent{}, err
	}

	if s.limiter != nil {
		if err := s.limiter.Wait(ctx); err != nil {
			return models.PageContent{}, fmt.Errorf("%w: %v", ErrFetch, err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return models.PageContent{}, fmt.Errorf("%w: create request: %v", ErrFetch, err)
	}
	req.Header.Set("User-Agent", s.config.UserAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return models.PageContent{}, fmt.Errorf("%w: %w", ErrFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return models.PageContent{}, fmt.Errorf("%w: received status code %d for URL: %s", ErrFetch, resp.StatusCode, rawURL)
	}

	var page models.PageContent
	switch s.config.Mode {
	case ModeReadability:
		page, err = extractReadable(resp.Body, pageURL)
	default:
		page, err = extractBody(resp.Body)
	}
	if err != nil {
		return models.PageContent{}, fmt.Errorf("%w: %w", ErrFetch, err)
	}
	page.URL = rawURL

	s.log.Debug("page loaded",
		"url", rawURL,
		"title", page.Title,
		"chars", len(page.Text),
	)
	return page, nil
}

func extractBody(r io.Reader) (models.PageContent, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return models.PageContent{}, fmt.Errorf("parse html: %w", err)
	}

	page := models.PageContent{Title: strings.TrimSpace(doc.Find("title").First().Text())}
	if page.Title == "" {
		page.Title = models.NoTitle
	}

	body := doc.Find("body")
	body.Find(irrelevantSelector).Remove()

	var lines []string
	body.Contents().Each(func(_ int, sel *goquery.Selection) {
		lines = collectText(sel, lines)
	})
	page.Text = strings.Join(lines, "\n")
	return page, nil
}

// collectText walks the subtree in document order appending every
// non-blank text node, trimmed.
func collectText(sel *goquery.Selection, lines []string) []string {
	if goquery.NodeName(sel) == "#text" {
		if t := strings.TrimSpace(sel.Text()); t != "" {
			lines = append(lines, t)
		}
		return lines
	}
	sel.Contents().Each(func(_ int, child *goquery.Selection) {
		lines = collectText(child, lines)
	})
	return lines
}

func extractReadable(r io.Reader, pageURL *url.URL) (models.PageContent, error) {
	article, err := readability.FromReader(r, pageURL)
	if err != nil {
		return models.PageContent{}, fmt.Errorf("parse content: %w", err)
	}

	page := models.PageContent{Title: strings.TrimSpace(article.Title)}
	if page.Title == "" {
		page.Title = models.NoTitle
	}

	var lines []string
	for _, line := range strings.Split(article.TextContent, "\n") {
		if t := strings.TrimSpace(line); t != "" {
			lines = append(lines, t)
		}
	}
	page.Text = strings.Join(lines, "\n")
	return page, nil
}
