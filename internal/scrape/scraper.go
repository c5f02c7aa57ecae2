// Package scrape builds the course catalog from university program pages.
// It is a one-shot crawl: per-page failures are logged and skipped, and no
// retry or schema validation is attempted.
package scrape

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/sync/errgroup"

	"github.com/kalambet/advisor/internal/catalog"
)

const (
	defaultConcurrency = 4
	fetchTimeout       = 20 * time.Second
)

// Scraper crawls program pages and extracts course records.
type Scraper struct {
	client      *http.Client
	concurrency int
}

// New wires an HTTP client; a nil client gets a 20s-timeout default.
func New(client *http.Client) *Scraper {
	if client == nil {
		client = &http.Client{Timeout: fetchTimeout}
	}
	return &Scraper{client: client, concurrency: defaultConcurrency}
}

// urlConfig is the shape of the scrape URLs file: {"urls": [...]}.
type urlConfig struct {
	URLs []string `json:"urls"`
}

// LoadURLs reads the scrape URL list from a JSON config file.
func LoadURLs(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading url config %s: %w", path, err)
	}
	var cfg urlConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing url config %s: %w", path, err)
	}
	if len(cfg.URLs) == 0 {
		return nil, fmt.Errorf("url config %s lists no urls", path)
	}
	return cfg.URLs, nil
}

// Scrape fetches every URL concurrently (bounded) and returns the extracted
// records in input URL order. A page that fails to fetch or parse is logged
// and contributes nothing.
func (s *Scraper) Scrape(ctx context.Context, urls []string) []catalog.CourseRecord {
	perURL := make([][]catalog.CourseRecord, len(urls))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, u := range urls {
		g.Go(func() error {
			records, err := s.scrapePage(gctx, u)
			if err != nil {
				slog.Warn("scrape failed, skipping page", "url", u, "error", err)
				return nil
			}
			perURL[i] = records
			return nil
		})
	}
	g.Wait()

	var all []catalog.CourseRecord
	for _, records := range perURL {
		all = append(all, records...)
	}
	return all
}

func (s *Scraper) scrapePage(ctx context.Context, pageURL string) ([]catalog.CourseRecord, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parsing html: %w", err)
	}
	return extractCourses(doc, pageURL), nil
}

// extractCourses pulls course records out of a program page. The page h1
// (falling back to the document title) labels the degree grouping; every
// heading, list item, and paragraph with at least 3 words becomes a record.
func extractCourses(doc *goquery.Document, pageURL string) []catalog.CourseRecord {
	degree := collapse(doc.Find("h1").First().Text())
	if degree == "" {
		degree = collapse(doc.Find("title").First().Text())
	}
	if degree == "" {
		degree = "Unknown Degree"
	}

	var records []catalog.CourseRecord
	doc.Find("h3, h4, li, p").Each(func(_ int, sel *goquery.Selection) {
		text := collapse(sel.Text())
		if len(strings.Fields(text)) < 3 {
			return
		}
		records = append(records, catalog.CourseRecord{
			Degree:    degree,
			Course:    text,
			Subjects:  []string{},
			SourceURL: pageURL,
		})
	})
	return records
}

// collapse trims and normalizes internal whitespace.
func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
