package scrape

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

const programPage = `<html>
<head><title>Fallback Title Here</title></head>
<body>
<h1>School of Engineering and Technology</h1>
<h3>Bachelor of Technology in Computer Science</h3>
<li>B.Tech in Information Science</li>
<p>Apply now</p>
<p>Bachelor of Technology in Artificial Intelligence</p>
<li>Overview</li>
</body>
</html>`

func TestScrape(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(programPage))
	}))
	defer srv.Close()

	s := New(srv.Client())
	records := s.Scrape(context.Background(), []string{srv.URL})

	if len(records) != 3 {
		t.Fatalf("expected 3 records (short blocks skipped), got %d: %+v", len(records), records)
	}
	for _, rec := range records {
		if rec.Degree != "School of Engineering and Technology" {
			t.Errorf("degree = %q, want h1 text", rec.Degree)
		}
		if rec.SourceURL != srv.URL {
			t.Errorf("source_url = %q", rec.SourceURL)
		}
	}
	if records[0].Course != "Bachelor of Technology in Computer Science" {
		t.Errorf("unexpected first course %q", records[0].Course)
	}
}

func TestScrape_TitleFallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><head><title>Commerce Programs</title></head><body><p>Bachelor of Commerce Honours</p></body></html>`))
	}))
	defer srv.Close()

	records := New(srv.Client()).Scrape(context.Background(), []string{srv.URL})
	if len(records) != 1 || records[0].Degree != "Commerce Programs" {
		t.Fatalf("expected title fallback degree, got %+v", records)
	}
}

func TestScrape_FailedPageSkipped(t *testing.T) {
	good := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(programPage))
	}))
	defer good.Close()
	bad := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer bad.Close()

	records := New(nil).Scrape(context.Background(), []string{bad.URL, good.URL})
	if len(records) != 3 {
		t.Fatalf("failing page must be skipped, not fatal; got %d records", len(records))
	}
}

func TestLoadURLs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scrape_urls.json")
	if err := os.WriteFile(path, []byte(`{"urls":["https://example.edu/a","https://example.edu/b"]}`), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	urls, err := LoadURLs(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(urls) != 2 {
		t.Fatalf("expected 2 urls, got %v", urls)
	}
}

func TestLoadURLs_Empty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scrape_urls.json")
	os.WriteFile(path, []byte(`{"urls":[]}`), 0o644)
	if _, err := LoadURLs(path); err == nil {
		t.Fatal("expected error for empty url list")
	}
}
