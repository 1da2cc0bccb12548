package ingest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

const exportFixture = `title,url,media_name,publish_date,text
"Mali signs trade accord",https://news.example/mali-accord,Daily Nation,2025-08-20 09:15:00.000000,
"Broken date row",https://news.example/broken-date,The Citizen,not-a-date,
"No URL row",,Daily Nation,2025-08-21 10:00:00.000000,
"Preloaded row",https://news.example/preloaded,Vanguard,2025-08-21,Already has text
`

func TestCSVSourceLoadFromFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "export.csv")
	if err := os.WriteFile(path, []byte(exportFixture), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	source := NewCSVSource(path, nil, nil)
	articles, err := source.Load(context.Background())
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	if len(articles) != 3 {
		t.Fatalf("expected 3 articles (row without URL dropped), got %d", len(articles))
	}

	first := articles[0]
	if first.Headline != "Mali signs trade accord" {
		t.Fatalf("title column must map to headline, got %q", first.Headline)
	}
	if first.SourceName != "Daily Nation" {
		t.Fatalf("media_name column must map to source_name, got %q", first.SourceName)
	}
	if first.DatePublished == nil || first.DatePublished.Format("2006-01-02") != "2025-08-20" {
		t.Fatalf("unexpected date: %v", first.DatePublished)
	}
	if !first.NeedsText() {
		t.Fatal("blank text cell must leave the article needing a snippet")
	}

	if articles[1].DatePublished != nil {
		t.Fatalf("unparseable date must coerce to nil, got %v", articles[1].DatePublished)
	}

	if articles[2].Text != "Already has text" {
		t.Fatalf("unexpected text: %q", articles[2].Text)
	}
}

func TestCSVSourceLoadFromURL(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(exportFixture))
	}))
	defer server.Close()

	source := NewCSVSource(server.URL+"/export.csv", server.Client(), nil)
	articles, err := source.Load(context.Background())
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if len(articles) != 3 {
		t.Fatalf("expected 3 articles, got %d", len(articles))
	}
}

func TestCSVSourceMediaNames(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "export.csv")
	if err := os.WriteFile(path, []byte(exportFixture), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	source := NewCSVSource(path, nil, nil)
	names, err := source.MediaNames(context.Background())
	if err != nil {
		t.Fatalf("MediaNames error: %v", err)
	}

	want := []string{"Daily Nation", "The Citizen", "Vanguard"}
	if !reflect.DeepEqual(names, want) {
		t.Fatalf("expected sorted unique names %v, got %v", want, names)
	}
}

func TestCSVSourceMissingURLColumn(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "export.csv")
	if err := os.WriteFile(path, []byte("title,media_name\nA,B\n"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	source := NewCSVSource(path, nil, nil)
	if _, err := source.Load(context.Background()); err == nil {
		t.Fatal("expected error for export without url column")
	}
}
