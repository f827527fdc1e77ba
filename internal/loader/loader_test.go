package loader

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/weftkit/weft/pkg/template"
)

func TestLoadMarkup_InMemoryWinsOverFS(t *testing.T) {
	l := New(template.NewLoaderOptions(
		template.WithTemplates(map[string]string{"page.html": "from map"}),
		template.WithFS(fstest.MapFS{"page.html": {Data: []byte("from fs")}}),
	))

	got, err := l.LoadMarkup("page.html")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got != "from map" {
		t.Fatalf("got %q, want %q", got, "from map")
	}
}

func TestLoadMarkup_AppendsExtension(t *testing.T) {
	l := New(template.NewLoaderOptions(
		template.WithExtension(".html"),
		template.WithFS(fstest.MapFS{"page.html": {Data: []byte("<main/>")}}),
	))

	got, err := l.LoadMarkup("page")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got != "<main/>" {
		t.Fatalf("got %q", got)
	}
}

func TestLoadMarkup_ExtensionNotDuplicated(t *testing.T) {
	l := New(template.NewLoaderOptions(
		template.WithExtension(".html"),
		template.WithTemplates(map[string]string{"page.html": "x"}),
	))

	if _, err := l.LoadMarkup("page.html"); err != nil {
		t.Fatalf("load: %v", err)
	}
}

func TestLoadMarkup_BaseDir(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "page.html"), []byte("on disk"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	l := New(template.NewLoaderOptions(
		template.WithBaseDir(dir),
		template.WithExtension(".html"),
	))

	got, err := l.LoadMarkup("page")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got != "on disk" {
		t.Fatalf("got %q", got)
	}
}

func TestLoadMarkup_MissingIsErrNotFound(t *testing.T) {
	l := New(template.NewLoaderOptions(
		template.WithTemplates(map[string]string{}),
	))

	_, err := l.LoadMarkup("nope")
	if !errors.Is(err, template.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestLoadMarkup_EmptyNameIsErrNotFound(t *testing.T) {
	l := New(template.NewLoaderOptions())

	_, err := l.LoadMarkup("")
	if !errors.Is(err, template.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestLoadMarkup_HTTPDisabledByDefault(t *testing.T) {
	l := New(template.NewLoaderOptions())

	_, err := l.LoadMarkup("https://example.com/page.html")
	if !errors.Is(err, template.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestLoadMarkup_HTTPFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/page" {
			w.Write([]byte("remote"))
			return
		}
		http.NotFound(w, r)
	}))
	defer srv.Close()

	l := New(template.NewLoaderOptions(template.WithHTTPFallback(true)))

	got, err := l.LoadMarkup(srv.URL + "/page")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got != "remote" {
		t.Fatalf("got %q", got)
	}

	_, err = l.LoadMarkup(srv.URL + "/missing")
	if !errors.Is(err, template.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for 404, got %v", err)
	}
}
