package assets

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
)

func TestModeValid(t *testing.T) {
	tests := []struct {
		mode Mode
		want bool
	}{
		{ModeHref, true},
		{ModeEmbedLocal, true},
		{ModeEmbedRemote, true},
		{Mode("embed"), false},
		{Mode(""), false},
	}
	for _, tt := range tests {
		if got := tt.mode.Valid(); got != tt.want {
			t.Errorf("Mode(%q).Valid() = %v, want %v", tt.mode, got, tt.want)
		}
	}
}

func TestResolveHref(t *testing.T) {
	r := &Resolver{Mode: ModeHref, BaseLocation: "http://assets.example.org/pdf/"}

	resolved, err := r.Resolve(context.Background(), []string{"organ.pdf", "valve.pdf"})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if got := resolved["organ.pdf"].Href; got != "http://assets.example.org/pdf/organ.pdf" {
		t.Errorf("href = %q", got)
	}
	if len(resolved["organ.pdf"].Data) != 0 {
		t.Error("href mode must not fetch bytes")
	}
}

func TestResolveEmbedLocal(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "organ.pdf"), []byte("%PDF"), 0o644); err != nil {
		t.Fatal(err)
	}

	r := &Resolver{Mode: ModeEmbedLocal, Folder: dir}
	resolved, err := r.Resolve(context.Background(), []string{"organ.pdf"})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if got := string(resolved["organ.pdf"].Data); got != "%PDF" {
		t.Errorf("data = %q, want file bytes", got)
	}
}

func TestResolveEmbedLocalMissingFile(t *testing.T) {
	r := &Resolver{Mode: ModeEmbedLocal, Folder: t.TempDir()}
	if _, err := r.Resolve(context.Background(), []string{"nope.pdf"}); err == nil {
		t.Error("missing local asset should abort resolution")
	}
}

func TestResolveEmbedRemote(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		hits.Add(1)
		if req.URL.Path != "/pdf/organ.pdf" {
			http.NotFound(w, req)
			return
		}
		w.Write([]byte("%PDF"))
	}))
	defer server.Close()

	r := &Resolver{Mode: ModeEmbedRemote, BaseLocation: server.URL + "/pdf/", Client: server.Client()}
	resolved, err := r.Resolve(context.Background(), []string{"organ.pdf", "organ.pdf", ""})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if got := string(resolved["organ.pdf"].Data); got != "%PDF" {
		t.Errorf("data = %q, want fetched bytes", got)
	}
	if got := hits.Load(); got != 1 {
		t.Errorf("fetch count = %d, want repeated and empty names skipped", got)
	}
}

func TestResolveEmbedRemoteNotFound(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	defer server.Close()

	r := &Resolver{Mode: ModeEmbedRemote, BaseLocation: server.URL + "/", Client: server.Client()}
	_, err := r.Resolve(context.Background(), []string{"missing.pdf"})

	var fetchErr *RemoteFetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("error = %v, want RemoteFetchError", err)
	}
	if fetchErr.Status != http.StatusNotFound {
		t.Errorf("status = %d, want 404", fetchErr.Status)
	}
}

func TestResolveUnknownMode(t *testing.T) {
	r := &Resolver{Mode: Mode("carrier-pigeon")}
	if _, err := r.Resolve(context.Background(), []string{"organ.pdf"}); err == nil {
		t.Error("unknown mode should error")
	}
}
