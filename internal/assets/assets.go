// =============================================================================
// ojsconvert - Asset Resolver
// =============================================================================
//
// All blocking I/O for binary assets (article PDFs, cover images) happens
// here, in a resolution pass that runs before document building. The
// document builder then consumes already-fetched bytes or pre-computed
// URLs, which keeps it pure and testable.
//
// MODES (mutually exclusive, selected by configuration, never auto-detected):
//   href         - src = base location + filename; no bytes are fetched
//   embed-local  - read bytes from a local folder for base64 embedding
//   embed-remote - HTTP GET base location + filename for base64 embedding
//
// There is no retry or timeout policy: a failed fetch is fatal and aborts
// the run.
//
// =============================================================================

package assets

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
)

// Mode selects how assets are materialized.
type Mode string

const (
	ModeHref        Mode = "href"
	ModeEmbedLocal  Mode = "embed-local"
	ModeEmbedRemote Mode = "embed-remote"
)

// Valid reports whether the mode is one of the three supported values.
func (m Mode) Valid() bool {
	switch m {
	case ModeHref, ModeEmbedLocal, ModeEmbedRemote:
		return true
	}
	return false
}

// Resolved is one materialized asset. Href is set in href mode, Data in
// either embed mode.
type Resolved struct {
	Href string
	Data []byte
}

// RemoteFetchError reports a failed remote asset fetch. Fatal; the run
// terminates without output.
type RemoteFetchError struct {
	URL    string
	Status int
	Err    error
}

func (e *RemoteFetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
	}
	return fmt.Sprintf("fetch %s: unexpected status %d", e.URL, e.Status)
}

func (e *RemoteFetchError) Unwrap() error { return e.Err }

// Resolver materializes assets for one run.
type Resolver struct {
	// Mode selects href, embed-local or embed-remote behavior.
	Mode Mode

	// BaseLocation is the URL prefix concatenated with each filename in
	// href and embed-remote modes.
	BaseLocation string

	// Folder is the local directory read in embed-local mode.
	Folder string

	// Client is the HTTP client used in embed-remote mode. Defaults to
	// http.DefaultClient.
	Client *http.Client
}

// Resolve materializes every named asset. Filenames may repeat; each is
// resolved once. Fetches are sequential blocking calls and any failure
// aborts the whole resolution.
func (r *Resolver) Resolve(ctx context.Context, filenames []string) (map[string]Resolved, error) {
	resolved := make(map[string]Resolved, len(filenames))
	for _, name := range filenames {
		if name == "" {
			continue
		}
		if _, done := resolved[name]; done {
			continue
		}
		asset, err := r.resolveOne(ctx, name)
		if err != nil {
			return nil, err
		}
		resolved[name] = asset
	}
	return resolved, nil
}

func (r *Resolver) resolveOne(ctx context.Context, name string) (Resolved, error) {
	switch r.Mode {
	case ModeHref:
		return Resolved{Href: r.BaseLocation + name}, nil

	case ModeEmbedLocal:
		data, err := os.ReadFile(filepath.Join(r.Folder, name))
		if err != nil {
			return Resolved{}, fmt.Errorf("read asset %s: %w", name, err)
		}
		return Resolved{Data: data}, nil

	case ModeEmbedRemote:
		return r.fetch(ctx, r.BaseLocation+name)

	default:
		return Resolved{}, fmt.Errorf("unknown asset mode %q", r.Mode)
	}
}

// fetch performs one blocking GET. Non-2xx responses surface as
// RemoteFetchError.
func (r *Resolver) fetch(ctx context.Context, url string) (Resolved, error) {
	client := r.Client
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Resolved{}, &RemoteFetchError{URL: url, Err: err}
	}

	resp, err := client.Do(req)
	if err != nil {
		return Resolved{}, &RemoteFetchError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Resolved{}, &RemoteFetchError{URL: url, Status: resp.StatusCode}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return Resolved{}, &RemoteFetchError{URL: url, Err: err}
	}
	return Resolved{Data: data}, nil
}
