// Package fetcher opens the raw startup sources: local files or http(s) and
// ftp URLs, read as CSV, JSON, XLSX or ZIP archives.
package fetcher

import (
	"context"
	"io"
	"net/url"
	"strings"

	"github.com/rotisserie/eris"
)

// Fetcher defines the interface for downloading remote sources.
type Fetcher interface {
	// Download fetches the URL and returns the response body.
	Download(ctx context.Context, url string) (io.ReadCloser, error)

	// DownloadToFile fetches the URL and writes it to the given path. Returns bytes written.
	DownloadToFile(ctx context.Context, url string, path string) (int64, error)
}

// SchemeFetcher dispatches each download to the fetcher registered for the
// URL scheme.
type SchemeFetcher map[string]Fetcher

// NewSchemeFetcher routes http and https to h and ftp to f. Either may be
// nil to leave its schemes unsupported.
func NewSchemeFetcher(h *HTTPFetcher, f *FTPFetcher) SchemeFetcher {
	sf := make(SchemeFetcher)
	if h != nil {
		sf["http"] = h
		sf["https"] = h
	}
	if f != nil {
		sf["ftp"] = f
	}
	return sf
}

func (s SchemeFetcher) route(rawURL string) (Fetcher, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, eris.Wrapf(err, "fetcher: parse url %s", rawURL)
	}
	f, ok := s[strings.ToLower(u.Scheme)]
	if !ok {
		return nil, eris.Errorf("fetcher: unsupported scheme %q", u.Scheme)
	}
	return f, nil
}

// Download implements Fetcher.
func (s SchemeFetcher) Download(ctx context.Context, rawURL string) (io.ReadCloser, error) {
	f, err := s.route(rawURL)
	if err != nil {
		return nil, err
	}
	return f.Download(ctx, rawURL)
}

// DownloadToFile implements Fetcher.
func (s SchemeFetcher) DownloadToFile(ctx context.Context, rawURL string, path string) (int64, error) {
	f, err := s.route(rawURL)
	if err != nil {
		return 0, err
	}
	return f.DownloadToFile(ctx, rawURL, path)
}
