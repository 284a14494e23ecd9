package fetcher

import (
	"context"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

var remotePrefixes = []string{"http://", "https://", "ftp://"}

// IsRemote reports whether source is an http(s) or ftp URL rather than a
// local path.
func IsRemote(source string) bool {
	lower := strings.ToLower(source)
	for _, p := range remotePrefixes {
		if strings.HasPrefix(lower, p) {
			return true
		}
	}
	return false
}

// Ext returns the lowercased file extension of a local path or URL path,
// ignoring any query string.
func Ext(source string) string {
	if IsRemote(source) {
		if u, err := url.Parse(source); err == nil {
			return strings.ToLower(path.Ext(u.Path))
		}
	}
	return strings.ToLower(filepath.Ext(source))
}

// Localize returns a local path for source. Local paths are checked for
// existence and returned as-is; remote sources are downloaded into tempDir
// once, keeping the URL's base name so the extension still identifies the
// format.
func Localize(ctx context.Context, f Fetcher, source, tempDir string) (string, error) {
	if !IsRemote(source) {
		if _, err := os.Stat(source); err != nil {
			return "", eris.Wrapf(err, "fetcher: stat %s", source)
		}
		return source, nil
	}
	if f == nil {
		return "", eris.Errorf("fetcher: no downloader configured for %s", source)
	}

	u, err := url.Parse(source)
	if err != nil {
		return "", eris.Wrapf(err, "fetcher: parse url %s", source)
	}
	name := path.Base(u.Path)
	if name == "" || name == "/" || name == "." {
		name = "download"
	}

	if err := os.MkdirAll(tempDir, 0o755); err != nil {
		return "", eris.Wrap(err, "fetcher: create temp dir")
	}
	dir, err := os.MkdirTemp(tempDir, "src-")
	if err != nil {
		return "", eris.Wrap(err, "fetcher: create download dir")
	}
	dest := filepath.Join(dir, name)

	n, err := f.DownloadToFile(ctx, source, dest)
	if err != nil {
		return "", eris.Wrapf(err, "fetcher: download %s", source)
	}
	zap.L().Info("fetcher: downloaded source",
		zap.String("url", source),
		zap.String("path", dest),
		zap.Int64("bytes", n),
	)
	return dest, nil
}
