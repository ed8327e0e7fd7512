// Package fetch downloads and unpacks source archives.
package fetch

import (
	"context"
	"encoding/hex"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/zeebo/blake3"
	"go.trai.ch/libprov/internal/core/domain"
	"go.trai.ch/zerr"
)

const httpClientTimeout = 10 * time.Minute

// Downloader implements ports.Downloader over HTTP.
type Downloader struct {
	httpClient *http.Client
}

// NewDownloader creates a Downloader with a bounded client timeout.
func NewDownloader() *Downloader {
	return NewDownloaderWithClient(&http.Client{Timeout: httpClientTimeout})
}

// NewDownloaderWithClient creates a Downloader using client.
func NewDownloaderWithClient(client *http.Client) *Downloader {
	return &Downloader{httpClient: client}
}

// Download fetches url into dst and returns the hex BLAKE3 digest of the body.
// dst only appears once the whole body has been received.
func (d *Downloader) Download(ctx context.Context, url, dst string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return "", zerr.With(zerr.Wrap(err, "failed to build download request"), "url", url)
	}

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return "", zerr.With(zerr.Wrap(err, "download request failed"), "url", url)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		statusErr := zerr.With(domain.ErrDownloadStatus, "status_code", resp.StatusCode)
		return "", zerr.With(statusErr, "url", url)
	}

	sum, err := writeAtomic(dst, resp.Body)
	if err != nil {
		return "", zerr.With(zerr.Wrap(err, "failed to store archive"), "path", dst)
	}
	return sum, nil
}

// writeAtomic streams r into a temp file next to path, hashing as it goes,
// and renames it into place.
func writeAtomic(path string, r io.Reader) (string, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, domain.DirPerm); err != nil {
		return "", err
	}

	tmpFile, err := os.CreateTemp(dir, ".download-*")
	if err != nil {
		return "", err
	}
	tmpName := tmpFile.Name()

	defer func() {
		if _, statErr := os.Stat(tmpName); statErr == nil {
			_ = os.Remove(tmpName)
		}
	}()

	h := blake3.New()
	if _, err := io.Copy(io.MultiWriter(tmpFile, h), r); err != nil {
		_ = tmpFile.Close()
		return "", err
	}

	if err := tmpFile.Close(); err != nil {
		return "", err
	}

	if err := os.Chmod(tmpName, domain.FilePerm); err != nil {
		return "", err
	}

	if err := os.Rename(tmpName, path); err != nil {
		return "", err
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}
