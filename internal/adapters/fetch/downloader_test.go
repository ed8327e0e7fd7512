package fetch_test

import (
	"context"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zeebo/blake3"
	"go.trai.ch/libprov/internal/adapters/fetch"
	"go.trai.ch/libprov/internal/core/domain"
)

func TestDownloader_Download(t *testing.T) {
	body := []byte("libgpiod source archive")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/pub/software/libs/libgpiod/libgpiod-2.1.3.tar.gz", r.URL.Path)
		_, _ = w.Write(body)
	}))
	t.Cleanup(srv.Close)

	dst := filepath.Join(t.TempDir(), "scratch", "libgpiod-2.1.3.tar.gz")
	d := fetch.NewDownloaderWithClient(srv.Client())

	sum, err := d.Download(context.Background(), srv.URL+"/pub/software/libs/libgpiod/libgpiod-2.1.3.tar.gz", dst)
	require.NoError(t, err)

	expected := blake3.Sum256(body)
	assert.Equal(t, hex.EncodeToString(expected[:]), sum)

	got, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, body, got)

	entries, err := os.ReadDir(filepath.Dir(dst))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file must not be left behind")
}

func TestDownloader_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	t.Cleanup(srv.Close)

	dst := filepath.Join(t.TempDir(), "libgpiod-9.9.9.tar.gz")
	d := fetch.NewDownloaderWithClient(srv.Client())

	_, err := d.Download(context.Background(), srv.URL+"/libgpiod-9.9.9.tar.gz", dst)
	require.Error(t, err)
	assert.Contains(t, err.Error(), domain.ErrDownloadStatus.Error())

	_, statErr := os.Stat(dst)
	assert.True(t, os.IsNotExist(statErr))
}

func TestDownloader_NetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL + "/libgpiod-2.1.3.tar.gz"
	srv.Close()

	dst := filepath.Join(t.TempDir(), "libgpiod-2.1.3.tar.gz")
	_, err := fetch.NewDownloader().Download(context.Background(), url, dst)
	require.Error(t, err)

	_, statErr := os.Stat(dst)
	assert.True(t, os.IsNotExist(statErr))
}

func TestDownloader_CancelledContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("data"))
	}))
	t.Cleanup(srv.Close)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := fetch.NewDownloaderWithClient(srv.Client()).Download(ctx, srv.URL, filepath.Join(t.TempDir(), "a.tar.gz"))
	require.Error(t, err)
}
