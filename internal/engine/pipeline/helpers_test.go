package pipeline_test

import (
	"archive/tar"
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/require"
	"go.trai.ch/libprov/internal/adapters/fetch"
	"go.trai.ch/libprov/internal/adapters/fs"
	"go.trai.ch/libprov/internal/adapters/telemetry"
	"go.trai.ch/libprov/internal/core/domain"
	"go.trai.ch/libprov/internal/core/ports"
	"go.trai.ch/libprov/internal/core/ports/mocks"
	"go.trai.ch/libprov/internal/engine/pipeline"
	"go.uber.org/mock/gomock"
)

// sourceArchive builds a gzip tarball laid out like a libgpiod release.
func sourceArchive(t *testing.T, version string) []byte {
	t.Helper()

	dir := "libgpiod-" + version + "/"
	files := []struct {
		name string
		body string
		mode int64
	}{
		{dir + "configure", "#!/bin/sh\nexit 0\n", 0o755},
		{dir + "include/gpiod.h", "#define GPIOD_API\n", 0o644},
		{dir + "lib/libgpiod.pc.in", "Name: libgpiod\n", 0o644},
	}

	var tarBuf bytes.Buffer
	tw := tar.NewWriter(&tarBuf)
	require.NoError(t, tw.WriteHeader(&tar.Header{Name: dir, Typeflag: tar.TypeDir, Mode: 0o755}))
	for _, f := range files {
		require.NoError(t, tw.WriteHeader(&tar.Header{
			Name:     f.name,
			Typeflag: tar.TypeReg,
			Mode:     f.mode,
			Size:     int64(len(f.body)),
		}))
		_, err := io.WriteString(tw, f.body)
		require.NoError(t, err)
	}
	require.NoError(t, tw.Close())

	var gzBuf bytes.Buffer
	gw := gzip.NewWriter(&gzBuf)
	_, err := gw.Write(tarBuf.Bytes())
	require.NoError(t, err)
	require.NoError(t, gw.Close())
	return gzBuf.Bytes()
}

// mirror serves release archives the way the kernel.org mirror lays them out.
type mirror struct {
	*httptest.Server

	mu       sync.Mutex
	requests []string
}

func newMirror(t *testing.T, versions ...string) *mirror {
	t.Helper()

	archives := make(map[string][]byte, len(versions))
	for _, v := range versions {
		archives["/pub/software/libs/libgpiod/libgpiod-"+v+".tar.gz"] = sourceArchive(t, v)
	}

	m := &mirror{}
	m.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m.mu.Lock()
		m.requests = append(m.requests, r.URL.Path)
		m.mu.Unlock()

		data, ok := archives[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write(data)
	}))
	t.Cleanup(m.Close)
	return m
}

func (m *mirror) template() string {
	return m.URL + "/pub/software/libs/{library}/{library}-{version}.tar.gz"
}

func (m *mirror) seen() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.requests...)
}

// toolchain stands in for configure, make and ldconfig. make install
// produces the files a real libgpiod install would.
type toolchain struct {
	mu       sync.Mutex
	calls    []domain.Command
	prefix   string
	failWith map[string]error
}

func newToolchain() *toolchain {
	return &toolchain{failWith: map[string]error{}}
}

func (tc *toolchain) Run(_ context.Context, cmd domain.Command, stdout, _ io.Writer) error {
	tc.mu.Lock()
	tc.calls = append(tc.calls, cmd)
	tc.mu.Unlock()

	step := filepath.Base(cmd.Name)
	if step == "make" && len(cmd.Args) > 0 && cmd.Args[0] == "install" {
		step = "make install"
	}
	if err, ok := tc.failWith[step]; ok {
		_, _ = io.WriteString(stdout, step+": *** failed\n")
		return err
	}

	switch step {
	case "configure":
		for _, arg := range cmd.Args {
			if v, ok := strings.CutPrefix(arg, "--prefix="); ok {
				tc.prefix = v
			}
		}
		_, _ = io.WriteString(stdout, "checking whether the C compiler works... yes\n")
	case "make install":
		return tc.install(cmd)
	}
	return nil
}

func (tc *toolchain) install(cmd domain.Command) error {
	destdir := ""
	for _, arg := range cmd.Args {
		if v, ok := strings.CutPrefix(arg, "DESTDIR="); ok {
			destdir = v
		}
	}

	prefix := filepath.Join(destdir, tc.prefix)
	outputs := map[string]string{
		"lib/libgpiod.a":            "!<arch>\n",
		"include/gpiod.h":           "#define GPIOD_API\n",
		"lib/pkgconfig/libgpiod.pc": "prefix=" + tc.prefix + "\nName: libgpiod\nLibs: -L${prefix}/lib -lgpiod\n",
	}
	for name, body := range outputs {
		path := filepath.Join(prefix, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return err
		}
		if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
			return err
		}
	}
	return nil
}

func (tc *toolchain) Output(_ context.Context, cmd domain.Command) (string, error) {
	return "", &domain.CommandError{Name: cmd.Name, Args: cmd.Args, ExitCode: 127}
}

func (tc *toolchain) commands() []domain.Command {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	return append([]domain.Command(nil), tc.calls...)
}

var _ ports.Runner = (*toolchain)(nil)

type env struct {
	root   string
	cfg    domain.Config
	mirror *mirror
	tc     *toolchain
	deps   pipeline.Deps
}

// newEnv prepares a temporary host root, an archive mirror and a fake toolchain.
func newEnv(t *testing.T) *env {
	t.Helper()
	ctrl := gomock.NewController(t)

	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Info(gomock.Any()).AnyTimes()
	log.EXPECT().Warn(gomock.Any()).AnyTimes()

	m := newMirror(t, domain.DefaultVersion, "2.2.0")
	root := t.TempDir()

	cfg := domain.DefaultConfig()
	cfg.URLTemplate = m.template()
	cfg.Layout.Root = root
	cfg.Jobs = 2

	tc := newToolchain()
	return &env{
		root:   root,
		cfg:    cfg,
		mirror: m,
		tc:     tc,
		deps: pipeline.Deps{
			Runner:     tc,
			FS:         fs.NewFileSystem(),
			Downloader: fetch.NewDownloaderWithClient(m.Client()),
			Extractor:  fetch.NewExtractor(),
			Host:       mocks.NewMockHostQuery(ctrl),
			Logger:     log,
			Telemetry:  telemetry.NewNoOp(),
		},
	}
}

func (e *env) pipeline() *pipeline.Pipeline {
	return pipeline.New(e.cfg, e.deps)
}

func exists(t *testing.T, path string) bool {
	t.Helper()
	_, err := os.Stat(path)
	if os.IsNotExist(err) {
		return false
	}
	require.NoError(t, err)
	return true
}
