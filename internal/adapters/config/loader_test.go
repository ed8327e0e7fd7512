package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/libprov/internal/adapters/config"
	"go.trai.ch/libprov/internal/core/domain"
	"go.trai.ch/libprov/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), domain.ConfigFileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func newLoader(t *testing.T, env map[string]string) *config.Loader {
	t.Helper()
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Info(gomock.Any()).AnyTimes()

	l := config.NewLoader(log)
	l.Getenv = func(key string) string { return env[key] }
	return l
}

func TestLoader_Defaults(t *testing.T) {
	cfg, err := newLoader(t, nil).Load(filepath.Join(t.TempDir(), domain.ConfigFileName), false)
	require.NoError(t, err)

	assert.Equal(t, domain.DefaultConfig(), cfg)
	assert.Equal(t, "2.1.3", cfg.Version)
	assert.Contains(t, cfg.SourceURL(), "libgpiod-2.1.3.tar.gz")
}

func TestLoader_MissingRequiredFile(t *testing.T) {
	_, err := newLoader(t, nil).Load(filepath.Join(t.TempDir(), "custom.yaml"), true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), domain.ErrConfigReadFailed.Error())
}

func TestLoader_File(t *testing.T) {
	path := writeConfig(t, `
version: 2.2.0
root: /srv/sysroot
jobs: 4
configure_flags: ["--enable-bindings-cxx"]
make: ["gmake"]
ldconfig: ["/sbin/ldconfig"]
architectures: [arm64, armhf, arm64]
env:
  CFLAGS: -O2
  CC: aarch64-linux-gnu-gcc
`)

	cfg, err := newLoader(t, nil).Load(path, true)
	require.NoError(t, err)

	assert.Equal(t, "2.2.0", cfg.Version)
	assert.Equal(t, "/srv/sysroot", cfg.Layout.Root)
	assert.Equal(t, domain.DefaultPrefixRoot, cfg.Layout.PrefixRoot)
	assert.Equal(t, 4, cfg.Jobs)
	assert.Equal(t, []string{"--enable-bindings-cxx"}, cfg.ConfigureFlags)
	assert.Equal(t, []string{"gmake"}, cfg.Make)
	assert.Equal(t, []string{"/sbin/ldconfig"}, cfg.Ldconfig)
	assert.Equal(t, []string{"arm64", "armhf"}, cfg.Architectures)
	assert.Equal(t, []string{"CC=aarch64-linux-gnu-gcc", "CFLAGS=-O2"}, cfg.Env)
}

func TestLoader_LibraryFlowsIntoLayout(t *testing.T) {
	path := writeConfig(t, "library: libfoo\n")

	cfg, err := newLoader(t, nil).Load(path, true)
	require.NoError(t, err)

	assert.Equal(t, "libfoo", cfg.Library)
	assert.Equal(t, "/etc/ld.so.conf.d/libfoo-x86_64-linux-gnu.conf", cfg.Layout.LoaderFragment("x86_64-linux-gnu"))
}

func TestLoader_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "version: 2.2.0\narchitectures: [armhf]\n")

	cfg, err := newLoader(t, map[string]string{
		config.EnvVersion: "2.1.1",
		config.EnvArch:    "arm64, amd64",
	}).Load(path, true)
	require.NoError(t, err)

	assert.Equal(t, "2.1.1", cfg.Version)
	assert.Equal(t, []string{"arm64", "amd64"}, cfg.Architectures)
}

func TestLoader_EmptyFile(t *testing.T) {
	cfg, err := newLoader(t, nil).Load(writeConfig(t, ""), true)
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultConfig(), cfg)
}

func TestLoader_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{name: "malformed yaml", content: "version: [", want: domain.ErrConfigParseFailed.Error()},
		{name: "unknown key", content: "verison: 2.1.3\n", want: domain.ErrConfigParseFailed.Error()},
		{name: "negative jobs", content: "jobs: -1\n", want: domain.ErrInvalidConfig.Error()},
		{name: "bad archive format", content: "archive_format: zip\n", want: domain.ErrInvalidConfig.Error()},
		{name: "template without version", content: "url_template: https://example.com/libgpiod.tar.gz\n", want: domain.ErrInvalidConfig.Error()},
		{name: "empty make", content: "make: []\n", want: domain.ErrInvalidConfig.Error()},
		{name: "pkgconfig template without triple", content: "pkgconfig_dir_template: /usr/lib/pkgconfig\n", want: domain.ErrInvalidConfig.Error()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newLoader(t, nil).Load(writeConfig(t, tt.content), true)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
