package pipeline_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/libprov/internal/adapters/fs"
	"go.trai.ch/libprov/internal/core/domain"
	"go.trai.ch/libprov/internal/core/ports/mocks"
	"go.trai.ch/libprov/internal/engine/pipeline"
	"go.uber.org/mock/gomock"
)

// installedArtifact lays out what a successful install leaves in the prefix.
func installedArtifact(t *testing.T, cfg domain.Config, triple string) domain.BuildArtifact {
	t.Helper()

	pc := filepath.Join(cfg.Layout.PrefixPkgConfigDir(triple), "libgpiod.pc")
	require.NoError(t, os.MkdirAll(filepath.Dir(pc), 0o755))
	require.NoError(t, os.WriteFile(pc, []byte("prefix=/usr/local/"+triple+"\n"), 0o644))

	return domain.BuildArtifact{
		Triple:       triple,
		Prefix:       cfg.Layout.Prefix(triple),
		LibDir:       cfg.Layout.LibDir(triple),
		IncludeDir:   cfg.Layout.IncludeDir(triple),
		PkgConfigDir: cfg.Layout.PrefixPkgConfigDir(triple),
		Descriptors:  []string{pc},
	}
}

func TestLdconfigArgs(t *testing.T) {
	cfg := domain.DefaultConfig()
	assert.Equal(t, []string{"ldconfig"}, pipeline.LdconfigArgs(cfg))

	cfg.Layout.Root = "/srv/sysroot"
	assert.Equal(t, []string{"ldconfig", "-r", "/srv/sysroot"}, pipeline.LdconfigArgs(cfg))
}

func TestIntegrator_Integrate(t *testing.T) {
	e := newEnv(t)
	artifact := installedArtifact(t, e.cfg, arm64.Triple)

	in := pipeline.NewIntegrator(e.cfg, e.tc, e.deps.FS)
	integration, err := in.Integrate(context.Background(), artifact)
	require.NoError(t, err)

	pcDir := filepath.Join(e.root, "usr/lib/aarch64-linux-gnu/pkgconfig")
	assert.Equal(t, pcDir, integration.PkgConfigDir)
	assert.Equal(t, []string{filepath.Join(pcDir, "libgpiod.pc")}, integration.Descriptors)
	assert.Equal(t, filepath.Join(e.root, "etc/ld.so.conf.d/libgpiod-aarch64-linux-gnu.conf"), integration.LoaderFragment)

	copied, err := os.ReadFile(filepath.Join(pcDir, "libgpiod.pc"))
	require.NoError(t, err)
	assert.Equal(t, "prefix=/usr/local/aarch64-linux-gnu\n", string(copied))

	fragment, err := os.ReadFile(integration.LoaderFragment)
	require.NoError(t, err)
	g := goldie.New(t)
	g.Assert(t, "loader_fragment_aarch64", fragment)

	calls := e.tc.commands()
	require.Len(t, calls, 1)
	assert.Equal(t, []string{"ldconfig", "-r", e.root}, calls[0].Argv())
}

func TestIntegrator_Integrate_Idempotent(t *testing.T) {
	e := newEnv(t)
	artifact := installedArtifact(t, e.cfg, arm64.Triple)
	in := pipeline.NewIntegrator(e.cfg, e.tc, e.deps.FS)

	first, err := in.Integrate(context.Background(), artifact)
	require.NoError(t, err)
	second, err := in.Integrate(context.Background(), artifact)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	fragments, err := filepath.Glob(filepath.Join(e.root, "etc/ld.so.conf.d/*.conf"))
	require.NoError(t, err)
	assert.Len(t, fragments, 1)

	fragment, err := os.ReadFile(first.LoaderFragment)
	require.NoError(t, err)
	assert.Equal(t, "/usr/local/aarch64-linux-gnu/lib\n", string(fragment))
}

func TestIntegrator_Integrate_LdconfigFails(t *testing.T) {
	e := newEnv(t)
	e.tc.failWith["ldconfig"] = &domain.CommandError{Name: "ldconfig", ExitCode: 1}
	artifact := installedArtifact(t, e.cfg, arm64.Triple)

	in := pipeline.NewIntegrator(e.cfg, e.tc, e.deps.FS)
	_, err := in.Integrate(context.Background(), artifact)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "loader cache refresh failed")

	// Published entries stay; nothing is rolled back.
	assert.FileExists(t, filepath.Join(e.root, "usr/lib/aarch64-linux-gnu/pkgconfig/libgpiod.pc"))
	assert.FileExists(t, filepath.Join(e.root, "etc/ld.so.conf.d/libgpiod-aarch64-linux-gnu.conf"))
}

func TestIntegrator_Cleanup(t *testing.T) {
	root := t.TempDir()
	scratch := filepath.Join(root, "tmp/libprov/aarch64-linux-gnu")
	require.NoError(t, os.MkdirAll(filepath.Join(scratch, "libgpiod-2.1.3"), 0o755))

	ctrl := gomock.NewController(t)
	in := pipeline.NewIntegrator(domain.DefaultConfig(), mocks.NewMockRunner(ctrl), fs.NewFileSystem())

	require.NoError(t, in.Cleanup(context.Background(), domain.LibrarySource{ScratchDir: scratch}))
	assert.NoDirExists(t, scratch)

	require.NoError(t, in.Cleanup(context.Background(), domain.LibrarySource{}))
}
