package pipeline

import (
	"context"
	"path/filepath"

	"go.trai.ch/libprov/internal/core/domain"
	"go.trai.ch/libprov/internal/core/ports"
	"go.trai.ch/zerr"
)

// Integrator publishes an installed prefix into the host's search paths.
type Integrator struct {
	cfg    domain.Config
	runner ports.Runner
	fs     ports.FileSystem
}

// NewIntegrator creates a new Integrator.
func NewIntegrator(cfg domain.Config, runner ports.Runner, fs ports.FileSystem) *Integrator {
	return &Integrator{cfg: cfg, runner: runner, fs: fs}
}

// LdconfigArgs returns the loader cache refresh command. Outside the live
// host root the cache of that root is refreshed instead.
func LdconfigArgs(cfg domain.Config) []string {
	argv := append([]string(nil), cfg.Ldconfig...)
	if !cfg.Layout.IsHostRoot() {
		argv = append(argv, "-r", cfg.Layout.Root)
	}
	return argv
}

// Integrate copies the discovery descriptors into the multiarch pkg-config
// directory, writes the loader fragment and refreshes the loader cache.
// Entries from a previous run for the same triple are overwritten.
func (i *Integrator) Integrate(ctx context.Context, artifact domain.BuildArtifact) (domain.SystemIntegration, error) {
	layout := i.cfg.Layout
	integration := domain.SystemIntegration{
		PkgConfigDir:          layout.PkgConfigDir(artifact.Triple),
		LoaderFragment:        layout.LoaderFragment(artifact.Triple),
		LoaderFragmentContent: domain.LoaderFragmentContent(layout.InstallLibDir(artifact.Triple)),
	}

	if err := i.fs.MkdirAll(integration.PkgConfigDir); err != nil {
		return domain.SystemIntegration{}, err
	}

	for _, descriptor := range artifact.Descriptors {
		dst := filepath.Join(integration.PkgConfigDir, filepath.Base(descriptor))
		if err := i.fs.CopyFile(descriptor, dst); err != nil {
			return domain.SystemIntegration{}, err
		}
		integration.Descriptors = append(integration.Descriptors, dst)
	}

	if err := i.fs.WriteFile(integration.LoaderFragment, []byte(integration.LoaderFragmentContent)); err != nil {
		return domain.SystemIntegration{}, err
	}

	if err := run(ctx, i.runner, domain.NewCommand(LdconfigArgs(i.cfg)...)); err != nil {
		return domain.SystemIntegration{}, zerr.Wrap(err, "loader cache refresh failed")
	}

	return integration, nil
}

// Cleanup deletes the scratch workspace of src.
func (i *Integrator) Cleanup(_ context.Context, src domain.LibrarySource) error {
	if src.ScratchDir == "" {
		return nil
	}
	return i.fs.RemoveAll(src.ScratchDir)
}
