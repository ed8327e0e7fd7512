package pipeline

import (
	"context"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"go.trai.ch/libprov/internal/core/domain"
	"go.trai.ch/libprov/internal/core/ports"
	"go.trai.ch/zerr"
)

// Builder cross-compiles the library and installs it into the triple's prefix.
type Builder struct {
	cfg    domain.Config
	runner ports.Runner
	fs     ports.FileSystem
	cores  func() int
}

// NewBuilder creates a new Builder.
func NewBuilder(cfg domain.Config, runner ports.Runner, fs ports.FileSystem) *Builder {
	return &Builder{cfg: cfg, runner: runner, fs: fs, cores: availableCores}
}

// ConfigureArgs returns the configure invocation for triple, static only,
// installing into the architecture-scoped prefix.
func ConfigureArgs(cfg domain.Config, sourceDir, triple string) []string {
	args := []string{
		filepath.Join(sourceDir, "configure"),
		"--host=" + triple,
		"--prefix=" + cfg.Layout.InstallPrefix(triple),
		"--libdir=" + cfg.Layout.InstallLibDir(triple),
		"--includedir=" + cfg.Layout.InstallIncludeDir(triple),
		"--enable-static",
		"--disable-shared",
		"--disable-tools",
	}
	return append(args, cfg.ConfigureFlags...)
}

// InstallArgs returns the install invocation. Outside the live host root
// the prefix is staged below the root with DESTDIR.
func InstallArgs(cfg domain.Config) []string {
	argv := append(append([]string(nil), cfg.Make...), "install")
	if !cfg.Layout.IsHostRoot() {
		argv = append(argv, "DESTDIR="+cfg.Layout.Root)
	}
	return argv
}

// Build configures and compiles src for arch.
func (b *Builder) Build(ctx context.Context, arch domain.TargetArchitecture, src domain.LibrarySource) error {
	configure := b.command(ConfigureArgs(b.cfg, src.SourceDir, arch.Triple), src.SourceDir)
	if err := run(ctx, b.runner, configure); err != nil {
		return zerr.Wrap(err, "configure failed")
	}

	compile := b.command(append(b.makeArgv(), "-j"+strconv.Itoa(b.jobs())), src.SourceDir)
	if err := run(ctx, b.runner, compile); err != nil {
		return zerr.Wrap(err, "compile failed")
	}
	return nil
}

// Install runs the install target and checks that the static archive,
// headers and discovery descriptors landed in the prefix.
func (b *Builder) Install(ctx context.Context, arch domain.TargetArchitecture, src domain.LibrarySource) (domain.BuildArtifact, error) {
	install := b.command(InstallArgs(b.cfg), src.SourceDir)
	if err := run(ctx, b.runner, install); err != nil {
		return domain.BuildArtifact{}, zerr.Wrap(err, "install failed")
	}

	layout := b.cfg.Layout
	artifact := domain.BuildArtifact{
		Triple:       arch.Triple,
		Prefix:       layout.Prefix(arch.Triple),
		LibDir:       layout.LibDir(arch.Triple),
		IncludeDir:   layout.IncludeDir(arch.Triple),
		PkgConfigDir: layout.PrefixPkgConfigDir(arch.Triple),
	}

	if err := b.requireFile(filepath.Join(artifact.LibDir, b.cfg.Library+".a")); err != nil {
		return domain.BuildArtifact{}, err
	}

	headers, err := b.fs.Glob(filepath.Join(artifact.IncludeDir, "*.h"))
	if err != nil {
		return domain.BuildArtifact{}, err
	}
	if len(headers) == 0 {
		return domain.BuildArtifact{}, zerr.With(domain.ErrMissingArtifact, "path", filepath.Join(artifact.IncludeDir, "*.h"))
	}

	descriptors, err := b.fs.Glob(filepath.Join(artifact.PkgConfigDir, "*.pc"))
	if err != nil {
		return domain.BuildArtifact{}, err
	}
	if len(descriptors) == 0 {
		return domain.BuildArtifact{}, zerr.With(domain.ErrNoDescriptors, "path", artifact.PkgConfigDir)
	}
	artifact.Descriptors = descriptors

	return artifact, nil
}

func (b *Builder) requireFile(path string) error {
	ok, err := b.fs.Exists(path)
	if err != nil {
		return err
	}
	if !ok {
		return zerr.With(domain.ErrMissingArtifact, "path", path)
	}
	return nil
}

func (b *Builder) command(argv []string, dir string) domain.Command {
	return domain.NewCommand(argv...).InDir(dir).WithEnv(b.cfg.Env...)
}

func (b *Builder) makeArgv() []string {
	return append([]string(nil), b.cfg.Make...)
}

func (b *Builder) jobs() int {
	if b.cfg.Jobs > 0 {
		return b.cfg.Jobs
	}
	if n := b.cores(); n > 0 {
		return n
	}
	return 1
}

// run echoes cmd to the vertex recording the current stage and streams its
// output there. Without a vertex the output is dropped.
func run(ctx context.Context, runner ports.Runner, cmd domain.Command) error {
	v := ports.VertexFromContext(ctx)
	if v == nil {
		return runner.Run(ctx, cmd, io.Discard, io.Discard)
	}
	v.Log(domain.LogLevelInfo, "$ "+strings.Join(cmd.Argv(), " "))
	return runner.Run(ctx, cmd, v.Stdout(), v.Stderr())
}
