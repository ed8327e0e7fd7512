// Package app implements the application layer for libprov.
package app

import (
	"context"
	"path/filepath"
	"time"

	"go.trai.ch/libprov/internal/core/domain"
	"go.trai.ch/libprov/internal/core/ports"
	"go.trai.ch/libprov/internal/engine/pipeline"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// Options are the per-invocation overrides of the loaded configuration.
type Options struct {
	// ConfigPath is the configuration file. Empty means the default file,
	// which may be absent.
	ConfigPath string
	// Architectures overrides the codes to provision.
	Architectures []string
	// Version overrides the library version.
	Version string
	// Root overrides the host root all system paths are joined to.
	Root string
	// Jobs overrides make parallelism when non-nil.
	Jobs *int
	// Parallel bounds how many triples are provisioned at once.
	Parallel int
	// SkipUnchanged skips triples whose record and artifacts are current.
	SkipUnchanged bool
}

// Outcome is the result of provisioning one triple.
type Outcome struct {
	Arch   domain.TargetArchitecture
	Cached bool
	Record *domain.Record
	Stages []domain.Stage
}

// App represents the main application logic.
type App struct {
	configLoader ports.ConfigLoader
	store        ports.RecordStore
	hasher       ports.Hasher
	deps         pipeline.Deps
	logger       ports.Logger
	now          func() time.Time
}

// New creates a new App instance.
func New(
	loader ports.ConfigLoader,
	store ports.RecordStore,
	hasher ports.Hasher,
	deps pipeline.Deps,
) *App {
	return &App{
		configLoader: loader,
		store:        store,
		hasher:       hasher,
		deps:         deps,
		logger:       deps.Logger,
		now:          time.Now,
	}
}

// WithClock configures the clock used to timestamp records.
func (a *App) WithClock(now func() time.Time) *App {
	a.now = now
	return a
}

// Provision runs the pipeline for every requested architecture. Codes
// resolving to the same triple are provisioned once.
func (a *App) Provision(ctx context.Context, opts Options) ([]Outcome, error) {
	cfg, err := a.loadConfig(opts)
	if err != nil {
		return nil, err
	}

	p := pipeline.New(cfg, a.deps)

	archs, err := a.resolveAll(ctx, p.Resolver(), a.codes(opts, cfg))
	if err != nil {
		return nil, err
	}

	outcomes := make([]Outcome, len(archs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(opts.Parallel, 1))

	for i, arch := range archs {
		g.Go(func() error {
			out, err := a.provisionOne(gctx, cfg, p, arch, opts.SkipUnchanged)
			outcomes[i] = out
			return err
		})
	}

	if err := g.Wait(); err != nil {
		return outcomes, err
	}
	return outcomes, nil
}

func (a *App) provisionOne(
	ctx context.Context,
	cfg domain.Config,
	p *pipeline.Pipeline,
	arch domain.TargetArchitecture,
	skipUnchanged bool,
) (Outcome, error) {
	recordPath := cfg.Layout.RecordPath(arch.Triple)

	if skipUnchanged {
		rec, current := a.upToDate(cfg, arch.Triple, recordPath)
		if current {
			_, vertex := a.deps.Telemetry.Record(ctx, arch.Triple)
			vertex.Cached()
			vertex.Complete(nil)
			a.logger.Info(cfg.Library + " " + cfg.Version + " for " + arch.String() + " is up to date")
			return Outcome{Arch: arch, Cached: true, Record: rec}, nil
		}
	}

	res, err := p.RunResolved(ctx, arch)
	out := Outcome{Arch: arch, Stages: res.Stages}
	if err != nil {
		return out, err
	}

	fingerprint, err := a.fingerprint(cfg, arch.Triple)
	if err != nil {
		return out, err
	}

	rec := domain.Record{
		Library:     cfg.Library,
		Version:     cfg.Version,
		Arch:        arch.Code,
		Triple:      arch.Triple,
		URL:         res.Source.URL,
		Digest:      res.Source.Digest,
		Fingerprint: fingerprint,
		Timestamp:   a.now().UTC(),
	}
	if err := a.store.Put(recordPath, rec); err != nil {
		return out, err
	}
	out.Record = &rec
	return out, nil
}

// upToDate reports whether the record at recordPath describes the
// configured release and the artifacts still carry its fingerprint.
func (a *App) upToDate(cfg domain.Config, triple, recordPath string) (*domain.Record, bool) {
	rec, err := a.store.Get(recordPath)
	if err != nil {
		a.logger.Warn("ignoring unreadable record " + recordPath)
		return nil, false
	}
	if !rec.Matches(cfg.Library, cfg.Version) || rec.Triple != triple {
		return nil, false
	}

	fingerprint, err := a.fingerprint(cfg, triple)
	if err != nil {
		return nil, false
	}
	return rec, fingerprint == rec.Fingerprint
}

// Resolve maps codes to target triples. No codes means the host's own architecture.
func (a *App) Resolve(ctx context.Context, codes []string) ([]domain.TargetArchitecture, error) {
	resolver := pipeline.NewResolver(a.deps.Host, a.logger)
	if len(codes) == 0 {
		code, err := resolver.HostArchitecture(ctx)
		if err != nil {
			return nil, err
		}
		codes = []string{code}
	}

	archs := make([]domain.TargetArchitecture, 0, len(codes))
	for _, code := range codes {
		arch, err := resolver.Resolve(ctx, code)
		if err != nil {
			return nil, err
		}
		archs = append(archs, arch)
	}
	return archs, nil
}

// Status reports, per triple, whether the installed artifacts still
// match their provisioning record.
func (a *App) Status(ctx context.Context, opts Options) ([]domain.Status, error) {
	cfg, err := a.loadConfig(opts)
	if err != nil {
		return nil, err
	}

	resolver := pipeline.NewResolver(a.deps.Host, a.logger)
	archs, err := a.resolveAll(ctx, resolver, a.codes(opts, cfg))
	if err != nil {
		return nil, err
	}

	statuses := make([]domain.Status, 0, len(archs))
	for _, arch := range archs {
		status := domain.Status{Arch: arch, Health: domain.HealthMissing}

		rec, err := a.store.Get(cfg.Layout.RecordPath(arch.Triple))
		if err != nil {
			return nil, err
		}
		if rec == nil {
			statuses = append(statuses, status)
			continue
		}
		status.Record = rec

		fingerprint, err := a.fingerprint(cfg, arch.Triple)
		switch {
		case err != nil:
			status.Health = domain.HealthDrifted
		case fingerprint != rec.Fingerprint:
			status.Fingerprint = fingerprint
			status.Health = domain.HealthDrifted
		default:
			status.Fingerprint = fingerprint
			status.Health = domain.HealthOK
		}
		statuses = append(statuses, status)
	}
	return statuses, nil
}

func (a *App) loadConfig(opts Options) (domain.Config, error) {
	path, required := opts.ConfigPath, true
	if path == "" {
		path, required = domain.ConfigFileName, false
	}

	cfg, err := a.configLoader.Load(path, required)
	if err != nil {
		return domain.Config{}, zerr.Wrap(err, "failed to load configuration")
	}

	if opts.Version != "" {
		cfg.Version = opts.Version
	}
	if opts.Root != "" {
		cfg.Layout.Root = opts.Root
	}
	if opts.Jobs != nil {
		if *opts.Jobs < 0 {
			return domain.Config{}, zerr.With(domain.ErrInvalidConfig, "jobs", *opts.Jobs)
		}
		cfg.Jobs = *opts.Jobs
	}
	return cfg, nil
}

func (a *App) codes(opts Options, cfg domain.Config) []string {
	if len(opts.Architectures) > 0 {
		return opts.Architectures
	}
	return cfg.Architectures
}

// resolveAll resolves codes, falling back to the host architecture, and
// drops codes whose triple was already seen.
func (a *App) resolveAll(ctx context.Context, resolver *pipeline.Resolver, codes []string) ([]domain.TargetArchitecture, error) {
	if len(codes) == 0 {
		code, err := resolver.HostArchitecture(ctx)
		if err != nil {
			return nil, err
		}
		codes = []string{code}
	}

	seen := make(map[string]string, len(codes))
	archs := make([]domain.TargetArchitecture, 0, len(codes))
	for _, code := range codes {
		arch, err := resolver.Resolve(ctx, code)
		if err != nil {
			return nil, err
		}
		if first, dup := seen[arch.Triple]; dup {
			a.logger.Warn(code + " resolves to " + arch.Triple + " like " + first + ", provisioning it once")
			continue
		}
		seen[arch.Triple] = code
		archs = append(archs, arch)
	}
	return archs, nil
}

// fingerprint hashes the prefix, the published descriptor copies and the
// loader fragment of triple.
func (a *App) fingerprint(cfg domain.Config, triple string) (string, error) {
	layout := cfg.Layout

	descriptors, err := a.deps.FS.Glob(filepath.Join(layout.PrefixPkgConfigDir(triple), "*.pc"))
	if err != nil {
		return "", zerr.Wrap(err, domain.ErrFingerprintFailed.Error())
	}

	paths := []string{layout.Prefix(triple)}
	for _, descriptor := range descriptors {
		paths = append(paths, filepath.Join(layout.PkgConfigDir(triple), filepath.Base(descriptor)))
	}
	paths = append(paths, layout.LoaderFragment(triple))

	sum, err := a.hasher.Fingerprint(paths, []string{domain.RecordFileName})
	if err != nil {
		return "", zerr.Wrap(err, domain.ErrFingerprintFailed.Error())
	}
	return sum, nil
}
