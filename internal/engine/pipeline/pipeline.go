package pipeline

import (
	"context"

	"go.trai.ch/libprov/internal/core/domain"
	"go.trai.ch/libprov/internal/core/ports"
)

// Result is everything one pipeline run produced.
type Result struct {
	Arch        domain.TargetArchitecture
	Source      domain.LibrarySource
	Artifact    domain.BuildArtifact
	Integration domain.SystemIntegration
	// Stages lists every stage entered, oldest first.
	Stages []domain.Stage
}

// Pipeline drives one triple through
// Resolved → Fetched → Built → Installed → Integrated → CleanedUp.
// A failed stage stops the run; nothing already done is rolled back.
type Pipeline struct {
	cfg        domain.Config
	resolver   *Resolver
	fetcher    *Fetcher
	builder    *Builder
	integrator *Integrator
	telemetry  ports.Telemetry
	logger     ports.Logger
}

// Deps are the host-facing ports the pipeline components use.
type Deps struct {
	Runner     ports.Runner
	FS         ports.FileSystem
	Downloader ports.Downloader
	Extractor  ports.Extractor
	Host       ports.HostQuery
	Logger     ports.Logger
	Telemetry  ports.Telemetry
}

// New assembles a pipeline for cfg.
func New(cfg domain.Config, deps Deps) *Pipeline {
	return &Pipeline{
		cfg:        cfg,
		resolver:   NewResolver(deps.Host, deps.Logger),
		fetcher:    NewFetcher(cfg, deps.Downloader, deps.Extractor, deps.FS, deps.Logger),
		builder:    NewBuilder(cfg, deps.Runner, deps.FS),
		integrator: NewIntegrator(cfg, deps.Runner, deps.FS),
		telemetry:  deps.Telemetry,
		logger:     deps.Logger,
	}
}

// Run resolves code and provisions the resulting triple.
func (p *Pipeline) Run(ctx context.Context, code string) (Result, error) {
	arch, err := p.resolver.Resolve(ctx, code)
	if err != nil {
		return Result{Stages: []domain.Stage{domain.StagePending}}, err
	}
	return p.RunResolved(ctx, arch)
}

// RunResolved provisions an already resolved architecture.
func (p *Pipeline) RunResolved(ctx context.Context, arch domain.TargetArchitecture) (Result, error) {
	progress := domain.NewProgress()
	res := Result{Arch: arch}

	finish := func(err error) (Result, error) {
		res.Stages = progress.History()
		return res, err
	}

	if err := progress.Advance(domain.StageResolved); err != nil {
		return finish(err)
	}
	p.logger.Info("provisioning " + p.cfg.Library + " " + p.cfg.Version + " for " + arch.String())

	steps := []struct {
		stage domain.Stage
		run   func(context.Context) error
	}{
		{domain.StageFetched, func(ctx context.Context) error {
			src, err := p.fetcher.Fetch(ctx, arch.Triple, p.cfg.Version)
			res.Source = src
			return err
		}},
		{domain.StageBuilt, func(ctx context.Context) error {
			return p.builder.Build(ctx, arch, res.Source)
		}},
		{domain.StageInstalled, func(ctx context.Context) error {
			artifact, err := p.builder.Install(ctx, arch, res.Source)
			res.Artifact = artifact
			return err
		}},
		{domain.StageIntegrated, func(ctx context.Context) error {
			integration, err := p.integrator.Integrate(ctx, res.Artifact)
			res.Integration = integration
			return err
		}},
		{domain.StageCleanedUp, func(ctx context.Context) error {
			return p.integrator.Cleanup(ctx, res.Source)
		}},
	}

	for _, step := range steps {
		if err := p.enter(ctx, progress, arch.Triple, step.stage, step.run); err != nil {
			return finish(err)
		}
	}

	p.logger.Info(p.cfg.Library + " installed in " + res.Artifact.Prefix)
	return finish(nil)
}

// enter runs one stage inside its own telemetry vertex and advances
// progress when it succeeds.
func (p *Pipeline) enter(
	ctx context.Context,
	progress *domain.Progress,
	triple string,
	stage domain.Stage,
	run func(context.Context) error,
) error {
	if err := ctx.Err(); err != nil {
		return domain.NewStageError(stage, triple, err)
	}

	vctx, vertex := p.telemetry.Record(ctx, domain.VertexName(triple, stage))
	if err := run(vctx); err != nil {
		vertex.Complete(err)
		return domain.NewStageError(stage, triple, err)
	}
	vertex.Complete(nil)

	return progress.Advance(stage)
}

// Resolver returns the pipeline's architecture resolver.
func (p *Pipeline) Resolver() *Resolver {
	return p.resolver
}
