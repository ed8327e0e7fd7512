// Package pipeline implements the provisioning pipeline: resolve, fetch,
// build, install, integrate and clean up, for one target triple at a time.
package pipeline

import (
	"context"
	"errors"
	"strings"

	"go.trai.ch/libprov/internal/core/domain"
	"go.trai.ch/libprov/internal/core/ports"
	"go.trai.ch/zerr"
)

// Resolver maps architecture codes to toolchain target triples.
type Resolver struct {
	host   ports.HostQuery
	logger ports.Logger
}

// NewResolver creates a new Resolver.
func NewResolver(host ports.HostQuery, logger ports.Logger) *Resolver {
	return &Resolver{host: host, logger: logger}
}

// Resolve returns the target architecture for code. Known codes come from
// the fixed table without touching the host. Anything else is answered by
// the host toolchain description system, falling back to the host's own
// type when it declares nothing for code.
func (r *Resolver) Resolve(ctx context.Context, code string) (domain.TargetArchitecture, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return domain.TargetArchitecture{}, domain.NewStageError(domain.StageResolved, "", domain.ErrEmptyArchitecture)
	}

	if triple, ok := domain.LookupTriple(code); ok {
		return domain.TargetArchitecture{Code: code, Triple: triple}, nil
	}

	triple, targetErr := r.host.TargetType(ctx, code)
	if targetErr == nil {
		return domain.TargetArchitecture{Code: code, Triple: triple}, nil
	}

	r.logger.Warn("no declared target type for " + code + ", using the host type")

	triple, hostErr := r.host.HostType(ctx)
	if hostErr != nil {
		cause := zerr.With(errors.Join(targetErr, hostErr), "arch", code)
		return domain.TargetArchitecture{}, domain.NewStageError(domain.StageResolved, code, cause)
	}
	return domain.TargetArchitecture{Code: code, Triple: triple}, nil
}

// HostArchitecture returns the host's native package architecture code.
func (r *Resolver) HostArchitecture(ctx context.Context) (string, error) {
	code, err := r.host.PackageArchitecture(ctx)
	if err != nil {
		return "", domain.NewStageError(domain.StageResolved, "", err)
	}
	return code, nil
}
