// Package dpkg answers host architecture questions through the Debian toolchain description tools.
package dpkg

import (
	"context"

	"go.trai.ch/libprov/internal/core/domain"
	"go.trai.ch/libprov/internal/core/ports"
	"go.trai.ch/zerr"
)

// Query implements ports.HostQuery by running dpkg and dpkg-architecture.
type Query struct {
	runner ports.Runner
}

// NewQuery creates a new Query backed by runner.
func NewQuery(runner ports.Runner) *Query {
	return &Query{runner: runner}
}

// PackageArchitecture returns the host's native package architecture, e.g. "amd64".
func (q *Query) PackageArchitecture(ctx context.Context) (string, error) {
	return q.ask(ctx, domain.NewCommand("dpkg", "--print-architecture"))
}

// TargetType returns the GNU system type dpkg-architecture declares for code.
func (q *Query) TargetType(ctx context.Context, code string) (string, error) {
	out, err := q.ask(ctx, domain.NewCommand("dpkg-architecture", "-a"+code, "-qDEB_TARGET_GNU_TYPE"))
	if err != nil {
		return "", zerr.With(err, "arch", code)
	}
	return out, nil
}

// HostType returns the GNU system type of the host itself.
func (q *Query) HostType(ctx context.Context) (string, error) {
	return q.ask(ctx, domain.NewCommand("dpkg-architecture", "-qDEB_HOST_GNU_TYPE"))
}

func (q *Query) ask(ctx context.Context, cmd domain.Command) (string, error) {
	out, err := q.runner.Output(ctx, cmd)
	if err != nil {
		return "", zerr.Wrap(err, "host query failed")
	}
	if out == "" {
		return "", zerr.With(zerr.New("host query returned no answer"), "command", cmd.Name)
	}
	return out, nil
}
