// Package ports defines the core interfaces for the application.
package ports

import (
	"context"
	"io"

	"go.trai.ch/libprov/internal/core/domain"
)

// Runner executes external programs such as configure, make and ldconfig.
//
//go:generate go run go.uber.org/mock/mockgen -source=runner.go -destination=mocks/mock_runner.go -package=mocks
type Runner interface {
	// Run executes cmd to completion, streaming its output to stdout and stderr.
	// A non-zero exit status is returned as *domain.CommandError.
	Run(ctx context.Context, cmd domain.Command, stdout, stderr io.Writer) error

	// Output executes cmd and returns its trimmed standard output.
	Output(ctx context.Context, cmd domain.Command) (string, error)
}
