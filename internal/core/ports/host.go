package ports

import "context"

// HostQuery asks the host toolchain description system about architectures.
//
//go:generate go run go.uber.org/mock/mockgen -source=host.go -destination=mocks/mock_host.go -package=mocks
type HostQuery interface {
	// PackageArchitecture returns the host's native package architecture code.
	PackageArchitecture(ctx context.Context) (string, error)
	// TargetType returns the declared target triple for an architecture code.
	TargetType(ctx context.Context, code string) (string, error)
	// HostType returns the host's own triple.
	HostType(ctx context.Context) (string, error)
}
