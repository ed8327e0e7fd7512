package ports

import "go.trai.ch/libprov/internal/core/domain"

// ConfigLoader defines the interface for loading the provisioning configuration.
//
//go:generate go run go.uber.org/mock/mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load reads the configuration file at path on top of the built-in defaults.
	// A missing file is an error only when required is true.
	Load(path string, required bool) (domain.Config, error)
}
