// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/libprov/internal/adapters/cas"
	_ "go.trai.ch/libprov/internal/adapters/config"
	_ "go.trai.ch/libprov/internal/adapters/dpkg"
	_ "go.trai.ch/libprov/internal/adapters/fetch"
	_ "go.trai.ch/libprov/internal/adapters/fs"
	_ "go.trai.ch/libprov/internal/adapters/logger"
	_ "go.trai.ch/libprov/internal/adapters/shell"
	_ "go.trai.ch/libprov/internal/adapters/telemetry/progrock"
	// Register app and engine nodes.
	_ "go.trai.ch/libprov/internal/app"
	_ "go.trai.ch/libprov/internal/engine/pipeline"
)
