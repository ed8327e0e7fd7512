package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/libprov/internal/adapters/cas"                //nolint:depguard // Wired in app layer
	"go.trai.ch/libprov/internal/adapters/config"             //nolint:depguard // Wired in app layer
	"go.trai.ch/libprov/internal/adapters/fs"                 //nolint:depguard // Wired in app layer
	"go.trai.ch/libprov/internal/adapters/logger"             //nolint:depguard // Wired in app layer
	"go.trai.ch/libprov/internal/adapters/telemetry/progrock" //nolint:depguard // Wired in app layer
	"go.trai.ch/libprov/internal/core/ports"
	"go.trai.ch/libprov/internal/engine/pipeline"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

func init() {
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
			cas.NodeID,
			fs.HasherNodeID,
			pipeline.NodeID,
		},
		Run: runAppNode,
	})

	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			logger.NodeID,
			progrock.NodeID,
		},
		Run: runComponentsNode,
	})
}

func runAppNode(ctx context.Context) (*App, error) {
	loader, err := graft.Dep[ports.ConfigLoader](ctx)
	if err != nil {
		return nil, err
	}

	store, err := graft.Dep[ports.RecordStore](ctx)
	if err != nil {
		return nil, err
	}

	hasher, err := graft.Dep[ports.Hasher](ctx)
	if err != nil {
		return nil, err
	}

	deps, err := graft.Dep[pipeline.Deps](ctx)
	if err != nil {
		return nil, err
	}

	return New(loader, store, hasher, deps), nil
}

func runComponentsNode(ctx context.Context) (*Components, error) {
	app, err := graft.Dep[*App](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	tel, err := graft.Dep[ports.Telemetry](ctx)
	if err != nil {
		return nil, err
	}

	return &Components{
		App:       app,
		Logger:    log,
		Telemetry: tel,
	}, nil
}
