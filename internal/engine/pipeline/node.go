package pipeline

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/libprov/internal/adapters/dpkg"               //nolint:depguard // Wired in engine wiring
	"go.trai.ch/libprov/internal/adapters/fetch"              //nolint:depguard // Wired in engine wiring
	"go.trai.ch/libprov/internal/adapters/fs"                 //nolint:depguard // Wired in engine wiring
	"go.trai.ch/libprov/internal/adapters/logger"             //nolint:depguard // Wired in engine wiring
	"go.trai.ch/libprov/internal/adapters/shell"              //nolint:depguard // Wired in engine wiring
	"go.trai.ch/libprov/internal/adapters/telemetry/progrock" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/libprov/internal/core/ports"
)

// NodeID is the unique identifier for the pipeline dependencies Graft node.
const NodeID graft.ID = "engine.pipeline"

func init() {
	graft.Register(graft.Node[Deps]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			shell.NodeID,
			fs.FileSystemNodeID,
			fetch.DownloaderNodeID,
			fetch.ExtractorNodeID,
			dpkg.NodeID,
			logger.NodeID,
			progrock.NodeID,
		},
		Run: func(ctx context.Context) (Deps, error) {
			runner, err := graft.Dep[ports.Runner](ctx)
			if err != nil {
				return Deps{}, err
			}

			fsys, err := graft.Dep[ports.FileSystem](ctx)
			if err != nil {
				return Deps{}, err
			}

			downloader, err := graft.Dep[ports.Downloader](ctx)
			if err != nil {
				return Deps{}, err
			}

			extractor, err := graft.Dep[ports.Extractor](ctx)
			if err != nil {
				return Deps{}, err
			}

			host, err := graft.Dep[ports.HostQuery](ctx)
			if err != nil {
				return Deps{}, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return Deps{}, err
			}

			tel, err := graft.Dep[ports.Telemetry](ctx)
			if err != nil {
				return Deps{}, err
			}

			return Deps{
				Runner:     runner,
				FS:         fsys,
				Downloader: downloader,
				Extractor:  extractor,
				Host:       host,
				Logger:     log,
				Telemetry:  tel,
			}, nil
		},
	})
}
