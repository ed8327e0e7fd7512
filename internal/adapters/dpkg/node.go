package dpkg

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/libprov/internal/adapters/shell"
	"go.trai.ch/libprov/internal/core/ports"
)

// NodeID is the unique identifier for the host query Graft node.
const NodeID graft.ID = "adapter.hostquery"

func init() {
	graft.Register(graft.Node[ports.HostQuery]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{shell.NodeID},
		Run: func(ctx context.Context) (ports.HostQuery, error) {
			runner, err := graft.Dep[ports.Runner](ctx)
			if err != nil {
				return nil, err
			}
			return NewQuery(runner), nil
		},
	})
}
