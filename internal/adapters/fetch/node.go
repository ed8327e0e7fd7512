package fetch

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/libprov/internal/core/ports"
)

const (
	// DownloaderNodeID is the unique identifier for the downloader Graft node.
	DownloaderNodeID graft.ID = "adapter.downloader"
	// ExtractorNodeID is the unique identifier for the extractor Graft node.
	ExtractorNodeID graft.ID = "adapter.extractor"
)

func init() {
	graft.Register(graft.Node[ports.Downloader]{
		ID:        DownloaderNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.Downloader, error) {
			return NewDownloader(), nil
		},
	})

	graft.Register(graft.Node[ports.Extractor]{
		ID:        ExtractorNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.Extractor, error) {
			return NewExtractor(), nil
		},
	})
}
