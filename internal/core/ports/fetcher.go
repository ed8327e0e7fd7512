package ports

import (
	"context"

	"go.trai.ch/libprov/internal/core/domain"
)

// Downloader retrieves a remote file.
//
//go:generate go run go.uber.org/mock/mockgen -source=fetcher.go -destination=mocks/mock_fetcher.go -package=mocks
type Downloader interface {
	// Download stores the body of url at dst and returns the hex digest of the bytes written.
	Download(ctx context.Context, url, dst string) (digest string, err error)
}

// Extractor unpacks source archives.
type Extractor interface {
	// Extract unpacks archive into dst. Entries resolving outside dst are rejected.
	Extract(ctx context.Context, archive, dst string, format domain.ArchiveFormat) error
}
