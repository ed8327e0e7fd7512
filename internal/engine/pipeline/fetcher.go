package pipeline

import (
	"context"
	"path/filepath"

	"go.trai.ch/libprov/internal/core/domain"
	"go.trai.ch/libprov/internal/core/ports"
	"go.trai.ch/zerr"
)

// Fetcher downloads and unpacks the library source into a per-triple scratch workspace.
type Fetcher struct {
	cfg        domain.Config
	downloader ports.Downloader
	extractor  ports.Extractor
	fs         ports.FileSystem
	logger     ports.Logger
}

// NewFetcher creates a new Fetcher.
func NewFetcher(
	cfg domain.Config,
	downloader ports.Downloader,
	extractor ports.Extractor,
	fs ports.FileSystem,
	logger ports.Logger,
) *Fetcher {
	return &Fetcher{cfg: cfg, downloader: downloader, extractor: extractor, fs: fs, logger: logger}
}

// Fetch downloads version of the library for triple and unpacks it.
// The archive digest is recorded but not verified against anything.
func (f *Fetcher) Fetch(ctx context.Context, triple, version string) (domain.LibrarySource, error) {
	url := domain.SourceURL(f.cfg.URLTemplate, f.cfg.Library, version)
	scratch := f.cfg.Layout.ScratchDir(triple)
	src := domain.LibrarySource{
		Version:     version,
		URL:         url,
		ScratchDir:  scratch,
		ArchivePath: filepath.Join(scratch, domain.ArchiveName(url)),
		SourceDir:   filepath.Join(scratch, domain.SourceDirName(f.cfg.Library, version)),
	}

	format := f.cfg.ArchiveFormat
	if format == "" {
		detected, err := domain.DetectArchiveFormat(domain.ArchiveName(url))
		if err != nil {
			return domain.LibrarySource{}, zerr.With(err, "url", url)
		}
		format = detected
	}

	if err := f.fs.RemoveAll(scratch); err != nil {
		return domain.LibrarySource{}, err
	}
	if err := f.fs.MkdirAll(scratch); err != nil {
		return domain.LibrarySource{}, err
	}

	digest, err := f.downloader.Download(ctx, url, src.ArchivePath)
	if err != nil {
		return domain.LibrarySource{}, err
	}
	src.Digest = digest
	f.logger.Warn("source archive " + domain.ArchiveName(url) + " is not verified (blake3 " + digest + ")")

	if err := f.extractor.Extract(ctx, src.ArchivePath, scratch, format); err != nil {
		return domain.LibrarySource{}, err
	}

	ok, err := f.fs.Exists(src.SourceDir)
	if err != nil {
		return domain.LibrarySource{}, err
	}
	if !ok {
		return domain.LibrarySource{}, zerr.With(domain.ErrMissingArtifact, "path", src.SourceDir)
	}

	return src, nil
}
