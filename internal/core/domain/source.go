package domain

import (
	"path"
	"strings"
)

// LibrarySource describes one fetched and unpacked source archive.
// It lives only between the fetch and cleanup stages.
type LibrarySource struct {
	Version string
	URL     string

	// ScratchDir is the per-triple workspace holding both the archive and the tree.
	ScratchDir  string
	ArchivePath string
	SourceDir   string

	// Digest is the BLAKE3 digest of the downloaded bytes. It is recorded,
	// never compared against anything.
	Digest string
}

// SourceURL expands a URL template for the given library version.
// The template may reference {version} and {library}.
func SourceURL(template, library, version string) string {
	r := strings.NewReplacer("{version}", version, "{library}", library)
	return r.Replace(template)
}

// ArchiveName returns the last path segment of a download URL.
func ArchiveName(url string) string {
	if i := strings.IndexAny(url, "?#"); i >= 0 {
		url = url[:i]
	}
	return path.Base(url)
}

// ArchiveFormat identifies the compression wrapped around a source tarball.
type ArchiveFormat string

const (
	// ArchiveGzip is a gzip-compressed tarball.
	ArchiveGzip ArchiveFormat = "tar.gz"
	// ArchiveXz is an xz-compressed tarball.
	ArchiveXz ArchiveFormat = "tar.xz"
)

// DetectArchiveFormat infers the archive format from a file name.
func DetectArchiveFormat(name string) (ArchiveFormat, error) {
	switch {
	case strings.HasSuffix(name, ".tar.gz"), strings.HasSuffix(name, ".tgz"):
		return ArchiveGzip, nil
	case strings.HasSuffix(name, ".tar.xz"), strings.HasSuffix(name, ".txz"):
		return ArchiveXz, nil
	default:
		return "", ErrUnsupportedArchive
	}
}

// SourceDirName is the directory a release tarball unpacks into,
// e.g. "libgpiod-2.1.3".
func SourceDirName(library, version string) string {
	return library + "-" + version
}
