package fetch

import (
	"archive/tar"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/gzip"
	"github.com/ulikunitz/xz"
	"go.trai.ch/libprov/internal/core/domain"
	"go.trai.ch/zerr"
)

// Extractor implements ports.Extractor for gzip and xz compressed tarballs.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract unpacks archive into dst. Every entry is created through an
// os.Root opened at dst, so neither names nor symlinks written by earlier
// entries can place a file outside it. Entries that escape lexically are
// rejected with domain.ErrArchiveEntryOutsideRoot.
func (e *Extractor) Extract(ctx context.Context, archive, dst string, format domain.ArchiveFormat) error {
	f, err := os.Open(archive) //nolint:gosec // archive lives in our scratch dir
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to open archive"), "path", archive)
	}
	defer func() { _ = f.Close() }()

	stream, err := decompress(f, format)
	if err != nil {
		return zerr.With(err, "path", archive)
	}

	if err := os.MkdirAll(dst, domain.DirPerm); err != nil {
		return zerr.Wrap(err, "failed to create extraction directory")
	}
	root, err := os.OpenRoot(dst)
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to open extraction directory"), "path", dst)
	}
	defer func() { _ = root.Close() }()

	if err := untar(ctx, tar.NewReader(stream), root); err != nil {
		return zerr.With(err, "path", archive)
	}
	return nil
}

func decompress(r io.Reader, format domain.ArchiveFormat) (io.Reader, error) {
	switch format {
	case domain.ArchiveGzip:
		gz, err := gzip.NewReader(r)
		if err != nil {
			return nil, zerr.Wrap(err, "corrupt gzip stream")
		}
		return gz, nil
	case domain.ArchiveXz:
		xr, err := xz.NewReader(r)
		if err != nil {
			return nil, zerr.Wrap(err, "corrupt xz stream")
		}
		return xr, nil
	default:
		return nil, zerr.With(domain.ErrUnsupportedArchive, "format", string(format))
	}
}

func untar(ctx context.Context, tr *tar.Reader, root *os.Root) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return zerr.Wrap(err, "corrupt tar stream")
		}

		name, err := localName(hdr.Name)
		if err != nil {
			return err
		}

		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := root.MkdirAll(name, domain.DirPerm); err != nil {
				return zerr.With(zerr.Wrap(err, "failed to create directory"), "entry", hdr.Name)
			}
		case tar.TypeReg:
			if err := writeEntry(root, tr, hdr, name); err != nil {
				return zerr.With(err, "entry", hdr.Name)
			}
		case tar.TypeSymlink:
			if err := linkEntry(root, hdr, name); err != nil {
				return zerr.With(err, "entry", hdr.Name)
			}
		case tar.TypeLink:
			if err := hardLinkEntry(root, hdr, name); err != nil {
				return zerr.With(err, "entry", hdr.Name)
			}
		default:
			// pax global headers and device nodes carry nothing a source tree needs.
		}
	}
}

func writeEntry(root *os.Root, r io.Reader, hdr *tar.Header, name string) error {
	if err := root.MkdirAll(filepath.Dir(name), domain.DirPerm); err != nil {
		return zerr.Wrap(err, "failed to create directory")
	}

	mode := hdr.FileInfo().Mode().Perm()
	f, err := root.OpenFile(name, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode)
	if err != nil {
		return zerr.Wrap(err, "failed to create file")
	}

	if _, err := io.Copy(f, r); err != nil { //nolint:gosec // archive size is bounded by the download
		_ = f.Close()
		return zerr.Wrap(err, "failed to write file")
	}
	if err := f.Close(); err != nil {
		return zerr.Wrap(err, "failed to write file")
	}

	// Autotools compares timestamps; keep the archive's so make does not
	// try to regenerate configure.
	if err := root.Chtimes(name, hdr.ModTime, hdr.ModTime); err != nil {
		return zerr.Wrap(err, "failed to set file times")
	}
	return root.Chmod(name, mode)
}

// linkEntry creates a symlink whose target stays inside the tree when read
// relative to the link's own directory. Targets that only escape through
// other links are left to os.Root, which refuses to follow them out.
func linkEntry(root *os.Root, hdr *tar.Header, name string) error {
	if filepath.IsAbs(hdr.Linkname) {
		return zerr.With(domain.ErrArchiveEntryOutsideRoot, "link", hdr.Linkname)
	}
	if !filepath.IsLocal(filepath.Join(filepath.Dir(name), hdr.Linkname)) {
		return zerr.With(domain.ErrArchiveEntryOutsideRoot, "link", hdr.Linkname)
	}

	if err := root.MkdirAll(filepath.Dir(name), domain.DirPerm); err != nil {
		return zerr.Wrap(err, "failed to create directory")
	}
	_ = root.Remove(name)
	if err := root.Symlink(hdr.Linkname, name); err != nil {
		return zerr.Wrap(err, "failed to create symlink")
	}
	return nil
}

func hardLinkEntry(root *os.Root, hdr *tar.Header, name string) error {
	source, err := localName(hdr.Linkname)
	if err != nil {
		return err
	}
	if err := root.MkdirAll(filepath.Dir(name), domain.DirPerm); err != nil {
		return zerr.Wrap(err, "failed to create directory")
	}
	_ = root.Remove(name)
	if err := root.Link(source, name); err != nil {
		return zerr.Wrap(err, "failed to create hard link")
	}
	return nil
}

// localName cleans an archive path and rejects absolute names and names
// that climb out of the tree.
func localName(name string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(name))
	if !filepath.IsLocal(clean) {
		return "", zerr.With(domain.ErrArchiveEntryOutsideRoot, "entry", name)
	}
	return clean, nil
}
