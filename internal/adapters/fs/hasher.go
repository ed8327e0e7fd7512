package fs

import (
	"encoding/binary"
	"fmt"
	"io"
	iofs "io/fs"
	"os"
	"path/filepath"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/libprov/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Hasher = (*Hasher)(nil)

// Hasher fingerprints installed artifacts.
type Hasher struct {
	walker *Walker
}

// NewHasher creates a new Hasher.
func NewHasher(walker *Walker) *Hasher {
	return &Hasher{walker: walker}
}

// ComputeFileHash computes the XXHash of a file's content.
func (h *Hasher) ComputeFileHash(path string) (uint64, error) {
	f, err := os.Open(path) //nolint:gosec // Path is controlled by caller
	if err != nil {
		return 0, zerr.With(zerr.Wrap(err, "failed to open file"), "path", path)
	}
	defer f.Close() //nolint:errcheck // Best effort close in defer

	hasher := xxhash.New()
	if _, err := io.Copy(hasher, f); err != nil {
		return 0, zerr.With(zerr.Wrap(err, "failed to hash file content"), "path", path)
	}

	return hasher.Sum64(), nil
}

// Fingerprint hashes the given files and directory trees in order.
// File names are hashed relative to the argument they were found under,
// so two trees with the same content and shape fingerprint identically.
func (h *Hasher) Fingerprint(paths, ignores []string) (string, error) {
	hasher := xxhash.New()

	for _, path := range paths {
		info, err := os.Lstat(path)
		if err != nil {
			if os.IsNotExist(err) {
				return "", zerr.With(zerr.Wrap(iofs.ErrNotExist, "artifact missing"), "path", path)
			}
			return "", zerr.With(zerr.Wrap(err, "failed to stat artifact"), "path", path)
		}

		if !info.IsDir() {
			if err := h.hashEntry(path, filepath.Base(path), hasher); err != nil {
				return "", err
			}
			_, _ = hasher.Write([]byte{0})
			continue
		}

		for file := range h.walker.WalkFiles(path, ignores) {
			rel, err := filepath.Rel(path, file)
			if err != nil {
				return "", zerr.With(zerr.Wrap(err, "failed to relativize path"), "path", file)
			}
			if err := h.hashEntry(file, rel, hasher); err != nil {
				return "", err
			}
		}
		_, _ = hasher.Write([]byte{0}) // Section separator
	}

	return fmt.Sprintf("%016x", hasher.Sum64()), nil
}

// hashEntry writes name and the entry's content hash. Symlinks contribute
// their target instead of the file they point at.
func (h *Hasher) hashEntry(path, name string, mainHasher io.Writer) error {
	_, _ = mainHasher.Write([]byte(filepath.ToSlash(name)))
	_, _ = mainHasher.Write([]byte{0})

	info, err := os.Lstat(path)
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to stat path"), "path", path)
	}

	if info.Mode()&os.ModeSymlink != 0 {
		target, err := os.Readlink(path)
		if err != nil {
			return zerr.With(zerr.Wrap(err, "failed to read symlink"), "path", path)
		}
		_, _ = mainHasher.Write([]byte(target))
		_, _ = mainHasher.Write([]byte{0})
		return nil
	}

	hash, err := h.ComputeFileHash(path)
	if err != nil {
		return err
	}

	if err := binary.Write(mainHasher, binary.LittleEndian, hash); err != nil {
		return zerr.Wrap(err, "failed to write hash to digest")
	}
	return nil
}
