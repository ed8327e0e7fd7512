package domain

import (
	"path/filepath"
	"strings"
)

const (
	// DefaultLibrary is the library provisioned when nothing else is configured.
	DefaultLibrary = "libgpiod"

	// DefaultVersion is the pinned library release.
	DefaultVersion = "2.1.3"

	// DefaultURLTemplate is where release tarballs are downloaded from.
	DefaultURLTemplate = "https://mirrors.edge.kernel.org/pub/software/libs/{library}/{library}-{version}.tar.gz"

	// DefaultRoot is the host filesystem root all system paths are joined to.
	DefaultRoot = "/"

	// DefaultPrefixRoot holds one installation prefix per triple.
	DefaultPrefixRoot = "/usr/local"

	// DefaultWorkDir holds one scratch workspace per triple.
	DefaultWorkDir = "/tmp/libprov"

	// DefaultPkgConfigDirTemplate is the conventional multiarch discovery directory.
	DefaultPkgConfigDirTemplate = "/usr/lib/{triple}/pkgconfig"

	// DefaultLoaderConfDir is the dynamic loader configuration fragment directory.
	DefaultLoaderConfDir = "/etc/ld.so.conf.d"

	// RecordFileName is the provisioning record kept inside each prefix.
	RecordFileName = ".libprov.json"

	// ConfigFileName is the default configuration file name.
	ConfigFileName = "libprov.yaml"

	// DirPerm is the permission for directories created under system paths (rwxr-xr-x).
	DirPerm = 0o755

	// FilePerm is the permission for files published into system paths (rw-r--r--).
	FilePerm = 0o644
)

// Layout computes every filesystem location the pipeline touches.
// All paths are rooted at Root, so tests can point it at a temporary directory.
type Layout struct {
	Root                 string
	Library              string
	PrefixRoot           string
	WorkDir              string
	PkgConfigDirTemplate string
	LoaderConfDir        string
}

// DefaultLayout returns the production layout for the default library.
func DefaultLayout() Layout {
	return Layout{
		Root:                 DefaultRoot,
		Library:              DefaultLibrary,
		PrefixRoot:           DefaultPrefixRoot,
		WorkDir:              DefaultWorkDir,
		PkgConfigDirTemplate: DefaultPkgConfigDirTemplate,
		LoaderConfDir:        DefaultLoaderConfDir,
	}
}

func (l Layout) rooted(p string) string {
	root := l.Root
	if root == "" {
		root = DefaultRoot
	}
	return filepath.Join(root, p)
}

// IsHostRoot reports whether the layout targets the live host filesystem.
func (l Layout) IsHostRoot() bool {
	return l.Root == "" || filepath.Clean(l.Root) == "/"
}

// InstallPrefix returns the prefix as seen from inside Root. It is what
// the build is configured with and what installed descriptors refer to.
func (l Layout) InstallPrefix(triple string) string {
	return filepath.Join("/", l.PrefixRoot, triple)
}

// InstallLibDir returns the library directory as seen from inside Root.
func (l Layout) InstallLibDir(triple string) string {
	return filepath.Join(l.InstallPrefix(triple), "lib")
}

// InstallIncludeDir returns the header directory as seen from inside Root.
func (l Layout) InstallIncludeDir(triple string) string {
	return filepath.Join(l.InstallPrefix(triple), "include")
}

// Prefix returns the architecture-scoped installation prefix on the host.
func (l Layout) Prefix(triple string) string {
	return l.rooted(l.InstallPrefix(triple))
}

// LibDir returns the library directory inside the prefix.
func (l Layout) LibDir(triple string) string {
	return filepath.Join(l.Prefix(triple), "lib")
}

// IncludeDir returns the header directory inside the prefix.
func (l Layout) IncludeDir(triple string) string {
	return filepath.Join(l.Prefix(triple), "include")
}

// PrefixPkgConfigDir returns where the build installs its discovery descriptors.
func (l Layout) PrefixPkgConfigDir(triple string) string {
	return filepath.Join(l.LibDir(triple), "pkgconfig")
}

// RecordPath returns the provisioning record path for a triple.
func (l Layout) RecordPath(triple string) string {
	return filepath.Join(l.Prefix(triple), RecordFileName)
}

// ScratchDir returns the per-triple scratch workspace.
func (l Layout) ScratchDir(triple string) string {
	return l.rooted(filepath.Join(l.WorkDir, triple))
}

// PkgConfigDir returns the conventional multiarch discovery directory for a triple.
func (l Layout) PkgConfigDir(triple string) string {
	return l.rooted(strings.ReplaceAll(l.PkgConfigDirTemplate, "{triple}", triple))
}

// LoaderFragment returns the loader configuration fragment path for a triple.
// The name carries the library so the distribution's own per-triple
// fragment (e.g. x86_64-linux-gnu.conf) is never overwritten.
func (l Layout) LoaderFragment(triple string) string {
	return filepath.Join(l.rooted(l.LoaderConfDir), l.Library+"-"+triple+".conf")
}
