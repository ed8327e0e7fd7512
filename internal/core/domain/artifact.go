package domain

// BuildArtifact is what the cross builder leaves behind in a prefix.
type BuildArtifact struct {
	Triple       string
	Prefix       string
	LibDir       string
	IncludeDir   string
	PkgConfigDir string

	// Descriptors are absolute paths of the installed .pc files.
	Descriptors []string
}

// SystemIntegration describes the host-wide entries written for one triple.
type SystemIntegration struct {
	PkgConfigDir string

	// Descriptors are absolute paths of the published .pc copies.
	Descriptors []string

	LoaderFragment        string
	LoaderFragmentContent string
}

// LoaderFragmentContent renders a loader configuration fragment naming a
// single library directory.
func LoaderFragmentContent(libDir string) string {
	return libDir + "\n"
}
