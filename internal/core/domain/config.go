package domain

// Config is the fully resolved configuration of a provisioning run.
type Config struct {
	Library     string
	Version     string
	URLTemplate string
	// ArchiveFormat forces the archive format; empty means detect from the URL.
	ArchiveFormat ArchiveFormat

	Layout Layout

	// Architectures lists codes to provision; empty means the host's native one.
	Architectures []string

	ConfigureFlags []string
	Make           []string
	Ldconfig       []string
	// Jobs bounds make parallelism; zero means every available core.
	Jobs int
	// Env holds extra "KEY=VALUE" entries for configure and make.
	Env []string
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() Config {
	return Config{
		Library:     DefaultLibrary,
		Version:     DefaultVersion,
		URLTemplate: DefaultURLTemplate,
		Layout:      DefaultLayout(),
		Make:        []string{"make"},
		Ldconfig:    []string{"ldconfig"},
	}
}

// SourceURL returns the download URL for the configured version.
func (c Config) SourceURL() string {
	return SourceURL(c.URLTemplate, c.Library, c.Version)
}
