package ports

// FileSystem is the set of host mutations the pipeline performs.
//
//go:generate go run go.uber.org/mock/mockgen -source=filesystem.go -destination=mocks/mock_filesystem.go -package=mocks
type FileSystem interface {
	// MkdirAll creates path and any missing parents.
	MkdirAll(path string) error
	// WriteFile replaces the content of path.
	WriteFile(path string, data []byte) error
	// ReadFile returns the content of path.
	ReadFile(path string) ([]byte, error)
	// CopyFile copies src over dst, creating dst's parent directory.
	CopyFile(src, dst string) error
	// Glob returns the sorted paths matching pattern.
	Glob(pattern string) ([]string, error)
	// Exists reports whether path exists.
	Exists(path string) (bool, error)
	// RemoveAll deletes path and everything below it.
	RemoveAll(path string) error
}
