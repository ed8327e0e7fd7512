package ports

// Hasher defines the interface for fingerprinting installed artifacts.
//
//go:generate go run go.uber.org/mock/mockgen -source=hasher.go -destination=mocks/mock_hasher.go -package=mocks
type Hasher interface {
	// Fingerprint hashes the content of every file under the given paths.
	// Files whose base name matches one of the ignore patterns are skipped.
	Fingerprint(paths []string, ignores []string) (string, error)
}
