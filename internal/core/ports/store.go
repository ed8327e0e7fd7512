package ports

import "go.trai.ch/libprov/internal/core/domain"

// RecordStore defines the interface for storing and retrieving provisioning records.
//
//go:generate go run go.uber.org/mock/mockgen -source=store.go -destination=mocks/mock_store.go -package=mocks
type RecordStore interface {
	// Get reads the record at path.
	// Returns nil, nil if not found.
	Get(path string) (*domain.Record, error)

	// Put writes the record to path.
	Put(path string, rec domain.Record) error
}
