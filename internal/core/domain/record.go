package domain

import "time"

// Record is the provisioning record stored in each architecture prefix.
type Record struct {
	Library     string    `json:"library"`
	Version     string    `json:"version"`
	Arch        string    `json:"arch,omitzero"`
	Triple      string    `json:"triple"`
	URL         string    `json:"url,omitzero"`
	Digest      string    `json:"archive_blake3,omitzero"`
	Fingerprint string    `json:"fingerprint,omitzero"`
	Timestamp   time.Time `json:"timestamp,omitzero"`
}

// Matches reports whether the record describes the given library release.
func (r *Record) Matches(library, version string) bool {
	return r != nil && r.Library == library && r.Version == version
}

// Health is the state of an installed triple as reported by status checks.
type Health string

const (
	// HealthOK means the installed artifacts match the recorded fingerprint.
	HealthOK Health = "ok"
	// HealthDrifted means artifacts changed since they were recorded.
	HealthDrifted Health = "drifted"
	// HealthMissing means no provisioning record exists for the triple.
	HealthMissing Health = "missing"
)

// Status reports the health of one provisioned triple.
type Status struct {
	Arch   TargetArchitecture
	Health Health
	Record *Record
	// Fingerprint is the freshly computed fingerprint, empty when missing.
	Fingerprint string
}
