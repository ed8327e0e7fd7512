package domain

import "strings"

// TargetArchitecture pairs a package architecture code with the toolchain
// target triple used to cross-compile for it.
type TargetArchitecture struct {
	// Code is the package architecture identifier (e.g. "arm64").
	Code string
	// Triple is the vendor-qualified toolchain identifier (e.g. "aarch64-linux-gnu").
	Triple string
}

// String returns "code (triple)".
func (a TargetArchitecture) String() string {
	return a.Code + " (" + a.Triple + ")"
}

// knownTriples is the fixed architecture table. Every other code is resolved
// through the host toolchain description system.
var knownTriples = map[string]string{
	"armhf": "arm-linux-gnueabihf",
	"arm64": "aarch64-linux-gnu",
	"amd64": "x86_64-linux-gnu",
	"i386":  "i686-linux-gnu",
}

// LookupTriple returns the fixed triple for a recognized architecture code.
// It never touches the host.
func LookupTriple(code string) (string, bool) {
	triple, ok := knownTriples[strings.TrimSpace(code)]
	return triple, ok
}

// KnownArchitectures returns the recognized codes in a stable order.
func KnownArchitectures() []string {
	return []string{"armhf", "arm64", "amd64", "i386"}
}

// ParseArchitectureList splits a comma or whitespace separated list of
// architecture codes, dropping empty entries and duplicates while keeping
// the first-seen order.
func ParseArchitectureList(raw string) []string {
	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n'
	})

	seen := make(map[string]struct{}, len(fields))
	codes := make([]string, 0, len(fields))
	for _, f := range fields {
		if _, dup := seen[f]; dup {
			continue
		}
		seen[f] = struct{}{}
		codes = append(codes, f)
	}
	return codes
}
