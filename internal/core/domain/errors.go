package domain

import (
	"strconv"
	"strings"

	"go.trai.ch/zerr"
)

var (
	// ErrResolutionFailed is returned when no target triple can be produced for an architecture code.
	ErrResolutionFailed = zerr.New("architecture resolution failed")

	// ErrFetchFailed is returned when the source archive cannot be downloaded or unpacked.
	ErrFetchFailed = zerr.New("source fetch failed")

	// ErrBuildFailed is returned when configuring, compiling or installing the library fails.
	ErrBuildFailed = zerr.New("cross build failed")

	// ErrIntegrationFailed is returned when publishing into the host search paths fails.
	ErrIntegrationFailed = zerr.New("system integration failed")

	// ErrInvalidTransition is returned when a pipeline stage is entered out of order.
	ErrInvalidTransition = zerr.New("invalid pipeline transition")

	// ErrEmptyArchitecture is returned when an empty architecture code is resolved.
	ErrEmptyArchitecture = zerr.New("architecture code is empty")

	// ErrUnsupportedArchive is returned when the archive format cannot be determined.
	ErrUnsupportedArchive = zerr.New("unsupported archive format")

	// ErrArchiveEntryOutsideRoot is returned when an archive entry would be written outside the extraction directory.
	ErrArchiveEntryOutsideRoot = zerr.New("archive entry escapes extraction directory")

	// ErrDownloadStatus is returned when the archive server answers with a non-success status.
	ErrDownloadStatus = zerr.New("unexpected download status")

	// ErrMissingArtifact is returned when an expected build output is absent after installation.
	ErrMissingArtifact = zerr.New("expected build artifact is missing")

	// ErrNoDescriptors is returned when the install step produced no discovery descriptors.
	ErrNoDescriptors = zerr.New("no discovery descriptors installed")

	// ErrConfigReadFailed is returned when the config file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read config file")

	// ErrConfigParseFailed is returned when the config file cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse config file")

	// ErrInvalidConfig is returned when a configuration value is unusable.
	ErrInvalidConfig = zerr.New("invalid configuration")

	// ErrRecordReadFailed is returned when a provisioning record cannot be read.
	ErrRecordReadFailed = zerr.New("failed to read provisioning record")

	// ErrRecordWriteFailed is returned when a provisioning record cannot be written.
	ErrRecordWriteFailed = zerr.New("failed to write provisioning record")

	// ErrFingerprintFailed is returned when the artifact fingerprint cannot be computed.
	ErrFingerprintFailed = zerr.New("failed to fingerprint artifacts")
)

// StageError tags a failure with the pipeline stage that could not be entered.
// errors.Is matches both the stage's error class and the underlying cause.
type StageError struct {
	Stage  Stage
	Triple string
	Err    error
}

// NewStageError wraps err as a failure to enter stage.
func NewStageError(stage Stage, triple string, err error) *StageError {
	return &StageError{Stage: stage, Triple: triple, Err: err}
}

func (e *StageError) Error() string {
	var b strings.Builder
	b.WriteString(e.Stage.Failure().Error())
	if e.Triple != "" {
		b.WriteString(" [" + e.Triple + "]")
	}
	if e.Err != nil {
		b.WriteString(": " + e.Err.Error())
	}
	return b.String()
}

// Unwrap exposes the stage's error class and the cause.
func (e *StageError) Unwrap() []error {
	return []error{e.Stage.Failure(), e.Err}
}

// CommandError is returned when an external command exits unsuccessfully.
type CommandError struct {
	Name     string
	Args     []string
	ExitCode int
	Err      error
}

func (e *CommandError) Error() string {
	cmd := strings.Join(append([]string{e.Name}, e.Args...), " ")
	return "command failed (exit " + strconv.Itoa(e.ExitCode) + "): " + cmd
}

func (e *CommandError) Unwrap() error {
	return e.Err
}
