package domain

import (
	"go.trai.ch/zerr"
)

// Stage is a state of the provisioning pipeline.
type Stage int

const (
	// StagePending is the state before anything has run.
	StagePending Stage = iota
	// StageResolved means the architecture code has a target triple.
	StageResolved
	// StageFetched means the source archive is downloaded and unpacked.
	StageFetched
	// StageBuilt means the library is configured and compiled.
	StageBuilt
	// StageInstalled means the build outputs are in the prefix.
	StageInstalled
	// StageIntegrated means discovery metadata and loader config are published.
	StageIntegrated
	// StageCleanedUp means the scratch workspace is gone. Terminal.
	StageCleanedUp
)

var stageNames = [...]string{
	StagePending:    "pending",
	StageResolved:   "resolved",
	StageFetched:    "fetched",
	StageBuilt:      "built",
	StageInstalled:  "installed",
	StageIntegrated: "integrated",
	StageCleanedUp:  "cleaned-up",
}

// String returns the lower-case stage name.
func (s Stage) String() string {
	if s < 0 || int(s) >= len(stageNames) {
		return "unknown"
	}
	return stageNames[s]
}

// Next returns the only stage reachable from s.
func (s Stage) Next() (Stage, bool) {
	if s >= StageCleanedUp || s < StagePending {
		return s, false
	}
	return s + 1, true
}

// IsTerminal reports whether no further transition exists.
func (s Stage) IsTerminal() bool {
	return s == StageCleanedUp
}

// Failure returns the error class reported when entering s fails.
func (s Stage) Failure() error {
	switch s {
	case StageResolved:
		return ErrResolutionFailed
	case StageFetched:
		return ErrFetchFailed
	case StageBuilt, StageInstalled:
		return ErrBuildFailed
	case StageIntegrated, StageCleanedUp:
		return ErrIntegrationFailed
	default:
		return ErrInvalidTransition
	}
}

// Progress tracks one pipeline run. Transitions are strictly linear; there
// is no way back.
type Progress struct {
	current Stage
	history []Stage
}

// NewProgress starts a run in StagePending.
func NewProgress() *Progress {
	return &Progress{current: StagePending, history: []Stage{StagePending}}
}

// Current returns the last stage entered.
func (p *Progress) Current() Stage {
	return p.current
}

// History returns every stage entered so far, oldest first.
func (p *Progress) History() []Stage {
	out := make([]Stage, len(p.history))
	copy(out, p.history)
	return out
}

// Advance moves to the given stage. Only the immediate successor is allowed.
func (p *Progress) Advance(to Stage) error {
	next, ok := p.current.Next()
	if !ok || next != to {
		err := zerr.With(ErrInvalidTransition, "from", p.current.String())
		return zerr.With(err, "to", to.String())
	}
	p.current = to
	p.history = append(p.history, to)
	return nil
}
