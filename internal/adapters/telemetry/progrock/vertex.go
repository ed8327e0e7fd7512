package progrock

import (
	"fmt"
	"io"

	"github.com/vito/progrock"
	"go.trai.ch/libprov/internal/core/domain"
)

// Vertex is a single pipeline stage of one target triple.
type Vertex struct {
	name string
	rec  *progrock.VertexRecorder
}

// Stdout receives the output of commands run during the stage.
func (v *Vertex) Stdout() io.Writer {
	return v.rec.Stdout()
}

// Stderr receives the diagnostics of commands run during the stage.
func (v *Vertex) Stderr() io.Writer {
	return v.rec.Stderr()
}

// Log annotates the stage. Warnings and errors land on the error stream so
// they survive when only stderr is shown.
func (v *Vertex) Log(level domain.LogLevel, msg string) {
	w := v.rec.Stdout()
	if level >= domain.LogLevelWarn {
		w = v.rec.Stderr()
	}
	_, _ = fmt.Fprintf(w, "%s: %s\n", v.name, msg)
}

// Complete ends the stage, failed when err is non-nil.
func (v *Vertex) Complete(err error) {
	v.rec.Done(err)
}

// Cached marks a stage whose artifacts were already current.
func (v *Vertex) Cached() {
	v.rec.Cached()
}
