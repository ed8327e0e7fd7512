// Package progrock records pipeline stages as progrock vertices.
package progrock

import (
	"context"
	"io"

	"github.com/opencontainers/go-digest"
	"github.com/vito/progrock"
	"go.trai.ch/libprov/internal/core/ports"
)

// Recorder implements ports.Telemetry on top of a progrock writer.
type Recorder struct {
	tape progrock.Writer
	rec  *progrock.Recorder
}

// New returns a Recorder that shows stage output through logger.
func New(logger ports.Logger) *Recorder {
	return NewRecorder(NewConsole(logger))
}

// NewRecorder returns a Recorder that forwards every status update to w.
func NewRecorder(w progrock.Writer) *Recorder {
	return &Recorder{tape: w, rec: progrock.NewRecorder(w)}
}

// Record opens the vertex for name and attaches it to the returned context.
// Vertex names are "<triple>/<stage>", unique within one provisioning run,
// so the name digest doubles as the vertex id.
func (r *Recorder) Record(ctx context.Context, name string) (context.Context, ports.Vertex) {
	v := &Vertex{
		name: name,
		rec:  r.rec.Vertex(digest.FromString(name), name),
	}
	return ports.ContextWithVertex(ctx, v), v
}

// Close flushes the session when the underlying writer holds resources.
func (r *Recorder) Close() error {
	closer, ok := r.tape.(io.Closer)
	if !ok {
		return nil
	}
	return closer.Close()
}
