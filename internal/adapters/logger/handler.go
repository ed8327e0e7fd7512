package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/muesli/termenv"
)

// TripleKey is the attribute that names the target triple a record is about.
// The pretty handler renders it as a leading tag instead of key=value.
const TripleKey = "triple"

type levelStyle struct {
	icon  string
	color string
}

// styleFor picks the icon and color for a level. Info and below are muted.
func styleFor(level slog.Level) levelStyle {
	switch {
	case level >= slog.LevelError:
		return levelStyle{icon: "✗ ", color: "#D93025"}
	case level >= slog.LevelWarn:
		return levelStyle{icon: "! ", color: "#F59E0B"}
	default:
		return levelStyle{color: "#667085"}
	}
}

// PrettyHandler is a slog.Handler that writes one colored line per record.
type PrettyHandler struct {
	out    *termenv.Output
	level  slog.Leveler
	prefix string // group path applied to attributes added later
	triple string
	fields []string
}

// NewPrettyHandler returns a PrettyHandler writing to w, or to stderr when w
// is nil. NO_COLOR disables styling.
func NewPrettyHandler(w io.Writer, opts *slog.HandlerOptions) *PrettyHandler {
	if w == nil {
		w = os.Stderr
	}
	var level slog.Leveler = slog.LevelInfo
	if opts != nil && opts.Level != nil {
		level = opts.Level
	}

	profile := termenv.EnvColorProfile()
	if os.Getenv("NO_COLOR") != "" {
		profile = termenv.Ascii
	}

	return &PrettyHandler{
		out:   termenv.NewOutput(w, termenv.WithProfile(profile), termenv.WithTTY(true)),
		level: level,
	}
}

// Enabled implements slog.Handler.
func (h *PrettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

// Handle implements slog.Handler.
//
//nolint:gocritic // slog.Handler interface requires slog.Record by value
func (h *PrettyHandler) Handle(_ context.Context, r slog.Record) error {
	triple := h.triple
	fields := append([]string(nil), h.fields...)
	r.Attrs(func(a slog.Attr) bool {
		if t, ok := h.tripleOf(a); ok {
			triple = t
			return true
		}
		fields = append(fields, h.field(a))
		return true
	})

	style := styleFor(r.Level)
	var line strings.Builder
	line.WriteString(style.icon)
	if triple != "" {
		line.WriteString("[" + triple + "] ")
	}
	line.WriteString(r.Message)
	for _, f := range fields {
		line.WriteString(" " + f)
	}

	styled := h.out.String(line.String()).Foreground(termenv.RGBColor(style.color))
	_, err := h.out.WriteString(styled.String() + "\n")
	return err
}

// WithAttrs implements slog.Handler.
func (h *PrettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := h.clone()
	for _, a := range attrs {
		if t, ok := h.tripleOf(a); ok {
			next.triple = t
			continue
		}
		next.fields = append(next.fields, h.field(a))
	}
	return next
}

// WithGroup implements slog.Handler.
func (h *PrettyHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	next := h.clone()
	next.prefix = h.prefix + name + "."
	return next
}

func (h *PrettyHandler) clone() *PrettyHandler {
	next := *h
	next.fields = append([]string(nil), h.fields...)
	return &next
}

// tripleOf reports whether a is the top-level triple attribute.
func (h *PrettyHandler) tripleOf(a slog.Attr) (string, bool) {
	if h.prefix != "" || a.Key != TripleKey {
		return "", false
	}
	return a.Value.String(), true
}

func (h *PrettyHandler) field(a slog.Attr) string {
	return h.prefix + a.Key + "=" + a.Value.String()
}
