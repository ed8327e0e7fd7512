// Package logger implements ports.Logger on log/slog, with a colored
// human-readable format and a JSON format for machines.
package logger

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"go.trai.ch/libprov/internal/core/domain"
	"go.trai.ch/libprov/internal/core/ports"
)

// messager is implemented by zerr errors: Message is the error's own text
// without its causes.
type messager interface {
	Message() string
}

// Logger implements ports.Logger. The output format can be switched at any
// time; the destination survives the switch.
type Logger struct {
	mu   sync.RWMutex
	sink io.Writer
	json bool
	log  *slog.Logger
}

// New returns a Logger printing the pretty format to stderr.
func New() ports.Logger {
	l := &Logger{}
	l.reset(os.Stderr, false)
	return l
}

// reset rebuilds the slog handler. Callers hold the write lock, except New.
func (l *Logger) reset(w io.Writer, json bool) {
	if w == nil {
		w = os.Stderr
	}
	l.sink, l.json = w, json

	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if json {
		l.log = slog.New(slog.NewJSONHandler(w, opts))
		return
	}
	l.log = slog.New(NewPrettyHandler(w, opts))
}

// SetOutput redirects the log to w, stderr when w is nil.
func (l *Logger) SetOutput(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.reset(w, l.json)
}

// SetJSON selects the JSON format when enable is set.
func (l *Logger) SetJSON(enable bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.reset(l.sink, enable)
}

func (l *Logger) Info(msg string) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	l.log.Info(msg)
}

func (l *Logger) Warn(msg string) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	l.log.Warn(msg)
}

// Relay prints a line of command output tagged with triple. Lines are
// informational; failures are reported through Error.
func (l *Logger) Relay(triple, line string) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	l.log.Info(line, TripleKey, triple)
}

// Error reports err. A failing pipeline stage contributes the triple, and in
// JSON the stage name. The pretty format prints the cause chain one entry per
// line.
func (l *Logger) Error(err error) {
	if err == nil {
		return
	}
	l.mu.RLock()
	defer l.mu.RUnlock()

	var attrs []any
	var stageErr *domain.StageError
	if errors.As(err, &stageErr) && stageErr.Triple != "" {
		attrs = append(attrs, TripleKey, stageErr.Triple)
	}

	if l.json {
		if stageErr != nil {
			attrs = append(attrs, "stage", stageErr.Stage.String())
		}
		l.log.Error("provisioning failed", append(attrs, "error", err.Error())...)
		return
	}

	l.log.Error(formatErrorEntries(collectErrorEntries(err)), attrs...)
}

// collectErrorEntries flattens err into one message per link of its chain.
// Wrappers without a message of their own are skipped; the first error that
// is neither a zerr error nor a stage failure ends the walk with its full
// text.
func collectErrorEntries(err error) []string {
	var entries []string
	for err != nil {
		if stageErr, ok := err.(*domain.StageError); ok {
			entries = append(entries, stageErr.Stage.Failure().Error())
			err = stageErr.Err
			continue
		}
		m, ok := err.(messager)
		if !ok {
			return append(entries, err.Error())
		}
		if msg := m.Message(); msg != "" {
			entries = append(entries, msg)
		}
		err = errors.Unwrap(err)
	}
	return entries
}

// formatErrorEntries renders the head entry as the error and the rest as
// its causes, indenting continuation lines of multi-line messages.
func formatErrorEntries(entries []string) string {
	const indent = "       "
	var b strings.Builder
	for i, entry := range entries {
		head, rest, _ := strings.Cut(entry, "\n")
		switch i {
		case 0:
			b.WriteString("Error: " + head)
		case 1:
			b.WriteString("\n\n  Caused by:\n    -> " + head)
		default:
			b.WriteString("\n    -> " + head)
		}
		if rest != "" {
			b.WriteString("\n" + indent + strings.ReplaceAll(rest, "\n", "\n"+indent))
		}
	}
	return b.String()
}
