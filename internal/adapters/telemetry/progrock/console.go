package progrock

import (
	"bytes"
	"strings"
	"sync"

	"github.com/vito/progrock"
	"go.trai.ch/libprov/internal/core/ports"
)

// Console is a progrock.Writer that shows recorded stages to the user.
// Stderr of every stage is relayed line by line as it arrives. Stdout,
// including the echoed commands, is held back and relayed only when the
// stage fails, so a failing configure shows its full report.
type Console struct {
	logger ports.Logger

	mu      sync.Mutex
	names   map[string]string
	streams map[string]*streams
}

type streams struct {
	stdout []byte
	stderr []byte // incomplete trailing line
	triple string
}

// NewConsole returns a Console relaying through logger.
func NewConsole(logger ports.Logger) *Console {
	return &Console{
		logger:  logger,
		names:   make(map[string]string),
		streams: make(map[string]*streams),
	}
}

// WriteStatus implements progrock.Writer.
func (c *Console) WriteStatus(update *progrock.StatusUpdate) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, v := range update.GetVertexes() {
		c.names[v.GetId()] = v.GetName()
	}

	for _, l := range update.GetLogs() {
		s := c.lookup(l.GetVertex())
		if l.GetStream() == progrock.LogStream_STDERR {
			s.stderr = c.relay(s.triple, append(s.stderr, l.GetData()...))
			continue
		}
		s.stdout = append(s.stdout, l.GetData()...)
	}

	for _, v := range update.GetVertexes() {
		if v.GetCompleted() != nil {
			c.finish(v.GetId(), v.Error != nil)
		}
	}
	return nil
}

// Close relays what is left of unfinished stages' stderr.
func (c *Console) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for id := range c.streams {
		c.finish(id, false)
	}
	return nil
}

func (c *Console) lookup(id string) *streams {
	s, ok := c.streams[id]
	if !ok {
		s = &streams{triple: tripleOf(c.names[id])}
		c.streams[id] = s
	}
	return s
}

func (c *Console) finish(id string, failed bool) {
	s, ok := c.streams[id]
	if !ok {
		return
	}
	delete(c.streams, id)

	c.relay(s.triple, append(s.stderr, '\n'))
	if failed {
		c.relay(s.triple, append(s.stdout, '\n'))
	}
}

// relay emits every complete line in buf and returns the incomplete rest.
func (c *Console) relay(triple string, buf []byte) []byte {
	for {
		i := bytes.IndexByte(buf, '\n')
		if i < 0 {
			return buf
		}
		line := strings.TrimSuffix(string(buf[:i]), "\r")
		buf = buf[i+1:]
		if line != "" {
			c.logger.Relay(triple, line)
		}
	}
}

// tripleOf extracts the triple from a "<triple>/<stage>" vertex name.
func tripleOf(name string) string {
	triple, _, _ := strings.Cut(name, "/")
	return triple
}
