package progrock_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	vprogrock "github.com/vito/progrock"
	"go.trai.ch/libprov/internal/adapters/telemetry/progrock"
	"go.trai.ch/libprov/internal/core/domain"
	"go.trai.ch/libprov/internal/core/ports"
	"go.trai.ch/libprov/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

var _ ports.Telemetry = (*progrock.Recorder)(nil)

type captureWriter struct {
	mu      sync.Mutex
	updates []*vprogrock.StatusUpdate
	closed  bool
}

func (w *captureWriter) WriteStatus(u *vprogrock.StatusUpdate) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.updates = append(w.updates, u)
	return nil
}

func (w *captureWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.closed = true
	return nil
}

// vertex returns the latest state recorded for the vertex called name.
func (w *captureWriter) vertex(name string) *vprogrock.Vertex {
	w.mu.Lock()
	defer w.mu.Unlock()
	var last *vprogrock.Vertex
	for _, u := range w.updates {
		for _, v := range u.GetVertexes() {
			if v.GetName() == name {
				last = v
			}
		}
	}
	return last
}

func (w *captureWriter) logs() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	var b strings.Builder
	for _, u := range w.updates {
		for _, l := range u.GetLogs() {
			b.Write(l.GetData())
		}
	}
	return b.String()
}

func TestRecorder_StageLifecycle(t *testing.T) {
	w := &captureWriter{}
	recorder := progrock.NewRecorder(w)
	ctx := context.Background()

	fetchedName := domain.VertexName("aarch64-linux-gnu", domain.StageFetched)
	vctx, fetched := recorder.Record(ctx, fetchedName)
	assert.Equal(t, fetched, ports.VertexFromContext(vctx))
	_, err := fetched.Stdout().Write([]byte("downloading\n"))
	require.NoError(t, err)
	fetched.Log(domain.LogLevelWarn, "archive digest recorded")
	fetched.Complete(nil)

	builtName := domain.VertexName("aarch64-linux-gnu", domain.StageBuilt)
	_, built := recorder.Record(ctx, builtName)
	built.Complete(errors.New("make failed"))

	_, skipped := recorder.Record(ctx, "x86_64-linux-gnu")
	skipped.Cached()
	skipped.Complete(nil)

	require.NoError(t, recorder.Close())
	assert.True(t, w.closed)

	v := w.vertex(fetchedName)
	require.NotNil(t, v)
	assert.NotNil(t, v.GetCompleted())
	assert.Nil(t, v.Error)

	v = w.vertex(builtName)
	require.NotNil(t, v)
	require.NotNil(t, v.Error)
	assert.Contains(t, v.GetError(), "make failed")

	v = w.vertex("x86_64-linux-gnu")
	require.NotNil(t, v)
	assert.True(t, v.GetCached())

	logs := w.logs()
	assert.Contains(t, logs, "downloading\n")
	assert.Contains(t, logs, fetchedName+": archive digest recorded\n")
}

func TestRecorder_RelaysFailingStage(t *testing.T) {
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	gomock.InOrder(
		log.EXPECT().Relay("aarch64-linux-gnu", "configure: WARNING: cross compiling"),
		log.EXPECT().Relay("aarch64-linux-gnu", "$ ./configure --host=aarch64-linux-gnu"),
		log.EXPECT().Relay("aarch64-linux-gnu", "checking for aarch64-linux-gnu-gcc... no"),
	)

	recorder := progrock.New(log)
	_, built := recorder.Record(context.Background(), domain.VertexName("aarch64-linux-gnu", domain.StageBuilt))
	built.Log(domain.LogLevelInfo, "$ ./configure --host=aarch64-linux-gnu")
	_, err := built.Stdout().Write([]byte("checking for aarch64-linux-gnu-gcc... no\n"))
	require.NoError(t, err)
	_, err = built.Stderr().Write([]byte("configure: WARNING: cross compiling\n"))
	require.NoError(t, err)
	built.Complete(errors.New("exit status 77"))

	require.NoError(t, recorder.Close())
}
