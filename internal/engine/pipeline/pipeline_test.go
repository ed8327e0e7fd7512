package pipeline_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/libprov/internal/adapters/fs"
	"go.trai.ch/libprov/internal/adapters/telemetry/progrock"
	"go.trai.ch/libprov/internal/core/domain"
	"go.trai.ch/libprov/internal/core/ports"
	"go.trai.ch/libprov/internal/core/ports/mocks"
	"go.trai.ch/libprov/internal/engine/pipeline"
	"go.uber.org/mock/gomock"
)

var allStages = []domain.Stage{
	domain.StagePending,
	domain.StageResolved,
	domain.StageFetched,
	domain.StageBuilt,
	domain.StageInstalled,
	domain.StageIntegrated,
	domain.StageCleanedUp,
}

func TestPipeline_Run_Arm64(t *testing.T) {
	e := newEnv(t)

	res, err := e.pipeline().Run(context.Background(), "arm64")
	require.NoError(t, err)

	assert.Equal(t, allStages, res.Stages)
	assert.Equal(t, arm64, res.Arch)

	prefix := filepath.Join(e.root, "usr/local/aarch64-linux-gnu")
	assert.Equal(t, prefix, res.Artifact.Prefix)
	assert.FileExists(t, filepath.Join(prefix, "lib/libgpiod.a"))
	assert.FileExists(t, filepath.Join(prefix, "include/gpiod.h"))
	assert.FileExists(t, filepath.Join(e.root, "usr/lib/aarch64-linux-gnu/pkgconfig/libgpiod.pc"))

	fragment, err := os.ReadFile(filepath.Join(e.root, "etc/ld.so.conf.d/libgpiod-aarch64-linux-gnu.conf"))
	require.NoError(t, err)
	assert.Equal(t, "/usr/local/aarch64-linux-gnu/lib\n", string(fragment))

	assert.NoDirExists(t, filepath.Join(e.root, "tmp/libprov/aarch64-linux-gnu"))

	var argv [][]string
	for _, cmd := range e.tc.commands() {
		argv = append(argv, cmd.Argv())
	}
	src := filepath.Join(e.root, "tmp/libprov/aarch64-linux-gnu/libgpiod-2.1.3")
	assert.Equal(t, [][]string{
		{
			filepath.Join(src, "configure"),
			"--host=aarch64-linux-gnu",
			"--prefix=/usr/local/aarch64-linux-gnu",
			"--libdir=/usr/local/aarch64-linux-gnu/lib",
			"--includedir=/usr/local/aarch64-linux-gnu/include",
			"--enable-static",
			"--disable-shared",
			"--disable-tools",
		},
		{"make", "-j2"},
		{"make", "install", "DESTDIR=" + e.root},
		{"ldconfig", "-r", e.root},
	}, argv)
}

func TestPipeline_Run_DefaultVersion(t *testing.T) {
	e := newEnv(t)

	res, err := e.pipeline().Run(context.Background(), "amd64")
	require.NoError(t, err)

	assert.Equal(t, "x86_64-linux-gnu", res.Arch.Triple)
	assert.Equal(t, "2.1.3", res.Source.Version)
	assert.Contains(t, res.Source.URL, "libgpiod-2.1.3.tar.gz")
	assert.Equal(t, []string{"/pub/software/libs/libgpiod/libgpiod-2.1.3.tar.gz"}, e.mirror.seen())
}

func TestPipeline_Run_Repeatable(t *testing.T) {
	e := newEnv(t)
	hasher := fs.NewHasher(fs.NewWalker())
	ignores := []string{domain.RecordFileName}

	fingerprint := func(res pipeline.Result) string {
		paths := append([]string{res.Artifact.Prefix}, res.Integration.Descriptors...)
		paths = append(paths, res.Integration.LoaderFragment)
		sum, err := hasher.Fingerprint(paths, ignores)
		require.NoError(t, err)
		return sum
	}

	first, err := e.pipeline().Run(context.Background(), "arm64")
	require.NoError(t, err)
	second, err := e.pipeline().Run(context.Background(), "arm64")
	require.NoError(t, err)

	assert.Equal(t, first.Artifact, second.Artifact)
	assert.Equal(t, first.Integration, second.Integration)
	assert.Equal(t, fingerprint(first), fingerprint(second))
}

func TestPipeline_Run_FetchFailureLeavesHostUntouched(t *testing.T) {
	e := newEnv(t)
	e.cfg.Version = "9.9.9"

	res, err := e.pipeline().Run(context.Background(), "arm64")
	require.Error(t, err)
	require.ErrorIs(t, err, domain.ErrFetchFailed)

	var stageErr *domain.StageError
	require.ErrorAs(t, err, &stageErr)
	assert.Equal(t, domain.StageFetched, stageErr.Stage)
	assert.Equal(t, "aarch64-linux-gnu", stageErr.Triple)
	assert.Equal(t, []domain.Stage{domain.StagePending, domain.StageResolved}, res.Stages)

	assert.NoDirExists(t, filepath.Join(e.root, "usr/local/aarch64-linux-gnu"))
	assert.NoDirExists(t, filepath.Join(e.root, "usr/lib/aarch64-linux-gnu/pkgconfig"))
	assert.NoDirExists(t, filepath.Join(e.root, "etc/ld.so.conf.d"))
	assert.Empty(t, e.tc.commands())
}

func TestPipeline_Run_BuildFailure(t *testing.T) {
	e := newEnv(t)
	e.tc.failWith["make"] = &domain.CommandError{Name: "make", Args: []string{"-j2"}, ExitCode: 2}

	res, err := e.pipeline().Run(context.Background(), "arm64")
	require.Error(t, err)
	require.ErrorIs(t, err, domain.ErrBuildFailed)

	var cmdErr *domain.CommandError
	require.ErrorAs(t, err, &cmdErr)
	assert.Equal(t, 2, cmdErr.ExitCode)

	assert.Equal(t, domain.StageFetched, res.Stages[len(res.Stages)-1])
	assert.NoFileExists(t, filepath.Join(e.root, "etc/ld.so.conf.d/libgpiod-aarch64-linux-gnu.conf"))
	// The scratch workspace is kept for inspection.
	assert.DirExists(t, filepath.Join(e.root, "tmp/libprov/aarch64-linux-gnu"))
}

func TestPipeline_Run_BuildFailureShowsStageOutput(t *testing.T) {
	e := newEnv(t)
	e.tc.failWith["make"] = &domain.CommandError{Name: "make", Args: []string{"-j2"}, ExitCode: 2}

	ctrl := gomock.NewController(t)
	console := mocks.NewMockLogger(ctrl)
	var shown []string
	console.EXPECT().Relay(gomock.Any(), gomock.Any()).
		Do(func(triple, line string) { shown = append(shown, triple+" "+line) }).
		AnyTimes()
	recorder := progrock.New(console)
	e.deps.Telemetry = recorder

	_, err := e.pipeline().Run(context.Background(), "arm64")
	require.ErrorIs(t, err, domain.ErrBuildFailed)
	require.NoError(t, recorder.Close())

	require.Len(t, shown, 4)
	assert.Contains(t, shown[0], "aarch64-linux-gnu $ "+filepath.Join(e.root, "tmp/libprov/aarch64-linux-gnu"))
	assert.Equal(t, []string{
		"aarch64-linux-gnu checking whether the C compiler works... yes",
		"aarch64-linux-gnu $ make -j2",
		"aarch64-linux-gnu make: *** failed",
	}, shown[1:])
}

func TestPipeline_Run_SuccessKeepsStdoutQuiet(t *testing.T) {
	e := newEnv(t)

	ctrl := gomock.NewController(t)
	console := mocks.NewMockLogger(ctrl)
	recorder := progrock.New(console)
	e.deps.Telemetry = recorder

	_, err := e.pipeline().Run(context.Background(), "arm64")
	require.NoError(t, err)
	require.NoError(t, recorder.Close())
}

func TestPipeline_Run_IntegrationFailure(t *testing.T) {
	e := newEnv(t)
	e.tc.failWith["ldconfig"] = &domain.CommandError{Name: "ldconfig", ExitCode: 1}

	res, err := e.pipeline().Run(context.Background(), "arm64")
	require.ErrorIs(t, err, domain.ErrIntegrationFailed)
	assert.Equal(t, domain.StageInstalled, res.Stages[len(res.Stages)-1])
}

func TestPipeline_Run_ResolutionFailure(t *testing.T) {
	e := newEnv(t)

	res, err := e.pipeline().Run(context.Background(), "")
	require.ErrorIs(t, err, domain.ErrResolutionFailed)
	assert.Equal(t, []domain.Stage{domain.StagePending}, res.Stages)
	assert.Empty(t, e.mirror.seen())
}

func TestPipeline_Run_Canceled(t *testing.T) {
	e := newEnv(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := e.pipeline().Run(ctx, "arm64")
	require.ErrorIs(t, err, context.Canceled)
	require.ErrorIs(t, err, domain.ErrFetchFailed)
	assert.Empty(t, e.mirror.seen())
}

func TestPipeline_Run_RecordsStageVertices(t *testing.T) {
	e := newEnv(t)
	ctrl := gomock.NewController(t)
	tel := mocks.NewMockTelemetry(ctrl)
	fetched := mocks.NewMockVertex(ctrl)

	downloader := mocks.NewMockDownloader(ctrl)
	downloader.EXPECT().Download(gomock.Any(), gomock.Any(), gomock.Any()).Return("", errors.New("mirror down"))
	e.deps.Downloader = downloader
	e.deps.Telemetry = tel

	tel.EXPECT().Record(gomock.Any(), "aarch64-linux-gnu/fetched").
		DoAndReturn(func(ctx context.Context, _ string) (context.Context, ports.Vertex) {
			return ctx, fetched
		})
	fetched.EXPECT().Complete(gomock.Not(gomock.Nil()))

	_, err := e.pipeline().Run(context.Background(), "arm64")
	require.ErrorIs(t, err, domain.ErrFetchFailed)
	assert.Contains(t, err.Error(), "mirror down")
}
