package fetch_test

import (
	"archive/tar"
	"bytes"
	"io"
	"testing"
	"time"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/require"
	"github.com/ulikunitz/xz"
)

type entry struct {
	name     string
	body     string
	mode     int64
	typeflag byte
	linkname string
}

var archiveTime = time.Date(2024, 8, 1, 12, 0, 0, 0, time.UTC)

func tarball(t *testing.T, entries []entry) []byte {
	t.Helper()

	var buf bytes.Buffer
	tw := tar.NewWriter(&buf)
	for _, e := range entries {
		hdr := &tar.Header{
			Name:     e.name,
			Mode:     e.mode,
			Typeflag: e.typeflag,
			Linkname: e.linkname,
			ModTime:  archiveTime,
		}
		if hdr.Typeflag == 0 {
			hdr.Typeflag = tar.TypeReg
		}
		if hdr.Mode == 0 {
			hdr.Mode = 0o644
		}
		if hdr.Typeflag == tar.TypeReg {
			hdr.Size = int64(len(e.body))
		}
		require.NoError(t, tw.WriteHeader(hdr))
		if hdr.Typeflag == tar.TypeReg {
			_, err := io.WriteString(tw, e.body)
			require.NoError(t, err)
		}
	}
	require.NoError(t, tw.Close())
	return buf.Bytes()
}

func gzipBytes(t *testing.T, data []byte) []byte {
	t.Helper()

	var buf bytes.Buffer
	gw := gzip.NewWriter(&buf)
	_, err := gw.Write(data)
	require.NoError(t, err)
	require.NoError(t, gw.Close())
	return buf.Bytes()
}

func xzBytes(t *testing.T, data []byte) []byte {
	t.Helper()

	var buf bytes.Buffer
	xw, err := xz.NewWriter(&buf)
	require.NoError(t, err)
	_, err = xw.Write(data)
	require.NoError(t, err)
	require.NoError(t, xw.Close())
	return buf.Bytes()
}

func sourceTree() []entry {
	return []entry{
		{name: "libgpiod-2.1.3/", typeflag: tar.TypeDir, mode: 0o755},
		{name: "libgpiod-2.1.3/configure", body: "#!/bin/sh\nexit 0\n", mode: 0o755},
		{name: "libgpiod-2.1.3/include/gpiod.h", body: "#define GPIOD_API\n"},
		{name: "libgpiod-2.1.3/libgpiod.pc.in", body: "Name: libgpiod\n"},
		{name: "libgpiod-2.1.3/COPYING", typeflag: tar.TypeSymlink, linkname: "LICENSES/LGPL-2.1-or-later.txt"},
	}
}
