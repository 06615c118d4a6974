package pion

import (
	"context"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

// writeIVF writes a minimal VP8 IVF file with n tiny frames.
func writeIVF(t *testing.T, n int) string {
	t.Helper()
	header := make([]byte, 32)
	copy(header[0:4], "DKIF")
	binary.LittleEndian.PutUint16(header[4:], 0)
	binary.LittleEndian.PutUint16(header[6:], 32)
	copy(header[8:12], "VP80")
	binary.LittleEndian.PutUint16(header[12:], 64)
	binary.LittleEndian.PutUint16(header[14:], 48)
	binary.LittleEndian.PutUint32(header[16:], 30)
	binary.LittleEndian.PutUint32(header[20:], 1)
	binary.LittleEndian.PutUint32(header[24:], uint32(n))

	out := header
	for i := range n {
		frame := make([]byte, 12)
		binary.LittleEndian.PutUint32(frame[0:], 3)
		binary.LittleEndian.PutUint64(frame[4:], uint64(i))
		out = append(out, frame...)
		out = append(out, 0x10, 0x02, 0x00)
	}

	path := filepath.Join(t.TempDir(), "camera.ivf")
	require.NoError(t, os.WriteFile(path, out, 0o600))
	return path
}

func TestFileSource_SilentTracksWithoutFiles(t *testing.T) {
	req := require.New(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tracks, err := NewFileSource("", "", zerolog.Nop()).Acquire(ctx)

	req.NoError(err)
	req.Len(tracks, 2)
	req.Equal("video", tracks[0].ID())
	req.Equal("audio", tracks[1].ID())
	req.Equal("local", tracks[0].StreamID())
}

func TestFileSource_PlaysIVF(t *testing.T) {
	req := require.New(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tracks, err := NewFileSource(writeIVF(t, 3), "", zerolog.Nop()).Acquire(ctx)

	req.NoError(err)
	req.Len(tracks, 2)
}

func TestFileSource_MissingFileFailsAcquisition(t *testing.T) {
	_, err := NewFileSource(filepath.Join(t.TempDir(), "nope.ivf"), "", zerolog.Nop()).Acquire(context.Background())

	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestFileSource_CorruptHeaderFailsAcquisition(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "mic.ogg")
	require.NoError(t, os.WriteFile(bad, []byte("definitely not ogg"), 0o600))

	_, err := NewFileSource("", bad, zerolog.Nop()).Acquire(context.Background())

	require.ErrorContains(t, err, "read audio header")
}
