package combine

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadFileLargerThanChunk(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "big.txt")
	content := bytes.Repeat([]byte("0123456789abcdef\n"), ChunkSize/8)
	require.Greater(t, len(content), ChunkSize)
	require.NoError(t, os.WriteFile(path, content, 0o644))

	got, meta, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, content, got)
	assert.Equal(t, int64(len(content)), meta.Size)
	assert.False(t, meta.Modified.IsZero())
	assert.False(t, meta.Created.IsZero())
}

func TestReadFileEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.txt")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	got, meta, err := ReadFile(path)
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Zero(t, meta.Size)
}

func TestReadFileMissing(t *testing.T) {
	_, _, err := ReadFile(filepath.Join(t.TempDir(), "nope.txt"))
	require.Error(t, err)

	var re *ReadError
	require.True(t, errors.As(err, &re))
	assert.Equal(t, KindNotExist, re.Kind)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestCopyChunked(t *testing.T) {
	src := bytes.Repeat([]byte{'x'}, 3*ChunkSize+7)
	var dst bytes.Buffer
	n, err := copyChunked(&dst, bytes.NewReader(src))
	require.NoError(t, err)
	assert.Equal(t, int64(len(src)), n)
	assert.Equal(t, src, dst.Bytes())
}
