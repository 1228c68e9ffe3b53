package testutil

import (
	"context"
	"io"
	"io/fs"
	"testing"

	"github.com/hupe1980/filestore/dfs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// NewClientFunc returns a fresh client over an empty namespace.
type NewClientFunc func(t *testing.T) dfs.Client

// RunClientSuite runs the dfs.Client conformance checks against clients
// produced by newClient. Every subtest gets its own client.
func RunClientSuite(t *testing.T, newClient NewClientFunc) {
	t.Helper()

	t.Run("StatRoot", func(t *testing.T) {
		c := newClient(t)
		info, err := c.Stat(context.Background(), "/")
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	})

	t.Run("StatMissing", func(t *testing.T) {
		c := newClient(t)
		_, err := c.Stat(context.Background(), "/missing")
		assert.ErrorIs(t, err, fs.ErrNotExist)
	})

	t.Run("CreateEmpty", func(t *testing.T) {
		c := newClient(t)
		ctx := context.Background()

		require.NoError(t, c.CreateEmpty(ctx, "/file.txt"))

		info, err := c.Stat(ctx, "/file.txt")
		require.NoError(t, err)
		assert.False(t, info.IsDir())
		assert.Equal(t, int64(0), info.Size())
		assert.Equal(t, "file.txt", info.Name())

		assert.ErrorIs(t, c.CreateEmpty(ctx, "/file.txt"), fs.ErrExist)
	})

	t.Run("CreateEmptyMissingParent", func(t *testing.T) {
		c := newClient(t)
		ctx := context.Background()

		assert.Error(t, c.CreateEmpty(ctx, "/no/such/parent.txt"))

		_, err := c.Stat(ctx, "/no/such/parent.txt")
		assert.ErrorIs(t, err, fs.ErrNotExist)
	})

	t.Run("MkdirAll", func(t *testing.T) {
		c := newClient(t)
		ctx := context.Background()

		require.NoError(t, c.MkdirAll(ctx, "/a/b/c"))
		for _, name := range []string{"/a", "/a/b", "/a/b/c"} {
			info, err := c.Stat(ctx, name)
			require.NoError(t, err, name)
			assert.True(t, info.IsDir(), name)
		}

		// Existing directories are fine
		require.NoError(t, c.MkdirAll(ctx, "/a/b"))
	})

	t.Run("AppendAndOpen", func(t *testing.T) {
		c := newClient(t)
		ctx := context.Background()
		rng := NewRNG(4711)

		require.NoError(t, c.CreateEmpty(ctx, "/log.txt"))

		first := rng.Text(4, 40)
		second := rng.Line(40)
		appendString(t, c, "/log.txt", first)
		appendString(t, c, "/log.txt", second)

		assert.Equal(t, first+second, readString(t, c, "/log.txt"))

		info, err := c.Stat(ctx, "/log.txt")
		require.NoError(t, err)
		assert.Equal(t, int64(len(first)+len(second)), info.Size())
	})

	t.Run("AppendMissing", func(t *testing.T) {
		c := newClient(t)
		_, err := c.Append(context.Background(), "/missing.txt")
		assert.ErrorIs(t, err, fs.ErrNotExist)
	})

	t.Run("OpenMissing", func(t *testing.T) {
		c := newClient(t)
		_, err := c.Open(context.Background(), "/missing.txt")
		assert.ErrorIs(t, err, fs.ErrNotExist)
	})

	t.Run("ReadDir", func(t *testing.T) {
		c := newClient(t)
		ctx := context.Background()

		require.NoError(t, c.MkdirAll(ctx, "/dir/sub"))
		require.NoError(t, c.CreateEmpty(ctx, "/dir/one.txt"))
		require.NoError(t, c.CreateEmpty(ctx, "/dir/sub/deep.txt"))

		infos, err := c.ReadDir(ctx, "/dir")
		require.NoError(t, err)

		names := make(map[string]bool)
		for _, info := range infos {
			names[info.Name()] = info.IsDir()
		}
		assert.Equal(t, map[string]bool{"one.txt": false, "sub": true}, names)
	})

	t.Run("ReadDirEmpty", func(t *testing.T) {
		c := newClient(t)
		ctx := context.Background()

		require.NoError(t, c.MkdirAll(ctx, "/empty"))

		infos, err := c.ReadDir(ctx, "/empty")
		require.NoError(t, err)
		assert.Empty(t, infos)
	})

	t.Run("ReadDirFile", func(t *testing.T) {
		c := newClient(t)
		ctx := context.Background()

		require.NoError(t, c.CreateEmpty(ctx, "/single.txt"))

		infos, err := c.ReadDir(ctx, "/single.txt")
		require.NoError(t, err)
		require.Len(t, infos, 1)
		assert.Equal(t, "single.txt", infos[0].Name())
	})

	t.Run("RemoveAll", func(t *testing.T) {
		c := newClient(t)
		ctx := context.Background()

		require.NoError(t, c.MkdirAll(ctx, "/tree/x/y"))
		require.NoError(t, c.CreateEmpty(ctx, "/tree/x/y/leaf.txt"))
		require.NoError(t, c.CreateEmpty(ctx, "/tree/top.txt"))
		require.NoError(t, c.CreateEmpty(ctx, "/treehouse.txt"))

		require.NoError(t, c.RemoveAll(ctx, "/tree"))

		for _, name := range []string{"/tree", "/tree/x", "/tree/x/y/leaf.txt", "/tree/top.txt"} {
			_, err := c.Stat(ctx, name)
			assert.ErrorIs(t, err, fs.ErrNotExist, name)
		}

		// Siblings sharing the name prefix survive
		_, err := c.Stat(ctx, "/treehouse.txt")
		assert.NoError(t, err)
	})

	t.Run("RemoveFile", func(t *testing.T) {
		c := newClient(t)
		ctx := context.Background()

		require.NoError(t, c.CreateEmpty(ctx, "/gone.txt"))
		require.NoError(t, c.RemoveAll(ctx, "/gone.txt"))

		_, err := c.Stat(ctx, "/gone.txt")
		assert.ErrorIs(t, err, fs.ErrNotExist)
	})

	t.Run("Close", func(t *testing.T) {
		c := newClient(t)
		require.NoError(t, c.Close())

		_, err := c.Stat(context.Background(), "/")
		assert.Error(t, err)
	})
}

func appendString(t *testing.T, c dfs.Client, name, content string) {
	t.Helper()

	w, err := c.Append(context.Background(), name)
	require.NoError(t, err)
	_, err = io.WriteString(w, content)
	require.NoError(t, err)
	require.NoError(t, w.Close())
}

func readString(t *testing.T, c dfs.Client, name string) string {
	t.Helper()

	r, err := c.Open(context.Background(), name)
	require.NoError(t, err)
	defer r.Close()

	data, err := io.ReadAll(r)
	require.NoError(t, err)
	return string(data)
}
