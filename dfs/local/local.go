// Package local provides a dfs.Client backed by a directory on the local file system.
//
// Names are resolved below the root directory given to New, so "/a/b"
// maps to <root>/a/b. The root itself must exist.
package local

import (
	"context"
	"errors"
	"io"
	iofs "io/fs"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/hupe1980/filestore/dfs"
	"github.com/hupe1980/filestore/internal/fs"
)

// Options configures a local Client.
type Options struct {
	// FileSystem performs the actual I/O. Default: fs.Default.
	FileSystem fs.FileSystem

	// FileMode is the permission of newly created files. Default: 0644.
	FileMode os.FileMode

	// DirMode is the permission of newly created directories. Default: 0755.
	DirMode os.FileMode
}

// Client implements dfs.Client on the local file system.
type Client struct {
	root   string
	opts   Options
	closed atomic.Bool
}

var _ dfs.Client = (*Client)(nil)

// New creates a Client rooted at root.
func New(root string, optFns ...func(o *Options)) *Client {
	opts := Options{
		FileSystem: fs.Default,
		FileMode:   0o644,
		DirMode:    0o755,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.FileSystem == nil {
		opts.FileSystem = fs.Default
	}

	return &Client{
		root: filepath.Clean(root),
		opts: opts,
	}
}

// Root returns the directory the client is rooted at.
func (c *Client) Root() string {
	return c.root
}

func (c *Client) abs(name string) string {
	return filepath.Join(c.root, filepath.FromSlash(name))
}

func (c *Client) check(ctx context.Context, op, name string) error {
	if c.closed.Load() {
		return dfs.PathError(op, name, dfs.ErrClosed)
	}
	if err := ctx.Err(); err != nil {
		return dfs.PathError(op, name, err)
	}
	return nil
}

// Stat returns metadata for name.
func (c *Client) Stat(ctx context.Context, name string) (iofs.FileInfo, error) {
	if err := c.check(ctx, "stat", name); err != nil {
		return nil, err
	}
	return c.opts.FileSystem.Stat(c.abs(name))
}

// CreateEmpty creates an empty file. It fails if name exists or the parent is missing.
func (c *Client) CreateEmpty(ctx context.Context, name string) error {
	if err := c.check(ctx, "create", name); err != nil {
		return err
	}

	f, err := c.opts.FileSystem.OpenFile(c.abs(name), os.O_CREATE|os.O_EXCL|os.O_WRONLY, c.opts.FileMode)
	if err != nil {
		return err
	}
	return f.Close()
}

// MkdirAll creates a directory along with any missing parents.
func (c *Client) MkdirAll(ctx context.Context, name string) error {
	if err := c.check(ctx, "mkdir", name); err != nil {
		return err
	}
	return c.opts.FileSystem.MkdirAll(c.abs(name), c.opts.DirMode)
}

// Append opens an existing file in append mode.
func (c *Client) Append(ctx context.Context, name string) (io.WriteCloser, error) {
	if err := c.check(ctx, "append", name); err != nil {
		return nil, err
	}
	return c.opts.FileSystem.OpenFile(c.abs(name), os.O_WRONLY|os.O_APPEND, 0)
}

// Open opens an existing file for reading.
func (c *Client) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	if err := c.check(ctx, "open", name); err != nil {
		return nil, err
	}

	f, err := c.opts.FileSystem.OpenFile(c.abs(name), os.O_RDONLY, 0)
	if err != nil {
		return nil, err
	}

	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	if info.IsDir() {
		_ = f.Close()
		return nil, dfs.PathError("open", name, dfs.ErrIsDir)
	}
	return f, nil
}

// RemoveAll removes name and everything below it. Removing "/" empties
// the root directory but keeps it.
func (c *Client) RemoveAll(ctx context.Context, name string) error {
	if err := c.check(ctx, "remove", name); err != nil {
		return err
	}

	target := c.abs(name)
	if target != c.root {
		return c.opts.FileSystem.RemoveAll(target)
	}

	entries, err := c.opts.FileSystem.ReadDir(c.root)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if err := c.opts.FileSystem.RemoveAll(filepath.Join(c.root, e.Name())); err != nil {
			return err
		}
	}
	return nil
}

// ReadDir returns the immediate children of name in directory order.
func (c *Client) ReadDir(ctx context.Context, name string) ([]iofs.FileInfo, error) {
	if err := c.check(ctx, "readdir", name); err != nil {
		return nil, err
	}

	target := c.abs(name)
	info, err := c.opts.FileSystem.Stat(target)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []iofs.FileInfo{info}, nil
	}

	entries, err := c.opts.FileSystem.ReadDir(target)
	if err != nil {
		return nil, err
	}

	infos := make([]iofs.FileInfo, 0, len(entries))
	for _, e := range entries {
		info, err := e.Info()
		if err != nil {
			// Removed between ReadDir and Info
			if errors.Is(err, iofs.ErrNotExist) {
				continue
			}
			return infos, err
		}
		infos = append(infos, info)
	}
	return infos, nil
}

// Close marks the client closed. Files on disk are left untouched.
func (c *Client) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return dfs.ErrClosed
	}
	return nil
}
