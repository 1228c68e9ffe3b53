package object

import (
	"bytes"
	"context"
	"io"
	"io/fs"
	"path"
	"strings"
	"sync/atomic"
	"time"

	"github.com/hupe1980/filestore/dfs"
	"golang.org/x/sync/errgroup"
)

// Options configures a Client.
type Options struct {
	// DeleteConcurrency bounds the number of parallel delete batches in RemoveAll.
	// Default: 4.
	DeleteConcurrency int
}

// Client implements dfs.Client over a Bucket.
type Client struct {
	bucket Bucket
	ks     keyspace
	opts   Options
	closer io.Closer
	closed atomic.Bool
}

var _ dfs.Client = (*Client)(nil)

// NewClient creates a Client over bucket. rootPrefix is prepended to all
// keys (e.g. "warehouse/").
func NewClient(bucket Bucket, rootPrefix string, optFns ...func(o *Options)) *Client {
	opts := Options{DeleteConcurrency: 4}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.DeleteConcurrency <= 0 {
		opts.DeleteConcurrency = 1
	}

	c := &Client{
		bucket: bucket,
		ks:     newKeyspace(rootPrefix),
		opts:   opts,
	}
	if closer, ok := bucket.(io.Closer); ok {
		c.closer = closer
	}
	return c
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

// Stat returns metadata for name. Directories are detected through their
// marker object or any object below them.
func (c *Client) Stat(ctx context.Context, name string) (fs.FileInfo, error) {
	if err := c.check(ctx, "stat", name); err != nil {
		return nil, err
	}
	info, err := c.stat(ctx, name)
	if err != nil {
		return nil, dfs.PathError("stat", name, err)
	}
	return info, nil
}

func (c *Client) stat(ctx context.Context, name string) (fs.FileInfo, error) {
	if name == "/" {
		return dfs.NewDirInfo("/", time.Time{}), nil
	}

	obj, err := c.bucket.Stat(ctx, c.ks.key(name))
	if err == nil {
		return dfs.NewFileInfo(path.Base(name), obj.Size, obj.ModTime), nil
	}
	if !isNotExist(err) {
		return nil, err
	}

	children, err := c.bucket.List(ctx, c.ks.dirKey(name), "", 1)
	if err != nil {
		return nil, err
	}
	if len(children) == 0 {
		return nil, fs.ErrNotExist
	}
	return dfs.NewDirInfo(path.Base(name), children[0].ModTime), nil
}

// CreateEmpty writes a zero-length object. The parent must be a directory.
func (c *Client) CreateEmpty(ctx context.Context, name string) error {
	if err := c.check(ctx, "create", name); err != nil {
		return err
	}

	if _, err := c.stat(ctx, name); err == nil {
		return dfs.PathError("create", name, fs.ErrExist)
	} else if !isNotExist(err) {
		return dfs.PathError("create", name, err)
	}

	parent, err := c.stat(ctx, path.Dir(name))
	if err != nil {
		return dfs.PathError("create", name, err)
	}
	if !parent.IsDir() {
		return dfs.PathError("create", name, dfs.ErrNotDir)
	}

	return dfs.PathError("create", name, c.bucket.Put(ctx, c.ks.key(name), bytes.NewReader(nil), 0))
}

// MkdirAll writes a marker object for every missing directory on the way to name.
func (c *Client) MkdirAll(ctx context.Context, name string) error {
	if err := c.check(ctx, "mkdir", name); err != nil {
		return err
	}

	cur := "/"
	for _, part := range strings.Split(strings.Trim(name, "/"), "/") {
		if part == "" {
			continue
		}
		cur = path.Join(cur, part)

		info, err := c.stat(ctx, cur)
		if err == nil {
			if !info.IsDir() {
				return dfs.PathError("mkdir", cur, dfs.ErrNotDir)
			}
			continue
		}
		if !isNotExist(err) {
			return dfs.PathError("mkdir", cur, err)
		}

		if err := c.bucket.Put(ctx, c.ks.dirKey(cur), bytes.NewReader(nil), 0); err != nil {
			return dfs.PathError("mkdir", cur, err)
		}
	}
	return nil
}

// Append returns a writer that buffers content and rewrites the object as
// <existing content><buffered content> on Close.
func (c *Client) Append(ctx context.Context, name string) (io.WriteCloser, error) {
	if err := c.check(ctx, "append", name); err != nil {
		return nil, err
	}

	info, err := c.stat(ctx, name)
	if err != nil {
		return nil, dfs.PathError("append", name, err)
	}
	if info.IsDir() {
		return nil, dfs.PathError("append", name, dfs.ErrIsDir)
	}

	return &appendWriter{
		ctx:    ctx,
		client: c,
		name:   name,
	}, nil
}

// Open returns the content of a file object.
func (c *Client) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	if err := c.check(ctx, "open", name); err != nil {
		return nil, err
	}

	info, err := c.stat(ctx, name)
	if err != nil {
		return nil, dfs.PathError("open", name, err)
	}
	if info.IsDir() {
		return nil, dfs.PathError("open", name, dfs.ErrIsDir)
	}

	rc, err := c.bucket.Get(ctx, c.ks.key(name))
	if err != nil {
		return nil, dfs.PathError("open", name, err)
	}
	return rc, nil
}

// RemoveAll deletes the object for name, its directory marker and every
// object below it. Batches are deleted in parallel.
func (c *Client) RemoveAll(ctx context.Context, name string) error {
	if err := c.check(ctx, "remove", name); err != nil {
		return err
	}

	var keys []string
	if name != "/" {
		keys = append(keys, c.ks.key(name))
	}

	below, err := c.bucket.List(ctx, c.ks.dirKey(name), "", 0)
	if err != nil {
		return dfs.PathError("remove", name, err)
	}
	for _, obj := range below {
		keys = append(keys, obj.Key)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.opts.DeleteConcurrency)

	for start := 0; start < len(keys); start += MaxDeleteBatch {
		end := min(start+MaxDeleteBatch, len(keys))
		batch := keys[start:end]
		g.Go(func() error {
			return c.bucket.Delete(gctx, batch)
		})
	}

	return dfs.PathError("remove", name, g.Wait())
}

// ReadDir lists the immediate children of a directory using a delimited listing.
func (c *Client) ReadDir(ctx context.Context, name string) ([]fs.FileInfo, error) {
	if err := c.check(ctx, "readdir", name); err != nil {
		return nil, err
	}

	info, err := c.stat(ctx, name)
	if err != nil {
		return nil, dfs.PathError("readdir", name, err)
	}
	if !info.IsDir() {
		return []fs.FileInfo{info}, nil
	}

	dirKey := c.ks.dirKey(name)
	objs, err := c.bucket.List(ctx, dirKey, "/", 0)
	if err != nil {
		return nil, dfs.PathError("readdir", name, err)
	}

	infos := make([]fs.FileInfo, 0, len(objs))
	for _, obj := range objs {
		rel := strings.TrimPrefix(obj.Key, dirKey)
		if obj.IsPrefix {
			infos = append(infos, dfs.NewDirInfo(strings.TrimSuffix(rel, "/"), obj.ModTime))
			continue
		}
		if rel == "" {
			// The directory's own marker
			continue
		}
		infos = append(infos, dfs.NewFileInfo(rel, obj.Size, obj.ModTime))
	}
	return infos, nil
}

// Close marks the client closed and closes the bucket if it is an io.Closer.
func (c *Client) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return dfs.ErrClosed
	}
	if c.closer != nil {
		return c.closer.Close()
	}
	return nil
}

// appendWriter implements io.WriteCloser for object appends.
type appendWriter struct {
	ctx    context.Context
	client *Client
	name   string
	buf    bytes.Buffer
	closed bool
}

func (w *appendWriter) Write(p []byte) (int, error) {
	if w.closed {
		return 0, fs.ErrClosed
	}
	return w.buf.Write(p)
}

func (w *appendWriter) Close() error {
	if w.closed {
		return fs.ErrClosed
	}
	w.closed = true

	c := w.client
	key := c.ks.key(w.name)

	// Re-stat so content appended since Append was called is kept
	obj, err := c.bucket.Stat(w.ctx, key)
	if err != nil {
		return dfs.PathError("append", w.name, err)
	}

	existing, err := c.bucket.Get(w.ctx, key)
	if err != nil {
		return dfs.PathError("append", w.name, err)
	}
	defer func() { _ = existing.Close() }()

	body := io.MultiReader(io.LimitReader(existing, obj.Size), &w.buf)
	size := obj.Size + int64(w.buf.Len())

	return dfs.PathError("append", w.name, c.bucket.Put(w.ctx, key, body, size))
}
