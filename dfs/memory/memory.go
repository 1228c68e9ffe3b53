// Package memory provides an in-process dfs.Client.
//
// It keeps a directory tree in memory without any filesystem dependency and
// is intended for tests and examples. Namespaces obtained through Shared are
// process-wide, so every facade opened on "mem://name" sees the same tree.
package memory

import (
	"bytes"
	"context"
	"io"
	"io/fs"
	"path"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hupe1980/filestore/dfs"
)

// Namespace is an in-memory directory tree.
// Thread-safe for concurrent reads and writes.
type Namespace struct {
	mu    sync.RWMutex
	nodes map[string]*node
}

type node struct {
	dir     bool
	data    []byte
	modTime time.Time
}

// NewNamespace creates an empty tree containing only the root directory.
func NewNamespace() *Namespace {
	return &Namespace{
		nodes: map[string]*node{
			"/": {dir: true, modTime: time.Now()},
		},
	}
}

var (
	sharedMu sync.Mutex
	shared   = make(map[string]*Namespace)
)

// Shared returns the process-wide namespace registered under name,
// creating it on first use.
func Shared(name string) *Namespace {
	sharedMu.Lock()
	defer sharedMu.Unlock()

	ns, ok := shared[name]
	if !ok {
		ns = NewNamespace()
		shared[name] = ns
	}
	return ns
}

// Client implements dfs.Client on top of a Namespace.
type Client struct {
	ns     *Namespace
	closed atomic.Bool
}

var _ dfs.Client = (*Client)(nil)

// New creates a client over a fresh private namespace.
func New() *Client {
	return NewClient(NewNamespace())
}

// NewClient creates a client over ns. Closing the client leaves ns intact.
func NewClient(ns *Namespace) *Client {
	return &Client{ns: ns}
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
func (c *Client) Stat(ctx context.Context, name string) (fs.FileInfo, error) {
	if err := c.check(ctx, "stat", name); err != nil {
		return nil, err
	}

	c.ns.mu.RLock()
	defer c.ns.mu.RUnlock()

	n, ok := c.ns.nodes[name]
	if !ok {
		return nil, dfs.PathError("stat", name, fs.ErrNotExist)
	}
	return n.info(name), nil
}

// CreateEmpty creates an empty file. The parent must be an existing directory.
func (c *Client) CreateEmpty(ctx context.Context, name string) error {
	if err := c.check(ctx, "create", name); err != nil {
		return err
	}

	c.ns.mu.Lock()
	defer c.ns.mu.Unlock()

	if _, ok := c.ns.nodes[name]; ok {
		return dfs.PathError("create", name, fs.ErrExist)
	}
	if err := c.ns.parentDir(name); err != nil {
		return dfs.PathError("create", name, err)
	}
	c.ns.nodes[name] = &node{modTime: time.Now()}
	return nil
}

// MkdirAll creates a directory along with any missing parents.
func (c *Client) MkdirAll(ctx context.Context, name string) error {
	if err := c.check(ctx, "mkdir", name); err != nil {
		return err
	}

	c.ns.mu.Lock()
	defer c.ns.mu.Unlock()

	cur := "/"
	for _, part := range strings.Split(strings.Trim(name, "/"), "/") {
		if part == "" {
			continue
		}
		cur = path.Join(cur, part)
		n, ok := c.ns.nodes[cur]
		if !ok {
			c.ns.nodes[cur] = &node{dir: true, modTime: time.Now()}
			continue
		}
		if !n.dir {
			return dfs.PathError("mkdir", cur, dfs.ErrNotDir)
		}
	}
	return nil
}

// Append opens an existing file for appending. Every Write lands in the
// tree immediately, so a failed sequence of writes leaves a partial append.
func (c *Client) Append(ctx context.Context, name string) (io.WriteCloser, error) {
	if err := c.check(ctx, "append", name); err != nil {
		return nil, err
	}

	c.ns.mu.RLock()
	n, ok := c.ns.nodes[name]
	c.ns.mu.RUnlock()

	if !ok {
		return nil, dfs.PathError("append", name, fs.ErrNotExist)
	}
	if n.dir {
		return nil, dfs.PathError("append", name, dfs.ErrIsDir)
	}
	return &appendWriter{ns: c.ns, name: name}, nil
}

// Open opens an existing file for reading. The reader sees a snapshot.
func (c *Client) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	if err := c.check(ctx, "open", name); err != nil {
		return nil, err
	}

	c.ns.mu.RLock()
	defer c.ns.mu.RUnlock()

	n, ok := c.ns.nodes[name]
	if !ok {
		return nil, dfs.PathError("open", name, fs.ErrNotExist)
	}
	if n.dir {
		return nil, dfs.PathError("open", name, dfs.ErrIsDir)
	}

	// Copy to prevent mutation by concurrent appends
	copied := make([]byte, len(n.data))
	copy(copied, n.data)
	return io.NopCloser(bytes.NewReader(copied)), nil
}

// RemoveAll removes name and everything below it. Removing the root
// empties the tree but keeps the root directory.
func (c *Client) RemoveAll(ctx context.Context, name string) error {
	if err := c.check(ctx, "remove", name); err != nil {
		return err
	}

	c.ns.mu.Lock()
	defer c.ns.mu.Unlock()

	prefix := strings.TrimSuffix(name, "/") + "/"
	for key := range c.ns.nodes {
		if key == "/" {
			continue
		}
		if key == name || strings.HasPrefix(key, prefix) {
			delete(c.ns.nodes, key)
		}
	}
	return nil
}

// ReadDir returns the immediate children of name sorted by name.
func (c *Client) ReadDir(ctx context.Context, name string) ([]fs.FileInfo, error) {
	if err := c.check(ctx, "readdir", name); err != nil {
		return nil, err
	}

	c.ns.mu.RLock()
	defer c.ns.mu.RUnlock()

	n, ok := c.ns.nodes[name]
	if !ok {
		return nil, dfs.PathError("readdir", name, fs.ErrNotExist)
	}
	if !n.dir {
		return []fs.FileInfo{n.info(name)}, nil
	}

	infos := []fs.FileInfo{}
	for key, child := range c.ns.nodes {
		if key != "/" && key != name && path.Dir(key) == name {
			infos = append(infos, child.info(key))
		}
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name() < infos[j].Name() })
	return infos, nil
}

// Close marks the client closed. The namespace is left untouched.
func (c *Client) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return dfs.ErrClosed
	}
	return nil
}

// parentDir reports whether the parent of name is an existing directory.
// Caller must hold the lock.
func (ns *Namespace) parentDir(name string) error {
	parent, ok := ns.nodes[path.Dir(name)]
	if !ok {
		return fs.ErrNotExist
	}
	if !parent.dir {
		return dfs.ErrNotDir
	}
	return nil
}

func (n *node) info(name string) fs.FileInfo {
	base := path.Base(name)
	if n.dir {
		return dfs.NewDirInfo(base, n.modTime)
	}
	return dfs.NewFileInfo(base, int64(len(n.data)), n.modTime)
}

// appendWriter implements io.WriteCloser for in-memory appends.
type appendWriter struct {
	ns     *Namespace
	name   string
	closed bool
}

func (w *appendWriter) Write(p []byte) (int, error) {
	if w.closed {
		return 0, fs.ErrClosed
	}

	w.ns.mu.Lock()
	defer w.ns.mu.Unlock()

	n, ok := w.ns.nodes[w.name]
	if !ok {
		return 0, dfs.PathError("append", w.name, fs.ErrNotExist)
	}
	n.data = append(n.data, p...)
	n.modTime = time.Now()
	return len(p), nil
}

func (w *appendWriter) Close() error {
	if w.closed {
		return fs.ErrClosed
	}
	w.closed = true
	return nil
}
