// Package hdfs provides a dfs.Client for the Hadoop Distributed File System.
//
// It speaks the native namenode RPC protocol through github.com/colinmarc/hdfs/v2,
// so no JVM or libhdfs is required. Endpoints have the form
//
//	hdfs://[user@]namenode1:8020,namenode2:8020[/root][?dir_mode=0755&datanode_hostname=false]
//
// An endpoint without a host falls back to the Hadoop configuration found
// via HADOOP_CONF_DIR or HADOOP_HOME. A path in the endpoint becomes the
// root all names resolve under.
package hdfs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/url"
	"os"
	"path"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/colinmarc/hdfs/v2"
	"github.com/colinmarc/hdfs/v2/hadoopconf"
	"github.com/hupe1980/filestore/dfs"
)

// namenode is the subset of *hdfs.Client used by Client.
type namenode interface {
	Stat(name string) (os.FileInfo, error)
	CreateEmptyFile(name string) error
	MkdirAll(name string, perm os.FileMode) error
	Append(name string) (io.WriteCloser, error)
	Open(name string) (io.ReadCloser, error)
	RemoveAll(name string) error
	ReadDir(name string) ([]os.FileInfo, error)
	Close() error
}

// rpcClient adapts *hdfs.Client to namenode.
type rpcClient struct {
	*hdfs.Client
}

func (c rpcClient) Append(name string) (io.WriteCloser, error) {
	w, err := c.Client.Append(name)
	if err != nil {
		return nil, err
	}
	return w, nil
}

func (c rpcClient) Open(name string) (io.ReadCloser, error) {
	r, err := c.Client.Open(name)
	if err != nil {
		return nil, err
	}
	return r, nil
}

// Options configures Dial.
type Options struct {
	// User is the HDFS user to act as. Default: the endpoint's userinfo,
	// then HADOOP_USER_NAME, then the current OS user.
	User string

	// DirMode is the permission of directories created by MkdirAll. Default: 0755.
	DirMode os.FileMode

	// UseDatanodeHostname connects to datanodes by hostname instead of IP.
	UseDatanodeHostname bool
}

// WithUser sets the HDFS user.
func WithUser(user string) func(o *Options) {
	return func(o *Options) {
		o.User = user
	}
}

// Client implements dfs.Client on HDFS.
type Client struct {
	nn      namenode
	root    string
	dirMode os.FileMode
	closed  atomic.Bool
}

var _ dfs.Client = (*Client)(nil)

// New wraps an existing HDFS client. Names resolve under root.
func New(client *hdfs.Client, root string) *Client {
	return newClient(rpcClient{client}, root, 0o755)
}

func newClient(nn namenode, root string, dirMode os.FileMode) *Client {
	if dirMode == 0 {
		dirMode = 0o755
	}
	return &Client{nn: nn, root: path.Clean("/" + root), dirMode: dirMode}
}

// Root returns the directory names resolve under.
func (c *Client) Root() string {
	return c.root
}

func (c *Client) abs(name string) string {
	return path.Join(c.root, name)
}

// clientOptions builds the RPC options for an hdfs:// endpoint.
func clientOptions(u *url.URL, opts Options) (hdfs.ClientOptions, error) {
	var co hdfs.ClientOptions

	if u.Host == "" {
		conf, err := hadoopconf.LoadFromEnvironment()
		if err != nil {
			return co, fmt.Errorf("hdfs: load hadoop configuration: %w", err)
		}
		co = hdfs.ClientOptionsFromConf(conf)
		if len(co.Addresses) == 0 {
			return co, fmt.Errorf("hdfs: endpoint %q has no namenode and none is configured", u.Redacted())
		}
	} else {
		co.Addresses = strings.Split(u.Host, ",")
	}

	switch {
	case opts.User != "":
		co.User = opts.User
	case u.User != nil && u.User.Username() != "":
		co.User = u.User.Username()
	case os.Getenv("HADOOP_USER_NAME") != "":
		co.User = os.Getenv("HADOOP_USER_NAME")
	}
	co.UseDatanodeHostname = opts.UseDatanodeHostname

	return co, nil
}

// queryOptions reads the settings an endpoint may carry in its query:
//
//	hdfs://nn:8020/root?dir_mode=0750&datanode_hostname=true
func queryOptions(u *url.URL, opts *Options) error {
	q := u.Query()
	if v := q.Get("dir_mode"); v != "" {
		mode, err := strconv.ParseUint(v, 8, 32)
		if err != nil || mode > 0o777 {
			return fmt.Errorf("hdfs: invalid dir_mode %q", v)
		}
		opts.DirMode = os.FileMode(mode)
	}
	if v := q.Get("datanode_hostname"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("hdfs: invalid datanode_hostname %q: %w", v, err)
		}
		opts.UseDatanodeHostname = b
	}
	return nil
}

// Dial connects to the namenode(s) named by u. Options given by optFns
// override those in the endpoint query.
func Dial(ctx context.Context, u *url.URL, optFns ...func(o *Options)) (*Client, error) {
	opts := Options{DirMode: 0o755}
	if err := queryOptions(u, &opts); err != nil {
		return nil, err
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	co, err := clientOptions(u, opts)
	if err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	client, err := hdfs.NewClient(co)
	if err != nil {
		return nil, fmt.Errorf("hdfs: connect %s: %w", strings.Join(co.Addresses, ","), err)
	}

	return newClient(rpcClient{client}, u.Path, opts.DirMode), nil
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

// wrap keeps errors already carrying a path as-is.
func wrap(op, name string, err error) error {
	if err == nil {
		return nil
	}
	var pe *fs.PathError
	if errors.As(err, &pe) {
		return err
	}
	return dfs.PathError(op, name, err)
}

// Stat returns metadata for name.
func (c *Client) Stat(ctx context.Context, name string) (fs.FileInfo, error) {
	if err := c.check(ctx, "stat", name); err != nil {
		return nil, err
	}
	fi, err := c.nn.Stat(c.abs(name))
	if err != nil {
		return nil, wrap("stat", name, err)
	}
	return fi, nil
}

// CreateEmpty creates an empty file.
func (c *Client) CreateEmpty(ctx context.Context, name string) error {
	if err := c.check(ctx, "create", name); err != nil {
		return err
	}
	return wrap("create", name, c.nn.CreateEmptyFile(c.abs(name)))
}

// MkdirAll creates name and any missing parents.
func (c *Client) MkdirAll(ctx context.Context, name string) error {
	if err := c.check(ctx, "mkdir", name); err != nil {
		return err
	}
	return wrap("mkdir", name, c.nn.MkdirAll(c.abs(name), c.dirMode))
}

// Append opens an existing file for appending.
func (c *Client) Append(ctx context.Context, name string) (io.WriteCloser, error) {
	if err := c.check(ctx, "append", name); err != nil {
		return nil, err
	}
	w, err := c.nn.Append(c.abs(name))
	if err != nil {
		return nil, wrap("append", name, err)
	}
	return w, nil
}

// Open opens an existing file for reading.
func (c *Client) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	if err := c.check(ctx, "open", name); err != nil {
		return nil, err
	}
	r, err := c.nn.Open(c.abs(name))
	if err != nil {
		return nil, wrap("open", name, err)
	}
	return r, nil
}

// RemoveAll removes name recursively.
func (c *Client) RemoveAll(ctx context.Context, name string) error {
	if err := c.check(ctx, "remove", name); err != nil {
		return err
	}
	return wrap("remove", name, c.nn.RemoveAll(c.abs(name)))
}

// ReadDir lists a directory. For a file it returns the file itself.
func (c *Client) ReadDir(ctx context.Context, name string) ([]fs.FileInfo, error) {
	if err := c.check(ctx, "readdir", name); err != nil {
		return nil, err
	}

	fi, err := c.nn.Stat(c.abs(name))
	if err != nil {
		return nil, wrap("readdir", name, err)
	}
	if !fi.IsDir() {
		return []fs.FileInfo{fi}, nil
	}

	infos, err := c.nn.ReadDir(c.abs(name))
	if err != nil {
		return nil, wrap("readdir", name, err)
	}
	return infos, nil
}

// Close closes the namenode connection.
func (c *Client) Close() error {
	if c.closed.Swap(true) {
		return dfs.ErrClosed
	}
	return c.nn.Close()
}
