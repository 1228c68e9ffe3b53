package filestore

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/hupe1980/filestore/dfs"
	"github.com/hupe1980/filestore/dfs/hdfs"
	"github.com/hupe1980/filestore/dfs/local"
	"github.com/hupe1980/filestore/dfs/memory"
	"github.com/hupe1980/filestore/dfs/minio"
	"github.com/hupe1980/filestore/dfs/object"
	"github.com/hupe1980/filestore/dfs/s3"
)

// Dialer obtains a client for a parsed endpoint.
type Dialer func(ctx context.Context, u *url.URL) (dfs.Client, error)

func dial(ctx context.Context, u *url.URL, o *options) (dfs.Client, error) {
	if d, ok := o.dialers[u.Scheme]; ok {
		return d(ctx, u)
	}

	var (
		client dfs.Client
		err    error
	)

	switch u.Scheme {
	case "hdfs":
		var optFns []func(*hdfs.Options)
		if o.hdfsUser != "" {
			optFns = append(optFns, hdfs.WithUser(o.hdfsUser))
		}
		var c *hdfs.Client
		if c, err = hdfs.Dial(ctx, u, optFns...); err == nil {
			client = c
		}
	case "file":
		client, err = dialLocal(u)
	case "mem":
		client, err = dialMemory(u)
	case "s3":
		var c *object.Client
		if c, err = s3.Dial(ctx, u); err == nil {
			client = c
		}
	case "minio":
		var c *object.Client
		if c, err = minio.Dial(ctx, u); err == nil {
			client = c
		}
	default:
		err = fmt.Errorf("%w: %q", ErrUnsupportedScheme, u.Scheme)
	}

	if err != nil {
		return nil, err
	}
	return client, nil
}

// dialLocal serves file:///abs/root. The root directory must exist.
func dialLocal(u *url.URL) (dfs.Client, error) {
	if u.Host != "" && u.Host != "localhost" {
		return nil, fmt.Errorf("file endpoint %q names a remote host", u.String())
	}
	root := u.Path
	if root == "" {
		root = "/"
	}

	fi, err := os.Stat(root)
	if err != nil {
		return nil, err
	}
	if !fi.IsDir() {
		return nil, fmt.Errorf("file endpoint root %s: %w", root, dfs.ErrNotDir)
	}

	return local.New(root), nil
}

// dialMemory serves mem://name. Stores opened with the same name share one namespace.
func dialMemory(u *url.URL) (dfs.Client, error) {
	if u.Path != "" && u.Path != "/" {
		return nil, fmt.Errorf("mem endpoint %q takes no path", u.String())
	}
	return memory.NewClient(memory.Shared(u.Host)), nil
}

// locationBase is the endpoint prefix of every location List returns:
// scheme, host and root path, without credentials, query or trailing slash.
// The root path is kept in its decoded form.
func locationBase(endpoint string) string {
	u, err := url.Parse(endpoint)
	if err != nil || u.Scheme == "" {
		return strings.TrimRight(endpoint, "/")
	}

	// Unescaped, like the paths appended to it.
	return u.Scheme + "://" + u.Host + strings.TrimRight(u.Path, "/")
}

// redact hides the password in an endpoint for logging.
func redact(endpoint string) string {
	u, err := url.Parse(endpoint)
	if err != nil {
		return endpoint
	}
	return u.Redacted()
}
