// Package object provides a dfs.Client that emulates a hierarchical
// filesystem on top of a flat object-store bucket.
//
// # Layout
//
//   - A file "/a/b.txt" is the object "<prefix>/a/b.txt".
//   - A directory "/a" exists when the marker object "<prefix>/a/" exists
//     or when any object lives below "<prefix>/a/".
//   - The root "/" always exists.
//
// Append is a read-modify-write of the whole object and is not atomic:
// concurrent appends to the same file may lose data. The s3 and minio
// packages provide Bucket implementations.
package object

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"path"
	"strings"
	"time"
)

// ObjectInfo describes one listing entry.
type ObjectInfo struct {
	Key     string
	Size    int64
	ModTime time.Time

	// IsPrefix marks a common prefix returned for a delimited listing.
	IsPrefix bool
}

// Bucket is the minimal flat key/value surface the Client needs.
//
// Implementations report missing keys with errors satisfying
// errors.Is(err, fs.ErrNotExist) and must be safe for concurrent use.
type Bucket interface {
	// Stat returns the metadata of a single object.
	Stat(ctx context.Context, key string) (ObjectInfo, error)

	// Get returns the content of an object.
	Get(ctx context.Context, key string) (io.ReadCloser, error)

	// Put writes size bytes from r as the object key, replacing any existing object.
	Put(ctx context.Context, key string, r io.Reader, size int64) error

	// Delete removes keys. Missing keys are not an error.
	// Callers pass at most MaxDeleteBatch keys.
	Delete(ctx context.Context, keys []string) error

	// List returns objects whose key starts with prefix, sorted by key.
	// With a non-empty delimiter, keys containing the delimiter after the
	// prefix are rolled up into IsPrefix entries. limit <= 0 means no limit.
	List(ctx context.Context, prefix, delimiter string, limit int) ([]ObjectInfo, error)
}

// MaxDeleteBatch is the largest number of keys passed to Bucket.Delete at once.
// It matches the S3 DeleteObjects limit.
const MaxDeleteBatch = 1000

func isNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}

// keyspace maps absolute slash-separated names to object keys.
type keyspace struct {
	prefix string // no leading or trailing slash
}

func newKeyspace(rootPrefix string) keyspace {
	return keyspace{prefix: strings.Trim(rootPrefix, "/")}
}

func (k keyspace) key(name string) string {
	return strings.TrimPrefix(path.Join(k.prefix, strings.TrimPrefix(name, "/")), "/")
}

func (k keyspace) dirKey(name string) string {
	key := k.key(name)
	if key == "" {
		return ""
	}
	return key + "/"
}
