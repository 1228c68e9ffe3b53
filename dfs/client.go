package dfs

import (
	"context"
	"errors"
	"io"
	"io/fs"
)

// Client is the contract between the facade and a remote filesystem.
//
// Implementations must be safe for concurrent use.
type Client interface {
	// Stat returns metadata for name.
	Stat(ctx context.Context, name string) (fs.FileInfo, error)

	// CreateEmpty creates an empty file. The parent directory must exist.
	CreateEmpty(ctx context.Context, name string) error

	// MkdirAll creates a directory along with any missing parents.
	MkdirAll(ctx context.Context, name string) error

	// Append opens an existing file for appending.
	// Bytes become visible no later than Close.
	Append(ctx context.Context, name string) (io.WriteCloser, error)

	// Open opens an existing file for reading.
	Open(ctx context.Context, name string) (io.ReadCloser, error)

	// RemoveAll removes name and, for directories, everything below it.
	RemoveAll(ctx context.Context, name string) error

	// ReadDir returns the immediate children of a directory in the order
	// the backend produces them. For a file it returns the file itself.
	ReadDir(ctx context.Context, name string) ([]fs.FileInfo, error)

	// Close releases the connection to the remote filesystem.
	Close() error
}

// ErrClosed is returned by a Client after Close.
var ErrClosed = errors.New("dfs: client closed")

// ErrNotDir is returned when a path component that must be a directory is a file.
var ErrNotDir = errors.New("not a directory")

// ErrIsDir is returned when a file operation targets a directory.
var ErrIsDir = errors.New("is a directory")
