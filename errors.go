package filestore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"github.com/hupe1980/filestore/dfs"
)

var (
	// ErrNotExist is returned when the target path is absent.
	ErrNotExist = fs.ErrNotExist

	// ErrExist is returned when Create or Mkdir finds something already at the path.
	ErrExist = fs.ErrExist

	// ErrPermission is returned when the remote filesystem denies access.
	ErrPermission = fs.ErrPermission

	// ErrInvalidPath is returned for an empty path.
	ErrInvalidPath = errors.New("invalid path")

	// ErrClosed is returned by every operation after Close.
	ErrClosed = errors.New("file store closed")

	// ErrUnsupportedScheme is returned by Open for an endpoint scheme with no dialer.
	ErrUnsupportedScheme = errors.New("unsupported endpoint scheme")
)

// PathError records a failed operation and the path it targeted.
//
// The backend error can be accessed via errors.Unwrap.
type PathError struct {
	Op   string
	Path string
	Err  error
}

func (e *PathError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *PathError) Unwrap() error { return e.Err }

// translateError normalises a backend error for op on p.
// Errors keep their chain so errors.Is still sees fs and context sentinels.
func translateError(op, p string, err error) error {
	if err == nil {
		return nil
	}

	var pe *PathError
	if errors.As(err, &pe) {
		return err
	}

	// A closed backend and a closed store are the same condition for callers.
	if errors.Is(err, dfs.ErrClosed) {
		err = fmt.Errorf("%w: %w", ErrClosed, err)
	}

	return &PathError{Op: op, Path: p, Err: err}
}

// isAbsent reports whether err means nothing exists at the path.
func isAbsent(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}

// isExist reports whether err means something already occupies the path.
func isExist(err error) bool {
	return errors.Is(err, fs.ErrExist)
}

// isCanceled reports whether err comes from the caller's context.
func isCanceled(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
