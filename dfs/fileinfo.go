package dfs

import (
	"io/fs"
	"time"
)

// FileInfo is a plain fs.FileInfo for backends that synthesize metadata
// (object stores, the in-memory tree).
type FileInfo struct {
	FileName    string
	FileSize    int64
	FileMode    fs.FileMode
	FileModTime time.Time
}

var _ fs.FileInfo = (*FileInfo)(nil)

func (fi *FileInfo) Name() string       { return fi.FileName }
func (fi *FileInfo) Size() int64        { return fi.FileSize }
func (fi *FileInfo) Mode() fs.FileMode  { return fi.FileMode }
func (fi *FileInfo) ModTime() time.Time { return fi.FileModTime }
func (fi *FileInfo) IsDir() bool        { return fi.FileMode.IsDir() }
func (fi *FileInfo) Sys() any           { return nil }

// NewFileInfo returns metadata for a regular file.
func NewFileInfo(name string, size int64, modTime time.Time) *FileInfo {
	return &FileInfo{FileName: name, FileSize: size, FileMode: 0o644, FileModTime: modTime}
}

// NewDirInfo returns metadata for a directory.
func NewDirInfo(name string, modTime time.Time) *FileInfo {
	return &FileInfo{FileName: name, FileMode: fs.ModeDir | 0o755, FileModTime: modTime}
}

// PathError records the backend operation and name that failed.
// It mirrors fs.PathError so backends can wrap SDK errors uniformly.
func PathError(op, name string, err error) error {
	if err == nil {
		return nil
	}
	return &fs.PathError{Op: op, Path: name, Err: err}
}
