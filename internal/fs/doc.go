// Package fs provides filesystem abstractions for testability and fault injection.
//
// The package defines two key interfaces:
//
//   - [File]: Represents an open file with read/write/sync capabilities
//   - [FileSystem]: Abstracts the filesystem operations the local backend needs
//
// # Implementations
//
//   - [LocalFS]: Production implementation using standard os package
//   - [FaultyFS]: Test utility for fault injection (simulate I/O errors)
//
// # Usage
//
// Production code should use fs.Default (which is [LocalFS]):
//
//	file, err := fs.Default.OpenFile(path, os.O_WRONLY|os.O_APPEND, 0)
//
// Tests can inject [FaultyFS] to simulate failures:
//
//	ffs := fs.NewFaultyFS(nil)
//	ffs.AddRule("part-0", fs.Fault{FailAfterBytes: 3})
//	client := local.New(root, local.WithFileSystem(ffs))
//
// This package intentionally does NOT include context.Context parameters.
// Local filesystem operations are non-interruptible at the syscall level.
package fs
