// Package dfs defines the remote filesystem client contract used by filestore.
//
// A Client speaks to exactly one filesystem namespace (an HDFS cluster, a
// local directory, an object-store bucket prefix, ...). Names passed to a
// Client are absolute, slash-separated and already cleaned by the caller.
//
// # Built-in Implementations
//
//   - hdfs.Client: Apache HDFS via github.com/colinmarc/hdfs/v2
//   - local.Client: local file system rooted at a directory
//   - memory.Client: in-process tree for tests and examples
//   - object.Client: hierarchical view over a flat bucket (s3, minio)
//
// # Errors
//
// Implementations report a missing name with an error that satisfies
// errors.Is(err, fs.ErrNotExist), an existing target on create with
// fs.ErrExist and a permission denial with fs.ErrPermission.
package dfs
