// Package filestore provides a small file-access facade over a distributed filesystem.
//
// A FileStore is bound to one root endpoint, such as hdfs://namenode:8020,
// and offers create, append, read, delete, list and directory checks as
// synchronous pass-through calls. Each operation first checks whether the
// target exists; block placement, replication and consistency stay with the
// remote system.
//
// # Quick Start
//
//	ctx := context.Background()
//	store, err := filestore.Open(ctx, "hdfs://namenode:8020")
//	if err != nil {
//	    return err
//	}
//	defer store.Close()
//
//	_ = store.Create(ctx, "/logs/today.txt")
//	_ = store.Append(ctx, "/logs/today.txt", "first line\n")
//	content, _ := store.Read(ctx, "/logs/today.txt")
//
// # Backends
//
// The endpoint scheme selects the backend:
//
//	hdfs://[user@]nn1:8020[,nn2:8020][/root]   HDFS via github.com/colinmarc/hdfs/v2
//	    ?dir_mode=0750&datanode_hostname=true
//	file:///abs/root                          a local directory
//	mem://name                                an in-process namespace shared by name
//	s3://bucket/prefix?region=eu-west-1       Amazon S3 (aws-sdk-go-v2)
//	minio://[ak:sk@]host:9000/bucket/prefix   MinIO and S3-compatible stores
//
// Further schemes can be registered with WithDialer, and New wraps any
// dfs.Client directly.
//
// # Outcomes
//
// Operations that find nothing to act on do not change the filesystem and
// report it with a sentinel:
//
//	err := store.Delete(ctx, "/missing")
//	errors.Is(err, filestore.ErrNotExist) // true
//
//	err = store.Create(ctx, "/logs/today.txt")
//	errors.Is(err, filestore.ErrExist) // true if it already exists
//
// Backend failures are returned as *PathError. Every outcome is also logged
// through the configured Logger and reported to the MetricsCollector.
//
// # Line Handling
//
// Append writes content verbatim. Read is line oriented: "\n", "\r" and
// "\r\n" end a line, and every line comes back followed by "\n". A file
// without a final newline therefore gains one, and CRLF becomes LF.
//
// # Limits
//
// WithMaxInFlight bounds concurrent calls to the remote filesystem and
// WithIOLimit caps Append/Read payload throughput. Both are off by default.
package filestore
