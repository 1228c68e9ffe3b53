package filestore

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"net/url"
	"path"
	"sync/atomic"
	"time"

	"github.com/hupe1980/filestore/dfs"
	"github.com/hupe1980/filestore/internal/resource"
)

// FileStore is a file-access facade bound to one remote filesystem endpoint.
//
// Every operation first checks whether the target path exists and then
// passes the call through to the remote filesystem. Outcomes are logged
// and reported to the metrics collector. A FileStore is safe for
// concurrent use; it adds no locking around path operations.
type FileStore struct {
	endpoint    string
	base        string
	client      dfs.Client
	logger      *Logger
	metrics     MetricsCollector
	rc          *resource.Controller
	maxLineSize int
	closed      atomic.Bool
}

// Open connects to the filesystem named by endpoint and returns a store bound to it.
//
// The backend is chosen by the endpoint scheme: hdfs, file, mem, s3 or minio,
// or any scheme registered with WithDialer. A failure to obtain the client is
// logged and returned.
func Open(ctx context.Context, endpoint string, optFns ...Option) (*FileStore, error) {
	o := applyOptions(optFns)
	logger := o.logger.WithEndpoint(redact(endpoint))

	u, err := url.Parse(endpoint)
	if err == nil && u.Scheme == "" {
		err = fmt.Errorf("%w: endpoint %q has no scheme", ErrUnsupportedScheme, endpoint)
	}
	if err != nil {
		logger.LogOpen(ctx, redact(endpoint), err)
		return nil, err
	}

	client, err := dial(ctx, u, &o)
	if err != nil {
		logger.LogOpen(ctx, redact(endpoint), err)
		return nil, err
	}
	logger.LogOpen(ctx, redact(endpoint), nil)

	return newFileStore(client, endpoint, o), nil
}

// New returns a store over an already connected client.
// The store takes ownership of client and closes it on Close.
func New(client dfs.Client, endpoint string, optFns ...Option) *FileStore {
	return newFileStore(client, endpoint, applyOptions(optFns))
}

func newFileStore(client dfs.Client, endpoint string, o options) *FileStore {
	return &FileStore{
		endpoint: endpoint,
		base:     locationBase(endpoint),
		client:   client,
		logger:   o.logger.WithEndpoint(redact(endpoint)),
		metrics:  o.metricsCollector,
		rc: resource.NewController(resource.Config{
			MaxInFlight:        o.maxInFlight,
			IOLimitBytesPerSec: o.ioLimit,
		}),
		maxLineSize: o.maxLineSize,
	}
}

// Endpoint returns the root endpoint the store is bound to.
func (s *FileStore) Endpoint() string {
	return s.endpoint
}

// resolve turns p into the absolute, cleaned path sent to the backend.
func resolve(p string) (string, error) {
	if p == "" {
		return "", ErrInvalidPath
	}
	return path.Clean("/" + p), nil
}

// location is the string form of an absolute path below the endpoint.
func (s *FileStore) location(p string) string {
	return s.base + p
}

// begin validates p and reserves an in-flight slot.
// The returned release must be called when err is nil.
func (s *FileStore) begin(ctx context.Context, op Op, p string) (abs string, release func(), err error) {
	if s.closed.Load() {
		return "", nil, &PathError{Op: string(op), Path: p, Err: ErrClosed}
	}
	abs, err = resolve(p)
	if err != nil {
		return "", nil, &PathError{Op: string(op), Path: p, Err: err}
	}
	if err := s.rc.Acquire(ctx); err != nil {
		return "", nil, &PathError{Op: string(op), Path: abs, Err: err}
	}
	return abs, s.rc.Release, nil
}

func (s *FileStore) record(op Op, start time.Time, err error) {
	s.metrics.RecordOp(op, time.Since(start), err)
}

// Create creates an empty file at p.
//
// If anything already exists at p, nothing changes and an error satisfying
// errors.Is(err, ErrExist) is returned. The parent directory must exist.
func (s *FileStore) Create(ctx context.Context, p string) (err error) {
	start := time.Now()
	defer func() { s.record(OpCreate, start, err) }()

	abs, release, err := s.begin(ctx, OpCreate, p)
	if err != nil {
		s.logger.LogCreate(ctx, p, err)
		return err
	}
	defer release()

	exists, err := s.exists(ctx, OpCreate, abs)
	if err == nil && exists {
		err = &PathError{Op: string(OpCreate), Path: abs, Err: ErrExist}
	}
	if err == nil {
		err = translateError(string(OpCreate), abs, s.client.CreateEmpty(ctx, abs))
	}

	s.logger.LogCreate(ctx, abs, err)
	return err
}

// Mkdir creates a directory at p along with any missing parents.
// If anything already exists at p, an error satisfying errors.Is(err, ErrExist) is returned.
func (s *FileStore) Mkdir(ctx context.Context, p string) (err error) {
	start := time.Now()
	defer func() { s.record(OpMkdir, start, err) }()

	abs, release, err := s.begin(ctx, OpMkdir, p)
	if err != nil {
		s.logger.LogMkdir(ctx, p, err)
		return err
	}
	defer release()

	exists, err := s.exists(ctx, OpMkdir, abs)
	if err == nil && exists {
		err = &PathError{Op: string(OpMkdir), Path: abs, Err: ErrExist}
	}
	if err == nil {
		err = translateError(string(OpMkdir), abs, s.client.MkdirAll(ctx, abs))
	}

	s.logger.LogMkdir(ctx, abs, err)
	return err
}

// Append writes content to the end of the existing file at p.
//
// Content is written verbatim; no line terminator is added. If p is absent
// ErrNotExist is returned. The write is not atomic: bytes written before a
// failure stay in the file.
func (s *FileStore) Append(ctx context.Context, p, content string) (err error) {
	start := time.Now()
	n := 0
	defer func() {
		s.metrics.RecordBytes(OpAppend, n)
		s.record(OpAppend, start, err)
	}()

	abs, release, err := s.begin(ctx, OpAppend, p)
	if err != nil {
		s.logger.LogAppend(ctx, p, 0, err)
		return err
	}
	defer release()

	exists, err := s.exists(ctx, OpAppend, abs)
	if err == nil && !exists {
		err = &PathError{Op: string(OpAppend), Path: abs, Err: ErrNotExist}
	}
	if err == nil {
		n, err = s.append(ctx, abs, content)
		err = translateError(string(OpAppend), abs, err)
	}

	s.logger.LogAppend(ctx, abs, n, err)
	return err
}

func (s *FileStore) append(ctx context.Context, abs, content string) (int, error) {
	wc, err := s.client.Append(ctx, abs)
	if err != nil {
		return 0, err
	}

	var w io.Writer = wc
	if s.rc != nil {
		w = resource.NewRateLimitedWriter(ctx, wc, s.rc)
	}

	n, err := io.WriteString(w, content)
	if cerr := wc.Close(); err == nil {
		err = cerr
	}
	return n, err
}

// Read returns the content of the file at p.
//
// The file is read line by line; "\n", "\r" and "\r\n" end a line and every
// line is returned followed by "\n". An empty file yields "". If p is absent
// "" and ErrNotExist are returned. On a read error the content read so far is
// returned together with the error.
func (s *FileStore) Read(ctx context.Context, p string) (content string, err error) {
	start := time.Now()
	defer func() {
		s.metrics.RecordBytes(OpRead, len(content))
		s.record(OpRead, start, err)
	}()

	abs, release, err := s.begin(ctx, OpRead, p)
	if err != nil {
		s.logger.LogRead(ctx, p, 0, err)
		return "", err
	}
	defer release()

	exists, err := s.exists(ctx, OpRead, abs)
	if err == nil && !exists {
		err = &PathError{Op: string(OpRead), Path: abs, Err: ErrNotExist}
	}
	if err == nil {
		content, err = s.read(ctx, abs)
		err = translateError(string(OpRead), abs, err)
	}

	s.logger.LogRead(ctx, abs, len(content), err)
	return content, err
}

func (s *FileStore) read(ctx context.Context, abs string) (string, error) {
	rc, err := s.client.Open(ctx, abs)
	if err != nil {
		return "", err
	}
	defer func() { _ = rc.Close() }()

	var r io.Reader = rc
	if s.rc != nil {
		r = resource.NewRateLimitedReader(ctx, rc, s.rc)
	}
	return readLines(r, s.maxLineSize)
}

// Delete removes the file or directory tree at p.
// If p is absent, nothing changes and ErrNotExist is returned.
func (s *FileStore) Delete(ctx context.Context, p string) (err error) {
	start := time.Now()
	defer func() { s.record(OpDelete, start, err) }()

	abs, release, err := s.begin(ctx, OpDelete, p)
	if err != nil {
		s.logger.LogDelete(ctx, p, err)
		return err
	}
	defer release()

	exists, err := s.exists(ctx, OpDelete, abs)
	if err == nil && !exists {
		err = &PathError{Op: string(OpDelete), Path: abs, Err: ErrNotExist}
	}
	if err == nil {
		err = translateError(string(OpDelete), abs, s.client.RemoveAll(ctx, abs))
	}

	s.logger.LogDelete(ctx, abs, err)
	return err
}

// IsDirectory reports whether p names a directory.
// It returns false for files, absent paths and on any error.
func (s *FileStore) IsDirectory(ctx context.Context, p string) bool {
	start := time.Now()

	abs, release, err := s.begin(ctx, OpIsDirectory, p)
	if err != nil {
		s.logger.LogIsDirectory(ctx, p, false, err)
		s.record(OpIsDirectory, start, err)
		return false
	}
	defer release()

	fi, err := s.client.Stat(ctx, abs)
	isDir := err == nil && fi.IsDir()
	err = translateError(string(OpIsDirectory), abs, err)

	s.logger.LogIsDirectory(ctx, abs, isDir, err)
	s.record(OpIsDirectory, start, err)
	return isDir
}

// List returns the location of every immediate child of the directory at p,
// in the order the backend produces them.
//
// A location is the endpoint followed by the child's absolute path. An empty
// directory yields an empty slice. A file yields its own location. If p is
// absent nil and ErrNotExist are returned. On an enumeration error the
// locations gathered so far are returned together with the error.
func (s *FileStore) List(ctx context.Context, p string) (locations []string, err error) {
	start := time.Now()
	defer func() { s.record(OpList, start, err) }()

	abs, release, err := s.begin(ctx, OpList, p)
	if err != nil {
		s.logger.LogList(ctx, p, 0, err)
		return nil, err
	}
	defer release()

	fi, err := s.client.Stat(ctx, abs)
	switch {
	case isAbsent(err):
		err = &PathError{Op: string(OpList), Path: abs, Err: ErrNotExist}
	case err != nil:
		err = translateError(string(OpList), abs, err)
	case !fi.IsDir():
		locations = []string{s.location(abs)}
	default:
		locations, err = s.list(ctx, abs)
		err = translateError(string(OpList), abs, err)
	}

	s.logger.LogList(ctx, abs, len(locations), err)
	return locations, err
}

func (s *FileStore) list(ctx context.Context, abs string) ([]string, error) {
	infos, err := s.client.ReadDir(ctx, abs)

	locations := make([]string, 0, len(infos))
	for _, info := range infos {
		locations = append(locations, s.location(path.Join(abs, info.Name())))
	}
	return locations, err
}

// Stat returns metadata for the file or directory at p.
func (s *FileStore) Stat(ctx context.Context, p string) (fi fs.FileInfo, err error) {
	start := time.Now()
	defer func() { s.record(OpStat, start, err) }()

	abs, release, err := s.begin(ctx, OpStat, p)
	if err != nil {
		return nil, err
	}
	defer release()

	fi, err = s.client.Stat(ctx, abs)
	if err != nil {
		return nil, translateError(string(OpStat), abs, err)
	}
	return fi, nil
}

// Exists reports whether anything exists at p.
func (s *FileStore) Exists(ctx context.Context, p string) (bool, error) {
	_, err := s.Stat(ctx, p)
	if isAbsent(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// exists is the pre-check every mutating operation runs.
func (s *FileStore) exists(ctx context.Context, op Op, abs string) (bool, error) {
	_, err := s.client.Stat(ctx, abs)
	if isAbsent(err) {
		return false, nil
	}
	if err != nil {
		return false, translateError(string(op), abs, err)
	}
	return true, nil
}
