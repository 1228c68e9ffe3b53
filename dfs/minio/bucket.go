package minio

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"sort"
	"strings"

	"github.com/hupe1980/filestore/dfs/object"
	"github.com/minio/minio-go/v7"
)

// Bucket implements object.Bucket for MinIO and S3-compatible storage.
type Bucket struct {
	client *minio.Client
	bucket string
}

var _ object.Bucket = (*Bucket)(nil)

// NewBucket creates a Bucket for the named MinIO bucket.
func NewBucket(client *minio.Client, bucket string) *Bucket {
	return &Bucket{
		client: client,
		bucket: bucket,
	}
}

// NewClient returns a filesystem client over bucket.
// rootPrefix is prepended to all keys (e.g. "warehouse/").
func NewClient(client *minio.Client, bucket, rootPrefix string) *object.Client {
	return object.NewClient(NewBucket(client, bucket), rootPrefix)
}

// Stat returns the metadata of a single object.
func (b *Bucket) Stat(ctx context.Context, key string) (object.ObjectInfo, error) {
	info, err := b.client.StatObject(ctx, b.bucket, key, minio.StatObjectOptions{})
	if err != nil {
		return object.ObjectInfo{}, translateError(err)
	}
	return object.ObjectInfo{
		Key:     key,
		Size:    info.Size,
		ModTime: info.LastModified,
	}, nil
}

// Get returns the content of an object.
func (b *Bucket) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	obj, err := b.client.GetObject(ctx, b.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, translateError(err)
	}

	// GetObject is lazy; surface a missing key now rather than on first Read
	if _, err := obj.Stat(); err != nil {
		_ = obj.Close()
		return nil, translateError(err)
	}
	return obj, nil
}

// Put writes size bytes from r as the object key.
func (b *Bucket) Put(ctx context.Context, key string, r io.Reader, size int64) error {
	_, err := b.client.PutObject(ctx, b.bucket, key, r, size, minio.PutObjectOptions{})
	return translateError(err)
}

// Delete removes keys with a multi-object delete.
func (b *Bucket) Delete(ctx context.Context, keys []string) error {
	if len(keys) == 0 {
		return nil
	}

	objectsCh := make(chan minio.ObjectInfo, len(keys))
	for _, k := range keys {
		objectsCh <- minio.ObjectInfo{Key: k}
	}
	close(objectsCh)

	var (
		firstErr error
		failed   int
	)
	for rErr := range b.client.RemoveObjects(ctx, b.bucket, objectsCh, minio.RemoveObjectsOptions{}) {
		if isNotFound(rErr.Err) {
			continue
		}
		failed++
		if firstErr == nil {
			firstErr = fmt.Errorf("minio: delete %s: %w", rErr.ObjectName, translateError(rErr.Err))
		}
	}
	if firstErr != nil && failed > 1 {
		return fmt.Errorf("%w (%d failed)", firstErr, failed)
	}
	return firstErr
}

// List returns objects and, for delimited listings, common prefixes sorted by key.
func (b *Bucket) List(ctx context.Context, prefix, delimiter string, limit int) ([]object.ObjectInfo, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	opts := minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: delimiter == "",
	}
	if limit > 0 && limit < 1000 {
		opts.MaxKeys = limit
	}

	var infos []object.ObjectInfo
	for obj := range b.client.ListObjects(ctx, b.bucket, opts) {
		if obj.Err != nil {
			return nil, translateError(obj.Err)
		}
		infos = append(infos, object.ObjectInfo{
			Key:      obj.Key,
			Size:     obj.Size,
			ModTime:  obj.LastModified,
			IsPrefix: delimiter != "" && obj.Key != prefix && strings.HasSuffix(obj.Key, delimiter),
		})
		if limit > 0 && len(infos) >= limit {
			break
		}
	}

	sort.Slice(infos, func(i, j int) bool { return infos[i].Key < infos[j].Key })
	return infos, nil
}

func isNotFound(err error) bool {
	if err == nil {
		return false
	}
	code := minio.ToErrorResponse(err).Code
	return code == "NoSuchKey" || code == "NotFound"
}

// translateError maps MinIO error responses onto io/fs sentinels.
func translateError(err error) error {
	if err == nil {
		return nil
	}
	switch minio.ToErrorResponse(err).Code {
	case "NoSuchKey", "NotFound":
		return fmt.Errorf("%w: %w", fs.ErrNotExist, err)
	case "AccessDenied":
		return fmt.Errorf("%w: %w", fs.ErrPermission, err)
	}
	return err
}
