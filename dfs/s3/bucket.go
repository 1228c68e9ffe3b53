package s3

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"sort"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/hupe1980/filestore/dfs/object"
)

// Client is the subset of the S3 API used by Bucket.
// *s3.Client satisfies it; tests substitute a mock.
type Client interface {
	manager.UploadAPIClient
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	DeleteObjects(ctx context.Context, params *s3.DeleteObjectsInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectsOutput, error)
	ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
}

// Bucket implements object.Bucket for S3.
type Bucket struct {
	client   Client
	bucket   string
	uploader *manager.Uploader
}

var _ object.Bucket = (*Bucket)(nil)

// NewBucket creates a Bucket for the named S3 bucket.
func NewBucket(client Client, bucket string, cfg UploadConfig) *Bucket {
	return &Bucket{
		client:   client,
		bucket:   bucket,
		uploader: newUploader(client, cfg),
	}
}

// Stat returns the metadata of a single object.
func (b *Bucket) Stat(ctx context.Context, key string) (object.ObjectInfo, error) {
	head, err := b.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return object.ObjectInfo{}, translateError(err)
	}

	return object.ObjectInfo{
		Key:     key,
		Size:    aws.ToInt64(head.ContentLength),
		ModTime: aws.ToTime(head.LastModified),
	}, nil
}

// Get returns the content of an object.
func (b *Bucket) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	resp, err := b.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, translateError(err)
	}
	return resp.Body, nil
}

// Put uploads r as the object key through the transfer manager.
func (b *Bucket) Put(ctx context.Context, key string, r io.Reader, size int64) error {
	_, err := b.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(b.bucket),
		Key:           aws.String(key),
		Body:          r,
		ContentLength: aws.Int64(size),
	})
	return translateError(err)
}

// Delete removes up to object.MaxDeleteBatch keys with one DeleteObjects call.
func (b *Bucket) Delete(ctx context.Context, keys []string) error {
	if len(keys) == 0 {
		return nil
	}

	ids := make([]types.ObjectIdentifier, 0, len(keys))
	for _, k := range keys {
		ids = append(ids, types.ObjectIdentifier{Key: aws.String(k)})
	}

	out, err := b.client.DeleteObjects(ctx, &s3.DeleteObjectsInput{
		Bucket: aws.String(b.bucket),
		Delete: &types.Delete{
			Objects: ids,
			Quiet:   aws.Bool(true),
		},
	})
	if err != nil {
		return translateError(err)
	}
	if len(out.Errors) > 0 {
		first := out.Errors[0]
		return fmt.Errorf("s3: delete %s: %s: %s (%d failed)",
			aws.ToString(first.Key), aws.ToString(first.Code), aws.ToString(first.Message), len(out.Errors))
	}
	return nil
}

// List pages through ListObjectsV2 and merges objects and common prefixes by key.
func (b *Bucket) List(ctx context.Context, prefix, delimiter string, limit int) ([]object.ObjectInfo, error) {
	input := &s3.ListObjectsV2Input{
		Bucket: aws.String(b.bucket),
		Prefix: aws.String(prefix),
	}
	if delimiter != "" {
		input.Delimiter = aws.String(delimiter)
	}
	if limit > 0 && limit < 1000 {
		input.MaxKeys = aws.Int32(int32(limit))
	}

	var infos []object.ObjectInfo

	paginator := s3.NewListObjectsV2Paginator(b.client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, translateError(err)
		}
		for _, obj := range page.Contents {
			infos = append(infos, object.ObjectInfo{
				Key:     aws.ToString(obj.Key),
				Size:    aws.ToInt64(obj.Size),
				ModTime: aws.ToTime(obj.LastModified),
			})
		}
		for _, cp := range page.CommonPrefixes {
			infos = append(infos, object.ObjectInfo{
				Key:      aws.ToString(cp.Prefix),
				IsPrefix: true,
			})
		}
		if limit > 0 && len(infos) >= limit {
			break
		}
	}

	sort.Slice(infos, func(i, j int) bool { return infos[i].Key < infos[j].Key })
	if limit > 0 && len(infos) > limit {
		infos = infos[:limit]
	}
	return infos, nil
}

// translateError maps S3 errors onto io/fs sentinels.
func translateError(err error) error {
	if err == nil {
		return nil
	}

	var nf *types.NotFound
	if errors.As(err, &nf) {
		return fmt.Errorf("%w: %w", fs.ErrNotExist, err)
	}
	var nsk *types.NoSuchKey
	if errors.As(err, &nsk) {
		return fmt.Errorf("%w: %w", fs.ErrNotExist, err)
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NotFound", "NoSuchKey":
			return fmt.Errorf("%w: %w", fs.ErrNotExist, err)
		case "AccessDenied", "Forbidden":
			return fmt.Errorf("%w: %w", fs.ErrPermission, err)
		}
	}
	return err
}
