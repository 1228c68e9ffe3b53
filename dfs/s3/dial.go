package s3

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/hupe1980/filestore/dfs/object"
)

// Options configures New.
type Options struct {
	// Region overrides the region from the default AWS configuration chain.
	Region string

	// Endpoint points the client at an S3-compatible service.
	Endpoint string

	// UsePathStyle forces path-style addressing (bucket in the URL path).
	UsePathStyle bool

	// Upload configures multipart uploads.
	Upload UploadConfig

	// DeleteConcurrency bounds parallel delete batches. Default: 4.
	DeleteConcurrency int
}

// WithRegion sets the AWS region.
func WithRegion(region string) func(o *Options) {
	return func(o *Options) {
		o.Region = region
	}
}

// WithEndpoint sets a custom S3 endpoint and enables path-style addressing.
func WithEndpoint(endpoint string) func(o *Options) {
	return func(o *Options) {
		o.Endpoint = endpoint
		o.UsePathStyle = true
	}
}

// WithUploadConfig overrides the multipart upload settings.
func WithUploadConfig(cfg UploadConfig) func(o *Options) {
	return func(o *Options) {
		o.Upload = cfg
	}
}

// New loads the default AWS configuration and returns a filesystem client
// for bucket. rootPrefix is prepended to all keys.
func New(ctx context.Context, bucket, rootPrefix string, optFns ...func(o *Options)) (*object.Client, error) {
	opts := Options{
		Upload:            DefaultUploadConfig(),
		DeleteConcurrency: 4,
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	var loadOpts []func(*config.LoadOptions) error
	if opts.Region != "" {
		loadOpts = append(loadOpts, config.WithRegion(opts.Region))
	}

	cfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("s3: load aws config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
		}
		o.UsePathStyle = opts.UsePathStyle
	})

	return object.NewClient(NewBucket(client, bucket, opts.Upload), rootPrefix, func(o *object.Options) {
		o.DeleteConcurrency = opts.DeleteConcurrency
	}), nil
}

// Dial opens a client for an endpoint of the form
//
//	s3://bucket/prefix?region=eu-west-1&endpoint=http://localhost:4566&path_style=true
func Dial(ctx context.Context, u *url.URL) (*object.Client, error) {
	if u.Host == "" {
		return nil, fmt.Errorf("s3: endpoint %q has no bucket", u.String())
	}

	q := u.Query()
	optFns := []func(o *Options){}
	if region := q.Get("region"); region != "" {
		optFns = append(optFns, WithRegion(region))
	}
	if endpoint := q.Get("endpoint"); endpoint != "" {
		optFns = append(optFns, WithEndpoint(endpoint))
	}
	if v := q.Get("path_style"); v != "" {
		pathStyle, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("s3: invalid path_style %q: %w", v, err)
		}
		optFns = append(optFns, func(o *Options) { o.UsePathStyle = pathStyle })
	}

	return New(ctx, u.Host, u.Path, optFns...)
}
