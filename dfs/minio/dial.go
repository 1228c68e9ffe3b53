package minio

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/hupe1980/filestore/dfs/object"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// endpoint is a parsed minio:// URL.
type endpoint struct {
	host   string
	bucket string
	prefix string
	secure bool
	region string
	creds  *credentials.Credentials
}

func parseEndpoint(u *url.URL) (endpoint, error) {
	ep := endpoint{host: u.Host}
	if ep.host == "" {
		return ep, fmt.Errorf("minio: endpoint %q has no host", u.Redacted())
	}

	parts := strings.SplitN(strings.TrimPrefix(u.Path, "/"), "/", 2)
	ep.bucket = parts[0]
	if ep.bucket == "" {
		return ep, fmt.Errorf("minio: endpoint %q has no bucket", u.Redacted())
	}
	if len(parts) == 2 {
		ep.prefix = parts[1]
	}

	q := u.Query()
	ep.region = q.Get("region")
	if v := q.Get("secure"); v != "" {
		secure, err := strconv.ParseBool(v)
		if err != nil {
			return ep, fmt.Errorf("minio: invalid secure %q: %w", v, err)
		}
		ep.secure = secure
	}

	if u.User != nil {
		secret, _ := u.User.Password()
		ep.creds = credentials.NewStaticV4(u.User.Username(), secret, "")
	} else {
		ep.creds = credentials.NewChainCredentials([]credentials.Provider{
			&credentials.EnvMinio{},
			&credentials.EnvAWS{},
		})
	}
	return ep, nil
}

// Dial opens a client for an endpoint of the form
//
//	minio://[access:secret@]host:port/bucket/prefix?secure=true&region=us-east-1
func Dial(ctx context.Context, u *url.URL) (*object.Client, error) {
	ep, err := parseEndpoint(u)
	if err != nil {
		return nil, err
	}

	client, err := minio.New(ep.host, &minio.Options{
		Creds:  ep.creds,
		Secure: ep.secure,
		Region: ep.region,
	})
	if err != nil {
		return nil, fmt.Errorf("minio: %w", err)
	}

	exists, err := client.BucketExists(ctx, ep.bucket)
	if err != nil {
		return nil, fmt.Errorf("minio: check bucket %s: %w", ep.bucket, err)
	}
	if !exists {
		return nil, fmt.Errorf("minio: bucket %s does not exist", ep.bucket)
	}

	return NewClient(client, ep.bucket, ep.prefix), nil
}
