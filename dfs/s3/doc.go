// Package s3 provides an Amazon S3 bucket for the object filesystem client.
//
// # Usage
//
//	client, err := s3.New(ctx, "my-bucket", "warehouse/",
//	    s3.WithRegion("eu-central-1"),
//	)
//
//	store := filestore.New(client, "s3://my-bucket/warehouse")
//
// Or through an endpoint URL:
//
//	store, err := filestore.Open(ctx, "s3://my-bucket/warehouse?region=eu-central-1")
//
// # Features
//
//   - Multipart uploads through the transfer manager
//   - Automatic pagination for listing
//   - Batch deletes (DeleteObjects) for recursive removal
//   - Custom endpoints and path-style addressing for S3-compatible stores
package s3
