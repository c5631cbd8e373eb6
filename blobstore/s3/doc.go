// Package s3 provides an S3 implementation of the blobstore.WritableStore interface.
//
// # Usage
//
//	store, err := s3.New(ctx, "my-bucket",
//	    s3.WithPrefix("datasets/"),
//	    s3.WithRegion("us-east-1"),
//	)
//
//	set, err := kmeans.Load(ctx, store, "points.dat.zst", ',')
//
// # Features
//
//   - Range reads for efficient partial fetches
//   - Multipart uploads for large outputs
//   - Automatic pagination for listing
//   - Configurable prefix for multi-tenant isolation
package s3
