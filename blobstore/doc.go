// Package blobstore provides the storage abstraction datasets are loaded from
// and results are written to.
//
// BlobStore is the read side; WritableStore adds creation of new blobs.
// Implementations must be safe for concurrent use.
//
// # Built-in Implementations
//
//   - LocalStore: local filesystem, read through a read-only memory mapping
//   - MemoryStore: in-memory, for tests
//   - s3.Store: Amazon S3 with range reads and multipart uploads
//   - minio.Store: MinIO and other S3-compatible services
//   - Throttle: wraps any BlobStore and bounds read throughput
//
// # Compression
//
// NewReader and NewWriter pick a codec from the blob name: ".zst" blobs are
// zstd streams, ".lz4" blobs are LZ4 frames, everything else is read and
// written as is.
package blobstore
