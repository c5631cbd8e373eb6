package minio

import (
	"context"
	"testing"

	"github.com/hupe1980/kmeans/blobstore"
	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_Keys(t *testing.T) {
	s := NewStore(nil, "bucket", "runs/")
	assert.Equal(t, "runs/points.dat", s.key("points.dat"))
	assert.Equal(t, "runs/a/b.dat", s.key("a/b.dat"))
	assert.Equal(t, "points.dat", s.trimPrefix("runs/points.dat"))

	bare := NewStore(nil, "bucket", "")
	assert.Equal(t, "points.dat", bare.key("points.dat"))
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, isNotFound(minio.ErrorResponse{Code: "NoSuchKey"}))
	assert.True(t, isNotFound(minio.ErrorResponse{Code: "NotFound"}))
	assert.False(t, isNotFound(minio.ErrorResponse{Code: "AccessDenied"}))
}

// TestMinioStore_Integration requires a running MinIO instance.
// Skip if not available.
func TestMinioStore_Integration(t *testing.T) {
	store, err := Dial("localhost:9000", "minioadmin", "minioadmin", false, "test-kmeans", "test-prefix/")
	if err != nil {
		t.Skipf("MinIO client creation failed: %v", err)
	}

	ctx := context.Background()

	// Check if MinIO is reachable
	if _, err := store.client.ListBuckets(ctx); err != nil {
		t.Skipf("MinIO not available: %v", err)
	}

	exists, err := store.client.BucketExists(ctx, store.bucket)
	require.NoError(t, err)
	if !exists {
		require.NoError(t, store.client.MakeBucket(ctx, store.bucket, minio.MakeBucketOptions{}))
	}

	require.NoError(t, store.Put(ctx, "points.dat", []byte("1,1\n1,2\n")))

	w, err := blobstore.NewWriter(ctx, store, "points.dat.zst")
	require.NoError(t, err)
	_, err = w.Write([]byte("9,9\n9,10\n"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	data, err := blobstore.ReadAll(ctx, store, "points.dat")
	require.NoError(t, err)
	assert.Equal(t, "1,1\n1,2\n", string(data))

	data, err = blobstore.ReadAll(ctx, store, "points.dat.zst")
	require.NoError(t, err)
	assert.Equal(t, "9,9\n9,10\n", string(data))

	names, err := store.List(ctx, "")
	require.NoError(t, err)
	assert.Contains(t, names, "points.dat")

	_, err = store.Open(ctx, "missing.dat")
	assert.ErrorIs(t, err, blobstore.ErrNotFound)
}
