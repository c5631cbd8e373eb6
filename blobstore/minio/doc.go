// Package minio provides a BlobStore implementation using the MinIO client.
//
// It works with MinIO and any other S3-compatible storage system (Ceph,
// SeaweedFS, Garage) and needs no AWS dependencies.
//
// # Basic Usage
//
//	store, err := minio.Dial("localhost:9000", "minioadmin", "minioadmin", false, "datasets", "runs/")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	set, err := kmeans.Load(ctx, store, "points.dat.zst", ',')
package minio
