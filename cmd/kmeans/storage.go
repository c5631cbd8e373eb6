package main

import (
	"context"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/hupe1980/kmeans/blobstore"
	miniostore "github.com/hupe1980/kmeans/blobstore/minio"
	s3store "github.com/hupe1980/kmeans/blobstore/s3"
)

// resolve maps a location to a store and a blob name within it.
//
//	data/points.dat          local file
//	s3://bucket/key          S3 object
//	minio://bucket/key       MinIO object on cfg.MinIO.Endpoint
//
// For a cluster prefix the returned name is the prefix itself.
func resolve(ctx context.Context, location string, cfg *Config) (blobstore.WritableStore, string, error) {
	if !strings.Contains(location, "://") {
		return resolveLocal(location)
	}

	u, err := url.Parse(location)
	if err != nil {
		return nil, "", fmt.Errorf("parse %q: %w", location, err)
	}
	if u.Scheme == "file" {
		return resolveLocal(filepath.FromSlash(u.Path))
	}

	bucket, key := u.Host, strings.TrimPrefix(u.Path, "/")
	if bucket == "" || key == "" {
		return nil, "", fmt.Errorf("location %q: bucket and key are required", location)
	}

	switch u.Scheme {
	case "s3":
		var opts []s3store.Option
		if cfg.S3.Region != "" {
			opts = append(opts, s3store.WithRegion(cfg.S3.Region))
		}
		store, err := s3store.New(ctx, bucket, opts...)
		if err != nil {
			return nil, "", err
		}
		return store, key, nil
	case "minio":
		if cfg.MinIO.Endpoint == "" {
			return nil, "", fmt.Errorf("location %q: minio endpoint is not configured", location)
		}
		store, err := miniostore.Dial(cfg.MinIO.Endpoint, cfg.MinIO.AccessKey, cfg.MinIO.SecretKey, cfg.MinIO.Secure, bucket, "")
		if err != nil {
			return nil, "", err
		}
		return store, key, nil
	default:
		return nil, "", fmt.Errorf("location %q: unsupported scheme %q", location, u.Scheme)
	}
}

func resolveLocal(path string) (blobstore.WritableStore, string, error) {
	dir, name := filepath.Split(path)
	if name == "" {
		return nil, "", fmt.Errorf("location %q: file name is required", path)
	}
	if dir == "" {
		dir = "."
	}
	return blobstore.NewLocalStore(dir), name, nil
}
