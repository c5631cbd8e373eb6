// Package kmeans partitions fixed-dimension points into k clusters with a
// deterministic Lloyd-style iteration.
//
// # Quick Start
//
//	set, _ := kmeans.Read(f, ',')
//	res, _ := set.Compute(ctx, 5)
//	_ = set.WriteCentroids(os.Stdout, ',')
//
// # Determinism
//
// Points are stored in ascending lexicographic order, whatever order they
// arrive in. The initial centroids are the first points of k contiguous
// blocks of that order (the first N mod k blocks hold one extra point), so
// the same multiset of points and the same k always give the same clusters.
//
// # Iteration
//
// Each pass moves every point to a strictly closer centroid, if any, and then
// rebuilds the centroids of the clusters that changed. A run stops when
//
//   - the change of the largest centroid movement between two passes is at
//     most |epsilon|, or
//   - no cluster changed during a pass, or
//   - the hard limit of passes was reached (StateExhausted).
//
// # Input
//
// Read and Load accept one point per line with fields separated by a
// delimiter. The first accepted point fixes the dimension; lines of another
// length are dropped (see Set.Dropped). Fields are parsed like C's atof, so
// "3.5kg" reads as 3.5 and "n/a" as 0. WithStrict turns both cases into
// errors.
//
// Load reads from any blobstore.BlobStore (local files, memory, S3, MinIO)
// and decompresses .zst and .lz4 blobs.
//
// # Output
//
//	set.WriteCentroids(w, ',')                // one centroid per line
//	set.WriteClusters(w, ',', "*")            // "*<centroid>" then its members
//	set.BurstClusters(ctx, store, "cl_", ',') // cl_0.dat, cl_1.dat, ...
//
// # Observability
//
// Use WithLogger for structured slog logging and WithMetricsCollector to
// record ingestion, pass and run metrics; metrics/prometheus exports them.
package kmeans
