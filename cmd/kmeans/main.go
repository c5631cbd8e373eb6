// Command kmeans clusters delimited points read from a file, S3 or MinIO and
// writes the centroids and optionally every cluster.
//
//	kmeans -input test_data_1.dat -k 5 -output centroids.dat -clusters cl_
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hupe1980/kmeans"
	"github.com/hupe1980/kmeans/blobstore"
	"github.com/hupe1980/kmeans/codec"
	"github.com/hupe1980/kmeans/metrics/prometheus"
)

func main() {
	cfg, err := parseArgs(os.Args[1:], os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

// Summary is the JSON report printed with -format json.
type Summary struct {
	RunID     string      `json:"run_id"`
	State     string      `json:"state"`
	K         int         `json:"k"`
	Passes    int         `json:"passes"`
	Delta     float64     `json:"delta"`
	Points    int         `json:"points"`
	Dropped   int         `json:"dropped"`
	Dimension int         `json:"dimension"`
	Inertia   float64     `json:"inertia"`
	Counts    []int       `json:"counts"`
	Centroids [][]float64 `json:"centroids"`
}

func run(ctx context.Context, cfg Config, stdout io.Writer) error {
	logger := kmeans.NewTextLogger(cfg.Level())
	collector := prometheus.NewCollector("kmeans")

	if cfg.MetricsAddr != "" {
		srv := &http.Server{
			Addr:              cfg.MetricsAddr,
			Handler:           newRouter(collector.Handler()),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("metrics server failed", "addr", cfg.MetricsAddr, "error", err)
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	delim, err := cfg.Delim()
	if err != nil {
		return err
	}

	src, name, err := resolve(ctx, cfg.Input, &cfg)
	if err != nil {
		return err
	}
	var in blobstore.BlobStore = src
	if cfg.ReadLimit > 0 {
		in = blobstore.NewThrottle(src, cfg.ReadLimit)
	}

	opts := []kmeans.Option{
		kmeans.WithStrict(cfg.Strict),
		kmeans.WithEpsilon(cfg.Epsilon),
		kmeans.WithLogger(logger),
		kmeans.WithMetricsCollector(collector),
	}
	if cfg.Limit > 0 {
		opts = append(opts, kmeans.WithHardLimit(cfg.Limit))
	}

	set, err := kmeans.Load(ctx, in, name, delim, opts...)
	if err != nil {
		return err
	}

	res, err := set.Compute(ctx, cfg.K)
	if err != nil {
		return err
	}

	if cfg.Output != "" {
		if err := writeCentroids(ctx, set, cfg.Output, delim, &cfg); err != nil {
			return err
		}
	}
	if cfg.Clusters != "" {
		store, prefix, err := resolve(ctx, cfg.Clusters, &cfg)
		if err != nil {
			return err
		}
		if err := set.BurstClusters(ctx, store, prefix, delim); err != nil {
			return err
		}
	}

	switch cfg.Format {
	case "json":
		return writeSummary(stdout, set, res)
	default:
		if cfg.Output != "" {
			return nil
		}
		if err := set.WriteCentroids(stdout, delim); err != nil {
			return err
		}
		_, err := fmt.Fprintln(stdout)
		return err
	}
}

func writeCentroids(ctx context.Context, set *kmeans.Set, location string, delim rune, cfg *Config) error {
	store, name, err := resolve(ctx, location, cfg)
	if err != nil {
		return err
	}

	w, err := blobstore.NewWriter(ctx, store, name)
	if err != nil {
		return err
	}
	if err := set.WriteCentroids(w, delim); err != nil {
		_ = w.Abort()
		return fmt.Errorf("write %s: %w", location, err)
	}
	return w.Close()
}

func writeSummary(w io.Writer, set *kmeans.Set, res kmeans.Result) error {
	_, inertia := set.Inertia()

	var counts []int
	for _, c := range set.Clusters() {
		counts = append(counts, c.Count)
	}

	data, err := codec.GoJSON{}.MarshalIndent(Summary{
		RunID:     res.RunID,
		State:     res.State.String(),
		K:         res.K,
		Passes:    res.Passes,
		Delta:     res.Delta,
		Points:    set.Len(),
		Dropped:   set.Dropped(),
		Dimension: set.Dimension(),
		Inertia:   inertia,
		Counts:    counts,
		Centroids: set.Centroids(),
	}, "", "  ")
	if err != nil {
		return err
	}

	_, err = fmt.Fprintf(w, "%s\n", data)
	return err
}
