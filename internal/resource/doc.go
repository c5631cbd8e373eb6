// Package resource bounds the workers and memory of concurrent clustering
// runs.
//
//	┌───────────────────────────────────────────┐
//	│                Controller                 │
//	├─────────────────────┬─────────────────────┤
//	│  Workers (sem)      │  Memory (sem)       │
//	├─────────────────────┼─────────────────────┤
//	│  AcquireWorker      │  AcquireMemory      │
//	│  TryAcquireWorker   │  TryAcquireMemory   │
//	│  ReleaseWorker      │  ReleaseMemory      │
//	└─────────────────────┴─────────────────────┘
//
// AcquireMemory blocks until enough of the budget is free. A request larger
// than the whole budget can never be served and fails with
// ErrMemoryLimitExceeded instead of blocking forever.
//
//	rc := resource.NewController(resource.Config{
//	    MaxWorkers:       4,
//	    MemoryLimitBytes: 1 << 30,
//	})
//	if err := rc.AcquireWorker(ctx); err != nil {
//	    return err
//	}
//	defer rc.ReleaseWorker()
//
// A nil *Controller imposes no limits.
package resource
