// Package prometheus exports clustering metrics to Prometheus.
//
//	c := prometheus.NewCollector("kmeans")
//	set, _ := kmeans.Read(f, ',', kmeans.WithMetricsCollector(c))
//	http.Handle("/metrics", c.Handler())
package prometheus
