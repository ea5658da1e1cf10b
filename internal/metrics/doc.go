// Package metrics exposes Prometheus counters and histograms for property
// lookups, property writes, and HTTP traffic, all registered on a private
// registry served by Collector.Handler.
package metrics
