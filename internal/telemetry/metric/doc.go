// Package metric provides Prometheus metrics for the demo server.
//
// This package implements metrics collection and exposition:
//
//   - prometheus.go: Registry owning the Prometheus registry, exposition and HTTP handler
//   - collector.go: HTTP request metrics and the per-request Tracker
//   - route.go: bounding of the route label
//   - errors.go: registration errors
//
// Metrics include:
//
//   - http_request_duration_seconds histogram {method, route, status_code}
//   - http_requests_total counter {method, route, status_code}
//   - active_connections gauge
//   - Go runtime and process collectors (memory, CPU, start time)
//
// Metrics are exposed at /metrics in the Prometheus text format.
package metric
