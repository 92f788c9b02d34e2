// Package handler provides HTTP request handlers for the demo server.
//
// Routes:
//
//	GET /         greeting page (HTML)
//	GET /health   liveness/readiness probe (JSON)
//	GET /metrics  Prometheus exposition
package handler
