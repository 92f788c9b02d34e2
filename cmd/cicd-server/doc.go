// Package main provides the entry point for cicd-server.
//
// cicd-server is a small demo HTTP service deployed by the CI/CD
// pipeline. It serves a greeting page on /, a health check on /health
// and Prometheus metrics on /metrics, and listens on 0.0.0.0:3000 by
// default.
//
// Usage:
//
//	cicd-server [--config FILE] [--addr HOST:PORT] [--log-level LEVEL]
//	cicd-server probe [--url URL]
//	cicd-server config [--output yaml|json]
package main
