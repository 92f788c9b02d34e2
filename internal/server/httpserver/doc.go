// Package httpserver provides the HTTP server for cicd-server.
//
// It uses the Go standard library net/http. NewRouter assembles the
// middleware chain around the endpoint handler:
//
//	RequestID -> Recover -> Instrument -> AccessLog -> RateLimit -> handler
//
// Instrument records every request into the HTTP metrics exactly once,
// including requests whose handler panicked or whose client went away.
package httpserver
