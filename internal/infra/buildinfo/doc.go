// Package buildinfo provides build information for the demo server.
//
// Values are injected at link time:
//
//	go build -ldflags "-X github.com/Anubhav-singhx/cicd-platform/internal/infra/buildinfo.Version=3.1.0"
package buildinfo
