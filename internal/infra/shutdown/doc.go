// Package shutdown provides graceful shutdown handling.
//
// A Handler waits for SIGINT/SIGTERM (or an explicit Trigger), then runs the
// registered hooks in reverse registration order under a shared timeout.
package shutdown
