// Package command provides the command definitions for cicd-server.
//
// It uses urfave/cli/v2. Running the binary without a subcommand serves
// HTTP; the probe subcommand checks a running server's /health endpoint
// and config prints the effective configuration.
package command
