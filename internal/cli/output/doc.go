// Package output formats command results for cicd-server subcommands.
//
// Supported formats are YAML (default) and JSON.
package output
