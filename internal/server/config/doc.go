// Package config provides the server configuration.
//
//   - spec.go: ServerConfig struct definition
//   - default.go: default values
//   - verify.go: validation
//
// Configuration is loaded via internal/infra/confloader from a YAML file,
// CICD_* environment variables and command-line flags.
package config
