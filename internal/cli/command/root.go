package command

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/Anubhav-singhx/cicd-platform/internal/infra/buildinfo"
	"github.com/Anubhav-singhx/cicd-platform/internal/infra/confloader"
	"github.com/Anubhav-singhx/cicd-platform/internal/server/config"
)

// App creates the CLI application.
func App() *cli.App {
	return &cli.App{
		Name:    "cicd-server",
		Usage:   "Demo HTTP server with Prometheus metrics",
		Version: buildinfo.String(),
		Flags:   globalFlags(),
		Action:  runServe,
		Commands: []*cli.Command{
			ServeCommand(),
			ProbeCommand(),
			ConfigCommand(),
		},
	}
}

// globalFlags returns the flags shared by serve and config.
func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Path to YAML configuration file",
			EnvVars: []string{"CICD_CONFIG"},
		},
		&cli.StringFlag{
			Name:  "addr",
			Usage: "HTTP listen address (overrides server.http.addr)",
		},
		&cli.StringFlag{
			Name:  "log-level",
			Usage: "Log level: debug, info, warn, error (overrides log.level)",
		},
	}
}

// loadConfig builds the effective configuration: defaults, then the file,
// then CICD_* environment variables, then flags.
func loadConfig(c *cli.Context) (*config.ServerConfig, *confloader.Loader, error) {
	overrides := make(map[string]any)
	if c.IsSet("addr") {
		overrides["server.http.addr"] = c.String("addr")
	}
	if c.IsSet("log-level") {
		overrides["log.level"] = c.String("log-level")
	}

	opts := []confloader.Option{confloader.WithOverrides(overrides)}
	if path := c.String("config"); path != "" {
		opts = append(opts, confloader.WithConfigFile(path))
	}
	loader := confloader.NewLoader(opts...)

	cfg := config.Default()
	if err := loader.Load(cfg); err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	if err := config.Verify(cfg); err != nil {
		return nil, nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, loader, nil
}

// PrintError prints an error message to stderr.
func PrintError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "error: "+format+"\n", args...)
}
