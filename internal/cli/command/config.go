package command

import (
	"github.com/urfave/cli/v2"

	"github.com/Anubhav-singhx/cicd-platform/internal/cli/output"
)

// ConfigCommand returns the config subcommand.
func ConfigCommand() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Print the effective configuration",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output format: yaml, json",
				Value:   string(output.FormatYAML),
			},
		},
		Action: configShow,
	}
}

func configShow(c *cli.Context) error {
	format, err := output.ParseFormat(c.String("output"))
	if err != nil {
		return err
	}

	cfg, _, err := loadConfig(c)
	if err != nil {
		return err
	}
	return output.NewFormatter(format).Format(c.App.Writer, cfg)
}
