package command

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/Anubhav-singhx/cicd-platform/internal/server/httpserver/handler"
)

// ProbeCommand returns the probe subcommand, a health check for images
// that ship without curl or wget.
func ProbeCommand() *cli.Command {
	return &cli.Command{
		Name:  "probe",
		Usage: "Check the /health endpoint of a running server",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "url",
				Usage:   "Base URL of the server",
				Value:   "http://127.0.0.1:3000",
				EnvVars: []string{"CICD_PROBE_URL"},
			},
			&cli.DurationFlag{
				Name:  "timeout",
				Usage: "Request timeout",
				Value: 3 * time.Second,
			},
		},
		Action: probe,
	}
}

func probe(c *cli.Context) error {
	url := strings.TrimRight(c.String("url"), "/") + "/health"
	client := &http.Client{Timeout: c.Duration("timeout")}

	req, err := http.NewRequestWithContext(c.Context, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("probe: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("probe: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("probe: %s returned %d", url, resp.StatusCode)
	}

	var health handler.HealthResponse
	if err := json.NewDecoder(resp.Body).Decode(&health); err != nil {
		return fmt.Errorf("probe: decode response: %w", err)
	}
	if health.Status != handler.StatusHealthy {
		return fmt.Errorf("probe: status %q", health.Status)
	}

	fmt.Fprintf(c.App.Writer, "%s (version %s, uptime %.1fs)\n", health.Status, health.Version, health.Uptime)
	return nil
}
