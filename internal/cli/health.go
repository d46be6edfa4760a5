// ABOUTME: The health command: queries a running service's health endpoint
// ABOUTME: Fails unless the service answers 200 with an ok envelope

package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

const healthTimeout = 5 * time.Second

func newHealthCmd(svc Service, flags *rootFlags) *cobra.Command {
	var baseURL string

	cmd := &cobra.Command{
		Use:   "health",
		Short: "Check " + svc.Name + " health",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if baseURL == "" {
				cfg, _, err := flags.loadConfig(svc)
				if err != nil {
					return err
				}
				baseURL = localURL(cfg.Server.HTTPAddr)
			}

			ctx := cmd.Context()
			req, err := http.NewRequestWithContext(ctx, http.MethodGet, strings.TrimSuffix(baseURL, "/")+svc.HealthPath, nil)
			if err != nil {
				return fmt.Errorf("creating request: %w", err)
			}

			client := &http.Client{Timeout: healthTimeout}
			resp, err := client.Do(req)
			if err != nil {
				return fmt.Errorf("health check failed: %w", err)
			}
			defer resp.Body.Close()

			body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
			if err != nil {
				return fmt.Errorf("reading response: %w", err)
			}

			var envelope struct {
				OK    bool   `json:"ok"`
				Msg   string `json:"msg"`
				Error string `json:"error"`
			}
			if err := json.Unmarshal(body, &envelope); err != nil {
				return fmt.Errorf("health check returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
			}
			if resp.StatusCode != http.StatusOK || !envelope.OK {
				return fmt.Errorf("health check returned %d: %s", resp.StatusCode, envelope.Error)
			}

			out := cmd.OutOrStdout()
			color.New(color.FgGreen).Fprint(out, "✓ ")
			fmt.Fprintln(out, envelope.Msg)
			return nil
		},
	}

	cmd.Flags().StringVar(&baseURL, "url", "", "service base URL (default: derived from server.http_addr)")
	return cmd
}

// localURL turns a listen address into a URL on the local host.
func localURL(addr string) string {
	if strings.HasPrefix(addr, ":") {
		addr = "localhost" + addr
	}
	return "http://" + addr
}
