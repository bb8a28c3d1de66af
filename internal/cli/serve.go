package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/zenposter/internal/server"
)

func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		timeout time.Duration
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve artwork previews over HTTP",
		Long: `Serve runs an HTTP server rendering JPEG previews on demand:

  GET /preview/{mode}/{seed}.jpg?width=800&index=1&title=...
  GET /modes
  GET /healthz

Previews are stored in the configured cache; point several servers at one
Redis backend to share renders.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := c.config()
			if err != nil {
				return err
			}
			runner, err := c.newRunner(ctx, cfg, noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			if addr == "" {
				addr = cfg.Server.Addr
			}
			srv := server.New(runner, runner.Registry,
				server.WithLogger(loggerFromContext(ctx)),
				server.WithTimeout(timeout),
			)
			printInfo("Listening on %s", StyleValue.Render("http://"+addr))
			printNextStep("Try", "curl -o sacred.jpg http://"+addr+"/preview/sacred/4242.jpg")
			return srv.Serve(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")
	cmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "per-preview render timeout")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the preview cache")
	return cmd
}
