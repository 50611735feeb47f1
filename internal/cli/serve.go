package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/diaconv/pkg/observability"
	"github.com/matzehuels/diaconv/pkg/server"
)

func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr      string
		shapeDirs []string
		noCache   bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve conversions over HTTP",
		Long: `Serve conversions over HTTP until interrupted.

  POST /v1/convert   Dia file in, flat ODG out
  POST /v1/graph     connectivity graph (?format=json|dot|svg|png)
  POST /v1/analyze   conversion summary as JSON
  GET  /v1/shapes    loaded shape templates
  GET  /healthz      liveness`,
		Example: `  diaconv serve --addr :9000 --shapes ~/.dia/shapes
  curl --data-binary @network.dia localhost:9000/v1/convert > network.fodg`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if addr == "" {
				addr = c.Config.Server.Addr
			}

			lib, err := c.loadTemplates(ctx, shapeDirs)
			if err != nil {
				return err
			}
			measurer, err := c.Config.Measurer()
			if err != nil {
				return err
			}
			runner, err := c.newRunner(ctx, noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			observability.SetHTTPHooks(observability.NewLogHooks(c.Logger))

			srv := server.New(runner,
				server.WithLogger(c.Logger),
				server.WithTemplates(lib),
				server.WithFontMetrics(measurer),
				server.WithRouteConfig(c.Config.Router),
				server.WithMaxUpload(c.Config.Server.MaxUpload),
				server.WithTimeout(c.Config.Server.Timeout),
			)
			printInfo("Listening on %s", StyleHighlight.Render(addr))
			return srv.ListenAndServe(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().StringSliceVar(&shapeDirs, "shapes", nil, "directory of .shape templates (repeatable)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the output cache")

	return cmd
}
