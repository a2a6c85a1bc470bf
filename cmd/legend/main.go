package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/danielgtaylor/huma/v2/humacli"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/joeblew999/plat-legend/internal/logging"
	"github.com/joeblew999/plat-legend/internal/server"
)

// Options defines all CLI flags and env vars for the legend server.
// Flags: --host, --port, --data-dir, --log-level, --log-format
// Env vars: SERVICE_HOST, SERVICE_PORT, SERVICE_DATA_DIR, SERVICE_LOG_LEVEL, SERVICE_LOG_FORMAT
type Options struct {
	Host      string `doc:"Host to bind to" default:"0.0.0.0"`
	Port      int    `doc:"Port to listen on" short:"p" default:"8087"`
	DataDir   string `doc:"Directory for the layer store" default:".data"`
	LogLevel  string `doc:"Log level: debug, info, warn, error" default:"info"`
	LogFormat string `doc:"Log format: text or json" default:"text"`
}

func newServer(opts *Options, logger *slog.Logger) *server.Server {
	return server.New(server.Config{
		Host:    opts.Host,
		Port:    fmt.Sprintf("%d", opts.Port),
		DataDir: opts.DataDir,
	}, logger)
}

func newLogger(opts *Options) *slog.Logger {
	level, err := logging.ParseLevel(opts.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v, using info\n", err)
	}
	return logging.New(
		logging.WithLevel(level),
		logging.WithFormat(logging.Format(opts.LogFormat)),
	)
}

func main() {
	cli := humacli.New(func(hooks humacli.Hooks, opts *Options) {
		logger := newLogger(opts)
		srv := newServer(opts, logger)

		hooks.OnStart(func() {
			addr := fmt.Sprintf("%s:%d", opts.Host, opts.Port)
			displayHost := opts.Host
			if displayHost == "0.0.0.0" {
				displayHost = "localhost"
			}
			baseURL := fmt.Sprintf("http://%s:%d", displayHost, opts.Port)

			logger.Info("plat-legend API server starting",
				"server", baseURL,
				"data", opts.DataDir,
				"docs", baseURL+"/docs",
				"openapi", baseURL+"/openapi.json",
			)

			if err := http.ListenAndServe(addr, srv); err != nil {
				logger.Error("server error", "error", err)
				os.Exit(1)
			}
		})
	})

	cli.Root().Use = "legend"
	cli.Root().Short = "WMS GetLegendGraphic URLs and SLD file naming for map layers"
	cli.Root().Version = "0.1.0"

	// spec subcommand: export OpenAPI spec
	specCmd := &cobra.Command{
		Use:   "spec",
		Short: "Export OpenAPI spec (JSON by default, --yaml for YAML)",
		Run: humacli.WithOptions(func(cmd *cobra.Command, args []string, opts *Options) {
			srv := newServer(opts, newLogger(opts))
			spec := srv.OpenAPI()

			useYAML, _ := cmd.Flags().GetBool("yaml")

			var output []byte
			var err error
			if useYAML {
				output, err = yaml.Marshal(spec)
			} else {
				output, err = json.MarshalIndent(spec, "", "  ")
			}
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error marshaling spec: %v\n", err)
				os.Exit(1)
			}
			fmt.Println(string(output))
		}),
	}
	specCmd.Flags().BoolP("yaml", "y", false, "Output as YAML instead of JSON")
	cli.Root().AddCommand(specCmd)

	cli.Root().AddCommand(newURLCmd(), newStyleCmd(), newSLDFileCmd())

	cli.Run()
}
