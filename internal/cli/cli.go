package cli

import (
	"context"
	"errors"
	"io"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/specialistvlad/tracegraph/internal/app"
	"github.com/specialistvlad/tracegraph/internal/graphio"
	"github.com/specialistvlad/tracegraph/internal/trace"
)

// options collects every flag value before they are turned into app.Config.
type options struct {
	cfg app.Config

	// convert
	remove          []string
	format          string
	outDir          string
	socketIOURL     string
	socketIONS      string
	socketIOTimeout time.Duration
}

// Execute parses args and runs the selected command. Results go to outW,
// logs and usage to errW.
func Execute(ctx context.Context, outW, errW io.Writer, args []string) error {
	root := newRootCommand(outW, errW)
	root.SetArgs(args)
	root.SetOut(outW)
	root.SetErr(errW)
	return root.ExecuteContext(ctx)
}

func newRootCommand(outW, errW io.Writer) *cobra.Command {
	opts := &options{cfg: app.DefaultConfig()}

	root := &cobra.Command{
		Use:   "tracegraph",
		Short: "Convert traced model executions into static operator graphs.",
		Long: `tracegraph turns the dynamic trace recorded while a neural network runs
into a static graph of operators, classified by metatype, and can remove
nodes of chosen metatypes while reconnecting their neighbours.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError(err)
	})

	pf := root.PersistentFlags()
	pf.StringVar(&opts.cfg.LogFormat, "log-format", envOrDefault("LOG_FORMAT", opts.cfg.LogFormat), "Log output format. Options: 'text' or 'json'.")
	pf.StringVar(&opts.cfg.LogLevel, "log-level", envOrDefault("LOG_LEVEL", opts.cfg.LogLevel), "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	pf.StringSliceVar(&opts.cfg.CatalogPaths, "catalog", envListOrDefault("CATALOG", nil), "HCL metatype catalog files or directories.")
	pf.IntVar(&opts.cfg.Workers, "workers", envIntOrDefault("WORKERS", opts.cfg.Workers), "Number of traces converted concurrently.")
	pf.StringVar(&opts.cfg.Store.Backend, "store", envOrDefault("STORE", opts.cfg.Store.Backend), "Graph store backend. Options: 'memory', 'badger', 'redis', 'sqlite'.")
	pf.StringVar(&opts.cfg.Store.Path, "store-path", envOrDefault("STORE_PATH", ""), "Directory (badger) or file (sqlite) of the graph store.")
	pf.StringVar(&opts.cfg.Store.URL, "redis-url", envOrDefault("REDIS_URL", ""), "Redis URL for the redis store, e.g. redis://localhost:6379/0.")
	pf.StringVar(&opts.cfg.Store.Prefix, "redis-prefix", envOrDefault("REDIS_PREFIX", ""), "Key prefix for the redis store.")
	pf.DurationVar(&opts.cfg.Store.TTL, "store-ttl", envDurationOrDefault("STORE_TTL", 0), "Expiry of stored graphs (redis only). 0 keeps them forever.")
	pf.StringVar(&opts.cfg.Telemetry.TraceExporter, "trace-exporter", envOrDefault("TRACE_EXPORTER", opts.cfg.Telemetry.TraceExporter), "Span exporter. Options: 'stdout', 'none'.")
	pf.StringVar(&opts.cfg.Telemetry.MetricExporter, "metric-exporter", envOrDefault("METRIC_EXPORTER", opts.cfg.Telemetry.MetricExporter), "Metric exporter. Options: 'prometheus', 'stdout', 'none'.")

	root.AddCommand(
		newConvertCommand(opts, outW, errW),
		newServeCommand(opts, errW),
		newMetatypesCommand(opts, outW, errW),
	)
	return root
}

// buildApp validates the collected configuration and constructs the app.
func buildApp(ctx context.Context, opts *options, outW, errW io.Writer) (*app.App, error) {
	opts.cfg.LogFormat = strings.ToLower(opts.cfg.LogFormat)
	opts.cfg.LogLevel = strings.ToLower(opts.cfg.LogLevel)

	cfg, err := app.NewConfig(opts.cfg)
	if err != nil {
		return nil, usageError(err)
	}
	return app.NewApp(ctx, outW, errW, cfg)
}

// runWithApp builds the app, runs fn and closes the app, keeping fn's error.
func runWithApp(cmd *cobra.Command, opts *options, outW, errW io.Writer, fn func(*app.App) error) (err error) {
	a, err := buildApp(cmd.Context(), opts, outW, errW)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, a.Close(context.WithoutCancel(cmd.Context())))
	}()
	return fn(a)
}

func newConvertCommand(opts *options, outW, errW io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "convert [TRACE...]",
		Short: "Convert trace files (.json, .yaml) into graphs.",
		Example: `  tracegraph convert model.json
  tracegraph convert --remove dropout --format dot model.json > model.dot
  tracegraph convert --out graphs/ --store badger --store-path .tracegraph a.json b.yaml
  tracegraph convert --socketio http://localhost:3000`,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := graphio.ParseFormat(opts.format)
			if err != nil {
				return usageError(err)
			}
			convertOpts := app.ConvertOptions{
				TracePaths: args,
				Remove:     opts.remove,
				Format:     format,
				OutDir:     opts.outDir,
			}
			if opts.socketIOURL != "" {
				convertOpts.SocketIO = &trace.SocketIOSource{
					URL:       opts.socketIOURL,
					Namespace: opts.socketIONS,
					Timeout:   opts.socketIOTimeout,
				}
			}
			if len(args) == 0 && convertOpts.SocketIO == nil {
				return usageError(errors.New("convert needs at least one trace file or --socketio"))
			}
			return runWithApp(cmd, opts, outW, errW, func(a *app.App) error {
				return a.Convert(cmd.Context(), convertOpts)
			})
		},
	}

	f := cmd.Flags()
	f.StringSliceVar(&opts.remove, "remove", envListOrDefault("REMOVE", nil), "Metatype keys whose nodes are removed and bypassed, e.g. dropout,noop.")
	f.StringVarP(&opts.format, "format", "f", envOrDefault("FORMAT", "json"), "Output format. Options: 'json', 'yaml', 'dot'.")
	f.StringVarP(&opts.outDir, "out", "o", envOrDefault("OUT", ""), "Directory for output files. Required for more than one trace.")
	f.StringVar(&opts.socketIOURL, "socketio", envOrDefault("SOCKETIO_URL", ""), "Fetch a trace from a socket.io tracer at this URL.")
	f.StringVar(&opts.socketIONS, "socketio-namespace", envOrDefault("SOCKETIO_NAMESPACE", "/"), "socket.io namespace of the tracer.")
	f.DurationVar(&opts.socketIOTimeout, "socketio-timeout", envDurationOrDefault("SOCKETIO_TIMEOUT", trace.DefaultFetchTimeout), "How long to wait for the tracer.")
	return cmd
}

func newServeCommand(opts *options, errW io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve conversion over HTTP.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !cmd.Flags().Changed("metric-exporter") && envOrDefault("METRIC_EXPORTER", "") == "" {
				opts.cfg.Telemetry.MetricExporter = "prometheus"
			}
			return runWithApp(cmd, opts, io.Discard, errW, func(a *app.App) error {
				return a.Serve(cmd.Context())
			})
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.cfg.Server.Addr, "addr", envOrDefault("ADDR", opts.cfg.Server.Addr), "Listen address.")
	f.Float64Var(&opts.cfg.Server.ConvertRate, "rate", envFloatOrDefault("RATE", opts.cfg.Server.ConvertRate), "Sustained convert requests per second. 0 disables limiting.")
	f.IntVar(&opts.cfg.Server.ConvertBurst, "burst", envIntOrDefault("BURST", opts.cfg.Server.ConvertBurst), "Convert request burst size.")
	f.Int64Var(&opts.cfg.Server.MaxTraceBytes, "max-trace-bytes", int64(envIntOrDefault("MAX_TRACE_BYTES", int(opts.cfg.Server.MaxTraceBytes))), "Largest accepted trace body.")
	return cmd
}

func newMetatypesCommand(opts *options, outW, errW io.Writer) *cobra.Command {
	var noColor bool
	cmd := &cobra.Command{
		Use:   "metatypes",
		Short: "Print the metatype catalog as a tree.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runWithApp(cmd, opts, outW, errW, func(a *app.App) error {
				return a.Metatypes(outW, !noColor && isTerminal(outW))
			})
		},
	}
	cmd.Flags().BoolVar(&noColor, "no-color", os.Getenv("NO_COLOR") != "", "Disable colored output.")
	return cmd
}

// isTerminal reports whether w is a terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
