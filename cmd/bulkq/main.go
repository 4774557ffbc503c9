package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"runtime/debug"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	pflag "github.com/spf13/pflag"

	"github.com/bft-labs/bulkqueue/internal/cliconfig"
	"github.com/bft-labs/bulkqueue/internal/ingest"
	"github.com/bft-labs/bulkqueue/pkg/deadletter"
	"github.com/bft-labs/bulkqueue/pkg/log"
	"github.com/bft-labs/bulkqueue/pkg/metrics"
	"github.com/bft-labs/bulkqueue/pkg/queue"
	"github.com/bft-labs/bulkqueue/pkg/sender"
)

const helpDescription = `
Buffer NDJSON documents and ship them to a search backend's _bulk API.

Documents are flushed when --threshold of them are pending or every
--flush-time, whichever comes first.

Input lines are either a bare JSON object (indexed into --default-index) or
an envelope: {"index": "...", "doc_type": "...", "body": {...}}.

Highlights:
  - Read from a file or stdin, or watch a spool directory for *.ndjson files.
  - Failed batches can be kept in --dead-letter-dir and replayed later.
  - Prometheus metrics on --metrics-addr.
`

var exampleUsage = strings.TrimSpace(`
  cat events.ndjson | bulkq --input - --default-index events --once
  bulkq --spool-dir /var/spool/bulkq --threshold 500 --flush-time 5s
  bulkq --config $HOME/.bulkq/config.toml --metrics-addr :9102
`)

// shutdownTimeout bounds the final flush on exit.
const shutdownTimeout = 30 * time.Second

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

func main() {
	cfg := cliconfig.DefaultConfig()
	var cfgPath string

	boot := cliconfig.Logger()

	root := &cobra.Command{
		Use:           "bulkq",
		Short:         "Buffer NDJSON documents and ship them to a _bulk endpoint",
		Long:          strings.TrimSpace(helpDescription),
		Example:       exampleUsage,
		Version:       fmt.Sprintf("%s %s/%s", getVersion(), runtime.GOOS, runtime.GOARCH),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgFile := cfgPath
			if cfgFile == "" {
				cfgFile = cliconfig.DefaultConfigPath()
			}

			changed := map[string]bool{}
			cmd.Flags().Visit(func(f *pflag.Flag) { changed[f.Name] = true })

			if cfgFile != "" && cliconfig.FileExists(cfgFile) {
				fc, err := cliconfig.LoadFileConfig(cfgFile)
				if err != nil {
					return fmt.Errorf("load config: %w", err)
				}
				if err := cliconfig.ApplyFileConfig(&cfg, fc, changed); err != nil {
					return err
				}
			}

			// Env overrides the file; flags override both.
			if err := cliconfig.ApplyEnvConfig(&cfg, changed); err != nil {
				return err
			}

			if err := cfg.Validate(); err != nil {
				return err
			}

			logger, err := cliconfig.NewLogger(cfg)
			if err != nil {
				return err
			}

			logCfg := cfg
			if len(logCfg.AuthKey) > 0 {
				logCfg.AuthKey = "*****"
			}
			logger.Info("configuration", log.Any("config", logCfg))

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return run(ctx, cfg, logger, cmd.InOrStdin())
		},
	}

	root.Flags().StringVar(&cfgPath, "config", "", "path to config file (default: $HOME/.bulkq/config.toml)")

	root.Flags().StringVar(&cfg.ServiceURL, "service-url", cfg.ServiceURL, "base URL of the bulk API")
	root.Flags().StringVar(&cfg.AuthKey, "auth-key", cfg.AuthKey, "bearer token sent with every request")
	root.Flags().DurationVar(&cfg.HTTPTimeout, "timeout", cfg.HTTPTimeout, "HTTP timeout per bulk request")

	root.Flags().IntVar(&cfg.Threshold, "threshold", cfg.Threshold, "flush when this many documents are pending")
	root.Flags().DurationVar(&cfg.FlushTime, "flush-time", cfg.FlushTime, "flush pending documents at this interval")

	root.Flags().StringVar(&cfg.Input, "input", cfg.Input, "NDJSON file to ingest, or - for stdin")
	root.Flags().StringVar(&cfg.SpoolDir, "spool-dir", cfg.SpoolDir, "directory watched for *.ndjson files")
	root.Flags().StringVar(&cfg.DefaultIndex, "default-index", cfg.DefaultIndex, "index for lines that do not name one")
	root.Flags().StringVar(&cfg.DefaultDocType, "default-doc-type", cfg.DefaultDocType, "doc_type for lines that do not name one")

	root.Flags().StringVar(&cfg.DeadLetterDir, "dead-letter-dir", cfg.DeadLetterDir, "directory for batches the backend rejected")
	root.Flags().StringVar(&cfg.MetricsAddr, "metrics-addr", cfg.MetricsAddr, "listen address for /metrics (disabled when empty)")

	root.Flags().StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level (debug, info, warn, error)")
	root.Flags().StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "log format (console, json)")
	root.Flags().BoolVar(&cfg.Once, "once", cfg.Once, "ingest --input, flush, and exit")

	if err := root.Execute(); err != nil {
		boot.Error().Err(err).Msg("bulkq")
		os.Exit(1)
	}
}

// run wires the queue to its backend and inputs and blocks until ctx is
// cancelled or, with --once, the input is exhausted. The queue is always
// closed with a final flush.
func run(ctx context.Context, cfg cliconfig.Config, logger log.Logger, stdin io.Reader) error {
	httpSender := sender.NewHTTPSender(
		&http.Client{Timeout: cfg.HTTPTimeout},
		logger,
		sender.Endpoint{ServiceURL: cfg.ServiceURL, AuthKey: cfg.AuthKey},
	)

	var handlers []queue.EventHandler

	if cfg.MetricsAddr != "" {
		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		handlers = append(handlers, metrics.New(reg))

		srv := serveMetrics(cfg.MetricsAddr, reg, logger)
		defer func() {
			sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(sctx)
		}()
	}

	if cfg.DeadLetterDir != "" {
		handlers = append(handlers, deadletter.NewSink(cfg.DeadLetterDir, logger))
	}

	q, err := queue.New(httpSender, cfg.QueueConfig(),
		queue.WithLogger(logger),
		queue.WithEventHandler(queue.Handlers(handlers...)),
		queue.WithErrorHandler(func(err error) {
			logger.Warn("background flush failed", log.Err(err))
		}),
	)
	if err != nil {
		return fmt.Errorf("create queue: %w", err)
	}
	q.StartTimer()

	defer func() {
		cctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := q.Close(cctx); err != nil {
			logger.Error("final flush failed", log.Err(err))
		}
	}()

	defs := ingest.Defaults{Index: cfg.DefaultIndex, DocType: cfg.DefaultDocType}
	errCh := make(chan error, 2)
	workers := 0

	if cfg.Input != "" {
		workers++
		go func() {
			errCh <- ingestInput(ctx, cfg.Input, stdin, q, defs, logger)
		}()
	}
	if cfg.SpoolDir != "" {
		workers++
		spool := ingest.NewSpool(cfg.SpoolDir, q, defs, logger, ingest.DefaultDebounce)
		go func() {
			errCh <- spool.Run(ctx)
		}()
	}

	for ; workers > 0; workers-- {
		select {
		case err := <-errCh:
			if err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			if cfg.Once {
				return nil
			}
		case <-ctx.Done():
			logger.Info("received signal, stopping")
			return nil
		}
	}

	// Input finished without --once: keep flushing on the timer until signalled.
	<-ctx.Done()
	logger.Info("received signal, stopping")
	return nil
}

func ingestInput(ctx context.Context, path string, stdin io.Reader, q ingest.Adder, defs ingest.Defaults, logger log.Logger) error {
	r := stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("open input: %w", err)
		}
		defer f.Close()
		r = f
	}

	st, err := ingest.ReadNDJSON(ctx, r, q, defs, logger)
	logger.Info("input ingested",
		log.String("input", path),
		log.Int("lines", st.Lines),
		log.Int("added", st.Added),
		log.Int("skipped", st.Skipped),
		log.Int("failed", st.Failed),
	)
	return err
}

func serveMetrics(addr string, g prometheus.Gatherer, logger log.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler(g))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		logger.Info("metrics listening", log.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server stopped", log.Err(err))
		}
	}()
	return srv
}
