package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/mbetts/mailsift/internal/config"
	"github.com/mbetts/mailsift/internal/db"
	"github.com/mbetts/mailsift/internal/extract"
	"github.com/mbetts/mailsift/internal/handlers"
	"github.com/mbetts/mailsift/internal/normalize"
	"github.com/mbetts/mailsift/internal/pipeline"
	"github.com/mbetts/mailsift/internal/report"
	"github.com/mbetts/mailsift/internal/scanner"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type cli struct {
	configPath string
	logLevel   string

	cfg    *config.Config
	logger *slog.Logger
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	root := &cobra.Command{
		Use:   "mailsift",
		Short: "Recover structured email records from corpus message bodies",
		Long: "mailsift parses corpus email files, detects forwarded and quoted " +
			"messages embedded in their bodies, and recovers each one as a " +
			"structured record with normalized addresses and dates.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.setup()
		},
	}

	root.PersistentFlags().StringVar(&c.configPath, "config", "", "path to YAML config file")
	root.PersistentFlags().StringVar(&c.logLevel, "log-level", "info", "log level (debug, info, warn, error)")

	root.AddCommand(newExtractCmd(c))
	root.AddCommand(newServeCmd(c))
	return root
}

func (c *cli) setup() error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	c.cfg = cfg

	var level slog.Level
	if err := level.UnmarshalText([]byte(c.logLevel)); err != nil {
		return fmt.Errorf("invalid log level %q: %w", c.logLevel, err)
	}
	c.logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(c.logger)
	return nil
}

func (c *cli) engine() *extract.Engine {
	return extract.NewEngine(
		normalize.NewAddresses(c.cfg.InternalDomain),
		normalize.NewDates(c.cfg.DefaultTimezone),
	)
}

func newExtractCmd(c *cli) *cobra.Command {
	var (
		dir     string
		output  string
		dbPath  string
		workers int
	)

	cmd := &cobra.Command{
		Use:   "extract [files...]",
		Short: "Extract records from corpus files into CSV and optionally a database",
		Long: "extract processes the given corpus files, or every file under " +
			"--dir when no files are named. Each source yields its top-level " +
			"record plus one record per embedded message found in its body. " +
			"The batch is written as CSV; pass --db to also store it.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if output != "" {
				c.cfg.OutputPath = output
			}
			if cmd.Flags().Changed("workers") {
				c.cfg.Workers = workers
			}
			if cmd.Flags().Changed("db") {
				c.cfg.DBPath = dbPath
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			p := pipeline.New(scanner.New(dir), c.engine(), c.logger, c.cfg.Workers)

			var res *pipeline.Result
			if len(args) > 0 {
				res = p.Run(ctx, args)
			} else {
				var err error
				if res, err = p.RunAll(ctx); err != nil {
					return err
				}
			}

			if err := report.WriteFile(c.cfg.OutputPath, res.Records); err != nil {
				return err
			}
			c.logger.Info("wrote output", "path", c.cfg.OutputPath, "records", len(res.Records))

			if cmd.Flags().Changed("db") {
				store, err := db.Open(c.cfg.DBPath)
				if err != nil {
					return err
				}
				defer store.Close()
				if err := store.InsertBatch(res.Records); err != nil {
					return err
				}
				c.logger.Info("stored batch", "db", c.cfg.DBPath, "records", len(res.Records))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "dir", ".", "corpus directory to scan when no files are named")
	cmd.Flags().StringVarP(&output, "output", "o", "", "CSV output path")
	cmd.Flags().StringVar(&dbPath, "db", "", "also store records in this SQLite database")
	cmd.Flags().IntVar(&workers, "workers", 0, "concurrent extraction workers")
	return cmd
}

func newServeCmd(c *cli) *cobra.Command {
	var (
		host   string
		port   string
		dbPath string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve extracted records as a JSON API",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("host") {
				c.cfg.Host = host
			}
			if cmd.Flags().Changed("port") {
				c.cfg.Port = port
			}
			if cmd.Flags().Changed("db") {
				c.cfg.DBPath = dbPath
			}

			store, err := db.Open(c.cfg.DBPath)
			if err != nil {
				return err
			}
			defer store.Close()

			stats, err := store.Stats()
			if err != nil {
				return err
			}
			c.logger.Info("store opened",
				"db", c.cfg.DBPath, "records", stats.Records, "threads", stats.Threads)

			srv := &http.Server{
				Addr:         c.cfg.Address(),
				Handler:      handlers.New(store, c.logger).Router(),
				ReadTimeout:  15 * time.Second,
				WriteTimeout: 30 * time.Second,
				IdleTimeout:  60 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				c.logger.Info("starting server", "url", c.cfg.URL())
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					errCh <- err
				}
			}()

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

			select {
			case err := <-errCh:
				return err
			case <-sigCh:
			}

			c.logger.Info("shutting down")
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return srv.Shutdown(ctx)
		},
	}

	cmd.Flags().StringVar(&host, "host", "", "listen host")
	cmd.Flags().StringVar(&port, "port", "", "listen port")
	cmd.Flags().StringVar(&dbPath, "db", "", "SQLite database to serve")
	return cmd
}
