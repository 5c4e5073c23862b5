// Command docdb manipulates and queries a document database from the shell.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/andreyvit/docdb"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type app struct {
	// flags
	configPath string
	root       string
	backend    string
	encoding   string
	logLevel   string

	cfg      Config
	logger   *slog.Logger
	registry *prometheus.Registry
	db       *docdb.DB
	stderr   io.Writer
}

func run(args []string, stdout, stderr io.Writer) error {
	a := &app{stderr: stderr}
	defer a.close()

	rootCmd := a.rootCmd()
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)
	return rootCmd.Execute()
}

func (a *app) rootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "docdb",
		Short:         "Schemaless document store with folder queries",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.open()
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&a.configPath, "config", "", "YAML config file")
	pf.StringVar(&a.root, "root", "", "database directory (fs) or file (bolt)")
	pf.StringVar(&a.backend, "backend", "", "storage backend: fs, bolt or mem")
	pf.StringVar(&a.encoding, "encoding", "", "document encoding: json or msgpack")
	pf.StringVar(&a.logLevel, "log-level", "", "debug, info, warn or error")

	rootCmd.AddCommand(
		a.putCmd(),
		a.insertCmd(),
		a.getCmd(),
		a.updateCmd(),
		a.lsCmd(),
		a.rmCmd(),
		a.queryCmd(),
		a.dumpCmd(),
		a.statsCmd(),
		a.benchCmd(),
	)
	return rootCmd
}

func (a *app) open() error {
	cfg, err := readConfig(a.configPath)
	if err != nil {
		return err
	}
	if a.backend != "" {
		cfg.Store.Backend = a.backend
	}
	if a.root != "" {
		cfg.Store.Root = a.root
	}
	if a.encoding != "" {
		cfg.Store.Encoding = a.encoding
	}
	if a.logLevel != "" {
		cfg.Logging.Level = a.logLevel
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	a.cfg = cfg

	a.logger, err = newLogger(cfg.Logging, a.stderr)
	if err != nil {
		return err
	}

	enc, err := docdb.ParseEncoding(cfg.Store.Encoding)
	if err != nil {
		return err
	}
	a.registry = prometheus.NewRegistry()
	opt := docdb.Options{
		Codec:          enc,
		MaxFolderDepth: cfg.Store.MaxFolderDepth,
		Logger:         a.logger,
		Metrics:        docdb.NewMetrics(a.registry),
		Verbose:        a.logger.Enabled(context.Background(), slog.LevelInfo),
	}

	switch cfg.Store.Backend {
	case "bolt":
		a.db, err = docdb.OpenBolt(cfg.Store.Root, opt)
	case "mem":
		a.db = docdb.OpenMemory(opt)
	default:
		a.db, err = docdb.OpenDir(cfg.Store.Root, opt)
	}
	if err != nil {
		return err
	}
	a.logger.Debug("docdb: opened", "backend", cfg.Store.Backend, "root", cfg.Store.Root, "encoding", enc.String())
	return nil
}

func (a *app) close() {
	if a.db == nil {
		return
	}
	if err := a.db.Close(); err != nil {
		a.logger.Error("docdb: close failed", "err", err)
	}
	a.db = nil
}

func newLogger(cfg LoggingConfig, w io.Writer) (*slog.Logger, error) {
	level, err := parseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler), nil
}

func parseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("unknown log level %q", s)
	}
}
