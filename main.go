package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

type options struct {
	envFile string
	port    int
	dir     string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand(afero.NewOsFs()).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand(fs afero.Fs) *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:   "ytmp4",
		Short: "Download YouTube videos as mp4 and serve them for a limited time.",
		Long: `ytmp4 accepts a video URL over HTTP, downloads it with yt-dlp into a local
storage directory and serves the file back until the retention window expires.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), fs, opts)
		},
	}
	root.PersistentFlags().StringVar(&opts.envFile, "env-file", ".env", "optional dotenv file loaded before reading the environment")
	root.PersistentFlags().IntVar(&opts.port, "port", 0, "listen port (overrides PORT)")
	root.PersistentFlags().StringVar(&opts.dir, "dir", "", "storage directory (overrides VIDEOS_DIR)")

	root.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server and the retention sweeper (default).",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), fs, opts)
		},
	})
	root.AddCommand(&cobra.Command{
		Use:   "sweep",
		Short: "Run one retention sweep over the storage directory and exit.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSweep(cmd, fs, opts)
		},
	})
	return root
}

func loadOptions(opts *options) (*Config, *log.Logger, error) {
	cfg, err := LoadConfig(opts.envFile)
	if err != nil {
		return nil, nil, err
	}
	if opts.port != 0 {
		cfg.Port = opts.port
	}
	if opts.dir != "" {
		cfg.VideosDir = opts.dir
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	return cfg, newLogger(os.Stderr, cfg.Debug), nil
}

func runSweep(cmd *cobra.Command, fs afero.Fs, opts *options) error {
	cfg, logger, err := loadOptions(opts)
	if err != nil {
		return err
	}
	sweeper := newSweeper(fs, cfg, logger)
	report := sweeper.SweepOnce()
	fmt.Fprintf(cmd.OutOrStdout(), "scanned %d, deleted %d, errors %d\n", report.Scanned, len(report.Deleted), report.Errors)
	if report.Errors > 0 {
		return fmt.Errorf("sweep finished with %d errors", report.Errors)
	}
	return nil
}

func newSweeper(fs afero.Fs, cfg *Config, logger *log.Logger) *Sweeper {
	return &Sweeper{
		Fs:           fs,
		Dir:          cfg.VideosDir,
		Retention:    cfg.Retention(),
		Interval:     cfg.CleanupInterval(),
		StagingGrace: cfg.Timeout(),
		Logger:       logger,
	}
}
