package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/eringen/inkpot"
	"github.com/eringen/inkpot/logger"
	"github.com/eringen/inkpot/views"
)

// version is set at build time via ldflags.
var version = "dev"

type globalFlags struct {
	envFile  string
	logLevel string
	logJSON  bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	flags := &globalFlags{}
	cmd := &cobra.Command{
		Use:           "inkpot",
		Short:         "A single-author blog served from a SQLite file",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			log := logger.NewLogger(&logger.Config{
				Level:      logger.ParseLevel(flags.logLevel),
				Output:     os.Stderr,
				JSON:       flags.logJSON,
				TimeFormat: "15:04:05",
			})
			cmd.SetContext(logger.ContextWithLogger(cmd.Context(), log))
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), flags)
		},
	}
	cmd.PersistentFlags().StringVar(&flags.envFile, "env-file", ".env", "Dotenv file loaded before the environment")
	cmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "info", "Log level (debug, info, warn, error, disabled)")
	cmd.PersistentFlags().BoolVar(&flags.logJSON, "log-json", false, "Write logs as JSON")

	cmd.AddCommand(newServeCommand(flags))
	cmd.AddCommand(newMigrateCommand(flags))
	cmd.AddCommand(newVersionCommand())
	return cmd
}

func newServeCommand(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the blog HTTP server (default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), flags)
		},
	}
}

func newMigrateCommand(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or upgrade the posts database and exit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runMigrate(cmd.Context(), flags)
		},
	}
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the inkpot version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "inkpot %s\n", version)
		},
	}
}

func runServe(ctx context.Context, flags *globalFlags) error {
	log := logger.FromContext(ctx)
	cfg, err := inkpot.LoadConfig(flags.envFile)
	if err != nil {
		return err
	}
	v, err := views.New(cfg)
	if err != nil {
		return err
	}
	app := inkpot.New(cfg, v, inkpot.WithLogger(log))
	if err := app.Start(ctx); err != nil {
		return err
	}
	log.Info("server stopped")
	return nil
}

func runMigrate(ctx context.Context, flags *globalFlags) error {
	log := logger.FromContext(ctx)
	cfg, err := inkpot.LoadConfig(flags.envFile)
	if err != nil {
		return err
	}
	store, err := inkpot.NewStore(ctx, cfg.DatabasePath, log.With("component", "store"))
	if err != nil {
		return err
	}
	defer store.Close()
	n, err := store.CountPosts(ctx)
	if err != nil {
		return err
	}
	log.Info("database ready", "path", cfg.DatabasePath, "posts", n)
	return nil
}
