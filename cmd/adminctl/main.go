package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/jwalitptl/marketplace-admin/internal/app"
	"github.com/jwalitptl/marketplace-admin/internal/config"
	"github.com/jwalitptl/marketplace-admin/internal/repository"
	"github.com/jwalitptl/marketplace-admin/pkg/logger"
)

type globalFlags struct {
	configPath string
	password   string
	verbose    bool
}

func main() {
	flags := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:           "adminctl",
		Short:         "Operate the marketplace admin console from the command line",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&flags.configPath, "config", "", "Path to config.yml (default: search . ./config /app/config)")
	rootCmd.PersistentFlags().StringVar(&flags.password, "password", os.Getenv("CONSOLE_ADMIN_PASSWORD"), "Admin password; without it the API key is used")
	rootCmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "Log at debug level")

	rootCmd.AddCommand(
		statsCmd(flags),
		providersCmd(flags),
		appointmentsCmd(flags),
		servicesCmd(flags),
		eventsCmd(flags),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// session is one authenticated CLI invocation.
type session struct {
	app     *app.App
	ctx     context.Context
	logger  *zerolog.Logger
	out     io.Writer
	cleanup func()
}

// open loads configuration and builds the application. With a password it
// signs in as the admin and binds the remote session to the context;
// otherwise calls go out with the server API key.
func open(cmd *cobra.Command, flags *globalFlags) (*session, error) {
	var (
		cfg *config.Config
		err error
	)
	if flags.configPath != "" {
		cfg, err = config.LoadFile(flags.configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}

	level := logger.WarnLevel
	if flags.verbose {
		level = logger.DebugLevel
	}
	l := logger.New(&logger.Config{Level: level, Console: true, Output: cmd.ErrOrStderr()})

	ctx := cmd.Context()
	a, err := app.New(ctx, cfg, &l)
	if err != nil {
		return nil, err
	}

	s := &session{app: a, ctx: ctx, logger: &l, out: cmd.OutOrStdout(), cleanup: func() { a.Close() }}

	if flags.password == "" {
		if cfg.Secrets.AppwriteAPIKey == "" {
			a.Close()
			return nil, fmt.Errorf("set CONSOLE_APPWRITE_API_KEY or pass --password")
		}
		return s, nil
	}

	remote, err := a.Appwrite.CreateSession(ctx, cfg.Secrets.AdminEmail, flags.password)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to sign in: %w", err)
	}
	s.ctx = repository.WithSessionSecret(ctx, remote.Secret)
	s.cleanup = func() {
		if err := a.Appwrite.DeleteSession(s.ctx, repository.CurrentSession); err != nil {
			l.Warn().Err(err).Msg("failed to end remote session")
		}
		a.Close()
	}
	return s, nil
}

func (s *session) Close() {
	s.cleanup()
}

func (s *session) print(v interface{}) error {
	enc := json.NewEncoder(s.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
