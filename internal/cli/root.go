// Package cli is the productdesk command tree.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"productdesk/internal/client"
	"productdesk/internal/config"
	"productdesk/internal/logging"
	"productdesk/internal/notify"
	"productdesk/internal/ui"
)

// env is the state shared by every command once config is loaded.
type env struct {
	cfgFile string

	cfg    *config.Config
	logger *slog.Logger
	api    *client.Client
	notes  *notify.Channel
}

// flush prints the pending notification, if any.
func (e *env) flush(w io.Writer) {
	ui.FlushNotification(w, e.notes)
}

// NewRootCommand builds the command tree.
func NewRootCommand() *cobra.Command {
	e := &env{notes: notify.NewChannel()}
	v := config.New()

	root := &cobra.Command{
		Use:           "productdesk",
		Short:         "Manage the financial products catalog",
		Long:          "productdesk lists, searches, creates, edits and deletes catalog products through the products API.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Root().PersistentFlags()
			for key, name := range map[string]string{
				config.KeyAPIURL:   "api-url",
				config.KeyLogLevel: "log-level",
				config.KeyLogJSON:  "log-json",
			} {
				if err := v.BindPFlag(key, flags.Lookup(name)); err != nil {
					return err
				}
			}
			if f := cmd.Flags().Lookup("port"); f != nil {
				if err := v.BindPFlag(config.KeyPort, f); err != nil {
					return err
				}
			}

			cfg, err := config.Load(v, e.cfgFile)
			if err != nil {
				return err
			}
			e.cfg = cfg
			e.logger = logging.NewWithWriter(cmd.ErrOrStderr(), cfg.LogLevel, cfg.LogJSON)
			e.api = client.New(client.Config{BaseURL: cfg.APIURL, Timeout: cfg.RequestTimeout}, e.logger)
			return nil
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&e.cfgFile, "config", "", "config file (yaml, json or toml)")
	pf.String("api-url", "", "products API base URL (default http://localhost:3002)")
	pf.String("log-level", "", "log level: debug, info, warn or error")
	pf.Bool("log-json", false, "log as JSON")

	root.AddCommand(
		newListCommand(e),
		newGetCommand(e),
		newCreateCommand(e),
		newEditCommand(e),
		newDeleteCommand(e),
		newVerifyCommand(e),
		newServeCommand(e),
		newEventsCommand(e),
	)
	return root
}

// Execute runs the command tree until it finishes or the process is
// interrupted.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := NewRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, ui.Styles.Error.Render("Error: "+err.Error()))
		stop()
		os.Exit(1)
	}
}
