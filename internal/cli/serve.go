package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"productdesk/internal/app"
	"productdesk/pkg/rabbitmq"
)

func newServeCommand(e *env) *cobra.Command {
	var (
		seed      bool
		accessLog bool
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run a development products API",
		Long: `serve runs a stand-in for the products API on the configured port, backed by
memory, sqlite or postgres storage. Product changes are published to RabbitMQ
when rabbitmq_url is set.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var w io.Writer
			if accessLog {
				w = cmd.OutOrStdout()
			}
			return app.Serve(cmd.Context(), e.cfg, e.logger, app.ServeOptions{Seed: seed, AccessLog: w})
		},
	}
	cmd.Flags().String("port", "", "listen address (default :3002)")
	cmd.Flags().BoolVar(&seed, "seed", false, "add sample products when the store is empty")
	cmd.Flags().BoolVar(&accessLog, "access-log", true, "log every request")
	return cmd
}

func newEventsCommand(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "events",
		Short: "Follow product events published by the development API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if e.cfg.RabbitMQURL == "" {
				return errors.New("rabbitmq_url is not configured")
			}
			mqClient, err := rabbitmq.NewClient(rabbitmq.Config{URL: e.cfg.RabbitMQURL}, e.logger)
			if err != nil {
				return err
			}
			defer mqClient.Close()

			out := cmd.OutOrStdout()
			err = mqClient.ConsumeProductEvents(func(event rabbitmq.ProductEvent) error {
				_, err := fmt.Fprintf(out, "%s  %-16s %s\n",
					event.OccurredAt.Local().Format("2006-01-02 15:04:05"), event.Type, event.ProductID)
				return err
			})
			if err != nil {
				return err
			}

			<-cmd.Context().Done()
			return nil
		},
	}
}
