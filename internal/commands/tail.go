package commands

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"tally/internal/amqp"
	"tally/internal/cli"
	"tally/internal/core"
	"tally/internal/log"
	"tally/internal/store"
)

func newTailCommand(open Opener) *cobra.Command {
	var attempts int

	cmd := &cobra.Command{
		Use:   "tail",
		Short: "Follow expense change events published over AMQP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, open, func(app *cli.App) error {
				cfg := app.Config
				if cfg.AMQPURL == "" {
					return errors.New("AMQP_URL is not set")
				}

				ctx := cmd.Context()
				client, release, err := eventClient(ctx, app, attempts)
				if err != nil {
					return err
				}
				defer release()

				logger := app.Logger.WithComponent(log.ComponentAMQP)
				logger.Info("Following expense events", log.FieldOperation, log.OpConsume, "queue", cfg.AMQPQueue)

				err = client.ConsumeExpenseEvents(ctx, func(e *amqp.ExpenseEvent) error {
					return printEvent(ctx, cmd.OutOrStdout(), app.Service.Store(), logger, e)
				})
				if errors.Is(err, context.Canceled) {
					return nil
				}
				return err
			})
		},
	}

	cmd.Flags().IntVar(&attempts, "connect-attempts", 5, "broker connection attempts before giving up")

	return cmd
}

// eventClient reuses the client Bootstrap connected, which app.Close
// releases, and only dials when Bootstrap could not reach the broker.
func eventClient(ctx context.Context, app *cli.App, attempts int) (*amqp.Client, func() error, error) {
	if app.AMQP != nil {
		return app.AMQP, func() error { return nil }, nil
	}
	cfg := app.Config
	client, err := amqp.NewClientWithRetry(ctx, cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, attempts)
	if err != nil {
		return nil, nil, err
	}
	return client, client.Close, nil
}

// printEvent reloads the store so the line shows the expense as stored now.
// A failed reload is logged and the bare event line is printed, so the
// delivery is still acked.
func printEvent(ctx context.Context, w io.Writer, st *store.Store, logger *log.Logger, e *amqp.ExpenseEvent) error {
	line := fmt.Sprintf("%s  %-16s %s", e.Timestamp.Local().Format("15:04:05"), e.Type, e.ID)

	if e.Type != amqp.EventDeleted {
		if _, err := st.Load(ctx); err != nil {
			logger.WarnContext(ctx, "Failed to reload expenses for event",
				log.FieldOperation, log.OpConsume,
				log.FieldEventType, e.Type,
				log.FieldExpenseID, e.ID,
				log.FieldError, err)
		} else if exp, ok := st.Get(e.ID); ok {
			line += fmt.Sprintf("  %s %s %s", exp.Category.Icon(), exp.Description, core.FormatCurrency(exp.Amount))
		}
	}

	_, err := fmt.Fprintln(w, line)
	return err
}
