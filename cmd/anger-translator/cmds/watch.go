package cmds

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-go-golems/anger-translator/pkg/events"
	gepevents "github.com/go-go-golems/geppetto/pkg/events"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func NewWatchCommand() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Print rewrite events published to Redis by running translators",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			s := LoadSettings().Redis
			s.Enabled = true

			if err := events.EnsureGroupAtTail(ctx, s.Addr, events.Topic, s.Group); err != nil {
				return err
			}

			router, err := events.BuildRouter(s, verbose)
			if err != nil {
				return err
			}
			defer func() {
				if err := events.CloseRouter(router); err != nil {
					log.Warn().Err(err).Msg("could not close router")
				}
			}()

			log.Info().Str("addr", s.Addr).Str("group", s.Group).Msg("watching rewrite events")
			return runWatch(ctx, router, cmd.OutOrStdout())
		},
	}

	cmd.Flags().BoolVar(&verbose, "verbose", false, "Log watermill internals")
	return cmd
}

// runWatch prints every event on the rewrites topic until ctx is done.
func runWatch(ctx context.Context, router *gepevents.EventRouter, w io.Writer) error {
	router.AddHandler("printer", events.Topic, events.PrinterHandler(w))

	err := router.Run(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
