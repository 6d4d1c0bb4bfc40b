package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jmehdipour/omnichannel/internal/db"
	"github.com/jmehdipour/omnichannel/internal/model"
	"github.com/jmehdipour/omnichannel/internal/repository"
)

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Inspect archived webhook events",
}

var eventsFlags struct {
	eventType string
	channel   string
	limit     int
}

var eventsRecentCmd = &cobra.Command{
	Use:   "recent",
	Short: "Most recent archived events, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var ch model.Channel
		if eventsFlags.channel != "" {
			var ok bool
			if ch, ok = model.ParseChannel(eventsFlags.channel); !ok {
				return fmt.Errorf("unknown channel %q", eventsFlags.channel)
			}
		}

		a, err := load()
		if err != nil {
			return err
		}
		defer syncLogger(a.Log)

		chdb, err := db.NewClickHouse(cmd.Context(), a.Config.ClickHouse)
		if err != nil {
			return fmt.Errorf("clickhouse: %w", err)
		}
		defer chdb.Close()

		rows, err := repository.NewEventsRepository(chdb).Recent(cmd.Context(), model.EventType(eventsFlags.eventType), ch, eventsFlags.limit)
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), rows)
	},
}

func init() {
	f := eventsRecentCmd.Flags()
	f.StringVar(&eventsFlags.eventType, "type", "", "MESSAGE or MESSAGE_STATUS")
	f.StringVar(&eventsFlags.channel, "channel", "", "channel filter")
	f.IntVar(&eventsFlags.limit, "limit", 50, "max rows (1-1000)")
	eventsCmd.AddCommand(eventsRecentCmd)
}
