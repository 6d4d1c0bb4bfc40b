package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jmehdipour/omnichannel/internal/model"
)

var reportsCmd = &cobra.Command{
	Use:   "reports",
	Short: "Query flow and message reports",
}

var flowFilters model.FlowReportFilters

var reportsFlowCmd = &cobra.Command{
	Use:   "flow",
	Short: "Flow report entries",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := apiClient()
		if err != nil {
			return err
		}
		entries, err := c.FlowReportEntries(cmd.Context(), flowFilters)
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), entries)
	},
}

var messageFilters struct {
	start    string
	end      string
	channels string
	kind     string
}

var reportsMessagesCmd = &cobra.Command{
	Use:   "messages",
	Short: "Message totals per channel and direction",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		f := model.MessageReportFilters{
			StartDate: messageFilters.start,
			EndDate:   messageFilters.end,
			Type:      model.MessageType(messageFilters.kind),
		}
		if messageFilters.channels != "" {
			for _, s := range strings.Split(messageFilters.channels, ",") {
				ch, ok := model.ParseChannel(s)
				if !ok {
					return fmt.Errorf("unknown channel %q", s)
				}
				f.Channels = append(f.Channels, ch)
			}
		}

		c, err := apiClient()
		if err != nil {
			return err
		}
		entries, err := c.MessageReportEntries(cmd.Context(), f)
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), entries)
	},
}

func init() {
	ff := reportsFlowCmd.Flags()
	ff.StringVar(&flowFilters.StartDate, "start", "", "start date (YYYY-MM-DD), required")
	ff.StringVar(&flowFilters.EndDate, "end", "", "end date (YYYY-MM-DD)")
	ff.StringVar(&flowFilters.FlowID, "flow", "", "flow id")
	ff.StringVar(&flowFilters.DispatchID, "dispatch", "", "dispatch id")
	ff.StringVar(&flowFilters.SessionID, "session", "", "session id")

	mf := reportsMessagesCmd.Flags()
	mf.StringVar(&messageFilters.start, "start", "", "start date (YYYY-MM-DD), required")
	mf.StringVar(&messageFilters.end, "end", "", "end date (YYYY-MM-DD), required")
	mf.StringVar(&messageFilters.channels, "channels", "", "comma separated channels")
	mf.StringVar(&messageFilters.kind, "type", "", "message or notification")

	reportsCmd.AddCommand(reportsFlowCmd, reportsMessagesCmd)
}
