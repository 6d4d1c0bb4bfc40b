package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jmehdipour/omnichannel/internal/model"
)

var subscriptionsCmd = &cobra.Command{
	Use:     "subscriptions",
	Aliases: []string{"subs"},
	Short:   "Manage webhook subscriptions",
}

var subscriptionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List subscriptions",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := apiClient()
		if err != nil {
			return err
		}
		subs, err := c.ListSubscriptions(cmd.Context())
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), subs)
	},
}

var subscriptionsGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show one subscription",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := apiClient()
		if err != nil {
			return err
		}
		s, err := c.GetSubscription(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), s)
	},
}

var subCreateFlags struct {
	eventType string
	url       string
	channel   string
	direction string
	headers   map[string]string
}

var subscriptionsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a MESSAGE or MESSAGE_STATUS subscription",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ch, ok := model.ParseChannel(subCreateFlags.channel)
		if !ok {
			return fmt.Errorf("unknown channel %q", subCreateFlags.channel)
		}

		webhook := model.Webhook{URL: subCreateFlags.url, Headers: subCreateFlags.headers}
		criteria := model.Criteria{Channel: ch, Direction: model.Direction(subCreateFlags.direction)}

		var s model.Subscription
		switch model.EventType(subCreateFlags.eventType) {
		case model.EventTypeMessage:
			s = model.NewMessageSubscription(webhook, criteria)
		case model.EventTypeMessageStatus:
			s = model.NewMessageStatusSubscription(webhook, criteria)
		default:
			return fmt.Errorf("unknown event type %q", subCreateFlags.eventType)
		}

		c, err := apiClient()
		if err != nil {
			return err
		}
		created, err := c.CreateSubscription(cmd.Context(), s)
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), created)
	},
}

var subUpdateFlags struct {
	status string
	url    string
}

var subscriptionsUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Change a subscription's status or webhook url",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p := model.PartialSubscription{Status: model.SubscriptionStatus(subUpdateFlags.status)}
		if subUpdateFlags.url != "" {
			p.Webhook = &model.Webhook{URL: subUpdateFlags.url}
		}

		c, err := apiClient()
		if err != nil {
			return err
		}
		s, err := c.UpdateSubscription(cmd.Context(), args[0], p)
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), s)
	},
}

var subscriptionsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a subscription",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := apiClient()
		if err != nil {
			return err
		}
		return c.DeleteSubscription(cmd.Context(), args[0])
	},
}

func init() {
	f := subscriptionsCreateCmd.Flags()
	f.StringVar(&subCreateFlags.eventType, "event-type", string(model.EventTypeMessage), "MESSAGE or MESSAGE_STATUS")
	f.StringVar(&subCreateFlags.url, "url", "", "webhook url")
	f.StringVar(&subCreateFlags.channel, "channel", "", "channel")
	f.StringVar(&subCreateFlags.direction, "direction", "", "IN or OUT (MESSAGE only)")
	f.StringToStringVar(&subCreateFlags.headers, "header", nil, "header sent with each delivery, key=value")
	_ = subscriptionsCreateCmd.MarkFlagRequired("url")
	_ = subscriptionsCreateCmd.MarkFlagRequired("channel")

	uf := subscriptionsUpdateCmd.Flags()
	uf.StringVar(&subUpdateFlags.status, "status", "", "ACTIVE or INACTIVE")
	uf.StringVar(&subUpdateFlags.url, "url", "", "new webhook url")

	subscriptionsCmd.AddCommand(subscriptionsListCmd, subscriptionsGetCmd, subscriptionsCreateCmd, subscriptionsUpdateCmd, subscriptionsDeleteCmd)
}
