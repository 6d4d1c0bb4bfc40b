package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jmehdipour/omnichannel/internal/model"
)

var batchFlags struct {
	name     string
	channel  string
	from     string
	values   []string
	columns  map[string]string
	contacts string
}

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Upload a message batch with a contacts CSV",
	Example: `  omnictl batch --channel sms --name promo --from acme --value "Hi {{name}}" --column name=first_name --contacts people.csv
  omnictl batch --channel whatsapp --name promo --from acme --value tpl-1 --contacts people.csv`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var b model.MessageBatch
		switch ch, _ := model.ParseChannel(batchFlags.channel); ch {
		case model.ChannelSMS:
			b = model.NewSMSMessageBatch(batchFlags.name, batchFlags.from, batchFlags.columns, batchFlags.values...)
		case model.ChannelWhatsApp:
			b = model.NewWhatsAppMessageBatch(batchFlags.name, batchFlags.from, batchFlags.columns, batchFlags.values...)
		default:
			return fmt.Errorf("batches support sms and whatsapp, got %q", batchFlags.channel)
		}

		c, err := apiClient()
		if err != nil {
			return err
		}
		out, err := c.SendMessageBatchFile(cmd.Context(), b, batchFlags.contacts)
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), out)
	},
}

func init() {
	f := batchCmd.Flags()
	f.StringVar(&batchFlags.name, "name", "", "batch name")
	f.StringVar(&batchFlags.channel, "channel", "sms", "sms or whatsapp")
	f.StringVar(&batchFlags.from, "from", "", "sender id")
	f.StringArrayVar(&batchFlags.values, "value", nil, "text (sms) or template id (whatsapp), repeatable")
	f.StringToStringVar(&batchFlags.columns, "column", nil, "column mapping variable=csv_header")
	f.StringVar(&batchFlags.contacts, "contacts", "", "contacts CSV file")
	_ = batchCmd.MarkFlagRequired("name")
	_ = batchCmd.MarkFlagRequired("from")
	_ = batchCmd.MarkFlagRequired("contacts")
}
