package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jmehdipour/omnichannel/internal/app"
	"github.com/jmehdipour/omnichannel/internal/dispatcher"
	"github.com/jmehdipour/omnichannel/internal/kafka"
	"github.com/jmehdipour/omnichannel/internal/model"
	"github.com/jmehdipour/omnichannel/internal/util"
)

var sendFlags struct {
	channel      string
	from         string
	to           string
	texts        []string
	templateID   string
	fields       map[string]string
	contentsFile string
	enqueue      bool
}

var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "Send one message (or queue it for the sender worker)",
	Example: `  omnictl send --channel sms --from acme --to 5511999999999 --text "hi"
  omnictl send --channel whatsapp --from acme --to 5511999999999 --template t1 --field name=Ana
  omnictl send --channel gbm --from acme --to user --contents card.json --enqueue`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := load()
		if err != nil {
			return err
		}
		defer syncLogger(a.Log)

		ch, ok := model.ParseChannel(sendFlags.channel)
		if !ok {
			return fmt.Errorf("unknown channel %q", sendFlags.channel)
		}

		contents, err := sendContents()
		if err != nil {
			return err
		}

		req := model.MessageRequest{From: sendFlags.from, To: sendFlags.to, Contents: contents}

		if sendFlags.enqueue {
			// envelopes on the topic are already validated
			d, err := dispatcher.New(ch, nil, a.Log)
			if err != nil {
				return err
			}
			if err := d.Check(req); err != nil {
				return err
			}
			return enqueue(cmd, a, ch, req)
		}

		c, err := a.Client()
		if err != nil {
			return err
		}
		d, err := c.Channel(ch)
		if err != nil {
			return err
		}
		msg, err := d.SendRequest(cmd.Context(), req)
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), msg)
	},
}

func enqueue(cmd *cobra.Command, a *app.App, ch model.Channel, req model.MessageRequest) error {
	kc := a.Config.Kafka
	if len(kc.Brokers) == 0 || kc.OutboundTopic == "" {
		return errors.New("kafka.brokers and kafka.outbound_topic are required to enqueue")
	}
	pub := kafka.NewEnvelopePublisher(kafka.NewWriter(kc.Brokers, kc.OutboundTopic))
	defer pub.Close()

	env := model.Envelope{ID: util.NewID(), Channel: ch, From: req.From, To: req.To, Contents: req.Contents}
	if err := pub.Publish(cmd.Context(), env); err != nil {
		return fmt.Errorf("enqueue: %w", err)
	}
	a.Log.Info("envelope queued", zap.String("envelope_id", env.ID), zap.String("topic", kc.OutboundTopic))
	return printJSON(cmd.OutOrStdout(), env)
}

func sendContents() (model.Contents, error) {
	var out model.Contents
	for _, t := range sendFlags.texts {
		out = append(out, model.NewTextContent(t))
	}
	if sendFlags.templateID != "" {
		out = append(out, model.NewTemplateContent(sendFlags.templateID, sendFlags.fields))
	}
	if sendFlags.contentsFile != "" {
		b, err := os.ReadFile(sendFlags.contentsFile)
		if err != nil {
			return nil, err
		}
		var fromFile model.Contents
		if err := json.Unmarshal(b, &fromFile); err != nil {
			return nil, fmt.Errorf("%s: %w", sendFlags.contentsFile, err)
		}
		out = append(out, fromFile...)
	}
	return out, nil
}

func init() {
	f := sendCmd.Flags()
	f.StringVar(&sendFlags.channel, "channel", "", "channel: sms, whatsapp, facebook, instagram, telegram, rcs, gbm, email")
	f.StringVar(&sendFlags.from, "from", "", "sender id")
	f.StringVar(&sendFlags.to, "to", "", "recipient id")
	f.StringArrayVar(&sendFlags.texts, "text", nil, "text content (repeatable)")
	f.StringVar(&sendFlags.templateID, "template", "", "template id")
	f.StringToStringVar(&sendFlags.fields, "field", nil, "template field key=value (repeatable)")
	f.StringVar(&sendFlags.contentsFile, "contents", "", "JSON file holding a contents array")
	f.BoolVar(&sendFlags.enqueue, "enqueue", false, "publish to kafka.outbound_topic instead of sending")
	_ = sendCmd.MarkFlagRequired("channel")
	_ = sendCmd.MarkFlagRequired("from")
	_ = sendCmd.MarkFlagRequired("to")
}
