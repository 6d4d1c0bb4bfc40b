package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jmehdipour/omnichannel/cmd/worker"
	"github.com/jmehdipour/omnichannel/internal/app"
	"github.com/jmehdipour/omnichannel/internal/client"
)

var (
	cfgPath string
	rootCmd = &cobra.Command{
		Use:           "omnictl",
		Short:         "Omnichannel messaging CLI",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "config.yaml", "path to YAML config file")
	rootCmd.AddCommand(sendCmd)
	rootCmd.AddCommand(subscriptionsCmd)
	rootCmd.AddCommand(templatesCmd)
	rootCmd.AddCommand(reportsCmd)
	rootCmd.AddCommand(batchCmd)
	rootCmd.AddCommand(eventsCmd)
	rootCmd.AddCommand(webhookCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(worker.NewWorkerCmd())
}

func load() (*app.App, error) { return app.Load(cfgPath) }

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func syncLogger(l *zap.Logger) { _ = l.Sync() }

func apiClient() (*client.Client, error) {
	a, err := load()
	if err != nil {
		return nil, err
	}
	return a.Client()
}
