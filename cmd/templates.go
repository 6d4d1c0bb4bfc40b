package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jmehdipour/omnichannel/internal/model"
)

var templatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "Manage message templates",
}

var templatesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List templates",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := apiClient()
		if err != nil {
			return err
		}
		ts, err := c.ListTemplates(cmd.Context())
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), ts)
	},
}

var templatesGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show one template",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := apiClient()
		if err != nil {
			return err
		}
		t, err := c.GetTemplate(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), t)
	},
}

var templatesCreateCmd = &cobra.Command{
	Use:   "create <template.json>",
	Short: "Create a template from a JSON definition",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var t model.Template
		if err := readJSON(args[0], &t); err != nil {
			return err
		}
		c, err := apiClient()
		if err != nil {
			return err
		}
		created, err := c.CreateTemplate(cmd.Context(), t)
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), created)
	},
}

var templatesUpdateCmd = &cobra.Command{
	Use:   "update <id> <partial.json>",
	Short: "Update a template's components or notification email",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		var p model.PartialTemplate
		if err := readJSON(args[1], &p); err != nil {
			return err
		}
		c, err := apiClient()
		if err != nil {
			return err
		}
		t, err := c.UpdateTemplate(cmd.Context(), args[0], p)
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), t)
	},
}

var templatesDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a template",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := apiClient()
		if err != nil {
			return err
		}
		return c.DeleteTemplate(cmd.Context(), args[0])
	},
}

func readJSON(path string, v any) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(b, v); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

func init() {
	templatesCmd.AddCommand(templatesListCmd, templatesGetCmd, templatesCreateCmd, templatesUpdateCmd, templatesDeleteCmd)
}
