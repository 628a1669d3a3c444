package cli

import (
	"fmt"
	"net/url"

	"github.com/spf13/cobra"
)

func newClassesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "classes",
		Short: "Class commands",
	}

	cmd.AddCommand(newClassesListCmd())
	cmd.AddCommand(newClassesGetCmd())
	cmd.AddCommand(newClassesCreateCmd())
	cmd.AddCommand(newClassesUpdateCmd())
	cmd.AddCommand(newClassesDeleteCmd())

	return cmd
}

func newClassesListCmd() *cobra.Command {
	var sortKey string
	var desc bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List classes",
		RunE: func(cmd *cobra.Command, args []string) error {
			if sortKey != "age_range" && sortKey != "period" {
				return fmt.Errorf("--sort must be age_range or period")
			}

			query := url.Values{"sort": {sortKey}, "dir": {"asc"}}
			if desc {
				query.Set("dir", "desc")
			}

			var result ClassList
			if err := client.Get("/api/v1/classes?"+query.Encode(), &result); err != nil {
				return err
			}

			NewOutput(cfg.Output).Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&sortKey, "sort", "age_range", "Sort key: age_range, period")
	cmd.Flags().BoolVar(&desc, "desc", false, "Sort descending")

	return cmd
}

func newClassesGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show one class",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Class
			if err := client.Get("/api/v1/classes/"+url.PathEscape(args[0]), &result); err != nil {
				return err
			}

			NewOutput(cfg.Output).Print(result)
			return nil
		},
	}
}

func newClassesCreateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "create",
		Short: "Create a class with default values (admin)",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Class
			if err := client.Post("/api/v1/classes", nil, &result); err != nil {
				return err
			}

			NewOutput(cfg.Output).Print(result)
			return nil
		},
	}
}

func newClassesUpdateCmd() *cobra.Command {
	var field, value string

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update one field of a class (admin)",
		Long: `Update one field of a class.

Fields: name, description, ageRange, period, icon, instructor.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{"field": field, "value": value}

			var result Class
			if err := client.Patch("/api/v1/classes/"+url.PathEscape(args[0]), req, &result); err != nil {
				return err
			}

			NewOutput(cfg.Output).Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&field, "field", "", "Field to update (required)")
	cmd.Flags().StringVar(&value, "value", "", "New value")
	_ = cmd.MarkFlagRequired("field")

	return cmd
}

func newClassesDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a class and its roster (admin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.Delete("/api/v1/classes/" + url.PathEscape(args[0])); err != nil {
				return err
			}

			NewOutput(cfg.Output).PrintMessage("Class deleted")
			return nil
		},
	}
}
