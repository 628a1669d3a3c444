package cli

import (
	"fmt"
	"net/url"
	"os"

	"github.com/spf13/cobra"
)

func newRosterCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "roster",
		Short: "Master roster commands (admin)",
	}

	cmd.AddCommand(newRosterGetCmd())
	cmd.AddCommand(newRosterSetCmd())
	cmd.AddCommand(newRosterListCmd())
	cmd.AddCommand(newRosterExportCmd())

	return cmd
}

func newRosterGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <class-id>",
		Short: "Show a class roster",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Roster
			if err := client.Get("/api/v1/classes/"+url.PathEscape(args[0])+"/roster", &result); err != nil {
				return err
			}

			NewOutput(cfg.Output).Print(result)
			return nil
		},
	}
}

func newRosterSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   `set <class-id> ["First Last"...]`,
		Short: "Replace a class roster",
		Long: `Replace a class roster with the given children. The last word of each
name is the last name. With no names the roster is cleared.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			children := make([]Child, 0, len(args)-1)
			for _, name := range args[1:] {
				child, err := ParseChildName(name)
				if err != nil {
					return err
				}
				children = append(children, child)
			}

			req := map[string]any{"children": children}
			var result Roster
			if err := client.Put("/api/v1/classes/"+url.PathEscape(args[0])+"/roster", req, &result); err != nil {
				return err
			}

			NewOutput(cfg.Output).Print(result)
			return nil
		},
	}
}

func newRosterListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Show every roster",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result RosterList
			if err := client.Get("/api/v1/rosters", &result); err != nil {
				return err
			}

			NewOutput(cfg.Output).Print(result)
			return nil
		},
	}
}

func newRosterExportCmd() *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Download every roster as CSV",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := client.Download("/api/v1/rosters/export")
			if err != nil {
				return err
			}

			if outPath == "" {
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			if err := os.WriteFile(outPath, data, 0o644); err != nil {
				return fmt.Errorf("failed to write %s: %w", outPath, err)
			}

			NewOutput(cfg.Output).PrintMessage("Rosters written to " + outPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&outPath, "out", "", "Write the CSV to a file instead of stdout")

	return cmd
}
