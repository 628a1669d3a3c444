package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// Selection is one class of a registration request
type Selection struct {
	ClassID  string  `json:"classId"`
	Children []Child `json:"children"`
}

// ParseChildName splits "First Last" at the last space
func ParseChildName(name string) (Child, error) {
	name = strings.TrimSpace(name)
	i := strings.LastIndexFunc(name, func(r rune) bool { return r == ' ' || r == '\t' })
	if i < 0 {
		return Child{}, fmt.Errorf("%q: expected a first and last name", name)
	}
	return Child{
		FirstName: strings.TrimSpace(name[:i]),
		LastName:  strings.TrimSpace(name[i+1:]),
	}, nil
}

// ParseSelections groups class-id="First Last" pairs by class, keeping the
// order classes first appear in
func ParseSelections(pairs []string) ([]Selection, error) {
	var selections []Selection
	index := make(map[string]int)

	for _, pair := range pairs {
		classID, name, ok := strings.Cut(pair, "=")
		classID = strings.TrimSpace(classID)
		if !ok || classID == "" {
			return nil, fmt.Errorf("%q: expected class-id=\"First Last\"", pair)
		}
		child, err := ParseChildName(name)
		if err != nil {
			return nil, err
		}

		i, seen := index[classID]
		if !seen {
			i = len(selections)
			index[classID] = i
			selections = append(selections, Selection{ClassID: classID})
		}
		selections[i].Children = append(selections[i].Children, child)
	}

	if len(selections) == 0 {
		return nil, fmt.Errorf("at least one --child is required")
	}
	return selections, nil
}

func newRegisterCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Registration commands",
	}

	cmd.AddCommand(newRegisterCheckCmd())
	cmd.AddCommand(newRegisterSubmitCmd())

	return cmd
}

func newRegisterCheckCmd() *cobra.Command {
	var children []string

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Check a registration for period conflicts",
		RunE: func(cmd *cobra.Command, args []string) error {
			selections, err := ParseSelections(children)
			if err != nil {
				return err
			}

			var result CheckResult
			if err := client.Post("/api/v1/registrations/check", map[string]any{"selections": selections}, &result); err != nil {
				return err
			}

			NewOutput(cfg.Output).Print(result)
			if !result.OK {
				return fmt.Errorf("registration has a conflict")
			}
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&children, "child", nil, `Child to register, as class-id="First Last" (repeatable)`)

	return cmd
}

func newRegisterSubmitCmd() *cobra.Command {
	var children []string

	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Submit a registration",
		RunE: func(cmd *cobra.Command, args []string) error {
			selections, err := ParseSelections(children)
			if err != nil {
				return err
			}

			var result SubmitResult
			if err := client.Post("/api/v1/registrations", map[string]any{"selections": selections}, &result); err != nil {
				return err
			}

			NewOutput(cfg.Output).Print(result)
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&children, "child", nil, `Child to register, as class-id="First Last" (repeatable)`)

	return cmd
}
