package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lexcodex/agentforge/designer"
)

// newValidateCmd checks a persisted graph's structural invariants without
// touching the model.
func newValidateCmd() *cobra.Command {
	var normalize bool
	cmd := &cobra.Command{
		Use:   "validate [graph.json]",
		Short: "Check a graph's structural invariants",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			graph, err := designer.LoadGraph(args[0])
			if err != nil {
				return err
			}
			if normalize {
				designer.NormalizeTerminals(graph)
			}
			issues := graph.Validate()
			if len(issues) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "graph is structurally valid")
				return nil
			}
			for _, issue := range issues {
				fmt.Fprintf(cmd.OutOrStdout(), "- %s\n", issue.Error())
			}
			return fmt.Errorf("graph has %d structural issues", len(issues))
		},
	}
	cmd.Flags().BoolVar(&normalize, "normalize", false, "Normalize terminal aliases before validating")
	return cmd
}
