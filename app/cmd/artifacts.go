package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lexcodex/agentforge/persistence"
)

// newArtifactsCmd groups the design artifact subcommands.
func newArtifactsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "artifacts",
		Short: "Manage persisted design artifacts",
	}
	cmd.AddCommand(newArtifactsListCmd(), newArtifactsDeleteCmd())
	return cmd
}

func newArtifactsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List persisted design artifacts",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := persistence.NewFileDesignStore(globalCfg.StoreDir)
			if err != nil {
				return err
			}
			artifacts, err := store.List(cmd.Context())
			if err != nil {
				return err
			}
			if len(artifacts) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no artifacts")
				return nil
			}
			for _, artifact := range artifacts {
				nodes := 0
				if artifact.Graph != nil {
					nodes = len(artifact.Graph.Nodes)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%d nodes\t%d tools\t%s\n",
					artifact.ID, nodes, len(artifact.Tools.EnabledTools),
					artifact.UpdatedAt.Format("2006-01-02 15:04:05"))
			}
			return nil
		},
	}
}

func newArtifactsDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete [id]",
		Short: "Delete a persisted design artifact",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := persistence.NewFileDesignStore(globalCfg.StoreDir)
			if err != nil {
				return err
			}
			if err := store.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "artifact %s deleted\n", args[0])
			return nil
		},
	}
}
