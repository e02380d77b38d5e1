package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lexcodex/agentforge/designer"
	"github.com/lexcodex/agentforge/schema"
)

// newRepairCmd loads a persisted graph, asks the model to fix the supplied
// issues or feedback, and writes the repaired graph back.
func newRepairCmd() *cobra.Command {
	var (
		graphPath  string
		issuesPath string
		feedback   string
		outPath    string
	)
	cmd := &cobra.Command{
		Use:   "repair",
		Short: "Repair a designed graph from simulation issues or feedback",
		RunE: func(cmd *cobra.Command, args []string) error {
			graph, err := designer.LoadGraph(graphPath)
			if err != nil {
				return err
			}
			var sim *schema.SimulationResult
			if issuesPath != "" {
				data, err := os.ReadFile(issuesPath)
				if err != nil {
					return fmt.Errorf("issues read failed: %w", err)
				}
				sim = &schema.SimulationResult{}
				if err := json.Unmarshal(data, sim); err != nil {
					return fmt.Errorf("issues decode failed: %w", err)
				}
				if len(sim.Issues) > 0 && !sim.HasErrors() {
					fmt.Fprintln(cmd.OutOrStdout(), "all reported issues are warnings")
				}
			}

			tracer := newTracer()
			builder, err := newBuilder(cmd.Context())
			if err != nil {
				return err
			}
			des := designer.New(builder, newCatalog(tracer), designer.Options{
				TemplateDir: globalCfg.TemplateDir,
				Tracer:      tracer,
			})
			fixed, err := des.FixGraph(cmd.Context(), graph, sim, feedback)
			if err != nil {
				return err
			}

			if outPath == "" {
				outPath = graphPath
			}
			if err := designer.SaveGraph(outPath, fixed); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "repaired graph written to %s\n", outPath)
			return nil
		},
	}
	cmd.Flags().StringVar(&graphPath, "graph", "", "Path to the graph JSON")
	cmd.Flags().StringVar(&issuesPath, "issues", "", "Path to a simulation result JSON")
	cmd.Flags().StringVar(&feedback, "feedback", "", "Free-text repair instructions")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Output path (defaults to the input)")
	cobra.CheckErr(cmd.MarkFlagRequired("graph"))
	return cmd
}
