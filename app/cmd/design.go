package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lexcodex/agentforge/designer"
	"github.com/lexcodex/agentforge/persistence"
	"github.com/lexcodex/agentforge/schema"
	"github.com/lexcodex/agentforge/selector"
)

// newDesignCmd runs the full pipeline: read project metadata, select tools,
// design the graph, report tool diagnostics, persist the artifact.
func newDesignCmd() *cobra.Command {
	var (
		metaPath  string
		outPath   string
		maxTools  int
		retrieval bool
		save      bool
	)
	cmd := &cobra.Command{
		Use:   "design",
		Short: "Design a workflow graph from project metadata",
		RunE: func(cmd *cobra.Command, args []string) error {
			meta, err := readProjectMeta(metaPath)
			if err != nil {
				return err
			}
			tracer := newTracer()
			builder, err := newBuilder(cmd.Context())
			if err != nil {
				return err
			}
			cat := newCatalog(tracer)

			sel := selector.New(builder, cat, tracer)
			tools := schema.ToolsConfig{
				EnabledTools: sel.SelectTools(cmd.Context(), *meta, maxTools),
			}

			var retrievalCfg *schema.RetrievalConfig
			if retrieval || meta.HasRetrieval {
				meta.HasRetrieval = true
				retrievalCfg = &schema.RetrievalConfig{
					Splitter:   "recursive",
					ChunkSize:  500,
					KRetrieval: 4,
				}
			}

			des := designer.New(builder, cat, designer.Options{
				TemplateDir: globalCfg.TemplateDir,
				Tracer:      tracer,
			})
			graph, diagnostics, err := des.DesignGraph(cmd.Context(), *meta, tools, retrievalCfg)
			if err != nil {
				return err
			}

			for _, diag := range diagnostics {
				if diag.IsValid {
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "tool %s schema check failed:\n", diag.ToolName)
				for _, e := range diag.Errors {
					fmt.Fprintf(cmd.OutOrStdout(), "  - %s\n", e.Message)
				}
			}

			if outPath != "" {
				if err := designer.SaveGraph(outPath, graph); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "graph written to %s\n", outPath)
			} else {
				data, err := json.MarshalIndent(graph, "", "  ")
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(data))
			}

			if save {
				store, err := persistence.NewFileDesignStore(globalCfg.StoreDir)
				if err != nil {
					return err
				}
				artifact := &persistence.DesignArtifact{
					ID:        meta.AgentName,
					Graph:     graph,
					Tools:     tools,
					Retrieval: retrievalCfg,
				}
				if err := store.Save(cmd.Context(), artifact); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "artifact %s saved\n", artifact.ID)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&metaPath, "meta", "", "Path to project metadata JSON")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Write the graph to this file instead of stdout")
	cmd.Flags().IntVar(&maxTools, "max-tools", selector.DefaultMaxTools, "Upper bound on selected tools")
	cmd.Flags().BoolVar(&retrieval, "retrieval", false, "Wire retrieval augmentation into the graph")
	cmd.Flags().BoolVar(&save, "save", false, "Persist the design artifact")
	cobra.CheckErr(cmd.MarkFlagRequired("meta"))
	return cmd
}

func readProjectMeta(path string) (*schema.ProjectMeta, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("project metadata read failed: %w", err)
	}
	var meta schema.ProjectMeta
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("project metadata decode failed: %w", err)
	}
	if meta.AgentName == "" {
		meta.AgentName = "agent"
	}
	return &meta, nil
}
