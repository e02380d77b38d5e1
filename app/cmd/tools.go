package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// newToolsCmd groups the catalog inspection subcommands.
func newToolsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tools",
		Short: "Inspect the tool catalog",
	}
	cmd.AddCommand(newToolsSearchCmd(), newToolsListCmd(), newToolsCategoriesCmd())
	return cmd
}

func newToolsSearchCmd() *cobra.Command {
	var (
		topK     int
		category string
	)
	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Rank catalog tools against a query",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat := newCatalog(newTracer())
			query := ""
			for i, arg := range args {
				if i > 0 {
					query += " "
				}
				query += arg
			}
			results := cat.Search(query, topK, category)
			if len(results) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no matching tools")
				return nil
			}
			for _, tool := range results {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\n", tool.ID, tool.Name, tool.Description)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&topK, "top", 5, "Maximum number of results")
	cmd.Flags().StringVar(&category, "category", "", "Restrict to one category")
	return cmd
}

func newToolsListCmd() *cobra.Command {
	var (
		category string
		freeOnly bool
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List catalog tools",
		RunE: func(cmd *cobra.Command, args []string) error {
			cat := newCatalog(newTracer())
			tools := cat.All()
			if category != "" {
				tools = cat.ByCategory(category)
			} else if freeOnly {
				tools = cat.Free()
			}
			for _, tool := range tools {
				key := ""
				if tool.RequiresAPIKey {
					key = " (api key)"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s%s\n", tool.ID, tool.Name, key)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&category, "category", "", "Restrict to one category")
	cmd.Flags().BoolVar(&freeOnly, "free", false, "Only tools without a credential")
	return cmd
}

func newToolsCategoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List distinct tool categories",
		RunE: func(cmd *cobra.Command, args []string) error {
			cat := newCatalog(newTracer())
			for _, category := range cat.Categories() {
				fmt.Fprintln(cmd.OutOrStdout(), category)
			}
			return nil
		},
	}
}
