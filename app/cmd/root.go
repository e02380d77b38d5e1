// Package cmd wires the agentforge CLI: graph design, repair, validation,
// tool discovery and artifact management.
package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	cfgFile   string
	workspace string
	debug     bool

	globalCfg *Config
)

// Execute is the entry point for the CLI.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// NewRootCmd wires the cobra tree.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "agentforge",
		Short:         "Design and validate agent workflow graphs",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if workspace == "" {
				if wd, err := os.Getwd(); err == nil {
					workspace = wd
				} else {
					return err
				}
			}
			if cfgFile == "" {
				cfgFile = DefaultConfigPath(workspace)
			}
			cfg, err := LoadConfig(cfgFile, workspace)
			if err != nil && !errors.Is(err, os.ErrNotExist) {
				return err
			}
			if debug {
				cfg.Debug = true
			}
			globalCfg = cfg
			return nil
		},
	}
	root.PersistentFlags().StringVar(&workspace, "workspace", "", "Workspace directory")
	root.PersistentFlags().StringVar(&cfgFile, "config", "", "Path to agentforge config file")
	root.PersistentFlags().BoolVar(&debug, "debug", false, "Enable trace output")

	root.AddCommand(
		newDesignCmd(),
		newRepairCmd(),
		newValidateCmd(),
		newToolsCmd(),
		newArtifactsCmd(),
	)
	return root
}
