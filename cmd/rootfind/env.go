package main

import (
	"github.com/spf13/cobra"

	"github.com/zephyrtronium/rootfind/internal/config"
)

var envCmd = &cobra.Command{
	Use:   "env",
	Short: "List the environment variables rootfind reads",
	RunE: func(cmd *cobra.Command, args []string) error {
		return config.Usage(cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(envCmd)
}
