package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/workplane"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of workplane",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "workplane version %s\n", strings.TrimSpace(workplane.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
