package main

import (
	"os"

	"github.com/aretw0/workplane/internal/cli"
	"github.com/spf13/cobra"
)

var execCmd = &cobra.Command{
	Use:   "exec <command> [key=value...]",
	Short: "Run a single command and print the panel as JSON",
	Example: `  workplane exec init
  workplane exec rotate axis=x degrees=45
  workplane exec select-drawable "name=Drawing 2"`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		command, err := cli.CommandFromArgs(args)
		if err != nil {
			return err
		}
		app, err := setup(cmd, false)
		if err != nil {
			return err
		}
		return cli.Exec(cmd.Context(), app, command, os.Stdout)
	},
}

func init() {
	rootCmd.AddCommand(execCmd)
}
