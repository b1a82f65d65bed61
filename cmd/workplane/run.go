package main

import (
	"context"
	"os"

	"github.com/aretw0/workplane/internal/cli"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the interactive REPL",
	Long: `Reads commands such as "init", "plane-vertical" or "rotate axis=z degrees=15" and
renders the side panel after each one. Use --headless for one status line per command,
which suits piping from scripts.`,
	Args: cobra.NoArgs,
	RunE: runREPL,
}

func addREPLFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("headless", false, "Print one status line per command instead of the panel")
	cmd.Flags().Bool("fresh", false, "Discard the stored session state for the document first")
}

func runREPL(cmd *cobra.Command, args []string) error {
	headless, _ := cmd.Flags().GetBool("headless")
	fresh, _ := cmd.Flags().GetBool("fresh")

	sc := cli.NewSignalContext(context.Background())
	defer sc.Cancel()
	cmd.SetContext(sc)

	app, err := setup(cmd, fresh)
	if err != nil {
		return err
	}
	return cli.REPL(sc, app, os.Stdin, os.Stdout, headless)
}

func init() {
	addREPLFlags(runCmd)
	rootCmd.AddCommand(runCmd)
}
