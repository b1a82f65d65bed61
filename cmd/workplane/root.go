package main

import (
	"fmt"
	"os"

	"github.com/aretw0/workplane/internal/cli"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "workplane",
	Short: "Workplane is a drawing-plane helper for pencil sketching",
	Long: `Workplane places and manipulates a reference plane for pencil strokes:
derive planes from strokes or picked points, rotate and offset them, and tune the grid.

Without a subcommand it starts the interactive REPL.`,
	SilenceUsage: true,
	RunE:         runREPL,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().StringP("config", "c", "", "Config file (default workplane.yaml)")
	rootCmd.PersistentFlags().StringP("document", "d", "", "Document ID the session state is stored under")
	rootCmd.PersistentFlags().String("scene", "", "Scene file (default .workplane/scene.yaml)")
	rootCmd.PersistentFlags().String("store", "", "Session store backend: memory, file or redis")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")

	addREPLFlags(rootCmd)
}

func options(cmd *cobra.Command) cli.Options {
	configPath, _ := cmd.Flags().GetString("config")
	document, _ := cmd.Flags().GetString("document")
	scene, _ := cmd.Flags().GetString("scene")
	backend, _ := cmd.Flags().GetString("store")
	debug, _ := cmd.Flags().GetBool("debug")
	return cli.Options{
		ConfigPath: configPath,
		Document:   document,
		ScenePath:  scene,
		Backend:    backend,
		Debug:      debug,
	}
}

// setup wires the app and registers its cleanup with the command.
func setup(cmd *cobra.Command, fresh bool) (*cli.App, error) {
	opts := options(cmd)
	opts.Fresh = fresh
	app, err := cli.Setup(cmd.Context(), opts)
	if err != nil {
		return nil, err
	}
	cobra.OnFinalize(func() { _ = app.Close() })
	return app, nil
}
