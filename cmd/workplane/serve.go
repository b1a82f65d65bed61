package main

import (
	"context"

	"github.com/aretw0/workplane/internal/cli"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long: `Exposes the command catalog as a JSON API, streams state changes over SSE at /events
and serves Prometheus metrics at /metrics.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, _ := cmd.Flags().GetString("addr")

		sc := cli.NewSignalContext(context.Background())
		defer sc.Cancel()
		cmd.SetContext(sc)

		app, err := setup(cmd, false)
		if err != nil {
			return err
		}
		if err := cli.Serve(sc, app, addr); err != nil {
			return err
		}
		if sig := sc.Signal(); sig != nil {
			app.Logger.Info("Workplane server stopped", "signal", sig.String())
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("addr", "a", "", "Address to listen on (default from config, :8080)")
}
