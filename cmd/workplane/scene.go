package main

import (
	"fmt"
	"os"

	"github.com/aretw0/workplane/internal/cli"
	"github.com/aretw0/workplane/internal/scenefile"
	"github.com/aretw0/workplane/pkg/adapters/memory"
	"github.com/aretw0/workplane/pkg/domain"
	"github.com/spf13/cobra"
)

var sceneCmd = &cobra.Command{
	Use:   "scene",
	Short: "Manage the scene file",
}

var sceneInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write an empty scene file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		force, _ := cmd.Flags().GetBool("force")
		cube, _ := cmd.Flags().GetBool("cube")

		path, err := scenePath(cmd)
		if err != nil {
			return err
		}
		if _, err := os.Stat(path); err == nil && !force {
			return fmt.Errorf("scene file %s already exists (use --force to overwrite)", path)
		}

		scene := memory.NewScene()
		if cube {
			if err := scene.AddObject(&domain.Object{
				Name:      "Cube",
				Kind:      domain.KindMesh,
				Transform: domain.IdentityTransform(),
			}); err != nil {
				return err
			}
		}
		if err := scenefile.Save(path, scene); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Scene written to %s\n", path)
		return nil
	},
}

var sceneShowCmd = &cobra.Command{
	Use:   "show",
	Short: "List the objects in the scene file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := scenePath(cmd)
		if err != nil {
			return err
		}
		scene, err := scenefile.Load(path)
		if err != nil {
			return err
		}
		objs, err := scene.Objects(cmd.Context())
		if err != nil {
			return err
		}
		focused, _ := scene.Focused(cmd.Context())
		mode, _ := scene.Mode(cmd.Context())

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "mode: %s\n", mode)
		for _, obj := range objs {
			marker := " "
			if obj.Name == focused {
				marker = "*"
			}
			fmt.Fprintf(out, "%s %-20s %s\n", marker, obj.Name, obj.Kind)
		}
		return nil
	},
}

func scenePath(cmd *cobra.Command) (string, error) {
	cfg, err := cli.LoadConfig(options(cmd))
	if err != nil {
		return "", err
	}
	if cfg.Scene == "" {
		return cli.DefaultScenePath, nil
	}
	return cfg.Scene, nil
}

func init() {
	rootCmd.AddCommand(sceneCmd)
	sceneCmd.AddCommand(sceneInitCmd)
	sceneCmd.AddCommand(sceneShowCmd)
	sceneInitCmd.Flags().BoolP("force", "f", false, "Overwrite an existing scene file")
	sceneInitCmd.Flags().Bool("cube", false, "Add a mesh named Cube")
}
