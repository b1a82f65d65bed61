// Package scenefile persists an in-memory host scene between CLI invocations.
package scenefile

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aretw0/workplane/pkg/adapters/memory"
	"gopkg.in/yaml.v3"
)

// Load reads a scene file. A missing file yields an empty scene.
func Load(path string) (*memory.Scene, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return memory.NewScene(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read scene: %w", err)
	}

	var snap memory.Snapshot
	if isJSON(path) {
		err = json.Unmarshal(data, &snap)
	} else {
		err = yaml.Unmarshal(data, &snap)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse scene %s: %w", path, err)
	}

	scene, err := memory.FromSnapshot(snap)
	if err != nil {
		return nil, fmt.Errorf("invalid scene %s: %w", path, err)
	}
	return scene, nil
}

// Save writes the scene atomically.
func Save(path string, scene *memory.Scene) error {
	snap := scene.Snapshot()

	var (
		data []byte
		err  error
	)
	if isJSON(path) {
		data, err = json.MarshalIndent(snap, "", "  ")
	} else {
		data, err = yaml.Marshal(snap)
	}
	if err != nil {
		return fmt.Errorf("failed to encode scene: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create scene directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".scene-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write scene: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to sync scene: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close scene: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("failed to replace scene: %w", err)
	}
	return nil
}

func isJSON(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".json")
}
