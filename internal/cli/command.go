package cli

import (
	"fmt"
	"strings"

	"github.com/aretw0/workplane"
	"github.com/aretw0/workplane/pkg/domain"
)

// CommandFromArgs builds a command from already split arguments: a name followed by key=value pairs.
func CommandFromArgs(args []string) (domain.Command, error) {
	if len(args) == 0 {
		return domain.Command{}, fmt.Errorf("%w: empty command", workplane.ErrInvalidArgs)
	}
	cmd := domain.Command{Name: args[0]}
	for _, arg := range args[1:] {
		key, value, ok := strings.Cut(arg, "=")
		if !ok || key == "" {
			return domain.Command{}, fmt.Errorf("%w: expected key=value, got %q", workplane.ErrInvalidArgs, arg)
		}
		if cmd.Args == nil {
			cmd.Args = map[string]any{}
		}
		cmd.Args[key] = value
	}
	return cmd, nil
}
