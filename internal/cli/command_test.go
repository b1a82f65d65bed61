package cli

import (
	"testing"

	"github.com/aretw0/workplane"
	"github.com/aretw0/workplane/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommandFromArgs(t *testing.T) {
	cmd, err := CommandFromArgs([]string{"select-drawable", "name=Drawing 2"})
	require.NoError(t, err)
	assert.Equal(t, domain.Command{Name: "select-drawable", Args: map[string]any{"name": "Drawing 2"}}, cmd)

	cmd, err = CommandFromArgs([]string{"init"})
	require.NoError(t, err)
	assert.Nil(t, cmd.Args)

	_, err = CommandFromArgs(nil)
	assert.ErrorIs(t, err, workplane.ErrInvalidArgs)

	_, err = CommandFromArgs([]string{"rotate", "axis"})
	assert.ErrorIs(t, err, workplane.ErrInvalidArgs)
}
