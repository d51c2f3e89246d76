package all

import (
	"testing"

	"github.com/moonfall/devserve/cmd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommands(t *testing.T) {
	for _, args := range [][]string{
		{"version"},
		{"mimetypes"},
		{"serve"},
		{"serve", "http"},
	} {
		command, _, err := cmd.Root.Find(args)
		require.NoError(t, err, args)
		assert.Equal(t, args[len(args)-1], command.Name(), args)
	}
}

func TestRootServes(t *testing.T) {
	assert.NotNil(t, cmd.Root.Run)
	assert.NotNil(t, cmd.Root.Flags().Lookup("addr"))
	assert.NotNil(t, cmd.Root.Flags().Lookup("mime-type"))

	// a directory argument is not taken as a command
	command, args, err := cmd.Root.Find([]string{"./site"})
	require.NoError(t, err)
	assert.Equal(t, cmd.Root, command)
	assert.Equal(t, []string{"./site"}, args)
}
