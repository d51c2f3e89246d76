package mimeflags

import (
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTable(t *testing.T) {
	opt := Options{MimeTypes: []string{".md=text/plain", ".MD=text/markdown", ".js=text/javascript"}}
	table, err := opt.Table()
	require.NoError(t, err)
	assert.Equal(t, "text/markdown", table.TypeByName("README.md"))
	assert.Equal(t, "text/javascript", table.TypeByName("app.js"))

	table, err = (&Options{}).Table()
	require.NoError(t, err)
	assert.Equal(t, "application/javascript", table.TypeByName("app.js"))

	_, err = (&Options{MimeTypes: []string{"md"}}).Table()
	assert.ErrorContains(t, err, "bad --mime-type")
}

func TestAddFlags(t *testing.T) {
	defer func() { Opt = Options{} }()
	flagSet := pflag.NewFlagSet("test", pflag.ContinueOnError)
	AddFlags(flagSet)
	require.NoError(t, flagSet.Parse([]string{"--mime-type", ".md=text/markdown", "--mime-type", ".wasm=application/wasm"}))
	assert.Equal(t, []string{".md=text/markdown", ".wasm=application/wasm"}, Opt.MimeTypes)
}
