package cmd

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersionCommand(t *testing.T) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"version"})
	require.NoError(t, Execute())

	assert.Contains(t, buf.String(), "cronloopd")
	assert.Contains(t, buf.String(), rootCmd.Version)
}
