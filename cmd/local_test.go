package cmd

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})
	err := rootCmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestLocalCommands(t *testing.T) {
	store := filepath.Join(t.TempDir(), "shares.json")

	out, errOut, err := runCLI(t, "local", "issue", "obj-1", "viewer", "--path", store)
	require.NoError(t, err)
	assert.Contains(t, errOut, "not an access-control boundary")
	token := strings.TrimSpace(out)
	require.Len(t, token, 40)

	out, _, err = runCLI(t, "local", "issue", "obj-1", "viewer", "--path", store)
	require.NoError(t, err)
	assert.Equal(t, token, strings.TrimSpace(out))

	out, _, err = runCLI(t, "local", "accept", "obj-1", "editor", token, "--path", store)
	require.NoError(t, err)
	assert.Equal(t, "false", strings.TrimSpace(out))

	out, _, err = runCLI(t, "local", "accept", "obj-1", "viewer", token, "--path", store)
	require.NoError(t, err)
	assert.Equal(t, "true", strings.TrimSpace(out))

	out, _, err = runCLI(t, "local", "show", "obj-1", "--path", store)
	require.NoError(t, err)
	assert.Contains(t, out, `"accepted": [`)
	assert.Contains(t, out, token)

	_, _, err = runCLI(t, "local", "revoke", "obj-1", token, "--path", store)
	require.NoError(t, err)

	out, _, err = runCLI(t, "local", "show", "obj-1", "--path", store)
	require.NoError(t, err)
	assert.NotContains(t, out, token)

	_, _, err = runCLI(t, "local", "issue", "obj-1", "owner", "--path", store)
	assert.Error(t, err)
}

func TestTokenCommand(t *testing.T) {
	out, _, err := runCLI(t, "token", "--uid", "7", "--name", "alice")
	require.NoError(t, err)
	assert.Equal(t, 3, len(strings.Split(strings.TrimSpace(out), ".")), "expected a JWT")

	_, _, err = runCLI(t, "token", "--uid", "0")
	assert.Error(t, err)
}
