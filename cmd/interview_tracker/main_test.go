package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		resetConfirmed = false
		verifyEmail = ""
	})
	err := rootCmd.Execute()
	return out.String(), err
}

func TestCommandsRegistered(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"serve", "migrate", "verify-user"} {
		assert.True(t, names[want], want)
	}

	flag := serveCmd.Flags().Lookup("port")
	require.NotNil(t, flag)
	assert.Equal(t, "0", flag.DefValue)
}

func TestMigrateReset_RequiresConfirmation(t *testing.T) {
	_, err := execute(t, "migrate", "reset")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--yes")
}

func TestVerifyUser_RequiresEmail(t *testing.T) {
	_, err := execute(t, "verify-user")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "email")
}

func TestLoadConfig_RequiresDatabase(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	_, err := loadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL")
}
