package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBootCmdPrintsRootEntries(t *testing.T) {
	var runErr error
	out := captureStdout(t, func() {
		runErr = bootCmd.RunE(bootCmd, nil)
	})
	require.NoError(t, runErr)
	assert.Contains(t, out, "booted:")
	assert.Contains(t, out, "/dev")
}

func TestBootCmdRejectsArgs(t *testing.T) {
	assert.Error(t, bootCmd.Args(bootCmd, []string{"extra"}))
	assert.NoError(t, bootCmd.Args(bootCmd, nil))
}

func TestLsCmdListsDev(t *testing.T) {
	var runErr error
	out := captureStdout(t, func() {
		runErr = lsCmd.RunE(lsCmd, []string{"/dev"})
	})
	require.NoError(t, runErr)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Contains(t, lines, "console")
	assert.Contains(t, lines, "null")
	assert.Contains(t, lines, "zero")
}

func TestLsCmdUnknownPathErrors(t *testing.T) {
	err := lsCmd.RunE(lsCmd, []string{"/nope"})
	assert.Error(t, err)
}
