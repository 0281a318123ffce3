package main

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/otukit/vclust/internal/config"
	"github.com/otukit/vclust/internal/registry"
)

func TestResolveThreads(t *testing.T) {
	orig := cfg
	defer func() { cfg = orig }()
	cfg = &config.Config{Threads: 8}

	assert.Equal(t, 8, resolveThreads(-1), "unset flag falls back to config")
	assert.Equal(t, 0, resolveThreads(0), "explicit 0 means one thread per core")
	assert.Equal(t, 4, resolveThreads(4))
}

func TestCommandsMatchRegisteredMethods(t *testing.T) {
	// every registered method must be implemented by a command with the
	// same name
	commands := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		commands[c.Name()] = true
	}
	for _, m := range registry.Methods() {
		assert.True(t, commands[m.Name], "missing command %s", m.Name)
	}
}
