package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sworrl/WanderMage-sub002/pkg/wanderapi"
)

func TestRootCommand_HasSubcommands(t *testing.T) {
	cmds := rootCmd.Commands()

	names := make(map[string]bool)
	for _, c := range cmds {
		names[c.Name()] = true
	}

	expected := []string{
		"login", "logout", "whoami",
		"trip", "poi", "scraper",
		"map", "mirror", "effects", "holiday",
		"dashboard", "serve",
	}
	for _, name := range expected {
		assert.True(t, names[name], "expected subcommand %q not found", name)
	}
}

func TestRootCommand_Metadata(t *testing.T) {
	assert.Equal(t, "wandermage", rootCmd.Use)
	assert.NotEmpty(t, rootCmd.Short)
	assert.NotEmpty(t, rootCmd.Long)
}

func TestTripCommand_HasSubcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range tripCmd.Commands() {
		names[c.Name()] = true
	}

	for _, name := range []string{"list", "show", "export", "suggest"} {
		assert.True(t, names[name], "trip should have subcommand %q", name)
	}
}

func TestScraperCommand_HasSubcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range scraperCmd.Commands() {
		names[c.Name()] = true
	}

	for _, name := range []string{"list", "status", "start", "stop", "watch"} {
		assert.True(t, names[name], "scraper should have subcommand %q", name)
	}
}

func TestMirrorCommand_HasSubcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range mirrorCmd.Commands() {
		names[c.Name()] = true
	}

	assert.True(t, names["sync"])
	assert.True(t, names["status"])
}

func TestServeCommand_Flags(t *testing.T) {
	flag := serveCmd.Flags().Lookup("port")
	require.NotNil(t, flag, "serve command should have --port flag")
	assert.Equal(t, "0", flag.DefValue)

	offline := serveCmd.Flags().Lookup("offline")
	require.NotNil(t, offline, "serve command should have --offline flag")
	assert.Equal(t, "false", offline.DefValue)
}

func TestOfflineFlags(t *testing.T) {
	// Every command that can read the mirror carries the same flag name.
	assert.NotNil(t, dashboardCmd.Flags().Lookup("offline"))
	assert.NotNil(t, mapRenderCmd.Flags().Lookup("offline"))
	assert.NotNil(t, tripSuggestCmd.Flags().Lookup("offline"))
	assert.NotNil(t, serveCmd.Flags().Lookup("offline"))
}

func TestPOINearCommand_Flags(t *testing.T) {
	for _, name := range []string{"address", "lat", "lon", "radius", "type", "limit"} {
		assert.NotNil(t, poiNearCmd.Flags().Lookup(name), "poi near should have --%s flag", name)
	}

	radius := poiNearCmd.Flags().Lookup("radius")
	require.NotNil(t, radius)
	assert.Equal(t, "50", radius.DefValue)
}

func TestCheckSession(t *testing.T) {
	assert.NoError(t, checkSession(nil))

	hint := checkSession(wanderapi.ErrUnauthorized)
	require.Error(t, hint)
	assert.Contains(t, hint.Error(), "wandermage login")

	passthrough := assert.AnError
	assert.Equal(t, passthrough, checkSession(passthrough))
}
