package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/RyanGuild/ccver"
	"github.com/stretchr/testify/require"
)

func TestVersionCmdBump(t *testing.T) {
	require.Equal(t, ccver.BumpNone, (&VersionCmd{}).bump())
	require.Equal(t, ccver.BumpMajor, (&VersionCmd{ForceMajor: true}).bump())
	require.Equal(t, ccver.BumpMinor, (&VersionCmd{ForceMinor: true}).bump())
	require.Equal(t, ccver.BumpPatch, (&VersionCmd{ForcePatch: true}).bump())
	// Major wins when several are set.
	require.Equal(t, ccver.BumpMajor, (&VersionCmd{ForceMajor: true, ForcePatch: true}).bump())
}

func TestGlobalsRender(t *testing.T) {
	version, ok := ccver.ParseVersion("0.1.1-alpha.2")
	require.True(t, ok)
	cfg := ccver.DefaultConfig()

	t.Run("Config format by default", func(t *testing.T) {
		g := &Globals{}
		require.Equal(t, "v0.1.1-alpha.2", g.render(version, cfg))
	})

	t.Run("Flag overrides config", func(t *testing.T) {
		g := &Globals{Format: "CC.CC.CC"}
		require.Equal(t, "0.1.1", g.render(version, cfg))
	})

	t.Run("NoPre strips the suffix", func(t *testing.T) {
		g := &Globals{NoPre: true}
		require.Equal(t, "v0.1.1", g.render(version, cfg))
	})
}

func TestConfigTemplateMatchesDefaults(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ccver.ConfigFileName), []byte(configTemplate), 0o644))

	cfg, err := ccver.LoadConfig(dir)
	require.NoError(t, err)
	require.Equal(t, ccver.DefaultConfig(), cfg)
}
