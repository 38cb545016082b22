package ccver

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFormat(t *testing.T) {
	release := NewVersion(1, 2, 3)
	pre := NewVersion(0, 1, 1).WithPre("alpha", 2)
	withBuild := NewVersion(1, 0, 0).WithBuild("9ae6ba2f")

	t.Run("Default template", func(t *testing.T) {
		require.Equal(t, "v1.2.3", Format(release, FormatOptions{}))
		require.Equal(t, "v0.1.1-alpha.2", Format(pre, FormatOptions{}))
		require.Equal(t, "v1.0.0+9ae6ba2f", Format(withBuild, FormatOptions{}))
	})

	t.Run("Stranded separators collapse", func(t *testing.T) {
		opts := FormatOptions{Template: "v{major}.{minor}.{patch}-{prerelease}+{build}"}
		require.Equal(t, "v1.2.3", Format(release, opts))

		both := NewVersion(0, 1, 0).WithPre("rc", 1).WithBuild("abc123")
		require.Equal(t, "v0.1.0-rc.1+abc123", Format(both, opts))
	})

	t.Run("Compact form", func(t *testing.T) {
		require.Equal(t, "1.2.3", Format(release, FormatOptions{Template: "CC.CC.CC"}))
		require.Equal(t, "1.2.3", Format(release, FormatOptions{Template: "cc.cc.cc"}))
		require.Equal(t, "release-1.2.3", Format(release, FormatOptions{Template: "release-CC.CC.CC"}))
	})

	t.Run("NoPre strips suffixes", func(t *testing.T) {
		opts := FormatOptions{NoPre: true}
		require.Equal(t, "v0.1.1", Format(pre, opts))
		require.Equal(t, "v1.0.0", Format(withBuild, opts))
	})

	t.Run("Custom token order", func(t *testing.T) {
		opts := FormatOptions{Template: "{prerelease} {major}/{minor}"}
		require.Equal(t, "alpha.2 0/1", Format(pre, opts))
	})
}
