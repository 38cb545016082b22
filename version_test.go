package ccver

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseVersion(t *testing.T) {
	t.Run("Release versions", func(t *testing.T) {
		for _, s := range []string{"1.2.3", "v1.2.3", " v1.2.3 "} {
			v, ok := ParseVersion(s)
			require.True(t, ok, "input %q", s)
			require.Equal(t, uint64(1), v.Major())
			require.Equal(t, uint64(2), v.Minor())
			require.Equal(t, uint64(3), v.Patch())
			require.True(t, v.IsRelease())
		}
	})

	t.Run("Pre-release versions", func(t *testing.T) {
		v, ok := ParseVersion("v0.1.1-alpha.2")
		require.True(t, ok)
		require.Equal(t, "alpha", v.PreLabel())
		require.Equal(t, uint64(2), v.PreCounter())
		require.Equal(t, "alpha.2", v.Prerelease())
		require.False(t, v.IsRelease())
	})

	t.Run("Non-versions", func(t *testing.T) {
		for _, s := range []string{"", "release", "1.2", "v1", "one.two.three"} {
			_, ok := ParseVersion(s)
			require.False(t, ok, "input %q", s)
		}
	})
}

func TestVersionOrdering(t *testing.T) {
	parse := func(s string) Version {
		v, ok := ParseVersion(s)
		require.True(t, ok)
		return v
	}

	t.Run("Pre-release sorts below release", func(t *testing.T) {
		require.Negative(t, parse("1.0.0-rc.1").Compare(parse("1.0.0")))
		require.Positive(t, parse("1.0.1-alpha.1").Compare(parse("1.0.0")))
	})

	t.Run("Counters compare numerically", func(t *testing.T) {
		require.Negative(t, parse("1.0.0-alpha.2").Compare(parse("1.0.0-alpha.10")))
	})

	t.Run("MaxVersion picks highest by precedence", func(t *testing.T) {
		max := MaxVersion(parse("0.1.0"), parse("0.1.1-alpha.2"), parse("0.0.9"))
		require.Equal(t, "0.1.1-alpha.2", max.String())
	})
}

func TestVersionBumps(t *testing.T) {
	base, _ := ParseVersion("1.2.3-rc.4")

	t.Run("Bumps reset lower fields and drop pre-release", func(t *testing.T) {
		require.Equal(t, "2.0.0", base.BumpMajor().String())
		require.Equal(t, "1.3.0", base.BumpMinor().String())
		require.Equal(t, "1.2.4", base.BumpPatch().String())
	})

	t.Run("WithPre attaches label and counter", func(t *testing.T) {
		require.Equal(t, "1.2.3-alpha.1", base.WithPre("alpha", 1).String())
		require.Equal(t, "1.2.3", base.WithPre("", 7).String())
	})

	t.Run("Core strips pre-release and build", func(t *testing.T) {
		v, _ := ParseVersion("1.2.3-alpha.1+9ae6ba2f")
		require.Equal(t, "1.2.3", v.Core().String())
	})
}

func TestVersionFormatRoundTrip(t *testing.T) {
	opts := FormatOptions{Template: "v{major}.{minor}.{patch}-{prerelease}+{build}"}

	for _, s := range []string{"0.0.0", "1.2.3", "0.1.1-alpha.2", "2.0.0-rc.1", "0.1.0-ryans-fix.1"} {
		v, ok := ParseVersion(s)
		require.True(t, ok)

		formatted := Format(v, opts)
		parsed, ok := ParseVersion(formatted)
		require.True(t, ok, "formatted %q", formatted)
		require.True(t, parsed.Equal(v), "round trip %q -> %q", s, formatted)
	}
}
