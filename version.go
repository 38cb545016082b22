package ccver

import (
	"strings"

	"github.com/blang/semver"
)

// Version is a semantic version assigned to a commit. It wraps
// blang/semver so precedence follows SemVer 2.0 field by field; the engine
// only ever constructs pre-releases of the shape label.counter.
type Version struct {
	sv semver.Version
}

// PreLabelBuild marks commits that advance no release core: unconventional
// commits on a release branch and dirty working trees.
const PreLabelBuild = "build"

// ZeroVersion is the baseline for a root commit with no version tag.
func ZeroVersion() Version {
	return Version{}
}

// NewVersion builds a release version with the given core.
func NewVersion(major, minor, patch uint64) Version {
	return Version{sv: semver.Version{Major: major, Minor: minor, Patch: patch}}
}

// ParseVersion parses a version string, tolerating a leading "v". The bool
// result is false when the string is not a semantic version; callers treat
// that as "no version", never as an error.
func ParseVersion(s string) (Version, bool) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "v")
	sv, err := semver.Parse(s)
	if err != nil {
		return Version{}, false
	}
	return Version{sv: sv}, true
}

// Major, Minor and Patch expose the release core.
func (v Version) Major() uint64 { return v.sv.Major }
func (v Version) Minor() uint64 { return v.sv.Minor }
func (v Version) Patch() uint64 { return v.sv.Patch }

// PreLabel returns the pre-release label, or "" for a release.
func (v Version) PreLabel() string {
	if len(v.sv.Pre) == 0 {
		return ""
	}
	return v.sv.Pre[0].String()
}

// PreCounter returns the trailing pre-release counter, or 0 for a release.
// A pre-release without a numeric counter counts as 1.
func (v Version) PreCounter() uint64 {
	if len(v.sv.Pre) == 0 {
		return 0
	}
	last := v.sv.Pre[len(v.sv.Pre)-1]
	if !last.IsNumeric() || len(v.sv.Pre) == 1 {
		return 1
	}
	return last.VersionNum
}

// Prerelease renders the full pre-release suffix, e.g. "alpha.2".
func (v Version) Prerelease() string {
	parts := make([]string, len(v.sv.Pre))
	for i, p := range v.sv.Pre {
		parts[i] = p.String()
	}
	return strings.Join(parts, ".")
}

// Build returns the build metadata, e.g. a short commit hash.
func (v Version) Build() string {
	return strings.Join(v.sv.Build, ".")
}

// Core strips pre-release and build metadata.
func (v Version) Core() Version {
	return NewVersion(v.sv.Major, v.sv.Minor, v.sv.Patch)
}

// IsRelease reports whether the version carries no pre-release suffix.
func (v Version) IsRelease() bool { return len(v.sv.Pre) == 0 }

// BumpMajor, BumpMinor and BumpPatch return the incremented release core.
func (v Version) BumpMajor() Version { return NewVersion(v.sv.Major+1, 0, 0) }
func (v Version) BumpMinor() Version { return NewVersion(v.sv.Major, v.sv.Minor+1, 0) }
func (v Version) BumpPatch() Version { return NewVersion(v.sv.Major, v.sv.Minor, v.sv.Patch+1) }

// WithPre attaches a label.counter pre-release suffix to the release core.
// An empty label returns the bare core.
func (v Version) WithPre(label string, counter uint64) Version {
	core := v.Core()
	if label == "" {
		return core
	}
	core.sv.Pre = []semver.PRVersion{
		{VersionStr: label},
		{VersionNum: counter, IsNum: true},
	}
	return core
}

// WithBuild attaches build metadata.
func (v Version) WithBuild(build string) Version {
	if build == "" {
		return v
	}
	v.sv.Build = []string{build}
	return v
}

// Compare follows SemVer 2.0 precedence. Build metadata is ignored.
func (v Version) Compare(o Version) int {
	return v.sv.Compare(o.sv)
}

// Equal reports identity including pre-release fields.
func (v Version) Equal(o Version) bool {
	return v.Compare(o) == 0
}

// String renders the canonical form without a "v" prefix, e.g.
// "0.1.1-alpha.2" or "1.2.3+9ae6ba2f".
func (v Version) String() string {
	return v.sv.String()
}

// MaxVersion returns the highest of the given versions by SemVer precedence.
// Ties prefer the earliest argument, which keeps parent order significant.
func MaxVersion(versions ...Version) Version {
	if len(versions) == 0 {
		return ZeroVersion()
	}
	max := versions[0]
	for _, v := range versions[1:] {
		if v.Compare(max) > 0 {
			max = v
		}
	}
	return max
}
