package ccver

import (
	"regexp"
	"strconv"
)

// compactForm is the shorthand template CC.CC.CC, case-insensitive.
var compactForm = regexp.MustCompile(`(?i)CC\.CC\.CC`)

// formatToken matches a template token and at most one separator before it,
// so an empty substitution takes its stranded separator with it
// (v1.2.3-{prerelease} with no pre-release renders v1.2.3).
var formatToken = regexp.MustCompile(`([-+.]?)\{(major|minor|patch|prerelease|build)\}`)

// FormatOptions controls rendering of a Version.
type FormatOptions struct {
	// Template substitutes {major} {minor} {patch} {prerelease} {build}.
	// CC.CC.CC expands to {major}.{minor}.{patch}.
	Template string

	// NoPre strips pre-release and build metadata before rendering.
	NoPre bool
}

// Format renders a version through a template.
func Format(v Version, opts FormatOptions) string {
	template := opts.Template
	if template == "" {
		template = DefaultFormat
	}
	template = compactForm.ReplaceAllString(template, "{major}.{minor}.{patch}")

	if opts.NoPre {
		v = v.Core()
	}

	fields := map[string]string{
		"major":      strconv.FormatUint(v.Major(), 10),
		"minor":      strconv.FormatUint(v.Minor(), 10),
		"patch":      strconv.FormatUint(v.Patch(), 10),
		"prerelease": v.Prerelease(),
		"build":      v.Build(),
	}

	return formatToken.ReplaceAllStringFunc(template, func(token string) string {
		match := formatToken.FindStringSubmatch(token)
		value := fields[match[2]]
		if value == "" {
			return ""
		}
		return match[1] + value
	})
}
