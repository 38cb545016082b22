package ccver

import (
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config controls branch classification and output formatting.
type Config struct {
	// DefaultBranch is assigned to root commits carrying no branch ref.
	DefaultBranch string `koanf:"default_branch"`

	// Branches maps branch names onto release channels.
	Branches BranchConfig `koanf:"branches"`

	// Format is the default version template.
	Format string `koanf:"format"`
}

// BranchConfig lists the branches of each release channel. Branches in no
// list version under their own slugged name.
type BranchConfig struct {
	Release []string `koanf:"release"`
	RC      []string `koanf:"rc"`
	Alpha   []string `koanf:"alpha"`
}

// DefaultFormat is the template applied when neither the config file nor
// the --format flag overrides it.
const DefaultFormat = "v{major}.{minor}.{patch}-{prerelease}+{build}"

// ConfigFileName is looked up at the repository root.
const ConfigFileName = ".ccver.yaml"

// DefaultConfig returns the promotion chain develop -> staging -> main.
func DefaultConfig() *Config {
	return &Config{
		DefaultBranch: "main",
		Branches: BranchConfig{
			Release: []string{"main", "master"},
			RC:      []string{"staging"},
			Alpha:   []string{"develop", "dev"},
		},
		Format: DefaultFormat,
	}
}

// LoadConfig reads .ccver.yaml from the repository root, overlaying it on
// the defaults. A missing file is not an error.
func LoadConfig(repoPath string) (*Config, error) {
	cfg := DefaultConfig()

	path := filepath.Join(repoPath, ConfigFileName)
	if _, err := os.Stat(path); err != nil {
		return cfg, nil
	}

	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return nil, &IOError{Op: "loading " + ConfigFileName, Err: err}
	}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, &IOError{Op: "decoding " + ConfigFileName, Err: err}
	}

	return cfg, nil
}

// PreLabel returns the pre-release label a commit on the given branch
// receives: "" on a release branch, "rc"/"alpha" on the promotion chain,
// the slugged branch name elsewhere.
func (c *Config) PreLabel(branch string) string {
	switch {
	case slices.Contains(c.Branches.Release, branch):
		return ""
	case slices.Contains(c.Branches.RC, branch):
		return "rc"
	case slices.Contains(c.Branches.Alpha, branch):
		return "alpha"
	default:
		return SlugBranch(branch)
	}
}

// IsRelease reports whether the branch publishes bare release versions.
func (c *Config) IsRelease(branch string) bool {
	return slices.Contains(c.Branches.Release, branch)
}

var slugInvalid = regexp.MustCompile(`[^0-9A-Za-z-]+`)

// SlugBranch makes a branch name usable as a SemVer pre-release identifier:
// alphanumerics and hyphens only, no leading or trailing hyphen.
func SlugBranch(branch string) string {
	slug := slugInvalid.ReplaceAllString(branch, "-")
	slug = strings.Trim(slug, "-")
	if slug == "" {
		return "branch"
	}
	return slug
}
