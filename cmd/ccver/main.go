package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/RyanGuild/ccver"
	"github.com/alecthomas/kong"
)

const (
	exitOK    = 0
	exitError = 1
	exitDirty = 2
)

// Globals are shared by every subcommand.
type Globals struct {
	Path   string `short:"p" default:"." help:"Repository root"`
	Format string `short:"f" help:"Version template, e.g. 'v{major}.{minor}.{patch}-{prerelease}+{build}' or 'CC.CC.CC'"`
	NoPre  bool   `help:"Strip pre-release and build metadata"`
	CI     bool   `help:"Exit non-zero if the working tree is dirty"`
	Raw    bool   `short:"r" help:"Read a git log stream from stdin (capture with --format=\"$(ccver git-format)\")"`
}

type CLI struct {
	Globals

	Version   VersionCmd   `cmd:"" default:"withargs" help:"Print the version of HEAD"`
	Peek      PeekCmd      `cmd:"" help:"Print the version a new commit with the given subject would receive"`
	ChangeLog ChangeLogCmd `cmd:"" name:"change-log" help:"Print a Markdown changelog since the last release tag"`
	Tag       TagCmd       `cmd:"" help:"Create an annotated git tag at HEAD with the computed version"`
	Init      InitCmd      `cmd:"" help:"Scaffold a default .ccver.yaml in the repository"`
	Install   InstallCmd   `cmd:"" help:"Install the ccver post-commit hook"`
	GitFormat GitFormatCmd `cmd:"" name:"git-format" help:"Print the git log format string ccver consumes"`
}

func main() {
	var cli CLI

	ctx := kong.Parse(&cli,
		kong.Name("ccver"),
		kong.Description("Compute semantic versions from conventional commits and git history"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Bind(&cli.Globals),
	)

	if err := ctx.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if errors.Is(err, ccver.ErrDirtyWorkTree) {
			os.Exit(exitDirty)
		}
		os.Exit(exitError)
	}
	os.Exit(exitOK)
}

// buildEngine constructs the engine for the selected repository, or from a
// stdin log stream under --raw.
func buildEngine(g *Globals) (*ccver.Engine, error) {
	cfg, err := ccver.LoadConfig(g.Path)
	if err != nil {
		return nil, err
	}

	if g.Raw {
		raw, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("reading log from stdin: %w", err)
		}
		return ccver.NewFromLog(string(raw), "", false, cfg)
	}

	return ccver.New(g.Path, cfg)
}

func (g *Globals) render(v ccver.Version, cfg *ccver.Config) string {
	template := g.Format
	if template == "" {
		template = cfg.Format
	}
	return ccver.Format(v, ccver.FormatOptions{Template: template, NoPre: g.NoPre})
}

type VersionCmd struct {
	ForceMajor bool `help:"Force a major bump of HEAD's version"`
	ForceMinor bool `help:"Force a minor bump of HEAD's version"`
	ForcePatch bool `help:"Force a patch bump of HEAD's version"`
}

func (c *VersionCmd) Run(g *Globals) error {
	engine, err := buildEngine(g)
	if err != nil {
		return err
	}

	if g.CI {
		if err := engine.CICheck(); err != nil {
			return err
		}
	}

	version := engine.ForcedHeadVersion(c.bump())
	fmt.Println(g.render(version, engine.Config()))
	return nil
}

func (c *VersionCmd) bump() ccver.Bump {
	switch {
	case c.ForceMajor:
		return ccver.BumpMajor
	case c.ForceMinor:
		return ccver.BumpMinor
	case c.ForcePatch:
		return ccver.BumpPatch
	default:
		return ccver.BumpNone
	}
}

type PeekCmd struct {
	Message string `short:"m" required:"" help:"Commit subject line to evaluate"`
}

func (c *PeekCmd) Run(g *Globals) error {
	engine, err := buildEngine(g)
	if err != nil {
		return err
	}

	fmt.Println(g.render(engine.Peek(c.Message), engine.Config()))
	return nil
}

type ChangeLogCmd struct{}

func (c *ChangeLogCmd) Run(g *Globals) error {
	engine, err := buildEngine(g)
	if err != nil {
		return err
	}

	fmt.Print(engine.Changelog())
	return nil
}

type TagCmd struct{}

func (c *TagCmd) Run(g *Globals) error {
	engine, err := buildEngine(g)
	if err != nil {
		return err
	}

	if g.CI {
		if err := engine.CICheck(); err != nil {
			return err
		}
	}

	name := g.render(engine.HeadVersion(), engine.Config())
	if err := ccver.CreateTag(g.Path, name, "ccver release "+name); err != nil {
		return err
	}

	fmt.Println(name)
	return nil
}

type InitCmd struct{}

const configTemplate = `default_branch: main
branches:
  release: [main, master]
  rc: [staging]
  alpha: [develop, dev]
format: "v{major}.{minor}.{patch}-{prerelease}+{build}"
`

func (c *InitCmd) Run(g *Globals) error {
	// Prove the history parses before scaffolding anything.
	engine, err := buildEngine(g)
	if err != nil {
		return err
	}

	path := filepath.Join(g.Path, ccver.ConfigFileName)
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists", path)
	}
	if err := os.WriteFile(path, []byte(configTemplate), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}

	fmt.Printf("wrote %s (HEAD is %s)\n", path, g.render(engine.HeadVersion(), engine.Config()))
	return nil
}

type InstallCmd struct{}

const postCommitHook = `#!/bin/sh
# Installed by ccver. Prints the version of the commit just created.
ccver
`

func (c *InstallCmd) Run(g *Globals) error {
	hooksDir := filepath.Join(g.Path, ".git", "hooks")
	if info, err := os.Stat(hooksDir); err != nil || !info.IsDir() {
		return fmt.Errorf("no hooks directory at %s", hooksDir)
	}

	hookPath := filepath.Join(hooksDir, "post-commit")
	if err := os.WriteFile(hookPath, []byte(postCommitHook), 0o755); err != nil {
		return fmt.Errorf("writing hook: %w", err)
	}

	fmt.Printf("installed %s\n", hookPath)
	return nil
}

type GitFormatCmd struct{}

func (c *GitFormatCmd) Run(g *Globals) error {
	fmt.Println(ccver.GitLogFormat())
	return nil
}
