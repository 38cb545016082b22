// Package ccver computes semantic versions for every commit in a git
// repository by interpreting the commit history as a DAG and applying
// Conventional Commits semantics on top of it.
package ccver

import (
	"time"
)

// RefKind classifies a decoration attached to a commit.
type RefKind int

const (
	// RefBranch is a local branch name.
	RefBranch RefKind = iota
	// RefRemoteBranch is a remote-tracking branch name (e.g. origin/main).
	RefRemoteBranch
	// RefTag is a tag name.
	RefTag
	// RefHead marks the commit HEAD points at, possibly detached.
	RefHead
)

// Ref is a single decoration from git's %D field.
type Ref struct {
	Kind RefKind
	Name string
}

// RawCommit is one record from the git log stream, before any semantic
// interpretation.
type RawCommit struct {
	Hash      string
	Parents   []string
	Timestamp time.Time
	Author    string
	Source    string
	Refs      []Ref
	Subject   string
	Body      string
}

// IsRoot reports whether the commit has no parents.
func (c *RawCommit) IsRoot() bool { return len(c.Parents) == 0 }

// IsMerge reports whether the commit has more than one parent.
func (c *RawCommit) IsMerge() bool { return len(c.Parents) > 1 }

// ShortHash returns the abbreviated commit hash.
func (c *RawCommit) ShortHash() string {
	if len(c.Hash) < 8 {
		return c.Hash
	}
	return c.Hash[:8]
}

// CommitSemantics is the parsed meaning of a commit message. It is a closed
// set: Conventional, Merge or Unconventional.
type CommitSemantics interface {
	semantics()
}

// Conventional is a commit whose subject matches type(scope)?!?: description.
type Conventional struct {
	Kind        string
	Scope       string
	Breaking    bool
	Description string
	Footers     map[string]string
}

// Merge is a commit created by merging one branch into another, recognised
// from git's default "Merge branch 'X'" subjects.
type Merge struct {
	FromBranch string
	IntoBranch string
}

// Unconventional is any subject the grammar does not accept. It is valid
// input, never an error.
type Unconventional struct {
	Text string
}

func (Conventional) semantics()   {}
func (Merge) semantics()          {}
func (Unconventional) semantics() {}

// Commit kinds with version-bumping significance. The kind set is open;
// anything not listed here inherits its parent's release core.
const (
	KindFeat = "feat"
	KindFix  = "fix"
	KindPerf = "perf"
)
