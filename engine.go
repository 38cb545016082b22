package ccver

import "errors"

// ErrDirtyWorkTree is returned by CICheck when the working tree has
// uncommitted changes.
var ErrDirtyWorkTree = errors.New("working tree is dirty")

// Bump forces an extra release-core increment on top of HEAD's computed
// version.
type Bump int

const (
	BumpNone Bump = iota
	BumpMajor
	BumpMinor
	BumpPatch
)

// Engine owns one immutable snapshot of a repository's history: the commit
// graph and the version map built from it. Nothing is mutated after New
// returns; each invocation builds its own engine and drops it on exit.
type Engine struct {
	cfg   *Config
	graph *CommitGraph
	vmap  *VersionMap
	dirty bool
}

// New reads the repository at path and builds the engine. The git child
// process is owned for the duration of parsing and released on all paths.
func New(path string, cfg *Config) (*Engine, error) {
	if cfg == nil {
		var err error
		if cfg, err = LoadConfig(path); err != nil {
			return nil, err
		}
	}

	raw, err := readLog(path)
	if err != nil {
		return nil, err
	}

	head, err := resolveHead(path)
	if err != nil {
		return nil, err
	}

	repo, err := OpenRepository(path)
	if err != nil {
		return nil, &IOError{Op: "opening repository", Err: err}
	}
	dirty, err := workTreeIsDirty(repo)
	if err != nil {
		return nil, &IOError{Op: "checking worktree", Err: err}
	}

	return NewFromLog(raw, head, dirty, cfg)
}

// NewFromLog builds the engine from a pre-captured log stream, as produced
// by git with GitFormatArgs. headHash may be empty when the stream carries a
// HEAD decoration. This also backs the CLI's --raw mode.
func NewFromLog(raw, headHash string, dirty bool, cfg *Config) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	commits, err := ParseLog(raw)
	if err != nil {
		return nil, err
	}

	graph, err := NewCommitGraph(commits, headHash, cfg)
	if err != nil {
		return nil, err
	}

	vmap, err := NewVersionMap(graph, cfg)
	if err != nil {
		return nil, err
	}

	logger.Debug("engine built", "commits", graph.Len(), "head", graph.HeadNode().ShortHash())

	return &Engine{cfg: cfg, graph: graph, vmap: vmap, dirty: dirty}, nil
}

// Graph exposes the commit graph snapshot.
func (e *Engine) Graph() *CommitGraph { return e.graph }

// Config returns the configuration the engine was built with.
func (e *Engine) Config() *Config { return e.cfg }

// Dirty reports whether the working tree had uncommitted changes when the
// engine was built.
func (e *Engine) Dirty() bool { return e.dirty }

// VersionOf looks up the computed version for a commit hash.
func (e *Engine) VersionOf(hash string) (Version, bool) {
	return e.vmap.Get(hash)
}

// HeadVersion returns the version of HEAD. A dirty working tree demotes the
// result to a build pre-release: the state on disk is not the commit.
func (e *Engine) HeadVersion() Version {
	version, _ := e.vmap.Get(e.graph.Head())
	if e.dirty {
		version = e.bumpBuild(version)
	}
	return version
}

// ForcedHeadVersion applies an explicit bump to HEAD's computed version, on
// top of the bump its semantics chose. A forced bump returns a bare release
// core; any pre-release label is dropped.
func (e *Engine) ForcedHeadVersion(bump Bump) Version {
	version := e.HeadVersion()
	switch bump {
	case BumpMajor:
		return version.BumpMajor()
	case BumpMinor:
		return version.BumpMinor()
	case BumpPatch:
		return version.BumpPatch()
	default:
		return version
	}
}

// Peek computes the version a new commit with the given subject would
// receive on top of HEAD. The repository is not touched.
func (e *Engine) Peek(subject string) Version {
	head := e.graph.HeadNode()
	headVersion, _ := e.vmap.Get(head.Hash)

	sem := ParseMessage(subject, "")
	return nextVersion(e.cfg, sem, head.Branch, false,
		[]Version{headVersion}, headVersion, head.Branch)
}

// Changelog renders the Markdown changelog since the previous release tag.
func (e *Engine) Changelog() string {
	return Changelog(e.graph)
}

// CICheck fails when the working tree is dirty, for --ci gating.
func (e *Engine) CICheck() error {
	if e.dirty {
		return ErrDirtyWorkTree
	}
	return nil
}

// bumpBuild layers a build pre-release over a version, continuing the
// counter when the version already sits on one.
func (e *Engine) bumpBuild(v Version) Version {
	counter := uint64(1)
	if v.PreLabel() == PreLabelBuild {
		counter = v.PreCounter() + 1
	}
	return v.WithPre(PreLabelBuild, counter)
}
