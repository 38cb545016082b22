package ccver

// VersionMap assigns a version to every commit in a graph. Existing version
// tags are authoritative; everything else derives from parent versions,
// branch identity and commit semantics.
type VersionMap struct {
	versions map[string]Version
}

// NewVersionMap walks the graph in topological order, parents before
// children, and computes each commit's version.
func NewVersionMap(g *CommitGraph, cfg *Config) (*VersionMap, error) {
	m := &VersionMap{versions: make(map[string]Version, g.Len())}

	for _, hash := range g.TopoOrder() {
		node, _ := g.Get(hash)

		if node.Tagged != nil {
			m.checkTagAgainstParents(g, node)
			m.versions[hash] = *node.Tagged
			continue
		}

		if node.IsRoot() {
			m.versions[hash] = ZeroVersion()
			continue
		}

		parents := make([]Version, len(node.Parents))
		for i, parent := range node.Parents {
			parents[i] = m.versions[parent]
		}

		firstParent, _ := g.Get(node.Parents[0])
		m.versions[hash] = nextVersion(cfg, node.Semantics, node.Branch, node.IsMerge(),
			parents, m.versions[firstParent.Hash], firstParent.Branch)
	}

	return m, nil
}

// Get returns the version assigned to a commit. The map is total over the
// graph it was built from.
func (m *VersionMap) Get(hash string) (Version, bool) {
	v, ok := m.versions[hash]
	return v, ok
}

// A tag below its highest parent breaks monotonicity. The tag still wins,
// history is append-only, but it is worth a warning.
func (m *VersionMap) checkTagAgainstParents(g *CommitGraph, node *Node) {
	for _, parent := range node.Parents {
		if pv, ok := m.versions[parent]; ok && node.Tagged.Compare(pv) < 0 {
			logger.Warn("version tag is below a parent version",
				"commit", node.ShortHash(), "tag", node.Tagged, "parent", pv)
			return
		}
	}
}

// nextVersion derives a commit's version from its parents.
//
// The baseline is the highest parent version by SemVer precedence; the bump
// depends on semantics: breaking changes raise major, feat minor, fix and
// perf patch, every other conventional kind inherits the release core. A
// merge takes the baseline core directly, which both promotes along the
// chain (develop into staging gains rc, staging into main drops the
// pre-release) and absorbs feature branches. Unconventional commits inherit
// the core and, on a release branch, fall to the build pre-release.
//
// The pre-release label comes from the commit's branch; the counter extends
// the first parent's run when core, label and branch all match.
func nextVersion(cfg *Config, sem CommitSemantics, branch string, isMerge bool,
	parents []Version, firstParent Version, firstParentBranch string) Version {

	base := MaxVersion(parents...)
	label := cfg.PreLabel(branch)

	var core Version
	switch s := sem.(type) {
	case Merge:
		core = base.Core()
	case Conventional:
		switch {
		case isMerge:
			core = base.Core()
		case s.Breaking:
			core = base.BumpMajor()
		case s.Kind == KindFeat:
			core = base.BumpMinor()
		case s.Kind == KindFix, s.Kind == KindPerf:
			core = base.BumpPatch()
		default:
			core = base.Core()
		}
	case Unconventional:
		core = base.Core()
		if !isMerge && label == "" {
			label = PreLabelBuild
		}
	}

	if label == "" {
		return core
	}

	counter := uint64(1)
	if firstParentBranch == branch &&
		firstParent.Core().Equal(core) &&
		firstParent.PreLabel() == label {
		counter = firstParent.PreCounter() + 1
	}

	return core.WithPre(label, counter)
}
