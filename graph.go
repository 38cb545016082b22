package ccver

import (
	"container/heap"
	"fmt"
	"sort"
)

// Node is a commit annotated with its parsed semantics, branch identity and
// any pre-existing version tag.
type Node struct {
	RawCommit
	Semantics CommitSemantics
	Branch    string
	Tagged    *Version
}

// CommitGraph is the DAG of commits keyed by hash. The graph is immutable
// once built; order holds a deterministic topological order with parents
// before children.
type CommitGraph struct {
	nodes map[string]*Node
	order []string
	head  string
}

// NewCommitGraph folds raw commits into an annotated DAG. The head hash is
// taken from the HEAD decoration when headHash is empty.
func NewCommitGraph(commits []RawCommit, headHash string, cfg *Config) (*CommitGraph, error) {
	if len(commits) == 0 {
		return nil, &GraphError{Reason: "no commits in log"}
	}

	g := &CommitGraph{nodes: make(map[string]*Node, len(commits))}

	for i := range commits {
		raw := commits[i]
		g.nodes[raw.Hash] = &Node{
			RawCommit: raw,
			Semantics: ParseMessage(raw.Subject, raw.Body),
		}
		if headHash == "" {
			for _, ref := range raw.Refs {
				if ref.Kind == RefHead {
					headHash = raw.Hash
				}
			}
		}
	}

	for _, node := range g.nodes {
		for _, parent := range node.Parents {
			if _, ok := g.nodes[parent]; !ok {
				return nil, &GraphError{
					Reason: fmt.Sprintf("commit %s references unknown parent %s", node.ShortHash(), parent),
				}
			}
		}
	}

	if headHash == "" {
		return nil, &GraphError{Reason: "no HEAD commit in log"}
	}
	if _, ok := g.nodes[headHash]; !ok {
		return nil, &GraphError{Reason: fmt.Sprintf("HEAD %s not present in log", headHash)}
	}
	g.head = headHash

	if err := g.sortTopological(); err != nil {
		return nil, err
	}

	g.assignBranches(cfg)
	g.recordTags()

	return g, nil
}

// Head returns the hash the graph was built around.
func (g *CommitGraph) Head() string { return g.head }

// HeadNode returns the node HEAD points at.
func (g *CommitGraph) HeadNode() *Node { return g.nodes[g.head] }

// Get looks up a node by hash.
func (g *CommitGraph) Get(hash string) (*Node, bool) {
	node, ok := g.nodes[hash]
	return node, ok
}

// Len returns the number of commits.
func (g *CommitGraph) Len() int { return len(g.nodes) }

// TopoOrder returns hashes with parents before children. The order is total:
// ties break by timestamp ascending, then hash.
func (g *CommitGraph) TopoOrder() []string { return g.order }

// commitHeap orders ready commits by (timestamp, hash) so the traversal is
// independent of map iteration order.
type commitHeap struct {
	hashes []string
	nodes  map[string]*Node
}

func (h *commitHeap) Len() int { return len(h.hashes) }
func (h *commitHeap) Less(i, j int) bool {
	a, b := h.nodes[h.hashes[i]], h.nodes[h.hashes[j]]
	if !a.Timestamp.Equal(b.Timestamp) {
		return a.Timestamp.Before(b.Timestamp)
	}
	return a.Hash < b.Hash
}
func (h *commitHeap) Swap(i, j int) { h.hashes[i], h.hashes[j] = h.hashes[j], h.hashes[i] }
func (h *commitHeap) Push(x any)    { h.hashes = append(h.hashes, x.(string)) }
func (h *commitHeap) Pop() any {
	last := h.hashes[len(h.hashes)-1]
	h.hashes = h.hashes[:len(h.hashes)-1]
	return last
}

func (g *CommitGraph) sortTopological() error {
	pending := make(map[string]int, len(g.nodes))
	children := make(map[string][]string, len(g.nodes))
	for hash, node := range g.nodes {
		pending[hash] = len(node.Parents)
		for _, parent := range node.Parents {
			children[parent] = append(children[parent], hash)
		}
	}

	ready := &commitHeap{nodes: g.nodes}
	for hash, n := range pending {
		if n == 0 {
			ready.hashes = append(ready.hashes, hash)
		}
	}
	heap.Init(ready)

	order := make([]string, 0, len(g.nodes))
	for ready.Len() > 0 {
		hash := heap.Pop(ready).(string)
		order = append(order, hash)
		for _, child := range children[hash] {
			pending[child]--
			if pending[child] == 0 {
				heap.Push(ready, child)
			}
		}
	}

	if len(order) != len(g.nodes) {
		return &GraphError{Reason: "cycle detected in commit history"}
	}

	g.order = order
	return nil
}

// assignBranches walks roots first so first-parent inheritance is always
// resolved. Tie-break order: the %S source ref, then an explicit branch ref
// (lexicographically first, local before remote), then the first parent's
// branch, then the configured default. Git does not record the authoring
// branch, so this is a heuristic: identical histories with different ref
// layouts version differently.
func (g *CommitGraph) assignBranches(cfg *Config) {
	for _, hash := range g.order {
		node := g.nodes[hash]

		if node.Source != "" {
			node.Branch = node.Source
			continue
		}

		if name, ok := branchFromRefs(node.Refs); ok {
			node.Branch = name
			continue
		}

		if len(node.Parents) > 0 {
			node.Branch = g.nodes[node.Parents[0]].Branch
			continue
		}

		node.Branch = cfg.DefaultBranch
	}
}

func branchFromRefs(refs []Ref) (string, bool) {
	var local, remote []string
	for _, ref := range refs {
		switch ref.Kind {
		case RefBranch:
			local = append(local, ref.Name)
		case RefRemoteBranch:
			if _, short, ok := splitRemote(ref.Name); ok {
				remote = append(remote, short)
			}
		}
	}
	if len(local) > 0 {
		sort.Strings(local)
		return local[0], true
	}
	if len(remote) > 0 {
		sort.Strings(remote)
		return remote[0], true
	}
	return "", false
}

func splitRemote(name string) (remote, short string, ok bool) {
	for i, r := range name {
		if r == '/' {
			return name[:i], name[i+1:], i+1 < len(name)
		}
	}
	return "", "", false
}

// recordTags scans refs for names that parse as versions, with or without a
// leading "v". A tag that does not parse is silently ignored; when several
// version tags name one commit the highest wins.
func (g *CommitGraph) recordTags() {
	for _, node := range g.nodes {
		for _, ref := range node.Refs {
			if ref.Kind != RefTag {
				continue
			}
			version, ok := ParseVersion(ref.Name)
			if !ok {
				logger.Debug("ignoring non-version tag", "tag", ref.Name, "commit", node.ShortHash())
				continue
			}
			if node.Tagged == nil || version.Compare(*node.Tagged) > 0 {
				tagged := version
				node.Tagged = &tagged
			}
		}
	}
}

// Root returns the root used for version baselining. When several roots
// exist the earliest by timestamp (then hash) wins; the topological order
// necessarily starts with it.
func (g *CommitGraph) Root() *Node {
	return g.nodes[g.order[0]]
}
