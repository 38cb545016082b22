package ccver

import (
	"fmt"
	"sort"
	"strings"
)

// changeEntry is one changelog line, kept with its commit metadata so
// sections stay in a stable reverse-chronological order.
type changeEntry struct {
	node *Node
}

func (e changeEntry) String() string {
	date := e.node.Timestamp.Format("2006-01-02")
	switch s := e.node.Semantics.(type) {
	case Conventional:
		if s.Scope != "" {
			return fmt.Sprintf("- (%s) **%s**: %s", date, s.Scope, s.Description)
		}
		return fmt.Sprintf("- (%s) %s", date, s.Description)
	case Unconventional:
		return fmt.Sprintf("- (%s) %s", date, s.Text)
	default:
		return fmt.Sprintf("- (%s) %s", date, e.node.Subject)
	}
}

// Changelog renders a Markdown changelog of everything between HEAD and the
// previous release tag, grouped by kind: breaking changes first, then
// features, fixes, performance, the remaining kinds, and finally
// unconventional commits under Misc.
func Changelog(g *CommitGraph) string {
	entries := collectSinceLastRelease(g)

	var breaking, features, fixes, perf, misc []changeEntry
	byKind := map[string][]changeEntry{}

	for _, entry := range entries {
		switch s := entry.node.Semantics.(type) {
		case Conventional:
			switch {
			case s.Breaking:
				breaking = append(breaking, entry)
			case s.Kind == KindFeat:
				features = append(features, entry)
			case s.Kind == KindFix:
				fixes = append(fixes, entry)
			case s.Kind == KindPerf:
				perf = append(perf, entry)
			default:
				byKind[s.Kind] = append(byKind[s.Kind], entry)
			}
		case Unconventional:
			misc = append(misc, entry)
		}
	}

	var b strings.Builder
	b.WriteString("# Changelog\n")

	writeSection(&b, "Breaking Changes", breaking)
	writeSection(&b, "Features", features)
	writeSection(&b, "Fixes", fixes)
	writeSection(&b, "Performance", perf)

	kinds := make([]string, 0, len(byKind))
	for kind := range byKind {
		kinds = append(kinds, kind)
	}
	sort.Strings(kinds)
	for _, kind := range kinds {
		writeSection(&b, strings.ToUpper(kind[:1])+kind[1:], byKind[kind])
	}

	writeSection(&b, "Misc", misc)

	return b.String()
}

func writeSection(b *strings.Builder, title string, entries []changeEntry) {
	if len(entries) == 0 {
		return
	}
	fmt.Fprintf(b, "\n## %s\n\n", title)
	for _, entry := range entries {
		b.WriteString(entry.String())
		b.WriteByte('\n')
	}
}

// collectSinceLastRelease walks ancestors of HEAD, newest first, stopping at
// commits that carry a release tag. Merge commits are topology, not
// changes, and are skipped.
func collectSinceLastRelease(g *CommitGraph) []changeEntry {
	var entries []changeEntry
	seen := map[string]bool{}
	stack := []string{g.Head()}

	for len(stack) > 0 {
		hash := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if seen[hash] {
			continue
		}
		seen[hash] = true

		node, _ := g.Get(hash)
		if node.Tagged != nil && node.Tagged.IsRelease() && hash != g.Head() {
			continue
		}
		if _, isMerge := node.Semantics.(Merge); !isMerge {
			entries = append(entries, changeEntry{node: node})
		}
		stack = append(stack, node.Parents...)
	}

	// Newest first, deterministic.
	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i].node, entries[j].node
		if !a.Timestamp.Equal(b.Timestamp) {
			return a.Timestamp.After(b.Timestamp)
		}
		return a.Hash < b.Hash
	})

	return entries
}
