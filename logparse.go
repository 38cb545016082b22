package ccver

import (
	"fmt"
	"strings"
	"time"
)

// The log stream uses unit separators between fields and a record separator
// between commits, so subjects and bodies can contain anything printable.
const (
	fieldSep  = "\x1f"
	recordSep = "\x1e"

	logFormat = "%H" + "%x1f" + "%P" + "%x1f" + "%aI" + "%x1f" + "%an" +
		"%x1f" + "%S" + "%x1f" + "%D" + "%x1f" + "%s" + "%x1f" + "%b" + "%x1e"
)

// GitFormatArgs are the arguments to `git` that produce the log stream
// ParseLog consumes. Exposed so users can capture compatible logs and feed
// them back through the raw-log mode. --source fills %S, the ref each
// commit was reached from, which is the only branch signal git records for
// commits that are no longer a branch tip.
func GitFormatArgs() []string {
	return []string{"log", "--all", "--full-history", "--source", "--format=" + logFormat}
}

// GitLogFormat returns just the --format value, for the git-format command.
func GitLogFormat() string { return logFormat }

// ParseLog turns a raw git log stream into commit records, newest first as
// git emits them. A malformed record, an unparseable timestamp or a
// duplicate hash is fatal.
func ParseLog(raw string) ([]RawCommit, error) {
	var commits []RawCommit
	seen := map[string]struct{}{}

	for i, record := range strings.Split(raw, recordSep) {
		record = strings.TrimLeft(record, "\n")
		if strings.TrimSpace(record) == "" {
			continue
		}

		fields := strings.Split(record, fieldSep)
		if len(fields) != 8 {
			return nil, &ParseError{
				Record: fmt.Sprintf("#%d", i),
				Reason: fmt.Sprintf("expected 8 fields, got %d", len(fields)),
			}
		}

		hash := strings.TrimSpace(fields[0])
		if hash == "" {
			return nil, &ParseError{Record: fmt.Sprintf("#%d", i), Reason: "empty commit hash"}
		}
		if _, dup := seen[hash]; dup {
			return nil, &ParseError{Record: hash, Reason: "duplicate commit hash"}
		}
		seen[hash] = struct{}{}

		timestamp, err := time.Parse(time.RFC3339, fields[2])
		if err != nil {
			return nil, &ParseError{Record: hash, Reason: fmt.Sprintf("bad timestamp %q", fields[2])}
		}

		commits = append(commits, RawCommit{
			Hash:      hash,
			Parents:   strings.Fields(fields[1]),
			Timestamp: timestamp.UTC(),
			Author:    fields[3],
			Source:    sourceBranch(fields[4]),
			Refs:      parseDecorations(fields[5]),
			Subject:   fields[6],
			Body:      strings.TrimRight(fields[7], "\n"),
		})
	}

	return commits, nil
}

// sourceBranch normalises git's %S value to a short branch name. Tag
// sources carry no branch identity and map to "".
func sourceBranch(source string) string {
	source = strings.TrimSpace(source)
	switch {
	case source == "", strings.HasPrefix(source, "refs/tags/"):
		return ""
	case strings.HasPrefix(source, "refs/heads/"):
		return strings.TrimPrefix(source, "refs/heads/")
	case strings.HasPrefix(source, "refs/remotes/"):
		rest := strings.TrimPrefix(source, "refs/remotes/")
		if _, short, ok := splitRemote(rest); ok {
			return short
		}
		return ""
	default:
		return source
	}
}

// parseDecorations splits git's %D field. Entries look like
// "HEAD -> main", "HEAD", "tag: v1.0.0", "origin/main" or "feature".
func parseDecorations(decorations string) []Ref {
	var refs []Ref
	for _, entry := range strings.Split(decorations, ",") {
		entry = strings.TrimSpace(entry)
		switch {
		case entry == "":
		case entry == "HEAD":
			refs = append(refs, Ref{Kind: RefHead, Name: "HEAD"})
		case strings.HasPrefix(entry, "HEAD -> "):
			refs = append(refs,
				Ref{Kind: RefHead, Name: "HEAD"},
				Ref{Kind: RefBranch, Name: strings.TrimPrefix(entry, "HEAD -> ")})
		case strings.HasPrefix(entry, "tag: "):
			refs = append(refs, Ref{Kind: RefTag, Name: strings.TrimPrefix(entry, "tag: ")})
		case strings.Contains(entry, "/"):
			refs = append(refs, Ref{Kind: RefRemoteBranch, Name: entry})
		default:
			refs = append(refs, Ref{Kind: RefBranch, Name: entry})
		}
	}
	return refs
}
