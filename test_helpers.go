package ccver

import (
	"strings"
	"time"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/cache"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/storage/filesystem"
	"github.com/go-git/go-git/v5/storage/memory"
)

var testSignature = &object.Signature{
	Name:  "test",
	Email: "test@example.com",
	When:  time.Now(),
}

// testRepoCreate creates a new in-memory git repository for testing
func testRepoCreate() (*git.Repository, error) {
	storage := memory.NewStorage()
	fs := memfs.New()
	return git.Init(storage, fs)
}

// testRepoFSCreate creates a new filesystem-based git repository for testing
func testRepoFSCreate(path string) (*git.Repository, error) {
	fs := osfs.New(path)
	storage := filesystem.NewStorage(fs, cache.NewObjectLRUDefault())
	return git.Init(storage, fs)
}

// testRepoCommit writes a file and commits it, returning the commit hash
func testRepoCommit(repo *git.Repository, filename, content, message string) (plumbing.Hash, error) {
	workTree, err := repo.Worktree()
	if err != nil {
		return plumbing.ZeroHash, err
	}

	if err := writeFile(workTree.Filesystem, filename, content); err != nil {
		return plumbing.ZeroHash, err
	}

	if _, err := workTree.Add(filename); err != nil {
		return plumbing.ZeroHash, err
	}

	return workTree.Commit(message, &git.CommitOptions{Author: testSignature})
}

// writeFile writes content to a file in the given filesystem
func writeFile(fs billy.Filesystem, filename, content string) error {
	file, err := fs.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	_, err = file.Write([]byte(content))
	return err
}

// logBuilder assembles a synthetic git log stream in the separator layout
// ParseLog consumes. Commits get strictly increasing timestamps in the
// order they are added.
type logBuilder struct {
	records []string
	clock   time.Time
}

func newLogBuilder() *logBuilder {
	return &logBuilder{
		clock: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

type logCommit struct {
	hash    string
	parents []string
	source  string
	refs    string
	subject string
	body    string
}

func (b *logBuilder) add(c logCommit) *logBuilder {
	b.clock = b.clock.Add(time.Minute)
	fields := []string{
		c.hash,
		strings.Join(c.parents, " "),
		b.clock.Format(time.RFC3339),
		"test",
		c.source,
		c.refs,
		c.subject,
		c.body,
	}
	b.records = append(b.records, strings.Join(fields, fieldSep)+recordSep)
	return b
}

func (b *logBuilder) String() string {
	// Newest first, as git emits them.
	var out strings.Builder
	for i := len(b.records) - 1; i >= 0; i-- {
		out.WriteString(b.records[i])
		out.WriteByte('\n')
	}
	return out.String()
}
