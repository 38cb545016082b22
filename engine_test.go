package ccver

import (
	"os/exec"
	"testing"

	"github.com/stretchr/testify/require"
)

func promotionChainLog() *logBuilder {
	return newLogBuilder().
		add(logCommit{hash: "r00t", source: "main", subject: "initial commit"}).
		add(logCommit{hash: "d001", parents: []string{"r00t"}, source: "develop", subject: "feat: add X"}).
		add(logCommit{hash: "m001", parents: []string{"r00t", "d001"}, source: "main", subject: "Merge branch 'develop'"}).
		add(logCommit{hash: "d002", parents: []string{"d001"}, source: "develop", subject: "fix: conventional commit"}).
		add(logCommit{hash: "d003", parents: []string{"d002"}, source: "develop", refs: "HEAD -> develop", subject: "whooops"})
}

func TestEngineFromLog(t *testing.T) {
	t.Run("Head version", func(t *testing.T) {
		engine, err := NewFromLog(promotionChainLog().String(), "", false, nil)
		require.NoError(t, err)
		require.Equal(t, "0.1.1-alpha.2", engine.HeadVersion().String())
	})

	t.Run("Dirty working tree demotes HEAD to build", func(t *testing.T) {
		engine, err := NewFromLog(promotionChainLog().String(), "", true, nil)
		require.NoError(t, err)
		require.Equal(t, "0.1.1-alpha.2", mustVersion(t, engine, "d003").String())
		require.Equal(t, "0.1.1-build.1", engine.HeadVersion().String())
		require.ErrorIs(t, engine.CICheck(), ErrDirtyWorkTree)
	})

	t.Run("Clean tree passes CI check", func(t *testing.T) {
		engine, err := NewFromLog(promotionChainLog().String(), "", false, nil)
		require.NoError(t, err)
		require.NoError(t, engine.CICheck())
	})

	t.Run("Forced bumps override semantics", func(t *testing.T) {
		engine, err := NewFromLog(promotionChainLog().String(), "", false, nil)
		require.NoError(t, err)
		require.Equal(t, "1.0.0", engine.ForcedHeadVersion(BumpMajor).String())
		require.Equal(t, "0.2.0", engine.ForcedHeadVersion(BumpMinor).String())
		require.Equal(t, "0.1.2", engine.ForcedHeadVersion(BumpPatch).String())
		require.Equal(t, "0.1.1-alpha.2", engine.ForcedHeadVersion(BumpNone).String())
	})

	t.Run("Identical input produces identical output", func(t *testing.T) {
		first, err := NewFromLog(promotionChainLog().String(), "", false, nil)
		require.NoError(t, err)
		second, err := NewFromLog(promotionChainLog().String(), "", false, nil)
		require.NoError(t, err)

		require.Equal(t, first.HeadVersion().String(), second.HeadVersion().String())
		require.Equal(t, first.Changelog(), second.Changelog())
	})

	t.Run("Parse errors surface", func(t *testing.T) {
		_, err := NewFromLog("not a log stream"+recordSep, "", false, nil)
		var parseErr *ParseError
		require.ErrorAs(t, err, &parseErr)
	})
}

func mustVersion(t *testing.T, e *Engine, hash string) Version {
	t.Helper()
	v, ok := e.VersionOf(hash)
	require.True(t, ok)
	return v
}

func TestEnginePeek(t *testing.T) {
	engine, err := NewFromLog(promotionChainLog().String(), "", false, nil)
	require.NoError(t, err)

	t.Run("Peek applies the subject's bump on HEAD", func(t *testing.T) {
		require.Equal(t, "0.2.0-alpha.1", engine.Peek("feat: next thing").String())
		require.Equal(t, "0.1.2-alpha.1", engine.Peek("fix: next thing").String())
		require.Equal(t, "1.0.0-alpha.1", engine.Peek("feat!: next thing").String())
		require.Equal(t, "0.1.1-alpha.3", engine.Peek("another whooops").String())
		require.Equal(t, "0.1.1-alpha.3", engine.Peek("chore: tidy").String())
	})

	t.Run("Peek is idempotent", func(t *testing.T) {
		require.Equal(t, engine.Peek("feat: same").String(), engine.Peek("feat: same").String())
	})

	t.Run("Peek does not disturb computed versions", func(t *testing.T) {
		before := engine.HeadVersion().String()
		engine.Peek("feat!: scary")
		require.Equal(t, before, engine.HeadVersion().String())
	})
}

// End-to-end over a real repository, exercising the git subprocess path.
func TestEngineOnRepository(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git binary not available")
	}

	dir := t.TempDir()
	repo, err := testRepoFSCreate(dir)
	require.NoError(t, err)

	_, err = testRepoCommit(repo, "a.txt", "one", "initial commit")
	require.NoError(t, err)
	second, err := testRepoCommit(repo, "b.txt", "two", "feat: add b")
	require.NoError(t, err)

	engine, err := New(dir, nil)
	require.NoError(t, err)

	version, ok := engine.VersionOf(second.String())
	require.True(t, ok)
	require.Equal(t, "0.1.0", version.Core().String())

	t.Run("Not a repository", func(t *testing.T) {
		_, err := New(t.TempDir(), nil)
		require.Error(t, err)
	})
}
