package ccver

import (
	"fmt"
	"os/exec"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/storage/filesystem"
)

// OpenRepository opens a Git repository at the specified path.
func OpenRepository(path string) (*git.Repository, error) {
	return git.PlainOpenWithOptions(path, &git.PlainOpenOptions{
		DetectDotGit:          true,
		EnableDotGitCommonDir: true,
	})
}

// readLog spawns git and consumes its whole stdout before returning. The
// child process is the engine's only blocking dependency.
func readLog(path string) (string, error) {
	cmd := exec.Command("git", GitFormatArgs()...)
	cmd.Dir = path
	output, err := cmd.Output()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return "", &IOError{
				Op:  "git log",
				Err: fmt.Errorf("%w: %s", err, strings.TrimSpace(string(exitErr.Stderr))),
			}
		}
		return "", &IOError{Op: "git log", Err: err}
	}
	return string(output), nil
}

// resolveHead returns the hash HEAD points at. The log carries a HEAD
// decoration for the same commit; rev-parse also covers detached HEADs in
// repositories where no decoration survives.
func resolveHead(path string) (string, error) {
	cmd := exec.Command("git", "rev-parse", "HEAD")
	cmd.Dir = path
	output, err := cmd.Output()
	if err != nil {
		return "", &IOError{Op: "git rev-parse HEAD", Err: err}
	}
	return strings.TrimSpace(string(output)), nil
}

// CreateTag writes an annotated tag at HEAD. The engine itself never
// mutates the repository; tagging is a thin wrapper over its output.
func CreateTag(path, name, message string) error {
	cmd := exec.Command("git", "tag", "-a", name, "-m", message)
	cmd.Dir = path
	if output, err := cmd.CombinedOutput(); err != nil {
		return &IOError{
			Op:  "git tag",
			Err: fmt.Errorf("%w: %s", err, strings.TrimSpace(string(output))),
		}
	}
	return nil
}

// workTreeIsDirty reports uncommitted changes in the repository.
func workTreeIsDirty(repo *git.Repository) (bool, error) {
	workTree, err := repo.Worktree()
	if err != nil {
		return false, fmt.Errorf("getting worktree: %w", err)
	}

	// Fast path for filesystem storage
	if _, ok := repo.Storer.(*filesystem.Storage); ok {
		return checkDirtyWithGitCommand(workTree.Filesystem.Root())
	}

	// Fallback to go-git status check
	status, err := workTree.Status()
	if err != nil {
		return false, fmt.Errorf("getting git status: %w", err)
	}

	return !status.IsClean(), nil
}

func checkDirtyWithGitCommand(repoPath string) (bool, error) {
	// Refresh index first
	cmd := exec.Command("git", "update-index", "-q", "--refresh")
	cmd.Dir = repoPath
	if err := cmd.Run(); err != nil {
		// If update-index fails, assume dirty
		return true, nil
	}

	cmd = exec.Command("git", "status", "--porcelain")
	cmd.Dir = repoPath
	output, err := cmd.Output()
	if err != nil {
		if _, ok := err.(*exec.ExitError); ok {
			return true, nil
		}
		return false, err
	}

	return len(output) > 0, nil
}
