// Package history keeps an audit trail of a file-backed project by
// committing every change to the books into a git repository.
package history

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// Init initializes a new git repository at dir.
func Init(dir string) error {
	cmd := exec.Command("git", "init", "--quiet")
	cmd.Dir = dir
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("git init: %s: %w", out, err)
	}
	return nil
}

// IsRepo reports whether dir is the root of a git repository.
func IsRepo(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ".git"))
	return err == nil
}

// Recorder commits project changes under a fixed identity.
type Recorder struct {
	dir   string
	name  string
	email string
}

func NewRecorder(dir, name, email string) *Recorder {
	return &Recorder{dir: dir, name: name, email: email}
}

func (r *Recorder) git(args ...string) *exec.Cmd {
	cmd := exec.Command("git", args...)
	cmd.Dir = r.dir
	// Author and committer both come from the project config so commits
	// work without a global git identity.
	cmd.Env = append(os.Environ(),
		"GIT_AUTHOR_NAME="+r.name,
		"GIT_AUTHOR_EMAIL="+r.email,
		"GIT_COMMITTER_NAME="+r.name,
		"GIT_COMMITTER_EMAIL="+r.email,
	)
	return cmd
}

// Commit stages everything and commits it with message. It returns the
// short hash, or "" when the tree had no changes.
func (r *Recorder) Commit(message string) (string, error) {
	if out, err := r.git("add", "-A").CombinedOutput(); err != nil {
		return "", fmt.Errorf("git add: %s: %w", out, err)
	}

	status, err := r.git("status", "--porcelain").Output()
	if err != nil {
		return "", fmt.Errorf("git status: %w", err)
	}
	if len(strings.TrimSpace(string(status))) == 0 {
		return "", nil
	}

	if out, err := r.git("commit", "--quiet", "-m", message).CombinedOutput(); err != nil {
		return "", fmt.Errorf("git commit: %s: %w", out, err)
	}

	out, err := r.git("rev-parse", "--short", "HEAD").Output()
	if err != nil {
		return "", fmt.Errorf("git rev-parse: %w", err)
	}
	return strings.TrimSpace(string(out)), nil
}
