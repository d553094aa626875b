// Package gitops keeps the book directory under version control. Every
// change to the book can be committed so history stays auditable.
package gitops

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// ErrGitMissing is returned when the git binary is not on PATH.
var ErrGitMissing = errors.New("git not found on PATH")

// Author identifies who commits book changes.
type Author struct {
	Name  string
	Email string
}

func (a Author) String() string {
	return fmt.Sprintf("%s <%s>", a.Name, a.Email)
}

// Available reports whether git can be run.
func Available() bool {
	_, err := exec.LookPath("git")
	return err == nil
}

func run(dir string, args ...string) ([]byte, error) {
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	if err != nil {
		return out, fmt.Errorf("git %s: %s: %w", args[0], strings.TrimSpace(string(out)), err)
	}
	return out, nil
}

// Init initializes a new git repository at dir.
func Init(dir string) error {
	if !Available() {
		return ErrGitMissing
	}
	_, err := run(dir, "init", "--quiet")
	return err
}

// IsRepo reports whether dir is the root of a git repository.
func IsRepo(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ".git"))
	return err == nil
}

// Dirty reports whether the work tree has uncommitted changes.
func Dirty(dir string) (bool, error) {
	out, err := run(dir, "status", "--porcelain")
	if err != nil {
		return false, err
	}
	return len(strings.TrimSpace(string(out))) > 0, nil
}

// CommitAll stages all files and creates a commit, returning the short
// hash. A clean tree commits nothing and returns "".
func CommitAll(dir, message string, author Author) (string, error) {
	if _, err := run(dir, "add", "-A"); err != nil {
		return "", err
	}
	dirty, err := Dirty(dir)
	if err != nil {
		return "", err
	}
	if !dirty {
		return "", nil
	}

	// Identity flags so commits work on machines with no git config.
	if _, err := run(dir,
		"-c", "user.name="+author.Name,
		"-c", "user.email="+author.Email,
		"commit", "--quiet", "-m", message, "--author", author.String(),
	); err != nil {
		return "", err
	}

	out, err := run(dir, "rev-parse", "--short", "HEAD")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

// Recorder commits book changes after each write when enabled.
type Recorder struct {
	Dir     string
	Author  Author
	Enabled bool
	Logger  *slog.Logger
}

// Record commits pending changes with message. It does nothing when the
// recorder is disabled, the directory is not a repository or git is not
// installed.
func (r Recorder) Record(message string) (string, error) {
	if !r.Enabled || !IsRepo(r.Dir) || !Available() {
		return "", nil
	}
	hash, err := CommitAll(r.Dir, message, r.Author)
	if err != nil {
		return "", err
	}
	if hash != "" && r.Logger != nil {
		r.Logger.Debug("committed book change", "hash", hash, "message", message)
	}
	return hash, nil
}
