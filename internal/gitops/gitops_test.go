package gitops

import (
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testAuthor = Author{Name: "Test Author", Email: "test@example.com"}

func requireGit(t *testing.T) {
	t.Helper()
	if !Available() {
		t.Skip("git not installed")
	}
}

func gitLog(t *testing.T, dir, format string) string {
	t.Helper()
	cmd := exec.Command("git", "log", "--format="+format, "-1")
	cmd.Dir = dir
	out, err := cmd.Output()
	require.NoError(t, err)
	return string(out)
}

func TestInitAndIsRepo(t *testing.T) {
	requireGit(t)
	dir := t.TempDir()
	assert.False(t, IsRepo(dir))

	require.NoError(t, Init(dir))
	assert.True(t, IsRepo(dir))
}

func TestCommitAll(t *testing.T) {
	requireGit(t)
	dir := t.TempDir()
	require.NoError(t, Init(dir))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ledgerbook.yaml"), []byte("business:\n  name: Acme\n"), 0o644))

	dirty, err := Dirty(dir)
	require.NoError(t, err)
	assert.True(t, dirty)

	hash, err := CommitAll(dir, "init: Acme", testAuthor)
	require.NoError(t, err)
	assert.NotEmpty(t, hash)
	assert.Contains(t, gitLog(t, dir, "%s"), "init: Acme")
	assert.Contains(t, gitLog(t, dir, "%an <%ae>"), "Test Author <test@example.com>")

	hash, err = CommitAll(dir, "nothing", testAuthor)
	require.NoError(t, err)
	assert.Empty(t, hash, "clean tree makes no commit")
}

func TestRecorder(t *testing.T) {
	requireGit(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.csv"), []byte("x"), 0o644))

	rec := Recorder{Dir: dir, Author: testAuthor, Enabled: true, Logger: slog.Default()}
	hash, err := rec.Record("post: SAL-2025-01-001")
	require.NoError(t, err)
	assert.Empty(t, hash, "not a repository")

	require.NoError(t, Init(dir))
	rec.Enabled = false
	hash, err = rec.Record("post: SAL-2025-01-001")
	require.NoError(t, err)
	assert.Empty(t, hash, "disabled")

	rec.Enabled = true
	hash, err = rec.Record("post: SAL-2025-01-001")
	require.NoError(t, err)
	assert.NotEmpty(t, hash)
	assert.Contains(t, gitLog(t, dir, "%s"), "post: SAL-2025-01-001")
}

func TestAuthorString(t *testing.T) {
	assert.Equal(t, "Test Author <test@example.com>", testAuthor.String())
}
