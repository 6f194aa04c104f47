package clean

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"devsweep/internal/project"
	"devsweep/internal/scan"
)

func candidateDir(t *testing.T, root, name string) scan.Candidate {
	t.Helper()
	dir := filepath.Join(root, name)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "sub"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sub", "f"), []byte("data"), 0o644))
	return scan.Candidate{Path: dir, Type: project.Node, Size: 4}
}

func TestRemoveDeletesRecursively(t *testing.T) {
	tmp := t.TempDir()
	a := candidateDir(t, tmp, "a")
	b := candidateDir(t, tmp, "b")

	res := Remove([]scan.Candidate{a, b}, false)

	assert.Len(t, res.Deleted, 2)
	assert.Empty(t, res.Failed)
	assert.Equal(t, int64(8), res.TotalFreed())
	assert.NoDirExists(t, a.Path)
	assert.NoDirExists(t, b.Path)
}

func TestRemoveDryRunTouchesNothing(t *testing.T) {
	tmp := t.TempDir()
	a := candidateDir(t, tmp, "a")

	res := Remove([]scan.Candidate{a}, true)

	assert.Len(t, res.Deleted, 1)
	assert.Equal(t, int64(4), res.TotalFreed())
	assert.DirExists(t, a.Path)
}

// An already-gone candidate is not a failure: RemoveAll treats a
// missing path as success, which suits a tool racing other cleanups.
func TestRemoveMissingPathSucceeds(t *testing.T) {
	tmp := t.TempDir()
	gone := scan.Candidate{Path: filepath.Join(tmp, "gone"), Type: project.Rust, Size: 1}

	res := Remove([]scan.Candidate{gone}, false)

	assert.Empty(t, res.Failed)
	assert.Len(t, res.Deleted, 1)
}

// A candidate that cannot be removed is reported and does not stop the
// remaining deletions.
func TestRemoveFailureIsolation(t *testing.T) {
	if os.Getuid() == 0 {
		t.Skip("running as root, permission bits are not enforced")
	}

	tmp := t.TempDir()
	locked := filepath.Join(tmp, "locked")
	require.NoError(t, os.MkdirAll(filepath.Join(locked, "cache"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(locked, "cache", "f"), []byte("x"), 0o644))
	require.NoError(t, os.Chmod(locked, 0o555))
	t.Cleanup(func() { _ = os.Chmod(locked, 0o755) })

	bad := scan.Candidate{Path: filepath.Join(locked, "cache"), Type: project.Rust, Size: 1}
	real := candidateDir(t, tmp, "real")

	res := Remove([]scan.Candidate{bad, real}, false)

	assert.Len(t, res.Failed, 1)
	assert.Equal(t, bad.Path, res.Failed[0].Candidate.Path)
	assert.Len(t, res.Deleted, 1)
	assert.NoDirExists(t, real.Path)
}
