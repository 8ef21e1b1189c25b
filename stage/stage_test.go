package stage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goasutlor/flexideploy/logstream"
)

func TestCleanConflicts(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			"single conflict block",
			"A\n<<<<<<< HEAD\nkeep\n=======\ndrop\n>>>>>>> branch\nB",
			"A\nkeep\nB",
		},
		{
			"no markers pass through",
			"plain\ncontent\n",
			"plain\ncontent\n",
		},
		{
			"two conflict blocks",
			"<<<<<<< HEAD\na\n=======\nb\n>>>>>>> x\nmid\n<<<<<<< HEAD\nc\n=======\nd\n>>>>>>> y",
			"a\nmid\nc",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CleanConflicts(tt.in)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCleanConflictsIsIdempotent(t *testing.T) {
	in := "A\n<<<<<<< HEAD\nkeep\n=======\ndrop\n>>>>>>> branch\nB"
	once := CleanConflicts(in)
	assert.Equal(t, once, CleanConflicts(once))
}

func TestStageCopiesAndCleans(t *testing.T) {
	src := t.TempDir()
	dest := t.TempDir()

	require.NoError(t, os.MkdirAll(filepath.Join(src, ".git"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(src, ".git", "HEAD"), []byte("ref"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(src, "app.py"),
		[]byte("A\n<<<<<<< HEAD\nkeep\n=======\ndrop\n>>>>>>> branch\nB"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(src, "data.bin"),
		[]byte("<<<<<<< HEAD untouched"), 0644))

	staged, err := Stage(src, dest, "demo", logstream.New())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dest, "demo"), staged)

	_, err = os.Stat(filepath.Join(staged, ".git"))
	assert.True(t, os.IsNotExist(err), "version control metadata must not be staged")

	cleaned, err := os.ReadFile(filepath.Join(staged, "app.py"))
	require.NoError(t, err)
	assert.Equal(t, "A\nkeep\nB", string(cleaned))

	// non text-like files are copied verbatim
	raw, err := os.ReadFile(filepath.Join(staged, "data.bin"))
	require.NoError(t, err)
	assert.Equal(t, "<<<<<<< HEAD untouched", string(raw))
}

func TestStageReplacesExistingDestination(t *testing.T) {
	src := t.TempDir()
	dest := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(src, "new.txt"), []byte("new"), 0644))

	stale := filepath.Join(dest, "demo")
	require.NoError(t, os.MkdirAll(stale, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(stale, "old.txt"), []byte("old"), 0644))

	_, err := Stage(src, dest, "demo", logstream.New())
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(stale, "old.txt"))
	assert.True(t, os.IsNotExist(err), "stale staged content must be removed")
	_, err = os.Stat(filepath.Join(stale, "new.txt"))
	assert.NoError(t, err)
}
