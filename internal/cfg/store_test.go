package cfg

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/mrboxik/autostarter/internal/pathutil"
	"github.com/mrboxik/autostarter/internal/sysenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const selfPath = "/opt/autostarter/AutoStarter"

func newTestStore(t *testing.T) *Store {
	t.Helper()

	resolver := pathutil.NewResolver(sysenv.Env{
		GOOS:    "linux",
		Process: sysenv.Process{Executable: selfPath},
		Getwd:   func() (string, error) { return "/home/user", nil },
	})
	s, err := NewStore(filepath.Join(t.TempDir(), ConfigFileName), resolver)
	require.NoError(t, err)
	return s
}

func TestStoreLoad(t *testing.T) {
	t.Parallel()

	t.Run("missing file yields empty list", func(t *testing.T) {
		t.Parallel()
		s := newTestStore(t)

		items, err := s.Load()
		require.NoError(t, err)
		assert.Empty(t, items)
	})

	t.Run("invalid JSON yields empty list and CorruptError", func(t *testing.T) {
		t.Parallel()
		s := newTestStore(t)
		require.NoError(t, os.WriteFile(s.Path(), []byte("{not json"), 0644))

		items, err := s.Load()
		assert.Empty(t, items)
		var corrupt *CorruptError
		require.True(t, errors.As(err, &corrupt), "got %v, want *CorruptError", err)
		assert.Equal(t, s.Path(), corrupt.Path)
	})

	t.Run("non-array top level yields empty list", func(t *testing.T) {
		t.Parallel()
		s := newTestStore(t)
		require.NoError(t, os.WriteFile(s.Path(), []byte(`{"path": "/bin/a"}`), 0644))

		items, err := s.Load()
		require.NoError(t, err)
		assert.Empty(t, items)
	})

	t.Run("normalizes entries and drops invalid ones", func(t *testing.T) {
		t.Parallel()
		s := newTestStore(t)
		data := `[
			{"path": " \"/usr/bin/firefox\" ", "name": "Browser"},
			"apps/notes.txt",
			{"name": "no path"},
			{"path": 42},
			{"path": ""},
			null,
			7,
			["/nested"]
		]`
		require.NoError(t, os.WriteFile(s.Path(), []byte(data), 0644))

		items, err := s.Load()
		require.NoError(t, err)
		assert.Equal(t, []Item{
			{Path: "/usr/bin/firefox", Name: "Browser"},
			{Path: "/home/user/apps/notes.txt"},
		}, items)
	})
}

func TestStoreSave(t *testing.T) {
	t.Parallel()

	t.Run("round trip preserves order and drops empty and self paths", func(t *testing.T) {
		t.Parallel()
		s := newTestStore(t)

		in := []Item{
			{Path: "/apps/b"},
			{Path: ""},
			{Path: selfPath},
			{Path: "/elsewhere/autostarter"},
			{Path: "/apps/a", Name: "A"},
			{Path: "/apps/b"},
			{Path: "relative"},
		}
		require.NoError(t, s.Save(in))

		got, err := s.Load()
		require.NoError(t, err)
		assert.Equal(t, []Item{
			{Path: "/apps/b"},
			{Path: "/apps/a", Name: "A"},
			{Path: "/apps/b"},
			{Path: "/home/user/relative"},
		}, got)
	})

	t.Run("writes indented human-readable JSON", func(t *testing.T) {
		t.Parallel()
		s := newTestStore(t)

		require.NoError(t, s.Save([]Item{{Path: "/apps/a&b", Name: "Ä"}}))

		data, err := os.ReadFile(s.Path())
		require.NoError(t, err)
		assert.Equal(t, "[\n  {\n    \"path\": \"/apps/a&b\",\n    \"name\": \"Ä\"\n  }\n]\n", string(data))
	})

	t.Run("empty list is written as an empty array", func(t *testing.T) {
		t.Parallel()
		s := newTestStore(t)

		require.NoError(t, s.Save(nil))

		data, err := os.ReadFile(s.Path())
		require.NoError(t, err)
		assert.Equal(t, "[]\n", string(data))
	})

	t.Run("leaves no temporary files behind", func(t *testing.T) {
		t.Parallel()
		s := newTestStore(t)

		require.NoError(t, s.Save([]Item{{Path: "/apps/a"}}))
		require.NoError(t, s.Save([]Item{{Path: "/apps/a"}, {Path: "/apps/b"}}))

		entries, err := os.ReadDir(filepath.Dir(s.Path()))
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, ConfigFileName, entries[0].Name())
	})

	t.Run("interrupted save keeps previous config", func(t *testing.T) {
		t.Parallel()
		s := newTestStore(t)
		require.NoError(t, s.Save([]Item{{Path: "/apps/a"}}))

		// A save that died after writing its temp file but before the rename.
		tmp, err := os.CreateTemp(filepath.Dir(s.Path()), ConfigFileName+"*.tmp")
		require.NoError(t, err)
		_, err = tmp.WriteString(`[{"path": "/apps/half`)
		require.NoError(t, err)
		require.NoError(t, tmp.Close())

		got, err := s.Load()
		require.NoError(t, err)
		assert.Equal(t, []Item{{Path: "/apps/a"}}, got)
	})

	t.Run("failed replace reports error and removes temp file", func(t *testing.T) {
		t.Parallel()
		s := newTestStore(t)
		// A non-empty directory at the config path makes the rename fail.
		require.NoError(t, os.MkdirAll(filepath.Join(s.Path(), "blocker"), 0755))

		err := s.Save([]Item{{Path: "/apps/a"}})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "replace config file")

		entries, err := os.ReadDir(filepath.Dir(s.Path()))
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, ConfigFileName, entries[0].Name())
	})
}

func TestNewStore(t *testing.T) {
	t.Parallel()

	if _, err := NewStore("", nil); err == nil {
		t.Error("got nil, want error")
	}
	if _, err := NewStore("items.json", nil); err == nil {
		t.Error("got nil, want error")
	}
}
