package accounts

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tempStorePath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "kyuncli", "config.json")
}

func TestLoadMissingFile(t *testing.T) {
	store, err := Load(tempStorePath(t))
	require.NoError(t, err)

	assert.Equal(t, 0, store.Len())
	assert.Empty(t, store.ListAccounts())

	_, err = store.GetActive()
	assert.ErrorIs(t, err, ErrNoActiveAccount)
}

func TestLoadCorruptJSON(t *testing.T) {
	path := tempStorePath(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o700))
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	store, err := Load(path)
	assert.ErrorIs(t, err, ErrConfigCorrupt)
	assert.Nil(t, store)
}

func TestLoadRejectsInvariantViolations(t *testing.T) {
	tests := []struct {
		name string
		file string
	}{
		{
			name: "active hash not a stored account",
			file: `{"version":1,"accounts":{},"active_hash":"H1"}`,
		},
		{
			name: "key and value hash diverge",
			file: `{"version":1,"accounts":{"H1":{"hash":"H2","api_key":"k","user_id":"u"}}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := tempStorePath(t)
			require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o700))
			require.NoError(t, os.WriteFile(path, []byte(tt.file), 0o600))

			_, err := Load(path)
			assert.ErrorIs(t, err, ErrConfigCorrupt)
		})
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := tempStorePath(t)

	store, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, store.AddAccount("H1", "key1", "u1"))
	require.NoError(t, store.AddAccount("H2", "key2", "u2"))
	require.NoError(t, store.SetActive("H2"))

	reloaded, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, store.ListAccounts(), reloaded.ListAccounts())

	active, err := reloaded.GetActive()
	require.NoError(t, err)
	assert.Equal(t, "H2", active.Hash)
	assert.Equal(t, "key2", active.APIKey)
	assert.Equal(t, "u2", active.UserID)
}

func TestSaveFilePermissions(t *testing.T) {
	path := tempStorePath(t)

	store, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, store.AddAccount("H1", "key1", "u1"))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	dirInfo, err := os.Stat(filepath.Dir(path))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o700), dirInfo.Mode().Perm())
}

func TestFirstAddBecomesActive(t *testing.T) {
	store, err := Load(tempStorePath(t))
	require.NoError(t, err)

	require.NoError(t, store.AddAccount("H1", "key1", "u1"))

	active, err := store.GetActive()
	require.NoError(t, err)
	assert.Equal(t, "H1", active.Hash)

	// A second account does not steal the active selection.
	require.NoError(t, store.AddAccount("H2", "key2", "u2"))

	active, err = store.GetActive()
	require.NoError(t, err)
	assert.Equal(t, "H1", active.Hash)
}

func TestAddAccountReplacesCredentials(t *testing.T) {
	store, err := Load(tempStorePath(t))
	require.NoError(t, err)

	require.NoError(t, store.AddAccount("H1", "old-key", "u1"))
	require.NoError(t, store.AddAccount("H1", "new-key", "u1"))

	assert.Equal(t, 1, store.Len())
	active, err := store.GetActive()
	require.NoError(t, err)
	assert.Equal(t, "new-key", active.APIKey)
}

func TestSetActiveUnknownLeavesStoreUnmodified(t *testing.T) {
	path := tempStorePath(t)
	store, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, store.AddAccount("H1", "key1", "u1"))

	err = store.SetActive("NOPE")
	assert.ErrorIs(t, err, ErrUnknownAccount)

	active, err := store.GetActive()
	require.NoError(t, err)
	assert.Equal(t, "H1", active.Hash)

	reloaded, err := Load(path)
	require.NoError(t, err)
	active, err = reloaded.GetActive()
	require.NoError(t, err)
	assert.Equal(t, "H1", active.Hash)
}

func TestRemoveAccount(t *testing.T) {
	store, err := Load(tempStorePath(t))
	require.NoError(t, err)

	err = store.RemoveAccount("H1")
	assert.ErrorIs(t, err, ErrUnknownAccount)

	require.NoError(t, store.AddAccount("H1", "key1", "u1"))
	require.NoError(t, store.AddAccount("H2", "key2", "u2"))

	// Removing a non-active account leaves the selection alone.
	require.NoError(t, store.RemoveAccount("H2"))
	active, err := store.GetActive()
	require.NoError(t, err)
	assert.Equal(t, "H1", active.Hash)

	// Removing the active account clears the selection with no fallback.
	require.NoError(t, store.RemoveAccount("H1"))
	_, err = store.GetActive()
	assert.ErrorIs(t, err, ErrNoActiveAccount)
}

func TestSpecScenario(t *testing.T) {
	store, err := Load(tempStorePath(t))
	require.NoError(t, err)

	require.NoError(t, store.AddAccount("h1", "key1", "u1"))
	assert.Equal(t, 1, store.Len())
	active, err := store.GetActive()
	require.NoError(t, err)
	assert.Equal(t, "h1", active.Hash)

	require.NoError(t, store.AddAccount("h2", "key2", "u2"))
	assert.Equal(t, 2, store.Len())
	active, err = store.GetActive()
	require.NoError(t, err)
	assert.Equal(t, "h1", active.Hash)

	require.NoError(t, store.SetActive("h2"))
	active, err = store.GetActive()
	require.NoError(t, err)
	assert.Equal(t, "h2", active.Hash)

	require.NoError(t, store.RemoveAccount("h2"))
	assert.Equal(t, 1, store.Len())
	_, err = store.GetActive()
	assert.ErrorIs(t, err, ErrNoActiveAccount)
}

func TestActiveInvariantUnderMutationSequences(t *testing.T) {
	store, err := Load(tempStorePath(t))
	require.NoError(t, err)

	type op struct {
		kind string
		hash string
	}
	ops := []op{
		{"add", "A"}, {"add", "B"}, {"setActive", "B"}, {"remove", "A"},
		{"add", "C"}, {"remove", "B"}, {"setActive", "C"}, {"add", "A"},
		{"remove", "C"}, {"remove", "A"}, {"add", "B"},
	}

	checkInvariant := func() {
		accts := store.ListAccounts()
		activeCount := 0
		for _, a := range accts {
			if a.Active {
				activeCount++
			}
		}
		assert.LessOrEqual(t, activeCount, 1)

		active, err := store.GetActive()
		if err == nil {
			found := false
			for _, a := range accts {
				if a.Hash == active.Hash {
					found = true
				}
			}
			assert.True(t, found, "active hash must be a stored account")
		} else {
			assert.ErrorIs(t, err, ErrNoActiveAccount)
		}
		if store.Len() == 0 {
			assert.ErrorIs(t, err, ErrNoActiveAccount)
		}
	}

	for _, o := range ops {
		switch o.kind {
		case "add":
			require.NoError(t, store.AddAccount(o.hash, "key-"+o.hash, "user-"+o.hash))
		case "setActive":
			require.NoError(t, store.SetActive(o.hash))
		case "remove":
			require.NoError(t, store.RemoveAccount(o.hash))
		}
		checkInvariant()
	}
}

func TestListAccountsSortedByHash(t *testing.T) {
	store, err := Load(tempStorePath(t))
	require.NoError(t, err)

	for _, h := range []string{"Z9", "A1", "M5"} {
		require.NoError(t, store.AddAccount(h, "key", "user"))
	}

	accts := store.ListAccounts()
	require.Len(t, accts, 3)
	assert.Equal(t, "A1", accts[0].Hash)
	assert.Equal(t, "M5", accts[1].Hash)
	assert.Equal(t, "Z9", accts[2].Hash)
	assert.True(t, accts[2].Active, "first added account stays active")
	assert.False(t, accts[0].Active)
	assert.False(t, accts[1].Active)
}

func TestPersistedSchema(t *testing.T) {
	path := tempStorePath(t)
	store, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, store.AddAccount("H1", "key1", "u1"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var file map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &file))
	assert.Contains(t, file, "version")
	assert.Contains(t, file, "accounts")
	assert.Contains(t, file, "active_hash")
}
