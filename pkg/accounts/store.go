// Package accounts implements the local multi-account credential store.
// Accounts are keyed by the opaque account hash assigned by the service,
// with at most one account marked active; the active account's API key is
// what authenticates every outgoing request. State is persisted as a small
// versioned JSON file under the user's config directory.
package accounts

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"

	"github.com/pkg/errors"
)

var (
	// ErrConfigCorrupt indicates the persisted account file exists but cannot
	// be parsed or violates its own invariants. It is surfaced as-is: silently
	// discarding stored API keys would be a data-loss surprise.
	ErrConfigCorrupt = errors.New("account config is corrupt")

	// ErrUnknownAccount indicates an operation referenced an account hash
	// that is not present in the store.
	ErrUnknownAccount = errors.New("unknown account")

	// ErrNoActiveAccount indicates an operation needed credentials before any
	// account was selected.
	ErrNoActiveAccount = errors.New("no active account")
)

const storeVersion = 1

// Account holds the credentials of one registered identity.
type Account struct {
	Hash   string `json:"hash"`
	APIKey string `json:"api_key"`
	UserID string `json:"user_id"`
	Active bool   `json:"-"`
}

type storeFile struct {
	Version    int                `json:"version"`
	Accounts   map[string]Account `json:"accounts"`
	ActiveHash string             `json:"active_hash,omitempty"`
}

// Store is the in-memory view of the persisted account collection. It is not
// safe for concurrent use; the CLI performs a single load-mutate-save cycle
// per invocation.
type Store struct {
	path       string
	accounts   map[string]Account
	activeHash string
}

// DefaultPath returns the account config file location,
// <user config dir>/kyuncli/config.json.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", errors.Wrap(err, "failed to resolve user config directory")
	}
	return filepath.Join(dir, "kyuncli", "config.json"), nil
}

// Load reads the store from path. A missing file yields an empty store with
// no active account. An unreadable or invariant-violating file yields
// ErrConfigCorrupt with no partial recovery.
func Load(path string) (*Store, error) {
	s := &Store{path: path, accounts: make(map[string]Account)}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to read account config")
	}

	var file storeFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, errors.Wrapf(ErrConfigCorrupt, "%s: %v", path, err)
	}

	for hash, acct := range file.Accounts {
		if acct.Hash != hash {
			return nil, errors.Wrapf(ErrConfigCorrupt, "%s: account %q stored under key %q", path, acct.Hash, hash)
		}
		s.accounts[hash] = acct
	}
	if file.ActiveHash != "" {
		if _, ok := s.accounts[file.ActiveHash]; !ok {
			return nil, errors.Wrapf(ErrConfigCorrupt, "%s: active account %q not present", path, file.ActiveHash)
		}
		s.activeHash = file.ActiveHash
	}

	return s, nil
}

// Save writes the full store back to disk atomically: encode into a temp
// file in the same directory, fsync, tighten permissions, then rename into
// place so a crash mid-write never leaves a half-written file. Parent
// directories are created owner-only since the file holds API keys.
func (s *Store) Save() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return errors.Wrap(err, "failed to create config directory")
	}

	tmp, err := os.CreateTemp(dir, ".config-*.json")
	if err != nil {
		return errors.Wrap(err, "failed to create temporary config file")
	}
	tmpPath := tmp.Name()

	committed := false
	defer func() {
		if !committed {
			os.Remove(tmpPath)
		}
	}()

	file := storeFile{
		Version:    storeVersion,
		Accounts:   s.accounts,
		ActiveHash: s.activeHash,
	}

	encoder := json.NewEncoder(tmp)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(file); err != nil {
		tmp.Close()
		return errors.Wrap(err, "failed to encode account config")
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return errors.Wrap(err, "failed to sync account config")
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(err, "failed to close temporary config file")
	}

	if err := os.Chmod(tmpPath, 0o600); err != nil {
		return errors.Wrap(err, "failed to set config file permissions")
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		return errors.Wrap(err, "failed to save account config")
	}

	committed = true
	return nil
}

// AddAccount inserts or replaces the account stored under hash and persists
// the store. The account becomes active only when nothing else is; adding
// the same hash again just replaces its credentials.
func (s *Store) AddAccount(hash, apiKey, userID string) error {
	s.accounts[hash] = Account{Hash: hash, APIKey: apiKey, UserID: userID}
	if s.activeHash == "" {
		s.activeHash = hash
	}
	return s.Save()
}

// SetActive marks the account stored under hash as active and persists the
// store. The store is left unmodified when hash is unknown.
func (s *Store) SetActive(hash string) error {
	if _, ok := s.accounts[hash]; !ok {
		return errors.Wrapf(ErrUnknownAccount, "%s", hash)
	}
	s.activeHash = hash
	return s.Save()
}

// RemoveAccount deletes the account stored under hash and persists the
// store. Removing the active account clears the active selection; the
// caller has to pick a remaining account explicitly. Removal is local-only
// and never touches the remote service.
func (s *Store) RemoveAccount(hash string) error {
	if _, ok := s.accounts[hash]; !ok {
		return errors.Wrapf(ErrUnknownAccount, "%s", hash)
	}
	delete(s.accounts, hash)
	if s.activeHash == hash {
		s.activeHash = ""
	}
	return s.Save()
}

// ListAccounts returns all stored accounts sorted by hash, with Active set
// on the current selection.
func (s *Store) ListAccounts() []Account {
	out := make([]Account, 0, len(s.accounts))
	for _, acct := range s.accounts {
		acct.Active = acct.Hash == s.activeHash
		out = append(out, acct)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Hash < out[j].Hash })
	return out
}

// GetActive returns the active account's credentials.
func (s *Store) GetActive() (Account, error) {
	if s.activeHash == "" {
		return Account{}, ErrNoActiveAccount
	}
	acct := s.accounts[s.activeHash]
	acct.Active = true
	return acct, nil
}

// Len reports how many accounts are stored.
func (s *Store) Len() int {
	return len(s.accounts)
}
