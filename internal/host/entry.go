package host

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// ErrEntryNotFound is returned when a config entry does not exist
var ErrEntryNotFound = errors.New("config entry not found")

// ConfigEntry is one installation of an integration, e.g. one set of credentials for a vendor account.
type ConfigEntry struct {
	EntryID string            `yaml:"entry_id"`
	Domain  string            `yaml:"domain"`
	Title   string            `yaml:"title"`
	Version int               `yaml:"version"`
	Data    map[string]string `yaml:"data"`
}

// EntryStore persists config entries in a YAML file
type EntryStore struct {
	path string
	lock sync.Mutex
}

type entriesFile struct {
	Entries []ConfigEntry `yaml:"entries"`
}

func NewEntryStore(path string) *EntryStore {
	return &EntryStore{path: path}
}

// Load returns all stored entries. A missing file holds no entries.
func (s *EntryStore) Load() ([]ConfigEntry, error) {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.load()
}

// Add stores a new entry and returns it. If the entry has no EntryID, one is assigned.
func (s *EntryStore) Add(entry ConfigEntry) (ConfigEntry, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	entries, err := s.load()
	if err != nil {
		return entry, err
	}
	if entry.EntryID == "" {
		entry.EntryID = uuid.NewString()
	}
	if slices.ContainsFunc(entries, func(e ConfigEntry) bool { return e.EntryID == entry.EntryID }) {
		return entry, fmt.Errorf("config entry %s already exists", entry.EntryID)
	}
	return entry, s.save(append(entries, entry))
}

// Remove deletes the entry and returns it
func (s *EntryStore) Remove(entryID string) (ConfigEntry, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	entries, err := s.load()
	if err != nil {
		return ConfigEntry{}, err
	}
	idx := slices.IndexFunc(entries, func(e ConfigEntry) bool { return e.EntryID == entryID })
	if idx == -1 {
		return ConfigEntry{}, fmt.Errorf("%s: %w", entryID, ErrEntryNotFound)
	}
	entry := entries[idx]
	return entry, s.save(slices.Delete(entries, idx, idx+1))
}

func (s *EntryStore) load() ([]ConfigEntry, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			err = nil
		}
		return nil, err
	}
	defer func() { _ = f.Close() }()

	var content entriesFile
	if err = yaml.NewDecoder(f).Decode(&content); err != nil {
		// empty file: no entries
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", s.path, err)
	}
	return content.Entries, nil
}

func (s *EntryStore) save(entries []ConfigEntry) error {
	body, err := yaml.Marshal(entriesFile{Entries: entries})
	if err != nil {
		return err
	}
	if err = os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return err
	}
	tmp := s.path + ".tmp"
	if err = os.WriteFile(tmp, body, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}
