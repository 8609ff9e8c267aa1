package cfg

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/hectane/go-acl"
)

// ConfigFileName is the name of the item list file inside the data dir.
const ConfigFileName = "items.json"

// Item is a single entry of the launch list.
type Item struct {
	Path string `json:"path"`
	Name string `json:"name,omitempty"`
}

// PathResolver normalizes paths and detects references to the running program.
type PathResolver interface {
	Normalize(raw string) string
	IsSelf(path string) bool
}

// CorruptError is returned by Load when the config file exists but is not valid JSON.
type CorruptError struct {
	Path string
	Err  error
}

func (e *CorruptError) Error() string {
	return fmt.Sprintf("config file %s is corrupted: %v", e.Path, e.Err)
}

func (e *CorruptError) Unwrap() error {
	return e.Err
}

// Store reads and writes the item list.
type Store struct {
	path     string
	resolver PathResolver
}

func NewStore(path string, resolver PathResolver) (*Store, error) {
	if path == "" {
		return nil, errors.New("path is empty")
	}
	if resolver == nil {
		return nil, errors.New("resolver is nil")
	}
	return &Store{path: path, resolver: resolver}, nil
}

// Path returns the location of the config file.
func (s *Store) Path() string {
	return s.path
}

// Load reads the item list. A missing file yields an empty list. A file
// that is not valid JSON yields an empty list and a *CorruptError.
func (s *Store) Load() ([]Item, error) {
	data, err := os.ReadFile(s.path)
	switch {
	case os.IsNotExist(err):
		return []Item{}, nil
	case err != nil:
		return []Item{}, fmt.Errorf("read config file: %w", err)
	}

	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return []Item{}, &CorruptError{Path: s.path, Err: err}
	}
	entries, ok := raw.([]any)
	if !ok {
		return []Item{}, nil
	}

	items := make([]Item, 0, len(entries))
	for _, entry := range entries {
		var item Item
		switch e := entry.(type) {
		case map[string]any:
			p, _ := e["path"].(string)
			name, _ := e["name"].(string)
			item = Item{Path: p, Name: name}
		case string:
			item = Item{Path: e}
		default:
			continue
		}
		item.Path = s.resolver.Normalize(item.Path)
		if item.Path == "" {
			continue
		}
		items = append(items, item)
	}
	return items, nil
}

// Save replaces the stored list with items. Empty paths and paths that point
// to the running program are never written. The data is written to a
// temporary file next to the config file, synced, and renamed into place;
// on failure the previous file is left as it was.
func (s *Store) Save(items []Item) error {
	toSave := make([]Item, 0, len(items))
	for _, it := range items {
		p := s.resolver.Normalize(it.Path)
		if p == "" || s.resolver.IsSelf(p) {
			continue
		}
		toSave = append(toSave, Item{Path: p, Name: it.Name})
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(toSave); err != nil {
		return fmt.Errorf("marshal items: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	// The temporary file must live in the same directory so that the rename is atomic.
	tmp, err := os.CreateTemp(dir, ConfigFileName+"*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if err := writeSynced(tmp, buf.Bytes()); err != nil {
		os.Remove(tmpPath)
		return err
	}
	if err := setMode(tmpPath, 0644); err != nil {
		os.Remove(tmpPath)
		return err
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("replace config file: %w", err)
	}

	// Make the rename itself durable. Not supported on every platform.
	if d, err := os.Open(dir); err == nil {
		d.Sync()
		d.Close()
	}
	return nil
}

func writeSynced(f *os.File, data []byte) error {
	if _, err := f.Write(data); err != nil {
		f.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	return nil
}

func setMode(path string, mode os.FileMode) error {
	if runtime.GOOS == "windows" {
		if err := acl.Chmod(path, mode); err != nil {
			return fmt.Errorf("set permissions on temp file: %w", err)
		}
		return nil
	}
	if err := os.Chmod(path, mode); err != nil {
		return fmt.Errorf("set permissions on temp file: %w", err)
	}
	return nil
}
