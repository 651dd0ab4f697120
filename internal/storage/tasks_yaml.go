package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"sherpa/internal/core/model"

	"gopkg.in/yaml.v3"
)

type yamlSaveFile struct {
	Tasks    []model.Task          `yaml:"tasks"`
	Sessions []model.SessionRecord `yaml:"sessions,omitempty"`
}

// YAMLStore keeps tasks and session history in a single YAML document.
type YAMLStore struct {
	mu   sync.Mutex
	path string
	data yamlSaveFile
}

// OpenYAML reads the save file at path. A missing file is an empty store.
func OpenYAML(path string) (*YAMLStore, error) {
	store := &YAMLStore{path: path}

	rawData, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return store, nil
		}
		return nil, fmt.Errorf("read save file: %w", err)
	}
	if err := yaml.Unmarshal(rawData, &store.data); err != nil {
		return nil, fmt.Errorf("parse save file yaml: %w", err)
	}
	return store, nil
}

// Load returns the stored tasks.
func (store *YAMLStore) Load() (*model.TaskList, error) {
	store.mu.Lock()
	defer store.mu.Unlock()
	return model.NewTaskList(store.data.Tasks), nil
}

// WriteSaveData replaces the stored tasks with the contents of tasks.
func (store *YAMLStore) WriteSaveData(tasks *model.TaskList) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	store.data.Tasks = tasks.Tasks()
	return store.flushLocked()
}

// RecordSession appends a finished study session.
func (store *YAMLStore) RecordSession(record model.SessionRecord) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	store.data.Sessions = append(store.data.Sessions, record)
	return store.flushLocked()
}

// Sessions returns the recorded study sessions, oldest first.
func (store *YAMLStore) Sessions() ([]model.SessionRecord, error) {
	store.mu.Lock()
	defer store.mu.Unlock()
	return append([]model.SessionRecord(nil), store.data.Sessions...), nil
}

// Close is a no-op; every change is already on disk.
func (store *YAMLStore) Close() error {
	return nil
}

// flushLocked writes to a temporary file first so a crash never leaves a
// truncated save file.
func (store *YAMLStore) flushLocked() error {
	serialized, err := yaml.Marshal(store.data)
	if err != nil {
		return fmt.Errorf("marshal save file yaml: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(store.path), 0o755); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}
	tmpPath := store.path + ".tmp"
	if err := os.WriteFile(tmpPath, serialized, 0o644); err != nil {
		return fmt.Errorf("write save file: %w", err)
	}
	if err := os.Rename(tmpPath, store.path); err != nil {
		return fmt.Errorf("replace save file: %w", err)
	}
	return nil
}
