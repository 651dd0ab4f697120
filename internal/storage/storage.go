// Package storage persists the task list, the study-session history and the
// user settings.
package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"sherpa/internal/core/model"
	"sherpa/internal/platform"
)

// Kind selects a task store backend.
type Kind string

const (
	KindYAML   Kind = "yaml"
	KindSQLite Kind = "sqlite"
)

// ErrUnknownKind indicates an unsupported store backend name.
var ErrUnknownKind = errors.New("unknown store kind")

// TaskStore loads and saves tasks and records finished study sessions.
type TaskStore interface {
	Load() (*model.TaskList, error)
	WriteSaveData(tasks *model.TaskList) error
	RecordSession(record model.SessionRecord) error
	Sessions() ([]model.SessionRecord, error)
	Close() error
}

// ParseKind validates a backend name.
func ParseKind(value string) (Kind, error) {
	switch kind := Kind(strings.ToLower(strings.TrimSpace(value))); kind {
	case KindYAML, KindSQLite:
		return kind, nil
	case "":
		return KindYAML, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownKind, value)
	}
}

// Open opens the task store of the given kind at path, creating the parent
// directory when needed.
func Open(kind Kind, path string) (TaskStore, error) {
	if err := ensureDir(path); err != nil {
		return nil, err
	}
	switch kind {
	case KindYAML, "":
		return OpenYAML(path)
	case KindSQLite:
		return OpenSQLite(path)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
}

// DefaultDataPath returns <config dir>/<appName>/tasks.yaml, or
// <appname>.db for the SQLite store.
func DefaultDataPath(appName string, kind Kind) (string, error) {
	appDir, err := platform.AppDir(appName)
	if err != nil {
		return "", err
	}
	name := "tasks.yaml"
	if kind == KindSQLite {
		name = strings.ToLower(appName) + ".db"
	}
	return filepath.Join(appDir, name), nil
}

func ensureDir(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}
	return nil
}
