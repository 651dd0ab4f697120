package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"sherpa/internal/core/model"
	"sherpa/internal/ui/preferences"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTasks() *model.TaskList {
	due := time.Date(2026, 3, 9, 0, 0, 0, 0, time.Local)
	work := time.Date(2026, 3, 6, 0, 0, 0, 0, time.Local)
	return model.NewTaskList([]model.Task{
		{ID: 1, Description: "read chapter 4", DoOnDate: work},
		{ID: 2, Description: "submit essay", ByDate: due, Done: true},
		{ID: 5, Description: "call tutor"},
	})
}

func sampleRecord() model.SessionRecord {
	start := time.Date(2026, 3, 6, 9, 0, 0, 0, time.UTC)
	return model.SessionRecord{
		ID:        "7f1c6a2e-0d2b-4d0e-9a57-3c1a8e1f2b44",
		Mode:      "countdown",
		StartedAt: start,
		EndedAt:   start.Add(25 * time.Minute),
		Seconds:   1500,
		Outcome:   model.OutcomeExpired,
	}
}

func assertSameTasks(t *testing.T, want, got *model.TaskList) {
	t.Helper()
	require.Equal(t, want.Len(), got.Len())
	for i, task := range want.Tasks() {
		loaded := got.Tasks()[i]
		assert.Equal(t, task.ID, loaded.ID)
		assert.Equal(t, task.Description, loaded.Description)
		assert.Equal(t, task.Done, loaded.Done)
		assert.True(t, task.ByDate.Equal(loaded.ByDate), "by date of task %d", task.ID)
		assert.True(t, task.DoOnDate.Equal(loaded.DoOnDate), "do-on date of task %d", task.ID)
	}
}

func TestStoresPersistTasksAndSessions(t *testing.T) {
	for _, kind := range []Kind{KindYAML, KindSQLite} {
		t.Run(string(kind), func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "nested", "data")
			store, err := Open(kind, path)
			require.NoError(t, err)

			empty, err := store.Load()
			require.NoError(t, err)
			assert.Equal(t, 0, empty.Len())

			tasks := sampleTasks()
			require.NoError(t, store.WriteSaveData(tasks))
			require.NoError(t, store.RecordSession(sampleRecord()))
			require.NoError(t, store.Close())

			reopened, err := Open(kind, path)
			require.NoError(t, err)
			t.Cleanup(func() { _ = reopened.Close() })

			loaded, err := reopened.Load()
			require.NoError(t, err)
			assertSameTasks(t, tasks, loaded)
			assert.Equal(t, 6, loaded.GenerateIdentifier())

			sessions, err := reopened.Sessions()
			require.NoError(t, err)
			require.Len(t, sessions, 1)
			assert.Equal(t, model.OutcomeExpired, sessions[0].Outcome)
			assert.Equal(t, 1500, sessions[0].Seconds)
			assert.True(t, sampleRecord().EndedAt.Equal(sessions[0].EndedAt))
		})
	}
}

func TestWriteSaveDataReplacesTasks(t *testing.T) {
	for _, kind := range []Kind{KindYAML, KindSQLite} {
		t.Run(string(kind), func(t *testing.T) {
			store, err := Open(kind, filepath.Join(t.TempDir(), "data"))
			require.NoError(t, err)
			t.Cleanup(func() { _ = store.Close() })

			tasks := sampleTasks()
			require.NoError(t, store.WriteSaveData(tasks))
			_, err = tasks.Delete(1)
			require.NoError(t, err)
			require.NoError(t, store.WriteSaveData(tasks))

			loaded, err := store.Load()
			require.NoError(t, err)
			assertSameTasks(t, tasks, loaded)
		})
	}
}

func TestOpenYAMLRejectsCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.yaml")
	require.NoError(t, os.WriteFile(path, []byte("tasks: [unterminated"), 0o644))

	_, err := OpenYAML(path)
	assert.Error(t, err)
}

func TestParseKind(t *testing.T) {
	kind, err := ParseKind(" SQLite ")
	require.NoError(t, err)
	assert.Equal(t, KindSQLite, kind)

	kind, err = ParseKind("")
	require.NoError(t, err)
	assert.Equal(t, KindYAML, kind)

	_, err = ParseKind("csv")
	assert.ErrorIs(t, err, ErrUnknownKind)
}

func TestSettingsDefaultsWhenMissing(t *testing.T) {
	settings, err := LoadSettings(filepath.Join(t.TempDir(), "settings.yaml"))
	require.NoError(t, err)
	assert.Equal(t, preferences.DefaultSettings(), settings)
}

func TestSettingsRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Sherpa", "settings.yaml")
	settings := preferences.DefaultSettings()
	settings.IdleEnabled = true
	settings.IdleAfter = 12 * time.Minute
	settings.MaxDuration = 2 * time.Hour
	settings.SoundEnabled = false
	settings.OverlayOpacity = 0.75
	settings.Store = "sqlite"

	require.NoError(t, SaveSettings(path, settings))
	loaded, err := LoadSettings(path)
	require.NoError(t, err)
	assert.Equal(t, settings, loaded)
}

func TestSettingsIgnoreOutOfRangeValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	require.NoError(t, os.WriteFile(path, []byte("overlay_opacity: 0.1\nstore: csv\nidle_after_minutes: -3\n"), 0o644))

	loaded, err := LoadSettings(path)
	require.NoError(t, err)
	defaults := preferences.DefaultSettings()
	assert.Equal(t, defaults.OverlayOpacity, loaded.OverlayOpacity)
	assert.Equal(t, defaults.Store, loaded.Store)
	assert.Equal(t, defaults.IdleAfter, loaded.IdleAfter)
	assert.True(t, loaded.SoundEnabled)
}
