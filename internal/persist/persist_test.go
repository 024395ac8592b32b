package persist

import (
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alimkhann/odin-todo/internal/domain"
	"github.com/alimkhann/odin-todo/internal/state"
)

var testNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func pinClock(t *testing.T) {
	t.Helper()
	prev := domain.Now
	domain.Now = func() time.Time { return testNow }
	t.Cleanup(func() { domain.Now = prev })
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func mustTask(t *testing.T, p domain.TaskParams) domain.Task {
	t.Helper()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = testNow
	}
	task, err := domain.NewTask(p)
	require.NoError(t, err)
	return task
}

// fixtureState exercises every persisted field: due date and time,
// tags, checklist, recurrence, a done task, a second project, a
// non-default view and sort.
func fixtureState(t *testing.T) state.AppState {
	t.Helper()
	pinClock(t)

	milk := mustTask(t, domain.TaskParams{
		ID:      "t_milk",
		Title:   "Buy milk",
		DueDate: "2024-06-01",
		DueTime: "09:30",
		Tags:    []string{"errands"},
		Checklist: []domain.ChecklistItem{
			{ID: "c_1", Text: "oat"},
			{ID: "c_2", Text: "whole", Done: true},
		},
		Recurrence: &domain.RecurrenceRule{Freq: domain.FreqWeekly, Interval: 1},
	})
	report := mustTask(t, domain.TaskParams{
		ID:          "t_report",
		Title:       "Write report",
		Description: "Q2 numbers",
		Notes:       "ask finance for the sheet",
		Priority:    1,
		Done:        true,
	})

	work, err := domain.NewProject(domain.ProjectParams{
		ID:      "p_work",
		Name:    "Work",
		TaskIDs: []string{"t_report"},
	})
	require.NoError(t, err)

	s := state.DefaultState()
	s.Projects[0] = s.Projects[0].WithTask("t_milk")
	s.Projects = append(s.Projects, work)
	s.Tasks = map[string]domain.Task{milk.ID: milk, report.ID: report}
	s.ActiveView = state.ProjectView("p_work")
	s.Sort = state.SortPriority
	return s
}

func TestRoundTrip(t *testing.T) {
	s := fixtureState(t)

	data, err := Export(s)
	require.NoError(t, err)

	got, err := Parse(data, discardLogger())
	require.NoError(t, err)
	require.Equal(t, s, got)
}

func TestSerialize_DropsSelection(t *testing.T) {
	s := fixtureState(t)
	s.SelectedTaskID = "t_milk"

	data, err := Export(s)
	require.NoError(t, err)
	var raw map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.NotContains(t, raw, "selectedTaskId")

	got, err := Parse(data, discardLogger())
	require.NoError(t, err)
	assert.Empty(t, got.SelectedTaskID)
}

func TestMigrate_LegacyV1Keys(t *testing.T) {
	pinClock(t)
	doc := `{
		"schemaVersion": 1,
		"activeView": {"type": "inbox"},
		"projects": [
			{"id": "p_inbox", "name": "Inbox", "todoIds": ["t_1"]}
		],
		"todos": {
			"t_1": {"id": "t_1", "title": "Buy milk", "priority": 3}
		}
	}`

	s, err := Parse([]byte(doc), discardLogger())
	require.NoError(t, err)

	assert.Equal(t, state.SchemaVersion, s.SchemaVersion)
	require.Contains(t, s.Tasks, "t_1")
	assert.Equal(t, "Buy milk", s.Tasks["t_1"].Title)
	inbox, ok := s.ProjectByID(domain.InboxID)
	require.True(t, ok)
	assert.Equal(t, []string{"t_1"}, inbox.TaskIDs)
}

func TestMigrate_Unversioned(t *testing.T) {
	pinClock(t)
	doc := `{
		"activeView": {"type": "today"},
		"projects": [],
		"todos": {}
	}`

	s, err := Parse([]byte(doc), discardLogger())
	require.NoError(t, err)
	assert.Equal(t, state.SchemaVersion, s.SchemaVersion)
	assert.Equal(t, state.TodayView(), s.ActiveView)
}

func TestMigrate_FutureVersionPassesThrough(t *testing.T) {
	raw := map[string]interface{}{
		"schemaVersion": float64(99),
		"todos":         map[string]interface{}{},
	}

	got := Migrate(raw, discardLogger())

	assert.Equal(t, float64(99), got["schemaVersion"])
	assert.Contains(t, got, "todos") // no step applied
}

func TestRehydrate_DropsInvalidEntities(t *testing.T) {
	pinClock(t)
	snap := Snapshot{
		SchemaVersion: state.SchemaVersion,
		ActiveView:    ViewRecord{Type: "inbox"},
		Projects: []domain.ProjectRecord{
			{ID: domain.InboxID, Name: "Inbox", TaskIDs: []string{"t_ok", "t_bad", "t_gone"}},
		},
		Tasks: map[string]domain.TaskRecord{
			"t_ok":  {ID: "t_ok", Title: "fine", Priority: 3},
			"t_bad": {ID: "t_bad", Title: "   ", Priority: 3},
		},
	}

	s, dropped := Rehydrate(snap)

	assert.Len(t, dropped, 1)
	require.Contains(t, s.Tasks, "t_ok")
	assert.NotContains(t, s.Tasks, "t_bad")
	inbox, ok := s.ProjectByID(domain.InboxID)
	require.True(t, ok)
	assert.Equal(t, []string{"t_ok"}, inbox.TaskIDs, "membership of dropped tasks is pruned")
}

func TestRehydrate_PrunesDuplicateMembership(t *testing.T) {
	pinClock(t)
	snap := Snapshot{
		SchemaVersion: state.SchemaVersion,
		ActiveView:    ViewRecord{Type: "inbox"},
		Projects: []domain.ProjectRecord{
			{ID: domain.InboxID, Name: "Inbox", TaskIDs: []string{"t_1"}},
			{ID: "p_work", Name: "Work", TaskIDs: []string{"t_1", "t_2"}},
		},
		Tasks: map[string]domain.TaskRecord{
			"t_1": {ID: "t_1", Title: "Buy milk", Priority: 3},
			"t_2": {ID: "t_2", Title: "Write report", Priority: 3},
		},
	}

	s, dropped := Rehydrate(snap)

	assert.Len(t, dropped, 1)
	inbox, _ := s.ProjectByID(domain.InboxID)
	work, _ := s.ProjectByID("p_work")
	assert.Equal(t, []string{"t_1"}, inbox.TaskIDs, "first owner in snapshot order wins")
	assert.Equal(t, []string{"t_2"}, work.TaskIDs, "later occurrence pruned")

	owners := 0
	for _, p := range s.Projects {
		if p.Contains("t_1") {
			owners++
		}
	}
	assert.Equal(t, 1, owners, "a task belongs to exactly one project")
}

func TestParse_RepairsDuplicateMembership(t *testing.T) {
	pinClock(t)
	doc := `{
		"schemaVersion": 2,
		"activeView": {"type": "inbox"},
		"projects": [
			{"id": "p_inbox", "name": "Inbox", "taskIds": ["t_1"]},
			{"id": "p_work", "name": "Work", "taskIds": ["t_1"]}
		],
		"tasks": {
			"t_1": {"id": "t_1", "title": "Buy milk", "priority": 3}
		}
	}`

	s, err := Parse([]byte(doc), discardLogger())
	require.NoError(t, err)

	owners := 0
	for _, p := range s.Projects {
		if p.Contains("t_1") {
			owners++
		}
	}
	assert.Equal(t, 1, owners)
	inbox, _ := s.ProjectByID(domain.InboxID)
	assert.Equal(t, []string{"t_1"}, inbox.TaskIDs)
}

func TestRehydrate_RestoresMissingInbox(t *testing.T) {
	pinClock(t)
	snap := Snapshot{
		SchemaVersion: state.SchemaVersion,
		ActiveView:    ViewRecord{Type: "project", ProjectID: "p_gone"},
		Projects:      nil,
		Tasks:         nil,
	}

	s, dropped := Rehydrate(snap)

	assert.Empty(t, dropped)
	_, ok := s.ProjectByID(domain.InboxID)
	assert.True(t, ok)
	assert.Equal(t, state.ProjectView(domain.InboxID), s.ActiveView,
		"view naming a missing project falls back")
}

func TestRehydrate_UnknownSortFallsBack(t *testing.T) {
	pinClock(t)
	snap := Snapshot{
		SchemaVersion: state.SchemaVersion,
		ActiveView:    ViewRecord{Type: "inbox"},
		Sort:          "sparkles",
	}

	s, _ := Rehydrate(snap)
	assert.Equal(t, state.SortManual, s.Sort)
}

func TestLoad_FallsBackToDefault(t *testing.T) {
	pinClock(t)
	logger := discardLogger()

	t.Run("no data", func(t *testing.T) {
		s := Load(NewMemoryBackend(), logger)
		assert.Equal(t, state.DefaultState(), s)
	})

	t.Run("read failure", func(t *testing.T) {
		backend := NewMemoryBackend()
		backend.FailIO(true)
		s := Load(backend, logger)
		assert.Equal(t, state.DefaultState(), s)
	})

	t.Run("corrupt data", func(t *testing.T) {
		backend := NewMemoryBackend()
		require.NoError(t, backend.Save([]byte("{not json")))
		s := Load(backend, logger)
		assert.Equal(t, state.DefaultState(), s)
	})
}

func TestLoad_RoundTripsThroughBackend(t *testing.T) {
	s := fixtureState(t)
	backend := NewMemoryBackend()

	data, err := json.Marshal(Serialize(s))
	require.NoError(t, err)
	require.NoError(t, backend.Save(data))

	got := Load(backend, discardLogger())
	assert.Equal(t, s, got)
}

func TestWriter_DebouncesBursts(t *testing.T) {
	s := fixtureState(t)
	backend := NewMemoryBackend()
	w := NewWriter(backend, func() state.AppState { return s }, 30*time.Millisecond, discardLogger())
	defer w.Close()

	for i := 0; i < 5; i++ {
		w.Notify()
	}
	assert.Eventually(t, func() bool { return backend.Saves() == 1 },
		time.Second, 5*time.Millisecond, "a burst collapses into one save")

	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, 1, backend.Saves(), "quiet period triggers no further saves")
}

func TestWriter_FlushSavesImmediately(t *testing.T) {
	s := fixtureState(t)
	backend := NewMemoryBackend()
	w := NewWriter(backend, func() state.AppState { return s }, time.Hour, discardLogger())
	defer w.Close()

	w.Notify()
	assert.Equal(t, 0, backend.Saves())
	w.Flush()
	assert.Equal(t, 1, backend.Saves())

	got := Load(backend, discardLogger())
	assert.Equal(t, s, got)
}

func TestWriter_FlushRacingTimerSavesOnce(t *testing.T) {
	s := fixtureState(t)
	backend := NewMemoryBackend()
	w := NewWriter(backend, func() state.AppState { return s }, time.Millisecond, discardLogger())
	defer w.Close()

	// The timer may fire before, during or after the Flush; either
	// way the burst is written exactly once.
	w.Notify()
	w.Flush()

	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, 1, backend.Saves())
}

func TestWriter_CloseFlushesPendingAndStops(t *testing.T) {
	s := fixtureState(t)
	backend := NewMemoryBackend()
	w := NewWriter(backend, func() state.AppState { return s }, time.Hour, discardLogger())

	w.Notify()
	w.Close()
	assert.Equal(t, 1, backend.Saves())

	w.Notify() // no-op after Close
	w.Flush()
	assert.Equal(t, 1, backend.Saves())
}

func TestWriter_SwallowsSaveFailures(t *testing.T) {
	s := fixtureState(t)
	backend := NewMemoryBackend()
	backend.FailIO(true)
	w := NewWriter(backend, func() state.AppState { return s }, time.Hour, discardLogger())
	defer w.Close()

	w.Notify()
	w.Flush() // must not panic
	assert.Equal(t, 0, backend.Saves())
}