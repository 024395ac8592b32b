package state

import (
	"fmt"
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alimkhann/odin-todo/internal/domain"
)

var fixedNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func fixDomainClock(t *testing.T) {
	t.Helper()
	prev := domain.Now
	domain.Now = func() time.Time { return fixedNow }
	t.Cleanup(func() { domain.Now = prev })
}

// seedState returns the Inbox plus a "Work" project holding two tasks.
func seedState(t *testing.T) AppState {
	t.Helper()
	fixDomainClock(t)

	s := DefaultState()

	work, err := domain.NewProject(domain.ProjectParams{ID: "p_work", Name: "Work"})
	require.NoError(t, err)

	var tasks []domain.Task
	for i, title := range []string{"write report", "review PR"} {
		task, err := domain.NewTask(domain.TaskParams{ID: fmt.Sprintf("t_%d", i+1), Title: title})
		require.NoError(t, err)
		tasks = append(tasks, task)
		work = work.WithTask(task.ID)
	}

	s.Projects = append(s.Projects, work)
	s.Tasks = map[string]domain.Task{tasks[0].ID: tasks[0], tasks[1].ID: tasks[1]}
	return s
}

// requireExclusiveMembership asserts every task id appears in at most
// one project's TaskIDs.
func requireExclusiveMembership(t *testing.T, s AppState) {
	t.Helper()
	owners := map[string]string{}
	for _, p := range s.Projects {
		for _, id := range p.TaskIDs {
			if prev, seen := owners[id]; seen {
				t.Fatalf("task %s owned by both %s and %s", id, prev, p.ID)
			}
			owners[id] = p.ID
		}
	}
}

func created(params domain.TaskParams, projectID string) TaskCreated {
	return TaskCreated{Params: params, ProjectID: projectID, At: fixedNow}
}

func TestReduce_TaskCreated(t *testing.T) {
	s := seedState(t)

	next, err := Reduce(s, created(domain.TaskParams{ID: "t_new", Title: "Buy milk", DueDate: "2024-06-01", Priority: 2}, "p_work"))
	require.NoError(t, err)

	task, ok := next.Tasks["t_new"]
	require.True(t, ok)
	assert.Equal(t, "Buy milk", task.Title)
	assert.Equal(t, 2, task.Priority)

	work, _ := next.ProjectByID("p_work")
	assert.Contains(t, work.TaskIDs, "t_new")
	requireExclusiveMembership(t, next)

	// Source state untouched.
	_, stillThere := s.Tasks["t_new"]
	assert.False(t, stillThere)
}

func TestReduce_TaskCreated_UnknownProjectFallsBackToInbox(t *testing.T) {
	s := seedState(t)

	next, err := Reduce(s, created(domain.TaskParams{ID: "t_new", Title: "stray"}, "p_gone"))
	require.NoError(t, err)

	inbox, _ := next.ProjectByID(domain.InboxID)
	assert.Contains(t, inbox.TaskIDs, "t_new")
}

func TestReduce_TaskCreated_InvalidPayloadRejected(t *testing.T) {
	s := seedState(t)

	next, err := Reduce(s, created(domain.TaskParams{Title: "   "}, domain.InboxID))
	require.Error(t, err)
	assert.True(t, domain.IsValidation(err))
	assert.Equal(t, s, next)
}

func TestReduce_TaskUpdated(t *testing.T) {
	s := seedState(t)

	next, err := Reduce(s, TaskUpdated{
		ID: "t_1",
		Ops: []PatchOp{
			SetTitle{Title: "write annual report"},
			SetPriority{Priority: 1},
			AddTag{Tag: "q2"},
			SetDueDate{DueDate: "2024-06-15"},
		},
		At: fixedNow,
	})
	require.NoError(t, err)

	task := next.Tasks["t_1"]
	assert.Equal(t, "write annual report", task.Title)
	assert.Equal(t, 1, task.Priority)
	assert.Equal(t, []string{"q2"}, task.Tags)
	assert.Equal(t, "2024-06-15", task.DueDate)

	// Other task carried over untouched.
	assert.Equal(t, s.Tasks["t_2"], next.Tasks["t_2"])
	// Projects subtree reused wholesale.
	assert.Equal(t,
		reflect.ValueOf(s.Projects).Pointer(),
		reflect.ValueOf(next.Projects).Pointer())
}

func TestReduce_TaskUpdated_UnknownTaskIsNoop(t *testing.T) {
	s := seedState(t)

	next, err := Reduce(s, TaskUpdated{ID: "t_missing", Ops: []PatchOp{SetNotes{Notes: "x"}}, At: fixedNow})
	require.NoError(t, err)
	assert.Equal(t, s, next)
}

func TestReduce_TaskUpdated_InvalidFieldRejectsWholeAction(t *testing.T) {
	s := seedState(t)

	next, err := Reduce(s, TaskUpdated{
		ID:  "t_1",
		Ops: []PatchOp{SetNotes{Notes: "kept?"}, SetDueDate{DueDate: "junk"}},
		At:  fixedNow,
	})
	require.Error(t, err)
	assert.Equal(t, s, next)
	assert.Empty(t, next.Tasks["t_1"].Notes)
}

func TestReduce_TaskToggled(t *testing.T) {
	s := seedState(t)

	next, err := Reduce(s, TaskToggled{ID: "t_1", At: fixedNow})
	require.NoError(t, err)
	assert.True(t, next.Tasks["t_1"].Done)
	assert.False(t, s.Tasks["t_1"].Done)

	again, err := Reduce(next, TaskToggled{ID: "t_1", At: fixedNow})
	require.NoError(t, err)
	assert.False(t, again.Tasks["t_1"].Done)
}

func TestReduce_TaskToggled_AbsentTaskIsNoop(t *testing.T) {
	s := seedState(t)
	next, err := Reduce(s, TaskToggled{ID: "nope", At: fixedNow})
	require.NoError(t, err)
	assert.Equal(t, s, next)
}

func TestReduce_TaskReordered_ChangesOrderOnly(t *testing.T) {
	s := seedState(t)

	next, err := Reduce(s, TaskReordered{ProjectID: "p_work", TaskIDs: []string{"t_2", "t_1"}, At: fixedNow})
	require.NoError(t, err)

	work, _ := next.ProjectByID("p_work")
	assert.Equal(t, []string{"t_2", "t_1"}, work.TaskIDs)

	before, _ := s.ProjectByID("p_work")
	assert.ElementsMatch(t, before.TaskIDs, work.TaskIDs)
}

func TestReduce_TaskMoved(t *testing.T) {
	s := seedState(t)

	next, err := Reduce(s, TaskMoved{TaskID: "t_1", FromProjectID: "p_work", ToProjectID: domain.InboxID, At: fixedNow})
	require.NoError(t, err)

	work, _ := next.ProjectByID("p_work")
	inbox, _ := next.ProjectByID(domain.InboxID)
	assert.NotContains(t, work.TaskIDs, "t_1")
	assert.Contains(t, inbox.TaskIDs, "t_1")
	requireExclusiveMembership(t, next)
}

func TestReduce_TaskMoved_SameProjectIsNoop(t *testing.T) {
	s := seedState(t)
	next, err := Reduce(s, TaskMoved{TaskID: "t_1", FromProjectID: "p_work", ToProjectID: "p_work", At: fixedNow})
	require.NoError(t, err)
	assert.Equal(t, s, next)
}

func TestReduce_TaskDeleted(t *testing.T) {
	s := seedState(t)

	next, err := Reduce(s, TaskDeleted{ID: "t_1"})
	require.NoError(t, err)

	_, exists := next.Tasks["t_1"]
	assert.False(t, exists)
	for _, p := range next.Projects {
		assert.NotContains(t, p.TaskIDs, "t_1")
	}
}

func TestReduce_TaskDeleted_NonexistentIsNoop(t *testing.T) {
	s := seedState(t)

	next, err := Reduce(s, TaskDeleted{ID: "t_ghost"})
	require.NoError(t, err)

	// Untouched subtrees come back by reference.
	assert.Equal(t,
		reflect.ValueOf(s.Tasks).Pointer(),
		reflect.ValueOf(next.Tasks).Pointer())
	assert.Equal(t,
		reflect.ValueOf(s.Projects).Pointer(),
		reflect.ValueOf(next.Projects).Pointer())
}

func TestReduce_TaskRestored(t *testing.T) {
	s := seedState(t)
	record := s.Tasks["t_1"].ToRecord()

	deleted, err := Reduce(s, TaskDeleted{ID: "t_1"})
	require.NoError(t, err)

	restored, err := Reduce(deleted, TaskRestored{Record: record, ProjectID: "p_work", At: fixedNow})
	require.NoError(t, err)
	assert.Equal(t, s.Tasks["t_1"], restored.Tasks["t_1"])
	work, _ := restored.ProjectByID("p_work")
	assert.Contains(t, work.TaskIDs, "t_1")

	// Named project gone: falls back to Inbox.
	toInbox, err := Reduce(deleted, TaskRestored{Record: record, ProjectID: "p_gone", At: fixedNow})
	require.NoError(t, err)
	inbox, _ := toInbox.ProjectByID(domain.InboxID)
	assert.Contains(t, inbox.TaskIDs, "t_1")
}

func TestReduce_ProjectLifecycle(t *testing.T) {
	s := seedState(t)

	next, err := Reduce(s, ProjectCreated{ID: "p_side", Name: "Side", At: fixedNow})
	require.NoError(t, err)
	side, found := next.ProjectByID("p_side")
	require.True(t, found)
	assert.Equal(t, "Side", side.Name)

	_, err = Reduce(next, ProjectCreated{ID: "p_bad", Name: "  ", At: fixedNow})
	require.Error(t, err)

	renamed, err := Reduce(next, ProjectRenamed{ID: "p_side", Name: "Side Quests", At: fixedNow})
	require.NoError(t, err)
	side, _ = renamed.ProjectByID("p_side")
	assert.Equal(t, "Side Quests", side.Name)
}

func TestReduce_ProjectDeleted_CascadesTasks(t *testing.T) {
	s := seedState(t)

	next, err := Reduce(s, ProjectDeleted{ID: "p_work"})
	require.NoError(t, err)

	_, found := next.ProjectByID("p_work")
	assert.False(t, found)
	assert.Empty(t, next.Tasks, "work owned every task, all must cascade")
}

func TestReduce_ProjectRestored(t *testing.T) {
	s := seedState(t)
	work, _ := s.ProjectByID("p_work")
	record := work.ToRecord()
	taskRecords := []domain.TaskRecord{s.Tasks["t_1"].ToRecord(), s.Tasks["t_2"].ToRecord()}

	deleted, err := Reduce(s, ProjectDeleted{ID: "p_work"})
	require.NoError(t, err)

	restored, err := Reduce(deleted, ProjectRestored{Record: record, Tasks: taskRecords})
	require.NoError(t, err)
	got, found := restored.ProjectByID("p_work")
	require.True(t, found)
	assert.Equal(t, work.TaskIDs, got.TaskIDs)
	assert.Len(t, restored.Tasks, 2)

	// Id collision: no-op.
	again, err := Reduce(restored, ProjectRestored{Record: record, Tasks: taskRecords})
	require.NoError(t, err)
	assert.Equal(t, restored, again)
}

func TestReduce_UIFields(t *testing.T) {
	s := seedState(t)

	next, _ := Reduce(s, ViewChanged{View: TagView("home")})
	assert.Equal(t, TagView("home"), next.ActiveView)

	next, _ = Reduce(next, SortChanged{Sort: SortPriority})
	assert.Equal(t, SortPriority, next.Sort)

	next, _ = Reduce(next, TaskSelected{ID: "t_1"})
	assert.Equal(t, "t_1", next.SelectedTaskID)

	next, _ = Reduce(next, TaskDeselected{})
	assert.Empty(t, next.SelectedTaskID)
}

func TestReduce_UnrecognizedActionReturnsStateUnchanged(t *testing.T) {
	s := seedState(t)
	next, err := Reduce(s, nil)
	require.NoError(t, err)
	assert.Equal(t, s, next)
}

// Reducing the same (state, action) twice yields deeply equal results
// and never disturbs the input.
func TestReduce_Purity(t *testing.T) {
	actions := []Action{
		created(domain.TaskParams{ID: "t_new", Title: "pure"}, "p_work"),
		TaskUpdated{ID: "t_1", Ops: []PatchOp{SetTitle{Title: "patched"}}, At: fixedNow},
		TaskToggled{ID: "t_2", At: fixedNow},
		TaskMoved{TaskID: "t_1", FromProjectID: "p_work", ToProjectID: domain.InboxID, At: fixedNow},
		TaskDeleted{ID: "t_2"},
		ProjectCreated{ID: "p_side", Name: "Side", At: fixedNow},
	}

	for _, action := range actions {
		t.Run(fmt.Sprintf("%T", action), func(t *testing.T) {
			before := seedState(t)
			first, err1 := Reduce(before, action)
			second, err2 := Reduce(before, action)
			require.NoError(t, err1)
			require.NoError(t, err2)
			assert.Equal(t, first, second)
			assert.Equal(t, seedState(t), before, "input state mutated")
		})
	}
}
