package persist

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/alimkhann/odin-todo/internal/domain"
	"github.com/alimkhann/odin-todo/internal/state"
)

// Rehydrate rebuilds a validated AppState from a migrated snapshot.
// Entities that fail validation are dropped and reported in the
// returned slice; rehydration itself never fails. The result always
// carries the current schema version and an Inbox project.
func Rehydrate(snap Snapshot) (state.AppState, []error) {
	var dropped []error

	s := state.DefaultState()
	s.Sort = sortMode(snap.Sort)

	tasks := make(map[string]domain.Task, len(snap.Tasks))
	for id, rec := range snap.Tasks {
		task, err := domain.TaskFromRecord(rec)
		if err != nil {
			dropped = append(dropped, fmt.Errorf("task %s: %w", id, err))
			continue
		}
		tasks[task.ID] = task
	}
	s.Tasks = tasks

	projects := make([]domain.Project, 0, len(snap.Projects)+1)
	seen := map[string]bool{}
	owner := map[string]string{} // task id -> owning project id
	for _, rec := range snap.Projects {
		project, err := domain.ProjectFromRecord(rec)
		if err != nil {
			dropped = append(dropped, fmt.Errorf("project %s: %w", rec.ID, err))
			continue
		}
		if seen[project.ID] {
			dropped = append(dropped, fmt.Errorf("project %s: duplicate id", project.ID))
			continue
		}
		// Membership is pruned so every id resolves and each task
		// belongs to exactly one project; on a duplicate, the first
		// owner in snapshot order wins. Loading must not bump
		// UpdatedAt.
		ids := project.TaskIDs[:0:0]
		for _, taskID := range project.TaskIDs {
			if _, ok := tasks[taskID]; !ok {
				continue
			}
			if owningID, taken := owner[taskID]; taken {
				dropped = append(dropped, fmt.Errorf(
					"task %s: already in project %s, pruned from %s", taskID, owningID, project.ID))
				continue
			}
			owner[taskID] = project.ID
			ids = append(ids, taskID)
		}
		if len(ids) != len(project.TaskIDs) {
			project = project.WithOrder(ids).WithUpdatedAt(project.UpdatedAt)
		}
		seen[project.ID] = true
		projects = append(projects, project)
	}
	if !seen[domain.InboxID] {
		projects = append([]domain.Project{domain.NewInbox()}, projects...)
	}
	s.Projects = projects

	if view, ok := viewFromRecord(snap.ActiveView, s); ok {
		s.ActiveView = view
	}
	return s, dropped
}

func sortMode(raw string) state.SortMode {
	switch mode := state.SortMode(raw); mode {
	case state.SortManual, state.SortDueDate, state.SortPriority, state.SortTitle, state.SortUpdated:
		return mode
	default:
		return state.SortManual
	}
}

// viewFromRecord validates the persisted view against the rehydrated
// state; a view naming a missing project falls back to the default.
func viewFromRecord(rec ViewRecord, s state.AppState) (state.View, bool) {
	switch state.ViewType(rec.Type) {
	case state.ViewInbox:
		return state.InboxView(), true
	case state.ViewProject:
		if _, ok := s.ProjectByID(rec.ProjectID); !ok {
			return state.View{}, false
		}
		return state.ProjectView(rec.ProjectID), true
	case state.ViewToday:
		return state.TodayView(), true
	case state.ViewUpcoming:
		return state.UpcomingView(), true
	case state.ViewCompleted:
		return state.CompletedView(), true
	case state.ViewTag:
		return state.TagView(rec.Tag), true
	case state.ViewSearch:
		return state.SearchView(rec.Query), true
	default:
		return state.View{}, false
	}
}

// Parse decodes, migrates and rehydrates raw snapshot bytes. Entity
// errors are logged per item; only undecodable input fails.
func Parse(data []byte, logger *slog.Logger) (state.AppState, error) {
	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return state.AppState{}, fmt.Errorf("decode state: %w", err)
	}
	raw = Migrate(raw, logger)

	migrated, err := json.Marshal(raw)
	if err != nil {
		return state.AppState{}, fmt.Errorf("re-encode migrated state: %w", err)
	}
	var snap Snapshot
	if err := json.Unmarshal(migrated, &snap); err != nil {
		return state.AppState{}, fmt.Errorf("decode snapshot: %w", err)
	}

	s, dropped := Rehydrate(snap)
	for _, err := range dropped {
		logger.Warn("dropped invalid entity from persisted state", "err", err)
	}
	return s, nil
}

// Load reads persisted state from the backend, falling back to the
// default state when there is nothing saved or the data is unreadable.
// Startup must always succeed.
func Load(backend Backend, logger *slog.Logger) state.AppState {
	data, err := backend.Load()
	if err != nil {
		if !errors.Is(err, ErrNoData) {
			logger.Warn("reading persisted state failed, starting fresh", "err", err)
		}
		return state.DefaultState()
	}
	s, err := Parse(data, logger)
	if err != nil {
		logger.Warn("persisted state is corrupt, starting fresh", "err", err)
		return state.DefaultState()
	}
	return s
}
