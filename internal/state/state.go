// Package state holds the normalized application state, the action
// layer, the pure reducer and the Store. All mutation flows through
// Store.Dispatch; the state tree is only ever replaced wholesale, never
// modified in place.
package state

import (
	"github.com/alimkhann/odin-todo/internal/domain"
)

// SchemaVersion is the current persisted-schema version.
const SchemaVersion = 2

// ViewType discriminates the active-view union.
type ViewType string

const (
	ViewInbox     ViewType = "inbox"
	ViewProject   ViewType = "project"
	ViewToday     ViewType = "today"
	ViewUpcoming  ViewType = "upcoming"
	ViewCompleted ViewType = "completed"
	ViewTag       ViewType = "tag"
	ViewSearch    ViewType = "search"
)

// View is the UI-selected slice of tasks. Only the variant field named
// by Type is meaningful.
type View struct {
	Type      ViewType
	ProjectID string // ViewProject
	Tag       string // ViewTag
	Query     string // ViewSearch
}

func InboxView() View             { return View{Type: ViewInbox} }
func ProjectView(id string) View  { return View{Type: ViewProject, ProjectID: id} }
func TodayView() View             { return View{Type: ViewToday} }
func UpcomingView() View          { return View{Type: ViewUpcoming} }
func CompletedView() View         { return View{Type: ViewCompleted} }
func TagView(tag string) View     { return View{Type: ViewTag, Tag: tag} }
func SearchView(query string) View { return View{Type: ViewSearch, Query: query} }

// SortMode is the display-sort order, independent of the active view.
type SortMode string

const (
	SortManual   SortMode = "manual" // project order as stored
	SortDueDate  SortMode = "dueDate"
	SortPriority SortMode = "priority"
	SortTitle    SortMode = "title"
	SortUpdated  SortMode = "updated"
)

// AppState is the whole application state. Task ordering lives in
// Project.TaskIDs; the Tasks map is unordered.
type AppState struct {
	SchemaVersion  int
	ActiveView     View
	Projects       []domain.Project
	Tasks          map[string]domain.Task
	SelectedTaskID string // UI focus, dropped on persist
	Sort           SortMode
}

// DefaultState is the startup fallback: current schema version, a
// single Inbox project, no tasks.
func DefaultState() AppState {
	return AppState{
		SchemaVersion: SchemaVersion,
		ActiveView:    ProjectView(domain.InboxID),
		Projects:      []domain.Project{domain.NewInbox()},
		Tasks:         map[string]domain.Task{},
		Sort:          SortManual,
	}
}

// ProjectByID returns the project with the given id.
func (s AppState) ProjectByID(id string) (domain.Project, bool) {
	for _, p := range s.Projects {
		if p.ID == id {
			return p, true
		}
	}
	return domain.Project{}, false
}

// ProjectOf returns the project whose TaskIDs contain the task id.
func (s AppState) ProjectOf(taskID string) (domain.Project, bool) {
	for _, p := range s.Projects {
		if p.Contains(taskID) {
			return p, true
		}
	}
	return domain.Project{}, false
}
