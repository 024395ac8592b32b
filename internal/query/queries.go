// Package query derives filtered and sorted task views from the
// normalized state. Every selector is a pure function over AppState:
// results are freshly computed slices, nothing is cached, and the
// state is never modified. Selectors that depend on the calendar take
// an explicit now.
package query

import (
	"sort"
	"strings"
	"time"

	"github.com/alimkhann/odin-todo/internal/domain"
	"github.com/alimkhann/odin-todo/internal/state"
)

// DefaultUpcomingWindow is the look-ahead used by the upcoming view.
const DefaultUpcomingWindow = 7

const dateLayout = "2006-01-02"

// AllTasks returns every task, ordered by creation time (id as tie
// break) so that selectors over the unordered map stay deterministic.
func AllTasks(s state.AppState) []domain.Task {
	out := make([]domain.Task, 0, len(s.Tasks))
	for _, t := range s.Tasks {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// TaskByID returns one task by id.
func TaskByID(s state.AppState, id string) (domain.Task, bool) {
	t, ok := s.Tasks[id]
	return t, ok
}

// TasksForProject returns the project's tasks following its TaskIDs
// order. Ids without a matching task are skipped.
func TasksForProject(s state.AppState, projectID string) []domain.Task {
	project, found := s.ProjectByID(projectID)
	if !found {
		return nil
	}
	out := make([]domain.Task, 0, len(project.TaskIDs))
	for _, id := range project.TaskIDs {
		if t, ok := s.Tasks[id]; ok {
			out = append(out, t)
		}
	}
	return out
}

// CompletedTasks returns every done task across all projects.
func CompletedTasks(s state.AppState) []domain.Task {
	var out []domain.Task
	for _, t := range AllTasks(s) {
		if t.Done {
			out = append(out, t)
		}
	}
	return out
}

// TodayTasks returns tasks whose due date is calendar-equal to now's
// local date.
func TodayTasks(s state.AppState, now time.Time) []domain.Task {
	y, m, d := now.Date()
	var out []domain.Task
	for _, t := range AllTasks(s) {
		due, ok := parseDue(t)
		if !ok {
			continue
		}
		dy, dm, dd := due.Date()
		if dy == y && dm == m && dd == d {
			out = append(out, t)
		}
	}
	return out
}

// UpcomingTasks returns not-done tasks due strictly after today and
// strictly before today+days.
func UpcomingTasks(s state.AppState, now time.Time, days int) []domain.Task {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	end := today.AddDate(0, 0, days)
	var out []domain.Task
	for _, t := range AllTasks(s) {
		if t.Done {
			continue
		}
		due, ok := parseDue(t)
		if !ok {
			continue
		}
		if due.After(today) && due.Before(end) {
			out = append(out, t)
		}
	}
	return out
}

// TasksByTag returns tasks carrying the exact tag. Matching is case
// sensitive.
func TasksByTag(s state.AppState, tag string) []domain.Task {
	needle := strings.TrimSpace(tag)
	if needle == "" {
		return nil
	}
	var out []domain.Task
	for _, t := range AllTasks(s) {
		for _, candidate := range t.Tags {
			if candidate == needle {
				out = append(out, t)
				break
			}
		}
	}
	return out
}

// TasksBySearch returns tasks whose title, description or notes
// contain the query, case-insensitively.
func TasksBySearch(s state.AppState, query string) []domain.Task {
	needle := strings.ToLower(strings.TrimSpace(query))
	if needle == "" {
		return nil
	}
	var out []domain.Task
	for _, t := range AllTasks(s) {
		haystack := strings.ToLower(t.Title + " " + t.Description + " " + t.Notes)
		if strings.Contains(haystack, needle) {
			out = append(out, t)
		}
	}
	return out
}

// TasksForView resolves the active view to its task list, applying the
// state's sort mode. Unknown view types yield an empty list.
func TasksForView(s state.AppState, now time.Time, upcomingDays int) []domain.Task {
	if upcomingDays <= 0 {
		upcomingDays = DefaultUpcomingWindow
	}

	var tasks []domain.Task
	switch s.ActiveView.Type {
	case state.ViewInbox:
		tasks = TasksForProject(s, domain.InboxID)
	case state.ViewProject:
		tasks = TasksForProject(s, s.ActiveView.ProjectID)
	case state.ViewToday:
		tasks = TodayTasks(s, now)
	case state.ViewUpcoming:
		tasks = UpcomingTasks(s, now, upcomingDays)
	case state.ViewCompleted:
		tasks = CompletedTasks(s)
	case state.ViewTag:
		tasks = TasksByTag(s, s.ActiveView.Tag)
	case state.ViewSearch:
		tasks = TasksBySearch(s, s.ActiveView.Query)
	default:
		return []domain.Task{}
	}
	return ApplySort(tasks, s.Sort)
}

// IncompleteCount reports how many of a project's tasks are not done,
// for sidebar badges.
func IncompleteCount(s state.AppState, projectID string) int {
	count := 0
	for _, t := range TasksForProject(s, projectID) {
		if !t.Done {
			count++
		}
	}
	return count
}

func parseDue(t domain.Task) (time.Time, bool) {
	if t.DueDate == "" {
		return time.Time{}, false
	}
	due, err := time.Parse(dateLayout, t.DueDate)
	if err != nil {
		return time.Time{}, false
	}
	return due, true
}
