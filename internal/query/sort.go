package query

import (
	"sort"
	"strings"

	"github.com/alimkhann/odin-todo/internal/domain"
	"github.com/alimkhann/odin-todo/internal/state"
)

// ApplySort orders a task list by the given display mode. The input
// slice is never modified; SortManual returns it as-is (the caller's
// order, typically the project's TaskIDs order).
func ApplySort(tasks []domain.Task, mode state.SortMode) []domain.Task {
	if mode == state.SortManual || mode == "" || len(tasks) == 0 {
		return tasks
	}

	result := make([]domain.Task, len(tasks))
	copy(result, tasks)

	switch mode {
	case state.SortDueDate:
		// Dated tasks first, earliest due date on top.
		sort.SliceStable(result, func(i, j int) bool {
			a, b := result[i].DueDate, result[j].DueDate
			if (a == "") != (b == "") {
				return a != ""
			}
			return a < b
		})

	case state.SortPriority:
		// 1 is the highest priority.
		sort.SliceStable(result, func(i, j int) bool {
			return result[i].Priority < result[j].Priority
		})

	case state.SortTitle:
		sort.SliceStable(result, func(i, j int) bool {
			return strings.ToLower(result[i].Title) < strings.ToLower(result[j].Title)
		})

	case state.SortUpdated:
		// Most recently touched first.
		sort.SliceStable(result, func(i, j int) bool {
			return result[i].UpdatedAt.After(result[j].UpdatedAt)
		})
	}

	return result
}
