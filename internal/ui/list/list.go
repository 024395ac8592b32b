// Package list renders the task list for the active view as a
// scrollable table.
package list

import (
	"fmt"
	"strings"
	"time"

	"github.com/alimkhann/odin-todo/internal/domain"
	"github.com/alimkhann/odin-todo/internal/ui/styles"
)

// ListView renders a slice of tasks with a cursor.
type ListView struct {
	tasks  []domain.Task
	cursor int
	styles *styles.Styles
	width  int
	height int
	today  string // YYYY-MM-DD, for due date coloring
}

// NewListView creates a list over the given tasks.
func NewListView(tasks []domain.Task, width, height int, now time.Time) *ListView {
	return &ListView{
		tasks:  tasks,
		styles: styles.New(),
		width:  width,
		height: height,
		today:  now.Format("2006-01-02"),
	}
}

// SetCursor clamps and sets the cursor position.
func (lv *ListView) SetCursor(index int) {
	if index < 0 {
		index = 0
	}
	if index >= len(lv.tasks) {
		index = max(0, len(lv.tasks)-1)
	}
	lv.cursor = index
}

// Render renders the visible window of rows around the cursor.
func (lv *ListView) Render() string {
	if len(lv.tasks) == 0 {
		return lv.styles.Empty.Render("No tasks here. Press a to add one.")
	}

	start, end := lv.window()
	var b strings.Builder
	for i := start; i < end; i++ {
		b.WriteString(lv.renderRow(i, lv.tasks[i]))
		if i < end-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

// window returns the visible slice bounds keeping the cursor in view.
func (lv *ListView) window() (int, int) {
	if lv.height <= 0 || len(lv.tasks) <= lv.height {
		return 0, len(lv.tasks)
	}
	start := lv.cursor - lv.height/2
	if start < 0 {
		start = 0
	}
	end := start + lv.height
	if end > len(lv.tasks) {
		end = len(lv.tasks)
		start = end - lv.height
	}
	return start, end
}

func (lv *ListView) renderRow(index int, task domain.Task) string {
	active := index == lv.cursor

	cursor := "  "
	if active {
		cursor = lv.styles.InputPrompt.Render("❯ ")
	}

	check := lv.styles.CheckOpen.Render("[ ]")
	if task.Done {
		check = lv.styles.CheckDone.Render("[x]")
	}

	pri := lv.styles.PriorityBadge(task.Priority).Render(fmt.Sprintf("p%d", task.Priority))

	title := task.Title
	titleStyle := lv.styles.Row
	if task.Done {
		titleStyle = lv.styles.TitleDone
	} else if active {
		titleStyle = lv.styles.RowActive
	}
	titleWidth := max(10, lv.width-30)
	if r := []rune(title); len(r) > titleWidth {
		title = string(r[:titleWidth-1]) + "…"
	}

	parts := []string{cursor, check, pri, titleStyle.Render(title)}
	if due := lv.renderDue(task); due != "" {
		parts = append(parts, due)
	}
	if task.Recurrence != nil {
		parts = append(parts, lv.styles.Recur.Render("↻"))
	}
	if len(task.Checklist) > 0 {
		done := 0
		for _, item := range task.Checklist {
			if item.Done {
				done++
			}
		}
		parts = append(parts, lv.styles.DueNormal.Render(fmt.Sprintf("%d/%d", done, len(task.Checklist))))
	}
	for _, tag := range task.Tags {
		parts = append(parts, lv.styles.Tag.Render("#"+tag))
	}

	return strings.Join(parts, " ")
}

func (lv *ListView) renderDue(task domain.Task) string {
	if task.DueDate == "" {
		return ""
	}
	label := task.DueDate
	if task.DueTime != "" {
		label += " " + task.DueTime
	}
	style := lv.styles.DueNormal
	switch {
	case task.Done:
		// keep the muted style
	case task.DueDate < lv.today:
		style = lv.styles.DueOverdue
	case task.DueDate == lv.today:
		style = lv.styles.DueToday
	}
	return style.Render(label)
}
