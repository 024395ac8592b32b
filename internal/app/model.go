// Package app contains the main application model and TEA implementation.
package app

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/alimkhann/odin-todo/internal/config"
	"github.com/alimkhann/odin-todo/internal/domain"
	"github.com/alimkhann/odin-todo/internal/query"
	"github.com/alimkhann/odin-todo/internal/service"
	"github.com/alimkhann/odin-todo/internal/state"
	"github.com/alimkhann/odin-todo/internal/ui/styles"
)

// Mode is the input mode of the UI.
type Mode int

const (
	ModeNormal Mode = iota
	ModeAddTask
	ModeAddProject
	ModeSearch
)

// Model is the main application state.
type Model struct {
	svc    *service.Service
	cfg    *config.Config
	logger *slog.Logger
	styles *styles.Styles

	mode   Mode
	cursor int
	input  textinput.Model

	width  int
	height int

	status    string
	statusErr bool
	undo      func() error

	// now is swappable for tests
	now func() time.Time
}

// New creates the application model over a service.
func New(svc *service.Service, cfg *config.Config, logger *slog.Logger) Model {
	input := textinput.New()
	input.CharLimit = 200
	return Model{
		svc:    svc,
		cfg:    cfg,
		logger: logger,
		styles: styles.New(),
		input:  input,
		width:  80,
		height: 24,
		now:    time.Now,
	}
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// visibleTasks resolves the active view through the selector layer.
func (m Model) visibleTasks() []domain.Task {
	return query.TasksForView(m.svc.State(), m.now(), m.cfg.UpcomingDays)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if m.mode != ModeNormal {
			return m.updateInput(msg)
		}
		return m.updateNormal(msg)
	}
	return m, nil
}

func (m Model) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "j", "down":
		m.moveCursor(1)
	case "k", "up":
		m.moveCursor(-1)
	case "g":
		m.cursor = 0
		m.syncSelection()
	case "G":
		m.cursor = max(0, len(m.visibleTasks())-1)
		m.syncSelection()

	case " ", "x":
		if task, ok := m.currentTask(); ok {
			m.report(m.svc.ToggleTask(task.ID), "toggled %q", task.Title)
		}

	case "d":
		if task, ok := m.currentTask(); ok {
			undo, err := m.svc.DeleteTask(task.ID)
			if err == nil {
				m.undo = undo
			}
			m.report(err, "deleted %q (u to undo)", task.Title)
			m.clampCursor()
		}

	case "u":
		if m.undo != nil {
			m.report(m.undo(), "restored")
			m.undo = nil
		}

	case "1", "2", "3", "4":
		if task, ok := m.currentTask(); ok {
			priority := int(msg.String()[0] - '0')
			m.report(m.svc.UpdateTask(task.ID, state.SetPriority{Priority: priority}),
				"priority p%d", priority)
		}

	case "a":
		m.enterInput(ModeAddTask, "add task: ")
	case "n":
		m.enterInput(ModeAddProject, "new project: ")
	case "/":
		m.enterInput(ModeSearch, "search: ")

	case "tab":
		m.cycleView(1)
	case "shift+tab":
		m.cycleView(-1)

	case "s":
		m.cycleSort()
	}
	return m, nil
}

func (m *Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.leaveInput()
		return *m, nil
	case "enter":
		m.submitInput()
		return *m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return *m, cmd
}

func (m *Model) enterInput(mode Mode, prompt string) {
	m.mode = mode
	m.input.Prompt = prompt
	m.input.SetValue("")
	m.input.Focus()
}

func (m *Model) leaveInput() {
	m.mode = ModeNormal
	m.input.Blur()
	m.input.SetValue("")
}

func (m *Model) submitInput() {
	value := strings.TrimSpace(m.input.Value())
	mode := m.mode
	m.leaveInput()
	if value == "" && mode != ModeSearch {
		return
	}

	switch mode {
	case ModeAddTask:
		_, err := m.svc.CreateTask(domain.TaskParams{Title: value}, m.currentProjectID())
		m.report(err, "added %q", value)
	case ModeAddProject:
		_, err := m.svc.CreateProject(value, true)
		m.cursor = 0
		m.report(err, "project %q", value)
	case ModeSearch:
		m.cursor = 0
		m.report(m.svc.SetActiveView(state.SearchView(value)), "search %q", value)
	}
}

// currentProjectID is where new tasks land: the viewed project, or the
// Inbox when the view is not a project.
func (m Model) currentProjectID() string {
	if view := m.svc.State().ActiveView; view.Type == state.ViewProject {
		return view.ProjectID
	}
	return domain.InboxID
}

func (m Model) currentTask() (domain.Task, bool) {
	tasks := m.visibleTasks()
	if m.cursor < 0 || m.cursor >= len(tasks) {
		return domain.Task{}, false
	}
	return tasks[m.cursor], true
}

func (m *Model) moveCursor(delta int) {
	tasks := m.visibleTasks()
	if len(tasks) == 0 {
		m.cursor = 0
		return
	}
	m.cursor += delta
	if m.cursor < 0 {
		m.cursor = 0
	}
	if m.cursor >= len(tasks) {
		m.cursor = len(tasks) - 1
	}
	m.syncSelection()
}

func (m *Model) clampCursor() {
	if n := len(m.visibleTasks()); m.cursor >= n {
		m.cursor = max(0, n-1)
	}
}

func (m *Model) syncSelection() {
	if task, ok := m.currentTask(); ok {
		_ = m.svc.SelectTask(task.ID)
	} else {
		_ = m.svc.DeselectTask()
	}
}

// viewCycle is the tab order: Inbox, the other projects, then the
// computed views.
func (m Model) viewCycle() []state.View {
	st := m.svc.State()
	views := make([]state.View, 0, len(st.Projects)+3)
	for _, p := range st.Projects {
		views = append(views, state.ProjectView(p.ID))
	}
	views = append(views, state.TodayView(), state.UpcomingView(), state.CompletedView())
	return views
}

func (m *Model) cycleView(delta int) {
	views := m.viewCycle()
	current := m.svc.State().ActiveView
	index := 0
	for i, v := range views {
		if v == current {
			index = i
			break
		}
	}
	next := views[(index+delta+len(views))%len(views)]
	m.cursor = 0
	m.report(m.svc.SetActiveView(next), "")
}

var sortCycle = []state.SortMode{
	state.SortManual, state.SortDueDate, state.SortPriority, state.SortTitle, state.SortUpdated,
}

func (m *Model) cycleSort() {
	current := m.svc.State().Sort
	index := 0
	for i, mode := range sortCycle {
		if mode == current {
			index = i
			break
		}
	}
	next := sortCycle[(index+1)%len(sortCycle)]
	m.report(m.svc.SetSort(next), "sort: %s", next)
}

// report records the outcome of a command for the status bar.
func (m *Model) report(err error, format string, args ...interface{}) {
	if err != nil {
		m.statusErr = true
		switch {
		case errors.Is(err, domain.ErrInboxProtected):
			m.status = "the Inbox cannot be changed"
		case domain.IsValidation(err):
			m.status = err.Error()
		default:
			m.status = err.Error()
			m.logger.Error("command failed", "err", err)
		}
		return
	}
	m.statusErr = false
	if format == "" {
		m.status = ""
		return
	}
	m.status = fmt.Sprintf(format, args...)
}
