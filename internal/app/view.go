package app

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/alimkhann/odin-todo/internal/query"
	"github.com/alimkhann/odin-todo/internal/state"
	"github.com/alimkhann/odin-todo/internal/ui/list"
)

func (m Model) View() string {
	header := m.renderHeader()
	footer := m.renderFooter()

	chromeHeight := lipgloss.Height(header) + lipgloss.Height(footer)
	listHeight := max(1, m.height-chromeHeight)

	tasks := m.visibleTasks()
	lv := list.NewListView(tasks, m.width, listHeight, m.now())
	lv.SetCursor(m.cursor)
	body := lv.Render()

	if gap := listHeight - lipgloss.Height(body); gap > 0 {
		body += strings.Repeat("\n", gap)
	}
	return header + "\n" + body + "\n" + footer
}

func (m Model) renderHeader() string {
	st := m.svc.State()
	active := st.ActiveView

	tabs := make([]string, 0, len(st.Projects)+3)
	for _, v := range m.viewCycle() {
		label := m.viewLabel(v)
		if v == active {
			tabs = append(tabs, m.styles.ViewActive.Render(label))
		} else {
			tabs = append(tabs, m.styles.ViewTab.Render(label))
		}
	}
	if active.Type == state.ViewTag || active.Type == state.ViewSearch {
		tabs = append(tabs, m.styles.ViewActive.Render(m.viewLabel(active)))
	}

	line := lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
	return line + "\n" + m.styles.Separator.Render(strings.Repeat("─", max(0, m.width)))
}

func (m Model) viewLabel(v state.View) string {
	st := m.svc.State()
	switch v.Type {
	case state.ViewProject:
		if p, ok := st.ProjectByID(v.ProjectID); ok {
			return p.Name
		}
		return v.ProjectID
	case state.ViewInbox:
		return "Inbox"
	case state.ViewToday:
		return "Today"
	case state.ViewUpcoming:
		return "Upcoming"
	case state.ViewCompleted:
		return "Done"
	case state.ViewTag:
		return "#" + v.Tag
	case state.ViewSearch:
		return fmt.Sprintf("search: %q", v.Query)
	}
	return string(v.Type)
}

func (m Model) renderFooter() string {
	if m.mode != ModeNormal {
		return m.input.View()
	}

	st := m.svc.State()
	open := 0
	if st.ActiveView.Type == state.ViewProject {
		open = query.IncompleteCount(st, st.ActiveView.ProjectID)
	} else {
		for _, task := range st.Tasks {
			if !task.Done {
				open++
			}
		}
	}
	left := m.styles.StatusMode.Render(fmt.Sprintf(" %d open ", open))
	if st.Sort != state.SortManual {
		left += m.styles.StatusBar.Render("sort:" + string(st.Sort))
	}

	middle := ""
	if m.status != "" {
		if m.statusErr {
			middle = m.styles.StatusErr.Render(m.status)
		} else {
			middle = m.styles.StatusHint.Render(m.status)
		}
	}

	hints := m.styles.StatusHint.Render("a add · space done · d del · u undo · / search · tab views · q quit")
	bar := left + " " + middle
	gap := m.width - lipgloss.Width(bar) - lipgloss.Width(hints)
	if gap > 0 {
		bar += strings.Repeat(" ", gap)
		bar += hints
	}
	return bar
}
