// Package service is the command layer between the UI and the store.
// It owns the workflows that span more than one action (recurrence
// spawning, delete-with-undo, import) and the guards that are not the
// reducer's business, such as protecting the Inbox.
package service

import (
	"log/slog"

	"github.com/alimkhann/odin-todo/internal/state"
)

// Service wraps a store with the application's command surface.
type Service struct {
	store  *state.Store
	logger *slog.Logger
}

func New(store *state.Store, logger *slog.Logger) *Service {
	return &Service{store: store, logger: logger}
}

// State returns the current state snapshot.
func (s *Service) State() state.AppState {
	return s.store.GetState()
}

// Subscribe registers a store listener and returns its unsubscribe.
func (s *Service) Subscribe(fn state.Listener) func() {
	return s.store.Subscribe(fn)
}

// SetActiveView switches the visible task slice.
func (s *Service) SetActiveView(v state.View) error {
	return s.store.Dispatch(state.SetActiveView(v))
}

// SetSort switches the display-sort mode.
func (s *Service) SetSort(mode state.SortMode) error {
	return s.store.Dispatch(state.SetSort(mode))
}

// SelectTask focuses a task in the UI.
func (s *Service) SelectTask(id string) error {
	return s.store.Dispatch(state.SelectTask(id))
}

// DeselectTask clears the UI focus.
func (s *Service) DeselectTask() error {
	return s.store.Dispatch(state.DeselectTask())
}
