package service

import (
	"fmt"

	"github.com/alimkhann/odin-todo/internal/persist"
	"github.com/alimkhann/odin-todo/internal/state"
)

// Export renders the current state as a pretty-printed JSON backup.
func (s *Service) Export() ([]byte, error) {
	return persist.Export(s.store.GetState())
}

// Import replaces the whole state with a parsed backup. The document
// is migrated and rehydrated like persisted state, so older exports
// import cleanly and invalid entries are dropped rather than failing
// the import.
func (s *Service) Import(data []byte) error {
	st, err := persist.Parse(data, s.logger)
	if err != nil {
		return fmt.Errorf("import: %w", err)
	}
	if err := s.store.Dispatch(state.InitFrom(st)); err != nil {
		return fmt.Errorf("import: %w", err)
	}
	s.logger.Info("state imported", "projects", len(st.Projects), "tasks", len(st.Tasks))
	return nil
}
