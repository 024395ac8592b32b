package persist

import (
	"encoding/json"
	"fmt"

	"github.com/alimkhann/odin-todo/internal/domain"
	"github.com/alimkhann/odin-todo/internal/state"
)

// Snapshot is the persisted/exported form of the state. Transient UI
// fields (the selected task) are dropped; entities appear in their
// plain-record form.
type Snapshot struct {
	SchemaVersion int                          `json:"schemaVersion"`
	ActiveView    ViewRecord                   `json:"activeView"`
	Sort          string                       `json:"sort,omitempty"`
	Projects      []domain.ProjectRecord       `json:"projects"`
	Tasks         map[string]domain.TaskRecord `json:"tasks"`
}

// ViewRecord is the wire form of the active-view union.
type ViewRecord struct {
	Type      string `json:"type"`
	ProjectID string `json:"projectId,omitempty"`
	Tag       string `json:"tag,omitempty"`
	Query     string `json:"q,omitempty"`
}

// Serialize converts state into its storable snapshot.
func Serialize(s state.AppState) Snapshot {
	projects := make([]domain.ProjectRecord, len(s.Projects))
	for i, p := range s.Projects {
		projects[i] = p.ToRecord()
	}
	tasks := make(map[string]domain.TaskRecord, len(s.Tasks))
	for id, t := range s.Tasks {
		tasks[id] = t.ToRecord()
	}
	return Snapshot{
		SchemaVersion: s.SchemaVersion,
		ActiveView: ViewRecord{
			Type:      string(s.ActiveView.Type),
			ProjectID: s.ActiveView.ProjectID,
			Tag:       s.ActiveView.Tag,
			Query:     s.ActiveView.Query,
		},
		Sort:     string(s.Sort),
		Projects: projects,
		Tasks:    tasks,
	}
}

// Export renders the snapshot as pretty-printed JSON, the interchange
// format for backup files.
func Export(s state.AppState) ([]byte, error) {
	data, err := json.MarshalIndent(Serialize(s), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("export state: %w", err)
	}
	return data, nil
}
