package persist

import (
	"log/slog"

	"github.com/alimkhann/odin-todo/internal/state"
)

// migration transforms a raw snapshot map from one schema version to
// the next. Steps are forward-only and applied in order.
type migration struct {
	fromVersion int
	toVersion   int
	apply       func(raw map[string]interface{}) map[string]interface{}
}

var migrations = []migration{
	// 0 -> 1: earliest snapshots had no version field at all.
	{
		fromVersion: 0,
		toVersion:   1,
		apply: func(raw map[string]interface{}) map[string]interface{} {
			raw["schemaVersion"] = 1
			return raw
		},
	},
	// 1 -> 2: tasks were stored under "todos" and project membership
	// under "todoIds".
	{
		fromVersion: 1,
		toVersion:   2,
		apply: func(raw map[string]interface{}) map[string]interface{} {
			if todos, ok := raw["todos"]; ok {
				raw["tasks"] = todos
				delete(raw, "todos")
			}
			if projects, ok := raw["projects"].([]interface{}); ok {
				for _, entry := range projects {
					project, ok := entry.(map[string]interface{})
					if !ok {
						continue
					}
					if ids, ok := project["todoIds"]; ok {
						project["taskIds"] = ids
						delete(project, "todoIds")
					}
				}
			}
			raw["schemaVersion"] = 2
			return raw
		},
	},
}

// Migrate upgrades a raw snapshot map to the current schema version.
// A version newer than this build understands is passed through
// unchanged with a warning: failing to load must never prevent the app
// from starting, so migration has no error path.
func Migrate(raw map[string]interface{}, logger *slog.Logger) map[string]interface{} {
	if raw == nil {
		return nil
	}

	version := 0
	if v, ok := raw["schemaVersion"].(float64); ok {
		version = int(v)
	}

	if version > state.SchemaVersion {
		logger.Warn("persisted state has unknown schema version, loading best-effort",
			"version", version, "supported", state.SchemaVersion)
		return raw
	}

	for _, m := range migrations {
		if m.fromVersion == version {
			raw = m.apply(raw)
			logger.Info("migrated persisted state", "from", m.fromVersion, "to", m.toVersion)
			version = m.toVersion
		}
	}
	return raw
}
