package domain

import (
	"time"

	"github.com/google/uuid"
)

// newID generates a prefixed unique id. Swapped in tests for
// deterministic output.
var newID = func(prefix string) string {
	return prefix + "_" + uuid.NewString()
}

// Now is the clock used for entity timestamps. Swapped in tests.
var Now = time.Now

// NewTaskID returns a fresh task id.
func NewTaskID() string { return newID("t") }

// NewProjectID returns a fresh project id.
func NewProjectID() string { return newID("p") }

// NewChecklistItemID returns a fresh checklist item id.
func NewChecklistItemID() string { return newID("c") }
