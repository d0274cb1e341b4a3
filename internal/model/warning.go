package model

import "fmt"

// Snapshot is the traversal state captured when a warning is raised.
//
// SongID and ArrangementID are zero when no song or arrangement was active.
type Snapshot struct {
	Path          string `json:"path"`
	SongID        int    `json:"songId,omitempty"`
	Song          string `json:"song,omitempty"`
	ArrangementID int    `json:"arrangementId,omitempty"`
	Arrangement   string `json:"arrangement,omitempty"`
}

// Warning is a non-fatal anomaly found while indexing or publishing.
// Warnings are immutable once recorded.
type Warning struct {
	Context Snapshot `json:"context"`
	Entry   string   `json:"entry"`
	Message string   `json:"message"`
}

// String formats the warning for log output.
func (w Warning) String() string {
	return fmt.Sprintf("%s: %s (%s)", w.Context.Path, w.Message, w.Entry)
}
