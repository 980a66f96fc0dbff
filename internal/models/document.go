// Package models defines the storage-facing types shared by vistrack
// layers.
package models

import "time"

// DocumentMetadata describes one sequence document in the store.
type DocumentMetadata struct {
	Path      string    `json:"path"`
	Checksum  string    `json:"checksum"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TrackSummary is the catalog view of one track of a sequence.
type TrackSummary struct {
	Position            int    `json:"position"`
	Name                string `json:"name"`
	Kind                string `json:"kind"`
	Interpolation       string `json:"interpolation"`
	PropagateToChildren bool   `json:"propagate_to_children"`
	FrameCount          int    `json:"frame_count"`
	MinFrame            *int   `json:"min_frame,omitempty"`
	MaxFrame            *int   `json:"max_frame,omitempty"`
}
