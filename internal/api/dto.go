package api

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/vistrack/internal/animation"
	"github.com/starford/vistrack/internal/index"
	"github.com/starford/vistrack/internal/sequenceservice"
)

// CreateSequenceRequest is the request body for creating a sequence.
// Either Content (a complete document) or Name must be given.
type CreateSequenceRequest struct {
	Path      string  `json:"path" example:"shots/shot010.yaml" validate:"required"`
	Name      string  `json:"name,omitempty" example:"Shot010"`
	FrameRate float64 `json:"frame_rate,omitempty" example:"24"`
	Content   string  `json:"content,omitempty" example:"name: Shot010\ntracks: []\n"`
}

// Validate validates the request.
func (r CreateSequenceRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Path, validation.Required),
		validation.Field(&r.Name, validation.When(r.Content == "", validation.Required.Error("name or content is required"))),
		validation.Field(&r.FrameRate, validation.Min(0.0)),
	)
}

// UpdateSequenceRequest is the request body for replacing a document.
type UpdateSequenceRequest struct {
	Content string `json:"content" example:"name: Shot010\ntracks: []\n" validate:"required"`
}

// Validate validates the request.
func (r UpdateSequenceRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Content, validation.Required),
	)
}

// AddTrackRequest is the request body for appending a visibility track.
type AddTrackRequest struct {
	Name                string `json:"name" example:"VisTrack" validate:"required"`
	Interpolation       string `json:"interpolation,omitempty" example:"Linear"`
	PropagateToChildren *bool  `json:"propagate_to_children,omitempty"`
}

// Validate validates the request.
func (r AddTrackRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required),
		validation.Field(&r.Interpolation, validation.In(modeNames()...)),
	)
}

// InterpolationRequest is the request body for changing a track's mode.
type InterpolationRequest struct {
	Interpolation string `json:"interpolation" example:"Cubic" validate:"required"`
}

// Validate validates the request.
func (r InterpolationRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Interpolation, validation.Required, validation.In(modeNames()...)),
	)
}

// PropagationRequest is the request body for the propagate-to-children flag.
type PropagationRequest struct {
	PropagateToChildren *bool `json:"propagate_to_children" validate:"required"`
}

// Validate validates the request.
func (r PropagationRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.PropagateToChildren, validation.NotNil),
	)
}

// AddFrameRequest is the request body for appending a keyframe.
type AddFrameRequest struct {
	Frame   *int `json:"frame" example:"10" validate:"required"`
	Visible bool `json:"visible" example:"true"`
}

// Validate validates the request.
func (r AddFrameRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Frame, validation.NotNil),
	)
}

// SequenceDetail is the full sequence response type (aliased from the domain layer).
type SequenceDetail = sequenceservice.SequenceDetail

// CatalogEntry is the catalogued track listing of a sequence.
type CatalogEntry = sequenceservice.CatalogEntry

// SequenceListItem is a lightweight item in a list response (aliased from the domain layer).
type SequenceListItem = sequenceservice.SequenceListItem

// TrackDetail is a track with its frames (aliased from the domain layer).
type TrackDetail = sequenceservice.TrackDetail

// FrameResult is returned after appending a keyframe.
type FrameResult = sequenceservice.FrameResult

// SequenceListResponse wraps paginated sequence listings.
type SequenceListResponse struct {
	Sequences []SequenceListItem `json:"sequences" validate:"required"`
	Total     int                `json:"total" example:"42" validate:"required"`
}

// SearchResponse wraps search results.
type SearchResponse struct {
	Results []index.TrackHit `json:"results" validate:"required"`
}

func modeNames() []interface{} {
	modes := animation.CurveInterpModes()
	out := make([]interface{}, len(modes))
	for i, m := range modes {
		out[i] = m.String()
	}
	return out
}
