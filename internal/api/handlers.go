package api

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/starford/vistrack/internal/animation"
	"github.com/starford/vistrack/internal/sequenceservice"
)

// Handler holds API route handlers.
type Handler struct {
	svc *sequenceservice.Service
}

// NewHandler creates a new Handler.
func NewHandler(svc *sequenceservice.Service) *Handler {
	return &Handler{svc: svc}
}

// sequencePath extracts the document path from the URL. Nested paths are
// sent with encoded slashes (shots%2Fshot010.yaml). chi routes on RawPath
// when it is set, so only then is the parameter still escaped.
func sequencePath(r *http.Request) string {
	raw := chi.URLParam(r, "path")
	if r.URL.RawPath == "" {
		return raw
	}
	decoded, err := url.PathUnescape(raw)
	if err != nil {
		return raw
	}
	return decoded
}

// intParam parses a numeric URL parameter, writing a 400 on failure.
func intParam(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	v, err := strconv.Atoi(chi.URLParam(r, name))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(name+" must be an integer"))
		return 0, false
	}
	return v, true
}

// ListSequences handles GET /api/sequences.
//
//	@Summary		List sequences with optional pagination
//	@Tags			sequences
//	@Produce		json
//	@Param			limit	query		int		false	"Page size"
//	@Param			offset	query		int		false	"Page offset"
//	@Param			sort	query		string	false	"Sort field"	Enums(updated_at, name, path)
//	@Success		200		{object}	SequenceListResponse
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/sequences [get]
func (h *Handler) ListSequences(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	offset, _ := strconv.Atoi(q.Get("offset"))

	items, total, err := h.svc.ListSequences(r.Context(), limit, offset, q.Get("sort"))
	if err != nil {
		writeServiceError(w, "list sequences", "", err)
		return
	}
	writeJSON(w, http.StatusOK, SequenceListResponse{Sequences: items, Total: total})
}

// CreateSequence handles POST /api/sequences.
//
//	@Summary		Create a sequence, empty or from a complete document
//	@Tags			sequences
//	@Accept			json
//	@Produce		json
//	@Param			body	body		CreateSequenceRequest	true	"Sequence to create"
//	@Success		201		{object}	SequenceDetail
//	@Failure		400		{object}	errResponse
//	@Failure		409		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/sequences [post]
func (h *Handler) CreateSequence(w http.ResponseWriter, r *http.Request) {
	var req CreateSequenceRequest
	if !decodeBody(w, r, &req) {
		return
	}

	var (
		seq *SequenceDetail
		err error
	)
	if req.Content != "" {
		seq, err = h.svc.ImportDocument(r.Context(), req.Path, []byte(req.Content))
	} else {
		seq, err = h.svc.CreateSequence(r.Context(), req.Path, req.Name, req.FrameRate)
	}
	if err != nil {
		writeServiceError(w, "create sequence", req.Path, err)
		return
	}
	w.Header().Set("ETag", strconv.Quote(seq.Checksum))
	writeJSON(w, http.StatusCreated, seq)
}

// GetSequence handles GET /api/sequences/{path}.
//
//	@Summary		Get a single sequence by path
//	@Tags			sequences
//	@Produce		json
//	@Param			path	path		string	true	"Document path"
//	@Success		200		{object}	SequenceDetail
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/sequences/{path} [get]
func (h *Handler) GetSequence(w http.ResponseWriter, r *http.Request) {
	path := sequencePath(r)
	seq, err := h.svc.GetSequence(r.Context(), path)
	if err != nil {
		writeServiceError(w, "get sequence", path, err)
		return
	}
	w.Header().Set("ETag", strconv.Quote(seq.Checksum))
	writeJSON(w, http.StatusOK, seq)
}

// UpdateSequence handles PUT /api/sequences/{path}.
//
//	@Summary		Replace a document with optimistic concurrency
//	@Tags			sequences
//	@Accept			json
//	@Produce		json
//	@Param			path		path		string					true	"Document path"
//	@Param			If-Match	header		string					false	"SHA-256 checksum for optimistic concurrency"
//	@Param			body		body		UpdateSequenceRequest	true	"Replacement document"
//	@Success		200			{object}	SequenceDetail
//	@Failure		400			{object}	errResponse
//	@Failure		404			{object}	errResponse
//	@Failure		409			{object}	errResponse
//	@Security		BearerAuth
//	@Router			/sequences/{path} [put]
func (h *Handler) UpdateSequence(w http.ResponseWriter, r *http.Request) {
	path := sequencePath(r)
	var req UpdateSequenceRequest
	if !decodeBody(w, r, &req) {
		return
	}
	seq, err := h.svc.PutDocument(r.Context(), path, []byte(req.Content), r.Header.Get("If-Match"))
	if err != nil {
		writeServiceError(w, "update sequence", path, err)
		return
	}
	w.Header().Set("ETag", strconv.Quote(seq.Checksum))
	writeJSON(w, http.StatusOK, seq)
}

// DeleteSequence handles DELETE /api/sequences/{path}.
//
//	@Summary		Delete a sequence
//	@Tags			sequences
//	@Param			path	path	string	true	"Document path"
//	@Success		204		"Sequence deleted"
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/sequences/{path} [delete]
func (h *Handler) DeleteSequence(w http.ResponseWriter, r *http.Request) {
	path := sequencePath(r)
	if err := h.svc.DeleteSequence(r.Context(), path); err != nil {
		writeServiceError(w, "delete sequence", path, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AddTrack handles POST /api/sequences/{path}/tracks.
//
//	@Summary		Append a visibility track
//	@Tags			tracks
//	@Accept			json
//	@Produce		json
//	@Param			path	path		string			true	"Document path"
//	@Param			body	body		AddTrackRequest	true	"Track to append"
//	@Success		201		{object}	TrackDetail
//	@Failure		400		{object}	errResponse
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/sequences/{path}/tracks [post]
func (h *Handler) AddTrack(w http.ResponseWriter, r *http.Request) {
	path := sequencePath(r)
	var req AddTrackRequest
	if !decodeBody(w, r, &req) {
		return
	}
	nt := sequenceservice.NewTrack{Name: req.Name, PropagateToChildren: req.PropagateToChildren}
	if req.Interpolation != "" {
		mode, err := animation.ParseCurveInterpMode(req.Interpolation)
		if err != nil {
			writeServiceError(w, "add track", path, err)
			return
		}
		nt.Interpolation = &mode
	}
	tr, err := h.svc.AddVisibilityTrack(r.Context(), path, nt)
	if err != nil {
		writeServiceError(w, "add track", path, err)
		return
	}
	writeJSON(w, http.StatusCreated, tr)
}

// RemoveTrack handles DELETE /api/sequences/{path}/tracks/{track}.
//
//	@Summary		Remove a track; later tracks shift down
//	@Tags			tracks
//	@Produce		json
//	@Param			path	path		string	true	"Document path"
//	@Param			track	path		int		true	"Track index"
//	@Success		200		{object}	SequenceDetail
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/sequences/{path}/tracks/{track} [delete]
func (h *Handler) RemoveTrack(w http.ResponseWriter, r *http.Request) {
	path := sequencePath(r)
	track, ok := intParam(w, r, "track")
	if !ok {
		return
	}
	seq, err := h.svc.RemoveTrack(r.Context(), path, track)
	if err != nil {
		writeServiceError(w, "remove track", path, err)
		return
	}
	writeJSON(w, http.StatusOK, seq)
}

// SetInterpolation handles PUT /api/sequences/{path}/tracks/{track}/interpolation.
//
//	@Summary		Set a track's curve interpolation mode
//	@Tags			tracks
//	@Accept			json
//	@Produce		json
//	@Param			path	path		string					true	"Document path"
//	@Param			track	path		int						true	"Track index"
//	@Param			body	body		InterpolationRequest	true	"Mode"
//	@Success		200		{object}	TrackDetail
//	@Failure		400		{object}	errResponse
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/sequences/{path}/tracks/{track}/interpolation [put]
func (h *Handler) SetInterpolation(w http.ResponseWriter, r *http.Request) {
	path := sequencePath(r)
	track, ok := intParam(w, r, "track")
	if !ok {
		return
	}
	var req InterpolationRequest
	if !decodeBody(w, r, &req) {
		return
	}
	mode, err := animation.ParseCurveInterpMode(req.Interpolation)
	if err != nil {
		writeServiceError(w, "set interpolation", path, err)
		return
	}
	tr, err := h.svc.SetCurveInterpMode(r.Context(), path, track, mode)
	if err != nil {
		writeServiceError(w, "set interpolation", path, err)
		return
	}
	writeJSON(w, http.StatusOK, tr)
}

// SetPropagation handles PUT /api/sequences/{path}/tracks/{track}/propagation.
//
//	@Summary		Set whether visibility propagates to children
//	@Tags			tracks
//	@Accept			json
//	@Produce		json
//	@Param			path	path		string				true	"Document path"
//	@Param			track	path		int					true	"Track index"
//	@Param			body	body		PropagationRequest	true	"Flag"
//	@Success		200		{object}	TrackDetail
//	@Failure		400		{object}	errResponse
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/sequences/{path}/tracks/{track}/propagation [put]
func (h *Handler) SetPropagation(w http.ResponseWriter, r *http.Request) {
	path := sequencePath(r)
	track, ok := intParam(w, r, "track")
	if !ok {
		return
	}
	var req PropagationRequest
	if !decodeBody(w, r, &req) {
		return
	}
	tr, err := h.svc.SetPropagateToChildren(r.Context(), path, track, *req.PropagateToChildren)
	if err != nil {
		writeServiceError(w, "set propagation", path, err)
		return
	}
	writeJSON(w, http.StatusOK, tr)
}

// ListTracks handles GET /api/sequences/{path}/tracks.
//
//	@Summary		List the catalogued tracks of a sequence
//	@Tags			tracks
//	@Produce		json
//	@Param			path	path		string	true	"Document path"
//	@Success		200		{object}	CatalogEntry
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/sequences/{path}/tracks [get]
func (h *Handler) ListTracks(w http.ResponseWriter, r *http.Request) {
	path := sequencePath(r)
	entry, err := h.svc.ListTracks(r.Context(), path)
	if err != nil {
		writeServiceError(w, "list tracks", path, err)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

// ListFrames handles GET /api/sequences/{path}/tracks/{track}/frames.
//
//	@Summary		List the keyframes of a visibility track
//	@Tags			frames
//	@Produce		json
//	@Param			path	path		string	true	"Document path"
//	@Param			track	path		int		true	"Track index"
//	@Success		200		{object}	TrackDetail
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/sequences/{path}/tracks/{track}/frames [get]
func (h *Handler) ListFrames(w http.ResponseWriter, r *http.Request) {
	path := sequencePath(r)
	track, ok := intParam(w, r, "track")
	if !ok {
		return
	}
	tr, err := h.svc.ListFrames(r.Context(), path, track)
	if err != nil {
		writeServiceError(w, "list frames", path, err)
		return
	}
	writeJSON(w, http.StatusOK, tr)
}

// AddFrame handles POST /api/sequences/{path}/tracks/{track}/frames.
//
//	@Summary		Append a visibility keyframe
//	@Tags			frames
//	@Accept			json
//	@Produce		json
//	@Param			path	path		string			true	"Document path"
//	@Param			track	path		int				true	"Track index"
//	@Param			body	body		AddFrameRequest	true	"Keyframe"
//	@Success		201		{object}	FrameResult
//	@Failure		400		{object}	errResponse
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/sequences/{path}/tracks/{track}/frames [post]
func (h *Handler) AddFrame(w http.ResponseWriter, r *http.Request) {
	path := sequencePath(r)
	track, ok := intParam(w, r, "track")
	if !ok {
		return
	}
	var req AddFrameRequest
	if !decodeBody(w, r, &req) {
		return
	}
	res, err := h.svc.AddFrame(r.Context(), path, track, *req.Frame, req.Visible)
	if err != nil {
		writeServiceError(w, "add frame", path, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

// GetFrame handles GET /api/sequences/{path}/tracks/{track}/frames/{index}.
//
//	@Summary		Get one keyframe by index
//	@Tags			frames
//	@Produce		json
//	@Param			path	path		string	true	"Document path"
//	@Param			track	path		int		true	"Track index"
//	@Param			index	path		int		true	"Frame index"
//	@Success		200		{object}	sequenceservice.Frame
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/sequences/{path}/tracks/{track}/frames/{index} [get]
func (h *Handler) GetFrame(w http.ResponseWriter, r *http.Request) {
	path := sequencePath(r)
	track, ok := intParam(w, r, "track")
	if !ok {
		return
	}
	idx, ok := intParam(w, r, "index")
	if !ok {
		return
	}
	f, err := h.svc.GetFrame(r.Context(), path, track, idx)
	if err != nil {
		writeServiceError(w, "get frame", path, err)
		return
	}
	writeJSON(w, http.StatusOK, f)
}

// RemoveFrame handles DELETE /api/sequences/{path}/tracks/{track}/frames/{index}.
//
//	@Summary		Remove a keyframe; later frames shift down
//	@Tags			frames
//	@Produce		json
//	@Param			path	path		string	true	"Document path"
//	@Param			track	path		int		true	"Track index"
//	@Param			index	path		int		true	"Frame index"
//	@Success		200		{object}	TrackDetail
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/sequences/{path}/tracks/{track}/frames/{index} [delete]
func (h *Handler) RemoveFrame(w http.ResponseWriter, r *http.Request) {
	path := sequencePath(r)
	track, ok := intParam(w, r, "track")
	if !ok {
		return
	}
	idx, ok := intParam(w, r, "index")
	if !ok {
		return
	}
	tr, err := h.svc.RemoveFrame(r.Context(), path, track, idx)
	if err != nil {
		writeServiceError(w, "remove frame", path, err)
		return
	}
	writeJSON(w, http.StatusOK, tr)
}

// Search handles GET /api/search.
//
//	@Summary		Search tracks by track or sequence name
//	@Tags			search
//	@Produce		json
//	@Param			q		query		string	true	"Search query"
//	@Param			limit	query		int		false	"Max results"
//	@Success		200		{object}	SearchResponse
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/search [get]
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("query parameter 'q' is required"))
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	results, err := h.svc.SearchTracks(r.Context(), q, limit)
	if err != nil {
		writeServiceError(w, "search", q, err)
		return
	}
	writeJSON(w, http.StatusOK, SearchResponse{Results: results})
}
