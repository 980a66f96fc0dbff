package mcpserver

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/starford/vistrack/internal/sequenceservice"
	"github.com/starford/vistrack/internal/storage"
	"github.com/starford/vistrack/internal/testutil"
)

func testServer(t *testing.T) (*Server, storage.Provider) {
	t.Helper()
	_, store := testutil.TestStore(t)
	db := testutil.TestDB(t)
	return New(sequenceservice.NewService(store, db)), store
}

func callTool(t *testing.T, srv *Server, name string, args map[string]interface{}) *mcp.CallToolResult {
	t.Helper()
	ctx := context.Background()
	req := mcp.CallToolRequest{}
	req.Method = "tools/call"
	req.Params.Name = name
	req.Params.Arguments = args

	// Handlers are called directly; mcp-go has no in-process call helper.
	handlers := map[string]func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error){
		"list_sequences":            srv.listSequences,
		"read_sequence":             srv.readSequence,
		"list_tracks":               srv.listTracks,
		"search_tracks":             srv.searchTracks,
		"create_sequence":           srv.createSequence,
		"add_visibility_track":      srv.addVisibilityTrack,
		"add_visibility_frame":      srv.addVisibilityFrame,
		"get_visibility_frame":      srv.getVisibilityFrame,
		"remove_visibility_frame":   srv.removeVisibilityFrame,
		"set_curve_interp_mode":     srv.setCurveInterpMode,
		"set_propagate_to_children": srv.setPropagateToChildren,
		"get_document_contract":     srv.getDocumentContract,
	}
	h, ok := handlers[name]
	if !ok {
		t.Fatalf("unknown tool: %s", name)
	}
	result, err := h(ctx, req)
	if err != nil {
		t.Fatalf("tool %s error: %v", name, err)
	}
	return result
}

func resultText(r *mcp.CallToolResult) string {
	if len(r.Content) > 0 {
		if tc, ok := r.Content[0].(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

func resultJSON[T any](t *testing.T, r *mcp.CallToolResult) T {
	t.Helper()
	if r.IsError {
		t.Fatalf("tool error: %s", resultText(r))
	}
	var v T
	if err := json.Unmarshal([]byte(resultText(r)), &v); err != nil {
		t.Fatalf("decode %q: %v", resultText(r), err)
	}
	return v
}

func TestCreateAndReadSequence(t *testing.T) {
	srv, _ := testServer(t)

	r := callTool(t, srv, "create_sequence", map[string]interface{}{
		"path":       "shot.yaml",
		"name":       "Shot",
		"frame_rate": 25.0,
	})
	created := resultJSON[sequenceservice.SequenceDetail](t, r)
	if created.FrameRate != 25 {
		t.Errorf("frame rate = %v", created.FrameRate)
	}

	r = callTool(t, srv, "read_sequence", map[string]interface{}{"path": "shot.yaml"})
	got := resultJSON[sequenceservice.SequenceDetail](t, r)
	if got.Name != "Shot" || !strings.Contains(got.Content, "name: Shot") {
		t.Errorf("read = %+v", got)
	}
}

func TestCreateSequence_FromContent(t *testing.T) {
	srv, _ := testServer(t)
	r := callTool(t, srv, "create_sequence", map[string]interface{}{
		"path":    "doc.yaml",
		"content": testutil.SampleDocument,
	})
	seq := resultJSON[sequenceservice.SequenceDetail](t, r)
	if len(seq.Tracks) != 1 || seq.Tracks[0].FrameCount != 3 {
		t.Errorf("tracks = %+v", seq.Tracks)
	}
}

func TestCreateSequence_Errors(t *testing.T) {
	srv, _ := testServer(t)
	for _, args := range []map[string]interface{}{
		{"path": "x.yaml"},
		{"name": "x"},
		{"path": "x.md", "name": "x"},
		{"path": "x.yaml", "content": "tracks: []\n"},
	} {
		if r := callTool(t, srv, "create_sequence", args); !r.IsError {
			t.Errorf("expected error for %v", args)
		}
	}
}

func TestReadSequenceMissing(t *testing.T) {
	srv, _ := testServer(t)
	r := callTool(t, srv, "read_sequence", map[string]interface{}{"path": "nope.yaml"})
	if !r.IsError {
		t.Error("expected error for missing sequence")
	}
}

func TestVisibilityTools(t *testing.T) {
	srv, _ := testServer(t)
	_ = callTool(t, srv, "create_sequence", map[string]interface{}{"path": "v.yaml", "name": "V"})

	r := callTool(t, srv, "add_visibility_track", map[string]interface{}{
		"path":                  "v.yaml",
		"name":                  "VisTrack",
		"interpolation":         "Constant",
		"propagate_to_children": false,
	})
	tr := resultJSON[sequenceservice.TrackDetail](t, r)
	if tr.Interpolation != "Constant" || tr.PropagateToChildren {
		t.Errorf("track = %+v", tr)
	}

	for _, f := range []float64{0, 10, 20} {
		r := callTool(t, srv, "add_visibility_frame", map[string]interface{}{
			"path": "v.yaml", "track": 0.0, "frame": f, "visible": f != 10,
		})
		if r.IsError {
			t.Fatalf("add frame: %s", resultText(r))
		}
	}

	r = callTool(t, srv, "remove_visibility_frame", map[string]interface{}{"path": "v.yaml", "track": 0.0, "index": 0.0})
	after := resultJSON[sequenceservice.TrackDetail](t, r)
	if len(after.Frames) != 2 || after.Frames[0].FrameNumber != 10 {
		t.Errorf("after remove = %+v", after.Frames)
	}

	r = callTool(t, srv, "get_visibility_frame", map[string]interface{}{"path": "v.yaml", "track": 0.0, "index": 1.0})
	f := resultJSON[sequenceservice.Frame](t, r)
	if f.FrameNumber != 20 || !f.Visible {
		t.Errorf("frame = %+v", f)
	}

	r = callTool(t, srv, "get_visibility_frame", map[string]interface{}{"path": "v.yaml", "track": 0.0, "index": 2.0})
	if !r.IsError || !strings.Contains(resultText(r), "index out of range") {
		t.Errorf("out of range = %q", resultText(r))
	}

	r = callTool(t, srv, "set_curve_interp_mode", map[string]interface{}{"path": "v.yaml", "track": 0.0, "interpolation": "Cubic"})
	if tr := resultJSON[sequenceservice.TrackDetail](t, r); tr.Interpolation != "Cubic" {
		t.Errorf("mode = %s", tr.Interpolation)
	}
	r = callTool(t, srv, "set_curve_interp_mode", map[string]interface{}{"path": "v.yaml", "track": 0.0, "interpolation": "cubic"})
	if !r.IsError {
		t.Error("expected error for lower-case mode name")
	}

	r = callTool(t, srv, "set_propagate_to_children", map[string]interface{}{"path": "v.yaml", "track": 0.0, "propagate_to_children": true})
	if tr := resultJSON[sequenceservice.TrackDetail](t, r); !tr.PropagateToChildren {
		t.Error("propagate not set")
	}
}

func TestVisibilityTools_RejectFractionalIndices(t *testing.T) {
	srv, _ := testServer(t)
	_ = callTool(t, srv, "create_sequence", map[string]interface{}{"path": "v.yaml", "content": testutil.SampleDocument})

	tests := []struct {
		name string
		tool string
		args map[string]interface{}
	}{
		{"fractional track", "get_visibility_frame", map[string]interface{}{"path": "v.yaml", "track": 0.7, "index": 0.0}},
		{"fractional index", "get_visibility_frame", map[string]interface{}{"path": "v.yaml", "track": 0.0, "index": 0.5}},
		{"fractional remove", "remove_visibility_frame", map[string]interface{}{"path": "v.yaml", "track": 0.0, "index": 1.5}},
		{"fractional frame", "add_visibility_frame", map[string]interface{}{"path": "v.yaml", "track": 0.0, "frame": 1.9, "visible": true}},
		{"huge index", "get_visibility_frame", map[string]interface{}{"path": "v.yaml", "track": 0.0, "index": 1e300}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := callTool(t, srv, tt.tool, tt.args)
			if !r.IsError || !strings.Contains(resultText(r), "must be an integer") {
				t.Errorf("result = %q, want integer error", resultText(r))
			}
		})
	}

	r := callTool(t, srv, "read_sequence", map[string]interface{}{"path": "v.yaml"})
	detail := resultJSON[sequenceservice.SequenceDetail](t, r)
	if len(detail.Tracks) != 1 || detail.Tracks[0].FrameCount != 3 {
		t.Errorf("document changed: %+v", detail.Tracks)
	}
}

func TestListAndSearch(t *testing.T) {
	srv, _ := testServer(t)
	_ = callTool(t, srv, "create_sequence", map[string]interface{}{"path": "a.yaml", "content": testutil.SampleDocument})
	_ = callTool(t, srv, "create_sequence", map[string]interface{}{"path": "b.yaml", "name": "Empty"})

	r := callTool(t, srv, "list_sequences", map[string]interface{}{"sort": "path"})
	list := resultJSON[struct {
		Sequences []sequenceservice.SequenceListItem `json:"sequences"`
		Total     int                                `json:"total"`
	}](t, r)
	if list.Total != 2 || list.Sequences[0].Path != "a.yaml" {
		t.Errorf("list = %+v", list)
	}

	r = callTool(t, srv, "search_tracks", map[string]interface{}{"query": "VisTrack"})
	if text := resultText(r); !strings.Contains(text, `"path": "a.yaml"`) {
		t.Errorf("search = %q", text)
	}
}

func TestListTracks(t *testing.T) {
	srv, _ := testServer(t)
	_ = callTool(t, srv, "create_sequence", map[string]interface{}{"path": "a.yaml", "content": testutil.SampleDocument})

	r := callTool(t, srv, "list_tracks", map[string]interface{}{"path": "a.yaml"})
	entry := resultJSON[sequenceservice.CatalogEntry](t, r)
	if entry.Name != "Shot010" || entry.TrackCount != 1 || len(entry.Tracks) != 1 {
		t.Fatalf("entry = %+v", entry)
	}
	if tr := entry.Tracks[0]; tr.Name != "VisTrack" || tr.FrameCount != 3 {
		t.Errorf("track = %+v", tr)
	}

	if r := callTool(t, srv, "list_tracks", map[string]interface{}{"path": "missing.yaml"}); !r.IsError {
		t.Error("expected error for uncatalogued document")
	}
}

func TestDocumentContract(t *testing.T) {
	srv, _ := testServer(t)
	r := callTool(t, srv, "get_document_contract", nil)
	if text := resultText(r); !strings.Contains(text, "propagate_to_children") {
		t.Errorf("contract missing fields: %q", text)
	}

	contents, err := srv.readDocumentFormatResource(context.Background(), mcp.ReadResourceRequest{})
	if err != nil || len(contents) != 1 {
		t.Fatalf("resource = %v, %v", contents, err)
	}
	if tc, ok := contents[0].(mcp.TextResourceContents); !ok || tc.URI != DocumentFormatURI {
		t.Errorf("resource contents = %+v", contents[0])
	}
}
