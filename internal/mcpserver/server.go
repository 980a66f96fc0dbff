// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes vistrack tools for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"math"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/vistrack/internal/animation"
	"github.com/starford/vistrack/internal/sequenceservice"
)

// DocumentFormatURI is the resource URI of the document contract.
const DocumentFormatURI = "vistrack://document-format"

// Server wraps the MCP server with vistrack tools.
type Server struct {
	mcp *server.MCPServer
	svc *sequenceservice.Service
}

// New creates a new MCP server with all vistrack tools registered.
func New(svc *sequenceservice.Service) *Server {
	s := &Server{svc: svc}

	s.mcp = server.NewMCPServer(
		"vistrack",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	modes := make([]string, 0, len(animation.CurveInterpModes()))
	for _, m := range animation.CurveInterpModes() {
		modes = append(modes, m.String())
	}

	s.mcp.AddTool(mcp.NewTool("list_sequences",
		mcp.WithDescription("List catalogued sequence documents."),
		mcp.WithNumber("limit", mcp.Description("Page size (default 50)")),
		mcp.WithNumber("offset", mcp.Description("Page offset")),
		mcp.WithString("sort", mcp.Description("Sort field"), mcp.Enum("updated_at", "name", "path")),
	), s.listSequences)

	s.mcp.AddTool(mcp.NewTool("read_sequence",
		mcp.WithDescription("Read a sequence document with a summary of its tracks."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Relative path to the document (e.g. reel1/shot010.yaml)")),
	), s.readSequence)

	s.mcp.AddTool(mcp.NewTool("list_tracks",
		mcp.WithDescription("List the catalogued tracks of a sequence without reading the document."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Document path")),
	), s.listTracks)

	s.mcp.AddTool(mcp.NewTool("search_tracks",
		mcp.WithDescription("Search tracks by track name or sequence name."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Search query string")),
	), s.searchTracks)

	s.mcp.AddTool(mcp.NewTool("create_sequence",
		mcp.WithDescription("Create a sequence document. Pass either a name for an empty sequence "+
			"or content holding a complete document. Read the contract first via the "+
			"get_document_contract tool or the "+DocumentFormatURI+" resource."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Relative path for the new document (must end with .yaml)")),
		mcp.WithString("name", mcp.Description("Sequence name")),
		mcp.WithNumber("frame_rate", mcp.Description("Frames per second (default from configuration)")),
		mcp.WithString("content", mcp.Description("Complete YAML document following the contract")),
	), s.createSequence)

	s.mcp.AddTool(mcp.NewTool("add_visibility_track",
		mcp.WithDescription("Append a visibility track to a sequence."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Document path")),
		mcp.WithString("name", mcp.Required(), mcp.Description("Track name")),
		mcp.WithString("interpolation", mcp.Description("Curve interpolation mode"), mcp.Enum(modes...)),
		mcp.WithBoolean("propagate_to_children", mcp.Description("Apply visibility to child actors")),
	), s.addVisibilityTrack)

	s.mcp.AddTool(mcp.NewTool("add_visibility_frame",
		mcp.WithDescription("Append a keyframe to a visibility track. Frames keep insertion order."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Document path")),
		mcp.WithNumber("track", mcp.Required(), mcp.Description("Track index")),
		mcp.WithNumber("frame", mcp.Required(), mcp.Description("Frame number")),
		mcp.WithBoolean("visible", mcp.Required(), mcp.Description("Visibility at that frame")),
	), s.addVisibilityFrame)

	s.mcp.AddTool(mcp.NewTool("get_visibility_frame",
		mcp.WithDescription("Read the keyframe at an index of a visibility track."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Document path")),
		mcp.WithNumber("track", mcp.Required(), mcp.Description("Track index")),
		mcp.WithNumber("index", mcp.Required(), mcp.Description("Frame index")),
	), s.getVisibilityFrame)

	s.mcp.AddTool(mcp.NewTool("remove_visibility_frame",
		mcp.WithDescription("Remove the keyframe at an index. Later frames shift down by one."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Document path")),
		mcp.WithNumber("track", mcp.Required(), mcp.Description("Track index")),
		mcp.WithNumber("index", mcp.Required(), mcp.Description("Frame index")),
	), s.removeVisibilityFrame)

	s.mcp.AddTool(mcp.NewTool("set_curve_interp_mode",
		mcp.WithDescription("Set the curve interpolation mode of a track."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Document path")),
		mcp.WithNumber("track", mcp.Required(), mcp.Description("Track index")),
		mcp.WithString("interpolation", mcp.Required(), mcp.Description("Curve interpolation mode"), mcp.Enum(modes...)),
	), s.setCurveInterpMode)

	s.mcp.AddTool(mcp.NewTool("set_propagate_to_children",
		mcp.WithDescription("Set whether a visibility track also applies to child actors."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Document path")),
		mcp.WithNumber("track", mcp.Required(), mcp.Description("Track index")),
		mcp.WithBoolean("propagate_to_children", mcp.Required(), mcp.Description("New flag value")),
	), s.setPropagateToChildren)

	s.mcp.AddTool(mcp.NewTool("get_document_contract",
		mcp.WithDescription("Returns the sequence document format contract. "+
			"Call this before creating or replacing documents."),
	), s.getDocumentContract)

	s.mcp.AddResource(
		mcp.NewResource(DocumentFormatURI, "Sequence Document Contract",
			mcp.WithResourceDescription("YAML format that every sequence document follows."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readDocumentFormatResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

// jsonResult renders v as indented JSON, or maps err to a tool error.
func jsonResult(v any, err error) (*mcp.CallToolResult, error) {
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("mcpserver: marshal result: %w", err)
	}
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) listSequences(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	items, total, err := s.svc.ListSequences(ctx, req.GetInt("limit", 0), req.GetInt("offset", 0), req.GetString("sort", ""))
	return jsonResult(map[string]any{"sequences": items, "total": total}, err)
}

func (s *Server) readSequence(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(s.svc.GetSequence(ctx, path))
}

func (s *Server) listTracks(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(s.svc.ListTracks(ctx, path))
}

func (s *Server) searchTracks(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(s.svc.SearchTracks(ctx, query, 20))
}

func (s *Server) createSequence(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if content := req.GetString("content", ""); content != "" {
		return jsonResult(s.svc.ImportDocument(ctx, path, []byte(content)))
	}
	name, err := req.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError("name or content is required"), nil
	}
	return jsonResult(s.svc.CreateSequence(ctx, path, name, req.GetFloat("frame_rate", 0)))
}

func (s *Server) addVisibilityTrack(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	name, err := req.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	nt := sequenceservice.NewTrack{Name: name}
	if v := req.GetString("interpolation", ""); v != "" {
		mode, err := animation.ParseCurveInterpMode(v)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		nt.Interpolation = &mode
	}
	if p, err := req.RequireBool("propagate_to_children"); err == nil {
		nt.PropagateToChildren = &p
	}
	return jsonResult(s.svc.AddVisibilityTrack(ctx, path, nt))
}

func (s *Server) addVisibilityFrame(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, track, err := pathAndTrack(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	frame, err := requireInt(req, "frame")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	visible, err := req.RequireBool("visible")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(s.svc.AddFrame(ctx, path, track, frame, visible))
}

func (s *Server) getVisibilityFrame(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, track, err := pathAndTrack(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	idx, err := requireInt(req, "index")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(s.svc.GetFrame(ctx, path, track, idx))
}

func (s *Server) removeVisibilityFrame(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, track, err := pathAndTrack(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	idx, err := requireInt(req, "index")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(s.svc.RemoveFrame(ctx, path, track, idx))
}

func (s *Server) setCurveInterpMode(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, track, err := pathAndTrack(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	v, err := req.RequireString("interpolation")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	mode, err := animation.ParseCurveInterpMode(v)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(s.svc.SetCurveInterpMode(ctx, path, track, mode))
}

func (s *Server) setPropagateToChildren(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, track, err := pathAndTrack(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	p, err := req.RequireBool("propagate_to_children")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(s.svc.SetPropagateToChildren(ctx, path, track, p))
}

func (s *Server) getDocumentContract(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(DocumentFormatContract), nil
}

func (s *Server) readDocumentFormatResource(_ context.Context, _ mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      DocumentFormatURI,
			MIMEType: "text/markdown",
			Text:     DocumentFormatContract,
		},
	}, nil
}

func pathAndTrack(req mcp.CallToolRequest) (string, int, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return "", 0, err
	}
	track, err := requireInt(req, "track")
	if err != nil {
		return "", 0, err
	}
	return path, track, nil
}

// requireInt reads a whole-number argument. JSON numbers arrive as
// float64, so fractions and values outside the int range are rejected
// instead of truncated.
func requireInt(req mcp.CallToolRequest, key string) (int, error) {
	f, err := req.RequireFloat(key)
	if err != nil {
		return 0, err
	}
	if f != math.Trunc(f) || f < math.MinInt || f >= math.MaxInt {
		return 0, fmt.Errorf("argument %q must be an integer, got %v", key, f)
	}
	return int(f), nil
}
