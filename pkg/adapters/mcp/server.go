// Package mcp exposes the macro engine as an MCP server, so agent hosts
// can record, inspect, and replay macros as tools.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/mitchellh/mapstructure"

	"github.com/remaclabs/remac"
	"github.com/remaclabs/remac/pkg/domain"
	"github.com/remaclabs/remac/pkg/player"
	"github.com/remaclabs/remac/pkg/ports"
)

// RecordingSummary is the structured response for recording lifecycle tools.
type RecordingSummary struct {
	ID         string `json:"id"`
	Name       string `json:"name,omitempty"`
	Calls      int    `json:"calls"`
	Parameters int    `json:"parameters"`
	Active     bool   `json:"active"`
}

// PlaySummary is the structured response for macro_play.
type PlaySummary struct {
	MacroID string       `json:"macro_id"`
	DryRun  bool         `json:"dry_run"`
	Results []PlayResult `json:"results"`
	Failed  int          `json:"failed"`
}

// PlayResult is one call's outcome within a PlaySummary.
type PlayResult struct {
	Method      string `json:"method"`
	Path        string `json:"path"`
	Status      int    `json:"status,omitempty"`
	Error       string `json:"error,omitempty"`
	FailedToken string `json:"failed_token,omitempty"`
}

// Server wraps the remac Engine and exposes it as an MCP Server.
type Server struct {
	engine    *remac.Engine
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP Server instance.
func NewServer(engine *remac.Engine) *Server {
	s := &Server{
		engine:    engine,
		mcpServer: server.NewMCPServer("remac-mcp", strings.TrimSpace(remac.Version)),
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	serverErrors := make(chan error, 1)
	go func() {
		slog.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	// TOOL: macro_record_start
	startTool := mcp.NewTool("macro_record_start",
		mcp.WithDescription("Start recording a new macro. Only one recording can be active at a time."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Human-readable macro name")),
		mcp.WithString("description", mcp.Description("What the macro does (optional)")),
		mcp.WithOutputSchema[RecordingSummary](),
	)
	s.mcpServer.AddTool(startTool, mcp.NewStructuredToolHandler(s.handleRecordStart))

	// TOOL: macro_record_call
	callTool := mcp.NewTool("macro_record_call",
		mcp.WithDescription("Append an observed API call to the active recording."),
		mcp.WithString("method", mcp.Required(), mcp.Description("HTTP method (GET, POST, PUT, PATCH, DELETE)")),
		mcp.WithString("path", mcp.Required(), mcp.Description("Request path, e.g. /firewall/rules")),
		mcp.WithString("params", mcp.Description("JSON object of query parameters (optional)")),
		mcp.WithString("payload", mcp.Description("JSON object of the request body (optional)")),
		mcp.WithString("response", mcp.Description("JSON object of the response body (optional)")),
		mcp.WithNumber("status", mcp.Description("HTTP response status (optional)")),
		mcp.WithOutputSchema[RecordingSummary](),
	)
	s.mcpServer.AddTool(callTool, mcp.NewStructuredToolHandler(s.handleRecordCall))

	// TOOL: macro_record_stop
	stopTool := mcp.NewTool("macro_record_stop",
		mcp.WithDescription("Stop the active recording, analyze it for parameters, and persist it."),
		mcp.WithOutputSchema[RecordingSummary](),
	)
	s.mcpServer.AddTool(stopTool, mcp.NewStructuredToolHandler(s.handleRecordStop))

	// TOOL: macro_list
	s.mcpServer.AddTool(mcp.NewTool("macro_list",
		mcp.WithDescription("List stored macros, optionally filtered by name, category, or tags."),
		mcp.WithString("name", mcp.Description("Substring match on macro name (optional)")),
		mcp.WithString("category", mcp.Description("Exact category match (optional)")),
		mcp.WithString("tags", mcp.Description("Comma-separated tags, all must match (optional)")),
	), s.handleList)

	// TOOL: macro_get
	s.mcpServer.AddTool(mcp.NewTool("macro_get",
		mcp.WithDescription("Get the full definition of a stored macro."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Macro ID")),
	), s.handleGet)

	// TOOL: macro_analyze
	s.mcpServer.AddTool(mcp.NewTool("macro_analyze",
		mcp.WithDescription("Run heuristic analysis on a macro: CRUD patterns, dependencies, side effects, parameter suggestions."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Macro ID")),
	), s.handleAnalyze)

	// TOOL: macro_generate
	s.mcpServer.AddTool(mcp.NewTool("macro_generate",
		mcp.WithDescription("Generate a typed tool definition (input schema + implementation) from a macro."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Macro ID")),
	), s.handleGenerate)

	// TOOL: macro_play
	playTool := mcp.NewTool("macro_play",
		mcp.WithDescription("Replay a stored macro, substituting the given parameter values."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Macro ID")),
		mcp.WithString("params", mcp.Description("JSON object of parameter values (optional)")),
		mcp.WithBoolean("dry_run", mcp.Description("Resolve and report without issuing calls")),
		mcp.WithBoolean("stop_on_error", mcp.Description("Abort the run on the first failed call")),
		mcp.WithOutputSchema[PlaySummary](),
	)
	s.mcpServer.AddTool(playTool, mcp.NewStructuredToolHandler(s.handlePlay))

	// TOOL: macro_delete
	s.mcpServer.AddTool(mcp.NewTool("macro_delete",
		mcp.WithDescription("Delete a stored macro."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Macro ID")),
	), s.handleDelete)
}

// Handler methods for structured tools

func (s *Server) handleRecordStart(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (RecordingSummary, error) {
	name, _ := args["name"].(string)
	description, _ := args["description"].(string)

	id, err := s.engine.StartRecording(name, description)
	if err != nil {
		return RecordingSummary{}, fmt.Errorf("start failed: %w", err)
	}
	return RecordingSummary{ID: id, Name: name, Active: true}, nil
}

func (s *Server) handleRecordCall(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (RecordingSummary, error) {
	id, active := s.engine.ActiveRecording()
	if !active {
		return RecordingSummary{}, domain.ErrNoActiveRecording
	}

	method, _ := args["method"].(string)
	path, _ := args["path"].(string)

	call := domain.Call{
		Method: domain.Method(strings.ToUpper(method)),
		Path:   path,
	}
	if !call.Method.Valid() {
		return RecordingSummary{}, fmt.Errorf("invalid method %q", method)
	}

	if paramsStr, ok := args["params"].(string); ok && paramsStr != "" {
		if err := json.Unmarshal([]byte(paramsStr), &call.Params); err != nil {
			return RecordingSummary{}, fmt.Errorf("invalid params JSON: %w", err)
		}
	}
	if payloadStr, ok := args["payload"].(string); ok && payloadStr != "" {
		if err := json.Unmarshal([]byte(payloadStr), &call.Payload); err != nil {
			return RecordingSummary{}, fmt.Errorf("invalid payload JSON: %w", err)
		}
	}
	if respStr, ok := args["response"].(string); ok && respStr != "" {
		var data any
		if err := json.Unmarshal([]byte(respStr), &data); err != nil {
			return RecordingSummary{}, fmt.Errorf("invalid response JSON: %w", err)
		}
		call.Response = &domain.Response{Data: data}
		if status, ok := args["status"].(float64); ok {
			call.Response.Status = int(status)
		}
	}

	s.engine.RecordCall(call)
	return RecordingSummary{ID: id, Active: true}, nil
}

func (s *Server) handleRecordStop(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (RecordingSummary, error) {
	rec, err := s.engine.StopRecording(ctx)
	if err != nil {
		return RecordingSummary{}, fmt.Errorf("stop failed: %w", err)
	}
	return RecordingSummary{
		ID:         rec.ID,
		Name:       rec.Name,
		Calls:      len(rec.Calls),
		Parameters: len(rec.Parameters),
	}, nil
}

// playArgs is decoded from the raw tool arguments.
type playArgs struct {
	ID          string `mapstructure:"id"`
	Params      string `mapstructure:"params"`
	DryRun      bool   `mapstructure:"dry_run"`
	StopOnError bool   `mapstructure:"stop_on_error"`
}

func (s *Server) handlePlay(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (PlaySummary, error) {
	var in playArgs
	if err := mapstructure.Decode(args, &in); err != nil {
		return PlaySummary{}, fmt.Errorf("invalid arguments: %w", err)
	}

	opts := player.Options{
		DryRun:      in.DryRun,
		StopOnError: in.StopOnError,
	}
	if in.Params != "" {
		if err := json.Unmarshal([]byte(in.Params), &opts.Params); err != nil {
			return PlaySummary{}, fmt.Errorf("invalid params JSON: %w", err)
		}
	}

	results, err := s.engine.Play(ctx, in.ID, opts)
	if err != nil {
		return PlaySummary{}, fmt.Errorf("play failed: %w", err)
	}

	summary := PlaySummary{MacroID: in.ID, DryRun: opts.DryRun}
	for _, r := range results {
		pr := PlayResult{
			Method:      string(r.Call.Method),
			Path:        r.Call.Path,
			Error:       r.Error,
			FailedToken: r.FailedToken,
		}
		if r.Response != nil {
			pr.Status = r.Response.Status
		}
		if r.Failed() {
			summary.Failed++
		}
		summary.Results = append(summary.Results, pr)
	}
	return summary, nil
}

// Plain-text handlers for introspection tools

func (s *Server) handleList(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	q := ports.Query{
		Name:     request.GetString("name", ""),
		Category: request.GetString("category", ""),
	}
	if tags := request.GetString("tags", ""); tags != "" {
		for _, tag := range strings.Split(tags, ",") {
			q.Tags = append(q.Tags, strings.TrimSpace(tag))
		}
	}

	recs, err := s.engine.SearchMacros(ctx, q)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("list failed: %v", err)), nil
	}

	type entry struct {
		ID         string `json:"id"`
		Name       string `json:"name"`
		Calls      int    `json:"calls"`
		Parameters int    `json:"parameters"`
	}
	entries := make([]entry, 0, len(recs))
	for _, rec := range recs {
		entries = append(entries, entry{
			ID:         rec.ID,
			Name:       rec.Name,
			Calls:      len(rec.Calls),
			Parameters: len(rec.Parameters),
		})
	}
	jsonBytes, _ := json.Marshal(entries)
	return mcp.NewToolResultText(string(jsonBytes)), nil
}

func (s *Server) handleGet(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	rec, err := s.engine.Macro(ctx, id)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("get failed: %v", err)), nil
	}
	jsonBytes, _ := json.Marshal(rec)
	return mcp.NewToolResultText(string(jsonBytes)), nil
}

func (s *Server) handleAnalyze(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	analysis, err := s.engine.Analyze(ctx, id)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("analyze failed: %v", err)), nil
	}
	jsonBytes, _ := json.Marshal(analysis)
	return mcp.NewToolResultText(string(jsonBytes)), nil
}

func (s *Server) handleGenerate(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	def, err := s.engine.GenerateTool(ctx, id)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("generate failed: %v", err)), nil
	}
	jsonBytes, _ := json.Marshal(def)
	return mcp.NewToolResultText(string(jsonBytes)), nil
}

func (s *Server) handleDelete(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := s.engine.DeleteMacro(ctx, id); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("delete failed: %v", err)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("macro %s deleted", id)), nil
}

func (s *Server) registerResources() {
	// EXPOSE: remac://macros
	s.mcpServer.AddResource(mcp.NewResource("remac://macros", "Stored Macros",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		recs, err := s.engine.Macros(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list macros: %w", err)
		}
		jsonBytes, _ := json.Marshal(recs)

		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      "remac://macros",
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})
}
