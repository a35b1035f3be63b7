// Package mcp exposes a built key to MCP clients: tools to render the key,
// identify an item and fetch the Mermaid graph, plus the key as a resource.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/aretw0/keysort/internal/presentation/graph"
	"github.com/aretw0/keysort/internal/presentation/outline"
	"github.com/aretw0/keysort/pkg/domain"
	"github.com/aretw0/keysort/pkg/runner"
)

const (
	keyURI   = "keysort://key"
	graphURI = "keysort://graph"
)

// IdentifyArgs are the identify tool arguments. Answers and Labels are JSON
// objects encoded as strings; exactly one must be set.
type IdentifyArgs struct {
	Answers string `json:"answers,omitempty"`
	Labels  string `json:"labels,omitempty"`
}

// IdentifyResult aligns with the HTTP identify response.
type IdentifyResult struct {
	NodeID     domain.NodeID `json:"node_id" jsonschema_description:"Node where the walk stopped"`
	Resolved   bool          `json:"resolved" jsonschema_description:"True when a single item was reached"`
	Path       []domain.Step `json:"path" jsonschema_description:"Questions answered on the way"`
	Item       *domain.Item  `json:"item,omitempty" jsonschema_description:"The identified item"`
	Candidates []domain.Item `json:"candidates,omitempty" jsonschema_description:"Items the key could not separate"`
}

// Server wraps a frozen key and exposes it as an MCP Server.
type Server struct {
	key       *domain.Key
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewServer creates a new MCP Server instance.
func NewServer(key *domain.Key, version string, opts ...Option) *Server {
	s := &Server{
		key:       key,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		mcpServer: server.NewMCPServer("keysort-mcp", version),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	s.registerResources()
	return s
}

// MCPServer returns the underlying server, e.g. for in-process clients.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE serves over SSE on addr until ctx is cancelled.
func (s *Server) ServeSSE(ctx context.Context, addr, baseURL string) error {
	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", sseServer.SSEHandler())
	mux.Handle("/message", sseServer.MessageHandler())

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP Server listening (SSE)", "address", addr)
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

func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool("render_key",
		mcp.WithDescription("Render the dichotomous key as an indented outline."),
		mcp.WithString("format",
			mcp.Description("Output format"),
			mcp.Enum("text", "markdown", "json"),
		),
	), s.handleRenderKey)

	s.mcpServer.AddTool(mcp.NewTool("identify",
		mcp.WithDescription("Walk the key with answers and return the identified item or the remaining candidates."),
		mcp.WithString("answers", mcp.Description(`JSON object of trait name to boolean, e.g. {"arrangement": true}`)),
		mcp.WithString("labels", mcp.Description(`JSON object of trait name to label, e.g. {"arrangement": "opposite"}`)),
		mcp.WithOutputSchema[IdentifyResult](),
	), mcp.NewStructuredToolHandler(s.handleIdentify))

	s.mcpServer.AddTool(mcp.NewTool("get_graph",
		mcp.WithDescription("Get the key as a Mermaid flowchart."),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return mcp.NewToolResultText(graph.GenerateMermaid(s.key, nil)), nil
	})
}

func (s *Server) handleRenderKey(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	switch format := request.GetString("format", "text"); format {
	case "text":
		return mcp.NewToolResultText(outline.String(s.key)), nil
	case "markdown":
		return mcp.NewToolResultText(outline.Markdown(s.key)), nil
	case "json":
		data, err := json.Marshal(s.key)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("encode key: %v", err)), nil
		}
		return mcp.NewToolResultText(string(data)), nil
	default:
		return mcp.NewToolResultError(fmt.Sprintf("unknown format %q", format)), nil
	}
}

func (s *Server) handleIdentify(ctx context.Context, request mcp.CallToolRequest, args IdentifyArgs) (IdentifyResult, error) {
	answer, err := answerer(args)
	if err != nil {
		s.logger.Warn("MCP identify: arguments rejected", "err", err)
		return IdentifyResult{}, err
	}

	id, err := s.key.Identify(answer)
	if err != nil {
		return IdentifyResult{}, fmt.Errorf("identify failed: %w", err)
	}
	return IdentifyResult{
		NodeID:     id.NodeID,
		Resolved:   id.Resolved(),
		Path:       id.Path,
		Item:       id.Item,
		Candidates: id.Candidates,
	}, nil
}

func answerer(args IdentifyArgs) (domain.Answerer, error) {
	if (args.Answers == "") == (args.Labels == "") {
		return nil, errors.New("exactly one of answers or labels is required")
	}
	if args.Answers != "" {
		var answers map[string]bool
		if err := json.Unmarshal([]byte(args.Answers), &answers); err != nil {
			return nil, fmt.Errorf("answers: %w", err)
		}
		return domain.AnswerMap(answers), nil
	}

	var labels map[string]string
	if err := json.Unmarshal([]byte(args.Labels), &labels); err != nil {
		return nil, fmt.Errorf("labels: %w", err)
	}
	for name, raw := range labels {
		clean, err := runner.SanitizeInput(raw)
		if err != nil {
			return nil, fmt.Errorf("label for %s rejected: %w", name, err)
		}
		labels[name] = clean
	}
	return domain.LabelAnswers(labels), nil
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource(keyURI, "Dichotomous key",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		data, err := json.Marshal(s.key)
		if err != nil {
			return nil, fmt.Errorf("failed to encode key: %w", err)
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      keyURI,
				MIMEType: "application/json",
				Text:     string(data),
			},
		}, nil
	})

	s.mcpServer.AddResource(mcp.NewResource(graphURI, "Key flowchart",
		mcp.WithMIMEType("text/plain"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      graphURI,
				MIMEType: "text/plain",
				Text:     graph.GenerateMermaid(s.key, nil),
			},
		}, nil
	})
}
