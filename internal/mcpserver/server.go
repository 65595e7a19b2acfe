// Package mcpserver exposes the controller's attach/inspect/run
// operations as Model Context Protocol tools, grounded on the teacher's
// internal/mcp server (gomcp.NewServer + gomcp.AddTool + StdioTransport),
// generalized from Thrum's messaging tools to pyprobe's debugger tools.
package mcpserver

import (
	"context"

	gomcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// Server is the pyprobe MCP server. Each tool call attaches its own
// session.Manager for the duration of the call and disposes it
// afterward; sessions are not kept warm across calls.
type Server struct {
	version string
	server  *gomcp.Server
}

// Option configures the MCP server.
type Option func(*Server)

// WithVersion sets the server version string reported in the MCP
// implementation handshake.
func WithVersion(v string) Option {
	return func(s *Server) { s.version = v }
}

// NewServer builds a pyprobe MCP server and registers its tools.
func NewServer(opts ...Option) *Server {
	s := &Server{version: "dev"}
	for _, opt := range opts {
		opt(s)
	}
	s.server = gomcp.NewServer(&gomcp.Implementation{
		Name:    "pyprobe",
		Version: s.version,
	}, nil)
	s.registerTools()
	return s
}

// Run blocks serving tool calls over stdin/stdout until the client
// disconnects or ctx is canceled.
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &gomcp.StdioTransport{})
}

func (s *Server) registerTools() {
	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "inspect",
		Description: "Attach to a PID and list every thread and its interpreter frames",
	}, s.handleInspect)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "run_file",
		Description: "Attach to a PID, traverse frames (optionally filtered by thread/frame), and run a local source file inside the first frame that accepts it",
	}, s.handleRunFile)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "run_script",
		Description: "Attach to a PID, traverse frames (optionally filtered by thread/frame), and run a literal source string inside the first frame that accepts it",
	}, s.handleRunScript)
}
