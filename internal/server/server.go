package server

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"

	"github.com/ironsheep/gridheat-mcp/internal/grid"
)

// Version is reported in the initialize handshake. cmd/gridheat-mcp
// overrides it from its ldflags version.
var Version = "0.1.0"

// DefaultMaxCells bounds the cell count of any grid the server loads and
// the pixel count of any image it renders.
const DefaultMaxCells = 4096 * 4096

// bytesPerCell is an upper bound on the JSON size of one inline grid value,
// including its separator.
const bytesPerCell = 24

// requestOverhead covers everything in a request besides the values array.
const requestOverhead = 1 << 20

// Server handles MCP protocol communication
type Server struct {
	cache    *grid.Cache
	debug    bool
	maxCells int
}

// MCPRequest represents an incoming JSON-RPC request
type MCPRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      interface{}     `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// MCPResponse represents an outgoing JSON-RPC response
type MCPResponse struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      interface{} `json:"id"`
	Result  interface{} `json:"result,omitempty"`
	Error   *MCPError   `json:"error,omitempty"`
}

// MCPError represents a JSON-RPC error
type MCPError struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// New creates a new MCP server instance. Debug logging is enabled when
// GRIDHEAT_LOG_LEVEL=debug, and GRIDHEAT_MAX_CELLS overrides
// DefaultMaxCells.
func New() *Server {
	s := &Server{
		cache:    grid.NewCache(),
		debug:    os.Getenv("GRIDHEAT_LOG_LEVEL") == "debug",
		maxCells: DefaultMaxCells,
	}
	if v := os.Getenv("GRIDHEAT_MAX_CELLS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			log.Printf("Ignoring GRIDHEAT_MAX_CELLS=%q: want a positive integer", v)
		} else {
			s.maxCells = n
		}
	}
	return s
}

// maxRequestBytes is the longest request line accepted: an inline grid at
// the cell limit plus the rest of the request.
func (s *Server) maxRequestBytes() int {
	return s.maxCells*bytesPerCell + requestOverhead
}

// checkCells rejects a width x height grid or image above the cell limit.
// Non-positive dimensions are left to the grid and imaging validation.
func (s *Server) checkCells(width, height int) error {
	if width <= 0 || height <= 0 {
		return nil
	}
	if width > s.maxCells/height {
		return fmt.Errorf("%dx%d exceeds the limit of %d cells", width, height, s.maxCells)
	}
	return nil
}

// Run starts the MCP server, reading from stdin and writing to stdout
func (s *Server) Run() error {
	return s.Serve(os.Stdin, os.Stdout)
}

// Serve processes newline-delimited JSON-RPC requests from r until EOF,
// writing one response line per request to w.
func (s *Server) Serve(r io.Reader, w io.Writer) error {
	scanner := bufio.NewScanner(r)
	// Inline grids can be large
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, s.maxRequestBytes())

	encoder := json.NewEncoder(w)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var req MCPRequest
		if err := json.Unmarshal(line, &req); err != nil {
			log.Printf("Failed to parse request: %v", err)
			continue
		}

		if s.debug {
			log.Printf("Request %s (%d bytes)", req.Method, len(line))
		}

		resp := s.handleRequest(&req)
		if resp != nil {
			if err := encoder.Encode(resp); err != nil {
				log.Printf("Failed to encode response: %v", err)
			}
		}
	}

	if err := scanner.Err(); err != nil {
		if errors.Is(err, bufio.ErrTooLong) {
			return fmt.Errorf("request exceeds %d bytes (GRIDHEAT_MAX_CELLS=%d): %w", s.maxRequestBytes(), s.maxCells, err)
		}
		return fmt.Errorf("scanner error: %w", err)
	}

	return nil
}

// handleRequest routes requests to appropriate handlers
func (s *Server) handleRequest(req *MCPRequest) *MCPResponse {
	switch req.Method {
	case "initialize":
		return s.handleInitialize(req)
	case "notifications/initialized":
		// Client acknowledgment, no response needed
		return nil
	case "tools/list":
		return s.handleToolsList(req)
	case "tools/call":
		return s.handleToolsCall(req)
	case "ping":
		return &MCPResponse{
			JSONRPC: "2.0",
			ID:      req.ID,
			Result:  map[string]interface{}{},
		}
	default:
		return &MCPResponse{
			JSONRPC: "2.0",
			ID:      req.ID,
			Error: &MCPError{
				Code:    -32601,
				Message: fmt.Sprintf("Method not found: %s", req.Method),
			},
		}
	}
}

// handleInitialize responds to the initialize request
func (s *Server) handleInitialize(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"protocolVersion": "2024-11-05",
			"capabilities": map[string]interface{}{
				"tools": map[string]interface{}{},
			},
			"serverInfo": map[string]interface{}{
				"name":    "gridheat-mcp",
				"version": Version,
			},
			"limits": map[string]interface{}{
				"maxCells":        s.maxCells,
				"maxRequestBytes": s.maxRequestBytes(),
			},
		},
	}
}
