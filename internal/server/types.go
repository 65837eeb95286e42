package server

import "tool-mcp/internal/tools"

// ToolResponse is the body of a successful /tool_code call.
type ToolResponse struct {
	Result   string `json:"result"`
	Success  bool   `json:"success"`
	ToolName string `json:"tool_name"`
}

// ErrorResponse is the body of every failed /tool_code call.
type ErrorResponse struct {
	Error   string `json:"error"`
	Success bool   `json:"success"`
}

// HealthResponse is the liveness check body.
type HealthResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// ToolList is the body of GET /tools.
type ToolList struct {
	Tools []tools.Descriptor `json:"tools"`
}
