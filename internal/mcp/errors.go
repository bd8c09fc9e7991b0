package mcp

import "fmt"

// InvocationError is a transport or process failure while calling a tool.
type InvocationError struct {
	Server string
	Tool   string
	Err    error
}

func (e *InvocationError) Error() string {
	return fmt.Sprintf("invoke %s.%s: %v", e.Server, e.Tool, e.Err)
}

func (e *InvocationError) Unwrap() error { return e.Err }

// ToolError is a tool that answered with isError set. Servers report
// argument validation failures this way.
type ToolError struct {
	Server  string
	Tool    string
	Message string
}

func (e *ToolError) Error() string {
	return fmt.Sprintf("tool %s.%s reported an error: %s", e.Server, e.Tool, e.Message)
}

// rpcError is a JSON-RPC error object.
type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *rpcError) Error() string {
	return fmt.Sprintf("MCP error %d: %s", e.Code, e.Message)
}
