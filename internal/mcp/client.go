package mcp

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os/exec"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

const protocolVersion = "2024-11-05"

// client manages JSON-RPC communication with a single MCP server (stdio or HTTP).
type client struct {
	name       string
	cfg        ServerConfig
	httpClient *http.Client

	// Stdio fields (non-nil when command-based)
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	stdout *bufio.Reader

	mu     sync.Mutex
	nextID int64
	ready  atomic.Bool
}

type toolDef struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	InputSchema json.RawMessage `json:"inputSchema"`
}

type callResult struct {
	Text    string
	IsError bool
}

type rpcResponse struct {
	ID     json.RawMessage `json:"id"`
	Result json.RawMessage `json:"result"`
	Error  *rpcError       `json:"error"`
}

func newClient(name string, cfg ServerConfig) *client {
	return &client{
		name: name,
		cfg:  cfg,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// connect starts the MCP server subprocess (or prepares HTTP) and initializes.
func (c *client) connect(ctx context.Context) error {
	if c.cfg.Command != "" {
		return c.connectStdio(ctx)
	}
	if c.cfg.URL != "" {
		// HTTP MCP: no persistent connection needed; just mark ready.
		c.ready.Store(true)
		return nil
	}
	return fmt.Errorf("MCP server %q: no command or url configured", c.name)
}

func (c *client) connectStdio(ctx context.Context) error {
	// The process outlives ctx, which only bounds start-up.
	c.cmd = exec.Command(c.cfg.Command, c.cfg.Args...)
	c.cmd.Env = c.cfg.environ()
	c.cmd.Dir = c.cfg.Cwd

	stdinPipe, err := c.cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("stdin pipe: %w", err)
	}
	stdoutPipe, err := c.cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("stdout pipe: %w", err)
	}
	c.stdin = stdinPipe
	c.stdout = bufio.NewReader(stdoutPipe)

	if err := c.cmd.Start(); err != nil {
		return fmt.Errorf("start MCP server: %w", err)
	}

	// A hung initialize only returns once the process is gone.
	stop := context.AfterFunc(ctx, c.kill)
	err = c.initialize(ctx)
	if !stop() && err == nil {
		err = ctx.Err()
	}
	if err != nil {
		c.kill()
		return fmt.Errorf("initialize: %w", err)
	}
	c.ready.Store(true)
	return nil
}

func (c *client) kill() {
	if c.cmd != nil && c.cmd.Process != nil {
		c.cmd.Process.Kill() //nolint:errcheck
	}
}

// close stops the subprocess and reaps it.
func (c *client) close() {
	if c.cmd == nil || c.cmd.Process == nil {
		return
	}
	if c.stdin != nil {
		c.stdin.Close() //nolint:errcheck
	}
	c.kill()
	c.cmd.Wait() //nolint:errcheck
}

// listTools returns the tools exposed by this MCP server.
func (c *client) listTools(ctx context.Context) ([]toolDef, error) {
	resp, err := c.call(ctx, "tools/list", nil)
	if err != nil {
		return nil, err
	}
	var result struct {
		Tools []toolDef `json:"tools"`
	}
	if err := json.Unmarshal(resp, &result); err != nil {
		return nil, fmt.Errorf("decode tools/list: %w", err)
	}
	return result.Tools, nil
}

// callTool invokes a named tool on the MCP server with the given arguments.
// Text content blocks are joined with newlines.
func (c *client) callTool(ctx context.Context, toolName string, args map[string]any) (callResult, error) {
	if args == nil {
		args = map[string]any{}
	}
	payload := map[string]any{
		"name":      toolName,
		"arguments": args,
	}
	resp, err := c.call(ctx, "tools/call", payload)
	if err != nil {
		return callResult{}, err
	}

	var result struct {
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
		IsError bool `json:"isError"`
	}

	if err := json.Unmarshal(resp, &result); err != nil {
		return callResult{Text: string(resp)}, nil
	}

	var parts []string
	for _, block := range result.Content {
		if block.Type == "text" || block.Text != "" {
			parts = append(parts, block.Text)
		}
	}
	return callResult{
		Text:    strings.TrimSpace(strings.Join(parts, "\n")),
		IsError: result.IsError,
	}, nil
}

// ---------------------------------------------------------------------------
// JSON-RPC plumbing
// ---------------------------------------------------------------------------

func (c *client) initialize(ctx context.Context) error {
	params := map[string]any{
		"protocolVersion": protocolVersion,
		"capabilities":    map[string]any{},
		"clientInfo":      map[string]any{"name": "autohost", "version": "1.0"},
	}
	if _, err := c.call(ctx, "initialize", params); err != nil {
		return err
	}
	// Send initialized notification (no response expected)
	notif := map[string]any{"jsonrpc": "2.0", "method": "notifications/initialized"}
	data, _ := json.Marshal(notif)
	c.mu.Lock()
	defer c.mu.Unlock()
	_, err := fmt.Fprintf(c.stdin, "%s\n", data)
	return err
}

func (c *client) call(ctx context.Context, method string, params any) (json.RawMessage, error) {
	if c.cfg.URL != "" && c.cfg.Command == "" {
		return c.callHTTP(ctx, method, params)
	}
	return c.callStdio(ctx, method, params)
}

func (c *client) request(method string, params any) (int64, []byte, error) {
	id := atomic.AddInt64(&c.nextID, 1)
	req := map[string]any{
		"jsonrpc": "2.0",
		"id":      id,
		"method":  method,
	}
	if params != nil {
		req["params"] = params
	}
	data, err := json.Marshal(req)
	return id, data, err
}

func (c *client) callStdio(ctx context.Context, method string, params any) (json.RawMessage, error) {
	id, data, err := c.request(method, params)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	// A server that never answers is killed so the blocked read returns.
	stop := context.AfterFunc(ctx, c.kill)
	defer stop()

	if _, err := fmt.Fprintf(c.stdin, "%s\n", data); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("write to MCP stdin: %w", err)
	}

	// Read response lines until we get one with our id.
	for {
		line, err := c.stdout.ReadString('\n')
		if err != nil {
			if ctx.Err() != nil {
				return nil, fmt.Errorf("MCP server %q stopped: %w", c.name, ctx.Err())
			}
			return nil, fmt.Errorf("read MCP stdout: %w", err)
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		var resp rpcResponse
		if err := json.Unmarshal([]byte(line), &resp); err != nil {
			continue // skip non-JSON lines (server log output)
		}
		if !sameID(resp.ID, id) {
			continue
		}
		if resp.Error != nil {
			return nil, resp.Error
		}
		return resp.Result, nil
	}
}

func (c *client) callHTTP(ctx context.Context, method string, params any) (json.RawMessage, error) {
	_, data, err := c.request(method, params)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.URL, bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	for k, v := range c.cfg.Headers {
		httpReq.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("MCP HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var rpcResp rpcResponse
	if err := json.NewDecoder(resp.Body).Decode(&rpcResp); err != nil {
		return nil, fmt.Errorf("decode MCP response: %w", err)
	}
	if rpcResp.Error != nil {
		return nil, rpcResp.Error
	}
	return rpcResp.Result, nil
}

func sameID(raw json.RawMessage, id int64) bool {
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return false
	}
	got, err := n.Int64()
	return err == nil && got == id
}
