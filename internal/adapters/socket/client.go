package socket

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"time"

	"github.com/google/uuid"

	"github.com/corey/radiko/internal/ports"
)

// Client connects to the radiko daemon over a Unix socket.
type Client struct {
	sockPath string
	timeout  time.Duration
}

// NewClient creates a client that will connect to the given socket path.
func NewClient(sockPath string) *Client {
	return &Client{sockPath: sockPath, timeout: 5 * time.Second}
}

// WithTimeout returns a copy of the client using timeout per request.
func (c *Client) WithTimeout(timeout time.Duration) *Client {
	cp := *c
	cp.timeout = timeout
	return &cp
}

// Decompose segments words against a stored lexicon ("" for the default).
func (c *Client) Decompose(words []string, lexicon string) (*DecomposeResult, error) {
	return callFor[DecomposeResult](c, MethodDecompose, DecomposeParams{Words: words, Lexicon: lexicon})
}

// DecomposeWith segments words against an inventory passed by value. An
// empty inventory is still used: every word comes back as a failure.
func (c *Client) DecomposeWith(words []string, morphemes []ports.MorphemeEntry) (*DecomposeResult, error) {
	return callFor[DecomposeResult](c, MethodDecompose, DecomposeParams{Words: words, Inline: true, Morphemes: morphemes})
}

// Lint checks a stored lexicon ("" for the default).
func (c *Client) Lint(lexicon string) (*LintResult, error) {
	return callFor[LintResult](c, MethodLint, LintParams{Lexicon: lexicon})
}

// Lexicons lists the stored lexicons.
func (c *Client) Lexicons() (*LexiconsResult, error) {
	return callFor[LexiconsResult](c, MethodLexicons, nil)
}

// Import asks the daemon to load and store the lexicon file at path.
func (c *Client) Import(path, name string) (*ImportResult, error) {
	return callFor[ImportResult](c, MethodImport, ImportParams{Path: path, Name: name})
}

// Remove deletes a stored lexicon.
func (c *Client) Remove(name string) error {
	_, err := c.call(MethodRemove, RemoveParams{Name: name})
	return err
}

// Stats returns aggregate usage counters.
func (c *Client) Stats() (*StatsResult, error) {
	return callFor[StatsResult](c, MethodStats, nil)
}

// Health sends a health check request.
func (c *Client) Health() (*HealthResult, error) {
	return callFor[HealthResult](c, MethodHealth, nil)
}

// Shutdown sends a shutdown request to the daemon.
func (c *Client) Shutdown() error {
	_, err := c.call(MethodShutdown, nil)
	return err
}

// Ping checks if the daemon is reachable.
func (c *Client) Ping() bool {
	conn, err := net.DialTimeout("unix", c.sockPath, 500*time.Millisecond)
	if err != nil {
		return false
	}
	conn.Close()
	return true
}

// callFor performs a request and decodes its result into T.
func callFor[T any](c *Client, method string, params interface{}) (*T, error) {
	resp, err := c.call(method, params)
	if err != nil {
		return nil, err
	}
	resultJSON, err := json.Marshal(resp.Result)
	if err != nil {
		return nil, fmt.Errorf("marshal result: %w", err)
	}
	var result T
	if err := json.Unmarshal(resultJSON, &result); err != nil {
		return nil, fmt.Errorf("unmarshal result: %w", err)
	}
	return &result, nil
}

func (c *Client) call(method string, params interface{}) (*Response, error) {
	req := Request{
		ID:     uuid.NewString(),
		Method: method,
		Params: params,
	}

	conn, err := net.DialTimeout("unix", c.sockPath, 2*time.Second)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	defer conn.Close()

	// Set deadline for the whole request/response
	conn.SetDeadline(time.Now().Add(c.timeout))

	data, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}
	data = append(data, '\n')
	if _, err := conn.Write(data); err != nil {
		return nil, fmt.Errorf("write: %w", err)
	}

	scanner := bufio.NewScanner(conn)
	scanner.Buffer(make([]byte, 1024*1024), 1024*1024)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("read: %w", err)
		}
		return nil, fmt.Errorf("empty response")
	}

	var resp Response
	if err := json.Unmarshal(scanner.Bytes(), &resp); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}
	if resp.Error != "" {
		return nil, fmt.Errorf("server error: %s", resp.Error)
	}
	if resp.ID != req.ID {
		return nil, fmt.Errorf("response id %q does not match request %q", resp.ID, req.ID)
	}
	return &resp, nil
}
