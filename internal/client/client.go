// Package client is the HTTP client for the requestline API. It maps
// transport outcomes onto the domain error taxonomy so callers never
// inspect status codes.
package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"git.sr.ht/~jakintosh/requestline/internal/domain"
	"github.com/google/uuid"
)

// TransientError marks a failure the caller may simply retry later: the
// network was unreachable, the request timed out, or the server faulted.
type TransientError struct {
	Err error
}

func (e TransientError) Error() string {
	return fmt.Sprintf("transient error: %v", e.Err)
}

func (e TransientError) Unwrap() error { return e.Err }

type Client struct {
	base string
	http *http.Client
	id   string
}

// New creates a client for the API at base. The bounded request timeout
// guarantees a hung server cannot leave a caller's busy state stuck
// forever; the call fails with a TransientError instead.
func New(base string) *Client {
	return &Client{
		base: strings.TrimRight(base, "/"),
		http: &http.Client{Timeout: 10 * time.Second},
		id:   uuid.NewString(),
	}
}

// ID identifies this client instance in the X-Client-ID header and in
// server logs. It is not an auth token.
func (c *Client) ID() string { return c.id }

func (c *Client) List() ([]*domain.Request, error) {
	var requests []*domain.Request
	if err := c.do(http.MethodGet, "/api/requests", nil, &requests); err != nil {
		return nil, err
	}
	return requests, nil
}

func (c *Client) Create(input domain.NewRequest) (int64, error) {
	var out struct {
		ID int64 `json:"id"`
	}
	if err := c.do(http.MethodPost, "/api/requests", input, &out); err != nil {
		return 0, err
	}
	return out.ID, nil
}

func (c *Client) SetStatus(id int64, status domain.Status) error {
	body := map[string]string{"status": string(status)}
	return c.do(http.MethodPut, fmt.Sprintf("/api/requests/%d/status", id), body, nil)
}

func (c *Client) SetSortPosition(id int64, position int) error {
	body := map[string]int{"position": position}
	return c.do(http.MethodPut, fmt.Sprintf("/api/requests/%d/sortposition", id), body, nil)
}

func (c *Client) Reorder(ids []int64) error {
	body := map[string][]int64{"ids": ids}
	return c.do(http.MethodPut, "/api/requests/reorder", body, nil)
}

func (c *Client) Delete(id int64) error {
	return c.do(http.MethodDelete, fmt.Sprintf("/api/requests/%d", id), nil, nil)
}

func (c *Client) do(method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, c.base+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("X-Client-ID", c.id)

	resp, err := c.http.Do(req)
	if err != nil {
		return TransientError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return c.responseError(resp)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

func (c *Client) responseError(resp *http.Response) error {
	var apiErr struct {
		Error string `json:"error"`
	}
	msg := resp.Status
	if err := json.NewDecoder(resp.Body).Decode(&apiErr); err == nil && apiErr.Error != "" {
		msg = apiErr.Error
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return domain.ErrNotFound
	case resp.StatusCode == http.StatusBadRequest:
		return domain.ValidationError{Field: "request", Msg: msg}
	default:
		return TransientError{Err: fmt.Errorf("server error: %s", msg)}
	}
}
