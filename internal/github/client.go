// Package github reads and writes single files through the hosted Git contents API.
package github

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultBaseURL is the public API endpoint.
const DefaultBaseURL = "https://api.github.com"

// DefaultTimeout is the default HTTP request timeout.
const DefaultTimeout = 30 * time.Second

// DefaultUserAgent is the user agent string for API requests.
const DefaultUserAgent = "jme-admin"

// ErrNotFound is returned by GetFile when the file does not exist.
var ErrNotFound = errors.New("file not found")

// APIError is a non-success response from the contents API. A stale revision on
// write comes back as 409 or 422.
type APIError struct {
	Method string
	Path   string
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("github %s %s: HTTP status %d: %s", e.Method, e.Path, e.Status, strings.TrimSpace(e.Body))
}

// Conflict reports whether the write was rejected because the revision was stale.
func (e *APIError) Conflict() bool {
	return e.Status == http.StatusConflict || e.Status == http.StatusUnprocessableEntity
}

// RequestError represents a transport failure talking to the API.
type RequestError struct {
	Path    string
	Message string
	Cause   error
}

func (e *RequestError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("github request error for %s: %s: %v", e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("github request error for %s: %s", e.Path, e.Message)
}

func (e *RequestError) Unwrap() error {
	return e.Cause
}

// FileInfo describes a file in the repository. SHA is the revision marker that
// must accompany an update.
type FileInfo struct {
	Path string `json:"path"`
	SHA  string `json:"sha"`
	Size int    `json:"size"`
}

// PutRequest is the body of a contents write. Content is base64 encoded. SHA is empty
// when creating a new file.
type PutRequest struct {
	Message string `json:"message"`
	Content string `json:"content"`
	SHA     string `json:"sha,omitempty"`
	Branch  string `json:"branch,omitempty"`
}

// PutResult is the revision written by PutFile.
type PutResult struct {
	Content FileInfo `json:"content"`
	Commit  struct {
		SHA string `json:"sha"`
	} `json:"commit"`
}

// Client talks to one repository.
type Client struct {
	Repo      string // owner/name
	Token     string
	Branch    string // empty means the default branch
	BaseURL   string
	UserAgent string
	HTTP      *http.Client
}

// NewClient returns a client for repo with default settings.
func NewClient(repo, token string) *Client {
	return &Client{
		Repo:      repo,
		Token:     token,
		BaseURL:   DefaultBaseURL,
		UserAgent: DefaultUserAgent,
		HTTP:      &http.Client{Timeout: DefaultTimeout},
	}
}

// GetFile returns the current revision of path.
func (c *Client) GetFile(ctx context.Context, path string) (*FileInfo, error) {
	endpoint := c.contentsURL(path)
	if c.Branch != "" {
		endpoint += "?ref=" + url.QueryEscape(c.Branch)
	}

	var info FileInfo
	status, err := c.do(ctx, http.MethodGet, path, endpoint, nil, &info)
	if status == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &info, nil
}

// PutFile creates or updates path. The write fails if req.SHA is not the current
// revision; the failure is returned, never retried.
func (c *Client) PutFile(ctx context.Context, path string, req PutRequest) (*PutResult, error) {
	if req.Branch == "" {
		req.Branch = c.Branch
	}
	body, err := json.Marshal(req)
	if err != nil {
		return nil, &RequestError{Path: path, Message: "failed to encode request", Cause: err}
	}

	var result PutResult
	if _, err := c.do(ctx, http.MethodPut, path, c.contentsURL(path), body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) contentsURL(path string) string {
	base := strings.TrimRight(c.BaseURL, "/")
	if base == "" {
		base = DefaultBaseURL
	}
	segments := strings.Split(strings.Trim(path, "/"), "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return fmt.Sprintf("%s/repos/%s/contents/%s", base, c.Repo, strings.Join(segments, "/"))
}

func (c *Client) do(ctx context.Context, method, path, endpoint string, body []byte, out any) (int, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return 0, &RequestError{Path: path, Message: "failed to create request", Cause: err}
	}

	userAgent := c.UserAgent
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/vnd.github+json")
	if c.Token != "" {
		req.Header.Set("Authorization", "token "+c.Token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	httpClient := c.HTTP
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultTimeout}
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return 0, &RequestError{Path: path, Message: "HTTP request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, &RequestError{Path: path, Message: "failed to read response body", Cause: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return resp.StatusCode, &APIError{Method: method, Path: path, Status: resp.StatusCode, Body: string(respBody)}
	}

	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			return resp.StatusCode, &RequestError{Path: path, Message: "failed to decode response", Cause: err}
		}
	}
	return resp.StatusCode, nil
}
