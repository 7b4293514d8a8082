// Package rest implements service.Service against the todo-lists REST API.
package rest

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

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"google.golang.org/api/googleapi"

	"taskstore/internal/config"
	"taskstore/internal/service"
)

const (
	// APIKeyHeader carries the API key when one is configured.
	APIKeyHeader = "API-KEY"

	// RequestIDHeader carries a per-request UUID.
	RequestIDHeader = "X-Request-ID"
)

// Client implements service.Service over HTTP.
type Client struct {
	baseURL    string
	apiKey     string
	timeout    time.Duration
	httpClient *http.Client
}

// New creates a client from config. A configured token is attached as a
// bearer token through an oauth2 transport.
func New(ctx context.Context, cfg *config.Config) (*Client, error) {
	httpClient := http.DefaultClient
	if cfg.Token != "" {
		httpClient = oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{
			AccessToken: cfg.Token,
			TokenType:   "Bearer",
		}))
	}
	return NewWithHTTPClient(cfg.BaseURL, cfg.APIKey, cfg.Timeout, httpClient)
}

// NewWithHTTPClient creates a client with a custom HTTP client (for testing).
func NewWithHTTPClient(baseURL, apiKey string, timeout time.Duration, httpClient *http.Client) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid base url: %q", baseURL)
	}
	if timeout <= 0 {
		timeout = config.DefaultTimeout
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		timeout:    timeout,
		httpClient: httpClient,
	}, nil
}

// ListTasks implements service.Service.
func (c *Client) ListTasks(ctx context.Context, listID string) ([]service.Task, error) {
	var resp service.GetTasksResponse
	if err := c.do(ctx, http.MethodGet, tasksPath(listID), nil, &resp); err != nil {
		return nil, err
	}
	if resp.Error != nil && *resp.Error != "" {
		return nil, &service.ResultError{Code: 1, Messages: []string{*resp.Error}}
	}
	if resp.Items == nil {
		return []service.Task{}, nil
	}
	return resp.Items, nil
}

// CreateTask implements service.Service.
func (c *Client) CreateTask(ctx context.Context, listID, title string) (service.Task, error) {
	var resp service.CommonResponse[service.ItemData]
	body := service.CreateTaskRequest{Title: title}
	if err := c.do(ctx, http.MethodPost, tasksPath(listID), body, &resp); err != nil {
		return service.Task{}, err
	}
	if err := checkResult(resp.ResultCode, resp.Messages); err != nil {
		return service.Task{}, err
	}
	return resp.Data.Item, nil
}

// UpdateTask implements service.Service.
func (c *Client) UpdateTask(ctx context.Context, listID, taskID string, patch service.TaskPatch) (service.Task, error) {
	var resp service.CommonResponse[service.ItemData]
	if err := c.do(ctx, http.MethodPut, taskPath(listID, taskID), patch, &resp); err != nil {
		return service.Task{}, err
	}
	if err := checkResult(resp.ResultCode, resp.Messages); err != nil {
		return service.Task{}, err
	}
	return resp.Data.Item, nil
}

// DeleteTask implements service.Service.
func (c *Client) DeleteTask(ctx context.Context, listID, taskID string) error {
	var resp service.CommonResponse[json.RawMessage]
	if err := c.do(ctx, http.MethodDelete, taskPath(listID, taskID), nil, &resp); err != nil {
		return err
	}
	return checkResult(resp.ResultCode, resp.Messages)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set(APIKeyHeader, c.apiKey)
	}
	req.Header.Set(RequestIDHeader, uuid.NewString())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return wrapError(err)
	}
	defer resp.Body.Close()

	if err := googleapi.CheckResponse(resp); err != nil {
		return wrapError(err)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func tasksPath(listID string) string {
	return "/todo-lists/" + url.PathEscape(listID) + "/tasks"
}

func taskPath(listID, taskID string) string {
	return tasksPath(listID) + "/" + url.PathEscape(taskID)
}

func checkResult(code int, messages []string) error {
	if code == 0 {
		return nil
	}
	return &service.ResultError{Code: code, Messages: messages}
}

// wrapError maps transport failures to service errors.
func wrapError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", service.ErrTimeout, err)
	}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case http.StatusUnauthorized, http.StatusForbidden:
			return fmt.Errorf("%w: HTTP %d", service.ErrUnauthorized, apiErr.Code)
		case http.StatusNotFound:
			return fmt.Errorf("%w: HTTP %d", service.ErrNotFound, apiErr.Code)
		}
		return fmt.Errorf("HTTP %d: %s", apiErr.Code, strings.TrimSpace(apiErr.Body))
	}

	return err
}
