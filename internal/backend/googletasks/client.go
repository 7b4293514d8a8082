// Package googletasks implements the service.Service interface using Google Tasks API.
package googletasks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	tasks "google.golang.org/api/tasks/v1"

	"taskstore/internal/config"
	"taskstore/internal/service"
)

const (
	// PageSize is the number of tasks requested per page.
	PageSize = 100

	// OAuth scope for Google Tasks
	tasksScope = "https://www.googleapis.com/auth/tasks"

	statusNeedsAction = "needsAction"
	statusCompleted   = "completed"
)

// Client implements service.Service using Google Tasks API.
// Google tasks carry no priority or start date; those patch fields are
// accepted and ignored.
type Client struct {
	svc     *tasks.Service
	timeout time.Duration
}

// New creates a new Google Tasks client.
// Requires oauth_client.json and token.json to exist in the config dir.
func New(ctx context.Context, cfg *config.Config) (*Client, error) {
	// Load OAuth client config
	clientJSON, err := os.ReadFile(cfg.OAuthClientPath())
	if err != nil {
		return nil, fmt.Errorf("failed to read oauth_client.json: %w", err)
	}

	oauthConfig, err := google.ConfigFromJSON(clientJSON, tasksScope)
	if err != nil {
		return nil, fmt.Errorf("invalid oauth_client.json: %w", err)
	}

	// Load token
	tokenData, err := os.ReadFile(cfg.TokenPath())
	if err != nil {
		return nil, fmt.Errorf("failed to read token.json: %w", err)
	}

	var token oauth2.Token
	if err := json.Unmarshal(tokenData, &token); err != nil {
		return nil, fmt.Errorf("invalid token.json: %w", err)
	}

	// Token source refreshes automatically
	httpClient := oauth2.NewClient(ctx, oauthConfig.TokenSource(ctx, &token))

	svc, err := tasks.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("failed to create tasks service: %w", err)
	}

	return &Client{svc: svc, timeout: cfg.Timeout}, nil
}

// NewWithHTTPClient creates a client against endpoint with a custom HTTP
// client (for testing).
func NewWithHTTPClient(ctx context.Context, endpoint string, httpClient *http.Client) (*Client, error) {
	svc, err := tasks.NewService(ctx, option.WithHTTPClient(httpClient), option.WithEndpoint(endpoint))
	if err != nil {
		return nil, err
	}
	return &Client{svc: svc, timeout: config.DefaultTimeout}, nil
}

// ListTasks returns every non-deleted task of a list, following page tokens.
func (c *Client) ListTasks(ctx context.Context, listID string) ([]service.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	result := []service.Task{}
	err := c.svc.Tasks.List(listID).
		MaxResults(PageSize).
		ShowCompleted(true).
		ShowHidden(true).
		ShowDeleted(false).
		Pages(ctx, func(resp *tasks.Tasks) error {
			for _, t := range resp.Items {
				result = append(result, fromAPI(listID, t))
			}
			return nil
		})
	if err != nil {
		return nil, wrapError(err)
	}
	return result, nil
}

// CreateTask inserts a task at the top of the list.
func (c *Client) CreateTask(ctx context.Context, listID, title string) (service.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	created, err := c.svc.Tasks.Insert(listID, &tasks.Task{Title: title}).Context(ctx).Do()
	if err != nil {
		return service.Task{}, wrapError(err)
	}
	return fromAPI(listID, created), nil
}

// UpdateTask patches the fields Google Tasks supports.
func (c *Client) UpdateTask(ctx context.Context, listID, taskID string, patch service.TaskPatch) (service.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	updated, err := c.svc.Tasks.Patch(listID, taskID, toAPI(patch)).Context(ctx).Do()
	if err != nil {
		return service.Task{}, wrapError(err)
	}
	return fromAPI(listID, updated), nil
}

// DeleteTask deletes a task.
func (c *Client) DeleteTask(ctx context.Context, listID, taskID string) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if err := c.svc.Tasks.Delete(listID, taskID).Context(ctx).Do(); err != nil {
		return wrapError(err)
	}
	return nil
}

func fromAPI(listID string, t *tasks.Task) service.Task {
	task := service.Task{
		ID:          t.Id,
		Title:       t.Title,
		Description: t.Notes,
		TodoListID:  listID,
		Status:      service.StatusNew,
	}
	if t.Status == statusCompleted {
		task.Status = service.StatusCompleted
	}
	if due, err := service.ParseTimestamp(t.Due); err == nil {
		task.Deadline = due
	}
	if updated, err := service.ParseTimestamp(t.Updated); err == nil {
		task.AddedDate = updated
	}
	return task
}

func toAPI(patch service.TaskPatch) *tasks.Task {
	t := &tasks.Task{}
	if patch.Title != nil {
		t.Title = *patch.Title
		if t.Title == "" {
			t.ForceSendFields = append(t.ForceSendFields, "Title")
		}
	}
	if patch.Description != nil {
		t.Notes = *patch.Description
		if t.Notes == "" {
			t.ForceSendFields = append(t.ForceSendFields, "Notes")
		}
	}
	if patch.Status != nil {
		t.Status = statusNeedsAction
		if *patch.Status == service.StatusCompleted {
			t.Status = statusCompleted
		} else {
			// Reopening requires clearing the completion time.
			t.NullFields = append(t.NullFields, "Completed")
		}
	}
	if patch.Deadline != nil {
		if patch.Deadline.IsZero() {
			t.NullFields = append(t.NullFields, "Due")
		} else {
			t.Due = patch.Deadline.UTC().Format(time.RFC3339)
		}
	}
	return t
}

// wrapError maps API errors to service errors.
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
			return fmt.Errorf("%w: token expired or revoked", service.ErrUnauthorized)
		case http.StatusNotFound:
			return fmt.Errorf("%w: %s", service.ErrNotFound, apiErr.Message)
		}
	}

	return err
}
