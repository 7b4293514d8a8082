package service

import (
	"context"
	"errors"
	"strings"
)

// Service is the transport contract for task operations on a parent list.
// Commands and the task store never import a backend SDK directly.
type Service interface {
	// ListTasks returns the full task collection of a list in backend order.
	ListTasks(ctx context.Context, listID string) ([]Task, error)

	// CreateTask creates a task and returns it with the server-assigned ID.
	CreateTask(ctx context.Context, listID, title string) (Task, error)

	// UpdateTask sends the patch and returns the backend's view of the task.
	UpdateTask(ctx context.Context, listID, taskID string, patch TaskPatch) (Task, error)

	// DeleteTask deletes a task.
	DeleteTask(ctx context.Context, listID, taskID string) error
}

// Transport errors. Backends wrap their failures with these so callers can
// classify them with errors.Is.
var (
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("unauthorized")
	ErrTimeout      = errors.New("request timed out")
)

// ResultError is a response the backend accepted at the HTTP level but
// rejected with a non-zero result code.
type ResultError struct {
	Code     int
	Messages []string
}

func (e *ResultError) Error() string {
	if len(e.Messages) == 0 {
		return "backend rejected request"
	}
	return "backend rejected request: " + strings.Join(e.Messages, "; ")
}
