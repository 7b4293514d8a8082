// Package service defines the backend-agnostic task model and transport contract.
package service

import "strconv"

// TaskStatus is the ordinal progress state of a task.
type TaskStatus int

const (
	StatusNew TaskStatus = iota
	StatusInProgress
	StatusCompleted
	StatusDraft
)

var statusNames = map[TaskStatus]string{
	StatusNew:        "new",
	StatusInProgress: "in-progress",
	StatusCompleted:  "completed",
	StatusDraft:      "draft",
}

func (s TaskStatus) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return "unknown"
}

// ParseStatus resolves a status by name ("completed") or ordinal ("2").
func ParseStatus(s string) (TaskStatus, bool) {
	for st, name := range statusNames {
		if s == name || s == strconv.Itoa(int(st)) {
			return st, true
		}
	}
	return 0, false
}

// TaskPriority is the ordinal priority of a task.
type TaskPriority int

const (
	PriorityLow TaskPriority = iota
	PriorityMiddle
	PriorityHi
	PriorityUrgently
	PriorityLater
)

var priorityNames = map[TaskPriority]string{
	PriorityLow:      "low",
	PriorityMiddle:   "middle",
	PriorityHi:       "hi",
	PriorityUrgently: "urgently",
	PriorityLater:    "later",
}

func (p TaskPriority) String() string {
	if name, ok := priorityNames[p]; ok {
		return name
	}
	return "unknown"
}

// ParsePriority resolves a priority by name ("hi") or ordinal ("2").
func ParsePriority(s string) (TaskPriority, bool) {
	for pr, name := range priorityNames {
		if s == name || s == strconv.Itoa(int(pr)) {
			return pr, true
		}
	}
	return 0, false
}

// Task represents a single task item as the backend reports it.
type Task struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description,omitempty"`
	TodoListID  string       `json:"todoListId,omitempty"`
	Order       int          `json:"order"`
	Status      TaskStatus   `json:"status"`
	Priority    TaskPriority `json:"priority"`
	StartDate   Timestamp    `json:"startDate"`
	Deadline    Timestamp    `json:"deadline"`
	AddedDate   Timestamp    `json:"addedDate"`
}

// Completed reports whether the task is in the checked state.
func (t Task) Completed() bool {
	return t.Status == StatusCompleted
}

// TaskPatch holds the fields of an update request.
// Nil fields are neither sent nor merged.
type TaskPatch struct {
	Title       *string       `json:"title,omitempty"`
	Description *string       `json:"description,omitempty"`
	Status      *TaskStatus   `json:"status,omitempty"`
	Priority    *TaskPriority `json:"priority,omitempty"`
	StartDate   *Timestamp    `json:"startDate,omitempty"`
	Deadline    *Timestamp    `json:"deadline,omitempty"`
}

// IsEmpty reports whether the patch carries no fields.
func (p TaskPatch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.Status == nil &&
		p.Priority == nil && p.StartDate == nil && p.Deadline == nil
}

// Apply returns t with every present patch field overwritten.
func (p TaskPatch) Apply(t Task) Task {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Status != nil {
		t.Status = *p.Status
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	if p.StartDate != nil {
		t.StartDate = *p.StartDate
	}
	if p.Deadline != nil {
		t.Deadline = *p.Deadline
	}
	return t
}

// GetTasksResponse is the list endpoint payload.
type GetTasksResponse struct {
	Items      []Task  `json:"items"`
	TotalCount int     `json:"totalCount"`
	Error      *string `json:"error"`
}

// ItemData wraps a single task in a mutation response.
type ItemData struct {
	Item Task `json:"item"`
}

// CommonResponse is the envelope for create, update and delete responses.
// ResultCode 0 means success.
type CommonResponse[T any] struct {
	ResultCode int      `json:"resultCode"`
	Messages   []string `json:"messages"`
	Data       T        `json:"data"`
}

// CreateTaskRequest is the create endpoint body.
type CreateTaskRequest struct {
	Title string `json:"title"`
}
