// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"taskstore/internal/service"
)

// Call records one request made against FakeService.
type Call struct {
	Method string
	ListID string
	TaskID string
	Title  string
	Patch  service.TaskPatch
}

// FakeService is an in-memory implementation of service.Service for testing.
// New tasks are inserted at the top of their list, like the real backend.
type FakeService struct {
	mu    sync.RWMutex
	tasks map[string][]service.Task // listID -> tasks
	calls []Call

	// NextID overrides the generated ID of the next created task.
	NextID string

	// Error injection for testing
	ListTasksErr  map[string]error // listID -> error
	CreateTaskErr error
	UpdateTaskErr error
	DeleteTaskErr error
}

// NewFakeService creates an empty FakeService.
func NewFakeService() *FakeService {
	return &FakeService{
		tasks:        make(map[string][]service.Task),
		ListTasksErr: make(map[string]error),
	}
}

// AddList registers an empty list.
func (f *FakeService) AddList(listID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.tasks[listID]; !ok {
		f.tasks[listID] = []service.Task{}
	}
}

// AddTask appends a task to a list, creating the list if needed.
func (f *FakeService) AddTask(listID string, task service.Task) {
	f.mu.Lock()
	defer f.mu.Unlock()
	task.TodoListID = listID
	f.tasks[listID] = append(f.tasks[listID], task)
}

// Tasks returns the backend's copy of a list.
func (f *FakeService) Tasks(listID string) []service.Task {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]service.Task, len(f.tasks[listID]))
	copy(out, f.tasks[listID])
	return out
}

// Calls returns the requests received so far.
func (f *FakeService) Calls() []Call {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]Call, len(f.calls))
	copy(out, f.calls)
	return out
}

func (f *FakeService) record(c Call) {
	f.mu.Lock()
	f.calls = append(f.calls, c)
	f.mu.Unlock()
}

// ListTasks implements service.Service.
func (f *FakeService) ListTasks(ctx context.Context, listID string) ([]service.Task, error) {
	f.record(Call{Method: "ListTasks", ListID: listID})
	if err, ok := f.ListTasksErr[listID]; ok && err != nil {
		return nil, err
	}
	f.mu.RLock()
	defer f.mu.RUnlock()

	tasks, ok := f.tasks[listID]
	if !ok {
		return nil, service.ErrNotFound
	}
	out := make([]service.Task, len(tasks))
	copy(out, tasks)
	return out, nil
}

// CreateTask implements service.Service.
func (f *FakeService) CreateTask(ctx context.Context, listID, title string) (service.Task, error) {
	f.record(Call{Method: "CreateTask", ListID: listID, Title: title})
	if f.CreateTaskErr != nil {
		return service.Task{}, f.CreateTaskErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	tasks, ok := f.tasks[listID]
	if !ok {
		return service.Task{}, service.ErrNotFound
	}

	id := f.NextID
	f.NextID = ""
	if id == "" {
		id = uuid.NewString()
	}
	task := service.Task{ID: id, Title: title, TodoListID: listID, Status: service.StatusNew}
	f.tasks[listID] = append([]service.Task{task}, tasks...)
	return task, nil
}

// UpdateTask implements service.Service.
func (f *FakeService) UpdateTask(ctx context.Context, listID, taskID string, patch service.TaskPatch) (service.Task, error) {
	f.record(Call{Method: "UpdateTask", ListID: listID, TaskID: taskID, Patch: patch})
	if f.UpdateTaskErr != nil {
		return service.Task{}, f.UpdateTaskErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	for i, t := range f.tasks[listID] {
		if t.ID == taskID {
			f.tasks[listID][i] = patch.Apply(t)
			return f.tasks[listID][i], nil
		}
	}
	return service.Task{}, service.ErrNotFound
}

// DeleteTask implements service.Service.
func (f *FakeService) DeleteTask(ctx context.Context, listID, taskID string) error {
	f.record(Call{Method: "DeleteTask", ListID: listID, TaskID: taskID})
	if f.DeleteTaskErr != nil {
		return f.DeleteTaskErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	tasks := f.tasks[listID]
	for i, t := range tasks {
		if t.ID == taskID {
			f.tasks[listID] = append(tasks[:i], tasks[i+1:]...)
			return nil
		}
	}
	return service.ErrNotFound
}
