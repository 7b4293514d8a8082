// Package tasks mirrors backend task operations into the task store.
//
// Every operation sends one request through a service.Service and, once the
// backend acknowledges it, applies the result to the store as a single
// transaction. Nothing is applied optimistically: until the response
// arrives the store keeps its prior state, and a failed request leaves it
// untouched.
package tasks

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"taskstore/internal/logger"
	"taskstore/internal/service"
	"taskstore/internal/store"
)

// Source is the label attached to every log entry from this package.
const Source = "TasksService"

var (
	// ErrListNotLoaded means the operation needs a list that FetchAll has
	// not populated.
	ErrListNotLoaded = errors.New("task list not loaded")

	// ErrTaskNotFound means the task ID is not in the local collection.
	ErrTaskNotFound = errors.New("task not found")
)

// Service performs task operations and keeps a store in sync with them.
type Service struct {
	backend service.Service
	store   *store.Store
	log     *slog.Logger
}

// New creates a Service. A nil store means a fresh empty one; a nil logger
// discards output.
func New(backend service.Service, st *store.Store, log *slog.Logger) *Service {
	if st == nil {
		st = store.New()
	}
	return &Service{
		backend: backend,
		store:   st,
		log:     logger.WithSource(log, Source),
	}
}

// Store returns the store this service publishes to.
func (s *Service) Store() *store.Store {
	return s.store
}

// FetchAll loads listID's tasks and replaces its collection.
func (s *Service) FetchAll(ctx context.Context, listID string) error {
	items, err := s.backend.ListTasks(ctx, listID)
	if err != nil {
		return s.fail("fetch tasks", listID, err)
	}

	err = s.store.Update(listID, func([]service.Task, bool) ([]service.Task, error) {
		return items, nil
	})
	if err != nil {
		return err
	}

	if len(items) > 0 {
		s.log.Info("task list loaded", "list_id", listID, "count", len(items))
	} else {
		s.log.Warn("task list is empty", "list_id", listID)
	}
	return nil
}

// Create adds a task titled title and prepends the backend's copy of it.
// listID must have been loaded by FetchAll.
func (s *Service) Create(ctx context.Context, listID, title string) (service.Task, error) {
	if _, ok := s.store.Tasks(listID); !ok {
		return service.Task{}, fmt.Errorf("create task in %s: %w", listID, ErrListNotLoaded)
	}

	created, err := s.backend.CreateTask(ctx, listID, title)
	if err != nil {
		return service.Task{}, s.fail("create task", listID, err)
	}

	err = s.store.Update(listID, func(cur []service.Task, loaded bool) ([]service.Task, error) {
		next := make([]service.Task, 0, len(cur)+1)
		next = append(next, created)
		return append(next, cur...), nil
	})
	if err != nil {
		return service.Task{}, err
	}

	s.log.Info("task added", "list_id", listID, "task_id", created.ID, "title", created.Title)
	return created, nil
}

// Delete removes taskID from listID. The task must be present locally; its
// title is captured before the request for the log entry.
func (s *Service) Delete(ctx context.Context, listID, taskID string) error {
	task, err := s.lookup(listID, taskID)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}

	if err := s.backend.DeleteTask(ctx, listID, taskID); err != nil {
		return s.fail("delete task", listID, err)
	}

	err = s.store.Update(listID, func(cur []service.Task, loaded bool) ([]service.Task, error) {
		next := cur[:0]
		for _, t := range cur {
			if t.ID != taskID {
				next = append(next, t)
			}
		}
		return next, nil
	})
	if err != nil {
		return err
	}

	s.log.Info("task deleted", "list_id", listID, "task_id", taskID, "title", task.Title)
	return nil
}

// Update sends patch for taskID and, once acknowledged, overwrites the local
// task's fields that patch carries. The response body is not merged. The
// logged title and state are those of the merged task.
//
// If the task left the list while the request was in flight, nothing is
// merged and the task as it was before the request is returned.
func (s *Service) Update(ctx context.Context, listID, taskID string, patch service.TaskPatch) (service.Task, error) {
	before, err := s.lookup(listID, taskID)
	if err != nil {
		return service.Task{}, fmt.Errorf("update task: %w", err)
	}

	if _, err := s.backend.UpdateTask(ctx, listID, taskID, patch); err != nil {
		return service.Task{}, s.fail("update task", listID, err)
	}

	var merged service.Task
	found := false
	err = s.store.Update(listID, func(cur []service.Task, loaded bool) ([]service.Task, error) {
		for i, t := range cur {
			if t.ID == taskID {
				merged = patch.Apply(t)
				cur[i] = merged
				found = true
			}
		}
		return cur, nil
	})
	if err != nil {
		return service.Task{}, err
	}

	if !found {
		s.log.Warn("updated task no longer in list", "list_id", listID, "task_id", taskID)
		return before, nil
	}

	s.log.Info("task updated", "list_id", listID, "task_id", taskID,
		"title", merged.Title, "state", checkedLabel(merged))
	return merged, nil
}

func (s *Service) lookup(listID, taskID string) (service.Task, error) {
	tasks, ok := s.store.Tasks(listID)
	if !ok {
		return service.Task{}, fmt.Errorf("%s: %w", listID, ErrListNotLoaded)
	}
	for _, t := range tasks {
		if t.ID == taskID {
			return t, nil
		}
	}
	return service.Task{}, fmt.Errorf("%s in %s: %w", taskID, listID, ErrTaskNotFound)
}

func (s *Service) fail(op, listID string, err error) error {
	s.log.Error(op+" failed", "list_id", listID, "error", err)
	return fmt.Errorf("%s: %w", op, err)
}

func checkedLabel(t service.Task) string {
	if t.Completed() {
		return "checked"
	}
	return "unchecked"
}
