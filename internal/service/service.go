// Package service defines the interfaces the commands work against: the task
// list operations and the remote publisher.
package service

import (
	"context"

	"todo/internal/config"
	"todo/internal/tasks"
)

// Service is the presentation-facing task list API.
// Commands never touch storage directly.
type Service interface {
	// Tasks returns a snapshot of the list in display order.
	Tasks() []tasks.Task

	// Counts returns the number of open and completed tasks.
	Counts() (remaining, completed int)

	// IsSaving reports whether a write is pending or in flight.
	IsSaving() bool

	AddTask(text string) (tasks.Task, error)
	DeleteTask(id int64) error
	ToggleComplete(id int64) (tasks.Task, error)
	EditTask(id int64, text string) (tasks.Task, error)

	// Edit session.
	StartEdit(id int64, text string) error
	SetDraft(text string) error
	SaveEdit(text string) (tasks.Task, error)
	CancelEdit()
	EditState() tasks.EditState

	// Delete confirmation session.
	RequestDelete(id int64) error
	ConfirmDelete() error
	CancelDelete()
	DeleteState() tasks.DeleteState
}

var _ Service = (*tasks.Store)(nil)

// PublishResult summarizes a publish run.
type PublishResult struct {
	Created   int
	Updated   int
	Unchanged int
}

// Publisher copies the task list to a remote task service.
// Publishing is one-way: nothing is read back into the local list.
type Publisher interface {
	// EnsureList returns the ID of the remote list with the given title,
	// creating it if needed.
	EnsureList(ctx context.Context, title string) (string, error)

	// Publish creates or updates remote tasks to match list.
	Publish(ctx context.Context, listID string, list []tasks.Task) (PublishResult, error)
}

// PublisherFactory creates a Publisher from config.
type PublisherFactory func(ctx context.Context, cfg *config.Config) (Publisher, error)
