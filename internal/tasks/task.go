// Package tasks implements the task list store: an ordered list of tasks with
// validated mutations, single-task edit and delete-confirmation sessions, and
// debounced persistence to a key-value storage slot.
package tasks

import (
	"errors"
	"strings"
	"unicode/utf8"
)

// MaxTextLength is the maximum task text length in characters.
const MaxTextLength = 100

var (
	// ErrEmptyText is returned when text is empty after trimming.
	ErrEmptyText = errors.New("task text is empty")

	// ErrTextTooLong is returned when text exceeds MaxTextLength characters.
	ErrTextTooLong = errors.New("task text is too long")

	// ErrNotFound is returned when no task has the requested id.
	ErrNotFound = errors.New("task not found")

	// ErrNoEditSession is returned by SaveEdit and SetDraft when nothing is being edited.
	ErrNoEditSession = errors.New("no edit in progress")

	// ErrNoPendingDelete is returned by ConfirmDelete when no deletion was requested.
	ErrNoPendingDelete = errors.New("no delete pending")
)

// Task is a single to-do entry.
type Task struct {
	ID        int64  `json:"id"`
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
}

// NormalizeText trims text and checks it against the length cap.
func NormalizeText(text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrEmptyText
	}
	if utf8.RuneCountInString(text) > MaxTextLength {
		return "", ErrTextTooLong
	}
	return text, nil
}

// Truncate cuts text to at most MaxTextLength characters.
func Truncate(text string) string {
	if utf8.RuneCountInString(text) <= MaxTextLength {
		return text
	}
	runes := []rune(text)
	return string(runes[:MaxTextLength])
}
