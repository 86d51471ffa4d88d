// Package output provides formatters for CLI output.
package output

import (
	"fmt"
	"io"
	"strings"

	"todo/internal/tasks"
)

// EmptyMessage is printed when the list has no tasks.
const EmptyMessage = "no tasks found"

// FormatTask formats a task line.
// Format: "{N:>4}  [x] {TEXT}\n" (4-wide right-aligned number, two spaces,
// checkbox, text)
func FormatTask(w io.Writer, num int, task tasks.Task) {
	box := "[ ]"
	if task.Completed {
		box = "[x]"
	}
	fmt.Fprintf(w, "%4d  %s %s\n", num, box, normalizeText(task.Text))
}

// FormatList formats every task, or only the open ones when pendingOnly is
// set. Hidden tasks keep their numbers so references stay stable.
func FormatList(w io.Writer, list []tasks.Task, pendingOnly bool) {
	for i, task := range list {
		if pendingOnly && task.Completed {
			continue
		}
		FormatTask(w, i+1, task)
	}
}

// FormatSummary formats the remaining/completed counters.
func FormatSummary(w io.Writer, remaining, completed int) {
	fmt.Fprintf(w, "\n%d remaining, %d completed\n", remaining, completed)
}

// normalizeText normalizes task text for display.
// Newlines are replaced with spaces.
func normalizeText(text string) string {
	text = strings.ReplaceAll(text, "\r", " ")
	return strings.ReplaceAll(text, "\n", " ")
}
