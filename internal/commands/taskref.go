package commands

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"unicode"

	"todo/internal/exitcode"
	"todo/internal/service"
	"todo/internal/tasks"
)

// ErrTaskRefRequired indicates no task reference was provided.
var ErrTaskRefRequired = errors.New("task reference required")

// ParseTaskRef parses the 1-based task number that leads args.
// Returns the number and the remaining args.
func ParseTaskRef(args []string) (int, []string, error) {
	if len(args) == 0 {
		return 0, nil, ErrTaskRefRequired
	}

	ref := args[0]
	if !isAllDigits(ref) {
		return 0, nil, fmt.Errorf("invalid task reference: %s", ref)
	}
	num, err := strconv.Atoi(ref)
	if err != nil {
		return 0, nil, fmt.Errorf("invalid task reference: %s", ref)
	}
	return num, args[1:], nil
}

// isAllDigits returns true if s consists only of ASCII digits and is non-empty.
func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r > unicode.MaxASCII || !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// findTaskByNumber returns the task shown at 1-based position num.
func findTaskByNumber(svc service.Service, num int) (tasks.Task, error) {
	list := svc.Tasks()
	if num < 1 || num > len(list) {
		return tasks.Task{}, fmt.Errorf("task number out of range: %d", num)
	}
	return list[num-1], nil
}

// resolveTaskRef parses the leading task reference and looks the task up,
// printing the failure to errOut. When ok is false the command should
// return code.
func resolveTaskRef(svc service.Service, args []string, errOut io.Writer) (task tasks.Task, rest []string, code int, ok bool) {
	num, rest, err := ParseTaskRef(args)
	if err != nil {
		if err == ErrTaskRefRequired {
			fmt.Fprintln(errOut, "error: task reference required")
		} else {
			fmt.Fprintf(errOut, "error: %v\n", err)
		}
		return tasks.Task{}, nil, exitcode.UserError, false
	}

	task, err = findTaskByNumber(svc, num)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return tasks.Task{}, nil, exitcode.UserError, false
	}
	return task, rest, exitcode.Success, true
}

// textErrorMessage describes a rejected task text.
func textErrorMessage(err error) string {
	switch {
	case errors.Is(err, tasks.ErrEmptyText):
		return "text required"
	case errors.Is(err, tasks.ErrTextTooLong):
		return fmt.Sprintf("text too long (max %d characters)", tasks.MaxTextLength)
	default:
		return err.Error()
	}
}
