package tasks

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Encode serializes the list as a JSON array of {id, text, completed}.
// A nil list encodes as [].
func Encode(list []Task) ([]byte, error) {
	if list == nil {
		list = []Task{}
	}
	return json.Marshal(list)
}

// Decode parses a list produced by Encode.
// The whole document is rejected on duplicate ids or blank text. Text over
// MaxTextLength is accepted: lists written by earlier versions could carry
// it, and the cap only applies to new input.
func Decode(data []byte) ([]Task, error) {
	var list []Task
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("invalid task list: %w", err)
	}
	if err := validate(list); err != nil {
		return nil, err
	}
	if list == nil {
		list = []Task{}
	}
	return list, nil
}

func validate(list []Task) error {
	seen := make(map[int64]struct{}, len(list))
	for i, t := range list {
		if _, dup := seen[t.ID]; dup {
			return fmt.Errorf("invalid task list: duplicate id %d", t.ID)
		}
		seen[t.ID] = struct{}{}
		if strings.TrimSpace(t.Text) == "" {
			return fmt.Errorf("invalid task list: entry %d: %w", i, ErrEmptyText)
		}
	}
	return nil
}
