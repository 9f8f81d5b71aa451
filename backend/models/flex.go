package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// StringList decodes either a JSON string or an array of strings.
// A single string becomes a one-element list.
type StringList []string

func (l *StringList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*l = StringList{s}
		return nil
	}
	var items []string
	if err := json.Unmarshal(data, &items); err != nil {
		return fmt.Errorf("expected a string or an array of strings")
	}
	*l = items
	return nil
}

// IntList decodes either a JSON integer or an array of integers.
type IntList []int

func (l *IntList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	if len(data) > 0 && data[0] != '[' {
		var n int
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("expected an integer or an array of integers")
		}
		*l = IntList{n}
		return nil
	}
	var items []int
	if err := json.Unmarshal(data, &items); err != nil {
		return fmt.Errorf("expected an integer or an array of integers")
	}
	*l = items
	return nil
}
