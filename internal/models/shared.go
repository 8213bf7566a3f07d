package models

import (
	"bytes"
	"fmt"
	"strconv"
)

// Flag decodes the backend's loose booleans. Depending on the endpoint
// they arrive either as JSON true/false or as 0/1 straight from the
// database, so a plain bool field would fail to decode half the time.
type Flag bool

// UnmarshalJSON accepts true/false, 0/1 and null.
func (f *Flag) UnmarshalJSON(data []byte) error {
	s := string(bytes.TrimSpace(data))
	switch s {
	case "true":
		*f = true
	case "false", "null":
		*f = false
	default:
		n, err := strconv.Atoi(s)
		if err != nil {
			return fmt.Errorf("invalid flag value %q", s)
		}
		*f = n != 0
	}
	return nil
}

// MarshalJSON writes the flag back as a plain JSON bool.
func (f Flag) MarshalJSON() ([]byte, error) {
	if f {
		return []byte("true"), nil
	}
	return []byte("false"), nil
}

// Bool returns the flag as a plain bool.
func (f Flag) Bool() bool {
	return bool(f)
}
