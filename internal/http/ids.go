package http

import (
	"bytes"
	"fmt"
	"strconv"
)

// flexibleID is a numeric id that also accepts its quoted form, so both
// "student_id": 12 and "student_id": "12" bind. null and "" bind to zero.
type flexibleID uint

func (id *flexibleID) UnmarshalJSON(data []byte) error {
	raw := bytes.TrimSpace(data)
	if bytes.Equal(raw, []byte("null")) {
		*id = 0
		return nil
	}
	if len(raw) > 0 && raw[0] == '"' {
		s, err := strconv.Unquote(string(raw))
		if err != nil {
			return fmt.Errorf("invalid id %s: %w", raw, err)
		}
		raw = []byte(s)
	}
	if len(raw) == 0 {
		*id = 0
		return nil
	}
	n, err := strconv.ParseUint(string(raw), 10, 32)
	if err != nil {
		return fmt.Errorf("invalid id %s: %w", data, err)
	}
	*id = flexibleID(n)
	return nil
}
