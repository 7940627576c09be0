package models

import (
	"bytes"
	"encoding/json"

	"loyalty_club_backend/pkg/utils"
)

// Client represents a member of the loyalty program
type Client struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Points      int    `json:"points"`
	TotalVisits int    `json:"totalVisits"`
	DateCreated string `json:"dateCreated"` // YYYY-MM-DD
	Avatar      string `json:"avatar"`
}

// ClientInput carries the fields of a create or update call. Nil pointers and
// absent numbers mean "not provided". There is no id field: an "id" in the
// payload is ignored and the id always comes from the caller.
type ClientInput struct {
	Name        *string `json:"name,omitempty"`
	Email       *string `json:"email,omitempty"`
	Phone       *string `json:"phone,omitempty"`
	Points      Number  `json:"points"`
	TotalVisits Number  `json:"totalVisits"`
	DateCreated *string `json:"dateCreated,omitempty"`
}

// Number is a JSON field that may hold anything. It is Valid only when the
// payload held a JSON number; Text keeps string payloads for callers that
// want to parse them leniently.
type Number struct {
	Value   int
	Valid   bool
	Present bool
	Text    string
}

// NewNumber returns a valid Number holding n.
func NewNumber(n int) Number {
	return Number{Value: n, Valid: true, Present: true}
}

// UnmarshalJSON accepts any JSON value.
func (n *Number) UnmarshalJSON(data []byte) error {
	*n = Number{Present: true}
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}
	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err == nil {
			n.Text = s
		}
		return nil
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		var f float64
		if err := json.Unmarshal(data, &f); err != nil {
			return nil
		}
		n.Value = utils.TruncateToInt(f)
		n.Valid = true
	}
	return nil
}

// MarshalJSON writes the number, or null when it is not numeric.
func (n Number) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(n.Value)
}

// Int returns the value and whether it was numeric.
func (n Number) Int() (int, bool) {
	return n.Value, n.Valid
}
