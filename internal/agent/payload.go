package agent

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

var (
	// ErrNoUsableText is returned when none of the known text fields is set.
	ErrNoUsableText = errors.New("no valid response text found in agent response")
	// ErrEmptySequence is returned for a response that is an empty array.
	ErrEmptySequence = errors.New("agent response is an empty array")
)

// Shape tags which form a Payload was decoded from.
type Shape int

const (
	ShapeSingle Shape = iota
	ShapeSequence
)

func (s Shape) String() string {
	if s == ShapeSequence {
		return "sequence"
	}
	return "single"
}

// Entry is one response object. Agents disagree on the field carrying the
// text, so all three known names are kept.
type Entry struct {
	Text     string `json:"text,omitempty"`
	Message  string `json:"message,omitempty"`
	Response string `json:"response,omitempty"`
}

// UnmarshalJSON keeps string fields only. A field holding any other JSON
// type is treated as absent so the next field in priority order is used.
func (e *Entry) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*e = Entry{
		Text:     stringField(raw["text"]),
		Message:  stringField(raw["message"]),
		Response: stringField(raw["response"]),
	}
	return nil
}

func stringField(v json.RawMessage) string {
	var s string
	if len(v) == 0 || json.Unmarshal(v, &s) != nil {
		return ""
	}
	return s
}

// text returns the first non-empty field in priority order.
func (e Entry) text() string {
	for _, v := range [...]string{e.Text, e.Message, e.Response} {
		if v != "" {
			return v
		}
	}
	return ""
}

// Payload is the decoded agent response: either one object or an ordered
// sequence of objects.
type Payload struct {
	Shape    Shape
	Single   Entry
	Sequence []Entry
}

// UnmarshalJSON decodes an object or an array of objects.
func (p *Payload) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return errors.New("agent response is empty")
	}

	switch trimmed[0] {
	case '[':
		var seq []Entry
		if err := json.Unmarshal(trimmed, &seq); err != nil {
			return fmt.Errorf("failed to decode agent response array: %w", err)
		}
		*p = Payload{Shape: ShapeSequence, Sequence: seq}
	case '{':
		var single Entry
		if err := json.Unmarshal(trimmed, &single); err != nil {
			return fmt.Errorf("failed to decode agent response object: %w", err)
		}
		*p = Payload{Shape: ShapeSingle, Single: single}
	default:
		return fmt.Errorf("unexpected agent response: %.40q", trimmed)
	}
	return nil
}

// Normalize picks the element to read (the first one for a sequence) and
// extracts its text, trying text, message and response in that order.
func Normalize(p Payload) (Reply, error) {
	entry := p.Single
	if p.Shape == ShapeSequence {
		if len(p.Sequence) == 0 {
			return Reply{}, ErrEmptySequence
		}
		entry = p.Sequence[0]
	}

	text := entry.text()
	if text == "" {
		return Reply{}, ErrNoUsableText
	}
	return Reply{Text: text}, nil
}

// Decode parses a raw response body and normalizes it in one step.
func Decode(body []byte) (Reply, error) {
	var p Payload
	if err := json.Unmarshal(body, &p); err != nil {
		return Reply{}, err
	}
	return Normalize(p)
}
