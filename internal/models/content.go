package models

import (
	"encoding/json"
	"strings"
)

// Encouragement is a milestone message configured on the backend.
type Encouragement struct {
	Category  string `json:"category"`
	Milestone string `json:"milestone"`
	Message   string `json:"message"`
}

// Tip is a health tip. Older backends return bare strings.
type Tip struct {
	Tip     string `json:"tip,omitempty"`
	Content string `json:"content,omitempty"`
	Message string `json:"message,omitempty"`
}

func (t *Tip) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*t = Tip{Tip: s}
		return nil
	}
	type plain Tip
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*t = Tip(p)
	return nil
}

// Text returns whichever field carries the tip.
func (t Tip) Text() string {
	switch {
	case t.Tip != "":
		return t.Tip
	case t.Content != "":
		return t.Content
	default:
		return t.Message
	}
}

// Affirmation is a daily affirmation. Like tips, it may arrive as a bare
// string or as an object carrying a message.
type Affirmation struct {
	Message string `json:"message"`
}

func (a *Affirmation) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		a.Message = s
		return nil
	}
	type plain Affirmation
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*a = Affirmation(p)
	return nil
}

// Text returns the cleaned affirmation.
func (a Affirmation) Text() string {
	return CleanText(a.Message)
}

var mojibake = strings.NewReplacer(
	"â€”", " — ",
	"â€™", "'",
	"â€œ", "\"",
	"â€\u009d", "\"",
	"â€“", "–",
	"Â", "",
)

// CleanText repairs UTF-8 text that was decoded as Windows-1252 somewhere
// upstream, which affirmations from the backend frequently are.
func CleanText(s string) string {
	return mojibake.Replace(s)
}
