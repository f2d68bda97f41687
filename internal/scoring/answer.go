package scoring

import (
	"bytes"
	"encoding/json"
)

// Answer is a single response slot: either an answered option label or
// unanswered. The zero value is Unanswered.
type Answer struct {
	label    string
	answered bool
}

func Answered(label string) Answer { return Answer{label: label, answered: true} }

func Unanswered() Answer { return Answer{} }

// Label returns the raw label and whether the question was answered at all.
func (a Answer) Label() (string, bool) {
	return a.label, a.answered
}

// MarshalJSON encodes Unanswered as null and Answered as the label string.
func (a Answer) MarshalJSON() ([]byte, error) {
	if !a.answered {
		return []byte("null"), nil
	}
	return json.Marshal(a.label)
}

// UnmarshalJSON accepts null or a string. Any other JSON value is kept as its
// literal text so that it is later skipped as an unrecognised label.
func (a *Answer) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*a = Unanswered()
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		*a = Answered(string(data))
		return nil
	}
	*a = Answered(s)
	return nil
}

// Answers is the positional answer sequence for one attempt. A nil Answers
// means no answers were supplied at all.
type Answers []Answer

// AnswersFromLabels builds Answers where an empty label means unanswered.
func AnswersFromLabels(labels ...string) Answers {
	out := make(Answers, len(labels))
	for i, l := range labels {
		if l != "" {
			out[i] = Answered(l)
		}
	}
	return out
}

// At returns the answer at index i, or Unanswered past the end.
func (as Answers) At(i int) Answer {
	if i < 0 || i >= len(as) {
		return Unanswered()
	}
	return as[i]
}

// Labels returns the answers as strings with "" for unanswered slots.
func (as Answers) Labels() []string {
	out := make([]string, len(as))
	for i, a := range as {
		out[i], _ = a.Label()
	}
	return out
}

// Responses holds one positional answer sequence per declared category.
type Responses map[string]Answers
