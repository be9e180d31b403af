package models

import (
	"encoding/json"
)

// ResponseSet maps model identifiers to completions and remembers insertion order.
type ResponseSet struct {
	order   []string
	byModel map[string]Completion
}

func NewResponseSet() *ResponseSet {
	return &ResponseSet{
		byModel: make(map[string]Completion),
	}
}

// Set stores the completion under c.Model. A key that is already present keeps
// its position and takes the new value.
func (s *ResponseSet) Set(c Completion) {
	if _, ok := s.byModel[c.Model]; !ok {
		s.order = append(s.order, c.Model)
	}
	s.byModel[c.Model] = c
}

func (s *ResponseSet) Get(model string) (Completion, bool) {
	c, ok := s.byModel[model]
	return c, ok
}

func (s *ResponseSet) Len() int {
	return len(s.order)
}

// Identifiers returns the keys in insertion order.
func (s *ResponseSet) Identifiers() []string {
	ids := make([]string, len(s.order))
	copy(ids, s.order)
	return ids
}

// Completions returns the values in insertion order.
func (s *ResponseSet) Completions() []Completion {
	completions := make([]Completion, 0, len(s.order))
	for _, id := range s.order {
		completions = append(completions, s.byModel[id])
	}
	return completions
}

// Texts returns identifier -> rendered response text.
func (s *ResponseSet) Texts() map[string]string {
	texts := make(map[string]string, len(s.order))
	for _, id := range s.order {
		texts[id] = s.byModel[id].Text()
	}
	return texts
}

// ModelResponse is the wire form of one ResponseSet entry.
type ModelResponse struct {
	Model    string `json:"model"`
	Response string `json:"response"`
	Failed   bool   `json:"failed,omitempty"`
}

func (s *ResponseSet) MarshalJSON() ([]byte, error) {
	entries := make([]ModelResponse, 0, len(s.order))
	for _, c := range s.Completions() {
		entries = append(entries, ModelResponse{
			Model:    c.Model,
			Response: c.Text(),
			Failed:   c.Failed(),
		})
	}
	return json.Marshal(entries)
}

// UnmarshalJSON reads responses back as plain content. Error text stays text.
func (s *ResponseSet) UnmarshalJSON(data []byte) error {
	var entries []ModelResponse
	if err := json.Unmarshal(data, &entries); err != nil {
		return err
	}
	*s = *FromModelResponses(entries)
	return nil
}

func FromModelResponses(entries []ModelResponse) *ResponseSet {
	set := NewResponseSet()
	for _, e := range entries {
		set.Set(Completion{Model: e.Model, Content: e.Response})
	}
	return set
}
