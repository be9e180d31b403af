package registry

import (
	"errors"
	"fmt"

	"github.com/povarna/generative-ai-agents/judge-arena/internal/config"
	"github.com/povarna/generative-ai-agents/judge-arena/internal/models"
)

var ErrUnknownLabel = errors.New("unknown model label")

// LookupError reports a label that is not registered.
type LookupError struct {
	Label string
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("%s: %q", ErrUnknownLabel, e.Label)
}

func (e *LookupError) Is(target error) bool {
	return target == ErrUnknownLabel
}

// Registry is the ordered, immutable set of models in the arena.
type Registry struct {
	entries []models.ModelEntry
	byLabel map[string]int
}

func New(entries []models.ModelEntry) (*Registry, error) {
	r := &Registry{
		entries: make([]models.ModelEntry, 0, len(entries)),
		byLabel: make(map[string]int, len(entries)),
	}

	for i, e := range entries {
		if e.Label == "" {
			return nil, fmt.Errorf("entry %d: empty label", i)
		}
		if e.Identifier == "" {
			return nil, fmt.Errorf("entry %s: empty identifier", e.Label)
		}
		if _, ok := r.byLabel[e.Label]; ok {
			return nil, fmt.Errorf("duplicate label: %s", e.Label)
		}
		if e.Provider == "" {
			e.Provider = models.ProviderOpenAI
		}
		r.byLabel[e.Label] = len(r.entries)
		r.entries = append(r.entries, e)
	}

	return r, nil
}

func FromConfig(cfg *config.ArenaConfig) (*Registry, error) {
	entries := make([]models.ModelEntry, 0, len(cfg.Models))
	for _, m := range cfg.Models {
		entries = append(entries, models.ModelEntry{
			Label:      m.Label,
			Identifier: m.Identifier,
			Provider:   models.Provider(m.Provider),
		})
	}
	return New(entries)
}

// Labels returns the labels in configuration order.
func (r *Registry) Labels() []string {
	labels := make([]string, len(r.entries))
	for i, e := range r.entries {
		labels[i] = e.Label
	}
	return labels
}

func (r *Registry) IdentifierFor(label string) (string, error) {
	e, err := r.Entry(label)
	if err != nil {
		return "", err
	}
	return e.Identifier, nil
}

func (r *Registry) Entry(label string) (models.ModelEntry, error) {
	i, ok := r.byLabel[label]
	if !ok {
		return models.ModelEntry{}, &LookupError{Label: label}
	}
	return r.entries[i], nil
}

// Entries returns a copy of the registered models in configuration order.
func (r *Registry) Entries() []models.ModelEntry {
	entries := make([]models.ModelEntry, len(r.entries))
	copy(entries, r.entries)
	return entries
}

func (r *Registry) Len() int {
	return len(r.entries)
}
