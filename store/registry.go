package store

import (
	"errors"
	"fmt"

	"github.com/wyixiang/ikerEcsProject/components"
)

// ErrUnknownTemplate is returned when a template id has no registered builder.
var ErrUnknownTemplate = errors.New("unknown template")

// Template ids used by the simulation.
const (
	TemplatePrey components.TemplateID = iota
	TemplatePredator
	TemplateFood
	TemplateFoodSpawner
)

// Bundle is the initial component set of a new entity.
// Nil pointers mean the component is absent.
type Bundle struct {
	Position    components.Position
	Mover       *components.Mover
	Predator    *components.Predator
	FoodSpawner *components.FoodSpawner
	Food        bool
}

// Clone returns a deep copy so callers can mutate the result freely.
func (b Bundle) Clone() Bundle {
	out := b
	if b.Mover != nil {
		m := *b.Mover
		out.Mover = &m
	}
	if b.Predator != nil {
		p := *b.Predator
		out.Predator = &p
	}
	if b.FoodSpawner != nil {
		s := *b.FoodSpawner
		out.FoodSpawner = &s
	}
	return out
}

// Builder produces the position-independent bundle of a template.
type Builder func() Bundle

// Registry maps template ids to bundle builders.
type Registry struct {
	builders map[components.TemplateID]Builder
	names    map[components.TemplateID]string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		builders: make(map[components.TemplateID]Builder),
		names:    make(map[components.TemplateID]string),
	}
}

// Register adds or replaces a template.
func (r *Registry) Register(id components.TemplateID, name string, b Builder) {
	r.builders[id] = b
	r.names[id] = name
}

// Has reports whether id is registered.
func (r *Registry) Has(id components.TemplateID) bool {
	_, ok := r.builders[id]
	return ok
}

// Name returns the registered name of id, or a numeric placeholder.
func (r *Registry) Name(id components.TemplateID) string {
	if n, ok := r.names[id]; ok {
		return n
	}
	return fmt.Sprintf("template#%d", id)
}

// Build returns a fresh bundle for id.
func (r *Registry) Build(id components.TemplateID) (Bundle, error) {
	b, ok := r.builders[id]
	if !ok {
		return Bundle{}, fmt.Errorf("%w: %d", ErrUnknownTemplate, id)
	}
	return b().Clone(), nil
}

// Require checks that every id is registered.
func (r *Registry) Require(ids ...components.TemplateID) error {
	for _, id := range ids {
		if !r.Has(id) {
			return fmt.Errorf("%w: %d", ErrUnknownTemplate, id)
		}
	}
	return nil
}
