// Package store holds named parameters shared by every draw of a rendering context.
//
// Parameters annotated with Annotation_Shader are set on each program a render command draws with,
// silently skipping programs that do not declare them.
package store

import (
	"errors"
	"fmt"

	"github.com/bloeys/nrender/shaders"
)

var ErrBoundedColor = errors.New("bounded color params are not supported")

type Annotation uint32

const (
	// Annotation_Gui marks params a debug UI may show and edit
	Annotation_Gui Annotation = 1 << iota
	// Annotation_Shader marks params applied to every program drawn with
	Annotation_Shader
	// Annotation_Bounded marks params with a [Min, Max] range
	Annotation_Bounded

	Annotation_Default = Annotation_Gui | Annotation_Shader
)

func (a Annotation) Has(flags Annotation) bool {
	return a&flags == flags
}

type Param struct {
	Name string

	// Value is nil for text params
	Value shaders.Value
	Text  string

	Annotations Annotation
	Min, Max    float32
}

type Store struct {
	params map[string]*Param
	// order keeps params in insertion order, so they are applied deterministically
	order []string
}

func New() *Store {
	return &Store{
		params: map[string]*Param{},
	}
}

func (s *Store) param(name string) *Param {

	p, ok := s.params[name]
	if !ok {
		p = &Param{Name: name, Annotations: Annotation_Default}
		s.params[name] = p
		s.order = append(s.order, name)
	}

	return p
}

// Set creates or updates a param. Existing annotations are kept and bounded values are clamped.
func (s *Store) Set(name string, v shaders.Value) *Param {

	p := s.param(name)
	p.Value = v
	p.clamp()
	return p
}

func (s *Store) SetBounded(name string, v shaders.Value, min, max float32) (*Param, error) {

	if _, ok := v.(shaders.Color); ok {
		return nil, fmt.Errorf("%w: '%s'", ErrBoundedColor, name)
	}

	p := s.param(name)
	p.Annotations |= Annotation_Bounded
	p.Min = min
	p.Max = max
	p.Value = v
	p.clamp()
	return p, nil
}

// SetText stores a string param. Text params are never applied to shaders.
func (s *Store) SetText(name, text string) *Param {

	p := s.param(name)
	p.Text = text
	p.Value = nil
	p.Annotations &^= Annotation_Shader
	return p
}

// Annotate replaces the annotations of a param, keeping Annotation_Bounded if it was set
func (s *Store) Annotate(name string, a Annotation) {

	p := s.param(name)
	p.Annotations = a | (p.Annotations & Annotation_Bounded)
}

func (s *Store) Get(name string) (*Param, bool) {
	p, ok := s.params[name]
	return p, ok
}

func (s *Store) Len() int {
	return len(s.order)
}

// Names returns param names in insertion order
func (s *Store) Names() []string {
	return append([]string(nil), s.order...)
}

// Apply sets every shader param on prog, skipping the ones prog does not declare
func (s *Store) Apply(prog *shaders.Program) error {

	for _, name := range s.order {

		p := s.params[name]
		if p.Value == nil || !p.Annotations.Has(Annotation_Shader) {
			continue
		}

		if err := prog.TryParam(name, p.Value); err != nil {
			return fmt.Errorf("failed to apply store param '%s': %w", name, err)
		}
	}

	return nil
}

func (p *Param) clamp() {

	if !p.Annotations.Has(Annotation_Bounded) {
		return
	}

	switch v := p.Value.(type) {
	case shaders.Float:
		p.Value = shaders.Float(min(max(float32(v), p.Min), p.Max))
	case shaders.Int:
		p.Value = shaders.Int(min(max(int32(v), int32(p.Min)), int32(p.Max)))
	}
}
