// Package tools holds the fixed set of server-side tools and the registry that
// dispatches invocations to them.
package tools

import (
	"context"
	"errors"
	"fmt"
)

// Name identifies a tool. Only the constants below are valid.
type Name string

const (
	JokeGenerator Name = "joke-generator"
	Validate      Name = "validate"
)

var ErrUnknownTool = errors.New("unknown tool")

// Names lists every tool in a stable order.
func Names() []Name { return []Name{JokeGenerator, Validate} }

// ParseName maps a client-supplied identifier onto a Name by exact match.
func ParseName(s string) (Name, error) {
	switch Name(s) {
	case JokeGenerator, Validate:
		return Name(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownTool, s)
}

// Tool is a single server-side operation.
type Tool interface {
	Description() string
	Invoke(ctx context.Context) (string, error)
}

type jokeTool struct {
	catalog Catalog
	rnd     RandomSource
}

func (t jokeTool) Description() string { return "Return a random joke" }

func (t jokeTool) Invoke(_ context.Context) (string, error) {
	return t.catalog.joke(t.rnd.IntN(t.catalog.Len())), nil
}

type validateTool struct {
	number string
}

func (t validateTool) Description() string { return "Return the configured validation number" }

func (t validateTool) Invoke(_ context.Context) (string, error) {
	return t.number, nil
}

// Result is the output of a successful invocation.
type Result struct {
	Name   Name
	Output string
}

// Descriptor describes a registered tool for listings.
type Descriptor struct {
	Name        Name   `json:"name"`
	Description string `json:"description"`
}

// Registry maps every Name to its implementation. It is read-only after
// NewRegistry returns.
type Registry struct {
	tools map[Name]Tool
}

// Option customises a Registry under construction.
type Option func(*Registry) error

// WithTool replaces the implementation behind an existing name.
func WithTool(name Name, t Tool) Option {
	return func(r *Registry) error {
		if _, err := ParseName(string(name)); err != nil {
			return err
		}
		if t == nil {
			return fmt.Errorf("nil implementation for tool %q", name)
		}
		r.tools[name] = t
		return nil
	}
}

// NewRegistry builds the registry over catalog. A nil rnd uses
// DefaultRandomSource.
func NewRegistry(catalog Catalog, rnd RandomSource, opts ...Option) (*Registry, error) {
	if catalog.Len() == 0 {
		return nil, ErrEmptyJokeSet
	}
	if rnd == nil {
		rnd = DefaultRandomSource()
	}
	r := &Registry{tools: map[Name]Tool{
		JokeGenerator: jokeTool{catalog: catalog, rnd: rnd},
		Validate:      validateTool{number: catalog.ValidationNumber()},
	}}
	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Invoke runs the tool called name. Unrecognised names return an error
// wrapping ErrUnknownTool; a panicking tool is reported as an error.
func (r *Registry) Invoke(ctx context.Context, name string) (res Result, err error) {
	n, err := ParseName(name)
	if err != nil {
		return Result{}, err
	}
	defer func() {
		if rec := recover(); rec != nil {
			res = Result{}
			err = fmt.Errorf("tool %s panicked: %v", n, rec)
		}
	}()
	out, err := r.tools[n].Invoke(ctx)
	if err != nil {
		return Result{}, err
	}
	return Result{Name: n, Output: out}, nil
}

// Describe lists the registered tools in Names order.
func (r *Registry) Describe() []Descriptor {
	out := make([]Descriptor, 0, len(r.tools))
	for _, n := range Names() {
		out = append(out, Descriptor{Name: n, Description: r.tools[n].Description()})
	}
	return out
}
