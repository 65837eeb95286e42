package tools

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultValidationNumber is returned by the validate tool when no other
// number is configured.
const DefaultValidationNumber = "+1-123-456-7890"

var defaultJokes = []string{
	"Why don't scientists trust atoms? Because they make up everything!",
	"What do you call a fake noodle? An impasta!",
	"Why did the scarecrow win an award? Because he was outstanding in his field!",
	"I'm reading a book on anti-gravity. It's impossible to put down!",
	"Did you hear about the restaurant on the moon? Great food, no atmosphere!",
}

var (
	ErrEmptyJokeSet          = errors.New("joke set must not be empty")
	ErrEmptyValidationNumber = errors.New("validation number must not be empty")
)

// Catalog holds the static data served by the built-in tools. A Catalog is
// never modified after construction; accessors hand out copies.
type Catalog struct {
	jokes            []string
	validationNumber string
}

// catalogFile is the on-disk YAML shape of a Catalog. Jokes is a pointer so an
// explicit empty list can be told apart from an omitted key.
type catalogFile struct {
	Jokes            *[]string `yaml:"jokes"`
	ValidationNumber string    `yaml:"validation_number"`
}

// DefaultCatalog returns the built-in joke set and placeholder number.
func DefaultCatalog() Catalog {
	c, _ := NewCatalog(defaultJokes, DefaultValidationNumber)
	return c
}

// NewCatalog copies jokes and validates the result.
func NewCatalog(jokes []string, validationNumber string) (Catalog, error) {
	out := make([]string, 0, len(jokes))
	for _, j := range jokes {
		if j = strings.TrimSpace(j); j != "" {
			out = append(out, j)
		}
	}
	if len(out) == 0 {
		return Catalog{}, ErrEmptyJokeSet
	}
	validationNumber = strings.TrimSpace(validationNumber)
	if validationNumber == "" {
		return Catalog{}, ErrEmptyValidationNumber
	}
	return Catalog{jokes: out, validationNumber: validationNumber}, nil
}

// LoadCatalog reads a YAML catalog from path. Keys missing from the file keep
// their default values.
func LoadCatalog(path string) (Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Catalog{}, fmt.Errorf("read catalog: %w", err)
	}
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return Catalog{}, fmt.Errorf("parse catalog %s: %w", path, err)
	}
	jokes := defaultJokes
	if f.Jokes != nil {
		jokes = *f.Jokes
	}
	number := DefaultValidationNumber
	if f.ValidationNumber != "" {
		number = f.ValidationNumber
	}
	c, err := NewCatalog(jokes, number)
	if err != nil {
		return Catalog{}, fmt.Errorf("catalog %s: %w", path, err)
	}
	return c, nil
}

// WithValidationNumber returns a copy of c serving number instead. An empty
// number leaves the catalog unchanged.
func (c Catalog) WithValidationNumber(number string) Catalog {
	if number = strings.TrimSpace(number); number == "" {
		return c
	}
	c.validationNumber = number
	return c
}

// Jokes returns a copy of the joke set in order.
func (c Catalog) Jokes() []string {
	out := make([]string, len(c.jokes))
	copy(out, c.jokes)
	return out
}

func (c Catalog) Len() int { return len(c.jokes) }

func (c Catalog) joke(i int) string { return c.jokes[i] }

func (c Catalog) ValidationNumber() string { return c.validationNumber }
