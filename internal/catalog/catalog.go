// ABOUTME: Persona and topic catalog loading for debate sessions
// ABOUTME: Ships a built-in catalog and supports TOML file overrides

package catalog

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Persona is an immutable catalog entry describing one AI debate
// participant. Exactly two distinct personas are active per session.
type Persona struct {
	ID          string `toml:"id" json:"id"`
	Name        string `toml:"name" json:"name"`
	Avatar      string `toml:"avatar" json:"avatar"`
	Color       string `toml:"color" json:"color"`
	Role        string `toml:"role" json:"role"`
	Personality string `toml:"personality" json:"personality"`
	Style       string `toml:"style" json:"style"`
}

// Catalog holds the persona roster and the topic pool for a session.
type Catalog struct {
	Personas []Persona `toml:"personas"`
	Topics   []string  `toml:"topics"`
}

// LoadFile reads a TOML catalog from the given path.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog file: %w", err)
	}

	var cat Catalog
	if _, err := toml.Decode(string(data), &cat); err != nil {
		return nil, fmt.Errorf("parsing catalog: %w", err)
	}

	if err := cat.Validate(); err != nil {
		return nil, fmt.Errorf("validating catalog: %w", err)
	}

	return &cat, nil
}

// Load returns the catalog at path, or the built-in catalog when path is
// empty.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Builtin(), nil
	}
	return LoadFile(path)
}

// Validate checks that the catalog can actually run a session.
func (c *Catalog) Validate() error {
	if len(c.Personas) < 2 {
		return fmt.Errorf("catalog needs at least 2 personas, got %d", len(c.Personas))
	}
	if len(c.Topics) == 0 {
		return fmt.Errorf("catalog needs at least 1 topic")
	}

	seen := make(map[string]bool, len(c.Personas))
	for i, p := range c.Personas {
		if p.ID == "" {
			return fmt.Errorf("persona %d is missing an id", i)
		}
		if p.Name == "" {
			return fmt.Errorf("persona %q is missing a name", p.ID)
		}
		if seen[p.ID] {
			return fmt.Errorf("duplicate persona id %q", p.ID)
		}
		seen[p.ID] = true
	}

	return nil
}
