// ABOUTME: Tests for catalog loading and validation
// ABOUTME: Covers built-in catalog integrity, TOML parsing, and validation failures

package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuiltin_IsValid(t *testing.T) {
	cat := Builtin()
	require.NoError(t, cat.Validate())

	assert.GreaterOrEqual(t, len(cat.Personas), 2)
	assert.NotEmpty(t, cat.Topics)

	for _, p := range cat.Personas {
		assert.NotEmpty(t, p.ID)
		assert.NotEmpty(t, p.Name)
		assert.NotEmpty(t, p.Role)
		assert.NotEmpty(t, p.Personality)
		assert.NotEmpty(t, p.Style)
		assert.NotEmpty(t, p.Color)
	}
}

func TestBuiltin_ReturnsIndependentCopies(t *testing.T) {
	a := Builtin()
	b := Builtin()

	a.Topics[0] = "mutated"
	a.Personas[0].Name = "Mutant"

	assert.NotEqual(t, a.Topics[0], b.Topics[0])
	assert.NotEqual(t, a.Personas[0].Name, b.Personas[0].Name)
}

func TestLoadFile_ValidTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.toml")
	content := `
topics = [
  "Topic one?",
  "Topic two?",
]

[[personas]]
id = "alpha"
name = "Alpha"
avatar = "🅰️"
color = "#111111"
role = "The First"
personality = "direct"
style = "short declaratives"

[[personas]]
id = "omega"
name = "Omega"
avatar = "🅾️"
color = "#222222"
role = "The Last"
personality = "patient"
style = "long counterpoints"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cat, err := LoadFile(path)
	require.NoError(t, err)

	assert.Len(t, cat.Personas, 2)
	assert.Len(t, cat.Topics, 2)
	assert.Equal(t, "Alpha", cat.Personas[0].Name)
	assert.Equal(t, "The Last", cat.Personas[1].Role)
}

func TestLoadFile_MissingFile(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}

func TestLoad_EmptyPathReturnsBuiltin(t *testing.T) {
	cat, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Builtin().Topics, cat.Topics)
}

func TestValidate_Failures(t *testing.T) {
	tests := []struct {
		name string
		cat  Catalog
	}{
		{
			name: "too few personas",
			cat: Catalog{
				Personas: []Persona{{ID: "a", Name: "A"}},
				Topics:   []string{"t"},
			},
		},
		{
			name: "no topics",
			cat: Catalog{
				Personas: []Persona{{ID: "a", Name: "A"}, {ID: "b", Name: "B"}},
			},
		},
		{
			name: "duplicate persona ids",
			cat: Catalog{
				Personas: []Persona{{ID: "a", Name: "A"}, {ID: "a", Name: "A2"}},
				Topics:   []string{"t"},
			},
		},
		{
			name: "missing persona name",
			cat: Catalog{
				Personas: []Persona{{ID: "a"}, {ID: "b", Name: "B"}},
				Topics:   []string{"t"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, tt.cat.Validate())
		})
	}
}
