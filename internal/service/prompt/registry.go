// Package prompt holds the versioned registry of generation templates.
// Versions are appended, never edited; rollback repoints the current
// selector and leaves history readable for audit display.
package prompt

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	appErrors "github.com/komi0929/pen-sub000/pkg/errors"
)

// Category selects which template family a generation call uses.
type Category string

const (
	CategoryInterview Category = "interview"
	CategoryWriting   Category = "writing"
)

// Version is one immutable template revision.
type Version struct {
	ID         string    `yaml:"id" json:"id"`
	ReleasedAt time.Time `yaml:"released_at" json:"releasedAt"`
	Model      string    `yaml:"model" json:"model"`
	Summary    string    `yaml:"summary" json:"summary"`
	Changelog  string    `yaml:"changelog" json:"changelog"`
	Template   string    `yaml:"template" json:"-"`
}

type categoryState struct {
	Current  string    `yaml:"current"`
	Versions []Version `yaml:"versions"`
}

// Registry maps categories to their ordered version lists and current
// selectors. It is an explicit value handed to the generation engine at call
// time, never ambient state, so tests can inject arbitrary registries.
type Registry struct {
	categories map[Category]categoryState
}

// NewRegistry builds a registry from explicit category data. The versions
// slice is kept newest first.
func NewRegistry() *Registry {
	return &Registry{categories: make(map[Category]categoryState)}
}

// Append adds a version to the front of a category's list. The first version
// appended to an empty category becomes its current selector.
func (r *Registry) Append(category Category, v Version) {
	state := r.categories[category]
	state.Versions = append([]Version{v}, state.Versions...)
	if state.Current == "" {
		state.Current = v.ID
	}
	r.categories[category] = state
}

// Versions returns the full version list for a category, newest first.
func (r *Registry) Versions(category Category) ([]Version, error) {
	state, ok := r.categories[category]
	if !ok {
		return nil, appErrors.NewNotFound(fmt.Sprintf("unknown prompt category %q", category))
	}
	out := make([]Version, len(state.Versions))
	copy(out, state.Versions)
	return out, nil
}

// Current returns the version the category's current pointer selects. A
// pointer referencing a missing version is a deployment defect, surfaced as a
// hard failure rather than recovered from.
func (r *Registry) Current(category Category) (Version, error) {
	state, ok := r.categories[category]
	if !ok {
		return Version{}, appErrors.NewNotFound(fmt.Sprintf("unknown prompt category %q", category))
	}
	for _, v := range state.Versions {
		if v.ID == state.Current {
			return v, nil
		}
	}
	return Version{}, appErrors.NewInternal(
		fmt.Sprintf("prompt registry inconsistent: current pointer %q for category %q references no version", state.Current, category), nil)
}

// SetCurrent repoints a category's current selector. This is the only
// mutation rollback performs; version contents are never rewritten.
func (r *Registry) SetCurrent(category Category, versionID string) error {
	state, ok := r.categories[category]
	if !ok {
		return appErrors.NewNotFound(fmt.Sprintf("unknown prompt category %q", category))
	}
	for _, v := range state.Versions {
		if v.ID == versionID {
			state.Current = versionID
			r.categories[category] = state
			return nil
		}
	}
	return appErrors.NewNotFound(fmt.Sprintf("prompt version %q not found in category %q", versionID, category))
}

// clone copies the category map so a repoint can be published without
// touching registries already handed out. Version slices are shared; they
// are never edited in place.
func (r *Registry) clone() *Registry {
	categories := make(map[Category]categoryState, len(r.categories))
	for category, state := range r.categories {
		categories[category] = state
	}
	return &Registry{categories: categories}
}

type registryFile struct {
	Categories map[Category]categoryState `yaml:"categories"`
}

// LoadFile reads a registry from a YAML file.
func LoadFile(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read prompt registry: %w", err)
	}
	var file registryFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse prompt registry: %w", err)
	}
	if len(file.Categories) == 0 {
		return nil, fmt.Errorf("prompt registry %s defines no categories", path)
	}
	reg := &Registry{categories: file.Categories}
	// Fail fast on dangling pointers; this is a deployment defect.
	for category := range file.Categories {
		if _, err := reg.Current(category); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

// Default returns the built-in registry used when no registry file is
// configured.
func Default() *Registry {
	reg := NewRegistry()
	reg.Append(CategoryInterview, Version{
		ID:         "interview-v1",
		ReleasedAt: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		Model:      "gemini-2.0-flash",
		Summary:    "Initial interview question template",
		Changelog:  "First release",
		Template:   defaultInterviewTemplate,
	})
	reg.Append(CategoryWriting, Version{
		ID:         "writing-v1",
		ReleasedAt: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		Model:      "gemini-2.0-flash",
		Summary:    "Initial article synthesis template",
		Changelog:  "First release",
		Template:   defaultWritingTemplate,
	})
	return reg
}

const defaultInterviewTemplate = `You are a thoughtful interviewer helping a writer turn loose notes into an article.
Ask exactly one question that draws out material the article still lacks.
Do not answer for the writer and do not summarize what they already said.
End your reply with a line "READINESS: <n>" where n is 0-80 while material is
still missing, or exactly 100 when the dialogue already covers more than a
complete article needs.`

const defaultWritingTemplate = `You are a skilled writer. Using the theme, memos and interview transcript below,
write a complete article at the requested length.
Start with a single markdown heading line for the title, then the body.
Write prose only: no meta commentary, no outline labels, no template headers.`
