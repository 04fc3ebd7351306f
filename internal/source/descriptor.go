// Package source holds the static registry of external news origins.
package source

import (
	"fmt"
	"io"
	"net/url"

	"gopkg.in/yaml.v3"

	"github.com/habari-news/habari/internal/domain"
)

// Kind distinguishes the transport a source is fetched over.
type Kind string

const (
	// KindAPI is a JSON REST endpoint in the news API shape.
	KindAPI Kind = "api"
	// KindFeed is an RSS or Atom feed.
	KindFeed Kind = "feed"
)

// Descriptor describes one external source. Immutable for the process lifetime.
type Descriptor struct {
	Name     string `yaml:"name"`
	Kind     Kind   `yaml:"kind"`
	Endpoint string `yaml:"endpoint"`
	// Category restricts the source to a single category when set.
	Category domain.Category `yaml:"category,omitempty"`
	APIKey   string          `yaml:"apiKey,omitempty"`
	Country  string          `yaml:"country,omitempty"`
}

// Registry is the process-wide source list.
type Registry struct {
	sources []Descriptor
}

func NewRegistry(sources []Descriptor) *Registry {
	return &Registry{sources: sources}
}

// All returns every registered source.
func (r *Registry) All() []Descriptor {
	return r.sources
}

// Relevant returns the sources eligible for the requested category:
// sources with no affinity plus those whose affinity matches.
// An empty category or the "all" sentinel selects everything.
func (r *Registry) Relevant(category string) []Descriptor {
	if category == "" || category == domain.CategoryAll {
		return r.sources
	}

	var relevant []Descriptor
	for _, src := range r.sources {
		if src.Category == "" || src.Category == domain.Category(category) {
			relevant = append(relevant, src)
		}
	}
	return relevant
}

type registryFile struct {
	Sources []Descriptor `yaml:"sources"`
}

// LoadYAML reads a source registry from a YAML document and validates it.
func LoadYAML(r io.Reader) ([]Descriptor, error) {
	decoder := yaml.NewDecoder(r)

	var file registryFile
	if err := decoder.Decode(&file); err != nil {
		return nil, fmt.Errorf("failed to decode sources: %w", err)
	}

	for i, src := range file.Sources {
		if err := validate(src); err != nil {
			return nil, fmt.Errorf("source %d: %w", i, err)
		}
	}

	return file.Sources, nil
}

func validate(src Descriptor) error {
	if src.Name == "" {
		return fmt.Errorf("name is required")
	}
	if src.Kind != KindAPI && src.Kind != KindFeed {
		return fmt.Errorf("source %q: unknown kind %q (valid: api, feed)", src.Name, src.Kind)
	}
	if src.Endpoint == "" {
		return fmt.Errorf("source %q: endpoint is required", src.Name)
	}

	u, err := url.Parse(src.Endpoint)
	if err != nil {
		return fmt.Errorf("source %q: invalid endpoint: %w", src.Name, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("source %q: endpoint scheme must be http or https, got %q", src.Name, u.Scheme)
	}

	if src.Category != "" && !src.Category.Valid() {
		return fmt.Errorf("source %q: unknown category %q", src.Name, src.Category)
	}

	return nil
}
