// Package profile holds the facts about the portfolio owner. The same
// document feeds the rendered sections and the chat system prompt.
package profile

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultDocument []byte

type Profile struct {
	Name         string        `yaml:"name" json:"name"`
	FullName     string        `yaml:"full_name" json:"full_name"`
	Pronoun      string        `yaml:"pronoun" json:"-"`
	Headline     string        `yaml:"headline" json:"headline"`
	Roles        []string      `yaml:"roles" json:"roles"`
	About        string        `yaml:"about" json:"about"`
	FocusAreas   []FocusArea   `yaml:"focus_areas" json:"focus_areas"`
	Highlights   []string      `yaml:"highlights" json:"highlights"`
	Projects     []Project     `yaml:"projects" json:"projects"`
	Recognitions []string      `yaml:"recognitions" json:"recognitions"`
	Achievements []Achievement `yaml:"achievements" json:"achievements"`
	Skills       []SkillGroup  `yaml:"skills" json:"skills"`
	Languages    []string      `yaml:"languages" json:"languages"`
	Contact      Contact       `yaml:"contact" json:"contact"`
}

type FocusArea struct {
	Title       string `yaml:"title" json:"title"`
	Description string `yaml:"description" json:"description"`
}

type Project struct {
	Title        string   `yaml:"title" json:"title"`
	Description  string   `yaml:"description" json:"description"`
	Technologies []string `yaml:"technologies" json:"technologies"`
	RepoURL      string   `yaml:"repo_url" json:"repo_url,omitempty"`
	LiveURL      string   `yaml:"live_url" json:"live_url,omitempty"`
}

type Achievement struct {
	Title       string `yaml:"title" json:"title"`
	Issuer      string `yaml:"issuer" json:"issuer"`
	Year        string `yaml:"year" json:"year"`
	Description string `yaml:"description" json:"description"`
}

type SkillGroup struct {
	Category string   `yaml:"category" json:"category"`
	Items    []string `yaml:"items" json:"items"`
}

type Contact struct {
	Email    string `yaml:"email" json:"email"`
	Location string `yaml:"location" json:"location"`
	Links    []Link `yaml:"links" json:"links"`
}

type Link struct {
	Label string `yaml:"label" json:"label"`
	URL   string `yaml:"url" json:"url"`
}

var ErrMissingName = errors.New("profile: name is required")

// Default returns the built-in profile.
func Default() (*Profile, error) {
	return Parse(defaultDocument)
}

// Load reads the profile at path, or the built-in one when path is empty.
func Load(path string) (*Profile, error) {
	if path == "" {
		return Default()
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read profile: %w", err)
	}
	return Parse(b)
}

func Parse(b []byte) (*Profile, error) {
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)

	var p Profile
	if err := dec.Decode(&p); err != nil {
		return nil, fmt.Errorf("decode profile: %w", err)
	}
	if strings.TrimSpace(p.Name) == "" {
		return nil, ErrMissingName
	}
	if p.FullName == "" {
		p.FullName = p.Name
	}
	if p.Pronoun == "" {
		p.Pronoun = "their"
	}
	return &p, nil
}

// FirstName is used for possessives in prompts and copy.
func (p *Profile) FirstName() string {
	if f := strings.Fields(p.Name); len(f) > 0 {
		return f[0]
	}
	return p.Name
}
