// Package profile loads and saves chat session profiles: the system prompt,
// prompt options and seed history a session starts from.
package profile

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/wolfman30/chatprompt/internal/prompt"
)

// Profile is the YAML form of a session's starting state.
type Profile struct {
	SystemPrompt string `yaml:"system_prompt,omitempty"`
	// Options is nil when the profile leaves the session's options alone.
	Options *prompt.Options      `yaml:"options,omitempty"`
	History []prompt.HistoryItem `yaml:"history,omitempty"`
}

type rawProfile struct {
	SystemPrompt string               `yaml:"system_prompt"`
	Options      yaml.Node            `yaml:"options"`
	History      []prompt.HistoryItem `yaml:"history"`
}

// Load reads and parses the profile at path.
func Load(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading profile: %w", err)
	}
	return Parse(data)
}

// Parse decodes a profile. Option keys missing from an options block take
// their default values.
func Parse(data []byte) (*Profile, error) {
	var raw rawProfile
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing profile: %w", err)
	}

	p := &Profile{SystemPrompt: raw.SystemPrompt, History: raw.History}
	if raw.Options.Kind != 0 {
		opts := prompt.DefaultOptions()
		if err := raw.Options.Decode(&opts); err != nil {
			return nil, fmt.Errorf("parsing profile options: %w", err)
		}
		if err := opts.Validate(); err != nil {
			return nil, fmt.Errorf("profile: %w", err)
		}
		p.Options = &opts
	}
	return p, nil
}

// Apply configures s from p. Options are applied first so a bad profile
// leaves the session untouched.
func (p *Profile) Apply(s *prompt.Session) error {
	if p.Options != nil {
		if err := s.SetOptions(*p.Options); err != nil {
			return fmt.Errorf("profile: %w", err)
		}
	}
	if p.SystemPrompt != "" {
		s.SetSystemPrompt(p.SystemPrompt)
	}
	if len(p.History) > 0 {
		s.ImportHistory(p.History)
	}
	return nil
}

// FromSession snapshots s into a profile.
func FromSession(s *prompt.Session) *Profile {
	opts := s.Options()
	return &Profile{
		SystemPrompt: s.SystemPrompt(),
		Options:      &opts,
		History:      s.History(),
	}
}

// Save writes p to path as YAML.
func Save(p *Profile, path string) error {
	data, err := yaml.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshaling profile: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
