package config

import (
	_ "embed"
	"fmt"
	"os"
	"slices"

	"gopkg.in/yaml.v3"
)

//go:embed settings.default.yml
var defaultSettings []byte

// ValidationRule is a custom record check. Condition is an expression over
// the record's attributes; when it evaluates to true, Message is added to
// Field's errors.
type ValidationRule struct {
	Field     string `yaml:"field"`
	Condition string `yaml:"condition"`
	Message   string `yaml:"message"`
}

// Settings holds the tunable vocabulary of the CRM.
type Settings struct {
	PerPage          int                         `yaml:"per_page"`
	DefaultAccess    string                      `yaml:"default_access"`
	LeadStatus       []string                    `yaml:"lead_status"`
	LeadSource       []string                    `yaml:"lead_source"`
	OpportunityStage []string                    `yaml:"opportunity_stage"`
	CampaignStatus   []string                    `yaml:"campaign_status"`
	ValidationRules  map[string][]ValidationRule `yaml:"validation_rules"`
}

// DefaultSettings parses the embedded settings file.
func DefaultSettings() (*Settings, error) {
	s := &Settings{}
	if err := yaml.Unmarshal(defaultSettings, s); err != nil {
		return nil, fmt.Errorf("failed to parse default settings: %w", err)
	}
	return s, nil
}

// LoadSettings reads the defaults and overlays the file at path, if any.
// Keys present in the override replace the defaults wholesale.
func LoadSettings(path string) (*Settings, error) {
	s, err := DefaultSettings()
	if err != nil {
		return nil, err
	}
	if path == "" {
		return s, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read settings %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("failed to parse settings %s: %w", path, err)
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("settings %s: %w", path, err)
	}
	return s, nil
}

// Validate checks internal consistency of the settings.
func (s *Settings) Validate() error {
	if s.PerPage <= 0 {
		return fmt.Errorf("per_page must be positive")
	}
	if len(s.LeadStatus) == 0 {
		return fmt.Errorf("lead_status must not be empty")
	}
	switch s.DefaultAccess {
	case "Public", "Private", "Shared":
	default:
		return fmt.Errorf("default_access %q is not a stored access level", s.DefaultAccess)
	}
	return nil
}

// IsLeadStatus reports whether status is configured.
func (s *Settings) IsLeadStatus(status string) bool {
	return slices.Contains(s.LeadStatus, status)
}

// IsLeadSource reports whether source is configured.
func (s *Settings) IsLeadSource(source string) bool {
	return slices.Contains(s.LeadSource, source)
}

// RulesFor returns the custom validation rules of an entity.
func (s *Settings) RulesFor(entity string) []ValidationRule {
	return s.ValidationRules[entity]
}
