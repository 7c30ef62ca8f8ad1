package profile

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/rcliao/allergen-profile/internal/allergen"
)

// defaults match the example person the tool has always started with
const (
	DefaultName   = "John Doe"
	DefaultAge    = 18
	DefaultHeight = 1.80
	DefaultWeight = 70.0
)

// Config describes the profile to start a session with.
type Config struct {
	Name      string  `yaml:"name"`
	Age       *uint8  `yaml:"age"`
	Height    float32 `yaml:"height"`
	Weight    float32 `yaml:"weight"`
	Allergies string  `yaml:"allergies"` // mask number or names, e.g. "EGGS|TMTO"
}

// DefaultConfig returns the built-in example profile.
func DefaultConfig() Config {
	age := uint8(DefaultAge)
	return Config{Name: DefaultName, Age: &age, Height: DefaultHeight, Weight: DefaultWeight}
}

// LoadConfig reads a profile from a YAML file. Environment variables are
// expanded and missing fields fall back to the defaults.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path comes from CLI flag
	if err != nil {
		return Config{}, fmt.Errorf("read profile file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), &cfg); err != nil {
		return Config{}, fmt.Errorf("parse profile: %w", err)
	}

	def := DefaultConfig()
	if cfg.Name == "" {
		cfg.Name = def.Name
	}
	if cfg.Age == nil {
		cfg.Age = def.Age
	}
	if cfg.Height == 0 {
		cfg.Height = def.Height
	}
	if cfg.Weight == 0 {
		cfg.Weight = def.Weight
	}
	return cfg, nil
}

// Build creates the profile described by cfg.
func (c Config) Build() (*Profile, error) {
	var age uint8
	if c.Age != nil {
		age = *c.Age
	}
	p := New(c.Name, age, c.Height, c.Weight)
	if c.Allergies == "" {
		return p, nil
	}

	mask, err := allergen.Parse(c.Allergies)
	if err != nil {
		return nil, fmt.Errorf("initial allergies: %w", err)
	}
	if err := p.AddAllergies(mask); err != nil {
		return nil, fmt.Errorf("initial allergies: %w", err)
	}
	return p, nil
}
