// Package profile defines the per-person record that owns an allergen set.
package profile

import (
	"fmt"

	"github.com/rcliao/allergen-profile/internal/allergen"
)

// Profile holds one person's static attributes and their allergies.
type Profile struct {
	name      string
	age       uint8
	height    float32
	weight    float32
	allergies allergen.Set
}

// New creates a profile with no known allergies.
func New(name string, age uint8, height, weight float32) *Profile {
	return &Profile{name: name, age: age, height: height, weight: weight}
}

func (p *Profile) Name() string    { return p.name }
func (p *Profile) Age() uint8      { return p.age }
func (p *Profile) Height() float32 { return p.height }
func (p *Profile) Weight() float32 { return p.weight }

// IsAllergicTo reports whether every category in mask is set.
func (p *Profile) IsAllergicTo(mask uint32) bool {
	return p.allergies.Contains(mask)
}

// Allergies recomputes the set from the known categories.
func (p *Profile) Allergies() allergen.Set {
	return allergen.FromMembers(p.allergies.Members())
}

// AddAllergies unions mask into the profile's set.
func (p *Profile) AddAllergies(mask uint32) error {
	return p.allergies.Add(mask)
}

// RemoveAllergies clears mask from the profile's set.
func (p *Profile) RemoveAllergies(mask uint32) error {
	return p.allergies.Remove(mask)
}

// AllergyLine is the response to the allergies command.
func (p *Profile) AllergyLine() string {
	return fmt.Sprintf("%s has %s allergies.", p.name, p.Allergies())
}

// Summary is the response to the info command.
func (p *Profile) Summary() string {
	return fmt.Sprintf("%s: Age = %d; Height = %.2f; Weight = %.2f", p.name, p.age, p.height, p.weight)
}
