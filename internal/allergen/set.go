package allergen

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidCategory is returned when a mask is empty or carries bits outside ValidMask.
var ErrInvalidCategory = errors.New("invalid allergen category")

// Set is a subset of the allergen universe. The zero value is the empty set.
type Set uint32

// Valid reports whether mask is non-empty and lies inside the universe.
func Valid(mask uint32) bool {
	return mask != 0 && mask&^ValidMask == 0
}

func checkMask(mask uint32) error {
	if mask == 0 {
		return fmt.Errorf("%w: empty mask", ErrInvalidCategory)
	}
	if stray := mask &^ ValidMask; stray != 0 {
		return fmt.Errorf("%w: unknown bits %#x", ErrInvalidCategory, stray)
	}
	return nil
}

// Contains reports whether every bit of candidate is in s.
// A multi-bit candidate tests for the whole combination.
func (s Set) Contains(candidate uint32) bool {
	return candidate&uint32(s) == candidate
}

// Add unions mask into s. s is unchanged if mask is invalid.
func (s *Set) Add(mask uint32) error {
	if err := checkMask(mask); err != nil {
		return err
	}
	*s |= Set(mask)
	return nil
}

// Remove clears the bits of mask from s. s is unchanged if mask is invalid.
func (s *Set) Remove(mask uint32) error {
	if err := checkMask(mask); err != nil {
		return err
	}
	*s &^= Set(mask)
	return nil
}

// Members returns the categories in s, in declaration order.
func (s Set) Members() []Category {
	var res []Category
	for _, c := range All {
		if s.Contains(uint32(c)) {
			res = append(res, c)
		}
	}
	return res
}

// FromMembers folds categories into a set, starting from the empty set.
func FromMembers(cs []Category) Set {
	var s Set
	for _, c := range cs {
		s |= Set(c)
	}
	return s
}

// Empty reports whether s has no members.
func (s Set) Empty() bool { return s == 0 }

// String renders s as "NONE" or as pipe-joined category names.
func (s Set) String() string {
	members := s.Members()
	if len(members) == 0 {
		return "NONE"
	}
	parts := make([]string, len(members))
	for i, c := range members {
		parts[i] = c.String()
	}
	return strings.Join(parts, "|")
}

// Parse reads a mask either as a base-10 number or as pipe-joined names
// ("EGGS|TMTO"). The result must satisfy Valid.
func Parse(text string) (uint32, error) {
	text = strings.TrimSpace(text)
	if n, err := strconv.ParseUint(text, 10, 32); err == nil {
		mask := uint32(n)
		if err := checkMask(mask); err != nil {
			return 0, err
		}
		return mask, nil
	}

	var mask uint32
	for _, part := range strings.Split(text, "|") {
		c, ok := Lookup(part)
		if !ok {
			return 0, fmt.Errorf("%w: %q", ErrInvalidCategory, part)
		}
		mask |= uint32(c)
	}
	return mask, nil
}
