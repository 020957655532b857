package value_objects

import (
	"errors"
	"strings"
)

// Tier represents a task's priority tier. Pairwise comparisons are only
// valid between tasks in the same tier.
type Tier int

const (
	TierLow Tier = iota
	TierMedium
	TierHigh
)

var (
	ErrInvalidTier = errors.New("invalid tier value")
)

var tierNames = map[Tier]string{
	TierLow:    "low",
	TierMedium: "medium",
	TierHigh:   "high",
}

var tierValues = map[string]Tier{
	"low":    TierLow,
	"medium": TierMedium,
	"high":   TierHigh,
}

// ParseTier creates a Tier from a string.
func ParseTier(s string) (Tier, error) {
	t, ok := tierValues[strings.ToLower(s)]
	if !ok {
		return TierLow, ErrInvalidTier
	}
	return t, nil
}

// String returns the string representation of the tier.
func (t Tier) String() string {
	if name, ok := tierNames[t]; ok {
		return name
	}
	return "unknown"
}

// IsValid returns true if the tier is a valid value.
func (t Tier) IsValid() bool {
	_, ok := tierNames[t]
	return ok
}

// Weight returns a numeric weight for ordering (higher = more important).
func (t Tier) Weight() int {
	return int(t)
}

// TiersDescending lists all tiers from most to least important.
func TiersDescending() []Tier {
	return []Tier{TierHigh, TierMedium, TierLow}
}
