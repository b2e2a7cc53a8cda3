package grading

import (
	"math"

	"github.com/terra-clan/jury-engine/internal/models"
)

// Default policy constants
const (
	// DefaultMaxMark is the maximum mark per credit; a semester is marked
	// out of DefaultMaxMark × its credit total.
	DefaultMaxMark = 20.0

	// DefaultValidationThreshold is the lowest unit average that validates a unit
	DefaultValidationThreshold = 10.0

	// DefaultPassCredits is the validated-credit count needed to pass a
	// semester. It does not scale with the semester credit load.
	DefaultPassCredits = 22.5
)

// Policy holds the institutional constants of the grading rules
type Policy struct {
	MaxMark             float64
	ValidationThreshold float64
	PassCredits         float64
}

// DefaultPolicy returns the policy used by the faculty rules
func DefaultPolicy() Policy {
	return Policy{
		MaxMark:             DefaultMaxMark,
		ValidationThreshold: DefaultValidationThreshold,
		PassCredits:         DefaultPassCredits,
	}
}

// UnitDecision validates a unit whose average reaches the threshold
func (p Policy) UnitDecision(average float64) models.Decision {
	if average >= p.ValidationThreshold {
		return models.DecisionValidated
	}
	return models.DecisionNotValidated
}

// FinalDecision returns Passe when enough credits were validated
func (p Policy) FinalDecision(validatedCredits float64) models.FinalDecision {
	if validatedCredits >= p.PassCredits {
		return models.FinalPass
	}
	return models.FinalRepeat
}

// Percentage returns total / (MaxMark × credits) × 100 rounded to two
// decimals, or 0 when the semester carries no credit
func (p Policy) Percentage(total, semesterCredits float64) float64 {
	semesterTotal := p.MaxMark * semesterCredits
	if semesterTotal == 0 {
		return 0
	}
	return Round2(total / semesterTotal * 100)
}

// Mention maps a percentage to its letter band, first match wins
func Mention(percentage float64) string {
	switch {
	case percentage >= 90:
		return "A"
	case percentage >= 80:
		return "B"
	case percentage >= 70:
		return "C"
	case percentage >= 60:
		return "D"
	case percentage >= 50:
		return "E"
	default:
		return "F"
	}
}

// Round2 rounds to two decimal places
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
