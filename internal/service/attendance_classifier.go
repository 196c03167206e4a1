package service

import (
	"math"

	"github.com/noah-isme/smart-campus-api/internal/models"
)

const (
	defaultTargetPercent   = 75.0
	defaultCriticalPercent = 65.0
	ceilEpsilon            = 1e-9
)

// AttendanceClassifier maps ledger totals to threshold tiers.
type AttendanceClassifier struct {
	target   float64
	critical float64
}

// NewAttendanceClassifier builds a classifier; non-positive values fall back to 75/65.
func NewAttendanceClassifier(targetPercent, criticalPercent float64) AttendanceClassifier {
	if targetPercent <= 0 || targetPercent > 100 {
		targetPercent = defaultTargetPercent
	}
	if criticalPercent <= 0 || criticalPercent > targetPercent {
		criticalPercent = math.Min(defaultCriticalPercent, targetPercent)
	}
	return AttendanceClassifier{target: targetPercent, critical: criticalPercent}
}

// Target returns the target percentage.
func (c AttendanceClassifier) Target() float64 { return c.target }

// Classify is deterministic and side-effect free. Percentage stays unrounded so
// comparisons and the 100% boundary stay exact.
func (c AttendanceClassifier) Classify(total, present int) models.Classification {
	if total < 0 {
		total = 0
	}
	if present < 0 {
		present = 0
	}
	if present > total {
		present = total
	}

	result := models.Classification{Total: total, Present: present}
	if total == 0 {
		result.Tier = models.TierNoData
		result.BelowThreshold = result.Percentage < c.target
		return result
	}

	result.Percentage = float64(present) / float64(total) * 100
	switch {
	case result.Percentage < c.critical:
		result.Tier = models.TierCritical
	case result.Percentage < c.target:
		result.Tier = models.TierWarning
	default:
		result.Tier = models.TierGood
	}
	result.BelowThreshold = result.Percentage < c.target

	required := int(math.Ceil(c.target/100*float64(total) - ceilEpsilon))
	if needed := required - present; needed > 0 {
		result.ClassesNeeded = needed
	}
	return result
}
