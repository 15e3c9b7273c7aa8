// Package analytics holds the computation behind the tracker's reporting
// endpoints: feedback impact, per-agent performance and the fleet ranking.
// Everything here operates on plain values so it can be tested without a
// database.
package analytics

import (
	"math"
	"time"
)

// Impact statuses returned by the feedback analysis endpoint.
const (
	StatusImproved = "improved"
	StatusWorsened = "worsened"
	StatusNoChange = "no change"
)

// Window is the pair of date ranges compared around a feedback event.
// The before range is [Start, feedbackDate) and the after range is
// (feedbackDate, End]; the feedback date itself is never counted on either
// side.
type Window struct {
	Start time.Time
	End   time.Time
}

// ImpactWindow computes the analysis window around feedbackDate.
func ImpactWindow(feedbackDate time.Time, daysBefore, daysAfter int) Window {
	return Window{
		Start: feedbackDate.AddDate(0, 0, -daysBefore),
		End:   feedbackDate.AddDate(0, 0, daysAfter),
	}
}

// Improvement returns the error-reduction percentage for a feedback event.
// Positive means fewer errors after the feedback. When errorsBefore is zero
// the result is exactly 0 by convention; it signals "undefined", not
// "no change", since the ratio would divide by zero.
func Improvement(errorsBefore, errorsAfter int) float64 {
	if errorsBefore <= 0 {
		return 0
	}
	return (float64(errorsBefore-errorsAfter) / float64(errorsBefore)) * 100
}

// ImpactStatus maps an improvement percentage to its reporting status.
func ImpactStatus(improvement float64) string {
	switch {
	case improvement > 0:
		return StatusImproved
	case improvement < 0:
		return StatusWorsened
	default:
		return StatusNoChange
	}
}

// Round2 rounds to two decimal places for API responses.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
