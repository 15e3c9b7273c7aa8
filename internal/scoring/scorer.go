// Package scoring turns rubric results, sentiment and call duration into a
// quality score and an audit classification. Every function here is total:
// no combination of well-typed inputs produces an error.
package scoring

import "math"

// Protocol weights. These are part of the scoring contract, not tunable at
// runtime.
const (
	greetingPoints       = 15
	identificationPoints = 10
	helpOfferPoints      = 15
	farewellPoints       = 10

	forbiddenPenaltyPerWord = 5
	forbiddenPenaltyCap     = 20

	sentimentPoints = 20
)

// Inputs are the facts about one call that feed the quality score.
type Inputs struct {
	HasGreeting       bool
	HasIdentification bool
	HasHelpOffer      bool
	HasFarewell       bool
	ForbiddenCount    int
	Sentiment         float64 // [-1, 1]
	DurationSeconds   int
}

// QualityScore computes the 0-100 quality score for one call:
// up to 50 protocol points, a forbidden-word penalty capped at 20, 0-20
// sentiment points (linear rescale of [-1,1]) and a stepped duration bonus.
// The clamp is applied last so the result can never escape [0,100].
func QualityScore(in Inputs) int {
	score := 0.0

	if in.HasGreeting {
		score += greetingPoints
	}
	if in.HasIdentification {
		score += identificationPoints
	}
	if in.HasHelpOffer {
		score += helpOfferPoints
	}
	if in.HasFarewell {
		score += farewellPoints
	}

	if in.ForbiddenCount > 0 {
		score -= math.Min(float64(in.ForbiddenCount*forbiddenPenaltyPerWord), forbiddenPenaltyCap)
	}

	score += ((in.Sentiment + 1) / 2) * sentimentPoints

	score += durationBonus(in.DurationSeconds)

	rounded := int(math.Round(score))
	if rounded < 0 {
		return 0
	}
	if rounded > 100 {
		return 100
	}
	return rounded
}

// durationBonus is a step function: 2-10 minutes is the ideal band
// (bounds inclusive), shorter calls earn 5, longer calls 7. Zero and
// negative durations fall into the short band.
func durationBonus(seconds int) float64 {
	switch {
	case seconds >= 120 && seconds <= 600:
		return 10
	case seconds < 120:
		return 5
	default:
		return 7
	}
}
