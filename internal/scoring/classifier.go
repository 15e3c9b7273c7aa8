package scoring

// Quality categories, ordered best to worst.
const (
	CategoryExcellent      = "Excellent"
	CategoryGood           = "Good"
	CategoryFair           = "Fair"
	CategoryNeedsAttention = "Needs Attention"
)

// Manual-review thresholds.
const (
	reviewScoreThreshold     = 50
	reviewSentimentThreshold = -0.3
	reviewDurationThreshold  = 60
)

// Categorize maps a quality score to its category. Thresholds are evaluated
// highest-first and are inclusive on the lower end, so every integer score
// maps to exactly one category.
func Categorize(score int) string {
	switch {
	case score >= 80:
		return CategoryExcellent
	case score >= 60:
		return CategoryGood
	case score >= 40:
		return CategoryFair
	default:
		return CategoryNeedsAttention
	}
}

// NeedsManualReview flags a call for human re-inspection when any single
// condition holds: weak score, any forbidden phrase, markedly negative
// sentiment, or a very short call. The flag is independent of the category;
// a "Good" call with one forbidden phrase is still flagged.
func NeedsManualReview(score, forbiddenCount int, sentiment float64, durationSeconds int) bool {
	return score < reviewScoreThreshold ||
		forbiddenCount > 0 ||
		sentiment < reviewSentimentThreshold ||
		durationSeconds < reviewDurationThreshold
}
