package scoring

import "testing"

func TestCategorize(t *testing.T) {
	tests := []struct {
		score int
		want  string
	}{
		{100, CategoryExcellent},
		{80, CategoryExcellent},
		{79, CategoryGood},
		{60, CategoryGood},
		{59, CategoryFair},
		{40, CategoryFair},
		{39, CategoryNeedsAttention},
		{0, CategoryNeedsAttention},
	}

	for _, tt := range tests {
		if got := Categorize(tt.score); got != tt.want {
			t.Errorf("Categorize(%d) = %q, want %q", tt.score, got, tt.want)
		}
	}
}

func TestCategorizeCoversEveryScore(t *testing.T) {
	valid := map[string]bool{
		CategoryExcellent:      true,
		CategoryGood:           true,
		CategoryFair:           true,
		CategoryNeedsAttention: true,
	}
	for score := 0; score <= 100; score++ {
		if !valid[Categorize(score)] {
			t.Fatalf("Categorize(%d) = %q, not a known category", score, Categorize(score))
		}
	}
}

func TestNeedsManualReview(t *testing.T) {
	tests := []struct {
		name      string
		score     int
		forbidden int
		sentiment float64
		duration  int
		want      bool
	}{
		{"CleanCall", 85, 0, 0.5, 300, false},
		{"LowScore", 49, 0, 0.5, 300, true},
		{"ScoreAtThreshold", 50, 0, 0.5, 300, false},
		{"AnyForbiddenWord", 85, 1, 0.5, 300, true},
		{"NegativeSentiment", 85, 0, -0.31, 300, true},
		{"SentimentAtThreshold", 85, 0, -0.3, 300, false},
		{"ShortCall", 85, 0, 0.5, 59, true},
		{"DurationAtThreshold", 85, 0, 0.5, 60, false},
		{"GoodCallWithForbidden", 70, 2, 0.8, 300, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NeedsManualReview(tt.score, tt.forbidden, tt.sentiment, tt.duration)
			if got != tt.want {
				t.Errorf("NeedsManualReview(%d, %d, %v, %d) = %v, want %v",
					tt.score, tt.forbidden, tt.sentiment, tt.duration, got, tt.want)
			}
		})
	}
}
