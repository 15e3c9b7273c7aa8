// Package rubric checks call transcripts for protocol adherence: greeting,
// agent identification, help offer, farewell and forbidden phrases. All
// checks are pure functions of the text and the configured phrase sets.
package rubric

import (
	"strings"
)

// Evaluation holds the outcome of every rubric check for one transcript.
type Evaluation struct {
	HasGreeting       bool
	HasIdentification bool
	HasHelpOffer      bool
	HasFarewell       bool
	ForbiddenWords    []string
}

// Evaluator applies a Ruleset to transcript text. Windows are measured in
// characters (runes), not words; a phrase spanning a window boundary is
// missed. That imprecision is accepted, matching the production rubric.
type Evaluator struct {
	rules Ruleset
}

// NewEvaluator returns an Evaluator for the given ruleset.
func NewEvaluator(rules Ruleset) *Evaluator {
	return &Evaluator{rules: rules}
}

// Evaluate runs every check against the transcript.
func (e *Evaluator) Evaluate(text string) Evaluation {
	return Evaluation{
		HasGreeting:       e.DetectGreeting(text),
		HasIdentification: e.DetectIdentification(text),
		HasHelpOffer:      e.DetectHelpOffer(text),
		HasFarewell:       e.DetectFarewell(text),
		ForbiddenWords:    e.DetectForbidden(text),
	}
}

// DetectGreeting reports whether a greeting phrase appears near the start
// of the call.
func (e *Evaluator) DetectGreeting(text string) bool {
	return containsAny(head(text, e.rules.Greeting.Window), e.rules.Greeting.Phrases)
}

// DetectIdentification reports whether the agent identified themselves near
// the start of the call.
func (e *Evaluator) DetectIdentification(text string) bool {
	return containsAny(head(text, e.rules.Identification.Window), e.rules.Identification.Phrases)
}

// DetectHelpOffer reports whether the agent offered help near the start of
// the call.
func (e *Evaluator) DetectHelpOffer(text string) bool {
	return containsAny(head(text, e.rules.HelpOffer.Window), e.rules.HelpOffer.Phrases)
}

// DetectFarewell reports whether a farewell phrase appears at the end of
// the call.
func (e *Evaluator) DetectFarewell(text string) bool {
	return containsAny(tail(text, e.rules.Farewell.Window), e.rules.Farewell.Phrases)
}

// DetectForbidden scans the whole transcript and returns every forbidden
// phrase found, in ruleset order. Each phrase is reported at most once no
// matter how often it recurs. The result is empty, never nil, when nothing
// matched.
func (e *Evaluator) DetectForbidden(text string) []string {
	lowered := strings.ToLower(text)
	found := []string{}
	for _, phrase := range e.rules.Forbidden {
		if strings.Contains(lowered, phrase) {
			found = append(found, phrase)
		}
	}
	return found
}

func containsAny(window string, phrases []string) bool {
	for _, p := range phrases {
		if strings.Contains(window, p) {
			return true
		}
	}
	return false
}

// head returns the first n characters of text, lower-cased.
func head(text string, n int) string {
	runes := []rune(text)
	if len(runes) > n {
		runes = runes[:n]
	}
	return strings.ToLower(string(runes))
}

// tail returns the last n characters of text, lower-cased.
func tail(text string, n int) string {
	runes := []rune(text)
	if len(runes) > n {
		runes = runes[len(runes)-n:]
	}
	return strings.ToLower(string(runes))
}
