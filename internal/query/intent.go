package query

import (
	"strings"

	"github.com/anastasianlp/georgian-rag/internal/domain"
)

// intentCues drive classification. Order matters: navigational is
// checked first since "how to get to the church" should not fall through
// to factual's "how" cue.
var intentCues = []struct {
	intent domain.Intent
	cues   []string
}{
	{domain.IntentNavigational, []string{"how to get", "route", "directions", "как добраться", "маршрут"}},
	{domain.IntentComparative, []string{"similar", "compare", "versus", "vs", "похож", "сравни"}},
	{domain.IntentFiltered, []string{"only", "filter", "without", "только", "без"}},
	{domain.IntentFactual, []string{"where", "what is", "who", "when", "где", "что такое", "кто"}},
	{domain.IntentExploratory, []string{"best", "beautiful", "interesting", "recommend", "лучш", "красив", "интересн"}},
}

// classifyIntent matches keyword cues in priority order, falling back to
// exploratory.
func classifyIntent(cleanedLower string) domain.Intent {
	for _, c := range intentCues {
		for _, cue := range c.cues {
			if strings.Contains(cleanedLower, cue) {
				return c.intent
			}
		}
	}
	return domain.IntentExploratory
}

// classifyComplexity is a lightweight heuristic: token count plus presence
// of multiple entities/filters pushes complexity up.
func classifyComplexity(tokenCount, entityCount int) domain.Complexity {
	switch {
	case tokenCount <= 3 && entityCount <= 1:
		return domain.ComplexitySimple
	case tokenCount <= 8:
		return domain.ComplexityModerate
	default:
		return domain.ComplexityComplex
	}
}
