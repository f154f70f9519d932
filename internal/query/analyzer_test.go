package query

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/anastasianlp/georgian-rag/internal/domain"
)

func TestAnalyzeSvetitskhoveliRussianQuery(t *testing.T) {
	got := Analyze("расскажи о Светицховели")

	require.Equal(t, "ru", got.Language)
	require.Equal(t, domain.StrategyModerate, got.FilterStrategy)
	require.Contains(t, got.Entities.Locations, "svetitskhoveli")

	var entityFilter *domain.Filter
	for i := range got.Filters {
		if got.Filters[i].Op == domain.FilterOpOr {
			entityFilter = &got.Filters[i]
		}
	}
	require.NotNil(t, entityFilter, "expected a compound OR filter over entity name/tags variants")
	require.Len(t, entityFilter.Children, 2)
	fields := []string{entityFilter.Children[0].Field, entityFilter.Children[1].Field}
	require.ElementsMatch(t, []string{"name", "tags"}, fields)
	for _, child := range entityFilter.Children {
		require.Contains(t, child.Values, "светицховели")
		require.Contains(t, child.Values, "svetitskhoveli")
		require.Contains(t, child.Values, "სვეტიცხოველი")
	}
}

func TestAnalyzeReligiousSiteCategoryMarker(t *testing.T) {
	got := Analyze("show me only churches in Tbilisi")

	require.Contains(t, got.Entities.Categories, "is_religious_site")
	require.Contains(t, got.Entities.Locations, "tbilisi")
	require.Equal(t, domain.IntentFiltered, got.Intent)
}

func TestAnalyzeNavigationalIntent(t *testing.T) {
	got := Analyze("how to get to Kazbegi")
	require.Equal(t, domain.IntentNavigational, got.Intent)
}

func TestAnalyzeExploratoryIntentDefault(t *testing.T) {
	got := Analyze("what are the most beautiful places in Kakheti")
	require.Equal(t, domain.IntentExploratory, got.Intent)
}

func TestAnalyzeIsPureFunction(t *testing.T) {
	a := Analyze("расскажи о Светицховели")
	b := Analyze("расскажи о Светицховели")
	require.Equal(t, a, b)
}

func TestAnalyzeKeywordsDropStopwordsAndStem(t *testing.T) {
	got := Analyze("tell me about the churches in Tbilisi")
	require.NotContains(t, got.Keywords, "the")
	require.NotContains(t, got.Keywords, "about")
	require.Contains(t, got.Keywords, "church")
}

func TestAnalyzeLooseStrategyWithoutEntity(t *testing.T) {
	got := Analyze("best views and nature")
	require.Equal(t, domain.StrategyLoose, got.FilterStrategy)
}

func TestAnalyzeExplicitLanguagePhraseAddsHardFilter(t *testing.T) {
	got := Analyze("расскажи о Тбилиси на русском")
	var found bool
	for _, f := range got.Filters {
		if f.Op == domain.FilterOpEquals && f.Field == domain.FieldLanguage {
			require.Equal(t, "RU", f.Value)
			found = true
		}
	}
	require.True(t, found, "explicit language phrase should add a hard language filter")
}
