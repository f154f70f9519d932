package contextassembler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anastasianlp/georgian-rag/internal/domain"
	"github.com/anastasianlp/georgian-rag/internal/enrichment"
)

func TestAssembleShapesTopResults(t *testing.T) {
	results := []domain.SearchResult{
		{
			DocID: "svetitskhoveli",
			Score: 4.2,
			Payload: domain.Payload{
				domain.FieldName:        "Светицховели",
				domain.FieldDescription: "Кафедральный собор в Мцхете.",
				domain.FieldCategory:    "cathedral",
				domain.FieldLocation:    "Arsukidze Street, Mtskheta, Georgia",
				domain.FieldLanguage:    "RU",
				domain.FieldTags:        []string{"мцхета", "собор"},
				domain.FieldImageURL:    "https://img.example/sveti.jpg",
			},
		},
		{
			DocID:   "no-payload",
			Score:   1.1,
			Content: "fallback content",
			Payload: domain.Payload{},
		},
	}

	ctx := Assemble(results, domain.QueryAnalysis{Language: "ru"}, enrichment.Result{}, "ka")

	require.Len(t, ctx.Results, 2)
	first := ctx.Results[0]
	assert.Equal(t, 1, first.Rank)
	assert.Equal(t, "Светицховели", first.Name)
	assert.Equal(t, "Mtskheta", first.Location)
	assert.Equal(t, "Arsukidze Street, Mtskheta, Georgia", first.LocationFull)
	assert.True(t, first.HasImage)
	assert.Equal(t, "RU", first.OriginalLanguage)

	second := ctx.Results[1]
	assert.Equal(t, "Result no-paylo", second.Name)
	assert.Equal(t, "fallback content", second.Description)

	assert.Equal(t, "ru", ctx.Language.Detected)
	assert.Equal(t, "ka", ctx.Language.Target)
	assert.Equal(t, "Georgian", ctx.Language.LanguageName)
	assert.Equal(t, 2, ctx.TotalResults)
	assert.Equal(t, 1, ctx.ResultsWithImages)
}

func TestAssembleCapsAtFiveResults(t *testing.T) {
	var results []domain.SearchResult
	for i := 0; i < 8; i++ {
		results = append(results, domain.SearchResult{
			DocID:   string(rune('a' + i)),
			Payload: domain.Payload{domain.FieldName: "Place"},
		})
	}
	ctx := Assemble(results, domain.QueryAnalysis{}, enrichment.Result{}, "en")
	assert.Len(t, ctx.Results, 5)
	assert.Equal(t, 8, ctx.TotalResults)
}

func TestImagesDeduplicatedCorpusFirst(t *testing.T) {
	results := []domain.SearchResult{
		{
			DocID: "a",
			Payload: domain.Payload{
				domain.FieldName:     "A",
				domain.FieldImageURL: "https://img.example/shared.jpg",
			},
		},
	}
	enriched := enrichment.Result{
		UnsplashImages: []enrichment.UnsplashImage{
			{URL: "https://img.example/shared.jpg", Photographer: "X"},
			{URL: "https://img.example/unique.jpg", Photographer: "Y"},
		},
		Sources: []string{"unsplash"},
	}

	ctx := Assemble(results, domain.QueryAnalysis{}, enriched, "en")
	require.Len(t, ctx.Images, 2)
	assert.Equal(t, "corpus", ctx.Images[0].Source)
	assert.Equal(t, "https://img.example/shared.jpg", ctx.Images[0].URL)
	assert.Equal(t, "https://img.example/unique.jpg", ctx.Images[1].URL)
}

func TestExtractLocationLadder(t *testing.T) {
	cases := []struct {
		name    string
		payload domain.Payload
		want    string
	}{
		{
			name:    "priority city in address",
			payload: domain.Payload{domain.FieldLocation: "100 David Aghmashenebeli Ave, Kobuleti, Adjara, Georgia"},
			want:    "Kobuleti",
		},
		{
			name:    "second address component",
			payload: domain.Payload{domain.FieldLocation: "12 Some Street, Stepantsminda, Georgia"},
			want:    "Stepantsminda",
		},
		{
			name:    "regional marker",
			payload: domain.Payload{domain.FieldLocation: "Центральная Грузия, регионы, Имеретия"},
			want:    "Имеретия",
		},
		{
			name:    "boolean flag fallback",
			payload: domain.Payload{"is_tbilisi_related": true},
			want:    "Tbilisi",
		},
		{
			name:    "tag fallback",
			payload: domain.Payload{domain.FieldTags: []string{"wine", "kakheti"}},
			want:    "Kakheti",
		},
		{
			name:    "name fallback",
			payload: domain.Payload{domain.FieldName: "Gergeti Trinity Church"},
			want:    "Gergeti Trinity Church",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, extractLocation(tc.payload))
		})
	}
}
