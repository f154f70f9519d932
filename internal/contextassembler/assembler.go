// Package contextassembler shapes fused search results and optional
// enrichment into the generator's input. Documents are never translated
// here: they stay in their RU/EN originals, and producing the target
// language is entirely the generator's job.
package contextassembler

import (
	"github.com/anastasianlp/georgian-rag/internal/domain"
	"github.com/anastasianlp/georgian-rag/internal/enrichment"
	"github.com/anastasianlp/georgian-rag/internal/lang"
)

// maxResults bounds how many fused results are shaped for the prompt.
const maxResults = 5

// ResultEntry is one shaped result.
type ResultEntry struct {
	Rank             int      `json:"rank"`
	Name             string   `json:"name"`
	Description      string   `json:"description"`
	Category         string   `json:"category"`
	Location         string   `json:"location"`
	LocationFull     string   `json:"location_full"`
	Tags             []string `json:"tags"`
	Score            float64  `json:"score"`
	HasImage         bool     `json:"has_image"`
	ImageURL         string   `json:"image_url,omitempty"`
	OriginalLanguage string   `json:"original_language"`
}

// Image is one de-duplicated image descriptor offered to the generator.
type Image struct {
	Place        string `json:"place,omitempty"`
	URL          string `json:"url"`
	Source       string `json:"source"`
	Photographer string `json:"photographer,omitempty"`
}

// LanguageInfo carries the detected/target pair plus the target's human
// name for the prompt.
type LanguageInfo struct {
	Detected     string `json:"detected"`
	Target       string `json:"target"`
	LanguageName string `json:"language_name"`
}

// QueryInfo is filled in by the entry point after assembly; it travels
// with the context so the generator and the response metadata see one
// consistent view of the request.
type QueryInfo struct {
	OriginalQuery      string        `json:"original_query"`
	SearchQuery        string        `json:"search_query"`
	DetectedLanguage   string        `json:"detected_language"`
	TargetLanguage     string        `json:"target_language"`
	QueryWasTranslated bool          `json:"query_was_translated"`
	Intent             domain.Intent `json:"intent"`
}

// Context is the generator's input struct.
type Context struct {
	QueryInfo           QueryInfo
	Results             []ResultEntry
	Enrichment          enrichment.Result
	Images              []Image
	Language            LanguageInfo
	TotalResults        int
	ResultsWithImages   int
	ConversationHistory string
}

// Assemble shapes the top results plus enrichment into a Context. The
// detected/target languages come from analysis and targetLanguage; the
// entry point overwrites QueryInfo with the full request view afterwards.
func Assemble(results []domain.SearchResult, analysis domain.QueryAnalysis, enriched enrichment.Result, targetLanguage string) Context {
	ctx := Context{
		Enrichment:   enriched,
		TotalResults: len(results),
		Language: LanguageInfo{
			Detected:     analysis.Language,
			Target:       targetLanguage,
			LanguageName: lang.LanguageName(targetLanguage),
		},
	}

	seen := map[string]bool{}
	top := results
	if len(top) > maxResults {
		top = top[:maxResults]
	}
	for i, r := range top {
		entry := shapeResult(i+1, r)
		ctx.Results = append(ctx.Results, entry)
		if entry.HasImage {
			ctx.ResultsWithImages++
		}
		// corpus image first; enrichment images appended below
		if entry.ImageURL != "" && !seen[entry.ImageURL] {
			seen[entry.ImageURL] = true
			ctx.Images = append(ctx.Images, Image{Place: entry.Name, URL: entry.ImageURL, Source: "corpus"})
		}
	}

	for _, img := range enriched.UnsplashImages {
		if len(ctx.Images) >= 8 {
			break
		}
		if img.URL == "" || seen[img.URL] {
			continue
		}
		seen[img.URL] = true
		ctx.Images = append(ctx.Images, Image{URL: img.URL, Source: "unsplash", Photographer: img.Photographer})
	}
	for _, u := range enriched.WikipediaImages {
		if len(ctx.Images) >= 8 {
			break
		}
		if u == "" || seen[u] {
			continue
		}
		seen[u] = true
		ctx.Images = append(ctx.Images, Image{URL: u, Source: "wikipedia"})
	}

	return ctx
}

func shapeResult(rank int, r domain.SearchResult) ResultEntry {
	p := r.Payload
	description := p.String(domain.FieldDescription)
	if description == "" {
		description = r.Content
	}

	imageURL := p.String(domain.FieldImageURL)
	hasImage := p.Bool(domain.FieldHasProcessedImage) || imageURL != ""

	tags := p.StringSlice(domain.FieldTags)
	if len(tags) > 10 {
		tags = tags[:10]
	}

	originalLanguage := p.String(domain.FieldLanguage)
	if originalLanguage == "" {
		originalLanguage = "RU"
	}

	name := p.String(domain.FieldName)
	if name == "" {
		id := r.DocID
		if len(id) > 8 {
			id = id[:8]
		}
		name = "Result " + id
	}

	return ResultEntry{
		Rank:             rank,
		Name:             name,
		Description:      description,
		Category:         p.String(domain.FieldCategory),
		Location:         extractLocation(p),
		LocationFull:     p.String(domain.FieldLocation),
		Tags:             tags,
		Score:            r.Score,
		HasImage:         hasImage,
		ImageURL:         imageURL,
		OriginalLanguage: originalLanguage,
	}
}
