// Package domain holds the data model shared by every component of the
// retrieval pipeline: documents, query analysis, search results, fusion
// scores, cache entries, and conversations.
package domain

import (
	"reflect"
	"time"
)

// Payload is the mutable, free-form metadata attached to a Document. Fields
// are probed by name rather than by a fixed struct because the corpus is
// heterogeneous (tourism entries enriched at different times by different
// sources); this mirrors how the vector store itself models payloads.
type Payload map[string]any

func (p Payload) String(key string) string {
	if p == nil {
		return ""
	}
	if v, ok := p[key].(string); ok {
		return v
	}
	return ""
}

func (p Payload) Bool(key string) bool {
	if p == nil {
		return false
	}
	if v, ok := p[key].(bool); ok {
		return v
	}
	return false
}

func (p Payload) StringSlice(key string) []string {
	if p == nil {
		return nil
	}
	switch v := p[key].(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, x := range v {
			if s, ok := x.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

// Set writes key unconditionally; callers are responsible for respecting the
// image_url-is-sacred invariant before calling this on an existing
// payload.
func (p Payload) Set(key string, value any) { p[key] = value }

// Clone returns a deep-enough copy for last-writer-wins payload overwrites:
// nested slices are copied, nested maps are not (none appear in the payload
// fields this system writes).
func (p Payload) Clone() Payload {
	out := make(Payload, len(p))
	for k, v := range p {
		if s, ok := v.([]string); ok {
			cp := make([]string, len(s))
			copy(cp, s)
			out[k] = cp
			continue
		}
		out[k] = v
	}
	return out
}

// ImageRef describes one enrichment image.
type ImageRef struct {
	URL         string `json:"url"`
	Photographer string `json:"photographer,omitempty"`
	Alt         string `json:"alt,omitempty"`
}

// Document is the corpus entity: immutable identity plus a mutable payload.
type Document struct {
	ID      string
	Payload Payload
}

// Recognized payload field names. Centralized here so every
// component that reads or writes a payload field uses the same string.
const (
	FieldName               = "name"
	FieldDescription         = "description"
	FieldLocation            = "location"
	FieldCategory            = "category"
	FieldLanguage            = "language"
	FieldTags                = "tags"
	FieldImageURL            = "image_url"
	FieldIsReligiousSite     = "is_religious_site"
	FieldIsHistoricalSite    = "is_historical_site"
	FieldIsNatureTourism     = "is_nature_tourism"
	FieldIsCulturalHeritage  = "is_cultural_heritage"
	FieldHasProcessedImage   = "has_processed_image"
	FieldIsEnriched          = "is_enriched"
	FieldDescriptionEnriched = "description_enriched"
	FieldImagesWikipedia     = "images_wikipedia"
	FieldImagesUnsplash      = "images_unsplash"
	FieldEnrichedAt          = "enriched_at"
	FieldEnrichmentSources   = "enrichment_sources"
	FieldEnrichedFields      = "enriched_fields"
)

// IsFullyEnriched reports whether the document payload satisfies the
// enrichment invariant used as a fusion boost input.
func (d Document) IsFullyEnriched() bool {
	return d.Payload.Bool(FieldIsEnriched) && d.Payload.String(FieldEnrichedAt) != ""
}

// ValidateEnrichmentInvariant checks that if is_enriched=true then
// enriched_at is set and at least one enrichment field is non-empty.
func (d Document) ValidateEnrichmentInvariant() bool {
	if !d.Payload.Bool(FieldIsEnriched) {
		return true
	}
	if d.Payload.String(FieldEnrichedAt) == "" {
		return false
	}
	if d.Payload.String(FieldDescriptionEnriched) != "" {
		return true
	}
	if len(d.Payload.StringSlice(FieldImagesWikipedia)) > 0 {
		return true
	}
	if images := reflect.ValueOf(d.Payload[FieldImagesUnsplash]); images.Kind() == reflect.Slice && images.Len() > 0 {
		return true
	}
	return false
}

// nowISO renders t as ISO-8601 UTC, the wire format enrichment timestamps
// use.
func nowISO(t time.Time) string { return t.UTC().Format(time.RFC3339) }

// NowISO renders the current time in the same ISO-8601 UTC format.
func NowISO() string { return nowISO(time.Now()) }
