// Package query implements the query analyzer: a pure function of the
// original, untranslated, cleaned query that produces intent, entities,
// keywords, filters, and the semantic/dense query strings.
package query

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Entity is one gazetteer entry: a known place or category with its
// cross-script transliteration variants.
type Entity struct {
	Canonical string
	Category  string // "location" | "category_marker"
	Variants  []string
}

// gazetteer is a small curated list of tourism place names and category
// words, with transliteration variants across Latin/Cyrillic/Georgian
// scripts.
var gazetteer = []Entity{
	{Canonical: "svetitskhoveli", Category: "location",
		Variants: []string{"svetitskhoveli", "светицховели", "სვეტიცხოველი"}},
	{Canonical: "tbilisi", Category: "location",
		Variants: []string{"tbilisi", "тбилиси", "თბილისი"}},
	{Canonical: "mtskheta", Category: "location",
		Variants: []string{"mtskheta", "мцхета", "მცხეთა"}},
	{Canonical: "batumi", Category: "location",
		Variants: []string{"batumi", "батуми", "ბათუმი"}},
	{Canonical: "kakheti", Category: "location",
		Variants: []string{"kakheti", "кахетия", "კახეთი"}},
	{Canonical: "gori", Category: "location",
		Variants: []string{"gori", "гори", "გორი"}},
	{Canonical: "kazbegi", Category: "location",
		Variants: []string{"kazbegi", "казбеги", "ყაზბეგი"}},
	{Canonical: "signagi", Category: "location",
		Variants: []string{"signagi", "сигнахи", "სიღნაღი"}},
}

// categoryWords map explicit category markers to boolean payload flags
//.
var categoryWords = map[string][]string{
	"is_religious_site":  {"church", "cathedral", "monastery", "церковь", "собор", "монастырь", "ეკლესია", "მონასტერი"},
	"is_historical_site": {"fortress", "castle", "крепость", "замок", "ციხე", "ციხესიმაგრე"},
}

// findEntities scans the cleaned query for gazetteer and category-word
// hits, case-insensitively. Category words also match English inflected
// forms ("churches") through the English stemmer.
func findEntities(cleanedLower string) (matched []Entity, categories []string) {
	stemmed := make(map[string]bool)
	for _, tok := range strings.Fields(cleanedLower) {
		stemmed[stemEN(tok)] = true
	}
	for _, e := range gazetteer {
		for _, v := range e.Variants {
			if containsWholeWordASCIIOrScript(cleanedLower, strings.ToLower(v)) {
				matched = append(matched, e)
				break
			}
		}
	}
	for flag, words := range categoryWords {
		for _, w := range words {
			if containsWholeWordASCIIOrScript(cleanedLower, w) || stemmed[w] {
				categories = append(categories, flag)
				break
			}
		}
	}
	return matched, categories
}

// containsWholeWordASCIIOrScript mirrors internal/lang's boundary-checked
// whole-word search (kept local rather than exported across packages, since
// this package's entries are phrases as well as single words).
func containsWholeWordASCIIOrScript(haystack, needle string) bool {
	if needle == "" {
		return false
	}
	idx := 0
	for {
		pos := strings.Index(haystack[idx:], needle)
		if pos < 0 {
			return false
		}
		start := idx + pos
		end := start + len(needle)
		beforeOK := start == 0 || isWordBoundary(lastRune(haystack[:start]))
		afterOK := end >= len(haystack) || isWordBoundary(firstRune(haystack[end:]))
		if beforeOK && afterOK {
			return true
		}
		idx = start + 1
		if idx >= len(haystack) {
			return false
		}
	}
}

func isWordBoundary(r rune) bool {
	return !unicode.IsLetter(r) && !unicode.IsDigit(r)
}

func firstRune(s string) rune {
	r, _ := utf8.DecodeRuneInString(s)
	return r
}

func lastRune(s string) rune {
	r, _ := utf8.DecodeLastRuneInString(s)
	return r
}
