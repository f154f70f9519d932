package lang

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// vocabPriority is the order distinctive-word vocabularies are tried in:
// Georgian, Armenian, Hindi, Azerbaijani, Turkish, then other European
// languages, Russian, English last, so shared Latin stopwords don't shadow
// more specific cues.
var vocabPriority = []string{
	"ka", "hy", "hi", "az", "tr",
	"de", "fr", "es", "it", "nl", "pl", "cs",
	"ru", "en",
}

// distinctiveVocab carries a curated, whole-word vocabulary per language.
// Entries must be unique across the whole table (verified by
// VerifyZeroOverlap, called at startup); tokens here are deliberately
// unambiguous words (greetings, function words, question words) that don't
// double as loanwords in a neighboring language.
var distinctiveVocab = map[string][]string{
	"ka": {"გამარჯობა", "მადლობა", "სად", "არის", "მითხარი", "თბილისი"},
	"hy": {"բարեւ", "շնորհակալություն", "որտեղ", "ասա", "ինձ"},
	"hi": {"नमस्ते", "धन्यवाद", "कहाँ", "मुझे", "बताओ", "कृपया"},
	"az": {"salam", "təşəkkür", "haradadır", "mənə", "de"},
	"tr": {"merhaba", "teşekkürler", "nerede", "bana", "anlat", "lütfen"},
	"de": {"hallo", "danke", "wo ist", "bitte", "erzähl"},
	"fr": {"bonjour", "merci", "où est", "parle-moi", "raconte"},
	"es": {"hola", "gracias", "dónde está", "cuéntame", "háblame"},
	"it": {"ciao", "grazie", "dove si trova", "raccontami", "parlami"},
	"nl": {"goedemiddag", "dankjewel", "waar is", "vertel me"},
	"pl": {"cześć", "dziękuję", "gdzie jest", "opowiedz", "proszę"},
	"cs": {"ahoj", "děkuji", "kde je", "řekni mi", "prosím"},
	"ru": {"привет", "спасибо", "расскажи", "где находится", "мне"},
	"en": {"hello", "thanks", "where is", "tell me", "please"},
}

// VerifyZeroOverlap checks that for every pair of supported languages the
// intersection of their distinctive-word sets is empty. Returns the list of
// offending tokens, if any. Called at process startup; violations are
// logged, not fatal.
func VerifyZeroOverlap() []string {
	seenBy := make(map[string]string)
	var violations []string
	for _, vocabLang := range vocabPriority {
		for _, tok := range distinctiveVocab[vocabLang] {
			key := strings.ToLower(tok)
			if owner, ok := seenBy[key]; ok && owner != vocabLang {
				violations = append(violations, fmt.Sprintf("%q appears in both %s and %s", tok, owner, vocabLang))
				continue
			}
			seenBy[key] = vocabLang
		}
	}
	return violations
}

// DetectVocabulary matches whole words (not substrings) against each
// language's curated vocabulary in priority order; exported so the query
// analyzer can reuse it.
func DetectVocabulary(cleanedLower string) (string, bool) {
	for _, vocabLang := range vocabPriority {
		for _, tok := range distinctiveVocab[vocabLang] {
			if containsWholeWord(cleanedLower, strings.ToLower(tok)) {
				return vocabLang, true
			}
		}
	}
	return "", false
}

// containsWholeWord checks phrase membership as a token/phrase boundary
// match rather than a raw substring search, so e.g. "hola" doesn't match
// inside "aholashop".
func containsWholeWord(haystack, needle string) bool {
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
		beforeOK := start == 0 || isBoundary(lastRune(haystack[:start]))
		afterOK := end >= len(haystack) || isBoundary(firstRune(haystack[end:]))
		if beforeOK && afterOK {
			return true
		}
		idx = start + 1
		if idx >= len(haystack) {
			return false
		}
	}
}

func isBoundary(r rune) bool {
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
