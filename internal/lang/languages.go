// Package lang implements the multilingual dispatch layer: script-class
// detection, zero-overlap distinctive-vocabulary matching, remote-LLM
// fallback, and the translate-for-search gate.
package lang

// Supported is the eighteen-language allow-list. The corpus itself is
// RU/EN only; the rest are query-input languages that get translated to
// English for retrieval.
var Supported = []string{
	"ka", "hy", "hi", "az", "tr",
	"de", "fr", "es", "it", "nl", "pl", "cs", "zh", "ja", "ko", "ar",
	"ru", "en",
}

// corpusLanguages are the two languages the documents themselves are
// written in; ShouldTranslateForSearch returns false only for these.
var corpusLanguages = map[string]bool{"en": true, "ru": true}

// ShouldTranslateForSearch implements the translation gate.
func ShouldTranslateForSearch(detected string) bool {
	return !corpusLanguages[detected]
}

// LanguageName returns a human display name used in the generator's
// language preamble and in canned localized messages.
func LanguageName(code string) string {
	if name, ok := languageNames[code]; ok {
		return name
	}
	return code
}

var languageNames = map[string]string{
	"ka": "Georgian", "hy": "Armenian", "hi": "Hindi", "az": "Azerbaijani",
	"tr": "Turkish", "de": "German", "fr": "French", "es": "Spanish",
	"it": "Italian", "nl": "Dutch", "pl": "Polish", "cs": "Czech",
	"zh": "Chinese", "ja": "Japanese", "ko": "Korean", "ar": "Arabic",
	"ru": "Russian", "en": "English",
}

// DefaultLanguage is returned on total detection failure.
const DefaultLanguage = "en"
