package query

import "strings"

var stopwordsEN = map[string]bool{
	"a": true, "an": true, "the": true, "is": true, "are": true, "of": true,
	"in": true, "on": true, "to": true, "for": true, "and": true, "or": true,
	"me": true, "about": true, "what": true, "where": true, "how": true,
	"tell": true, "please": true, "i": true, "want": true, "best": true,
}

var stopwordsRU = map[string]bool{
	"и": true, "в": true, "на": true, "о": true, "об": true, "мне": true,
	"что": true, "где": true, "как": true, "расскажи": true, "для": true,
	"про": true, "это": true, "есть": true,
}

// stem applies a deliberately small, rule-based stemmer per language:
// Russian strips common case endings, English strips the usual plural/verb
// suffixes, anything else is returned unchanged.
func stem(lang, token string) string {
	switch lang {
	case "ru":
		return stemRU(token)
	case "en":
		return stemEN(token)
	default:
		return token
	}
}

var ruCaseSuffixes = []string{"ами", "ями", "ого", "его", "ому", "ему", "ах", "ях", "ов", "ев", "ой", "ей", "ия", "ие", "а", "я", "ы", "и", "е", "о", "у", "ю"}

func stemRU(token string) string {
	r := []rune(token)
	if len(r) <= 4 {
		return token
	}
	for _, suf := range ruCaseSuffixes {
		sr := []rune(suf)
		if len(r) > len(sr)+3 && string(r[len(r)-len(sr):]) == suf {
			return string(r[:len(r)-len(sr)])
		}
	}
	return token
}

var enSuffixes = []string{"ing", "ed", "es", "s"}

func stemEN(token string) string {
	if len(token) <= 4 {
		return token
	}
	for _, suf := range enSuffixes {
		if strings.HasSuffix(token, suf) && len(token) > len(suf)+2 {
			return strings.TrimSuffix(token, suf)
		}
	}
	return token
}

func isStopword(lang, token string) bool {
	switch lang {
	case "ru":
		return stopwordsRU[token]
	default:
		return stopwordsEN[token]
	}
}
