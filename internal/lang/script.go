package lang

import "unicode"

// scriptWindow is one entry of the ordered script-range ladder.
// minAlphaRatio, when nonzero, requires that fraction of alphabetic
// runes to fall in the window before it counts as a match (used for
// Armenian and Cyrillic, which otherwise false-positive on stray glyphs).
type scriptWindow struct {
	lang          string
	inWindow      func(r rune) bool
	minAlphaRatio float64
}

var scriptWindows = []scriptWindow{
	{lang: "ka", inWindow: inRange(0x10A0, 0x10FF)},
	{lang: "hy", inWindow: inRange(0x0530, 0x058F), minAlphaRatio: 0.30},
	{lang: "ja", inWindow: isKana},
	{lang: "zh", inWindow: isCJK},
	{lang: "ko", inWindow: inRange(0xAC00, 0xD7A3)},
	{lang: "ar", inWindow: inRange(0x0600, 0x06FF)},
	{lang: "hi", inWindow: inRange(0x0900, 0x097F)},
	{lang: "ru", inWindow: isCyrillic, minAlphaRatio: 0.30},
}

func inRange(lo, hi rune) func(rune) bool {
	return func(r rune) bool { return r >= lo && r <= hi }
}

func isCJK(r rune) bool {
	return (r >= 0x4E00 && r <= 0x9FFF) || (r >= 0x3400 && r <= 0x4DBF)
}

func isHiragana(r rune) bool { return r >= 0x3040 && r <= 0x309F }
func isKatakana(r rune) bool { return r >= 0x30A0 && r <= 0x30FF }

func isKana(r rune) bool { return isHiragana(r) || isKatakana(r) }

func isCyrillic(r rune) bool { return r >= 0x0400 && r <= 0x04FF }

// DetectScript runs the ordered unicode script-range ladder against the raw
// (uncleaned) query text: Georgian and Japanese/Chinese/Korean/Arabic/
// Devanagari short-circuit on the first rune found in their window; Armenian
// and Cyrillic additionally require a minimum alphabetic-character ratio.
// It is exported so the query analyzer can reuse it for coarse language
// detection.
func DetectScript(text string) (string, bool) {
	runes := []rune(text)
	var alphaTotal int
	windowCounts := make(map[string]int, len(scriptWindows))
	for _, r := range runes {
		if unicode.IsLetter(r) {
			alphaTotal++
		}
		for _, w := range scriptWindows {
			if w.inWindow(r) {
				windowCounts[w.lang]++
			}
		}
	}
	if alphaTotal == 0 {
		return "", false
	}
	for _, w := range scriptWindows {
		count := windowCounts[w.lang]
		if count == 0 {
			continue
		}
		if w.minAlphaRatio > 0 {
			if float64(count)/float64(alphaTotal) < w.minAlphaRatio {
				continue
			}
		}
		// Georgian/CJK/Korean/Arabic/Devanagari short-circuit on any match;
		// Armenian/Cyrillic already passed the ratio gate above.
		return w.lang, true
	}
	return "", false
}
