package contextassembler

import (
	"strings"

	"github.com/anastasianlp/georgian-rag/internal/domain"
)

// priorityLocations are the cities recognized directly inside a free-text
// address, in every script the corpus uses.
var priorityLocations = []string{
	"тбилиси", "tbilisi", "თბილისი",
	"мцхета", "mtskheta", "მცხეთა",
	"батуми", "batumi", "ბათუმი",
	"кутаиси", "kutaisi", "ქუთაისი",
	"сигнахи", "signagi", "სიღნაღი",
	"гори", "gori", "გორი",
	"ахалкалаки", "akhalkalaki",
	"боржоми", "borjomi", "ბორჯომი",
	"кобулети", "kobuleti",
	"ахалцихе", "akhaltsikhe",
	"зугдиди", "zugdidi",
	"телави", "telavi",
	"поти", "poti",
	"рустави", "rustavi",
}

// regionalMarkers map a canonical region to the spellings that may appear
// in addresses or tags.
var regionalMarkers = [][]string{
	{"кахетия", "kakheti", "კახეთი"},
	{"самегрело", "samegrelo", "სამეგრელო"},
	{"сванетия", "svaneti", "სვანეთი"},
	{"аджария", "adjara", "აჭარა"},
	{"имеретия", "imereti", "იმერეთი"},
	{"шида картли", "shida kartli", "inner kartli"},
	{"самцхе", "javakheti", "джавахети"},
}

// locationFlags maps boolean payload flags to the place they imply.
var locationFlags = map[string]string{
	"is_tbilisi_related":  "Tbilisi",
	"is_mtskheta_related": "Mtskheta",
	"is_batumi_related":   "Batumi",
	"is_kakheti_related":  "Kakheti",
}

var addressSkipWords = []string{"georgia", "грузия", "region", "регион", "municipality", "муниципалитет"}

// extractLocation resolves a short, canonical location string for one
// payload. The ladder: address text, NER lists, boolean flags, tags, and
// finally the document name.
func extractLocation(p domain.Payload) string {
	if loc := cityFromAddress(p.String(domain.FieldLocation)); loc != "" {
		return loc
	}
	if locs := p.StringSlice("ner_locations"); len(locs) > 0 {
		return titleCase(locs[0])
	}
	for flag, place := range locationFlags {
		if p.Bool(flag) {
			return place
		}
	}
	for _, tag := range p.StringSlice(domain.FieldTags) {
		if loc := matchKnownPlace(strings.ToLower(tag)); loc != "" {
			return loc
		}
	}
	if name := p.String(domain.FieldName); name != "" {
		if loc := matchKnownPlace(strings.ToLower(name)); loc != "" {
			return loc
		}
		return name
	}
	return ""
}

// cityFromAddress walks a comma-separated address: priority city anywhere
// in the text first, then regional markers, then the second component
// (usually the city in "street, city, region, country" form).
func cityFromAddress(address string) string {
	if strings.TrimSpace(address) == "" {
		return ""
	}
	lower := strings.ToLower(address)
	for _, city := range priorityLocations {
		if strings.Contains(lower, city) {
			return titleCase(city)
		}
	}

	parts := strings.Split(address, ",")
	for _, part := range parts {
		partLower := strings.ToLower(strings.TrimSpace(part))
		if partLower == "" || len(part) > 50 {
			continue
		}
		if containsAny(partLower, addressSkipWords) {
			continue
		}
		for _, markers := range regionalMarkers {
			for _, marker := range markers {
				if strings.Contains(partLower, marker) {
					return titleCase(marker)
				}
			}
		}
	}

	if len(parts) >= 2 {
		second := strings.TrimSpace(parts[1])
		if second != "" && len(second) < 30 && !containsAny(strings.ToLower(second), addressSkipWords) {
			return titleCase(second)
		}
	}
	return ""
}

func matchKnownPlace(lower string) string {
	for _, city := range priorityLocations {
		if strings.Contains(lower, city) {
			return titleCase(city)
		}
	}
	for _, markers := range regionalMarkers {
		for _, marker := range markers {
			if strings.Contains(lower, marker) {
				return titleCase(marker)
			}
		}
	}
	return ""
}

func containsAny(haystack string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(haystack, n) {
			return true
		}
	}
	return false
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		runes := []rune(w)
		if len(runes) == 0 {
			continue
		}
		words[i] = strings.ToUpper(string(runes[0])) + string(runes[1:])
	}
	return strings.Join(words, " ")
}
