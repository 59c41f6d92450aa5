package romania

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// foldDiacritics strips combining marks after NFD decomposition, so
// "Iași" → "Iasi" and both the comma-below and cedilla variants of ș/ț fold
// to their ASCII base letters.
var foldDiacritics = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

var separators = strings.NewReplacer("-", " ", "_", " ", ".", " ", ",", " ", "/", " ")

// normalize lower-cases the input, folds diacritics and collapses every
// separator run to a single space.
func normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if folded, _, err := transform.String(foldDiacritics, s); err == nil {
		s = folded
	}
	s = separators.Replace(s)
	return strings.Join(strings.Fields(s), " ")
}

// SanitizeCounty maps a free-text county designation to its ISO 3166-2:RO
// code ("RO-CJ", "RO-B", ...). Lookup runs twice: once against the full
// normalized input and, failing that, once more with administrative
// qualifier words ("județul", "mun.", "orașul", ...) stripped from both
// ends. It returns "" when no mapping is found and never fails.
func SanitizeCounty(input string) string {
	key := normalize(input)
	if key == "" {
		return ""
	}
	if code, ok := lookupCounty(key); ok {
		return code
	}
	if stripped := stripQualifiers(key); stripped != "" && stripped != key {
		if code, ok := lookupCounty(stripped); ok {
			return code
		}
	}
	return ""
}

func lookupCounty(key string) (string, bool) {
	if code, ok := countyByName[key]; ok {
		return code, true
	}
	if code, ok := countyCodes[key]; ok {
		return code, true
	}
	return "", false
}

func stripQualifiers(key string) string {
	words := strings.Fields(key)
	for len(words) > 0 && administrativeQualifiers[words[0]] {
		words = words[1:]
	}
	for len(words) > 0 && administrativeQualifiers[words[len(words)-1]] {
		words = words[:len(words)-1]
	}
	return strings.Join(words, " ")
}

// sectorToken matches a sector keyword with the number attached, as in
// "sector2", "sect06" or "s1".
var sectorToken = regexp.MustCompile(`^(?:sectorul|sectoru|sector|sect|sec|s)(\d{1,2})$`)

var sectorKeywords = map[string]bool{
	"sectorul": true, "sectoru": true, "sector": true,
	"sect": true, "sec": true, "s": true,
}

// SanitizeBucharestSector extracts a Bucharest sector from free text and
// returns it as "SECTOR1".."SECTOR6" (zero-padded digits accepted, output
// never padded). Surrounding words are ignored; the first valid sector
// number found wins. No recognizable sector, or a number outside 1..6,
// yields "".
func SanitizeBucharestSector(input string) string {
	words := strings.Fields(normalize(input))
	for i, w := range words {
		if m := sectorToken.FindStringSubmatch(w); m != nil {
			if n, ok := sectorNumber(m[1]); ok {
				return "SECTOR" + strconv.Itoa(n)
			}
			continue
		}
		if sectorKeywords[w] && i+1 < len(words) {
			if n, ok := sectorNumber(words[i+1]); ok {
				return "SECTOR" + strconv.Itoa(n)
			}
		}
	}
	return ""
}

func sectorNumber(digits string) (int, bool) {
	if len(digits) < 1 || len(digits) > 2 {
		return 0, false
	}
	n, err := strconv.Atoi(digits)
	if err != nil || n < 1 || n > 6 {
		return 0, false
	}
	return n, true
}

// IsBucharest reports whether the county code designates the capital.
// Comparison is case-insensitive and whitespace-tolerant; anything that is
// not RO-B, including the empty string, is false.
func IsBucharest(countyCode string) bool {
	return strings.EqualFold(strings.TrimSpace(countyCode), CountyBucharest)
}
