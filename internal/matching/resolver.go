package matching

import (
	"strings"

	"pdstock/internal/model"
)

// prefixLength is the number of leading characters two names must share for a
// prefix match. Names shorter than this never prefix-match; OCR noise on very
// short names would otherwise produce false positives.
const prefixLength = 10

// ResolveProducts returns every catalog product whose normalized Thai or
// English name (or search alias) matches the scanned label text, in catalog
// order. OCR output is frequently truncated or padded, so a product matches
// when either normalized string contains the other, or when both share an
// identical 10-character prefix.
//
// Zero results means the product is unregistered; more than one must be
// disambiguated by the caller — the resolver never auto-picks among ties.
func ResolveProducts(scannedThai, scannedEnglish string, catalog []model.Product) []model.Product {
	normThai := Normalize(scannedThai)
	normEng := Normalize(scannedEnglish)

	var candidates []model.Product
	for _, p := range catalog {
		if matches(normThai, normEng, p) {
			candidates = append(candidates, p)
		}
	}
	return candidates
}

func matches(normThai, normEng string, p model.Product) bool {
	pThai := Normalize(p.ThaiName)
	pEng := Normalize(p.EnglishName)

	if prefixMatch(normThai, pThai) || prefixMatch(normEng, pEng) {
		return true
	}
	if containsMatch(normThai, pThai) || containsMatch(normEng, pEng) {
		return true
	}
	if alias := Normalize(p.SearchName); alias != "" {
		if containsMatch(normThai, alias) || containsMatch(normEng, alias) {
			return true
		}
	}
	return false
}

// prefixMatch reports whether both names are at least prefixLength characters
// long and share an identical prefix. Characters, not bytes — Thai names are
// multi-byte in UTF-8.
func prefixMatch(scanned, registered string) bool {
	s := []rune(scanned)
	r := []rune(registered)
	if len(s) < prefixLength || len(r) < prefixLength {
		return false
	}
	return string(s[:prefixLength]) == string(r[:prefixLength])
}

// containsMatch reports whether either non-empty normalized name is a
// substring of the other. Empty strings match nothing: an unreadable scan
// must not match the whole catalog.
func containsMatch(scanned, registered string) bool {
	if scanned == "" || registered == "" {
		return false
	}
	return strings.Contains(registered, scanned) || strings.Contains(scanned, registered)
}
