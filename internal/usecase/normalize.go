package usecase

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// leadingArticles are stripped to derive an extra lookup variant for inventory names
var leadingArticles = []string{"the ", "a ", "an "}

// normalizeName canonicalizes an ingredient or inventory name for lookup.
// Composed (NFC) form first so that visually identical names share a key.
func normalizeName(name string) string {
	return strings.TrimSpace(strings.ToLower(norm.NFC.String(name)))
}

// pluralVariant returns the single number-flipped variant of a normalized name:
// a trailing "s" is dropped for names longer than three characters, otherwise one is appended.
func pluralVariant(name string) string {
	if strings.HasSuffix(name, "s") && utf8.RuneCountInString(name) > 3 {
		return strings.TrimSuffix(name, "s")
	}
	return name + "s"
}

// articleVariants returns the name with each matching leading article removed
func articleVariants(name string) []string {
	var variants []string
	for _, article := range leadingArticles {
		if strings.HasPrefix(name, article) {
			if suffix := strings.TrimPrefix(name, article); suffix != "" {
				variants = append(variants, suffix)
			}
		}
	}
	return variants
}
