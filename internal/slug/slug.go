// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package slug provides URL-friendly slug generation from display names.
package slug

import (
	"fmt"
	"math/rand/v2"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// FallbackBase is used when the display name yields an empty slug
// (empty, symbol-only, or fully non-latin input).
const FallbackBase = "usuario"

var (
	// nonWord matches anything that isn't a letter, digit, underscore,
	// space, or hyphen after diacritics are stripped.
	nonWord = regexp.MustCompile(`[^\w\s-]`)
	// whitespace collapses runs of whitespace into a single hyphen.
	whitespace = regexp.MustCompile(`\s+`)
	// multipleHyphens collapses consecutive hyphens into one.
	multipleHyphens = regexp.MustCompile(`-{2,}`)

	// stripMarks decomposes to NFD and drops combining marks, so
	// "Ana Sílva" folds to "Ana Silva".
	stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
)

// Generate creates a URL-friendly slug base from the given string.
// Example: "João da Silva" → "joao-da-silva". May return "" for input
// with no usable characters; callers wanting a page address should use
// ForDisplayName, which never returns an empty slug.
func Generate(s string) string {
	folded, _, err := transform.String(stripMarks, s)
	if err != nil {
		folded = s
	}
	result := strings.ToLower(strings.TrimSpace(folded))
	result = nonWord.ReplaceAllString(result, "")
	result = whitespace.ReplaceAllString(result, "-")
	result = multipleHyphens.ReplaceAllString(result, "-")
	result = strings.Trim(result, "-")
	return result
}

// ForDisplayName generates the public page slug for a display name:
// the slug base (or the fallback base when empty) plus a random 4-digit
// suffix. Uniqueness is probabilistic; the caller retries on collision.
// Example: "Ana Silva" → "ana-silva-4821".
func ForDisplayName(displayName string) string {
	base := Generate(displayName)
	if base == "" {
		base = FallbackBase
	}
	return fmt.Sprintf("%s-%d", base, 1000+rand.IntN(9000))
}
