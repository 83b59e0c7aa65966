// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ingest

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Slug derives a stable identifier from a display name.
// Diacritics are removed, letters folded to lower case, and every run of
// other characters becomes a single '-':
//
//	"Česká pirátská strana" → "ceska-piratska-strana"
//	"SPOLU (ODS, KDU-ČSL, TOP 09)" → "spolu-ods-kdu-csl-top-09"
func Slug(name string) string {
	strip := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	plain, _, err := transform.String(strip, name)
	if err != nil {
		plain = name
	}
	plain = cases.Fold().String(plain)

	var b strings.Builder
	dash := false
	for _, r := range plain {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

// regionDisplayName turns a file-style region name into a readable one
func regionDisplayName(name string) string {
	return strings.TrimSpace(strings.ReplaceAll(name, "_", " "))
}
