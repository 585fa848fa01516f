// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package slug derives category and genre slugs from their display names,
// e.g. "Science Fiction" becomes "science-fiction" and "Drame" stays "drame".
package slug

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripMarks decomposes accented letters and drops the combining marks.
var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

/*
From returns an ASCII slug of at most maxLen bytes made of [a-z0-9-].

Runs of any other characters become a single hyphen. Letters that have no
ASCII base after accent removal (Cyrillic, CJK) are dropped. When the slug
is longer than maxLen it is cut back to the last hyphen that fits, so words
are not split. A maxLen of zero or less means no limit. The result may be
empty.
*/
func From(name string, maxLen int) string {
	folded, _, err := transform.String(stripMarks, name)
	if err != nil {
		folded = name
	}

	var builder strings.Builder
	pendingHyphen := false
	for _, r := range strings.ToLower(folded) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			if pendingHyphen && builder.Len() > 0 {
				builder.WriteByte('-')
			}
			pendingHyphen = false
			builder.WriteRune(r)
		case unicode.IsLetter(r) && r > unicode.MaxASCII:
			// no ASCII form; drop without breaking the word
		default:
			pendingHyphen = true
		}
	}

	result := builder.String()
	if maxLen <= 0 || len(result) <= maxLen {
		return result
	}

	result = result[:maxLen]
	if cut := strings.LastIndexByte(result, '-'); cut > 0 {
		result = result[:cut]
	}
	return strings.TrimRight(result, "-")
}
