// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package slug_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/yamdb/pkg/slug"
)

/*
TestFrom covers folding, separators and the length cap.
*/
func TestFrom(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		maxLen int
		want   string
	}{
		{"words", "Science Fiction", 50, "science-fiction"},
		{"accents", "Drame Épique", 50, "drame-epique"},
		{"punctuation_runs", "  Rock & Roll!! ", 50, "rock-roll"},
		{"digits", "Top 100", 50, "top-100"},
		{"non_latin_dropped", "Аниме anime", 50, "anime"},
		{"only_symbols", "!!!", 50, ""},
		{"cut_at_word", "alpha beta gamma", 12, "alpha-beta"},
		{"cut_single_word", strings.Repeat("a", 60), 50, strings.Repeat("a", 50)},
		{"no_limit", strings.Repeat("ab ", 30), 0, strings.TrimSuffix(strings.Repeat("ab-", 30), "-")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := slug.From(tt.input, tt.maxLen)
			assert.Equal(t, tt.want, got)
			if tt.maxLen > 0 {
				assert.LessOrEqual(t, len(got), tt.maxLen)
			}
		})
	}
}
