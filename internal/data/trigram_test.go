package data

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTrigramSimilarity(t *testing.T) {
	idx := TrigramIndex{}

	assert.InDelta(t, 1.0, idx.Similarity("word", "WORD"), 1e-9)
	assert.Zero(t, idx.Similarity("", "word"))
	assert.Zero(t, idx.Similarity("!!!", "word"))
}

func TestTrigramWordSimilarity(t *testing.T) {
	idx := TrigramIndex{}

	tests := []struct {
		name  string
		query string
		text  string
		want  float64
	}{
		{"fragment inside longer text", "word", "two words", 0.8},
		{"prefix of a longer word", "проро", "Это текст, в котором упоминается пророк", 5.0 / 6.0},
		{"exact word", "пророк", "сказал пророк", 1},
		{"typo", "intentons", "Actions are judged by intentions", 8.0 / 13.0},
		{"empty query", "", "anything", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, idx.WordSimilarity(tt.query, tt.text), 1e-6)
		})
	}
}

func TestTrigramShortWordsStayApart(t *testing.T) {
	idx := TrigramIndex{}

	assert.Less(t, idx.WordSimilarity("iman", "animal"), 0.8)
}

func TestTrigramMatchSubstring(t *testing.T) {
	idx := TrigramIndex{}

	assert.True(t, idx.MatchSubstring("The Prophet said", "prophet"))
	assert.True(t, idx.MatchSubstring("Сказал ПРОРОК", "пророк"))
	assert.False(t, idx.MatchSubstring("The Prophet said", "fasting"))
	assert.False(t, idx.MatchSubstring("The Prophet said", ""))
}
