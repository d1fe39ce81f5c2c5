package word

import (
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetect(t *testing.T) {
	testCases := []struct {
		text   string
		caret  int
		want   *Span
		reason string
	}{
		{"sa ma", 5, &Span{Text: "ma", Start: 3, Length: 2}, "word at end"},
		{"sa ma", 4, &Span{Text: "m", Start: 3, Length: 1}, "caret inside word"},
		{"sa ma", 3, nil, "caret after space"},
		{"sa ma", 0, nil, "start of document"},
		{"", 0, nil, "empty buffer"},
		{"hello,", 6, nil, "after punctuation"},
		{"hello", 9, nil, "caret past end"},
		{"hello", -1, nil, "negative caret"},
		{"x=été", 5, &Span{Text: "été", Start: 2, Length: 3}, "extended latin"},
		{"Manao", 5, &Span{Text: "Manao", Start: 0, Length: 5}, "capitalised"},
		{"abc123", 6, nil, "digits are not letters"},
		{"123abc", 6, &Span{Text: "abc", Start: 3, Length: 3}, "digits stop the scan"},
		{"a\nbcd", 5, &Span{Text: "bcd", Start: 2, Length: 3}, "newline stops the scan"},
		{"naïve ŝ", 7, &Span{Text: "ŝ", Start: 6, Length: 1}, "latin extended-A"},
		{"日本", 2, nil, "outside the letter class"},
	}

	for _, tc := range testCases {
		t.Run(tc.reason, func(t *testing.T) {
			got := Detect(tc.text, tc.caret)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestDetectIsIdempotentAndMaximal(t *testing.T) {
	texts := []string{"sa ma", "Salama tompoko", "été, hiver", "mi-asa", "  ", "a"}
	for _, text := range texts {
		n := utf8.RuneCountInString(text)
		runes := []rune(text)
		for caret := 0; caret <= n; caret++ {
			first := Detect(text, caret)
			second := Detect(text, caret)
			assert.Equal(t, first, second)

			if first == nil {
				if caret > 0 {
					assert.False(t, IsWordRune(runes[caret-1]))
				}
				continue
			}
			assert.Equal(t, caret, first.End())
			assert.Equal(t, utf8.RuneCountInString(first.Text), first.Length)
			assert.Equal(t, string(runes[first.Start:caret]), first.Text)
			if first.Start > 0 {
				assert.False(t, IsWordRune(runes[first.Start-1]), "run must be maximal")
			}
		}
	}
}

func TestDetectAtIgnoresSelections(t *testing.T) {
	assert.Nil(t, DetectAt("sa ma", 3, 2))
	assert.Equal(t, &Span{Text: "ma", Start: 3, Length: 2}, DetectAt("sa ma", 5, 0))
}

func TestDetectFromSelection(t *testing.T) {
	got := DetectFromSelection("manao", 10)
	require.NotNil(t, got)
	assert.Equal(t, Span{Text: "manao", Start: 10, Length: 5}, *got)

	got = DetectFromSelection("  mahita ", 4)
	require.NotNil(t, got)
	assert.Equal(t, Span{Text: "mahita", Start: 6, Length: 6}, *got)

	assert.Nil(t, DetectFromSelection("   ", 0))
	assert.Nil(t, DetectFromSelection("", 0))
	assert.Nil(t, DetectFromSelection("word", -1))
}
