package suggest

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var malagasy = []string{
	"manoratra",
	"manampy",
	"mandroso",
	"manao",
	"mianatra",
	"miasa",
	"mahita",
	"malagasy",
	"misaotra",
}

func TestLocalDictionaryKeepsDeclaredOrder(t *testing.T) {
	d := NewLocalDictionary(malagasy)

	got := d.Query(context.Background(), "man", 5)
	assert.Equal(t, []string{"manoratra", "manampy", "mandroso", "manao"}, Words(got))

	got = d.Query(context.Background(), "ma", 5)
	assert.Equal(t, []string{"manoratra", "manampy", "mandroso", "manao", "mahita"}, Words(got))

	for _, c := range got {
		assert.Nil(t, c.Score)
	}
}

func TestLocalDictionaryScenario(t *testing.T) {
	d := NewLocalDictionary([]string{"manao", "manampy"})
	assert.Equal(t, []string{"manao", "manampy"}, Words(d.Query(context.Background(), "ma", 5)))
}

func TestLocalDictionaryProperties(t *testing.T) {
	d := NewLocalDictionary(malagasy)
	prefixes := []string{"m", "ma", "MA", "Mi", "man", "mano", "x", "malagasy", "malagasyy"}

	for _, p := range prefixes {
		for k := 0; k <= 6; k++ {
			got := d.Complete(p, k)
			assert.LessOrEqual(t, len(got), k)

			last := -1
			for _, c := range got {
				assert.True(t, strings.HasPrefix(strings.ToLower(c.Word), strings.ToLower(p)))
				pos := indexOf(malagasy, c.Word)
				assert.Greater(t, pos, last, "dictionary order must be kept")
				last = pos
			}
		}
	}
}

func TestLocalDictionaryEmptyAndMisses(t *testing.T) {
	d := NewLocalDictionary(malagasy)
	assert.Empty(t, d.Complete("", 5))
	assert.NotNil(t, d.Complete("", 5))
	assert.Empty(t, d.Complete("   ", 5))
	assert.Empty(t, d.Complete("zz", 5))
	assert.Empty(t, d.Complete("ma", 0))
	assert.Empty(t, d.Complete("ma", -1))
}

func TestLocalDictionaryCaseAndNormalization(t *testing.T) {
	d := NewLocalDictionary([]string{"Été", "  ", "ete", "ÉTÉ", "élan"})
	assert.Equal(t, 3, d.Len())
	assert.Equal(t, []string{"été", "ete", "élan"}, d.Words())

	assert.Equal(t, []string{"été"}, Words(d.Complete("ÉT", 5)))
	assert.Equal(t, []string{"élan"}, Words(d.Complete("él", 5)))
}

func TestLocalDictionaryMatchCase(t *testing.T) {
	d := NewLocalDictionary(malagasy, WithMatchCase())
	assert.Equal(t, []string{"Mahita"}, Words(d.Complete("Mah", 5)))
	assert.Equal(t, []string{"MIanatra", "MIasa"}, Words(d.Complete("MIa", 5)))
}

func TestLocalDictionaryReplace(t *testing.T) {
	d := NewLocalDictionary(malagasy)
	d.Replace([]string{"salama", "sakafo"})

	assert.Equal(t, 2, d.Len())
	assert.Empty(t, d.Complete("ma", 5))
	assert.Equal(t, []string{"salama", "sakafo"}, Words(d.Complete("sa", 5)))
	assert.Equal(t, SourceLocal, d.Source())
}

func TestSearchTrieNil(t *testing.T) {
	assert.Nil(t, SearchTrie(nil, "a", 3))
}

func TestApplyCapitalization(t *testing.T) {
	require.Equal(t, "Manao", ApplyCapitalization("manao", CapitalPositions("Ma")))
	require.Equal(t, "ÉtÉ", ApplyCapitalization("été", []bool{true, false, true}))
	require.Equal(t, "manao", ApplyCapitalization("manao", nil))
}

func indexOf(words []string, w string) int {
	for i, x := range words {
		if x == w {
			return i
		}
	}
	return -1
}
