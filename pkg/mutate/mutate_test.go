package mutate

import (
	"testing"

	"github.com/bastiangx/wordassist/pkg/surface"
	"github.com/bastiangx/wordassist/pkg/word"
	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type changeCounter struct {
	changes []surface.Change
}

func (c *changeCounter) TextChanged(ch surface.Change) { c.changes = append(c.changes, ch) }
func (c *changeCounter) KeyDown(surface.Key) bool      { return false }
func (c *changeCounter) Blur()                         {}

func TestCommitWithTrailingSpace(t *testing.T) {
	m := surface.NewMemory()
	require.NoError(t, m.SetText("sa ma", 5))
	counter := &changeCounter{}
	m.Subscribe(counter)

	span := word.Detect(m.String(), 5)
	require.NotNil(t, span)

	require.NoError(t, Mutator{TrailingSpace: true}.Commit(m, "manampy", *span))
	assert.Equal(t, "sa manampy ", m.String())

	sel, _ := m.Selection()
	assert.Equal(t, 11, sel.Index)
	require.Len(t, counter.changes, 1)
	assert.Equal(t, surface.ChangeAPI, counter.changes[0].Source)

	assert.Nil(t, word.Detect(m.String(), sel.Index))
}

func TestCommitWithoutTrailingSpace(t *testing.T) {
	m := surface.NewMemory()
	require.NoError(t, m.SetText("ma tsara", 2))

	span := word.Detect(m.String(), 2)
	require.NotNil(t, span)
	require.NoError(t, Mutator{}.Commit(m, "mahita", *span))

	assert.Equal(t, "mahita tsara", m.String())
	sel, _ := m.Selection()
	assert.Equal(t, 6, sel.Index)
}

func TestCommitExtendedLatin(t *testing.T) {
	m := surface.NewMemory()
	require.NoError(t, m.SetText("un é", 4))

	span := word.Detect(m.String(), 4)
	require.NotNil(t, span)
	require.NoError(t, Mutator{TrailingSpace: true}.Commit(m, "été", *span))

	assert.Equal(t, "un été ", m.String())
	sel, _ := m.Selection()
	assert.Equal(t, 7, sel.Index)
}

func TestCommitConflict(t *testing.T) {
	testCases := []struct {
		name string
		span word.Span
	}{
		{"text changed", word.Span{Text: "mi", Start: 3, Length: 2}},
		{"past the end", word.Span{Text: "ma", Start: 4, Length: 2}},
		{"negative start", word.Span{Text: "ma", Start: -1, Length: 2}},
		{"word grew past the span", word.Span{Text: "s", Start: 0, Length: 1}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			m := surface.NewMemory()
			require.NoError(t, m.SetText("sa ma", 5))
			counter := &changeCounter{}
			m.Subscribe(counter)

			err := Mutator{TrailingSpace: true}.Commit(m, "manao", tc.span)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMutationConflict))
			assert.Equal(t, "sa ma", m.String())
			assert.Empty(t, counter.changes)
		})
	}
}

func TestCommitEmptySuggestion(t *testing.T) {
	m := surface.NewMemory()
	require.NoError(t, m.SetText("ma", 2))
	err := Mutator{}.Commit(m, "", word.Span{Text: "ma", Length: 2})
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrMutationConflict))
	assert.Equal(t, "ma", m.String())
}

func TestCommitBeforePunctuation(t *testing.T) {
	m := surface.NewMemory()
	require.NoError(t, m.SetText("sa ma.", 5))

	span := word.Detect(m.String(), 5)
	require.NotNil(t, span)
	require.NoError(t, Mutator{}.Commit(m, "manao", *span))
	assert.Equal(t, "sa manao.", m.String())
}
