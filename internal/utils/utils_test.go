package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSuggestionFilter(t *testing.T) {
	f := NewSuggestionFilter("salama")
	assert.False(t, f.ShouldInclude("Salama"))
	assert.True(t, f.ShouldInclude("été"))
	assert.False(t, f.ShouldInclude("ÉTÉ"))
	assert.True(t, f.ShouldInclude("sakafo"))
	assert.False(t, f.ShouldInclude("sakafo"))
}

func TestCreateRankList(t *testing.T) {
	assert.Equal(t, []uint16{}, CreateRankList(0))
	assert.Equal(t, []uint16{1, 2, 3}, CreateRankList(3))

	ranks := CreateRankList(70000)
	assert.Equal(t, uint16(65534), ranks[65533])
	assert.Equal(t, uint16(65535), ranks[65534])
	assert.Equal(t, uint16(65535), ranks[69999])
}

func TestTOMLRoundTripAndRecovery(t *testing.T) {
	type section struct {
		Name  string  `toml:"name"`
		Count int     `toml:"count"`
		Rate  float64 `toml:"rate"`
	}
	type doc struct {
		Engine section `toml:"engine"`
	}

	path := filepath.Join(t.TempDir(), "c.toml")
	require.NoError(t, SaveTOMLFile(doc{Engine: section{Name: "x", Count: 3, Rate: 1.5}}, path))

	var got doc
	require.NoError(t, LoadTOMLFile(path, &got))
	assert.Equal(t, section{Name: "x", Count: 3, Rate: 1.5}, got.Engine)

	require.NoError(t, os.WriteFile(path, []byte("[engine]\nname = \"y\"\ncount = \"three\"\nrate = 2\n"), 0o644))
	assert.Error(t, LoadTOMLFile(path, &got))

	raw, err := ParseTOMLWithRecovery(path)
	require.NoError(t, err)
	engine, ok := ExtractSection(raw, "engine")
	require.True(t, ok)

	name, ok := ExtractString(engine, "name")
	assert.True(t, ok)
	assert.Equal(t, "y", name)
	_, ok = ExtractInt64(engine, "count")
	assert.False(t, ok)
	rate, ok := ExtractFloat(engine, "rate")
	assert.True(t, ok)
	assert.Equal(t, 2.0, rate)
	_, ok = ExtractBool(engine, "name")
	assert.False(t, ok)
}

func TestPathResolver(t *testing.T) {
	configDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(configDir, "words.txt"), []byte("manao\n"), 0o644))

	pr := NewPathResolver(configDir)
	got, err := pr.DictPath("words.txt")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(configDir, "words.txt"), got)

	abs := filepath.Join(configDir, "words.txt")
	got, err = pr.DictPath(abs)
	require.NoError(t, err)
	assert.Equal(t, abs, got)

	_, err = pr.DictPath("missing-words.txt")
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestCheckDirStatus(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "dir")
	res := CheckDirStatus(dir)
	assert.True(t, res.Exists)
	assert.True(t, res.Writable)
	assert.NoError(t, res.Error)
	assert.True(t, FileExists(dir))
}
