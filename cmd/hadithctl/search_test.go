package main

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shuvoedward/hadith_search/internal/service"
)

func TestSearchCmd_RequiresExactlyOneArg(t *testing.T) {
	_, err := execute(t, "--memory", testCorpus, "search")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg(s)")
}

func TestSearchCmd_MemoryCorpus(t *testing.T) {
	out, err := execute(t, "--memory", testCorpus, "search", "intentons")
	require.NoError(t, err)

	assert.Contains(t, out, "Page 1 of 1 (1 results)")
	assert.Contains(t, out, "Sahih al-Bukhari 1:1")
	assert.Contains(t, out, "Actions are judged by intentions")
}

func TestSearchCmd_JSON(t *testing.T) {
	out, err := execute(t, "--memory", testCorpus, "search", "--json", "27")
	require.NoError(t, err)

	var page service.SearchPage
	require.NoError(t, json.Unmarshal([]byte(out), &page))

	require.NotEmpty(t, page.Data)
	assert.Equal(t, 27, page.Data[0].HadithNumber)
	assert.Equal(t, 2, page.Pagination.Total)
}

func TestSearchCmd_LayoutCorrection(t *testing.T) {
	out, err := execute(t, "--memory", testCorpus, "search", "-l", "ru", "hfvflfy")
	require.NoError(t, err)

	assert.Contains(t, out, `Corrected keyboard layout from "hfvflfy"`)
	assert.Contains(t, out, "Кто постился в рамадан с верой")
}

func TestSearchCmd_NoResults(t *testing.T) {
	out, err := execute(t, "--memory", testCorpus, "search", "zzzzqqqq")
	require.NoError(t, err)
	assert.Contains(t, out, "No results found.")
}

func TestSearchCmd_RejectsLimit(t *testing.T) {
	_, err := execute(t, "--memory", testCorpus, "search", "--limit", "500", "faith")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "limit")
}

func TestSearchCmd_RequiresStore(t *testing.T) {
	t.Setenv("HADITH_DB_DSN", "")

	_, err := execute(t, "search", "faith")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no database configured")
}

func TestSuggestCmd(t *testing.T) {
	out, err := execute(t, "--memory", testCorpus, "suggest", "-l", "ru", "рамадан")
	require.NoError(t, err)
	assert.Contains(t, out, "ramadan")
}

func TestSpellCmd(t *testing.T) {
	out, err := execute(t, "--memory", testCorpus, "spell", "--json", "-l", "ru", "намереним")
	require.NoError(t, err)

	var words []struct {
		Word  string  `json:"word"`
		Score float64 `json:"score"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &words))
	require.NotEmpty(t, words)
	assert.Equal(t, "намерениям", words[0].Word)
}

func TestCachePurgeCmd(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "badger")
	path := writeConfig(t, `
corpus = "`+absCorpus(t)+`"

[cache]
backend = "badger"
badger_dir = "`+dir+`"
`)

	_, err := execute(t, "--config", path, "search", "faith")
	require.NoError(t, err)

	out, err := execute(t, "--config", path, "cache", "purge")
	require.NoError(t, err)
	assert.Contains(t, out, "Purged 1 cached page(s).")

	out, err = execute(t, "--config", path, "cache", "purge")
	require.NoError(t, err)
	assert.Contains(t, out, "Purged 0 cached page(s).")
}

func TestCachePurgeCmd_RequiresBackend(t *testing.T) {
	_, err := execute(t, "--memory", testCorpus, "cache", "purge")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no cache backend configured")
}
