package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lexcodex/agentforge/schema"
)

func testTools() []schema.ToolDefinition {
	return []schema.ToolDefinition{
		{
			ID:             "tavily_search",
			Name:           "Tavily Search",
			Description:    "web search",
			Category:       "search",
			Aliases:        []string{"web search"},
			RequiresAPIKey: true,
		},
		{
			ID:          "calculator",
			Name:        "Calculator",
			Description: "evaluate expressions",
			Category:    "math",
			Aliases:     []string{"calc"},
		},
		{
			ID:          "arxiv_search",
			Name:        "Arxiv Search",
			Description: "paper search",
			Category:    "search",
		},
	}
}

func TestLoadMissingFileDegradesToEmpty(t *testing.T) {
	cat := Load(filepath.Join(t.TempDir(), "nope.json"), nil)
	assert.Equal(t, 0, cat.Len())
	assert.Empty(t, cat.Search("search", 5, ""))
}

func TestLoadUnreadableFileDegradesToEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.json")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0o644))
	cat := Load(path, nil)
	assert.Equal(t, 0, cat.Len())
}

func TestLoadReadsIndex(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tools.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"id":"calculator","name":"Calculator","description":"math","args_schema":{}}]`), 0o644))
	cat := Load(path, nil)
	require.Equal(t, 1, cat.Len())
	tool, ok := cat.Get("calculator")
	require.True(t, ok)
	assert.Equal(t, "Calculator", tool.Name)
}

func TestGetMiss(t *testing.T) {
	cat := New(testTools())
	_, ok := cat.Get("ghost")
	assert.False(t, ok)
}

func TestCategoriesSortedDistinct(t *testing.T) {
	cat := New(testTools())
	assert.Equal(t, []string{"math", "search"}, cat.Categories())
}

func TestByCategory(t *testing.T) {
	cat := New(testTools())
	search := cat.ByCategory("search")
	require.Len(t, search, 2)
	assert.Equal(t, "tavily_search", search[0].ID)
}

func TestFreeExcludesCredentialTools(t *testing.T) {
	cat := New(testTools())
	free := cat.Free()
	require.Len(t, free, 2)
	for _, tool := range free {
		assert.False(t, tool.RequiresAPIKey)
	}
}

func TestSearchIDMatchAlwaysRanks(t *testing.T) {
	cat := New(testTools())
	results := cat.Search("please run tavily_search for me", 1, "")
	require.Len(t, results, 1)
	assert.Equal(t, "tavily_search", results[0].ID)
}

func TestSearchProperNounOutranksFunctional(t *testing.T) {
	cat := New(testTools())
	results := cat.Search("tavily web search for papers", 3, "")
	require.NotEmpty(t, results)
	assert.Equal(t, "tavily_search", results[0].ID)
}

func TestSearchNoMatchReturnsEmpty(t *testing.T) {
	cat := New(testTools())
	assert.Empty(t, cat.Search("完全无关的闲聊", 5, ""))
}

func TestSearchCategoryFilter(t *testing.T) {
	cat := New(testTools())
	results := cat.Search("search the web", 5, "math")
	assert.Empty(t, results)

	results = cat.Search("calc this expression", 5, "math")
	require.Len(t, results, 1)
	assert.Equal(t, "calculator", results[0].ID)
}

func TestSearchTruncatesToTopK(t *testing.T) {
	cat := New(testTools())
	results := cat.Search("search", 1, "")
	assert.Len(t, results, 1)
}

func TestSearchSkipsSingleRuneTokens(t *testing.T) {
	cat := New([]schema.ToolDefinition{
		{ID: "x_tool", Name: "X", Description: "one letter name"},
	})
	assert.Empty(t, cat.Search("x marks the spot", 5, ""))
}
