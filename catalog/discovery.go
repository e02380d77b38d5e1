package catalog

import (
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/lexcodex/agentforge/schema"
)

// tokenPattern splits tool names on everything that is not alphanumeric or
// CJK, so "Tavily Search" and "联网搜索" both tokenize usefully.
var tokenPattern = regexp.MustCompile(`[^a-z0-9\p{Han}]+`)

// Scoring tiers. Proper nouns identify a specific service and dominate;
// functional keywords are suggestive; everything else barely counts.
const (
	properNounScore = 15.0
	functionalScore = 5.0
	genericScore    = 2.0
	idMatchBonus    = 10.0
)

var properNounTokens = map[string]bool{
	"tavily": true, "arxiv": true, "notion": true, "google": true,
	"bing": true, "wolfram": true, "youtube": true, "serper": true,
}

var functionalTokens = map[string]bool{
	"search": true, "tool": true, "api": true, "find": true,
	"query": true, "news": true, "image": true, "code": true,
	"repl": true, "联网": true,
}

// Search ranks catalog tools against a free-text query. A tool scores by
// summing tier weights for every name/alias token contained in the lowercased
// query, plus a bonus when the raw tool ID appears verbatim. Zero-score tools
// are excluded; ties keep catalog order. No match yields an empty list.
func (c *Catalog) Search(query string, topK int, category string) []schema.ToolDefinition {
	if len(c.tools) == 0 || topK <= 0 {
		return nil
	}
	queryLower := strings.ToLower(query)
	c.tracer.Tracef("discovery", "searching %q (category=%q)", query, category)

	type scored struct {
		tool  schema.ToolDefinition
		score float64
	}
	var results []scored
	for _, tool := range c.tools {
		if category != "" && tool.Category != category {
			continue
		}
		score := 0.0
		for token := range targetTokens(tool) {
			if utf8.RuneCountInString(token) <= 1 {
				continue
			}
			if !strings.Contains(queryLower, token) {
				continue
			}
			switch {
			case properNounTokens[token]:
				score += properNounScore
			case functionalTokens[token]:
				score += functionalScore
			default:
				score += genericScore
			}
		}
		if strings.Contains(queryLower, strings.ToLower(tool.ID)) {
			score += idMatchBonus
		}
		if score > 0 {
			results = append(results, scored{tool: tool, score: score})
			c.tracer.Tracef("discovery", "matched %s score=%.1f", tool.ID, score)
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].score > results[j].score
	})
	if len(results) > topK {
		results = results[:topK]
	}
	out := make([]schema.ToolDefinition, len(results))
	for i, r := range results {
		out[i] = r.tool
	}
	return out
}

// targetTokens collects the match targets for one tool: its display name
// split into tokens plus every alias taken whole.
func targetTokens(tool schema.ToolDefinition) map[string]bool {
	tokens := make(map[string]bool)
	for _, token := range tokenPattern.Split(strings.ToLower(tool.Name), -1) {
		if token != "" {
			tokens[token] = true
		}
	}
	for _, alias := range tool.Aliases {
		if alias != "" {
			tokens[strings.ToLower(alias)] = true
		}
	}
	return tokens
}
