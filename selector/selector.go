// Package selector picks the tool set for a project by recalling candidates
// from the catalog and letting a model rerank them. Every model failure
// degrades to the recall order, so selection never blocks a design run.
package selector

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/lexcodex/agentforge/catalog"
	"github.com/lexcodex/agentforge/llm"
	"github.com/lexcodex/agentforge/schema"
	"github.com/lexcodex/agentforge/trace"
)

// DefaultMaxTools bounds the selection when callers pass no limit.
const DefaultMaxTools = 5

const rerankCacheSize = 64

// descriptionLimit truncates tool descriptions in the rerank prompt.
const descriptionLimit = 200

// Selector ranks catalog tools for a project description.
type Selector struct {
	builder llm.Builder
	catalog *catalog.Catalog
	tracer  *trace.Tracer
	cache   *lru.Cache[string, []string]
}

// New builds a selector over the given catalog.
func New(builder llm.Builder, cat *catalog.Catalog, tracer *trace.Tracer) *Selector {
	cache, _ := lru.New[string, []string](rerankCacheSize)
	return &Selector{builder: builder, catalog: cat, tracer: tracer, cache: cache}
}

// SelectTools returns up to maxTools tool IDs for the project, best first.
// The query is the project description joined with the intent summary. The
// result is memoized per query so repeated design runs skip the rerank call.
func (s *Selector) SelectTools(ctx context.Context, meta schema.ProjectMeta, maxTools int) []string {
	if maxTools <= 0 {
		maxTools = DefaultMaxTools
	}
	query := strings.TrimSpace(meta.Description + " " + meta.UserIntentSummary)
	cacheKey := fmt.Sprintf("%d|%s", maxTools, query)
	if cached, ok := s.cache.Get(cacheKey); ok {
		s.tracer.Tracef("selector", "cache hit for %q", query)
		return cached
	}

	candidates := s.catalog.Search(query, maxTools*2, "")
	if len(candidates) == 0 {
		s.tracer.Tracef("selector", "no candidates for %q", query)
		return nil
	}

	selected, ok := s.rerank(ctx, meta, query, candidates, maxTools)
	if !ok {
		selected = truncateIDs(candidates, maxTools)
		s.tracer.Tracef("selector", "rerank unavailable, keeping recall order")
	}
	s.cache.Add(cacheKey, selected)
	return selected
}

// Reselect replaces failed tools while keeping the ones that work. Failed IDs
// are removed from the current set, then the shortfall is filled from a fresh
// selection, skipping anything already kept or already known bad.
func (s *Selector) Reselect(ctx context.Context, current schema.ToolsConfig, failed []string, meta schema.ProjectMeta, maxTools int) schema.ToolsConfig {
	if maxTools <= 0 {
		maxTools = DefaultMaxTools
	}
	bad := make(map[string]bool, len(failed))
	for _, id := range failed {
		bad[id] = true
	}
	var kept []string
	keptSet := make(map[string]bool)
	for _, id := range current.EnabledTools {
		if !bad[id] && !keptSet[id] {
			kept = append(kept, id)
			keptSet[id] = true
		}
	}
	if len(kept) >= maxTools {
		return schema.ToolsConfig{EnabledTools: kept[:maxTools]}
	}
	for _, id := range s.SelectTools(ctx, meta, maxTools) {
		if len(kept) >= maxTools {
			break
		}
		if bad[id] || keptSet[id] {
			continue
		}
		kept = append(kept, id)
		keptSet[id] = true
	}
	return schema.ToolsConfig{EnabledTools: kept}
}

// rerank asks the model to pick the best candidates by index. The second
// return value reports whether the model produced a usable answer: a present
// but empty selected_indices array is a deliberate empty selection and counts
// as usable, while a call error or malformed response does not, letting the
// caller fall back to recall order only for actual failures.
func (s *Selector) rerank(ctx context.Context, meta schema.ProjectMeta, query string, candidates []schema.ToolDefinition, maxTools int) ([]string, bool) {
	if s.builder == nil {
		return nil, false
	}
	var sb strings.Builder
	for i, tool := range candidates {
		desc := tool.Description
		if runes := []rune(desc); len(runes) > descriptionLimit {
			desc = string(runes[:descriptionLimit]) + "…"
		}
		fmt.Fprintf(&sb, "%d. [%s] (id: %s): %s\n", i, tool.Name, tool.ID, desc)
	}
	prompt := fmt.Sprintf(`You select tools for an AI agent.

Agent: %s
Task type: %s
Task: %s

Candidate tools:
%s
Selection rules:
- Pick only tools the task genuinely NEEDS, not tools that are merely related.
- When two candidates do the same job, pick the more capable one and drop the other.
- Pick at most %d tools.
- For pure conversation or chit-chat, select nothing.

Respond with ONLY a JSON object of the form {"selected_indices": [0, 2]} using
the candidate numbers. An empty array means no tools are needed.`,
		meta.AgentName, meta.TaskType, query, sb.String(), maxTools)

	raw, err := s.builder.Call(ctx, prompt)
	if err != nil {
		s.tracer.Tracef("selector", "rerank call failed: %v", err)
		return nil, false
	}
	snippet := llm.ExtractJSON(raw)
	if snippet == "" {
		return nil, false
	}
	var parsed struct {
		SelectedIndices []interface{} `json:"selected_indices"`
	}
	if err := json.Unmarshal([]byte(snippet), &parsed); err != nil {
		s.tracer.Tracef("selector", "rerank response decode failed: %v", err)
		return nil, false
	}
	if parsed.SelectedIndices == nil {
		return nil, false
	}

	var out []string
	seen := make(map[int]bool)
	for _, v := range parsed.SelectedIndices {
		idx, ok := asIndex(v)
		if !ok || idx < 0 || idx >= len(candidates) || seen[idx] {
			continue
		}
		seen[idx] = true
		out = append(out, candidates[idx].ID)
		if len(out) >= maxTools {
			break
		}
	}
	return out, true
}

// asIndex tolerates the number representations a decoded model reply can
// carry for an index.
func asIndex(v interface{}) (int, bool) {
	switch n := v.(type) {
	case float64:
		return int(n), true
	case int:
		return n, true
	case json.Number:
		i, err := n.Int64()
		return int(i), err == nil
	}
	return 0, false
}

func truncateIDs(tools []schema.ToolDefinition, max int) []string {
	if len(tools) > max {
		tools = tools[:max]
	}
	ids := make([]string, len(tools))
	for i, t := range tools {
		ids[i] = t.ID
	}
	return ids
}
