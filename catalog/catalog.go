// Package catalog serves the static tool metadata table and the discovery
// search over it. The catalog is loaded once at construction and never
// mutated by any consumer.
package catalog

import (
	"encoding/json"
	"os"
	"sort"

	"github.com/lexcodex/agentforge/schema"
	"github.com/lexcodex/agentforge/trace"
)

// Catalog holds the in-memory tool index. All methods are pure reads.
type Catalog struct {
	tools  []schema.ToolDefinition
	tracer *trace.Tracer
}

// New builds a catalog from an explicit tool list.
func New(tools []schema.ToolDefinition) *Catalog {
	return &Catalog{tools: tools}
}

// Load reads the tool index from a JSON file. A missing or unreadable index
// degrades to an empty catalog rather than failing construction.
func Load(path string, tracer *trace.Tracer) *Catalog {
	cat := &Catalog{tracer: tracer}
	data, err := os.ReadFile(path)
	if err != nil {
		tracer.Tracef("catalog", "tool index %s unavailable: %v", path, err)
		return cat
	}
	var tools []schema.ToolDefinition
	if err := json.Unmarshal(data, &tools); err != nil {
		tracer.Tracef("catalog", "tool index %s unreadable: %v", path, err)
		return cat
	}
	cat.tools = tools
	tracer.Tracef("catalog", "loaded %d tools from %s", len(tools), path)
	return cat
}

// Len reports the number of indexed tools.
func (c *Catalog) Len() int {
	return len(c.tools)
}

// Get returns the tool with the given ID.
func (c *Catalog) Get(id string) (schema.ToolDefinition, bool) {
	for _, tool := range c.tools {
		if tool.ID == id {
			return tool, true
		}
	}
	return schema.ToolDefinition{}, false
}

// All returns a copy of the full index.
func (c *Catalog) All() []schema.ToolDefinition {
	out := make([]schema.ToolDefinition, len(c.tools))
	copy(out, c.tools)
	return out
}

// Categories lists the distinct categories, sorted.
func (c *Catalog) Categories() []string {
	seen := make(map[string]bool)
	for _, tool := range c.tools {
		category := tool.Category
		if category == "" {
			category = "general"
		}
		seen[category] = true
	}
	categories := make([]string, 0, len(seen))
	for category := range seen {
		categories = append(categories, category)
	}
	sort.Strings(categories)
	return categories
}

// ByCategory returns the tools in an exact category.
func (c *Catalog) ByCategory(category string) []schema.ToolDefinition {
	var out []schema.ToolDefinition
	for _, tool := range c.tools {
		if tool.Category == category {
			out = append(out, tool)
		}
	}
	return out
}

// Free returns the tools that work without a credential.
func (c *Catalog) Free() []schema.ToolDefinition {
	var out []schema.ToolDefinition
	for _, tool := range c.tools {
		if !tool.RequiresAPIKey {
			out = append(out, tool)
		}
	}
	return out
}
