package designer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lexcodex/agentforge/schema"
)

func TestNormalizeTerminalsRewritesAllAliases(t *testing.T) {
	aliases := []string{"__end__", "end", "__END__", "_end_", "End", "__end", "end__"}
	for _, alias := range aliases {
		g := &schema.GraphStructure{
			Edges: []schema.EdgeDef{{Source: "agent", Target: alias}},
			ConditionalEdges: []schema.ConditionalEdgeDef{{
				Source:   "agent",
				Branches: map[string]string{"done": alias},
			}},
		}
		NormalizeTerminals(g)
		assert.Equal(t, schema.EndNode, g.Edges[0].Target, alias)
		assert.Equal(t, schema.EndNode, g.ConditionalEdges[0].Branches["done"], alias)
	}
}

func TestNormalizeTerminalsLeavesNodeTargetsAlone(t *testing.T) {
	g := &schema.GraphStructure{
		Edges: []schema.EdgeDef{{Source: "agent", Target: "tool_search"}},
		ConditionalEdges: []schema.ConditionalEdgeDef{{
			Source:   "agent",
			Branches: map[string]string{"continue": "agent", "end": schema.EndNode},
		}},
	}
	NormalizeTerminals(g)
	assert.Equal(t, "tool_search", g.Edges[0].Target)
	assert.Equal(t, "agent", g.ConditionalEdges[0].Branches["continue"])
}

func TestNormalizeTerminalsKeepsBranchKeys(t *testing.T) {
	g := &schema.GraphStructure{
		ConditionalEdges: []schema.ConditionalEdgeDef{{
			Source:   "agent",
			Branches: map[string]string{"end": "end"},
		}},
	}
	NormalizeTerminals(g)
	// The key is a label, only the target normalizes.
	assert.Equal(t, map[string]string{"end": schema.EndNode}, g.ConditionalEdges[0].Branches)
}

func TestNormalizeTerminalsIdempotent(t *testing.T) {
	g := &schema.GraphStructure{
		Edges: []schema.EdgeDef{
			{Source: "a", Target: "__end__"},
			{Source: "b", Target: "c"},
		},
		ConditionalEdges: []schema.ConditionalEdgeDef{{
			Source:   "a",
			Branches: map[string]string{"x": "End", "y": "b"},
		}},
	}
	NormalizeTerminals(g)
	once := *g
	onceEdges := append([]schema.EdgeDef(nil), g.Edges...)

	NormalizeTerminals(g)
	assert.Equal(t, onceEdges, g.Edges)
	assert.Equal(t, once.ConditionalEdges[0].Branches, g.ConditionalEdges[0].Branches)
}
