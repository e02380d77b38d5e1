package designer

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lexcodex/agentforge/catalog"
	"github.com/lexcodex/agentforge/schema"
)

func repairableGraph() *schema.GraphStructure {
	return &schema.GraphStructure{
		Pattern: schema.PatternConfig{PatternType: schema.PatternSequential, MaxIterations: 3},
		StateSchema: schema.StateSchema{Fields: []schema.StateField{
			{Name: "messages", Type: schema.FieldMessageList, Reducer: "add_messages"},
			{Name: "is_finished", Type: schema.FieldBool, Default: false},
		}},
		Nodes:      []schema.NodeDef{{ID: "agent", Type: schema.NodeLLM}},
		Edges:      []schema.EdgeDef{{Source: "agent", Target: schema.EndNode}},
		EntryPoint: "agent",
	}
}

func TestFixGraphNoopWithoutIssuesOrFeedback(t *testing.T) {
	builder := &fakeBuilder{response: `{"should": "not be called"}`}
	d := New(builder, catalog.New(nil), Options{TemplateDir: t.TempDir()})

	current := repairableGraph()
	fixed, err := d.FixGraph(context.Background(), current, nil, "")
	require.NoError(t, err)
	assert.Same(t, current, fixed)
	assert.Equal(t, 0, builder.calls)

	fixed, err = d.FixGraph(context.Background(), current, &schema.SimulationResult{Success: true}, "   ")
	require.NoError(t, err)
	assert.Same(t, current, fixed)
	assert.Equal(t, 0, builder.calls)
}

func TestFixGraphNormalizesModelOutput(t *testing.T) {
	// The model answers with a graph using a lowercase terminal alias.
	repaired := repairableGraph()
	repaired.Edges[0].Target = "end"
	payload, err := json.Marshal(repaired)
	require.NoError(t, err)

	builder := &fakeBuilder{response: "Here is the corrected graph:\n" + string(payload)}
	d := New(builder, catalog.New(nil), Options{TemplateDir: t.TempDir()})

	sim := &schema.SimulationResult{Issues: []schema.SimulationIssue{{
		IssueType:   schema.IssueMissingEdge,
		Severity:    schema.SeverityError,
		Description: "agent never terminates",
	}}}
	fixed, err := d.FixGraph(context.Background(), repairableGraph(), sim, "")
	require.NoError(t, err)
	assert.Equal(t, 1, builder.calls)
	assert.Equal(t, schema.EndNode, fixed.Edges[0].Target)
}

func TestFixGraphRejectsInconsistentModelOutput(t *testing.T) {
	bad := repairableGraph()
	bad.EntryPoint = "ghost"
	payload, err := json.Marshal(bad)
	require.NoError(t, err)

	builder := &fakeBuilder{response: string(payload)}
	d := New(builder, catalog.New(nil), Options{TemplateDir: t.TempDir()})

	_, err = d.FixGraph(context.Background(), repairableGraph(), nil, "please fix the loop")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not self-consistent")
}

func TestFixGraphRejectsNonJSONResponse(t *testing.T) {
	builder := &fakeBuilder{response: "I refuse."}
	d := New(builder, catalog.New(nil), Options{TemplateDir: t.TempDir()})

	_, err := d.FixGraph(context.Background(), repairableGraph(), nil, "tighten the loop")
	require.Error(t, err)
}
