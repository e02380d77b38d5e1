package schema

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validGraph() GraphStructure {
	return GraphStructure{
		Pattern: PatternConfig{PatternType: PatternSequential, MaxIterations: 3},
		StateSchema: StateSchema{Fields: []StateField{
			{Name: "messages", Type: FieldMessageList, Reducer: "add_messages"},
			{Name: "is_finished", Type: FieldBool, Default: false},
		}},
		Nodes: []NodeDef{
			{ID: "agent", Type: NodeLLM},
			{ID: "tool_search", Type: NodeTool, Config: map[string]interface{}{"tool_id": "search"}},
		},
		Edges: []EdgeDef{{Source: "tool_search", Target: "agent"}},
		ConditionalEdges: []ConditionalEdgeDef{{
			Source:    "agent",
			Condition: "route_to_tool",
			Logic:     &DecisionLogic{Kind: DecisionToolCall, Fallback: "end"},
			Branches:  map[string]string{"search": "tool_search", "end": EndNode},
		}},
		EntryPoint: "agent",
	}
}

func TestValidateAcceptsConsistentGraph(t *testing.T) {
	g := validGraph()
	assert.Empty(t, g.Validate())
}

func TestValidateRejectsDuplicateNodes(t *testing.T) {
	g := validGraph()
	g.Nodes = append(g.Nodes, NodeDef{ID: "agent", Type: NodeLLM})
	issues := g.Validate()
	require.Len(t, issues, 1)
	assert.Equal(t, IssueDuplicateNode, issues[0].Kind)
}

func TestValidateRejectsUnknownEdgeTarget(t *testing.T) {
	g := validGraph()
	g.Edges = append(g.Edges, EdgeDef{Source: "agent", Target: "ghost"})
	issues := g.Validate()
	require.Len(t, issues, 1)
	assert.Equal(t, IssueMissingNode, issues[0].Kind)
	assert.Equal(t, "ghost", issues[0].Subject)
}

func TestValidateRejectsUnknownBranchTarget(t *testing.T) {
	g := validGraph()
	g.ConditionalEdges[0].Branches["retry"] = "nowhere"
	issues := g.Validate()
	require.Len(t, issues, 1)
	assert.Equal(t, IssueMissingNode, issues[0].Kind)
}

func TestValidateRejectsBadFieldType(t *testing.T) {
	g := validGraph()
	g.StateSchema.Fields = append(g.StateSchema.Fields, StateField{Name: "weird", Type: "optional-list"})
	issues := g.Validate()
	require.Len(t, issues, 1)
	assert.Equal(t, IssueBadFieldType, issues[0].Kind)
}

func TestValidateRejectsUndeclaredLogicField(t *testing.T) {
	g := validGraph()
	g.ConditionalEdges[0].Logic = &DecisionLogic{Kind: DecisionStateFlag, Field: "missing_flag"}
	issues := g.Validate()
	require.Len(t, issues, 1)
	assert.Equal(t, IssueUndeclaredField, issues[0].Kind)
}

func TestValidateRejectsBadEntryPoint(t *testing.T) {
	g := validGraph()
	g.EntryPoint = "ghost"
	issues := g.Validate()
	require.Len(t, issues, 1)
	assert.Equal(t, IssueBadEntryPoint, issues[0].Kind)
}

func TestGraphJSONRoundTrip(t *testing.T) {
	g := validGraph()
	data, err := json.Marshal(&g)
	require.NoError(t, err)

	var decoded GraphStructure
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, g.Pattern, decoded.Pattern)
	assert.Equal(t, g.EntryPoint, decoded.EntryPoint)
	assert.Equal(t, g.Nodes[0].ID, decoded.Nodes[0].ID)
	require.NotNil(t, decoded.ConditionalEdges[0].Logic)
	assert.Equal(t, DecisionToolCall, decoded.ConditionalEdges[0].Logic.Kind)
	assert.Equal(t, g.ConditionalEdges[0].Branches, decoded.ConditionalEdges[0].Branches)
}

func TestStateFieldTypeValid(t *testing.T) {
	assert.True(t, FieldMessageList.Valid())
	assert.True(t, FieldOptionalString.Valid())
	assert.False(t, StateFieldType("optional-string-list").Valid())
}
