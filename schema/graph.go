package schema

import "fmt"

// EndNode is the canonical terminal marker. Edge and branch targets pointing
// at EndNode terminate the generated workflow; every other spelling is an
// alias that normalization rewrites.
const EndNode = "END"

// NodeType enumerates supported node categories in a designed graph.
type NodeType string

const (
	NodeLLM       NodeType = "llm"
	NodeTool      NodeType = "tool"
	NodeRetrieval NodeType = "retrieval"
	NodeRouter    NodeType = "router"
	NodeCustom    NodeType = "custom"
)

// NodeDef describes a unit of work in the execution graph. Nodes are never
// mutated in place; repair operations replace the node collection wholesale.
type NodeDef struct {
	ID              string                 `json:"id"`
	Type            NodeType               `json:"type"`
	RoleDescription string                 `json:"role_description,omitempty"`
	Config          map[string]interface{} `json:"config,omitempty"`
}

// EdgeDef is an unconditional transition. Target may be a node ID or EndNode.
type EdgeDef struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

// DecisionKind tags the closed set of decision procedures a conditional edge
// can evaluate. Custom logic the designer cannot statically interpret carries
// an opaque instruction instead.
type DecisionKind string

const (
	// DecisionToolCall routes on the tool call named by the last message,
	// falling back when none is present.
	DecisionToolCall DecisionKind = "last-message-tool-call"
	// DecisionStateFlag routes on a boolean state field.
	DecisionStateFlag DecisionKind = "state-flag"
	// DecisionLLMRouter routes on a classification emitted by an upstream
	// router node.
	DecisionLLMRouter DecisionKind = "llm-router"
	// DecisionCustom carries model-authored logic as free text.
	DecisionCustom DecisionKind = "custom"
)

// DecisionLogic describes how a conditional edge picks its branch key.
type DecisionLogic struct {
	Kind DecisionKind `json:"kind" yaml:"kind"`
	// Field names the state field consulted by state-flag and llm-router
	// decisions. It must be declared in the graph's state schema.
	Field string `json:"field,omitempty" yaml:"field,omitempty"`
	// Fallback is the branch key taken when the decision yields nothing.
	Fallback string `json:"fallback,omitempty" yaml:"fallback,omitempty"`
	// Instruction holds opaque custom logic for DecisionCustom.
	Instruction string `json:"instruction,omitempty" yaml:"instruction,omitempty"`
}

// ConditionalEdgeDef is a transition whose target depends on evaluating state
// at runtime. Branches map a decision's branch key to a node ID or EndNode.
type ConditionalEdgeDef struct {
	Source    string            `json:"source"`
	Condition string            `json:"condition"`
	Logic     *DecisionLogic    `json:"condition_logic,omitempty"`
	Branches  map[string]string `json:"branches"`
}

// GraphStructure is the complete designed topology handed to the compiler.
// It is either fully self-consistent or the producing operation fails.
type GraphStructure struct {
	Pattern          PatternConfig        `json:"pattern"`
	StateSchema      StateSchema          `json:"state_schema"`
	Nodes            []NodeDef            `json:"nodes"`
	Edges            []EdgeDef            `json:"edges,omitempty"`
	ConditionalEdges []ConditionalEdgeDef `json:"conditional_edges,omitempty"`
	EntryPoint       string               `json:"entry_point"`
}

// GraphIssue is a typed, field-attributed structural problem. Callers decide
// whether to retry, request repair, or abort.
type GraphIssue struct {
	Kind    string `json:"kind"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

// Error implements the error interface.
func (i GraphIssue) Error() string {
	return fmt.Sprintf("%s (%s): %s", i.Kind, i.Subject, i.Message)
}

// Issue kinds reported by Validate.
const (
	IssueDuplicateNode   = "duplicate_node"
	IssueMissingNode     = "missing_node"
	IssueBadEntryPoint   = "bad_entry_point"
	IssueBadFieldType    = "bad_field_type"
	IssueDuplicateField  = "duplicate_field"
	IssueUndeclaredField = "undeclared_field"
)

// Validate checks the structural invariants: unique node IDs, edge and branch
// targets resolving to real nodes or EndNode, a reachable entry point, state
// field types drawn from the closed enumeration, and decision logic referring
// only to declared fields.
func (g *GraphStructure) Validate() []GraphIssue {
	var issues []GraphIssue

	nodeIDs := make(map[string]bool, len(g.Nodes))
	for _, node := range g.Nodes {
		if nodeIDs[node.ID] {
			issues = append(issues, GraphIssue{
				Kind:    IssueDuplicateNode,
				Subject: node.ID,
				Message: "node id declared more than once",
			})
		}
		nodeIDs[node.ID] = true
	}
	if len(g.Nodes) == 0 {
		issues = append(issues, GraphIssue{
			Kind:    IssueMissingNode,
			Subject: "nodes",
			Message: "graph declares no nodes",
		})
	}

	fieldNames := make(map[string]bool, len(g.StateSchema.Fields))
	for _, field := range g.StateSchema.Fields {
		if fieldNames[field.Name] {
			issues = append(issues, GraphIssue{
				Kind:    IssueDuplicateField,
				Subject: field.Name,
				Message: "state field declared more than once",
			})
		}
		fieldNames[field.Name] = true
		if !field.Type.Valid() {
			issues = append(issues, GraphIssue{
				Kind:    IssueBadFieldType,
				Subject: field.Name,
				Message: fmt.Sprintf("type %q is not in the field type enumeration", field.Type),
			})
		}
	}

	for _, edge := range g.Edges {
		if !nodeIDs[edge.Source] {
			issues = append(issues, GraphIssue{
				Kind:    IssueMissingNode,
				Subject: edge.Source,
				Message: fmt.Sprintf("edge source %q is not a declared node", edge.Source),
			})
		}
		if edge.Target != EndNode && !nodeIDs[edge.Target] {
			issues = append(issues, GraphIssue{
				Kind:    IssueMissingNode,
				Subject: edge.Target,
				Message: fmt.Sprintf("edge target %q is not a declared node or %s", edge.Target, EndNode),
			})
		}
	}

	for _, cond := range g.ConditionalEdges {
		if !nodeIDs[cond.Source] {
			issues = append(issues, GraphIssue{
				Kind:    IssueMissingNode,
				Subject: cond.Source,
				Message: fmt.Sprintf("conditional edge source %q is not a declared node", cond.Source),
			})
		}
		for key, target := range cond.Branches {
			if target != EndNode && !nodeIDs[target] {
				issues = append(issues, GraphIssue{
					Kind:    IssueMissingNode,
					Subject: target,
					Message: fmt.Sprintf("branch %q of %q targets unknown node %q", key, cond.Source, target),
				})
			}
		}
		if cond.Logic != nil && cond.Logic.Field != "" && !fieldNames[cond.Logic.Field] {
			issues = append(issues, GraphIssue{
				Kind:    IssueUndeclaredField,
				Subject: cond.Logic.Field,
				Message: fmt.Sprintf("decision logic on %q references undeclared state field %q", cond.Source, cond.Logic.Field),
			})
		}
	}

	if g.EntryPoint == "" || !nodeIDs[g.EntryPoint] {
		issues = append(issues, GraphIssue{
			Kind:    IssueBadEntryPoint,
			Subject: g.EntryPoint,
			Message: "entry point is not a declared node",
		})
	}

	return issues
}

// NodeIDs returns the set of declared node identifiers.
func (g *GraphStructure) NodeIDs() map[string]bool {
	ids := make(map[string]bool, len(g.Nodes))
	for _, node := range g.Nodes {
		ids[node.ID] = true
	}
	return ids
}
