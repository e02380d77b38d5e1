// Package designer turns project metadata into a validated graph structure:
// pattern selection, state schema derivation, node and edge assembly, tool
// and retrieval wiring, terminal normalization, and model-driven repair.
package designer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/lexcodex/agentforge/catalog"
	"github.com/lexcodex/agentforge/guard"
	"github.com/lexcodex/agentforge/llm"
	"github.com/lexcodex/agentforge/schema"
	"github.com/lexcodex/agentforge/trace"
)

// toolsPlaceholder is the generic branch target templates use before the
// enabled tool set is known. Assembly resolves or strips it; it must never
// survive into a finished graph.
const toolsPlaceholder = "tools"

// planStepThreshold is the execution-plan length above which a project is
// treated as multi-step.
const planStepThreshold = 3

// complexityThreshold is the declared complexity score at which a project
// gets the supervisor pattern.
const complexityThreshold = 6

// iterationVocabulary marks descriptions that ask for a refinement loop.
var iterationVocabulary = []string{
	"迭代", "改进", "优化", "审核", "修改",
	"iterate", "improve", "refine", "review", "revise",
}

// Options configures a Designer.
type Options struct {
	// TemplateDir holds the per-pattern YAML templates.
	TemplateDir string
	// MaxRetries bounds the guard's correction loop during the diagnostic
	// pass. Zero means the guard default.
	MaxRetries int
	Tracer     *trace.Tracer
}

// Designer is the orchestrating core of the design pipeline.
type Designer struct {
	builder   llm.Builder
	catalog   *catalog.Catalog
	guard     *guard.Guard
	templates map[schema.PatternType]*Template
	tracer    *trace.Tracer
}

// New builds a designer. Templates are loaded once; patterns whose template
// file is missing fall back to hardcoded skeletons where one exists.
func New(builder llm.Builder, cat *catalog.Catalog, opts Options) *Designer {
	return &Designer{
		builder:   builder,
		catalog:   cat,
		guard:     guard.NewGuard(builder, opts.MaxRetries, opts.Tracer),
		templates: loadTemplates(opts.TemplateDir, opts.Tracer),
		tracer:    opts.Tracer,
	}
}

// SelectPattern applies the ordered heuristics: a multi-step execution plan
// wins, then iteration vocabulary, then declared complexity, then the
// sequential default. No model call is involved.
func (d *Designer) SelectPattern(meta schema.ProjectMeta) schema.PatternConfig {
	pattern := schema.PatternSequential
	switch {
	case len(meta.ExecutionPlan) > planStepThreshold:
		pattern = schema.PatternPlanExecute
	case containsIterationVocabulary(meta.Description + " " + meta.UserIntentSummary):
		pattern = schema.PatternReflection
	case meta.ComplexityScore >= complexityThreshold:
		pattern = schema.PatternSupervisor
	}
	d.tracer.Tracef("designer", "selected pattern %s for %q", pattern, meta.AgentName)
	return schema.PatternConfig{
		PatternType:   pattern,
		MaxIterations: schema.DefaultMaxIterations,
		Description:   meta.UserIntentSummary,
	}
}

func containsIterationVocabulary(text string) bool {
	lower := strings.ToLower(text)
	for _, word := range iterationVocabulary {
		if strings.Contains(lower, word) {
			return true
		}
	}
	return false
}

// DeriveStateSchema builds the shared state for a pattern: the two mandatory
// base fields, the pattern-specific fields, and the retrieval fields when
// retrieval augmentation is requested.
func (d *Designer) DeriveStateSchema(meta schema.ProjectMeta, pattern schema.PatternConfig, retrieval *schema.RetrievalConfig) schema.StateSchema {
	fields := []schema.StateField{
		{
			Name:        "messages",
			Type:        schema.FieldMessageList,
			Description: "conversation history",
			Reducer:     "add_messages",
		},
		{
			Name:        "is_finished",
			Type:        schema.FieldBool,
			Description: "completion flag",
			Default:     false,
		},
	}

	switch pattern.PatternType {
	case schema.PatternReflection:
		fields = append(fields,
			schema.StateField{Name: "draft", Type: schema.FieldString, Description: "current draft", Default: ""},
			schema.StateField{Name: "feedback", Type: schema.FieldString, Description: "reviewer feedback", Default: ""},
			schema.StateField{Name: "iteration_count", Type: schema.FieldInt, Description: "iterations spent", Default: 0},
			schema.StateField{Name: "max_iterations", Type: schema.FieldInt, Description: "iteration budget", Default: pattern.MaxIterations},
		)
	case schema.PatternSupervisor:
		fields = append(fields,
			schema.StateField{Name: "next_action", Type: schema.FieldString, Description: "worker chosen by the supervisor", Default: ""},
			schema.StateField{Name: "tool_results", Type: schema.FieldDict, Description: "accumulated worker output", Default: map[string]interface{}{}},
		)
	case schema.PatternPlanExecute:
		fields = append(fields,
			schema.StateField{Name: "plan", Type: schema.FieldStringList, Description: "ordered plan steps", Default: []interface{}{}},
			schema.StateField{Name: "current_step", Type: schema.FieldInt, Description: "index of the step in flight", Default: 0},
			schema.StateField{Name: "execution_results", Type: schema.FieldStringList, Description: "completed step output", Default: []interface{}{}},
			schema.StateField{Name: "need_replan", Type: schema.FieldBool, Description: "replan requested", Default: false},
		)
	}

	if meta.HasRetrieval && retrieval != nil {
		fields = append(fields,
			schema.StateField{Name: "retrieved_docs", Type: schema.FieldStringList, Description: "documents fetched by the retriever", Default: []interface{}{}},
			schema.StateField{Name: "context", Type: schema.FieldString, Description: "assembled retrieval context", Default: ""},
			schema.StateField{Name: "router_decision", Type: schema.FieldOptionalString, Description: "intent router output"},
		)
	}

	return schema.StateSchema{Fields: fields}
}

// AssembleGraph builds the node and edge topology from the pattern template,
// wires retrieval and tools, resolves placeholders, normalizes terminals and
// validates the result. The returned graph is fully self-consistent.
func (d *Designer) AssembleGraph(meta schema.ProjectMeta, pattern schema.PatternConfig, state schema.StateSchema,
	tools schema.ToolsConfig, retrieval *schema.RetrievalConfig) (*schema.GraphStructure, error) {

	tpl, err := d.resolveTemplate(pattern.PatternType)
	if err != nil {
		return nil, err
	}

	graph := &schema.GraphStructure{
		Pattern:     pattern,
		StateSchema: state,
	}
	for _, n := range tpl.DefaultNodes {
		graph.Nodes = append(graph.Nodes, schema.NodeDef{
			ID:              n.ID,
			Type:            schema.NodeType(n.Type),
			RoleDescription: n.RoleDescription,
			Config:          n.Config,
		})
	}
	for _, e := range tpl.DefaultEdges {
		graph.Edges = append(graph.Edges, schema.EdgeDef{Source: e.Source, Target: e.Target})
	}
	for _, c := range tpl.DefaultCondEdges {
		branches := make(map[string]string, len(c.Branches))
		for k, v := range c.Branches {
			branches[k] = v
		}
		graph.ConditionalEdges = append(graph.ConditionalEdges, schema.ConditionalEdgeDef{
			Source:    c.Source,
			Condition: c.Condition,
			Logic:     c.Logic,
			Branches:  branches,
		})
	}

	graph.EntryPoint = tpl.EntryPoint
	if graph.EntryPoint == "" && len(graph.Nodes) > 0 {
		graph.EntryPoint = graph.Nodes[0].ID
	}

	if meta.HasRetrieval && retrieval != nil {
		d.injectRetrieval(graph, retrieval)
	}

	if len(tools.EnabledTools) > 0 {
		d.wireTools(graph, pattern, tools)
	} else {
		stripPlaceholderBranches(graph)
	}

	NormalizeTerminals(graph)

	if issues := graph.Validate(); len(issues) > 0 {
		errs := make([]error, len(issues))
		for i, issue := range issues {
			errs[i] = issue
		}
		return nil, fmt.Errorf("assembled graph is not self-consistent: %w", errors.Join(errs...))
	}
	return graph, nil
}

// injectRetrieval adds the intent router and retriever ahead of the first LLM
// node and makes the router the entry point.
func (d *Designer) injectRetrieval(graph *schema.GraphStructure, retrieval *schema.RetrievalConfig) {
	router := schema.NodeDef{
		ID:   "intent_router",
		Type: schema.NodeLLM,
		RoleDescription: "Classify the user input. Output SEARCH when the user asks a factual " +
			"question or needs documents, CHAT for greetings and small talk. Output only one of the two labels.",
		Config: map[string]interface{}{"is_router": true},
	}
	retriever := schema.NodeDef{
		ID:              "rag_retriever",
		Type:            schema.NodeRetrieval,
		RoleDescription: "Retrieve relevant documents and hand them to the agent",
		Config: map[string]interface{}{
			"splitter":    retrieval.Splitter,
			"chunk_size":  retrieval.ChunkSize,
			"k_retrieval": retrieval.KRetrieval,
		},
	}
	graph.Nodes = append(graph.Nodes, router, retriever)

	agentID := firstLLMNode(graph)
	if agentID == "" {
		d.tracer.Tracef("designer", "retrieval requested but no llm node to route to")
		return
	}
	graph.Edges = append(graph.Edges,
		schema.EdgeDef{Source: "rag_retriever", Target: agentID},
		schema.EdgeDef{Source: agentID, Target: schema.EndNode},
	)
	graph.ConditionalEdges = append(graph.ConditionalEdges, schema.ConditionalEdgeDef{
		Source:    "intent_router",
		Condition: "route_by_intent",
		Logic: &schema.DecisionLogic{
			Kind:     schema.DecisionLLMRouter,
			Field:    "router_decision",
			Fallback: "chat",
		},
		Branches: map[string]string{
			"search": "rag_retriever",
			"chat":   agentID,
		},
	})
	graph.EntryPoint = "intent_router"
	d.tracer.Tracef("designer", "injected retrieval routing ahead of %s", agentID)
}

// wireTools creates one tool node per enabled tool and hooks the pattern's
// routing to it: return edges back to the agent or executor, placeholder
// resolution for sequential graphs, branch extension for supervisor graphs,
// and an injected executor routing edge for plan-execute graphs.
func (d *Designer) wireTools(graph *schema.GraphStructure, pattern schema.PatternConfig, tools schema.ToolsConfig) {
	agentID := firstLLMNode(graph)
	for _, toolID := range tools.EnabledTools {
		node := schema.NodeDef{
			ID:              "tool_" + toolID,
			Type:            schema.NodeTool,
			RoleDescription: fmt.Sprintf("Execute the %s tool", toolID),
			Config:          map[string]interface{}{"tool_id": toolID},
		}
		graph.Nodes = append(graph.Nodes, node)

		switch pattern.PatternType {
		case schema.PatternSequential:
			if agentID != "" {
				graph.Edges = append(graph.Edges, schema.EdgeDef{Source: node.ID, Target: agentID})
			}
		case schema.PatternPlanExecute:
			graph.Edges = append(graph.Edges, schema.EdgeDef{Source: node.ID, Target: "executor"})
		}
	}

	switch pattern.PatternType {
	case schema.PatternSupervisor:
		extendSupervisorBranches(graph, tools)
	case schema.PatternSequential:
		resolveToolsPlaceholder(graph, tools)
	case schema.PatternPlanExecute:
		d.injectExecutorRouting(graph, tools)
	}
}

// resolveToolsPlaceholder replaces the generic tools branch with one branch
// per enabled tool. The branch key is the tool ID the decision returns, the
// target its node. The decision is restated as tool-call routing with the
// literal "end" fallback.
func resolveToolsPlaceholder(graph *schema.GraphStructure, tools schema.ToolsConfig) {
	for i := range graph.ConditionalEdges {
		edge := &graph.ConditionalEdges[i]
		placeholderKey := ""
		for key, target := range edge.Branches {
			if target == toolsPlaceholder {
				placeholderKey = key
				break
			}
		}
		if placeholderKey == "" {
			continue
		}
		delete(edge.Branches, placeholderKey)
		for _, toolID := range tools.EnabledTools {
			edge.Branches[toolID] = "tool_" + toolID
		}
		if edge.Logic == nil || edge.Logic.Kind == "" {
			edge.Logic = &schema.DecisionLogic{
				Kind:     schema.DecisionToolCall,
				Fallback: "end",
			}
		}
		edge.Condition = "route_to_tool"
	}
}

// extendSupervisorBranches adds one branch per tool to the supervisor's
// routing edge.
func extendSupervisorBranches(graph *schema.GraphStructure, tools schema.ToolsConfig) {
	for i := range graph.ConditionalEdges {
		edge := &graph.ConditionalEdges[i]
		if edge.Condition != "route_to_worker" {
			continue
		}
		for _, toolID := range tools.EnabledTools {
			edge.Branches[toolID] = "tool_" + toolID
		}
	}
}

// injectExecutorRouting adds the executor's tool routing edge unless the
// template already ships one. The fallback branch goes to the evaluator node
// when the template declares one, otherwise to the replanner.
func (d *Designer) injectExecutorRouting(graph *schema.GraphStructure, tools schema.ToolsConfig) {
	for _, edge := range graph.ConditionalEdges {
		if edge.Source == "executor" {
			return
		}
	}
	nodeIDs := graph.NodeIDs()
	fallbackTarget := "replanner"
	if nodeIDs["evaluator"] {
		fallbackTarget = "evaluator"
	}
	branches := make(map[string]string, len(tools.EnabledTools)+1)
	for _, toolID := range tools.EnabledTools {
		branches[toolID] = "tool_" + toolID
	}
	branches["evaluate"] = fallbackTarget
	graph.ConditionalEdges = append(graph.ConditionalEdges, schema.ConditionalEdgeDef{
		Source:    "executor",
		Condition: "execute_step",
		Logic: &schema.DecisionLogic{
			Kind:     schema.DecisionToolCall,
			Fallback: "evaluate",
		},
		Branches: branches,
	})
	d.tracer.Tracef("designer", "injected executor tool routing, fallback %s", fallbackTarget)
}

// stripPlaceholderBranches removes branches that still point at the generic
// tools placeholder when no tools are configured.
func stripPlaceholderBranches(graph *schema.GraphStructure) {
	for i := range graph.ConditionalEdges {
		edge := &graph.ConditionalEdges[i]
		for key, target := range edge.Branches {
			if target == toolsPlaceholder {
				delete(edge.Branches, key)
			}
		}
	}
}

func firstLLMNode(graph *schema.GraphStructure) string {
	for _, node := range graph.Nodes {
		if node.Type == schema.NodeLLM {
			return node.ID
		}
	}
	return ""
}

// DesignGraph runs the full pipeline: pattern selection, state derivation,
// assembly, and the tool parameter diagnostic pass. The diagnostics report
// schema problems per tool but never block graph completion.
func (d *Designer) DesignGraph(ctx context.Context, meta schema.ProjectMeta,
	tools schema.ToolsConfig, retrieval *schema.RetrievalConfig) (*schema.GraphStructure, []schema.ToolValidationResult, error) {

	pattern := d.SelectPattern(meta)
	state := d.DeriveStateSchema(meta, pattern, retrieval)
	graph, err := d.AssembleGraph(meta, pattern, state, tools, retrieval)
	if err != nil {
		return nil, nil, err
	}

	var diagnostics []schema.ToolValidationResult
	for _, toolID := range tools.EnabledTools {
		tool, ok := d.catalog.Get(toolID)
		if !ok {
			d.tracer.Tracef("designer", "tool %s not in catalog, skipping diagnostic", toolID)
			continue
		}
		result := d.guard.ValidateSync(tool, sampleArgs(tool))
		diagnostics = append(diagnostics, result)
	}
	return graph, diagnostics, nil
}

// sampleArgs synthesizes representative call arguments for a tool: its first
// documented example when present, otherwise a per-type placeholder for each
// required field.
func sampleArgs(tool schema.ToolDefinition) map[string]interface{} {
	if len(tool.Examples) > 0 {
		return tool.Examples[0]
	}
	args := make(map[string]interface{})
	for _, field := range tool.ArgsSchema.Required {
		prop := tool.ArgsSchema.Properties[field]
		switch prop.Type {
		case "integer":
			args[field] = 1
		case "number":
			args[field] = 1.0
		case "boolean":
			args[field] = true
		case "array":
			args[field] = []interface{}{}
		case "object":
			args[field] = map[string]interface{}{}
		default:
			args[field] = "sample_" + field
		}
	}
	return args
}

// SaveGraph writes the graph as indented JSON.
func SaveGraph(path string, graph *schema.GraphStructure) error {
	data, err := json.MarshalIndent(graph, "", "  ")
	if err != nil {
		return fmt.Errorf("graph encode failed: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("graph write failed: %w", err)
	}
	return nil
}

// LoadGraph reads a persisted graph. Unlike template or catalog loading this
// is a hard failure on malformed input, since the caller supplied the file.
func LoadGraph(path string) (*schema.GraphStructure, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("graph read failed: %w", err)
	}
	var graph schema.GraphStructure
	if err := json.Unmarshal(data, &graph); err != nil {
		return nil, fmt.Errorf("graph decode failed: %w", err)
	}
	return &graph, nil
}
