package designer

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/lexcodex/agentforge/schema"
	"github.com/lexcodex/agentforge/trace"
)

// Template is one pattern's default topology, loaded from YAML. A missing
// template file is treated as an empty template, which triggers the hardcoded
// fallback for the patterns that have one.
type Template struct {
	Description      string                    `yaml:"description"`
	DefaultNodes     []TemplateNode            `yaml:"default_nodes"`
	DefaultEdges     []TemplateEdge            `yaml:"default_edges"`
	DefaultCondEdges []TemplateConditionalEdge `yaml:"default_conditional_edges"`
	EntryPoint       string                    `yaml:"entry_point"`
}

// TemplateNode mirrors NodeDef in template form.
type TemplateNode struct {
	ID              string                 `yaml:"id"`
	Type            string                 `yaml:"type"`
	RoleDescription string                 `yaml:"role_description"`
	Config          map[string]interface{} `yaml:"config"`
}

// TemplateEdge mirrors EdgeDef in template form.
type TemplateEdge struct {
	Source string `yaml:"source"`
	Target string `yaml:"target"`
}

// TemplateConditionalEdge mirrors ConditionalEdgeDef in template form.
type TemplateConditionalEdge struct {
	Source    string                `yaml:"source"`
	Condition string                `yaml:"condition"`
	Logic     *schema.DecisionLogic `yaml:"condition_logic"`
	Branches  map[string]string     `yaml:"branches"`
}

var patternFiles = map[schema.PatternType]string{
	schema.PatternSequential:  "sequential.yaml",
	schema.PatternReflection:  "reflection.yaml",
	schema.PatternSupervisor:  "supervisor.yaml",
	schema.PatternPlanExecute: "plan_execute.yaml",
}

// loadTemplates reads every known pattern template under dir. A missing or
// unparseable file leaves that pattern without a template; only a present but
// malformed file is reported through the tracer.
func loadTemplates(dir string, tracer *trace.Tracer) map[schema.PatternType]*Template {
	templates := make(map[schema.PatternType]*Template, len(patternFiles))
	for pattern, file := range patternFiles {
		path := filepath.Join(dir, file)
		data, err := os.ReadFile(path)
		if err != nil {
			tracer.Tracef("designer", "template %s unavailable: %v", path, err)
			continue
		}
		var tpl Template
		if err := yaml.Unmarshal(data, &tpl); err != nil {
			tracer.Tracef("designer", "template %s unparseable: %v", path, err)
			continue
		}
		templates[pattern] = &tpl
	}
	return templates
}

// sequentialFallback is the minimal Sequential skeleton used when no template
// provides nodes or conditional edges: a single agent with a routing edge
// toward a tool placeholder or the terminal.
func sequentialFallback() *Template {
	return &Template{
		Description: "single agent with tool routing",
		DefaultNodes: []TemplateNode{
			{ID: "agent", Type: string(schema.NodeLLM), RoleDescription: "Primary agent"},
		},
		DefaultCondEdges: []TemplateConditionalEdge{
			{
				Source:    "agent",
				Condition: "should_continue",
				Logic: &schema.DecisionLogic{
					Kind:     schema.DecisionToolCall,
					Fallback: "end",
				},
				Branches: map[string]string{
					"continue": toolsPlaceholder,
					"end":      schema.EndNode,
				},
			},
		},
	}
}

// planExecuteFallback is the minimal Plan-Execute skeleton: a planner,
// executor and replanner chain with a replan loop bounded by the completion
// flag.
func planExecuteFallback() *Template {
	return &Template{
		Description: "planner, executor and replanner loop",
		DefaultNodes: []TemplateNode{
			{ID: "planner", Type: string(schema.NodeLLM), RoleDescription: "Planner"},
			{ID: "executor", Type: string(schema.NodeLLM), RoleDescription: "Executor"},
			{ID: "replanner", Type: string(schema.NodeLLM), RoleDescription: "Replanner"},
		},
		DefaultEdges: []TemplateEdge{
			{Source: "planner", Target: "executor"},
			{Source: "executor", Target: "replanner"},
		},
		DefaultCondEdges: []TemplateConditionalEdge{
			{
				Source:    "replanner",
				Condition: "should_end_or_replan",
				Logic: &schema.DecisionLogic{
					Kind:     schema.DecisionStateFlag,
					Field:    "is_finished",
					Fallback: "continue",
				},
				Branches: map[string]string{
					"end":      schema.EndNode,
					"continue": "executor",
				},
			},
		},
	}
}

// resolveTemplate picks the loaded template for a pattern, filling in nodes
// and conditional edges from the hardcoded fallbacks when the template is
// absent or empty. Patterns without a fallback yield whatever the template
// holds, possibly nothing.
func (d *Designer) resolveTemplate(pattern schema.PatternType) (*Template, error) {
	tpl := d.templates[pattern]
	if tpl == nil {
		tpl = &Template{}
	}

	var fallback *Template
	switch pattern {
	case schema.PatternSequential:
		fallback = sequentialFallback()
	case schema.PatternPlanExecute:
		fallback = planExecuteFallback()
	}
	if fallback != nil {
		if len(tpl.DefaultNodes) == 0 {
			d.tracer.Tracef("designer", "using fallback nodes for %s", pattern)
			tpl.DefaultNodes = fallback.DefaultNodes
			if len(tpl.DefaultEdges) == 0 {
				tpl.DefaultEdges = fallback.DefaultEdges
			}
		}
		if len(tpl.DefaultCondEdges) == 0 {
			d.tracer.Tracef("designer", "using fallback conditional edges for %s", pattern)
			tpl.DefaultCondEdges = fallback.DefaultCondEdges
		}
	}
	if len(tpl.DefaultNodes) == 0 {
		return nil, fmt.Errorf("pattern %s has no template nodes and no fallback", pattern)
	}
	return tpl, nil
}
