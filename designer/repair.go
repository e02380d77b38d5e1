package designer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/lexcodex/agentforge/llm"
	"github.com/lexcodex/agentforge/schema"
)

// FixGraph asks the model for a replacement graph that resolves the reported
// simulation issues or the free-text feedback. With neither, the input graph
// is returned unchanged and no model call is made. The replacement is
// normalized and validated before it is accepted.
func (d *Designer) FixGraph(ctx context.Context, current *schema.GraphStructure,
	sim *schema.SimulationResult, feedback string) (*schema.GraphStructure, error) {

	hasIssues := sim != nil && len(sim.Issues) > 0
	if !hasIssues && strings.TrimSpace(feedback) == "" {
		d.tracer.Tracef("designer", "repair requested with nothing to fix")
		return current, nil
	}

	graphJSON, err := json.MarshalIndent(current, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("graph encode failed: %w", err)
	}

	var problems []string
	if hasIssues {
		for _, issue := range sim.Issues {
			line := fmt.Sprintf("- [%s/%s] %s", issue.Severity, issue.IssueType, issue.Description)
			if len(issue.AffectedNodes) > 0 {
				line += " (nodes: " + strings.Join(issue.AffectedNodes, ", ") + ")"
			}
			if issue.Suggestion != "" {
				line += " suggestion: " + issue.Suggestion
			}
			problems = append(problems, line)
		}
	}
	if strings.TrimSpace(feedback) != "" {
		problems = append(problems, "- feedback: "+feedback)
	}

	prompt := fmt.Sprintf(`Repair this agent workflow graph.

Current graph:
%s

Problems to fix:
%s

Hard constraints:
1. Every edge target and conditional branch target must be an existing node id or the literal "END". Never use lowercase or underscore-wrapped spellings of the terminal.
2. State field types must be one of: string, int, bool, float, message-list, string-list, dict, optional-string, optional-int, any.
3. Every state field referenced by conditional decision logic must be declared in the state schema.
4. Any loop must be bounded by an iteration counter field in the state schema.
5. Keep the same pattern and entry point unless a problem demands otherwise.

Respond with ONLY the complete corrected graph as a JSON object in the same shape as the input. No markdown fences, no commentary.`,
		graphJSON, strings.Join(problems, "\n"))

	raw, err := d.builder.Call(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("repair call failed: %w", err)
	}
	snippet := llm.ExtractJSON(raw)
	if snippet == "" {
		return nil, fmt.Errorf("repair response contained no JSON object")
	}
	var fixed schema.GraphStructure
	if err := json.Unmarshal([]byte(snippet), &fixed); err != nil {
		return nil, fmt.Errorf("repair response decode failed: %w", err)
	}

	NormalizeTerminals(&fixed)
	if issues := fixed.Validate(); len(issues) > 0 {
		errs := make([]error, len(issues))
		for i, issue := range issues {
			errs[i] = issue
		}
		return nil, fmt.Errorf("repaired graph is not self-consistent: %w", errors.Join(errs...))
	}
	d.tracer.Tracef("designer", "repair accepted with %d nodes", len(fixed.Nodes))
	return &fixed, nil
}
