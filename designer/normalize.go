package designer

import "github.com/lexcodex/agentforge/schema"

// terminalAliases maps every spelling of the terminal marker seen in template
// files and model output to the canonical one. Branch keys are labels, not
// targets, so they are left alone.
var terminalAliases = map[string]bool{
	"__end__": true,
	"end":     true,
	"__END__": true,
	"_end_":   true,
	"End":     true,
	"__end":   true,
	"end__":   true,
}

// NormalizeTerminals rewrites terminal aliases in edge targets and conditional
// branch targets to the canonical marker. It mutates g in place and is
// idempotent.
func NormalizeTerminals(g *schema.GraphStructure) {
	for i := range g.Edges {
		if terminalAliases[g.Edges[i].Target] {
			g.Edges[i].Target = schema.EndNode
		}
	}
	for i := range g.ConditionalEdges {
		for key, target := range g.ConditionalEdges[i].Branches {
			if terminalAliases[target] {
				g.ConditionalEdges[i].Branches[key] = schema.EndNode
			}
		}
	}
}
