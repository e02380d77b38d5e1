package schema

// IssueType classifies a structural problem detected by simulating a graph.
type IssueType string

const (
	IssueInfiniteLoop    IssueType = "infinite_loop"
	IssueUnreachableNode IssueType = "unreachable_node"
	IssueMissingEdge     IssueType = "missing_edge"
	IssueInvalidCond     IssueType = "invalid_condition"
	IssueStaleState      IssueType = "state_not_updated"
)

// IssueSeverity grades a simulation issue.
type IssueSeverity string

const (
	SeverityError   IssueSeverity = "error"
	SeverityWarning IssueSeverity = "warning"
)

// SimulationIssue is one problem a simulator found in a designed graph. The
// repair path consumes these to build its instruction.
type SimulationIssue struct {
	IssueType     IssueType     `json:"issue_type"`
	Severity      IssueSeverity `json:"severity"`
	Description   string        `json:"description"`
	AffectedNodes []string      `json:"affected_nodes,omitempty"`
	Suggestion    string        `json:"suggestion,omitempty"`
}

// SimulationResult aggregates a simulation run.
type SimulationResult struct {
	Success    bool              `json:"success"`
	TotalSteps int               `json:"total_steps"`
	Issues     []SimulationIssue `json:"issues,omitempty"`
	Trace      string            `json:"execution_trace,omitempty"`
}

// HasErrors reports whether any issue is error severity.
func (r *SimulationResult) HasErrors() bool {
	for _, issue := range r.Issues {
		if issue.Severity == SeverityError {
			return true
		}
	}
	return false
}
