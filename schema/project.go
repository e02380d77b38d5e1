package schema

// TaskType classifies the kind of agent a project asks for.
type TaskType string

const (
	TaskChat      TaskType = "chat"
	TaskSearch    TaskType = "search"
	TaskAnalysis  TaskType = "analysis"
	TaskRetrieval TaskType = "retrieval"
	TaskCustom    TaskType = "custom"
)

// ExecutionStep is one step of a hierarchical task breakdown.
type ExecutionStep struct {
	Step           int    `json:"step"`
	Role           string `json:"role,omitempty"`
	Goal           string `json:"goal"`
	ExpectedOutput string `json:"expected_output,omitempty"`
}

// ProjectMeta describes the agent the user asked for. It is the input contract
// of the whole design pipeline.
type ProjectMeta struct {
	AgentName         string          `json:"agent_name"`
	Description       string          `json:"description"`
	UserIntentSummary string          `json:"user_intent_summary"`
	TaskType          TaskType        `json:"task_type,omitempty"`
	Language          string          `json:"language,omitempty"`
	HasRetrieval      bool            `json:"has_retrieval,omitempty"`
	ComplexityScore   int             `json:"complexity_score,omitempty"`
	ExecutionPlan     []ExecutionStep `json:"execution_plan,omitempty"`
}

// ToolsConfig lists the tool IDs enabled for a designed agent. Part of the
// compiler handoff.
type ToolsConfig struct {
	EnabledTools []string `json:"enabled_tools"`
}

// RetrievalConfig carries the retrieval-augmentation settings the designer
// consumes when wiring the router and retriever nodes.
type RetrievalConfig struct {
	Splitter          string `json:"splitter,omitempty"`
	ChunkSize         int    `json:"chunk_size,omitempty"`
	ChunkOverlap      int    `json:"chunk_overlap,omitempty"`
	KRetrieval        int    `json:"k_retrieval,omitempty"`
	EmbeddingProvider string `json:"embedding_provider,omitempty"`
	EmbeddingModel    string `json:"embedding_model,omitempty"`
	CollectionName    string `json:"collection_name,omitempty"`
}
