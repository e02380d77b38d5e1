package guard

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/lexcodex/agentforge/llm"
	"github.com/lexcodex/agentforge/schema"
	"github.com/lexcodex/agentforge/trace"
)

// DefaultMaxRetries bounds the correction loop when no override is given.
const DefaultMaxRetries = 3

// CorrectionProvider proposes fixed arguments for a failed validation.
// Implementations may call a model or apply deterministic rules.
type CorrectionProvider interface {
	Correct(ctx context.Context, toolName string, args map[string]interface{},
		params schema.ParameterSchema, errs []schema.ToolValidationError) (map[string]interface{}, error)
}

// Guard validates tool arguments and repairs failures via its provider.
type Guard struct {
	provider   CorrectionProvider
	maxRetries int
	tracer     *trace.Tracer
}

// NewGuard builds a guard whose corrections come from a model builder.
func NewGuard(builder llm.Builder, maxRetries int, tracer *trace.Tracer) *Guard {
	return NewGuardWithProvider(&BuilderCorrector{Builder: builder}, maxRetries, tracer)
}

// NewGuardWithProvider builds a guard around an explicit provider.
func NewGuardWithProvider(provider CorrectionProvider, maxRetries int, tracer *trace.Tracer) *Guard {
	if maxRetries <= 0 {
		maxRetries = DefaultMaxRetries
	}
	return &Guard{provider: provider, maxRetries: maxRetries, tracer: tracer}
}

// ValidateAndFix validates args and, on failure, asks the provider for
// corrected arguments up to the retry budget. The result carries the original
// args, the last accepted or attempted correction, every error accumulated
// across attempts, and the number of correction rounds spent.
func (g *Guard) ValidateAndFix(ctx context.Context, tool schema.ToolDefinition, args map[string]interface{}) schema.ToolValidationResult {
	result := schema.ToolValidationResult{
		ToolName:     tool.Name,
		OriginalArgs: args,
	}

	errs := ValidateArgs(tool.Name, args, tool.ArgsSchema)
	if len(errs) == 0 {
		result.IsValid = true
		result.CorrectedArgs = args
		return result
	}
	result.Errors = append(result.Errors, errs...)
	g.tracer.Tracef("guard", "%s failed validation with %d errors", tool.Name, len(errs))

	current := args
	for attempt := 1; attempt <= g.maxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			result.RetryCount = attempt - 1
			result.CorrectedArgs = current
			return result
		}
		fixed, err := g.provider.Correct(ctx, tool.Name, current, tool.ArgsSchema, errs)
		if err != nil || fixed == nil {
			g.tracer.Tracef("guard", "%s correction attempt %d unusable: %v", tool.Name, attempt, err)
			fixed = current
		}
		current = fixed

		errs = ValidateArgs(tool.Name, current, tool.ArgsSchema)
		if len(errs) == 0 {
			result.IsValid = true
			result.CorrectedArgs = current
			result.RetryCount = attempt
			g.tracer.Tracef("guard", "%s repaired after %d attempts", tool.Name, attempt)
			return result
		}
		result.Errors = append(result.Errors, errs...)
	}

	result.CorrectedArgs = current
	result.RetryCount = g.maxRetries
	return result
}

// ValidateSync validates without any correction pass.
func (g *Guard) ValidateSync(tool schema.ToolDefinition, args map[string]interface{}) schema.ToolValidationResult {
	errs := ValidateArgs(tool.Name, args, tool.ArgsSchema)
	return schema.ToolValidationResult{
		IsValid:       len(errs) == 0,
		ToolName:      tool.Name,
		OriginalArgs:  args,
		CorrectedArgs: args,
		Errors:        errs,
	}
}

// BuilderCorrector implements CorrectionProvider on an llm.Builder.
type BuilderCorrector struct {
	Builder llm.Builder
}

// Correct prompts the model with the schema and the validation errors and
// expects a bare JSON object of corrected arguments back.
func (b *BuilderCorrector) Correct(ctx context.Context, toolName string, args map[string]interface{},
	params schema.ParameterSchema, errs []schema.ToolValidationError) (map[string]interface{}, error) {

	schemaJSON, err := json.MarshalIndent(params, "", "  ")
	if err != nil {
		return nil, err
	}
	argsJSON, err := json.Marshal(args)
	if err != nil {
		return nil, err
	}
	var lines []string
	for _, e := range errs {
		lines = append(lines, "- "+e.Message)
	}

	prompt := fmt.Sprintf(`Fix the arguments for the tool %q so they satisfy its parameter schema.

Parameter schema:
%s

Current arguments:
%s

Validation errors:
%s

Respond with ONLY the corrected arguments as a JSON object. Do not wrap the
object in markdown fences and do not add commentary.`,
		toolName, schemaJSON, argsJSON, strings.Join(lines, "\n"))

	raw, err := b.Builder.Call(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("correction call failed: %w", err)
	}
	snippet := llm.ExtractJSON(raw)
	if snippet == "" {
		return nil, fmt.Errorf("correction response contained no JSON object")
	}
	var fixed map[string]interface{}
	if err := json.Unmarshal([]byte(snippet), &fixed); err != nil {
		return nil, fmt.Errorf("correction response decode failed: %w", err)
	}
	return fixed, nil
}
