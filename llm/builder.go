// Package llm defines the construction-time model boundary. The design
// pipeline calls a builder model for tool reranking, argument repair, and
// graph repair; everything behind Builder is opaque to the rest of the
// system, including its failure modes.
package llm

import "context"

// Builder is the narrow request/response contract with the external model:
// prompt in, text out. Implementations own their own timeout policy.
type Builder interface {
	Call(ctx context.Context, prompt string) (string, error)
}

// BuilderFunc adapts a plain function to the Builder interface. Tests use it
// to inject deterministic fakes.
type BuilderFunc func(ctx context.Context, prompt string) (string, error)

// Call implements Builder.
func (f BuilderFunc) Call(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}
