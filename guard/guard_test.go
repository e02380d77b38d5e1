package guard

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lexcodex/agentforge/schema"
)

func queryTool() schema.ToolDefinition {
	return schema.ToolDefinition{
		ID:   "search",
		Name: "search",
		ArgsSchema: schema.ParameterSchema{
			Type: "object",
			Properties: map[string]schema.PropertySchema{
				"query": {Type: "string"},
			},
			Required: []string{"query"},
		},
	}
}

// fakeProvider returns queued corrections, tracking how often it was asked.
type fakeProvider struct {
	corrections []map[string]interface{}
	errs        []error
	calls       int
}

func (p *fakeProvider) Correct(ctx context.Context, toolName string, args map[string]interface{},
	params schema.ParameterSchema, errs []schema.ToolValidationError) (map[string]interface{}, error) {
	i := p.calls
	p.calls++
	var fixed map[string]interface{}
	var err error
	if i < len(p.corrections) {
		fixed = p.corrections[i]
	}
	if i < len(p.errs) {
		err = p.errs[i]
	}
	return fixed, err
}

func TestValidateArgsRoundTrip(t *testing.T) {
	tool := queryTool()
	assert.Empty(t, ValidateArgs(tool.Name, map[string]interface{}{"query": "x"}, tool.ArgsSchema))

	errs := ValidateArgs(tool.Name, map[string]interface{}{}, tool.ArgsSchema)
	require.Len(t, errs, 1)
	assert.Equal(t, schema.ErrMissingField, errs[0].ErrorType)
	assert.Equal(t, "query", errs[0].FieldName)
}

func TestValidateArgsTypeChecks(t *testing.T) {
	params := schema.ParameterSchema{
		Type: "object",
		Properties: map[string]schema.PropertySchema{
			"count":   {Type: "integer"},
			"ratio":   {Type: "number"},
			"enabled": {Type: "boolean"},
			"items":   {Type: "array"},
			"options": {Type: "object"},
			"label":   {Type: "mystery"},
		},
	}
	// JSON decoding hands numbers over as float64.
	args := map[string]interface{}{
		"count":   float64(3),
		"ratio":   1.5,
		"enabled": true,
		"items":   []interface{}{},
		"options": map[string]interface{}{},
		"label":   "plain",
	}
	assert.Empty(t, ValidateArgs("t", args, params))

	errs := ValidateArgs("t", map[string]interface{}{"count": 1.5}, params)
	require.Len(t, errs, 1)
	assert.Equal(t, schema.ErrWrongType, errs[0].ErrorType)
	assert.Equal(t, "count", errs[0].FieldName)
}

func TestValidateAndFixImmediateSuccess(t *testing.T) {
	provider := &fakeProvider{}
	g := NewGuardWithProvider(provider, 3, nil)
	result := g.ValidateAndFix(context.Background(), queryTool(), map[string]interface{}{"query": "x"})
	assert.True(t, result.IsValid)
	assert.Equal(t, 0, result.RetryCount)
	assert.Empty(t, result.Errors)
	assert.Equal(t, 0, provider.calls)
}

func TestValidateAndFixRepairsOnce(t *testing.T) {
	provider := &fakeProvider{
		corrections: []map[string]interface{}{{"query": "fixed"}},
	}
	g := NewGuardWithProvider(provider, 3, nil)
	result := g.ValidateAndFix(context.Background(), queryTool(), map[string]interface{}{})
	assert.True(t, result.IsValid)
	assert.Equal(t, 1, result.RetryCount)
	assert.Equal(t, "fixed", result.CorrectedArgs["query"])
	assert.Equal(t, map[string]interface{}{}, result.OriginalArgs)
	assert.Len(t, result.Errors, 1)
}

func TestValidateAndFixExhaustsRetries(t *testing.T) {
	provider := &fakeProvider{
		corrections: []map[string]interface{}{{"bogus": 1}, {"bogus": 2}},
	}
	g := NewGuardWithProvider(provider, 2, nil)
	result := g.ValidateAndFix(context.Background(), queryTool(), map[string]interface{}{})
	assert.False(t, result.IsValid)
	assert.Equal(t, 2, result.RetryCount)
	assert.Equal(t, 2, provider.calls)
	// Errors accumulate across the initial pass and every failed attempt.
	assert.Len(t, result.Errors, 3)
}

func TestValidateAndFixUnparseableCorrectionKeepsArgs(t *testing.T) {
	provider := &fakeProvider{
		errs:        []error{errors.New("no json in response"), nil},
		corrections: []map[string]interface{}{nil, {"query": "recovered"}},
	}
	g := NewGuardWithProvider(provider, 3, nil)
	result := g.ValidateAndFix(context.Background(), queryTool(), map[string]interface{}{})
	assert.True(t, result.IsValid)
	assert.Equal(t, 2, result.RetryCount)
	assert.Equal(t, "recovered", result.CorrectedArgs["query"])
}

func TestValidateSyncNoRepair(t *testing.T) {
	provider := &fakeProvider{corrections: []map[string]interface{}{{"query": "fixed"}}}
	g := NewGuardWithProvider(provider, 3, nil)
	result := g.ValidateSync(queryTool(), map[string]interface{}{})
	assert.False(t, result.IsValid)
	assert.Equal(t, 0, result.RetryCount)
	assert.Equal(t, 0, provider.calls)
}
