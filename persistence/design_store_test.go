package persistence

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lexcodex/agentforge/schema"
)

func sampleArtifact(id string) *DesignArtifact {
	return &DesignArtifact{
		ID: id,
		Graph: &schema.GraphStructure{
			Pattern:    schema.PatternConfig{PatternType: schema.PatternSequential, MaxIterations: 3},
			Nodes:      []schema.NodeDef{{ID: "agent", Type: schema.NodeLLM}},
			EntryPoint: "agent",
		},
		Tools: schema.ToolsConfig{EnabledTools: []string{"tavily_search"}},
	}
}

func TestDesignStoreRoundTrip(t *testing.T) {
	store, err := NewFileDesignStore(t.TempDir())
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, store.Save(ctx, sampleArtifact("researcher")))

	loaded, ok, err := store.Load(ctx, "researcher")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "agent", loaded.Graph.EntryPoint)
	assert.Equal(t, []string{"tavily_search"}, loaded.Tools.EnabledTools)
	assert.False(t, loaded.UpdatedAt.IsZero())
}

func TestDesignStoreSurvivesRestart(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	store, err := NewFileDesignStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.Save(ctx, sampleArtifact("a")))
	require.NoError(t, store.Save(ctx, sampleArtifact("b")))

	reopened, err := NewFileDesignStore(dir)
	require.NoError(t, err)
	artifacts, err := reopened.List(ctx)
	require.NoError(t, err)
	require.Len(t, artifacts, 2)
	assert.Equal(t, "a", artifacts[0].ID)
	assert.Equal(t, "b", artifacts[1].ID)
}

func TestDesignStoreLoadMiss(t *testing.T) {
	store, err := NewFileDesignStore(t.TempDir())
	require.NoError(t, err)
	_, ok, err := store.Load(context.Background(), "ghost")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDesignStoreDelete(t *testing.T) {
	store, err := NewFileDesignStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, sampleArtifact("gone")))
	require.NoError(t, store.Delete(ctx, "gone"))
	_, ok, err := store.Load(ctx, "gone")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDesignStoreRejectsEmptyID(t *testing.T) {
	store, err := NewFileDesignStore(t.TempDir())
	require.NoError(t, err)
	assert.Error(t, store.Save(context.Background(), &DesignArtifact{}))
	assert.Error(t, store.Save(context.Background(), nil))
}

func TestDesignStoreHonorsCancellation(t *testing.T) {
	store, err := NewFileDesignStore(t.TempDir())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, store.Save(ctx, sampleArtifact("x")), context.Canceled)
	_, _, err = store.Load(ctx, "x")
	assert.ErrorIs(t, err, context.Canceled)
}
