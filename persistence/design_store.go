// Package persistence stores finished design artifacts as flat JSON files so
// a compiler run can pick them up later.
package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/lexcodex/agentforge/schema"
)

// DesignArtifact is the durable compiler handoff: the validated graph plus
// the enabled tools and optional retrieval settings.
type DesignArtifact struct {
	ID        string                  `json:"id"`
	Graph     *schema.GraphStructure  `json:"graph"`
	Tools     schema.ToolsConfig      `json:"tools"`
	Retrieval *schema.RetrievalConfig `json:"retrieval,omitempty"`
	UpdatedAt time.Time               `json:"updated_at"`
}

// DesignStore persists artifacts between runs.
type DesignStore interface {
	Save(ctx context.Context, artifact *DesignArtifact) error
	Load(ctx context.Context, id string) (*DesignArtifact, bool, error)
	List(ctx context.Context) ([]DesignArtifact, error)
	Delete(ctx context.Context, id string) error
}

// FileDesignStore stores artifacts as JSON on disk with an in-memory cache.
type FileDesignStore struct {
	path  string
	mu    sync.RWMutex
	cache map[string]DesignArtifact
}

// NewFileDesignStore creates a store under the provided directory.
func NewFileDesignStore(root string) (*FileDesignStore, error) {
	if root == "" {
		return nil, errors.New("design store root required")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, err
	}
	store := &FileDesignStore{
		path:  filepath.Join(root, "designs.json"),
		cache: make(map[string]DesignArtifact),
	}
	if err := store.load(); err != nil {
		return nil, err
	}
	return store, nil
}

// load hydrates the in-memory cache from disk when the process starts so
// designs survive restarts.
func (s *FileDesignStore) load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	var artifacts []DesignArtifact
	if err := json.Unmarshal(data, &artifacts); err != nil {
		return err
	}
	for _, artifact := range artifacts {
		s.cache[artifact.ID] = artifact
	}
	return nil
}

// persist writes the cached artifacts back to disk after any mutation.
func (s *FileDesignStore) persist() error {
	artifacts := make([]DesignArtifact, 0, len(s.cache))
	for _, artifact := range s.cache {
		artifacts = append(artifacts, artifact)
	}
	sort.Slice(artifacts, func(i, j int) bool {
		return artifacts[i].ID < artifacts[j].ID
	})
	data, err := json.MarshalIndent(artifacts, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0o644)
}

// Save writes an artifact to disk.
func (s *FileDesignStore) Save(ctx context.Context, artifact *DesignArtifact) error {
	if artifact == nil {
		return errors.New("nil artifact")
	}
	if artifact.ID == "" {
		return errors.New("artifact id required")
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	artifact.UpdatedAt = time.Now().UTC()
	s.cache[artifact.ID] = *artifact
	return s.persist()
}

// Load retrieves an artifact by ID.
func (s *FileDesignStore) Load(ctx context.Context, id string) (*DesignArtifact, bool, error) {
	select {
	case <-ctx.Done():
		return nil, false, ctx.Err()
	default:
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	artifact, ok := s.cache[id]
	if !ok {
		return nil, false, nil
	}
	return &artifact, true, nil
}

// List returns all artifacts sorted by ID.
func (s *FileDesignStore) List(ctx context.Context) ([]DesignArtifact, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]DesignArtifact, 0, len(s.cache))
	for _, artifact := range s.cache {
		result = append(result, artifact)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})
	return result, nil
}

// Delete removes an artifact.
func (s *FileDesignStore) Delete(ctx context.Context, id string) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.cache, id)
	return s.persist()
}
