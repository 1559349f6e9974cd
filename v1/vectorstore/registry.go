package vectorstore

import (
	"fmt"
	"sync"

	"github.com/ragstack/core/v1/codec"
	"github.com/ragstack/core/v1/models"
	"github.com/ragstack/core/v1/vespa"
)

// Logger defines the interface for logging operations within the vectorstore package.
type Logger interface {
	Info(msg string, err error, fields ...map[string]interface{})
	Debug(msg string, err error, fields ...map[string]interface{})
	Warn(msg string, err error, fields ...map[string]interface{})
	Error(msg string, err error, fields ...map[string]interface{})
	Fatal(msg string, err error, fields ...map[string]interface{})
}

// Registry caches per-project stores. Stores are cheap, but caching keeps
// one instance per project so callers can treat lookups as free.
type Registry struct {
	cfg            Config
	documentClient *vespa.Client
	imageClient    *vespa.Client
	packer         *codec.BitPacker
	logger         Logger

	mu             sync.RWMutex
	documentStores map[string]*DocumentStore
	imageStores    map[string]*ImageStore
}

// NewRegistry builds a Registry over the two shared engine clients, one per
// document type.
func NewRegistry(cfg Config, documentClient, imageClient *vespa.Client, logger Logger) (*Registry, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	packer, err := codec.NewBitPacker(cfg.ImageDim)
	if err != nil {
		return nil, fmt.Errorf("vectorstore: %w", err)
	}

	return &Registry{
		cfg:            cfg,
		documentClient: documentClient,
		imageClient:    imageClient,
		packer:         packer,
		logger:         logger,
		documentStores: make(map[string]*DocumentStore),
		imageStores:    make(map[string]*ImageStore),
	}, nil
}

// DocumentStore returns the document store scoped to the given project.
func (r *Registry) DocumentStore(project *models.Project) *DocumentStore {
	r.mu.RLock()
	store, ok := r.documentStores[project.ID]
	r.mu.RUnlock()
	if ok {
		return store
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if store, ok := r.documentStores[project.ID]; ok {
		return store
	}

	store = &DocumentStore{
		projectID: project.ID,
		client:    r.documentClient,
		dim:       r.cfg.DocumentDim,
	}
	r.documentStores[project.ID] = store
	r.logger.Debug("created document store", nil, map[string]interface{}{"project_id": project.ID})
	return store
}

// ImageStore returns the image store scoped to the given project.
func (r *Registry) ImageStore(project *models.Project) *ImageStore {
	r.mu.RLock()
	store, ok := r.imageStores[project.ID]
	r.mu.RUnlock()
	if ok {
		return store
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if store, ok := r.imageStores[project.ID]; ok {
		return store
	}

	store = &ImageStore{
		projectID: project.ID,
		client:    r.imageClient,
		packer:    r.packer,
	}
	r.imageStores[project.ID] = store
	r.logger.Debug("created image store", nil, map[string]interface{}{"project_id": project.ID})
	return store
}

// Forget drops the cached stores of one project, e.g. after it is deleted.
func (r *Registry) Forget(projectID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.documentStores, projectID)
	delete(r.imageStores, projectID)
}
