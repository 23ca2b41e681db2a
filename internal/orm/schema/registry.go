// Package schema provides a registry for managing collections and their relations
package schema

import (
	"sync"

	"go.uber.org/zap"
)

// RelationRegistrar records relations declared by collections
type RelationRegistrar interface {
	RegisterRelation(collection, field, relatedCollection string) *Relation
}

// Relation is a directed reference from a collection field to another collection.
// An empty RelatedCollection marks a relation left unresolved for the consumer.
type Relation struct {
	Collection        string
	Field             string
	RelatedCollection string
	OnDelete          OnDeleteAction
}

// SetOnDelete sets the delete policy
func (r *Relation) SetOnDelete(action OnDeleteAction) *Relation {
	r.OnDelete = action
	return r
}

// RelationSchema holds the storage side of a relation
type RelationSchema struct {
	OnDelete Optional[OnDeleteAction] `json:"on_delete,omitzero"`
}

// RelationOutput is the canonical descriptor of a relation
type RelationOutput struct {
	Collection        string           `json:"collection"`
	Field             string           `json:"field"`
	RelatedCollection Optional[string] `json:"related_collection"`
	Schema            RelationSchema   `json:"schema"`
}

// Render produces the descriptor of the relation
func (r *Relation) Render() RelationOutput {
	out := RelationOutput{
		Collection:        r.Collection,
		Field:             r.Field,
		RelatedCollection: Null[string](),
	}
	if r.RelatedCollection != "" {
		out.RelatedCollection = Some(r.RelatedCollection)
	}
	if r.OnDelete != "" {
		out.Schema.OnDelete = Some(r.OnDelete)
	}
	return out
}

// detachedRegistrar hands out relations that are not recorded anywhere
type detachedRegistrar struct{}

func (detachedRegistrar) RegisterRelation(collection, field, relatedCollection string) *Relation {
	return &Relation{Collection: collection, Field: field, RelatedCollection: relatedCollection}
}

// Snapshot is the rendered state of a whole registry
type Snapshot struct {
	Collections []CollectionOutput `json:"collections"`
	Relations   []RelationOutput   `json:"relations"`
}

// Registry owns the collections of one schema build and the log of relations
// they declare. Relations are appended in registration order without deduplication.
type Registry struct {
	collections map[string]*Collection
	order       []string
	relations   []*Relation
	logger      *zap.Logger
	mu          sync.RWMutex
}

// RegistryOption configures a Registry
type RegistryOption func(*Registry)

// WithLogger sets the logger used for registry events
func WithLogger(logger *zap.Logger) RegistryOption {
	return func(r *Registry) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewRegistry creates a new collection registry
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{
		collections: make(map[string]*Collection),
		order:       make([]string, 0),
		relations:   make([]*Relation, 0),
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Collection returns the collection with the given name, creating it on first use.
// Options only apply when the collection is created.
func (r *Registry) Collection(name string, opts ...CollectionOption) *Collection {
	r.mu.RLock()
	c, exists := r.collections[name]
	r.mu.RUnlock()
	if exists {
		return c
	}

	r.mu.Lock()
	if existing, ok := r.collections[name]; ok {
		r.mu.Unlock()
		return existing
	}
	c = NewCollection(name, r)
	r.collections[name] = c
	r.order = append(r.order, name)
	r.mu.Unlock()

	r.logger.Debug("collection created", zap.String("collection", name))

	// Options may declare fields that register relations, so they run after the
	// lock is released and only for the caller that created the collection
	c.apply(opts)
	return c
}

// RegisterRelation appends a relation to the log
func (r *Registry) RegisterRelation(collection, field, relatedCollection string) *Relation {
	rel := &Relation{
		Collection:        collection,
		Field:             field,
		RelatedCollection: relatedCollection,
	}

	r.mu.Lock()
	r.relations = append(r.relations, rel)
	r.mu.Unlock()

	r.logger.Debug("relation registered",
		zap.String("collection", collection),
		zap.String("field", field),
		zap.String("related_collection", relatedCollection))
	return rel
}

// Get retrieves a collection by name
func (r *Registry) Get(name string) (*Collection, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, exists := r.collections[name]
	return c, exists
}

// Exists checks if a collection exists
func (r *Registry) Exists(name string) bool {
	_, exists := r.Get(name)
	return exists
}

// List returns collection names in creation order
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, len(r.order))
	copy(names, r.order)
	return names
}

// All returns the collections in creation order
func (r *Registry) All() []*Collection {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.allLocked()
}

func (r *Registry) allLocked() []*Collection {
	result := make([]*Collection, 0, len(r.order))
	for _, name := range r.order {
		result = append(result, r.collections[name])
	}
	return result
}

// Relations returns the relation log in registration order
func (r *Registry) Relations() []*Relation {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*Relation, len(r.relations))
	copy(result, r.relations)
	return result
}

// RelationsFor returns the relations declared by one collection
func (r *Registry) RelationsFor(collection string) []*Relation {
	var result []*Relation
	for _, rel := range r.Relations() {
		if rel.Collection == collection {
			result = append(result, rel)
		}
	}
	return result
}

// Count returns the number of collections
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.collections)
}

// Clear removes all collections and relations (useful for testing)
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.collections = make(map[string]*Collection)
	r.order = make([]string, 0)
	r.relations = make([]*Relation, 0)
}

// Snapshot renders every collection and relation
func (r *Registry) Snapshot() *Snapshot {
	collections := r.All()
	relations := r.Relations()

	snap := &Snapshot{
		Collections: make([]CollectionOutput, 0, len(collections)),
		Relations:   make([]RelationOutput, 0, len(relations)),
	}
	for _, c := range collections {
		snap.Collections = append(snap.Collections, c.Render())
	}
	for _, rel := range relations {
		snap.Relations = append(snap.Relations, rel.Render())
	}
	return snap
}

// Validate runs consistency checks over all collections and relations.
// It never changes rendered output.
func (r *Registry) Validate() error {
	v := NewSchemaValidator()
	return v.Validate(r.All(), r.Relations())
}

// DependencyOrder returns collection names with related collections first
func (r *Registry) DependencyOrder() ([]string, error) {
	graph := NewRelationGraph(r.List(), r.Relations())
	return graph.TopologicalSort()
}

// DetectCycles returns the relation cycles between collections
func (r *Registry) DetectCycles() [][]string {
	graph := NewRelationGraph(r.List(), r.Relations())
	return graph.DetectCycles()
}

// RegistryStats summarizes the registry contents
type RegistryStats struct {
	TotalCollections     int
	TotalFields          int
	TotalRelations       int
	UnresolvedRelations  int
	SystemRelations      int
	Singletons           int
	CircularDependencies bool
}

// GetStats returns statistics about the registry
func (r *Registry) GetStats() *RegistryStats {
	collections := r.All()
	relations := r.Relations()

	stats := &RegistryStats{
		TotalCollections: len(collections),
		TotalRelations:   len(relations),
	}
	for _, c := range collections {
		stats.TotalFields += len(c.fields)
		if singleton, ok := c.meta.Singleton.Get(); ok && singleton {
			stats.Singletons++
		}
	}
	for _, rel := range relations {
		switch {
		case rel.RelatedCollection == "":
			stats.UnresolvedRelations++
		case IsSystemCollection(rel.RelatedCollection):
			stats.SystemRelations++
		}
	}

	graph := NewRelationGraph(r.List(), relations)
	stats.CircularDependencies = len(graph.DetectCycles()) > 0
	return stats
}
