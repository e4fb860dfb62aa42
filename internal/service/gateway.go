package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"contentapi/internal/repository"
	"contentapi/internal/schema"
)

var (
	// ErrNotFound means no item exists at the given identifier (or the
	// item belongs to a different subtype than the requested model).
	ErrNotFound = errors.New("item not found")
	// ErrValidation marks payload failures surfaced by the store: missing
	// required field, enum violation, malformed body. Its detail text is
	// echoed to the client.
	ErrValidation = errors.New("invalid payload")
)

// ModelGateway is the CRUD pipeline behind the dynamic /:model routes. Each
// operation resolves the model name against the registry and delegates
// persistence to the document repository; validation is owned by the store.
type ModelGateway interface {
	// Create decodes payload against the resolved descriptor and persists
	// a new item. Unknown fields are dropped; the identifier and the
	// discriminator tag are always server-assigned.
	Create(ctx context.Context, modelName string, payload []byte) error

	// List returns the full collection of the model, subtype-scoped.
	List(ctx context.Context, modelName string) ([]repository.Document, error)

	// Get returns the item at id, or ErrNotFound.
	Get(ctx context.Context, modelName, id string) (repository.Document, error)

	// Update merges patch into the item at id field by field. Client
	// supplied identifier and discriminator fields are stripped first.
	Update(ctx context.Context, modelName, id string, patch map[string]any) error

	// Delete removes the item at id, or returns ErrNotFound.
	Delete(ctx context.Context, modelName, id string) error
}

type modelGateway struct {
	registry *schema.Registry
	repo     repository.DocumentRepository
	now      func() time.Time
}

// NewModelGateway constructs the gateway over the registry and repository.
func NewModelGateway(registry *schema.Registry, repo repository.DocumentRepository) ModelGateway {
	return &modelGateway{
		registry: registry,
		repo:     repo,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (g *modelGateway) Create(ctx context.Context, modelName string, payload []byte) error {
	desc, err := g.registry.Resolve(modelName)
	if err != nil {
		return err
	}

	entity := desc.New()
	if len(payload) > 0 {
		if err := json.Unmarshal(payload, entity); err != nil {
			return fmt.Errorf("%w: %v", ErrValidation, err)
		}
	}

	// The discriminator always comes from the resolved model, never from
	// the client payload.
	if k, ok := entity.(interface{ SetKind(string) }); ok {
		k.SetKind(desc.Kind)
	}
	entity.ApplyDefaults(g.now())

	if _, err := g.repo.Create(ctx, desc.Table, entity); err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	return nil
}

func (g *modelGateway) List(ctx context.Context, modelName string) ([]repository.Document, error) {
	desc, err := g.registry.Resolve(modelName)
	if err != nil {
		return nil, err
	}

	var filter map[string]any
	if desc.Kind != "" {
		filter = map[string]any{"kind": desc.Kind}
	}

	docs, err := g.repo.FindAll(ctx, desc.Table, filter)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	return docs, nil
}

func (g *modelGateway) Get(ctx context.Context, modelName, id string) (repository.Document, error) {
	desc, err := g.registry.Resolve(modelName)
	if err != nil {
		return nil, err
	}

	doc, err := g.repo.FindByID(ctx, desc.Table, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	// An item of another subtype is invisible through this model.
	if desc.Kind != "" && doc["kind"] != desc.Kind {
		return nil, ErrNotFound
	}
	return doc, nil
}

func (g *modelGateway) Update(ctx context.Context, modelName, id string, patch map[string]any) error {
	desc, err := g.registry.Resolve(modelName)
	if err != nil {
		return err
	}

	// Existence and subtype scoping first, so an unknown identifier is a
	// NotFound rather than a silent create.
	if _, err := g.Get(ctx, modelName, id); err != nil {
		return err
	}

	// The stored identifier and discriminator never change.
	delete(patch, "id")
	delete(patch, "_id")
	delete(patch, "kind")

	if _, err := g.repo.UpdateByID(ctx, desc.Table, id, patch); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

func (g *modelGateway) Delete(ctx context.Context, modelName, id string) error {
	desc, err := g.registry.Resolve(modelName)
	if err != nil {
		return err
	}

	if _, err := g.Get(ctx, modelName, id); err != nil {
		return err
	}

	if err := g.repo.DeleteByID(ctx, desc.Table, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}
