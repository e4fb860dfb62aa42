// Package schema is the registry of content-type models the gateway can
// dispatch to. The registered set is fixed at compile time; model names from
// the URL path are resolved case-sensitively against it.
package schema

import (
	"errors"
	"fmt"

	"contentapi/internal/model"
)

// ErrUnknownModel is returned by Resolve for names outside the registered
// set. The gateway maps it to a client error, never a server fault.
var ErrUnknownModel = errors.New("unknown model")

// FieldType is the semantic type of a field as the document store sees it.
type FieldType string

const (
	TypeString   FieldType = "string"
	TypeBool     FieldType = "bool"
	TypeDatetime FieldType = "datetime"
	TypeStrings  FieldType = "array<string>"
	TypeObject   FieldType = "object"
)

// Field describes one field of a content type. The migration pass turns
// these into store-level DEFINE FIELD statements, so required-field and enum
// enforcement lives in the store, not the gateway.
type Field struct {
	Name     string
	Type     FieldType
	Required bool
	Enum     []string
	// DefaultNow marks datetime fields that default to creation time.
	DefaultNow bool
}

// Descriptor is the content-type definition a model name resolves to.
type Descriptor struct {
	// Name is the path segment the descriptor is registered under.
	Name string
	// Table is the store table backing the model. All ContentItem subtypes
	// share the content table.
	Table string
	// Kind is the discriminator tag of subtype rows; empty for models that
	// see every row of their table.
	Kind string
	// Fields lists the model's own fields plus inherited base fields.
	Fields []Field
	// New returns a zero value of the typed entity for payload decoding.
	New func() model.Entity
}

// Registry maps model names to descriptors.
type Registry struct {
	descriptors map[string]Descriptor
}

// Resolve returns the descriptor registered under name, or ErrUnknownModel.
func (r *Registry) Resolve(name string) (Descriptor, error) {
	d, ok := r.descriptors[name]
	if !ok {
		return Descriptor{}, fmt.Errorf("%w: %s", ErrUnknownModel, name)
	}
	return d, nil
}

// Names returns the registered model names in unspecified order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.descriptors))
	for name := range r.descriptors {
		names = append(names, name)
	}
	return names
}

// Tables returns the distinct store tables backing the registered models.
func (r *Registry) Tables() []string {
	seen := map[string]bool{}
	var tables []string
	for _, d := range r.descriptors {
		if !seen[d.Table] {
			seen[d.Table] = true
			tables = append(tables, d.Table)
		}
	}
	return tables
}

var baseContentFields = []Field{
	{Name: "kind", Type: TypeString},
	{Name: "title", Type: TypeString, Required: true},
	{Name: "body", Type: TypeString},
	{Name: "image", Type: TypeString},
	{Name: "language", Type: TypeString},
	{Name: "description", Type: TypeString},
	{Name: "keywords", Type: TypeString},
	{Name: "status", Type: TypeString, Enum: []string{model.StatusUnpublished, model.StatusPublished, model.StatusArchived}},
	{Name: "deleted", Type: TypeBool},
	{Name: "authors", Type: TypeStrings},
}

func contentFields(extra ...Field) []Field {
	fields := make([]Field, 0, len(baseContentFields)+len(extra))
	fields = append(fields, baseContentFields...)
	return append(fields, extra...)
}

// New builds the registry with the fixed model set.
func New() *Registry {
	descriptors := map[string]Descriptor{
		"person": {
			Name:  "person",
			Table: "person",
			Fields: []Field{
				{Name: "givenName", Type: TypeString, Required: true},
				{Name: "familyName", Type: TypeString, Required: true},
			},
			New: func() model.Entity { return &model.Person{} },
		},
		"content": {
			Name:   "content",
			Table:  "content",
			Fields: contentFields(),
			New:    func() model.Entity { return &model.ContentItem{} },
		},
		"post": {
			Name:  "post",
			Table: "content",
			Kind:  model.KindPost,
			Fields: contentFields(
				Field{Name: "postDate", Type: TypeDatetime, Required: true, DefaultNow: true},
			),
			New: func() model.Entity {
				return &model.Post{ContentItem: model.ContentItem{Kind: model.KindPost}}
			},
		},
		"recording": {
			Name:  "recording",
			Table: "content",
			Kind:  model.KindRecording,
			Fields: contentFields(
				Field{Name: "lyrics", Type: TypeString},
				Field{Name: "composers", Type: TypeStrings},
				Field{Name: "watsonToneStatistics", Type: TypeObject},
				Field{Name: "soundcloudId", Type: TypeString},
			),
			New: func() model.Entity {
				return &model.Recording{ContentItem: model.ContentItem{Kind: model.KindRecording}}
			},
		},
		"release": {
			Name:  "release",
			Table: "content",
			Kind:  model.KindRelease,
			Fields: contentFields(
				Field{Name: "releaseDate", Type: TypeDatetime, Required: true, DefaultNow: true},
				Field{Name: "soundcloudId", Type: TypeString},
				Field{Name: "itunesId", Type: TypeString},
				Field{Name: "spotifyId", Type: TypeString},
				Field{Name: "labelLink", Type: TypeString},
				Field{Name: "linerNotes", Type: TypeString},
			),
			New: func() model.Entity {
				return &model.Release{ContentItem: model.ContentItem{Kind: model.KindRelease}}
			},
		},
	}

	return &Registry{descriptors: descriptors}
}
