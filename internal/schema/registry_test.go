package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"contentapi/internal/model"
)

func TestRegistryResolve(t *testing.T) {
	reg := New()

	tests := []struct {
		name      string
		modelName string
		wantTable string
		wantKind  string
		wantErr   error
	}{
		{name: "person", modelName: "person", wantTable: "person", wantKind: ""},
		{name: "content base", modelName: "content", wantTable: "content", wantKind: ""},
		{name: "post subtype", modelName: "post", wantTable: "content", wantKind: model.KindPost},
		{name: "recording subtype", modelName: "recording", wantTable: "content", wantKind: model.KindRecording},
		{name: "release subtype", modelName: "release", wantTable: "content", wantKind: model.KindRelease},
		{name: "unregistered name", modelName: "page", wantErr: ErrUnknownModel},
		{name: "matching is case-sensitive", modelName: "Person", wantErr: ErrUnknownModel},
		{name: "empty name", modelName: "", wantErr: ErrUnknownModel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			desc, err := reg.Resolve(tt.modelName)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.modelName, desc.Name)
			assert.Equal(t, tt.wantTable, desc.Table)
			assert.Equal(t, tt.wantKind, desc.Kind)
			assert.NotNil(t, desc.New)
		})
	}
}

func TestRegistryFactories(t *testing.T) {
	reg := New()

	post, err := reg.Resolve("post")
	require.NoError(t, err)
	p, ok := post.New().(*model.Post)
	require.True(t, ok)
	assert.Equal(t, model.KindPost, p.Kind)

	person, err := reg.Resolve("person")
	require.NoError(t, err)
	_, ok = person.New().(*model.Person)
	assert.True(t, ok)
}

func TestRegistryTables(t *testing.T) {
	reg := New()

	tables := reg.Tables()
	assert.ElementsMatch(t, []string{"person", "content"}, tables)
	assert.Len(t, reg.Names(), 5)
}

func TestDescriptorFieldsCarryBaseFields(t *testing.T) {
	reg := New()

	release, err := reg.Resolve("release")
	require.NoError(t, err)

	byName := map[string]Field{}
	for _, f := range release.Fields {
		byName[f.Name] = f
	}

	// Base fields are inherited.
	assert.True(t, byName["title"].Required)
	assert.Equal(t, []string{model.StatusUnpublished, model.StatusPublished, model.StatusArchived}, byName["status"].Enum)

	// Extension fields are present.
	rd, ok := byName["releaseDate"]
	assert.True(t, ok)
	assert.True(t, rd.Required)
	assert.True(t, rd.DefaultNow)
}
