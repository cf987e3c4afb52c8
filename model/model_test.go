package model

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFieldType_String(t *testing.T) {
	assert.Equal(t, "string", StringType().String())
	assert.Equal(t, "array(entity(Post))", ArrayOf(EntityOf("Post")).String())
	assert.Equal(t, "array(array(number))", ArrayOf(ArrayOf(NumberType())).String())
}

func TestSchemaSet_Entity(t *testing.T) {
	set := SchemaSet{"Post": {Name: "Post"}}

	def, err := set.Entity("Post")
	require.NoError(t, err)
	assert.Equal(t, "Post", def.Name)

	_, err = set.Entity("Ghost")
	var unknown *UnknownEntityError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "Ghost", unknown.Entity)
	assert.True(t, IsSchemaError(err))
}

func TestEntityDef_Field(t *testing.T) {
	def := EntityDef{Name: "Post", Fields: []FieldDef{
		{Name: "title", Type: StringType()},
	}}
	f, ok := def.Field("title")
	require.True(t, ok)
	assert.Equal(t, String, f.Type.Kind)
	_, ok = def.Field("nope")
	assert.False(t, ok)
}

func TestIsSchemaError(t *testing.T) {
	assert.True(t, IsSchemaError(&MissingFieldError{Entity: "Post", Field: "title"}))
	assert.True(t, IsSchemaError(&TypeMismatchError{Entity: "Post", Field: "title"}))
	assert.False(t, IsSchemaError(errors.New("plain")))
	assert.False(t, IsSchemaError(nil))
}
