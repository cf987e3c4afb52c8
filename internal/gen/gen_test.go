package gen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BearLemma/blogs/internal/routes"
	"github.com/BearLemma/blogs/model"
)

var genSchemas = model.SchemaSet{
	"Author": {
		Name: "Author",
		Fields: []model.FieldDef{
			{Name: "name", Type: model.StringType()},
			{Name: "joinedAt", Type: model.DateTimeType()},
		},
	},
	"Post": {
		Name: "Post",
		Fields: []model.FieldDef{
			{Name: "title", Type: model.StringType()},
			{Name: "tags", Type: model.ArrayOf(model.StringType())},
			{Name: "published", Type: model.BoolType(), Optional: true},
			{Name: "author", Type: model.EntityOf("Author")},
		},
	},
}

func genEntries() []routes.Entry {
	mk := func(path string, kind routes.OpKind, entity string) routes.Entry {
		return routes.Entry{Path: routes.ParsePath(path), Op: routes.Operation{Kind: kind, Entity: entity}}
	}
	return []routes.Entry{
		mk("/posts", routes.CreateOne, "Post"),
		mk("/posts", routes.ReadMany, "Post"),
		mk("/posts/:id", routes.ReadOne, "Post"),
		mk("/posts/:id", routes.UpdateOne, "Post"),
		mk("/posts/:id", routes.DeleteOne, "Post"),
		mk("/authors", routes.ReadMany, "Author"),
		mk("/authors/:id", routes.ReadOne, "Author"),
	}
}

func TestGenerate_FileNames(t *testing.T) {
	files, err := Generate(genSchemas, genEntries(), Config{Package: "apiclient"})
	require.NoError(t, err)
	require.Len(t, files, 3)
	assert.Equal(t, "models.go", files[0].Name)
	assert.Equal(t, "schemas.go", files[1].Name)
	assert.Equal(t, "client.go", files[2].Name)

	files, err = Generate(genSchemas, genEntries(), Config{Package: "apiclient", Naming: NamingGen})
	require.NoError(t, err)
	assert.Equal(t, "models.gen.go", files[0].Name)
	assert.Equal(t, "schemas.gen.go", files[1].Name)
	assert.Equal(t, "client.gen.go", files[2].Name)
}

func TestGenerate_DeterministicAcrossEntryOrder(t *testing.T) {
	entries := genEntries()
	permuted := make([]routes.Entry, len(entries))
	for i, e := range entries {
		permuted[len(entries)-1-i] = e
	}

	first, err := Generate(genSchemas, entries, Config{Package: "apiclient"})
	require.NoError(t, err)
	second, err := Generate(genSchemas, permuted, Config{Package: "apiclient"})
	require.NoError(t, err)

	require.Len(t, second, len(first))
	for i := range first {
		assert.Equal(t, first[i].Name, second[i].Name)
		assert.Equal(t, string(first[i].Content), string(second[i].Content))
	}
}

func TestGenerate_ClientContent(t *testing.T) {
	files, err := Generate(genSchemas, genEntries(), Config{Package: "apiclient"})
	require.NoError(t, err)

	models := string(files[0].Content)
	assert.Contains(t, models, "// Code generated by clientgen. DO NOT EDIT.")
	assert.Contains(t, models, "type Post struct {")
	assert.Contains(t, models, "`json:\"id,omitempty\"`")
	assert.Contains(t, models, "*bool")
	assert.Contains(t, models, "`json:\"published,omitempty\"`")

	schemas := string(files[1].Content)
	assert.Contains(t, schemas, "var Schemas = model.SchemaSet{")
	assert.Contains(t, schemas, "entityPost")

	client := string(files[2].Content)
	assert.Contains(t, client, "func New(host string) *Client {")
	assert.Contains(t, client, "func (g PostsGroup) GetAll(ctx context.Context) iter.Seq2[Post, error] {")
	assert.Contains(t, client, "func (g PostsGroup) ID(id string) PostsIDGroup {")
	assert.Contains(t, client, "crud.UpdateOne[Post]")
	assert.NotContains(t, client, "Put(", "no replace route was declared")
}

func TestGenerate_EmptyRoutes(t *testing.T) {
	_, err := Generate(genSchemas, nil, Config{Package: "apiclient"})
	require.ErrorIs(t, err, ErrEmptyRoutes)
}

func TestGenerate_UnknownNaming(t *testing.T) {
	_, err := Generate(genSchemas, genEntries(), Config{Package: "apiclient", Naming: "camel"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "naming")
}

func TestGenerate_UnknownRouteEntity(t *testing.T) {
	entries := []routes.Entry{{
		Path: routes.ParsePath("/ghosts"),
		Op:   routes.Operation{Kind: routes.ReadMany, Entity: "Ghost"},
	}}
	_, err := Generate(genSchemas, entries, Config{Package: "apiclient"})
	var unknown *model.UnknownEntityError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "Ghost", unknown.Entity)
}

func TestGenerate_DanglingEntityField(t *testing.T) {
	set := model.SchemaSet{
		"Thing": {
			Name: "Thing",
			Fields: []model.FieldDef{
				{Name: "ghost", Type: model.EntityOf("Ghost")},
			},
		},
	}
	entries := []routes.Entry{{
		Path: routes.ParsePath("/things"),
		Op:   routes.Operation{Kind: routes.ReadMany, Entity: "Thing"},
	}}
	_, err := Generate(set, entries, Config{Package: "apiclient"})
	var unknown *model.UnknownEntityError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "Ghost", unknown.Entity)
}

func TestGenerate_CaptureParamAvoidsShadowing(t *testing.T) {
	entries := []routes.Entry{
		{Path: routes.ParsePath("/docs/:url"), Op: routes.Operation{Kind: routes.ReadOne, Entity: "Author"}},
		{Path: routes.ParsePath("/kinds/:type"), Op: routes.Operation{Kind: routes.ReadOne, Entity: "Author"}},
	}
	files, err := Generate(genSchemas, entries, Config{Package: "apiclient"})
	require.NoError(t, err)

	client := string(files[2].Content)
	assert.Contains(t, client, "func (g DocsGroup) URL(urlValue string) DocsURLGroup {")
	assert.Contains(t, client, "url.PathEscape(urlValue)")
	assert.Contains(t, client, "func (g KindsGroup) Type(typeValue string) KindsTypeGroup {")
	assert.NotContains(t, client, "PathEscape(url)")
	assert.NotContains(t, client, "PathEscape(type)")
}

func TestExportName(t *testing.T) {
	cases := map[string]string{
		"title":      "Title",
		"postId":     "PostID",
		"joinedAt":   "JoinedAt",
		"avatar_url": "AvatarURL",
		"api-key":    "APIKey",
		"id":         "ID",
	}
	for in, want := range cases {
		assert.Equal(t, want, exportName(in), "exportName(%q)", in)
	}
}
