package cueload

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BearLemma/blogs/internal/routes"
	"github.com/BearLemma/blogs/model"
)

func TestLoad_BlogSchema(t *testing.T) {
	set, entries, err := Load("../../schema")
	require.NoError(t, err)

	require.ElementsMatch(t, []string{"Author", "Comment", "Post"}, set.Names())

	post, err := set.Entity("Post")
	require.NoError(t, err)
	title, ok := post.Field("title")
	require.True(t, ok)
	assert.Equal(t, model.String, title.Type.Kind)
	assert.False(t, title.Optional)

	tags, ok := post.Field("tags")
	require.True(t, ok)
	assert.Equal(t, model.Array, tags.Type.Kind)
	assert.Equal(t, model.String, tags.Type.Elem.Kind)

	published, ok := post.Field("published")
	require.True(t, ok)
	assert.True(t, published.Optional)
	assert.Equal(t, model.Bool, published.Type.Kind)

	postAuthor, ok := post.Field("author")
	require.True(t, ok)
	assert.Equal(t, model.Entity, postAuthor.Type.Kind)
	assert.Equal(t, "Author", postAuthor.Type.EntityName)

	comment, err := set.Entity("Comment")
	require.NoError(t, err)
	postID, ok := comment.Field("postId")
	require.True(t, ok)
	assert.Equal(t, model.Ref, postID.Type.Kind)
	createdAt, ok := comment.Field("createdAt")
	require.True(t, ok)
	assert.Equal(t, model.DateTime, createdAt.Type.Kind)

	author, err := set.Entity("Author")
	require.NoError(t, err)
	avatar, ok := author.Field("avatar")
	require.True(t, ok)
	assert.True(t, avatar.Optional)
	assert.Equal(t, model.Bytes, avatar.Type.Kind)

	require.Len(t, entries, 14)
	assert.Contains(t, entries, routes.Entry{
		Path: routes.ParsePath("/blog/posts/:id/comments"),
		Op:   routes.Operation{Kind: routes.DeleteMany, Entity: "Comment"},
	})
	assert.Contains(t, entries, routes.Entry{
		Path: routes.ParsePath("/blog/authors/:id"),
		Op:   routes.Operation{Kind: routes.UpdateOne, Entity: "Author"},
	})
}

func writeSchema(t *testing.T, src string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "schema.cue"), []byte(src), 0o644))
	return dir
}

func TestLoad_RejectsDeclaredID(t *testing.T) {
	dir := writeSchema(t, `package schema

#Thing: {
	id:   string
	name: string
}

routes: [
	{path: "/things", op: "list", entity: "Thing"},
]
`)
	_, _, err := Load(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "id field")
}

func TestLoad_TimeFieldsAreDateTime(t *testing.T) {
	dir := writeSchema(t, `package schema

import "time"

#Event: {
	name: string
	at:   time.Time
	logs: [...time.Time]
}

routes: [
	{path: "/events", op: "list", entity: "Event"},
]
`)
	set, _, err := Load(dir)
	require.NoError(t, err)

	event, err := set.Entity("Event")
	require.NoError(t, err)
	at, ok := event.Field("at")
	require.True(t, ok)
	assert.Equal(t, model.DateTime, at.Type.Kind)
	logs, ok := event.Field("logs")
	require.True(t, ok)
	assert.Equal(t, model.Array, logs.Type.Kind)
	assert.Equal(t, model.DateTime, logs.Type.Elem.Kind)
}

func TestLoad_UnknownRouteEntity(t *testing.T) {
	dir := writeSchema(t, `package schema

#Thing: {
	name: string
}

routes: [
	{path: "/ghosts", op: "list", entity: "Ghost"},
]
`)
	_, _, err := Load(dir)
	var unknown *model.UnknownEntityError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "Ghost", unknown.Entity)
}

func TestLoad_UnknownOp(t *testing.T) {
	dir := writeSchema(t, `package schema

#Thing: {
	name: string
}

routes: [
	{path: "/things", op: "upsert", entity: "Thing"},
]
`)
	_, _, err := Load(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown op "upsert"`)
}

func TestLoad_NoEntities(t *testing.T) {
	dir := writeSchema(t, `package schema

routes: []
`)
	_, _, err := Load(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no entities")
}
