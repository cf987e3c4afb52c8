package blogclient

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BearLemma/blogs/internal/cueload"
	"github.com/BearLemma/blogs/internal/gen"
)

// TestGeneratedCodeIsCurrent regenerates the client from the schema package
// and byte-compares it with the committed files, so stale output cannot ship
// unnoticed.
func TestGeneratedCodeIsCurrent(t *testing.T) {
	set, entries, err := cueload.Load("../../schema")
	require.NoError(t, err)

	files, err := gen.Generate(set, entries, gen.Config{
		Package:       "blogclient",
		RuntimeImport: "github.com/BearLemma/blogs",
	})
	require.NoError(t, err)
	require.Len(t, files, 3)

	for _, f := range files {
		committed, err := os.ReadFile(f.Name)
		require.NoError(t, err, "missing committed file %s", f.Name)
		assert.Equal(t, string(f.Content), string(committed),
			"%s is stale; rerun clientgen", f.Name)
	}
}
