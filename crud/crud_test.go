package crud

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BearLemma/blogs/model"
)

var itemSchemas = model.SchemaSet{
	"Item": {
		Name: "Item",
		Fields: []model.FieldDef{
			{Name: "name", Type: model.StringType()},
			{Name: "count", Type: model.NumberType()},
		},
	},
}

var itemDef = itemSchemas["Item"]

type item struct {
	ID    string  `json:"id,omitempty"`
	Name  string  `json:"name"`
	Count float64 `json:"count"`
}

func newTestClient(handler http.Handler) (*Client, *httptest.Server) {
	srv := httptest.NewServer(handler)
	return &Client{Host: srv.URL, Schemas: itemSchemas}, srv
}

func TestCreateOne_StripsIDAndDecodesResponse(t *testing.T) {
	var gotBody map[string]any
	c, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/items", r.URL.Path)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		stored := map[string]any{"id": "i1"}
		for k, v := range gotBody {
			stored[k] = v
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(stored)
	}))
	defer srv.Close()

	created, err := CreateOne(context.Background(), c, "/items", itemDef, item{
		ID:    "client-chosen",
		Name:  "widget",
		Count: 3,
	})
	require.NoError(t, err)

	assert.NotContains(t, gotBody, "id", "create bodies never carry an id")
	assert.Equal(t, item{ID: "i1", Name: "widget", Count: 3}, created)
}

func TestUpdateOne_SendsPatchVerbAndPartialBody(t *testing.T) {
	c, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPatch, r.Method)
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, map[string]any{"name": "renamed"}, body)
		json.NewEncoder(w).Encode(map[string]any{"id": "i1", "name": "renamed", "count": 3})
	}))
	defer srv.Close()

	updated, err := UpdateOne[item](context.Background(), c, "/items/i1", itemDef, map[string]any{"name": "renamed"})
	require.NoError(t, err)
	assert.Equal(t, item{ID: "i1", Name: "renamed", Count: 3}, updated)
}

func TestReplaceOne_SendsPut(t *testing.T) {
	c, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPut, r.Method)
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		body["id"] = "i1"
		json.NewEncoder(w).Encode(body)
	}))
	defer srv.Close()

	replaced, err := ReplaceOne(context.Background(), c, "/items/i1", itemDef, item{Name: "v2", Count: 9})
	require.NoError(t, err)
	assert.Equal(t, item{ID: "i1", Name: "v2", Count: 9}, replaced)
}

func TestDeleteOne_NoBody(t *testing.T) {
	c, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodDelete, r.Method)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	require.NoError(t, DeleteOne(context.Background(), c, "/items/i1"))
}

func TestReadOne_APIError(t *testing.T) {
	c, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]any{"error": "item not found", "code": "NOT_FOUND"})
	}))
	defer srv.Close()

	_, err := ReadOne[item](context.Background(), c, "/items/missing", itemDef)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Equal(t, "NOT_FOUND", apiErr.Code)
	assert.Equal(t, "item not found", apiErr.Message)
}

func TestClient_HeadersSetOnEveryRequest(t *testing.T) {
	c, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode(map[string]any{"id": "i1", "name": "n", "count": 0})
	}))
	defer srv.Close()
	c.Headers = map[string]string{"Authorization": "Bearer tok"}

	_, err := ReadOne[item](context.Background(), c, "/items/i1", itemDef)
	require.NoError(t, err)
}

// pagedHandler serves pageSize items per request out of a fixed set, keyed by
// the offset query parameter, and counts the requests it saw.
func pagedHandler(t *testing.T, total, pageSize int, requests *int) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*requests++
		offset, err := strconv.Atoi(r.URL.Query().Get("offset"))
		require.NoError(t, err)
		var items []any
		for i := offset; i < total && i < offset+pageSize; i++ {
			items = append(items, map[string]any{
				"id":    fmt.Sprintf("i%d", i),
				"name":  fmt.Sprintf("item %d", i),
				"count": i,
			})
		}
		page := map[string]any{"items": items}
		if offset+pageSize < total {
			page["next_offset"] = offset + pageSize
		}
		json.NewEncoder(w).Encode(page)
	})
}

func TestReadMany_WalksAllPages(t *testing.T) {
	var requests int
	c, srv := newTestClient(pagedHandler(t, 5, 2, &requests))
	defer srv.Close()

	got, err := Collect(ReadMany[item](context.Background(), c, "/items", itemDef))
	require.NoError(t, err)
	require.Len(t, got, 5)
	assert.Equal(t, 3, requests)
	for i, it := range got {
		assert.Equal(t, fmt.Sprintf("i%d", i), it.ID)
		assert.Equal(t, float64(i), it.Count)
	}
}

func TestReadMany_IsLazy(t *testing.T) {
	var requests int
	c, srv := newTestClient(pagedHandler(t, 10, 2, &requests))
	defer srv.Close()

	seq := ReadMany[item](context.Background(), c, "/items", itemDef)
	assert.Equal(t, 0, requests, "no request before iteration starts")

	for _, err := range seq {
		require.NoError(t, err)
		break
	}
	assert.Equal(t, 1, requests, "breaking early stops fetching")
}

func TestReadMany_Restarts(t *testing.T) {
	var requests int
	c, srv := newTestClient(pagedHandler(t, 3, 2, &requests))
	defer srv.Close()

	seq := ReadMany[item](context.Background(), c, "/items", itemDef)
	first, err := Collect(seq)
	require.NoError(t, err)
	second, err := Collect(seq)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 4, requests, "each range restarts from the first page")
}

func TestReadMany_SendsPaginationParams(t *testing.T) {
	var got url.Values
	c, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.URL.Query()
		json.NewEncoder(w).Encode(map[string]any{"items": []any{}})
	}))
	defer srv.Close()

	_, err := Collect(ReadMany[item](context.Background(), c, "/items", itemDef))
	require.NoError(t, err)
	assert.Equal(t, "0", got.Get("offset"))
	assert.Equal(t, strconv.Itoa(DefaultPageSize), got.Get("page_size"))

	c.PageSize = 3
	_, err = Collect(ReadMany[item](context.Background(), c, "/items", itemDef))
	require.NoError(t, err)
	assert.Equal(t, "3", got.Get("page_size"))
}

func TestReadMany_SurfacesAPIError(t *testing.T) {
	c, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]any{"error": "boom", "code": "INTERNAL"})
	}))
	defer srv.Close()

	_, err := Collect(ReadMany[item](context.Background(), c, "/items", itemDef))
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "INTERNAL", apiErr.Code)
}
