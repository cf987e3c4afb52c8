// Package crud is the runtime half of the generated client: one request
// factory per CRUD operation kind, each parameterized by a resolved URL path
// and the entity schema it moves. Generated code does nothing but call these
// with the right arguments; hand-written code may call them directly too.
//
// Each factory issues exactly one HTTP request per invocation (ReadMany one
// per page), checks the response status before touching the body, and
// discriminates API rejections (*APIError) from schema inconsistencies
// (model.IsSchemaError). Transport policy — timeouts, retries, pooling —
// belongs to the *http.Client the caller supplies.
package crud

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"iter"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/BearLemma/blogs/model"
	"github.com/BearLemma/blogs/wire"
)

// Client carries the connection parameters shared by all factories. The
// SchemaSet is read-only after construction, so a Client is safe for
// concurrent use.
type Client struct {
	// Host is the server base address, e.g. "http://localhost:8344".
	Host string
	// HTTP is the transport to use; http.DefaultClient when nil.
	HTTP *http.Client
	// Schemas is the reflection metadata the codec consults.
	Schemas model.SchemaSet
	// Headers are set verbatim on every request.
	Headers map[string]string
	// PageSize is the page size ReadMany requests; DefaultPageSize when 0.
	PageSize int
}

// DefaultPageSize is the page size ReadMany requests unless the Client sets
// its own.
const DefaultPageSize = 20

func (c *Client) httpClient() *http.Client {
	if c.HTTP == nil {
		return http.DefaultClient
	}
	return c.HTTP
}

func (c *Client) codec() wire.Codec {
	return wire.Codec{Schemas: c.Schemas}
}

// APIError is a non-success response from the backend: the request was
// well-formed but rejected. Code and Message come from the server's
// {"error","code"} body when it sends one.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("api error %d %s: %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

// do issues one request and, when decode is set, returns the parsed JSON
// object body. A non-2xx status short-circuits decoding and surfaces an
// *APIError instead.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body map[string]any) (map[string]any, error) {
	var reqBody io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encoding request body: %w", err)
		}
		reqBody = bytes.NewReader(raw)
	}
	uri := strings.TrimSuffix(c.Host, "/") + path
	if len(query) > 0 {
		uri += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, uri, reqBody)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range c.Headers {
		req.Header.Set(k, v)
	}
	resp, err := c.httpClient().Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, apiErrorFromResponse(resp)
	}
	if resp.StatusCode == http.StatusNoContent || method == http.MethodDelete {
		io.Copy(io.Discard, resp.Body)
		return nil, nil
	}
	var obj map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&obj); err != nil {
		return nil, fmt.Errorf("decoding response body: %w", err)
	}
	return obj, nil
}

func apiErrorFromResponse(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode, Message: resp.Status}
	var body struct {
		Error string `json:"error"`
		Code  string `json:"code"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil && body.Error != "" {
		apiErr.Message = body.Error
		apiErr.Code = body.Code
	}
	return apiErr
}

// CreateOne POSTs value (id stripped at every depth — the server assigns
// identifiers) and returns the stored entity, id included.
func CreateOne[T any](ctx context.Context, c *Client, path string, def model.EntityDef, value T) (T, error) {
	var out T
	codec := c.codec()
	body, err := codec.Encode(def, value, wire.Create)
	if err != nil {
		return out, err
	}
	obj, err := c.do(ctx, http.MethodPost, path, nil, body)
	if err != nil {
		return out, err
	}
	err = codec.Decode(def, obj, &out)
	return out, err
}

// ReplaceOne PUTs the complete entity. The id travels in the URL, not the
// body, so value need not carry one.
func ReplaceOne[T any](ctx context.Context, c *Client, path string, def model.EntityDef, value T) (T, error) {
	var out T
	codec := c.codec()
	body, err := codec.Encode(def, value, wire.Full)
	if err != nil {
		return out, err
	}
	obj, err := c.do(ctx, http.MethodPut, path, nil, body)
	if err != nil {
		return out, err
	}
	err = codec.Decode(def, obj, &out)
	return out, err
}

// UpdateOne PATCHes a deep-partial patch: any subset of fields, recursively
// partial through nested entities, and returns the updated full entity.
func UpdateOne[T any](ctx context.Context, c *Client, path string, def model.EntityDef, patch map[string]any) (T, error) {
	var out T
	codec := c.codec()
	body, err := codec.Encode(def, patch, wire.Update)
	if err != nil {
		return out, err
	}
	obj, err := c.do(ctx, http.MethodPatch, path, nil, body)
	if err != nil {
		return out, err
	}
	err = codec.Decode(def, obj, &out)
	return out, err
}

// DeleteOne DELETEs a single entity. No body either way.
func DeleteOne(ctx context.Context, c *Client, path string) error {
	_, err := c.do(ctx, http.MethodDelete, path, nil, nil)
	return err
}

// DeleteMany DELETEs every entity under the path.
func DeleteMany(ctx context.Context, c *Client, path string) error {
	_, err := c.do(ctx, http.MethodDelete, path, nil, nil)
	return err
}

// ReadOne GETs and decodes a single entity.
func ReadOne[T any](ctx context.Context, c *Client, path string, def model.EntityDef) (T, error) {
	var out T
	obj, err := c.do(ctx, http.MethodGet, path, nil, nil)
	if err != nil {
		return out, err
	}
	err = c.codec().Decode(def, obj, &out)
	return out, err
}

// ReadMany returns a lazy sequence of decoded entities backed by the
// backend's paginated list endpoint: ?offset=&page_size= requests,
// {"items":[...], "next_offset":n} responses. Each page is fetched as
// iteration reaches it; iteration stops when the server omits next_offset.
// Every range over the sequence restarts from the first page.
func ReadMany[T any](ctx context.Context, c *Client, path string, def model.EntityDef) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		codec := c.codec()
		size := c.PageSize
		if size <= 0 {
			size = DefaultPageSize
		}
		offset := 0
		for {
			query := url.Values{
				"offset":    []string{strconv.Itoa(offset)},
				"page_size": []string{strconv.Itoa(size)},
			}
			obj, err := c.do(ctx, http.MethodGet, path, query, nil)
			if err != nil {
				var zero T
				yield(zero, err)
				return
			}
			items, next, err := parsePage(obj)
			if err != nil {
				var zero T
				yield(zero, err)
				return
			}
			for _, item := range items {
				entry, ok := item.(map[string]any)
				if !ok {
					var zero T
					yield(zero, fmt.Errorf("list item for %s is not an object", def.Name))
					return
				}
				var v T
				if err := codec.Decode(def, entry, &v); err != nil {
					var zero T
					yield(zero, err)
					return
				}
				if !yield(v, nil) {
					return
				}
			}
			if next < 0 {
				return
			}
			offset = next
		}
	}
}

// Collect drains a ReadMany sequence into a slice, stopping at the first
// error.
func Collect[T any](seq iter.Seq2[T, error]) ([]T, error) {
	var out []T
	for v, err := range seq {
		if err != nil {
			return out, err
		}
		out = append(out, v)
	}
	return out, nil
}

// parsePage pulls items and the next page offset (-1 when exhausted) out of a
// list response.
func parsePage(obj map[string]any) ([]any, int, error) {
	var items []any
	if raw, ok := obj["items"]; ok && raw != nil {
		arr, ok := raw.([]any)
		if !ok {
			return nil, 0, fmt.Errorf("list response items is not an array")
		}
		items = arr
	}
	next := -1
	if raw, ok := obj["next_offset"]; ok && raw != nil {
		n, ok := raw.(float64)
		if !ok {
			return nil, 0, fmt.Errorf("list response next_offset is not a number")
		}
		next = int(n)
	}
	return items, next, nil
}
