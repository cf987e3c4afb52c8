package server

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// Handler serves the blog API over the document store. Responses follow the
// wire conventions the generated client expects: entities as JSON objects,
// list pages as {"items": [...], "next_offset": n}, errors as
// {"error","code"}.
type Handler struct {
	store *Store
	log   zerolog.Logger
}

// NewHandler wires the blog handlers onto store.
func NewHandler(store *Store, log zerolog.Logger) *Handler {
	return &Handler{store: store, log: log}
}

// Routes assembles the blog route table.
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(requestLogger(h.log))

	r.Route("/blog", func(r chi.Router) {
		r.Route("/posts", func(r chi.Router) {
			r.Post("/", h.create("posts"))
			r.Get("/", h.list("posts"))
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", h.get("posts"))
				r.Put("/", h.replace("posts"))
				r.Patch("/", h.update("posts"))
				r.Delete("/", h.delete("posts"))

				r.Post("/comments", h.createComment)
				r.Get("/comments", h.listComments)
				r.Delete("/comments", h.deleteComments)
			})
		})
		r.Route("/authors", func(r chi.Router) {
			r.Post("/", h.create("authors"))
			r.Get("/", h.list("authors"))
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", h.get("authors"))
				r.Patch("/", h.update("authors"))
				r.Delete("/", h.delete("authors"))
			})
		})
	})
	return r
}

func (h *Handler) create(collection string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		doc, err := decodeJSON(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error())
			return
		}
		delete(doc, "id")
		stored, err := h.store.Insert(r.Context(), collection, doc)
		if err != nil {
			h.storeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, stored)
	}
}

func (h *Handler) get(collection string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		doc, err := h.store.Get(r.Context(), collection, chi.URLParam(r, "id"))
		if err != nil {
			h.storeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, doc)
	}
}

func (h *Handler) replace(collection string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		doc, err := decodeJSON(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error())
			return
		}
		stored, err := h.store.Replace(r.Context(), collection, chi.URLParam(r, "id"), doc)
		if err != nil {
			h.storeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, stored)
	}
}

func (h *Handler) update(collection string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		patch, err := decodeJSON(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error())
			return
		}
		stored, err := h.store.Merge(r.Context(), collection, chi.URLParam(r, "id"), patch)
		if err != nil {
			h.storeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, stored)
	}
}

func (h *Handler) delete(collection string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := h.store.Delete(r.Context(), collection, chi.URLParam(r, "id")); err != nil {
			h.storeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func (h *Handler) list(collection string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.writePage(w, r, collection, "", "")
	}
}

// Comment handlers scope the collection to the post named in the URL.

func (h *Handler) createComment(w http.ResponseWriter, r *http.Request) {
	doc, err := decodeJSON(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error())
		return
	}
	delete(doc, "id")
	doc["postId"] = chi.URLParam(r, "id")
	stored, err := h.store.Insert(r.Context(), "comments", doc)
	if err != nil {
		h.storeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, stored)
}

func (h *Handler) listComments(w http.ResponseWriter, r *http.Request) {
	h.writePage(w, r, "comments", "postId", chi.URLParam(r, "id"))
}

func (h *Handler) deleteComments(w http.ResponseWriter, r *http.Request) {
	if err := h.store.DeleteWhere(r.Context(), "comments", "postId", chi.URLParam(r, "id")); err != nil {
		h.storeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) writePage(w http.ResponseWriter, r *http.Request, collection, filterField, filterValue string) {
	p := parsePagination(r)
	docs, next, err := h.store.List(r.Context(), collection, p.Offset, p.Limit, filterField, filterValue)
	if err != nil {
		h.storeError(w, err)
		return
	}
	page := map[string]any{"items": docs}
	if docs == nil {
		page["items"] = []any{}
	}
	if next >= 0 {
		page["next_offset"] = next
	}
	writeJSON(w, http.StatusOK, page)
}

func (h *Handler) storeError(w http.ResponseWriter, err error) {
	if errors.Is(err, ErrNotFound) {
		writeError(w, http.StatusNotFound, "NOT_FOUND", err.Error())
		return
	}
	h.log.Error().Err(err).Msg("store error")
	writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
}
