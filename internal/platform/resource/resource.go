// Package resource serves the REST surface every entity kind shares:
// create, read, full update, delete, paginated list, free-text search, count
// and exists. Kind handlers embed Handler and add their canned filters on the
// same router.
package resource

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"backoffice/internal/query"
	dErrors "backoffice/pkg/domain-errors"
	"backoffice/pkg/platform/httputil"
	"backoffice/pkg/platform/middleware/request"
)

// Service is the part of an entity service the standard routes need.
type Service[D any] interface {
	Kind() string
	Sortable() []string
	Create(ctx context.Context, dto D) (*D, error)
	Update(ctx context.Context, id int64, dto D) (*D, error)
	Delete(ctx context.Context, id int64) error
	Get(ctx context.Context, id int64) (*D, error)
	List(ctx context.Context, req query.PageRequest) (*query.Page[D], error)
	Search(ctx context.Context, term string, req query.PageRequest) (*query.Page[D], error)
	Filter(ctx context.Context, req query.PageRequest, where ...query.Criterion) (*query.Page[D], error)
	Count(ctx context.Context, where ...query.Criterion) (int64, error)
	Exists(ctx context.Context, id int64) (bool, error)
}

type Handler[D any] struct {
	service Service[D]
	logger  *slog.Logger
}

func New[D any](service Service[D], logger *slog.Logger) *Handler[D] {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler[D]{service: service, logger: logger}
}

// Routes registers the standard routes. Static paths such as /search take
// precedence over /{id} in chi, so kind specific filters can be added to the
// same router before or after.
func (h *Handler[D]) Routes(r chi.Router) {
	r.Post("/", h.handleCreate)
	r.Get("/", h.handleList)
	r.Get("/search", h.handleSearch)
	r.Get("/count", h.handleCount)
	r.Get("/{id}", h.handleGet)
	r.Put("/{id}", h.handleUpdate)
	r.Delete("/{id}", h.handleDelete)
	r.Get("/{id}/exists", h.handleExists)
}

// Categories registers GET /{category} for each catalog category, filtering
// field with the category's keywords.
func (h *Handler[D]) Categories(r chi.Router, catalog query.Catalog, fields ...string) {
	for _, c := range catalog.Categories() {
		keywords, _ := catalog.Keywords(c)
		r.Get("/"+string(c), func(w http.ResponseWriter, r *http.Request) {
			where := make([]query.Criterion, 0, len(fields))
			for _, f := range fields {
				where = append(where, query.ContainsAny(f, keywords))
			}
			h.ServeFilter(w, r, where...)
		})
	}
}

func (h *Handler[D]) handleCreate(w http.ResponseWriter, r *http.Request) {
	var dto D
	if err := httputil.DecodeJSON(r, &dto); err != nil {
		h.Fail(w, r, err)
		return
	}
	created, err := h.service.Create(r.Context(), dto)
	if err != nil {
		h.Fail(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, created)
}

func (h *Handler[D]) handleGet(w http.ResponseWriter, r *http.Request) {
	id, err := httputil.PathID(r, "id")
	if err != nil {
		h.Fail(w, r, err)
		return
	}
	dto, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.Fail(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, dto)
}

func (h *Handler[D]) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := httputil.PathID(r, "id")
	if err != nil {
		h.Fail(w, r, err)
		return
	}
	var dto D
	if err := httputil.DecodeJSON(r, &dto); err != nil {
		h.Fail(w, r, err)
		return
	}
	updated, err := h.service.Update(r.Context(), id, dto)
	if err != nil {
		h.Fail(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, updated)
}

func (h *Handler[D]) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := httputil.PathID(r, "id")
	if err != nil {
		h.Fail(w, r, err)
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		h.Fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler[D]) handleList(w http.ResponseWriter, r *http.Request) {
	req, ok := h.PageRequest(w, r)
	if !ok {
		return
	}
	page, err := h.service.List(r.Context(), req)
	h.ServePage(w, r, page, err)
}

func (h *Handler[D]) handleSearch(w http.ResponseWriter, r *http.Request) {
	req, ok := h.PageRequest(w, r)
	if !ok {
		return
	}
	term := strings.TrimSpace(r.URL.Query().Get("query"))
	page, err := h.service.Search(r.Context(), term, req)
	h.ServePage(w, r, page, err)
}

func (h *Handler[D]) handleCount(w http.ResponseWriter, r *http.Request) {
	h.ServeCount(w, r)
}

func (h *Handler[D]) handleExists(w http.ResponseWriter, r *http.Request) {
	id, err := httputil.PathID(r, "id")
	if err != nil {
		h.Fail(w, r, err)
		return
	}
	exists, err := h.service.Exists(r.Context(), id)
	if err != nil {
		h.Fail(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.ExistsResponse{Exists: exists})
}

// PageRequest parses the paging parameters, writing the error response itself
// when they are invalid.
func (h *Handler[D]) PageRequest(w http.ResponseWriter, r *http.Request) (query.PageRequest, bool) {
	req, err := query.ParsePageRequest(r.URL.Query(), h.service.Sortable())
	if err != nil {
		h.Fail(w, r, err)
		return req, false
	}
	return req, true
}

// ServeFilter writes one page of records matching where.
func (h *Handler[D]) ServeFilter(w http.ResponseWriter, r *http.Request, where ...query.Criterion) {
	req, ok := h.PageRequest(w, r)
	if !ok {
		return
	}
	page, err := h.service.Filter(r.Context(), req, where...)
	h.ServePage(w, r, page, err)
}

// ServePage writes page, or err when it is set.
func (h *Handler[D]) ServePage(w http.ResponseWriter, r *http.Request, page *query.Page[D], err error) {
	if err != nil {
		h.Fail(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, page)
}

// ServeCount writes the number of records matching where.
func (h *Handler[D]) ServeCount(w http.ResponseWriter, r *http.Request, where ...query.Criterion) {
	n, err := h.service.Count(r.Context(), where...)
	if err != nil {
		h.Fail(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.CountResponse{Count: n})
}

// Fail logs err at a level matching its status and writes the error body.
func (h *Handler[D]) Fail(w http.ResponseWriter, r *http.Request, err error) {
	ctx := r.Context()
	code := dErrors.CodeOf(err)
	if httputil.StatusFor(code) >= http.StatusInternalServerError {
		h.logger.ErrorContext(ctx, "request failed",
			"request_id", request.GetRequestID(ctx),
			"kind", h.service.Kind(),
			"error", err.Error(),
		)
	} else {
		h.logger.WarnContext(ctx, "request rejected",
			"request_id", request.GetRequestID(ctx),
			"kind", h.service.Kind(),
			"code", string(code),
			"error", err.Error(),
		)
	}
	httputil.WriteError(w, err)
}
