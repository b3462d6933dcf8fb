package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"backoffice/internal/currency/models"
	"backoffice/internal/platform/resource"
	"backoffice/internal/query"
	"backoffice/pkg/platform/httputil"
)

// Service is the currency service as seen by the HTTP layer.
type Service interface {
	resource.Service[models.CurrencyDTO]
	ByCodePrefix(ctx context.Context, prefix string, req query.PageRequest) (*query.Page[models.CurrencyDTO], error)
	ByCode(ctx context.Context, code string) (*models.CurrencyDTO, error)
}

type Handler struct {
	*resource.Handler[models.CurrencyDTO]
	service Service
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{
		Handler: resource.New[models.CurrencyDTO](service, logger),
		service: service,
	}
}

// Register mounts the currency routes under /currencies.
func (h *Handler) Register(r chi.Router) {
	r.Route("/currencies", func(r chi.Router) {
		h.Routes(r)
		r.Get("/code/{code}", h.handleByCode)
		r.Get("/code-prefix/{prefix}", h.handleByCodePrefix)
	})
}

func (h *Handler) handleByCode(w http.ResponseWriter, r *http.Request) {
	dto, err := h.service.ByCode(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		h.Fail(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, dto)
}

func (h *Handler) handleByCodePrefix(w http.ResponseWriter, r *http.Request) {
	req, ok := h.PageRequest(w, r)
	if !ok {
		return
	}
	page, err := h.service.ByCodePrefix(r.Context(), chi.URLParam(r, "prefix"), req)
	h.ServePage(w, r, page, err)
}
