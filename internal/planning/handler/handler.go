package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"backoffice/internal/planning/models"
	"backoffice/internal/platform/resource"
	"backoffice/internal/query"
	dErrors "backoffice/pkg/domain-errors"
	"backoffice/pkg/platform/httputil"
)

type DomainService interface {
	resource.Service[models.DomainDTO]
	WithRelations(ctx context.Context, id int64) (*models.DomainDTO, error)
}

type RubricService interface {
	resource.Service[models.RubricDTO]
	ByDomain(ctx context.Context, domainID int64, req query.PageRequest) (*query.Page[models.RubricDTO], error)
	CountByDomain(ctx context.Context, domainID int64) (int64, error)
	WithRelations(ctx context.Context, id int64) (*models.RubricDTO, error)
}

type ItemService interface {
	resource.Service[models.ItemDTO]
	ByRubric(ctx context.Context, rubricID int64, req query.PageRequest) (*query.Page[models.ItemDTO], error)
	WithRelations(ctx context.Context, id int64) (*models.ItemDTO, error)
}

type PlannedItemService interface {
	resource.Service[models.PlannedItemDTO]
	ByItem(ctx context.Context, itemID int64, req query.PageRequest) (*query.Page[models.PlannedItemDTO], error)
	ByFinancialOperation(ctx context.Context, operationID int64, req query.PageRequest) (*query.Page[models.PlannedItemDTO], error)
	Summary(ctx context.Context, id int64) (*models.QuantitySummary, error)
	WithRelations(ctx context.Context, id int64) (*models.PlannedItemDTO, error)
}

type DistributionService interface {
	resource.Service[models.ItemDistributionDTO]
	ByPlannedItem(ctx context.Context, plannedItemID int64, req query.PageRequest) (*query.Page[models.ItemDistributionDTO], error)
	ByStructure(ctx context.Context, structureID int64, req query.PageRequest) (*query.Page[models.ItemDistributionDTO], error)
	Sum(ctx context.Context, plannedItemID int64) (*models.DistributedSum, error)
}

// Services groups the planning services mounted by the handler.
type Services struct {
	Domains       DomainService
	Rubrics       RubricService
	Items         ItemService
	PlannedItems  PlannedItemService
	Distributions DistributionService
}

type Handler struct {
	svc Services

	domains       *resource.Handler[models.DomainDTO]
	rubrics       *resource.Handler[models.RubricDTO]
	items         *resource.Handler[models.ItemDTO]
	plannedItems  *resource.Handler[models.PlannedItemDTO]
	distributions *resource.Handler[models.ItemDistributionDTO]
}

func New(svc Services, logger *slog.Logger) *Handler {
	return &Handler{
		svc:           svc,
		domains:       resource.New[models.DomainDTO](svc.Domains, logger),
		rubrics:       resource.New[models.RubricDTO](svc.Rubrics, logger),
		items:         resource.New[models.ItemDTO](svc.Items, logger),
		plannedItems:  resource.New[models.PlannedItemDTO](svc.PlannedItems, logger),
		distributions: resource.New[models.ItemDistributionDTO](svc.Distributions, logger),
	}
}

func (h *Handler) Register(r chi.Router) {
	r.Route("/domains", func(r chi.Router) {
		h.domains.Routes(r)
		r.Get("/{id}/relations", serveByID(h.domains, h.svc.Domains.WithRelations))
	})
	r.Route("/rubrics", func(r chi.Router) {
		h.rubrics.Routes(r)
		r.Get("/by-domain/{parentId}", servePageByID(h.rubrics, h.svc.Rubrics.ByDomain))
		r.Get("/count/by-domain/{parentId}", h.handleCountRubricsByDomain)
		r.Get("/{id}/relations", serveByID(h.rubrics, h.svc.Rubrics.WithRelations))
	})
	r.Route("/items", func(r chi.Router) {
		h.items.Routes(r)
		r.Get("/by-rubric/{parentId}", servePageByID(h.items, h.svc.Items.ByRubric))
		r.Get("/{id}/relations", serveByID(h.items, h.svc.Items.WithRelations))
	})
	r.Route("/planned-items", func(r chi.Router) {
		h.plannedItems.Routes(r)
		r.Get("/by-item/{parentId}", servePageByID(h.plannedItems, h.svc.PlannedItems.ByItem))
		r.Get("/by-financial-operation/{parentId}", servePageByID(h.plannedItems, h.svc.PlannedItems.ByFinancialOperation))
		r.Get("/{id}/relations", serveByID(h.plannedItems, h.svc.PlannedItems.WithRelations))
		r.Get("/{id}/summary", serveByID(h.plannedItems, h.svc.PlannedItems.Summary))
	})
	r.Route("/item-distributions", func(r chi.Router) {
		h.distributions.Routes(r)
		r.Get("/by-planned-item/{parentId}", servePageByID(h.distributions, h.svc.Distributions.ByPlannedItem))
		r.Get("/by-structure/{parentId}", servePageByID(h.distributions, h.svc.Distributions.ByStructure))
		r.Get("/sum", h.handleDistributionSum)
	})
}

func (h *Handler) handleCountRubricsByDomain(w http.ResponseWriter, r *http.Request) {
	id, err := httputil.PathID(r, "parentId")
	if err != nil {
		h.rubrics.Fail(w, r, err)
		return
	}
	n, err := h.svc.Rubrics.CountByDomain(r.Context(), id)
	if err != nil {
		h.rubrics.Fail(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.CountResponse{Count: n})
}

func (h *Handler) handleDistributionSum(w http.ResponseWriter, r *http.Request) {
	id, err := httputil.QueryID(r, "plannedItemId")
	if err == nil && id == 0 {
		err = dErrors.New(dErrors.CodeBadRequest, "plannedItemId is required")
	}
	if err != nil {
		h.distributions.Fail(w, r, err)
		return
	}
	sum, err := h.svc.Distributions.Sum(r.Context(), id)
	if err != nil {
		h.distributions.Fail(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, sum)
}

// serveByID writes the result of load for the {id} path parameter.
func serveByID[D, T any](h *resource.Handler[D], load func(context.Context, int64) (*T, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := httputil.PathID(r, "id")
		if err != nil {
			h.Fail(w, r, err)
			return
		}
		out, err := load(r.Context(), id)
		if err != nil {
			h.Fail(w, r, err)
			return
		}
		httputil.WriteJSON(w, http.StatusOK, out)
	}
}

// servePageByID pages through the children of the {parentId} path parameter.
func servePageByID[D any](h *resource.Handler[D], find func(context.Context, int64, query.PageRequest) (*query.Page[D], error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := httputil.PathID(r, "parentId")
		if err != nil {
			h.Fail(w, r, err)
			return
		}
		req, ok := h.PageRequest(w, r)
		if !ok {
			return
		}
		page, err := find(r.Context(), id, req)
		h.ServePage(w, r, page, err)
	}
}
