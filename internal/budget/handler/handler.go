package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"backoffice/internal/budget/models"
	"backoffice/internal/budget/service"
	"backoffice/internal/platform/resource"
	"backoffice/internal/query"
	"backoffice/internal/validation"
	dErrors "backoffice/pkg/domain-errors"
	"backoffice/pkg/platform/httputil"
)

type BudgetTypeService interface {
	resource.Service[models.BudgetTypeDTO]
	Catalog() query.Catalog
	ByAcronym(ctx context.Context, acronym string) (*models.BudgetTypeDTO, error)
}

type FinancialOperationService interface {
	resource.Service[models.FinancialOperationDTO]
	ByBudgetType(ctx context.Context, budgetTypeID int64, req query.PageRequest) (*query.Page[models.FinancialOperationDTO], error)
	CountByBudgetType(ctx context.Context, budgetTypeID int64) (int64, error)
	ByYearRange(ctx context.Context, from, to string, req query.PageRequest) (*query.Page[models.FinancialOperationDTO], error)
	ByBudgetTypeCategory(ctx context.Context, category query.Category, req query.PageRequest) (*query.Page[models.FinancialOperationDTO], error)
	WithRelations(ctx context.Context, id int64) (*models.FinancialOperationDTO, error)
	SummaryForYear(ctx context.Context, year string) (*service.YearSummary, error)
}

type ModificationService interface {
	resource.Service[models.BudgetModificationDTO]
	ByApprovalDateRange(ctx context.Context, from, to time.Time, req query.PageRequest) (*query.Page[models.BudgetModificationDTO], error)
	ByDemande(ctx context.Context, documentID int64, req query.PageRequest) (*query.Page[models.BudgetModificationDTO], error)
	ByResponse(ctx context.Context, documentID int64, req query.PageRequest) (*query.Page[models.BudgetModificationDTO], error)
	CountInYear(ctx context.Context, year int) (int64, error)
}

type Handler struct {
	budgetTypes   BudgetTypeService
	operations    FinancialOperationService
	modifications ModificationService

	budgetTypeRoutes   *resource.Handler[models.BudgetTypeDTO]
	operationRoutes    *resource.Handler[models.FinancialOperationDTO]
	modificationRoutes *resource.Handler[models.BudgetModificationDTO]
}

func New(budgetTypes BudgetTypeService, operations FinancialOperationService, modifications ModificationService, logger *slog.Logger) *Handler {
	return &Handler{
		budgetTypes:        budgetTypes,
		operations:         operations,
		modifications:      modifications,
		budgetTypeRoutes:   resource.New[models.BudgetTypeDTO](budgetTypes, logger),
		operationRoutes:    resource.New[models.FinancialOperationDTO](operations, logger),
		modificationRoutes: resource.New[models.BudgetModificationDTO](modifications, logger),
	}
}

func (h *Handler) Register(r chi.Router) {
	r.Route("/budget-types", func(r chi.Router) {
		h.budgetTypeRoutes.Routes(r)
		h.budgetTypeRoutes.Categories(r, h.budgetTypes.Catalog(), "designationFr")
		r.Get("/acronym/{acronym}", h.handleBudgetTypeByAcronym)
	})
	r.Route("/financial-operations", func(r chi.Router) {
		h.operationRoutes.Routes(r)
		r.Get("/by-budget-type/{budgetTypeId}", h.handleOperationsByBudgetType)
		r.Get("/count/by-budget-type/{budgetTypeId}", h.handleCountOperationsByBudgetType)
		r.Get("/by-year-range", h.handleOperationsByYearRange)
		r.Get("/by-category/{category}", h.handleOperationsByCategory)
		r.Get("/summary/{year}", h.handleOperationSummary)
		r.Get("/{id}/relations", h.handleOperationRelations)
	})
	r.Route("/budget-modifications", func(r chi.Router) {
		h.modificationRoutes.Routes(r)
		r.Get("/by-approval-date", h.handleModificationsByDate)
		r.Get("/by-demande/{documentId}", h.handleModificationsByDemande)
		r.Get("/by-response/{documentId}", h.handleModificationsByResponse)
		r.Get("/count/by-year/{year}", h.handleCountModificationsInYear)
	})
}

func (h *Handler) handleBudgetTypeByAcronym(w http.ResponseWriter, r *http.Request) {
	dto, err := h.budgetTypes.ByAcronym(r.Context(), chi.URLParam(r, "acronym"))
	if err != nil {
		h.budgetTypeRoutes.Fail(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, dto)
}

func (h *Handler) handleOperationsByBudgetType(w http.ResponseWriter, r *http.Request) {
	id, err := httputil.PathID(r, "budgetTypeId")
	if err != nil {
		h.operationRoutes.Fail(w, r, err)
		return
	}
	req, ok := h.operationRoutes.PageRequest(w, r)
	if !ok {
		return
	}
	page, err := h.operations.ByBudgetType(r.Context(), id, req)
	h.operationRoutes.ServePage(w, r, page, err)
}

func (h *Handler) handleCountOperationsByBudgetType(w http.ResponseWriter, r *http.Request) {
	id, err := httputil.PathID(r, "budgetTypeId")
	if err != nil {
		h.operationRoutes.Fail(w, r, err)
		return
	}
	n, err := h.operations.CountByBudgetType(r.Context(), id)
	if err != nil {
		h.operationRoutes.Fail(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.CountResponse{Count: n})
}

func (h *Handler) handleOperationsByYearRange(w http.ResponseWriter, r *http.Request) {
	req, ok := h.operationRoutes.PageRequest(w, r)
	if !ok {
		return
	}
	q := r.URL.Query()
	page, err := h.operations.ByYearRange(r.Context(), q.Get("from"), q.Get("to"), req)
	h.operationRoutes.ServePage(w, r, page, err)
}

func (h *Handler) handleOperationsByCategory(w http.ResponseWriter, r *http.Request) {
	req, ok := h.operationRoutes.PageRequest(w, r)
	if !ok {
		return
	}
	page, err := h.operations.ByBudgetTypeCategory(r.Context(), query.Category(chi.URLParam(r, "category")), req)
	h.operationRoutes.ServePage(w, r, page, err)
}

func (h *Handler) handleOperationSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.operations.SummaryForYear(r.Context(), chi.URLParam(r, "year"))
	if err != nil {
		h.operationRoutes.Fail(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, summary)
}

func (h *Handler) handleOperationRelations(w http.ResponseWriter, r *http.Request) {
	id, err := httputil.PathID(r, "id")
	if err != nil {
		h.operationRoutes.Fail(w, r, err)
		return
	}
	dto, err := h.operations.WithRelations(r.Context(), id)
	if err != nil {
		h.operationRoutes.Fail(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, dto)
}

func (h *Handler) handleModificationsByDate(w http.ResponseWriter, r *http.Request) {
	req, ok := h.modificationRoutes.PageRequest(w, r)
	if !ok {
		return
	}
	from, err := optionalDate(r, "from")
	if err != nil {
		h.modificationRoutes.Fail(w, r, err)
		return
	}
	to, err := optionalDate(r, "to")
	if err != nil {
		h.modificationRoutes.Fail(w, r, err)
		return
	}
	page, err := h.modifications.ByApprovalDateRange(r.Context(), from, to, req)
	h.modificationRoutes.ServePage(w, r, page, err)
}

func (h *Handler) handleModificationsByDemande(w http.ResponseWriter, r *http.Request) {
	h.serveByDocument(w, r, h.modifications.ByDemande)
}

func (h *Handler) handleModificationsByResponse(w http.ResponseWriter, r *http.Request) {
	h.serveByDocument(w, r, h.modifications.ByResponse)
}

func (h *Handler) serveByDocument(w http.ResponseWriter, r *http.Request,
	find func(context.Context, int64, query.PageRequest) (*query.Page[models.BudgetModificationDTO], error)) {
	id, err := httputil.PathID(r, "documentId")
	if err != nil {
		h.modificationRoutes.Fail(w, r, err)
		return
	}
	req, ok := h.modificationRoutes.PageRequest(w, r)
	if !ok {
		return
	}
	page, err := find(r.Context(), id, req)
	h.modificationRoutes.ServePage(w, r, page, err)
}

func (h *Handler) handleCountModificationsInYear(w http.ResponseWriter, r *http.Request) {
	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil {
		h.modificationRoutes.Fail(w, r, dErrors.New(dErrors.CodeBadRequest, "invalid year"))
		return
	}
	n, err := h.modifications.CountInYear(r.Context(), year)
	if err != nil {
		h.modificationRoutes.Fail(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.CountResponse{Count: n})
}

// optionalDate parses a YYYY-MM-DD query parameter; zero when absent.
func optionalDate(r *http.Request, name string) (time.Time, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return time.Time{}, nil
	}
	t, err := validation.Date(models.ModificationKind, name, raw)
	if err != nil {
		return time.Time{}, dErrors.Wrap(err, dErrors.CodeBadRequest, "invalid "+name+" date "+raw)
	}
	return t, nil
}
