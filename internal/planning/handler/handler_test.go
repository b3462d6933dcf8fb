package handler

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"

	"backoffice/internal/planning/models"
	"backoffice/internal/planning/service"
	"backoffice/internal/planning/store"
	"backoffice/internal/platform/crud"
	"backoffice/internal/query"
	"backoffice/pkg/platform/httputil"
	txcontext "backoffice/pkg/platform/tx"
	"backoffice/pkg/testutil"
)

type HandlerSuite struct {
	suite.Suite
	router chi.Router
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) SetupTest() {
	opt := crud.WithTx(txcontext.NewLockRunner())
	resolveAll := func(context.Context, int64) (bool, error) { return true, nil }
	distributionRepo := store.NewDistributionMemory()
	domains := service.NewDomainService(store.NewDomainMemory(), opt)
	rubrics := service.NewRubricService(store.NewRubricMemory(), domains, opt)
	items := service.NewItemService(store.NewItemMemory(), rubrics, opt)
	planned := service.NewPlannedItemService(store.NewPlannedItemMemory(), items, resolveAll, distributionRepo, opt)
	distributions := service.NewDistributionService(distributionRepo, planned, resolveAll, opt)

	s.router = chi.NewRouter()
	New(Services{Domains: domains, Rubrics: rubrics, Items: items, PlannedItems: planned, Distributions: distributions},
		slog.New(slog.NewTextHandler(io.Discard, nil))).Register(s.router)

	s.post("/domains", models.DomainDTO{DesignationFr: "Équipement"}, http.StatusCreated)
	s.post("/rubrics", models.RubricDTO{DesignationFr: "Mobilier", DomainID: 1}, http.StatusCreated)
	s.post("/items", models.ItemDTO{DesignationFr: "Chaise", RubricID: 1}, http.StatusCreated)
	s.post("/planned-items", map[string]any{"itemId": 1, "financialOperationId": 1, "plannedQuantity": 10}, http.StatusCreated)
}

func (s *HandlerSuite) post(path string, body any, status int) {
	rr := testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodPost, path, body))
	testutil.AssertStatus(s.T(), rr, status)
}

func (s *HandlerSuite) TestDistributionConservation() {
	s.post("/item-distributions", map[string]any{"plannedItemId": 1, "structureId": 1, "quantity": "6"}, http.StatusCreated)

	rr := testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodPost, "/item-distributions",
		map[string]any{"plannedItemId": 1, "structureId": 2, "quantity": "4.5"}))
	testutil.AssertStatusAndError(s.T(), rr, http.StatusUnprocessableEntity, "invariant_violation")
	body := testutil.UnmarshalErrorResponse(s.T(), rr)
	s.Equal(models.DistributionKind, body.Entity)
	s.Equal("quantity", body.Field)

	rr = testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/item-distributions/sum?plannedItemId=1"))
	testutil.AssertStatus(s.T(), rr, http.StatusOK)
	s.Equal("6", testutil.UnmarshalResponse[models.DistributedSum](s.T(), rr).Sum.String())

	rr = testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/item-distributions/sum"))
	testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "bad_request")

	rr = testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/planned-items/1/summary"))
	summary := testutil.UnmarshalResponse[models.QuantitySummary](s.T(), rr)
	s.Equal("4", summary.Remaining.String())

	rr = testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodPut, "/planned-items/1",
		map[string]any{"itemId": 1, "financialOperationId": 1, "plannedQuantity": 5}))
	testutil.AssertStatusAndError(s.T(), rr, http.StatusUnprocessableEntity, "invariant_violation")
}

func (s *HandlerSuite) TestHierarchyRoutes() {
	rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/rubrics/1/relations"))
	testutil.AssertStatus(s.T(), rr, http.StatusOK)
	rubric := testutil.UnmarshalResponse[models.RubricDTO](s.T(), rr)
	s.Equal("Équipement", rubric.Domain.DesignationFr)
	s.Len(rubric.Items, 1)

	rr = testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/rubrics/by-domain/1"))
	s.Equal(int64(1), testutil.UnmarshalResponse[query.Page[models.RubricDTO]](s.T(), rr).TotalElements)

	rr = testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/rubrics/count/by-domain/1"))
	s.Equal(int64(1), testutil.UnmarshalResponse[httputil.CountResponse](s.T(), rr).Count)

	rr = testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/items/by-rubric/abc"))
	testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "bad_request")

	rr = testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodDelete, "/domains/1"))
	testutil.AssertStatusAndError(s.T(), rr, http.StatusConflict, "conflict")

	rr = testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/planned-items/1/relations"))
	planned := testutil.UnmarshalResponse[models.PlannedItemDTO](s.T(), rr)
	s.Equal("Chaise", planned.Item.DesignationFr)
	s.Equal("10", planned.RemainingQuantity.String())
}
