package handler

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"

	"backoffice/internal/budget/models"
	"backoffice/internal/budget/service"
	"backoffice/internal/budget/store"
	"backoffice/internal/query"
	"backoffice/pkg/platform/httputil"
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
	ctx := context.Background()
	budgetTypes := service.NewBudgetTypeService(store.NewBudgetTypeMemory())
	operations := service.NewFinancialOperationService(store.NewFinancialOperationMemory(), budgetTypes)
	modifications := service.NewModificationService(store.NewModificationMemory(), func(context.Context, int64) (bool, error) {
		return true, nil
	})

	bt, err := budgetTypes.Create(ctx, models.BudgetTypeDTO{DesignationFr: "Budget d'investissement", AcronymFr: "BI"})
	s.Require().NoError(err)
	_, err = operations.Create(ctx, models.FinancialOperationDTO{Operation: "Acquisition de matériel", BudgetYear: "2025", BudgetTypeID: bt.ID})
	s.Require().NoError(err)
	_, err = modifications.Create(ctx, models.BudgetModificationDTO{DemandeID: 1, ResponseID: 2, ApprovalDate: models.NewDate(2025, time.March, 14)})
	s.Require().NoError(err)

	s.router = chi.NewRouter()
	New(budgetTypes, operations, modifications, slog.New(slog.NewTextHandler(io.Discard, nil))).Register(s.router)
}

func (s *HandlerSuite) get(path string) *httptest.ResponseRecorder {
	return testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, path))
}

func (s *HandlerSuite) TestBudgetTypeRoutes() {
	rr := s.get("/budget-types/investment")
	testutil.AssertStatus(s.T(), rr, http.StatusOK)
	s.Equal(int64(1), testutil.UnmarshalResponse[query.Page[models.BudgetTypeDTO]](s.T(), rr).TotalElements)

	rr = s.get("/budget-types/acronym/BI")
	testutil.AssertStatus(s.T(), rr, http.StatusOK)
	s.Equal(query.Category("investment"), testutil.UnmarshalResponse[models.BudgetTypeDTO](s.T(), rr).Category)

	rr = testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodDelete, "/budget-types/1"))
	testutil.AssertStatusAndError(s.T(), rr, http.StatusConflict, "conflict")
}

func (s *HandlerSuite) TestOperationRoutes() {
	rr := s.get("/financial-operations/1/relations")
	testutil.AssertStatus(s.T(), rr, http.StatusOK)
	s.Equal("BI", testutil.UnmarshalResponse[models.FinancialOperationDTO](s.T(), rr).BudgetType.AcronymFr)

	rr = s.get("/financial-operations/count/by-budget-type/1")
	s.Equal(int64(1), testutil.UnmarshalResponse[httputil.CountResponse](s.T(), rr).Count)

	rr = s.get("/financial-operations/by-year-range?from=2024&to=2025")
	s.Equal(int64(1), testutil.UnmarshalResponse[query.Page[models.FinancialOperationDTO]](s.T(), rr).TotalElements)

	rr = s.get("/financial-operations/by-year-range?from=24")
	testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "bad_request")

	rr = s.get("/financial-operations/summary/2025")
	s.Equal(int64(1), testutil.UnmarshalResponse[service.YearSummary](s.T(), rr).Total)

	rr = testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodPost, "/financial-operations",
		models.FinancialOperationDTO{Operation: "Opération ancienne", BudgetYear: "1999", BudgetTypeID: 1}))
	testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "validation_error")
	s.Equal("budgetYear", testutil.UnmarshalErrorResponse(s.T(), rr).Field)

	rr = testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodPost, "/financial-operations",
		models.FinancialOperationDTO{Operation: "Type absent", BudgetYear: "2025", BudgetTypeID: 9}))
	testutil.AssertStatusAndError(s.T(), rr, http.StatusUnprocessableEntity, "reference_not_found")
}

func (s *HandlerSuite) TestModificationRoutes() {
	rr := s.get("/budget-modifications/by-approval-date?from=2025-03-01&to=2025-03-31")
	testutil.AssertStatus(s.T(), rr, http.StatusOK)
	page := testutil.UnmarshalResponse[query.Page[models.BudgetModificationDTO]](s.T(), rr)
	s.Require().Len(page.Content, 1)
	s.Equal("2025-03-14", page.Content[0].ApprovalDate.Format(time.DateOnly))

	rr = s.get("/budget-modifications/by-approval-date?from=14-03-2025")
	testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "bad_request")

	rr = s.get("/budget-modifications/by-response/2")
	s.Equal(int64(1), testutil.UnmarshalResponse[query.Page[models.BudgetModificationDTO]](s.T(), rr).TotalElements)

	rr = s.get("/budget-modifications/count/by-year/2025")
	s.Equal(int64(1), testutil.UnmarshalResponse[httputil.CountResponse](s.T(), rr).Count)

	rr = testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodPost, "/budget-modifications",
		models.BudgetModificationDTO{DemandeID: 1, ResponseID: 3, ApprovalDate: models.NewDate(2025, time.March, 14)}))
	testutil.AssertStatusAndError(s.T(), rr, http.StatusConflict, "conflict")
}
