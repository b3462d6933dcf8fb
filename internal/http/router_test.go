package httpapi

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"

	"backoffice/internal/app"
	currencymodels "backoffice/internal/currency/models"
	"backoffice/internal/platform/metrics"
	"backoffice/internal/reference"
	"backoffice/pkg/testutil"
)

const adminToken = "test-admin-token"

type RouterSuite struct {
	suite.Suite
	router  http.Handler
	redisUp bool
}

func TestRouterSuite(t *testing.T) {
	suite.Run(t, new(RouterSuite))
}

func (s *RouterSuite) SetupTest() {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	registry := prometheus.NewRegistry()
	m := metrics.NewWithRegisterer(registry)
	s.redisUp = true

	svc := app.New(app.Options{Logger: logger, Metrics: m, BcryptCost: bcrypt.MinCost})
	s.router = NewRouter(svc, Config{
		Logger:     logger,
		Metrics:    m,
		Gatherer:   registry,
		AdminToken: adminToken,
		Health: map[string]HealthCheck{
			"redis": func(context.Context) error {
				if !s.redisUp {
					return errors.New("connection refused")
				}
				return nil
			},
		},
	})
}

func (s *RouterSuite) do(req *http.Request) *http.Response {
	req.Header.Set("X-Admin-Token", adminToken)
	return testutil.DoRequest(s.router, req).Result()
}

func (s *RouterSuite) TestAuthentication() {
	s.Run("missing credentials are rejected", func() {
		rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/currencies"))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusUnauthorized, "unauthorized")
	})

	s.Run("admin token is accepted", func() {
		req := testutil.NewRequest(s.T(), http.MethodGet, "/currencies")
		req.Header.Set("X-Admin-Token", adminToken)
		rr := testutil.DoRequest(s.router, req)
		testutil.AssertStatus(s.T(), rr, http.StatusOK)
		s.NotEmpty(rr.Header().Get("X-Request-ID"))
	})

	s.Run("health and metrics are public", func() {
		rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/health"))
		testutil.AssertStatus(s.T(), rr, http.StatusOK)

		rr = testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/metrics"))
		testutil.AssertStatus(s.T(), rr, http.StatusOK)
	})
}

func (s *RouterSuite) TestHealthReportsDownDependency() {
	s.redisUp = false
	rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/health"))
	testutil.AssertStatus(s.T(), rr, http.StatusServiceUnavailable)

	body := testutil.UnmarshalResponse[HealthResponse](s.T(), rr)
	s.Equal("down", body.Status)
	s.Equal("down", body.Checks["redis"])
}

func (s *RouterSuite) TestContentTypeEnforced() {
	req := httptest.NewRequest(http.MethodPost, "/currencies", strings.NewReader(`{"codeLt":"DZD"}`))
	req.Header.Set("Content-Type", "text/plain")
	req.Header.Set("X-Admin-Token", adminToken)
	rr := testutil.DoRequest(s.router, req)
	testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "bad_request")
}

func (s *RouterSuite) TestModulesAreMounted() {
	paths := []string{
		"/currencies", "/realization-directors", "/realization-natures", "/realization-statuses",
		"/approval-statuses", "/structures", "/documents", "/budget-types", "/financial-operations",
		"/budget-modifications", "/domains", "/rubrics", "/items", "/planned-items",
		"/item-distributions", "/authorities", "/permissions", "/roles", "/groups", "/users",
	}
	for _, path := range paths {
		s.Run(path, func() {
			resp := s.do(testutil.NewRequest(s.T(), http.MethodGet, path))
			s.Equal(http.StatusOK, resp.StatusCode)
		})
	}
}

func (s *RouterSuite) TestCrossModuleDeleteGuard() {
	create := func(path string, body any) *http.Response {
		return s.do(testutil.NewJSONRequest(s.T(), http.MethodPost, path, body))
	}

	rr := testutil.DoRequest(s.router, withAdmin(testutil.NewJSONRequest(s.T(), http.MethodPost, "/documents",
		reference.DocumentDTO{Reference: "DEM-001", Title: "Demande"})))
	testutil.AssertStatus(s.T(), rr, http.StatusCreated)
	doc := testutil.UnmarshalResponse[reference.DocumentDTO](s.T(), rr)

	resp := create("/budget-modifications", map[string]any{
		"demandeId":    doc.ID,
		"responseId":   doc.ID,
		"approvalDate": "2024-03-01",
	})
	s.Equal(http.StatusCreated, resp.StatusCode)

	rr = testutil.DoRequest(s.router, withAdmin(testutil.NewRequest(s.T(), http.MethodDelete, "/documents/"+strconv.FormatInt(doc.ID, 10))))
	testutil.AssertStatusAndError(s.T(), rr, http.StatusConflict, "conflict")
}

func (s *RouterSuite) TestCurrencyRoundTrip() {
	rr := testutil.DoRequest(s.router, withAdmin(testutil.NewJSONRequest(s.T(), http.MethodPost, "/currencies",
		currencymodels.CurrencyDTO{
			DesignationAr: "دينار جزائري",
			DesignationEn: "Algerian dinar",
			DesignationFr: "Dinar algérien",
			CodeAr:        "دج",
			CodeLt:        "DZD",
		})))
	testutil.AssertStatus(s.T(), rr, http.StatusCreated)

	rr = testutil.DoRequest(s.router, withAdmin(testutil.NewRequest(s.T(), http.MethodGet, "/currencies/code/DZD")))
	testutil.AssertStatus(s.T(), rr, http.StatusOK)
	s.Equal("Algerian dinar", testutil.UnmarshalResponse[currencymodels.CurrencyDTO](s.T(), rr).DesignationEn)
}

func withAdmin(req *http.Request) *http.Request {
	req.Header.Set("X-Admin-Token", adminToken)
	return req
}

