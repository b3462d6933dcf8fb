package resource

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"

	"backoffice/internal/platform/crud"
	"backoffice/internal/platform/memstore"
	"backoffice/internal/query"
	"backoffice/internal/validation"
	"backoffice/pkg/platform/httputil"
	"backoffice/pkg/testutil"
)

type status struct {
	ID            int64  `json:"id"`
	DesignationFr string `json:"designationFr"`
}

var statusSchema = query.Schema[status]{
	ID:    func(s status) int64 { return s.ID },
	SetID: func(s *status, id int64) { s.ID = id },
	Fields: map[string]func(status) any{
		"designationFr": func(s status) any { return s.DesignationFr },
	},
	Search: []string{"designationFr"},
}

var statusCatalog = query.NewCatalog(
	query.Entry{Category: "pending", Keywords: []string{"attente", "pending"}},
	query.Entry{Category: "approved", Keywords: []string{"approuv", "approved"}},
)

type HandlerSuite struct {
	suite.Suite
	router chi.Router
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) SetupTest() {
	var svc *crud.Service[status, status]
	svc = crud.New("ApprovalStatus", memstore.New(statusSchema), statusSchema,
		crud.Mapper[status, status]{
			ToDTO:    func(v status) status { return v },
			ToEntity: func(v status) status { return v },
		},
		crud.Hooks[status]{Plan: func(v status) *validation.Plan {
			return validation.For("ApprovalStatus").
				Require("designationFr", v.DesignationFr).
				Unique("designationFr", v.DesignationFr, svc.Unique("designationFr", v.DesignationFr))
		}},
	)
	h := New[status](svc, slog.New(slog.NewTextHandler(io.Discard, nil)))
	s.router = chi.NewRouter()
	s.router.Route("/approval-statuses", func(r chi.Router) {
		h.Routes(r)
		h.Categories(r, statusCatalog, "designationFr")
	})

	ctx := context.Background()
	for _, name := range []string{"En attente", "Approuvé", "Rejeté"} {
		_, err := svc.Create(ctx, status{DesignationFr: name})
		s.Require().NoError(err)
	}
}

func (s *HandlerSuite) TestCreate() {
	s.Run("201 with the stored record", func() {
		rr := testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodPost, "/approval-statuses", status{DesignationFr: "Terminé"}))
		testutil.AssertStatus(s.T(), rr, http.StatusCreated)
		s.Equal(int64(4), testutil.UnmarshalResponse[status](s.T(), rr).ID)
	})

	s.Run("409 naming the duplicate value", func() {
		rr := testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodPost, "/approval-statuses", status{DesignationFr: "Rejeté"}))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusConflict, "conflict")
		body := testutil.UnmarshalErrorResponse(s.T(), rr)
		s.Equal("ApprovalStatus", body.Entity)
		s.Equal("designationFr", body.Field)
		s.Equal("Rejeté", body.Value)
	})

	s.Run("400 on blank designation", func() {
		rr := testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodPost, "/approval-statuses", status{DesignationFr: "  "}))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "validation_error")
	})

	s.Run("400 on malformed body", func() {
		req := testutil.NewRequest(s.T(), http.MethodPost, "/approval-statuses")
		rr := testutil.DoRequest(s.router, req)
		testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "bad_request")
	})
}

func (s *HandlerSuite) TestReadUpdateDelete() {
	rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/approval-statuses/2"))
	testutil.AssertStatus(s.T(), rr, http.StatusOK)
	s.Equal("Approuvé", testutil.UnmarshalResponse[status](s.T(), rr).DesignationFr)

	rr = testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/approval-statuses/99"))
	testutil.AssertStatusAndError(s.T(), rr, http.StatusNotFound, "not_found")

	rr = testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/approval-statuses/abc"))
	testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "bad_request")

	rr = testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodPut, "/approval-statuses/2", status{DesignationFr: "Approuvé"}))
	testutil.AssertStatus(s.T(), rr, http.StatusOK)

	rr = testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodDelete, "/approval-statuses/2"))
	testutil.AssertStatus(s.T(), rr, http.StatusNoContent)

	rr = testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/approval-statuses/2/exists"))
	testutil.AssertStatus(s.T(), rr, http.StatusOK)
	s.False(testutil.UnmarshalResponse[httputil.ExistsResponse](s.T(), rr).Exists)
}

func (s *HandlerSuite) TestQueries() {
	s.Run("paginated list", func() {
		rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/approval-statuses?page=1&size=2&sortBy=designationFr&sortDir=desc"))
		testutil.AssertStatus(s.T(), rr, http.StatusOK)
		page := testutil.UnmarshalResponse[query.Page[status]](s.T(), rr)
		s.Equal(int64(3), page.TotalElements)
		s.Equal(2, page.TotalPages)
		s.Require().Len(page.Content, 1)
		s.Equal("Approuvé", page.Content[0].DesignationFr)
		s.True(page.Last)
	})

	s.Run("unknown sort field", func() {
		rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/approval-statuses?sortBy=password"))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "bad_request")
	})

	s.Run("case insensitive search", func() {
		rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/approval-statuses/search?query=ATTENTE"))
		page := testutil.UnmarshalResponse[query.Page[status]](s.T(), rr)
		s.Equal(int64(1), page.TotalElements)
	})

	s.Run("category filter", func() {
		rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/approval-statuses/approved"))
		page := testutil.UnmarshalResponse[query.Page[status]](s.T(), rr)
		s.Require().Len(page.Content, 1)
		s.Equal(int64(2), page.Content[0].ID)
	})

	s.Run("count", func() {
		rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/approval-statuses/count"))
		s.Equal(int64(3), testutil.UnmarshalResponse[httputil.CountResponse](s.T(), rr).Count)
	})
}
