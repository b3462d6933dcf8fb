package handler

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"

	"backoffice/internal/currency/models"
	"backoffice/internal/currency/service"
	"backoffice/internal/currency/store"
	"backoffice/internal/query"
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
	svc := service.New(store.NewMemory())
	_, err := svc.Create(context.Background(), models.CurrencyDTO{
		DesignationAr: "دينار جزائري", DesignationEn: "Algerian dinar", DesignationFr: "Dinar algérien", CodeAr: "دج", CodeLt: "DZD",
	})
	s.Require().NoError(err)

	s.router = chi.NewRouter()
	New(svc, slog.New(slog.NewTextHandler(io.Discard, nil))).Register(s.router)
}

func (s *HandlerSuite) TestCodeRoutes() {
	s.Run("exact code", func() {
		rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/currencies/code/DZD"))
		testutil.AssertStatus(s.T(), rr, http.StatusOK)
		s.Equal("Dinar algérien", testutil.UnmarshalResponse[models.CurrencyDTO](s.T(), rr).DesignationFr)
	})

	s.Run("unknown code", func() {
		rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/currencies/code/XXX"))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusNotFound, "not_found")
	})

	s.Run("code prefix", func() {
		rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/currencies/code-prefix/D"))
		testutil.AssertStatus(s.T(), rr, http.StatusOK)
		s.Equal(int64(1), testutil.UnmarshalResponse[query.Page[models.CurrencyDTO]](s.T(), rr).TotalElements)
	})
}

func (s *HandlerSuite) TestDuplicateNamesFieldAndValue() {
	rr := testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodPost, "/currencies", models.CurrencyDTO{
		DesignationAr: "يورو", DesignationEn: "Euro", DesignationFr: "Euro", CodeAr: "€", CodeLt: "DZD",
	}))
	testutil.AssertStatusAndError(s.T(), rr, http.StatusConflict, "conflict")
	body := testutil.UnmarshalErrorResponse(s.T(), rr)
	s.Equal("codeLt", body.Field)
	s.Equal("DZD", body.Value)
	s.Equal(`Currency with codeLt "DZD" already exists`, body.ErrorDescription)
}
