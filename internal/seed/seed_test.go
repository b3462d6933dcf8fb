package seed

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"

	"backoffice/internal/app"
	"backoffice/internal/audit"
	"backoffice/internal/query"
	"backoffice/pkg/testutil"
)

type SeedSuite struct {
	suite.Suite
	ctx    context.Context
	svc    *app.Services
	seeder *Seeder
}

func TestSeedSuite(t *testing.T) {
	suite.Run(t, new(SeedSuite))
}

func (s *SeedSuite) SetupTest() {
	s.ctx = context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s.svc = app.New(app.Options{Logger: logger, BcryptCost: bcrypt.MinCost})
	s.seeder = New(s.svc, logger)
}

func (s *SeedSuite) TestShippedFixture() {
	f, err := LoadFile("../../cmd/seed/fixture.yaml")
	s.Require().NoError(err)

	s.Run("first run creates every row", func() {
		res, err := s.seeder.Apply(s.ctx, f)
		s.Require().NoError(err)
		s.Equal(len(f.Currencies), res.Created["Currency"])
		s.Equal(len(f.Permissions), res.Created["Permission"])
		s.Empty(res.Skipped)

		n, err := s.svc.Currencies.Count(s.ctx)
		s.Require().NoError(err)
		s.EqualValues(len(f.Currencies), n)
	})

	s.Run("second run skips duplicates", func() {
		res, err := s.seeder.Apply(s.ctx, f)
		s.Require().NoError(err)
		s.Empty(res.Created)
		s.Equal(len(f.BudgetTypes), res.Skipped["BudgetType"])
		s.Equal(len(f.Designations["RealizationStatus"]), res.Skipped["RealizationStatus"])
	})
}

func (s *SeedSuite) TestStatusesAreClassified() {
	f, err := Load(strings.NewReader(`
designations:
  ApprovalStatus:
    - {fr: "Approuvé"}
`))
	s.Require().NoError(err)
	_, err = s.seeder.Apply(s.ctx, f)
	s.Require().NoError(err)

	svc, ok := s.svc.DesignationByName("ApprovalStatus")
	s.Require().True(ok)
	page, err := svc.ByCategory(s.ctx, "approved", query.DefaultPageRequest())
	s.Require().NoError(err)
	s.EqualValues(1, page.TotalElements)
}

func (s *SeedSuite) TestRejectsBadFixtures() {
	s.Run("unknown key", func() {
		_, err := Load(strings.NewReader("currencys: []\n"))
		s.Error(err)
	})

	s.Run("unknown designation kind", func() {
		f, err := Load(strings.NewReader("designations:\n  Colour:\n    - {fr: Rouge}\n"))
		s.Require().NoError(err)
		_, err = s.seeder.Apply(s.ctx, f)
		s.ErrorContains(err, "Colour")
	})

	s.Run("invalid row stops the run", func() {
		f, err := Load(strings.NewReader("budgetTypes:\n  - {fr: \"Sans sigle\"}\n"))
		s.Require().NoError(err)
		_, err = s.seeder.Apply(s.ctx, f)
		s.ErrorContains(err, "seed BudgetType")
	})

	s.Run("empty document", func() {
		f, err := Load(strings.NewReader(""))
		s.Require().NoError(err)
		res, err := s.seeder.Apply(s.ctx, f)
		s.Require().NoError(err)
		s.Empty(res.Created)
	})
}

func (s *SeedSuite) TestAuditTrail() {
	events := audit.NewMemoryStore()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := app.New(app.Options{Logger: logger, Audit: audit.NewPublisher(events, logger), BcryptCost: bcrypt.MinCost})
	now := time.Date(2025, 1, 15, 9, 0, 0, 0, time.UTC)
	ctx := testutil.RequestContext("seed", "seed-run-1", now)

	testutil.Given(s.T(), "a fixture naming the same authority twice", func(t *testing.T) {
		f, err := Load(strings.NewReader("authorities: [ROLE_ADMIN, ROLE_ADMIN]\n"))
		require.NoError(t, err)

		testutil.When(t, "it is applied", func(t *testing.T) {
			res, err := New(svc, logger).Apply(ctx, f)
			require.NoError(t, err)

			testutil.Then(t, "only the created row is audited, under the seed actor", func(t *testing.T) {
				assert.Equal(t, 1, res.Created["Authority"])
				assert.Equal(t, 1, res.Skipped["Authority"])
				recorded := events.Events()
				require.Len(t, recorded, 1)
				assert.Equal(t, audit.ActionCreated, recorded[0].Action)
				assert.Equal(t, "seed", recorded[0].Actor)
				assert.Equal(t, "seed-run-1", recorded[0].RequestID)
				assert.True(t, now.Equal(recorded[0].Timestamp))
			})
		})
	})
}
