package validation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	dErrors "backoffice/pkg/domain-errors"
	"backoffice/pkg/platform/sentinel"
)

type PlanSuite struct {
	suite.Suite
	ctx context.Context
}

func TestPlanSuite(t *testing.T) {
	suite.Run(t, new(PlanSuite))
}

func (s *PlanSuite) SetupTest() {
	s.ctx = context.Background()
}

func exists(found bool) ExistsFunc {
	return func(context.Context, int64) (bool, error) { return found, nil }
}

func (s *PlanSuite) TestRequired() {
	for _, value := range []string{"", "   ", "\t\n"} {
		err := For("Currency").Require("codeLt", value).Run(s.ctx)
		var missing *MissingFieldError
		s.Require().ErrorAs(err, &missing)
		s.Equal("codeLt", missing.Field)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
		s.Contains(err.Error(), "Currency")
	}

	s.NoError(For("Currency").Require("codeLt", "EUR").Run(s.ctx))
}

func (s *PlanSuite) TestRequiredRunsBeforeStoreQueries() {
	queried := false
	err := For("Currency").
		Require("codeLt", "").
		Unique("codeLt", "", func(context.Context, int64) (bool, error) {
			queried = true
			return false, nil
		}).
		Reference("budgetType", "BudgetType", 1, func(context.Context, int64) (bool, error) {
			queried = true
			return true, nil
		}).
		Run(s.ctx)
	s.Require().Error(err)
	s.False(queried)
}

func (s *PlanSuite) TestLayerOrder() {
	var calls []string
	p := For("BudgetType").
		Reference("x", "X", 1, func(context.Context, int64) (bool, error) {
			calls = append(calls, "ref")
			return false, nil
		}).
		Unique("designationFr", "a", func(context.Context, int64) (bool, error) {
			calls = append(calls, "unique")
			return false, nil
		}).
		Rule(func() error {
			calls = append(calls, "rule")
			return nil
		}).
		Require("designationFr", "a")

	err := p.Run(s.ctx)
	var ref *ReferenceNotFoundError
	s.Require().ErrorAs(err, &ref)
	s.Equal([]string{"rule", "unique", "ref"}, calls)
	s.True(dErrors.HasCode(err, dErrors.CodeReferenceNotFound))
}

func (s *PlanSuite) TestMaxLenCountsRunes() {
	s.NoError(For("Currency").MaxLen("designationAr", "دينار جزائري", 12).Run(s.ctx))

	err := For("Currency").MaxLen("codeLt", "ABCDE", 4).Run(s.ctx)
	var tooLong *FieldTooLongError
	s.Require().ErrorAs(err, &tooLong)
	s.Equal(4, tooLong.Max)
	s.Equal(5, tooLong.Length)
}

func (s *PlanSuite) TestUniqueExcludesSelf() {
	var seen int64
	err := For("Currency").Excluding(42).Unique("codeLt", "EUR", func(_ context.Context, excludeID int64) (bool, error) {
		seen = excludeID
		return false, nil
	}).Run(s.ctx)
	s.NoError(err)
	s.Equal(int64(42), seen)

	err = For("Currency").Unique("codeLt", "EUR", exists(true)).Run(s.ctx)
	var dup *DuplicateValueError
	s.Require().ErrorAs(err, &dup)
	s.Equal(`Currency with codeLt "EUR" already exists`, err.Error())
	s.True(dErrors.HasCode(err, dErrors.CodeConflict))
	d, ok := dErrors.DetailsOf(err)
	s.Require().True(ok)
	s.Equal("EUR", d.Value)
}

func (s *PlanSuite) TestUniqueSkipsBlankValues() {
	err := For("Currency").Unique("designationAr", " ", exists(true)).Run(s.ctx)
	s.NoError(err)
}

func (s *PlanSuite) TestUniqueTogether() {
	err := For("BudgetModification").
		UniqueTogether([]string{"approvalDate", "demande"}, []any{"2025-01-01", int64(3)}, exists(true)).
		Run(s.ctx)
	var dup *DuplicateValueError
	s.Require().ErrorAs(err, &dup)
	s.Equal([]string{"approvalDate", "demande"}, dup.Fields)
	s.Contains(err.Error(), `approvalDate "2025-01-01" and demande "3"`)
}

func (s *PlanSuite) TestReferences() {
	resolve := func(_ context.Context, id int64) (bool, error) { return id != 7, nil }

	s.NoError(For("Role").References("permissionIds", "Permission", []int64{1, 2}, resolve).Run(s.ctx))

	err := For("Role").References("permissionIds", "Permission", []int64{1, 7}, resolve).Run(s.ctx)
	var ref *ReferenceNotFoundError
	s.Require().ErrorAs(err, &ref)
	s.Equal(int64(7), ref.ID)
	s.Equal("Permission", ref.Target)
}

func (s *PlanSuite) TestStoreErrorsPropagate() {
	boom := errors.New("connection reset")
	err := For("Currency").Unique("codeLt", "EUR", func(context.Context, int64) (bool, error) {
		return false, boom
	}).Run(s.ctx)
	s.ErrorIs(err, boom)
}

func (s *PlanSuite) TestBudgetYear() {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	s.NoError(BudgetYear("FinancialOperation", "budgetYear", "2025", now))
	s.NoError(BudgetYear("FinancialOperation", "budgetYear", "2000", now))
	s.NoError(BudgetYear("FinancialOperation", "budgetYear", "2035", now))

	for _, bad := range []string{"25", "abcd", "1999", "2036", "20255", ""} {
		err := BudgetYear("FinancialOperation", "budgetYear", bad, now)
		var invalid *InvalidFormatError
		s.Require().ErrorAs(err, &invalid, bad)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	}
}

func (s *PlanSuite) TestNumericRules() {
	s.NoError(Positive("ItemDistribution", "quantity", decimal.NewFromInt(1)))
	s.Error(Positive("ItemDistribution", "quantity", decimal.Zero))
	s.Error(Positive("ItemDistribution", "quantity", decimal.NewFromInt(-1)))

	s.NoError(NonNegative("PlannedItem", "plannedQuantity", decimal.Zero))
	s.Error(NonNegative("PlannedItem", "plannedQuantity", decimal.NewFromFloat(-0.5)))
}

func (s *PlanSuite) TestQuantityFitsColumn() {
	for _, value := range []string{"0.001", "12.346", "12.3000", "-7", "999999999999999.999"} {
		s.Run("accepts "+value, func() {
			s.NoError(Quantity("ItemDistribution", "quantity", decimal.RequireFromString(value)))
		})
	}

	for _, value := range []string{"0.0004", "12.3456", "1e16", "1000000000000000", "-1000000000000000"} {
		s.Run("rejects "+value, func() {
			err := Quantity("ItemDistribution", "quantity", decimal.RequireFromString(value))
			var invalid *InvalidFormatError
			s.Require().ErrorAs(err, &invalid)
			s.Equal("quantity", invalid.Field)
			s.True(dErrors.HasCode(err, dErrors.CodeValidation))
		})
	}
}

func (s *PlanSuite) TestEmailAndDate() {
	s.NoError(Email("User", "email", "ops@example.com"))
	s.Error(Email("User", "email", "not-an-email"))
	s.Error(Email("User", "email", "Ops <ops@example.com>"))

	d, err := Date("BudgetModification", "approvalDate", "2025-03-14")
	s.Require().NoError(err)
	s.Equal(time.March, d.Month())
	_, err = Date("BudgetModification", "approvalDate", "14/03/2025")
	s.Error(err)
}

func (s *PlanSuite) TestFromStoreError() {
	constraints := []Constraint{{Name: "uk_currencies_code_lt", Fields: []string{"codeLt"}}}
	value := func(string) any { return "EUR" }

	err := FromStoreError("Currency", &sentinel.UniqueViolation{Constraint: "uk_currencies_code_lt"}, constraints, value)
	var dup *DuplicateValueError
	s.Require().ErrorAs(err, &dup)
	s.Equal([]string{"codeLt"}, dup.Fields)

	boom := errors.New("boom")
	s.Equal(boom, FromStoreError("Currency", boom, constraints, value))
}

func d(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func (s *PlanSuite) TestConserveQuantity() {
	planned := d("10")

	s.Run("create up to the planned quantity", func() {
		remaining, err := ConserveQuantity(planned, d("6"), decimal.Zero, d("4"))
		s.Require().NoError(err)
		s.True(remaining.IsZero())
	})

	s.Run("create past the planned quantity", func() {
		_, err := ConserveQuantity(planned, d("10"), decimal.Zero, d("0.001"))
		var inv *InvariantViolationError
		s.Require().ErrorAs(err, &inv)
		s.True(dErrors.HasCode(err, dErrors.CodeInvariantViolation))
	})

	s.Run("update subtracts the prior quantity", func() {
		remaining, err := ConserveQuantity(planned, d("10"), d("4"), d("3"))
		s.Require().NoError(err)
		s.True(remaining.Equal(d("1")))

		remaining, err = ConserveQuantity(planned, d("9"), d("3"), d("4"))
		s.Require().NoError(err)
		s.True(remaining.IsZero())

		_, err = ConserveQuantity(planned, d("10"), d("4"), d("5"))
		s.Error(err)
	})

	s.Run("planned quantity must cover distributions", func() {
		s.NoError(CoverDistributed(d("5"), d("5")))
		err := CoverDistributed(d("4"), d("5"))
		var inv *InvariantViolationError
		s.Require().ErrorAs(err, &inv)
		s.Equal("plannedQuantity", inv.Field)
	})
}
