package service

import (
	"context"
	"time"

	"backoffice/internal/budget/models"
	"backoffice/internal/budget/store"
	"backoffice/internal/platform/crud"
	"backoffice/internal/query"
	"backoffice/internal/validation"
	dErrors "backoffice/pkg/domain-errors"
	stringutil "backoffice/pkg/platform/strings"
)

// DocumentKind is the target kind named when a document id does not resolve.
const DocumentKind = "Document"

type ModificationService struct {
	*crud.Service[models.BudgetModification, models.BudgetModificationDTO]
	documents validation.ResolveFunc
}

// NewModificationService validates demande and response ids with documents.
func NewModificationService(repo query.Repository[models.BudgetModification], documents validation.ResolveFunc, opts ...crud.Option) *ModificationService {
	s := &ModificationService{documents: documents}
	s.Service = crud.New(models.ModificationKind, repo, store.ModificationSchema,
		crud.Mapper[models.BudgetModification, models.BudgetModificationDTO]{
			ToDTO:    models.ModificationToDTO,
			ToEntity: models.ModificationToEntity,
		},
		crud.Hooks[models.BudgetModification]{
			Normalize: func(m *models.BudgetModification) {
				stringutil.TrimAll(&m.Description)
				if !m.ApprovalDate.IsZero() {
					y, mo, d := m.ApprovalDate.Date()
					m.ApprovalDate = time.Date(y, mo, d, 0, 0, 0, 0, time.UTC)
				}
			},
			Plan:        s.plan,
			Constraints: store.ModificationConstraints,
		},
		opts...,
	)
	return s
}

func (s *ModificationService) plan(m models.BudgetModification) *validation.Plan {
	key := []string{"approvalDate", "demandeId"}
	return validation.For(models.ModificationKind).
		RequireRef("demandeId", m.DemandeID).
		RequireRef("responseId", m.ResponseID).
		RequirePresent("approvalDate", !m.ApprovalDate.IsZero()).
		MaxLen("description", m.Description, validation.MaxDescription).
		UniqueTogether(key, []any{m.ApprovalDate.Format(time.DateOnly), m.DemandeID},
			s.UniqueTogether(key, []any{m.ApprovalDate, m.DemandeID})).
		Reference("demandeId", DocumentKind, m.DemandeID, s.documents).
		Reference("responseId", DocumentKind, m.ResponseID, s.documents)
}

// ByApprovalDateRange pages through modifications approved between from and
// to inclusive. Zero bounds are open.
func (s *ModificationService) ByApprovalDateRange(ctx context.Context, from, to time.Time, req query.PageRequest) (*query.Page[models.BudgetModificationDTO], error) {
	if !from.IsZero() && !to.IsZero() && from.After(to) {
		return nil, dErrors.New(dErrors.CodeBadRequest, "from must not be after to")
	}
	var where []query.Criterion
	if !from.IsZero() {
		where = append(where, query.Gte("approvalDate", from))
	}
	if !to.IsZero() {
		where = append(where, query.Lte("approvalDate", to))
	}
	return s.Filter(ctx, req, where...)
}

func (s *ModificationService) ByDemande(ctx context.Context, documentID int64, req query.PageRequest) (*query.Page[models.BudgetModificationDTO], error) {
	return s.Filter(ctx, req, query.Eq("demandeId", documentID))
}

func (s *ModificationService) ByResponse(ctx context.Context, documentID int64, req query.PageRequest) (*query.Page[models.BudgetModificationDTO], error) {
	return s.Filter(ctx, req, query.Eq("responseId", documentID))
}

// CountInYear counts modifications approved during year.
func (s *ModificationService) CountInYear(ctx context.Context, year int) (int64, error) {
	from := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC)
	return s.Count(ctx, query.Gte("approvalDate", from), query.Lte("approvalDate", to))
}
