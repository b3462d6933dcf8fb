package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"backoffice/internal/query"
)

func TestRoundTrip(t *testing.T) {
	t.Run("budget type", func(t *testing.T) {
		b := BudgetType{ID: 1, DesignationAr: "ميزانية التجهيز", DesignationEn: "Capital budget", DesignationFr: "Budget d'équipement", AcronymAr: "م ت", AcronymEn: "CB", AcronymFr: "BE"}
		assert.Equal(t, b, BudgetTypeToEntity(BudgetTypeToDTO(b)))
	})

	t.Run("financial operation", func(t *testing.T) {
		f := FinancialOperation{ID: 2, Operation: "Acquisition de matériel", BudgetYear: "2025", BudgetTypeID: 1}
		assert.Equal(t, f, FinancialOperationToEntity(FinancialOperationToDTO(f)))
	})

	t.Run("budget modification", func(t *testing.T) {
		m := BudgetModification{ID: 3, DemandeID: 10, ResponseID: 11, ApprovalDate: time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC), Description: "Virement de crédits"}
		assert.Equal(t, m, ModificationToEntity(ModificationToDTO(m)))
	})
}

func TestBudgetTypeCategory(t *testing.T) {
	tests := []struct {
		designation string
		expected    query.Category
	}{
		{"Budget d'investissement", "investment"},
		{"Budget de fonctionnement", "operating"},
		{"Loi de finances complémentaire", "supplementary"},
		{"Compte d'affectation spéciale", "special"},
		{"Autre", ""},
	}
	for _, tt := range tests {
		t.Run(tt.designation, func(t *testing.T) {
			assert.Equal(t, tt.expected, BudgetTypeToDTO(BudgetType{DesignationFr: tt.designation}).Category)
		})
	}
}

func TestDateJSON(t *testing.T) {
	raw, err := json.Marshal(BudgetModificationDTO{ApprovalDate: NewDate(2025, time.March, 14)})
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"approvalDate":"2025-03-14"`)

	var dto BudgetModificationDTO
	require.NoError(t, json.Unmarshal([]byte(`{"approvalDate":null}`), &dto))
	assert.True(t, dto.ApprovalDate.IsZero())

	assert.Error(t, json.Unmarshal([]byte(`{"approvalDate":"14/03/2025"}`), &dto))
}
