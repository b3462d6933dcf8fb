package models

import (
	"time"

	"backoffice/internal/query"
)

const (
	BudgetTypeKind         = "BudgetType"
	FinancialOperationKind = "FinancialOperation"
	ModificationKind       = "BudgetModification"
)

// BudgetTypeCategories classifies budget types by designation or acronym.
var BudgetTypeCategories = query.NewCatalog(
	query.Entry{Category: "investment", Keywords: []string{"investissement", "investment", "capital", "équipement"}},
	query.Entry{Category: "operating", Keywords: []string{"fonctionnement", "operating", "gestion", "courant"}},
	query.Entry{Category: "supplementary", Keywords: []string{"complémentaire", "supplémentaire", "supplementary", "rectificati"}},
	query.Entry{Category: "special", Keywords: []string{"spécial", "special", "exceptionnel", "affectation"}},
)

// BudgetType requires the French designation and acronym, each unique on
// its own.
type BudgetType struct {
	ID            int64
	DesignationAr string
	DesignationEn string
	DesignationFr string
	AcronymAr     string
	AcronymEn     string
	AcronymFr     string
}

type BudgetTypeDTO struct {
	ID            int64          `json:"id"`
	DesignationAr string         `json:"designationAr"`
	DesignationEn string         `json:"designationEn"`
	DesignationFr string         `json:"designationFr"`
	AcronymAr     string         `json:"acronymAr"`
	AcronymEn     string         `json:"acronymEn"`
	AcronymFr     string         `json:"acronymFr"`
	Category      query.Category `json:"category,omitempty"`
}

func BudgetTypeToDTO(b BudgetType) BudgetTypeDTO {
	dto := BudgetTypeDTO{
		ID:            b.ID,
		DesignationAr: b.DesignationAr,
		DesignationEn: b.DesignationEn,
		DesignationFr: b.DesignationFr,
		AcronymAr:     b.AcronymAr,
		AcronymEn:     b.AcronymEn,
		AcronymFr:     b.AcronymFr,
	}
	dto.Category, _ = BudgetTypeCategories.Classify(b.DesignationFr, b.DesignationEn, b.AcronymFr)
	return dto
}

func BudgetTypeToEntity(d BudgetTypeDTO) BudgetType {
	return BudgetType{
		ID:            d.ID,
		DesignationAr: d.DesignationAr,
		DesignationEn: d.DesignationEn,
		DesignationFr: d.DesignationFr,
		AcronymAr:     d.AcronymAr,
		AcronymEn:     d.AcronymEn,
		AcronymFr:     d.AcronymFr,
	}
}

// FinancialOperation is a budgeted operation for one year under one budget
// type. BudgetYear is kept as the four digit string it was submitted as.
type FinancialOperation struct {
	ID           int64
	Operation    string
	BudgetYear   string
	BudgetTypeID int64
}

type FinancialOperationDTO struct {
	ID           int64  `json:"id"`
	Operation    string `json:"operation"`
	BudgetYear   string `json:"budgetYear"`
	BudgetTypeID int64  `json:"budgetTypeId"`
	// BudgetType is only set by the relations endpoint.
	BudgetType *BudgetTypeDTO `json:"budgetType,omitempty"`
}

func FinancialOperationToDTO(f FinancialOperation) FinancialOperationDTO {
	return FinancialOperationDTO{
		ID:           f.ID,
		Operation:    f.Operation,
		BudgetYear:   f.BudgetYear,
		BudgetTypeID: f.BudgetTypeID,
	}
}

func FinancialOperationToEntity(d FinancialOperationDTO) FinancialOperation {
	return FinancialOperation{
		ID:           d.ID,
		Operation:    d.Operation,
		BudgetYear:   d.BudgetYear,
		BudgetTypeID: d.BudgetTypeID,
	}
}

// BudgetModification records the approval of a change request. The pair
// (ApprovalDate, DemandeID) is unique.
type BudgetModification struct {
	ID           int64
	DemandeID    int64
	ResponseID   int64
	ApprovalDate time.Time
	Description  string
}

type BudgetModificationDTO struct {
	ID           int64  `json:"id"`
	DemandeID    int64  `json:"demandeId"`
	ResponseID   int64  `json:"responseId"`
	ApprovalDate Date   `json:"approvalDate"`
	Description  string `json:"description"`
}

func ModificationToDTO(m BudgetModification) BudgetModificationDTO {
	return BudgetModificationDTO{
		ID:           m.ID,
		DemandeID:    m.DemandeID,
		ResponseID:   m.ResponseID,
		ApprovalDate: Date{m.ApprovalDate},
		Description:  m.Description,
	}
}

func ModificationToEntity(d BudgetModificationDTO) BudgetModification {
	return BudgetModification{
		ID:           d.ID,
		DemandeID:    d.DemandeID,
		ResponseID:   d.ResponseID,
		ApprovalDate: d.ApprovalDate.Time,
		Description:  d.Description,
	}
}
