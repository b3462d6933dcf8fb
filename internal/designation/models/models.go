// Package models holds the designation kinds: four tables of localized
// names that share one shape and one set of rules.
package models

import "backoffice/internal/query"

// Kind describes one designation table.
type Kind struct {
	// Name is used in errors, metrics and audit events.
	Name string
	// Path is the REST resource segment.
	Path string
	// Table is the Postgres table name.
	Table string
	// Catalog classifies records by their designations. Empty for kinds
	// without categories.
	Catalog query.Catalog
}

// Statuses classifies status designations.
var Statuses = query.NewCatalog(
	query.Entry{Category: "pending", Keywords: []string{"attente", "pending", "en cours d'examen", "soumis"}},
	query.Entry{Category: "approved", Keywords: []string{"approuv", "approved", "valid", "accept"}},
	query.Entry{Category: "rejected", Keywords: []string{"rejet", "reject", "refus", "annul"}},
	query.Entry{Category: "in-progress", Keywords: []string{"en cours", "in progress", "progress", "réalisation"}},
	query.Entry{Category: "completed", Keywords: []string{"termin", "achev", "complet", "clôtur"}},
)

var (
	RealizationDirector = Kind{Name: "RealizationDirector", Path: "realization-directors", Table: "realization_directors"}
	RealizationNature   = Kind{Name: "RealizationNature", Path: "realization-natures", Table: "realization_natures"}
	RealizationStatus   = Kind{Name: "RealizationStatus", Path: "realization-statuses", Table: "realization_statuses", Catalog: Statuses}
	ApprovalStatus      = Kind{Name: "ApprovalStatus", Path: "approval-statuses", Table: "approval_statuses", Catalog: Statuses}
)

// Kinds lists every designation kind.
var Kinds = []Kind{RealizationDirector, RealizationNature, RealizationStatus, ApprovalStatus}

// Designation is a localized name. Only the French designation is required
// and unique.
type Designation struct {
	ID            int64
	DesignationAr string
	DesignationEn string
	DesignationFr string
}

type DesignationDTO struct {
	ID            int64          `json:"id"`
	DesignationAr string         `json:"designationAr"`
	DesignationEn string         `json:"designationEn"`
	DesignationFr string         `json:"designationFr"`
	Category      query.Category `json:"category,omitempty"`
}

// ToDTO maps d and classifies it with catalog.
func ToDTO(d Designation, catalog query.Catalog) DesignationDTO {
	dto := DesignationDTO{
		ID:            d.ID,
		DesignationAr: d.DesignationAr,
		DesignationEn: d.DesignationEn,
		DesignationFr: d.DesignationFr,
	}
	dto.Category, _ = catalog.Classify(d.DesignationFr, d.DesignationEn)
	return dto
}

// ToEntity ignores the derived category.
func ToEntity(dto DesignationDTO) Designation {
	return Designation{
		ID:            dto.ID,
		DesignationAr: dto.DesignationAr,
		DesignationEn: dto.DesignationEn,
		DesignationFr: dto.DesignationFr,
	}
}
