// Package models holds the planning hierarchy: domains group rubrics, rubrics
// group items, items are planned per financial operation and planned
// quantities are distributed across structures.
package models

import "github.com/shopspring/decimal"

const (
	DomainKind       = "Domain"
	RubricKind       = "Rubric"
	ItemKind         = "Item"
	PlannedItemKind  = "PlannedItem"
	DistributionKind = "ItemDistribution"
)

type Domain struct {
	ID            int64
	DesignationAr string
	DesignationEn string
	DesignationFr string
}

type Rubric struct {
	ID            int64
	DesignationAr string
	DesignationEn string
	DesignationFr string
	DomainID      int64
}

type Item struct {
	ID            int64
	DesignationAr string
	DesignationEn string
	DesignationFr string
	RubricID      int64
}

// PlannedItem is the quantity of an item planned under one financial
// operation. An item is planned at most once per operation.
type PlannedItem struct {
	ID                   int64
	ItemID               int64
	FinancialOperationID int64
	PlannedQuantity      decimal.Decimal
}

// ItemDistribution hands part of a planned quantity to a structure. The
// distributions of a planned item never add up to more than it plans.
type ItemDistribution struct {
	ID            int64
	PlannedItemID int64
	StructureID   int64
	Quantity      decimal.Decimal
}

// DomainDTO embeds its rubrics only when loaded with relations.
type DomainDTO struct {
	ID            int64       `json:"id"`
	DesignationAr string      `json:"designationAr"`
	DesignationEn string      `json:"designationEn"`
	DesignationFr string      `json:"designationFr"`
	Rubrics       []RubricDTO `json:"rubrics,omitempty"`
}

type RubricDTO struct {
	ID            int64      `json:"id"`
	DesignationAr string     `json:"designationAr"`
	DesignationEn string     `json:"designationEn"`
	DesignationFr string     `json:"designationFr"`
	DomainID      int64      `json:"domainId"`
	Domain        *DomainDTO `json:"domain,omitempty"`
	Items         []ItemDTO  `json:"items,omitempty"`
}

type ItemDTO struct {
	ID            int64            `json:"id"`
	DesignationAr string           `json:"designationAr"`
	DesignationEn string           `json:"designationEn"`
	DesignationFr string           `json:"designationFr"`
	RubricID      int64            `json:"rubricId"`
	Rubric        *RubricDTO       `json:"rubric,omitempty"`
	PlannedItems  []PlannedItemDTO `json:"plannedItems,omitempty"`
}

type PlannedItemDTO struct {
	ID                   int64                 `json:"id"`
	ItemID               int64                 `json:"itemId"`
	FinancialOperationID int64                 `json:"financialOperationId"`
	PlannedQuantity      decimal.Decimal       `json:"plannedQuantity"`
	Item                 *ItemDTO              `json:"item,omitempty"`
	Distributions        []ItemDistributionDTO `json:"distributions,omitempty"`
	RemainingQuantity    *decimal.Decimal      `json:"remainingQuantity,omitempty"`
}

type ItemDistributionDTO struct {
	ID            int64           `json:"id"`
	PlannedItemID int64           `json:"plannedItemId"`
	StructureID   int64           `json:"structureId"`
	Quantity      decimal.Decimal `json:"quantity"`
}

// QuantitySummary is the distribution state of one planned item.
type QuantitySummary struct {
	PlannedItemID int64           `json:"plannedItemId"`
	Planned       decimal.Decimal `json:"plannedQuantity"`
	Distributed   decimal.Decimal `json:"distributedQuantity"`
	Remaining     decimal.Decimal `json:"remainingQuantity"`
	Distributions int64           `json:"distributionCount"`
}

// DistributedSum is the body of the distribution sum endpoint.
type DistributedSum struct {
	PlannedItemID int64           `json:"plannedItemId"`
	Sum           decimal.Decimal `json:"sum"`
}

func DomainToDTO(d Domain) DomainDTO {
	return DomainDTO{ID: d.ID, DesignationAr: d.DesignationAr, DesignationEn: d.DesignationEn, DesignationFr: d.DesignationFr}
}

func DomainToEntity(d DomainDTO) Domain {
	return Domain{ID: d.ID, DesignationAr: d.DesignationAr, DesignationEn: d.DesignationEn, DesignationFr: d.DesignationFr}
}

func RubricToDTO(r Rubric) RubricDTO {
	return RubricDTO{
		ID:            r.ID,
		DesignationAr: r.DesignationAr,
		DesignationEn: r.DesignationEn,
		DesignationFr: r.DesignationFr,
		DomainID:      r.DomainID,
	}
}

func RubricToEntity(d RubricDTO) Rubric {
	return Rubric{
		ID:            d.ID,
		DesignationAr: d.DesignationAr,
		DesignationEn: d.DesignationEn,
		DesignationFr: d.DesignationFr,
		DomainID:      d.DomainID,
	}
}

func ItemToDTO(i Item) ItemDTO {
	return ItemDTO{
		ID:            i.ID,
		DesignationAr: i.DesignationAr,
		DesignationEn: i.DesignationEn,
		DesignationFr: i.DesignationFr,
		RubricID:      i.RubricID,
	}
}

func ItemToEntity(d ItemDTO) Item {
	return Item{
		ID:            d.ID,
		DesignationAr: d.DesignationAr,
		DesignationEn: d.DesignationEn,
		DesignationFr: d.DesignationFr,
		RubricID:      d.RubricID,
	}
}

func PlannedItemToDTO(p PlannedItem) PlannedItemDTO {
	return PlannedItemDTO{
		ID:                   p.ID,
		ItemID:               p.ItemID,
		FinancialOperationID: p.FinancialOperationID,
		PlannedQuantity:      p.PlannedQuantity,
	}
}

func PlannedItemToEntity(d PlannedItemDTO) PlannedItem {
	return PlannedItem{
		ID:                   d.ID,
		ItemID:               d.ItemID,
		FinancialOperationID: d.FinancialOperationID,
		PlannedQuantity:      d.PlannedQuantity,
	}
}

func DistributionToDTO(d ItemDistribution) ItemDistributionDTO {
	return ItemDistributionDTO{ID: d.ID, PlannedItemID: d.PlannedItemID, StructureID: d.StructureID, Quantity: d.Quantity}
}

func DistributionToEntity(d ItemDistributionDTO) ItemDistribution {
	return ItemDistribution{ID: d.ID, PlannedItemID: d.PlannedItemID, StructureID: d.StructureID, Quantity: d.Quantity}
}
