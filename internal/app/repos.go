package app

import (
	"database/sql"

	budgetmodels "backoffice/internal/budget/models"
	budgetstore "backoffice/internal/budget/store"
	currencymodels "backoffice/internal/currency/models"
	currencystore "backoffice/internal/currency/store"
	designationmodels "backoffice/internal/designation/models"
	designationstore "backoffice/internal/designation/store"
	planningmodels "backoffice/internal/planning/models"
	planningstore "backoffice/internal/planning/store"
	"backoffice/internal/query"
	"backoffice/internal/reference"
	securitymodels "backoffice/internal/security/models"
	securitystore "backoffice/internal/security/store"
)

type repos struct {
	currencies   query.Repository[currencymodels.Currency]
	designations map[string]query.Repository[designationmodels.Designation]

	structures query.Repository[reference.Structure]
	documents  query.Repository[reference.Document]

	budgetTypes   query.Repository[budgetmodels.BudgetType]
	operations    query.Repository[budgetmodels.FinancialOperation]
	modifications query.Repository[budgetmodels.BudgetModification]

	domains       query.Repository[planningmodels.Domain]
	rubrics       query.Repository[planningmodels.Rubric]
	items         query.Repository[planningmodels.Item]
	plannedItems  query.Repository[planningmodels.PlannedItem]
	distributions planningstore.DistributionRepository

	authorities     query.Repository[securitymodels.Authority]
	permissions     query.Repository[securitymodels.Permission]
	roles           query.Repository[securitymodels.Role]
	groups          query.Repository[securitymodels.Group]
	users           query.Repository[securitymodels.User]
	rolePermissions securitystore.Links
	groupRoles      securitystore.Links
	userRoles       securitystore.Links
}

func newRepos(db *sql.DB) repos {
	if db == nil {
		return memoryRepos()
	}
	return postgresRepos(db)
}

func memoryRepos() repos {
	r := repos{
		currencies:   currencystore.NewMemory(),
		designations: map[string]query.Repository[designationmodels.Designation]{},

		structures: reference.NewStructureMemory(),
		documents:  reference.NewDocumentMemory(),

		budgetTypes:   budgetstore.NewBudgetTypeMemory(),
		operations:    budgetstore.NewFinancialOperationMemory(),
		modifications: budgetstore.NewModificationMemory(),

		domains:       planningstore.NewDomainMemory(),
		rubrics:       planningstore.NewRubricMemory(),
		items:         planningstore.NewItemMemory(),
		plannedItems:  planningstore.NewPlannedItemMemory(),
		distributions: planningstore.NewDistributionMemory(),

		authorities:     securitystore.NewAuthorityMemory(),
		permissions:     securitystore.NewPermissionMemory(),
		roles:           securitystore.NewRoleMemory(),
		groups:          securitystore.NewGroupMemory(),
		users:           securitystore.NewUserMemory(),
		rolePermissions: securitystore.NewMemoryLinks(),
		groupRoles:      securitystore.NewMemoryLinks(),
		userRoles:       securitystore.NewMemoryLinks(),
	}
	for _, kind := range designationmodels.Kinds {
		r.designations[kind.Name] = designationstore.NewMemory()
	}
	return r
}

func postgresRepos(db *sql.DB) repos {
	r := repos{
		currencies:   currencystore.NewPostgres(db),
		designations: map[string]query.Repository[designationmodels.Designation]{},

		structures: reference.NewStructurePostgres(db),
		documents:  reference.NewDocumentPostgres(db),

		budgetTypes:   budgetstore.NewBudgetTypePostgres(db),
		operations:    budgetstore.NewFinancialOperationPostgres(db),
		modifications: budgetstore.NewModificationPostgres(db),

		domains:       planningstore.NewDomainPostgres(db),
		rubrics:       planningstore.NewRubricPostgres(db),
		items:         planningstore.NewItemPostgres(db),
		plannedItems:  planningstore.NewPlannedItemPostgres(db),
		distributions: planningstore.NewDistributionPostgres(db),

		authorities:     securitystore.NewAuthorityPostgres(db),
		permissions:     securitystore.NewPermissionPostgres(db),
		roles:           securitystore.NewRolePostgres(db),
		groups:          securitystore.NewGroupPostgres(db),
		users:           securitystore.NewUserPostgres(db),
		rolePermissions: securitystore.NewRolePermissionLinks(db),
		groupRoles:      securitystore.NewGroupRoleLinks(db),
		userRoles:       securitystore.NewUserRoleLinks(db),
	}
	for _, kind := range designationmodels.Kinds {
		r.designations[kind.Name] = designationstore.NewPostgres(db, kind)
	}
	return r
}
