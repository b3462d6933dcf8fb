// Package app assembles the module graph: stores, services and the cross
// module references between them. The server, the seed command and the
// router tests all build the same graph.
package app

import (
	"database/sql"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"backoffice/internal/audit"
	budgetservice "backoffice/internal/budget/service"
	currencyservice "backoffice/internal/currency/service"
	designationmodels "backoffice/internal/designation/models"
	designationservice "backoffice/internal/designation/service"
	planningservice "backoffice/internal/planning/service"
	"backoffice/internal/platform/cache"
	"backoffice/internal/platform/crud"
	"backoffice/internal/platform/metrics"
	"backoffice/internal/reference"
	securityservice "backoffice/internal/security/service"
	"backoffice/pkg/platform/secrets"
	txcontext "backoffice/pkg/platform/tx"
)

// Options configures New. A nil DB selects the memory stores.
type Options struct {
	DB      *sql.DB
	Logger  *slog.Logger
	Metrics *metrics.Metrics
	Cache   cache.Cache
	Audit   audit.Emitter
	// BcryptCost defaults to bcrypt.DefaultCost.
	BcryptCost int
}

// Services is the assembled module graph.
type Services struct {
	Currencies   *currencyservice.Service
	Designations []Designation

	Structures *reference.StructureService
	Documents  *reference.DocumentService

	BudgetTypes   *budgetservice.BudgetTypeService
	Operations    *budgetservice.FinancialOperationService
	Modifications *budgetservice.ModificationService

	Domains       *planningservice.DomainService
	Rubrics       *planningservice.RubricService
	Items         *planningservice.ItemService
	PlannedItems  *planningservice.PlannedItemService
	Distributions *planningservice.DistributionService

	Authorities *securityservice.AuthorityService
	Permissions *securityservice.PermissionService
	Roles       *securityservice.RoleService
	Groups      *securityservice.GroupService
	Users       *securityservice.UserService

	// Tx is the runner shared by every service.
	Tx txcontext.Runner
}

// Designation pairs a designation kind with its service.
type Designation struct {
	Kind    designationmodels.Kind
	Service *designationservice.Service
}

// DesignationByName returns the service for the named kind.
func (s *Services) DesignationByName(name string) (*designationservice.Service, bool) {
	for _, d := range s.Designations {
		if d.Kind.Name == name {
			return d.Service, true
		}
	}
	return nil, false
}

// New builds every service over one storage backend. All services share one
// transaction runner so that a write spanning modules (a distribution
// locking its planned item) serializes against writes on either side.
func New(opts Options) *Services {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.BcryptCost == 0 {
		opts.BcryptCost = bcrypt.DefaultCost
	}

	var runner txcontext.Runner = txcontext.NewLockRunner()
	if opts.DB != nil {
		runner = txcontext.NewSQLRunner(opts.DB)
	}
	common := []crud.Option{
		crud.WithLogger(opts.Logger),
		crud.WithTx(runner),
	}
	if opts.Metrics != nil {
		common = append(common, crud.WithMetrics(opts.Metrics))
	}
	if opts.Cache != nil {
		common = append(common, crud.WithCache(opts.Cache))
	}
	if opts.Audit != nil {
		common = append(common, crud.WithAudit(opts.Audit))
	}

	r := newRepos(opts.DB)
	s := &Services{Tx: runner}

	s.Currencies = currencyservice.New(r.currencies, common...)
	for _, kind := range designationmodels.Kinds {
		s.Designations = append(s.Designations, Designation{
			Kind:    kind,
			Service: designationservice.New(kind, r.designations[kind.Name], common...),
		})
	}

	s.Structures = reference.NewStructureService(r.structures, common...)
	s.Documents = reference.NewDocumentService(r.documents, common...)

	s.BudgetTypes = budgetservice.NewBudgetTypeService(r.budgetTypes, common...)
	s.Operations = budgetservice.NewFinancialOperationService(r.operations, s.BudgetTypes, common...)
	s.Modifications = budgetservice.NewModificationService(r.modifications, s.Documents.Exists, common...)
	s.Documents.Guard(s.Modifications.Referencing("demandeId"))
	s.Documents.Guard(s.Modifications.Referencing("responseId"))

	s.Domains = planningservice.NewDomainService(r.domains, common...)
	s.Rubrics = planningservice.NewRubricService(r.rubrics, s.Domains, common...)
	s.Items = planningservice.NewItemService(r.items, s.Rubrics, common...)
	s.PlannedItems = planningservice.NewPlannedItemService(r.plannedItems, s.Items, s.Operations.Exists, r.distributions, common...)
	s.Operations.Guard(s.PlannedItems.Referencing("financialOperationId"))
	s.Distributions = planningservice.NewDistributionService(r.distributions, s.PlannedItems, s.Structures.Exists, common...)
	s.Structures.Guard(s.Distributions.Referencing("structureId"))

	s.Authorities = securityservice.NewAuthorityService(r.authorities, common...)
	s.Permissions = securityservice.NewPermissionService(r.permissions, common...)
	s.Roles = securityservice.NewRoleService(r.roles, r.rolePermissions, s.Permissions, common...)
	s.Groups = securityservice.NewGroupService(r.groups, r.groupRoles, s.Roles, common...)
	s.Users = securityservice.NewUserService(r.users, r.userRoles, s.Roles, secrets.NewHasher(opts.BcryptCost), common...)

	return s
}
