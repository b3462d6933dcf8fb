// Package seed loads reference data from a YAML fixture. Rows go through the
// services, so every row passes the same validation as an API write, and rows
// that already exist are skipped.
package seed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"backoffice/internal/app"
	budgetmodels "backoffice/internal/budget/models"
	currencymodels "backoffice/internal/currency/models"
	designationmodels "backoffice/internal/designation/models"
	planningmodels "backoffice/internal/planning/models"
	securitymodels "backoffice/internal/security/models"
	dErrors "backoffice/pkg/domain-errors"
)

// Names is the localized designation triple shared by most fixture rows.
type Names struct {
	Ar string `yaml:"ar"`
	En string `yaml:"en"`
	Fr string `yaml:"fr"`
}

type Currency struct {
	Names  `yaml:",inline"`
	CodeAr string `yaml:"codeAr"`
	CodeLt string `yaml:"codeLt"`
}

type BudgetType struct {
	Names     `yaml:",inline"`
	AcronymAr string `yaml:"acronymAr"`
	AcronymEn string `yaml:"acronymEn"`
	AcronymFr string `yaml:"acronymFr"`
}

type Permission struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
}

// Fixture is the YAML document. Designations are keyed by kind name, for
// example RealizationStatus.
type Fixture struct {
	Currencies   []Currency         `yaml:"currencies"`
	Designations map[string][]Names `yaml:"designations"`
	BudgetTypes  []BudgetType       `yaml:"budgetTypes"`
	Domains      []Names            `yaml:"domains"`
	Authorities  []string           `yaml:"authorities"`
	Permissions  []Permission       `yaml:"permissions"`
}

// Load decodes a fixture. Unknown keys are rejected so that typos do not
// silently drop rows.
func Load(r io.Reader) (*Fixture, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var f Fixture
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return &f, nil
		}
		return nil, fmt.Errorf("decode fixture: %w", err)
	}
	return &f, nil
}

// LoadFile is Load over the file at path.
func LoadFile(path string) (*Fixture, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open fixture: %w", err)
	}
	defer file.Close()
	return Load(file)
}

// Result counts rows per kind.
type Result struct {
	Created map[string]int
	Skipped map[string]int
}

func (r Result) record(kind string, created bool) {
	if created {
		r.Created[kind]++
		return
	}
	r.Skipped[kind]++
}

type Seeder struct {
	svc    *app.Services
	logger *slog.Logger
}

func New(svc *app.Services, logger *slog.Logger) *Seeder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Seeder{svc: svc, logger: logger}
}

// Apply writes every fixture row. The first error other than a duplicate
// stops the run; rows written before it stay.
func (s *Seeder) Apply(ctx context.Context, f *Fixture) (Result, error) {
	res := Result{Created: map[string]int{}, Skipped: map[string]int{}}

	for _, c := range f.Currencies {
		if err := s.create(ctx, res, currencymodels.Kind, func() error {
			_, err := s.svc.Currencies.Create(ctx, currencymodels.CurrencyDTO{
				DesignationAr: c.Ar, DesignationEn: c.En, DesignationFr: c.Fr,
				CodeAr: c.CodeAr, CodeLt: c.CodeLt,
			})
			return err
		}); err != nil {
			return res, err
		}
	}

	kinds := make([]string, 0, len(f.Designations))
	for name := range f.Designations {
		kinds = append(kinds, name)
	}
	sort.Strings(kinds)
	for _, name := range kinds {
		rows := f.Designations[name]
		svc, ok := s.svc.DesignationByName(name)
		if !ok {
			return res, fmt.Errorf("unknown designation kind %q", name)
		}
		for _, d := range rows {
			if err := s.create(ctx, res, name, func() error {
				_, err := svc.Create(ctx, designationmodels.DesignationDTO{
					DesignationAr: d.Ar, DesignationEn: d.En, DesignationFr: d.Fr,
				})
				return err
			}); err != nil {
				return res, err
			}
		}
	}

	for _, b := range f.BudgetTypes {
		if err := s.create(ctx, res, budgetmodels.BudgetTypeKind, func() error {
			_, err := s.svc.BudgetTypes.Create(ctx, budgetmodels.BudgetTypeDTO{
				DesignationAr: b.Ar, DesignationEn: b.En, DesignationFr: b.Fr,
				AcronymAr: b.AcronymAr, AcronymEn: b.AcronymEn, AcronymFr: b.AcronymFr,
			})
			return err
		}); err != nil {
			return res, err
		}
	}

	for _, d := range f.Domains {
		if err := s.create(ctx, res, planningmodels.DomainKind, func() error {
			_, err := s.svc.Domains.Create(ctx, planningmodels.DomainDTO{
				DesignationAr: d.Ar, DesignationEn: d.En, DesignationFr: d.Fr,
			})
			return err
		}); err != nil {
			return res, err
		}
	}

	for _, name := range f.Authorities {
		if err := s.create(ctx, res, securitymodels.AuthorityKind, func() error {
			_, err := s.svc.Authorities.Create(ctx, securitymodels.AuthorityDTO{Name: name})
			return err
		}); err != nil {
			return res, err
		}
	}

	for _, p := range f.Permissions {
		if err := s.create(ctx, res, securitymodels.PermissionKind, func() error {
			_, err := s.svc.Permissions.Create(ctx, securitymodels.PermissionDTO{Name: p.Name, Description: p.Description})
			return err
		}); err != nil {
			return res, err
		}
	}

	return res, nil
}

func (s *Seeder) create(ctx context.Context, res Result, kind string, write func() error) error {
	err := write()
	switch {
	case err == nil:
		res.record(kind, true)
		return nil
	case dErrors.HasCode(err, dErrors.CodeConflict):
		s.logger.DebugContext(ctx, "seed row already present", "kind", kind, "error", err)
		res.record(kind, false)
		return nil
	default:
		return fmt.Errorf("seed %s: %w", kind, err)
	}
}
