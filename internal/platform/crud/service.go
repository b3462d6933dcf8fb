// Package crud is the write and read orchestration shared by every entity
// kind. A kind supplies its schema, its entity/DTO mapping and its validation
// plan; the service runs every write inside one transaction (plan, hooks,
// store write, audit event) and translates store facts into domain errors.
package crud

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"backoffice/internal/audit"
	"backoffice/internal/platform/cache"
	"backoffice/internal/platform/metrics"
	"backoffice/internal/query"
	"backoffice/internal/validation"
	dErrors "backoffice/pkg/domain-errors"
	"backoffice/pkg/platform/sentinel"
	txcontext "backoffice/pkg/platform/tx"
)

// Mapper converts between the stored entity and its wire DTO.
type Mapper[E, D any] struct {
	ToDTO    func(E) D
	ToEntity func(D) E
}

// Guard blocks deletion while dependent records exist.
type Guard struct {
	Child  string
	Exists func(ctx context.Context, parentID int64) (bool, error)
}

// Hooks are the kind specific parts of a write. Only Plan is required.
type Hooks[E any] struct {
	// Normalize trims and canonicalizes input before validation.
	Normalize func(e *E)
	// Plan builds the validation plan for e. The service turns it into an
	// update plan with Excluding when the write is an update.
	Plan func(e E) *validation.Plan
	// BeforeWrite runs after the plan passed and before the store write.
	// prior is nil on create.
	BeforeWrite func(ctx context.Context, prior *E, next *E) error
	// AfterWrite runs after the store write, inside the transaction.
	AfterWrite  func(ctx context.Context, e E) error
	AfterDelete func(ctx context.Context, id int64) error
	// Enrich loads associations that do not live in the kind's table.
	Enrich func(ctx context.Context, entities []E) error
	// Constraints name the unique constraints backing the Unique checks so
	// that a race lost at the database is still reported precisely.
	Constraints []validation.Constraint
}

// Service is the generic entity service.
type Service[E, D any] struct {
	kind    string
	repo    query.Repository[E]
	schema  query.Schema[E]
	mapper  Mapper[E, D]
	hooks   Hooks[E]
	guards  []Guard
	tx      txcontext.Runner
	logger  *slog.Logger
	metrics *metrics.Metrics
	audit   audit.Emitter
	cache   cache.Cache
	tracer  trace.Tracer
}

func New[E, D any](kind string, repo query.Repository[E], schema query.Schema[E], mapper Mapper[E, D], hooks Hooks[E], opts ...Option) *Service[E, D] {
	o := resolve(opts)
	return &Service[E, D]{
		kind:    kind,
		repo:    repo,
		schema:  schema,
		mapper:  mapper,
		hooks:   hooks,
		tx:      o.tx,
		logger:  o.logger,
		metrics: o.metrics,
		audit:   o.audit,
		cache:   o.cache,
		tracer:  otel.Tracer("backoffice/crud"),
	}
}

// Kind is the entity kind name used in errors, metrics and audit events.
func (s *Service[E, D]) Kind() string {
	return s.kind
}

// Sortable lists the fields accepted for sortBy.
func (s *Service[E, D]) Sortable() []string {
	return s.schema.Sortable()
}

// Guard registers a delete guard. Guards are added during wiring, before the
// service handles requests.
func (s *Service[E, D]) Guard(g Guard) {
	s.guards = append(s.guards, g)
}

// Tx exposes the runner so kind services can group extra reads.
func (s *Service[E, D]) Tx() txcontext.Runner {
	return s.tx
}

func (s *Service[E, D]) Create(ctx context.Context, dto D) (*D, error) {
	ctx, span := s.tracer.Start(ctx, s.kind+".Create")
	defer span.End()

	entity := s.mapper.ToEntity(dto)
	s.schema.SetID(&entity, 0)
	if s.hooks.Normalize != nil {
		s.hooks.Normalize(&entity)
	}

	var created E
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.hooks.Plan(entity).Run(txCtx); err != nil {
			return err
		}
		if s.hooks.BeforeWrite != nil {
			if err := s.hooks.BeforeWrite(txCtx, nil, &entity); err != nil {
				return err
			}
		}
		c, err := s.repo.Create(txCtx, entity)
		if err != nil {
			return s.storeError("create", 0, entity, err)
		}
		if s.hooks.AfterWrite != nil {
			if err := s.hooks.AfterWrite(txCtx, c); err != nil {
				return s.storeError("create", 0, entity, err)
			}
		}
		created = c
		return s.emit(txCtx, audit.ActionCreated, s.schema.ID(c))
	})
	if err != nil {
		return nil, s.fail(ctx, span, "create", err)
	}
	span.SetAttributes(attribute.Int64("entity.id", s.schema.ID(created)))
	s.metrics.IncrementWrite(s.kind, "create")
	out := s.mapper.ToDTO(created)
	return &out, nil
}

func (s *Service[E, D]) Update(ctx context.Context, id int64, dto D) (*D, error) {
	ctx, span := s.tracer.Start(ctx, s.kind+".Update", trace.WithAttributes(attribute.Int64("entity.id", id)))
	defer span.End()

	entity := s.mapper.ToEntity(dto)
	s.schema.SetID(&entity, id)
	if s.hooks.Normalize != nil {
		s.hooks.Normalize(&entity)
	}

	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		prior, err := s.repo.Lock(txCtx, id)
		if err != nil {
			return s.storeError("update", id, entity, err)
		}
		if err := s.hooks.Plan(entity).Excluding(id).Run(txCtx); err != nil {
			return err
		}
		if s.hooks.BeforeWrite != nil {
			if err := s.hooks.BeforeWrite(txCtx, &prior, &entity); err != nil {
				return err
			}
		}
		if err := s.repo.Update(txCtx, entity); err != nil {
			return s.storeError("update", id, entity, err)
		}
		if s.hooks.AfterWrite != nil {
			if err := s.hooks.AfterWrite(txCtx, entity); err != nil {
				return s.storeError("update", id, entity, err)
			}
		}
		return s.emit(txCtx, audit.ActionUpdated, id)
	})
	if err != nil {
		return nil, s.fail(ctx, span, "update", err)
	}
	s.cache.Delete(ctx, cache.Key(s.kind, id))
	s.metrics.IncrementWrite(s.kind, "update")
	out := s.mapper.ToDTO(entity)
	return &out, nil
}

// Mutate applies fn to the locked record and persists the result. It serves
// state transitions that are not full updates, such as enabling a user.
func (s *Service[E, D]) Mutate(ctx context.Context, id int64, action audit.Action, fn func(e *E) error) (*D, error) {
	ctx, span := s.tracer.Start(ctx, s.kind+"."+string(action), trace.WithAttributes(attribute.Int64("entity.id", id)))
	defer span.End()

	var updated E
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		entity, err := s.repo.Lock(txCtx, id)
		if err != nil {
			return s.storeError(string(action), id, entity, err)
		}
		if err := fn(&entity); err != nil {
			return err
		}
		if err := s.repo.Update(txCtx, entity); err != nil {
			return s.storeError(string(action), id, entity, err)
		}
		if err := s.enrich(txCtx, []E{entity}); err != nil {
			return err
		}
		updated = entity
		return s.emit(txCtx, action, id)
	})
	if err != nil {
		return nil, s.fail(ctx, span, string(action), err)
	}
	s.cache.Delete(ctx, cache.Key(s.kind, id))
	s.metrics.IncrementWrite(s.kind, string(action))
	out := s.mapper.ToDTO(updated)
	return &out, nil
}

func (s *Service[E, D]) Delete(ctx context.Context, id int64) error {
	ctx, span := s.tracer.Start(ctx, s.kind+".Delete", trace.WithAttributes(attribute.Int64("entity.id", id)))
	defer span.End()

	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		entity, err := s.repo.Lock(txCtx, id)
		if err != nil {
			return s.storeError("delete", id, entity, err)
		}
		for _, g := range s.guards {
			has, err := g.Exists(txCtx, id)
			if err != nil {
				return err
			}
			if has {
				return dErrors.New(dErrors.CodeConflict,
					fmt.Sprintf("%s with id %d cannot be deleted while %s records reference it", s.kind, id, g.Child))
			}
		}
		if err := s.repo.Delete(txCtx, id); err != nil {
			return s.storeError("delete", id, entity, err)
		}
		if s.hooks.AfterDelete != nil {
			if err := s.hooks.AfterDelete(txCtx, id); err != nil {
				return err
			}
		}
		return s.emit(txCtx, audit.ActionDeleted, id)
	})
	if err != nil {
		return s.fail(ctx, span, "delete", err)
	}
	s.cache.Delete(ctx, cache.Key(s.kind, id))
	s.metrics.IncrementWrite(s.kind, "delete")
	return nil
}

// Metrics is the collector writes are counted on; nil when disabled.
func (s *Service[E, D]) Metrics() *metrics.Metrics {
	return s.metrics
}

// Lock loads and row-locks the record for the rest of the transaction carried
// by ctx.
func (s *Service[E, D]) Lock(ctx context.Context, id int64) (E, error) {
	entity, err := s.repo.Lock(ctx, id)
	if err != nil {
		return entity, s.storeError("lock", id, entity, err)
	}
	return entity, nil
}

// Entity loads the stored record, or NotFoundError.
func (s *Service[E, D]) Entity(ctx context.Context, id int64) (E, error) {
	entity, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return entity, s.storeError("get", id, entity, err)
	}
	if err := s.enrich(ctx, []E{entity}); err != nil {
		return entity, err
	}
	return entity, nil
}

func (s *Service[E, D]) Get(ctx context.Context, id int64) (*D, error) {
	key := cache.Key(s.kind, id)
	var cached D
	if s.cache.Get(ctx, key, &cached) {
		return &cached, nil
	}
	entity, err := s.Entity(ctx, id)
	if err != nil {
		return nil, err
	}
	out := s.mapper.ToDTO(entity)
	s.cache.Set(ctx, key, out)
	return &out, nil
}

func (s *Service[E, D]) List(ctx context.Context, req query.PageRequest) (*query.Page[D], error) {
	return s.Filter(ctx, req)
}

func (s *Service[E, D]) Search(ctx context.Context, term string, req query.PageRequest) (*query.Page[D], error) {
	return s.Filter(ctx, req, query.Search(term))
}

// Filter returns one page of records matching every criterion.
func (s *Service[E, D]) Filter(ctx context.Context, req query.PageRequest, where ...query.Criterion) (*query.Page[D], error) {
	rows, total, err := s.repo.Find(ctx, req, where...)
	if err != nil {
		return nil, s.readError(err)
	}
	if err := s.enrich(ctx, rows); err != nil {
		return nil, err
	}
	page := query.MapPage(query.NewPage(rows, req, total), s.mapper.ToDTO)
	return &page, nil
}

// All returns every matching record as entities, ordered by id.
func (s *Service[E, D]) All(ctx context.Context, where ...query.Criterion) ([]E, error) {
	rows, err := s.repo.All(ctx, where...)
	if err != nil {
		return nil, s.readError(err)
	}
	if err := s.enrich(ctx, rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// AllDTO is All mapped to DTOs.
func (s *Service[E, D]) AllDTO(ctx context.Context, where ...query.Criterion) ([]D, error) {
	rows, err := s.All(ctx, where...)
	if err != nil {
		return nil, err
	}
	out := make([]D, len(rows))
	for i, r := range rows {
		out[i] = s.mapper.ToDTO(r)
	}
	return out, nil
}

func (s *Service[E, D]) Count(ctx context.Context, where ...query.Criterion) (int64, error) {
	n, err := s.repo.Count(ctx, where...)
	if err != nil {
		return 0, s.readError(err)
	}
	return n, nil
}

// Exists reports whether a record with id exists. It doubles as the
// reference resolver other kinds validate their foreign keys with.
func (s *Service[E, D]) Exists(ctx context.Context, id int64) (bool, error) {
	found, err := s.repo.Exists(ctx, 0, query.ByID(id))
	if err != nil {
		return false, s.readError(err)
	}
	return found, nil
}

// Unique is the ExistsFunc for a single field holding value.
func (s *Service[E, D]) Unique(field string, value any) validation.ExistsFunc {
	return func(ctx context.Context, excludeID int64) (bool, error) {
		return s.repo.Exists(ctx, excludeID, query.Eq(field, value))
	}
}

// UniqueTogether is the ExistsFunc for a composite key.
func (s *Service[E, D]) UniqueTogether(fields []string, values []any) validation.ExistsFunc {
	where := make([]query.Criterion, len(fields))
	for i, f := range fields {
		where[i] = query.Eq(f, values[i])
	}
	return func(ctx context.Context, excludeID int64) (bool, error) {
		return s.repo.Exists(ctx, excludeID, where...)
	}
}

// Referencing is a delete guard on this kind's records whose field points at
// the record being deleted.
func (s *Service[E, D]) Referencing(field string) Guard {
	return Guard{
		Child: s.kind,
		Exists: func(ctx context.Context, parentID int64) (bool, error) {
			return s.repo.Exists(ctx, 0, query.Eq(field, parentID))
		},
	}
}

func (s *Service[E, D]) enrich(ctx context.Context, rows []E) error {
	if s.hooks.Enrich == nil || len(rows) == 0 {
		return nil
	}
	if err := s.hooks.Enrich(ctx, rows); err != nil {
		return s.readError(err)
	}
	return nil
}

func (s *Service[E, D]) emit(ctx context.Context, action audit.Action, id int64) error {
	if s.audit == nil {
		return nil
	}
	if err := s.audit.Emit(ctx, audit.Event{Kind: s.kind, Action: action, EntityID: id}); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to record audit event")
	}
	return nil
}

// storeError translates store sentinels. entity supplies the offending values
// of a unique constraint violation.
func (s *Service[E, D]) storeError(op string, id int64, entity E, err error) error {
	var coded dErrors.Coder
	switch {
	case errors.As(err, &coded):
		return err
	case errors.Is(err, sentinel.ErrNotFound):
		return &validation.NotFoundError{Entity: s.kind, ID: id}
	case errors.Is(err, sentinel.ErrAlreadyUsed):
		return validation.FromStoreError(s.kind, err, s.hooks.Constraints, func(field string) any {
			return s.schema.Field(entity, field)
		})
	case errors.Is(err, sentinel.ErrReferenced):
		return dErrors.Wrap(err, dErrors.CodeConflict,
			fmt.Sprintf("%s is still referenced by other records", s.kind))
	case errors.Is(err, sentinel.ErrInvalidValue):
		return dErrors.Wrap(err, dErrors.CodeValidation, fmt.Sprintf("%s has a value the store cannot hold", s.kind))
	default:
		return dErrors.Wrap(err, dErrors.CodeInternal, fmt.Sprintf("failed to %s %s", op, s.kind))
	}
}

func (s *Service[E, D]) readError(err error) error {
	var coded dErrors.Coder
	if errors.As(err, &coded) {
		return err
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, fmt.Sprintf("failed to read %s", s.kind))
}

// fail records a failed write and makes sure nothing leaves the service
// without a code.
func (s *Service[E, D]) fail(ctx context.Context, span trace.Span, op string, err error) error {
	var coded dErrors.Coder
	if !errors.As(err, &coded) {
		err = dErrors.Wrap(err, dErrors.CodeInternal, fmt.Sprintf("failed to %s %s", op, s.kind))
	}
	code := dErrors.CodeOf(err)
	span.SetStatus(codes.Error, string(code))
	if code == dErrors.CodeInternal {
		span.RecordError(err)
		s.logger.ErrorContext(ctx, "write failed", "kind", s.kind, "op", op, "error", err)
		return err
	}
	s.metrics.IncrementValidationFailure(s.kind, string(code))
	s.logger.DebugContext(ctx, "write rejected", "kind", s.kind, "op", op, "code", code, "error", err)
	return err
}
