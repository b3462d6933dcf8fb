package service

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"backoffice/internal/audit"
	"backoffice/internal/platform/crud"
	"backoffice/internal/query"
	"backoffice/internal/security/models"
	"backoffice/internal/security/store"
	"backoffice/internal/validation"
	dErrors "backoffice/pkg/domain-errors"
	"backoffice/pkg/platform/secrets"
	stringutil "backoffice/pkg/platform/strings"
)

const MinPasswordLength = 8

// PasswordHasher turns a plaintext password into its stored form.
type PasswordHasher interface {
	Hash(secret string) (string, error)
}

type UserService struct {
	*crud.Service[models.User, models.UserDTO]
	roles  *RoleService
	hasher PasswordHasher
}

// NewUserService stores role ids in links and hashes passwords with hasher
// (bcrypt at default cost when nil). Roles cannot be deleted while a user
// holds them.
func NewUserService(repo query.Repository[models.User], links store.Links, roles *RoleService, hasher PasswordHasher, opts ...crud.Option) *UserService {
	if hasher == nil {
		hasher = secrets.Hasher{}
	}
	s := &UserService{roles: roles, hasher: hasher}
	assoc := association[models.User]{
		links: links,
		id:    store.UserSchema.ID,
		get:   func(u models.User) []int64 { return u.RoleIDs },
		set:   func(u *models.User, ids []int64) { u.RoleIDs = ids },
	}
	s.Service = crud.New(models.UserKind, repo, store.UserSchema,
		crud.Mapper[models.User, models.UserDTO]{ToDTO: models.UserToDTO, ToEntity: models.UserToEntity},
		assoc.hooks(crud.Hooks[models.User]{
			Normalize: func(u *models.User) {
				stringutil.TrimAll(&u.Username, &u.Email)
				u.Email = strings.ToLower(u.Email)
				u.RoleIDs = stringutil.DedupeIDs(u.RoleIDs)
			},
			Plan:        s.plan,
			BeforeWrite: s.hashPassword,
			Constraints: store.UserConstraints,
		}),
		opts...,
	)
	roles.Guard(guard(models.UserKind, links))
	return s
}

// plan requires a password on create only; an update without one keeps the
// stored hash.
func (s *UserService) plan(u models.User) *validation.Plan {
	return validation.For(models.UserKind).
		Require("username", u.Username).
		Require("email", u.Email).
		RequirePresent("password", u.ID != 0 || u.Password != "").
		MaxLen("username", u.Username, validation.MaxUsername).
		MaxLen("email", u.Email, validation.MaxEmail).
		Rule(func() error { return validation.Email(models.UserKind, "email", u.Email) }).
		Rule(func() error {
			if u.Password != "" && utf8.RuneCountInString(u.Password) < MinPasswordLength {
				return &validation.InvalidFormatError{Entity: models.UserKind, Field: "password",
					Reason: fmt.Sprintf("must be at least %d characters", MinPasswordLength)}
			}
			return nil
		}).
		Unique("username", u.Username, s.Unique("username", u.Username)).
		Unique("email", u.Email, s.Unique("email", u.Email)).
		References("roleIds", models.RoleKind, u.RoleIDs, s.roles.Exists)
}

func (s *UserService) hashPassword(_ context.Context, prior *models.User, next *models.User) error {
	if next.Password == "" {
		if prior != nil {
			next.PasswordHash = prior.PasswordHash
		}
		return nil
	}
	hash, err := s.hasher.Hash(next.Password)
	if err != nil {
		return err
	}
	next.PasswordHash = hash
	next.Password = ""
	return nil
}

func (s *UserService) Enable(ctx context.Context, id int64) (*models.UserDTO, error) {
	return s.setEnabled(ctx, id, true)
}

func (s *UserService) Disable(ctx context.Context, id int64) (*models.UserDTO, error) {
	return s.setEnabled(ctx, id, false)
}

func (s *UserService) setEnabled(ctx context.Context, id int64, enabled bool) (*models.UserDTO, error) {
	action := audit.ActionDisabled
	if enabled {
		action = audit.ActionEnabled
	}
	return s.Mutate(ctx, id, action, func(u *models.User) error {
		u.Enabled = enabled
		return nil
	})
}

func (s *UserService) ByUsername(ctx context.Context, username string) (*models.UserDTO, error) {
	found, err := s.AllDTO(ctx, query.Eq("username", strings.TrimSpace(username)))
	if err != nil {
		return nil, err
	}
	if len(found) == 0 {
		return nil, dErrors.New(dErrors.CodeNotFound, fmt.Sprintf("%s with username %q not found", models.UserKind, username))
	}
	return &found[0], nil
}

// Permissions resolves the user's effective permissions: the union of the
// permissions granted by each of their roles.
func (s *UserService) Permissions(ctx context.Context, id int64) (*models.EffectivePermissions, error) {
	user, err := s.Entity(ctx, id)
	if err != nil {
		return nil, err
	}
	roles, err := s.roles.ByIDs(ctx, user.RoleIDs)
	if err != nil {
		return nil, err
	}
	var permissionIDs []int64
	for _, r := range roles {
		permissionIDs = append(permissionIDs, r.PermissionIDs...)
	}
	permissions, err := s.roles.permissions.ByIDs(ctx, stringutil.DedupeIDs(permissionIDs))
	if err != nil {
		return nil, err
	}
	return &models.EffectivePermissions{UserID: id, Roles: roles, Permissions: permissions}, nil
}
