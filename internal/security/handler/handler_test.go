package handler

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"backoffice/internal/security/handler/mocks"
	"backoffice/internal/security/models"
	"backoffice/internal/security/service"
	"backoffice/internal/security/store"
	"backoffice/internal/validation"
	"backoffice/pkg/testutil"
)

//go:generate mockgen -source=handler.go -destination=mocks/mocks.go -package=mocks UserService
type HandlerSuite struct {
	suite.Suite
	router      chi.Router
	users       *mocks.MockUserService
	permissions *service.PermissionService
	roles       *service.RoleService
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) SetupTest() {
	ctrl := gomock.NewController(s.T())
	s.users = mocks.NewMockUserService(ctrl)
	s.permissions = service.NewPermissionService(store.NewPermissionMemory())
	s.roles = service.NewRoleService(store.NewRoleMemory(), store.NewMemoryLinks(), s.permissions)
	groups := service.NewGroupService(store.NewGroupMemory(), store.NewMemoryLinks(), s.roles)
	authorities := service.NewAuthorityService(store.NewAuthorityMemory())

	s.router = chi.NewRouter()
	New(authorities, s.permissions, s.roles, groups, s.users, slog.New(slog.NewTextHandler(io.Discard, nil))).Register(s.router)
}

func enabled(v bool) *bool { return &v }

func (s *HandlerSuite) TestEnableDisable() {
	s.users.EXPECT().Disable(gomock.Any(), int64(3)).
		Return(&models.UserDTO{ID: 3, Username: "amina", Enabled: enabled(false), RoleIDs: []int64{}}, nil)
	s.users.EXPECT().Enable(gomock.Any(), int64(3)).
		Return(&models.UserDTO{ID: 3, Username: "amina", Enabled: enabled(true), RoleIDs: []int64{}}, nil)

	rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodPut, "/users/3/disable"))
	testutil.AssertStatus(s.T(), rr, http.StatusOK)
	s.False(*testutil.UnmarshalResponse[models.UserDTO](s.T(), rr).Enabled)

	rr = testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodPut, "/users/3/enable"))
	testutil.AssertStatus(s.T(), rr, http.StatusOK)
	s.True(*testutil.UnmarshalResponse[models.UserDTO](s.T(), rr).Enabled)
	s.NotContains(rr.Body.String(), "password")
}

func (s *HandlerSuite) TestEnableUnknownUser() {
	s.users.EXPECT().Enable(gomock.Any(), int64(9)).
		Return(nil, &validation.NotFoundError{Entity: models.UserKind, ID: 9})

	rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodPut, "/users/9/enable"))
	testutil.AssertStatusAndError(s.T(), rr, http.StatusNotFound, "not_found")
}

func (s *HandlerSuite) TestUserPermissions() {
	s.users.EXPECT().Permissions(gomock.Any(), int64(3)).Return(&models.EffectivePermissions{
		UserID:      3,
		Roles:       []models.RoleDTO{{ID: 1, Name: "editor", PermissionIDs: []int64{1}}},
		Permissions: []models.PermissionDTO{{ID: 1, Name: "currency:read"}},
	}, nil)

	rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/users/3/permissions"))
	testutil.AssertStatus(s.T(), rr, http.StatusOK)
	got := testutil.UnmarshalResponse[models.EffectivePermissions](s.T(), rr)
	s.Equal("currency:read", got.Permissions[0].Name)
}

func (s *HandlerSuite) TestUserByUsername() {
	s.users.EXPECT().ByUsername(gomock.Any(), "amina").
		Return(&models.UserDTO{ID: 3, Username: "amina", Email: "amina@example.org", Enabled: enabled(true)}, nil)

	rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/users/username/amina"))
	testutil.AssertStatus(s.T(), rr, http.StatusOK)
	s.Equal(int64(3), testutil.UnmarshalResponse[models.UserDTO](s.T(), rr).ID)
}

func (s *HandlerSuite) TestInvalidUserID() {
	rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodPut, "/users/abc/enable"))
	testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "bad_request")
}

func (s *HandlerSuite) TestRolePermissions() {
	ctx := context.Background()
	read, err := s.permissions.Create(ctx, models.PermissionDTO{Name: "budget:read"})
	s.Require().NoError(err)
	role, err := s.roles.Create(ctx, models.RoleDTO{Name: "auditor", PermissionIDs: []int64{read.ID}})
	s.Require().NoError(err)

	rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/roles/1/permissions"))
	testutil.AssertStatus(s.T(), rr, http.StatusOK)
	got := testutil.UnmarshalResponse[[]models.PermissionDTO](s.T(), rr)
	s.Require().Len(*got, 1)
	s.Equal("budget:read", (*got)[0].Name)
	s.Equal(int64(1), role.ID)

	rr = testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodDelete, "/permissions/1"))
	testutil.AssertStatusAndError(s.T(), rr, http.StatusConflict, "conflict")

	rr = testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodPost, "/roles",
		models.RoleDTO{Name: "ghost", PermissionIDs: []int64{42}}))
	testutil.AssertStatusAndError(s.T(), rr, http.StatusUnprocessableEntity, "reference_not_found")
}
