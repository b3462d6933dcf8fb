package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserDTONeverCarriesPassword(t *testing.T) {
	u := User{ID: 1, Username: "amina", Email: "amina@example.org", Password: "plain", PasswordHash: "$2a$hash", Enabled: true}
	raw, err := json.Marshal(UserToDTO(u))
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "password")
	assert.NotContains(t, string(raw), "$2a$hash")
	assert.Contains(t, string(raw), `"roleIds":[]`)
}

func TestUserEnabledDefaultsToTrue(t *testing.T) {
	var dto UserDTO
	require.NoError(t, json.Unmarshal([]byte(`{"username":"amina"}`), &dto))
	assert.True(t, UserToEntity(dto).Enabled)

	require.NoError(t, json.Unmarshal([]byte(`{"username":"amina","enabled":false}`), &dto))
	assert.False(t, UserToEntity(dto).Enabled)
}

func roundTrip[E, D any](toDTO func(E) D, toEntity func(D) E) func(any) any {
	return func(v any) any { return toEntity(toDTO(v.(E))) }
}

func TestMappersRoundTrip(t *testing.T) {
	tests := []struct {
		name   string
		entity any
		trip   func(any) any
	}{
		{"authority", Authority{ID: 1, Name: "ROLE_ADMIN"}, roundTrip(AuthorityToDTO, AuthorityToEntity)},
		{"permission", Permission{ID: 2, Name: "budget:write", Description: "Edit budgets"}, roundTrip(PermissionToDTO, PermissionToEntity)},
		{"role with permissions", Role{ID: 3, Name: "planner", Description: "Plans items", PermissionIDs: []int64{2, 5}}, roundTrip(RoleToDTO, RoleToEntity)},
		{"group with roles", Group{ID: 4, Name: "finance", RoleIDs: []int64{3}}, roundTrip(GroupToDTO, GroupToEntity)},
		{"enabled user", User{ID: 5, Username: "amina", Email: "amina@example.org", Enabled: true, RoleIDs: []int64{3}}, roundTrip(UserToDTO, UserToEntity)},
		{"disabled user", User{ID: 6, Username: "karim", Email: "karim@example.org", Enabled: false, RoleIDs: []int64{}}, roundTrip(UserToDTO, UserToEntity)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.entity, tt.trip(tt.entity))
		})
	}
}

func TestUserRoundTripDropsSecrets(t *testing.T) {
	u := User{ID: 5, Username: "amina", Email: "amina@example.org", Password: "plain", PasswordHash: "$2a$hash", Enabled: true, RoleIDs: []int64{3}}

	back := UserToEntity(UserToDTO(u))

	assert.Empty(t, back.Password)
	assert.Empty(t, back.PasswordHash)
	u.Password, u.PasswordHash = "", ""
	assert.Equal(t, u, back)
}

func TestMissingAssociationsBecomeEmpty(t *testing.T) {
	assert.Equal(t, []int64{}, RoleToEntity(RoleToDTO(Role{ID: 1, Name: "viewer"})).PermissionIDs)
	assert.Equal(t, []int64{}, GroupToEntity(GroupToDTO(Group{ID: 1, Name: "audit"})).RoleIDs)
}
