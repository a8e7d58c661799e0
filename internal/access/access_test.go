package access

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"mold-tracker/internal/storage"
)

func TestCan(t *testing.T) {
	cases := []struct {
		role storage.Role
		view View
		want bool
	}{
		{storage.RoleAdmin, ViewAdmin, true},
		{storage.RoleAdmin, ViewAnalytics, true},
		{storage.RoleCamOperator, ViewCamQueue, true},
		{storage.RoleCamOperator, ViewAdmin, false},
		{storage.RoleCamOperator, ViewReviewQueue, false},
		{storage.RoleSupervisor, ViewReviewQueue, true},
		{storage.RoleSupervisor, ViewLayoutEditor, false},
		{storage.RoleMoldDesignResponsible, ViewAnalytics, false},
		{storage.RoleProjectManager, ViewAnalytics, true},
		{storage.RoleMachineOperator, ViewMoldList, false},
		{storage.Role("GUEST"), ViewMoldList, false},
	}

	for _, tc := range cases {
		t.Run(string(tc.role)+"/"+string(tc.view), func(t *testing.T) {
			assert.Equal(t, tc.want, Can(tc.role, tc.view))
		})
	}
}

func TestViewsFor_ReturnsCopy(t *testing.T) {
	views := ViewsFor(storage.RoleAdmin)
	assert.Len(t, views, 10)

	views[0] = "changed"
	assert.Equal(t, ViewMoldList, Table[storage.RoleAdmin][0])
}

func TestEveryLoginRoleHasViews(t *testing.T) {
	for _, role := range []storage.Role{
		storage.RoleAdmin, storage.RoleCamOperator, storage.RoleSupervisor,
		storage.RoleMoldDesignResponsible, storage.RoleProjectManager,
	} {
		assert.True(t, role.CanLogin())
		assert.NotEmpty(t, ViewsFor(role), role)
	}
}

func TestCanEdit(t *testing.T) {
	cases := []struct {
		role  storage.Role
		group FieldGroup
		want  bool
	}{
		{storage.RoleAdmin, FieldsReview, true},
		{storage.RoleAdmin, FieldsMold, true},
		{storage.RoleCamOperator, FieldsProgress, true},
		{storage.RoleCamOperator, FieldsCamReview, true},
		{storage.RoleCamOperator, FieldsReview, false},
		{storage.RoleCamOperator, FieldsMold, false},
		{storage.RoleSupervisor, FieldsReview, true},
		{storage.RoleSupervisor, FieldsPlanning, false},
		{storage.RoleProjectManager, FieldsMold, true},
		{storage.RoleProjectManager, FieldsProgress, false},
		{storage.RoleMoldDesignResponsible, FieldsMold, false},
		{storage.RoleMoldDesignResponsible, FieldsProgress, false},
	}

	for _, tc := range cases {
		t.Run(string(tc.role)+"/"+string(tc.group), func(t *testing.T) {
			assert.Equal(t, tc.want, CanEdit(tc.role, tc.group))
		})
	}
}

func TestEditorsCanOpenMoldDetail(t *testing.T) {
	for role := range EditTable {
		assert.True(t, Can(role, ViewMoldDetail), role)
	}
}

func TestEditsFor_ReturnsCopy(t *testing.T) {
	groups := EditsFor(storage.RoleSupervisor)
	assert.Equal(t, []FieldGroup{FieldsProgress, FieldsReview}, groups)

	groups[0] = "changed"
	assert.Equal(t, FieldsProgress, EditTable[storage.RoleSupervisor][0])
	assert.Empty(t, EditsFor(storage.RoleMoldDesignResponsible))
}
