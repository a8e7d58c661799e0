// Package access maps roles to the views they may open and the fields they
// may change.
package access

import "mold-tracker/internal/storage"

type View string

const (
	ViewMoldList     View = "mold-list"
	ViewMoldDetail   View = "mold-detail"
	ViewActiveTasks  View = "active-tasks"
	ViewCamQueue     View = "cam-queue"
	ViewReviewQueue  View = "review-queue"
	ViewAdmin        View = "admin"
	ViewLayoutEditor View = "layout-editor"
	ViewDashboardMap View = "dashboard-map"
	ViewHistory      View = "history"
	ViewAnalytics    View = "analytics"
)

// Table is the single source of truth for role capabilities. Machine
// operators cannot log in and therefore have no entry.
var Table = map[storage.Role][]View{
	storage.RoleAdmin: {
		ViewMoldList, ViewMoldDetail, ViewActiveTasks, ViewCamQueue, ViewReviewQueue,
		ViewAdmin, ViewLayoutEditor, ViewDashboardMap, ViewHistory, ViewAnalytics,
	},
	storage.RoleCamOperator: {
		ViewMoldList, ViewMoldDetail, ViewActiveTasks, ViewCamQueue, ViewDashboardMap, ViewHistory,
	},
	storage.RoleSupervisor: {
		ViewMoldList, ViewMoldDetail, ViewActiveTasks, ViewReviewQueue, ViewDashboardMap, ViewHistory, ViewAnalytics,
	},
	storage.RoleMoldDesignResponsible: {
		ViewMoldList, ViewMoldDetail, ViewActiveTasks, ViewHistory,
	},
	storage.RoleProjectManager: {
		ViewMoldList, ViewMoldDetail, ViewActiveTasks, ViewDashboardMap, ViewHistory, ViewAnalytics,
	},
}

func Can(role storage.Role, view View) bool {
	for _, v := range Table[role] {
		if v == view {
			return true
		}
	}
	return false
}

// ViewsFor returns a copy, callers may sort or modify it.
func ViewsFor(role storage.Role) []View {
	views := Table[role]
	out := make([]View, len(views))
	copy(out, views)
	return out
}

// FieldGroup is a set of mold fields that change together and belong to one
// responsibility on the shop floor.
type FieldGroup string

const (
	// status, progress, start and finish dates, duration
	FieldsProgress FieldGroup = "progress"
	// operation type, operator and machine assignment, due date, new operations
	FieldsPlanning FieldGroup = "planning"
	// supervisor rating and comment
	FieldsReview FieldGroup = "review"
	// CAM operator rating of the machine operator
	FieldsCamReview FieldGroup = "cam-review"
	// mold-level fields: name, customer, status, priority, deadline, URLs, people
	FieldsMold FieldGroup = "mold"
)

// EditTable lists the field groups each role may change. Roles missing here
// may only read.
var EditTable = map[storage.Role][]FieldGroup{
	storage.RoleAdmin:          {FieldsProgress, FieldsPlanning, FieldsReview, FieldsCamReview, FieldsMold},
	storage.RoleCamOperator:    {FieldsProgress, FieldsPlanning, FieldsCamReview},
	storage.RoleSupervisor:     {FieldsProgress, FieldsReview},
	storage.RoleProjectManager: {FieldsMold},
}

func CanEdit(role storage.Role, group FieldGroup) bool {
	for _, g := range EditTable[role] {
		if g == group {
			return true
		}
	}
	return false
}

func EditsFor(role storage.Role) []FieldGroup {
	groups := EditTable[role]
	out := make([]FieldGroup, len(groups))
	copy(out, groups)
	return out
}
