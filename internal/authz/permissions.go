package authz

import (
	"github.com/dcodingdev/gearguard/pkg/constants"
)

const (
	// Maintenance requests
	RequestsCreate = "requests:create"
	RequestsView   = "requests:view"
	RequestsUpdate = "requests:update"
	RequestsDelete = "requests:delete"
	RequestsExport = "requests:export"
	ScopeAll       = "scope:all" // sees every team, not only the actor's own

	// Equipment
	EquipmentView   = "equipment:view"
	EquipmentManage = "equipment:manage"
	EquipmentDelete = "equipment:delete"

	// Teams
	TeamsView          = "teams:view"
	TeamsManage        = "teams:manage"
	TeamsDelete        = "teams:delete"
	TeamsManageMembers = "teams:members"

	// Users
	UsersView   = "users:view"
	UsersCreate = "users:create"
	UsersManage = "users:manage"
)

var rolePermissions = map[string]map[string]bool{
	constants.RoleAdmin: set(
		RequestsCreate, RequestsView, RequestsUpdate, RequestsDelete, RequestsExport, ScopeAll,
		EquipmentView, EquipmentManage, EquipmentDelete,
		TeamsView, TeamsManage, TeamsDelete, TeamsManageMembers,
		UsersView, UsersCreate, UsersManage,
	),
	constants.RoleManager: set(
		RequestsCreate, RequestsView, RequestsUpdate, RequestsDelete, RequestsExport, ScopeAll,
		EquipmentView, EquipmentManage,
		TeamsView, TeamsManage, TeamsManageMembers,
		UsersView,
	),
	constants.RoleTechnician: set(
		RequestsView, RequestsUpdate,
		EquipmentView,
		TeamsView,
	),
}

// TechnicianWritableFields are the request fields a technician may change.
var TechnicianWritableFields = []string{
	"status",
	"assigned_technician_id",
	"duration",
	"notes",
	"completed_date",
}

func set(perms ...string) map[string]bool {
	m := make(map[string]bool, len(perms))
	for _, p := range perms {
		m[p] = true
	}
	return m
}
