package authz

import (
	"github.com/dcodingdev/gearguard/internal/dto"
	"github.com/dcodingdev/gearguard/internal/entities"
	"github.com/dcodingdev/gearguard/pkg/constants"
	apperrors "github.com/dcodingdev/gearguard/pkg/errors"
)

// Can reports whether the actor's role grants permission.
func Can(actor dto.Actor, permission string) bool {
	return rolePermissions[actor.Role][permission]
}

// Require is Can turned into an error.
func Require(actor dto.Actor, permission string) error {
	if !Can(actor, permission) {
		return apperrors.ErrForbidden
	}
	return nil
}

// RequireRole fails with ErrForbidden unless the actor has one of roles.
func RequireRole(actor dto.Actor, roles ...string) error {
	if constants.Contains(roles, actor.Role) {
		return nil
	}
	return apperrors.ErrForbidden
}

// CanReadRequest: admins and managers read everything, technicians only
// requests of their own team.
func CanReadRequest(actor dto.Actor, req *entities.MaintenanceRequest) error {
	if Can(actor, ScopeAll) {
		return nil
	}
	if Can(actor, RequestsView) && actor.InTeam(req.TeamID) {
		return nil
	}
	return apperrors.ErrForbidden
}

// FilterRequestWrite returns the part of diff the actor is allowed to apply.
// Fields outside a technician's writable set are dropped, not rejected.
func FilterRequestWrite(actor dto.Actor, req *entities.MaintenanceRequest, diff dto.UpdateRequestDTO) (dto.UpdateRequestDTO, error) {
	if !Can(actor, RequestsUpdate) {
		return dto.UpdateRequestDTO{}, apperrors.ErrForbidden
	}
	if Can(actor, ScopeAll) {
		return diff, nil
	}
	if !actor.InTeam(req.TeamID) {
		return dto.UpdateRequestDTO{}, apperrors.ErrForbidden
	}

	return dto.UpdateRequestDTO{
		Status:               diff.Status,
		AssignedTechnicianID: diff.AssignedTechnicianID,
		Duration:             diff.Duration,
		Notes:                diff.Notes,
		CompletedDate:        diff.CompletedDate,
	}, nil
}

// RequestListScope returns the team a listing must be restricted to.
// restricted is false when the actor may list all teams. A technician
// without a team gets restricted with an empty team id and sees nothing.
func RequestListScope(actor dto.Actor) (teamID string, restricted bool) {
	if Can(actor, ScopeAll) {
		return "", false
	}
	if actor.TeamID == nil {
		return "", true
	}
	return *actor.TeamID, true
}
