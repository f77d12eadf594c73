package workflow

import (
	"time"

	"github.com/dcodingdev/gearguard/internal/dto"
	"github.com/dcodingdev/gearguard/internal/entities"
	"github.com/dcodingdev/gearguard/pkg/constants"
)

// Result is the merged request together with the directives it produced.
type Result struct {
	Request    entities.MaintenanceRequest
	Directives []Directive
}

// ScrapCascade returns the cascade directive, if any.
func (r Result) ScrapCascade() (ScrapCascade, bool) {
	for _, d := range r.Directives {
		if sc, ok := d.(ScrapCascade); ok {
			return sc, true
		}
	}
	return ScrapCascade{}, false
}

// Apply merges an already authorized diff onto current.
// current is not modified. On error nothing is returned to persist.
func Apply(current entities.MaintenanceRequest, diff dto.UpdateRequestDTO, actor dto.Actor, now time.Time) (Result, error) {
	merged := merge(current, diff)

	guard := CanComplete(CompletionContext{RequestID: merged.ID, Status: merged.Status, Duration: merged.Duration})
	if err := guard.Error(); err != nil {
		return Result{}, err
	}

	stamp := now.UTC()
	merged.UpdatedAt = &stamp

	return Result{
		Request:    merged,
		Directives: directivesFor(current, merged.Status, actor),
	}, nil
}

// Admit prepares a new request for insertion. Status defaults to new and the
// same completion and scrap rules apply as for an update from no status.
func Admit(req entities.MaintenanceRequest, actor dto.Actor, now time.Time) (Result, error) {
	admitted := req.Clone()
	if admitted.Status == "" {
		admitted.Status = constants.RequestStatusNew
	}

	guard := CanComplete(CompletionContext{RequestID: admitted.ID, Status: admitted.Status, Duration: admitted.Duration})
	if err := guard.Error(); err != nil {
		return Result{}, err
	}

	stamp := now.UTC()
	admitted.CreatedAt = &stamp
	admitted.UpdatedAt = &stamp
	admitted.CreatedBy = actor.UserID

	prior := admitted
	prior.Status = ""
	return Result{
		Request:    admitted,
		Directives: directivesFor(prior, admitted.Status, actor),
	}, nil
}

// directivesFor compares the stored record with the resulting status. A
// cascade targets the equipment and subject stored before the diff.
func directivesFor(stored entities.MaintenanceRequest, status string, actor dto.Actor) []Directive {
	var out []Directive
	if stored.Status != status {
		out = append(out, StatusChanged{RequestID: stored.ID, From: stored.Status, To: status})
	}
	if EntersScrap(stored.Status, status) {
		out = append(out, ScrapCascade{
			EquipmentID: stored.EquipmentID,
			RequestID:   stored.ID,
			Subject:     stored.Subject,
			Actor:       actor,
		})
	}
	return out
}

func merge(current entities.MaintenanceRequest, diff dto.UpdateRequestDTO) entities.MaintenanceRequest {
	merged := current.Clone()

	if diff.Subject != nil {
		merged.Subject = *diff.Subject
	}
	if diff.Description != nil {
		merged.Description = *diff.Description
	}
	if diff.Type != nil {
		merged.Type = *diff.Type
	}
	if diff.Priority != nil {
		merged.Priority = *diff.Priority
	}
	if diff.EquipmentID != nil {
		merged.EquipmentID = *diff.EquipmentID
	}
	if diff.TeamID != nil {
		merged.TeamID = *diff.TeamID
	}
	if diff.Status != nil {
		merged.Status = *diff.Status
	}
	if diff.ScheduledDate != nil {
		merged.ScheduledDate = *diff.ScheduledDate
	}

	// Optional fields: an empty string clears the value.
	if diff.AssignedTechnicianID != nil {
		merged.AssignedTechnicianID = optionalString(*diff.AssignedTechnicianID)
	}
	if diff.Notes != nil {
		merged.Notes = optionalString(*diff.Notes)
	}
	if diff.CompletedDate != nil {
		v := *diff.CompletedDate
		merged.CompletedDate = &v
	}
	if diff.Duration != nil {
		v := *diff.Duration
		merged.Duration = &v
	}

	return merged
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
