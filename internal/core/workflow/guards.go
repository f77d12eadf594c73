// Package workflow holds the pure rules of the maintenance request lifecycle.
// Nothing here performs I/O: callers persist the results and execute the directives.
package workflow

import (
	"fmt"

	"github.com/dcodingdev/gearguard/pkg/constants"
	apperrors "github.com/dcodingdev/gearguard/pkg/errors"
)

const (
	ReasonDurationRequired  = "duration required before completion"
	MessageDurationRequired = "Please record the Hours Spent (Duration) before completing the request."
)

// GuardResult is the outcome of a precondition check.
type GuardResult struct {
	Allowed bool
	Reason  string
	Message string
}

// Error converts a rejected guard into an InvalidTransitionError.
func (r GuardResult) Error() error {
	if r.Allowed {
		return nil
	}
	return apperrors.NewInvalidTransitionError(r.Reason, r.Message)
}

// CompletionContext is the resulting state of a request after a change.
type CompletionContext struct {
	RequestID string
	Status    string
	Duration  *float64
}

// CanComplete: a request may only be in status repaired with a positive duration.
func CanComplete(ctx CompletionContext) GuardResult {
	if ctx.Status != constants.RequestStatusRepaired {
		return GuardResult{Allowed: true}
	}
	if ctx.Duration == nil || *ctx.Duration <= 0 {
		return GuardResult{
			Allowed: false,
			Reason:  ReasonDurationRequired,
			Message: MessageDurationRequired,
		}
	}
	return GuardResult{Allowed: true}
}

// EquipmentEditContext describes a direct status edit on equipment.
type EquipmentEditContext struct {
	EquipmentID   string
	CurrentStatus string
	NewStatus     string
}

// CanEditEquipmentStatus: scrapping is one-directional.
func CanEditEquipmentStatus(ctx EquipmentEditContext) GuardResult {
	if ctx.CurrentStatus == constants.EquipmentStatusScrapped && ctx.NewStatus != constants.EquipmentStatusScrapped {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("equipment %s is scrapped", ctx.EquipmentID),
			Message: "Scrapped equipment cannot be returned to service.",
		}
	}
	return GuardResult{Allowed: true}
}

// EntersScrap reports a move into scrap from any other status.
func EntersScrap(previous, next string) bool {
	return next == constants.RequestStatusScrap && previous != constants.RequestStatusScrap
}
