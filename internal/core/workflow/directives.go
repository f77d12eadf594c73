package workflow

import "github.com/dcodingdev/gearguard/internal/dto"

// Directive describes a side effect the caller must carry out after persisting.
type Directive interface {
	DirectiveType() string
}

// ScrapCascade asks for the equipment to be scrapped and its other open
// requests to be cancelled.
type ScrapCascade struct {
	EquipmentID string
	RequestID   string
	Subject     string
	Actor       dto.Actor
}

func (ScrapCascade) DirectiveType() string { return "scrap_cascade" }

// StatusChanged records a status move for the audit trail and metrics.
type StatusChanged struct {
	RequestID string
	From      string
	To        string
}

func (StatusChanged) DirectiveType() string { return "status_changed" }
