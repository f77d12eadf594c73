package entities

import "time"

// ActivityLog is an append-only audit entry. EntityName and UserName are
// snapshots taken when the entry was written.
type ActivityLog struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	Action     string    `json:"action"`
	EntityID   string    `json:"entity_id"`
	EntityName string    `json:"entity_name"`
	UserID     string    `json:"user_id"`
	UserName   string    `json:"user_name"`
	Details    *string   `json:"details,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}
