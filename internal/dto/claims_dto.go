package dto

// Actor is the authenticated identity behind a request, resolved from a verified token.
type Actor struct {
	UserID string
	Name   string
	Email  string
	Role   string
	TeamID *string
}

// InTeam reports whether the actor belongs to teamID.
func (a Actor) InTeam(teamID string) bool {
	return a.TeamID != nil && *a.TeamID == teamID
}
