package types

// DashboardStats holds the counters shown on the dashboard landing page.
type DashboardStats struct {
	TotalEquipment       int64 `json:"total_equipment"`
	OperationalEquipment int64 `json:"operational_equipment"`
	UnderMaintenance     int64 `json:"under_maintenance"`
	OutOfService         int64 `json:"out_of_service"`
	ScrappedEquipment    int64 `json:"scrapped_equipment"`
	TotalRequests        int64 `json:"total_requests"`
	OpenRequests         int64 `json:"open_requests"`
	InProgressRequests   int64 `json:"in_progress_requests"`
	CompletedRequests    int64 `json:"completed_requests"`
	TotalTeams           int64 `json:"total_teams"`
	TotalTechnicians     int64 `json:"total_technicians"`
}
