package constants

// --- MAINTENANCE REQUEST STATUSES ---
const (
	RequestStatusNew        = "new"
	RequestStatusInProgress = "in_progress"
	RequestStatusRepaired   = "repaired"
	RequestStatusCancelled  = "cancelled"
	RequestStatusScrap      = "scrap"
)

var RequestStatuses = []string{
	RequestStatusNew,
	RequestStatusInProgress,
	RequestStatusRepaired,
	RequestStatusCancelled,
	RequestStatusScrap,
}

// Open statuses: the request is not resolved yet.
var OpenStatuses = []string{
	RequestStatusNew,
	RequestStatusInProgress,
}

func IsOpenStatus(code string) bool {
	return Contains(OpenStatuses, code)
}

const (
	RequestTypeCorrective = "corrective"
	RequestTypePreventive = "preventive"
)

var RequestTypes = []string{RequestTypeCorrective, RequestTypePreventive}

const (
	PriorityLow      = "low"
	PriorityMedium   = "medium"
	PriorityHigh     = "high"
	PriorityCritical = "critical"
)

var Priorities = []string{PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical}
