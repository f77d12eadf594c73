package constants

//============== ROLES ==============

const (
	RoleAdmin      = "admin"
	RoleManager    = "manager"
	RoleTechnician = "technician"
)

var Roles = []string{RoleAdmin, RoleManager, RoleTechnician}

// Team member roles
const (
	MemberRoleLead       = "lead"
	MemberRoleTechnician = "technician"
)

var MemberRoles = []string{MemberRoleLead, MemberRoleTechnician}

//============== EQUIPMENT ==============

const (
	EquipmentStatusOperational      = "operational"
	EquipmentStatusUnderMaintenance = "under_maintenance"
	EquipmentStatusOutOfService     = "out_of_service"
	EquipmentStatusScrapped         = "scrapped"
)

var EquipmentStatuses = []string{
	EquipmentStatusOperational,
	EquipmentStatusUnderMaintenance,
	EquipmentStatusOutOfService,
	EquipmentStatusScrapped,
}

const (
	CategoryMachine  = "machine"
	CategoryVehicle  = "vehicle"
	CategoryComputer = "computer"
	CategoryOther    = "other"
)

var EquipmentCategories = []string{CategoryMachine, CategoryVehicle, CategoryComputer, CategoryOther}

var Departments = []string{
	"production",
	"it",
	"admin",
	"logistics",
	"maintenance",
	"quality",
	"facilities",
	"sales",
}

//============== ACTIVITY LOG ==============

const (
	ActivityTypeEquipment = "equipment"
	ActivityTypeTeam      = "team"
	ActivityTypeRequest   = "request"
	ActivityTypeUser      = "user"
)

const (
	ActionCreate       = "create"
	ActionUpdate       = "update"
	ActionDelete       = "delete"
	ActionStatusChange = "status_change"
)

const (
	DefaultActivityFeedLimit = 20
	MaxActivityFeedLimit     = 100
)

//============== CACHE KEYS ==============

const (
	CacheKeyDashboardStats = "dashboard:stats"

	// Redis mutex name for the scrap reconciler job.
	LockKeyScrapReconcile = "cron:lock:scrap_reconcile"
)

// Contains reports whether v is one of values.
func Contains(values []string, v string) bool {
	for _, s := range values {
		if s == v {
			return true
		}
	}
	return false
}
