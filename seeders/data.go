package seeders

import (
	"time"

	"github.com/dcodingdev/gearguard/pkg/constants"
)

type userRow struct {
	ID, Name, Email, Password, Role, TeamID string
}

type memberRow struct {
	UserID, Name, Email, Role string
}

type teamRow struct {
	ID, Name, Specialization, Description string
	Members                               []memberRow
}

type equipmentRow struct {
	ID, Name, Serial, Category, Department string
	EmployeeID, EmployeeName               string
	TeamID, TechnicianID                   string
	Purchase, Warranty                     string
	Location, Status, Notes                string
}

type requestRow struct {
	ID, Subject, Description, Type, Priority string
	EquipmentID, TeamID, TechnicianID        string
	Status, CreatedBy                        string
	Scheduled, Created                       time.Duration
	Completed                                bool
	Duration                                 float64
}

var usersData = []userRow{
	{ID: "user-1", Name: "John Admin", Email: "admin@gearguard.com", Password: "admin123", Role: constants.RoleAdmin},
	{ID: "user-2", Name: "Sarah Manager", Email: "manager@gearguard.com", Password: "manager123", Role: constants.RoleManager},
	{ID: "user-3", Name: "Mike Technician", Email: "tech1@gearguard.com", Password: "tech123", Role: constants.RoleTechnician, TeamID: "team-1"},
	{ID: "user-4", Name: "Lisa Technician", Email: "tech2@gearguard.com", Password: "tech123", Role: constants.RoleTechnician, TeamID: "team-1"},
	{ID: "user-5", Name: "Tom Electrician", Email: "tech3@gearguard.com", Password: "tech123", Role: constants.RoleTechnician, TeamID: "team-2"},
	{ID: "user-6", Name: "Amy IT Support", Email: "tech4@gearguard.com", Password: "tech123", Role: constants.RoleTechnician, TeamID: "team-3"},
}

var teamsData = []teamRow{
	{
		ID: "team-1", Name: "Mechanics", Specialization: "Heavy Machinery & Vehicles",
		Description: "Expert team for all mechanical repairs and maintenance",
		Members: []memberRow{
			{UserID: "user-3", Name: "Mike Technician", Email: "tech1@gearguard.com", Role: constants.MemberRoleLead},
			{UserID: "user-4", Name: "Lisa Technician", Email: "tech2@gearguard.com", Role: constants.MemberRoleTechnician},
		},
	},
	{
		ID: "team-2", Name: "Electricians", Specialization: "Electrical Systems",
		Description: "Specialized in electrical repairs and installations",
		Members: []memberRow{
			{UserID: "user-5", Name: "Tom Electrician", Email: "tech3@gearguard.com", Role: constants.MemberRoleLead},
		},
	},
	{
		ID: "team-3", Name: "IT Support", Specialization: "Computer & Network",
		Description: "IT infrastructure and computer maintenance",
		Members: []memberRow{
			{UserID: "user-6", Name: "Amy IT Support", Email: "tech4@gearguard.com", Role: constants.MemberRoleLead},
		},
	},
	{
		ID: "team-4", Name: "Facilities", Specialization: "Building Maintenance",
		Description: "General facilities and building maintenance",
	},
}

var equipmentData = []equipmentRow{
	{ID: "equip-1", Name: "CNC Machine A1", Serial: "CNC-2023-001", Category: constants.CategoryMachine, Department: "production",
		TeamID: "team-1", TechnicianID: "user-3", Purchase: "2023-01-15", Warranty: "2026-01-15",
		Location: "Building A, Floor 1", Status: constants.EquipmentStatusOperational, Notes: "Primary CNC for metal parts"},
	{ID: "equip-2", Name: "Forklift FL-01", Serial: "FL-2022-045", Category: constants.CategoryVehicle, Department: "logistics",
		EmployeeID: "emp-1", EmployeeName: "Bob Driver", TeamID: "team-1", TechnicianID: "user-4", Purchase: "2022-06-20", Warranty: "2025-06-20",
		Location: "Warehouse B", Status: constants.EquipmentStatusOperational},
	{ID: "equip-3", Name: "Dell Workstation WS-15", Serial: "DELL-WS-2024-015", Category: constants.CategoryComputer, Department: "it",
		EmployeeID: "emp-2", EmployeeName: "Alice Developer", TeamID: "team-3", TechnicianID: "user-6", Purchase: "2024-02-10", Warranty: "2027-02-10",
		Location: "Office 3rd Floor", Status: constants.EquipmentStatusOperational},
	{ID: "equip-4", Name: "Industrial Press P-200", Serial: "IP-2021-200", Category: constants.CategoryMachine, Department: "production",
		TeamID: "team-1", TechnicianID: "user-3", Purchase: "2021-09-05", Warranty: "2024-09-05",
		Location: "Building A, Floor 2", Status: constants.EquipmentStatusUnderMaintenance, Notes: "Scheduled for bearing replacement"},
	{ID: "equip-5", Name: "HVAC Unit AC-3", Serial: "HVAC-2020-003", Category: constants.CategoryOther, Department: "facilities",
		TeamID: "team-2", TechnicianID: "user-5", Purchase: "2020-03-15",
		Location: "Rooftop Building A", Status: constants.EquipmentStatusOperational},
	{ID: "equip-6", Name: "Delivery Van V-02", Serial: "VAN-2023-002", Category: constants.CategoryVehicle, Department: "logistics",
		EmployeeID: "emp-3", EmployeeName: "Charlie Driver", TeamID: "team-1", TechnicianID: "user-4", Purchase: "2023-07-01", Warranty: "2026-07-01",
		Location: "Parking Lot B", Status: constants.EquipmentStatusOperational},
	{ID: "equip-7", Name: "Server Rack SR-01", Serial: "SRV-2022-001", Category: constants.CategoryComputer, Department: "it",
		TeamID: "team-3", TechnicianID: "user-6", Purchase: "2022-11-20", Warranty: "2025-11-20",
		Location: "Server Room", Status: constants.EquipmentStatusOperational, Notes: "Main server infrastructure"},
	{ID: "equip-8", Name: "Welding Station WS-02", Serial: "WLD-2019-002", Category: constants.CategoryMachine, Department: "production",
		TeamID: "team-2", TechnicianID: "user-5", Purchase: "2019-04-12",
		Location: "Building B, Floor 1", Status: constants.EquipmentStatusOutOfService, Notes: "Pending replacement parts"},
}

const day = 24 * time.Hour

// Scheduled and Created are offsets from the time the seeder runs.
var requestsData = []requestRow{
	{ID: "req-1", Subject: "Oil leak in CNC Machine", Description: "Noticed oil leaking from the hydraulic system. Needs immediate attention.",
		Type: constants.RequestTypeCorrective, Priority: constants.PriorityHigh, EquipmentID: "equip-1", TeamID: "team-1", TechnicianID: "user-3",
		Status: constants.RequestStatusInProgress, CreatedBy: "user-2", Created: -day},
	{ID: "req-2", Subject: "Forklift annual inspection", Description: "Scheduled annual safety inspection and maintenance.",
		Type: constants.RequestTypePreventive, Priority: constants.PriorityMedium, EquipmentID: "equip-2", TeamID: "team-1",
		Status: constants.RequestStatusNew, CreatedBy: "user-2", Scheduled: day},
	{ID: "req-3", Subject: "Workstation RAM upgrade", Description: "Upgrade RAM from 16GB to 32GB for better performance.",
		Type: constants.RequestTypeCorrective, Priority: constants.PriorityLow, EquipmentID: "equip-3", TeamID: "team-3", TechnicianID: "user-6",
		Status: constants.RequestStatusNew, CreatedBy: "user-1", Scheduled: 7 * day},
	{ID: "req-4", Subject: "Press bearing replacement", Description: "Replace worn bearings to prevent further damage.",
		Type: constants.RequestTypeCorrective, Priority: constants.PriorityCritical, EquipmentID: "equip-4", TeamID: "team-1", TechnicianID: "user-3",
		Status: constants.RequestStatusInProgress, CreatedBy: "user-2", Created: -day},
	{ID: "req-5", Subject: "HVAC filter change", Description: "Quarterly filter replacement for AC units.",
		Type: constants.RequestTypePreventive, Priority: constants.PriorityLow, EquipmentID: "equip-5", TeamID: "team-2", TechnicianID: "user-5",
		Status: constants.RequestStatusRepaired, CreatedBy: "user-2", Scheduled: -day, Created: -day, Completed: true, Duration: 45},
	{ID: "req-6", Subject: "Van oil change", Description: "Regular oil change and fluid check.",
		Type: constants.RequestTypePreventive, Priority: constants.PriorityMedium, EquipmentID: "equip-6", TeamID: "team-1",
		Status: constants.RequestStatusNew, CreatedBy: "user-2", Scheduled: 7 * day},
}
