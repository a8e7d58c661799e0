package constants

type SeedPerson struct {
	Name     string
	Role     string
	Username string
	Password string
}

type SeedMachine struct {
	Name string
}

// SeedPersonnel bootstraps an empty roster. Passwords are hashed before they
// are stored and must be changed after the first login.
var SeedPersonnel = []SeedPerson{
	{Name: "Admin", Role: "ADMIN", Username: "admin", Password: "admin123"},
	{Name: "CAM Operator 1", Role: "CAM_OPERATOR", Username: "cam1", Password: "cam123"},
	{Name: "CAM Operator 2", Role: "CAM_OPERATOR", Username: "cam2", Password: "cam123"},
	{Name: "Supervisor", Role: "SUPERVISOR", Username: "supervisor", Password: "super123"},
	{Name: "Mold Designer", Role: "MOLD_DESIGN_RESPONSIBLE", Username: "design", Password: "design123"},
	{Name: "Machine Operator 1", Role: "MACHINE_OPERATOR"},
	{Name: "Machine Operator 2", Role: "MACHINE_OPERATOR"},
	{Name: "Machine Operator 3", Role: "MACHINE_OPERATOR"},
}

var SeedMachines = []SeedMachine{
	{Name: "CNC-01"},
	{Name: "CNC-02"},
	{Name: "CNC-03"},
	{Name: "EROSION-01"},
	{Name: "EROSION-02"},
	{Name: "WIRE-01"},
	{Name: "LATHE-01"},
	{Name: "GRINDER-01"},
}
