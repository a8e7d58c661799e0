package storage

type OperationStatus string

const (
	OpNotStarted              OperationStatus = "NOT_STARTED"
	OpInProgress              OperationStatus = "IN_PROGRESS"
	OpWaitingSupervisorReview OperationStatus = "WAITING_SUPERVISOR_REVIEW"
	OpCompleted               OperationStatus = "COMPLETED"
)

func (s OperationStatus) Valid() bool {
	switch s {
	case OpNotStarted, OpInProgress, OpWaitingSupervisorReview, OpCompleted:
		return true
	}
	return false
}

// MoldStatus is the mold-level vocabulary. It is not the same set as
// OperationStatus: a running mold may sit in one of several workshop stages.
type MoldStatus string

const (
	MoldNotStarted MoldStatus = "NOT_STARTED"
	MoldMachining  MoldStatus = "MACHINING"
	MoldErosion    MoldStatus = "EROSION"
	MoldPolishing  MoldStatus = "POLISHING"
	MoldAssembly   MoldStatus = "ASSEMBLY"
	MoldTrial      MoldStatus = "TRIAL"
	MoldCompleted  MoldStatus = "COMPLETED"
	MoldOnHold     MoldStatus = "ON_HOLD"
	MoldCancelled  MoldStatus = "CANCELLED"
)

func (s MoldStatus) Valid() bool {
	switch s {
	case MoldNotStarted, MoldMachining, MoldErosion, MoldPolishing, MoldAssembly,
		MoldTrial, MoldCompleted, MoldOnHold, MoldCancelled:
		return true
	}
	return false
}

// InProgressStage reports whether s is one of the workshop stages a running
// mold can be in.
func (s MoldStatus) InProgressStage() bool {
	switch s {
	case MoldMachining, MoldErosion, MoldPolishing, MoldAssembly, MoldTrial:
		return true
	}
	return false
}

// Administrative reports whether s is set by hand and lives outside the
// operation lifecycle.
func (s MoldStatus) Administrative() bool {
	return s == MoldOnHold || s == MoldCancelled
}

type Role string

const (
	RoleAdmin                 Role = "ADMIN"
	RoleCamOperator           Role = "CAM_OPERATOR"
	RoleSupervisor            Role = "SUPERVISOR"
	RoleMachineOperator       Role = "MACHINE_OPERATOR"
	RoleMoldDesignResponsible Role = "MOLD_DESIGN_RESPONSIBLE"
	RoleProjectManager        Role = "PROJECT_MANAGER"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleCamOperator, RoleSupervisor, RoleMachineOperator,
		RoleMoldDesignResponsible, RoleProjectManager:
		return true
	}
	return false
}

// CanLogin is false for roles that never authenticate (machine operators are
// only referenced by name on operations).
func (r Role) CanLogin() bool {
	return r.Valid() && r != RoleMachineOperator
}

type MachineStatus string

const (
	MachineAvailable   MachineStatus = "AVAILABLE"
	MachineBusy        MachineStatus = "BUSY"
	MachineWaiting     MachineStatus = "WAITING"
	MachineMaintenance MachineStatus = "MAINTENANCE"
	MachineFault       MachineStatus = "FAULT"
)

func (s MachineStatus) Valid() bool {
	switch s {
	case MachineAvailable, MachineBusy, MachineWaiting, MachineMaintenance, MachineFault:
		return true
	}
	return false
}
