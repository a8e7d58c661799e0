package constants

const (
	OpTypeCNC            = "CNC"
	OpTypeCNCFinish      = "CNC-FINISH"
	OpTypeErosion        = "EROSION"
	OpTypeErosionPattern = "EROSION-PATTERN"
	OpTypeWireErosion    = "WIRE-EROSION"
	OpTypeTurning        = "TURNING"
	OpTypeGrinding       = "GRINDING"
	OpTypeDrilling       = "DRILLING"
	OpTypePolishing      = "POLISHING"
	OpTypeAssembly       = "ASSEMBLY"
)

// OperationTypes lists the types offered by the forms. Stored data may carry
// other values; analytics groups by whatever string is there.
var OperationTypes = map[string]bool{
	OpTypeCNC:            true,
	OpTypeCNCFinish:      true,
	OpTypeErosion:        true,
	OpTypeErosionPattern: true,
	OpTypeWireErosion:    true,
	OpTypeTurning:        true,
	OpTypeGrinding:       true,
	OpTypeDrilling:       true,
	OpTypePolishing:      true,
	OpTypeAssembly:       true,
}

const (
	// LegacyOperationType is given to the operation synthesized from a
	// pre-operations task record.
	LegacyOperationType = OpTypeCNC

	// LegacyDefaultMoldStatus is what the old forms wrote into every new mold
	// before statuses were derived.
	LegacyDefaultMoldStatus = "PENDING"

	// UnsetMachinePlaceholder is what the forms store when no machine was picked.
	UnsetMachinePlaceholder = "-"

	// UnassignedMachineBucket collects hours of operations with no machine.
	UnassignedMachineBucket = "UNASSIGNED"

	// LayoutID keys the single workshop layout document.
	LayoutID = "main"
)
