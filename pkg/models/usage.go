package models

// DatabaseLoad classifies the read/write balance of a workload
type DatabaseLoad string

const (
	DatabaseReadHeavy  DatabaseLoad = "READ_HEAVY"
	DatabaseWriteHeavy DatabaseLoad = "WRITE_HEAVY"
	DatabaseBalanced   DatabaseLoad = "BALANCED"

	// DatabaseNone is used when the profile declares no database instance
	DatabaseNone DatabaseLoad = "NONE"
)

// StorageAccess classifies how often stored data is read
type StorageAccess string

const (
	StorageHot  StorageAccess = "HOT"
	StorageWarm StorageAccess = "WARM"
	StorageCold StorageAccess = "COLD"
)

// ScalingNeed is the scaling direction the workload calls for
type ScalingNeed string

const (
	ScalingHorizontal ScalingNeed = "HORIZONTAL"
	ScalingVertical   ScalingNeed = "VERTICAL"
	ScalingBoth       ScalingNeed = "BOTH"
	ScalingNone       ScalingNeed = "NONE"
)

// Horizontal reports whether scaling out is part of the need
func (s ScalingNeed) Horizontal() bool {
	return s == ScalingHorizontal || s == ScalingBoth
}

// Vertical reports whether scaling up is part of the need
func (s ScalingNeed) Vertical() bool {
	return s == ScalingVertical || s == ScalingBoth
}

// ComputeUtilization is the expected load per instance
type ComputeUtilization string

const (
	UtilizationLow    ComputeUtilization = "LOW"
	UtilizationNormal ComputeUtilization = "NORMAL"
	UtilizationHigh   ComputeUtilization = "HIGH"
)

// UsagePattern is the behavioral classification derived from a profile
type UsagePattern struct {
	Traffic       TrafficPattern     `json:"traffic" yaml:"traffic"`
	DatabaseLoad  DatabaseLoad       `json:"database_load" yaml:"database_load"`
	StorageAccess StorageAccess      `json:"storage_access" yaml:"storage_access"`
	Scaling       ScalingNeed        `json:"scaling" yaml:"scaling"`
	Compute       ComputeUtilization `json:"compute" yaml:"compute"`
	// PeakHours is sorted ascending, each hour in [0, 23]
	PeakHours []int `json:"peak_hours" yaml:"peak_hours"`
}
