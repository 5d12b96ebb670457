package entity

// Courier as stored. Valid CourierType values are owned by the store schema
// and injected into validation through config, not mirrored here as
// constants.
type Courier struct {
	ID           uint64
	CourierType  string
	Regions      []int32
	WorkingHours []string
}
