package entity

import "yandex-team.ru/candytask/internal/validation"

type Order struct {
	ID            uint64
	CourierID     *uint64
	Weight        float64
	Region        int32
	DeliveryHours []string
}

// OrderAvailability is one row of the availability view: every delivery
// window currently associated with the order, flattened into index-aligned
// start and finish sequences. Both sequences are always the same length and
// empty (never nil, never null-padded) for orders without windows.
type OrderAvailability struct {
	OrderID   uint64
	CourierID *uint64
	Weight    float64
	Region    int32
	Starts    []validation.Clock
	Finishes  []validation.Clock
}
