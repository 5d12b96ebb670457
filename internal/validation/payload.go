package validation

import (
	"encoding/json"
	"sort"
)

// Limits holds the constraints owned by the store schema. They are injected
// at construction so a schema change never touches the check logic.
type Limits struct {
	CourierTypes []string
	WeightMin    float64
	WeightMax    float64
	MaxBatch     int
	MaxWindows   int
}

// View selects how one canonical rule table is applied: a create treats
// every field as required, an update validates only the fields present.
type View int

const (
	CreateView View = iota
	UpdateView
)

// PayloadValidator checks courier and order batches against structural and
// business rules before they are accepted for persistence. It is stateless
// and safe for concurrent use.
type PayloadValidator struct {
	limits Limits
}

func NewPayloadValidator(limits Limits) *PayloadValidator {
	return &PayloadValidator{limits: limits}
}

// CourierRecord is a fully validated courier batch element.
type CourierRecord struct {
	CourierID       int64
	CourierType     string
	Regions         []int32
	WorkingHours    []Window
	RawWorkingHours []string
}

// CourierPatch is the update-view shape: nil pointers and nil slices mark
// fields absent from the payload.
type CourierPatch struct {
	CourierID       *int64
	CourierType     *string
	Regions         []int32
	WorkingHours    []Window
	RawWorkingHours []string
}

// OrderRecord is a fully validated order batch element.
type OrderRecord struct {
	OrderID          int64
	Weight           float64
	Region           int32
	DeliveryHours    []Window
	RawDeliveryHours []string
}

type OrderPatch struct {
	OrderID          *int64
	Weight           *float64
	Region           *int32
	DeliveryHours    []Window
	RawDeliveryHours []string
}

// fieldRule binds one wire field to its check. The rule tables below are the
// single source of truth per entity; views only change field presence.
type fieldRule struct {
	name  string
	check func(raw json.RawMessage) []error
}

// ValidateCouriers validates a `{"data": [...]}` courier batch. On any
// violation it returns a non-empty tree enumerating every failure and no
// records: batches are accepted or rejected as a whole.
func (v *PayloadValidator) ValidateCouriers(payload []byte) ([]CourierRecord, *ErrorTree) {
	tree := &ErrorTree{Kind: "couriers"}

	items, err := decodeBatch(payload)
	if err != nil {
		tree.Batch = append(tree.Batch, err)
		return nil, tree
	}

	if len(items) > v.limits.MaxBatch {
		tree.Batch = append(tree.Batch, &BatchTooLarge{Count: len(items), Max: v.limits.MaxBatch})
		return nil, tree
	}

	records := make([]CourierRecord, 0, len(items))
	ids := make([]int64, 0, len(items))

	for i, raw := range items {
		patch, errs := v.validateCourierItem(raw, CreateView)
		if len(errs) > 0 {
			tree.Items = append(tree.Items, ItemErrors{Index: i, Errs: errs})
			continue
		}

		ids = append(ids, *patch.CourierID)
		records = append(records, CourierRecord{
			CourierID:       *patch.CourierID,
			CourierType:     *patch.CourierType,
			Regions:         patch.Regions,
			WorkingHours:    patch.WorkingHours,
			RawWorkingHours: patch.RawWorkingHours,
		})
	}

	// Uniqueness runs once every element validated, so element failures are
	// reported first and never hidden behind a duplicate report.
	if len(tree.Items) == 0 {
		if dup := duplicatedIDs(ids); len(dup) > 0 {
			tree.Batch = append(tree.Batch, &DuplicateIdentifier{IDs: dup})
		}
	}

	if !tree.Empty() {
		return nil, tree
	}

	return records, nil
}

// ValidateCourierUpdate validates a single partial courier object: fields
// may be absent, present fields must be valid.
func (v *PayloadValidator) ValidateCourierUpdate(payload []byte) (CourierPatch, *ErrorTree) {
	patch, errs := v.validateCourierItem(payload, UpdateView)
	if len(errs) > 0 {
		return CourierPatch{}, &ErrorTree{
			Kind:  "couriers",
			Items: []ItemErrors{{Index: 0, Errs: errs}},
		}
	}

	return patch, nil
}

// ValidateOrders validates a `{"data": [...]}` order batch with the same
// all-or-nothing contract as ValidateCouriers.
func (v *PayloadValidator) ValidateOrders(payload []byte) ([]OrderRecord, *ErrorTree) {
	tree := &ErrorTree{Kind: "orders"}

	items, err := decodeBatch(payload)
	if err != nil {
		tree.Batch = append(tree.Batch, err)
		return nil, tree
	}

	if len(items) > v.limits.MaxBatch {
		tree.Batch = append(tree.Batch, &BatchTooLarge{Count: len(items), Max: v.limits.MaxBatch})
		return nil, tree
	}

	records := make([]OrderRecord, 0, len(items))
	ids := make([]int64, 0, len(items))

	for i, raw := range items {
		patch, errs := v.validateOrderItem(raw, CreateView)
		if len(errs) > 0 {
			tree.Items = append(tree.Items, ItemErrors{Index: i, Errs: errs})
			continue
		}

		ids = append(ids, *patch.OrderID)
		records = append(records, OrderRecord{
			OrderID:          *patch.OrderID,
			Weight:           *patch.Weight,
			Region:           *patch.Region,
			DeliveryHours:    patch.DeliveryHours,
			RawDeliveryHours: patch.RawDeliveryHours,
		})
	}

	if len(tree.Items) == 0 {
		if dup := duplicatedIDs(ids); len(dup) > 0 {
			tree.Batch = append(tree.Batch, &DuplicateIdentifier{IDs: dup})
		}
	}

	if !tree.Empty() {
		return nil, tree
	}

	return records, nil
}

func (v *PayloadValidator) ValidateOrderUpdate(payload []byte) (OrderPatch, *ErrorTree) {
	patch, errs := v.validateOrderItem(payload, UpdateView)
	if len(errs) > 0 {
		return OrderPatch{}, &ErrorTree{
			Kind:  "orders",
			Items: []ItemErrors{{Index: 0, Errs: errs}},
		}
	}

	return patch, nil
}

func (v *PayloadValidator) validateCourierItem(raw json.RawMessage, view View) (CourierPatch, []error) {
	var patch CourierPatch

	fields, err := decodeFields(raw)
	if err != nil {
		return patch, []error{err}
	}

	return patch, applyRules(fields, v.courierRules(&patch), view)
}

func (v *PayloadValidator) validateOrderItem(raw json.RawMessage, view View) (OrderPatch, []error) {
	var patch OrderPatch

	fields, err := decodeFields(raw)
	if err != nil {
		return patch, []error{err}
	}

	return patch, applyRules(fields, v.orderRules(&patch), view)
}

func (v *PayloadValidator) courierRules(patch *CourierPatch) []fieldRule {
	return []fieldRule{
		{"courier_id", func(raw json.RawMessage) []error {
			id, err := decodeInt("courier_id", raw)
			if err != nil {
				return []error{err}
			}
			if id < 0 {
				return []error{&OutOfRange{Field: "courier_id", Value: id}}
			}

			patch.CourierID = &id
			return nil
		}},
		{"courier_type", func(raw json.RawMessage) []error {
			t, err := decodeString("courier_type", raw)
			if err != nil {
				return []error{err}
			}
			if !contains(v.limits.CourierTypes, t) {
				return []error{&OutOfRange{Field: "courier_type", Value: t}}
			}

			patch.CourierType = &t
			return nil
		}},
		{"regions", func(raw json.RawMessage) []error {
			regions, errs := decodeRegions("regions", raw)
			if len(errs) > 0 {
				return errs
			}

			patch.Regions = regions
			return nil
		}},
		{"working_hours", func(raw json.RawMessage) []error {
			list, err := decodeStringList("working_hours", raw)
			if err != nil {
				return []error{err}
			}

			windows, errs := ParseWindows(list, "working hours")
			if len(errs) > 0 {
				return errs
			}

			patch.WorkingHours = windows
			patch.RawWorkingHours = list
			return nil
		}},
	}
}

func (v *PayloadValidator) orderRules(patch *OrderPatch) []fieldRule {
	return []fieldRule{
		{"order_id", func(raw json.RawMessage) []error {
			id, err := decodeInt("order_id", raw)
			if err != nil {
				return []error{err}
			}
			if id < 0 {
				return []error{&OutOfRange{Field: "order_id", Value: id}}
			}

			patch.OrderID = &id
			return nil
		}},
		{"weight", func(raw json.RawMessage) []error {
			w, err := decodeFloat("weight", raw)
			if err != nil {
				return []error{err}
			}
			if w < v.limits.WeightMin || w > v.limits.WeightMax {
				return []error{&OutOfRange{Field: "weight", Value: w}}
			}

			patch.Weight = &w
			return nil
		}},
		{"region", func(raw json.RawMessage) []error {
			region, err := decodeInt("region", raw)
			if err != nil {
				return []error{err}
			}
			if region < 0 {
				return []error{&OutOfRange{Field: "region", Value: region}}
			}

			r := int32(region)
			patch.Region = &r
			return nil
		}},
		{"delivery_hours", func(raw json.RawMessage) []error {
			list, err := decodeStringList("delivery_hours", raw)
			if err != nil {
				return []error{err}
			}
			if len(list) > v.limits.MaxWindows {
				return []error{&OutOfRange{Field: "delivery_hours", Value: len(list)}}
			}

			windows, errs := ParseWindows(list, "delivery hours")
			if len(errs) > 0 {
				return errs
			}

			patch.DeliveryHours = windows
			patch.RawDeliveryHours = list
			return nil
		}},
	}
}

// applyRules walks the rule table once. Absent fields (including JSON null)
// fail only under the create view; present fields are always checked.
func applyRules(fields map[string]json.RawMessage, rules []fieldRule, view View) []error {
	var errs []error

	for _, rule := range rules {
		raw, ok := fields[rule.name]
		if !ok || string(raw) == "null" {
			if view == CreateView {
				errs = append(errs, &RequiredFieldMissing{Field: rule.name})
			}
			continue
		}

		errs = append(errs, rule.check(raw)...)
	}

	return errs
}

// decodeBatch unwraps the `{"data": [...]}` envelope. Elements stay raw so
// a malformed element fails on its own index, not the whole list.
func decodeBatch(payload []byte) ([]json.RawMessage, error) {
	var envelope struct {
		Data *[]json.RawMessage `json:"data"`
	}

	if err := json.Unmarshal(payload, &envelope); err != nil {
		return nil, &TypeMismatch{Field: "data", Want: "list"}
	}
	if envelope.Data == nil {
		return nil, &RequiredFieldMissing{Field: "data"}
	}

	return *envelope.Data, nil
}

func decodeFields(raw json.RawMessage) (map[string]json.RawMessage, error) {
	fields := map[string]json.RawMessage{}
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, &TypeMismatch{Field: "item", Want: "object"}
	}

	return fields, nil
}

func decodeInt(field string, raw json.RawMessage) (int64, error) {
	var v int64
	if err := json.Unmarshal(raw, &v); err != nil {
		return 0, &TypeMismatch{Field: field, Want: "integer"}
	}

	return v, nil
}

func decodeFloat(field string, raw json.RawMessage) (float64, error) {
	var v float64
	if err := json.Unmarshal(raw, &v); err != nil {
		return 0, &TypeMismatch{Field: field, Want: "number"}
	}

	return v, nil
}

func decodeString(field string, raw json.RawMessage) (string, error) {
	var v string
	if err := json.Unmarshal(raw, &v); err != nil {
		return "", &TypeMismatch{Field: field, Want: "string"}
	}

	return v, nil
}

func decodeStringList(field string, raw json.RawMessage) ([]string, error) {
	var v []string
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, &TypeMismatch{Field: field, Want: "list of strings"}
	}
	if v == nil {
		v = []string{}
	}

	return v, nil
}

func decodeRegions(field string, raw json.RawMessage) ([]int32, []error) {
	var values []int64
	if err := json.Unmarshal(raw, &values); err != nil {
		return nil, []error{&TypeMismatch{Field: field, Want: "list of integers"}}
	}

	var errs []error
	regions := make([]int32, 0, len(values))
	for _, v := range values {
		if v < 0 {
			errs = append(errs, &OutOfRange{Field: field, Value: v})
			continue
		}
		regions = append(regions, int32(v))
	}
	if len(errs) > 0 {
		return nil, errs
	}

	return regions, nil
}

func duplicatedIDs(ids []int64) []int64 {
	seen := make(map[int64]int, len(ids))
	for _, id := range ids {
		seen[id]++
	}

	dups := []int64{}
	for id, n := range seen {
		if n > 1 {
			dups = append(dups, id)
		}
	}
	sort.Slice(dups, func(i, j int) bool { return dups[i] < dups[j] })

	return dups
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}

	return false
}
