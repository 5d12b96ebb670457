package validation

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLimits() Limits {
	return Limits{
		CourierTypes: []string{"foot", "bike", "car"},
		WeightMin:    0.01,
		WeightMax:    50,
		MaxBatch:     10000,
		MaxWindows:   10000,
	}
}

const validCouriersPayload = `{
	"data": [
		{"courier_id": 1, "courier_type": "foot", "regions": [1, 2], "working_hours": ["10:00-14:00"]},
		{"courier_id": 2, "courier_type": "car", "regions": [3], "working_hours": ["08:00-12:00", "16:00-20:00"]}
	]
}`

func TestValidateCouriersSuccess(t *testing.T) {
	v := NewPayloadValidator(testLimits())

	records, tree := v.ValidateCouriers([]byte(validCouriersPayload))

	require.True(t, tree.Empty())
	require.Len(t, records, 2)

	assert.Equal(t, int64(1), records[0].CourierID)
	assert.Equal(t, "foot", records[0].CourierType)
	assert.Equal(t, []int32{1, 2}, records[0].Regions)
	require.Len(t, records[0].WorkingHours, 1)
	assert.Equal(t, "10:00-14:00", records[0].WorkingHours[0].String())

	assert.Equal(t, int64(2), records[1].CourierID)
	require.Len(t, records[1].WorkingHours, 2)
}

// Validation is a pure function of the payload: running it twice yields the
// same records and no errors.
func TestValidateCouriersIdempotent(t *testing.T) {
	v := NewPayloadValidator(testLimits())

	first, tree := v.ValidateCouriers([]byte(validCouriersPayload))
	require.True(t, tree.Empty())

	second, tree := v.ValidateCouriers([]byte(validCouriersPayload))
	require.True(t, tree.Empty())

	assert.Equal(t, first, second)
}

func TestValidateCouriersDuplicateIds(t *testing.T) {
	v := NewPayloadValidator(testLimits())
	payload := `{"data": [
		{"courier_id": 1, "courier_type": "foot", "regions": [1], "working_hours": ["10:00-14:00"]},
		{"courier_id": 2, "courier_type": "foot", "regions": [1], "working_hours": ["10:00-14:00"]},
		{"courier_id": 2, "courier_type": "bike", "regions": [2], "working_hours": ["11:00-15:00"]},
		{"courier_id": 3, "courier_type": "car", "regions": [3], "working_hours": ["12:00-16:00"]}
	]}`

	records, tree := v.ValidateCouriers([]byte(payload))

	assert.Nil(t, records)
	require.False(t, tree.Empty())
	require.Len(t, tree.Batch, 1)

	var dup *DuplicateIdentifier
	require.ErrorAs(t, tree.Batch[0], &dup)
	assert.Equal(t, []int64{2}, dup.IDs)

	assert.Equal(t, map[string]interface{}{
		"data": map[string]interface{}{
			"validation_error": []map[string]interface{}{{"id": int64(2)}},
		},
	}, tree.Envelope())
}

func TestValidateCouriersBatchTooLarge(t *testing.T) {
	limits := testLimits()
	v := NewPayloadValidator(limits)

	var sb strings.Builder
	sb.WriteString(`{"data": [`)
	for i := 0; i <= limits.MaxBatch; i++ {
		if i > 0 {
			sb.WriteString(",")
		}
		fmt.Fprintf(&sb, `{"courier_id": %d, "courier_type": "foot", "regions": [1], "working_hours": ["10:00-14:00"]}`, i)
	}
	sb.WriteString(`]}`)

	records, tree := v.ValidateCouriers([]byte(sb.String()))

	assert.Nil(t, records)
	require.Len(t, tree.Batch, 1)

	var tooLarge *BatchTooLarge
	require.ErrorAs(t, tree.Batch[0], &tooLarge)
	assert.Equal(t, limits.MaxBatch+1, tooLarge.Count)
	assert.Equal(t, limits.MaxBatch, tooLarge.Max)
}

func TestValidateCouriersMissingFields(t *testing.T) {
	v := NewPayloadValidator(testLimits())
	payload := `{"data": [{"courier_id": 1}]}`

	records, tree := v.ValidateCouriers([]byte(payload))

	assert.Nil(t, records)
	require.Len(t, tree.Items, 1)
	assert.Equal(t, 0, tree.Items[0].Index)
	require.Len(t, tree.Items[0].Errs, 3)

	missing := []string{}
	for _, err := range tree.Items[0].Errs {
		var req *RequiredFieldMissing
		require.ErrorAs(t, err, &req)
		missing = append(missing, req.Field)
	}
	assert.Equal(t, []string{"courier_type", "regions", "working_hours"}, missing)
}

// A field set to JSON null counts as absent.
func TestValidateCouriersNullIsMissing(t *testing.T) {
	v := NewPayloadValidator(testLimits())
	payload := `{"data": [{"courier_id": 1, "courier_type": null, "regions": [1], "working_hours": ["10:00-14:00"]}]}`

	_, tree := v.ValidateCouriers([]byte(payload))

	require.Len(t, tree.Items, 1)
	require.Len(t, tree.Items[0].Errs, 1)

	var req *RequiredFieldMissing
	require.ErrorAs(t, tree.Items[0].Errs[0], &req)
	assert.Equal(t, "courier_type", req.Field)
}

// A malformed element fails on its own index without stopping the rest,
// and element failures suppress the list-level duplicate check.
func TestValidateCouriersItemIsolation(t *testing.T) {
	v := NewPayloadValidator(testLimits())
	payload := `{"data": [
		{"courier_id": 1, "courier_type": "foot", "regions": [1], "working_hours": ["10:00-14:00"]},
		{"courier_id": 1, "courier_type": "scooter", "regions": [1], "working_hours": ["10:00-14:00"]},
		{"courier_id": 1, "courier_type": "foot", "regions": "east", "working_hours": ["10:00-14:00"]}
	]}`

	records, tree := v.ValidateCouriers([]byte(payload))

	assert.Nil(t, records)
	assert.Empty(t, tree.Batch)
	require.Len(t, tree.Items, 2)

	assert.Equal(t, 1, tree.Items[0].Index)
	var oor *OutOfRange
	require.ErrorAs(t, tree.Items[0].Errs[0], &oor)
	assert.Equal(t, "courier_type", oor.Field)

	assert.Equal(t, 2, tree.Items[1].Index)
	var mismatch *TypeMismatch
	require.ErrorAs(t, tree.Items[1].Errs[0], &mismatch)
	assert.Equal(t, "regions", mismatch.Field)

	assert.Equal(t, map[string]interface{}{
		"validation_error": map[string]interface{}{
			"couriers": []map[string]interface{}{{"id": 1}, {"id": 2}},
		},
	}, tree.Envelope())
}

func TestValidateCouriersMissingDataKey(t *testing.T) {
	v := NewPayloadValidator(testLimits())

	for _, payload := range []string{`{}`, `{"data": null}`} {
		_, tree := v.ValidateCouriers([]byte(payload))

		require.Len(t, tree.Batch, 1)
		var req *RequiredFieldMissing
		require.ErrorAs(t, tree.Batch[0], &req)
		assert.Equal(t, "data", req.Field)
	}
}

func TestValidateCouriersNegativeRegion(t *testing.T) {
	v := NewPayloadValidator(testLimits())
	payload := `{"data": [{"courier_id": 1, "courier_type": "foot", "regions": [1, -2, -3], "working_hours": ["10:00-14:00"]}]}`

	_, tree := v.ValidateCouriers([]byte(payload))

	require.Len(t, tree.Items, 1)
	require.Len(t, tree.Items[0].Errs, 2)

	var oor *OutOfRange
	require.ErrorAs(t, tree.Items[0].Errs[0], &oor)
	assert.Equal(t, int64(-2), oor.Value)
}

func TestValidateCourierUpdate(t *testing.T) {
	v := NewPayloadValidator(testLimits())

	t.Run("partial payload", func(t *testing.T) {
		patch, tree := v.ValidateCourierUpdate([]byte(`{"courier_type": "bike"}`))

		require.True(t, tree.Empty())
		require.NotNil(t, patch.CourierType)
		assert.Equal(t, "bike", *patch.CourierType)
		assert.Nil(t, patch.Regions)
		assert.Nil(t, patch.WorkingHours)
	})

	t.Run("empty object", func(t *testing.T) {
		patch, tree := v.ValidateCourierUpdate([]byte(`{}`))

		require.True(t, tree.Empty())
		assert.Equal(t, CourierPatch{}, patch)
	})

	t.Run("present field still checked", func(t *testing.T) {
		_, tree := v.ValidateCourierUpdate([]byte(`{"courier_type": "rocket"}`))

		require.Len(t, tree.Items, 1)
		assert.Equal(t, 0, tree.Items[0].Index)

		var oor *OutOfRange
		require.ErrorAs(t, tree.Items[0].Errs[0], &oor)
		assert.Equal(t, "courier_type", oor.Field)
	})
}

func TestValidateOrdersSuccess(t *testing.T) {
	v := NewPayloadValidator(testLimits())
	payload := `{"data": [
		{"order_id": 10, "weight": 0.01, "region": 5, "delivery_hours": ["09:00-18:00"]},
		{"order_id": 11, "weight": 50, "region": 6, "delivery_hours": ["10:00-11:00", "12:00-13:00"]}
	]}`

	records, tree := v.ValidateOrders([]byte(payload))

	require.True(t, tree.Empty())
	require.Len(t, records, 2)
	assert.Equal(t, int64(10), records[0].OrderID)
	assert.Equal(t, 0.01, records[0].Weight)
	assert.Equal(t, int32(5), records[0].Region)
	assert.Equal(t, []string{"09:00-18:00"}, records[0].RawDeliveryHours)
}

func TestValidateOrdersWeightBounds(t *testing.T) {
	v := NewPayloadValidator(testLimits())

	cases := []struct {
		name   string
		weight string
	}{
		{"below minimum", "0.005"},
		{"zero", "0"},
		{"above maximum", "50.5"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			payload := fmt.Sprintf(
				`{"data": [{"order_id": 1, "weight": %s, "region": 1, "delivery_hours": ["10:00-12:00"]}]}`,
				tc.weight,
			)

			records, tree := v.ValidateOrders([]byte(payload))

			assert.Nil(t, records)
			require.Len(t, tree.Items, 1)

			var oor *OutOfRange
			require.ErrorAs(t, tree.Items[0].Errs[0], &oor)
			assert.Equal(t, "weight", oor.Field)
		})
	}
}

func TestValidateOrdersBadIntervals(t *testing.T) {
	v := NewPayloadValidator(testLimits())
	payload := `{"data": [{"order_id": 1, "weight": 2, "region": 1, "delivery_hours": ["10:00-10:00", "23:00-02:00"]}]}`

	_, tree := v.ValidateOrders([]byte(payload))

	require.Len(t, tree.Items, 1)
	require.Len(t, tree.Items[0].Errs, 2)

	var empty *EmptyIntervalError
	require.ErrorAs(t, tree.Items[0].Errs[0], &empty)

	var inverted *InvertedIntervalError
	require.ErrorAs(t, tree.Items[0].Errs[1], &inverted)
}

func TestValidateOrdersWindowsCap(t *testing.T) {
	limits := testLimits()
	limits.MaxWindows = 2
	v := NewPayloadValidator(limits)
	payload := `{"data": [{"order_id": 1, "weight": 2, "region": 1, "delivery_hours": ["10:00-11:00", "12:00-13:00", "14:00-15:00"]}]}`

	_, tree := v.ValidateOrders([]byte(payload))

	require.Len(t, tree.Items, 1)
	var oor *OutOfRange
	require.ErrorAs(t, tree.Items[0].Errs[0], &oor)
	assert.Equal(t, "delivery_hours", oor.Field)
	assert.Equal(t, 3, oor.Value)
}

func TestValidateOrderUpdate(t *testing.T) {
	v := NewPayloadValidator(testLimits())

	patch, tree := v.ValidateOrderUpdate([]byte(`{"weight": 3.5, "delivery_hours": ["10:00-12:00"]}`))

	require.True(t, tree.Empty())
	require.NotNil(t, patch.Weight)
	assert.Equal(t, 3.5, *patch.Weight)
	assert.Nil(t, patch.OrderID)
	require.Len(t, patch.DeliveryHours, 1)
}
