package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimeScan(t *testing.T) {
	t.Run("string", func(t *testing.T) {
		var v Time
		require.NoError(t, v.Scan("10:30:00"))
		assert.Equal(t, NewTime(10, 30, 0), v)
	})

	t.Run("bytes", func(t *testing.T) {
		var v Time
		require.NoError(t, v.Scan([]byte("23:59:59")))
		assert.Equal(t, NewTime(23, 59, 59), v)
	})

	t.Run("time.Time", func(t *testing.T) {
		var v Time
		src := time.Date(2023, time.May, 1, 8, 15, 0, 0, time.UTC)
		require.NoError(t, v.Scan(src))
		assert.Equal(t, Time(src), v)
	})

	t.Run("nil", func(t *testing.T) {
		v := NewTime(10, 0, 0)
		require.NoError(t, v.Scan(nil))
		assert.Equal(t, Time{}, v)
	})

	t.Run("unsupported", func(t *testing.T) {
		var v Time
		assert.Error(t, v.Scan(42))
	})

	t.Run("malformed", func(t *testing.T) {
		var v Time
		assert.Error(t, v.Scan("10-30-00"))
	})
}

func TestTimeValue(t *testing.T) {
	v, err := NewTime(9, 5, 0).Value()

	require.NoError(t, err)
	assert.Equal(t, "09:05:00", v)
}
