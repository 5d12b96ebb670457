package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseWindowValid(t *testing.T) {
	cases := []struct {
		raw  string
		want Window
	}{
		{"10:00-12:00", Window{Start: Clock{Hour: 10}, Finish: Clock{Hour: 12}}},
		{"00:00-23:59", Window{Start: Clock{}, Finish: Clock{Hour: 23, Minute: 59}}},
		{"09:30-09:31", Window{Start: Clock{Hour: 9, Minute: 30}, Finish: Clock{Hour: 9, Minute: 31}}},
		{"15:03-21:58", Window{Start: Clock{Hour: 15, Minute: 3}, Finish: Clock{Hour: 21, Minute: 58}}},
	}

	for _, tc := range cases {
		t.Run(tc.raw, func(t *testing.T) {
			w, err := ParseWindow(tc.raw, "working hours", 0)

			require.NoError(t, err)
			assert.Equal(t, tc.want, w)
			assert.Equal(t, tc.raw, w.String())
		})
	}
}

func TestParseWindowFormat(t *testing.T) {
	cases := []string{
		"",
		"12:00",
		"150:00-12:00",
		"1:00-02:00",
		"10:00 - 12:00",
		"aa:bb-cc:dd",
		"10:00-12:00-14:00",
		"10.00-12.00",
	}

	for _, raw := range cases {
		t.Run(raw, func(t *testing.T) {
			_, err := ParseWindow(raw, "delivery hours", 3)

			var formatErr *FormatError
			require.ErrorAs(t, err, &formatErr)
			assert.Equal(t, "delivery hours", formatErr.Label)
			assert.Equal(t, 3, formatErr.Index)
		})
	}
}

func TestParseWindowRange(t *testing.T) {
	cases := []struct {
		raw       string
		offending int
	}{
		{"24:00-25:00", 24},
		{"10:00-26:00", 26},
		{"11:00-12:60", 60},
		{"11:61-12:30", 61},
	}

	for _, tc := range cases {
		t.Run(tc.raw, func(t *testing.T) {
			_, err := ParseWindow(tc.raw, "working hours", 1)

			var rangeErr *RangeError
			require.ErrorAs(t, err, &rangeErr)
			assert.Equal(t, tc.offending, rangeErr.Value)
			assert.Equal(t, 1, rangeErr.Index)
		})
	}
}

func TestParseWindowEmpty(t *testing.T) {
	_, err := ParseWindow("10:00-10:00", "working hours", 0)

	var emptyErr *EmptyIntervalError
	require.ErrorAs(t, err, &emptyErr)
	assert.Equal(t, "10:00-10:00", emptyErr.Interval)
}

func TestParseWindowInverted(t *testing.T) {
	_, err := ParseWindow("12:00-09:00", "delivery hours", 0)

	var invErr *InvertedIntervalError
	require.ErrorAs(t, err, &invErr)
	assert.Equal(t, "12:00", invErr.Start)
	assert.Equal(t, "09:00", invErr.Finish)
}

// Windows crossing midnight are not supported: the finish must not precede
// the start within the same day.
func TestParseWindowNoMidnightWraparound(t *testing.T) {
	_, err := ParseWindow("23:00-02:00", "delivery hours", 0)

	var invErr *InvertedIntervalError
	require.ErrorAs(t, err, &invErr)
	assert.Equal(t, "23:00", invErr.Start)
	assert.Equal(t, "02:00", invErr.Finish)
}

func TestParseWindowsCollectsEveryFailure(t *testing.T) {
	raw := []string{
		"10:00-12:00",
		"nonsense",
		"12:00-09:00",
		"14:00-15:30",
		"11:00-12:60",
	}

	windows, errs := ParseWindows(raw, "working hours")

	require.Len(t, windows, 2)
	assert.Equal(t, "10:00-12:00", windows[0].String())
	assert.Equal(t, "14:00-15:30", windows[1].String())

	require.Len(t, errs, 3)

	var formatErr *FormatError
	require.ErrorAs(t, errs[0], &formatErr)
	assert.Equal(t, 1, formatErr.Index)

	var invErr *InvertedIntervalError
	require.ErrorAs(t, errs[1], &invErr)

	var rangeErr *RangeError
	require.ErrorAs(t, errs[2], &rangeErr)
	assert.Equal(t, 4, rangeErr.Index)
}

func TestParseWindowsEmptyList(t *testing.T) {
	windows, errs := ParseWindows([]string{}, "working hours")

	assert.NotNil(t, windows)
	assert.Empty(t, windows)
	assert.Empty(t, errs)
}

func TestClockMinutes(t *testing.T) {
	assert.Equal(t, 0, Clock{}.Minutes())
	assert.Equal(t, 90, Clock{Hour: 1, Minute: 30}.Minutes())
	assert.Equal(t, 1439, Clock{Hour: 23, Minute: 59}.Minutes())
}
