package validation

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// intervalPattern is the only accepted wire shape for a window: "HH:MM-HH:MM".
var intervalPattern = regexp.MustCompile(`^\d\d:\d\d-\d\d:\d\d$`)

// Clock is a time of day with minute precision.
type Clock struct {
	Hour   int
	Minute int
}

// Minutes returns the clock value as minutes since midnight.
func (c Clock) Minutes() int {
	return c.Hour*60 + c.Minute
}

func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

// Window is a same-day interval used for courier working hours and order
// delivery hours. Once parsed it is known to be non-empty and ordered.
type Window struct {
	Start  Clock
	Finish Clock
}

func (w Window) String() string {
	return w.Start.String() + "-" + w.Finish.String()
}

type FormatError struct {
	Label string
	Index int
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("incorrect format for %s on index %d.", e.Label, e.Index)
}

type RangeError struct {
	Label string
	Index int
	Value int
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("incorrect value for %s on index %d. %d is out of range", e.Label, e.Index, e.Value)
}

type EmptyIntervalError struct {
	Interval string
}

func (e *EmptyIntervalError) Error() string {
	return fmt.Sprintf("time interval %s is empty", e.Interval)
}

type InvertedIntervalError struct {
	Start  string
	Finish string
}

func (e *InvertedIntervalError) Error() string {
	return fmt.Sprintf("time_start (%s) is greater than time_finish (%s).", e.Start, e.Finish)
}

// ParseWindow validates one raw interval string. label names the field in
// error messages ("working hours", "delivery hours"), index is the position
// of raw within its list. The checks run in order and stop at the first
// failure: format, range, non-empty, ordering.
func ParseWindow(raw, label string, index int) (Window, error) {
	if !intervalPattern.MatchString(raw) {
		return Window{}, &FormatError{Label: label, Index: index}
	}

	rawStart, rawFinish, _ := strings.Cut(raw, "-")

	start, err := parseClock(rawStart, label, index)
	if err != nil {
		return Window{}, err
	}

	finish, err := parseClock(rawFinish, label, index)
	if err != nil {
		return Window{}, err
	}

	if rawStart == rawFinish {
		return Window{}, &EmptyIntervalError{Interval: raw}
	}

	// Windows never cross midnight: "23:00-02:00" is rejected rather than
	// read as wrapping into the next day.
	if start.Minutes() > finish.Minutes() {
		return Window{}, &InvertedIntervalError{Start: rawStart, Finish: rawFinish}
	}

	return Window{Start: start, Finish: finish}, nil
}

// ParseWindows validates every element of raw. A failing element does not
// stop validation of the rest: the returned errors hold one entry per
// failing element in sequence order, and windows holds the elements that
// passed.
func ParseWindows(raw []string, label string) ([]Window, []error) {
	windows := make([]Window, 0, len(raw))
	var errs []error

	for i, interval := range raw {
		w, err := ParseWindow(interval, label, i)
		if err != nil {
			errs = append(errs, err)
			continue
		}

		windows = append(windows, w)
	}

	return windows, errs
}

func parseClock(raw, label string, index int) (Clock, error) {
	hh, mm, _ := strings.Cut(raw, ":")

	// Both substrings are exactly two digits here, the format check ran first.
	hour, _ := strconv.Atoi(hh)
	if hour > 23 {
		return Clock{}, &RangeError{Label: label, Index: index, Value: hour}
	}

	minute, _ := strconv.Atoi(mm)
	if minute > 59 {
		return Clock{}, &RangeError{Label: label, Index: index, Value: minute}
	}

	return Clock{Hour: hour, Minute: minute}, nil
}
