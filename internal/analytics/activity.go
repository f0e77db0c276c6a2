package analytics

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/xaenox/chat-features/internal/datelib"
	"github.com/xaenox/chat-features/internal/models"
)

// Shift is a fixed time-of-day bucket
type Shift string

const (
	ShiftLateNight Shift = "latenight"
	ShiftMorning   Shift = "morning"
	ShiftAfternoon Shift = "afternoon"
	ShiftEvening   Shift = "evening"
)

// Shifts lists every bucket in chronological order
var Shifts = []Shift{ShiftLateNight, ShiftMorning, ShiftAfternoon, ShiftEvening}

// ComputeMessagesPerWeekday counts messages per weekday label. Only observed weekdays
// are present in the result.
func ComputeMessagesPerWeekday(messages []*models.Message) (map[string]int, error) {
	weekday := make(map[string]int)
	for i, msg := range messages {
		label, err := datelib.DateToWeekday(msg.Date)
		if err != nil {
			return nil, messageErr(OpMessagesPerWeekday, i, msg, err)
		}
		weekday[label]++
	}
	return weekday, nil
}

// ComputeMessagesPerShift counts messages per shift. All four shifts are always present.
func ComputeMessagesPerShift(messages []*models.Message) (map[Shift]int, error) {
	shifts := make(map[Shift]int, len(Shifts))
	for _, s := range Shifts {
		shifts[s] = 0
	}

	for i, msg := range messages {
		hour, err := parseHour(msg.Time)
		if err != nil {
			return nil, messageErr(OpMessagesPerShift, i, msg, err)
		}
		shifts[shiftOf(hour)]++
	}
	return shifts, nil
}

// parseHour reads the leading hour field of a "15:04[:05]" time of day
func parseHour(timeOfDay string) (int, error) {
	field, _, _ := strings.Cut(timeOfDay, ":")
	hour, err := strconv.Atoi(strings.TrimSpace(field))
	if err != nil {
		return 0, fmt.Errorf("%w %q", ErrMalformedTime, timeOfDay)
	}
	if hour < 0 || hour > 23 {
		return 0, fmt.Errorf("%w %q: hour out of range", ErrMalformedTime, timeOfDay)
	}
	return hour, nil
}

func shiftOf(hour int) Shift {
	switch {
	case hour <= 6:
		return ShiftLateNight
	case hour <= 11:
		return ShiftMorning
	case hour <= 17:
		return ShiftAfternoon
	default:
		return ShiftEvening
	}
}
