package calendar

import (
	"fmt"
	"strings"
	"time"
)

// dayOffsets maps day names to their offset from Monday.
var dayOffsets = map[string]int{
	"понедельник": 0, "пн": 0, "monday": 0, "mon": 0,
	"вторник": 1, "вт": 1, "tuesday": 1, "tue": 1,
	"среда": 2, "ср": 2, "wednesday": 2, "wed": 2,
	"четверг": 3, "чт": 3, "thursday": 3, "thu": 3,
	"пятница": 4, "пт": 4, "friday": 4, "fri": 4,
	"суббота": 5, "сб": 5, "saturday": 5, "sat": 5,
	"воскресенье": 6, "вс": 6, "sunday": 6, "sun": 6,
}

// ParseDay returns how many days after Monday the named day falls.
func ParseDay(name string) (int, bool) {
	key := strings.ToLower(strings.TrimSpace(name))
	key = strings.TrimSuffix(key, ".")
	offset, ok := dayOffsets[key]
	return offset, ok
}

var slotSeparators = []string{"–", "—", "-"}

// ParseSlot reads a lesson time range such as "08:30-10:00" and returns the
// start and end as offsets from midnight.
func ParseSlot(raw string) (time.Duration, time.Duration, error) {
	value := strings.TrimSpace(raw)
	var parts []string
	for _, sep := range slotSeparators {
		if strings.Contains(value, sep) {
			parts = strings.SplitN(value, sep, 2)
			break
		}
	}
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("time %q is not a range", raw)
	}
	from, err := parseClock(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("time %q: %w", raw, err)
	}
	to, err := parseClock(parts[1])
	if err != nil {
		return 0, 0, fmt.Errorf("time %q: %w", raw, err)
	}
	if to <= from {
		return 0, 0, fmt.Errorf("time %q ends before it starts", raw)
	}
	return from, to, nil
}

func parseClock(raw string) (time.Duration, error) {
	value := strings.ReplaceAll(strings.TrimSpace(raw), ".", ":")
	t, err := time.Parse("15:04", value)
	if err != nil {
		return 0, fmt.Errorf("invalid clock %q", strings.TrimSpace(raw))
	}
	return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute, nil
}
