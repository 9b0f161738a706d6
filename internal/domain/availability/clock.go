package availability

import (
	"encoding/json"
	"fmt"
)

// ClockMinutes is a wall-clock time of day expressed as minutes from
// midnight. Schedules are stored and compared in the clinic's local clock;
// nothing in this package normalizes to UTC.
type ClockMinutes int

// ParseClock parses "HH:MM" (24-hour) into minutes from midnight.
func ParseClock(s string) (ClockMinutes, error) {
	var h, m int
	if _, err := fmt.Sscanf(s, "%d:%d", &h, &m); err != nil {
		return 0, fmt.Errorf("invalid clock time %q, expected HH:MM", s)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("clock time %q out of range", s)
	}
	return ClockMinutes(h*60 + m), nil
}

// String renders the time as "HH:MM".
func (c ClockMinutes) String() string {
	return fmt.Sprintf("%02d:%02d", int(c)/60, int(c)%60)
}

func (c ClockMinutes) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

func (c *ClockMinutes) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	v, err := ParseClock(s)
	if err != nil {
		return err
	}
	*c = v
	return nil
}
