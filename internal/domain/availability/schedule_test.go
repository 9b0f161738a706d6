package availability

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func mustClock(t *testing.T, s string) ClockMinutes {
	t.Helper()
	c, err := ParseClock(s)
	if err != nil {
		t.Fatalf("bad clock %q: %v", s, err)
	}
	return c
}

func clockPtr(c ClockMinutes) *ClockMinutes { return &c }

// monday is a known Monday used across the schedule tests.
var monday = time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)

func mondayBlock(t *testing.T, start, end string) *RecurringBlock {
	t.Helper()
	return &RecurringBlock{
		ID:         uuid.New(),
		ProviderID: uuid.New(),
		DayOfWeek:  int(time.Monday),
		StartTime:  mustClock(t, start),
		EndTime:    mustClock(t, end),
		IsActive:   true,
	}
}

func TestWindowsForDateRecurringOnly(t *testing.T) {
	blocks := []*RecurringBlock{mondayBlock(t, "09:00", "17:00")}
	windows := WindowsForDate(blocks, nil, monday)
	if len(windows) != 1 {
		t.Fatalf("expected 1 window, got %d", len(windows))
	}
	if windows[0].Start.String() != "09:00" || windows[0].End.String() != "17:00" {
		t.Errorf("unexpected window %s-%s", windows[0].Start, windows[0].End)
	}
}

func TestWindowsForDateWrongWeekday(t *testing.T) {
	blocks := []*RecurringBlock{mondayBlock(t, "09:00", "17:00")}
	tuesday := monday.AddDate(0, 0, 1)
	if windows := WindowsForDate(blocks, nil, tuesday); len(windows) != 0 {
		t.Errorf("expected no windows on Tuesday, got %d", len(windows))
	}
}

func TestWindowsForDateInactiveBlockIgnored(t *testing.T) {
	b := mondayBlock(t, "09:00", "17:00")
	b.IsActive = false
	if windows := WindowsForDate([]*RecurringBlock{b}, nil, monday); len(windows) != 0 {
		t.Errorf("inactive block should not produce windows, got %d", len(windows))
	}
}

func TestWindowsForDateFullDayUnavailable(t *testing.T) {
	blocks := []*RecurringBlock{mondayBlock(t, "09:00", "17:00")}
	exceptions := []*ScheduleException{
		{ExceptionType: ExceptionUnavailable, Date: monday},
		{ExceptionType: ExceptionCustomHours, Date: monday,
			StartTime: clockPtr(mustClock(t, "10:00")), EndTime: clockPtr(mustClock(t, "12:00"))},
	}
	if windows := WindowsForDate(blocks, exceptions, monday); len(windows) != 0 {
		t.Errorf("full-day unavailable should blank the date, got %d windows", len(windows))
	}
}

func TestWindowsForDateCustomHoursReplaceRecurring(t *testing.T) {
	blocks := []*RecurringBlock{mondayBlock(t, "09:00", "17:00")}
	exceptions := []*ScheduleException{
		{ExceptionType: ExceptionCustomHours, Date: monday,
			StartTime: clockPtr(mustClock(t, "10:00")), EndTime: clockPtr(mustClock(t, "14:00"))},
	}
	windows := WindowsForDate(blocks, exceptions, monday)
	if len(windows) != 1 {
		t.Fatalf("expected 1 window, got %d", len(windows))
	}
	if windows[0].Start.String() != "10:00" || windows[0].End.String() != "14:00" {
		t.Errorf("custom hours should replace recurring, got %s-%s", windows[0].Start, windows[0].End)
	}
}

func TestWindowsForDateLatestCustomHoursWins(t *testing.T) {
	blocks := []*RecurringBlock{mondayBlock(t, "09:00", "17:00")}
	older := &ScheduleException{
		ExceptionType: ExceptionCustomHours, Date: monday,
		StartTime: clockPtr(mustClock(t, "08:00")), EndTime: clockPtr(mustClock(t, "12:00")),
		CreatedAt: time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC),
	}
	newer := &ScheduleException{
		ExceptionType: ExceptionCustomHours, Date: monday,
		StartTime: clockPtr(mustClock(t, "13:00")), EndTime: clockPtr(mustClock(t, "16:00")),
		CreatedAt: time.Date(2025, 5, 2, 10, 0, 0, 0, time.UTC),
	}
	windows := WindowsForDate(blocks, []*ScheduleException{older, newer}, monday)
	if len(windows) != 1 || windows[0].Start.String() != "13:00" {
		t.Errorf("most recently created custom hours should win, got %+v", windows)
	}
}

func TestWindowsForDatePartialBlockSplits(t *testing.T) {
	blocks := []*RecurringBlock{mondayBlock(t, "09:00", "17:00")}
	exceptions := []*ScheduleException{
		{ExceptionType: ExceptionPartialBlock, Date: monday,
			StartTime: clockPtr(mustClock(t, "12:00")), EndTime: clockPtr(mustClock(t, "13:00"))},
	}
	windows := WindowsForDate(blocks, exceptions, monday)
	if len(windows) != 2 {
		t.Fatalf("expected the window to split into 2, got %d", len(windows))
	}
	if windows[0].End.String() != "12:00" || windows[1].Start.String() != "13:00" {
		t.Errorf("unexpected split: %+v", windows)
	}
}

func TestWindowsForDateUnavailableWithTimesActsAsPartial(t *testing.T) {
	blocks := []*RecurringBlock{mondayBlock(t, "09:00", "17:00")}
	exceptions := []*ScheduleException{
		{ExceptionType: ExceptionUnavailable, Date: monday,
			StartTime: clockPtr(mustClock(t, "09:00")), EndTime: clockPtr(mustClock(t, "12:00"))},
	}
	windows := WindowsForDate(blocks, exceptions, monday)
	if len(windows) != 1 {
		t.Fatalf("expected 1 remaining window, got %d", len(windows))
	}
	if windows[0].Start.String() != "12:00" || windows[0].End.String() != "17:00" {
		t.Errorf("unexpected window %s-%s", windows[0].Start, windows[0].End)
	}
}

func TestWindowsForDatePartialBlockAppliesToCustomHours(t *testing.T) {
	exceptions := []*ScheduleException{
		{ExceptionType: ExceptionCustomHours, Date: monday,
			StartTime: clockPtr(mustClock(t, "10:00")), EndTime: clockPtr(mustClock(t, "16:00"))},
		{ExceptionType: ExceptionPartialBlock, Date: monday,
			StartTime: clockPtr(mustClock(t, "12:00")), EndTime: clockPtr(mustClock(t, "13:00"))},
	}
	windows := WindowsForDate(nil, exceptions, monday)
	if len(windows) != 2 {
		t.Fatalf("expected 2 windows, got %d", len(windows))
	}
	if windows[0].Start.String() != "10:00" || windows[1].End.String() != "16:00" {
		t.Errorf("unexpected windows: %+v", windows)
	}
}

func TestWindowsForDatePartialBlockCoversWholeWindow(t *testing.T) {
	blocks := []*RecurringBlock{mondayBlock(t, "09:00", "12:00")}
	exceptions := []*ScheduleException{
		{ExceptionType: ExceptionPartialBlock, Date: monday,
			StartTime: clockPtr(mustClock(t, "08:00")), EndTime: clockPtr(mustClock(t, "13:00"))},
	}
	if windows := WindowsForDate(blocks, exceptions, monday); len(windows) != 0 {
		t.Errorf("fully covered window should disappear, got %+v", windows)
	}
}

func TestWindowsForDateRangedUnavailable(t *testing.T) {
	blocks := []*RecurringBlock{mondayBlock(t, "09:00", "17:00")}
	friday := monday.AddDate(0, 0, 4)
	exceptions := []*ScheduleException{
		{ExceptionType: ExceptionUnavailable, Date: monday, EndDate: &friday},
	}

	// Wednesday falls inside the range even though no exception row names it.
	wednesday := monday.AddDate(0, 0, 2)
	blocks[0].DayOfWeek = int(time.Wednesday)
	if windows := WindowsForDate(blocks, exceptions, wednesday); len(windows) != 0 {
		t.Errorf("mid-range date should be blanked, got %+v", windows)
	}

	// The Monday after the range is unaffected.
	blocks[0].DayOfWeek = int(time.Monday)
	nextMonday := monday.AddDate(0, 0, 7)
	if windows := WindowsForDate(blocks, exceptions, nextMonday); len(windows) != 1 {
		t.Errorf("date past the range should keep its window, got %+v", windows)
	}
}

func TestWindowsForDateIgnoresOtherDates(t *testing.T) {
	blocks := []*RecurringBlock{mondayBlock(t, "09:00", "17:00")}
	exceptions := []*ScheduleException{
		{ExceptionType: ExceptionUnavailable, Date: monday.AddDate(0, 0, 7)},
	}
	if windows := WindowsForDate(blocks, exceptions, monday); len(windows) != 1 {
		t.Errorf("exception for another date should be ignored, got %+v", windows)
	}
}

func TestGenerateSlotsSpacing(t *testing.T) {
	windows := []Window{{Start: mustClock(t, "09:00"), End: mustClock(t, "17:00")}}
	slots := GenerateSlots(windows, 60, 15)

	want := []string{"09:00", "10:15", "11:30", "12:45", "14:00", "15:15"}
	if len(slots) != len(want) {
		t.Fatalf("expected %d slots, got %d", len(want), len(slots))
	}
	for i, w := range want {
		if slots[i].Start.String() != w {
			t.Errorf("slot %d: expected start %s, got %s", i, w, slots[i].Start)
		}
		if slots[i].End != slots[i].Start+60 {
			t.Errorf("slot %d: expected 60 minute duration", i)
		}
	}
}

func TestGenerateSlotsDiscardsShortTail(t *testing.T) {
	// 16:30 start would end 17:30, past the window end, so it is dropped.
	windows := []Window{{Start: mustClock(t, "15:15"), End: mustClock(t, "17:00")}}
	slots := GenerateSlots(windows, 60, 15)
	if len(slots) != 1 {
		t.Fatalf("expected 1 slot, got %d", len(slots))
	}
	if slots[0].Start.String() != "15:15" {
		t.Errorf("unexpected slot start %s", slots[0].Start)
	}
}

func TestGenerateSlotsZeroBuffer(t *testing.T) {
	windows := []Window{{Start: mustClock(t, "09:00"), End: mustClock(t, "11:00")}}
	slots := GenerateSlots(windows, 30, 0)
	if len(slots) != 4 {
		t.Fatalf("expected 4 back-to-back slots, got %d", len(slots))
	}
	for i := 1; i < len(slots); i++ {
		if slots[i].Start != slots[i-1].End {
			t.Errorf("slots should be contiguous with zero buffer")
		}
	}
}

func TestGenerateSlotsEmptyAndInvalid(t *testing.T) {
	if slots := GenerateSlots(nil, 60, 15); len(slots) != 0 {
		t.Error("no windows should yield no slots")
	}
	windows := []Window{{Start: mustClock(t, "09:00"), End: mustClock(t, "09:30")}}
	if slots := GenerateSlots(windows, 60, 15); len(slots) != 0 {
		t.Error("window shorter than duration should yield no slots")
	}
	if slots := GenerateSlots(windows, 0, 15); len(slots) != 0 {
		t.Error("non-positive duration should yield no slots")
	}
}
