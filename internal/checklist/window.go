// Package checklist decides when a shift checklist is due and tracks the
// user's progress through it.
package checklist

import (
	"time"

	"github.com/dtroode/m2m-server/internal/model"
)

// Window is a daily time range, in minutes since midnight, during which a
// checklist is due. Both ends are inclusive. A window whose End is before
// its Start spans midnight.
type Window struct {
	Type  model.ChecklistType
	Title string
	Start int
	End   int
}

// DefaultWindows are the shop's checklist windows.
var DefaultWindows = []Window{
	{Type: model.ChecklistOpening, Title: "Opening Shift Checklist", Start: 10*60 + 45, End: 12*60 + 15},
	{Type: model.ChecklistEvening, Title: "Evening Shift Checklist", Start: 17*60 + 30, End: 18*60 + 30},
	{Type: model.ChecklistNight, Title: "Night Shift Checklist", Start: 23*60 + 30, End: 30},
}

// Contains reports whether t's wall-clock minute falls inside the window.
func (w Window) Contains(t time.Time) bool {
	m := minuteOfDay(t)
	if w.wraps() {
		return m >= w.Start || m <= w.End
	}
	return m >= w.Start && m <= w.End
}

// ShiftDay returns the calendar day the shift at t belongs to. For windows
// spanning midnight, morning times count towards the previous day.
func (w Window) ShiftDay(t time.Time) string {
	if w.wraps() && minuteOfDay(t) < 12*60 {
		t = t.AddDate(0, 0, -1)
	}
	return t.Format(model.DateLayout)
}

func (w Window) wraps() bool {
	return w.End < w.Start
}

// WindowAt returns the first window containing t.
func WindowAt(windows []Window, t time.Time) (Window, bool) {
	for _, w := range windows {
		if w.Contains(t) {
			return w, true
		}
	}
	return Window{}, false
}

func windowFor(windows []Window, checklist model.ChecklistType) (Window, bool) {
	for _, w := range windows {
		if w.Type == checklist {
			return w, true
		}
	}
	return Window{}, false
}

func minuteOfDay(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}
