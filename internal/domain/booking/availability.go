package booking

import (
	"time"
)

// SlotStep is the spacing of bookable start times
const SlotStep = 30 * time.Minute

// FreeSlots lists start times on day where an appointment of the given length
// fits inside business hours, respects the lead time and does not overlap busy.
func FreeSlots(day time.Time, length time.Duration, rules Rules, busy []Booking, now time.Time) []time.Time {
	loc := rules.Location
	if loc == nil {
		loc = time.UTC
	}
	d := day.In(loc)
	open := time.Date(d.Year(), d.Month(), d.Day(), rules.OpenHour, 0, 0, 0, loc)
	closing := time.Date(d.Year(), d.Month(), d.Day(), rules.CloseHour, 0, 0, 0, loc)
	earliest := now.Add(rules.LeadTime)

	slots := make([]time.Time, 0)
	for start := open; !start.Add(length).After(closing); start = start.Add(SlotStep) {
		if start.Before(earliest) {
			continue
		}
		end := start.Add(length)
		free := true
		for i := range busy {
			if busy[i].Status.HoldsSlot() && busy[i].Overlaps(start, end) {
				free = false
				break
			}
		}
		if free {
			slots = append(slots, start)
		}
	}
	return slots
}
