// Package hours parses compact weekly opening-hours strings (a subset of
// the OSM opening_hours notation) and answers point-in-time queries.
package hours

import (
	"regexp"
	"strings"
	"time"
)

// DaySchedule holds the opening window for one weekday.
// Days are indexed Monday=0 through Sunday=6.
type DaySchedule struct {
	Day       int    `json:"day"`
	OpenTime  string `json:"openTime"`  // HH:MM, empty when closed
	CloseTime string `json:"closeTime"` // HH:MM, empty when closed
	Is24h     bool   `json:"is24h"`
	IsClosed  bool   `json:"isClosed"`
}

// WeeklySchedule is a full week of day schedules, one entry per day.
// Windows spanning midnight (close earlier than open) are not supported
// and will misclassify the overnight portion.
type WeeklySchedule [7]DaySchedule

// OpenStatus is a point-in-time answer derived from a schedule.
type OpenStatus struct {
	IsOpen    bool   `json:"isOpen"`
	NextOpen  string `json:"nextOpen,omitempty"`
	NextClose string `json:"nextClose,omitempty"`
}

var dayIndex = map[string]int{
	"mo": 0, "tu": 1, "we": 2, "th": 3, "fr": 4, "sa": 5, "su": 6,
}

var dayNames = [7]string{
	"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday",
}

var (
	dayRangeRe = regexp.MustCompile(`(mo|tu|we|th|fr|sa|su)\s*-\s*(mo|tu|we|th|fr|sa|su)`)
	timeRe     = regexp.MustCompile(`(\d{1,2}):(\d{2})-(\d{1,2}):(\d{2})`)
)

// Parse decodes a raw opening-hours string into a weekly schedule.
// Example input: "Mo-Fr 08:00-20:00; Sa 09:00-18:00; Su off".
//
// Empty input, "off" and "closed" mark every day closed; any input
// containing "24/7" or "24 hours" marks every day open around the clock.
// Otherwise clauses are scanned in order and the first clause covering a
// day wins. Malformed clauses are not errors: a day no clause resolves
// is simply closed.
func Parse(raw string) WeeklySchedule {
	var week WeeklySchedule

	lower := strings.ToLower(strings.TrimSpace(raw))

	if lower == "" || lower == "off" || lower == "closed" {
		for day := range week {
			week[day] = DaySchedule{Day: day, IsClosed: true}
		}
		return week
	}

	if strings.Contains(lower, "24/7") || strings.Contains(lower, "24 hours") {
		for day := range week {
			week[day] = DaySchedule{Day: day, OpenTime: "00:00", CloseTime: "23:59", Is24h: true}
		}
		return week
	}

	clauses := strings.Split(raw, ";")

	for day := range week {
		week[day] = DaySchedule{Day: day, IsClosed: true}

		for _, clause := range clauses {
			clause = strings.TrimSpace(clause)
			if !clauseCoversDay(day, clause) {
				continue
			}
			open, close, ok := extractTimes(clause)
			if !ok {
				continue
			}
			week[day] = DaySchedule{Day: day, OpenTime: open, CloseTime: close}
			break
		}
	}

	return week
}

// clauseCoversDay reports whether the clause's day token covers the given
// day. A range like "mo-fr" covers every day between its endpoints; a bare
// token covers that day only. Unknown tokens never match.
func clauseCoversDay(day int, clause string) bool {
	lower := strings.ToLower(clause)

	if m := dayRangeRe.FindStringSubmatch(lower); m != nil {
		start := dayIndex[m[1]]
		end := dayIndex[m[2]]
		return day >= start && day <= end
	}

	for abbr, idx := range dayIndex {
		if idx == day && strings.Contains(lower, abbr) {
			return true
		}
	}
	return false
}

// extractTimes pulls an HH:MM-HH:MM window out of a clause, zero-padding
// single-digit hours so times compare correctly as strings.
func extractTimes(clause string) (open, close string, ok bool) {
	m := timeRe.FindStringSubmatch(clause)
	if m == nil {
		return "", "", false
	}
	return pad2(m[1]) + ":" + m[2], pad2(m[3]) + ":" + m[4], true
}

func pad2(s string) string {
	if len(s) == 1 {
		return "0" + s
	}
	return s
}

// Status reports whether the schedule is open at the given instant.
//
// The instant's weekday is normalized from Go's Sunday=0 convention to the
// schedule's Monday=0 convention. Both window boundaries are inclusive: a
// store with a 08:00-20:00 window is still open at exactly 20:00.
func Status(week WeeklySchedule, now time.Time) OpenStatus {
	currentDay := (int(now.Weekday()) + 6) % 7
	currentTime := now.Format("15:04")

	today := week[currentDay]

	if today.IsClosed {
		for i := 1; i <= 7; i++ {
			next := week[(currentDay+i)%7]
			if next.IsClosed {
				continue
			}
			return OpenStatus{
				IsOpen:    false,
				NextOpen:  nextOpenLabel(next, i),
				NextClose: next.CloseTime,
			}
		}
		return OpenStatus{IsOpen: false}
	}

	if today.Is24h {
		return OpenStatus{IsOpen: true, NextClose: "23:59"}
	}

	isOpen := currentTime >= today.OpenTime && currentTime <= today.CloseTime

	status := OpenStatus{IsOpen: isOpen, NextClose: today.CloseTime}
	if !isOpen {
		status.NextOpen = today.OpenTime
	}
	return status
}

// nextOpenLabel renders the opening time of a day some days away. Zero days
// away yields the bare time, otherwise the day name is prefixed.
func nextOpenLabel(d DaySchedule, daysAway int) string {
	if daysAway == 0 {
		return d.OpenTime
	}
	return dayNames[d.Day] + " " + d.OpenTime
}

// ClosingTimeToday returns today's closing time, or false when the store
// is closed all day.
func ClosingTimeToday(week WeeklySchedule, now time.Time) (string, bool) {
	today := week[(int(now.Weekday())+6)%7]
	if today.IsClosed {
		return "", false
	}
	return today.CloseTime, true
}
