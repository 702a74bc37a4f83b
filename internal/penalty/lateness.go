package penalty

import "time"

// DaysLate estimates how many days past the due date a submission was last
// modified. Crossing a month boundary adds a flat 30 days regardless of the
// actual month length; this calendar approximation is existing scoring
// policy and is kept for compatibility with prior grading history.
func DaysLate(modTime time.Time, dueDay, dueMonth int) int {
	days := modTime.Day() - dueDay
	if int(modTime.Month()) > dueMonth {
		days += 30
	}
	if days < 0 {
		return 0
	}
	return days
}
