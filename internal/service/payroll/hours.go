package payroll

import "time"

// HoursSpent sums the full duration, in hours, of every well-formed session
// interval. Intervals where the end is not after the start contribute zero.
// Used for a company's first payroll, when there is no payout watermark yet.
func HoursSpent(starts, ends []time.Time) float64 {
	n := len(starts)
	if len(ends) < n {
		n = len(ends)
	}

	total := 0.0
	for i := 0; i < n; i++ {
		if ends[i].After(starts[i]) {
			total += ends[i].Sub(starts[i]).Hours()
		}
	}
	return total
}

// HoursSpentInRange sums session hours clipped to the half-open window
// [from, to). Intervals entirely outside the window contribute zero, and so
// do malformed intervals where the start is after the end. The result is
// never negative.
func HoursSpentInRange(starts, ends []time.Time, from, to time.Time) float64 {
	n := len(starts)
	if len(ends) < n {
		n = len(ends)
	}

	total := 0.0
	for i := 0; i < n; i++ {
		if starts[i].After(ends[i]) {
			continue
		}

		s, e := starts[i], ends[i]
		if s.Before(from) {
			s = from
		}
		if e.After(to) {
			e = to
		}
		if e.After(s) {
			total += e.Sub(s).Hours()
		}
	}
	return total
}
