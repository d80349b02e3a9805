package reading

import "time"

// DateLayout is the calendar-date form used for read dates and streak state,
// always rendered in the configured reporting timezone.
const DateLayout = "2006-01-02"

// Streak is the per-user streak state machine: (current, longest, last date).
type Streak struct {
	Current      int
	Longest      int
	LastReadDate *string
}

// advance applies one read on day (YYYY-MM-DD) to s and reports whether the
// state changed. Transition on the gap since the last read date:
//
//	no previous date -> current = 1
//	same day         -> unchanged
//	next day         -> current + 1
//	gap > 1 day      -> current = 1
//	day in the past  -> unchanged (backdated reads are a no-op)
//
// Longest is a running max of current.
func advance(s Streak, day string) (Streak, bool) {
	if s.LastReadDate == nil {
		return finish(s, day, 1), true
	}

	gap := dayDiff(*s.LastReadDate, day)
	switch {
	case gap == 0:
		return s, false
	case gap == 1:
		return finish(s, day, s.Current+1), true
	case gap > 1:
		return finish(s, day, 1), true
	default:
		return s, false
	}
}

func finish(s Streak, day string, current int) Streak {
	s.Current = current
	if current > s.Longest {
		s.Longest = current
	}
	d := day
	s.LastReadDate = &d
	return s
}

// dayDiff returns to - from in whole calendar days. Unparseable dates count
// as a zero gap so corrupt state never inflates a streak.
func dayDiff(from, to string) int {
	a, errA := time.Parse(DateLayout, from)
	b, errB := time.Parse(DateLayout, to)
	if errA != nil || errB != nil {
		return 0
	}
	return int(b.Sub(a).Hours() / 24)
}
