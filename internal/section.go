package internal

import (
	"sort"
	"time"
)

// Section identifies one of the date buckets a listing is split into, or the
// cross-cutting overdue filter.
type Section string

const (
	SectionToday    Section = "today"
	SectionTomorrow Section = "tomorrow"
	SectionUpcoming Section = "upcoming"
	SectionOverdue  Section = "overdue"
)

// ParseSection converts the wire value of a section identifier. Only the
// three date buckets are addressable from a fragment request.
func ParseSection(s string) (Section, error) {
	switch Section(s) {
	case SectionToday:
		return SectionToday, nil
	case SectionTomorrow:
		return SectionTomorrow, nil
	case SectionUpcoming:
		return SectionUpcoming, nil
	}

	return "", NewErrorf(ErrorCodeInvalidArgument, "unknown section: %q", s)
}

// SectionedTasks is the composite listing context: the three mutually
// exclusive date buckets, each independently paginated, plus the moment used
// for every bucket computation and the count of overdue tasks.
type SectionedTasks struct {
	Today        Page      `json:"today"`
	Tomorrow     Page      `json:"tomorrow"`
	Upcoming     Page      `json:"upcoming"`
	OverdueCount int       `json:"overdue_count"`
	Now          time.Time `json:"now"`
}

// FilterToday returns the tasks whose start date falls on the calendar date
// of "now", irrespective of time of day.
func FilterToday(tasks []Task, now time.Time) []Task {
	today := civilDate(now, now.Location())

	return filter(tasks, func(t Task) bool {
		return civilDate(t.Dates.Start, now.Location()).Equal(today)
	})
}

// FilterTomorrow returns the tasks whose start date falls on the day after
// "now".
func FilterTomorrow(tasks []Task, now time.Time) []Task {
	tomorrow := civilDate(now, now.Location()).AddDate(0, 0, 1)

	return filter(tasks, func(t Task) bool {
		return civilDate(t.Dates.Start, now.Location()).Equal(tomorrow)
	})
}

// FilterUpcoming returns the tasks whose start date falls on or after the day
// after tomorrow relative to "now".
func FilterUpcoming(tasks []Task, now time.Time) []Task {
	dayAfterTomorrow := civilDate(now, now.Location()).AddDate(0, 0, 2)

	return filter(tasks, func(t Task) bool {
		return !civilDate(t.Dates.Start, now.Location()).Before(dayAfterTomorrow)
	})
}

// FilterOverdue returns the tasks whose end date is strictly in the past and
// that are still actionable. It cuts across the date buckets.
func FilterOverdue(tasks []Task, now time.Time) []Task {
	return filter(tasks, func(t Task) bool {
		return t.IsOverdue(now)
	})
}

// SortByPriority orders tasks by priority rank (high first, unknown last),
// ties broken by descending start date. The input is not modified.
func SortByPriority(tasks []Task) []Task {
	res := make([]Task, len(tasks))
	copy(res, tasks)

	sort.SliceStable(res, func(i, j int) bool {
		ri, rj := res[i].Priority.Rank(), res[j].Priority.Rank()
		if ri != rj {
			return ri < rj
		}

		return res[i].Dates.Start.After(res[j].Dates.Start)
	})

	return res
}

func filter(tasks []Task, keep func(Task) bool) []Task {
	res := make([]Task, 0, len(tasks))

	for _, t := range tasks {
		if keep(t) {
			res = append(res, t)
		}
	}

	return res
}
