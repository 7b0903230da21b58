package scheduling

import (
	"sort"
	"time"
)

// searchWindowDays bounds the placement search to ±2 weeks around the ideal date.
const searchWindowDays = 14

// Scoring weights. Distance from the ideal date dominates, then month
// balance, then week balance, then the day's current task count.
const (
	distanceWeight     = 14.0
	monthOverThreshold = 1.2
	monthOverScale     = 1000.0
	monthUnderThreshold = 0.8
	monthUnderScale    = 500.0
	weekOverThreshold  = 1.3
	weekOverScale      = 500.0
	weekUnderThreshold = 0.7
	weekUnderScale     = 200.0
	dayCountWeight     = 10.0
)

// placer converts ideal dates into concrete working days for one build run.
type placer struct {
	workingDays  []time.Time
	workersCount int
	shiftHours   int
	load         *dayLoad
}

func newPlacer(workingDays []time.Time, workersCount, shiftHours int, load *dayLoad) *placer {
	return &placer{
		workingDays:  workingDays,
		workersCount: workersCount,
		shiftHours:   shiftHours,
		load:         load,
	}
}

// findNearIdeal searches the working days within ±searchWindowDays of ideal
// for the feasible date with the lowest score. Returns false when no
// candidate passes the feasibility check.
func (p *placer) findNearIdeal(ideal time.Time, t task) (time.Time, bool) {
	minDate := ideal.AddDate(0, 0, -searchWindowDays)
	maxDate := ideal.AddDate(0, 0, searchWindowDays)

	candidates := make([]time.Time, 0, 2*searchWindowDays)
	for _, d := range p.workingDays {
		if d.Before(minDate) || d.After(maxDate) {
			continue
		}
		candidates = append(candidates, d)
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return absDays(ideal, candidates[i]) < absDays(ideal, candidates[j])
	})

	monthLoad, weekLoad := p.yearLoad()
	avgMonth := average(monthLoad)
	avgWeek := average(weekLoad)

	var best time.Time
	bestScore := 0.0
	found := false
	for _, d := range candidates {
		if !p.load.canScheduleTask(d, t.equipment, t.typ.DurationMinutes, p.workersCount, p.shiftHours) {
			continue
		}
		score := p.score(d, ideal, monthLoad, weekLoad, avgMonth, avgWeek)
		if !found || score < bestScore {
			best, bestScore, found = d, score, true
		}
	}
	return best, found
}

// findFallback scans from the first working day of the scheduling range and
// returns the first feasible date. Used only when findNearIdeal fails.
func (p *placer) findFallback(t task) (time.Time, bool) {
	for _, d := range p.workingDays {
		if p.load.canScheduleTask(d, t.equipment, t.typ.DurationMinutes, p.workersCount, p.shiftHours) {
			return d, true
		}
	}
	return time.Time{}, false
}

// yearLoad counts planned tasks per calendar month and per ISO week over the
// whole scheduling range, existing entries and this run's placements alike.
func (p *placer) yearLoad() (map[int]int, map[int]int) {
	monthLoad := make(map[int]int)
	weekLoad := make(map[int]int)
	for _, d := range p.workingDays {
		n := p.load.taskCount(d)
		monthLoad[int(d.Month())] += n
		_, week := d.ISOWeek()
		weekLoad[week] += n
	}
	return monthLoad, weekLoad
}

func (p *placer) score(d, ideal time.Time, monthLoad, weekLoad map[int]int, avgMonth, avgWeek float64) float64 {
	score := distanceWeight * float64(absDays(ideal, d))

	if avgMonth > 0 {
		ratio := float64(monthLoad[int(d.Month())]+1) / avgMonth
		if ratio > monthOverThreshold {
			score += (ratio - monthOverThreshold) * monthOverScale
		} else if ratio < monthUnderThreshold {
			score -= (monthUnderThreshold - ratio) * monthUnderScale
		}
	}

	if avgWeek > 0 {
		_, week := d.ISOWeek()
		ratio := float64(weekLoad[week]+1) / avgWeek
		if ratio > weekOverThreshold {
			score += (ratio - weekOverThreshold) * weekOverScale
		} else if ratio < weekUnderThreshold {
			score -= (weekUnderThreshold - ratio) * weekUnderScale
		}
	}

	score += dayCountWeight * float64(p.load.taskCount(d))
	return score
}

// absDays returns |a−b| in whole days.
func absDays(a, b time.Time) int {
	d := int(b.Sub(a).Hours() / 24)
	if d < 0 {
		return -d
	}
	return d
}

func average(load map[int]int) float64 {
	if len(load) == 0 {
		return 0
	}
	sum := 0
	for _, n := range load {
		sum += n
	}
	return float64(sum) / float64(len(load))
}
