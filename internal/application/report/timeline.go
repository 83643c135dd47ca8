package report

import (
	"fmt"
	"math"
	"time"

	"github.com/internhub-api/internal/domain"
	"github.com/jinzhu/now"
)

const (
	RangeWeek    = "week"
	RangeMonth   = "month"
	RangeQuarter = "quarter"
	RangeYear    = "year"
	dayKey       = "2006-01-02"
	dayLabel     = "Jan 2"
)

// windowStart returns the earliest timestamp a range looks at. Unknown ranges
// fall back to the last 30 days.
func windowStart(rng string, t time.Time) time.Time {
	switch rng {
	case RangeWeek:
		return t.AddDate(0, 0, -7)
	case RangeMonth:
		return t.AddDate(0, -1, 0)
	case RangeQuarter:
		return t.AddDate(0, -3, 0)
	case RangeYear:
		return t.AddDate(-1, 0, 0)
	}
	return t.AddDate(0, 0, -30)
}

const quarterAnchors = 12

// dailySpan is the number of day buckets for the daily ranges.
func dailySpan(rng string, t time.Time) int {
	today := now.With(t).BeginningOfDay()
	start := now.With(windowStart(rng, t)).BeginningOfDay()
	return int(math.Round(today.Sub(start).Hours() / 24))
}

// windowFloor is the earliest timestamp the timeline fetches. It is the start
// of the oldest bucket, except for the month-keyed year view which keeps
// windowStart.
func windowFloor(rng string, t time.Time) time.Time {
	today := now.With(t).BeginningOfDay()
	switch rng {
	case RangeYear:
		return windowStart(rng, t)
	case RangeQuarter:
		return today.AddDate(0, 0, -7*(quarterAnchors-1))
	}
	return today.AddDate(0, 0, -(dailySpan(rng, t) - 1))
}

type bucket struct {
	label string
	key   string // day key, or month number for the year view
}

// buckets lays out the labelled slots for a range, oldest first.
func buckets(rng string, t time.Time) []bucket {
	today := now.With(t).BeginningOfDay()
	switch rng {
	case RangeQuarter:
		// Twelve anchors seven days apart ending today; each anchor is an exact day.
		out := make([]bucket, quarterAnchors)
		for i := range out {
			d := today.AddDate(0, 0, -7*(quarterAnchors-1-i))
			out[i] = bucket{label: fmt.Sprintf("Week %d", i+1), key: d.Format(dayKey)}
		}
		return out
	case RangeYear:
		out := make([]bucket, 12)
		for m := time.January; m <= time.December; m++ {
			out[m-1] = bucket{label: m.String()[:3], key: fmt.Sprintf("%02d", int(m))}
		}
		return out
	}
	days := dailySpan(rng, t)
	out := make([]bucket, days)
	for i := range out {
		d := today.AddDate(0, 0, -(days - 1 - i))
		out[i] = bucket{label: d.Format(dayLabel), key: d.Format(dayKey)}
	}
	return out
}

// tally groups timestamps by day key, or by month number for the year view.
func tally(rng string, times []time.Time) map[string]int {
	counts := make(map[string]int, len(times))
	for _, ts := range times {
		ts = ts.UTC()
		if rng == RangeYear {
			counts[fmt.Sprintf("%02d", int(ts.Month()))]++
			continue
		}
		counts[ts.Format(dayKey)]++
	}
	return counts
}

func fill(bs []bucket, counts map[string]int) []int {
	out := make([]int, len(bs))
	for i, b := range bs {
		out[i] = counts[b.key]
	}
	return out
}

// buildTimeline merges per-entity creation timestamps into the range's buckets.
// Timestamps outside the window must already be filtered out by the caller.
func buildTimeline(rng string, t time.Time, students, recruiters, internships, applications []time.Time) *domain.TimelineSeries {
	t = t.UTC()
	bs := buckets(rng, t)
	labels := make([]string, len(bs))
	for i, b := range bs {
		labels[i] = b.label
	}
	name := rng
	switch rng {
	case RangeWeek, RangeMonth, RangeQuarter, RangeYear:
	default:
		name = "default"
	}
	return &domain.TimelineSeries{
		Range:        name,
		Labels:       labels,
		Students:     fill(bs, tally(rng, students)),
		Recruiters:   fill(bs, tally(rng, recruiters)),
		Internships:  fill(bs, tally(rng, internships)),
		Applications: fill(bs, tally(rng, applications)),
	}
}

// trend renders the change from prev to cur as a signed whole percentage.
func trend(cur, prev int) string {
	if prev == 0 {
		if cur > 0 {
			return "+100%"
		}
		return "0%"
	}
	pct := int(math.Floor(float64(cur-prev)/float64(prev)*100 + 0.5))
	if pct >= 0 {
		return fmt.Sprintf("+%d%%", pct)
	}
	return fmt.Sprintf("%d%%", pct)
}

// splitPeriods counts timestamps in [t-1m, t] as current and [t-2m, t-1m) as previous.
func splitPeriods(t time.Time, times []time.Time) (cur, prev int) {
	oneAgo := t.AddDate(0, -1, 0)
	twoAgo := t.AddDate(0, -2, 0)
	for _, ts := range times {
		switch {
		case ts.After(t):
		case !ts.Before(oneAgo):
			cur++
		case !ts.Before(twoAgo):
			prev++
		}
	}
	return cur, prev
}
