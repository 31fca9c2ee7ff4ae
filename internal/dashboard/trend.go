package dashboard

import (
	"time"

	"github.com/ukydev/saferoute-dashboard/internal/models"
)

// trendLabelFormat matches the chart axis labels the dashboard renders.
const trendLabelFormat = "Jan 02"

// CountSample is one record occurrence feeding a count-based trend series.
type CountSample struct {
	At       time.Time
	Category string
}

// ValueSample is one record measurement feeding an average-based series.
type ValueSample struct {
	At    time.Time
	Value float64
}

// dayStart truncates t to midnight in its own location.
func dayStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// buckets lays out exactly n day buckets ending on the day of end,
// chronologically ascending. n < 1 yields an empty series.
func buckets(end time.Time, n int) []time.Time {
	if n < 1 {
		return nil
	}
	last := dayStart(end)
	days := make([]time.Time, n)
	for i := 0; i < n; i++ {
		days[i] = last.AddDate(0, 0, i-n+1)
	}
	return days
}

// BuildCountTrend produces exactly n daily buckets ending on the day of end.
// Each sample is assigned to the calendar-day bucket of its timestamp; days
// with no samples still appear with value 0 (gap-fill), so the sequence
// length is always n regardless of data sparsity. Per-bucket category
// breakdowns use the same day-membership rule as the top-level count.
func BuildCountTrend(samples []CountSample, end time.Time, n int) []models.TrendPoint {
	days := buckets(end, n)
	series := make([]models.TrendPoint, len(days))
	index := make(map[time.Time]int, len(days))
	for i, day := range days {
		series[i] = models.TrendPoint{Label: day.Format(trendLabelFormat), Date: day}
		index[day] = i
	}

	// Day membership is decided in end's location: store timestamps arrive
	// in UTC while end is usually local, and time.Time map keys only match
	// when the locations are identical.
	loc := end.Location()
	for _, s := range samples {
		i, ok := index[dayStart(s.At.In(loc))]
		if !ok {
			// outside the requested span
			continue
		}
		series[i].Value++
		if s.Category != "" {
			if series[i].Breakdown == nil {
				series[i].Breakdown = make(map[string]int)
			}
			series[i].Breakdown[s.Category]++
		}
	}
	return series
}

// BuildAverageTrend produces exactly n daily buckets of per-day averages.
// A day with no samples falls back to emptyDefault instead of being omitted
// or reported as NaN.
func BuildAverageTrend(samples []ValueSample, end time.Time, n int, emptyDefault float64) []models.TrendPoint {
	days := buckets(end, n)
	series := make([]models.TrendPoint, len(days))
	index := make(map[time.Time]int, len(days))
	sums := make([]float64, len(days))
	counts := make([]int, len(days))
	for i, day := range days {
		series[i] = models.TrendPoint{Label: day.Format(trendLabelFormat), Date: day}
		index[day] = i
	}

	loc := end.Location()
	for _, s := range samples {
		i, ok := index[dayStart(s.At.In(loc))]
		if !ok {
			continue
		}
		sums[i] += s.Value
		counts[i]++
	}

	for i := range series {
		if counts[i] == 0 {
			series[i].Value = emptyDefault
			continue
		}
		series[i].Value = roundOneDecimal(sums[i] / float64(counts[i]))
	}
	return series
}
