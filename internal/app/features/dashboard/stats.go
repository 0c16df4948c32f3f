// internal/app/features/dashboard/stats.go
package dashboard

import (
	"errors"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/dalemusser/waffle/pantry/query"
)

const dateLayout = "2006-01-02"

// DefaultSpan is the number of days shown when no range is requested.
const DefaultSpan = 30

// MaxSpan bounds a requested range.
const MaxSpan = 366

// ErrBadRange reports an unparsable or inverted date range.
var ErrBadRange = errors.New("invalid date range")

// Range is an inclusive span of whole UTC days.
type Range struct {
	From time.Time
	To   time.Time
}

// Days returns the number of days in the range.
func (r Range) Days() int {
	return int(r.To.Sub(r.From)/(24*time.Hour)) + 1
}

func day(t time.Time) time.Time {
	return t.UTC().Truncate(24 * time.Hour)
}

// ParseRange reads "from" and "to" (YYYY-MM-DD) from the query string.
// With neither set the range is the last DefaultSpan days up to now. A
// lone "from" selects that single day; a lone "to" ends a DefaultSpan
// range.
func ParseRange(r *http.Request, now time.Time) (Range, error) {
	parse := func(key string) (time.Time, bool, error) {
		s := strings.TrimSpace(query.Get(r, key))
		if s == "" {
			return time.Time{}, false, nil
		}
		t, err := time.Parse(dateLayout, s)
		if err != nil {
			return time.Time{}, false, errors.Join(ErrBadRange, err)
		}
		return t, true, nil
	}

	from, hasFrom, err := parse("from")
	if err != nil {
		return Range{}, err
	}
	to, hasTo, err := parse("to")
	if err != nil {
		return Range{}, err
	}

	switch {
	case hasFrom && !hasTo:
		to = from
	case !hasFrom:
		if !hasTo {
			to = day(now)
		}
		from = to.AddDate(0, 0, -(DefaultSpan - 1))
	}

	rng := Range{From: day(from), To: day(to)}
	if rng.To.Before(rng.From) || rng.Days() > MaxSpan {
		return Range{}, ErrBadRange
	}
	return rng, nil
}

// Point is one day of the activity chart.
type Point struct {
	Date        string `json:"date"`
	DisplayDate string `json:"display_date"`
	Users       int    `json:"users"`
	Posts       int    `json:"posts"`
}

// DailySeries buckets user joins and post publications by day over rng.
// Days without activity are present with zero counts.
func DailySeries(users, posts []time.Time, rng Range) []Point {
	n := rng.Days()
	points := make([]Point, n)
	for i := range points {
		d := rng.From.AddDate(0, 0, i)
		points[i] = Point{Date: d.Format(dateLayout), DisplayDate: d.Format("Jan 2")}
	}

	bucket := func(t time.Time) (int, bool) {
		i := int(day(t).Sub(rng.From) / (24 * time.Hour))
		return i, !day(t).Before(rng.From) && i < n
	}
	for _, t := range users {
		if i, ok := bucket(t); ok {
			points[i].Users++
		}
	}
	for _, t := range posts {
		if i, ok := bucket(t); ok {
			points[i].Posts++
		}
	}
	return points
}

// SeriesStats summarizes one line of the chart.
type SeriesStats struct {
	Total   int     `json:"total"`
	Average int     `json:"average"`
	Trend   float64 `json:"trend"`
}

// Summarize computes the total, rounded daily average and trend of values.
// The trend is the percent change from the first half's average to the
// second half's, to one decimal; it is 0 when the first half is empty or
// averages zero.
func Summarize(values []int) SeriesStats {
	var st SeriesStats
	for _, v := range values {
		st.Total += v
	}
	if len(values) == 0 {
		return st
	}
	st.Average = int(math.Round(float64(st.Total) / float64(len(values))))

	mid := len(values) / 2
	if mid == 0 {
		return st
	}
	first := mean(values[:mid])
	if first == 0 {
		return st
	}
	second := mean(values[mid:])
	st.Trend = math.Round((second-first)/first*1000) / 10
	return st
}

func mean(values []int) float64 {
	sum := 0
	for _, v := range values {
		sum += v
	}
	return float64(sum) / float64(len(values))
}
