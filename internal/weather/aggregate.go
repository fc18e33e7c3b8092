package weather

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	sampleLayout = "2006-01-02 15:04:05"
	middayText   = "12:00:00"
)

// ErrEmptyDay is returned when a day summary is requested for no samples.
var ErrEmptyDay = errors.New("no samples for day")

// MalformedSampleError reports a sample whose timestamp text cannot be parsed.
type MalformedSampleError struct {
	Index int
	Text  string
	Err   error
}

func (e *MalformedSampleError) Error() string {
	return fmt.Sprintf("malformed forecast sample %d: timestamp %q: %v", e.Index, e.Text, e.Err)
}

func (e *MalformedSampleError) Unwrap() error { return e.Err }

// splitText returns the date and time-of-day parts of a sample timestamp.
func splitText(text string) (date, clock string, err error) {
	if _, err := time.Parse(sampleLayout, text); err != nil {
		return "", "", err
	}
	date, clock, _ = strings.Cut(text, " ")
	return date, clock, nil
}

// DayGroup is the samples of one calendar date, in input order.
type DayGroup struct {
	Date    string
	Samples []ForecastSample
}

// GroupDays partitions samples by the date part of their timestamp text.
// Groups come back in first-seen date order; order within a group is preserved.
func GroupDays(samples []ForecastSample) ([]DayGroup, error) {
	var groups []DayGroup
	index := make(map[string]int)

	for i, s := range samples {
		date, _, err := splitText(s.Text)
		if err != nil {
			return nil, &MalformedSampleError{Index: i, Text: s.Text, Err: err}
		}
		gi, ok := index[date]
		if !ok {
			gi = len(groups)
			index[date] = gi
			groups = append(groups, DayGroup{Date: date})
		}
		groups[gi].Samples = append(groups[gi].Samples, s)
	}
	return groups, nil
}

// GroupByDay is GroupDays keyed by date.
func GroupByDay(samples []ForecastSample) (map[string][]ForecastSample, error) {
	groups, err := GroupDays(samples)
	if err != nil {
		return nil, err
	}
	out := make(map[string][]ForecastSample, len(groups))
	for _, g := range groups {
		out[g.Date] = g.Samples
	}
	return out, nil
}

// dominantCondition picks the condition with the highest count.
// On a tie the condition seen first wins.
func dominantCondition(samples []ForecastSample) (Condition, bool) {
	if len(samples) == 0 {
		return "", false
	}

	counts := make(map[Condition]int)
	var order []Condition
	for _, s := range samples {
		if _, seen := counts[s.Condition]; !seen {
			order = append(order, s.Condition)
		}
		counts[s.Condition]++
	}

	best := order[0]
	for _, c := range order[1:] {
		if counts[c] > counts[best] {
			best = c
		}
	}
	return best, true
}

// SummarizeDay computes the summary of one day's samples.
func SummarizeDay(samples []ForecastSample) (DailySummary, error) {
	if len(samples) == 0 {
		return DailySummary{}, ErrEmptyDay
	}

	var sumTemp, sumHumidity, sumWind float64
	minTemp, maxTemp := samples[0].Temperature, samples[0].Temperature
	midday := -1
	var date string

	for i, s := range samples {
		d, clock, err := splitText(s.Text)
		if err != nil {
			return DailySummary{}, &MalformedSampleError{Index: i, Text: s.Text, Err: err}
		}
		if date == "" {
			date = d
		}
		if midday < 0 && clock == middayText {
			midday = i
		}

		sumTemp += s.Temperature
		sumHumidity += s.Humidity
		sumWind += s.WindSpeed
		minTemp = min(minTemp, s.Temperature)
		maxTemp = max(maxTemp, s.Temperature)
	}
	if midday < 0 {
		midday = 0
	}

	dominant, _ := dominantCondition(samples)
	representative := samples[0]
	for _, s := range samples {
		if s.Condition == dominant {
			representative = s
			break
		}
	}

	n := float64(len(samples))
	avg := sumTemp / n
	// Floating point summation can land a hair outside the range.
	avg = min(max(avg, minTemp), maxTemp)

	return DailySummary{
		Date:              date,
		Samples:           samples,
		AvgTemp:           avg,
		MinTemp:           minTemp,
		MaxTemp:           maxTemp,
		AvgHumidity:       sumHumidity / n,
		AvgWindSpeed:      sumWind / n,
		DominantCondition: dominant,
		Representative:    representative,
		Midday:            samples[midday],
	}, nil
}

// DailySummaries groups samples by day and summarizes each day in date order.
func DailySummaries(samples []ForecastSample) ([]DailySummary, error) {
	groups, err := GroupDays(samples)
	if err != nil {
		return nil, err
	}

	days := make([]DailySummary, 0, len(groups))
	for _, g := range groups {
		summary, err := SummarizeDay(g.Samples)
		if err != nil {
			return nil, err
		}
		days = append(days, summary)
	}
	return days, nil
}

// ClassifyWindow picks the dominant condition across the whole window and the
// time of day from the clock reading now. Empty input classifies as Clear.
// Samples with unparseable timestamps fail like they do for grouping.
func ClassifyWindow(samples []ForecastSample, now time.Time) (AggregateClassification, error) {
	for i, s := range samples {
		if _, _, err := splitText(s.Text); err != nil {
			return AggregateClassification{}, &MalformedSampleError{Index: i, Text: s.Text, Err: err}
		}
	}

	dominant, ok := dominantCondition(samples)
	if !ok {
		dominant = ConditionClear
	}
	return AggregateClassification{
		DominantCondition: dominant,
		TimeOfDay:         timeOfDayFromClock(now),
	}, nil
}

// timeOfDayFromClock is day for local hours in [6,18).
// It ignores the forecast location's sunrise and sunset.
func timeOfDayFromClock(now time.Time) TimeOfDay {
	if h := now.Hour(); h >= 6 && h < 18 {
		return Day
	}
	return Night
}

// Clock returns the current time.
type Clock func() time.Time

// Aggregator runs the forecast computations against a clock.
type Aggregator struct {
	now Clock
}

// NewAggregator returns an Aggregator reading the given clock; nil means time.Now.
func NewAggregator(now Clock) *Aggregator {
	if now == nil {
		now = time.Now
	}
	return &Aggregator{now: now}
}

// ClassifyWindow reads the clock on every call.
func (a *Aggregator) ClassifyWindow(samples []ForecastSample) (AggregateClassification, error) {
	return ClassifyWindow(samples, a.now())
}

// View derives the daily summaries and classification of a forecast.
func (a *Aggregator) View(res ForecastResult) (ForecastView, error) {
	days, err := DailySummaries(res.Samples)
	if err != nil {
		return ForecastView{}, err
	}
	class, err := a.ClassifyWindow(res.Samples)
	if err != nil {
		return ForecastView{}, err
	}
	return ForecastView{
		ForecastResult: res,
		Days:           days,
		Classification: class,
	}, nil
}
