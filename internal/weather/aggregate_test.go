package weather

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"testing"
	"time"
)

func sample(text string, cond Condition, temp float64) ForecastSample {
	return ForecastSample{Text: text, Condition: cond, Temperature: temp}
}

func conditions(cs ...Condition) []ForecastSample {
	out := make([]ForecastSample, 0, len(cs))
	for i, c := range cs {
		out = append(out, sample(fmt.Sprintf("2025-04-09 %02d:00:00", i*3), c, 20))
	}
	return out
}

func TestSummarizeDayTemperatureBounds(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	for run := 0; run < 500; run++ {
		n := 1 + rng.IntN(8)
		var samples []ForecastSample
		for i := 0; i < n; i++ {
			temp := rng.Float64()*80 - 40
			samples = append(samples, sample(fmt.Sprintf("2025-01-01 %02d:00:00", i*3), ConditionClouds, temp))
		}

		s, err := SummarizeDay(samples)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if s.MinTemp > s.AvgTemp || s.AvgTemp > s.MaxTemp {
			t.Fatalf("expected min <= avg <= max, got %v <= %v <= %v", s.MinTemp, s.AvgTemp, s.MaxTemp)
		}
	}

	// Identical temperatures must not drift outside the range.
	same := []ForecastSample{
		sample("2025-01-01 00:00:00", ConditionClear, 0.1),
		sample("2025-01-01 03:00:00", ConditionClear, 0.1),
		sample("2025-01-01 06:00:00", ConditionClear, 0.1),
	}
	s, err := SummarizeDay(same)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.AvgTemp != 0.1 {
		t.Fatalf("expected avg 0.1, got %v", s.AvgTemp)
	}
}

func TestSummarizeDayEmpty(t *testing.T) {
	if _, err := SummarizeDay(nil); !errors.Is(err, ErrEmptyDay) {
		t.Fatalf("expected ErrEmptyDay, got %v", err)
	}
}

func TestGroupByDayPartitions(t *testing.T) {
	samples := []ForecastSample{
		sample("2025-04-09 21:00:00", ConditionClear, 1),
		sample("2025-04-10 00:00:00", ConditionRain, 2),
		sample("2025-04-09 21:00:00", ConditionSnow, 3), // duplicate timestamp is kept
		sample("2025-04-10 03:00:00", ConditionRain, 4),
		sample("2025-04-11 00:00:00", ConditionClouds, 5),
	}

	groups, err := GroupDays(samples)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var rebuilt []ForecastSample
	for _, g := range groups {
		if len(g.Samples) == 0 {
			t.Fatalf("empty group for %s", g.Date)
		}
		for _, s := range g.Samples {
			if s.Text[:10] != g.Date {
				t.Fatalf("sample %s placed in %s", s.Text, g.Date)
			}
		}
		rebuilt = append(rebuilt, g.Samples...)
	}
	if len(rebuilt) != len(samples) {
		t.Fatalf("expected %d samples after grouping, got %d", len(samples), len(rebuilt))
	}

	byDay, err := GroupByDay(samples)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(byDay) != 3 {
		t.Fatalf("expected 3 days, got %d", len(byDay))
	}
	day := byDay["2025-04-09"]
	if len(day) != 2 || day[0].Temperature != 1 || day[1].Temperature != 3 {
		t.Fatalf("expected input order within the day, got %+v", day)
	}

	empty, err := GroupByDay(nil)
	if err != nil || len(empty) != 0 {
		t.Fatalf("expected empty mapping, got %v (%v)", empty, err)
	}
}

func TestClassifyWindow(t *testing.T) {
	noon := time.Date(2025, 4, 9, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		name    string
		samples []ForecastSample
		want    Condition
	}{
		{"empty defaults to clear", nil, ConditionClear},
		{"majority", conditions(ConditionRain, ConditionClear, ConditionRain, ConditionClear, ConditionRain), ConditionRain},
		{"tie goes to first seen", conditions(ConditionClear, ConditionRain, ConditionClear, ConditionRain), ConditionClear},
		{"tie goes to first seen reversed", conditions(ConditionRain, ConditionClear, ConditionClear, ConditionRain), ConditionRain},
	}
	for _, tc := range cases {
		got, err := ClassifyWindow(tc.samples, noon)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", tc.name, err)
		}
		if got.DominantCondition != tc.want {
			t.Errorf("%s: expected %s, got %s", tc.name, tc.want, got.DominantCondition)
		}
		if got.TimeOfDay != Day {
			t.Errorf("%s: expected day at noon, got %s", tc.name, got.TimeOfDay)
		}
	}
}

// The time of day comes from the caller's clock, not the forecast location's
// sunrise and sunset, and is re-read on every call.
func TestClassifyWindowReadsClockEachCall(t *testing.T) {
	hours := []int{5, 6, 17, 18, 23}
	want := []TimeOfDay{Night, Day, Day, Night, Night}

	i := 0
	agg := NewAggregator(func() time.Time {
		return time.Date(2025, 4, 9, hours[i], 59, 0, 0, time.UTC)
	})
	for i = range hours {
		got, err := agg.ClassifyWindow(nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.TimeOfDay != want[i] {
			t.Errorf("hour %d: expected %s, got %s", hours[i], want[i], got.TimeOfDay)
		}
	}
}

func TestSummarizeDayMiddayAndRepresentative(t *testing.T) {
	day := []ForecastSample{
		sample("2025-04-09 06:00:00", ConditionClouds, 10),
		sample("2025-04-09 09:00:00", ConditionRain, 12),
		sample("2025-04-09 12:00:00", ConditionRain, 15),
		sample("2025-04-09 15:00:00", ConditionClouds, 14),
		sample("2025-04-09 18:00:00", ConditionRain, 11),
	}
	s, err := SummarizeDay(day)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Midday.Text != "2025-04-09 12:00:00" {
		t.Fatalf("expected noon sample, got %s", s.Midday.Text)
	}
	if s.DominantCondition != ConditionRain || s.Representative.Text != "2025-04-09 09:00:00" {
		t.Fatalf("expected first Rain sample as representative, got %s %s", s.DominantCondition, s.Representative.Text)
	}
	if s.Date != "2025-04-09" || s.MinTemp != 10 || s.MaxTemp != 15 {
		t.Fatalf("unexpected summary: %+v", s)
	}

	evening := []ForecastSample{
		sample("2025-04-09 18:00:00", ConditionClear, 10),
		sample("2025-04-09 21:00:00", ConditionClear, 8),
	}
	s, err = SummarizeDay(evening)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Midday.Text != "2025-04-09 18:00:00" {
		t.Fatalf("expected first sample without a noon reading, got %s", s.Midday.Text)
	}
}

func TestMalformedSampleNamesIndex(t *testing.T) {
	samples := []ForecastSample{
		sample("2025-04-09 00:00:00", ConditionClear, 1),
		sample("2025-04-09 03:00:00", ConditionClear, 1),
		sample("09/04/2025 06:00", ConditionClear, 1),
	}

	for name, run := range map[string]func() error{
		"group":     func() error { _, err := GroupByDay(samples); return err },
		"summarize": func() error { _, err := SummarizeDay(samples); return err },
		"daily":     func() error { _, err := DailySummaries(samples); return err },
		"classify":  func() error { _, err := ClassifyWindow(samples, time.Now()); return err },
	} {
		err := run()
		var malformed *MalformedSampleError
		if !errors.As(err, &malformed) {
			t.Fatalf("%s: expected MalformedSampleError, got %v", name, err)
		}
		if malformed.Index != 2 {
			t.Fatalf("%s: expected index 2, got %d", name, malformed.Index)
		}
	}
}

func TestDailySummariesFiveClearDays(t *testing.T) {
	var samples []ForecastSample
	start := time.Date(2025, 4, 9, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 40; i++ {
		ts := start.Add(time.Duration(i) * 3 * time.Hour)
		s := sample(ts.Format(sampleLayout), ConditionClear, float64(15+i%8))
		s.Timestamp = ts
		samples = append(samples, s)
	}

	days, err := DailySummaries(samples)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(days) != 5 {
		t.Fatalf("expected 5 days, got %d", len(days))
	}
	for i, d := range days {
		if len(d.Samples) != 8 {
			t.Fatalf("day %d: expected 8 samples, got %d", i, len(d.Samples))
		}
		if d.DominantCondition != ConditionClear {
			t.Fatalf("day %d: expected Clear, got %s", i, d.DominantCondition)
		}
		if want := start.AddDate(0, 0, i).Format("2006-01-02"); d.Date != want {
			t.Fatalf("day %d: expected %s, got %s", i, want, d.Date)
		}
	}
}

func TestAggregatorViewOfFallback(t *testing.T) {
	agg := NewAggregator(func() time.Time { return time.Date(2025, 4, 9, 22, 0, 0, 0, time.UTC) })
	view, err := agg.View(FallbackForecast())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(view.Days) != 2 || len(view.Days[0].Samples) != 4 || len(view.Days[1].Samples) != 5 {
		t.Fatalf("unexpected fixture days: %+v", view.Days)
	}
	if view.Classification != (AggregateClassification{DominantCondition: ConditionClear, TimeOfDay: Night}) {
		t.Fatalf("unexpected classification: %+v", view.Classification)
	}
}
