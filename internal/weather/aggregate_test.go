package weather

import (
	"errors"
	"math/rand"
	"reflect"
	"testing"
	"time"
)

var paris = time.FixedZone("CEST", 2*60*60)

func at(day, hour int, temp float64, code int) HourlySample {
	return HourlySample{
		Time:         time.Date(2024, time.May, day, hour, 0, 0, 0, paris),
		TemperatureC: temp,
		Code:         code,
	}
}

func scenarioSamples() []HourlySample {
	return []HourlySample{
		at(1, 7, 10.0, 0),
		at(1, 8, 12.0, 0),
		at(1, 13, 18.0, 61),
		at(1, 19, 9.0, 3),
	}
}

func TestAggregateMeanFixedRange(t *testing.T) {
	target := time.Date(2024, time.May, 1, 15, 30, 0, 0, paris)

	got, err := Aggregate(scenarioSamples(), target, DefaultPolicy)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []PartSummary{
		{Part: Morning, Available: true, TemperatureC: 11.0, Code: 0, Condition: "clear"},
		{Part: Day, Available: true, TemperatureC: 18.0, Code: 61, Condition: "light rain"},
		{Part: Evening, Available: true, TemperatureC: 9.0, Code: 3, Condition: "overcast"},
	}
	if !reflect.DeepEqual(got.Parts, want) {
		t.Fatalf("parts mismatch:\n got  %+v\n want %+v", got.Parts, want)
	}
	if y, m, d := got.Date.Date(); y != 2024 || m != time.May || d != 1 {
		t.Fatalf("unexpected result date %v", got.Date)
	}
}

func TestAggregateNoSamplesForDate(t *testing.T) {
	target := time.Date(2024, time.May, 3, 0, 0, 0, 0, paris)

	_, err := Aggregate(scenarioSamples(), target, DefaultPolicy)
	if !errors.Is(err, ErrNoForecastAvailable) {
		t.Fatalf("expected ErrNoForecastAvailable, got %v", err)
	}

	_, err = Aggregate(nil, target, DefaultPolicy)
	if !errors.Is(err, ErrNoForecastAvailable) {
		t.Fatalf("expected ErrNoForecastAvailable for empty input, got %v", err)
	}
}

func TestAggregateMorningOnly(t *testing.T) {
	samples := []HourlySample{at(2, 6, 4.0, 45), at(2, 9, 6.0, 45)}

	got, err := Aggregate(samples, time.Date(2024, time.May, 2, 0, 0, 0, 0, paris), DefaultPolicy)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got.Parts) != 3 {
		t.Fatalf("expected 3 parts, got %d", len(got.Parts))
	}
	if !got.Parts[0].Available || got.Parts[0].TemperatureC != 5.0 || got.Parts[0].Condition != "fog" {
		t.Fatalf("unexpected morning summary %+v", got.Parts[0])
	}
	for _, p := range got.Parts[1:] {
		if p.Available {
			t.Fatalf("expected no data for %s, got %+v", p.Part, p)
		}
	}
}

func TestAggregateDateOnlyOutsideParts(t *testing.T) {
	// Night hours match the date but no part; all three parts report no data.
	samples := []HourlySample{at(1, 1, 3.0, 0), at(1, 3, 2.0, 0)}

	got, err := Aggregate(samples, time.Date(2024, time.May, 1, 0, 0, 0, 0, paris), DefaultPolicy)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, p := range got.Parts {
		if p.Available {
			t.Fatalf("expected no data for %s", p.Part)
		}
	}
}

func TestAggregateOrderInsensitive(t *testing.T) {
	var samples []HourlySample
	for day := 1; day <= 2; day++ {
		for hour := 0; hour < 24; hour++ {
			samples = append(samples, at(day, hour, float64(hour)/3, hour%4*20))
		}
	}
	target := time.Date(2024, time.May, 2, 0, 0, 0, 0, paris)

	want, err := Aggregate(samples, target, DefaultPolicy)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 20; i++ {
		shuffled := append([]HourlySample(nil), samples...)
		rng.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })

		got, err := Aggregate(shuffled, target, DefaultPolicy)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("shuffle %d changed the result:\n got  %+v\n want %+v", i, got, want)
		}
	}
}

func TestAggregateModeTieBreak(t *testing.T) {
	samples := []HourlySample{
		at(1, 12, 15, 61),
		at(1, 13, 15, 63),
		at(1, 14, 15, 61),
		at(1, 15, 15, 63),
	}
	// Input order must not matter: the earliest tied code wins.
	reversed := []HourlySample{samples[3], samples[2], samples[1], samples[0]}

	for _, in := range [][]HourlySample{samples, reversed} {
		got, err := Aggregate(in, samples[0].Time, DefaultPolicy)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.Parts[1].Code != 61 {
			t.Fatalf("expected mode 61, got %d", got.Parts[1].Code)
		}
	}
}

func TestAggregateMaxReduction(t *testing.T) {
	policy := Policy{Partition: PartitionFixedRange, Reduction: ReduceMax}

	got, err := Aggregate(scenarioSamples(), time.Date(2024, time.May, 1, 0, 0, 0, 0, paris), policy)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Parts[0].TemperatureC != 12.0 {
		t.Fatalf("expected max morning temperature 12.0, got %v", got.Parts[0].TemperatureC)
	}
}

func TestAggregateMeanRounding(t *testing.T) {
	samples := []HourlySample{at(1, 6, 10.0, 0), at(1, 7, 10.0, 0), at(1, 8, 10.5, 0)}

	got, err := Aggregate(samples, samples[0].Time, DefaultPolicy)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Parts[0].TemperatureC != 10.2 {
		t.Fatalf("expected 10.2, got %v", got.Parts[0].TemperatureC)
	}
}

func TestAggregateAnchorWindow(t *testing.T) {
	policy := Policy{Partition: PartitionAnchorWindow, Reduction: ReduceMean}
	samples := []HourlySample{
		at(1, 6, 0.0, 0), // outside the morning window
		at(1, 8, 10.0, 1),
		at(1, 11, 30.0, 2), // outside
		at(1, 12, 20.0, 3),
		at(1, 21, 5.0, 3), // outside
	}

	got, err := Aggregate(samples, samples[0].Time, policy)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Parts[0].TemperatureC != 10.0 || got.Parts[0].Code != 1 {
		t.Fatalf("unexpected morning %+v", got.Parts[0])
	}
	if got.Parts[1].TemperatureC != 20.0 {
		t.Fatalf("unexpected day %+v", got.Parts[1])
	}
	if got.Parts[2].Available {
		t.Fatalf("expected no evening data, got %+v", got.Parts[2])
	}
}

func TestAggregateUsesSampleZoneForDate(t *testing.T) {
	// 23:00 local on May 1 is already May 2 in UTC.
	samples := []HourlySample{at(1, 23, 7.0, 3)}
	target := time.Date(2024, time.May, 1, 12, 0, 0, 0, paris)

	got, err := Aggregate(samples, target, DefaultPolicy)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.Parts[2].Available {
		t.Fatalf("expected evening data, got %+v", got.Parts[2])
	}
}

func TestParsePolicies(t *testing.T) {
	if p, err := ParsePartition("window"); err != nil || p.Name != PartitionAnchorWindow.Name {
		t.Fatalf("ParsePartition(window) = %v, %v", p.Name, err)
	}
	if p, err := ParsePartition(""); err != nil || p.Name != PartitionFixedRange.Name {
		t.Fatalf("ParsePartition(\"\") = %v, %v", p.Name, err)
	}
	if _, err := ParsePartition("hourly"); err == nil {
		t.Fatal("expected error for unknown partition")
	}
	if r, err := ParseReduction("MAX"); err != nil || r != ReduceMax {
		t.Fatalf("ParseReduction(MAX) = %v, %v", r, err)
	}
	if _, err := ParseReduction("median"); err == nil {
		t.Fatal("expected error for unknown reduction")
	}
}
