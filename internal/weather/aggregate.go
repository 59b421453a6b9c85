package weather

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"
)

// hourRange is an inclusive hour-of-day interval.
type hourRange struct {
	From, To int
}

// Partition assigns hours of the day to day parts.
type Partition struct {
	Name   string
	ranges [len(DayParts)]hourRange
}

var (
	// PartitionFixedRange covers the whole day from 06:00 to 23:00.
	PartitionFixedRange = Partition{
		Name:   "range",
		ranges: [len(DayParts)]hourRange{{6, 11}, {12, 17}, {18, 23}},
	}

	// PartitionAnchorWindow keeps three hours around 08:00, 13:00 and 19:00.
	PartitionAnchorWindow = Partition{
		Name:   "window",
		ranges: [len(DayParts)]hourRange{{7, 9}, {12, 14}, {18, 20}},
	}
)

// PartOf returns the day part an hour belongs to.
func (p Partition) PartOf(hour int) (DayPart, bool) {
	for i, r := range p.ranges {
		if hour >= r.From && hour <= r.To {
			return DayParts[i], true
		}
	}
	return 0, false
}

// Reduction collapses the temperatures of one day part into a single value.
type Reduction string

const (
	ReduceMean Reduction = "mean"
	ReduceMax  Reduction = "max"
)

// Policy selects how samples are partitioned and reduced.
type Policy struct {
	Partition Partition
	Reduction Reduction
}

// DefaultPolicy is fixed-range partitioning with mean temperatures.
var DefaultPolicy = Policy{Partition: PartitionFixedRange, Reduction: ReduceMean}

// ParsePartition resolves a partition by its configuration name.
func ParsePartition(name string) (Partition, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", PartitionFixedRange.Name:
		return PartitionFixedRange, nil
	case PartitionAnchorWindow.Name:
		return PartitionAnchorWindow, nil
	default:
		return Partition{}, fmt.Errorf("unknown partition policy %q", name)
	}
}

// ParseReduction resolves a reduction by its configuration name.
func ParseReduction(name string) (Reduction, error) {
	switch Reduction(strings.ToLower(strings.TrimSpace(name))) {
	case "", ReduceMean:
		return ReduceMean, nil
	case ReduceMax:
		return ReduceMax, nil
	default:
		return "", fmt.Errorf("unknown reduction policy %q", name)
	}
}

// Aggregate summarizes the samples falling on date into morning, day and
// evening parts. The calendar date of each sample is taken in the sample's own
// location. ErrNoForecastAvailable is returned when no sample falls on date.
func Aggregate(samples []HourlySample, date time.Time, policy Policy) (ForecastResult, error) {
	if policy.Partition.Name == "" {
		policy.Partition = DefaultPolicy.Partition
	}
	if policy.Reduction == "" {
		policy.Reduction = DefaultPolicy.Reduction
	}

	y, m, d := date.Date()
	var onDate []HourlySample
	for _, s := range samples {
		sy, sm, sd := s.Time.Date()
		if sy == y && sm == m && sd == d {
			onDate = append(onDate, s)
		}
	}
	if len(onDate) == 0 {
		return ForecastResult{}, ErrNoForecastAvailable
	}

	sort.SliceStable(onDate, func(i, j int) bool {
		return onDate[i].Time.Before(onDate[j].Time)
	})

	var buckets [len(DayParts)][]HourlySample
	for _, s := range onDate {
		part, ok := policy.Partition.PartOf(s.Time.Hour())
		if !ok {
			continue
		}
		buckets[part] = append(buckets[part], s)
	}

	result := ForecastResult{
		Date:  time.Date(y, m, d, 0, 0, 0, 0, date.Location()),
		Parts: make([]PartSummary, 0, len(DayParts)),
	}
	for _, part := range DayParts {
		result.Parts = append(result.Parts, summarize(part, buckets[part], policy.Reduction))
	}
	return result, nil
}

// summarize expects samples in chronological order.
func summarize(part DayPart, samples []HourlySample, reduction Reduction) PartSummary {
	if len(samples) == 0 {
		return PartSummary{Part: part}
	}
	code := modeCode(samples)
	return PartSummary{
		Part:         part,
		Available:    true,
		TemperatureC: reduceTemperature(samples, reduction),
		Code:         code,
		Condition:    TranslateCondition(code),
	}
}

func reduceTemperature(samples []HourlySample, reduction Reduction) float64 {
	if reduction == ReduceMax {
		best := samples[0].TemperatureC
		for _, s := range samples[1:] {
			best = math.Max(best, s.TemperatureC)
		}
		return best
	}

	var sum float64
	for _, s := range samples {
		sum += s.TemperatureC
	}
	return math.Round(sum/float64(len(samples))*10) / 10
}

// modeCode picks the most frequent code; among tied codes the one seen first wins.
func modeCode(samples []HourlySample) int {
	counts := make(map[int]int)
	var order []int
	for _, s := range samples {
		if counts[s.Code] == 0 {
			order = append(order, s.Code)
		}
		counts[s.Code]++
	}

	best, bestCount := order[0], 0
	for _, code := range order {
		if counts[code] > bestCount {
			best, bestCount = code, counts[code]
		}
	}
	return best
}
