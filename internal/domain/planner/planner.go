// Package planner picks random, non-overlapping time windows inside a
// source duration. Pure: no I/O, deterministic for a seeded rand.
package planner

import (
	"math"
	"math/rand"
	"sort"

	"clipforge/internal/types"
)

const (
	// attemptsPerSlot bounds rejection sampling. A slot that cannot be
	// placed within the budget is silently dropped, so the result may hold
	// fewer windows than requested.
	attemptsPerSlot = 100

	// spacingFactor scales minDuration into the minimum distance between
	// two accepted start times.
	spacingFactor = 0.5
)

// Plan samples up to count windows of [minDur, maxDur] seconds inside
// duration, keeps start times at least minDur*0.5 apart, and returns them
// sorted ascending by start. All values are rounded to two decimals.
func Plan(rng *rand.Rand, duration float64, count int, minDur, maxDur float64) []types.SegmentWindow {
	if duration <= 0 || count <= 0 || minDur <= 0 || maxDur < minDur {
		return nil
	}

	slots := count
	if fit := int(math.Floor(duration / minDur)); fit < slots {
		slots = fit
	}
	if slots <= 0 {
		return nil
	}

	starts := make([]float64, 0, slots)
	durs := make([]float64, 0, slots)
	for s := 0; s < slots; s++ {
		for attempt := 0; attempt < attemptsPerSlot; attempt++ {
			start := rng.Float64() * (duration - minDur)
			if tooClose(starts, start, minDur*spacingFactor) {
				continue
			}
			maxHere := math.Min(maxDur, duration-start)
			segDur := minDur + rng.Float64()*(maxHere-minDur)
			starts = append(starts, start)
			durs = append(durs, segDur)
			break
		}
	}

	windows := make([]types.SegmentWindow, len(starts))
	for i := range starts {
		windows[i] = types.SegmentWindow{
			StartSec: round2(starts[i]),
			EndSec:   round2(starts[i] + durs[i]),
		}
	}
	sort.Slice(windows, func(i, j int) bool { return windows[i].StartSec < windows[j].StartSec })
	for i := range windows {
		windows[i].Index = i
	}
	return windows
}

func tooClose(starts []float64, start, minGap float64) bool {
	for _, s := range starts {
		if math.Abs(s-start) < minGap {
			return true
		}
	}
	return false
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
