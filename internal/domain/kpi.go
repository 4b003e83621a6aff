package domain

import (
	"sort"
	"time"
)

// KPISnapshot is an append-only record of monitored metrics at one instant.
type KPISnapshot struct {
	At   time.Time          `json:"at"`
	Data map[string]float64 `json:"data"`
}

// TwoXEvaluator scores gender-lens metrics for a sector, returning the
// eligibility flag and the number of criteria met.
type TwoXEvaluator func(input TwoXInput, sector string) (eligible bool, criteriaMet int)

// AddKPISnapshot appends a snapshot. Any gender-lens metric present in data
// replaces the deal's stored value, and evaluate (when non-nil) re-derives the
// stored eligibility so it always matches the latest snapshot.
func (d *Deal) AddKPISnapshot(data map[string]float64, evaluate TwoXEvaluator, now time.Time) KPISnapshot {
	copied := make(map[string]float64, len(data))
	for k, v := range data {
		copied[k] = v
	}
	snap := KPISnapshot{At: now.UTC(), Data: copied}
	d.KPIHistory = append(d.KPIHistory, snap)

	if v, ok := copied[KPIWomenOwnership]; ok {
		d.TwoX.WomenOwnershipPct = v
	}
	if v, ok := copied[KPIWomenManagement]; ok {
		d.TwoX.WomenManagementPct = v
	}
	if v, ok := copied[KPIWomenEmployees]; ok {
		d.TwoX.WomenEmployeesPct = v
	}
	if evaluate != nil {
		d.RecordTwoXResult(evaluate(d.TwoX, d.Sector))
	}
	d.touch(now)
	return snap
}

// KPIDelta compares the latest value of a metric to earlier snapshots.
type KPIDelta struct {
	Metric        string  `json:"metric"`
	Latest        float64 `json:"latest"`
	SinceFirst    float64 `json:"since_first"`
	SincePrevious float64 `json:"since_previous"`
	HasPrevious   bool    `json:"has_previous"`
}

// KPIDeltas reports, for each metric in the latest snapshot, the change since
// the first snapshot that recorded it and since the snapshot before the latest.
func (d *Deal) KPIDeltas() []KPIDelta {
	n := len(d.KPIHistory)
	if n == 0 {
		return nil
	}
	latest := d.KPIHistory[n-1]
	metrics := make([]string, 0, len(latest.Data))
	for k := range latest.Data {
		metrics = append(metrics, k)
	}
	sort.Strings(metrics)

	deltas := make([]KPIDelta, 0, len(metrics))
	for _, m := range metrics {
		delta := KPIDelta{Metric: m, Latest: latest.Data[m]}
		for _, snap := range d.KPIHistory[:n-1] {
			if v, ok := snap.Data[m]; ok {
				delta.SinceFirst = delta.Latest - v
				break
			}
		}
		if n > 1 {
			if v, ok := d.KPIHistory[n-2].Data[m]; ok {
				delta.SincePrevious = delta.Latest - v
				delta.HasPrevious = true
			}
		}
		deltas = append(deltas, delta)
	}
	return deltas
}
