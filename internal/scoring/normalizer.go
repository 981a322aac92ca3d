package scoring

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/yourusername/race-ev/internal/models"
)

// Direction tells the normalizer which end of a signal is better
type Direction int

const (
	// LowerIsBetter applies to time-like signals
	LowerIsBetter Direction = iota
	// HigherIsBetter applies to rating-like signals
	HigherIsBetter
)

// FieldStats are the population statistics of one signal over a field
type FieldStats struct {
	Mean  float64
	Std   float64
	Count int
}

// ComputeStats returns the mean and population standard deviation of values.
// Std falls back to 1.0 when fewer than two values exist or the spread is zero.
func ComputeStats(values []float64) FieldStats {
	fs := FieldStats{Std: 1.0, Count: len(values)}
	if len(values) == 0 {
		return fs
	}
	mean, std := stat.PopMeanStdDev(values, nil)
	fs.Mean = mean
	if len(values) >= 2 && std > 0 && !math.IsNaN(std) {
		fs.Std = std
	}
	return fs
}

// ZScore converts v to a clipped z-score oriented so that higher is better
func (fs FieldStats) ZScore(v float64, dir Direction, clip float64) float64 {
	var z float64
	if dir == LowerIsBetter {
		z = (fs.Mean - v) / fs.Std
	} else {
		z = (v - fs.Mean) / fs.Std
	}
	return Clip(z, clip)
}

// Clip bounds v to [-limit, limit]
func Clip(v, limit float64) float64 {
	return math.Max(-limit, math.Min(limit, v))
}

// FeatureZ holds the normalized ability signals of one participant
type FeatureZ struct {
	TimeZ  float64
	SpeedZ float64
}

type signal struct {
	dir   Direction
	value func(r *models.ParticipantRecord) *float64
}

var (
	bestTimeSignal  = signal{dir: LowerIsBetter, value: func(r *models.ParticipantRecord) *float64 { return r.BestTime }}
	lateSpeedSignal = signal{dir: LowerIsBetter, value: func(r *models.ParticipantRecord) *float64 { return r.LateSpeed }}
)

// NormalizeFeatures computes the time and late-speed z-scores for the whole field.
// Participants without a signal receive the MissingZ penalty for it.
func NormalizeFeatures(records []models.ParticipantRecord, p Params) []FeatureZ {
	times := normalizeSignal(records, bestTimeSignal, p)
	speeds := normalizeSignal(records, lateSpeedSignal, p)

	out := make([]FeatureZ, len(records))
	for i := range records {
		out[i] = FeatureZ{TimeZ: times[i], SpeedZ: speeds[i]}
	}
	return out
}

func normalizeSignal(records []models.ParticipantRecord, sig signal, p Params) []float64 {
	present := make([]float64, 0, len(records))
	for i := range records {
		if v := sig.value(&records[i]); v != nil {
			present = append(present, *v)
		}
	}
	fs := ComputeStats(present)

	zs := make([]float64, len(records))
	for i := range records {
		v := sig.value(&records[i])
		if v == nil {
			zs[i] = p.MissingZ
			continue
		}
		zs[i] = fs.ZScore(*v, sig.dir, p.ZClip)
	}
	return zs
}
