package telemetry

import (
	"log/slog"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// WindowStats holds field statistics sampled at the end of a stats interval.
type WindowStats struct {
	Tick       int64   `csv:"tick"`
	SimTimeSec float64 `csv:"sim_time"`
	State      string  `csv:"state"`

	// Fire
	FireBurning   int     `csv:"fire_burning"`
	FireBurnt     int     `csv:"fire_burnt"`
	FireBurntFrac float64 `csv:"fire_burnt_frac"`
	FirePaused    bool    `csv:"fire_paused"`

	// Water surface and droplets
	WaterMean      float64 `csv:"water_mean"`
	WaterStd       float64 `csv:"water_std"`
	WaterPeak      float64 `csv:"water_peak"` // Largest deviation from rest
	Droplets       int     `csv:"droplets"`
	DropletsCulled int     `csv:"droplets_culled"` // Removed during the window

	// Wind particles
	WindMeanSpeed float64 `csv:"wind_mean_speed"`
	WindP90Speed  float64 `csv:"wind_p90_speed"`
	WindPolluted  int     `csv:"wind_polluted"`
}

// HeightStats returns mean, standard deviation and peak absolute deviation
// from rest of a height buffer. scratch is reused when large enough.
func HeightStats(heights []float32, rest float64, scratch []float64) (mean, std, peak float64, buf []float64) {
	buf = toFloat64(heights, scratch)
	if len(buf) == 0 {
		return 0, 0, 0, buf
	}
	mean, std = stat.PopMeanStdDev(buf, nil)
	lo, hi := floats.Min(buf), floats.Max(buf)
	peak = math.Max(math.Abs(hi-rest), math.Abs(lo-rest))
	return mean, std, peak, buf
}

// SpeedStats returns the mean and 90th percentile of particle speeds. The
// input is sorted in place.
func SpeedStats(speeds []float64) (mean, p90 float64) {
	if len(speeds) == 0 {
		return 0, 0
	}
	sort.Float64s(speeds)
	mean = stat.Mean(speeds, nil)
	p90 = stat.Quantile(0.9, stat.Empirical, speeds, nil)
	return mean, p90
}

// BurntFraction returns burnt cells as a fraction of the grid.
func BurntFraction(burnt, cells int) float64 {
	if cells <= 0 {
		return 0
	}
	return float64(burnt) / float64(cells)
}

func toFloat64(src []float32, dst []float64) []float64 {
	if cap(dst) < len(src) {
		dst = make([]float64, len(src))
	}
	dst = dst[:len(src)]
	for i, v := range src {
		dst[i] = float64(v)
	}
	return dst
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int64("tick", s.Tick),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.String("state", s.State),
		slog.Int("fire_burning", s.FireBurning),
		slog.Int("fire_burnt", s.FireBurnt),
		slog.Float64("fire_burnt_frac", s.FireBurntFrac),
		slog.Bool("fire_paused", s.FirePaused),
		slog.Float64("water_mean", s.WaterMean),
		slog.Float64("water_std", s.WaterStd),
		slog.Float64("water_peak", s.WaterPeak),
		slog.Int("droplets", s.Droplets),
		slog.Int("droplets_culled", s.DropletsCulled),
		slog.Float64("wind_mean_speed", s.WindMeanSpeed),
		slog.Float64("wind_p90_speed", s.WindP90Speed),
		slog.Int("wind_polluted", s.WindPolluted),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"tick", s.Tick,
		"sim_time", s.SimTimeSec,
		"state", s.State,
		"fire_burning", s.FireBurning,
		"fire_burnt_frac", s.FireBurntFrac,
		"water_peak", s.WaterPeak,
		"droplets", s.Droplets,
		"wind_mean_speed", s.WindMeanSpeed,
		"wind_polluted", s.WindPolluted,
	)
}
