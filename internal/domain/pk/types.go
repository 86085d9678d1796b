package pk

// DoseEvent is one administration instant, expressed as an absolute-hour
// offset from the start of the simulation (hour 0 is midnight of day 0).
type DoseEvent float64

// TimeSeriesPoint is a single sample of a concentration curve. Concentration
// is unitless: intermediate values are raw model output and may exceed 1,
// final accumulated-curve values are normalized into [0, 1].
type TimeSeriesPoint struct {
	TimeHours     float64 `json:"time_hours"`
	Concentration float64 `json:"concentration"`
}

// ConcentrationCurve is an ordered, fixed-interval sequence of samples for a
// single parent-drug or metabolite series.
type ConcentrationCurve []TimeSeriesPoint

// RateConstants holds the first-order absorption (ka) and elimination (ke)
// rate constants, in 1/hour. They are derived on demand from a regimen's
// time constants and never persisted.
type RateConstants struct {
	Absorption  float64 // ka
	Elimination float64 // ke
}
