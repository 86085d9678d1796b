package pk

// Params defines the configurable parameters for the pharmacokinetic
// simulation engine. The formula constants themselves (Tolerance, the
// rate-constant derivations) are fixed package constants and intentionally
// not configurable; Params only covers sampling behavior.
type Params struct {
	// SampleIntervalMinutes is the spacing between consecutive samples of
	// the accumulated concentration curve.
	SampleIntervalMinutes int

	// ScheduleMarginDays is the number of extra days of dose events expanded
	// beyond the end of the simulation window, so that a dose administered
	// late on the final day still contributes to the curve's tail.
	ScheduleMarginDays int
}

// ParamsConfig allows overriding the default parameters when creating a new
// Params instance.
type ParamsConfig struct {
	SampleIntervalMinutes int
	ScheduleMarginDays    int
}

// NewDefaultParams creates a new Params instance with default values.
func NewDefaultParams() *Params {
	return &Params{
		// 15-minute resolution keeps a week-long simulation under 700 points
		// per series while still resolving absorption peaks of short-uptake
		// drugs.
		SampleIntervalMinutes: 15,

		// One extra day of dose events beyond the window.
		ScheduleMarginDays: 1,
	}
}

// NewParams creates a new Params instance with custom configuration.
// Zero-valued fields keep their defaults.
func NewParams(config ParamsConfig) *Params {
	params := NewDefaultParams()

	if config.SampleIntervalMinutes > 0 {
		params.SampleIntervalMinutes = config.SampleIntervalMinutes
	}
	if config.ScheduleMarginDays > 0 {
		params.ScheduleMarginDays = config.ScheduleMarginDays
	}

	return params
}
