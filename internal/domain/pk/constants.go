package pk

// Tolerance is the shared rate-constant tolerance used to decide when the
// absorption and elimination rate constants are too close for the standard
// concentration formula's 1/(ka-ke) denominator to be numerically safe.
//
// This constant is deliberately the single definition for the whole system:
// the regimen validation layer uses it to warn about near-equal rates, and
// the calculation engine uses it to select the fallback formula branch. The
// two must never diverge, or a regimen could be flagged without switching
// branch (or vice versa).
const Tolerance = 0.001

// HoursPerDay is the day length used when expanding a daily schedule into
// absolute dose-event hours.
const HoursPerDay = 24.0
