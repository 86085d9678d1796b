// Package pk implements the one-compartment pharmacokinetic model that turns
// a dosing regimen into normalized concentration-vs-time curves: rate
// constant derivation, the single-dose and metabolite formation models with
// their numerically-stable fallback branches, daily schedule expansion, and
// the multi-dose accumulation engine with single global normalization.
//
// Everything in this package is pure computation over the inputs; validation
// of regimens happens at the domain boundary before they reach the engine.
package pk
