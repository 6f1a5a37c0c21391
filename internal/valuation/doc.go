// Package valuation prices carbon credits for a single project.
//
// A Valuator holds an optional learned Model. When the model is present the
// project's FeatureVector is scored by it; otherwise the deterministic rule
// formula is used. Either way the result carries a market trend, per-factor
// impact labels and a price range derived from the credit value.
//
// Everything in this package is pure and safe for concurrent use as long as
// the Model implementation is.
package valuation
