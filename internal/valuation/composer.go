package valuation

import (
	"fmt"
	"math"

	"github.com/nurpe/carbon-valuation/internal/model"
)

const (
	recommendedPriceFactor = 1.1
	priceRangeMinFactor    = 0.9
	priceRangeMaxFactor    = 1.3

	valuationWeight = 0.7
	marketWeight    = 0.3
)

type Valuator struct {
	model Model
}

// NewValuator returns a valuator over m. A nil m selects the rule formula.
func NewValuator(m Model) *Valuator {
	return &Valuator{model: m}
}

func (v *Valuator) ModelLoaded() bool {
	return v.model != nil
}

// Value composes the full valuation of a project.
func (v *Valuator) Value(record model.ProjectRecord) (model.ValuationResult, error) {
	var (
		value      float64
		confidence float64
		method     model.ValuationMethod
	)
	if v.model != nil {
		var err error
		value, confidence, err = Predict(Extract(record), v.model)
		if err != nil {
			return model.ValuationResult{}, fmt.Errorf("predict credit value: %w", err)
		}
		method = model.ValuationMethodModel
	} else {
		value, confidence = RuleValue(record)
		method = model.ValuationMethodRules
	}

	return model.ValuationResult{
		CreditValue:             Round2(value),
		Confidence:              Round2(confidence),
		MarketTrend:             AnalyzeTrend(record),
		Factors:                 AnalyzeFactors(record),
		RecommendedInitialPrice: Round2(value * recommendedPriceFactor),
		PriceRange: model.PriceRange{
			Min: Round2(value * priceRangeMinFactor),
			Max: Round2(value * priceRangeMaxFactor),
		},
		Method: method,
	}, nil
}

// RecommendPrice blends the valuation with an externally supplied market price.
func (v *Valuator) RecommendPrice(record model.ProjectRecord, marketReferencePrice float64) (model.PriceRecommendation, error) {
	result, err := v.Value(record)
	if err != nil {
		return model.PriceRecommendation{}, err
	}
	return model.PriceRecommendation{
		RecommendedPrice: BlendPrice(result.CreditValue, marketReferencePrice),
		AIPrediction:     result.CreditValue,
		MarketAverage:    marketReferencePrice,
		Confidence:       result.Confidence,
		PriceRange:       result.PriceRange,
		MarketTrend:      result.MarketTrend,
		Factors:          result.Factors,
	}, nil
}

func BlendPrice(creditValue, marketReferencePrice float64) float64 {
	return Round2(creditValue*valuationWeight + marketReferencePrice*marketWeight)
}

func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
