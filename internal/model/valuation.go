package model

type MarketTrend string

const (
	MarketTrendRising       MarketTrend = "rising"
	MarketTrendStableRising MarketTrend = "stable_rising"
	MarketTrendStable       MarketTrend = "stable"
	MarketTrendFalling      MarketTrend = "falling"
)

type Impact string

const (
	ImpactLow    Impact = "low impact"
	ImpactMedium Impact = "medium impact"
	ImpactHigh   Impact = "high impact"
)

type ValuationMethod string

const (
	ValuationMethodRules ValuationMethod = "rules"
	ValuationMethodModel ValuationMethod = "model"
)

// FeatureVector is the fixed model input:
// area, carbon capture, duration in years, project type code, location premium.
type FeatureVector [5]float64

const FeatureCount = len(FeatureVector{})

var FeatureNames = [FeatureCount]string{
	"Area (hectares)",
	"Carbon Capture (tons)",
	"Duration (years)",
	"Project Type Code",
	"Location Premium",
}

type Factors struct {
	Location    Impact `json:"location"`
	ProjectType Impact `json:"projectType"`
	Duration    Impact `json:"duration"`
	Scale       Impact `json:"scale"`
}

type PriceRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

type ValuationResult struct {
	CreditValue             float64         `json:"creditValue"`
	Confidence              float64         `json:"confidence"`
	MarketTrend             MarketTrend     `json:"marketTrend"`
	Factors                 Factors         `json:"factors"`
	RecommendedInitialPrice float64         `json:"recommendedInitialPrice"`
	PriceRange              PriceRange      `json:"priceRange"`
	Method                  ValuationMethod `json:"-"`
}

type PriceRecommendation struct {
	RecommendedPrice float64     `json:"recommendedPrice"`
	AIPrediction     float64     `json:"aiPrediction"`
	MarketAverage    float64     `json:"marketAverage"`
	Confidence       float64     `json:"confidence"`
	PriceRange       PriceRange  `json:"priceRange"`
	MarketTrend      MarketTrend `json:"marketTrend"`
	Factors          Factors     `json:"factors"`
}
