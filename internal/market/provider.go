// Package market simulates the market data the valuation service quotes next
// to its own predictions. Nothing here is fetched from a real exchange.
package market

import (
	"math"
	"math/rand/v2"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/nurpe/carbon-valuation/internal/model"
)

const (
	defaultBasePrice = 20.0
	tokenBaseOffset  = 15
	dailyTrend       = 0.001
)

// Provider serves the market reference price, fixed market metrics and
// randomized price histories. It is safe for concurrent use.
type Provider struct {
	averagePrice float64

	mu  sync.Mutex
	rng *rand.Rand
}

// NewProvider returns a provider quoting averagePrice. A nil rng is replaced
// by one seeded from the clock.
func NewProvider(averagePrice float64, rng *rand.Rand) *Provider {
	if rng == nil {
		now := uint64(time.Now().UnixNano())
		rng = rand.New(rand.NewPCG(now, now>>1))
	}
	return &Provider{averagePrice: averagePrice, rng: rng}
}

func (p *Provider) ReferencePrice() float64 {
	return p.averagePrice
}

func (p *Provider) Metrics() model.MarketMetrics {
	return model.MarketMetrics{
		AveragePrice:   17.50,
		DailyVolume:    12500,
		PriceChange24h: 2.3,
		MostActiveSectors: []model.SectorVolume{
			{Name: "Reforestation", Volume: 5200},
			{Name: "Conservation", Volume: 3800},
			{Name: "Renewable Energy", Volume: 2100},
		},
		RegionalDistribution: []model.RegionShare{
			{Region: "Africa", Percentage: 35},
			{Region: "South America", Percentage: 28},
			{Region: "Asia", Percentage: 18},
			{Region: "North America", Percentage: 12},
			{Region: "Europe", Percentage: 7},
		},
	}
}

// PriceHistory returns days+1 daily points ending at now, oldest first, around
// a token-specific base price with a slight upward drift.
func (p *Provider) PriceHistory(tokenID string, days int, now time.Time) model.PriceHistory {
	days = max(days, 0)
	base := BasePrice(tokenID)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	points := make([]model.PricePoint, 0, days+1)
	p.mu.Lock()
	for i := days; i >= 0; i-- {
		noise := 0.95 + 0.1*p.rng.Float64()
		trend := 1 + dailyTrend*float64(days-i)
		points = append(points, model.PricePoint{
			Date:  today.AddDate(0, 0, -i).Format(model.DateLayout),
			Price: math.Round(base*noise*trend*100) / 100,
		})
	}
	p.mu.Unlock()

	return model.PriceHistory{TokenID: tokenID, PriceHistory: points}
}

// BasePrice derives a price level from the last dot-separated segment of a
// token id such as "0.0.4521": 15 plus the segment modulo 10, or 20 when the
// segment is not an integer.
func BasePrice(tokenID string) float64 {
	segment := tokenID
	if i := strings.LastIndex(tokenID, "."); i >= 0 {
		segment = tokenID[i+1:]
	}
	n, err := strconv.ParseInt(strings.TrimSpace(segment), 10, 64)
	if err != nil {
		return defaultBasePrice
	}
	return float64((n%10+10)%10 + tokenBaseOffset)
}
