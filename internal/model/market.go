package model

type SectorVolume struct {
	Name   string `json:"name"`
	Volume int    `json:"volume"`
}

type RegionShare struct {
	Region     string `json:"region"`
	Percentage int    `json:"percentage"`
}

type MarketMetrics struct {
	AveragePrice         float64        `json:"average_price"`
	DailyVolume          int            `json:"daily_volume"`
	PriceChange24h       float64        `json:"price_change_24h"`
	MostActiveSectors    []SectorVolume `json:"most_active_sectors"`
	RegionalDistribution []RegionShare  `json:"regional_distribution"`
}

type PricePoint struct {
	Date  string  `json:"date"`
	Price float64 `json:"price"`
}

type PriceHistory struct {
	TokenID      string       `json:"token_id"`
	PriceHistory []PricePoint `json:"price_history"`
}
