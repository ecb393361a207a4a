package models

// Instrument представляет торгуемый бессрочный контракт
type Instrument struct {
	Symbol       string  `json:"symbol"`        // BTCUSDT
	Asset        string  `json:"asset"`         // BTC
	Sector       string  `json:"sector"`        // L1, DEFI, MEME, ...
	Volume24h    float64 `json:"volume_24h"`    // оборот за 24ч в USDT
	OpenInterest float64 `json:"open_interest"` // открытый интерес в USDT
	MarkPrice    float64 `json:"mark_price"`
	FundingRate  float64 `json:"funding_rate"`
}

// Секторы инструментов
const (
	SectorL1    = "L1"
	SectorL2    = "L2"
	SectorDefi  = "DEFI"
	SectorMeme  = "MEME"
	SectorAI    = "AI"
	SectorInfra = "INFRA"
	SectorOther = "OTHER"
)
