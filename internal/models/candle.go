package models

import "time"

// Candle представляет одну свечу (дневную или часовую)
type Candle struct {
	Timestamp time.Time `json:"timestamp"`
	Close     float64   `json:"close"`
	Volume    float64   `json:"volume"`
}

// Интервалы свечей
const (
	IntervalDay  = "D"
	IntervalHour = "60"
)

// Closes возвращает цены закрытия серии свечей (в хронологическом порядке)
func Closes(candles []Candle) []float64 {
	prices := make([]float64, len(candles))
	for i, c := range candles {
		prices[i] = c.Close
	}
	return prices
}

// LastWindow возвращает последние n цен (read-only срез, не копия)
// Если данных меньше n, возвращает весь срез
func LastWindow(prices []float64, n int) []float64 {
	if n <= 0 || len(prices) <= n {
		return prices
	}
	return prices[len(prices)-n:]
}
