package bot

import (
	"math"

	"statarb/internal/models"
)

const (
	partialReversionFactor = 0.5 // доля entry threshold для частичного выхода
	partialProfitPct       = 3.0 // PnL% для частичного выхода
	finalProfitPct         = 5.0 // PnL% для полного выхода после частичного
	fullReversionZ         = 0.5 // |z| полной реверсии
	stopLossEntryFactor    = 1.5
	stopLossHistFactor     = 1.2
	stopLossFloor          = 3.0
	timeStopHalfLives      = 2.0
	breakdownCorrelation   = 0.4
)

// PositionPnlPct считает взвешенный PnL позиции в процентах.
// Long нога зарабатывает на росте, short - на падении.
func PositionPnlPct(p *models.Position, longPrice, shortPrice float64) float64 {
	if p.LongEntryPrice <= 0 || p.ShortEntryPrice <= 0 {
		return 0
	}
	longRet := (longPrice - p.LongEntryPrice) / p.LongEntryPrice
	shortRet := (p.ShortEntryPrice - shortPrice) / p.ShortEntryPrice
	return (p.LongWeight*longRet + p.ShortWeight*shortRet) * 100
}

// BlendedPnlPct - итоговый PnL после частичного выхода:
// половина зафиксирована на частичном выходе, половина по текущей цене.
func BlendedPnlPct(partialPnl, currentPnl float64) float64 {
	return 0.5*partialPnl + 0.5*currentPnl
}

// StopLossLevel возвращает |z| срабатывания стоп-лосса.
// Уровень фиксируется относительно условий на момент входа.
func StopLossLevel(entryZ, maxHistoricalZ float64) float64 {
	level := stopLossEntryFactor * math.Abs(entryZ)
	if hist := stopLossHistFactor * maxHistoricalZ; hist > level {
		level = hist
	}
	if level < stopLossFloor {
		level = stopLossFloor
	}
	return level
}
