package quant

import "statarb/internal/models"

// regime.go - классификатор режима спреда
//
// Грубая классификация по Hurst и half-life. Используется для
// отчётности и как флаг дисквалификации трендовых пар.

// Границы классификации режима
const (
	regimeRevertingMax = 0.45
	regimeTrendingMin  = 0.55
)

// ClassifyRegime определяет режим спреда
//
// MEAN_REVERTING: Hurst < 0.45 и конечный half-life
// TRENDING: Hurst ≥ 0.55
// RANDOM_WALK: всё остальное (включая невалидный Hurst)
func ClassifyRegime(hurst models.Hurst, halfLife models.HalfLife) string {
	if !hurst.Valid {
		return models.RegimeRandomWalk
	}
	switch {
	case hurst.Exponent < regimeRevertingMax && halfLife.Valid:
		return models.RegimeMeanReverting
	case hurst.Exponent >= regimeTrendingMin:
		return models.RegimeTrending
	default:
		return models.RegimeRandomWalk
	}
}
