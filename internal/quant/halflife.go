package quant

import (
	"math"

	"statarb/internal/models"
)

// halflife.go - оценка периода полувозврата спреда (AR(1))
//
// Основной метод: регрессия spread_t на spread_{t-1} даёт наклон φ;
// halfLife = -ln(2)/ln(φ), валидно только при 0 < φ < 1.
// Запасной метод: через автокорреляцию разностей p,
// halfLife = -ln(2)/ln(1+p), валидно при -1 < p < 0.
// Если оба метода неприменимы - спред не возвращается к среднему
// на этом окне и результат Valid=false (никаких Inf/null-сентинелей).

// EstimateHalfLife возвращает half-life спреда в днях
func EstimateHalfLife(spread []float64) models.HalfLife {
	if len(spread) < 4 {
		return models.HalfLife{}
	}

	// AR(1) на уровнях: y = spread[1:], x = spread[:n-1]
	x := spread[:len(spread)-1]
	y := spread[1:]

	phi, _, _, err := LinearRegression(x, y)
	if err == nil && phi > 0 && phi < 1 {
		hl := -math.Ln2 / math.Log(phi)
		if isFinite(hl) && hl > 0 {
			return models.HalfLife{Days: hl, Valid: true}
		}
	}

	// Запасной метод через автокорреляцию разностей
	p := lag1Autocorr(diff(spread))
	if p > -1 && p < 0 {
		hl := -math.Ln2 / math.Log(1+p)
		if isFinite(hl) && hl > 0 {
			return models.HalfLife{Days: hl, Valid: true}
		}
	}

	return models.HalfLife{}
}
