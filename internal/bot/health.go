package bot

import (
	"math"

	"statarb/internal/models"
)

// Диапазоны здоровья позиции
const (
	HealthStrong = "STRONG"
	HealthOK     = "OK"
	HealthWeak   = "WEAK"
	HealthBroken = "BROKEN"
)

// HealthScore оценивает состояние открытой позиции по шести
// независимым проверкам. Оценка диагностическая: решения о выходе
// принимают только правила выхода, не health.
//
// База 50, каждая проверка добавляет или вычитает баллы,
// итог зажимается в [0, 100].
func HealthScore(p *models.Position) (int, string) {
	score := 50

	// 1. Z-score: возвращается к нулю или расходится
	if math.Abs(p.CurrentZ) < math.Abs(p.EntryZScore) {
		score += 15
	} else {
		score -= 15
	}

	// 2. PnL: знак и величина
	switch {
	case p.CurrentPnlPct > 0:
		score += 10
	case p.CurrentPnlPct < -3.0:
		score -= 15
	case p.CurrentPnlPct < 0:
		score -= 5
	}

	// 3. Корреляция ног
	switch {
	case p.CurrentCorrelation >= 0.6:
		score += 10
	case p.CurrentCorrelation < breakdownCorrelation:
		score -= 15
	}

	// 4. Инфляция half-life относительно входа
	switch {
	case !p.CurrentHalfLife.Valid:
		score -= 10
	case p.EntryHalfLife.Valid && p.CurrentHalfLife.Days > 3.0*p.EntryHalfLife.Days:
		score -= 10
	case p.EntryHalfLife.Valid && p.CurrentHalfLife.Days <= 1.5*p.EntryHalfLife.Days:
		score += 10
	}

	// 5. Дрейф Hurst в сторону тренда
	switch {
	case p.CurrentHurst.Valid && p.CurrentHurst.Exponent < 0.5:
		score += 10
	case p.CurrentHurst.Valid && p.CurrentHurst.Exponent >= 0.55:
		score -= 10
	}

	// 6. Дрейф беты
	switch {
	case p.BetaDrift < 0.2:
		score += 5
	case p.BetaDrift >= 0.5:
		score -= 15
	}

	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return score, healthBand(score)
}

func healthBand(score int) string {
	switch {
	case score >= 75:
		return HealthStrong
	case score >= 50:
		return HealthOK
	case score >= 25:
		return HealthWeak
	default:
		return HealthBroken
	}
}
