package quant

import "statarb/internal/models"

// conviction.go - композитный скор качества пары (0-100)
//
// Взвешенная сумма:
//   - корреляция: до 20 баллов выше пола 0.7
//   - R²: до 15 баллов
//   - half-life: до 20 баллов (пик при ≤3 днях, ноль выше 30)
//   - Hurst: до 25 баллов (пик ниже 0.35, ноль при ≥0.55)
//   - коинтеграция: 15 баллов (10 за флаг + 5 бонус за сильный ADF)
//   - штраф за дрейф беты: до -10 баллов
// Итог клампится к [0,100].

// Пороги компонентов conviction score
const (
	convCorrFloor     = 0.7
	convHalfLifeBest  = 3.0
	convHalfLifeWorst = 30.0
	convHurstBest     = 0.35
	convHurstWorst    = 0.55
	convADFStrong     = -3.0
	convDriftCap      = 0.5
)

// ConvictionInputs - входы композитного скоринга
type ConvictionInputs struct {
	Correlation    float64
	R2             float64
	HalfLife       models.HalfLife
	Hurst          models.Hurst
	IsCointegrated bool
	ADFStat        float64
	BetaDrift      float64
}

// ConvictionScore вычисляет композитный скор пары
func ConvictionScore(in ConvictionInputs) float64 {
	var score float64

	// Корреляция: линейно от 0.7 до 1.0 → 0..20
	if in.Correlation > convCorrFloor {
		score += 20 * (in.Correlation - convCorrFloor) / (1 - convCorrFloor)
	}

	// R²: линейно → 0..15
	score += 15 * clamp(in.R2, 0, 1)

	// Half-life: ≤3 дня → 20, ≥30 дней → 0, линейно между
	if in.HalfLife.Valid {
		switch {
		case in.HalfLife.Days <= convHalfLifeBest:
			score += 20
		case in.HalfLife.Days < convHalfLifeWorst:
			score += 20 * (convHalfLifeWorst - in.HalfLife.Days) / (convHalfLifeWorst - convHalfLifeBest)
		}
	}

	// Hurst: <0.35 → 25, ≥0.55 → 0, линейно между
	if in.Hurst.Valid {
		switch {
		case in.Hurst.Exponent < convHurstBest:
			score += 25
		case in.Hurst.Exponent < convHurstWorst:
			score += 25 * (convHurstWorst - in.Hurst.Exponent) / (convHurstWorst - convHurstBest)
		}
	}

	// Коинтеграция: 10 за флаг, +5 за сильно отрицательный ADF
	if in.IsCointegrated {
		score += 10
		if in.ADFStat < convADFStrong {
			score += 5
		}
	}

	// Штраф за дрейф беты: до -10 при дрейфе ≥50%
	score -= 10 * clamp(in.BetaDrift/convDriftCap, 0, 1)

	return clamp(score, 0, 100)
}
