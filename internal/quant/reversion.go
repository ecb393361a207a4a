package quant

import "math"

// reversion.go - историческое профилирование дивергенций и возвратов
//
// По историческому ряду z-score ищутся события пересечения порога
// (|z| переходит снизу вверх через порог) и измеряется, какая доля
// событий вернулась в целевую зону |z| ≤ 0.5 и за сколько шагов.
// Из профиля выбирается optimalEntry: максимальный порог с
// квалифицирующей исторической статистикой возврата.

// Параметры профилирования
var profileThresholds = []float64{1.0, 1.5, 2.0, 2.5, 3.0}

const (
	reversionTargetBand = 0.5  // фиксированная целевая зона
	reversionTargetPct  = 0.25 // вариант: доля от порога
	optimalEntryFloor   = 1.5

	// Квалификация: ≥90% возвратов при ≥3 событиях,
	// деградация до ≥80% при ≥2 событиях
	strictRate  = 0.90
	strictCount = 3
	lenientRate = 0.80
	lenientCount = 2
)

// ThresholdProfile - статистика возвратов для одного порога
type ThresholdProfile struct {
	Threshold     float64 `json:"threshold"`
	Events        int     `json:"events"`          // событий пересечения
	Reverted      int     `json:"reverted"`        // вернулось в зону |z| ≤ 0.5
	RevertedPct   int     `json:"reverted_pct"`    // вернулось в зону |z| ≤ 0.25×порог
	ReversionRate float64 `json:"reversion_rate"`  // Reverted/Events
	AvgSteps      float64 `json:"avg_steps"`       // среднее шагов до возврата
}

// ReversionProfile - полный профиль по всем порогам
type ReversionProfile struct {
	Thresholds   []ThresholdProfile `json:"thresholds"`
	OptimalEntry float64            `json:"optimal_entry"`
	MaxAbsZ      float64            `json:"max_abs_z"` // худшая историческая дивергенция
}

// ProfileReversion строит профиль возвратов по ряду z-score
func ProfileReversion(zs []float64) ReversionProfile {
	profile := ReversionProfile{MaxAbsZ: MaxAbsZ(zs)}

	for _, threshold := range profileThresholds {
		tp := profileThreshold(zs, threshold)
		profile.Thresholds = append(profile.Thresholds, tp)
	}

	profile.OptimalEntry = optimalEntry(profile.Thresholds)
	return profile
}

// profileThreshold сканирует ряд на события пересечения одного порога
func profileThreshold(zs []float64, threshold float64) ThresholdProfile {
	tp := ThresholdProfile{Threshold: threshold}
	pctBand := threshold * reversionTargetPct

	var totalSteps int
	inEvent := false
	for i := 1; i < len(zs); i++ {
		prev, cur := math.Abs(zs[i-1]), math.Abs(zs[i])

		// Начало события: пересечение порога снизу вверх
		if !inEvent && prev < threshold && cur >= threshold {
			inEvent = true
			tp.Events++

			// Ищем возврат в целевую зону до конца ряда
			reverted := false
			revertedPct := false
			for j := i + 1; j < len(zs); j++ {
				a := math.Abs(zs[j])
				if !revertedPct && a <= pctBand {
					revertedPct = true
				}
				if a <= reversionTargetBand {
					reverted = true
					totalSteps += j - i
					break
				}
			}
			if reverted {
				tp.Reverted++
			}
			if revertedPct {
				tp.RevertedPct++
			}
		}

		// Событие закончилось когда |z| вернулся ниже порога
		if inEvent && cur < threshold {
			inEvent = false
		}
	}

	if tp.Events > 0 {
		tp.ReversionRate = float64(tp.Reverted) / float64(tp.Events)
	}
	if tp.Reverted > 0 {
		tp.AvgSteps = float64(totalSteps) / float64(tp.Reverted)
	}
	return tp
}

// optimalEntry выбирает максимальный порог с квалифицирующей статистикой
//
// Сначала строгий критерий (≥90% при ≥3 событиях), затем мягкий
// (≥80% при ≥2 событиях). Результат не ниже 1.5.
func optimalEntry(thresholds []ThresholdProfile) float64 {
	best := 0.0
	for _, tp := range thresholds {
		if tp.Events >= strictCount && tp.ReversionRate >= strictRate && tp.Threshold > best {
			best = tp.Threshold
		}
	}
	if best == 0 {
		for _, tp := range thresholds {
			if tp.Events >= lenientCount && tp.ReversionRate >= lenientRate && tp.Threshold > best {
				best = tp.Threshold
			}
		}
	}
	if best < optimalEntryFloor {
		best = optimalEntryFloor
	}
	return best
}

// PoorReversionAtZ проверяет плохую историческую статистику возврата
// на уровне текущей дивергенции. Используется как reversionWarning.
func PoorReversionAtZ(profile ReversionProfile, z float64) bool {
	absZ := math.Abs(z)

	// Наибольший порог, который текущий |z| уже пересёк
	var at *ThresholdProfile
	for i := range profile.Thresholds {
		tp := &profile.Thresholds[i]
		if absZ >= tp.Threshold {
			at = tp
		}
	}
	if at == nil || at.Events < lenientCount {
		return false
	}
	return at.ReversionRate < reversionRateThreshold
}
