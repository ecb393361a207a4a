package quant

import (
	"math"

	"statarb/internal/models"
)

// hurst.go - показатель Херста через R/S (rescaled range) анализ
//
// Анализ выполняется по приращениям ряда спреда (не по сырым ценам):
// для лагов 10..min(maxLag, n/2) ряд бьётся на блоки, в каждом блоке
// считается отношение размаха кумулятивных отклонений к стандартному
// отклонению, затем наклон регрессии log(R/S) на log(lag) даёт H.
//
// H < 0.5 - возврат к среднему, H ≈ 0.5 - случайное блуждание,
// H > 0.5 - трендовость (пара дисквалифицируется).

// Параметры R/S анализа
const (
	hurstMinLag     = 10
	DefaultHurstLag = 20 // максимальный лаг по умолчанию
)

// CalculateHurst оценивает показатель Херста ряда спреда
//
// Требует минимум 2*maxLag точек, иначе возвращает (0.5, Valid=false).
// Результат клампится к [0,1]. Инвариантен к сдвигу и масштабу ряда.
func CalculateHurst(spread []float64, maxLag int) models.Hurst {
	if maxLag < hurstMinLag {
		maxLag = DefaultHurstLag
	}

	increments := diff(spread)
	n := len(increments)
	if n < 2*maxLag {
		return models.Hurst{Exponent: 0.5}
	}
	if maxLag > n/2 {
		maxLag = n / 2
	}

	var logLags, logRS []float64
	for lag := hurstMinLag; lag <= maxLag; lag++ {
		rs := averageRescaledRange(increments, lag)
		if rs <= 0 {
			continue
		}
		logLags = append(logLags, math.Log(float64(lag)))
		logRS = append(logRS, math.Log(rs))
	}

	if len(logLags) < 2 {
		return models.Hurst{Exponent: 0.5}
	}

	slope, _, _, err := LinearRegression(logLags, logRS)
	if err != nil || !isFinite(slope) {
		return models.Hurst{Exponent: 0.5}
	}

	return models.Hurst{Exponent: clamp(slope, 0, 1), Valid: true}
}

// averageRescaledRange возвращает средний R/S по блокам размера lag
func averageRescaledRange(increments []float64, lag int) float64 {
	numBlocks := len(increments) / lag
	if numBlocks == 0 {
		return 0
	}

	var sum float64
	var count int
	for b := 0; b < numBlocks; b++ {
		block := increments[b*lag : (b+1)*lag]

		sd := stddev(block)
		if sd == 0 {
			continue
		}

		// Кумулятивные отклонения от среднего блока
		m := mean(block)
		var cum, minCum, maxCum float64
		for _, x := range block {
			cum += x - m
			if cum < minCum {
				minCum = cum
			}
			if cum > maxCum {
				maxCum = cum
			}
		}

		r := maxCum - minCum
		if r > 0 {
			sum += r / sd
			count++
		}
	}

	if count == 0 {
		return 0
	}
	return sum / float64(count)
}
