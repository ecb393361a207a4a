package quant

import "math"

// cointegration.go - эвристический тест коинтеграции
//
// ВАЖНО: это НЕ настоящий Augmented Dickey-Fuller тест.
// Статистика аппроксимируется через lag-1 автокорреляцию первых
// разностей спреда: adfStat = -p*sqrt(n). Критических таблиц нет,
// порог -2.5 подобран эмпирически. Тестируется как эвристика,
// а не как p-value.

// Пороги эвристики коинтеграции
const (
	adfThreshold           = -2.5
	reversionRateThreshold = 0.5
	autocorrThreshold      = 0.3
)

// CointegrationResult содержит результат эвристического теста
type CointegrationResult struct {
	ADFStat           float64 // псевдо-ADF статистика
	Autocorr          float64 // lag-1 автокорреляция разностей
	MeanReversionRate float64 // [0,1] доля шагов с уменьшением отклонения
	IsCointegrated    bool
}

// TestCointegration проверяет стационарность спреда
//
// Пара считается коинтегрированной если:
//   - adfStat < -2.5, ИЛИ
//   - meanReversionRate > 0.5 И |autocorr| < 0.3
func TestCointegration(spread []float64) (CointegrationResult, error) {
	if len(spread) < 4 {
		return CointegrationResult{}, ErrInsufficientData
	}

	diffs := diff(spread)
	p := lag1Autocorr(diffs)
	adf := -p * math.Sqrt(float64(len(diffs)))

	mrr := MeanReversionRate(spread)

	res := CointegrationResult{
		ADFStat:           adf,
		Autocorr:          p,
		MeanReversionRate: mrr,
	}
	res.IsCointegrated = adf < adfThreshold ||
		(mrr > reversionRateThreshold && math.Abs(p) < autocorrThreshold)

	return res, nil
}

// MeanReversionRate возвращает долю шагов, на которых отклонение
// спреда от его среднего уменьшается по модулю
func MeanReversionRate(spread []float64) float64 {
	n := len(spread)
	if n < 2 {
		return 0
	}

	m := mean(spread)
	var reverting int
	for i := 1; i < n; i++ {
		prev := math.Abs(spread[i-1] - m)
		cur := math.Abs(spread[i] - m)
		if cur < prev {
			reverting++
		}
	}
	return float64(reverting) / float64(n-1)
}
