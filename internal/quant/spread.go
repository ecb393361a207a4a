package quant

import "math"

// spread.go - лог-спред пары и его z-score
//
// Спред: spread_t = ln(p1_t) - beta*ln(p2_t)
// Z-score: отклонение последнего значения спреда от скользящего среднего,
// нормированное на стандартное отклонение окна.

// DefaultZWindow - окно расчёта z-score по умолчанию (наблюдений)
const DefaultZWindow = 30

// LogSpread вычисляет ряд лог-спреда при заданном hedge ratio
// Цены должны быть строго положительными
func LogSpread(p1, p2 []float64, beta float64) ([]float64, error) {
	if len(p1) != len(p2) {
		return nil, ErrLengthMismatch
	}
	if len(p1) == 0 {
		return nil, ErrInsufficientData
	}

	spread := make([]float64, len(p1))
	for i := range p1 {
		if p1[i] <= 0 || p2[i] <= 0 {
			return nil, ErrZeroVariance
		}
		spread[i] = math.Log(p1[i]) - beta*math.Log(p2[i])
	}
	return spread, nil
}

// ZScore возвращает z-score последнего значения спреда
// относительно окна window (клампится к доступной длине)
func ZScore(spread []float64, window int) (float64, error) {
	n := len(spread)
	if n < 2 {
		return 0, ErrInsufficientData
	}
	if window <= 0 || window > n {
		window = n
	}

	win := spread[n-window:]
	sd := stddev(win)
	if sd == 0 {
		return 0, ErrZeroVariance
	}

	z := (spread[n-1] - mean(win)) / sd
	if !isFinite(z) {
		return 0, ErrZeroVariance
	}
	return z, nil
}

// ZScoreSeries возвращает скользящий z-score для каждой точки ряда,
// начиная с точки window-1. Используется профилировщиком возврата.
func ZScoreSeries(spread []float64, window int) ([]float64, error) {
	n := len(spread)
	if window < 2 {
		window = DefaultZWindow
	}
	if n < window {
		return nil, ErrInsufficientData
	}

	zs := make([]float64, 0, n-window+1)
	for i := window; i <= n; i++ {
		win := spread[i-window : i]
		sd := stddev(win)
		if sd == 0 {
			zs = append(zs, 0)
			continue
		}
		zs = append(zs, (win[window-1]-mean(win))/sd)
	}
	return zs, nil
}

// PairZScore - удобная обёртка: спред из цен + z-score одним вызовом
// Используется монитором для короткого подтверждающего окна
func PairZScore(p1, p2 []float64, beta float64, window int) (float64, error) {
	spread, err := LogSpread(p1, p2, beta)
	if err != nil {
		return 0, err
	}
	return ZScore(spread, window)
}

// MaxAbsZ возвращает максимум |z| по ряду z-score
func MaxAbsZ(zs []float64) float64 {
	var maxAbs float64
	for _, z := range zs {
		if a := math.Abs(z); a > maxAbs {
			maxAbs = a
		}
	}
	return maxAbs
}
