package quant

import "math"

// stat.go - базовые статистические функции над срезами float64
//
// Все функции чистые: не изменяют входные срезы и не держат состояния.
// Выборочные оценки (n-1) используются для дисперсии и ковариации.

// mean возвращает среднее арифметическое
func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// variance возвращает выборочную дисперсию (n-1)
func variance(xs []float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	m := mean(xs)
	var sum float64
	for _, x := range xs {
		d := x - m
		sum += d * d
	}
	return sum / float64(len(xs)-1)
}

// stddev возвращает выборочное стандартное отклонение
func stddev(xs []float64) float64 {
	return math.Sqrt(variance(xs))
}

// covariance возвращает выборочную ковариацию (n-1)
// Срезы должны быть одинаковой длины
func covariance(xs, ys []float64) float64 {
	n := len(xs)
	if n < 2 || n != len(ys) {
		return 0
	}
	mx, my := mean(xs), mean(ys)
	var sum float64
	for i := 0; i < n; i++ {
		sum += (xs[i] - mx) * (ys[i] - my)
	}
	return sum / float64(n-1)
}

// diff возвращает первые разности ряда: d[i] = xs[i+1] - xs[i]
func diff(xs []float64) []float64 {
	if len(xs) < 2 {
		return nil
	}
	ds := make([]float64, len(xs)-1)
	for i := 1; i < len(xs); i++ {
		ds[i-1] = xs[i] - xs[i-1]
	}
	return ds
}

// lag1Autocorr возвращает автокорреляцию с лагом 1
func lag1Autocorr(xs []float64) float64 {
	n := len(xs)
	if n < 3 {
		return 0
	}
	m := mean(xs)
	var num, den float64
	for i := 0; i < n; i++ {
		d := xs[i] - m
		den += d * d
		if i > 0 {
			num += (xs[i] - m) * (xs[i-1] - m)
		}
	}
	if den == 0 {
		return 0
	}
	return num / den
}

// clamp ограничивает значение диапазоном [lo, hi]
func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

// isFinite проверяет что значение не NaN и не Inf
func isFinite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

// Returns вычисляет простые доходности: r[i] = (p[i+1]-p[i]) / p[i]
// Требует минимум 2 наблюдения
func Returns(prices []float64) ([]float64, error) {
	if len(prices) < 2 {
		return nil, ErrInsufficientData
	}
	rs := make([]float64, len(prices)-1)
	for i := 1; i < len(prices); i++ {
		if prices[i-1] == 0 {
			return nil, ErrZeroVariance
		}
		rs[i-1] = (prices[i] - prices[i-1]) / prices[i-1]
	}
	return rs, nil
}
