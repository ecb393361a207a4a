package quant

import (
	"math"
	"math/rand"
)

// Вспомогательные генераторы детерминированных синтетических рядов

// almostEqual сравнивает два float64 с допуском
func almostEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

// oscillatingPrices генерирует строго возвращающийся к среднему ценовой ряд:
// лог-цена - сумма двух синусоид вокруг базового уровня
func oscillatingPrices(n int) []float64 {
	prices := make([]float64, n)
	for i := 0; i < n; i++ {
		t := float64(i)
		prices[i] = 100 * math.Exp(0.08*math.Sin(0.9*t)+0.01*math.Sin(2.3*t+0.5))
	}
	return prices
}

// powerPrices возвращает p^exponent поэлементно
func powerPrices(prices []float64, exponent float64) []float64 {
	out := make([]float64, len(prices))
	for i, p := range prices {
		out[i] = math.Pow(p, exponent)
	}
	return out
}

// ar1Series генерирует AR(1) ряд с фиксированным сидом шума
func ar1Series(n int, phi float64) []float64 {
	rng := rand.New(rand.NewSource(42))
	xs := make([]float64, n)
	xs[0] = 1
	for i := 1; i < n; i++ {
		xs[i] = phi*xs[i-1] + 0.3*rng.NormFloat64()
	}
	return xs
}

// trendingSeries генерирует монотонно растущий ряд с ускорением
func trendingSeries(n int) []float64 {
	xs := make([]float64, n)
	for i := 0; i < n; i++ {
		xs[i] = math.Pow(float64(i+1), 1.5)
	}
	return xs
}
