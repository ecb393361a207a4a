package quant

import "math"

// regression.go - корреляция и hedge ratio (бета) по дневным доходностям
//
// Бета - наклон OLS регрессии доходностей asset2 на доходности asset1:
// beta = Cov(r1,r2) / Var(r1). При такой конвенции p2 = p1^b даёт
// beta ≈ b и невырожденный лог-спред ln(p1) - beta*ln(p2).

// Correlation возвращает коэффициент корреляции Пирсона двух ценовых рядов
// по их простым доходностям. Результат в [-1,1].
func Correlation(p1, p2 []float64) (float64, error) {
	if len(p1) != len(p2) {
		return 0, ErrLengthMismatch
	}
	r1, err := Returns(p1)
	if err != nil {
		return 0, err
	}
	r2, err := Returns(p2)
	if err != nil {
		return 0, err
	}
	if len(r1) < 2 {
		return 0, ErrInsufficientData
	}

	s1, s2 := stddev(r1), stddev(r2)
	if s1 == 0 || s2 == 0 {
		return 0, ErrZeroVariance
	}

	corr := covariance(r1, r2) / (s1 * s2)
	return clamp(corr, -1, 1), nil
}

// Beta возвращает hedge ratio спреда ln(p1) - beta*ln(p2)
func Beta(p1, p2 []float64) (float64, error) {
	if len(p1) != len(p2) {
		return 0, ErrLengthMismatch
	}
	r1, err := Returns(p1)
	if err != nil {
		return 0, err
	}
	r2, err := Returns(p2)
	if err != nil {
		return 0, err
	}
	if len(r1) < 2 {
		return 0, ErrInsufficientData
	}

	v1 := variance(r1)
	if v1 == 0 {
		return 0, ErrZeroVariance
	}
	return covariance(r1, r2) / v1, nil
}

// LinearRegression выполняет OLS регрессию y = slope*x + intercept
// Возвращает slope, intercept и R²
func LinearRegression(xs, ys []float64) (slope, intercept, r2 float64, err error) {
	n := len(xs)
	if n != len(ys) {
		return 0, 0, 0, ErrLengthMismatch
	}
	if n < 2 {
		return 0, 0, 0, ErrInsufficientData
	}

	vx := variance(xs)
	if vx == 0 {
		return 0, 0, 0, ErrZeroVariance
	}

	slope = covariance(xs, ys) / vx
	intercept = mean(ys) - slope*mean(xs)

	vy := variance(ys)
	if vy == 0 {
		// y константа: регрессия точная, но R² не определён
		return slope, intercept, 0, nil
	}

	corr := covariance(xs, ys) / math.Sqrt(vx*vy)
	r2 = clamp(corr*corr, 0, 1)
	return slope, intercept, r2, nil
}
