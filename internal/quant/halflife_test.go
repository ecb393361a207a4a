package quant

import (
	"math"
	"testing"
)

func TestEstimateHalfLifeRoundTrip(t *testing.T) {
	// свойство: exp(-ln2/halfLife) восстанавливает наклон AR(1) регрессии
	spread := ar1Series(200, 0.7)

	hl := EstimateHalfLife(spread)
	if !hl.Valid {
		t.Fatal("half-life invalid for AR(1) series")
	}
	if hl.Days <= 0 {
		t.Fatalf("half-life = %v, want positive", hl.Days)
	}

	phi, _, _, err := LinearRegression(spread[:len(spread)-1], spread[1:])
	if err != nil {
		t.Fatalf("LinearRegression() error: %v", err)
	}
	if recovered := math.Exp(-math.Ln2 / hl.Days); !almostEqual(recovered, phi, 1e-9) {
		t.Errorf("exp(-ln2/hl) = %v, AR slope = %v", recovered, phi)
	}
}

func TestEstimateHalfLifeSpeed(t *testing.T) {
	// более быстрый возврат к среднему даёт меньший half-life
	fast := EstimateHalfLife(ar1Series(200, 0.3))
	slow := EstimateHalfLife(ar1Series(200, 0.9))

	if !fast.Valid || !slow.Valid {
		t.Fatalf("expected both valid: fast=%+v slow=%+v", fast, slow)
	}
	if fast.Days >= slow.Days {
		t.Errorf("fast phi half-life %v >= slow phi half-life %v", fast.Days, slow.Days)
	}
}

func TestEstimateHalfLifeInvalid(t *testing.T) {
	// линейный тренд: наклон регрессии 1, разности константны -
	// оба метода неприменимы
	trend := make([]float64, 50)
	for i := range trend {
		trend[i] = float64(i)
	}
	if hl := EstimateHalfLife(trend); hl.Valid {
		t.Errorf("half-life for linear trend = %+v, want invalid", hl)
	}

	// слишком короткий ряд
	if hl := EstimateHalfLife([]float64{1, 2, 3}); hl.Valid {
		t.Errorf("half-life for short series = %+v, want invalid", hl)
	}
}
