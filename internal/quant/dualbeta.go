package quant

import (
	"math"

	"statarb/internal/models"
)

// dualbeta.go - структурная и динамическая беты
//
// Структурная бета считается по длинному окну (до 90 наблюдений),
// динамическая - по короткому окну 2×half-life (кламп 7..30 наблюдений).
// Дрейф между ними сигнализирует о нестабильности hedge ratio:
// используется и в conviction score, и как текущий сигнал
// "хедж всё ещё валиден" для открытых позиций.

// Окна расчёта дуальной беты
const (
	structuralWindow = 90
	dynamicWindowMin = 7
	dynamicWindowMax = 30
)

// ComputeDualBeta возвращает структурную/динамическую беты и их дрейф
func ComputeDualBeta(p1, p2 []float64, halfLife models.HalfLife) (models.DualBeta, error) {
	if len(p1) != len(p2) {
		return models.DualBeta{}, ErrLengthMismatch
	}

	longP1 := models.LastWindow(p1, structuralWindow)
	longP2 := models.LastWindow(p2, structuralWindow)

	structural, err := Beta(longP1, longP2)
	if err != nil {
		return models.DualBeta{}, err
	}

	r1, err := Returns(longP1)
	if err != nil {
		return models.DualBeta{}, err
	}
	r2, err := Returns(longP2)
	if err != nil {
		return models.DualBeta{}, err
	}
	_, _, r2score, err := LinearRegression(r1, r2)
	if err != nil {
		return models.DualBeta{}, err
	}

	// Короткое окно: 2×half-life, кламп 7..30 наблюдений
	shortWin := dynamicWindowMax
	if halfLife.Valid {
		shortWin = int(math.Round(2 * halfLife.Days))
	}
	if shortWin < dynamicWindowMin {
		shortWin = dynamicWindowMin
	}
	if shortWin > dynamicWindowMax {
		shortWin = dynamicWindowMax
	}

	dynamic, err := Beta(models.LastWindow(p1, shortWin+1), models.LastWindow(p2, shortWin+1))
	if err != nil {
		// Короткое окно может быть вырожденным - используем структурную
		dynamic = structural
	}

	drift := 0.0
	if structural != 0 {
		drift = math.Abs(dynamic-structural) / math.Abs(structural)
	}

	return models.DualBeta{
		Structural: structural,
		Dynamic:    dynamic,
		Drift:      drift,
		R2:         r2score,
	}, nil
}
