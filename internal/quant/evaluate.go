package quant

import "statarb/internal/models"

// evaluate.go - полная оценка пары одним вызовом
//
// Комбинирует регрессию, спред, коинтеграцию, half-life, Hurst,
// дуальную бету и conviction score в один снимок PairFitness.
// Вход: выровненные ценовые ряды одинаковой длины. Никакого I/O.

// EvalConfig - параметры оценки пары
type EvalConfig struct {
	ZWindow  int // окно z-score (default 30)
	HurstLag int // максимальный лаг R/S анализа (default 20)
}

// DefaultEvalConfig возвращает параметры по умолчанию
func DefaultEvalConfig() EvalConfig {
	return EvalConfig{
		ZWindow:  DefaultZWindow,
		HurstLag: DefaultHurstLag,
	}
}

// Evaluate вычисляет полный PairFitness для пары ценовых рядов
//
// Невычислимые метрики (half-life, Hurst) приходят с Valid=false;
// ошибка возвращается только если не посчитать даже базовую
// регрессию (нехватка данных, вырожденный ряд).
func Evaluate(p1, p2 []float64, cfg EvalConfig) (*models.PairFitness, error) {
	if len(p1) != len(p2) {
		return nil, ErrLengthMismatch
	}

	corr, err := Correlation(p1, p2)
	if err != nil {
		return nil, err
	}
	beta, err := Beta(p1, p2)
	if err != nil {
		return nil, err
	}

	spread, err := LogSpread(p1, p2, beta)
	if err != nil {
		return nil, err
	}

	z, err := ZScore(spread, cfg.ZWindow)
	if err != nil {
		return nil, err
	}

	coint, err := TestCointegration(spread)
	if err != nil {
		return nil, err
	}

	halfLife := EstimateHalfLife(spread)
	hurst := CalculateHurst(spread, cfg.HurstLag)

	dualBeta, err := ComputeDualBeta(p1, p2, halfLife)
	if err != nil {
		return nil, err
	}

	fitness := &models.PairFitness{
		Correlation:       corr,
		Beta:              beta,
		R2:                dualBeta.R2,
		ZScore:            z,
		IsCointegrated:    coint.IsCointegrated,
		ADFStat:           coint.ADFStat,
		MeanReversionRate: coint.MeanReversionRate,
		HalfLife:          halfLife,
		Hurst:             hurst,
		DualBeta:          dualBeta,
		Regime:            ClassifyRegime(hurst, halfLife),
	}
	fitness.Conviction = ConvictionScore(ConvictionInputs{
		Correlation:    corr,
		R2:             dualBeta.R2,
		HalfLife:       halfLife,
		Hurst:          hurst,
		IsCointegrated: coint.IsCointegrated,
		ADFStat:        coint.ADFStat,
		BetaDrift:      dualBeta.Drift,
	})

	return fitness, nil
}
