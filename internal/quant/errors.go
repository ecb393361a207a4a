package quant

import "errors"

// Ошибки количественного движка
//
// Статистические краевые случаи (нулевая дисперсия, нехватка наблюдений)
// конвертируются в ошибки на границе функции и никогда не паникуют.
// Невычислимые метрики (half-life, Hurst) возвращаются как tagged-типы
// с Valid=false, а не как ошибки.
var (
	ErrInsufficientData = errors.New("insufficient data for calculation")
	ErrZeroVariance     = errors.New("zero variance in series")
	ErrLengthMismatch   = errors.New("series lengths do not match")
)
