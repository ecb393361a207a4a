package models

// HalfLife представляет период полувозврата спреда к среднему
// Valid=false означает "спред на этом окне не возвращается к среднему",
// а не нулевое значение. Никогда не используем Inf/NaN как маркер.
type HalfLife struct {
	Days  float64 `json:"days"`
	Valid bool    `json:"valid"`
}

// Hurst представляет оценку показателя Херста
// Valid=false означает недостаток данных для R/S анализа
type Hurst struct {
	Exponent float64 `json:"exponent"` // [0,1], <0.5 = возврат к среднему
	Valid    bool    `json:"valid"`
}

// DualBeta представляет структурную и динамическую беты пары
type DualBeta struct {
	Structural float64 `json:"structural"` // бета длинного окна (до 90 набл.)
	Dynamic    float64 `json:"dynamic"`    // бета короткого окна (2×half-life)
	Drift      float64 `json:"drift"`      // |dynamic-structural| / |structural|
	R2         float64 `json:"r2"`
}

// PairFitness представляет результат количественной оценки пары
// Пересчитывается при каждой оценке, не имеет собственной идентичности
type PairFitness struct {
	Correlation       float64  `json:"correlation"` // [-1,1] по дневным доходностям
	Beta              float64  `json:"beta"`        // hedge ratio (asset1 на единицу asset2)
	R2                float64  `json:"r2"`
	ZScore            float64  `json:"z_score"`
	IsCointegrated    bool     `json:"is_cointegrated"`
	ADFStat           float64  `json:"adf_stat"`            // псевдо-ADF статистика (эвристика)
	MeanReversionRate float64  `json:"mean_reversion_rate"` // [0,1] доля шагов к среднему
	HalfLife          HalfLife `json:"half_life"`
	Hurst             Hurst    `json:"hurst"`
	DualBeta          DualBeta `json:"dual_beta"`
	Conviction        float64  `json:"conviction"` // [0,100]
	Regime            string   `json:"regime"`     // режим спреда
}

// Режимы спреда
const (
	RegimeMeanReverting = "MEAN_REVERTING" // Hurst < 0.5, конечный half-life
	RegimeRandomWalk    = "RANDOM_WALK"    // Hurst ≈ 0.5
	RegimeTrending      = "TRENDING"       // Hurst > 0.5, пара дисквалифицирована
)
