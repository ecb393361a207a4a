package bot

import "statarb/internal/models"

// Причины отказа в допуске новой позиции
const (
	ReasonCapacity      = "capacity"
	ReasonLongConflict  = "long_conflict"
	ReasonShortConflict = "short_conflict"
	ReasonMaxExposure   = "max_exposure"
)

// MaxSameDirectionPerAsset - лимит переиспользования инструмента
// в одном направлении между позициями
const MaxSameDirectionPerAsset = 2

// CheckAdmission проверяет конфликты кандидата с открытыми позициями.
// Инструмент не может одновременно быть long в одной позиции и short в другой:
// ноги компенсируются и портфель теряет экспозицию по обеим парам.
func CheckAdmission(longAsset, shortAsset string, open []*models.Position, maxPositions int) (bool, string) {
	if len(open) >= maxPositions {
		return false, ReasonCapacity
	}

	longCount := 0
	shortCount := 0
	for _, p := range open {
		if p.LongAsset == shortAsset || p.ShortAsset == longAsset {
			if p.LongAsset == shortAsset {
				return false, ReasonLongConflict
			}
			return false, ReasonShortConflict
		}
		if p.LongAsset == longAsset {
			longCount++
		}
		if p.ShortAsset == shortAsset {
			shortCount++
		}
	}
	if longCount >= MaxSameDirectionPerAsset || shortCount >= MaxSameDirectionPerAsset {
		return false, ReasonMaxExposure
	}
	return true, ""
}
