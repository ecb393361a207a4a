package bot

import "statarb/internal/models"

// ValidTransitions определяет допустимые переходы между состояниями позиции
//
// WATCHED не хранится в пуле позиций: это пара в watchlist без позиции.
// CLOSED терминально - позиция переносится в history.
var ValidTransitions = map[string][]string{
	models.StateWatched:         {models.StateEntered},
	models.StateEntered:         {models.StatePartiallyExited, models.StateClosed},
	models.StatePartiallyExited: {models.StateClosed},
	models.StateClosed:          {},
}

// CanTransition проверяет допустимость перехода
func CanTransition(from, to string) bool {
	allowed, ok := ValidTransitions[from]
	if !ok {
		return false
	}
	for _, s := range allowed {
		if s == to {
			return true
		}
	}
	return false
}

// StateInfo возвращает описание состояния для UI
func StateInfo(s string) string {
	switch s {
	case models.StateWatched:
		return "Пара в watchlist (ожидание сигнала)"
	case models.StateEntered:
		return "Позиция открыта полностью"
	case models.StatePartiallyExited:
		return "Закрыто 50% позиции"
	case models.StateClosed:
		return "Позиция закрыта"
	default:
		return "Неизвестное состояние"
	}
}

// HasOpenPosition возвращает true если в состоянии есть открытая позиция
func HasOpenPosition(s string) bool {
	return s == models.StateEntered || s == models.StatePartiallyExited
}
