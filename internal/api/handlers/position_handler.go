package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"statarb/internal/bot"
	"statarb/internal/service"

	"github.com/gorilla/mux"
)

// PositionHandler отвечает за позиции и историю сделок
//
// Endpoints:
// - GET /api/v1/positions                          - все открытые позиции
// - GET /api/v1/positions/{asset1}/{asset2}        - одна позиция
// - POST /api/v1/positions/{asset1}/{asset2}/enter - принудительный вход
// - POST /api/v1/positions/{asset1}/{asset2}/exit  - принудительный выход
// - GET /api/v1/history                            - история закрытых позиций
// - GET /api/v1/history/{asset1}/{asset2}          - история одной пары
//
// Принудительные команды идут через те же примитивы, что и автоматический
// цикл: допуск, веса ног и PnL-математика общие. Вход возможен только
// для пары из watchlist.
type PositionHandler struct {
	tradeService service.TradeServiceInterface
}

// NewPositionHandler создает новый PositionHandler с внедрением зависимости
func NewPositionHandler(tradeService service.TradeServiceInterface) *PositionHandler {
	return &PositionHandler{tradeService: tradeService}
}

// GetPositions возвращает все открытые позиции
//
// GET /api/v1/positions
func (h *PositionHandler) GetPositions(w http.ResponseWriter, r *http.Request) {
	positions, err := h.tradeService.GetPositions()
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "failed to get positions: "+err.Error())
		return
	}
	respondWithJSON(w, http.StatusOK, positions)
}

// GetPosition возвращает открытую позицию пары
//
// GET /api/v1/positions/{asset1}/{asset2}
//
// HTTP коды:
// - 200 OK: позиция
// - 404 Not Found: нет открытой позиции по паре
func (h *PositionHandler) GetPosition(w http.ResponseWriter, r *http.Request) {
	pairSymbol := pairFromVars(mux.Vars(r))

	pos, err := h.tradeService.GetPosition(pairSymbol)
	if err != nil {
		if errors.Is(err, service.ErrTradePositionNotFound) || errors.Is(err, service.ErrTradePairEmpty) {
			respondWithError(w, http.StatusNotFound, "no open position for pair")
			return
		}
		respondWithError(w, http.StatusInternalServerError, "failed to get position: "+err.Error())
		return
	}
	respondWithJSON(w, http.StatusOK, pos)
}

// ForceEnter принудительно открывает позицию по паре из watchlist
//
// POST /api/v1/positions/{asset1}/{asset2}/enter
//
// HTTP коды:
// - 201 Created: позиция открыта
// - 404 Not Found: пара не в watchlist
// - 409 Conflict: позиция уже открыта или конфликт допуска
//   (capacity, long_conflict, short_conflict, max_exposure)
// - 502 Bad Gateway: биржа недоступна
func (h *PositionHandler) ForceEnter(w http.ResponseWriter, r *http.Request) {
	pairSymbol := pairFromVars(mux.Vars(r))

	pos, err := h.tradeService.ForceEnter(r.Context(), pairSymbol)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTradePairNotWatched), errors.Is(err, service.ErrTradePairEmpty):
			respondWithError(w, http.StatusNotFound, "pair not found in watchlist")
		case errors.Is(err, service.ErrTradePositionExists):
			respondWithError(w, http.StatusConflict, "position already open for pair")
		case errors.Is(err, bot.ErrStateConflict):
			respondWithError(w, http.StatusConflict, err.Error())
		default:
			respondWithError(w, http.StatusBadGateway, "failed to enter: "+err.Error())
		}
		return
	}
	respondWithJSON(w, http.StatusCreated, pos)
}

// ForceExit принудительно закрывает позицию по текущим ценам
//
// POST /api/v1/positions/{asset1}/{asset2}/exit
//
// HTTP коды:
// - 200 OK: запись истории с причиной FORCED
// - 404 Not Found: нет открытой позиции
// - 502 Bad Gateway: биржа недоступна
func (h *PositionHandler) ForceExit(w http.ResponseWriter, r *http.Request) {
	pairSymbol := pairFromVars(mux.Vars(r))

	record, err := h.tradeService.ForceExit(r.Context(), pairSymbol)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTradePositionNotFound), errors.Is(err, service.ErrTradePairEmpty):
			respondWithError(w, http.StatusNotFound, "no open position for pair")
		default:
			respondWithError(w, http.StatusBadGateway, "failed to exit: "+err.Error())
		}
		return
	}
	respondWithJSON(w, http.StatusOK, record)
}

// GetHistory возвращает последние закрытые позиции
//
// GET /api/v1/history?limit=50
//
// Query параметры:
// - limit (int): количество записей (по умолчанию 100)
func (h *PositionHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	limit := 100
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	records, err := h.tradeService.GetHistory(limit)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "failed to get history: "+err.Error())
		return
	}
	respondWithJSON(w, http.StatusOK, records)
}

// GetHistoryByPair возвращает историю одной пары
//
// GET /api/v1/history/{asset1}/{asset2}
func (h *PositionHandler) GetHistoryByPair(w http.ResponseWriter, r *http.Request) {
	pairSymbol := pairFromVars(mux.Vars(r))

	records, err := h.tradeService.GetHistoryByPair(pairSymbol)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "failed to get history: "+err.Error())
		return
	}
	respondWithJSON(w, http.StatusOK, records)
}
