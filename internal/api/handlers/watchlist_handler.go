package handlers

import (
	"errors"
	"net/http"

	"statarb/internal/service"

	"github.com/gorilla/mux"
)

// WatchlistHandler отвечает за чтение watchlist
//
// Endpoints:
// - GET /api/v1/watchlist                    - все пары-кандидаты с метриками
// - GET /api/v1/watchlist/{asset1}/{asset2}  - метрики одной пары
//
// Watchlist принадлежит сканеру: API не создает и не удаляет записи,
// только отдает текущие снимки fitness-метрик.
type WatchlistHandler struct {
	watchlistService service.WatchlistServiceInterface
}

// NewWatchlistHandler создает новый WatchlistHandler с внедрением зависимости
func NewWatchlistHandler(watchlistService service.WatchlistServiceInterface) *WatchlistHandler {
	return &WatchlistHandler{watchlistService: watchlistService}
}

// GetWatchlist возвращает все пары-кандидаты
//
// GET /api/v1/watchlist
//
// HTTP коды:
// - 200 OK: массив записей watchlist
// - 500 Internal Server Error: ошибка БД
func (h *WatchlistHandler) GetWatchlist(w http.ResponseWriter, r *http.Request) {
	entries, err := h.watchlistService.GetWatchlist()
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "failed to get watchlist: "+err.Error())
		return
	}
	respondWithJSON(w, http.StatusOK, entries)
}

// GetPair возвращает метрики одной пары
//
// GET /api/v1/watchlist/{asset1}/{asset2}
//
// HTTP коды:
// - 200 OK: запись watchlist
// - 404 Not Found: пара не отслеживается
// - 500 Internal Server Error: ошибка БД
func (h *WatchlistHandler) GetPair(w http.ResponseWriter, r *http.Request) {
	pairSymbol := pairFromVars(mux.Vars(r))

	entry, err := h.watchlistService.GetPair(pairSymbol)
	if err != nil {
		if errors.Is(err, service.ErrWatchlistPairNotFound) || errors.Is(err, service.ErrWatchlistPairEmpty) {
			respondWithError(w, http.StatusNotFound, "pair not found in watchlist")
			return
		}
		respondWithError(w, http.StatusInternalServerError, "failed to get pair: "+err.Error())
		return
	}
	respondWithJSON(w, http.StatusOK, entry)
}
