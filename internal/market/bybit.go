package market

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	jsoniter "github.com/json-iterator/go"

	"statarb/internal/models"
	"statarb/pkg/ratelimit"
	"statarb/pkg/retry"
)

// json - быстрый декодер для горячего пути (пакетная выгрузка свечей)
var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	bybitBaseURL  = "https://api.bybit.com"
	bybitCategory = "linear"

	// Лимит публичного API Bybit
	bybitRate  = 10
	bybitBurst = 20

	// Максимум свечей за один запрос kline
	bybitMaxKlineLimit = 1000
)

// Bybit реализует MarketData поверх публичного Bybit API v5
//
// Все используемые эндпоинты публичные, подпись запросов не нужна.
// Запросы проходят через token-bucket rate limiter и ретраятся
// с экспоненциальным backoff.
type Bybit struct {
	baseURL    string
	httpClient *http.Client
	limiter    *ratelimit.RateLimiter
	retryCfg   retry.Config
}

// NewBybit создает новый клиент рыночных данных Bybit
// Использует глобальный HTTP клиент с connection pooling
func NewBybit() *Bybit {
	return &Bybit{
		baseURL:    bybitBaseURL,
		httpClient: GetGlobalHTTPClient().GetClient(),
		limiter:    ratelimit.NewRateLimiter(bybitRate, bybitBurst),
		retryCfg:   retry.NetworkConfig(),
	}
}

// NewBybitWithBaseURL создает клиент с кастомным base URL (для тестов)
func NewBybitWithBaseURL(baseURL string, client *http.Client) *Bybit {
	return &Bybit{
		baseURL:    baseURL,
		httpClient: client,
		limiter:    ratelimit.NewRateLimiter(bybitRate, bybitBurst),
		retryCfg:   retry.NetworkConfig(),
	}
}

func (b *Bybit) GetName() string {
	return "bybit"
}

// doRequest выполняет GET запрос к публичному API с rate limit и retry
func (b *Bybit) doRequest(ctx context.Context, endpoint string, params map[string]string) ([]byte, error) {
	query := url.Values{}
	for k, v := range params {
		query.Set(k, v)
	}
	reqURL := b.baseURL + endpoint
	if encoded := query.Encode(); encoded != "" {
		reqURL += "?" + encoded
	}

	var body []byte
	operation := func() error {
		if err := b.limiter.Wait(ctx); err != nil {
			return retry.Permanent(err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return retry.Permanent(err)
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := b.httpClient.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		body, err = io.ReadAll(resp.Body)
		if err != nil {
			return err
		}

		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			return &MarketError{
				Source:  "bybit",
				Code:    strconv.Itoa(resp.StatusCode),
				Message: "http " + resp.Status,
			}
		}

		var baseResp struct {
			RetCode int    `json:"retCode"`
			RetMsg  string `json:"retMsg"`
		}
		if err := json.Unmarshal(body, &baseResp); err != nil {
			return retry.Permanent(err)
		}
		if baseResp.RetCode != 0 {
			return retry.Permanent(&MarketError{
				Source:  "bybit",
				Code:    strconv.Itoa(baseResp.RetCode),
				Message: baseResp.RetMsg,
			})
		}
		return nil
	}

	if err := retry.Do(ctx, operation, b.retryCfg); err != nil {
		return nil, err
	}
	return body, nil
}

// GetInstruments возвращает вселенную линейных перпетуалов
// через /v5/market/tickers (объём, открытый интерес, funding, mark price)
func (b *Bybit) GetInstruments(ctx context.Context) ([]models.Instrument, error) {
	params := map[string]string{
		"category": bybitCategory,
	}

	body, err := b.doRequest(ctx, "/v5/market/tickers", params)
	if err != nil {
		return nil, err
	}

	var resp struct {
		Result struct {
			List []struct {
				Symbol           string `json:"symbol"`
				Turnover24h      string `json:"turnover24h"`
				OpenInterestValue string `json:"openInterestValue"`
				MarkPrice        string `json:"markPrice"`
				FundingRate      string `json:"fundingRate"`
			} `json:"list"`
		} `json:"result"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, err
	}

	instruments := make([]models.Instrument, 0, len(resp.Result.List))
	for _, t := range resp.Result.List {
		volume, _ := strconv.ParseFloat(t.Turnover24h, 64)
		oi, _ := strconv.ParseFloat(t.OpenInterestValue, 64)
		mark, _ := strconv.ParseFloat(t.MarkPrice, 64)
		funding, _ := strconv.ParseFloat(t.FundingRate, 64)

		instruments = append(instruments, models.Instrument{
			Symbol:       t.Symbol,
			Asset:        BaseAsset(t.Symbol),
			Sector:       SectorOf(t.Symbol),
			Volume24h:    volume,
			OpenInterest: oi,
			MarkPrice:    mark,
			FundingRate:  funding,
		})
	}
	return instruments, nil
}

// GetCandles возвращает свечи символа в хронологическом порядке
//
// Bybit отдаёт kline в обратном порядке (новые первыми) - разворачиваем.
func (b *Bybit) GetCandles(ctx context.Context, symbol, interval string, limit int) ([]models.Candle, error) {
	if limit <= 0 || limit > bybitMaxKlineLimit {
		limit = bybitMaxKlineLimit
	}

	params := map[string]string{
		"category": bybitCategory,
		"symbol":   symbol,
		"interval": interval,
		"limit":    strconv.Itoa(limit),
	}

	body, err := b.doRequest(ctx, "/v5/market/kline", params)
	if err != nil {
		return nil, err
	}

	var resp struct {
		Result struct {
			List [][]string `json:"list"`
		} `json:"result"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, err
	}

	// Формат элемента: [startTime, open, high, low, close, volume, turnover]
	candles := make([]models.Candle, 0, len(resp.Result.List))
	for i := len(resp.Result.List) - 1; i >= 0; i-- {
		row := resp.Result.List[i]
		if len(row) < 6 {
			continue
		}
		ms, err := strconv.ParseInt(row[0], 10, 64)
		if err != nil {
			continue
		}
		closePrice, err := strconv.ParseFloat(row[4], 64)
		if err != nil || closePrice <= 0 {
			continue
		}
		volume, _ := strconv.ParseFloat(row[5], 64)

		candles = append(candles, models.Candle{
			Timestamp: time.UnixMilli(ms).UTC(),
			Close:     closePrice,
			Volume:    volume,
		})
	}

	if len(candles) == 0 {
		return nil, fmt.Errorf("no candles for %s interval %s", symbol, interval)
	}
	return candles, nil
}

// GetMarkPrice возвращает текущую mark price символа
func (b *Bybit) GetMarkPrice(ctx context.Context, symbol string) (float64, error) {
	params := map[string]string{
		"category": bybitCategory,
		"symbol":   symbol,
	}

	body, err := b.doRequest(ctx, "/v5/market/tickers", params)
	if err != nil {
		return 0, err
	}

	var resp struct {
		Result struct {
			List []struct {
				Symbol    string `json:"symbol"`
				MarkPrice string `json:"markPrice"`
			} `json:"list"`
		} `json:"result"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return 0, err
	}
	if len(resp.Result.List) == 0 {
		return 0, fmt.Errorf("ticker not found for %s", symbol)
	}

	mark, err := strconv.ParseFloat(resp.Result.List[0].MarkPrice, 64)
	if err != nil {
		return 0, fmt.Errorf("bad mark price for %s: %w", symbol, err)
	}
	return mark, nil
}

// Close закрывает idle соединения клиента
func (b *Bybit) Close() error {
	return nil
}
