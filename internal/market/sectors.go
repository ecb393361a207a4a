package market

import (
	"strings"

	"statarb/internal/models"
)

// sectors.go - статическая классификация активов по секторам
//
// Сектор используется сканером: пары внутри сектора предпочтительнее,
// кросс-секторные допускаются с более строгим порогом корреляции.
// Неизвестные активы получают OTHER.

var sectorByAsset = map[string]string{
	// Layer 1
	"BTC": models.SectorL1, "ETH": models.SectorL1, "SOL": models.SectorL1,
	"AVAX": models.SectorL1, "ADA": models.SectorL1, "DOT": models.SectorL1,
	"NEAR": models.SectorL1, "APT": models.SectorL1, "SUI": models.SectorL1,
	"TON": models.SectorL1, "ATOM": models.SectorL1, "TRX": models.SectorL1,
	"LTC": models.SectorL1, "BCH": models.SectorL1, "XRP": models.SectorL1,
	"SEI": models.SectorL1, "INJ": models.SectorL1,

	// Layer 2
	"ARB": models.SectorL2, "OP": models.SectorL2, "MATIC": models.SectorL2,
	"POL": models.SectorL2, "STRK": models.SectorL2, "ZK": models.SectorL2,
	"METIS": models.SectorL2, "MNT": models.SectorL2,

	// DeFi
	"UNI": models.SectorDefi, "AAVE": models.SectorDefi, "MKR": models.SectorDefi,
	"CRV": models.SectorDefi, "LDO": models.SectorDefi, "SNX": models.SectorDefi,
	"COMP": models.SectorDefi, "SUSHI": models.SectorDefi, "DYDX": models.SectorDefi,
	"GMX": models.SectorDefi, "PENDLE": models.SectorDefi, "JUP": models.SectorDefi,

	// Meme
	"DOGE": models.SectorMeme, "SHIB": models.SectorMeme, "PEPE": models.SectorMeme,
	"WIF": models.SectorMeme, "BONK": models.SectorMeme, "FLOKI": models.SectorMeme,

	// AI
	"FET": models.SectorAI, "RENDER": models.SectorAI, "TAO": models.SectorAI,
	"AGIX": models.SectorAI, "OCEAN": models.SectorAI, "AKT": models.SectorAI,

	// Infra
	"LINK": models.SectorInfra, "GRT": models.SectorInfra, "FIL": models.SectorInfra,
	"AR": models.SectorInfra, "STX": models.SectorInfra, "ENS": models.SectorInfra,
	"PYTH": models.SectorInfra,
}

// quote-суффиксы перпетуалов в порядке проверки
var quoteSuffixes = []string{"USDT", "USDC", "USD"}

// BaseAsset извлекает базовый актив из символа перпетуала
// BTCUSDT → BTC, 1000PEPEUSDT → PEPE
func BaseAsset(symbol string) string {
	asset := symbol
	for _, suffix := range quoteSuffixes {
		if strings.HasSuffix(asset, suffix) {
			asset = strings.TrimSuffix(asset, suffix)
			break
		}
	}
	// Мультипликаторы мелких активов: 1000PEPE, 10000SATS
	asset = strings.TrimLeft(asset, "0123456789")
	return asset
}

// SectorOf возвращает сектор символа перпетуала
func SectorOf(symbol string) string {
	if sector, ok := sectorByAsset[BaseAsset(symbol)]; ok {
		return sector
	}
	return models.SectorOther
}
