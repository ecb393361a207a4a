package market

import (
	"testing"

	"statarb/internal/models"
)

func TestBaseAsset(t *testing.T) {
	tests := []struct {
		symbol string
		want   string
	}{
		{"BTCUSDT", "BTC"},
		{"ETHUSDC", "ETH"},
		{"1000PEPEUSDT", "PEPE"},
		{"10000SATSUSDT", "SATS"},
		{"SOLUSD", "SOL"},
		{"BTC", "BTC"},
	}

	for _, tt := range tests {
		t.Run(tt.symbol, func(t *testing.T) {
			if got := BaseAsset(tt.symbol); got != tt.want {
				t.Errorf("BaseAsset(%q) = %q, want %q", tt.symbol, got, tt.want)
			}
		})
	}
}

func TestSectorOf(t *testing.T) {
	tests := []struct {
		symbol string
		want   string
	}{
		{"BTCUSDT", models.SectorL1},
		{"ARBUSDT", models.SectorL2},
		{"UNIUSDT", models.SectorDefi},
		{"1000PEPEUSDT", models.SectorMeme},
		{"FETUSDT", models.SectorAI},
		{"LINKUSDT", models.SectorInfra},
		{"UNKNOWNUSDT", models.SectorOther},
	}

	for _, tt := range tests {
		t.Run(tt.symbol, func(t *testing.T) {
			if got := SectorOf(tt.symbol); got != tt.want {
				t.Errorf("SectorOf(%q) = %q, want %q", tt.symbol, got, tt.want)
			}
		})
	}
}
