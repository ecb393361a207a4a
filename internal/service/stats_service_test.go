package service

import (
	"testing"

	"statarb/internal/models"
)

func TestStatsServiceFillsOpenPositions(t *testing.T) {
	hs := &fakeHistoryRepo{stats: &models.Stats{
		TotalTrades: 12,
		WinTrades:   8,
		LossTrades:  4,
		WinRate:     8.0 / 12.0,
	}}
	ps := newFakePositionRepo()
	ps.positions["SOLUSDT/AVAXUSDT"] = &models.Position{PairSymbol: "SOLUSDT/AVAXUSDT"}
	ps.positions["UNIUSDT/AAVEUSDT"] = &models.Position{PairSymbol: "UNIUSDT/AAVEUSDT"}

	svc := NewStatsService(hs, ps)
	stats, err := svc.GetStats()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.TotalTrades != 12 {
		t.Errorf("total trades = %d, want 12", stats.TotalTrades)
	}
	if stats.OpenPositions != 2 {
		t.Errorf("open positions = %d, want 2", stats.OpenPositions)
	}
}

func TestStatsServiceEmptyHistory(t *testing.T) {
	svc := NewStatsService(&fakeHistoryRepo{}, newFakePositionRepo())
	stats, err := svc.GetStats()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.TotalTrades != 0 || stats.OpenPositions != 0 {
		t.Errorf("unexpected stats: %+v", stats)
	}
}
