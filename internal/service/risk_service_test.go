package service

import (
	"math"
	"testing"
	"time"

	"github.com/dushixiang/lens/internal/models"
	"go.uber.org/zap"
)

func newRiskService(riskFreeRate float64) *RiskService {
	return &RiskService{logger: zap.NewNop(), riskFreeRate: riskFreeRate}
}

func closedPosition(asset string, entry, qty, realizedPnl float64, closedAt time.Time) *models.Position {
	return &models.Position{
		Asset:       asset,
		Side:        models.PositionSideLong,
		Status:      models.PositionStatusClosed,
		Quantity:    d(qty),
		EntryPrice:  d(entry),
		RealizedPnl: d(realizedPnl),
		OpenedAt:    closedAt.Add(-time.Hour),
		ClosedAt:    &closedAt,
	}
}

func openPosition(asset string, entry, current, qty float64) *models.Position {
	return &models.Position{
		Asset:        asset,
		Side:         models.PositionSideLong,
		Status:       models.PositionStatusOpen,
		Quantity:     d(qty),
		EntryPrice:   d(entry),
		CurrentPrice: d(current),
		OpenedAt:     time.Now(),
	}
}

func TestComputeRiskMetrics_Empty(t *testing.T) {
	svc := newRiskService(0)

	metrics := svc.ComputeRiskMetrics("w1", nil, nil)

	if metrics.WalletID != "w1" {
		t.Errorf("unexpected wallet id %s", metrics.WalletID)
	}
	if metrics.Volatility != 0 || metrics.Drawdown != 0 ||
		metrics.SharpeRatio != 0 || metrics.SortinoRatio != 0 || metrics.Concentration != 0 {
		t.Errorf("empty input should produce all-zero metrics: %+v", metrics)
	}
	if !metrics.ValueAtRisk.IsZero() {
		t.Errorf("expecting zero VaR got %s", metrics.ValueAtRisk)
	}
}

func TestComputeRiskMetrics_SinglePositionConcentration(t *testing.T) {
	svc := newRiskService(0)

	metrics := svc.ComputeRiskMetrics("w1", []*models.Position{
		openPosition("BTC", 100, 150, 2),
	}, nil)

	if metrics.Concentration != 1 {
		t.Errorf("single position concentration should be 1, got %v", metrics.Concentration)
	}
}

func TestComputeRiskMetrics_EqualPositionsConcentration(t *testing.T) {
	svc := newRiskService(0)

	metrics := svc.ComputeRiskMetrics("w1", []*models.Position{
		openPosition("BTC", 100, 100, 1),
		openPosition("ETH", 50, 100, 1),
	}, nil)

	if math.Abs(metrics.Concentration-0.5) > 1e-9 {
		t.Errorf("two equal positions should give HHI 0.5, got %v", metrics.Concentration)
	}
}

func TestComputeRiskMetrics_VaRNonNegative(t *testing.T) {
	svc := newRiskService(0)
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	positions := []*models.Position{
		openPosition("BTC", 100, 150, 2),
		closedPosition("ETH", 3000, 1, 300, base),
		closedPosition("SOL", 150, 10, -200, base.Add(time.Hour)),
	}

	metrics := svc.ComputeRiskMetrics("w1", positions, nil)

	if metrics.ValueAtRisk.IsNegative() {
		t.Errorf("VaR should never be negative, got %s", metrics.ValueAtRisk)
	}
	if metrics.Volatility < 0 {
		t.Errorf("volatility should never be negative, got %v", metrics.Volatility)
	}
	// 两笔收益不同，波动率必然为正
	if metrics.Volatility == 0 {
		t.Errorf("expecting positive volatility with mixed returns")
	}
	expected := d(300).InexactFloat64() * metrics.Volatility * VaR95ZScore
	if math.Abs(metrics.ValueAtRisk.InexactFloat64()-expected) > 1e-6 {
		t.Errorf("VaR should be value*vol*z: expecting %v got %s", expected, metrics.ValueAtRisk)
	}
}

func TestRealizedReturns_OrderedByCloseTime(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	// 故意乱序传入
	positions := []*models.Position{
		closedPosition("ETH", 100, 1, 20, base.Add(2*time.Hour)),
		closedPosition("BTC", 100, 1, 10, base),
		openPosition("SOL", 150, 160, 10),
	}

	returns := realizedReturns(positions)
	if len(returns) != 2 {
		t.Fatalf("expecting 2 returns got %d", len(returns))
	}
	// BTC 先平仓：10/100，ETH 后平仓：20/100
	if math.Abs(returns[0]-0.1) > 1e-9 || math.Abs(returns[1]-0.2) > 1e-9 {
		t.Errorf("unexpected returns %v", returns)
	}
}

func TestRealizedReturns_SkipsZeroCostBasis(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	returns := realizedReturns([]*models.Position{
		closedPosition("BTC", 0, 10, 5, base),
	})
	if len(returns) != 0 {
		t.Fatalf("zero cost basis should be skipped, got %v", returns)
	}
}

func TestEquityCurve(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	positions := []*models.Position{
		closedPosition("BTC", 100, 1, 50, base),
		closedPosition("ETH", 100, 1, -30, base.Add(time.Hour)),
	}

	curve := equityCurve(positions)
	want := []float64{200, 250, 220}
	if len(curve) != len(want) {
		t.Fatalf("expecting curve of length %d got %d", len(want), len(curve))
	}
	for i := range want {
		if math.Abs(curve[i]-want[i]) > 1e-9 {
			t.Errorf("curve[%d]: expecting %v got %v", i, want[i], curve[i])
		}
	}
}

func TestEquityCurve_Empty(t *testing.T) {
	if curve := equityCurve(nil); curve != nil {
		t.Errorf("expecting nil curve got %v", curve)
	}
}
