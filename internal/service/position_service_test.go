package service

import (
	"testing"
	"time"

	"github.com/dushixiang/lens/internal/models"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

const testWalletAddress = "0x1111111111111111111111111111111111111111"

func d(f float64) decimal.Decimal {
	return decimal.NewFromFloat(f)
}

func newPositionService() *PositionService {
	return &PositionService{logger: zap.NewNop()}
}

// trade 构造一笔规范化的成交记录
func trade(asset string, buy bool, sz, px float64, at time.Time, seq int64) models.Transaction {
	from, to := testWalletAddress, models.MarketCounterparty
	if buy {
		from, to = models.MarketCounterparty, testWalletAddress
	}
	return models.Transaction{
		WalletID:  "w1",
		Sequence:  seq,
		Timestamp: at,
		From:      from,
		To:        to,
		Asset:     asset,
		Value:     d(sz),
		Price:     d(px),
		Type:      models.TransactionTypeTrade,
		Status:    models.TransactionStatusConfirmed,
	}
}

func withCrossed(tx models.Transaction, crossed bool) models.Transaction {
	tx.Metadata = datatypes.NewJSONType(models.TransactionMetadata{Crossed: &crossed})
	return tx
}

func TestReconstructPositions_OpenLong(t *testing.T) {
	svc := newPositionService()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	positions := svc.ReconstructPositions("w1", []models.Transaction{
		trade("BTC", true, 10, 100, base, 0),
	})

	if len(positions) != 1 {
		t.Fatalf("expecting 1 position got %d", len(positions))
	}
	p := positions[0]
	if p.Side != models.PositionSideLong {
		t.Errorf("expecting long side got %s", p.Side)
	}
	if p.Status != models.PositionStatusOpen {
		t.Errorf("expecting open status got %s", p.Status)
	}
	if !p.Quantity.Equal(d(10)) {
		t.Errorf("expecting quantity 10 got %s", p.Quantity)
	}
	if !p.EntryPrice.Equal(d(100)) {
		t.Errorf("expecting entry price 100 got %s", p.EntryPrice)
	}
	if !p.OpenedAt.Equal(base) {
		t.Errorf("unexpected opened at %v", p.OpenedAt)
	}
}

func TestReconstructPositions_FullClose(t *testing.T) {
	svc := newPositionService()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	positions := svc.ReconstructPositions("w1", []models.Transaction{
		trade("BTC", true, 10, 100, base, 0),
		trade("BTC", false, 10, 110, base.Add(time.Hour), 1),
	})

	if len(positions) != 1 {
		t.Fatalf("expecting 1 position got %d", len(positions))
	}
	p := positions[0]
	if p.Status != models.PositionStatusClosed {
		t.Fatalf("expecting closed status got %s", p.Status)
	}
	// 平仓后保留减仓前的数量
	if !p.Quantity.Equal(d(10)) {
		t.Errorf("expecting quantity 10 got %s", p.Quantity)
	}
	if !p.RealizedPnl.Equal(d(100)) {
		t.Errorf("expecting realized pnl 100 got %s", p.RealizedPnl)
	}
	if p.ClosedAt == nil || !p.ClosedAt.Equal(base.Add(time.Hour)) {
		t.Errorf("unexpected closed at %v", p.ClosedAt)
	}
}

func TestReconstructPositions_PartialClose(t *testing.T) {
	svc := newPositionService()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	positions := svc.ReconstructPositions("w1", []models.Transaction{
		trade("BTC", true, 10, 100, base, 0),
		trade("BTC", false, 4, 120, base.Add(time.Hour), 1),
	})

	if len(positions) != 1 {
		t.Fatalf("expecting 1 position got %d", len(positions))
	}
	p := positions[0]
	if p.Status != models.PositionStatusOpen {
		t.Errorf("expecting open status got %s", p.Status)
	}
	if !p.Quantity.Equal(d(6)) {
		t.Errorf("expecting quantity 6 got %s", p.Quantity)
	}
	if !p.EntryPrice.Equal(d(100)) {
		t.Errorf("entry price should not change on partial close, got %s", p.EntryPrice)
	}
}

func TestReconstructPositions_AddKeepsEntryPrice(t *testing.T) {
	svc := newPositionService()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	positions := svc.ReconstructPositions("w1", []models.Transaction{
		trade("BTC", true, 10, 100, base, 0),
		trade("BTC", true, 10, 200, base.Add(time.Hour), 1),
	})

	if len(positions) != 1 {
		t.Fatalf("expecting 1 position got %d", len(positions))
	}
	p := positions[0]
	if !p.Quantity.Equal(d(20)) {
		t.Errorf("expecting quantity 20 got %s", p.Quantity)
	}
	if !p.EntryPrice.Equal(d(100)) {
		t.Errorf("expecting entry price 100 got %s", p.EntryPrice)
	}
}

func TestReconstructPositions_SignReversal(t *testing.T) {
	svc := newPositionService()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	positions := svc.ReconstructPositions("w1", []models.Transaction{
		trade("BTC", true, 10, 100, base, 0),
		trade("BTC", false, 15, 120, base.Add(time.Hour), 1),
	})

	if len(positions) != 2 {
		t.Fatalf("expecting 2 positions got %d", len(positions))
	}

	closed := positions[0]
	if closed.Status != models.PositionStatusClosed || closed.Side != models.PositionSideLong {
		t.Errorf("expecting closed long got %s %s", closed.Status, closed.Side)
	}
	if !closed.RealizedPnl.Equal(d(200)) {
		t.Errorf("expecting realized pnl 200 got %s", closed.RealizedPnl)
	}

	reopened := positions[1]
	if reopened.Status != models.PositionStatusOpen || reopened.Side != models.PositionSideShort {
		t.Errorf("expecting open short got %s %s", reopened.Status, reopened.Side)
	}
	if !reopened.Quantity.Equal(d(5)) {
		t.Errorf("expecting quantity 5 got %s", reopened.Quantity)
	}
	if !reopened.EntryPrice.Equal(d(120)) {
		t.Errorf("expecting entry price 120 got %s", reopened.EntryPrice)
	}
}

func TestReconstructPositions_ReopenAfterClose(t *testing.T) {
	svc := newPositionService()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	positions := svc.ReconstructPositions("w1", []models.Transaction{
		trade("BTC", true, 10, 100, base, 0),
		trade("BTC", false, 10, 110, base.Add(time.Hour), 1),
		trade("BTC", true, 5, 105, base.Add(2*time.Hour), 2),
	})

	if len(positions) != 2 {
		t.Fatalf("expecting 2 positions got %d", len(positions))
	}
	if positions[0].Status != models.PositionStatusClosed {
		t.Errorf("first position should be closed, got %s", positions[0].Status)
	}
	reopened := positions[1]
	if reopened.Status != models.PositionStatusOpen || reopened.Side != models.PositionSideLong {
		t.Errorf("expecting fresh open long got %s %s", reopened.Status, reopened.Side)
	}
	if !reopened.Quantity.Equal(d(5)) {
		t.Errorf("expecting quantity 5 got %s", reopened.Quantity)
	}
	if !reopened.EntryPrice.Equal(d(105)) {
		t.Errorf("expecting entry price 105 got %s", reopened.EntryPrice)
	}
}

func TestReconstructPositions_ShortPnl(t *testing.T) {
	svc := newPositionService()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	positions := svc.ReconstructPositions("w1", []models.Transaction{
		trade("ETH", false, 5, 100, base, 0),
		trade("ETH", true, 5, 80, base.Add(time.Hour), 1),
	})

	if len(positions) != 1 {
		t.Fatalf("expecting 1 position got %d", len(positions))
	}
	p := positions[0]
	if p.Side != models.PositionSideShort {
		t.Fatalf("expecting short side got %s", p.Side)
	}
	// 做空：价格下跌盈利
	if !p.RealizedPnl.Equal(d(100)) {
		t.Errorf("expecting realized pnl 100 got %s", p.RealizedPnl)
	}
}

func TestReconstructPositions_NonTradeIgnored(t *testing.T) {
	svc := newPositionService()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	deposit := trade("BTC", true, 10, 100, base, 0)
	deposit.Type = models.TransactionTypeDeposit

	positions := svc.ReconstructPositions("w1", []models.Transaction{deposit})
	if len(positions) != 0 {
		t.Fatalf("non-trade transactions should not create positions, got %d", len(positions))
	}
}

func TestReconstructPositions_ZeroValueSkipped(t *testing.T) {
	svc := newPositionService()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	positions := svc.ReconstructPositions("w1", []models.Transaction{
		trade("BTC", true, 0, 100, base, 0),
		trade("BTC", true, 10, 100, base.Add(time.Hour), 1),
	})

	if len(positions) != 1 {
		t.Fatalf("expecting 1 position got %d", len(positions))
	}
	if !positions[0].Quantity.Equal(d(10)) {
		t.Errorf("expecting quantity 10 got %s", positions[0].Quantity)
	}
}

func TestReconstructPositions_SequenceTieBreak(t *testing.T) {
	svc := newPositionService()
	at := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	// 时间戳相同时按原始成交顺序：先买后卖应平仓
	positions := svc.ReconstructPositions("w1", []models.Transaction{
		trade("BTC", false, 10, 110, at, 1),
		trade("BTC", true, 10, 100, at, 0),
	})

	if len(positions) != 1 {
		t.Fatalf("expecting 1 position got %d", len(positions))
	}
	p := positions[0]
	if p.Status != models.PositionStatusClosed || p.Side != models.PositionSideLong {
		t.Errorf("expecting closed long got %s %s", p.Status, p.Side)
	}
	if !p.RealizedPnl.Equal(d(100)) {
		t.Errorf("expecting realized pnl 100 got %s", p.RealizedPnl)
	}
}

func TestReconstructPositions_Deterministic(t *testing.T) {
	svc := newPositionService()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	transactions := []models.Transaction{
		trade("BTC", true, 10, 100, base, 0),
		trade("ETH", true, 5, 3000, base.Add(time.Minute), 1),
		trade("BTC", false, 10, 110, base.Add(2*time.Minute), 2),
		trade("SOL", false, 20, 150, base.Add(3*time.Minute), 3),
	}

	first := svc.ReconstructPositions("w1", transactions)
	for i := 0; i < 10; i++ {
		again := svc.ReconstructPositions("w1", transactions)
		if len(again) != len(first) {
			t.Fatalf("non-deterministic position count: %d vs %d", len(again), len(first))
		}
		for j := range first {
			if again[j].Asset != first[j].Asset || again[j].Side != first[j].Side {
				t.Fatalf("non-deterministic order at %d: %s/%s vs %s/%s",
					j, again[j].Asset, again[j].Side, first[j].Asset, first[j].Side)
			}
		}
	}
}

func TestReconstructPositions_MarginTypeLastWriterWins(t *testing.T) {
	svc := newPositionService()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	positions := svc.ReconstructPositions("w1", []models.Transaction{
		withCrossed(trade("BTC", true, 10, 100, base, 0), true),
		withCrossed(trade("BTC", true, 5, 110, base.Add(time.Hour), 1), false),
	})

	if len(positions) != 1 {
		t.Fatalf("expecting 1 position got %d", len(positions))
	}
	if positions[0].MarginType != models.MarginTypeIsolated {
		t.Errorf("expecting isolated margin got %s", positions[0].MarginType)
	}
}

func TestReconstructPositions_MarginTypeDefaultsToCross(t *testing.T) {
	svc := newPositionService()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	positions := svc.ReconstructPositions("w1", []models.Transaction{
		trade("BTC", true, 10, 100, base, 0),
	})

	if positions[0].MarginType != models.MarginTypeCross {
		t.Errorf("expecting cross margin got %s", positions[0].MarginType)
	}
}

func TestAttachCurrentPrices(t *testing.T) {
	svc := newPositionService()
	now := time.Now()

	open := &models.Position{
		Asset:      "BTC",
		Side:       models.PositionSideLong,
		Status:     models.PositionStatusOpen,
		Quantity:   d(2),
		EntryPrice: d(100),
		OpenedAt:   now,
	}
	noQuote := &models.Position{
		Asset:      "DOGE",
		Side:       models.PositionSideLong,
		Status:     models.PositionStatusOpen,
		Quantity:   d(100),
		EntryPrice: d(0.1),
		OpenedAt:   now,
	}
	closed := &models.Position{
		Asset:      "ETH",
		Side:       models.PositionSideShort,
		Status:     models.PositionStatusClosed,
		Quantity:   d(1),
		EntryPrice: d(3000),
		OpenedAt:   now,
	}

	result := svc.AttachCurrentPrices([]*models.Position{open, noQuote, closed}, map[string]decimal.Decimal{
		"BTC": d(150),
		"ETH": d(2900),
	})

	if len(result) != 3 {
		t.Fatalf("expecting 3 positions got %d", len(result))
	}
	marked := result[0]
	if !marked.CurrentPrice.Equal(d(150)) {
		t.Errorf("expecting current price 150 got %s", marked.CurrentPrice)
	}
	if !marked.UnrealizedPnl.Equal(d(100)) {
		t.Errorf("expecting unrealized pnl 100 got %s", marked.UnrealizedPnl)
	}

	// 输入不被修改
	if !open.CurrentPrice.IsZero() {
		t.Errorf("input position should not be mutated")
	}

	if !result[1].CurrentPrice.IsZero() {
		t.Errorf("position without quote should keep zero current price")
	}
	if !result[2].CurrentPrice.IsZero() {
		t.Errorf("closed position should not be marked")
	}
}

func TestAttachCurrentPrices_ShortUnrealized(t *testing.T) {
	svc := newPositionService()

	short := &models.Position{
		Asset:      "BTC",
		Side:       models.PositionSideShort,
		Status:     models.PositionStatusOpen,
		Quantity:   d(2),
		EntryPrice: d(100),
	}

	result := svc.AttachCurrentPrices([]*models.Position{short}, map[string]decimal.Decimal{
		"BTC": d(120),
	})

	// 做空：价格上涨亏损
	if !result[0].UnrealizedPnl.Equal(d(-40)) {
		t.Errorf("expecting unrealized pnl -40 got %s", result[0].UnrealizedPnl)
	}
}
