package service

import (
	"context"
	"sort"

	"github.com/dushixiang/lens/internal/models"
	"github.com/dushixiang/lens/internal/repo"
	"github.com/go-orz/orz"
	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// PositionService 持仓还原服务
// ReconstructPositions 和 AttachCurrentPrices 是无副作用的纯转换，
// 持久化只发生在 ReplaceWalletPositions
type PositionService struct {
	logger *zap.Logger

	*orz.Service
	*repo.PositionRepo
}

// NewPositionService 创建持仓服务
func NewPositionService(db *gorm.DB, logger *zap.Logger) *PositionService {
	return &PositionService{
		logger:       logger,
		Service:      orz.NewService(db),
		PositionRepo: repo.NewPositionRepo(db),
	}
}

// ReconstructPositions 从交易记录还原持仓序列
// 只处理 type=trade 的记录，按币种分组后在时间序上推演：
// 同向成交加仓，反向成交减仓，数量归零或越过零时平仓，
// 越过零的剩余数量立即反向开新仓
func (s *PositionService) ReconstructPositions(walletId string, transactions []models.Transaction) []*models.Position {
	groups := make(map[string][]models.Transaction)
	assetOrder := make([]string, 0)

	for _, tx := range transactions {
		if tx.Type != models.TransactionTypeTrade {
			continue
		}
		if _, ok := groups[tx.Asset]; !ok {
			assetOrder = append(assetOrder, tx.Asset)
		}
		groups[tx.Asset] = append(groups[tx.Asset], tx)
	}

	result := make([]*models.Position, 0)
	for _, asset := range assetOrder {
		result = append(result, s.reconstructAsset(walletId, asset, groups[asset])...)
	}
	return result
}

// reconstructAsset 推演单个币种的持仓序列
func (s *PositionService) reconstructAsset(walletId, asset string, trades []models.Transaction) []*models.Position {
	// 稳定排序：时间相同按原始成交顺序
	sort.SliceStable(trades, func(i, j int) bool {
		if trades[i].Timestamp.Equal(trades[j].Timestamp) {
			return trades[i].Sequence < trades[j].Sequence
		}
		return trades[i].Timestamp.Before(trades[j].Timestamp)
	})

	positions := make([]*models.Position, 0)
	var current *models.Position

	for i := range trades {
		tx := &trades[i]
		if tx.Value.LessThanOrEqual(decimal.Zero) {
			// 数量为零或解析失败的成交不影响持仓
			continue
		}

		if current == nil {
			current = s.openPosition(walletId, asset, tx, tx.Value)
			continue
		}

		sameDirection := tx.IsBuy() == (current.Side == models.PositionSideLong)
		if sameDirection {
			// 加仓：数量累加，开仓均价不重算
			current.Quantity = current.Quantity.Add(tx.Value)
			applyMarginType(current, tx)
			continue
		}

		remaining := current.Quantity.Sub(tx.Value)
		if remaining.GreaterThan(decimal.Zero) {
			// 部分平仓
			current.Quantity = remaining
			applyMarginType(current, tx)
			continue
		}

		// 平仓：已实现盈亏按减仓前数量计算
		closedAt := tx.Timestamp
		current.RealizedPnl = current.Pnl(tx.Price, current.Quantity)
		current.Status = models.PositionStatusClosed
		current.ClosedAt = &closedAt
		positions = append(positions, current)

		// 越过零的剩余数量立即反向开仓
		excess := remaining.Neg()
		current = nil
		if excess.GreaterThan(decimal.Zero) {
			current = s.openPosition(walletId, asset, tx, excess)
			current.Side = oppositeSide(current.Side)
		}
	}

	if current != nil {
		positions = append(positions, current)
	}
	return positions
}

// openPosition 以指定成交开新仓
func (s *PositionService) openPosition(walletId, asset string, tx *models.Transaction, quantity decimal.Decimal) *models.Position {
	side := models.PositionSideShort
	if tx.IsBuy() {
		side = models.PositionSideLong
	}

	position := &models.Position{
		ID:         ulid.Make().String(),
		WalletID:   walletId,
		Asset:      asset,
		Side:       side,
		Status:     models.PositionStatusOpen,
		Quantity:   quantity,
		EntryPrice: tx.Price,
		MarginType: models.MarginTypeCross,
		OpenedAt:   tx.Timestamp,
	}
	applyMarginType(position, tx)
	return position
}

// applyMarginType 根据成交的crossed标记更新保证金类型，未给出时保持原值
func applyMarginType(position *models.Position, tx *models.Transaction) {
	crossed := tx.Metadata.Data().Crossed
	if crossed == nil {
		return
	}
	if *crossed {
		position.MarginType = models.MarginTypeCross
	} else {
		position.MarginType = models.MarginTypeIsolated
	}
}

func oppositeSide(side string) string {
	if side == models.PositionSideLong {
		return models.PositionSideShort
	}
	return models.PositionSideLong
}

// AttachCurrentPrices 为开仓持仓标记当前价格并计算未实现盈亏
// 没有报价的持仓和已平仓持仓原样返回，输入不被修改
func (s *PositionService) AttachCurrentPrices(positions []*models.Position, mids map[string]decimal.Decimal) []*models.Position {
	result := make([]*models.Position, 0, len(positions))
	for _, p := range positions {
		if p.Status != models.PositionStatusOpen {
			result = append(result, p)
			continue
		}
		mid, ok := mids[p.Asset]
		if !ok {
			result = append(result, p)
			continue
		}

		updated := *p
		updated.CurrentPrice = mid
		updated.UnrealizedPnl = updated.Pnl(mid, updated.Quantity)
		result = append(result, &updated)
	}
	return result
}

// ReplaceWalletPositions 重建钱包的持仓记录（全量替换）
func (s *PositionService) ReplaceWalletPositions(ctx context.Context, walletId string, positions []*models.Position) error {
	return s.Transaction(ctx, func(ctx context.Context) error {
		if err := s.PositionRepo.DeleteByWalletId(ctx, walletId); err != nil {
			return err
		}
		for _, position := range positions {
			if err := s.PositionRepo.Create(ctx, position); err != nil {
				return err
			}
		}
		return nil
	})
}

// GetWalletPositions 获取钱包的全部持仓
func (s *PositionService) GetWalletPositions(ctx context.Context, walletId string) ([]models.Position, error) {
	return s.PositionRepo.FindByWalletId(ctx, walletId)
}

// GetOpenPositions 获取钱包的开仓持仓
func (s *PositionService) GetOpenPositions(ctx context.Context, walletId string) ([]models.Position, error) {
	return s.PositionRepo.FindOpenByWalletId(ctx, walletId)
}
