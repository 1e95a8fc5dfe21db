package service

import (
	"context"
	"time"

	"github.com/dushixiang/lens/internal/models"
	"github.com/dushixiang/lens/internal/repo"
	"github.com/dushixiang/lens/pkg/exchange"
	"github.com/go-orz/orz"
	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// TransactionService 交易记录服务，负责把交易所成交规范化为统一交易记录
type TransactionService struct {
	logger *zap.Logger

	*orz.Service
	*repo.TransactionRepo
}

// NewTransactionService 创建交易记录服务
func NewTransactionService(db *gorm.DB, logger *zap.Logger) *TransactionService {
	return &TransactionService{
		logger:          logger,
		Service:         orz.NewService(db),
		TransactionRepo: repo.NewTransactionRepo(db),
	}
}

// NormalizeFills 把交易所成交记录一对一映射为规范化交易记录
// 买入成交 from=market to=钱包地址，卖出成交相反
// 数值字段解析失败时记零并告警，不丢弃该笔成交
func (s *TransactionService) NormalizeFills(wallet *models.Wallet, fills []*exchange.Fill) []models.Transaction {
	transactions := make([]models.Transaction, 0, len(fills))

	for i, fill := range fills {
		from, to := wallet.Address, models.MarketCounterparty
		if fill.Side == exchange.FillSideBuy {
			from, to = models.MarketCounterparty, wallet.Address
		}

		tx := models.Transaction{
			ID:        ulid.Make().String(),
			WalletID:  wallet.ID,
			Hash:      fill.Hash,
			Sequence:  int64(i),
			Timestamp: time.UnixMilli(fill.Time),
			From:      from,
			To:        to,
			Asset:     fill.Coin,
			Value:     s.parseDecimal(fill.Sz, fill.Hash, "sz"),
			Price:     s.parseDecimal(fill.Px, fill.Hash, "px"),
			Fee:       s.parseDecimal(fill.Fee, fill.Hash, "fee"),
			Type:      models.TransactionTypeTrade,
			Status:    models.TransactionStatusConfirmed,
			Metadata: datatypes.NewJSONType(models.TransactionMetadata{
				Crossed: fill.Crossed,
			}),
		}
		transactions = append(transactions, tx)
	}

	return transactions
}

func (s *TransactionService) parseDecimal(value, hash, field string) decimal.Decimal {
	if value == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		s.logger.Warn("malformed numeric field in fill, treated as zero",
			zap.String("hash", hash),
			zap.String("field", field),
			zap.String("value", value))
		return decimal.Zero
	}
	return d
}

// ReplaceWalletTransactions 重建钱包的交易记录（全量替换）
func (s *TransactionService) ReplaceWalletTransactions(ctx context.Context, walletId string, transactions []models.Transaction) error {
	return s.Transaction(ctx, func(ctx context.Context) error {
		if err := s.TransactionRepo.DeleteByWalletId(ctx, walletId); err != nil {
			return err
		}
		if len(transactions) == 0 {
			return nil
		}
		db := s.TransactionRepo.GetDB(ctx)
		return db.CreateInBatches(transactions, 500).Error
	})
}

// GetWalletTransactions 获取钱包的全部交易记录
func (s *TransactionService) GetWalletTransactions(ctx context.Context, walletId string) ([]models.Transaction, error) {
	return s.TransactionRepo.FindByWalletId(ctx, walletId)
}
