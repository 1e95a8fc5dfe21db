package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dushixiang/lens/internal/models"
	"github.com/dushixiang/lens/internal/repo"
	"github.com/dushixiang/lens/internal/xe"
	"github.com/dushixiang/lens/pkg/exchange"
	"github.com/go-orz/orz"
	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// SyncService 同步编排服务
// 串联 成交拉取 → 规范化 → 持仓还原 → 价格标记 → 风险计算，并落库
type SyncService struct {
	logger *zap.Logger

	*orz.Service

	exchange     exchange.Exchange
	walletRepo   *repo.WalletRepo
	snapshotRepo *repo.PortfolioSnapshotRepo

	transactionService *TransactionService
	positionService    *PositionService
	riskService        *RiskService
}

// NewSyncService 创建同步服务
func NewSyncService(
	db *gorm.DB,
	exchange exchange.Exchange,
	transactionService *TransactionService,
	positionService *PositionService,
	riskService *RiskService,
	logger *zap.Logger,
) *SyncService {
	return &SyncService{
		logger:             logger,
		Service:            orz.NewService(db),
		exchange:           exchange,
		walletRepo:         repo.NewWalletRepo(db),
		snapshotRepo:       repo.NewPortfolioSnapshotRepo(db),
		transactionService: transactionService,
		positionService:    positionService,
		riskService:        riskService,
	}
}

// SyncResult 单个钱包的同步结果
type SyncResult struct {
	Wallet       *models.Wallet       `json:"wallet"`
	Transactions []models.Transaction `json:"transactions"`
	Positions    []*models.Position   `json:"positions"`
	RiskMetrics  *models.RiskMetrics  `json:"risk_metrics"`
}

// BatchSyncResult 批量同步统计
type BatchSyncResult struct {
	Total   int `json:"total"`
	Success int `json:"success"`
	Failed  int `json:"failed"`
}

// SyncWallet 同步单个钱包
func (s *SyncService) SyncWallet(ctx context.Context, walletId string) (*SyncResult, error) {
	iteration := s.nextIteration(ctx)
	return s.syncWallet(ctx, walletId, iteration)
}

func (s *SyncService) syncWallet(ctx context.Context, walletId string, iteration int) (*SyncResult, error) {
	wallet, err := s.walletRepo.FindById(ctx, walletId)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, xe.ErrWalletNotFound
		}
		return nil, err
	}

	fills, err := s.exchange.FetchFills(ctx, wallet.Address)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch fills for wallet %s: %w", wallet.Address, err)
	}

	transactions := s.transactionService.NormalizeFills(&wallet, fills)
	positions := s.positionService.ReconstructPositions(wallet.ID, transactions)

	// 报价获取失败时降级：持仓保留上一次的价格信息
	mids, err := s.exchange.FetchMidPrices(ctx)
	if err != nil {
		s.logger.Warn("failed to fetch mid prices, positions keep stale prices",
			zap.String("wallet_id", wallet.ID),
			zap.Error(err))
	} else {
		positions = s.positionService.AttachCurrentPrices(positions, mids)
	}

	metrics := s.riskService.ComputeRiskMetrics(wallet.ID, positions, transactions)
	snapshot := s.buildSnapshot(wallet.ID, positions, iteration)

	syncedAt := time.Now()
	err = s.Transaction(ctx, func(ctx context.Context) error {
		if err := s.transactionService.ReplaceWalletTransactions(ctx, wallet.ID, transactions); err != nil {
			return err
		}
		if err := s.positionService.ReplaceWalletPositions(ctx, wallet.ID, positions); err != nil {
			return err
		}
		if err := s.riskService.SaveRiskMetrics(ctx, metrics); err != nil {
			return err
		}
		if err := s.snapshotRepo.Create(ctx, snapshot); err != nil {
			return err
		}
		return s.walletRepo.UpdateLastSyncedAt(ctx, wallet.ID, syncedAt)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to persist sync result for wallet %s: %w", wallet.ID, err)
	}

	wallet.LastSyncedAt = &syncedAt

	s.logger.Info("wallet synced",
		zap.String("wallet_id", wallet.ID),
		zap.String("address", wallet.Address),
		zap.Int("transactions", len(transactions)),
		zap.Int("positions", len(positions)))

	return &SyncResult{
		Wallet:       &wallet,
		Transactions: transactions,
		Positions:    positions,
		RiskMetrics:  metrics,
	}, nil
}

// SyncAllWallets 并发同步所有钱包
// all-settled语义：单个钱包失败不影响其它钱包
func (s *SyncService) SyncAllWallets(ctx context.Context) (*BatchSyncResult, error) {
	wallets, err := s.walletRepo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list wallets: %w", err)
	}

	iteration := s.nextIteration(ctx)
	result := &BatchSyncResult{Total: len(wallets)}

	var wg sync.WaitGroup
	var mu sync.Mutex

	for _, wallet := range wallets {
		wg.Add(1)
		go func(walletId, address string) {
			defer wg.Done()

			if _, err := s.syncWallet(ctx, walletId, iteration); err != nil {
				s.logger.Error("wallet sync failed",
					zap.String("wallet_id", walletId),
					zap.String("address", address),
					zap.Error(err))
				mu.Lock()
				result.Failed++
				mu.Unlock()
				return
			}

			mu.Lock()
			result.Success++
			mu.Unlock()
		}(wallet.ID, wallet.Address)
	}

	wg.Wait()

	s.logger.Info("batch sync completed",
		zap.Int("total", result.Total),
		zap.Int("success", result.Success),
		zap.Int("failed", result.Failed))
	return result, nil
}

// buildSnapshot 汇总当前持仓生成净值快照
func (s *SyncService) buildSnapshot(walletId string, positions []*models.Position, iteration int) *models.PortfolioSnapshot {
	portfolioValue := decimal.Zero
	realizedPnl := decimal.Zero
	unrealizedPnl := decimal.Zero
	openCount := 0

	for _, p := range positions {
		if p.Status == models.PositionStatusOpen {
			portfolioValue = portfolioValue.Add(p.NotionalValue())
			unrealizedPnl = unrealizedPnl.Add(p.UnrealizedPnl)
			openCount++
		} else {
			realizedPnl = realizedPnl.Add(p.RealizedPnl)
		}
	}

	return &models.PortfolioSnapshot{
		ID:             ulid.Make().String(),
		WalletID:       walletId,
		PortfolioValue: portfolioValue,
		RealizedPnl:    realizedPnl,
		UnrealizedPnl:  unrealizedPnl,
		OpenPositions:  openCount,
		Iteration:      iteration,
		RecordedAt:     time.Now(),
	}
}

// nextIteration 读取最近一次同步周期编号并加一，重启后不从0开始
func (s *SyncService) nextIteration(ctx context.Context) int {
	latest, err := s.snapshotRepo.FindLatestIteration(ctx)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Warn("failed to load latest iteration, fallback to 0", zap.Error(err))
		}
		return 1
	}
	return latest + 1
}

// GetPortfolioHistory 获取钱包的净值历史
func (s *SyncService) GetPortfolioHistory(ctx context.Context, walletId string) ([]models.PortfolioSnapshot, error) {
	return s.snapshotRepo.FindByWalletIdOrderByRecordedAt(ctx, walletId)
}
