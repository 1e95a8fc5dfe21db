package service

import (
	"context"
	"sort"
	"time"

	"github.com/dushixiang/lens/internal/models"
	"github.com/dushixiang/lens/internal/repo"
	"github.com/dushixiang/lens/pkg/stats"
	"github.com/go-orz/orz"
	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// VaR95ZScore 95%置信区间单尾正态Z值
const VaR95ZScore = 1.645

// RiskService 组合风险指标计算服务
type RiskService struct {
	logger *zap.Logger

	*orz.Service
	*repo.RiskMetricsRepo

	riskFreeRate float64
}

// NewRiskService 创建风险指标服务
func NewRiskService(db *gorm.DB, riskFreeRate float64, logger *zap.Logger) *RiskService {
	return &RiskService{
		logger:          logger,
		Service:         orz.NewService(db),
		RiskMetricsRepo: repo.NewRiskMetricsRepo(db),
		riskFreeRate:    riskFreeRate,
	}
}

// ComputeRiskMetrics 计算钱包的组合风险指标快照
// 收益率序列取自已平仓持仓的实现收益率（按平仓时间排序），
// 空输入返回全零快照；transactions 仅作为扩展入参保留
func (s *RiskService) ComputeRiskMetrics(walletId string, positions []*models.Position, transactions []models.Transaction) *models.RiskMetrics {
	returns := realizedReturns(positions)
	portfolioValue := portfolioValue(positions)

	volatility := stats.AnnualizedVolatility(returns)

	metrics := &models.RiskMetrics{
		ID:            ulid.Make().String(),
		WalletID:      walletId,
		Volatility:    volatility,
		Drawdown:      stats.MaxDrawdown(equityCurve(positions)),
		ValueAtRisk:   portfolioValue.Mul(decimal.NewFromFloat(volatility * VaR95ZScore)),
		SharpeRatio:   stats.SharpeRatio(returns, s.riskFreeRate),
		SortinoRatio:  stats.SortinoRatio(returns, s.riskFreeRate),
		Concentration: stats.Herfindahl(positionValues(positions)),
		Timestamp:     time.Now(),
	}
	return metrics
}

// realizedReturns 已平仓持仓的实现收益率序列（按平仓时间升序）
func realizedReturns(positions []*models.Position) []float64 {
	closed := closedByCloseTime(positions)

	returns := make([]float64, 0, len(closed))
	for _, p := range closed {
		costBasis := p.CostBasis()
		if costBasis.IsZero() {
			continue
		}
		returns = append(returns, p.RealizedPnl.Div(costBasis).InexactFloat64())
	}
	return returns
}

// equityCurve 以总持仓成本为基准、按平仓顺序累加已实现盈亏的净值序列
func equityCurve(positions []*models.Position) []float64 {
	closed := closedByCloseTime(positions)
	if len(closed) == 0 {
		return nil
	}

	base := decimal.Zero
	for _, p := range positions {
		base = base.Add(p.CostBasis())
	}

	curve := make([]float64, 0, len(closed)+1)
	curve = append(curve, base.InexactFloat64())

	equity := base
	for _, p := range closed {
		equity = equity.Add(p.RealizedPnl)
		curve = append(curve, equity.InexactFloat64())
	}
	return curve
}

func closedByCloseTime(positions []*models.Position) []*models.Position {
	closed := make([]*models.Position, 0, len(positions))
	for _, p := range positions {
		if p.Status == models.PositionStatusClosed && p.ClosedAt != nil {
			closed = append(closed, p)
		}
	}
	sort.SliceStable(closed, func(i, j int) bool {
		return closed[i].ClosedAt.Before(*closed[j].ClosedAt)
	})
	return closed
}

// portfolioValue 开仓持仓的总市值
func portfolioValue(positions []*models.Position) decimal.Decimal {
	total := decimal.Zero
	for _, p := range positions {
		if p.Status == models.PositionStatusOpen {
			total = total.Add(p.NotionalValue())
		}
	}
	return total
}

// positionValues 各开仓持仓的市值，用于集中度计算
func positionValues(positions []*models.Position) []float64 {
	values := make([]float64, 0, len(positions))
	for _, p := range positions {
		if p.Status == models.PositionStatusOpen {
			values = append(values, p.NotionalValue().InexactFloat64())
		}
	}
	return values
}

// SaveRiskMetrics 保存风险指标快照
func (s *RiskService) SaveRiskMetrics(ctx context.Context, metrics *models.RiskMetrics) error {
	return s.RiskMetricsRepo.Create(ctx, metrics)
}

// GetLatestRiskMetrics 获取钱包最新的风险指标快照
func (s *RiskService) GetLatestRiskMetrics(ctx context.Context, walletId string) (*models.RiskMetrics, error) {
	metrics, err := s.RiskMetricsRepo.FindLatestByWalletId(ctx, walletId)
	if err != nil {
		return nil, err
	}
	return &metrics, nil
}
