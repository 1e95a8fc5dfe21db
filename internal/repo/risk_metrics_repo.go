package repo

import (
	"context"

	"github.com/dushixiang/lens/internal/models"
	"github.com/go-orz/orz"
	"gorm.io/gorm"
)

func NewRiskMetricsRepo(db *gorm.DB) *RiskMetricsRepo {
	return &RiskMetricsRepo{
		Repository: orz.NewRepository[models.RiskMetrics, string](db),
	}
}

type RiskMetricsRepo struct {
	orz.Repository[models.RiskMetrics, string]
}

// FindLatestByWalletId 获取钱包最新的风险指标快照
func (r RiskMetricsRepo) FindLatestByWalletId(ctx context.Context, walletId string) (m models.RiskMetrics, err error) {
	db := r.GetDB(ctx)
	err = db.Table(r.GetTableName()).
		Where("wallet_id = ?", walletId).
		Order("timestamp DESC").
		First(&m).Error
	return m, err
}

// FindByWalletId 获取钱包的全部风险指标历史（按时间升序）
func (r RiskMetricsRepo) FindByWalletId(ctx context.Context, walletId string) ([]models.RiskMetrics, error) {
	var metrics []models.RiskMetrics
	db := r.GetDB(ctx)
	err := db.Table(r.GetTableName()).
		Where("wallet_id = ?", walletId).
		Order("timestamp ASC").
		Find(&metrics).Error
	return metrics, err
}
