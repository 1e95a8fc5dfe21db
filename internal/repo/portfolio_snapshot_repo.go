package repo

import (
	"context"

	"github.com/dushixiang/lens/internal/models"
	"github.com/go-orz/orz"
	"gorm.io/gorm"
)

func NewPortfolioSnapshotRepo(db *gorm.DB) *PortfolioSnapshotRepo {
	return &PortfolioSnapshotRepo{
		Repository: orz.NewRepository[models.PortfolioSnapshot, string](db),
	}
}

type PortfolioSnapshotRepo struct {
	orz.Repository[models.PortfolioSnapshot, string]
}

// FindByWalletIdOrderByRecordedAt 获取钱包的净值历史（按时间升序）
func (r PortfolioSnapshotRepo) FindByWalletIdOrderByRecordedAt(ctx context.Context, walletId string) ([]models.PortfolioSnapshot, error) {
	var snapshots []models.PortfolioSnapshot
	db := r.GetDB(ctx)
	err := db.Table(r.GetTableName()).
		Where("wallet_id = ?", walletId).
		Order("recorded_at ASC").
		Find(&snapshots).Error
	return snapshots, err
}

// FindLatestIteration 获取最近一次同步的周期编号
func (r PortfolioSnapshotRepo) FindLatestIteration(ctx context.Context) (int, error) {
	var snapshot models.PortfolioSnapshot
	db := r.GetDB(ctx)
	err := db.Table(r.GetTableName()).
		Order("iteration DESC").
		First(&snapshot).Error
	if err != nil {
		return 0, err
	}
	return snapshot.Iteration, nil
}
