package repo

import (
	"context"

	"github.com/dushixiang/lens/internal/models"
	"github.com/go-orz/orz"
	"gorm.io/gorm"
)

func NewPositionRepo(db *gorm.DB) *PositionRepo {
	return &PositionRepo{
		Repository: orz.NewRepository[models.Position, string](db),
	}
}

type PositionRepo struct {
	orz.Repository[models.Position, string]
}

// FindByWalletId 获取钱包的全部持仓记录
func (r PositionRepo) FindByWalletId(ctx context.Context, walletId string) ([]models.Position, error) {
	var positions []models.Position
	db := r.GetDB(ctx)
	err := db.Table(r.GetTableName()).
		Where("wallet_id = ?", walletId).
		Order("opened_at ASC").
		Find(&positions).Error
	return positions, err
}

// FindOpenByWalletId 获取钱包的开仓持仓
func (r PositionRepo) FindOpenByWalletId(ctx context.Context, walletId string) ([]models.Position, error) {
	var positions []models.Position
	db := r.GetDB(ctx)
	err := db.Table(r.GetTableName()).
		Where("wallet_id = ? AND status = ?", walletId, models.PositionStatusOpen).
		Order("opened_at ASC").
		Find(&positions).Error
	return positions, err
}

// DeleteByWalletId 删除钱包的全部持仓记录
func (r PositionRepo) DeleteByWalletId(ctx context.Context, walletId string) error {
	db := r.GetDB(ctx)
	return db.Where("wallet_id = ?", walletId).Delete(&models.Position{}).Error
}
