package repo

import (
	"context"
	"time"

	"github.com/dushixiang/lens/internal/models"
	"github.com/go-orz/orz"
	"gorm.io/gorm"
)

func NewWalletRepo(db *gorm.DB) *WalletRepo {
	return &WalletRepo{
		Repository: orz.NewRepository[models.Wallet, string](db),
	}
}

type WalletRepo struct {
	orz.Repository[models.Wallet, string]
}

// FindByAddress 根据地址查找钱包
func (r WalletRepo) FindByAddress(ctx context.Context, address string) (m models.Wallet, err error) {
	db := r.GetDB(ctx)
	err = db.Table(r.GetTableName()).
		Where("address = ?", address).
		First(&m).Error
	return m, err
}

// ExistsByAddress 判断地址是否已注册
func (r WalletRepo) ExistsByAddress(ctx context.Context, address string) (bool, error) {
	var count int64
	db := r.GetDB(ctx)
	err := db.Table(r.GetTableName()).
		Where("address = ?", address).
		Count(&count).Error
	return count > 0, err
}

// UpdateLastSyncedAt 更新最后同步时间
func (r WalletRepo) UpdateLastSyncedAt(ctx context.Context, id string, syncedAt time.Time) error {
	db := r.GetDB(ctx)
	return db.Table(r.GetTableName()).
		Where("id = ?", id).
		Update("last_synced_at", syncedAt).Error
}
