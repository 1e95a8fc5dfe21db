package repo

import (
	"context"

	"github.com/dushixiang/lens/internal/models"
	"github.com/go-orz/orz"
	"gorm.io/gorm"
)

func NewTransactionRepo(db *gorm.DB) *TransactionRepo {
	return &TransactionRepo{
		Repository: orz.NewRepository[models.Transaction, string](db),
	}
}

type TransactionRepo struct {
	orz.Repository[models.Transaction, string]
}

// FindByWalletId 获取钱包的全部交易记录（按时间和原始顺序升序）
func (r TransactionRepo) FindByWalletId(ctx context.Context, walletId string) ([]models.Transaction, error) {
	var transactions []models.Transaction
	db := r.GetDB(ctx)
	err := db.Table(r.GetTableName()).
		Where("wallet_id = ?", walletId).
		Order("timestamp ASC, sequence ASC").
		Find(&transactions).Error
	return transactions, err
}

// FindRecentByWalletId 获取钱包最近的交易记录
func (r TransactionRepo) FindRecentByWalletId(ctx context.Context, walletId string, limit int) ([]models.Transaction, error) {
	var transactions []models.Transaction
	db := r.GetDB(ctx)
	err := db.Table(r.GetTableName()).
		Where("wallet_id = ?", walletId).
		Order("timestamp DESC, sequence DESC").
		Limit(limit).
		Find(&transactions).Error
	return transactions, err
}

// DeleteByWalletId 删除钱包的全部交易记录
func (r TransactionRepo) DeleteByWalletId(ctx context.Context, walletId string) error {
	db := r.GetDB(ctx)
	return db.Where("wallet_id = ?", walletId).Delete(&models.Transaction{}).Error
}
