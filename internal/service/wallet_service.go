package service

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/dushixiang/lens/internal/models"
	"github.com/dushixiang/lens/internal/repo"
	"github.com/dushixiang/lens/internal/xe"
	"github.com/go-orz/orz"
	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var addressPattern = regexp.MustCompile(`^0x[0-9a-fA-F]{40}$`)

// WalletService 钱包登记服务
type WalletService struct {
	logger *zap.Logger

	*orz.Service
	*repo.WalletRepo

	transactionRepo *repo.TransactionRepo
	positionRepo    *repo.PositionRepo
}

// NewWalletService 创建钱包服务
func NewWalletService(db *gorm.DB, logger *zap.Logger) *WalletService {
	return &WalletService{
		logger:          logger,
		Service:         orz.NewService(db),
		WalletRepo:      repo.NewWalletRepo(db),
		transactionRepo: repo.NewTransactionRepo(db),
		positionRepo:    repo.NewPositionRepo(db),
	}
}

// RegisterWallet 登记一个新钱包地址
func (s *WalletService) RegisterWallet(ctx context.Context, address, label string) (*models.Wallet, error) {
	address = strings.ToLower(strings.TrimSpace(address))
	if !addressPattern.MatchString(address) {
		return nil, xe.ErrInvalidAddress
	}

	exists, err := s.WalletRepo.ExistsByAddress(ctx, address)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, xe.ErrWalletExists
	}

	wallet := &models.Wallet{
		ID:      ulid.Make().String(),
		Address: address,
		Label:   strings.TrimSpace(label),
	}
	if err := s.WalletRepo.Create(ctx, wallet); err != nil {
		return nil, err
	}

	s.logger.Info("wallet registered",
		zap.String("wallet_id", wallet.ID),
		zap.String("address", wallet.Address))
	return wallet, nil
}

// GetWallet 获取单个钱包
func (s *WalletService) GetWallet(ctx context.Context, id string) (*models.Wallet, error) {
	wallet, err := s.WalletRepo.FindById(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, xe.ErrWalletNotFound
		}
		return nil, err
	}
	return &wallet, nil
}

// GetWalletByAddress 根据地址获取钱包
func (s *WalletService) GetWalletByAddress(ctx context.Context, address string) (*models.Wallet, error) {
	address = strings.ToLower(strings.TrimSpace(address))
	wallet, err := s.WalletRepo.FindByAddress(ctx, address)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, xe.ErrWalletNotFound
		}
		return nil, err
	}
	return &wallet, nil
}

// ListWallets 获取所有钱包
func (s *WalletService) ListWallets(ctx context.Context) ([]models.Wallet, error) {
	return s.WalletRepo.FindAll(ctx)
}

// DeleteWallet 删除钱包及其全部衍生数据
func (s *WalletService) DeleteWallet(ctx context.Context, id string) error {
	if _, err := s.GetWallet(ctx, id); err != nil {
		return err
	}

	return s.Transaction(ctx, func(ctx context.Context) error {
		if err := s.transactionRepo.DeleteByWalletId(ctx, id); err != nil {
			return err
		}
		if err := s.positionRepo.DeleteByWalletId(ctx, id); err != nil {
			return err
		}
		return s.WalletRepo.DeleteById(ctx, id)
	})
}
