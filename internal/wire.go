//go:build wireinject
// +build wireinject

package internal

import (
	"net/http"
	"time"

	"github.com/dushixiang/lens/pkg/exchange"
	"github.com/google/wire"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/dushixiang/lens/internal/config"
	"github.com/dushixiang/lens/internal/handler"
	"github.com/dushixiang/lens/internal/service"
	"github.com/dushixiang/lens/internal/telegram"
)

const (
	telegramHTTPTimeout = 10 * time.Second
)

var (
	handlerSet = wire.NewSet(
		handler.NewWalletHandler,
		handler.NewAuthHandler,
		handler.NewSetupHandler,
	)

	syncSet = wire.NewSet(
		provideHyperliquidClient,
		service.NewTransactionService,
		service.NewPositionService,
		provideRiskService,
		service.NewWalletService,
		service.NewSyncService,
		service.NewSyncLoop,
		provideAuthService,
	)
)

// InitializeApp 初始化应用
func InitializeApp(logger *zap.Logger, db *gorm.DB, conf *config.Config) (*AppComponents, error) {
	wire.Build(
		handlerSet,
		syncSet,
		provideTelegram,
		wire.Struct(new(AppComponents), "*"),
	)
	return nil, nil
}

// provideTelegram provides telegram instance
func provideTelegram(logger *zap.Logger, conf *config.Config) *telegram.Telegram {
	if !conf.Telegram.Enabled {
		return nil
	}

	httpClient := &http.Client{Timeout: telegramHTTPTimeout}

	tg, err := telegram.NewTelegram(logger, telegram.Settings{
		Token:  conf.Telegram.Token,
		Client: httpClient,
	})
	if err != nil {
		logger.Error("failed to init telegram", zap.Error(err))
		return nil
	}

	return tg
}

// provideHyperliquidClient provides Hyperliquid info API client
func provideHyperliquidClient(conf *config.Config, logger *zap.Logger) exchange.Exchange {
	client := exchange.NewHyperliquidClient(
		conf.Hyperliquid.BaseURL,
		conf.Hyperliquid.ProxyURL,
		conf.Hyperliquid.Testnet,
	)

	logger.Info("Hyperliquid client initialized",
		zap.Bool("testnet", conf.Hyperliquid.Testnet),
		zap.Bool("has_proxy", conf.Hyperliquid.ProxyURL != ""),
	)
	return client
}

// provideRiskService provides risk service with the configured risk-free rate
func provideRiskService(db *gorm.DB, conf *config.Config, logger *zap.Logger) *service.RiskService {
	return service.NewRiskService(db, conf.Sync.RiskFreeRate, logger)
}

// provideAuthService provides auth service with the configured JWT secret
func provideAuthService(logger *zap.Logger, db *gorm.DB, conf *config.Config) *service.AuthService {
	return service.NewAuthService(logger, db, conf.Auth.JWTSecret)
}
