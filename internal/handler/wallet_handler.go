package handler

import (
	"context"
	"net/http"

	"github.com/dushixiang/lens/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/spf13/cast"
	"go.uber.org/zap"
)

// WalletHandler 钱包分析HTTP处理器
type WalletHandler struct {
	walletService      *service.WalletService
	transactionService *service.TransactionService
	positionService    *service.PositionService
	riskService        *service.RiskService
	syncService        *service.SyncService
	syncLoop           *service.SyncLoop
	logger             *zap.Logger
	loopCtx            context.Context
	loopCancel         context.CancelFunc
}

// NewWalletHandler 创建钱包处理器
func NewWalletHandler(
	walletService *service.WalletService,
	transactionService *service.TransactionService,
	positionService *service.PositionService,
	riskService *service.RiskService,
	syncService *service.SyncService,
	syncLoop *service.SyncLoop,
	logger *zap.Logger,
) *WalletHandler {
	return &WalletHandler{
		walletService:      walletService,
		transactionService: transactionService,
		positionService:    positionService,
		riskService:        riskService,
		syncService:        syncService,
		syncLoop:           syncLoop,
		logger:             logger,
	}
}

// RegisterWalletRequest 钱包登记请求
type RegisterWalletRequest struct {
	Address string `json:"address" validate:"required"`
	Label   string `json:"label"`
}

// RegisterWallet 登记钱包
// POST /api/wallets
func (h *WalletHandler) RegisterWallet(c echo.Context) error {
	ctx := c.Request().Context()

	var req RegisterWalletRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"error": "请求参数错误",
		})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	wallet, err := h.walletService.RegisterWallet(ctx, req.Address, req.Label)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, wallet)
}

// ListWallets 获取钱包列表
// GET /api/wallets
func (h *WalletHandler) ListWallets(c echo.Context) error {
	ctx := c.Request().Context()

	wallets, err := h.walletService.ListWallets(ctx)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"count":   len(wallets),
		"wallets": wallets,
	})
}

// GetWallet 获取单个钱包
// GET /api/wallets/:id
func (h *WalletHandler) GetWallet(c echo.Context) error {
	ctx := c.Request().Context()

	wallet, err := h.walletService.GetWallet(ctx, c.Param("id"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, wallet)
}

// DeleteWallet 删除钱包
// DELETE /api/wallets/:id
func (h *WalletHandler) DeleteWallet(c echo.Context) error {
	ctx := c.Request().Context()

	if err := h.walletService.DeleteWallet(ctx, c.Param("id")); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "钱包已删除",
	})
}

// GetPositions 获取钱包持仓
// GET /api/wallets/:id/positions
func (h *WalletHandler) GetPositions(c echo.Context) error {
	ctx := c.Request().Context()

	wallet, err := h.walletService.GetWallet(ctx, c.Param("id"))
	if err != nil {
		return err
	}

	positions, err := h.positionService.GetWalletPositions(ctx, wallet.ID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"count":     len(positions),
		"positions": positions,
	})
}

// GetTransactions 获取钱包交易记录
// GET /api/wallets/:id/transactions?limit=50
func (h *WalletHandler) GetTransactions(c echo.Context) error {
	ctx := c.Request().Context()

	wallet, err := h.walletService.GetWallet(ctx, c.Param("id"))
	if err != nil {
		return err
	}

	limit := cast.ToInt(c.QueryParam("limit"))
	if limit <= 0 {
		limit = 50
	}

	transactions, err := h.transactionService.FindRecentByWalletId(ctx, wallet.ID, limit)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"count":        len(transactions),
		"transactions": transactions,
	})
}

// GetRiskMetrics 获取钱包最新风险指标
// GET /api/wallets/:id/risk
func (h *WalletHandler) GetRiskMetrics(c echo.Context) error {
	ctx := c.Request().Context()

	wallet, err := h.walletService.GetWallet(ctx, c.Param("id"))
	if err != nil {
		return err
	}

	metrics, err := h.riskService.GetLatestRiskMetrics(ctx, wallet.ID)
	if err != nil {
		h.logger.Warn("no risk metrics available yet",
			zap.String("wallet_id", wallet.ID),
			zap.Error(err))
		return c.JSON(http.StatusOK, map[string]interface{}{
			"metrics": nil,
		})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"metrics": metrics,
	})
}

// GetPortfolioHistory 获取钱包净值历史（资金曲线）
// GET /api/wallets/:id/portfolio-history
func (h *WalletHandler) GetPortfolioHistory(c echo.Context) error {
	ctx := c.Request().Context()

	wallet, err := h.walletService.GetWallet(ctx, c.Param("id"))
	if err != nil {
		return err
	}

	snapshots, err := h.syncService.GetPortfolioHistory(ctx, wallet.ID)
	if err != nil {
		return err
	}

	data := make([]map[string]interface{}, 0, len(snapshots))
	for _, s := range snapshots {
		data = append(data, map[string]interface{}{
			"timestamp":       s.RecordedAt.Unix(),
			"time":            s.RecordedAt,
			"portfolio_value": s.PortfolioValue,
			"realized_pnl":    s.RealizedPnl,
			"unrealized_pnl":  s.UnrealizedPnl,
			"open_positions":  s.OpenPositions,
			"iteration":       s.Iteration,
		})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"count": len(data),
		"data":  data,
	})
}

// SyncWallet 立即同步单个钱包
// POST /api/wallets/:id/sync
func (h *WalletHandler) SyncWallet(c echo.Context) error {
	ctx := c.Request().Context()

	result, err := h.syncService.SyncWallet(ctx, c.Param("id"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, result)
}

// SyncAllWallets 立即同步所有钱包
// POST /api/sync
func (h *WalletHandler) SyncAllWallets(c echo.Context) error {
	ctx := c.Request().Context()

	result, err := h.syncService.SyncAllWallets(ctx)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, result)
}

// GetSyncStatus 获取同步循环状态
// GET /api/sync/status
func (h *WalletHandler) GetSyncStatus(c echo.Context) error {
	ctx := c.Request().Context()

	status, err := h.syncLoop.GetStatus(ctx)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, status)
}

// StartSyncLoop 启动同步循环
// POST /api/sync/start
func (h *WalletHandler) StartSyncLoop(c echo.Context) error {
	if h.syncLoop.IsRunning() {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"error": "sync loop is already running",
		})
	}

	h.loopCtx, h.loopCancel = context.WithCancel(context.Background())

	go func() {
		if err := h.syncLoop.Start(h.loopCtx); err != nil {
			h.logger.Error("sync loop error", zap.Error(err))
		}
	}()

	h.logger.Info("sync loop started via API")

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "sync loop started",
	})
}

// StopSyncLoop 停止同步循环
// POST /api/sync/stop
func (h *WalletHandler) StopSyncLoop(c echo.Context) error {
	if !h.syncLoop.IsRunning() {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"error": "sync loop is not running",
		})
	}

	h.syncLoop.Stop()
	if h.loopCancel != nil {
		h.loopCancel()
	}

	h.logger.Info("sync loop stopped via API")

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "sync loop stopped",
	})
}

// RestartSyncLoop 重启同步循环
// POST /api/sync/restart
func (h *WalletHandler) RestartSyncLoop(c echo.Context) error {
	if h.syncLoop.IsRunning() {
		h.syncLoop.Stop()
		if h.loopCancel != nil {
			h.loopCancel()
		}
		h.logger.Info("sync loop stopped for restart")
	}

	h.loopCtx, h.loopCancel = context.WithCancel(context.Background())

	go func() {
		if err := h.syncLoop.Start(h.loopCtx); err != nil {
			h.logger.Error("sync loop error on restart", zap.Error(err))
		}
	}()

	h.logger.Info("sync loop restarted via API")

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "sync loop restarted",
	})
}

// RegisterRoutes 注册路由
func (h *WalletHandler) RegisterRoutes(g *echo.Group) {
	wallets := g.Group("/wallets")

	wallets.POST("", h.RegisterWallet)
	wallets.GET("", h.ListWallets)
	wallets.GET("/:id", h.GetWallet)
	wallets.DELETE("/:id", h.DeleteWallet)
	wallets.GET("/:id/positions", h.GetPositions)
	wallets.GET("/:id/transactions", h.GetTransactions)
	wallets.GET("/:id/risk", h.GetRiskMetrics)
	wallets.GET("/:id/portfolio-history", h.GetPortfolioHistory)
	wallets.POST("/:id/sync", h.SyncWallet)

	sync := g.Group("/sync")
	sync.POST("", h.SyncAllWallets)
	sync.GET("/status", h.GetSyncStatus)
	sync.POST("/start", h.StartSyncLoop)
	sync.POST("/stop", h.StopSyncLoop)
	sync.POST("/restart", h.RestartSyncLoop)
}
