package service

import (
	"context"
	"fmt"
	"time"

	"github.com/dushixiang/lens/internal/config"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// SyncLoop 定时同步调度器
type SyncLoop struct {
	config        config.SyncConf
	syncService   *SyncService
	walletService *WalletService
	logger        *zap.Logger

	startTime time.Time
	lastRunAt time.Time
	lastBatch *BatchSyncResult
	isRunning bool
	stopChan  chan struct{}
	cron      *cron.Cron
	ctx       context.Context
	cancel    context.CancelFunc

	// OnBatchCompleted 批量同步完成后的回调（用于通知推送）
	OnBatchCompleted func(result *BatchSyncResult)
}

// NewSyncLoop 创建同步调度器
func NewSyncLoop(
	conf *config.Config,
	syncService *SyncService,
	walletService *WalletService,
	logger *zap.Logger,
) *SyncLoop {
	syncConf := conf.Sync
	if syncConf.IntervalMinutes <= 0 {
		syncConf.IntervalMinutes = 10
	}

	return &SyncLoop{
		config:        syncConf,
		syncService:   syncService,
		walletService: walletService,
		logger:        logger,
		startTime:     time.Now(),
		isRunning:     false,
		stopChan:      make(chan struct{}),
	}
}

// Start 启动同步循环
func (t *SyncLoop) Start(ctx context.Context) error {
	if t.isRunning {
		return fmt.Errorf("sync loop is already running")
	}

	t.isRunning = true
	t.startTime = time.Now()
	t.stopChan = make(chan struct{})
	t.ctx, t.cancel = context.WithCancel(ctx)

	// 生成 cron 表达式：每 N 分钟的整点执行
	// 例如 interval=10: "*/10 * * * *" 表示每小时的 0, 10, 20, 30, 40, 50 分执行
	cronExpr := fmt.Sprintf("*/%d * * * *", t.config.IntervalMinutes)

	t.logger.Info("sync loop started",
		zap.Int("interval_minutes", t.config.IntervalMinutes),
		zap.String("cron_expression", cronExpr))

	t.cron = cron.New()

	_, err := t.cron.AddFunc(cronExpr, func() {
		if err := t.ExecuteCycle(context.Background()); err != nil {
			t.logger.Error("sync cycle failed", zap.Error(err))
		}
	})
	if err != nil {
		t.isRunning = false
		return fmt.Errorf("failed to add cron job: %w", err)
	}

	t.cron.Start()

	// 立即执行第一次
	go func() {
		if err := t.ExecuteCycle(context.Background()); err != nil {
			t.logger.Error("first sync cycle failed", zap.Error(err))
		}
	}()

	// 等待停止信号
	select {
	case <-t.stopChan:
		t.logger.Info("sync loop stopped by user")
		return nil
	case <-ctx.Done():
		t.logger.Info("sync loop stopped by context")
		return ctx.Err()
	}
}

// Stop 停止同步循环
func (t *SyncLoop) Stop() {
	if !t.isRunning {
		return
	}

	t.logger.Info("stopping sync loop...")

	if t.cron != nil {
		ctx := t.cron.Stop()
		<-ctx.Done() // 等待所有任务完成
		t.logger.Info("cron scheduler stopped")
	}

	if t.cancel != nil {
		t.cancel()
	}

	t.isRunning = false
	close(t.stopChan)
	t.logger.Info("sync loop stopped")
}

// IsRunning 同步循环是否在运行
func (t *SyncLoop) IsRunning() bool {
	return t.isRunning
}

// ExecuteCycle 执行一次批量同步
func (t *SyncLoop) ExecuteCycle(ctx context.Context) error {
	cycleStart := time.Now()
	t.logger.Info("========== SYNC CYCLE START ==========",
		zap.Time("start_time", cycleStart))

	result, err := t.syncService.SyncAllWallets(ctx)
	if err != nil {
		return fmt.Errorf("batch sync failed: %w", err)
	}

	t.lastRunAt = cycleStart
	t.lastBatch = result

	if t.OnBatchCompleted != nil {
		t.OnBatchCompleted(result)
	}

	t.logger.Info("========== SYNC CYCLE END ==========",
		zap.Duration("elapsed", time.Since(cycleStart)),
		zap.Int("total", result.Total),
		zap.Int("success", result.Success),
		zap.Int("failed", result.Failed))
	return nil
}

// GetStatus 获取同步循环状态
func (t *SyncLoop) GetStatus(ctx context.Context) (map[string]interface{}, error) {
	wallets, err := t.walletService.ListWallets(ctx)
	if err != nil {
		return nil, err
	}

	status := map[string]interface{}{
		"running":          t.isRunning,
		"interval_minutes": t.config.IntervalMinutes,
		"start_time":       t.startTime,
		"wallet_count":     len(wallets),
	}
	if !t.lastRunAt.IsZero() {
		status["last_run_at"] = t.lastRunAt
	}
	if t.lastBatch != nil {
		status["last_batch"] = t.lastBatch
	}
	return status, nil
}
