package internal

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/dushixiang/lens/internal/config"
	"github.com/dushixiang/lens/internal/handler"
	lensmiddleware "github.com/dushixiang/lens/internal/middleware"
	"github.com/dushixiang/lens/internal/models"
	"github.com/dushixiang/lens/internal/service"
	"github.com/dushixiang/lens/internal/telegram"
	"github.com/dushixiang/lens/pkg/nostd"
	"github.com/dushixiang/lens/web"
	"github.com/go-orz/orz"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

func Run(configPath string) error {
	app := NewLensApp()

	framework, err := orz.NewFramework(
		orz.WithConfig(configPath),
		orz.WithLoggerFromConfig(),
		orz.WithDatabase(),
		orz.WithHTTP(),
		orz.WithApplication(app),
	)
	if err != nil {
		return err
	}

	return framework.Run()
}

func NewLensApp() orz.Application {
	return &LensApp{}
}

var _ orz.Application = (*LensApp)(nil)

type AppComponents struct {
	WalletHandler *handler.WalletHandler
	AuthHandler   *handler.AuthHandler
	SetupHandler  *handler.SetupHandler

	SyncLoop      *service.SyncLoop
	SyncService   *service.SyncService
	WalletService *service.WalletService
	AuthService   *service.AuthService

	tg *telegram.Telegram
}

type LensApp struct {
	components *AppComponents
	conf       *config.Config
}

// GetComponents 获取应用组件
func (r *LensApp) GetComponents() *AppComponents {
	return r.components
}

func (r *LensApp) Configure(app *orz.App) error {
	logger := app.Logger()
	e := app.GetEcho()
	db := app.GetDatabase()

	var conf config.Config
	err := app.GetConfig().App.Unmarshal(&conf)
	if err != nil {
		return fmt.Errorf("failed to unmarshal config: %v", err)
	}

	components, err := InitializeApp(logger, db, &conf)
	if err != nil {
		return fmt.Errorf("failed to initialize app: %v", err)
	}
	r.components = components
	r.conf = &conf

	if err := db.AutoMigrate(
		models.AdminUser{}, models.Wallet{}, models.Transaction{},
		&models.Position{}, models.RiskMetrics{}, models.PortfolioSnapshot{},
	); err != nil {
		logger.Fatal("database auto migrate failed", zap.Error(err))
	}

	if err := r.Init(logger); err != nil {
		logger.Fatal("app init failed", zap.Error(err))
	}

	e.HidePort = true
	e.HideBanner = true

	e.Use(middleware.Gzip())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		Skipper:      middleware.DefaultSkipper,
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodHead, http.MethodPut, http.MethodPatch, http.MethodPost, http.MethodDelete},
	}))
	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		LogErrorFunc: func(c echo.Context, err error, stack []byte) error {
			sugar := logger.Sugar()
			sugar.Error(fmt.Sprintf("[PANIC RECOVER] %v %s\n", err, stack))
			return err
		},
	}))
	e.Use(WithErrorHandler(logger))
	customValidator := nostd.CustomValidator{Validator: validator.New()}
	if err := customValidator.TransInit(); err != nil {
		logger.Sugar().Fatal("failed to init custom validator", zap.Error(err))
	}
	e.Validator = &customValidator

	e.Use(middleware.StaticWithConfig(middleware.StaticConfig{
		Skipper: func(c echo.Context) bool {
			path := c.Request().RequestURI
			if strings.HasPrefix(path, "/api") {
				return true
			}
			return false
		},
		Root:       "",
		Index:      "index.html",
		HTML5:      true,
		Browse:     false,
		IgnoreBase: false,
		Filesystem: http.FS(web.Assets()),
	}))

	api := e.Group("/api")
	api.Use(lensmiddleware.RateLimit(lensmiddleware.RateLimitConfig{
		Requests: conf.RateLimit.Requests,
		Window:   time.Duration(conf.RateLimit.WindowSeconds) * time.Second,
		Logger:   logger,
	}))
	{
		// 公开接口
		r.components.SetupHandler.RegisterRoutes(api)
		r.components.AuthHandler.RegisterRoutes(api)

		// 需要登录的接口
		protected := api.Group("")
		protected.Use(lensmiddleware.JWTAuth(lensmiddleware.JWTAuthConfig{
			AuthService: r.components.AuthService,
			Logger:      logger,
		}))
		r.components.AuthHandler.RegisterProtectedRoutes(protected.Group("/auth"))
		r.components.WalletHandler.RegisterRoutes(protected)
	}

	return nil
}

func (r *LensApp) Init(logger *zap.Logger) error {
	logger.Info("=================================================")
	logger.Info("Lens Wallet Analytics Starting...")
	logger.Info("=================================================")

	components := r.GetComponents()
	if components == nil {
		return fmt.Errorf("components not initialized")
	}

	if components.SyncLoop == nil {
		return fmt.Errorf("sync loop not available, please check Hyperliquid configuration")
	}

	if components.tg != nil {
		components.tg.StatusProvider = func() string {
			status, err := components.SyncLoop.GetStatus(context.Background())
			if err != nil {
				return "状态获取失败"
			}
			return fmt.Sprintf("运行中: %v, 钱包数: %v", status["running"], status["wallet_count"])
		}

		chatId := r.conf.Telegram.ChatID
		components.SyncLoop.OnBatchCompleted = func(result *service.BatchSyncResult) {
			msg := telegram.FormatBatchReport(result.Total, result.Success, result.Failed, time.Now())
			if err := components.tg.Notify(chatId, msg); err != nil {
				logger.Warn("failed to send telegram notification", zap.Error(err))
			}
		}

		components.tg.Start()
	}

	if !r.conf.Sync.Enabled {
		logger.Info("periodic sync disabled, waiting for manual sync via API")
		return nil
	}

	logger.Info("sync loop initialized, starting...")

	go func() {
		if err := components.SyncLoop.Start(context.Background()); err != nil {
			logger.Error("sync loop error", zap.Error(err))
		}
	}()
	return nil
}
