package config

type Config struct {
	Hyperliquid HyperliquidConf `json:"hyperliquid"`
	Sync        SyncConf        `json:"sync"`
	RateLimit   RateLimitConf   `json:"rate_limit"`
	Auth        AuthConf        `json:"auth"`
	Telegram    TelegramConf    `json:"telegram"`
}

type HyperliquidConf struct {
	BaseURL  string `json:"base_url"`  // API地址，为空时根据testnet自动选择
	ProxyURL string `json:"proxy_url"` // 代理地址，例如: http://127.0.0.1:7890
	Testnet  bool   `json:"testnet"`   // 是否使用测试网
}

type SyncConf struct {
	Enabled         bool    `json:"enabled"`          // 是否启用定时同步
	IntervalMinutes int     `json:"interval_minutes"` // 同步周期（分钟），默认10
	RiskFreeRate    float64 `json:"risk_free_rate"`   // 无风险利率，默认0
}

type RateLimitConf struct {
	Requests      int `json:"requests"`       // 窗口内允许的请求数，默认100
	WindowSeconds int `json:"window_seconds"` // 滑动窗口长度（秒），默认60
}

type AuthConf struct {
	JWTSecret string `json:"jwt_secret"` // JWT签名密钥，为空时随机生成
}

type TelegramConf struct {
	Enabled bool   `json:"enabled"`
	Token   string `json:"token"`
	ChatID  string `json:"chat_id"`
}
