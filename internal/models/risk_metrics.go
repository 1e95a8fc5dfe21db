package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// RiskMetrics 组合风险指标快照，每次同步生成一条全新记录
type RiskMetrics struct {
	ID            string          `gorm:"primaryKey;type:varchar(26)" json:"id"`
	WalletID      string          `gorm:"type:varchar(26);not null;index" json:"wallet_id"`
	Volatility    float64         `gorm:"type:decimal(10,6)" json:"volatility"`           // 年化波动率
	Drawdown      float64         `gorm:"type:decimal(10,6)" json:"drawdown"`             // 最大回撤（0~1）
	ValueAtRisk   decimal.Decimal `gorm:"type:decimal(38,18)" json:"value_at_risk"`       // 95% VaR（USD）
	SharpeRatio   float64         `gorm:"type:decimal(10,4)" json:"sharpe_ratio"`         // 夏普比率
	SortinoRatio  float64         `gorm:"type:decimal(10,4)" json:"sortino_ratio"`        // 索提诺比率
	Concentration float64         `gorm:"type:decimal(10,6)" json:"concentration"`        // HHI集中度（0~1）
	Timestamp     time.Time       `gorm:"not null;index" json:"timestamp"`                // 计算时间
	CreatedAt     time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt     gorm.DeletedAt  `gorm:"index" json:"deleted_at,omitempty"`
}

// TableName 指定表名
func (RiskMetrics) TableName() string {
	return "risk_metrics"
}
