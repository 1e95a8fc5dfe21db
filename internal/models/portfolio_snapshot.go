package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PortfolioSnapshot 钱包组合净值历史记录，用于资金曲线展示
type PortfolioSnapshot struct {
	ID             string          `gorm:"primaryKey;type:varchar(26)" json:"id"`
	WalletID       string          `gorm:"type:varchar(26);not null;index" json:"wallet_id"`
	PortfolioValue decimal.Decimal `gorm:"type:decimal(38,18);not null" json:"portfolio_value"` // 开仓持仓总市值
	RealizedPnl    decimal.Decimal `gorm:"type:decimal(38,18)" json:"realized_pnl"`             // 累计已实现盈亏
	UnrealizedPnl  decimal.Decimal `gorm:"type:decimal(38,18)" json:"unrealized_pnl"`           // 当前未实现盈亏
	OpenPositions  int             `gorm:"type:int" json:"open_positions"`                      // 开仓持仓数
	Iteration      int             `gorm:"type:int;index" json:"iteration"`                     // 同步周期数
	RecordedAt     time.Time       `gorm:"not null;index" json:"recorded_at"`                   // 记录时间
	CreatedAt      time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt      gorm.DeletedAt  `gorm:"index" json:"deleted_at,omitempty"`
}

// TableName 指定表名
func (PortfolioSnapshot) TableName() string {
	return "portfolio_snapshots"
}
