package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// 持仓方向
const (
	PositionSideLong  = "long"
	PositionSideShort = "short"
)

// 持仓状态
const (
	PositionStatusOpen   = "open"
	PositionStatusClosed = "closed"
)

// 保证金类型
const (
	MarginTypeCross    = "cross"
	MarginTypeIsolated = "isolated"
)

// Position 从成交记录还原出的持仓
type Position struct {
	ID            string          `gorm:"primaryKey;type:varchar(26)" json:"id"`
	WalletID      string          `gorm:"type:varchar(26);not null;index" json:"wallet_id"`
	Asset         string          `gorm:"size:20;not null;index" json:"asset"`          // 币种
	Side          string          `gorm:"size:10;not null" json:"side"`                 // long/short
	Status        string          `gorm:"size:10;not null;index" json:"status"`         // open/closed
	Quantity      decimal.Decimal `gorm:"type:decimal(38,18);not null" json:"quantity"` // 持仓数量，开仓期间恒≥0
	EntryPrice    decimal.Decimal `gorm:"type:decimal(38,18);not null" json:"entry_price"`
	CurrentPrice  decimal.Decimal `gorm:"type:decimal(38,18)" json:"current_price"`  // 当前价格，仅开仓时有值
	MarginType    string          `gorm:"size:10;not null" json:"margin_type"`       // cross/isolated
	RealizedPnl   decimal.Decimal `gorm:"type:decimal(38,18)" json:"realized_pnl"`   // 已实现盈亏，仅平仓后有值
	UnrealizedPnl decimal.Decimal `gorm:"type:decimal(38,18)" json:"unrealized_pnl"` // 未实现盈亏，仅开仓时有值
	OpenedAt      time.Time       `gorm:"not null" json:"opened_at"`                 // 开仓时间
	ClosedAt      *time.Time      `json:"closed_at"`                                 // 平仓时间
	CreatedAt     time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt     gorm.DeletedAt  `gorm:"index" json:"deleted_at,omitempty"`
}

// TableName 指定表名
func (*Position) TableName() string {
	return "positions"
}

// Pnl 计算指定出场价和数量下的盈亏
// 做空时价格变动反向
func (p *Position) Pnl(exitPrice, quantity decimal.Decimal) decimal.Decimal {
	diff := exitPrice.Sub(p.EntryPrice)
	if p.Side == PositionSideShort {
		diff = diff.Neg()
	}
	return diff.Mul(quantity)
}

// NotionalValue 持仓市值（当前价格 × 数量）
func (p *Position) NotionalValue() decimal.Decimal {
	return p.CurrentPrice.Mul(p.Quantity)
}

// CostBasis 持仓成本（开仓价格 × 数量）
func (p *Position) CostBasis() decimal.Decimal {
	return p.EntryPrice.Mul(p.Quantity)
}
