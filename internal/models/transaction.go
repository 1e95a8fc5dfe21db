package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// 交易类型
const (
	TransactionTypeTrade      = "trade"
	TransactionTypeDeposit    = "deposit"
	TransactionTypeWithdrawal = "withdrawal"
	TransactionTypeTransfer   = "transfer"
	TransactionTypeOther      = "other"
)

// 交易状态
const (
	TransactionStatusConfirmed = "confirmed"
	TransactionStatusPending   = "pending"
	TransactionStatusFailed    = "failed"
)

// MarketCounterparty 交易对手方哨兵值，from/to 其中一方为它时表示与交易所撮合成交
const MarketCounterparty = "market"

// TransactionMetadata 交易附加信息
type TransactionMetadata struct {
	// Crossed 全仓/逐仓标记，nil 表示交易所未给出
	Crossed *bool `json:"crossed,omitempty"`
}

// Transaction 规范化后的交易记录
type Transaction struct {
	ID        string                                   `gorm:"primaryKey;type:varchar(26)" json:"id"`
	WalletID  string                                   `gorm:"type:varchar(26);not null;index" json:"wallet_id"`
	Hash      string                                   `gorm:"size:100;index" json:"hash"`                      // 交易所成交ID
	Sequence  int64                                    `gorm:"not null" json:"sequence"`                        // 原始成交顺序，时间戳相同时用于稳定排序
	Timestamp time.Time                                `gorm:"not null;index" json:"timestamp"`                 // 成交时间
	From      string                                   `gorm:"size:66;not null" json:"from"`                    // 卖出方，买入成交时为 market
	To        string                                   `gorm:"size:66;not null" json:"to"`                      // 买入方，卖出成交时为 market
	Asset     string                                   `gorm:"size:20;not null;index" json:"asset"`             // 币种
	Value     decimal.Decimal                          `gorm:"type:decimal(38,18);not null" json:"value"`       // 成交数量
	Price     decimal.Decimal                          `gorm:"type:decimal(38,18)" json:"price"`                // 成交价格
	Fee       decimal.Decimal                          `gorm:"type:decimal(38,18)" json:"fee"`                  // 手续费
	Type      string                                   `gorm:"size:20;not null;index" json:"type"`              // trade/deposit/withdrawal/transfer/other
	Status    string                                   `gorm:"size:20;not null" json:"status"`                  // confirmed/pending/failed
	Metadata  datatypes.JSONType[TransactionMetadata]  `gorm:"type:json" json:"metadata"`                       // 附加信息
	CreatedAt time.Time                                `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time                                `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt                           `gorm:"index" json:"deleted_at,omitempty"`
}

// TableName 指定表名
func (Transaction) TableName() string {
	return "transactions"
}

// IsBuy 判断该笔成交是否为买入（钱包为接收方）
func (t *Transaction) IsBuy() bool {
	return t.From == MarketCounterparty
}
