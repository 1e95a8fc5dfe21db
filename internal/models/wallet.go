package models

import (
	"time"

	"gorm.io/gorm"
)

// Wallet 被跟踪的钱包
type Wallet struct {
	ID           string         `gorm:"primaryKey;type:varchar(26)" json:"id"`
	Address      string         `gorm:"uniqueIndex;size:66;not null" json:"address"` // 钱包地址，统一小写
	Label        string         `gorm:"size:100" json:"label"`                       // 备注名称
	LastSyncedAt *time.Time     `json:"last_synced_at"`                              // 最后同步时间
	CreatedAt    time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

// TableName 指定表名
func (Wallet) TableName() string {
	return "wallets"
}
