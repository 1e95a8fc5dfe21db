package exchange

// 通用成交类型定义，独立于任何特定交易所
// 这样可以方便地支持多个交易所（Hyperliquid、dYdX等）

// FillSide 成交方向标记
type FillSide string

const (
	FillSideBuy  FillSide = "B" // 买入
	FillSideSell FillSide = "A" // 卖出
)

// String 方法用于日志输出
func (s FillSide) String() string {
	return string(s)
}

// Fill 交易所返回的单笔成交记录
type Fill struct {
	Coin    string   `json:"coin"`              // 币种
	Side    FillSide `json:"side"`              // B=买入 A=卖出
	Px      string   `json:"px"`                // 成交价格
	Sz      string   `json:"sz"`                // 成交数量
	Fee     string   `json:"fee"`               // 手续费
	Time    int64    `json:"time"`              // 成交时间（毫秒时间戳）
	Hash    string   `json:"hash"`              // 成交哈希
	Oid     int64    `json:"oid"`               // 订单ID
	Tid     int64    `json:"tid"`               // 成交ID
	Dir     string   `json:"dir"`               // 方向描述，如 Open Long
	Crossed *bool    `json:"crossed,omitempty"` // 全仓/逐仓标记，可能缺失
}
