package exchange

import (
	"context"

	"github.com/shopspring/decimal"
)

// Exchange 交易所接口，定义核心管线需要的市场数据能力
// 使用通用类型，便于支持多个交易所
type Exchange interface {
	// FetchFills 获取指定地址的历史成交记录
	FetchFills(ctx context.Context, address string) ([]*Fill, error)

	// FetchMidPrices 获取全部币种的当前中间价
	FetchMidPrices(ctx context.Context) (map[string]decimal.Decimal, error)
}
