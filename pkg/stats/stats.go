package stats

import "math"

// TradingDaysPerYear 年化系数按252个交易日惯例
const TradingDaysPerYear = 252

// Mean 计算均值
func Mean(s []float64) float64 {
	if len(s) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range s {
		sum += v
	}
	return sum / float64(len(s))
}

// StdDev 计算总体标准差
func StdDev(s []float64) float64 {
	if len(s) == 0 {
		return 0
	}
	mean := Mean(s)
	variance := 0.0
	for _, v := range s {
		variance += math.Pow(v-mean, 2)
	}
	variance /= float64(len(s))
	return math.Sqrt(variance)
}

// AnnualizedVolatility 年化波动率 = 收益率标准差 × √252
func AnnualizedVolatility(returns []float64) float64 {
	return StdDev(returns) * math.Sqrt(TradingDaysPerYear)
}

// DownsideDeviation 下行标准差，仅统计低于目标收益的部分
func DownsideDeviation(returns []float64, target float64) float64 {
	if len(returns) == 0 {
		return 0
	}
	sum := 0.0
	for _, r := range returns {
		if r < target {
			sum += math.Pow(r-target, 2)
		}
	}
	return math.Sqrt(sum / float64(len(returns)))
}

// MaxDrawdown 计算净值序列的最大峰谷回撤比例（0~1）
func MaxDrawdown(equity []float64) float64 {
	maxDD := 0.0
	peak := math.Inf(-1)
	for _, v := range equity {
		if v > peak {
			peak = v
		}
		if peak > 0 {
			if dd := (peak - v) / peak; dd > maxDD {
				maxDD = dd
			}
		}
	}
	return maxDD
}

// SharpeRatio 夏普比率 = (均值收益 - 无风险利率) / 标准差
// 标准差为0时返回0
func SharpeRatio(returns []float64, riskFreeRate float64) float64 {
	stdDev := StdDev(returns)
	if stdDev == 0 {
		return 0
	}
	return (Mean(returns) - riskFreeRate) / stdDev
}

// SortinoRatio 索提诺比率 = (均值收益 - 无风险利率) / 下行标准差
// 下行标准差为0时返回0
func SortinoRatio(returns []float64, riskFreeRate float64) float64 {
	dd := DownsideDeviation(returns, riskFreeRate)
	if dd == 0 {
		return 0
	}
	return (Mean(returns) - riskFreeRate) / dd
}

// Herfindahl 计算HHI集中度指数 = Σ(份额²)，取值0~1
// 总值为0时返回0
func Herfindahl(values []float64) float64 {
	total := 0.0
	for _, v := range values {
		total += v
	}
	if total <= 0 {
		return 0
	}
	hhi := 0.0
	for _, v := range values {
		share := v / total
		hhi += share * share
	}
	return hhi
}
