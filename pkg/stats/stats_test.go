package stats

import (
	"math"
	"testing"
)

func approx(t *testing.T, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("expecting %v got %v", want, got)
	}
}

func TestMean(t *testing.T) {
	approx(t, Mean([]float64{1, 2, 3}), 2)
	approx(t, Mean(nil), 0)
}

func TestStdDev(t *testing.T) {
	// 总体标准差的经典例子
	approx(t, StdDev([]float64{2, 4, 4, 4, 5, 5, 7, 9}), 2)
	approx(t, StdDev([]float64{5, 5, 5}), 0)
	approx(t, StdDev(nil), 0)
}

func TestAnnualizedVolatility(t *testing.T) {
	returns := []float64{2, 4, 4, 4, 5, 5, 7, 9}
	approx(t, AnnualizedVolatility(returns), 2*math.Sqrt(252))
	approx(t, AnnualizedVolatility(nil), 0)
}

func TestMaxDrawdown(t *testing.T) {
	// 峰值120，谷值80
	approx(t, MaxDrawdown([]float64{100, 120, 90, 110, 80}), 40.0/120.0)

	// 单调上涨没有回撤
	approx(t, MaxDrawdown([]float64{100, 110, 120}), 0)

	approx(t, MaxDrawdown(nil), 0)
}

func TestSharpeRatio(t *testing.T) {
	// mean=0.02 std=0.01
	approx(t, SharpeRatio([]float64{0.01, 0.03}, 0), 2)

	// 标准差为0时返回0而不是无穷
	approx(t, SharpeRatio([]float64{0.01, 0.01, 0.01}, 0), 0)
	approx(t, SharpeRatio(nil, 0), 0)
}

func TestSortinoRatio(t *testing.T) {
	returns := []float64{0.02, -0.01}
	downside := math.Sqrt(0.0001 / 2)
	approx(t, SortinoRatio(returns, 0), 0.005/downside)

	// 没有下行波动时返回0
	approx(t, SortinoRatio([]float64{0.01, 0.02}, 0), 0)
}

func TestDownsideDeviation(t *testing.T) {
	approx(t, DownsideDeviation([]float64{0.02, -0.01}, 0), math.Sqrt(0.0001/2))
	approx(t, DownsideDeviation(nil, 0), 0)
}

func TestHerfindahl(t *testing.T) {
	// 单一持仓集中度为1
	approx(t, Herfindahl([]float64{100}), 1)

	// 两等份
	approx(t, Herfindahl([]float64{50, 50}), 0.5)

	// 四等份
	approx(t, Herfindahl([]float64{25, 25, 25, 25}), 0.25)

	approx(t, Herfindahl(nil), 0)
	approx(t, Herfindahl([]float64{0, 0}), 0)
}
