package analytics

import (
	"errors"
	"fmt"
	"math"
	"time"

	"StockPulse/pkg/model"
)

// 统计与预测的错误类别
var (
	// ErrNoData 统计窗口内没有数据
	ErrNoData = errors.New("没有可用数据")
	// ErrInsufficientData 可用数据不足以做预测
	ErrInsufficientData = errors.New("数据不足")
)

// BarReader 日线数据查询接口
type BarReader interface {
	QueryRange(symbol string, startDate, endDate *time.Time, limit int) ([]*model.StockBar, error)
}

// Aggregator 统计聚合器，每次请求基于库内数据即时计算
type Aggregator struct {
	reader BarReader
}

// NewAggregator 创建统计聚合器
func NewAggregator(reader BarReader) *Aggregator {
	return &Aggregator{reader: reader}
}

// Compute 计算最近days天窗口内的统计摘要
func (a *Aggregator) Compute(symbol string, days int) (*model.Statistics, error) {
	if days <= 0 {
		days = 30
	}

	// 窗口边界取自然日，和存储的date字段对齐，今天-days当天含在窗口内
	endDate := time.Now().UTC().Truncate(24 * time.Hour)
	startDate := endDate.AddDate(0, 0, -days)

	// 按日期倒序返回
	bars, err := a.reader.QueryRange(symbol, &startDate, &endDate, 0)
	if err != nil {
		return nil, fmt.Errorf("查询统计窗口失败: %w", err)
	}
	if len(bars) == 0 {
		return nil, ErrNoData
	}

	var prices []float64
	var volumes []int64
	var dailyChanges []float64

	// 反转为时间正序后单次遍历
	for i := 0; i < len(bars); i++ {
		bar := bars[len(bars)-1-i]

		if bar.Close != nil {
			prices = append(prices, *bar.Close)

			// 日涨跌幅 = (收盘-开盘)/开盘 * 100
			if i > 0 && bar.Open != nil {
				dailyChange := (*bar.Close - *bar.Open) / *bar.Open * 100
				dailyChanges = append(dailyChanges, dailyChange)
			}
		}

		if bar.Volume != nil {
			volumes = append(volumes, *bar.Volume)
		}
	}

	stats := &model.Statistics{
		Symbol:       symbol,
		TotalRecords: len(bars),
		DateRange: model.DateRange{
			// 原始倒序列表的首尾即窗口的最新/最早日期
			Start: bars[len(bars)-1].Date.Format("2006-01-02"),
			End:   bars[0].Date.Format("2006-01-02"),
		},
	}

	if len(prices) > 0 {
		stats.PriceStats = computePriceStats(prices)
	}

	if len(volumes) > 0 {
		stats.VolumeStats = computeVolumeStats(volumes)
	}

	if len(dailyChanges) > 0 {
		stats.PerformanceStats = computePerformanceStats(dailyChanges)
	}

	return stats, nil
}

func computePriceStats(prices []float64) *model.PriceStats {
	highest := prices[0]
	lowest := prices[0]
	sum := 0.0
	for _, p := range prices {
		if p > highest {
			highest = p
		}
		if p < lowest {
			lowest = p
		}
		sum += p
	}

	var change float64
	if len(prices) > 1 {
		change = prices[len(prices)-1] - prices[0]
	}
	var changePercent float64
	if prices[0] != 0 {
		changePercent = change / prices[0] * 100
	}

	return &model.PriceStats{
		Current:       round2(prices[len(prices)-1]),
		Opening:       round2(prices[0]),
		Highest:       round2(highest),
		Lowest:        round2(lowest),
		Average:       round2(sum / float64(len(prices))),
		Change:        round2(change),
		ChangePercent: round2(changePercent),
	}
}

func computeVolumeStats(volumes []int64) *model.VolumeStats {
	highest := volumes[0]
	var total int64
	for _, v := range volumes {
		if v > highest {
			highest = v
		}
		total += v
	}

	return &model.VolumeStats{
		Average: total / int64(len(volumes)),
		Highest: highest,
		Total:   total,
	}
}

func computePerformanceStats(dailyChanges []float64) *model.PerformanceStats {
	var positive, negative int
	sum := 0.0
	for _, c := range dailyChanges {
		if c > 0 {
			positive++
		} else if c < 0 {
			negative++
		}
		sum += c
	}

	return &model.PerformanceStats{
		PositiveDays:   positive,
		NegativeDays:   negative,
		PositiveRatio:  round1(float64(positive) / float64(len(dailyChanges)) * 100),
		AvgDailyChange: round2(sum / float64(len(dailyChanges))),
	}
}

// round2 四舍五入保留两位小数
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// round1 四舍五入保留一位小数
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
