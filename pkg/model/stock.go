package model

import (
	"time"
)

// StockBar 股票日线数据，(symbol, date) 唯一
type StockBar struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Symbol    string    `gorm:"size:10;not null;index;uniqueIndex:uq_symbol_date" json:"symbol"`
	Date      time.Time `gorm:"type:date;not null;index;uniqueIndex:uq_symbol_date" json:"date"`
	Open      *float64  `json:"open"`
	High      *float64  `json:"high"`
	Low       *float64  `json:"low"`
	Close     *float64  `json:"close"`
	Volume    *int64    `gorm:"type:bigint" json:"volume"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName 指定表名
func (StockBar) TableName() string {
	return "stock_bars"
}

// BarRecord 对外输出的单条日线数据
type BarRecord struct {
	Date   string   `json:"date"`
	Open   *float64 `json:"open"`
	High   *float64 `json:"high"`
	Low    *float64 `json:"low"`
	Close  *float64 `json:"close"`
	Volume *int64   `json:"volume"`
}

// ToRecord 转换为对外输出格式
func (b *StockBar) ToRecord() BarRecord {
	return BarRecord{
		Date:   b.Date.Format("2006-01-02"),
		Open:   b.Open,
		High:   b.High,
		Low:    b.Low,
		Close:  b.Close,
		Volume: b.Volume,
	}
}

// DateRange 统计窗口覆盖的日期区间
type DateRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// PriceStats 价格统计
type PriceStats struct {
	Current       float64 `json:"current"`
	Opening       float64 `json:"opening"`
	Highest       float64 `json:"highest"`
	Lowest        float64 `json:"lowest"`
	Average       float64 `json:"average"`
	Change        float64 `json:"change"`
	ChangePercent float64 `json:"change_percent"`
}

// VolumeStats 成交量统计
type VolumeStats struct {
	Average int64 `json:"average"`
	Highest int64 `json:"highest"`
	Total   int64 `json:"total"`
}

// PerformanceStats 涨跌表现统计
type PerformanceStats struct {
	PositiveDays   int     `json:"positive_days"`
	NegativeDays   int     `json:"negative_days"`
	PositiveRatio  float64 `json:"positive_ratio"`
	AvgDailyChange float64 `json:"avg_daily_change"`
}

// Statistics 股票统计摘要，每次请求即时计算，不落库
type Statistics struct {
	Symbol           string            `json:"symbol"`
	TotalRecords     int               `json:"total_records"`
	DateRange        DateRange         `json:"date_range"`
	PriceStats       *PriceStats       `json:"price_stats,omitempty"`
	VolumeStats      *VolumeStats      `json:"volume_stats,omitempty"`
	PerformanceStats *PerformanceStats `json:"performance_stats,omitempty"`
}

// Prediction 趋势预测结果
type Prediction struct {
	Symbol         string  `json:"symbol"`
	Horizon        string  `json:"horizon"`
	PredictedClose float64 `json:"predicted_close"`
}
