package collector

import (
	"time"
)

// RawBar 数据源返回的原始日线数据，字段可能缺失或类型不定
type RawBar struct {
	Date   time.Time
	Open   interface{}
	High   interface{}
	Low    interface{}
	Close  interface{}
	Volume interface{}
}

// BarFetcher 历史日线数据获取接口
type BarFetcher interface {
	// Validate 快速探测股票代码是否有效
	Validate(symbol string) (bool, error)
	// FetchDaily 获取指定日期区间的历史日线数据
	FetchDaily(symbol string, startDate, endDate time.Time) ([]RawBar, error)
}
