package collector

import (
	"fmt"
	"time"
)

// YahooAdapter Yahoo Finance数据源适配器
type YahooAdapter struct {
	client *YahooClient
}

// NewYahooAdapter 创建Yahoo适配器
func NewYahooAdapter(baseURL string, timeout time.Duration) *YahooAdapter {
	return &YahooAdapter{
		client: NewYahooClient(baseURL, timeout),
	}
}

// Validate 探测股票代码是否有效
func (y *YahooAdapter) Validate(symbol string) (bool, error) {
	if symbol == "" {
		return false, fmt.Errorf("股票代码不能为空")
	}

	result, err := y.client.GetQuoteMeta(symbol)
	if err != nil {
		return false, nil
	}

	// 无实时价格视为无效代码
	return result.Meta.RegularMarketPrice != nil, nil
}

// FetchDaily 获取指定日期区间的历史日线数据
func (y *YahooAdapter) FetchDaily(symbol string, startDate, endDate time.Time) ([]RawBar, error) {
	if symbol == "" {
		return nil, fmt.Errorf("股票代码不能为空")
	}

	result, err := y.client.GetChart(symbol, startDate.Unix(), endDate.Unix())
	if err != nil {
		return nil, fmt.Errorf("获取历史日线失败: %w", err)
	}

	if len(result.Timestamp) == 0 || len(result.Indicators.Quote) == 0 {
		return nil, nil
	}

	quote := result.Indicators.Quote[0]
	bars := make([]RawBar, 0, len(result.Timestamp))

	for i, ts := range result.Timestamp {
		bar := RawBar{
			Date: time.Unix(ts, 0).UTC().Truncate(24 * time.Hour),
		}
		if i < len(quote.Open) {
			bar.Open = quote.Open[i]
		}
		if i < len(quote.High) {
			bar.High = quote.High[i]
		}
		if i < len(quote.Low) {
			bar.Low = quote.Low[i]
		}
		if i < len(quote.Close) {
			bar.Close = quote.Close[i]
		}
		if i < len(quote.Volume) {
			bar.Volume = quote.Volume[i]
		}
		bars = append(bars, bar)
	}

	return bars, nil
}
