package stock

import (
	"fmt"
	"log"
	"math"
	"strconv"

	"StockPulse/pkg/collector"
	"StockPulse/pkg/model"
)

// NormalizeBars 将原始日线数据转换为统一数据模型。
// 单条价格字段解析失败则跳过该条，四个价格全为空也跳过。
func NormalizeBars(symbol string, raw []collector.RawBar) []*model.StockBar {
	result := make([]*model.StockBar, 0, len(raw))

	for _, r := range raw {
		// 成交量解析失败不影响整条记录
		var volume *int64
		if r.Volume != nil {
			if v, err := toFloat64(r.Volume); err == nil {
				vi := int64(v)
				volume = &vi
			}
		}

		openPrice, errOpen := coercePrice(r.Open)
		highPrice, errHigh := coercePrice(r.High)
		lowPrice, errLow := coercePrice(r.Low)
		closePrice, errClose := coercePrice(r.Close)

		// 任一价格解析失败，跳过整条记录
		if err := firstError(errOpen, errHigh, errLow, errClose); err != nil {
			log.Printf("解析价格数据失败: 股票=%s, 日期=%s, 错误=%v\n",
				symbol, r.Date.Format("2006-01-02"), err)
			continue
		}

		// 四个价格全为空则丢弃
		if openPrice == nil && highPrice == nil && lowPrice == nil && closePrice == nil {
			continue
		}

		result = append(result, &model.StockBar{
			Symbol: symbol,
			Date:   r.Date,
			Open:   openPrice,
			High:   highPrice,
			Low:    lowPrice,
			Close:  closePrice,
			Volume: volume,
		})
	}

	return result
}

// coercePrice 将原始价格解析为两位小数，空值返回nil
func coercePrice(v interface{}) (*float64, error) {
	if v == nil {
		return nil, nil
	}
	f, err := toFloat64(v)
	if err != nil {
		return nil, err
	}
	rounded := round2(f)
	return &rounded, nil
}

// firstError 返回第一个非空错误
func firstError(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

// toFloat64 将接口类型转换为float64
func toFloat64(v interface{}) (float64, error) {
	switch value := v.(type) {
	case float64:
		return value, nil
	case float32:
		return float64(value), nil
	case int:
		return float64(value), nil
	case int64:
		return float64(value), nil
	case string:
		return strconv.ParseFloat(value, 64)
	default:
		return 0, fmt.Errorf("无法转换为float64: %v", v)
	}
}

// round2 四舍五入保留两位小数
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
