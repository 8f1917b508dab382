package analytics

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"StockPulse/pkg/model"
)

// 预测窗口参数
const (
	predictorHistoryLimit = 365 // 取最近一年的日线
	predictorMinCloses    = 60  // 少于60条有效收盘价不做预测
	windowDay             = 30
	windowMonth           = 90
)

// Predictor 趋势预测器：移动平均加随机扰动的占位模型
type Predictor struct {
	reader BarReader
	rng    *rand.Rand
}

// NewPredictor 创建趋势预测器。rng可注入以便测试，传nil则使用时间种子。
func NewPredictor(reader BarReader, rng *rand.Rand) *Predictor {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Predictor{
		reader: reader,
		rng:    rng,
	}
}

// Predict 基于库内历史收盘价预测收盘价。
// horizon取值day/month，其余值直接取序列末位。
func (p *Predictor) Predict(symbol string, horizon string) (*model.Prediction, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return nil, fmt.Errorf("股票代码不能为空")
	}

	// 取最近365条，按日期倒序（新→旧）
	bars, err := p.reader.QueryRange(symbol, nil, nil, predictorHistoryLimit)
	if err != nil {
		return nil, fmt.Errorf("查询历史日线失败: %w", err)
	}

	// 按返回顺序提取有效收盘价（新→旧）
	closes := make([]float64, 0, len(bars))
	for _, bar := range bars {
		if bar.Close != nil {
			closes = append(closes, *bar.Close)
		}
	}

	if len(closes) < predictorMinCloses {
		return nil, ErrInsufficientData
	}

	var pred float64
	switch horizon {
	case "day":
		pred = tailMean(closes, windowDay)
	case "month":
		pred = tailMean(closes, windowMonth)
	default:
		pred = closes[len(closes)-1]
	}

	// 乘性扰动模拟模型不确定性
	sigma := 0.03
	if horizon == "day" {
		sigma = 0.01
	}
	pred *= 1 + p.rng.NormFloat64()*sigma

	return &model.Prediction{
		Symbol:         symbol,
		Horizon:        horizon,
		PredictedClose: round2(pred),
	}, nil
}

// tailMean 取序列末尾window个元素的均值，不足window则取全部
func tailMean(values []float64, window int) float64 {
	if len(values) >= window {
		values = values[len(values)-window:]
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
