package stock

import (
	"fmt"
	"log"
	"strings"
	"time"

	"StockPulse/pkg/collector"
	"StockPulse/pkg/model"
)

// BarStore 日线数据存储接口
type BarStore interface {
	UpsertBatch(symbol string, bars []*model.StockBar) error
}

// EventPublisher 入库事件发布接口
type EventPublisher interface {
	PublishIngested(event IngestedEvent) error
}

// IngestedEvent 入库完成事件
type IngestedEvent struct {
	Symbol     string    `json:"symbol"`
	Records    int       `json:"records"`
	IngestedAt time.Time `json:"ingested_at"`
}

// Ingestor 日线数据入库器：获取 → 规范化 → 入库
type Ingestor struct {
	fetcher   collector.BarFetcher
	store     BarStore
	publisher EventPublisher // 可为nil
}

// NewIngestor 创建入库器
func NewIngestor(fetcher collector.BarFetcher, store BarStore, publisher EventPublisher) *Ingestor {
	return &Ingestor{
		fetcher:   fetcher,
		store:     store,
		publisher: publisher,
	}
}

// Ingest 拉取最近months个月（months*30天）的历史日线并入库，
// 返回实际入库的记录数。整批入库失败时不产生任何持久化变更。
func (g *Ingestor) Ingest(symbol string, months int) (int, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return 0, ErrInvalidSymbol
	}
	if months <= 0 {
		months = 3
	}

	// 先探测代码有效性，无效则快速失败
	valid, err := g.fetcher.Validate(symbol)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}
	if !valid {
		return 0, ErrInvalidSymbol
	}

	endDate := time.Now()
	startDate := endDate.AddDate(0, 0, -months*30)

	raw, err := g.fetcher.FetchDaily(symbol, startDate, endDate)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}
	if len(raw) == 0 {
		return 0, ErrFetchFailed
	}

	log.Printf("获取历史日线成功: 股票=%s, 原始记录=%d\n", symbol, len(raw))

	bars := NormalizeBars(symbol, raw)

	if err := g.store.UpsertBatch(symbol, bars); err != nil {
		return 0, fmt.Errorf("保存日线数据失败: %w", err)
	}

	if g.publisher != nil {
		event := IngestedEvent{
			Symbol:     symbol,
			Records:    len(bars),
			IngestedAt: time.Now(),
		}
		if err := g.publisher.PublishIngested(event); err != nil {
			// 事件发布失败不影响入库结果
			log.Printf("发布入库事件失败: 股票=%s, 错误=%v\n", symbol, err)
		}
	}

	return len(bars), nil
}
